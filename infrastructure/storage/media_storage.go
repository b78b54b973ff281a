// Package storage manages the app-private durable media root. Catalog
// records reference files here by name only, so the root can move
// between environments without breaking references.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type MediaStorage struct {
	root string
}

func NewMediaStorage(root string) (*MediaStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root %s: %w", root, err)
	}
	return &MediaStorage{root: root}, nil
}

func (s *MediaStorage) Root() string { return s.root }

// Resolve maps a storage ref to an absolute path under the root.
func (s *MediaStorage) Resolve(ref string) string {
	return filepath.Join(s.root, ref)
}

// FreshName returns a unique storage name with the given extension.
// Names are never reused, so concurrent jobs cannot race on a
// destination.
func (s *MediaStorage) FreshName(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s.%s", uuid.NewString(), ext)
}

// TempDir creates a dot-prefixed working directory under the root.
// Assembling multi-file bundles here keeps the later Promote a
// same-device rename; the system temp dir may be a different mount.
func (s *MediaStorage) TempDir(prefix string) (string, error) {
	return os.MkdirTemp(s.root, "."+prefix+"-*")
}

// Promote moves a temporary file or directory into the root under the
// given name and returns the resolved path. An existing entry with the
// same name is replaced.
func (s *MediaStorage) Promote(tempPath, name string) (string, error) {
	dest := s.Resolve(name)
	if _, err := os.Stat(dest); err == nil {
		if err := os.RemoveAll(dest); err != nil {
			return "", fmt.Errorf("failed to replace %s: %w", name, err)
		}
	}
	if err := os.Rename(tempPath, dest); err != nil {
		// Rename fails across filesystems; fall back to a copy for
		// plain files.
		info, statErr := os.Stat(tempPath)
		if statErr != nil || info.IsDir() {
			return "", fmt.Errorf("failed to move %s into storage: %w", tempPath, err)
		}
		if copyErr := copyFile(tempPath, dest); copyErr != nil {
			return "", fmt.Errorf("failed to copy %s into storage: %w", tempPath, copyErr)
		}
		_ = os.Remove(tempPath)
	}
	return dest, nil
}

// ImportCopy copies an externally owned temporary file (e.g. from the
// file picker) into the root under a fresh name. The source is left in
// place; it is not ours to delete.
func (s *MediaStorage) ImportCopy(srcPath string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(srcPath), ".")
	name := s.FreshName(ext)
	if err := copyFile(srcPath, s.Resolve(name)); err != nil {
		return "", fmt.Errorf("failed to import %s: %w", srcPath, err)
	}
	return name, nil
}

// Remove deletes a stored file or bundle.
func (s *MediaStorage) Remove(name string) error {
	return os.RemoveAll(s.Resolve(name))
}

// Size returns the byte size of a stored file.
func (s *MediaStorage) Size(name string) (int64, error) {
	info, err := os.Stat(s.Resolve(name))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return err
	}
	return out.Close()
}
