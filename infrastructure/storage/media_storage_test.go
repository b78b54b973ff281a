package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaStorage_PromoteFile(t *testing.T) {
	root := t.TempDir()
	s, err := NewMediaStorage(filepath.Join(root, "media"))
	require.NoError(t, err)

	temp := filepath.Join(t.TempDir(), "partial")
	require.NoError(t, os.WriteFile(temp, []byte("payload"), 0o644))

	name := s.FreshName("mp4")
	dest, err := s.Promote(temp, name)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	_, err = os.Stat(temp)
	require.True(t, os.IsNotExist(err))
}

func TestMediaStorage_PromoteDirectory(t *testing.T) {
	s, err := NewMediaStorage(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	bundle := filepath.Join(t.TempDir(), "bundle")
	require.NoError(t, os.MkdirAll(bundle, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundle, "index.m3u8"), []byte("#EXTM3U"), 0o644))

	dest, err := s.Promote(bundle, s.FreshName(""))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "index.m3u8"))
	require.NoError(t, err)
	require.Equal(t, "#EXTM3U", string(data))
}

func TestMediaStorage_TempDirStaysOnRootDevice(t *testing.T) {
	s, err := NewMediaStorage(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	// Bundles built outside the root could land on a different mount,
	// and directory renames cannot fall back to a copy. The working dir
	// must therefore live under the root itself, hidden from listings.
	dir, err := s.TempDir("hls-session")
	require.NoError(t, err)
	require.Equal(t, s.Root(), filepath.Dir(dir))
	require.True(t, strings.HasPrefix(filepath.Base(dir), ".hls-session-"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.m3u8"), []byte("#EXTM3U"), 0o644))
	name := s.FreshName("")
	dest, err := s.Promote(dir, name)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dest, "index.m3u8"))
	require.NoError(t, err)
	_, err = os.Stat(dir)
	require.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, name, entries[0].Name())
}

func TestMediaStorage_ImportCopyKeepsSource(t *testing.T) {
	s, err := NewMediaStorage(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "picked.mov")
	require.NoError(t, os.WriteFile(src, []byte("movie"), 0o644))

	name, err := s.ImportCopy(src)
	require.NoError(t, err)
	require.Equal(t, ".mov", filepath.Ext(name))

	data, err := os.ReadFile(s.Resolve(name))
	require.NoError(t, err)
	require.Equal(t, "movie", string(data))

	// Source belongs to the picker; it must still exist.
	_, err = os.Stat(src)
	require.NoError(t, err)
}

func TestMediaStorage_FreshNamesAreUnique(t *testing.T) {
	s, err := NewMediaStorage(t.TempDir())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := s.FreshName("mp4")
		require.False(t, seen[name])
		seen[name] = true
	}
}

func TestMediaStorage_RemoveAndSize(t *testing.T) {
	s, err := NewMediaStorage(t.TempDir())
	require.NoError(t, err)

	name := s.FreshName("mp4")
	require.NoError(t, os.WriteFile(s.Resolve(name), make([]byte, 2048), 0o644))

	size, err := s.Size(name)
	require.NoError(t, err)
	require.EqualValues(t, 2048, size)

	require.NoError(t, s.Remove(name))
	_, err = s.Size(name)
	require.Error(t, err)
}
