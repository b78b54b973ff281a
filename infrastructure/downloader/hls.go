package downloader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediavault/infrastructure/logger"
	"mediavault/infrastructure/storage"
)

// HLSManager acquires every segment of an HLS asset and assembles a
// locally playable bundle: a rewritten playlist next to its segment
// files, stored as one directory under the media root.
//
// Each Start call runs one session keyed by a fresh unique id; callers
// own the manager for the lifetime of one job, so concurrent sessions
// never share state.
type HLSManager struct {
	client *http.Client
	store  *storage.MediaStorage
}

func NewHLSManager(store *storage.MediaStorage, timeout time.Duration) *HLSManager {
	return &HLSManager{
		client: &http.Client{Timeout: timeout},
		store:  store,
	}
}

type hlsSegment struct {
	uri      string
	duration float64
}

// Start downloads the playlist at hlsURL and all of its segments,
// reporting progress as loaded duration over expected duration, clamped
// to 1. For master playlists the highest-bandwidth variant is chosen:
// no bitrate floor means "best available rendition". Returns the bundle
// storage name.
func (m *HLSManager) Start(ctx context.Context, hlsURL string, onProgress ProgressFunc) (string, error) {
	session := uuid.NewString()

	base, err := url.Parse(hlsURL)
	if err != nil {
		return "", &TransportError{Reason: "parsing playlist url", Err: err}
	}

	body, err := m.fetch(ctx, hlsURL)
	if err != nil {
		return "", err
	}

	playlistURL := base
	if variant := bestVariant(body); variant != "" {
		playlistURL, err = base.Parse(variant)
		if err != nil {
			return "", &TransportError{Reason: "resolving variant url", Err: err}
		}
		body, err = m.fetch(ctx, playlistURL.String())
		if err != nil {
			return "", err
		}
	}

	segments, localPlaylist := parseMediaPlaylist(body)
	if len(segments) == 0 {
		return "", &TransportError{Reason: "playlist has no segments"}
	}

	// The expected total is an estimate from the playlist as parsed;
	// progress is clamped so revisions never report over 100%.
	var expected float64
	for _, seg := range segments {
		expected += seg.duration
	}

	// Assemble inside the media root so promotion never crosses a
	// filesystem boundary; directories cannot fall back to a file copy.
	dir, err := m.store.TempDir("hls-" + session)
	if err != nil {
		return "", &TransportError{Reason: "creating bundle dir", Err: err}
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	var loaded float64
	for i, seg := range segments {
		segURL, err := playlistURL.Parse(seg.uri)
		if err != nil {
			cleanup()
			return "", &TransportError{Reason: fmt.Sprintf("resolving segment %d", i), Err: err}
		}
		if err := m.fetchSegment(ctx, segURL.String(), filepath.Join(dir, segmentFileName(i))); err != nil {
			cleanup()
			return "", err
		}
		loaded += seg.duration
		if onProgress != nil && expected > 0 {
			f := loaded / expected
			if f > 1 {
				f = 1
			}
			onProgress(f)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, "index.m3u8"), []byte(localPlaylist), 0o644); err != nil {
		cleanup()
		return "", &TransportError{Reason: "writing local playlist", Err: err}
	}

	name := m.store.FreshName("")
	if _, err := m.store.Promote(dir, name); err != nil {
		cleanup()
		return "", &TransportError{Reason: "moving bundle into storage", Err: err}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"session":  session,
		"segments": len(segments),
		"bundle":   name,
	}).Info("HLS bundle assembled")
	return name, nil
}

func (m *HLSManager) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &TransportError{Reason: "building request", Err: err}
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", &TransportError{Reason: "fetching playlist", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Reason: fmt.Sprintf("playlist returned status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Reason: "reading playlist", Err: err}
	}
	return string(data), nil
}

func (m *HLSManager) fetchSegment(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &TransportError{Reason: "building segment request", Err: err}
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return &TransportError{Reason: "fetching segment", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Reason: fmt.Sprintf("segment returned status %d", resp.StatusCode)}
	}

	f, err := os.Create(dest)
	if err != nil {
		return &TransportError{Reason: "creating segment file", Err: err}
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return &TransportError{Reason: "writing segment", Err: err}
	}
	return f.Close()
}

func segmentFileName(i int) string {
	return fmt.Sprintf("seg%05d.ts", i)
}

// bestVariant returns the URI of the highest-bandwidth stream in a
// master playlist, or "" when the playlist is already a media playlist.
func bestVariant(playlist string) string {
	var best string
	var bestBandwidth int64 = -1
	var pending int64 = -1

	scanner := bufio.NewScanner(strings.NewReader(playlist))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#EXT-X-STREAM-INF:") {
			pending = parseBandwidth(line)
			continue
		}
		if pending >= 0 && line != "" && !strings.HasPrefix(line, "#") {
			if pending > bestBandwidth {
				bestBandwidth = pending
				best = line
			}
			pending = -1
		}
	}
	return best
}

func parseBandwidth(attrLine string) int64 {
	for _, attr := range strings.Split(strings.TrimPrefix(attrLine, "#EXT-X-STREAM-INF:"), ",") {
		attr = strings.TrimSpace(attr)
		if strings.HasPrefix(attr, "BANDWIDTH=") {
			if n, err := strconv.ParseInt(strings.TrimPrefix(attr, "BANDWIDTH="), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// parseMediaPlaylist extracts the segment list and produces a rewritten
// playlist whose segment URIs point at the local file names.
func parseMediaPlaylist(playlist string) ([]hlsSegment, string) {
	var segments []hlsSegment
	var local strings.Builder
	pendingDuration := -1.0

	scanner := bufio.NewScanner(strings.NewReader(playlist))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#EXTINF:") {
			value := strings.TrimPrefix(line, "#EXTINF:")
			if idx := strings.Index(value, ","); idx >= 0 {
				value = value[:idx]
			}
			if d, err := strconv.ParseFloat(value, 64); err == nil {
				pendingDuration = d
			} else {
				pendingDuration = 0
			}
			local.WriteString(line + "\n")
			continue
		}
		if pendingDuration >= 0 && line != "" && !strings.HasPrefix(line, "#") {
			segments = append(segments, hlsSegment{uri: line, duration: pendingDuration})
			local.WriteString(segmentFileName(len(segments)-1) + "\n")
			pendingDuration = -1
			continue
		}
		local.WriteString(line + "\n")
	}
	return segments, local.String()
}
