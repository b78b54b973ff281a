package downloader

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mediavault/infrastructure/storage"
)

func newTestStore(t *testing.T) *storage.MediaStorage {
	t.Helper()
	s, err := storage.NewMediaStorage(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)
	return s
}

func TestDownload_DirectSuccess(t *testing.T) {
	body := bytes.Repeat([]byte("v"), 2*1024*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	store := newTestStore(t)
	d := NewDownloader(store, 30*time.Second, 100*1024)

	var fractions []float64
	name, err := d.Download(context.Background(), srv.URL+"/media/clip.mp4", func(f float64) {
		fractions = append(fractions, f)
	})
	require.NoError(t, err)
	require.Equal(t, "clip.mp4", name)

	saved, err := os.ReadFile(store.Resolve(name))
	require.NoError(t, err)
	require.Equal(t, len(body), len(saved))

	// Progress events precede the terminal result, never decrease and
	// end at 1.
	require.NotEmpty(t, fractions)
	for i := 1; i < len(fractions); i++ {
		require.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	require.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestDownload_SmallFileRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not found</html>"))
	}))
	defer srv.Close()

	store := newTestStore(t)
	d := NewDownloader(store, 30*time.Second, 100*1024)

	_, err := d.Download(context.Background(), srv.URL+"/media/clip.mp4", nil)
	require.ErrorIs(t, err, ErrNotAVideo)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDownload_InvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDownloader(newTestStore(t), 30*time.Second, 100*1024)
	_, err := d.Download(context.Background(), srv.URL+"/media/clip.mp4", nil)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDownload_DASHRejectedWithoutNetwork(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	d := NewDownloader(newTestStore(t), 30*time.Second, 100*1024)
	_, err := d.Download(context.Background(), srv.URL+"/stream/manifest.mpd", nil)
	require.ErrorIs(t, err, ErrDASHUnsupported)
	require.Zero(t, requests)
}

func TestDownload_HLSRejectedOnDirectPath(t *testing.T) {
	d := NewDownloader(newTestStore(t), 30*time.Second, 100*1024)
	_, err := d.Download(context.Background(), "https://cdn.example.com/stream/master.m3u8", nil)
	require.ErrorIs(t, err, ErrHLSNotDirect)
}

func TestDownload_ContentTypeFallbackNamesFile(t *testing.T) {
	body := bytes.Repeat([]byte("v"), 200*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	store := newTestStore(t)
	d := NewDownloader(store, 30*time.Second, 100*1024)

	name, err := d.Download(context.Background(), srv.URL+"/watch", nil)
	require.NoError(t, err)
	require.Equal(t, ".webm", filepath.Ext(name))

	_, err = os.Stat(store.Resolve(name))
	require.NoError(t, err)
}

func TestDownload_UnsupportedContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	d := NewDownloader(newTestStore(t), 30*time.Second, 100*1024)
	_, err := d.Download(context.Background(), srv.URL+"/watch", nil)
	require.ErrorIs(t, err, ErrUnsupported)
}
