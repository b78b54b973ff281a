// Package downloader acquires classified media URLs into durable
// storage: direct HTTP byte transfers here, segmented HLS assets in
// hls.go.
package downloader

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"mediavault/domain/media"
	"mediavault/infrastructure/logger"
	"mediavault/infrastructure/storage"
)

// ProgressFunc receives fractions in [0,1]. Zero or more progress calls
// precede the terminal result of a download.
type ProgressFunc func(fraction float64)

type Downloader struct {
	client        *http.Client
	store         *storage.MediaStorage
	minVideoBytes int64
}

func NewDownloader(store *storage.MediaStorage, timeout time.Duration, minVideoBytes int64) *Downloader {
	return &Downloader{
		client:        &http.Client{Timeout: timeout},
		store:         store,
		minVideoBytes: minVideoBytes,
	}
}

// Download fetches a direct media URL into durable storage and returns
// the storage name of the saved file. DASH is rejected without network
// I/O and HLS must go through the HLS manager.
func (d *Downloader) Download(ctx context.Context, rawURL string, onProgress ProgressFunc) (string, error) {
	c := media.Classify(rawURL)
	switch c.Kind {
	case media.KindDASH:
		return "", ErrDASHUnsupported
	case media.KindHLS:
		return "", ErrHLSNotDirect
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &TransportError{Reason: "building request", Err: err}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", &TransportError{Reason: "connecting", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", ErrInvalidResponse
	}

	// The URL alone may not have resolved to a kind; the response
	// Content-Type is the last fallback before giving up.
	if c.Kind == media.KindUnsupported {
		c = media.ClassifyWithContentType(rawURL, resp.Header.Get("Content-Type"))
		if c.Kind == media.KindUnsupported {
			return "", ErrUnsupported
		}
	}

	temp, err := os.CreateTemp("", "mediavault-*")
	if err != nil {
		return "", &TransportError{Reason: "creating temp file", Err: err}
	}
	tempPath := temp.Name()

	written, err := copyWithProgress(temp, resp.Body, resp.ContentLength, onProgress)
	closeErr := temp.Close()
	if err != nil {
		_ = os.Remove(tempPath)
		return "", &TransportError{Reason: "reading body", Err: err}
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return "", &TransportError{Reason: "flushing temp file", Err: closeErr}
	}

	name := d.destinationName(rawURL, c.Ext)
	if _, err := d.store.Promote(tempPath, name); err != nil {
		_ = os.Remove(tempPath)
		return "", &TransportError{Reason: "moving into storage", Err: err}
	}

	// An HTML error page or empty body is not media; never leave it in
	// durable storage.
	if written < d.minVideoBytes {
		if err := d.store.Remove(name); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error": err,
				"name":  name,
			}).Error("Failed removing undersized download")
		}
		return "", ErrNotAVideo
	}

	if onProgress != nil {
		onProgress(1)
	}
	return name, nil
}

// destinationName keeps the URL's own file name when it carries one and
// otherwise generates a fresh unique name with the inferred extension.
func (d *Downloader) destinationName(rawURL, ext string) string {
	if u, err := url.Parse(rawURL); err == nil {
		base := path.Base(u.Path)
		if base != "" && base != "." && base != "/" && path.Ext(base) != "" {
			return base
		}
	}
	if ext == "" {
		ext = "mp4"
	}
	return d.store.FreshName(ext)
}

func copyWithProgress(dst io.Writer, src io.Reader, total int64, onProgress ProgressFunc) (int64, error) {
	buf := make([]byte, 128*1024)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if onProgress != nil && total > 0 {
				f := float64(written) / float64(total)
				if f > 1 {
					f = 1
				}
				onProgress(f)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
