package downloader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported indicates the URL matched no recognized media pattern.
	ErrUnsupported = errors.New("unsupported media url")
	// ErrInvalidResponse indicates a non-success HTTP status.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrNotAVideo indicates the payload was too small to be real media.
	ErrNotAVideo = errors.New("not a video")
	// ErrDASHUnsupported indicates a DASH manifest, which is rejected outright.
	ErrDASHUnsupported = errors.New("dash is unsupported")
	// ErrHLSNotDirect indicates an HLS playlist reached the direct-download
	// path; HLS is acquired through the HLS manager instead.
	ErrHLSNotDirect = errors.New("hls requires the segment download manager")
)

// TransportError wraps a connection or segment transfer failure with a
// descriptive reason.
type TransportError struct {
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport failure: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transport failure: %s", e.Reason)
}

func (e *TransportError) Unwrap() error { return e.Err }
