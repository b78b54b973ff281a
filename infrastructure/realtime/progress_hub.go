package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mediavault/domain/model"
)

// keepaliveInterval paces the comment frames that keep idle streams
// from being reaped by intermediary proxies.
var keepaliveInterval = 25 * time.Second

// ProgressEvent is the SSE payload for download job updates. Progress
// events for a job, if any, precede its single terminal event.
type ProgressEvent struct {
	Type             string  `json:"type"`
	JobID            string  `json:"job_id"`
	Status           string  `json:"status"`
	ProgressFraction float64 `json:"progress_fraction"`
	VideoID          string  `json:"video_id,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// Hub fans download progress out to SSE subscribers. Subscribers with
// full buffers miss intermediate events rather than blocking the
// pipeline.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan ProgressEvent]struct{}
}

func NewProgressHub() *Hub {
	return &Hub{subs: make(map[chan ProgressEvent]struct{})}
}

// Serve registers an SSE stream delivering every job's events until the
// client disconnects.
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan ProgressEvent, 16)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: download_progress\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-keepalive.C:
			_, _ = c.Writer.Write([]byte(": keepalive\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(ch chan ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
}

func (h *Hub) removeSubscriber(ch chan ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, ch)
	close(ch)
}

// BroadcastJob publishes the job's current state to all subscribers.
func (h *Hub) BroadcastJob(job *model.DownloadJob) {
	if job == nil {
		return
	}
	evt := ProgressEvent{
		Type:             "download_progress",
		JobID:            job.ID,
		Status:           string(job.Status),
		ProgressFraction: job.ProgressFraction,
		VideoID:          job.VideoID,
		Error:            job.FailureReason,
	}
	h.mu.RLock()
	for ch := range h.subs {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
	h.mu.RUnlock()
}
