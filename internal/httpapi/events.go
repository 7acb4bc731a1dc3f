// ABOUTME: Server-sent event stream of ledger changes for browser surfaces
// ABOUTME: Every committed bucket write, from any surface, is relayed as one event
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harper/fuel-ledger/internal/bus"
)

const eventBuffer = 64

// bucketsParam collects bucket filters from repeated or comma-separated params
func bucketsParam(c *gin.Context) []string {
	var buckets []string
	for _, raw := range c.QueryArray("bucket") {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				buckets = append(buckets, b)
			}
		}
	}
	return buckets
}

// Events handles GET /api/events, streaming changes as server-sent events.
// Repeated or comma-separated bucket params narrow the stream.
func (h *Handler) Events(c *gin.Context) {
	if h.ledger.Surface() == nil {
		RespondError(c, http.StatusServiceUnavailable, CodeUnavailable, errors.New("change bus is not configured"))
		return
	}

	ctx := c.Request.Context()
	events := make(chan bus.Change, eventBuffer)
	cancel, err := h.ledger.Follow(ctx, func(change bus.Change) {
		select {
		case events <- change:
		default:
			h.log.Warn("dropping change; event stream is behind", "bucket", change.Bucket)
		}
	}, bucketsParam(c)...)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	defer cancel()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	w.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		case change := <-events:
			data, err := json.Marshal(change)
			if err != nil {
				h.log.Warn("failed to marshal change", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: change\ndata: %s\n\n", data)
			w.Flush()
		}
	}
}
