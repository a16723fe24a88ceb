package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/sse"
)

const streamKeepalive = 30 * time.Second

// EventSubscriber is the read side of the tenant event hub.
type EventSubscriber interface {
	Subscribe(tenantID string) (<-chan sse.Event, func())
}

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type StreamHandlerImpl struct {
	hub       EventSubscriber
	keepalive time.Duration
}

var _ StreamHandler = (*StreamHandlerImpl)(nil)

func NewStreamHandler(hub EventSubscriber) *StreamHandlerImpl {
	return &StreamHandlerImpl{hub: hub, keepalive: streamKeepalive}
}

// Stream pushes the caller's tenant events as server-sent events until the
// client goes away.
func (h *StreamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrNoTenantContext)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sess.TenantID)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Dropping unencodable stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
