package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/http/response"
	"github.com/serenehq/serene-backend/internal/pkg/ctxutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
)

type EventsHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewEventsHandler(log *logger.Logger, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{log: log.With("handler", "EventsHandler"), hub: hub}
}

// Stream delivers the caller's own events (enrichment completions and saves)
// over SSE until the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	client := h.hub.Subscribe(rd.UserID, rd.UserID.String())
	defer h.hub.Unsubscribe(client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-client.Outbound:
			if !ok {
				return false
			}
			data, err := json.Marshal(msg.Data)
			if err != nil {
				h.log.Warn("Failed to marshal event data", "event", msg.Event, "error", err)
				return true
			}
			c.SSEvent(msg.Event, string(data))
			return true
		}
	})
}
