package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/latestcomment/acl-debate/internal/services"
)

type WebSocketHandler struct {
	Service *services.DebateService
}

func NewWebSocketHandler(service *services.DebateService) *WebSocketHandler {
	return &WebSocketHandler{Service: service}
}

func (h *WebSocketHandler) WebSocketMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket streams a debate's messages, history first, until the
// watcher disconnects or falls too far behind. Watchers are read-only.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	defer func() {
		_ = c.Close()
	}()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return
	}
	d, err := h.Service.GetDebate(id)
	if err != nil {
		return
	}

	name := c.Query("name")
	if name == "" {
		name = "Guest"
	}
	watcher := models.NewWatcher(name, c)
	h.Service.AddWatcher(d, watcher)

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		if err := watcher.Pump(); err != nil {
			h.Service.Log.WithError(err).WithField("watcher", watcher.Name).Debug("Watcher write failed")
		}
		// Unblocks the read loop when the watcher was dropped.
		_ = c.Close()
	}()

	// Drain until the client goes away; anything it sends is ignored.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.Service.RemoveWatcher(d, watcher)
	_ = c.Close()
	<-pumpDone
}
