package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"GiveShare-Backend/internal/live"
	"GiveShare-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type (
	// StreamHandler serves the server-sent-event feeds. Each connection gets
	// its own hub subscription; when the client goes away the write fails and
	// the subscription is cancelled.
	StreamHandler interface {
		StreamNotifications(c *fiber.Ctx) error
		StreamStats(c *fiber.Ctx) error
	}

	streamHandler struct {
		hub         *live.Hub
		userService user.UserService
	}
)

const streamHeartbeat = 30 * time.Second

func NewStreamHandler(hub *live.Hub, userService user.UserService) StreamHandler {
	return &streamHandler{
		hub:         hub,
		userService: userService,
	}
}

func setSSEHeaders(c *fiber.Ctx) {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

func writeSSE(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

func (h *streamHandler) StreamNotifications(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	setSSEHeaders(c)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events, cancel := h.hub.Subscribe(userID)
		defer cancel()

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Kind != live.KindNotification {
					continue
				}
				if err := writeSSE(w, live.KindNotification, ev); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// StreamStats pushes a fresh profile snapshot whenever a lifecycle event
// touches the user, plus one on connect so the client never starts blank.
func (h *streamHandler) StreamStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	setSSEHeaders(c)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events, cancel := h.hub.Subscribe(userID)
		defer cancel()

		ticker := time.NewTicker(streamHeartbeat)
		defer ticker.Stop()

		if err := h.pushStats(w, userID); err != nil {
			return
		}

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Kind != live.KindStats {
					continue
				}
				if err := h.pushStats(w, userID); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func (h *streamHandler) pushStats(w *bufio.Writer, userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := h.userService.GetProfileStats(ctx, userID)
	if err != nil {
		return err
	}
	return writeSSE(w, live.KindStats, stats)
}
