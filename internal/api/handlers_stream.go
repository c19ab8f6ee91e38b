package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
	"github.com/valyala/fasthttp"
)

const streamHeartbeatInterval = 25 * time.Second

// StreamDay pushes the selected day as server-sent events: one "record" event
// right away and one after every change to the document.
func (handler *Handler) StreamDay(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	date, err := services.CanonicalDate(c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	messages := currentMessages(c)

	latest := make(chan services.FormState, 1)
	session := services.NewFormSession(handler.days, identity.UserID, func(state services.FormState) {
		offerLatest(latest, state)
	})
	if err := session.Select(handler.streamCtx, date); err != nil {
		session.Close()
		return handler.respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer session.Close()

		heartbeat := time.NewTicker(streamHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-handler.streamCtx.Done():
				return
			case state := <-latest:
				if err := writeRecordEvent(w, dayPayload(messages, state)); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
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

// offerLatest keeps only the newest state for a slow reader.
func offerLatest(latest chan services.FormState, state services.FormState) {
	for {
		select {
		case latest <- state:
			return
		default:
		}
		select {
		case <-latest:
		default:
		}
	}
}

func writeRecordEvent(w *bufio.Writer, payload dayJSON) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: record\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
