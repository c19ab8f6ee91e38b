package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
)

func redirectOrJSON(c *fiber.Ctx, path string, payload fiber.Map) error {
	if acceptsJSON(c) {
		if payload == nil {
			payload = fiber.Map{}
		}
		payload["ok"] = true
		return c.JSON(payload)
	}
	return c.Redirect(path, fiber.StatusSeeOther)
}

// apiError answers with {"error": key, "message": localized text}.
func apiError(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   key,
		"message": translateMessage(currentMessages(c), key),
	})
}

// statusForError maps the service error taxonomy onto HTTP.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrFutureLock),
		errors.Is(err, services.ErrFutureDate),
		errors.Is(err, services.ErrRecordLocked):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNoHistory):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func messageKeyForError(err error) string {
	switch {
	case errors.Is(err, services.ErrNoHistory):
		return "export.no_data"
	case errors.Is(err, services.ErrAuth):
		return "auth.error_title"
	default:
		return services.MessageKeyFor(err)
	}
}

func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		handler.log.Error("request failed", "path", c.Path(), "error", err)
	}
	return apiError(c, status, messageKeyForError(err))
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), fiber.MIMEApplicationJSON) ||
		strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, _ := c.Locals(contextMessagesKey).(map[string]string)
	if messages == nil {
		return map[string]string{}
	}
	return messages
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return fallback
	}
	if strings.HasPrefix(candidate, "//") || !strings.HasPrefix(candidate, "/") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() {
		return fallback
	}
	return candidate
}

func dashboardPath(date string, month string) string {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}
	if month != "" {
		query.Set("month", month)
	}
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query.Encode()
}

func setAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
