package api

import (
	"github.com/gofiber/fiber/v2"
)

// LoadSampleData fills the last month with random locked records.
func (handler *Handler) LoadSampleData(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	count, err := handler.samples.Load(c.UserContext(), identity.UserID)
	if err != nil {
		return handler.sampleFailure(c, err)
	}
	if !acceptsJSON(c) {
		handler.setFlashCookie(c, FlashPayload{MessageKey: "sample.loaded"})
	}
	return redirectOrJSON(c, "/", fiber.Map{"records": count})
}

// ClearSampleData deletes every record of the current user.
func (handler *Handler) ClearSampleData(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	count, err := handler.samples.Clear(c.UserContext(), identity.UserID)
	if err != nil {
		return handler.sampleFailure(c, err)
	}
	if !acceptsJSON(c) {
		handler.setFlashCookie(c, FlashPayload{MessageKey: "sample.cleared"})
	}
	return redirectOrJSON(c, "/", fiber.Map{"records": count})
}

func (handler *Handler) sampleFailure(c *fiber.Ctx, err error) error {
	handler.log.Error("sample data operation failed", "path", c.Path(), "error", err)
	if acceptsJSON(c) {
		return apiError(c, statusForError(err), "error.sample_failed")
	}
	handler.setFlashCookie(c, FlashPayload{MessageKey: "error.sample_failed", IsError: true})
	return c.Redirect("/", fiber.StatusSeeOther)
}
