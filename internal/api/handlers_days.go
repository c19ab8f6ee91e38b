package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
)

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	state, err := handler.days.LoadFormState(c.UserContext(), identity.UserID, c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(dayPayload(currentMessages(c), state))
}

func (handler *Handler) PostDayCommand(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}

	payload := commandPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, services.MessageInvalidInput)
	}
	cmd, err := payload.command()
	if err != nil {
		return handler.respondError(c, err)
	}

	if _, err := handler.days.ApplyCommand(c.UserContext(), identity.UserID, c.Params("date"), cmd); err != nil {
		return handler.respondError(c, err)
	}

	state, err := handler.days.LoadFormState(c.UserContext(), identity.UserID, c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(dayPayload(currentMessages(c), state))
}

// SubmitDayCommand is the form-post variant: it always redirects back to the
// dashboard and reports refusals through the flash cookie.
func (handler *Handler) SubmitDayCommand(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	date := c.Params("date")
	target := dashboardPath(date, c.FormValue("month"))

	payload := commandPayload{}
	if err := c.BodyParser(&payload); err != nil {
		handler.setFlashCookie(c, FlashPayload{MessageKey: services.MessageInvalidInput, IsError: true})
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	cmd, err := payload.command()
	if err == nil {
		_, err = handler.days.ApplyCommand(c.UserContext(), identity.UserID, date, cmd)
	}
	if err != nil {
		if statusForError(err) >= fiber.StatusInternalServerError {
			handler.log.Error("day command failed", "user_id", identity.UserID, "date", date, "error", err)
		}
		handler.setFlashCookie(c, FlashPayload{MessageKey: messageKeyForError(err), IsError: true})
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func dayPayload(messages map[string]string, state services.FormState) dayJSON {
	payload := dayJSON{
		Date:   state.SelectedDate,
		Today:  state.Today,
		Record: state.Record,
		Exists: state.Exists,
		Gates: gatesJSON{
			Locked:   state.Gates.Locked,
			Future:   state.Gates.Future,
			Disabled: state.Gates.Disabled(),
		},
		Progress: progressJSON{
			Completed: state.Progress.Completed,
			Total:     state.Progress.Total,
			Percent:   state.Progress.Percent,
		},
		MessageKey: state.MessageKey,
	}
	if state.MessageKey != "" {
		payload.Message = translateMessage(messages, state.MessageKey)
	}
	return payload
}
