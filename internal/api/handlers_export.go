package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
)

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	return handler.export(c, handler.exports.BuildCSV)
}

func (handler *Handler) ExportPDF(c *fiber.Ctx) error {
	return handler.export(c, handler.exports.BuildPDF)
}

type exportBuilder func(ctx context.Context, userID string, today string, exportRange services.ExportRange) (services.ExportFile, error)

func (handler *Handler) export(c *fiber.Ctx, build exportBuilder) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, services.MessageInvalidInput)
	}

	file, err := build(c.UserContext(), identity.UserID, handler.days.Today(), exportRange)
	if err != nil {
		return handler.respondError(c, err)
	}

	setAttachmentHeaders(c, file.ContentType, file.Filename)
	return c.Send(file.Body)
}
