package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.SessionRequired, handler.ShowDashboard)
	app.Post("/days/:date/commands", handler.SessionRequired, handler.SubmitDayCommand)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api", handler.SessionRequired)

	api.Get("/session", handler.GetSession)

	days := api.Group("/days")
	days.Get("/:date", handler.GetDay)
	days.Get("/:date/stream", handler.StreamDay)
	days.Post("/:date/commands", handler.PostDayCommand)

	api.Get("/history", handler.GetHistory)
	api.Get("/calendar", handler.GetCalendar)

	export := api.Group("/export")
	export.Get("/csv", handler.ExportCSV)
	export.Get("/pdf", handler.ExportPDF)

	sample := api.Group("/sample")
	sample.Post("/load", handler.LoadSampleData)
	sample.Post("/clear", handler.ClearSampleData)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) GetSession(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	return c.JSON(fiber.Map{
		"userId":    identity.UserID,
		"anonymous": identity.Anonymous,
		"today":     handler.days.Today(),
	})
}
