package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/services"
)

type complianceJSON struct {
	GoalID    string  `json:"goalId"`
	Text      string  `json:"text"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

func (handler *Handler) GetHistory(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	history, err := handler.days.FetchHistory(c.UserContext(), identity.UserID)
	if err != nil {
		return handler.respondError(c, err)
	}

	today := handler.days.Today()
	streak := services.Streak(history, today)
	compliance := make([]complianceJSON, 0)
	for _, item := range services.BuildGoalCompliance(history) {
		compliance = append(compliance, complianceJSON{
			GoalID:    item.Goal.ID,
			Text:      item.Goal.Text,
			Completed: item.Completed,
			Total:     item.Total,
			Percent:   item.Percent,
		})
	}

	return c.JSON(fiber.Map{
		"today":         today,
		"records":       history,
		"streak":        streak,
		"streakTier":    services.StreakTierFor(streak),
		"streakMessage": streakMessage(currentMessages(c), streak),
		"compliance":    compliance,
		"recent":        services.RecentEntries(history, services.RecentHistoryLimit),
	})
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "auth.error_title")
	}
	history, err := handler.days.FetchHistory(c.UserContext(), identity.UserID)
	if err != nil {
		return handler.respondError(c, err)
	}
	today := handler.days.Today()
	return c.JSON(services.BuildCalendarMonth(services.MonthStart(c.Query("month"), today), history, today))
}
