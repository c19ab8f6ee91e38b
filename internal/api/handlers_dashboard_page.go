package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/registro/internal/models"
	"github.com/terraincognita07/registro/internal/services"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return handler.authFailure(c, services.ErrAuth)
	}
	messages := currentMessages(c)
	today := handler.days.Today()

	selected := c.Query("date", today)
	if _, err := services.CanonicalDate(selected); err != nil {
		selected = today
	}

	view := dashboardView{
		Lang:      currentLanguage(c),
		Messages:  messages,
		CSRFToken: csrfToken(c),
		UserID:    identity.UserID,
		Weekdays:  services.WeekdayLabels,
	}

	flash := handler.popFlashCookie(c)
	if flash.MessageKey != "" {
		view.Flash = translateMessage(messages, flash.MessageKey)
		view.FlashIsError = flash.IsError
	}

	state, err := handler.days.LoadFormState(c.UserContext(), identity.UserID, selected)
	if err != nil {
		handler.log.Error("load day failed", "user_id", identity.UserID, "date", selected, "error", err)
		state = services.FormState{
			UserID:       identity.UserID,
			SelectedDate: selected,
			Today:        today,
			Record:       models.NewDailyRecord(identity.UserID, selected),
			MessageKey:   services.MessageLoadFailed,
		}
		state.Gates = services.GatesFor(state.Record, selected, today)
		state.Progress = services.ProgressFor(state.Record)
	}
	view.Form = state
	view.Goals = buildGoalViews(state.Record)
	view.Risks = buildRiskViews(state.Record.EmotionalStatus)

	month := services.MonthStart(c.Query("month"), selected)
	history, err := handler.days.FetchHistory(c.UserContext(), identity.UserID)
	if err != nil {
		handler.log.Error("load history failed", "user_id", identity.UserID, "error", err)
		if view.Flash == "" {
			view.Flash = translateMessage(messages, "error.history_failed")
			view.FlashIsError = true
		}
		history = nil
	}

	view.Streak = services.Streak(history, today)
	view.StreakTier = services.StreakTierFor(view.Streak)
	view.StreakMessage = streakMessage(messages, view.Streak)
	view.Calendar = services.BuildCalendarMonth(month, history, today)
	view.Compliance = services.BuildGoalCompliance(history)
	view.Recent = services.RecentEntries(history, services.RecentHistoryLimit)
	view.HasHistory = len(history) > 0

	return handler.render(c, "dashboard", fiber.StatusOK, view)
}

func streakMessage(messages map[string]string, streak int) string {
	if streak <= 0 {
		return translateMessage(messages, "streak.start")
	}
	return translateMessagef(messages, "streak.active", streak)
}

func buildGoalViews(record models.DailyRecord) []goalView {
	views := make([]goalView, 0, len(models.FixedGoals))
	for _, goal := range models.FixedGoals {
		views = append(views, goalView{Goal: goal, Done: record.GoalDone(goal.ID)})
	}
	return views
}

func buildRiskViews(current models.RiskStatus) []riskView {
	views := make([]riskView, 0, len(models.RiskStatuses))
	for _, status := range models.RiskStatuses {
		views = append(views, riskView{Status: status, Label: status.Label(), Selected: status == current})
	}
	return views
}
