package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/registro/internal/models"
)

type DayCategory string

const (
	CategoryFuture          DayCategory = "future"
	CategoryCriticalRelapse DayCategory = "critical-relapse"
	CategoryFullSuccess     DayCategory = "full-success"
	CategoryAcceptable      DayCategory = "acceptable"
	CategoryCriticalFailure DayCategory = "critical-failure"
	CategoryUnrecorded      DayCategory = "unrecorded"

	acceptableMinimum = 5
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// WeekdayLabels start on Monday.
var WeekdayLabels = [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

type CalendarDayState struct {
	DateString    string
	Day           int
	IsToday       bool
	HasRecord     bool
	Completed     int
	Category      DayCategory
	RiskBadge     bool
	OutreachBadge bool
	SuccessBadge  bool
	Tooltip       string
}

// Selectable reports whether clicking the day should load it into the form.
func (day CalendarDayState) Selectable() bool {
	return day.HasRecord
}

type CalendarMonth struct {
	Label     string
	MonthKey  string
	PrevMonth string
	NextMonth string
	// Weeks holds 7 cells each; nil cells pad days outside the month.
	Weeks [][]*CalendarDayState
}

// ClassifyDay applies the category priority: future, relapse, full, acceptable, failure.
func ClassifyDay(dateString string, record *models.DailyRecord, today string) DayCategory {
	if IsFuture(dateString, today) {
		return CategoryFuture
	}
	if record == nil {
		return CategoryUnrecorded
	}
	if record.HasRelapsed {
		return CategoryCriticalRelapse
	}
	completed := record.CompletedItems()
	switch {
	case completed == models.TotalPoints:
		return CategoryFullSuccess
	case completed >= acceptableMinimum:
		return CategoryAcceptable
	default:
		return CategoryCriticalFailure
	}
}

func BuildCalendarDayState(dateString string, record *models.DailyRecord, today string) CalendarDayState {
	state := CalendarDayState{
		DateString: dateString,
		IsToday:    dateString == today,
		Category:   ClassifyDay(dateString, record, today),
	}
	if parsed, err := time.Parse(DateLayout, dateString); err == nil {
		state.Day = parsed.Day()
	}
	if record == nil {
		return state
	}

	state.HasRecord = true
	state.Completed = record.CompletedItems()
	state.RiskBadge = record.EmotionalStatus.IsHigh() || record.HasRelapsed
	state.OutreachBadge = record.HasCommunicatedWithRehab
	state.SuccessBadge = state.Completed == models.TotalPoints
	state.Tooltip = fmt.Sprintf("%s - Cumplimiento: %d/%d. Riesgo: %s. Recaída: %s.",
		dateString,
		state.Completed,
		models.TotalPoints,
		riskTokenOrUnset(record.EmotionalStatus),
		yesNoAccented(record.HasRelapsed),
	)
	return state
}

func BuildCalendarMonth(monthStart time.Time, history []models.DailyRecord, today string) CalendarMonth {
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	byDate := make(map[string]models.DailyRecord, len(history))
	for _, record := range history {
		byDate[record.DateString] = record
	}

	month := CalendarMonth{
		Label:     fmt.Sprintf("%s %d", monthNames[first.Month()-1], first.Year()),
		MonthKey:  first.Format(MonthLayout),
		PrevMonth: first.AddDate(0, -1, 0).Format(MonthLayout),
		NextMonth: first.AddDate(0, 1, 0).Format(MonthLayout),
	}

	// Monday = 0.
	leading := (int(first.Weekday()) + 6) % 7
	cells := make([]*CalendarDayState, leading, leading+daysInMonth+6)
	for day := 1; day <= daysInMonth; day++ {
		dateString := first.AddDate(0, 0, day-1).Format(DateLayout)
		var record *models.DailyRecord
		if stored, ok := byDate[dateString]; ok {
			record = &stored
		}
		state := BuildCalendarDayState(dateString, record, today)
		cells = append(cells, &state)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}
	for start := 0; start < len(cells); start += 7 {
		month.Weeks = append(month.Weeks, cells[start:start+7])
	}
	return month
}

func riskTokenOrUnset(status models.RiskStatus) string {
	if status.Valid() {
		return string(status)
	}
	return unsetRiskToken
}

func yesNoAccented(value bool) string {
	if value {
		return "SÍ"
	}
	return "NO"
}
