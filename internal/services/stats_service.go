package services

import (
	"fmt"

	"github.com/terraincognita07/registro/internal/models"
)

type Progress struct {
	Completed int
	Total     int
	Percent   float64
}

func ProgressFor(record models.DailyRecord) Progress {
	progress := Progress{
		Completed: record.CompletedItems(),
		Total:     models.TotalPoints,
	}
	if progress.Total > 0 {
		progress.Percent = 100 * float64(progress.Completed) / float64(progress.Total)
	}
	return progress
}

func (progress Progress) IsFull() bool {
	return progress.Total > 0 && progress.Completed == progress.Total
}

// Streak counts consecutive full days ending today. A today without a record
// does not break it; any recorded day below the total does. Relapse is not
// considered on its own.
func Streak(history []models.DailyRecord, today string) int {
	byDate := make(map[string]models.DailyRecord, len(history))
	for _, record := range history {
		if IsFuture(record.DateString, today) {
			continue
		}
		byDate[record.DateString] = record
	}

	streak := 0
	day := today
	for {
		record, ok := byDate[day]
		if !ok {
			if day == today {
				day = AddDays(day, -1)
				continue
			}
			return streak
		}
		if !ProgressFor(record).IsFull() {
			return streak
		}
		streak++
		day = AddDays(day, -1)
	}
}

type StreakTier string

const (
	StreakTierStart     StreakTier = "start"
	StreakTierActive    StreakTier = "active"
	StreakTierHighlight StreakTier = "highlight"

	streakHighlightDays = 10
)

func StreakTierFor(streak int) StreakTier {
	switch {
	case streak <= 0:
		return StreakTierStart
	case streak >= streakHighlightDays:
		return StreakTierHighlight
	default:
		return StreakTierActive
	}
}

type GoalCompliance struct {
	Goal      models.FixedGoal
	Completed int
	Total     int
	Percent   float64
}

// PercentLabel renders the rate with one decimal.
func (compliance GoalCompliance) PercentLabel() string {
	return fmt.Sprintf("%.1f", compliance.Percent)
}

// BuildGoalCompliance only counts days where the goal key was written.
func BuildGoalCompliance(history []models.DailyRecord) []GoalCompliance {
	result := make([]GoalCompliance, 0, len(models.FixedGoals))
	for _, goal := range models.FixedGoals {
		compliance := GoalCompliance{Goal: goal}
		for _, record := range history {
			done, present := record.FixedGoalsStatus[goal.ID]
			if !present {
				continue
			}
			compliance.Total++
			if done {
				compliance.Completed++
			}
		}
		if compliance.Total > 0 {
			compliance.Percent = 100 * float64(compliance.Completed) / float64(compliance.Total)
		}
		result = append(result, compliance)
	}
	return result
}

type HistoryEntry struct {
	DateString   string
	Completed    int
	Total        int
	RiskLabel    string
	HasRelapsed  bool
	ContactRehab bool
}

const RecentHistoryLimit = 10

// RecentEntries keeps the order of history, which is newest first.
func RecentEntries(history []models.DailyRecord, limit int) []HistoryEntry {
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}
	entries := make([]HistoryEntry, 0, limit)
	for _, record := range history[:limit] {
		entries = append(entries, HistoryEntry{
			DateString:   record.DateString,
			Completed:    record.CompletedItems(),
			Total:        models.TotalPoints,
			RiskLabel:    riskLabelOrUnset(record.EmotionalStatus),
			HasRelapsed:  record.HasRelapsed,
			ContactRehab: record.HasCommunicatedWithRehab,
		})
	}
	return entries
}

const unsetRiskToken = "NULO"

func riskLabelOrUnset(status models.RiskStatus) string {
	if status.Valid() {
		return status.Label()
	}
	return unsetRiskToken
}
