package services

import (
	"math"
	"testing"

	"github.com/terraincognita07/registro/internal/models"
)

func TestProgressForCountsCheckInAndGoals(t *testing.T) {
	record := recordWithCompleted("u", "2024-05-01", 6)

	progress := ProgressFor(record)
	if progress.Completed != 6 || progress.Total != 9 {
		t.Fatalf("progress = %d/%d, want 6/9", progress.Completed, progress.Total)
	}
	if math.Abs(progress.Percent-66.666) > 0.01 {
		t.Fatalf("percent = %f, want ~66.67", progress.Percent)
	}
	if progress.IsFull() {
		t.Fatal("6/9 must not be full")
	}
	if !ProgressFor(fullRecord("u", "2024-05-01")).IsFull() {
		t.Fatal("expected full record to be full")
	}
}

func TestProgressIgnoresUnknownGoalKeys(t *testing.T) {
	record := models.NewDailyRecord("u", "2024-05-01")
	record.FixedGoalsStatus["legacy_goal"] = true
	if got := ProgressFor(record).Completed; got != 0 {
		t.Fatalf("completed = %d, want 0", got)
	}
}

func TestStreak(t *testing.T) {
	const today = "2024-05-10"

	relapsedFull := fullRecord("u", "2024-05-09")
	relapsedFull.HasRelapsed = true

	tests := []struct {
		name    string
		history []models.DailyRecord
		want    int
	}{
		{name: "empty history", want: 0},
		{
			name:    "today full",
			history: []models.DailyRecord{fullRecord("u", today)},
			want:    1,
		},
		{
			name: "missing today does not break",
			history: []models.DailyRecord{
				fullRecord("u", "2024-05-09"),
				fullRecord("u", "2024-05-08"),
			},
			want: 2,
		},
		{
			name: "partial today breaks",
			history: []models.DailyRecord{
				recordWithCompleted("u", today, 8),
				fullRecord("u", "2024-05-09"),
			},
			want: 0,
		},
		{
			name: "gap stops counting",
			history: []models.DailyRecord{
				fullRecord("u", today),
				fullRecord("u", "2024-05-09"),
				fullRecord("u", "2024-05-07"),
			},
			want: 2,
		},
		{
			name: "future records are ignored",
			history: []models.DailyRecord{
				fullRecord("u", "2024-05-11"),
				fullRecord("u", today),
			},
			want: 1,
		},
		{
			name: "relapse on a full day still counts",
			history: []models.DailyRecord{
				fullRecord("u", today),
				relapsedFull,
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.history, today); got != tt.want {
				t.Fatalf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakTierFor(t *testing.T) {
	cases := map[int]StreakTier{
		0:  StreakTierStart,
		1:  StreakTierActive,
		9:  StreakTierActive,
		10: StreakTierHighlight,
		45: StreakTierHighlight,
	}
	for streak, want := range cases {
		if got := StreakTierFor(streak); got != want {
			t.Fatalf("StreakTierFor(%d) = %q, want %q", streak, got, want)
		}
	}
}

func TestBuildGoalComplianceCountsOnlyWrittenKeys(t *testing.T) {
	first := models.NewDailyRecord("u", "2024-05-01")
	first.FixedGoalsStatus["salida_casa"] = true
	second := models.NewDailyRecord("u", "2024-05-02")
	second.FixedGoalsStatus["salida_casa"] = false
	third := models.NewDailyRecord("u", "2024-05-03")
	third.FixedGoalsStatus["salida_casa"] = true

	result := BuildGoalCompliance([]models.DailyRecord{first, second, third})
	if len(result) != models.TotalFixedGoals {
		t.Fatalf("expected %d entries, got %d", models.TotalFixedGoals, len(result))
	}

	salida := result[0]
	if salida.Goal.ID != "salida_casa" || salida.Completed != 2 || salida.Total != 3 {
		t.Fatalf("unexpected salida_casa compliance: %+v", salida)
	}
	if salida.PercentLabel() != "66.7" {
		t.Fatalf("PercentLabel() = %q, want 66.7", salida.PercentLabel())
	}

	untouched := result[1]
	if untouched.Total != 0 || untouched.PercentLabel() != "0.0" {
		t.Fatalf("expected untouched goal at 0.0 with no days, got %+v", untouched)
	}
}

func TestRecentEntriesLimitsAndLabelsRisk(t *testing.T) {
	history := make([]models.DailyRecord, 0, 12)
	for day := 12; day >= 1; day-- {
		history = append(history, recordWithCompleted("u", AddDays("2024-04-30", day), 3))
	}
	history[0].EmotionalStatus = models.RiskCritical
	history[0].HasRelapsed = true

	entries := RecentEntries(history, RecentHistoryLimit)
	if len(entries) != RecentHistoryLimit {
		t.Fatalf("expected %d entries, got %d", RecentHistoryLimit, len(entries))
	}
	if entries[0].RiskLabel != "Crítico" || !entries[0].HasRelapsed {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].RiskLabel != "NULO" {
		t.Fatalf("expected NULO for unset risk, got %q", entries[1].RiskLabel)
	}
	if entries[1].Completed != 3 || entries[1].Total != 9 {
		t.Fatalf("unexpected completion %d/%d", entries[1].Completed, entries[1].Total)
	}
}
