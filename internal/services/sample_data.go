package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/terraincognita07/registro/internal/models"
)

const (
	SampleDays       = 30
	sampleNoteSuffix = " (Data Random)"

	sampleNoteRelapse = "EVENTO CRÍTICO: Recaída inesperada."
	sampleNotePerfect = "Día de estabilidad y cumplimiento perfecto."
	sampleNotePartial = "Día con cumplimiento parcial y posibles tensiones."
)

// RandomSource is the subset of *rand.Rand the generator needs.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// GenerateSampleRecords builds locked demo records for the SampleDays days
// ending today, oldest first.
func GenerateSampleRecords(userID string, today string, rng RandomSource) []models.DailyRecord {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	records := make([]models.DailyRecord, 0, SampleDays)
	for offset := SampleDays - 1; offset >= 0; offset-- {
		dateString := AddDays(today, -offset)
		records = append(records, sampleRecord(userID, dateString, rng))
	}
	return records
}

func sampleRecord(userID string, dateString string, rng RandomSource) models.DailyRecord {
	totalItems := models.TotalPoints
	failsTarget := rng.IntN(totalItems + 1)

	record := models.NewDailyRecord(userID, dateString)
	record.CheckedIn = rng.Float64() < 0.5
	fails := 0
	if !record.CheckedIn {
		fails = 1
	}
	for _, goal := range models.FixedGoals {
		failChance := float64(failsTarget-fails) / float64(totalItems-fails)
		passed := rng.Float64() > failChance
		record.FixedGoalsStatus[goal.ID] = passed
		if !passed {
			fails++
		}
	}

	record.EmotionalStatus = sampleRisk(rng.IntN(10))
	record.HasRelapsed = failsTarget >= 4 && record.EmotionalStatus.IsHigh() && rng.Float64() < 0.10
	record.HasCommunicatedWithRehab = rng.Float64() < 0.25 || record.HasRelapsed

	switch {
	case record.HasRelapsed:
		record.Notes = sampleNoteRelapse
	case fails == 0:
		record.Notes = sampleNotePerfect
	default:
		record.Notes = sampleNotePartial
	}
	record.Notes += sampleNoteSuffix
	record.IsLocked = true
	return record
}

// sampleRisk biases toward low risk: 0-4 low, 5-7 moderate, 8 high, 9 critical.
func sampleRisk(index int) models.RiskStatus {
	switch {
	case index == 9:
		return models.RiskCritical
	case index == 8:
		return models.RiskHigh
	case index >= 5:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

type SampleDataService struct {
	store RecordStore
	days  *DayService
	rng   RandomSource
	log   *slog.Logger
}

func NewSampleDataService(days *DayService, rng RandomSource, log *slog.Logger) *SampleDataService {
	if log == nil {
		log = slog.Default()
	}
	return &SampleDataService{
		store: days.store,
		days:  days,
		rng:   rng,
		log:   log.With("component", "sample_data"),
	}
}

// Load writes the generated month in one atomic batch.
func (service *SampleDataService) Load(ctx context.Context, userID string) (int, error) {
	records := GenerateSampleRecords(userID, service.days.Today(), service.rng)
	if err := service.store.BulkUpsert(ctx, records); err != nil {
		return 0, persistenceError("bulk upsert", err)
	}
	service.log.Info("sample data loaded", "user_id", userID, "records", len(records))
	return len(records), nil
}

// Clear removes every record owned by userID in one atomic batch.
func (service *SampleDataService) Clear(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: empty user id", ErrValidation)
	}
	deleted, err := service.store.BulkDelete(ctx, userID)
	if err != nil {
		return 0, persistenceError("bulk delete", err)
	}
	service.log.Info("sample data cleared", "user_id", userID, "records", deleted)
	return deleted, nil
}
