package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/terraincognita07/registro/internal/models"
)

//go:generate mockgen -source=day_service.go -destination=mock_record_store_test.go -package=services

// RecordStore is the persistence contract for per-day documents.
type RecordStore interface {
	Get(ctx context.Context, userID string, dateString string) (models.DailyRecord, bool, error)
	// Watch delivers the current record immediately and again on every change.
	// The returned cancel func is idempotent; no snapshot is delivered after it returns.
	Watch(ctx context.Context, userID string, dateString string) (<-chan models.RecordSnapshot, func())
	MergeWrite(ctx context.Context, userID string, dateString string, patch models.RecordPatch) error
	// ListAll returns every record of userID sorted by date descending.
	ListAll(ctx context.Context, userID string) ([]models.DailyRecord, error)
	BulkUpsert(ctx context.Context, records []models.DailyRecord) error
	BulkDelete(ctx context.Context, userID string) (int, error)
}

type DayService struct {
	store    RecordStore
	clock    Clock
	location *time.Location
	log      *slog.Logger
}

func NewDayService(store RecordStore, clock Clock, location *time.Location, log *slog.Logger) *DayService {
	if clock == nil {
		clock = SystemClock
	}
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &DayService{
		store:    store,
		clock:    clock,
		location: location,
		log:      log.With("component", "day_service"),
	}
}

func (service *DayService) Today() string {
	return Today(service.clock, service.location)
}

func (service *DayService) Location() *time.Location {
	return service.location
}

func (service *DayService) Clock() Clock {
	return service.clock
}

// FetchDay returns the stored record or the unset defaults.
func (service *DayService) FetchDay(ctx context.Context, userID string, dateString string) (models.DailyRecord, bool, error) {
	date, err := CanonicalDate(dateString)
	if err != nil {
		return models.DailyRecord{}, false, err
	}
	record, found, err := service.store.Get(ctx, userID, date)
	if err != nil {
		return models.DailyRecord{}, false, persistenceError("load day", err)
	}
	if !found {
		return models.NewDailyRecord(userID, date), false, nil
	}
	return record, true, nil
}

func (service *DayService) WatchDay(ctx context.Context, userID string, dateString string) (<-chan models.RecordSnapshot, func(), error) {
	date, err := CanonicalDate(dateString)
	if err != nil {
		return nil, nil, err
	}
	snapshots, cancel := service.store.Watch(ctx, userID, date)
	return snapshots, cancel, nil
}

func (service *DayService) FetchHistory(ctx context.Context, userID string) ([]models.DailyRecord, error) {
	records, err := service.store.ListAll(ctx, userID)
	if err != nil {
		return nil, persistenceError("list history", err)
	}
	return records, nil
}

// ApplyCommand runs cmd against the current state of the day and writes the
// resulting patch. Gated commands perform no write.
func (service *DayService) ApplyCommand(ctx context.Context, userID string, dateString string, cmd Command) (models.DailyRecord, error) {
	current, _, err := service.FetchDay(ctx, userID, dateString)
	if err != nil {
		return models.DailyRecord{}, err
	}

	patch, err := PlanCommand(current, service.Today(), cmd)
	if err != nil {
		return current, err
	}

	if err := service.store.MergeWrite(ctx, userID, current.DateString, patch); err != nil {
		service.log.Error("merge write failed", "user_id", userID, "date", current.DateString, "command", cmd.Name(), "error", err)
		return current, persistenceError("merge write", err)
	}
	return patch.ApplyTo(current), nil
}

// LoadFormState reads one day and derives what the form renders for it.
func (service *DayService) LoadFormState(ctx context.Context, userID string, dateString string) (FormState, error) {
	record, exists, err := service.FetchDay(ctx, userID, dateString)
	if err != nil {
		return FormState{}, err
	}
	today := service.Today()
	return FormState{
		UserID:       userID,
		SelectedDate: record.DateString,
		Today:        today,
		Record:       record,
		Exists:       exists,
		Gates:        GatesFor(record, record.DateString, today),
		Progress:     ProgressFor(record),
	}, nil
}
