package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/registro/internal/models"
	"github.com/terraincognita07/registro/internal/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository stores daily records in SQLite and announces every change
// through the realtime dispatcher so Watch subscribers re-read.
type RecordRepository struct {
	database   *gorm.DB
	dispatcher *realtime.Dispatcher
	now        func() time.Time
}

func NewRecordRepository(database *gorm.DB, dispatcher *realtime.Dispatcher) *RecordRepository {
	return &RecordRepository{
		database:   database,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (repo *RecordRepository) Get(ctx context.Context, userID string, dateString string) (models.DailyRecord, bool, error) {
	var record models.DailyRecord
	err := repo.database.WithContext(ctx).
		Where("id = ?", models.RecordID(userID, dateString)).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DailyRecord{}, false, nil
	}
	if err != nil {
		return models.DailyRecord{}, false, err
	}
	normalizeRecord(&record)
	return record, true, nil
}

func (repo *RecordRepository) ListAll(ctx context.Context, userID string) ([]models.DailyRecord, error) {
	records := make([]models.DailyRecord, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_string DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	for index := range records {
		normalizeRecord(&records[index])
	}
	return records, nil
}

// MergeWrite upserts only the patched columns. Goals are merged key by key
// inside the same transaction.
func (repo *RecordRepository) MergeWrite(ctx context.Context, userID string, dateString string, patch models.RecordPatch) error {
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := models.NewDailyRecord(userID, dateString)
		var stored models.DailyRecord
		err := tx.Where("id = ?", current.ID).First(&stored).Error
		switch {
		case err == nil:
			normalizeRecord(&stored)
			current = stored
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		merged := patch.ApplyTo(current)
		merged.ID = current.ID
		merged.UserID = userID
		merged.DateString = dateString
		merged.Timestamp = repo.now()

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(patchedColumns(patch)),
		}).Create(&merged).Error
	})
	if err != nil {
		return err
	}

	repo.publish(ctx, realtime.EventRecordWritten, userID, dateString)
	return nil
}

// BulkUpsert replaces every given record in one transaction.
func (repo *RecordRepository) BulkUpsert(ctx context.Context, records []models.DailyRecord) error {
	if len(records) == 0 {
		return nil
	}
	stamped := make([]models.DailyRecord, len(records))
	now := repo.now()
	for index, record := range records {
		record.ID = models.RecordID(record.UserID, record.DateString)
		record.Timestamp = now
		if record.FixedGoalsStatus == nil {
			record.FixedGoalsStatus = models.GoalsStatus{}
		}
		stamped[index] = record
	}

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&stamped).Error
	})
	if err != nil {
		return err
	}

	for _, record := range stamped {
		repo.publish(ctx, realtime.EventRecordWritten, record.UserID, record.DateString)
	}
	return nil
}

func (repo *RecordRepository) BulkDelete(ctx context.Context, userID string) (int, error) {
	var dates []string
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DailyRecord{}).
			Where("user_id = ?", userID).
			Pluck("date_string", &dates).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.DailyRecord{}).Error
	})
	if err != nil {
		return 0, err
	}

	for _, dateString := range dates {
		repo.publish(ctx, realtime.EventRecordDeleted, userID, dateString)
	}
	return len(dates), nil
}

// Watch sends the current record, then a fresh read after every change event
// for the same document. Without a dispatcher only the first read is sent.
func (repo *RecordRepository) Watch(ctx context.Context, userID string, dateString string) (<-chan models.RecordSnapshot, func()) {
	snapshots := make(chan models.RecordSnapshot)
	stop := make(chan struct{})
	done := make(chan struct{})

	var subscription *realtime.Subscription
	var changes <-chan realtime.ChangeEvent
	if repo.dispatcher != nil {
		subscription = repo.dispatcher.Hub().Subscribe(models.RecordID(userID, dateString))
		changes = subscription.Outbound
	}

	go func() {
		defer close(done)
		defer close(snapshots)

		if !repo.sendSnapshot(ctx, stop, snapshots, userID, dateString) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !repo.sendSnapshot(ctx, stop, snapshots, userID, dateString) {
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(stop)
			if subscription != nil {
				repo.dispatcher.Hub().Unsubscribe(subscription)
			}
			<-done
		})
	}
	return snapshots, cancel
}

func (repo *RecordRepository) sendSnapshot(ctx context.Context, stop <-chan struct{}, out chan<- models.RecordSnapshot, userID string, dateString string) bool {
	record, found, err := repo.Get(ctx, userID, dateString)
	snapshot := models.RecordSnapshot{Record: record, Exists: found}
	if err != nil {
		snapshot = models.RecordSnapshot{Err: fmt.Errorf("read %s: %w", models.RecordID(userID, dateString), err)}
	} else if !found {
		snapshot.Record = models.NewDailyRecord(userID, dateString)
	}

	select {
	case out <- snapshot:
		return true
	case <-stop:
		return false
	case <-ctx.Done():
		return false
	}
}

func (repo *RecordRepository) publish(ctx context.Context, event string, userID string, dateString string) {
	if repo.dispatcher == nil {
		return
	}
	repo.dispatcher.Publish(context.WithoutCancel(ctx), realtime.ChangeEvent{
		Channel:    models.RecordID(userID, dateString),
		Event:      event,
		UserID:     userID,
		DateString: dateString,
	})
}

func patchedColumns(patch models.RecordPatch) []string {
	columns := []string{"user_id", "date_string", "timestamp"}
	if patch.CheckedIn != nil {
		columns = append(columns, "checked_in")
	}
	if len(patch.Goals) > 0 {
		columns = append(columns, "fixed_goals_status")
	}
	if patch.EmotionalStatus != nil {
		columns = append(columns, "emotional_status")
	}
	if patch.HasRelapsed != nil {
		columns = append(columns, "has_relapsed")
	}
	if patch.HasCommunicatedWithRehab != nil {
		columns = append(columns, "has_communicated_with_rehab")
	}
	if patch.Notes != nil {
		columns = append(columns, "notes")
	}
	if patch.IsLocked != nil {
		columns = append(columns, "is_locked")
	}
	return columns
}

func normalizeRecord(record *models.DailyRecord) {
	if record.FixedGoalsStatus == nil {
		record.FixedGoalsStatus = models.GoalsStatus{}
	}
}
