package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/registro/internal/models"
)

// memoryStore is an in-process RecordStore that echoes writes to watchers.
type memoryStore struct {
	mu       sync.Mutex
	records  map[string]models.DailyRecord
	watchers map[string][]chan models.RecordSnapshot
	writes   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:  map[string]models.DailyRecord{},
		watchers: map[string][]chan models.RecordSnapshot{},
	}
}

func (store *memoryStore) Get(_ context.Context, userID string, dateString string) (models.DailyRecord, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	record, ok := store.records[models.RecordID(userID, dateString)]
	return record, ok, nil
}

func (store *memoryStore) Watch(_ context.Context, userID string, dateString string) (<-chan models.RecordSnapshot, func()) {
	id := models.RecordID(userID, dateString)
	snapshots := make(chan models.RecordSnapshot, 16)

	store.mu.Lock()
	snapshots <- store.snapshotLocked(id, userID, dateString)
	store.watchers[id] = append(store.watchers[id], snapshots)
	store.mu.Unlock()

	var once sync.Once
	return snapshots, func() {
		once.Do(func() {
			store.mu.Lock()
			defer store.mu.Unlock()
			remaining := store.watchers[id][:0]
			for _, watcher := range store.watchers[id] {
				if watcher != snapshots {
					remaining = append(remaining, watcher)
				}
			}
			store.watchers[id] = remaining
			close(snapshots)
		})
	}
}

func (store *memoryStore) MergeWrite(_ context.Context, userID string, dateString string, patch models.RecordPatch) error {
	id := models.RecordID(userID, dateString)

	store.mu.Lock()
	defer store.mu.Unlock()
	current, ok := store.records[id]
	if !ok {
		current = models.NewDailyRecord(userID, dateString)
	}
	merged := patch.ApplyTo(current)
	merged.Timestamp = time.Now()
	store.records[id] = merged
	store.writes++
	store.notifyLocked(id, userID, dateString)
	return nil
}

func (store *memoryStore) ListAll(_ context.Context, userID string) ([]models.DailyRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	records := make([]models.DailyRecord, 0)
	for _, record := range store.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].DateString > records[j].DateString })
	return records, nil
}

func (store *memoryStore) BulkUpsert(_ context.Context, records []models.DailyRecord) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, record := range records {
		record.ID = models.RecordID(record.UserID, record.DateString)
		store.records[record.ID] = record
		store.notifyLocked(record.ID, record.UserID, record.DateString)
	}
	return nil
}

func (store *memoryStore) BulkDelete(_ context.Context, userID string) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	deleted := 0
	for id, record := range store.records {
		if record.UserID != userID {
			continue
		}
		delete(store.records, id)
		deleted++
		store.notifyLocked(id, record.UserID, record.DateString)
	}
	return deleted, nil
}

func (store *memoryStore) writeCount() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.writes
}

func (store *memoryStore) snapshotLocked(id string, userID string, dateString string) models.RecordSnapshot {
	record, ok := store.records[id]
	if !ok {
		return models.RecordSnapshot{Record: models.NewDailyRecord(userID, dateString)}
	}
	return models.RecordSnapshot{Record: record, Exists: true}
}

func (store *memoryStore) notifyLocked(id string, userID string, dateString string) {
	snapshot := store.snapshotLocked(id, userID, dateString)
	for _, watcher := range store.watchers[id] {
		select {
		case watcher <- snapshot:
		default:
		}
	}
}

func fixedClock(value string) Clock {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ClockFunc(func() time.Time { return parsed })
}

func fullRecord(userID string, dateString string) models.DailyRecord {
	record := models.NewDailyRecord(userID, dateString)
	record.CheckedIn = true
	for _, goal := range models.FixedGoals {
		record.FixedGoalsStatus[goal.ID] = true
	}
	return record
}

func recordWithCompleted(userID string, dateString string, completed int) models.DailyRecord {
	record := models.NewDailyRecord(userID, dateString)
	if completed > 0 {
		record.CheckedIn = true
		completed--
	}
	for _, goal := range models.FixedGoals {
		if completed == 0 {
			break
		}
		record.FixedGoalsStatus[goal.ID] = true
		completed--
	}
	return record
}
