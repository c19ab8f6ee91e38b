package cloudstore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/terraincognita07/registro/internal/models"
)

const maxTransactionWrites = 500

// FirestoreStore keeps one document per day under
// artifacts/{appID}/public/data/daily_status, keyed "{userId}-{date}".
type FirestoreStore struct {
	client *firestore.Client
	appID  string
	log    *slog.Logger
}

// Open dials Firestore. credentialsFile may be empty to use ambient credentials.
func Open(ctx context.Context, projectID string, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

func NewFirestoreStore(client *firestore.Client, appID string, log *slog.Logger) *FirestoreStore {
	if log == nil {
		log = slog.Default()
	}
	return &FirestoreStore{
		client: client,
		appID:  appID,
		log:    log.With("component", "firestore_store"),
	}
}

func CollectionPath(appID string) string {
	return fmt.Sprintf("artifacts/%s/public/data/daily_status", appID)
}

func (store *FirestoreStore) collection() *firestore.CollectionRef {
	return store.client.Collection(CollectionPath(store.appID))
}

func (store *FirestoreStore) doc(userID string, dateString string) *firestore.DocumentRef {
	return store.collection().Doc(models.RecordID(userID, dateString))
}

func (store *FirestoreStore) Get(ctx context.Context, userID string, dateString string) (models.DailyRecord, bool, error) {
	snapshot, err := store.doc(userID, dateString).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.DailyRecord{}, false, nil
	}
	if err != nil {
		return models.DailyRecord{}, false, err
	}
	record, err := decodeRecord(snapshot)
	if err != nil {
		return models.DailyRecord{}, false, err
	}
	return record, true, nil
}

// MergeWrite sends only the patched fields with MergeAll, so nested goal keys
// merge server-side. Every write re-stamps the server timestamp.
func (store *FirestoreStore) MergeWrite(ctx context.Context, userID string, dateString string, patch models.RecordPatch) error {
	_, err := store.doc(userID, dateString).Set(ctx, patchFields(userID, dateString, patch), firestore.MergeAll)
	return err
}

// ListAll filters by owner server-side and sorts newest first locally, which
// avoids a composite index.
func (store *FirestoreStore) ListAll(ctx context.Context, userID string) ([]models.DailyRecord, error) {
	snapshots, err := store.collection().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	records := make([]models.DailyRecord, 0, len(snapshots))
	for _, snapshot := range snapshots {
		record, err := decodeRecord(snapshot)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b models.DailyRecord) int {
		return strings.Compare(b.DateString, a.DateString)
	})
	return records, nil
}

func (store *FirestoreStore) BulkUpsert(ctx context.Context, records []models.DailyRecord) error {
	if len(records) > maxTransactionWrites {
		return fmt.Errorf("bulk upsert of %d records exceeds %d writes per transaction", len(records), maxTransactionWrites)
	}
	return store.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, record := range records {
			if err := tx.Set(store.doc(record.UserID, record.DateString), recordFields(record)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (store *FirestoreStore) BulkDelete(ctx context.Context, userID string) (int, error) {
	deleted := 0
	err := store.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = 0
		snapshots, err := tx.Documents(store.collection().Where("userId", "==", userID)).GetAll()
		if err != nil {
			return err
		}
		if len(snapshots) > maxTransactionWrites {
			return fmt.Errorf("bulk delete of %d records exceeds %d writes per transaction", len(snapshots), maxTransactionWrites)
		}
		for _, snapshot := range snapshots {
			if err := tx.Delete(snapshot.Ref); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Watch follows the document with a listen stream. Cancel stops the stream and
// waits for the delivery goroutine, so nothing is sent after it returns.
func (store *FirestoreStore) Watch(ctx context.Context, userID string, dateString string) (<-chan models.RecordSnapshot, func()) {
	watchCtx, stopWatch := context.WithCancel(ctx)
	iterator := store.doc(userID, dateString).Snapshots(watchCtx)
	snapshots := make(chan models.RecordSnapshot)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(snapshots)
		defer iterator.Stop()

		for {
			documentSnapshot, err := iterator.Next()
			if watchCtx.Err() != nil || status.Code(err) == codes.Canceled {
				return
			}

			var snapshot models.RecordSnapshot
			switch {
			case err != nil:
				snapshot.Err = err
			case !documentSnapshot.Exists():
				snapshot.Record = models.NewDailyRecord(userID, dateString)
			default:
				record, decodeErr := decodeRecord(documentSnapshot)
				snapshot = models.RecordSnapshot{Record: record, Exists: decodeErr == nil, Err: decodeErr}
			}

			select {
			case snapshots <- snapshot:
			case <-watchCtx.Done():
				return
			}
			if err != nil {
				store.log.Warn("watch stream ended", "user_id", userID, "date", dateString, "error", err)
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stopWatch()
			<-done
		})
	}
	return snapshots, cancel
}

func decodeRecord(snapshot *firestore.DocumentSnapshot) (models.DailyRecord, error) {
	var record models.DailyRecord
	if err := snapshot.DataTo(&record); err != nil {
		return models.DailyRecord{}, fmt.Errorf("decode %s: %w", snapshot.Ref.ID, err)
	}
	record.ID = snapshot.Ref.ID
	if record.FixedGoalsStatus == nil {
		record.FixedGoalsStatus = models.GoalsStatus{}
	}
	return record, nil
}

func patchFields(userID string, dateString string, patch models.RecordPatch) map[string]any {
	fields := map[string]any{
		"userId":     userID,
		"dateString": dateString,
		"timestamp":  firestore.ServerTimestamp,
	}
	if patch.CheckedIn != nil {
		fields["checkedIn"] = *patch.CheckedIn
	}
	if len(patch.Goals) > 0 {
		goals := make(map[string]any, len(patch.Goals))
		for goalID, done := range patch.Goals {
			goals[goalID] = done
		}
		fields["fixedGoalsStatus"] = goals
	}
	if patch.EmotionalStatus != nil {
		if *patch.EmotionalStatus == models.RiskNone {
			fields["emotionalStatus"] = nil
		} else {
			fields["emotionalStatus"] = string(*patch.EmotionalStatus)
		}
	}
	if patch.HasRelapsed != nil {
		fields["hasRelapsed"] = *patch.HasRelapsed
	}
	if patch.HasCommunicatedWithRehab != nil {
		fields["hasCommunicatedWithRehab"] = *patch.HasCommunicatedWithRehab
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if patch.IsLocked != nil {
		fields["isLocked"] = *patch.IsLocked
	}
	return fields
}

func recordFields(record models.DailyRecord) map[string]any {
	goals := make(map[string]any, len(record.FixedGoalsStatus))
	for goalID, done := range record.FixedGoalsStatus {
		goals[goalID] = done
	}
	var emotionalStatus any
	if record.EmotionalStatus.Valid() {
		emotionalStatus = string(record.EmotionalStatus)
	}
	return map[string]any{
		"userId":                   record.UserID,
		"dateString":               record.DateString,
		"checkedIn":                record.CheckedIn,
		"fixedGoalsStatus":         goals,
		"emotionalStatus":          emotionalStatus,
		"hasRelapsed":              record.HasRelapsed,
		"hasCommunicatedWithRehab": record.HasCommunicatedWithRehab,
		"notes":                    record.Notes,
		"isLocked":                 record.IsLocked,
		"timestamp":                firestore.ServerTimestamp,
	}
}
