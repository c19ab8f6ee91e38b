package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/registro/internal/models"
)

const sessionWait = 2 * time.Second

func newSessionFixture(t *testing.T) (*memoryStore, *DayService, *FormSession, chan FormState) {
	t.Helper()
	store := newMemoryStore()
	days := NewDayService(store, fixedClock("2024-05-10T12:00:00Z"), time.UTC, discardLogger())
	states := make(chan FormState, 32)
	session := NewFormSession(days, "u", func(state FormState) {
		states <- state
	})
	t.Cleanup(session.Close)
	return store, days, session, states
}

func waitForState(t *testing.T, states <-chan FormState, match func(FormState) bool) FormState {
	t.Helper()
	deadline := time.After(sessionWait)
	for {
		select {
		case state := <-states:
			if match(state) {
				return state
			}
		case <-deadline:
			t.Fatal("timed out waiting for form state")
			return FormState{}
		}
	}
}

func TestFormSessionDeliversInitialAndEchoedState(t *testing.T) {
	_, _, session, states := newSessionFixture(t)
	ctx := context.Background()

	if err := session.Select(ctx, "2024-05-10"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	initial := waitForState(t, states, func(state FormState) bool { return state.SelectedDate == "2024-05-10" })
	if initial.Exists || initial.Progress.Completed != 0 {
		t.Fatalf("unexpected initial state %+v", initial)
	}

	if err := session.Dispatch(ctx, SetCheckedIn{Value: true}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	echoed := waitForState(t, states, func(state FormState) bool { return state.Record.CheckedIn })
	if !echoed.Exists || echoed.Progress.Completed != 1 {
		t.Fatalf("unexpected echoed state %+v", echoed)
	}
}

func TestFormSessionLockedDispatchSetsMessageWithoutWrite(t *testing.T) {
	store, _, session, states := newSessionFixture(t)
	ctx := context.Background()

	locked := models.NewDailyRecord("u", "2024-05-09")
	locked.IsLocked = true
	if err := store.BulkUpsert(ctx, []models.DailyRecord{locked}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := session.Select(ctx, "2024-05-09"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitForState(t, states, func(state FormState) bool { return state.Gates.Locked })

	err := session.Dispatch(ctx, SetGoal{GoalID: "salida_casa", Value: true})
	if !errors.Is(err, ErrRecordLocked) {
		t.Fatalf("expected ErrRecordLocked, got %v", err)
	}
	if store.writeCount() != 0 {
		t.Fatalf("expected no writes, got %d", store.writeCount())
	}
	if got := session.State().MessageKey; got != MessageLocked {
		t.Fatalf("message key = %q, want %q", got, MessageLocked)
	}
}

func TestFormSessionFutureLockMessage(t *testing.T) {
	store, _, session, states := newSessionFixture(t)
	ctx := context.Background()

	if err := session.Select(ctx, "2024-05-11"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitForState(t, states, func(state FormState) bool { return state.Gates.Future })

	if err := session.Dispatch(ctx, ToggleLock{}); !errors.Is(err, ErrFutureLock) {
		t.Fatalf("expected ErrFutureLock, got %v", err)
	}
	if store.writeCount() != 0 {
		t.Fatal("future lock must not write")
	}
	if got := session.State().MessageKey; got != MessageFutureLock {
		t.Fatalf("message key = %q, want %q", got, MessageFutureLock)
	}
}

func TestFormSessionDropsStaleSubscription(t *testing.T) {
	store, _, session, states := newSessionFixture(t)
	ctx := context.Background()

	if err := session.Select(ctx, "2024-05-08"); err != nil {
		t.Fatalf("Select A: %v", err)
	}
	waitForState(t, states, func(state FormState) bool { return state.SelectedDate == "2024-05-08" })

	if err := session.Select(ctx, "2024-05-09"); err != nil {
		t.Fatalf("Select B: %v", err)
	}
	waitForState(t, states, func(state FormState) bool { return state.SelectedDate == "2024-05-09" })

	if err := store.MergeWrite(ctx, "u", "2024-05-08", models.RecordPatch{CheckedIn: boolPtr(true)}); err != nil {
		t.Fatalf("write A: %v", err)
	}

	select {
	case state := <-states:
		t.Fatalf("unexpected delivery after switching days: %+v", state)
	case <-time.After(100 * time.Millisecond):
	}

	stale := models.RecordSnapshot{Record: fullRecord("u", "2024-05-08"), Exists: true}
	session.deliver(1, stale)
	state := session.State()
	if state.SelectedDate != "2024-05-09" || state.Record.CheckedIn {
		t.Fatalf("stale snapshot leaked into state: %+v", state)
	}
}

func TestFormSessionCloseStopsDeliveries(t *testing.T) {
	store, _, session, states := newSessionFixture(t)
	ctx := context.Background()

	if err := session.Select(ctx, "2024-05-10"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	waitForState(t, states, func(FormState) bool { return true })

	session.Close()
	session.Close()

	if err := store.MergeWrite(ctx, "u", "2024-05-10", models.RecordPatch{Notes: ptr("tarde")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case state := <-states:
		t.Fatalf("unexpected delivery after close: %+v", state)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFormSessionRejectsInvalidDate(t *testing.T) {
	_, _, session, _ := newSessionFixture(t)

	if err := session.Select(context.Background(), "mañana"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := session.Dispatch(context.Background(), SetCheckedIn{Value: true}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate before selection, got %v", err)
	}
}

// silentWatchStore holds back every snapshot, as a slow backend would
// before its first delivery.
type silentWatchStore struct {
	*memoryStore
}

func (store silentWatchStore) Watch(context.Context, string, string) (<-chan models.RecordSnapshot, func()) {
	snapshots := make(chan models.RecordSnapshot)
	var once sync.Once
	return snapshots, func() { once.Do(func() { close(snapshots) }) }
}

func TestFormSessionDispatchBeforeFirstSnapshotHonorsLock(t *testing.T) {
	store := silentWatchStore{memoryStore: newMemoryStore()}
	days := NewDayService(store, fixedClock("2024-05-10T12:00:00Z"), time.UTC, discardLogger())
	session := NewFormSession(days, "u", nil)
	t.Cleanup(session.Close)
	ctx := context.Background()

	locked := models.NewDailyRecord("u", "2024-05-09")
	locked.IsLocked = true
	if err := store.BulkUpsert(ctx, []models.DailyRecord{locked}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := session.Select(ctx, "2024-05-09"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	err := session.Dispatch(ctx, SetCheckedIn{Value: true})
	if !errors.Is(err, ErrRecordLocked) {
		t.Fatalf("expected ErrRecordLocked, got %v", err)
	}
	if store.writeCount() != 0 {
		t.Fatalf("expected no writes, got %d", store.writeCount())
	}
	stored, _, _ := store.Get(ctx, "u", "2024-05-09")
	if stored.CheckedIn {
		t.Fatal("locked record was modified")
	}
	if got := session.State().MessageKey; got != MessageLocked {
		t.Fatalf("message key = %q, want %q", got, MessageLocked)
	}
}

func TestFormSessionDispatchBeforeFirstSnapshotWritesOpenDay(t *testing.T) {
	store := silentWatchStore{memoryStore: newMemoryStore()}
	days := NewDayService(store, fixedClock("2024-05-10T12:00:00Z"), time.UTC, discardLogger())
	session := NewFormSession(days, "u", nil)
	t.Cleanup(session.Close)
	ctx := context.Background()

	if err := session.Select(ctx, "2024-05-10"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := session.Dispatch(ctx, SetGoal{GoalID: "salida_casa", Value: true}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	stored, found, _ := store.Get(ctx, "u", "2024-05-10")
	if !found || !stored.GoalDone("salida_casa") || store.writeCount() != 1 {
		t.Fatalf("expected one write with the goal set, got %+v (writes %d)", stored, store.writeCount())
	}
}
