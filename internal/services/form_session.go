package services

import (
	"context"
	"errors"
	"sync"

	"github.com/terraincognita07/registro/internal/models"
)

const (
	MessageFutureLock   = "error.future_lock"
	MessageFutureDate   = "error.future_date"
	MessageLocked       = "error.locked"
	MessageInvalidInput = "error.invalid_input"
	MessageSaveFailed   = "error.save_failed"
	MessageLoadFailed   = "error.load_failed"
)

// FormState is what a form view renders for the selected day.
type FormState struct {
	UserID       string
	SelectedDate string
	Today        string
	Record       models.DailyRecord
	Exists       bool
	Gates        Gates
	Progress     Progress
	MessageKey   string
}

// FormSession follows one selected day for one viewer. Snapshots from a
// subscription that was replaced are discarded by generation.
type FormSession struct {
	days     *DayService
	userID   string
	onChange func(FormState)

	mu         sync.Mutex
	generation uint64
	selected   string
	record     models.DailyRecord
	exists     bool
	loaded     bool
	messageKey string
	cancel     func()
}

func NewFormSession(days *DayService, userID string, onChange func(FormState)) *FormSession {
	return &FormSession{
		days:     days,
		userID:   userID,
		onChange: onChange,
	}
}

// Select switches the session to dateString and starts a fresh subscription.
func (session *FormSession) Select(ctx context.Context, dateString string) error {
	date, err := CanonicalDate(dateString)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.generation++
	generation := session.generation
	previous := session.cancel
	session.cancel = nil
	session.selected = date
	session.record = models.NewDailyRecord(session.userID, date)
	session.exists = false
	session.loaded = false
	session.messageKey = ""
	session.mu.Unlock()

	if previous != nil {
		previous()
	}

	snapshots, cancel, err := session.days.WatchDay(ctx, session.userID, date)
	if err != nil {
		return err
	}

	session.mu.Lock()
	if session.generation != generation {
		session.mu.Unlock()
		cancel()
		return nil
	}
	session.cancel = cancel
	session.mu.Unlock()

	go func() {
		for snapshot := range snapshots {
			session.deliver(generation, snapshot)
		}
	}()
	return nil
}

func (session *FormSession) deliver(generation uint64, snapshot models.RecordSnapshot) {
	session.mu.Lock()
	if generation != session.generation {
		session.mu.Unlock()
		return
	}
	if snapshot.Err != nil {
		session.messageKey = MessageLoadFailed
	} else {
		session.record = snapshot.Record
		session.exists = snapshot.Exists
		session.loaded = true
		session.messageKey = ""
	}
	state := session.stateLocked()
	session.mu.Unlock()

	if session.onChange != nil {
		session.onChange(state)
	}
}

// Dispatch drives the session from in-process callers that do not go through
// HTTP; request handlers use DayService.ApplyCommand. It plans cmd against the
// last delivered snapshot, or a fresh read while none has arrived, and writes
// it. Local state only changes when the subscription echoes the write back.
func (session *FormSession) Dispatch(ctx context.Context, cmd Command) error {
	session.mu.Lock()
	current := session.record
	selected := session.selected
	loaded := session.loaded
	session.mu.Unlock()

	if selected == "" {
		return ErrInvalidDate
	}

	var err error
	messageKey := ""
	if !loaded {
		current, _, err = session.days.FetchDay(ctx, session.userID, selected)
		if err != nil {
			messageKey = MessageLoadFailed
		}
	}

	var patch models.RecordPatch
	if err == nil {
		patch, err = PlanCommand(current, session.days.Today(), cmd)
	}
	if err == nil {
		if writeErr := session.days.store.MergeWrite(ctx, session.userID, selected, patch); writeErr != nil {
			err = persistenceError("merge write", writeErr)
		}
	}

	session.mu.Lock()
	if session.selected == selected {
		if messageKey == "" {
			messageKey = MessageKeyFor(err)
		}
		session.messageKey = messageKey
	}
	state := session.stateLocked()
	session.mu.Unlock()

	if err != nil && session.onChange != nil {
		session.onChange(state)
	}
	return err
}

func (session *FormSession) State() FormState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.stateLocked()
}

// Close cancels the active subscription. Safe to call more than once.
func (session *FormSession) Close() {
	session.mu.Lock()
	session.generation++
	cancel := session.cancel
	session.cancel = nil
	session.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (session *FormSession) stateLocked() FormState {
	today := session.days.Today()
	return FormState{
		UserID:       session.userID,
		SelectedDate: session.selected,
		Today:        today,
		Record:       session.record,
		Exists:       session.exists,
		Gates:        GatesFor(session.record, session.selected, today),
		Progress:     ProgressFor(session.record),
		MessageKey:   session.messageKey,
	}
}

// MessageKeyFor maps a command error to the i18n key shown inline.
func MessageKeyFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFutureLock):
		return MessageFutureLock
	case errors.Is(err, ErrFutureDate):
		return MessageFutureDate
	case errors.Is(err, ErrRecordLocked):
		return MessageLocked
	case errors.Is(err, ErrValidation):
		return MessageInvalidInput
	case errors.Is(err, ErrPersistence):
		return MessageSaveFailed
	default:
		return MessageSaveFailed
	}
}
