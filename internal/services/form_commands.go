package services

import (
	"fmt"
	"unicode/utf8"

	"github.com/terraincognita07/registro/internal/models"
)

// Command is one user mutation of a day. Implementations translate to the
// smallest RecordPatch that expresses them.
type Command interface {
	Name() string
	patch(current models.DailyRecord) (models.RecordPatch, error)
	mutatesContent() bool
}

type SetCheckedIn struct {
	Value bool
}

type SetGoal struct {
	GoalID string
	Value  bool
}

// SelectRisk clears the status when it equals the current one.
type SelectRisk struct {
	Status models.RiskStatus
}

type SetRelapsed struct {
	Value bool
}

type SetRehabContact struct {
	Value bool
}

type SetNotes struct {
	Text string
}

type ToggleLock struct{}

func (SetCheckedIn) Name() string    { return "set_checked_in" }
func (SetGoal) Name() string         { return "set_goal" }
func (SelectRisk) Name() string      { return "select_risk" }
func (SetRelapsed) Name() string     { return "set_relapsed" }
func (SetRehabContact) Name() string { return "set_rehab_contact" }
func (SetNotes) Name() string        { return "set_notes" }
func (ToggleLock) Name() string      { return "toggle_lock" }

func (SetCheckedIn) mutatesContent() bool    { return true }
func (SetGoal) mutatesContent() bool         { return true }
func (SelectRisk) mutatesContent() bool      { return true }
func (SetRelapsed) mutatesContent() bool     { return true }
func (SetRehabContact) mutatesContent() bool { return true }
func (SetNotes) mutatesContent() bool        { return true }
func (ToggleLock) mutatesContent() bool      { return false }

func (cmd SetCheckedIn) patch(models.DailyRecord) (models.RecordPatch, error) {
	return models.RecordPatch{CheckedIn: boolPtr(cmd.Value)}, nil
}

func (cmd SetGoal) patch(models.DailyRecord) (models.RecordPatch, error) {
	if !models.IsFixedGoal(cmd.GoalID) {
		return models.RecordPatch{}, fmt.Errorf("%w: %q", ErrUnknownGoal, cmd.GoalID)
	}
	return models.RecordPatch{Goals: map[string]bool{cmd.GoalID: cmd.Value}}, nil
}

func (cmd SelectRisk) patch(current models.DailyRecord) (models.RecordPatch, error) {
	if !cmd.Status.Valid() {
		return models.RecordPatch{}, fmt.Errorf("%w: %q", ErrInvalidRisk, string(cmd.Status))
	}
	next := cmd.Status
	if current.EmotionalStatus == cmd.Status {
		next = models.RiskNone
	}
	return models.RecordPatch{EmotionalStatus: &next}, nil
}

func (cmd SetRelapsed) patch(models.DailyRecord) (models.RecordPatch, error) {
	return models.RecordPatch{HasRelapsed: boolPtr(cmd.Value)}, nil
}

func (cmd SetRehabContact) patch(models.DailyRecord) (models.RecordPatch, error) {
	return models.RecordPatch{HasCommunicatedWithRehab: boolPtr(cmd.Value)}, nil
}

func (cmd SetNotes) patch(models.DailyRecord) (models.RecordPatch, error) {
	if !utf8.ValidString(cmd.Text) || utf8.RuneCountInString(cmd.Text) > models.MaxNotesLength {
		return models.RecordPatch{}, ErrNotesTooLong
	}
	text := cmd.Text
	return models.RecordPatch{Notes: &text}, nil
}

func (ToggleLock) patch(current models.DailyRecord) (models.RecordPatch, error) {
	return models.RecordPatch{IsLocked: boolPtr(!current.IsLocked)}, nil
}

// Gates reports the two independent guards of a day form.
type Gates struct {
	Locked bool
	Future bool
}

func (gates Gates) Disabled() bool {
	return gates.Locked || gates.Future
}

func GatesFor(record models.DailyRecord, selectedDate string, today string) Gates {
	return Gates{
		Locked: record.IsLocked,
		Future: IsFuture(selectedDate, today),
	}
}

// PlanCommand validates cmd against the gates and returns the patch to write.
func PlanCommand(current models.DailyRecord, today string, cmd Command) (models.RecordPatch, error) {
	if cmd == nil {
		return models.RecordPatch{}, ErrUnknownCmd
	}
	gates := GatesFor(current, current.DateString, today)
	if cmd.mutatesContent() {
		if gates.Future {
			return models.RecordPatch{}, ErrFutureDate
		}
		if gates.Locked {
			return models.RecordPatch{}, ErrRecordLocked
		}
	} else if gates.Future {
		return models.RecordPatch{}, ErrFutureLock
	}
	return cmd.patch(current)
}

func boolPtr(value bool) *bool {
	return &value
}
