package models

// RecordPatch carries the fields of one merge write. Nil fields are left
// untouched by the store. Goals merge key by key.
type RecordPatch struct {
	CheckedIn                *bool
	Goals                    map[string]bool
	EmotionalStatus          *RiskStatus
	HasRelapsed              *bool
	HasCommunicatedWithRehab *bool
	Notes                    *string
	IsLocked                 *bool
}

func (patch RecordPatch) IsEmpty() bool {
	return patch.CheckedIn == nil &&
		len(patch.Goals) == 0 &&
		patch.EmotionalStatus == nil &&
		patch.HasRelapsed == nil &&
		patch.HasCommunicatedWithRehab == nil &&
		patch.Notes == nil &&
		patch.IsLocked == nil
}

// ApplyTo returns record with the patch merged in.
func (patch RecordPatch) ApplyTo(record DailyRecord) DailyRecord {
	merged := record
	merged.FixedGoalsStatus = make(GoalsStatus, len(record.FixedGoalsStatus)+len(patch.Goals))
	for goalID, done := range record.FixedGoalsStatus {
		merged.FixedGoalsStatus[goalID] = done
	}
	for goalID, done := range patch.Goals {
		merged.FixedGoalsStatus[goalID] = done
	}
	if patch.CheckedIn != nil {
		merged.CheckedIn = *patch.CheckedIn
	}
	if patch.EmotionalStatus != nil {
		merged.EmotionalStatus = *patch.EmotionalStatus
	}
	if patch.HasRelapsed != nil {
		merged.HasRelapsed = *patch.HasRelapsed
	}
	if patch.HasCommunicatedWithRehab != nil {
		merged.HasCommunicatedWithRehab = *patch.HasCommunicatedWithRehab
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}
	if patch.IsLocked != nil {
		merged.IsLocked = *patch.IsLocked
	}
	return merged
}
