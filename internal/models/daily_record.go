package models

import "time"

const (
	TotalFixedGoals = 8
	TotalPoints     = TotalFixedGoals + 1
	MaxNotesLength  = 2000 // characters
)

// GoalsStatus holds only the goal ids that were ever written for a day.
type GoalsStatus map[string]bool

type DailyRecord struct {
	ID                       string      `gorm:"primaryKey;column:id" json:"id" firestore:"-"`
	UserID                   string      `gorm:"column:user_id;not null;index:idx_daily_records_user" json:"userId" firestore:"userId"`
	DateString               string      `gorm:"column:date_string;not null" json:"dateString" firestore:"dateString"`
	CheckedIn                bool        `gorm:"column:checked_in" json:"checkedIn" firestore:"checkedIn"`
	FixedGoalsStatus         GoalsStatus `gorm:"column:fixed_goals_status;serializer:json" json:"fixedGoalsStatus" firestore:"fixedGoalsStatus"`
	EmotionalStatus          RiskStatus  `gorm:"column:emotional_status" json:"emotionalStatus,omitempty" firestore:"emotionalStatus"`
	HasRelapsed              bool        `gorm:"column:has_relapsed" json:"hasRelapsed" firestore:"hasRelapsed"`
	HasCommunicatedWithRehab bool        `gorm:"column:has_communicated_with_rehab" json:"hasCommunicatedWithRehab" firestore:"hasCommunicatedWithRehab"`
	Notes                    string      `gorm:"column:notes" json:"notes" firestore:"notes"`
	IsLocked                 bool        `gorm:"column:is_locked" json:"isLocked" firestore:"isLocked"`
	Timestamp                time.Time   `gorm:"column:timestamp" json:"timestamp" firestore:"timestamp"`
}

func (DailyRecord) TableName() string {
	return "daily_records"
}

func RecordID(userID string, dateString string) string {
	return userID + "-" + dateString
}

// NewDailyRecord returns the defaults a reader sees for a day nobody wrote yet.
func NewDailyRecord(userID string, dateString string) DailyRecord {
	return DailyRecord{
		ID:               RecordID(userID, dateString),
		UserID:           userID,
		DateString:       dateString,
		FixedGoalsStatus: GoalsStatus{},
	}
}

func (record DailyRecord) GoalDone(goalID string) bool {
	return record.FixedGoalsStatus[goalID]
}

// CompletedItems counts the check-in plus every goal marked done.
func (record DailyRecord) CompletedItems() int {
	completed := 0
	if record.CheckedIn {
		completed++
	}
	for _, goal := range FixedGoals {
		if record.FixedGoalsStatus[goal.ID] {
			completed++
		}
	}
	return completed
}

// RecordSnapshot is one delivery of a live day subscription.
type RecordSnapshot struct {
	Record DailyRecord
	Exists bool
	Err    error
}
