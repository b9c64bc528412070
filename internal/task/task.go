package task

import (
	"database/sql"
	"time"
)

// User is a registered Telegram account.
type User struct {
	ID         int64
	TelegramID int64
	CreatedAt  time.Time
}

// Task is a recurring chore owned by a user. ReminderTime is an "HH:MM"
// wall-clock string, empty when no reminder is set. DaysOfWeek is only
// meaningful for SpecificDays tasks.
type Task struct {
	ID            int64
	UserID        int64
	Title         string
	Frequency     Frequency
	Importance    Importance
	DaysOfWeek    string
	ReminderTime  string
	Completed     bool
	LastCompleted sql.NullTime
	CreatedAt     time.Time
}

// ResetDue reports whether a completed task's recurrence period has elapsed,
// meaning it should flip back to pending.
func (t *Task) ResetDue(now time.Time) bool {
	if !t.Completed || !t.LastCompleted.Valid {
		return false
	}
	if t.Frequency == SpecificDays {
		return weekdayListed(t.DaysOfWeek, now.Weekday()) &&
			!sameDay(t.LastCompleted.Time, now)
	}
	return now.Sub(t.LastCompleted.Time) >= t.Frequency.Interval()
}

// DueToday reports whether the task is scheduled for the given day and
// still pending.
func (t *Task) DueToday(now time.Time) bool {
	if t.Completed {
		return false
	}
	if t.Frequency == SpecificDays {
		return weekdayListed(t.DaysOfWeek, now.Weekday())
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
