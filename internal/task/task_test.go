package task

import (
	"database/sql"
	"testing"
	"time"
)

// 2025-01-06 is a Monday.
var monday = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("weekly")
	if err != nil {
		t.Fatal(err)
	}
	if f != Weekly {
		t.Errorf("expected Weekly, got %v", f)
	}

	if _, err := ParseFrequency("FORTNIGHTLY"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestFrequencyInterval(t *testing.T) {
	if got := EveryTwoDays.Interval(); got != 48*time.Hour {
		t.Errorf("expected 48h, got %v", got)
	}
	if got := SpecificDays.Interval(); got != 0 {
		t.Errorf("expected 0 for SPECIFIC_DAYS, got %v", got)
	}
}

func TestParseDaysOfWeek(t *testing.T) {
	days, err := ParseDaysOfWeek(" mon, THU ")
	if err != nil {
		t.Fatal(err)
	}
	if days != "MON,THU" {
		t.Errorf("expected normalized list, got %q", days)
	}

	if _, err := ParseDaysOfWeek("MON,FOO"); err == nil {
		t.Error("expected error for unknown weekday")
	}
	if _, err := ParseDaysOfWeek(""); err == nil {
		t.Error("expected error for empty list")
	}
}

func TestResetDue(t *testing.T) {
	completedAt := func(ts time.Time) sql.NullTime {
		return sql.NullTime{Time: ts, Valid: true}
	}

	t.Run("Everyday After Day", func(t *testing.T) {
		task := Task{Frequency: Everyday, Completed: true,
			LastCompleted: completedAt(monday.Add(-25 * time.Hour))}
		if !task.ResetDue(monday) {
			t.Error("expected reset due")
		}
	})

	t.Run("Everyday Same Day", func(t *testing.T) {
		task := Task{Frequency: Everyday, Completed: true,
			LastCompleted: completedAt(monday.Add(-2 * time.Hour))}
		if task.ResetDue(monday) {
			t.Error("expected not due yet")
		}
	})

	t.Run("Weekly After Eight Days", func(t *testing.T) {
		task := Task{Frequency: Weekly, Completed: true,
			LastCompleted: completedAt(monday.AddDate(0, 0, -8))}
		if !task.ResetDue(monday) {
			t.Error("expected reset due")
		}
	})

	t.Run("Monthly After 31 Days", func(t *testing.T) {
		task := Task{Frequency: Monthly, Completed: true,
			LastCompleted: completedAt(monday.AddDate(0, 0, -31))}
		if !task.ResetDue(monday) {
			t.Error("expected reset due")
		}
	})

	t.Run("Not Completed", func(t *testing.T) {
		task := Task{Frequency: Everyday}
		if task.ResetDue(monday) {
			t.Error("uncompleted task can never be reset")
		}
	})

	t.Run("Specific Days Matching", func(t *testing.T) {
		task := Task{Frequency: SpecificDays, DaysOfWeek: "MON,THU",
			Completed:     true,
			LastCompleted: completedAt(monday.AddDate(0, 0, -1))}
		if !task.ResetDue(monday) {
			t.Error("expected reset on listed weekday")
		}
	})

	t.Run("Specific Days Same Day", func(t *testing.T) {
		task := Task{Frequency: SpecificDays, DaysOfWeek: "MON",
			Completed:     true,
			LastCompleted: completedAt(monday.Add(-time.Hour))}
		if task.ResetDue(monday) {
			t.Error("completed today must not reset today")
		}
	})

	t.Run("Specific Days Not Listed", func(t *testing.T) {
		task := Task{Frequency: SpecificDays, DaysOfWeek: "FRI",
			Completed:     true,
			LastCompleted: completedAt(monday.AddDate(0, 0, -1))}
		if task.ResetDue(monday) {
			t.Error("expected no reset on unlisted weekday")
		}
	})
}

func TestDueToday(t *testing.T) {
	t.Run("Interval Pending", func(t *testing.T) {
		task := Task{Frequency: Weekly}
		if !task.DueToday(monday) {
			t.Error("pending interval task is always due")
		}
	})

	t.Run("Completed", func(t *testing.T) {
		task := Task{Frequency: Everyday, Completed: true}
		if task.DueToday(monday) {
			t.Error("completed task is not due")
		}
	})

	t.Run("Specific Days", func(t *testing.T) {
		task := Task{Frequency: SpecificDays, DaysOfWeek: "MON"}
		if !task.DueToday(monday) {
			t.Error("expected due on listed weekday")
		}
		task.DaysOfWeek = "TUE"
		if task.DueToday(monday) {
			t.Error("expected not due on unlisted weekday")
		}
	})
}
