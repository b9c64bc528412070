package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dsemenov/routinebot/internal/task"
)

// Store is the persistence layer for users, tasks and completion history.
// All timestamps are written in UTC.
type Store struct {
	db *DB
}

func New(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(telegramID int64) (*task.User, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO users (telegram_id, created_at) VALUES (?, ?)`,
		telegramID, now)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &task.User{ID: id, TelegramID: telegramID, CreatedAt: now}, nil
}

// UserByTelegramID returns (nil, nil) when the user is not registered.
func (s *Store) UserByTelegramID(telegramID int64) (*task.User, error) {
	u := &task.User{}
	err := s.db.QueryRow(
		`SELECT id, telegram_id, created_at FROM users WHERE telegram_id = ?`,
		telegramID).Scan(&u.ID, &u.TelegramID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Users returns every registered user.
func (s *Store) Users() ([]*task.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*task.User
	for rows.Next() {
		u := &task.User{}
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateTask inserts t and fills in its ID and CreatedAt.
func (s *Store) CreateTask(t *task.Task) error {
	if t.Importance == 0 {
		t.Importance = task.MediumImportant
	}
	t.CreatedAt = time.Now().UTC()

	res, err := s.db.Exec(
		`INSERT INTO tasks (user_id, title, frequency, importance, days_of_week, reminder_time, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		t.UserID, t.Title, t.Frequency.String(), int(t.Importance),
		t.DaysOfWeek, t.ReminderTime, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

const taskColumns = `id, user_id, title, frequency, importance, days_of_week, reminder_time, completed, last_completed, created_at`

func scanTask(row interface{ Scan(...any) error }) (*task.Task, error) {
	t := &task.Task{}
	var freq string
	var imp int
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &freq, &imp, &t.DaysOfWeek,
		&t.ReminderTime, &t.Completed, &t.LastCompleted, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Frequency, err = task.ParseFrequency(freq)
	if err != nil {
		return nil, err
	}
	t.Importance = task.Importance(imp)
	return t, nil
}

// TaskByID returns (nil, nil) when no such task exists.
func (s *Store) TaskByID(id int64) (*task.Task, error) {
	t, err := scanTask(s.db.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) TasksByUser(userID int64) ([]*task.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CompleteTask marks the task done, stamps last_completed and records a row
// in the completion history. Returns (nil, nil) when the task is missing.
func (s *Store) CompleteTask(id int64, now time.Time) (*task.Task, error) {
	t, err := s.TaskByID(id)
	if err != nil || t == nil {
		return nil, err
	}

	now = now.UTC()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE tasks SET completed = 1, last_completed = ? WHERE id = ?`,
		now, id); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO completions (task_id, completed_at) VALUES (?, ?)`,
		id, now); err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	t.Completed = true
	t.LastCompleted = sql.NullTime{Time: now, Valid: true}
	return t, nil
}

func (s *Store) DeleteTask(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// CompletedToday reports whether the task has a completion recorded on the
// same calendar day as now.
func (s *Store) CompletedToday(taskID int64, now time.Time) (bool, error) {
	var last time.Time
	err := s.db.QueryRow(
		`SELECT completed_at FROM completions WHERE task_id = ? ORDER BY completed_at DESC LIMIT 1`,
		taskID).Scan(&last)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check completion: %w", err)
	}

	y1, m1, d1 := last.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2, nil
}

// TasksDueToday returns the user's pending tasks scheduled for the given day.
func (s *Store) TasksDueToday(userID int64, now time.Time) ([]*task.Task, error) {
	tasks, err := s.TasksByUser(userID)
	if err != nil {
		return nil, err
	}
	var due []*task.Task
	for _, t := range tasks {
		if t.DueToday(now) {
			due = append(due, t)
		}
	}
	return due, nil
}

// ResetRecurring flips every completed task whose recurrence period has
// elapsed back to pending and returns how many were reset.
func (s *Store) ResetRecurring(now time.Time) (int, error) {
	rows, err := s.db.Query(
		`SELECT ` + taskColumns + ` FROM tasks WHERE completed = 1`)
	if err != nil {
		return 0, fmt.Errorf("load completed tasks: %w", err)
	}

	var toReset []int64
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return 0, err
		}
		if t.ResetDue(now) {
			toReset = append(toReset, t.ID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(toReset) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	for _, id := range toReset {
		if _, err := tx.Exec(`UPDATE tasks SET completed = 0 WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("reset task %d: %w", id, err)
		}
	}
	return len(toReset), tx.Commit()
}

// Reminder is a due notification joined with its recipient chat.
type Reminder struct {
	TaskID int64
	Title  string
	ChatID int64
}

// RemindersAt returns pending tasks whose reminder matches the "HH:MM"
// minute, with the owner's telegram chat id.
func (s *Store) RemindersAt(minute string) ([]Reminder, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.title, u.telegram_id
		 FROM tasks t JOIN users u ON u.id = t.user_id
		 WHERE t.reminder_time = ? AND t.completed = 0`, minute)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.TaskID, &r.Title, &r.ChatID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
