// Package sched runs the recurring-task maintenance jobs: the nightly
// reset of elapsed recurrences and the per-minute reminder dispatch.
package sched

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dsemenov/routinebot/internal/store"
)

// Notifier delivers a reminder to a chat. The bot satisfies it.
type Notifier interface {
	Notify(chatID int64, text string) error
}

type Scheduler struct {
	cron   *cron.Cron
	store  *store.Store
	notify Notifier
	loc    *time.Location
	log    *zap.SugaredLogger
}

func New(st *store.Store, n Notifier, loc *time.Location, log *zap.SugaredLogger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		store:  st,
		notify: n,
		loc:    loc,
		log:    log,
	}
}

// Start registers the cron entries and launches the scheduler.
func (s *Scheduler) Start() error {
	// shortly after midnight, so day boundaries have definitely passed
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		s.ResetRecurring(time.Now().In(s.loc))
	}); err != nil {
		return fmt.Errorf("schedule reset job: %w", err)
	}

	if _, err := s.cron.AddFunc("* * * * *", func() {
		s.DispatchReminders(time.Now().In(s.loc))
	}); err != nil {
		return fmt.Errorf("schedule reminder job: %w", err)
	}

	s.cron.Start()
	s.log.Infow("scheduler started", "tz", s.loc.String())
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ResetRecurring flips completed tasks whose period has elapsed back to
// pending.
func (s *Scheduler) ResetRecurring(now time.Time) {
	n, err := s.store.ResetRecurring(now)
	if err != nil {
		s.log.Errorf("recurring reset failed: %v", err)
		return
	}
	if n > 0 {
		s.log.Infow("recurring tasks reset", "count", n)
	}
}

// DispatchReminders sends a reminder for every pending task whose reminder
// time matches the current minute. Tasks already completed today are
// skipped even if their completed flag was reset since.
func (s *Scheduler) DispatchReminders(now time.Time) {
	reminders, err := s.store.RemindersAt(now.Format("15:04"))
	if err != nil {
		s.log.Errorf("reminder lookup failed: %v", err)
		return
	}

	for _, r := range reminders {
		done, err := s.store.CompletedToday(r.TaskID, now)
		if err != nil {
			s.log.Errorf("completion check for task %d failed: %v", r.TaskID, err)
			continue
		}
		if done {
			continue
		}

		text := fmt.Sprintf("⏰ Напоминание: %s", r.Title)
		if err := s.notify.Notify(r.ChatID, text); err != nil {
			s.log.Errorf("reminder for task %d failed: %v", r.TaskID, err)
			continue
		}
		s.log.Infow("reminder sent", "task_id", r.TaskID, "chat_id", r.ChatID)
	}
}
