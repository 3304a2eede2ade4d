package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d-medvedev/habits-api/internal/config"
	"github.com/d-medvedev/habits-api/internal/habit"
	"github.com/d-medvedev/habits-api/internal/user"
)

// Sender delivers one reminder message to a chat.
type Sender interface {
	Send(chatID int64, text string) error
}

// Worker polls due reminder jobs and sends best-effort notifications to habit
// owners with a linked chat.
type Worker struct {
	jobs      JobStore
	habitRepo habit.HabitRepository
	userRepo  user.UserRepository
	sender    Sender
	interval  time.Duration
	now       func() time.Time
}

func NewWorker(jobs JobStore, habitRepo habit.HabitRepository, userRepo user.UserRepository, sender Sender, interval time.Duration) *Worker {
	return &Worker{
		jobs:      jobs,
		habitRepo: habitRepo,
		userRepo:  userRepo,
		sender:    sender,
		interval:  interval,
		now:       time.Now,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunDue(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// RunDue processes every job whose next run has passed. Delivery failures are
// logged and the job still advances: reminders are at-most-once per interval.
func (w *Worker) RunDue(ctx context.Context) {
	log := config.WithContext(ctx)
	now := w.now()

	jobs, err := w.jobs.Due(now)
	if err != nil {
		log.WithError(err).Error("Failed to load due reminder jobs")
		return
	}

	for i := range jobs {
		job := &jobs[i]

		h, err := w.habitRepo.FindByID(job.HabitID)
		if err != nil {
			if errors.Is(err, habit.ErrNotFound) {
				if err := w.jobs.Disable(job.HabitID); err != nil {
					log.WithError(err).Warnf("Failed to disable orphaned job for habit %s", job.HabitID)
				}
				continue
			}
			log.WithError(err).Errorf("Failed to load habit %s for reminder", job.HabitID)
			continue
		}
		if !h.IsActive {
			if err := w.jobs.Disable(job.HabitID); err != nil {
				log.WithError(err).Warnf("Failed to disable job for inactive habit %s", job.HabitID)
			}
			continue
		}

		w.notify(ctx, h)

		job.Advance(now)
		if err := w.jobs.Save(job); err != nil {
			log.WithError(err).Errorf("Failed to advance reminder job for habit %s", job.HabitID)
		}
	}
}

func (w *Worker) notify(ctx context.Context, h *habit.Habit) {
	log := config.WithContext(ctx)

	if h.OwnerID == nil {
		return
	}
	owner, err := w.userRepo.FindByID(*h.OwnerID)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.WithError(err).Errorf("Failed to load owner of habit %s", h.ID)
		}
		return
	}
	if owner.TelegramChatID == nil {
		return
	}

	if err := w.sender.Send(*owner.TelegramChatID, Message(h)); err != nil {
		log.WithError(err).Warnf("Failed to deliver reminder for habit %s", h.ID)
	}
}

// Message builds the reminder text for a habit.
func Message(h *habit.Habit) string {
	text := "Reminder: today I will " + h.Action
	if h.TimeDeadline != nil && !h.TimeDeadline.IsZero() {
		text += fmt.Sprintf(" at %s", h.TimeDeadline)
	}
	if h.Location != nil && *h.Location != "" {
		text += fmt.Sprintf(" in %s", *h.Location)
	}
	return text + "."
}
