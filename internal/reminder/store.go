package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobStore is the persistence surface the worker polls.
type JobStore interface {
	Due(now time.Time) ([]Job, error)
	Save(j *Job) error
	Disable(habitID uuid.UUID) error
}

// Store keeps reminder jobs in the database. It implements both the habit
// service's Scheduler and the worker's JobStore.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ScheduleRecurring(ctx context.Context, habitID uuid.UUID, intervalDays int) error {
	if intervalDays < 1 {
		intervalDays = 1
	}
	job := Job{
		ID:           uuid.New(),
		HabitID:      habitID,
		IntervalDays: intervalDays,
		NextRunAt:    time.Now().Add(time.Duration(intervalDays) * 24 * time.Hour),
		Enabled:      true,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"interval_days", "next_run_at", "enabled"}),
		}).
		Create(&job).Error
}

func (s *Store) Reschedule(ctx context.Context, habitID uuid.UUID, intervalDays int) error {
	return s.ScheduleRecurring(ctx, habitID, intervalDays)
}

func (s *Store) Unschedule(ctx context.Context, habitID uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&Job{}, "habit_id = ?", habitID).Error
}

func (s *Store) Due(now time.Time) ([]Job, error) {
	var jobs []Job
	if err := s.db.
		Where("enabled = ? AND next_run_at <= ?", true, now).
		Order("next_run_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) Save(j *Job) error {
	return s.db.Save(j).Error
}

func (s *Store) Disable(habitID uuid.UUID) error {
	err := s.db.Model(&Job{}).
		Where("habit_id = ?", habitID).
		Update("enabled", false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
