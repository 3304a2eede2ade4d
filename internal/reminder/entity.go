package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Job is one recurring reminder registration, one row per habit.
type Job struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HabitID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"habit_id"`
	IntervalDays int       `gorm:"not null" json:"interval_days"`
	NextRunAt    time.Time `gorm:"index;not null" json:"next_run_at"`
	Enabled      bool      `gorm:"default:true" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Advance moves NextRunAt forward by whole intervals until it is after now.
func (j *Job) Advance(now time.Time) {
	step := time.Duration(j.IntervalDays) * 24 * time.Hour
	for !j.NextRunAt.After(now) {
		j.NextRunAt = j.NextRunAt.Add(step)
	}
}
