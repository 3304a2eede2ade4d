package habit

import (
	"github.com/google/uuid"

	util "github.com/d-medvedev/habits-api/internal/utils"
)

type CreateHabitDTO struct {
	Location        *string         `json:"location,omitempty"`
	DateDeadline    *util.Date      `json:"date_deadline,omitempty"`
	TimeDeadline    *util.TimeOfDay `json:"time_deadline,omitempty"`
	Action          string          `json:"action"`
	IsEnjoyable     *bool           `json:"is_enjoyable,omitempty"`
	AssociatedHabit *uuid.UUID      `json:"associated_habit,omitempty"`
	Periodicity     *int            `json:"periodicity,omitempty"`
	Reward          *string         `json:"reward,omitempty"`
	TimeToComplete  *int            `json:"time_to_complete,omitempty"`
	IsPublic        *bool           `json:"is_public,omitempty"`
}

// UpdateHabitDTO carries a partial update; nil fields leave the stored value
// untouched. The owner is immutable and deliberately absent here.
type UpdateHabitDTO struct {
	Location        *string         `json:"location,omitempty"`
	DateDeadline    *util.Date      `json:"date_deadline,omitempty"`
	TimeDeadline    *util.TimeOfDay `json:"time_deadline,omitempty"`
	Action          *string         `json:"action,omitempty"`
	IsEnjoyable     *bool           `json:"is_enjoyable,omitempty"`
	AssociatedHabit *uuid.UUID      `json:"associated_habit,omitempty"`
	Periodicity     *int            `json:"periodicity,omitempty"`
	Reward          *string         `json:"reward,omitempty"`
	TimeToComplete  *int            `json:"time_to_complete,omitempty"`
	IsPublic        *bool           `json:"is_public,omitempty"`
	IsActive        *bool           `json:"is_active,omitempty"`
}

// PublicHabitResponse is the reduced projection used by the public list.
type PublicHabitResponse struct {
	ID             uuid.UUID `json:"id"`
	Action         string    `json:"action"`
	Periodicity    int       `json:"periodicity"`
	TimeToComplete *int      `json:"time_to_complete"`
	IsPublic       bool      `json:"is_public"`
}

func toPublicResponse(h *Habit) PublicHabitResponse {
	return PublicHabitResponse{
		ID:             h.ID,
		Action:         h.Action,
		Periodicity:    h.Periodicity,
		TimeToComplete: h.TimeToComplete,
		IsPublic:       h.IsPublic,
	}
}

// HabitPage is a single page of results together with the total match count.
type HabitPage struct {
	Count  int64
	Habits []Habit
}
