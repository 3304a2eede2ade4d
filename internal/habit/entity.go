package habit

import (
	"time"

	"github.com/google/uuid"

	"github.com/d-medvedev/habits-api/internal/user"
	util "github.com/d-medvedev/habits-api/internal/utils"
)

// Habit is a recurring user action, optionally rewarded either with a text
// reward or with a linked pleasant habit, never both.
type Habit struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID           *uuid.UUID      `gorm:"type:uuid;index" json:"owner"`
	Owner             *user.User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Location          *string         `gorm:"size:30" json:"location,omitempty"`
	DateDeadline      *util.Date      `gorm:"type:date" json:"date_deadline,omitempty"`
	TimeDeadline      *util.TimeOfDay `gorm:"type:time" json:"time_deadline,omitempty"`
	Action            string          `gorm:"size:50;not null" json:"action"`
	IsEnjoyable       *bool           `json:"is_enjoyable,omitempty"`
	AssociatedHabitID *uuid.UUID      `gorm:"type:uuid" json:"associated_habit,omitempty"`
	AssociatedHabit   *Habit          `gorm:"foreignKey:AssociatedHabitID" json:"-"`
	Periodicity       int             `gorm:"default:1" json:"periodicity"`
	Reward            *string         `gorm:"size:50" json:"reward,omitempty"`
	TimeToComplete    *int            `json:"time_to_complete,omitempty"`
	IsPublic          bool            `gorm:"default:false" json:"is_public"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Enjoyable reports the tri-state is_enjoyable flag, treating unset as false.
func (h *Habit) Enjoyable() bool {
	return h.IsEnjoyable != nil && *h.IsEnjoyable
}
