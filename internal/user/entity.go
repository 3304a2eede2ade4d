package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email          string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	FirstName      string    `gorm:"size:150" json:"first_name,omitempty"`
	LastName       string    `gorm:"size:150" json:"last_name,omitempty"`
	AvatarURL      *string   `gorm:"size:255" json:"avatar,omitempty"`
	Phone          *string   `gorm:"size:35" json:"phone,omitempty"`
	Country        *string   `gorm:"size:50" json:"country,omitempty"`
	TelegramChatID *int64    `gorm:"uniqueIndex" json:"chat_id,omitempty"`
	IsStaff        bool      `gorm:"default:false" json:"is_staff"`
	IsSuperuser    bool      `gorm:"default:false" json:"is_superuser"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsElevated reports whether the user bypasses ownership checks.
func (u *User) IsElevated() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// Role returns the role string carried in JWT claims.
func (u *User) Role() string {
	switch {
	case u.IsSuperuser:
		return "superuser"
	case u.IsStaff:
		return "staff"
	default:
		return "user"
	}
}
