package user

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDTO struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Country   *string `json:"country,omitempty"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserDTO struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	AvatarURL      *string `json:"avatar,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Country        *string `json:"country,omitempty"`
	TelegramChatID *int64  `json:"chat_id,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	AvatarURL *string   `json:"avatar,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Country   *string   `json:"country,omitempty"`
	ChatID    *int64    `json:"chat_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		Phone:     u.Phone,
		Country:   u.Country,
		ChatID:    u.TelegramChatID,
		CreatedAt: u.CreatedAt,
	}
}
