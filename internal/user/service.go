package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d-medvedev/habits-api/internal/auth"
	"github.com/d-medvedev/habits-api/internal/config"
)

var (
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("email and password are required")
	ErrChatTaken          = errors.New("this chat is already linked to another account")
	ErrUnauthenticated    = errors.New("authentication required")
)

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*TokenPairResponse, error)
	Refresh(ctx context.Context, dto RefreshDTO) (*TokenPairResponse, error)
	Me(ctx context.Context) (*UserResponse, error)
	Update(ctx context.Context, dto UpdateUserDTO) (*UserResponse, error)
	LinkChat(ctx context.Context, email string, chatID int64) error
	CreateSuperuser(ctx context.Context, email, password string) (*UserResponse, error)
}

type userService struct {
	repo UserRepository
	cfg  config.Config
}

func NewService(repo UserRepository, cfg config.Config) UserService {
	return &userService{repo: repo, cfg: cfg}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	if dto.Email == "" || dto.Password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(dto.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to check email uniqueness")
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	u := User{
		ID:        uuid.New(),
		Email:     dto.Email,
		Password:  string(hashed),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Phone:     dto.Phone,
		Country:   dto.Country,
		IsActive:  true,
	}

	if err := s.repo.Create(&u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	return toResponse(&u), nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*TokenPairResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to look up user for login")
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *userService) Refresh(ctx context.Context, dto RefreshDTO) (*TokenPairResponse, error) {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateJWT(dto.RefreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return nil, ErrUnauthenticated
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		log.WithError(err).Error("Failed to look up user for token refresh")
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUnauthenticated
	}

	return s.issueTokens(u)
}

func (s *userService) Me(ctx context.Context) (*UserResponse, error) {
	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *userService) Update(ctx context.Context, dto UpdateUserDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if dto.TelegramChatID != nil {
		if other, err := s.repo.FindByChatID(*dto.TelegramChatID); err == nil && other.ID != u.ID {
			return nil, ErrChatTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			log.WithError(err).Error("Failed to check chat id uniqueness")
			return nil, err
		}
		u.TelegramChatID = dto.TelegramChatID
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.AvatarURL != nil {
		u.AvatarURL = dto.AvatarURL
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.Country != nil {
		u.Country = dto.Country
	}

	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update user")
		return nil, err
	}
	return toResponse(u), nil
}

func (s *userService) LinkChat(ctx context.Context, email string, chatID int64) error {
	log := config.WithContext(ctx)

	if other, err := s.repo.FindByChatID(chatID); err == nil && other.Email != email {
		return ErrChatTaken
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	u, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	u.TelegramChatID = &chatID
	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to link chat")
		return err
	}

	log.WithField("user_id", u.ID).Info("Telegram chat linked")
	return nil
}

func (s *userService) CreateSuperuser(ctx context.Context, email, password string) (*UserResponse, error) {
	resp, err := s.Register(ctx, RegisterDTO{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(resp.ID)
	if err != nil {
		return nil, err
	}
	u.IsStaff = true
	u.IsSuperuser = true
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *userService) currentUser(ctx context.Context) (*User, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) issueTokens(u *User) (*TokenPairResponse, error) {
	access, err := auth.GenerateJWT(u.ID.String(), u.Role(), auth.TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateJWT(u.ID.String(), u.Role(), auth.TokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}
