package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

type AuthService struct {
	repo   domain.UserRepository
	tokens *TokenService
	clock  domain.Clock
}

func NewAuthService(repo domain.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		clock:  SystemClock{Location: time.UTC},
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Gender   string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// ProfileInput replaces the editable profile. The password is only changed
// when NewPassword is set.
type ProfileInput struct {
	Username                string
	Gender                  string
	BirthDate               *time.Time
	CurrentPassword         string
	NewPassword             string
	NewPasswordConfirmation string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Email, input.Username, input.Gender)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

// Login answers ErrInvalidCredentials for both unknown emails and wrong
// passwords.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(input.Username, input.Gender, input.BirthDate, s.clock.Today()); err != nil {
		return nil, err
	}
	if input.NewPassword != "" {
		if err := user.ChangePassword(input.CurrentPassword, input.NewPassword, input.NewPasswordConfirmation); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("auth service: failed to update user: %w", err)
	}
	return user, nil
}
