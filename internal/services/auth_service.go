package services

import (
	"context"
	"errors"
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/repositories"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"
	"skillswap/pkg/metrics"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// AuthService handles registration, login and availability probes.
type AuthService struct {
	users  repositories.UserRepository
	events notifier
	log    logger.Logger
}

func NewAuthService(users repositories.UserRepository, events EventPublisher, log logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		events: notifier{pub: events, log: log},
		log:    log,
	}
}

// Register validates the input, checks uniqueness, hashes the password and
// stores the user. Validation and conflict failures are *ValidationError.
func (s *AuthService) Register(ctx context.Context, in validation.RegistrationInput) (*models.User, error) {
	if res := validation.ValidateRegistration(in); !res.IsValid() {
		metrics.RecordRegistration("invalid")
		return nil, newValidationError(res.Errors...)
	}

	if taken, err := s.exists(ctx, s.users.GetByUsername, in.Username); err != nil {
		return nil, err
	} else if taken {
		metrics.RecordRegistration("conflict")
		return nil, newValidationError(validation.MsgUsernameTaken)
	}
	if taken, err := s.exists(ctx, s.users.GetByEmail, in.Email); err != nil {
		return nil, err
	} else if taken {
		metrics.RecordRegistration("conflict")
		return nil, newValidationError(validation.MsgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost a race with a concurrent registration.
			metrics.RecordRegistration("conflict")
			return nil, s.conflict(ctx, in.Username)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	metrics.RecordRegistration("ok")
	s.events.emit(EventUserRegistered, map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	})
	return user, nil
}

// conflict decides which unique field a duplicate-key failure hit.
func (s *AuthService) conflict(ctx context.Context, username string) error {
	if taken, err := s.exists(ctx, s.users.GetByUsername, username); err == nil && taken {
		return newValidationError(validation.MsgUsernameTaken)
	}
	return newValidationError(validation.MsgEmailTaken)
}

func (s *AuthService) exists(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (bool, error) {
	_, err := get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
}

// Login verifies the credentials and returns the stored user.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*models.User, error) {
	if res := validation.ValidateLogin(in); !res.IsValid() {
		return nil, newValidationError(res.Errors...)
	}

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load user %s: %w", in.Username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

// CheckUsername reports whether username is free to register.
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if !validation.IsValidUsername(username) {
		return false, newValidationError(validation.MsgUsernameFormat)
	}
	taken, err := s.exists(ctx, s.users.GetByUsername, username)
	return !taken, err
}

// CheckEmail reports whether email is free to register.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if !validation.IsValidEmail(email) {
		return false, newValidationError(validation.MsgEmailInvalid)
	}
	taken, err := s.exists(ctx, s.users.GetByEmail, email)
	return !taken, err
}

// CurrentUser resolves a session identity to its stored record.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return user, nil
}
