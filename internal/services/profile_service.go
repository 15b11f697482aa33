package services

import (
	"context"
	"errors"
	"fmt"

	"skillswap/internal/models"
	"skillswap/internal/repositories"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"
)

// ProfileService serves the signed-in user's own pages and profile edits.
type ProfileService struct {
	users     repositories.UserRepository
	skills    repositories.SkillRepository
	favorites repositories.FavoriteRepository
	log       logger.Logger
}

func NewProfileService(
	users repositories.UserRepository,
	skills repositories.SkillRepository,
	favorites repositories.FavoriteRepository,
	log logger.Logger,
) *ProfileService {
	return &ProfileService{users: users, skills: skills, favorites: favorites, log: log}
}

func (s *ProfileService) MySkills(ctx context.Context, userID string) ([]models.Skill, error) {
	skills, err := s.skills.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills of %s: %w", userID, err)
	}
	return skills, nil
}

// Favorites returns the favorited skills newest first with posters loaded.
func (s *ProfileService) Favorites(ctx context.Context, userID string) ([]models.Skill, error) {
	skills, err := s.favorites.ListSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites of %s: %w", userID, err)
	}
	return skills, nil
}

func (s *ProfileService) Me(ctx context.Context, userID string) (*models.User, []models.Skill, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	skills, err := s.MySkills(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, skills, nil
}

// UpdateProfile validates username, email and contact independently and
// reports every failure. Nothing is written unless all fields pass. An
// empty username or email keeps the current value.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*models.User, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	var msgs []string
	next := *user

	if in.Username != "" && in.Username != user.Username {
		switch taken, err := s.UsernameTaken(ctx, userID, in.Username); {
		case err != nil:
			if verr, ok := AsValidation(err); ok {
				msgs = append(msgs, verr.Errors...)
			} else {
				return nil, err
			}
		case taken:
			msgs = append(msgs, validation.MsgUsernameTaken)
		default:
			next.Username = in.Username
		}
	}

	if in.Email != "" {
		switch {
		case !validation.IsValidEmail(in.Email):
			msgs = append(msgs, validation.MsgEmailInvalid)
		case in.Email != user.Email:
			taken, err := s.EmailTaken(ctx, userID, in.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				msgs = append(msgs, validation.MsgEmailTaken)
			} else {
				next.Email = in.Email
			}
		}
	}

	if !validation.IsValidContact(in.Contact) {
		msgs = append(msgs, validation.MsgContactTooLong)
	}
	next.Contact = in.Contact

	if len(msgs) > 0 {
		return nil, newValidationError(msgs...)
	}

	if err := s.users.Update(ctx, &next); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, s.conflict(ctx, userID, next)
		}
		return nil, fmt.Errorf("failed to update profile of %s: %w", userID, err)
	}
	return &next, nil
}

// conflict maps a duplicate-key failure back to the field that collided.
func (s *ProfileService) conflict(ctx context.Context, userID string, u models.User) error {
	if taken, err := s.UsernameTaken(ctx, userID, u.Username); err == nil && taken {
		return newValidationError(validation.MsgUsernameTaken)
	}
	return newValidationError(validation.MsgEmailTaken)
}

// UsernameTaken reports whether another user already holds username.
func (s *ProfileService) UsernameTaken(ctx context.Context, userID, username string) (bool, error) {
	if !validation.IsValidUsername(username) {
		return false, newValidationError(validation.MsgUsernameFormat)
	}
	return s.heldByOther(ctx, userID, s.users.GetByUsername, username)
}

// EmailTaken reports whether another user already holds email.
func (s *ProfileService) EmailTaken(ctx context.Context, userID, email string) (bool, error) {
	return s.heldByOther(ctx, userID, s.users.GetByEmail, email)
}

func (s *ProfileService) heldByOther(ctx context.Context, userID string, get func(context.Context, string) (*models.User, error), key string) (bool, error) {
	other, err := get(ctx, key)
	switch {
	case err == nil:
		return other.ID != userID, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
}

func (s *ProfileService) user(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return user, nil
}
