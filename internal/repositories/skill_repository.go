package repositories

import (
	"context"

	"skillswap/internal/models"
)

// SkillRepository defines the interface for skill data access. Reads
// populate PostedBy.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	// Update persists title, category and description.
	Update(ctx context.Context, skill *models.Skill) error
	// Delete removes the skill together with its comments and favorite rows.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	// List returns skills newest first, filtered by category when non-empty.
	List(ctx context.Context, category string) ([]models.Skill, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Skill, error)
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// ListBySkill returns comments oldest first with PostedBy populated.
	ListBySkill(ctx context.Context, skillID string) ([]models.Comment, error)
}

// FavoriteRepository maintains the user to skill favorites relation.
type FavoriteRepository interface {
	// Toggle removes the pair if present, otherwise adds it. It reports
	// whether the pair exists afterwards.
	Toggle(ctx context.Context, userID, skillID string) (bool, error)
	Exists(ctx context.Context, userID, skillID string) (bool, error)
	CountBySkill(ctx context.Context, skillID string) (int64, error)
	// ListSkills returns the user's favorited skills newest first.
	ListSkills(ctx context.Context, userID string) ([]models.Skill, error)
}
