package repositories

import (
	"context"
	"errors"
	"fmt"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// GORMSkillRepository is a GORM implementation of SkillRepository.
type GORMSkillRepository struct {
	db *gorm.DB
}

func NewGORMSkillRepository(db *gorm.DB) *GORMSkillRepository {
	return &GORMSkillRepository{db: db}
}

func (r *GORMSkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if err := r.db.WithContext(ctx).Omit("PostedBy").Create(skill).Error; err != nil {
		return fmt.Errorf("failed to create skill: %w", translate(err))
	}
	return nil
}

func (r *GORMSkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	res := r.db.WithContext(ctx).Model(&models.Skill{ID: skill.ID}).Updates(map[string]interface{}{
		"title":       skill.Title,
		"category":    skill.Category,
		"description": skill.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update skill %s: %w", skill.ID, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("skill %s: %w", skill.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMSkillRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Skill{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete skill %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("skill %s: %w", id, ErrNotFound)
		}
		if err := tx.Where("skill_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of skill %s: %w", id, err)
		}
		if err := tx.Where("skill_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites of skill %s: %w", id, err)
		}
		return nil
	})
}

func (r *GORMSkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Preload("PostedBy").First(&skill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get skill %s: %w", id, err)
	}
	return &skill, nil
}

func (r *GORMSkillRepository) List(ctx context.Context, category string) ([]models.Skill, error) {
	q := r.db.WithContext(ctx).Preload("PostedBy").Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var skills []models.Skill
	if err := q.Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

func (r *GORMSkillRepository) ListByOwner(ctx context.Context, userID string) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).
		Preload("PostedBy").
		Where("posted_by_id = ?", userID).
		Order("created_at DESC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list skills of user %s: %w", userID, err)
	}
	return skills, nil
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("PostedBy").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", translate(err))
	}
	return nil
}

func (r *GORMCommentRepository) ListBySkill(ctx context.Context, skillID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("PostedBy").
		Where("skill_id = ?", skillID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of skill %s: %w", skillID, err)
	}
	return comments, nil
}

// GORMFavoriteRepository stores favorites in the user_favorites join table.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

func (r *GORMFavoriteRepository) Toggle(ctx context.Context, userID, skillID string) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND skill_id = ?", userID, skillID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false
			return nil
		}
		added = true
		return tx.Create(&models.Favorite{UserID: userID, SkillID: skillID}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite %s/%s: %w", userID, skillID, translate(err))
	}
	return added, nil
}

func (r *GORMFavoriteRepository) Exists(ctx context.Context, userID, skillID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite %s/%s: %w", userID, skillID, err)
	}
	return n > 0, nil
}

func (r *GORMFavoriteRepository) CountBySkill(ctx context.Context, skillID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("skill_id = ?", skillID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites of skill %s: %w", skillID, err)
	}
	return n, nil
}

func (r *GORMFavoriteRepository) ListSkills(ctx context.Context, userID string) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).
		Preload("PostedBy").
		Joins("JOIN user_favorites ON user_favorites.skill_id = skills.id").
		Where("user_favorites.user_id = ?", userID).
		Order("skills.created_at DESC").
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites of user %s: %w", userID, err)
	}
	return skills, nil
}
