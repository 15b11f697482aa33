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
)

// SkillService handles listings, comments and favorites.
type SkillService struct {
	skills    repositories.SkillRepository
	comments  repositories.CommentRepository
	favorites repositories.FavoriteRepository
	users     repositories.UserRepository
	events    notifier
	log       logger.Logger
}

func NewSkillService(
	skills repositories.SkillRepository,
	comments repositories.CommentRepository,
	favorites repositories.FavoriteRepository,
	users repositories.UserRepository,
	events EventPublisher,
	log logger.Logger,
) *SkillService {
	return &SkillService{
		skills:    skills,
		comments:  comments,
		favorites: favorites,
		users:     users,
		events:    notifier{pub: events, log: log},
		log:       log,
	}
}

// SkillDetail is a skill with its discussion and favorite state.
type SkillDetail struct {
	Skill         *models.Skill
	Comments      []models.Comment
	IsFavorited   bool
	FavoriteCount int64
}

// SkillTitle is the public summary returned for a user's listings.
type SkillTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (s *SkillService) Categories() []string {
	return models.Categories()
}

// List returns skills newest first, optionally filtered by category.
func (s *SkillService) List(ctx context.Context, category string) ([]models.Skill, error) {
	skills, err := s.skills.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// Detail loads a skill with its comments oldest first. Favorite state is
// computed only when viewerID is set.
func (s *SkillService) Detail(ctx context.Context, id, viewerID string) (*SkillDetail, error) {
	skill, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListBySkill(ctx, skill.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	detail := &SkillDetail{Skill: skill, Comments: comments}
	if viewerID == "" {
		return detail, nil
	}

	if detail.IsFavorited, err = s.favorites.Exists(ctx, viewerID, skill.ID); err != nil {
		return nil, err
	}
	if detail.FavoriteCount, err = s.favorites.CountBySkill(ctx, skill.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create validates and stores a new listing owned by ownerID. Title and
// description are stored whitespace-compressed.
func (s *SkillService) Create(ctx context.Context, ownerID string, in validation.SkillInput) (*models.Skill, error) {
	res := validation.ValidateSkill(in)
	if !res.IsValid() {
		return nil, newValidationError(res.Errors...)
	}

	skill := &models.Skill{
		Title:       res.Cleaned.Title,
		Category:    res.Cleaned.Category,
		Description: res.Cleaned.Description,
		PostedByID:  ownerID,
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	metrics.RecordSkillCreated()
	s.events.emit(EventSkillCreated, map[string]interface{}{
		"skillId":  skill.ID,
		"userId":   ownerID,
		"category": skill.Category,
	})
	return skill, nil
}

// AddComment checks the skill id and existence before validating content.
func (s *SkillService) AddComment(ctx context.Context, skillID, userID string, in validation.CommentInput) (*models.Comment, error) {
	if _, err := s.find(ctx, skillID); err != nil {
		return nil, err
	}

	res := validation.ValidateComment(in)
	if !res.IsValid() {
		return nil, newValidationError(res.Errors...)
	}

	comment := &models.Comment{
		Content:    res.Content,
		SkillID:    skillID,
		PostedByID: userID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if poster, err := s.users.GetByID(ctx, userID); err == nil {
		comment.PostedBy = poster
	}

	metrics.RecordCommentPosted()
	s.events.emit(EventCommentCreated, map[string]interface{}{
		"commentId": comment.ID,
		"skillId":   skillID,
		"userId":    userID,
	})
	return comment, nil
}

// ToggleFavorite flips membership of the skill in the user's favorites and
// reports whether it is now favorited.
func (s *SkillService) ToggleFavorite(ctx context.Context, userID, skillID string) (bool, error) {
	if _, err := s.find(ctx, skillID); err != nil {
		return false, err
	}

	added, err := s.favorites.Toggle(ctx, userID, skillID)
	if err != nil {
		return false, err
	}

	metrics.RecordFavoriteToggle(added)
	s.events.emit(EventFavoriteToggled, map[string]interface{}{
		"skillId":   skillID,
		"userId":    userID,
		"favorited": added,
	})
	return added, nil
}

// GetOwned returns the skill when userID posted it, ErrForbidden otherwise.
func (s *SkillService) GetOwned(ctx context.Context, skillID, userID string) (*models.Skill, error) {
	skill, err := s.find(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if !skill.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	return skill, nil
}

// Update checks ownership, then validates and stores the cleaned fields.
func (s *SkillService) Update(ctx context.Context, skillID, userID string, in validation.SkillInput) (*models.Skill, error) {
	skill, err := s.GetOwned(ctx, skillID, userID)
	if err != nil {
		return nil, err
	}

	res := validation.ValidateSkill(in)
	if !res.IsValid() {
		return nil, newValidationError(res.Errors...)
	}

	skill.Title = res.Cleaned.Title
	skill.Category = res.Cleaned.Category
	skill.Description = res.Cleaned.Description
	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to update skill %s: %w", skillID, err)
	}

	s.events.emit(EventSkillUpdated, map[string]interface{}{
		"skillId": skill.ID,
		"userId":  userID,
	})
	return skill, nil
}

// Delete removes an owned skill with its comments and favorites.
func (s *SkillService) Delete(ctx context.Context, skillID, userID string) error {
	if _, err := s.GetOwned(ctx, skillID, userID); err != nil {
		return err
	}
	if err := s.skills.Delete(ctx, skillID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("failed to delete skill %s: %w", skillID, err)
	}

	s.events.emit(EventSkillDeleted, map[string]interface{}{
		"skillId": skillID,
		"userId":  userID,
	})
	return nil
}

// ListTitlesByUser returns id and title of every skill userID posted.
func (s *SkillService) ListTitlesByUser(ctx context.Context, userID string) ([]SkillTitle, error) {
	skills, err := s.skills.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills of %s: %w", userID, err)
	}
	titles := make([]SkillTitle, 0, len(skills))
	for _, sk := range skills {
		titles = append(titles, SkillTitle{ID: sk.ID, Title: sk.Title})
	}
	return titles, nil
}

func (s *SkillService) find(ctx context.Context, id string) (*models.Skill, error) {
	if err := CheckSkillID(id); err != nil {
		return nil, err
	}
	skill, err := s.skills.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("failed to load skill %s: %w", id, err)
	}
	return skill, nil
}
