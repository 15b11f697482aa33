package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"skillswap/internal/models"

	"github.com/google/uuid"
)

type favoriteKey struct {
	userID  string
	skillID string
}

// MemoryStore is an in-memory backend shared by the Memory*Repository types.
// Username and email uniqueness is enforced under the write lock so it
// behaves like the unique indexes of the SQL schema.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	skills    map[string]models.Skill
	comments  map[string]models.Comment
	favorites map[favoriteKey]time.Time
	lastStamp time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		skills:    make(map[string]models.Skill),
		comments:  make(map[string]models.Comment),
		favorites: make(map[favoriteKey]time.Time),
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository         { return &MemoryUserRepository{s: s} }
func (s *MemoryStore) Skills() *MemorySkillRepository       { return &MemorySkillRepository{s: s} }
func (s *MemoryStore) Comments() *MemoryCommentRepository   { return &MemoryCommentRepository{s: s} }
func (s *MemoryStore) Favorites() *MemoryFavoriteRepository { return &MemoryFavoriteRepository{s: s} }

// stamp returns a strictly increasing creation time. Caller holds mu.
func (s *MemoryStore) stamp() time.Time {
	now := time.Now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}

// poster returns a copy of the user for association fields. Caller holds mu.
func (s *MemoryStore) poster(id string) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *MemoryStore) withPoster(skill models.Skill) models.Skill {
	skill.PostedBy = s.poster(skill.PostedByID)
	return skill
}

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	s *MemoryStore
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.s.stamp()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	for id, u := range r.s.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return ErrDuplicateKey
		}
	}
	existing.Username = user.Username
	existing.Email = user.Email
	existing.Contact = user.Contact
	existing.UpdatedAt = time.Now()
	r.s.users[user.ID] = existing
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// MemorySkillRepository is an in-memory implementation of SkillRepository.
type MemorySkillRepository struct {
	s *MemoryStore
}

func (r *MemorySkillRepository) Create(_ context.Context, skill *models.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if skill.ID == "" {
		skill.ID = uuid.NewString()
	}
	now := r.s.stamp()
	skill.CreatedAt, skill.UpdatedAt = now, now

	stored := *skill
	stored.PostedBy = nil
	r.s.skills[skill.ID] = stored
	return nil
}

func (r *MemorySkillRepository) Update(_ context.Context, skill *models.Skill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.skills[skill.ID]
	if !ok {
		return fmt.Errorf("skill %s: %w", skill.ID, ErrNotFound)
	}
	existing.Title = skill.Title
	existing.Category = skill.Category
	existing.Description = skill.Description
	existing.UpdatedAt = time.Now()
	r.s.skills[skill.ID] = existing
	return nil
}

func (r *MemorySkillRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.skills[id]; !ok {
		return fmt.Errorf("skill %s: %w", id, ErrNotFound)
	}
	delete(r.s.skills, id)
	for cid, c := range r.s.comments {
		if c.SkillID == id {
			delete(r.s.comments, cid)
		}
	}
	for k := range r.s.favorites {
		if k.skillID == id {
			delete(r.s.favorites, k)
		}
	}
	return nil
}

func (r *MemorySkillRepository) GetByID(_ context.Context, id string) (*models.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	skill, ok := r.s.skills[id]
	if !ok {
		return nil, ErrNotFound
	}
	skill = r.s.withPoster(skill)
	return &skill, nil
}

func (r *MemorySkillRepository) List(_ context.Context, category string) ([]models.Skill, error) {
	return r.collect(func(s models.Skill) bool { return category == "" || s.Category == category }), nil
}

func (r *MemorySkillRepository) ListByOwner(_ context.Context, userID string) ([]models.Skill, error) {
	return r.collect(func(s models.Skill) bool { return s.PostedByID == userID }), nil
}

func (r *MemorySkillRepository) collect(match func(models.Skill) bool) []models.Skill {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]models.Skill, 0)
	for _, s := range r.s.skills {
		if match(s) {
			list = append(list, r.s.withPoster(s))
		}
	}
	sortNewestFirst(list)
	return list
}

func sortNewestFirst(skills []models.Skill) {
	sort.Slice(skills, func(i, j int) bool {
		return skills[i].CreatedAt.After(skills[j].CreatedAt)
	})
}

// MemoryCommentRepository is an in-memory implementation of CommentRepository.
type MemoryCommentRepository struct {
	s *MemoryStore
}

func (r *MemoryCommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = r.s.stamp()

	stored := *comment
	stored.PostedBy = nil
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *MemoryCommentRepository) ListBySkill(_ context.Context, skillID string) ([]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]models.Comment, 0)
	for _, c := range r.s.comments {
		if c.SkillID == skillID {
			c.PostedBy = r.s.poster(c.PostedByID)
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

// MemoryFavoriteRepository is an in-memory implementation of FavoriteRepository.
type MemoryFavoriteRepository struct {
	s *MemoryStore
}

func (r *MemoryFavoriteRepository) Toggle(_ context.Context, userID, skillID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := favoriteKey{userID: userID, skillID: skillID}
	if _, ok := r.s.favorites[key]; ok {
		delete(r.s.favorites, key)
		return false, nil
	}
	r.s.favorites[key] = time.Now()
	return true, nil
}

func (r *MemoryFavoriteRepository) Exists(_ context.Context, userID, skillID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.favorites[favoriteKey{userID: userID, skillID: skillID}]
	return ok, nil
}

func (r *MemoryFavoriteRepository) CountBySkill(_ context.Context, skillID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for k := range r.s.favorites {
		if k.skillID == skillID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryFavoriteRepository) ListSkills(_ context.Context, userID string) ([]models.Skill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]models.Skill, 0)
	for k := range r.s.favorites {
		if k.userID != userID {
			continue
		}
		if s, ok := r.s.skills[k.skillID]; ok {
			list = append(list, r.s.withPoster(s))
		}
	}
	sortNewestFirst(list)
	return list, nil
}
