package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is a listing a user offers to teach.
type Skill struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(100);not null"`
	Category    string    `json:"category" gorm:"type:varchar(64);index;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	PostedByID  string    `json:"postedById" gorm:"type:varchar(36);index;not null"`
	PostedBy    *User     `json:"postedBy,omitempty" gorm:"foreignKey:PostedByID"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// OwnedBy reports whether userID posted the skill.
func (s *Skill) OwnedBy(userID string) bool {
	return userID != "" && s.PostedByID == userID
}
