package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a message left on a skill listing.
type Comment struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Content    string    `json:"content" gorm:"type:varchar(500);not null"`
	SkillID    string    `json:"skill" gorm:"type:varchar(36);index;not null"`
	PostedByID string    `json:"postedById" gorm:"type:varchar(36);not null"`
	PostedBy   *User     `json:"postedBy,omitempty" gorm:"foreignKey:PostedByID"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
