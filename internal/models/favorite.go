package models

import "time"

// Favorite records that a user bookmarked a skill. The pair is the primary key,
// so a user's favorites form a set.
type Favorite struct {
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	SkillID   string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "user_favorites"
}
