package models_test

import (
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	cats := models.Categories()
	assert.Len(t, cats, 11)
	assert.Equal(t, "Languages & Translation", cats[0])
	assert.Equal(t, "Other", cats[len(cats)-1])

	// Mutating the returned slice must not leak into the canonical list.
	cats[0] = "changed"
	assert.Equal(t, "Languages & Translation", models.Categories()[0])
}

func TestIsCategory(t *testing.T) {
	assert.True(t, models.IsCategory("Programming & Technology"))
	assert.True(t, models.IsCategory("Music, Performing Arts & Writing"))
	assert.False(t, models.IsCategory("programming & technology"))
	assert.False(t, models.IsCategory(models.CategoryPlaceholder))
	assert.False(t, models.IsCategory(""))
}

func TestSkillOwnedBy(t *testing.T) {
	s := &models.Skill{PostedByID: "u1"}
	assert.True(t, s.OwnedBy("u1"))
	assert.False(t, s.OwnedBy("u2"))
	assert.False(t, (&models.Skill{}).OwnedBy(""))
}
