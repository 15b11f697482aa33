package services_test

import (
	"strings"
	"testing"

	"skillswap/internal/models"
	"skillswap/internal/repositories"
	"skillswap/internal/services"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *repositories.MemoryStore
	skills  *services.SkillService
	profile *services.ProfileService
	owner   *models.User
	other   *models.User
}

func newFixture(t *testing.T, pub services.EventPublisher) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	f := &fixture{
		store:   store,
		skills:  services.NewSkillService(store.Skills(), store.Comments(), store.Favorites(), store.Users(), pub, logger.Nop()),
		profile: services.NewProfileService(store.Users(), store.Skills(), store.Favorites(), logger.Nop()),
		owner:   &models.User{Username: "owner1", Email: "owner@example.com", Password: "x"},
		other:   &models.User{Username: "other1", Email: "other@example.com", Password: "x"},
	}
	require.NoError(t, store.Users().Create(ctx, f.owner))
	require.NoError(t, store.Users().Create(ctx, f.other))
	return f
}

func (f *fixture) createSkill(t *testing.T, title, category string) *models.Skill {
	t.Helper()
	s, err := f.skills.Create(ctx, f.owner.ID, validation.SkillInput{Title: title, Category: category, Description: "Intro to " + title})
	require.NoError(t, err)
	return s
}

func TestCheckSkillID(t *testing.T) {
	assert.ErrorIs(t, services.CheckSkillID(""), services.ErrMissingID)
	assert.ErrorIs(t, services.CheckSkillID("undefined"), services.ErrMissingID)
	assert.ErrorIs(t, services.CheckSkillID("null"), services.ErrMissingID)
	assert.ErrorIs(t, services.CheckSkillID("abc123"), services.ErrInvalidID)
	assert.NoError(t, services.CheckSkillID(uuid.NewString()))
}

func TestSkillService_CreateAndList(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", services.EventSkillCreated, mock.Anything).Return(nil)
	f := newFixture(t, pub)

	_, err := f.skills.Create(ctx, f.owner.ID, validation.SkillInput{Title: "Go", Category: "Programming & Technology", Description: "Intro to Go"})
	verr, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{validation.MsgTitleLength}, verr.Errors)

	f.createSkill(t, "Spanish", "Languages & Translation")
	goBasics, err := f.skills.Create(ctx, f.owner.ID, validation.SkillInput{
		Title:       "  Go \t Basics ",
		Category:    "Programming & Technology",
		Description: "Intro\n\nto   Go",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", goBasics.Title)
	assert.Equal(t, "Intro to Go", goBasics.Description)

	list, err := f.skills.List(ctx, "Programming & Technology")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, goBasics.ID, list[0].ID)

	all, err := f.skills.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, goBasics.ID, all[0].ID)

	assert.Len(t, f.skills.Categories(), 11)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestSkillService_Detail(t *testing.T) {
	f := newFixture(t, nil)
	s := f.createSkill(t, "Guitar", "Music, Performing Arts & Writing")

	_, err := f.skills.Detail(ctx, "not-a-uuid", f.other.ID)
	assert.ErrorIs(t, err, services.ErrInvalidID)

	_, err = f.skills.Detail(ctx, uuid.NewString(), f.other.ID)
	assert.ErrorIs(t, err, services.ErrSkillNotFound)

	_, err = f.skills.AddComment(ctx, s.ID, f.other.ID, validation.CommentInput{Content: "first"})
	require.NoError(t, err)
	_, err = f.skills.AddComment(ctx, s.ID, f.owner.ID, validation.CommentInput{Content: "second"})
	require.NoError(t, err)
	_, err = f.skills.ToggleFavorite(ctx, f.other.ID, s.ID)
	require.NoError(t, err)

	d, err := f.skills.Detail(ctx, s.ID, f.other.ID)
	require.NoError(t, err)
	assert.True(t, d.IsFavorited)
	assert.EqualValues(t, 1, d.FavoriteCount)
	require.Len(t, d.Comments, 2)
	assert.Equal(t, "first", d.Comments[0].Content)
	assert.Equal(t, "owner1", d.Skill.PostedBy.Username)

	d, err = f.skills.Detail(ctx, s.ID, f.owner.ID)
	require.NoError(t, err)
	assert.False(t, d.IsFavorited)
	assert.EqualValues(t, 1, d.FavoriteCount)

	d, err = f.skills.Detail(ctx, s.ID, "")
	require.NoError(t, err)
	assert.False(t, d.IsFavorited)
	assert.Zero(t, d.FavoriteCount)
}

func TestSkillService_AddComment(t *testing.T) {
	f := newFixture(t, nil)
	s := f.createSkill(t, "Knitting", "Lifestyle, Travel & Outdoor Activities")

	_, err := f.skills.AddComment(ctx, "undefined", f.other.ID, validation.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, services.ErrMissingID)

	// Existence is checked before content.
	_, err = f.skills.AddComment(ctx, uuid.NewString(), f.other.ID, validation.CommentInput{Content: ""})
	assert.ErrorIs(t, err, services.ErrSkillNotFound)

	_, err = f.skills.AddComment(ctx, s.ID, f.other.ID, validation.CommentInput{Content: "<b>hi</b>"})
	verr, ok := services.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{validation.MsgCommentUnsafe}, verr.Errors)

	_, err = f.skills.AddComment(ctx, s.ID, f.other.ID, validation.CommentInput{Content: strings.Repeat("a", 501)})
	verr, ok = services.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{validation.MsgCommentTooLong}, verr.Errors)

	c, err := f.skills.AddComment(ctx, s.ID, f.other.ID, validation.CommentInput{Content: "  great class  "})
	require.NoError(t, err)
	assert.Equal(t, "great class", c.Content)
	require.NotNil(t, c.PostedBy)
	assert.Equal(t, "other1", c.PostedBy.Username)
}

func TestSkillService_ToggleFavorite(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f := newFixture(t, pub)
	s := f.createSkill(t, "Surfing", "Fitness, Sports & Wellness")

	_, err := f.skills.ToggleFavorite(ctx, f.other.ID, "xyz")
	assert.ErrorIs(t, err, services.ErrInvalidID)

	_, err = f.skills.ToggleFavorite(ctx, f.other.ID, uuid.NewString())
	assert.ErrorIs(t, err, services.ErrSkillNotFound)

	added, err := f.skills.ToggleFavorite(ctx, f.other.ID, s.ID)
	require.NoError(t, err)
	assert.True(t, added)

	favs, err := f.profile.Favorites(ctx, f.other.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	added, err = f.skills.ToggleFavorite(ctx, f.other.ID, s.ID)
	require.NoError(t, err)
	assert.False(t, added)

	favs, err = f.profile.Favorites(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)

	pub.AssertCalled(t, "Publish", services.EventFavoriteToggled, map[string]interface{}{
		"skillId": s.ID, "userId": f.other.ID, "favorited": false,
	})
}

func TestSkillService_Ownership(t *testing.T) {
	f := newFixture(t, nil)
	s := f.createSkill(t, "Painting", "Design & Creativity")
	edit := validation.SkillInput{Title: "Oil Painting", Category: "Design & Creativity", Description: "Canvas work"}

	_, err := f.skills.GetOwned(ctx, s.ID, f.other.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.skills.Update(ctx, s.ID, f.other.ID, edit)
	assert.ErrorIs(t, err, services.ErrForbidden)

	assert.ErrorIs(t, f.skills.Delete(ctx, s.ID, f.other.ID), services.ErrForbidden)

	got, err := f.skills.Detail(ctx, s.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Painting", got.Skill.Title)

	_, err = f.skills.Update(ctx, s.ID, f.owner.ID, validation.SkillInput{Title: "--", Category: "Design & Creativity", Description: "x"})
	_, ok := services.AsValidation(err)
	assert.True(t, ok)

	updated, err := f.skills.Update(ctx, s.ID, f.owner.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Oil Painting", updated.Title)

	require.NoError(t, f.skills.Delete(ctx, s.ID, f.owner.ID))
	_, err = f.skills.Detail(ctx, s.ID, "")
	assert.ErrorIs(t, err, services.ErrSkillNotFound)
}

func TestSkillService_ListTitlesByUser(t *testing.T) {
	f := newFixture(t, nil)
	a := f.createSkill(t, "Sketching", "Design & Creativity")
	b := f.createSkill(t, "Budgeting", "Finance & Investment")

	titles, err := f.skills.ListTitlesByUser(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []services.SkillTitle{{ID: b.ID, Title: b.Title}, {ID: a.ID, Title: a.Title}}, titles)

	titles, err = f.skills.ListTitlesByUser(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, titles)
}
