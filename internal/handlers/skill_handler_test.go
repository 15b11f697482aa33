package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillPagesRequireLogin(t *testing.T) {
	app := setupApp(t)
	b := newBrowser(t, app)

	path, q := location(t, b.get("/skills/new"))
	assert.Equal(t, "/auth/login", path)
	assert.Equal(t, "/skills/new", q.Get("redirect"))

	_, q = location(t, b.get("/skills?category=Other"))
	assert.Equal(t, "/skills?category=Other", q.Get("redirect"))

	id := uuid.NewString()
	for _, resp := range []*http.Response{
		b.createSkill("<i>Go</i> Basics", "Other", "Intro"),
		b.postForm("/skills/"+id+"/comment", url.Values{"content": {"<b>hi</b>"}}),
		b.postForm("/skills/"+id+"/favorite", nil),
		b.postForm("/profile/edit", url.Values{"contact": {"<b>x</b>"}}),
		b.postForm("/profile/"+id, url.Values{"_method": {"PUT"}, "title": {"<i>x</i>"}}),
	} {
		path, _ := location(t, resp)
		assert.Equal(t, "/auth/login", path)
	}
}

func TestSkillPages(t *testing.T) {
	app := setupApp(t)
	b := newBrowser(t, app)
	b.signUp("henry1")

	assert.Equal(t, "/html/skills.html?category=Other", b.get("/skills?category=Other").Header.Get("Location"))
	assert.Equal(t, "/html/skillNew.html", b.get("/skills/new").Header.Get("Location"))

	id := uuid.NewString()
	path, q := location(t, b.get("/skills/"+id))
	assert.Equal(t, "/html/skillDetail.html", path)
	assert.Equal(t, id, q.Get("id"))
}

func TestCreateSkill(t *testing.T) {
	app := setupApp(t)
	b := newBrowser(t, app)
	b.signUp("ivy1")

	t.Run("title too short", func(t *testing.T) {
		path, q := location(t, b.createSkill("Go", "Programming & Technology", "Intro to Go"))
		assert.Equal(t, "/html/skillNew.html", path)

		var errs []string
		require.NoError(t, json.Unmarshal([]byte(q.Get("errors")), &errs))
		assert.Equal(t, []string{"Skill title must be 3-100 characters"}, errs)
		assert.Equal(t, "Go", q.Get("title"))
		assert.Equal(t, "Programming & Technology", q.Get("category"))
		assert.Equal(t, "Intro to Go", q.Get("description"))
	})

	t.Run("placeholder category", func(t *testing.T) {
		_, q := location(t, b.createSkill("Go Basics", "Please select a category", "Intro to Go"))
		var errs []string
		require.NoError(t, json.Unmarshal([]byte(q.Get("errors")), &errs))
		assert.Equal(t, []string{"Please select a skill category"}, errs)
	})

	t.Run("markup in title", func(t *testing.T) {
		path, q := location(t, b.createSkill("<i>Go</i> Basics", "Programming & Technology", "Intro to Go"))
		assert.Equal(t, "/html/skillNew.html", path)
		var errs []string
		require.NoError(t, json.Unmarshal([]byte(q.Get("errors")), &errs))
		assert.Equal(t, []string{"Skill title can only contain letters, numbers, spaces, and basic symbols (-, &, .)"}, errs)
	})

	t.Run("markup in description is stored inert", func(t *testing.T) {
		path, _ := location(t, b.createSkill("Knots", "Other", "Tie <script>alert(1)</script> knots"))
		assert.Equal(t, "/skills", path)

		var d struct {
			Skill struct {
				Description string `json:"description"`
			} `json:"skill"`
		}
		decode(t, b.get("/api/skills/"+b.skillID("Knots")), &d)
		assert.Equal(t, "Tie &lt;script&gt;alert(1)&lt;/script&gt; knots", d.Skill.Description)
	})

	t.Run("created and listed first in its category", func(t *testing.T) {
		path, _ := location(t, b.createSkill("Rust Basics", "Programming & Technology", "Ownership"))
		assert.Equal(t, "/skills", path)
		path, _ = location(t, b.createSkill("French", "Languages & Translation", "Bonjour"))
		assert.Equal(t, "/skills", path)
		path, _ = location(t, b.createSkill("Go Basics", "Programming & Technology", "Intro to Go"))
		assert.Equal(t, "/skills", path)

		var body struct {
			Skills []struct {
				Title    string `json:"title"`
				PostedBy struct {
					Username string `json:"username"`
				} `json:"postedBy"`
			} `json:"skills"`
		}
		decode(t, b.get("/api/skills?category="+url.QueryEscape("Programming & Technology")), &body)
		require.Len(t, body.Skills, 2)
		assert.Equal(t, "Go Basics", body.Skills[0].Title)
		assert.Equal(t, "Rust Basics", body.Skills[1].Title)
		assert.Equal(t, "ivy1", body.Skills[0].PostedBy.Username)
	})
}

func TestComment(t *testing.T) {
	app := setupApp(t)
	b := newBrowser(t, app)
	b.signUp("jack1")
	b.createSkill("Go Basics", "Programming & Technology", "Intro to Go")
	skillID := b.skillID("Go Basics")

	type commentResp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
		Comment struct {
			Content  string `json:"content"`
			Skill    string `json:"skill"`
			PostedBy struct {
				Username string `json:"username"`
			} `json:"postedBy"`
		} `json:"comment"`
	}

	cases := []struct {
		name   string
		id     string
		text   string
		status int
		errors []string
	}{
		{"malformed id", "abc123", "hello", fiber.StatusBadRequest, []string{"Invalid skill ID format"}},
		{"undefined id", "undefined", "hello", fiber.StatusBadRequest, []string{"Invalid skill ID"}},
		{"unknown skill", uuid.NewString(), "", fiber.StatusNotFound, []string{"Skill not found"}},
		{"empty content", skillID, "   ", fiber.StatusBadRequest, []string{"Comment content is required"}},
		{"too long", skillID, strings.Repeat("a", 501), fiber.StatusBadRequest, []string{"Comment content cannot exceed 500 characters"}},
		{"quote characters", skillID, `say "hi"`, fiber.StatusBadRequest, []string{"Comment content contains invalid characters (HTML tags, scripts, or special characters are not allowed)"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := b.postJSON("/skills/"+tc.id+"/comment", map[string]string{"content": tc.text})
			assert.Equal(t, tc.status, resp.StatusCode)
			var body commentResp
			decode(t, resp, &body)
			assert.False(t, body.Success)
			assert.Equal(t, tc.errors, body.Errors)
		})
	}

	t.Run("posted", func(t *testing.T) {
		resp := b.postJSON("/skills/"+skillID+"/comment", map[string]string{"content": "  Great intro  "})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var body commentResp
		decode(t, resp, &body)
		assert.True(t, body.Success)
		assert.Equal(t, "Great intro", body.Comment.Content)
		assert.Equal(t, skillID, body.Comment.Skill)
		assert.Equal(t, "jack1", body.Comment.PostedBy.Username)
	})

	t.Run("markup is rejected", func(t *testing.T) {
		for _, content := range []string{"<b>hi</b>", "<script>alert(1)</script>nice"} {
			resp := b.postForm("/skills/"+skillID+"/comment", url.Values{"content": {content}})
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, content)
			var body commentResp
			decode(t, resp, &body)
			assert.False(t, body.Success)
			assert.Equal(t, []string{"Comment content contains invalid characters (HTML tags, scripts, or special characters are not allowed)"}, body.Errors)
		}

		resp := b.postJSON("/skills/"+skillID+"/comment", map[string]string{"content": "<b>hi</b>"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var d struct {
			Comments []struct {
				Content string `json:"content"`
			} `json:"comments"`
		}
		decode(t, b.get("/api/skills/"+skillID), &d)
		require.Len(t, d.Comments, 1)
		assert.Equal(t, "Great intro", d.Comments[0].Content)
	})
}

func TestFavoriteToggle(t *testing.T) {
	app := setupApp(t)
	owner := newBrowser(t, app)
	owner.signUp("kate1")
	owner.createSkill("Watercolor", "Design & Creativity", "Paint")
	skillID := owner.skillID("Watercolor")

	fan := newBrowser(t, app)
	fan.signUp("liam1")

	type detail struct {
		IsFavorited   bool  `json:"isFavorited"`
		FavoriteCount int64 `json:"favoriteCount"`
	}

	path, _ := location(t, fan.postForm("/skills/"+skillID+"/favorite", nil))
	assert.Equal(t, "/skills/"+skillID, path)

	var d detail
	decode(t, fan.get("/api/skills/"+skillID), &d)
	assert.True(t, d.IsFavorited)
	assert.EqualValues(t, 1, d.FavoriteCount)

	d = detail{}
	decode(t, owner.get("/api/skills/"+skillID), &d)
	assert.False(t, d.IsFavorited)
	assert.EqualValues(t, 1, d.FavoriteCount)

	var favs struct {
		Favorites []struct {
			ID string `json:"id"`
		} `json:"favorites"`
	}
	decode(t, fan.get("/api/profile/favorites"), &favs)
	require.Len(t, favs.Favorites, 1)
	assert.Equal(t, skillID, favs.Favorites[0].ID)

	fan.postForm("/skills/"+skillID+"/favorite", nil)
	d = detail{}
	decode(t, fan.get("/api/skills/"+skillID), &d)
	assert.False(t, d.IsFavorited)
	assert.Zero(t, d.FavoriteCount)

	resp := fan.postForm("/skills/not-an-id/favorite", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var e map[string]string
	decode(t, resp, &e)
	assert.Equal(t, "Invalid skill ID format", e["error"])

	resp = fan.postForm("/skills/"+uuid.NewString()+"/favorite", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
