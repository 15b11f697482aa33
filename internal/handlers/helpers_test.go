package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/repositories"
	"skillswap/internal/server"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "skillswap_session"

// setupApp builds the full application on a private in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		AppEnv: "development",
		Session: config.SessionConfig{
			CookieName: sessionCookie,
			Expiration: time.Hour,
		},
	}
	app, err := server.NewApp(server.Deps{
		Config: cfg,
		Log:    logger.Nop(),
		Repos: server.Repositories{
			Users:     repositories.NewGORMUserRepository(db),
			Skills:    repositories.NewGORMSkillRepository(db),
			Comments:  repositories.NewGORMCommentRepository(db),
			Favorites: repositories.NewGORMFavoriteRepository(db),
		},
	})
	require.NoError(t, err)
	return app
}

// browser carries the session cookie between requests like a user agent.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) postJSON(path string, body interface{}) *http.Response {
	raw, err := json.Marshal(body)
	require.NoError(b.t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return b.do(req)
}

func (b *browser) register(username, password, email string) *http.Response {
	return b.postForm("/auth/register", url.Values{"username": {username}, "password": {password}, "email": {email}})
}

func (b *browser) login(username, password string) *http.Response {
	return b.postForm("/auth/login", url.Values{"username": {username}, "password": {password}})
}

// signUp registers and logs in, failing the test on any unexpected redirect.
func (b *browser) signUp(username string) {
	b.t.Helper()
	resp := b.register(username, "Passw0rd", username+"@example.com")
	require.Equal(b.t, "/auth/login", resp.Header.Get("Location"))
	resp = b.login(username, "Passw0rd")
	require.Equal(b.t, "/skills", resp.Header.Get("Location"))
}

func (b *browser) createSkill(title, category, description string) *http.Response {
	return b.postForm("/skills", url.Values{"title": {title}, "category": {category}, "description": {description}})
}

// skillID looks a listing up by title through the JSON API.
func (b *browser) skillID(title string) string {
	b.t.Helper()
	var body struct {
		Skills []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"skills"`
	}
	decode(b.t, b.get("/api/skills"), &body)
	for _, s := range body.Skills {
		if s.Title == title {
			return s.ID
		}
	}
	b.t.Fatalf("skill %q not listed", title)
	return ""
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// location splits a redirect into path and query.
func location(t *testing.T, resp *http.Response) (string, url.Values) {
	t.Helper()
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	u, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return u.Path, u.Query()
}
