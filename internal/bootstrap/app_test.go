package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/service"
)

const strongPassword = "Sup3r-secret"

type testEnv struct {
	t   *testing.T
	app *App
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "newsroom", Env: "test", Version: "test"},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:       "0123456789abcdef0123456789abcdef",
			TokenTTLMinutes: 60,
			BcryptCost:      bcrypt.MinCost,
			CookieName:      "token",
			CookieHTTPOnly:  true,
		},
		Envelope: config.EnvelopeConfig{Key: "shared-key", MaxAgeSeconds: 300, ReplayProtection: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	storage, err := OpenStorage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	app, err := Assemble(cfg, zap.NewNop(), storage, nil)
	require.NoError(t, err)
	t.Cleanup(storage.Close)
	return &testEnv{t: t, app: app}
}

// account creates a user directly and signs it in over HTTP.
func (e *testEnv) account(username string, role domain.RoleName) (*domain.User, string) {
	e.t.Helper()
	user, err := e.app.Services.Users.Create(context.Background(), nil, service.UserCreateInput{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Password:  strongPassword,
		Role:      role,
	})
	require.NoError(e.t, err)
	return user, e.login(username, strongPassword)
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()
	resp, body := e.sealed(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(e.t, http.StatusOK, resp.StatusCode, body.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(e.t, json.Unmarshal(body.Data, &out))
	return out.Token
}

func (e *testEnv) seal(v any) string {
	e.t.Helper()
	payload, err := e.app.Envelope.Seal(v)
	require.NoError(e.t, err)
	return payload
}

func (e *testEnv) sealed(method, path, token string, v any) (*http.Response, apiResponse) {
	e.t.Helper()
	return e.raw(method, path, token, map[string]string{"payload": e.seal(v)})
}

func (e *testEnv) raw(method, path, token string, body any) (*http.Response, apiResponse) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Fiber.Test(req, -1)
	require.NoError(e.t, err)

	var out apiResponse
	data, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(e.t, json.Unmarshal(data, &out), string(data))
	}
	return resp, out
}

func (e *testEnv) createArticle(token, title string) string {
	e.t.Helper()
	resp, body := e.sealed(http.MethodPost, "/api/news", token, map[string]any{
		"title":   title,
		"content": "<p>body</p>",
		"image":   "https://example.com/a.png",
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode, body.Message)
	var article struct {
		ID string `json:"id"`
	}
	require.NoError(e.t, json.Unmarshal(body.Data, &article))
	return article.ID
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.sealed(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"password":  strongPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	assert.True(t, body.Success)
	assert.NotContains(t, string(body.Data), "password")

	resp, body = env.sealed(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Again",
		"username":  "ADA",
		"password":  strongPassword,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body.Code)

	resp, body = env.sealed(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ada",
		"password": strongPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	assert.Equal(t, "user", login.Role)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, login.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	// the session cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: login.Token})
	meResp, err := env.app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	resp, body = env.sealed(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ada",
		"password": "Wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid credentials", body.Message)

	resp, _ = env.raw(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPayloadEnvelopeRequired(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.raw(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ada",
		"password": strongPassword,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid payload", body.Message)

	resp, body = env.raw(http.MethodPost, "/api/auth/login", "", map[string]string{"payload": "v1:not-a-cipher"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid payload", body.Message)
}

func TestPayloadReplayRejected(t *testing.T) {
	env := newTestEnv(t)
	env.account("writer", domain.RoleAuthor)

	payload := env.seal(map[string]string{"username": "writer", "password": strongPassword})
	resp, _ := env.raw(http.MethodPost, "/api/auth/login", "", map[string]string{"payload": payload})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.raw(http.MethodPost, "/api/auth/login", "", map[string]string{"payload": payload})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "payload already used", body.Message)

	// a re-spelled copy of the same cipher string must not slip past the guard
	resp, body = env.raw(http.MethodPost, "/api/auth/login", "", map[string]string{"payload": payload[:10] + "\n" + payload[10:]})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid payload", body.Message)
}

func TestRegisterReplayRespelled(t *testing.T) {
	env := newTestEnv(t)

	payload := env.seal(map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"password":  strongPassword,
	})
	resp, _ := env.raw(http.MethodPost, "/api/auth/register", "", map[string]string{"payload": payload})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, variant := range []string{payload, payload[:10] + "\n" + payload[10:], payload + "\r\n"} {
		resp, body := env.raw(http.MethodPost, "/api/auth/register", "", map[string]string{"payload": variant})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body.Message)
	}
}

func TestArticlesRoleAndOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, reader := env.account("reader", domain.RoleUser)
	_, alice := env.account("alice", domain.RoleAuthor)
	_, bob := env.account("bob", domain.RoleAuthor)
	_, admin := env.account("root", domain.RoleAdmin)

	resp, _ := env.sealed(http.MethodPost, "/api/news", reader, map[string]any{
		"title": "t", "content": "c", "image": "https://example.com/i.png",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	id := env.createArticle(alice, "Alice writes")

	resp, _ = env.sealed(http.MethodPatch, "/api/news", bob, map[string]any{"id": id, "title": "Bob was here"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.sealed(http.MethodPatch, "/api/news", admin, map[string]any{"id": id, "isHeader": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)
	assert.Contains(t, string(body.Data), `"isHeader":true`)

	resp, _ = env.sealed(http.MethodPatch, "/api/news", alice, map[string]any{"id": id})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.createArticle(bob, "Bob writes")

	// authors list only their own work; anonymous readers see everything
	resp, body = env.raw(http.MethodGet, "/api/news", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Alice writes", mine[0].Title)

	resp, body = env.raw(http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &all))
	assert.Len(t, all, 2)

	resp, _ = env.sealed(http.MethodPost, "/api/news/"+id+"/comments", reader, map[string]string{"content": "nice"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.sealed(http.MethodDelete, "/api/news", bob, map[string]string{"id": id})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.sealed(http.MethodDelete, "/api/news", alice, map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.raw(http.MethodGet, "/api/news/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.raw(http.MethodGet, "/api/news/"+id+"/comments", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body.Data))
}

func TestStoredRoleWinsOverTokenClaim(t *testing.T) {
	env := newTestEnv(t)
	writer, token := env.account("writer", domain.RoleAuthor)
	_, admin := env.account("root", domain.RoleAdmin)

	env.createArticle(token, "Before demotion")

	resp, body := env.sealed(http.MethodPatch, "/api/users", admin, map[string]string{"id": writer.ID, "role": "user"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	resp, _ = env.sealed(http.MethodPost, "/api/news", token, map[string]any{
		"title": "After", "content": "c", "image": "https://example.com/i.png",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.sealed(http.MethodDelete, "/api/users", admin, map[string]string{"id": writer.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.raw(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, author := env.account("writer", domain.RoleAuthor)
	_, admin := env.account("root", domain.RoleAdmin)

	resp, _ := env.raw(http.MethodGet, "/api/users", author, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.raw(http.MethodGet, "/api/roles", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roles []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &roles))
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)

	resp, body = env.sealed(http.MethodPost, "/api/users", admin, map[string]string{
		"firstName": "New",
		"lastName":  "Hire",
		"username":  "hire",
		"password":  strongPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "user", created.Role)

	resp, _ = env.sealed(http.MethodPatch, "/api/users", admin, map[string]string{"id": created.ID, "role": "editor"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.sealed(http.MethodDelete, "/api/users", admin, map[string]string{"id": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardGate(t *testing.T) {
	env := newTestEnv(t)
	_, reader := env.account("reader", domain.RoleUser)
	_, author := env.account("writer", domain.RoleAuthor)

	get := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: "token", Value: token})
		}
		resp, err := env.app.Fiber.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	resp := get("/dashboard", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = get("/dashboard/users", "garbage")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = get("/DashBoard", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = get("/dashboard", reader)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = get("/dashboard", author)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get("/dashboard/users", author)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = get("/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoutesAndHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.raw(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.False(t, body.Success)

	resp, _ = env.raw(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.raw(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.raw(http.MethodGet, "/health/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
