package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authsvc "parkwise-backend/internal/auth"
	"parkwise-backend/internal/infrastructure/database"
	"parkwise-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	cfg := middleware.SessionConfig{RedisURL: "redis://" + mr.Addr()}
	sessionHandler, rdb, err := middleware.Session(cfg)
	require.NoError(t, err)

	h := &Handlers{DB: db, Rdb: rdb, Config: cfg}
	app := fiber.New()
	app.Use(sessionHandler)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Get("/me", h.Me)
	app.Delete("/logout", h.Logout)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "parkwise.sid" {
			return c
		}
	}
	return nil
}

func TestRegisterLoginMe(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/register", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass", "full_name": "Test Driver",
	}, nil)
	assert.Equal(t, 201, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass",
	}, nil)
	require.Equal(t, 200, resp.StatusCode)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "login must set the session cookie")

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookie)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, meResp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&body))
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "driver@example.com", data["email"])
	assert.Equal(t, "user", data["role"])
}

func TestMe_Unauthenticated(t *testing.T) {
	app, _ := setupAuthApp(t)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/register", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass", "full_name": "Test Driver",
	}, nil)
	require.Equal(t, 201, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{
		"email": "driver@example.com", "password": "wrong",
	}, nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp = postJSON(t, app, "/login", fiber.Map{}, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLogout_EndsSession(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/register", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass", "full_name": "Test Driver",
	}, nil)
	require.Equal(t, 201, resp.StatusCode)
	resp = postJSON(t, app, "/login", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass",
	}, nil)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	req := httptest.NewRequest("DELETE", "/logout", nil)
	req.AddCookie(cookie)
	outResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, outResp.StatusCode)

	// Old cookie no longer authenticates.
	req = httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(cookie)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, meResp.StatusCode)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _ := setupAuthApp(t)

	resp := postJSON(t, app, "/register", fiber.Map{
		"email": "driver@example.com", "password": "s3cret!pass", "full_name": "A",
	}, nil)
	require.Equal(t, 201, resp.StatusCode)

	resp = postJSON(t, app, "/register", fiber.Map{
		"email": "driver@example.com", "password": "an0ther!pass", "full_name": "B",
	}, nil)
	assert.Equal(t, 409, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	errObj, _ := body["error"].(map[string]interface{})
	assert.Equal(t, authsvc.ErrEmailTaken.Error(), errObj["message"])
}
