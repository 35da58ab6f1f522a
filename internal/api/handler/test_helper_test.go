package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/authdesk/internal/api/dto"
	"github.com/martijn/authdesk/internal/core/service"
	"github.com/martijn/authdesk/internal/infrastructure/sqlite"
	"github.com/martijn/authdesk/internal/session"
)

// testEnv holds all test dependencies
type testEnv struct {
	db     *sqlite.DB
	router *gin.Engine
}

// setupTestEnv wires the full stack against an in-memory SQLite
// database, seeded with the demo accounts.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	authService := service.NewAuthService(userRepo)

	if err := sqlite.Seed(context.Background(), userRepo, authService.HashPassword); err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}

	staticDir := t.TempDir()
	for name, body := range map[string]string{
		"login.html":    "<html><body>login page</body></html>",
		"register.html": "<html><body>register page</body></html>",
		"styles.css":    "body {}",
	} {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write static file %s: %v", name, err)
		}
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(session.Middleware("test-secret", time.Hour, false))

	authHandler := NewAuthHandler(authService, session.NewManager(), staticDir)
	router.GET("/", authHandler.LoginPage)
	router.GET("/register", authHandler.RegisterPage)
	router.GET("/welcome", authHandler.Welcome)
	router.POST("/login", authHandler.Login)
	router.POST("/register", authHandler.Register)
	router.GET("/logout", authHandler.Logout)
	router.NoRoute(authHandler.StaticFile)

	return &testEnv{
		db:     db,
		router: router,
	}
}

// postJSON performs a JSON POST, attaching any given session cookies.
func (env *testEnv) postJSON(t *testing.T, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// postForm performs a form-encoded POST.
func (env *testEnv) postForm(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// get performs a GET request, attaching any given session cookies.
func (env *testEnv) get(t *testing.T, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login signs in as the given user and returns the session cookies a
// browser would carry to the next request.
func (env *testEnv) login(t *testing.T, identifier, password string) []*http.Cookie {
	t.Helper()

	w := env.postJSON(t, "/login", `{"email":"`+identifier+`","password":"`+password+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	cookies := carryCookies(nil, w.Result().Cookies())
	if len(cookies) == 0 {
		t.Fatal("login did not set a session cookie")
	}
	return cookies
}

// carryCookies merges Set-Cookie responses into a cookie jar the way a
// browser would: newer cookies replace older ones by name, expired
// cookies are dropped.
func carryCookies(jar []*http.Cookie, updates []*http.Cookie) []*http.Cookie {
	merged := map[string]*http.Cookie{}
	for _, c := range jar {
		merged[c.Name] = c
	}
	for _, c := range updates {
		if c.MaxAge < 0 {
			delete(merged, c.Name)
			continue
		}
		merged[c.Name] = c
	}

	out := make([]*http.Cookie, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	return out
}

// parseAuthResponse parses the response body into dto.AuthResponse
func parseAuthResponse(t *testing.T, w *httptest.ResponseRecorder) dto.AuthResponse {
	t.Helper()

	var resp dto.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}
