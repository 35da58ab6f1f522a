package handler

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/authdesk/internal/api/dto"
	"github.com/martijn/authdesk/internal/core/domain"
	"github.com/martijn/authdesk/internal/core/service"
	"github.com/martijn/authdesk/internal/session"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(
	`<html><head><meta charset="utf-8"><title>Welcome</title></head><body><h1>Welcome, {{.Name}}</h1><p><a href="/logout">Sign out</a></p></body></html>`))

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	staticDir   string
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager, staticDir string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		staticDir:   staticDir,
	}
}

// LoginPage handles GET /
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "login.html"))
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "register.html"))
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	// ShouldBind picks JSON or form decoding off the content type
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.AuthResponse{
			Message: "Email and password required",
		})
		return
	}

	identifier := req.IdentifierValue()
	if identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.AuthResponse{
			Message: "Email and password required",
		})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		// same body for unknown identifier and wrong password
		c.JSON(http.StatusUnauthorized, dto.AuthResponse{
			Message: "Invalid email or password",
		})
		return
	}

	sess := &domain.Session{UserID: user.ID, Name: user.DisplayName()}
	if err := h.sessions.Establish(c, sess); err != nil {
		c.JSON(http.StatusInternalServerError, dto.AuthResponse{
			Message: "Failed to establish session",
		})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Success:  true,
		Message:  "Logged in",
		Redirect: "/welcome",
	})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.AuthResponse{
			Message: "Username or email required",
		})
		return
	}

	_, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, dto.AuthResponse{Message: validationErr.Message})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, dto.AuthResponse{Message: "Username already taken"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, dto.AuthResponse{Message: "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, dto.AuthResponse{Message: "Failed to register"})
		}
		return
	}

	// registration never signs the new account in
	c.JSON(http.StatusOK, dto.AuthResponse{
		Success:  true,
		Message:  "Registered. Please sign in.",
		Redirect: "/",
	})
}

// Welcome handles GET /welcome
func (h *AuthHandler) Welcome(c *gin.Context) {
	sess, ok := h.sessions.Current(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	name := sess.Name
	if name == "" {
		// legacy sessions may lack the name; re-resolve from the store
		// and fall back to a safe default instead of failing the page
		resolved, err := h.authService.ResolveDisplayName(c.Request.Context(), sess.UserID)
		if err != nil || resolved == "" {
			name = "User"
		} else {
			name = resolved
			sess.Name = name
		}
	}

	// re-saving backfills the name and slides the expiration window
	_ = h.sessions.Establish(c, sess)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = welcomeTmpl.Execute(c.Writer, gin.H{"Name": name})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

// StaticFile serves assets from the static directory for any path not
// claimed by a route. Registered as the router's NoRoute handler.
func (h *AuthHandler) StaticFile(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusNotFound)
		return
	}

	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if name == "" || strings.Contains(name, "..") {
		c.Status(http.StatusNotFound)
		return
	}

	path := filepath.Join(h.staticDir, filepath.Clean(name))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.Status(http.StatusNotFound)
		return
	}

	c.File(path)
}
