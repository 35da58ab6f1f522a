package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/authdesk/internal/api/handler"
	"github.com/martijn/authdesk/internal/api/middleware"
	"github.com/martijn/authdesk/internal/core/service"
	"github.com/martijn/authdesk/internal/session"
	"github.com/martijn/authdesk/pkg/config"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	authService *service.AuthService,
	sessionManager *session.Manager,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandlerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(session.Middleware(
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
		!cfg.IsDevMode(),
	))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessionManager, cfg.StaticDir)

	// Pages
	router.GET("/", authHandler.LoginPage)
	router.GET("/register", authHandler.RegisterPage)
	router.GET("/welcome", authHandler.Welcome)

	// Auth flow
	router.POST("/login", authHandler.Login)
	router.POST("/register", authHandler.Register)
	router.GET("/logout", authHandler.Logout)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Everything else is a static asset lookup
	router.NoRoute(authHandler.StaticFile)

	return &Server{
		router: router,
		config: cfg,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	fmt.Printf("Starting HTTP server on %s\n", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
