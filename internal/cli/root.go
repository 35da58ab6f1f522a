package cli

import (
	"context"
	"fmt"

	"github.com/martijn/authdesk/internal/core/repository"
	"github.com/martijn/authdesk/internal/core/service"
	"github.com/martijn/authdesk/internal/infrastructure/sqlite"
	"github.com/martijn/authdesk/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "authdesk",
	Short: "Authdesk - authentication-gated welcome application",
	Long: `Authdesk is a minimal authentication-gated web application.

It provides:
- Account registration with case-insensitive uniqueness checks
- Sign-in against PBKDF2-hashed credentials
- A session-protected welcome page
- A CLI for managing user accounts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml)")
}

// initServices initializes the store and services, seeding the demo
// accounts when the user table is empty.
func initServices(ctx context.Context) (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	userRepo := sqlite.NewUserRepository(db)
	authService := service.NewAuthService(userRepo)

	if err := sqlite.Seed(ctx, userRepo, authService.HashPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	return &Services{
		DB:          db,
		UserRepo:    userRepo,
		AuthService: authService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlite.DB
	UserRepo    repository.UserRepository
	AuthService *service.AuthService
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
