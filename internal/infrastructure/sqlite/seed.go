package sqlite

import (
	"context"
	"fmt"

	"github.com/martijn/authdesk/internal/core/domain"
	"github.com/martijn/authdesk/internal/core/repository"
)

// demo accounts created on first start so the login page is usable
// out of the box
var demoUsers = []struct {
	username string
	email    string
	name     string
	password string
}{
	{"user", "user@example.com", "Demo User", "secret123"},
	{"alice", "", "Alice", "password1"},
}

// Seed inserts the demo accounts when the users table is empty. It is
// idempotent and must run before the server accepts requests.
func Seed(ctx context.Context, userRepo repository.UserRepository, hash func(string) (string, error)) error {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, demo := range demoUsers {
		passwordHash, err := hash(demo.password)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}

		user := domain.NewUser(
			optionalString(demo.username),
			optionalString(demo.email),
			optionalString(demo.name),
			passwordHash,
		)
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", demo.username, err)
		}
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
