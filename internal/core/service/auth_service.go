package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/martijn/authdesk/internal/core/domain"
	"github.com/martijn/authdesk/internal/core/repository"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 is used instead of bcrypt so hashes stay portable across
	// deployment targets; the encoded string carries everything needed
	// for verification.
	pbkdf2Iterations = 600_000
	pbkdf2SaltBytes  = 16
	pbkdf2KeyBytes   = 32

	MinPasswordLength = 6
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// HashPassword derives a salted PBKDF2-SHA256 hash encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<digest>".
func (s *AuthService) HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyBytes, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s",
		pbkdf2Iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the stored hash.
// Malformed stored hashes verify as false rather than erroring.
func (s *AuthService) VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false
	}

	header := strings.Split(parts[0], ":")
	if len(header) != 3 || header[0] != "pbkdf2" || header[1] != "sha256" {
		return false
	}

	iterations, err := strconv.Atoi(header[2])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// Login authenticates an identifier (username or email, matched
// case-insensitively) against the stored password hash. Unknown
// identifiers and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Register validates the input, enforces case-insensitive uniqueness
// and creates the account. It never signs the new user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)

	if username == "" && email == "" {
		return nil, NewValidationError("Username or email required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, NewValidationError("Password must be at least 6 characters")
	}

	if username != "" {
		taken, err := s.userRepo.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}
	if email != "" {
		taken, err := s.userRepo.EmailExists(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(optional(username), optional(email), optional(name), hash)
	// A racing registration for the same key loses here: the store's
	// unique constraints surface as ErrUsernameTaken / ErrEmailTaken.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResolveDisplayName re-reads the display name for a stored user,
// using the same name > username > email priority as login.
func (s *AuthService) ResolveDisplayName(ctx context.Context, id int64) (string, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.DisplayName(), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
