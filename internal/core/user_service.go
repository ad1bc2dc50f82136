package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"railsathi.com/complaints-service/internal/auth"
	"railsathi.com/complaints-service/internal/store"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password,
// so login failures never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	dbStore       *store.SQLiteStore
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *store.SQLiteStore, jwtSecret []byte, tokenValidity time.Duration) *UserService {
	return &UserService{
		dbStore:       db,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
	}
}

// NormalizeEmail lowercases and trims an email address. All storage and
// lookups go through the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(email, password, name string) (*store.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.dbStore.CreateUser(NormalizeEmail(email), hash, strings.TrimSpace(name))
}

// Login verifies credentials and issues a signed session token embedding
// the user's identity. Verification failures of either kind surface as
// ErrInvalidCredentials.
func (s *UserService) Login(email, password string) (string, *store.User, error) {
	user, err := s.dbStore.GetUserByEmail(NormalizeEmail(email))
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Name, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Profile returns the stored user row for an authenticated identity.
func (s *UserService) Profile(userID int64) (*store.User, error) {
	user, err := s.dbStore.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, store.ErrNotFound
	}
	return user, nil
}
