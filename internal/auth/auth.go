// Package auth gates access to chat sessions.
package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jayasurya1108/newRag/internal/domain"
	"github.com/Jayasurya1108/newRag/internal/store"
)

// Service verifies and registers user credentials. Passwords are stored as
// bcrypt hashes; only the verify/compare contract is exposed.
type Service struct {
	store store.Store
}

// NewService creates a new auth service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Register creates a user with a hash of password. Returns
// domain.ErrUsernameTaken if the username is already registered.
func (s *Service) Register(ctx context.Context, username, password string) error {
	existing, err := s.store.GetUser(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	return s.store.CreateUser(ctx, user)
}

// Authenticate recomputes the hash comparison against the stored value.
// Unknown usernames and wrong passwords both report false. No rate
// limiting, no lockout.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}
