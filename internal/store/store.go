package store

import (
	"context"

	"github.com/Jayasurya1108/newRag/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Credential operations
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, username string) (*domain.User, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	ListMessages(ctx context.Context, username string, limit int) ([]domain.Message, error)
	CountMessages(ctx context.Context, username string) (int, error)
	SearchMessages(ctx context.Context, username, query string, limit int) ([]domain.Message, error)

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
