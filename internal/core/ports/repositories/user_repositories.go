package repositories

import (
	"context"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUsersByIDs retrieves multiple users by their IDs.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)

	// ListUsers retrieves a page of users older than the token's position.
	ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user with its credential hash.
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error
}

// UserAuthReader exposes the credential lookup used by the login flow.
type UserAuthReader interface {
	// FindUserCredentials returns the user and its password hash by name.
	FindUserCredentials(ctx context.Context, name string) (*domain.User, string, error)
}

// UserRepository combines all user-related repository interfaces.
type UserRepository interface {
	UserReader
	UserWriter
	UserAuthReader
}
