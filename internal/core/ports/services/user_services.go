package services

import (
	"context"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/dto"
)

// UserSvcFacade defines the user management surface.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user; soft-deleted users are not found.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a page of users with an opaque continuation token.
	ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error)

	// UpdateUser applies the provided fields to the user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string, deletedBy string) error

	// Authenticate verifies credentials and returns the user on success,
	// apperrors.ErrForbidden on mismatch.
	Authenticate(ctx context.Context, name, password string) (*domain.User, error)
}

// TokenSvc issues bearer tokens for authenticated users.
type TokenSvc interface {
	GenerateToken(user *domain.User) (string, error)
}
