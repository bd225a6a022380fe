package dto

import (
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"displayName"`
	HasPremium  *bool   `json:"hasPremium"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID      string    `json:"userID"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	HasPremium  bool      `json:"hasPremium"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Name:        u.Name,
		DisplayName: u.DisplayName,
		HasPremium:  u.HasPremium,
		CreatedAt:   u.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to response DTOs.
func ToListUserResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = ToUserResponse(&users[i])
	}
	return res
}

// ListUsersResponse wraps a page of users with the token for the next page.
type ListUsersResponse struct {
	Users     []UserResponse `json:"users"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// LoginRequest defines the credentials for the login endpoint.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
