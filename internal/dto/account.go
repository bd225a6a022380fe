package dto

import (
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=PERSONAL COUPLE FAMILY BUSINESS"`
	Description string             `json:"description"` // Optional
}

// AddMemberRequest defines the data needed to add a member to an account.
type AddMemberRequest struct {
	UserID string                   `json:"userID" binding:"required"`
	Role   domain.AccountMemberRole `json:"role" binding:"omitempty,oneof=OWNER MEMBER"`
}

// AccountMemberResponse defines the data returned for an account member.
type AccountMemberResponse struct {
	UserID   string                   `json:"userID"`
	Role     domain.AccountMemberRole `json:"role"`
	IsActive bool                     `json:"isActive"`
	JoinedAt time.Time                `json:"joinedAt"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string                  `json:"accountID"`
	OwnerID     string                  `json:"ownerID"`
	Name        string                  `json:"name"`
	AccountType domain.AccountType      `json:"accountType"`
	Description string                  `json:"description"`
	IsActive    bool                    `json:"isActive"`
	Members     []AccountMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	members := make([]AccountMemberResponse, len(acc.Members))
	for i, m := range acc.Members {
		members[i] = AccountMemberResponse{
			UserID:   m.UserID,
			Role:     m.Role,
			IsActive: m.IsActive,
			JoinedAt: m.JoinedAt,
		}
	}
	return AccountResponse{
		AccountID:   acc.AccountID,
		OwnerID:     acc.OwnerID,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Description: acc.Description,
		IsActive:    acc.IsActive,
		Members:     members,
		CreatedAt:   acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
