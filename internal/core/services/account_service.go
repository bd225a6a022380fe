package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
)

// AccountService handles business logic related to accounts and memberships.
type AccountService struct {
	accountRepo  portsrepo.AccountRepository
	settingsRepo portsrepo.CoupleSettingsRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(ar portsrepo.AccountRepository, sr portsrepo.CoupleSettingsRepository) portssvc.AccountSvcFacade {
	return &AccountService{
		accountRepo:  ar,
		settingsRepo: sr,
	}
}

// Ensure AccountService implements the facade interface
var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new account and makes the creator the owner.
// Couple accounts are provisioned with default couple settings alongside.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	newAccountID := uuid.NewString()

	account := domain.Account{
		AccountID:   newAccountID,
		OwnerID:     creatorUserID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account in repository", slog.String("error", err.Error()), slog.String("account_name", req.Name))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// The creator is the initial owner member.
	membership := domain.AccountMember{
		UserID:    creatorUserID,
		AccountID: newAccountID,
		Role:      domain.RoleOwner,
		IsActive:  true,
		JoinedAt:  now,
	}
	if err := s.accountRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add creator as owner member", slog.String("error", err.Error()), slog.String("account_id", newAccountID))
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}
	account.Members = []domain.AccountMember{membership}

	if req.AccountType == domain.AccountCouple {
		settings := domain.DefaultCoupleSettings(newAccountID, uuid.NewString(), creatorUserID, now)
		if err := s.settingsRepo.SaveCoupleSettings(ctx, settings); err != nil {
			logger.Error("Failed to provision couple settings", slog.String("error", err.Error()), slog.String("account_id", newAccountID))
			return nil, fmt.Errorf("failed to provision couple settings: %w", err)
		}
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccountID), slog.String("account_type", string(req.AccountType)))
	return &account, nil
}

// GetAccountByID retrieves an account with its member list.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID in repository", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListUserAccounts retrieves the accounts a user owns or is a member of.
func (s *AccountService) ListUserAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list accounts for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice, not nil
	}
	return accounts, nil
}

// AddMember adds a user to an account. Only the owner may add members, and a
// couple account holds at most one member besides the owner.
func (s *AccountService) AddMember(ctx context.Context, accountID, addingUserID, targetUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.AuthorizeMemberAction(ctx, addingUserID, accountID)
	if err != nil {
		return err
	}
	if account.OwnerID != addingUserID {
		logger.Warn("Non-owner attempted to add member", slog.String("account_id", accountID), slog.String("adding_user_id", addingUserID))
		return apperrors.ErrForbidden
	}
	if targetUserID == account.OwnerID {
		return fmt.Errorf("%w: owner is already a member", apperrors.ErrValidation)
	}

	if account.AccountType == domain.AccountCouple && len(account.PartnerIDs()) >= 2 {
		return fmt.Errorf("%w: couple account already has two partners", apperrors.ErrInvalidState)
	}

	membership := domain.AccountMember{
		UserID:    targetUserID,
		AccountID: accountID,
		Role:      domain.RoleMember,
		IsActive:  true,
		JoinedAt:  time.Now(),
	}
	if err := s.accountRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add member in repository", slog.String("error", err.Error()), slog.String("account_id", accountID), slog.String("target_user_id", targetUserID))
		return fmt.Errorf("failed to add user %s to account %s: %w", targetUserID, accountID, err)
	}

	logger.Info("Member added to account", slog.String("account_id", accountID), slog.String("target_user_id", targetUserID), slog.String("added_by_user_id", addingUserID))
	return nil
}

// AuthorizeMemberAction checks that the user is the owner or an active member
// of the account and returns the loaded account.
// Returns apperrors.ErrNotFound when the account doesn't exist or the user is
// not a member, to avoid revealing account existence to outsiders.
func (s *AccountService) AuthorizeMemberAction(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to load account for authorization", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}
	if !account.IsActive {
		return nil, apperrors.ErrNotFound
	}

	if account.OwnerID == userID {
		return account, nil
	}
	for _, m := range account.Members {
		if m.UserID == userID && m.IsActive && m.Role != domain.RoleRemoved {
			return account, nil
		}
	}

	logger.Warn("Authorization failed: user not a member of account", slog.String("user_id", userID), slog.String("account_id", accountID))
	// Return NotFound to avoid revealing account existence to non-members
	return nil, apperrors.ErrNotFound
}

// ResolvePartners verifies the account is a couple with exactly two partners,
// one of them userID, and returns (self, partner).
func (s *AccountService) ResolvePartners(ctx context.Context, account *domain.Account, userID string) (string, string, error) {
	if account.AccountType != domain.AccountCouple {
		return "", "", fmt.Errorf("%w: account %s is not a couple account", apperrors.ErrInvalidState, account.AccountID)
	}

	partners := account.PartnerIDs()
	if len(partners) != 2 {
		return "", "", fmt.Errorf("%w: couple account %s has %d partners, expected 2", apperrors.ErrInvalidState, account.AccountID, len(partners))
	}

	partner, ok := account.PartnerOf(userID)
	if !ok {
		return "", "", fmt.Errorf("%w: user %s is not a partner in account %s", apperrors.ErrForbidden, userID, account.AccountID)
	}
	return userID, partner, nil
}
