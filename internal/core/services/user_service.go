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
	"github.com/tandemfin/couple_finance_app/internal/utils"
)

const maxUserPageSize = 100

// UserService handles user management and credential verification.
type UserService struct {
	userRepo    portsrepo.UserRepository
	accountRepo portsrepo.AccountReader
	premiumSvc  portssvc.PremiumSvcFacade
}

// NewUserService creates a new UserService.
func NewUserService(ur portsrepo.UserRepository, ar portsrepo.AccountReader, premiumSvc portssvc.PremiumSvcFacade) *UserService {
	return &UserService{userRepo: ur, accountRepo: ar, premiumSvc: premiumSvc}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser registers a new user, hashing the password before it ever
// reaches the repository.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:      uuid.New().String(),
		Name:        req.Name,
		DisplayName: req.DisplayName,
		AuditFields: domain.NewAuditFields("system", now),
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Name
	}

	if err := s.userRepo.SaveUser(ctx, user, hash); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	logger.Info("User created", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a page of users. The limit is clamped to a sane range.
func (s *UserService) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxUserPageSize {
		limit = maxUserPageSize
	}
	return s.userRepo.ListUsers(ctx, limit, nextToken)
}

// UpdateUser applies the provided fields. A change to the premium flag
// re-derives the tier of every couple account the user belongs to, so the
// couple features track subscriptions without waiting for the nightly
// refresh.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	premiumChanged := false
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		user.Name = *req.Name
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.HasPremium != nil && *req.HasPremium != user.HasPremium {
		user.HasPremium = *req.HasPremium
		premiumChanged = true
	}
	user.Touch(updatedBy, time.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if premiumChanged {
		accounts, err := s.accountRepo.ListAccountsByUserID(ctx, userID)
		if err != nil {
			logger.Error("Premium flag changed but account listing failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			return user, nil
		}
		for _, a := range accounts {
			if a.AccountType != domain.AccountCouple || !a.IsActive {
				continue
			}
			if err := s.premiumSvc.RecomputeForAccount(ctx, a.AccountID); err != nil {
				logger.Error("Premium recompute failed after flag change",
					slog.String("account_id", a.AccountID), slog.String("error", err.Error()))
			}
		}
	}
	return user, nil
}

// DeleteUser soft-deletes a user.
func (s *UserService) DeleteUser(ctx context.Context, userID string, deletedBy string) error {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, deletedBy, time.Now())
}

// Authenticate verifies the user's credentials. A mismatch and an unknown
// name both surface as ErrForbidden so login failures don't disclose which
// part was wrong.
func (s *UserService) Authenticate(ctx context.Context, name, password string) (*domain.User, error) {
	user, hash, err := s.userRepo.FindUserCredentials(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, hash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}
