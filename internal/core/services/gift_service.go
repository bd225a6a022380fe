package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

// GiftService governs the concealed-gift lifecycle: creation, concealment
// from the recipient, reveal (manual or scheduled) and the conversion of a
// revealed gift into a shared expense.
type GiftService struct {
	expenseRepo    portsrepo.ExpenseRepository
	settingsRepo   portsrepo.CoupleSettingsRepository
	accountRepo    portsrepo.AccountRepository
	accountSvc     portssvc.AccountAuthorizerSvc
	alertErrorRate float64
}

// NewGiftService creates a new GiftService.
func NewGiftService(er portsrepo.ExpenseRepository, sr portsrepo.CoupleSettingsRepository, ar portsrepo.AccountRepository, accountSvc portssvc.AccountAuthorizerSvc) *GiftService {
	return &GiftService{
		expenseRepo:    er,
		settingsRepo:   sr,
		accountRepo:    ar,
		accountSvc:     accountSvc,
		alertErrorRate: defaultAlertErrorRate,
	}
}

var _ portssvc.GiftSvcFacade = (*GiftService)(nil)


// CreateGift conceals a personal expense as a gift. The recipient must be the
// caller's partner, gift mode must be enabled on the account and the reveal
// date must be strictly in the future.
func (s *GiftService) CreateGift(ctx context.Context, callerUserID string, req dto.CreateGiftRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	account, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, req.AccountID)
	if err != nil {
		return nil, err
	}
	_, partner, err := s.accountSvc.ResolvePartners(ctx, account, callerUserID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindByAccountID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !settings.GiftModeEnabled {
		return nil, fmt.Errorf("%w: gift mode is disabled on this account", apperrors.ErrInvalidState)
	}
	if req.GiftForUserID != partner {
		return nil, fmt.Errorf("%w: gift recipient must be your partner", apperrors.ErrValidation)
	}
	if !req.RevealDate.After(now) {
		return nil, fmt.Errorf("%w: reveal date must be in the future", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	revealDate := req.RevealDate
	expense := domain.Expense{
		ExpenseID:   uuid.New().String(),
		AccountID:   req.AccountID,
		PaidBy:      callerUserID,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        now,
		CoupleData: &domain.CoupleExpenseData{
			ExpenseType:   domain.ExpensePersonal,
			IsGift:        true,
			GiftForUserID: req.GiftForUserID,
			RevealDate:    &revealDate,
			IsRevealed:    false,
		},
		AuditFields: domain.NewAuditFields(callerUserID, now),
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save gift: %w", err)
	}
	logger.Info("Gift created", slog.String("expense_id", expense.ExpenseID), slog.String("account_id", req.AccountID))
	return &expense, nil
}

// loadOwnGift loads a gift and verifies the caller created it. Non-creators,
// including the recipient trying to probe, get ErrNotFound so an unrevealed
// gift's existence is never disclosed.
func (s *GiftService) loadOwnGift(ctx context.Context, giftID, callerUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, giftID)
	if err != nil {
		return nil, err
	}
	if expense.CoupleData == nil || !expense.CoupleData.IsGift {
		return nil, fmt.Errorf("%w: expense %s is not a gift", apperrors.ErrNotFound, giftID)
	}
	if expense.CreatedBy != callerUserID {
		return nil, apperrors.ErrNotFound
	}
	return expense, nil
}

// RevealGift reveals one of the caller's gifts ahead of its scheduled date.
// With req.RevealNow set the gift additionally converts to a shared expense;
// otherwise it stays a personal expense of its creator.
func (s *GiftService) RevealGift(ctx context.Context, giftID, callerUserID string, req dto.RevealGiftRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.loadOwnGift(ctx, giftID, callerUserID)
	if err != nil {
		return nil, err
	}
	if expense.CoupleData.IsRevealed {
		return nil, fmt.Errorf("%w: gift %s is already revealed", apperrors.ErrInvalidState, giftID)
	}

	now := time.Now()
	expense.CoupleData.IsRevealed = true
	expense.CoupleData.RevealedAt = &now

	if req.RevealNow {
		if err := s.convertToShared(ctx, expense); err != nil {
			return nil, err
		}
	}
	expense.Touch(callerUserID, now)

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to reveal gift: %w", err)
	}
	logger.Info("Gift revealed",
		slog.String("expense_id", giftID),
		slog.Bool("converted_to_shared", req.RevealNow))
	return expense, nil
}

// convertToShared turns a revealed gift into a shared expense, computing the
// split from the account's financial model and contribution settings.
func (s *GiftService) convertToShared(ctx context.Context, expense *domain.Expense) error {
	account, err := s.accountRepo.FindAccountByID(ctx, expense.AccountID)
	if err != nil {
		return err
	}
	partners := account.PartnerIDs()
	if len(partners) != 2 {
		return fmt.Errorf("%w: couple account %s has %d partners, expected 2", apperrors.ErrInvalidState, expense.AccountID, len(partners))
	}

	settings, err := s.settingsRepo.FindByAccountID(ctx, expense.AccountID)
	if err != nil {
		return err
	}

	split, err := settlement.SplitAmount(expense.Amount, settings.FinancialModel, settings.Contribution, partners[0], partners[1])
	if err != nil {
		return fmt.Errorf("failed to split gift amount: %w", err)
	}
	expense.CoupleData.ExpenseType = domain.ExpenseShared
	expense.CoupleData.SplitDetails = &split
	return nil
}

// UpdateGift edits a still-unrevealed gift. Revealed gifts are immutable
// through this path.
func (s *GiftService) UpdateGift(ctx context.Context, giftID, callerUserID string, req dto.UpdateGiftRequest) (*domain.Expense, error) {
	expense, err := s.loadOwnGift(ctx, giftID, callerUserID)
	if err != nil {
		return nil, err
	}
	if expense.CoupleData.IsRevealed {
		return nil, fmt.Errorf("%w: revealed gifts cannot be edited", apperrors.ErrInvalidState)
	}

	now := time.Now()
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.RevealDate != nil {
		if !req.RevealDate.After(now) {
			return nil, fmt.Errorf("%w: reveal date must be in the future", apperrors.ErrValidation)
		}
		d := *req.RevealDate
		expense.CoupleData.RevealDate = &d
	}
	expense.Touch(callerUserID, now)

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to update gift: %w", err)
	}
	return expense, nil
}

// DeleteGift soft-deletes a still-unrevealed gift.
func (s *GiftService) DeleteGift(ctx context.Context, giftID, callerUserID string) error {
	expense, err := s.loadOwnGift(ctx, giftID, callerUserID)
	if err != nil {
		return err
	}
	if expense.CoupleData.IsRevealed {
		return fmt.Errorf("%w: revealed gifts cannot be deleted", apperrors.ErrInvalidState)
	}
	return s.expenseRepo.MarkExpenseDeleted(ctx, giftID, callerUserID, time.Now())
}

// ListMyGifts lists gifts the caller created on the account, revealed or not.
func (s *GiftService) ListMyGifts(ctx context.Context, accountID, callerUserID string) ([]domain.Expense, error) {
	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListGiftsByCreator(ctx, accountID, callerUserID)
}

// ListReceivedGifts lists revealed gifts addressed to the caller. Unrevealed
// gifts never appear here.
func (s *GiftService) ListReceivedGifts(ctx context.Context, accountID, callerUserID string) ([]domain.Expense, error) {
	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListRevealedGiftsForRecipient(ctx, accountID, callerUserID)
}

// SweepGiftReveals reveals and converts every gift whose reveal date has
// passed. Scheduled reveals always convert to shared, unlike manual reveals
// where conversion is the creator's choice. Per-item failures are logged and
// counted without aborting the batch; an already-revealed gift encountered
// mid-sweep is skipped, which makes re-running the sweep harmless.
func (s *GiftService) SweepGiftReveals(ctx context.Context) (dto.SweepSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := dto.SweepSummary{}
	now := time.Now()

	due, err := s.expenseRepo.ListUnrevealedGiftsDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("failed to list due gifts: %w", err)
	}

	for i := range due {
		expense := due[i]
		if expense.CoupleData == nil || expense.CoupleData.IsRevealed {
			continue
		}

		revealedAt := time.Now()
		expense.CoupleData.IsRevealed = true
		expense.CoupleData.RevealedAt = &revealedAt

		if err := s.convertToShared(ctx, &expense); err != nil {
			summary.Errored++
			logger.Error("Gift sweep failed for expense", slog.String("expense_id", expense.ExpenseID), slog.String("error", err.Error()))
			continue
		}
		expense.Touch("gift-sweep", revealedAt)

		if err := s.expenseRepo.UpdateExpense(ctx, expense); err != nil {
			summary.Errored++
			logger.Error("Gift sweep failed for expense", slog.String("expense_id", expense.ExpenseID), slog.String("error", err.Error()))
			continue
		}
		summary.Processed++
	}

	logger.Info("Gift sweep run completed", slog.Int("processed", summary.Processed), slog.Int("errored", summary.Errored))
	if summary.ErrorRate() > s.alertErrorRate {
		logger.Error("Gift sweep error rate above threshold",
			slog.Float64("error_rate", summary.ErrorRate()),
			slog.Float64("threshold", s.alertErrorRate))
	}
	return summary, nil
}
