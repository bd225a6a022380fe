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
	"github.com/tandemfin/couple_finance_app/internal/utils/contextparse"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

// contextAccountTypes maps a parsed routing context to the account type it
// selects among the caller's accounts.
var contextAccountTypes = map[contextparse.Context]domain.AccountType{
	contextparse.ContextPersonal: domain.AccountPersonal,
	contextparse.ContextCouple:   domain.AccountCouple,
	contextparse.ContextFamily:   domain.AccountFamily,
	contextparse.ContextBusiness: domain.AccountBusiness,
}

// ExpenseService handles expense creation with free-text context routing and
// the social operations (comments, reactions) on couple expenses.
type ExpenseService struct {
	expenseRepo  portsrepo.ExpenseRepository
	accountRepo  portsrepo.AccountReader
	settingsRepo portsrepo.CoupleSettingsRepository
	accountSvc   portssvc.AccountAuthorizerSvc
	premiumSvc   portssvc.PremiumSvcFacade
	groups       []contextparse.KeywordGroup
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(er portsrepo.ExpenseRepository, ar portsrepo.AccountReader, sr portsrepo.CoupleSettingsRepository, accountSvc portssvc.AccountAuthorizerSvc, premiumSvc portssvc.PremiumSvcFacade) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  er,
		accountRepo:  ar,
		settingsRepo: sr,
		accountSvc:   accountSvc,
		premiumSvc:   premiumSvc,
		groups:       contextparse.DefaultGroups(),
	}
}

var _ portssvc.ExpenseSvcFacade = (*ExpenseService)(nil)

// ParseContext runs the free-text parser over the default trigger vocabulary.
func (s *ExpenseService) ParseContext(_ context.Context, text string) contextparse.Result {
	return contextparse.Parse(text, s.groups)
}

// routeByContext picks the caller's account matching the parsed context type.
// Ambiguity resolves to the first (most recently listed) active account of
// that type.
func (s *ExpenseService) routeByContext(ctx context.Context, callerUserID string, parsed contextparse.Result) (*domain.Account, error) {
	accountType, ok := contextAccountTypes[parsed.Context]
	if !ok {
		return nil, fmt.Errorf("%w: no account id given and no context trigger found in description", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.ListAccountsByUserID(ctx, callerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for i := range accounts {
		if accounts[i].AccountType == accountType && accounts[i].IsActive {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: you have no active %s account for trigger context '%s'", apperrors.ErrValidation, accountType, parsed.Context)
}

// CreateExpense posts an expense. With no explicit account id the description
// is parsed for a context trigger and the expense routes to the caller's
// matching account; the trigger token is stripped from the stored description.
// On couple accounts the expense carries couple data, defaulting the type from
// the settings and computing a split for shared expenses.
func (s *ExpenseService) CreateExpense(ctx context.Context, callerUserID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	description := req.Description
	var account *domain.Account
	var err error

	if req.AccountID != "" {
		account, err = s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, req.AccountID)
		if err != nil {
			return nil, err
		}
	} else {
		parsed := s.ParseContext(ctx, req.Description)
		account, err = s.routeByContext(ctx, callerUserID, parsed)
		if err != nil {
			return nil, err
		}
		description = parsed.CleanDescription
		logger.Info("Expense routed by context trigger",
			slog.String("context", string(parsed.Context)),
			slog.String("account_id", account.AccountID),
			slog.Float64("confidence", parsed.Confidence))
	}

	date := now
	if req.Date != nil {
		date = *req.Date
	}

	expense := domain.Expense{
		ExpenseID:   uuid.New().String(),
		AccountID:   account.AccountID,
		PaidBy:      callerUserID,
		Description: description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		AuditFields: domain.NewAuditFields(callerUserID, now),
	}

	if account.AccountType == domain.AccountCouple {
		coupleData, err := s.buildCoupleData(ctx, account, req.ExpenseType, req.Amount)
		if err != nil {
			return nil, err
		}
		expense.CoupleData = coupleData
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}
	return &expense, nil
}

// buildCoupleData assembles the couple payload for a new expense: the
// settings' default type when none was requested, plus a split for shared
// expenses.
func (s *ExpenseService) buildCoupleData(ctx context.Context, account *domain.Account, requested *domain.ExpenseType, amount decimal.Decimal) (*domain.CoupleExpenseData, error) {
	settings, err := s.settingsRepo.FindByAccountID(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}

	expenseType := settings.DefaultExpenseType
	if requested != nil {
		expenseType = *requested
	}

	data := &domain.CoupleExpenseData{ExpenseType: expenseType}
	if expenseType != domain.ExpenseShared {
		return data, nil
	}

	partners := account.PartnerIDs()
	if len(partners) != 2 {
		return nil, fmt.Errorf("%w: couple account %s has %d partners, expected 2", apperrors.ErrInvalidState, account.AccountID, len(partners))
	}
	split, err := settlement.SplitAmount(amount, settings.FinancialModel, settings.Contribution, partners[0], partners[1])
	if err != nil {
		return nil, fmt.Errorf("failed to compute split: %w", err)
	}
	data.SplitDetails = &split
	return data, nil
}

// GetExpense retrieves an expense visible to the caller. A gift still
// concealed from the caller reads as not found.
func (s *ExpenseService) GetExpense(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, expense.AccountID); err != nil {
		return nil, err
	}
	if expense.IsHiddenFrom(callerUserID) {
		return nil, apperrors.ErrNotFound
	}
	return expense, nil
}

// loadForSocial loads an expense for a comment/reaction mutation: the caller
// must be a member of the owning couple account and the expense must carry
// couple data. Returns the expense and its account's settings.
func (s *ExpenseService) loadForSocial(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, *domain.CoupleSettings, error) {
	expense, err := s.GetExpense(ctx, expenseID, callerUserID)
	if err != nil {
		return nil, nil, err
	}
	if expense.CoupleData == nil {
		return nil, nil, fmt.Errorf("%w: expense %s does not belong to a couple account", apperrors.ErrInvalidState, expenseID)
	}
	settings, err := s.settingsRepo.FindByAccountID(ctx, expense.AccountID)
	if err != nil {
		return nil, nil, err
	}
	return expense, settings, nil
}

// AddComment appends a comment to a couple expense. Gated by the account's
// allowComments toggle and by the tier's comment quota.
func (s *ExpenseService) AddComment(ctx context.Context, expenseID, callerUserID, text string) (*domain.Expense, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be empty", apperrors.ErrValidation)
	}

	expense, settings, err := s.loadForSocial(ctx, expenseID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !settings.AllowComments {
		return nil, fmt.Errorf("%w: comments are disabled on this account", apperrors.ErrForbidden)
	}

	if err := s.premiumSvc.TrackFeatureUsage(ctx, expense.AccountID, callerUserID,
		string(domain.FeatureUnlimitedComments), len(expense.CoupleData.Comments)); err != nil {
		return nil, err
	}

	now := time.Now()
	expense.CoupleData.Comments = append(expense.CoupleData.Comments, domain.Comment{
		CommentID: uuid.New().String(),
		UserID:    callerUserID,
		Text:      text,
		CreatedAt: now,
	})
	expense.Touch(callerUserID, now)

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return expense, nil
}

// EditComment edits the caller's own comment, marking it as edited. Editing
// someone else's comment is forbidden.
func (s *ExpenseService) EditComment(ctx context.Context, expenseID, commentID, callerUserID, text string) (*domain.Expense, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be empty", apperrors.ErrValidation)
	}

	expense, settings, err := s.loadForSocial(ctx, expenseID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !settings.AllowComments {
		return nil, fmt.Errorf("%w: comments are disabled on this account", apperrors.ErrForbidden)
	}

	found := false
	for i, c := range expense.CoupleData.Comments {
		if c.CommentID != commentID {
			continue
		}
		if c.UserID != callerUserID {
			return nil, fmt.Errorf("%w: only the comment's author may edit it", apperrors.ErrForbidden)
		}
		expense.CoupleData.Comments[i].Text = text
		expense.CoupleData.Comments[i].IsEdited = true
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%w: comment %s", apperrors.ErrNotFound, commentID)
	}
	expense.Touch(callerUserID, time.Now())

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to save comment edit: %w", err)
	}
	return expense, nil
}

// AddReaction sets the caller's reaction on a couple expense, replacing any
// earlier reaction by the same user.
func (s *ExpenseService) AddReaction(ctx context.Context, expenseID, callerUserID string, reactionType string) (*domain.Expense, error) {
	if !domain.ValidReactionType(reactionType) {
		return nil, fmt.Errorf("%w: unknown reaction type '%s'", apperrors.ErrValidation, reactionType)
	}

	expense, settings, err := s.loadForSocial(ctx, expenseID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !settings.AllowReactions {
		return nil, fmt.Errorf("%w: reactions are disabled on this account", apperrors.ErrForbidden)
	}

	now := time.Now()
	expense.CoupleData.SetReaction(callerUserID, domain.ReactionType(reactionType), now)
	expense.Touch(callerUserID, now)

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to save reaction: %w", err)
	}
	return expense, nil
}

// RemoveReaction drops the caller's reaction, if present.
func (s *ExpenseService) RemoveReaction(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error) {
	expense, _, err := s.loadForSocial(ctx, expenseID, callerUserID)
	if err != nil {
		return nil, err
	}
	if !expense.CoupleData.RemoveReaction(callerUserID) {
		return nil, fmt.Errorf("%w: you have no reaction on this expense", apperrors.ErrNotFound)
	}
	expense.Touch(callerUserID, time.Now())

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", err)
	}
	return expense, nil
}
