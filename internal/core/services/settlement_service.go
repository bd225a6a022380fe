package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

// SettlementService computes the couple stats/settlement view: expense
// totals, expected and actual contributions under the account's financial
// model, and the outstanding balance between the partners.
type SettlementService struct {
	expenseRepo  portsrepo.ExpenseReader
	settingsRepo portsrepo.CoupleSettingsRepository
	accountSvc   portssvc.AccountAuthorizerSvc
	tolerance    decimal.Decimal
}

// NewSettlementService creates a new SettlementService. tolerance is the
// balance threshold under which the couple is reported as settled.
func NewSettlementService(er portsrepo.ExpenseReader, sr portsrepo.CoupleSettingsRepository, accountSvc portssvc.AccountAuthorizerSvc, tolerance decimal.Decimal) *SettlementService {
	return &SettlementService{
		expenseRepo:  er,
		settingsRepo: sr,
		accountSvc:   accountSvc,
		tolerance:    tolerance,
	}
}

var _ portssvc.SettlementSvcFacade = (*SettlementService)(nil)

// GetCoupleStats computes the settlement view from the caller's perspective
// over the optional date range. Missing couple settings or an unresolvable
// partner pair fail the request outright; this endpoint never papers over a
// broken configuration with zeroed numbers.
//
// Gifts still concealed from the caller are excluded from every total so the
// recipient cannot infer their amounts; only their count is reported.
func (s *SettlementService) GetCoupleStats(ctx context.Context, accountID, callerUserID string, from, to *time.Time) (*dto.CoupleStatsResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID)
	if err != nil {
		return nil, err
	}
	self, partner, err := s.accountSvc.ResolvePartners(ctx, account, callerUserID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("couple settings unavailable for account %s: %w", accountID, err)
	}
	if err := settings.ValidateModel(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}

	expenses, err := s.expenseRepo.ListExpensesByAccount(ctx, accountID, portsrepo.ExpenseFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	totals, selfActual, partnerActual := s.aggregate(expenses, settings.FinancialModel, self, partner)

	exp, err := settlement.ExpectedContributions(settings.FinancialModel, totals, self, settings.Contribution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}

	result := settlement.Settle(exp, selfActual, partnerActual, totals.TotalShared, s.tolerance)

	hidden, err := s.expenseRepo.CountHiddenGiftsFor(ctx, accountID, callerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count hidden gifts: %w", err)
	}

	logger.Debug("Couple stats computed",
		slog.String("account_id", accountID),
		slog.String("who_owes", string(result.WhoOwes)))

	return &dto.CoupleStatsResult{
		AccountID:              accountID,
		FinancialModel:         string(settings.FinancialModel),
		TotalShared:            totals.TotalShared,
		TotalSelfPersonal:      totals.SelfPersonal,
		TotalPartnerPersonal:   totals.PartnerPersonal,
		SelfExpected:           exp.SelfExpected,
		PartnerExpected:        exp.PartnerExpected,
		SelfActualPaid:         selfActual,
		PartnerActualPaid:      partnerActual,
		SelfContributionPct:    result.SelfContributionPct,
		PartnerContributionPct: result.PartnerContributionPct,
		CurrentBalance:         result.CurrentBalance,
		WhoOwes:                result.WhoOwes,
		RecommendedTransfer:    result.RecommendedTransfer,
		HiddenGiftsCount:       hidden,
		From:                   from,
		To:                     to,
	}, nil
}

// aggregate sums the expense amounts into period totals and per-partner
// actuals. What counts as "actually paid toward the arrangement" depends on
// the financial model: shared-only for FIFTY_FIFTY and PROPORTIONAL_INCOME,
// shared plus own personal for MIXED, and everything for EVERYTHING_COMMON.
func (s *SettlementService) aggregate(expenses []domain.Expense, model domain.FinancialModel, self, partner string) (settlement.Totals, decimal.Decimal, decimal.Decimal) {
	var totals settlement.Totals
	selfActual := decimal.Zero
	partnerActual := decimal.Zero

	for _, e := range expenses {
		if e.IsHiddenFrom(self) {
			continue
		}

		expenseType := domain.ExpenseShared
		if e.CoupleData != nil {
			expenseType = e.CoupleData.ExpenseType
		}

		switch expenseType {
		case domain.ExpenseShared:
			totals.TotalShared = totals.TotalShared.Add(e.Amount)
		case domain.ExpensePersonal:
			switch e.PaidBy {
			case self:
				totals.SelfPersonal = totals.SelfPersonal.Add(e.Amount)
			case partner:
				totals.PartnerPersonal = totals.PartnerPersonal.Add(e.Amount)
			}
		}

		counts := false
		switch model {
		case domain.EverythingCommon:
			counts = true
		case domain.Mixed:
			counts = expenseType == domain.ExpenseShared ||
				(expenseType == domain.ExpensePersonal && (e.PaidBy == self || e.PaidBy == partner))
		default: // FIFTY_FIFTY, PROPORTIONAL_INCOME
			counts = expenseType == domain.ExpenseShared
		}
		if !counts {
			continue
		}

		switch e.PaidBy {
		case self:
			selfActual = selfActual.Add(e.Amount)
		case partner:
			partnerActual = partnerActual.Add(e.Amount)
		}
	}

	return totals, selfActual, partnerActual
}
