package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
	"github.com/tandemfin/couple_finance_app/internal/utils"
)

// CoupleSettingsService owns the couple settings aggregate: it validates
// every mutation, maintains the append-only audit history and drives the
// invitation acceptance lifecycle.
type CoupleSettingsService struct {
	settingsRepo portsrepo.CoupleSettingsRepository
	accountSvc   portssvc.AccountAuthorizerSvc
	premiumSvc   portssvc.PremiumSvcFacade
}

// NewCoupleSettingsService creates a new CoupleSettingsService.
func NewCoupleSettingsService(sr portsrepo.CoupleSettingsRepository, as portssvc.AccountAuthorizerSvc, ps portssvc.PremiumSvcFacade) portssvc.CoupleSettingsSvcFacade {
	return &CoupleSettingsService{
		settingsRepo: sr,
		accountSvc:   as,
		premiumSvc:   ps,
	}
}

var _ portssvc.CoupleSettingsSvcFacade = (*CoupleSettingsService)(nil)

// GetSettings retrieves the couple settings for an account the caller
// belongs to.
func (s *CoupleSettingsService) GetSettings(ctx context.Context, accountID, callerUserID string) (*domain.CoupleSettings, error) {
	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID); err != nil {
		return nil, err
	}
	return s.loadSettings(ctx, accountID)
}

// UpdateSettings validates and applies a settings update. Every tracked field
// that changes appends an audit entry; contribution-settings changes append
// their own entry regardless of other fields. The write is version-checked;
// a single conflicting concurrent writer is absorbed by one reload-and-retry.
func (s *CoupleSettingsService) UpdateSettings(ctx context.Context, accountID, callerUserID string, req dto.UpdateCoupleSettingsRequest) (*domain.CoupleSettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID); err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated, err := s.applyUpdate(settings, callerUserID, req, time.Now())
	if err != nil {
		return nil, err
	}

	err = s.settingsRepo.UpdateCoupleSettings(ctx, *updated)
	if errors.Is(err, apperrors.ErrConflict) {
		// A concurrent writer got in first; reload and reapply once.
		logger.Warn("Version conflict updating couple settings, retrying once", slog.String("account_id", accountID))
		settings, err = s.loadSettings(ctx, accountID)
		if err != nil {
			return nil, err
		}
		updated, err = s.applyUpdate(settings, callerUserID, req, time.Now())
		if err != nil {
			return nil, err
		}
		err = s.settingsRepo.UpdateCoupleSettings(ctx, *updated)
	}
	if err != nil {
		logger.Error("Failed to update couple settings", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update couple settings: %w", err)
	}

	logger.Info("Couple settings updated", slog.String("account_id", accountID), slog.Int("history_entries", len(updated.SettingsHistory)))
	updated.Version++
	return updated, nil
}

// applyUpdate builds the mutated aggregate from the request, enforcing the
// financial model invariant and recording audit history.
func (s *CoupleSettingsService) applyUpdate(current *domain.CoupleSettings, callerUserID string, req dto.UpdateCoupleSettingsRequest, now time.Time) (*domain.CoupleSettings, error) {
	updated := *current
	// History is append-only: copy the slice so the retry path never mutates
	// the loaded aggregate in place.
	updated.SettingsHistory = append([]domain.SettingsHistoryEntry(nil), current.SettingsHistory...)

	if req.Contribution != nil {
		contribution := req.Contribution.ToContributionSettings(callerUserID, now)
		if err := contribution.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		updated.Contribution = &contribution
		updated.AppendHistory("contributionSettings",
			describeContribution(current.Contribution),
			describeContribution(&contribution),
			callerUserID, req.Reason, now)
	}

	if req.FinancialModel != nil {
		if !domain.ValidFinancialModel(*req.FinancialModel) {
			return nil, fmt.Errorf("%w: unknown financial model '%s'", apperrors.ErrValidation, *req.FinancialModel)
		}
		newModel := domain.FinancialModel(*req.FinancialModel)
		if newModel != current.FinancialModel {
			updated.FinancialModel = newModel
			updated.AppendHistory("financialModel", string(current.FinancialModel), string(newModel), callerUserID, req.Reason, now)
		}
	}

	if req.DefaultExpenseType != nil {
		newType := domain.ExpenseType(*req.DefaultExpenseType)
		if newType != current.DefaultExpenseType {
			updated.DefaultExpenseType = newType
			updated.AppendHistory("defaultExpenseType", string(current.DefaultExpenseType), string(newType), callerUserID, req.Reason, now)
		}
	}

	applyToggle(&updated, "allowComments", &updated.AllowComments, req.AllowComments, callerUserID, req.Reason, now)
	applyToggle(&updated, "allowReactions", &updated.AllowReactions, req.AllowReactions, callerUserID, req.Reason, now)
	applyToggle(&updated, "giftModeEnabled", &updated.GiftModeEnabled, req.GiftModeEnabled, callerUserID, req.Reason, now)
	if req.ShowContributionStats != nil {
		updated.ShowContributionStats = *req.ShowContributionStats
	}
	if req.EnableCrossReminders != nil {
		updated.EnableCrossReminders = *req.EnableCrossReminders
	}
	if req.SharedGoalsEnabled != nil {
		updated.SharedGoalsEnabled = *req.SharedGoalsEnabled
	}

	// The aggregate invariant: a proportional model must always carry valid
	// percentages, whichever of the two fields this update touched.
	if err := updated.ValidateModel(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	updated.Touch(callerUserID, now)
	return &updated, nil
}

// applyToggle applies an optional boolean change, appending an audit entry
// for tracked toggles when the value actually flips.
func applyToggle(settings *domain.CoupleSettings, name string, field *bool, newValue *bool, changedBy, reason string, now time.Time) {
	if newValue == nil || *field == *newValue {
		return
	}
	oldValue := *field
	*field = *newValue
	settings.AppendHistory(name, strconv.FormatBool(oldValue), strconv.FormatBool(*newValue), changedBy, reason, now)
}

// describeContribution renders a contribution split for the audit log.
func describeContribution(c *domain.ContributionSettings) string {
	if c == nil {
		return "unset"
	}
	return fmt.Sprintf("%s/%s",
		utils.FormatWithPrecision(c.Partner1ContributionPercentage, 2),
		utils.FormatWithPrecision(c.Partner2ContributionPercentage, 2))
}

// AcceptInvitation records the caller's acceptance of the couple invitation.
// The first acceptance records acceptor and timestamp; a second, distinct
// acceptor flips BothPartnersAccepted and triggers a premium recompute.
func (s *CoupleSettingsService) AcceptInvitation(ctx context.Context, accountID, callerUserID string) (*domain.CoupleSettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.AuthorizeMemberAction(ctx, callerUserID, accountID); err != nil {
		return nil, err
	}

	settings, err := s.loadSettings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch {
	case settings.InvitationAcceptedBy == "":
		settings.InvitationAcceptedBy = callerUserID
		settings.InvitationAcceptedAt = &now
	case settings.InvitationAcceptedBy != callerUserID && !settings.BothPartnersAccepted:
		settings.BothPartnersAccepted = true
	default:
		// Same user accepting again, or both already accepted: nothing to do.
		return settings, nil
	}
	settings.Touch(callerUserID, now)

	if err := s.settingsRepo.UpdateCoupleSettings(ctx, *settings); err != nil {
		logger.Error("Failed to record invitation acceptance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to record invitation acceptance: %w", err)
	}
	settings.Version++

	if settings.BothPartnersAccepted {
		// Both partners are now in: derive the couple's premium tier right
		// away instead of waiting for the nightly refresh.
		if err := s.premiumSvc.RecomputeForAccount(ctx, accountID); err != nil {
			logger.Error("Premium recompute after acceptance failed", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
	}

	logger.Info("Invitation acceptance recorded", slog.String("account_id", accountID), slog.Bool("both_accepted", settings.BothPartnersAccepted))
	return settings, nil
}

func (s *CoupleSettingsService) loadSettings(ctx context.Context, accountID string) (*domain.CoupleSettings, error) {
	settings, err := s.settingsRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: couple settings for account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to load couple settings: %w", err)
	}
	return settings, nil
}
