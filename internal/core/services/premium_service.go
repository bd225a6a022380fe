package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
)

// PremiumQuotas are the soft usage caps applied below the both_premium tier.
// These are configuration, not business law: they come from the environment
// and can be tuned without a release.
type PremiumQuotas struct {
	BasicComments      int
	OnePremiumComments int
	OnePremiumGoals    int
}

// alertErrorRate is the per-run failure fraction above which the refresh
// batch logs an elevated alert.
const defaultAlertErrorRate = 0.10

// PremiumService derives the couple premium tier from the two partners'
// individual subscription flags and keeps the persisted feature flags in
// sync with it.
type PremiumService struct {
	settingsRepo   portsrepo.CoupleSettingsRepository
	accountRepo    portsrepo.AccountRepository
	userRepo       portsrepo.UserReader
	quotas         PremiumQuotas
	alertErrorRate float64
}

// NewPremiumService creates a new PremiumService.
func NewPremiumService(sr portsrepo.CoupleSettingsRepository, ar portsrepo.AccountRepository, ur portsrepo.UserReader, quotas PremiumQuotas) *PremiumService {
	return &PremiumService{
		settingsRepo:   sr,
		accountRepo:    ar,
		userRepo:       ur,
		quotas:         quotas,
		alertErrorRate: defaultAlertErrorRate,
	}
}

var _ portssvc.PremiumSvcFacade = (*PremiumService)(nil)

// tierForAccount resolves the account's partners and derives the tier from
// their premium flags. Partner slots that are still empty (invitation
// pending) count as non-premium.
func (s *PremiumService) tierForAccount(ctx context.Context, account *domain.Account) (domain.PremiumTier, error) {
	partners := account.PartnerIDs()
	if len(partners) == 0 || len(partners) > 2 {
		return "", fmt.Errorf("%w: couple account %s has %d partners, expected 2", apperrors.ErrInvalidState, account.AccountID, len(partners))
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, partners)
	if err != nil {
		return "", fmt.Errorf("failed to resolve partners: %w", err)
	}

	var flags [2]bool
	for i, id := range partners {
		u, ok := users[id]
		if !ok {
			return "", fmt.Errorf("%w: partner user %s", apperrors.ErrNotFound, id)
		}
		flags[i] = u.HasPremium
	}
	return domain.TierForPartners(flags[0], flags[1]), nil
}

// GetPremiumStatus reports the account's derived tier and feature bundle.
// When featureName is non-empty the response additionally carries that
// feature's availability and the lowest tier that enables it.
func (s *PremiumService) GetPremiumStatus(ctx context.Context, accountID, callerUserID, featureName string) (*dto.PremiumStatusResponse, error) {
	account, err := s.authorizeMember(ctx, callerUserID, accountID)
	if err != nil {
		return nil, err
	}

	tier, err := s.tierForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	res := &dto.PremiumStatusResponse{
		AccountID: accountID,
		Tier:      tier,
		Features:  domain.FeatureBundle(tier),
	}

	if featureName != "" {
		name := domain.FeatureName(featureName)
		required, known := domain.RequiredTier(name)
		if !known {
			return nil, fmt.Errorf("%w: unknown feature '%s'", apperrors.ErrValidation, featureName)
		}
		enabled := res.Features.Enabled(name)
		res.Feature = featureName
		res.FeatureEnabled = &enabled
		res.RequiredTier = required
	}

	return res, nil
}

// RecomputeForAccount re-derives the tier for one couple account and persists
// the resulting feature flags on its settings document.
func (s *PremiumService) RecomputeForAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.AccountType != domain.AccountCouple {
		return fmt.Errorf("%w: account %s is not a couple account", apperrors.ErrInvalidState, accountID)
	}

	tier, err := s.tierForAccount(ctx, account)
	if err != nil {
		return err
	}
	bundle := domain.FeatureBundle(tier)

	// Version-checked write with one retry; the refresh must not clobber a
	// concurrent settings update.
	for attempt := 0; attempt < 2; attempt++ {
		settings, err := s.settingsRepo.FindByAccountID(ctx, accountID)
		if err != nil {
			return err
		}
		if settings.Features == bundle {
			return nil // already in sync
		}
		settings.Features = bundle
		settings.Touch("premium-refresh", time.Now())

		err = s.settingsRepo.UpdateCoupleSettings(ctx, *settings)
		if err == nil {
			logger.Info("Premium features recomputed", slog.String("account_id", accountID), slog.String("tier", string(tier)))
			return nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("failed to persist premium features: %w", err)
		}
	}
	return fmt.Errorf("%w: persisting premium features for account %s", apperrors.ErrConflict, accountID)
}

// RefreshAllPremiumTiers re-derives the tier of every active couple account.
// Per-account failures are logged with the account id and counted; they never
// abort the batch. An elevated alert is logged when the failure rate of the
// run exceeds the threshold.
func (s *PremiumService) RefreshAllPremiumTiers(ctx context.Context) (dto.RefreshSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := dto.RefreshSummary{}

	accountIDs, err := s.accountRepo.ListActiveCoupleAccountIDs(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list couple accounts: %w", err)
	}

	for _, accountID := range accountIDs {
		if err := s.RecomputeForAccount(ctx, accountID); err != nil {
			summary.Errored++
			logger.Error("Premium refresh failed for account", slog.String("account_id", accountID), slog.String("error", err.Error()))
			continue
		}
		summary.Processed++
	}

	logger.Info("Premium refresh run completed", slog.Int("processed", summary.Processed), slog.Int("errored", summary.Errored))
	if summary.ErrorRate() > s.alertErrorRate {
		logger.Error("Premium refresh error rate above threshold",
			slog.Float64("error_rate", summary.ErrorRate()),
			slog.Float64("threshold", s.alertErrorRate))
	}
	return summary, nil
}

// trackableQuota returns the usage cap for a feature at a tier. The second
// return is false when usage is unlimited at that tier.
func (s *PremiumService) trackableQuota(tier domain.PremiumTier, feature domain.FeatureName) (int, bool) {
	if tier == domain.TierBothPremium {
		return 0, false
	}
	switch feature {
	case domain.FeatureUnlimitedComments:
		if tier == domain.TierOnePremium {
			return s.quotas.OnePremiumComments, true
		}
		return s.quotas.BasicComments, true
	case domain.FeatureSharedGoals:
		if tier == domain.TierOnePremium {
			return s.quotas.OnePremiumGoals, true
		}
		return 0, true
	}
	return 0, false
}

// TrackFeatureUsage enforces the soft usage caps of tiers below both_premium.
// currentCount is the caller's usage so far; the call fails with
// apperrors.ErrForbidden once the quota is exhausted.
func (s *PremiumService) TrackFeatureUsage(ctx context.Context, accountID, callerUserID string, feature string, currentCount int) error {
	account, err := s.authorizeMember(ctx, callerUserID, accountID)
	if err != nil {
		return err
	}

	name := domain.FeatureName(feature)
	if _, known := domain.RequiredTier(name); !known {
		return fmt.Errorf("%w: unknown feature '%s'", apperrors.ErrValidation, feature)
	}

	tier, err := s.tierForAccount(ctx, account)
	if err != nil {
		return err
	}

	quota, limited := s.trackableQuota(tier, name)
	if !limited {
		return nil
	}
	if currentCount >= quota {
		return fmt.Errorf("%w: %s quota of %d reached for tier %s", apperrors.ErrForbidden, feature, quota, tier)
	}
	return nil
}

// authorizeMember checks account membership without depending on the account
// service (which would make the service wiring circular).
func (s *PremiumService) authorizeMember(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
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
	return nil, apperrors.ErrNotFound
}
