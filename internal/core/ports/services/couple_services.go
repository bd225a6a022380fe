package services

import (
	"context"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/dto"
)

// CoupleSettingsSvcFacade owns the couple settings aggregate: validation
// before mutation, audit history appends and the invitation lifecycle.
type CoupleSettingsSvcFacade interface {
	// GetSettings retrieves the couple settings for an account. The caller
	// must be a member of the account.
	GetSettings(ctx context.Context, accountID, callerUserID string) (*domain.CoupleSettings, error)

	// UpdateSettings validates and applies a settings update, appending audit
	// entries for every tracked field that changed. Rejects switching to
	// PROPORTIONAL_INCOME without percentages summing to 100.
	UpdateSettings(ctx context.Context, accountID, callerUserID string, req dto.UpdateCoupleSettingsRequest) (*domain.CoupleSettings, error)

	// AcceptInvitation records the caller's acceptance. A second distinct
	// acceptor flips BothPartnersAccepted and triggers a premium recompute.
	AcceptInvitation(ctx context.Context, accountID, callerUserID string) (*domain.CoupleSettings, error)
}

// SettlementSvcFacade exposes the settlement/stats query.
type SettlementSvcFacade interface {
	// GetCoupleStats computes totals, expected/actual contributions, the
	// outstanding balance and the who-owes decision for the caller's couple
	// account over the optional date range. Fails fast when couple settings
	// or partner resolution are missing rather than returning zeroed numbers.
	GetCoupleStats(ctx context.Context, accountID, callerUserID string, from, to *time.Time) (*dto.CoupleStatsResult, error)
}

// GiftSvcFacade governs the concealed-gift lifecycle.
type GiftSvcFacade interface {
	// CreateGift conceals a personal expense as a gift for the other partner
	// until its reveal date. Requires gift mode enabled and a future reveal
	// date.
	CreateGift(ctx context.Context, callerUserID string, req dto.CreateGiftRequest) (*domain.Expense, error)

	// RevealGift reveals a gift ahead of schedule. Creator only. When
	// req.RevealNow is set the gift also converts to a shared expense with a
	// computed split.
	RevealGift(ctx context.Context, giftID, callerUserID string, req dto.RevealGiftRequest) (*domain.Expense, error)

	// UpdateGift edits an unrevealed gift. Creator only; a new reveal date
	// must be in the future.
	UpdateGift(ctx context.Context, giftID, callerUserID string, req dto.UpdateGiftRequest) (*domain.Expense, error)

	// DeleteGift soft-deletes an unrevealed gift. Creator only.
	DeleteGift(ctx context.Context, giftID, callerUserID string) error

	// ListMyGifts lists gifts the caller created on the account.
	ListMyGifts(ctx context.Context, accountID, callerUserID string) ([]domain.Expense, error)

	// ListReceivedGifts lists revealed gifts addressed to the caller.
	ListReceivedGifts(ctx context.Context, accountID, callerUserID string) ([]domain.Expense, error)

	// SweepGiftReveals reveals and converts every gift whose reveal date has
	// passed. Per-item failures are isolated and counted, never aborting the
	// batch.
	SweepGiftReveals(ctx context.Context) (dto.SweepSummary, error)
}

// PremiumSvcFacade derives and serves the couple premium tier.
type PremiumSvcFacade interface {
	// GetPremiumStatus reports the account's tier and features; when
	// featureName is non-empty the response also carries that feature's
	// availability and required tier.
	GetPremiumStatus(ctx context.Context, accountID, callerUserID, featureName string) (*dto.PremiumStatusResponse, error)

	// RecomputeForAccount re-derives and persists the tier flags for one
	// couple account.
	RecomputeForAccount(ctx context.Context, accountID string) error

	// RefreshAllPremiumTiers re-derives tiers for every active couple
	// account. Per-item failures are isolated and counted.
	RefreshAllPremiumTiers(ctx context.Context) (dto.RefreshSummary, error)

	// TrackFeatureUsage enforces the soft usage caps of intermediate tiers.
	// Returns apperrors.ErrForbidden once the quota is exhausted.
	TrackFeatureUsage(ctx context.Context, accountID, callerUserID string, feature string, currentCount int) error
}
