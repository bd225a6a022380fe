package repositories

import (
	"context"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// CoupleSettingsReader defines read operations for couple settings.
type CoupleSettingsReader interface {
	// FindByAccountID retrieves the settings document for a couple account,
	// including its audit history.
	FindByAccountID(ctx context.Context, accountID string) (*domain.CoupleSettings, error)
}

// CoupleSettingsWriter defines write operations for couple settings.
//
// Writes to a single settings document must be serialized per account:
// UpdateCoupleSettings performs a version-checked update and returns
// apperrors.ErrConflict when the stored version no longer matches
// settings.Version, so concurrent writers cannot lose history appends.
type CoupleSettingsWriter interface {
	// SaveCoupleSettings persists a new settings document. At most one may
	// exist per account; a second insert fails with apperrors.ErrDuplicate.
	SaveCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error

	// UpdateCoupleSettings overwrites the settings document if the stored
	// version matches settings.Version, incrementing it.
	UpdateCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error
}

// CoupleSettingsRepository combines all couple-settings repository interfaces.
type CoupleSettingsRepository interface {
	CoupleSettingsReader
	CoupleSettingsWriter
}
