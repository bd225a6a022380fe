package dto

import "github.com/tandemfin/couple_finance_app/internal/core/domain"

// PremiumStatusResponse reports the derived tier and feature availability for
// a couple account. The feature-specific fields are populated only when a
// feature name was queried.
type PremiumStatusResponse struct {
	AccountID      string             `json:"accountID"`
	Tier           domain.PremiumTier `json:"tier"`
	Features       domain.FeatureSet  `json:"features"`
	Feature        string             `json:"feature,omitempty"`
	FeatureEnabled *bool              `json:"featureEnabled,omitempty"`
	RequiredTier   domain.PremiumTier `json:"requiredTier,omitempty"`
}

// FeatureUsageRequest reports a usage count against a quota-limited feature.
type FeatureUsageRequest struct {
	Feature      string `json:"feature" binding:"required"`
	CurrentCount int    `json:"currentCount" binding:"min=0"`
}

// RefreshSummary reports the outcome of one premium-tier refresh run.
type RefreshSummary struct {
	Processed int `json:"processed"`
	Errored   int `json:"errored"`
}

// ErrorRate returns the fraction of failed items, 0 when nothing ran.
func (s RefreshSummary) ErrorRate() float64 {
	total := s.Processed + s.Errored
	if total == 0 {
		return 0
	}
	return float64(s.Errored) / float64(total)
}
