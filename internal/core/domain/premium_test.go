package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

func TestTierForPartners(t *testing.T) {
	tests := []struct {
		name     string
		partner1 bool
		partner2 bool
		want     domain.PremiumTier
	}{
		{name: "neither premium", partner1: false, partner2: false, want: domain.TierBasic},
		{name: "only partner1 premium", partner1: true, partner2: false, want: domain.TierOnePremium},
		{name: "only partner2 premium", partner1: false, partner2: true, want: domain.TierOnePremium},
		{name: "both premium", partner1: true, partner2: true, want: domain.TierBothPremium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.TierForPartners(tt.partner1, tt.partner2)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A higher tier's bundle must be a superset of every lower tier's enabled
// features.
func TestFeatureBundle_Monotonicity(t *testing.T) {
	order := []domain.PremiumTier{domain.TierBasic, domain.TierOnePremium, domain.TierBothPremium}

	for i := 1; i < len(order); i++ {
		lower := domain.FeatureBundle(order[i-1])
		higher := domain.FeatureBundle(order[i])
		for _, name := range domain.AllFeatureNames {
			if lower.Enabled(name) {
				assert.True(t, higher.Enabled(name),
					"feature %s enabled at %s but not at %s", name, order[i-1], order[i])
			}
		}
	}
}

func TestFeatureBundle_Contents(t *testing.T) {
	basic := domain.FeatureBundle(domain.TierBasic)
	for _, name := range domain.AllFeatureNames {
		assert.False(t, basic.Enabled(name), "basic tier should enable nothing, got %s", name)
	}

	one := domain.FeatureBundle(domain.TierOnePremium)
	assert.True(t, one.HasUnlimitedComments)
	assert.True(t, one.HasCustomCategories)
	assert.False(t, one.HasSharedGoals)
	assert.False(t, one.HasAdvancedAnalytics)

	both := domain.FeatureBundle(domain.TierBothPremium)
	for _, name := range domain.AllFeatureNames {
		assert.True(t, both.Enabled(name), "both_premium tier should enable %s", name)
	}
}

func TestRequiredTier(t *testing.T) {
	tier, ok := domain.RequiredTier(domain.FeatureUnlimitedComments)
	assert.True(t, ok)
	assert.Equal(t, domain.TierOnePremium, tier)

	tier, ok = domain.RequiredTier(domain.FeatureSharedGoals)
	assert.True(t, ok)
	assert.Equal(t, domain.TierBothPremium, tier)

	_, ok = domain.RequiredTier(domain.FeatureName("noSuchFeature"))
	assert.False(t, ok)
}

func TestPremiumTier_AtLeast(t *testing.T) {
	assert.True(t, domain.TierBothPremium.AtLeast(domain.TierOnePremium))
	assert.True(t, domain.TierOnePremium.AtLeast(domain.TierOnePremium))
	assert.False(t, domain.TierBasic.AtLeast(domain.TierOnePremium))
}
