package domain

// PremiumTier is the derived capability level of a couple account, computed
// from the two partners' individual premium subscription flags.
type PremiumTier string

const (
	TierBasic       PremiumTier = "basic"
	TierOnePremium  PremiumTier = "one_premium"
	TierBothPremium PremiumTier = "both_premium"
)

// tierRank orders tiers: basic < one_premium < both_premium.
var tierRank = map[PremiumTier]int{
	TierBasic:       0,
	TierOnePremium:  1,
	TierBothPremium: 2,
}

// AtLeast reports whether t is the same tier as other or a higher one.
func (t PremiumTier) AtLeast(other PremiumTier) bool {
	return tierRank[t] >= tierRank[other]
}

// FeatureName identifies one of the gated couple features.
type FeatureName string

const (
	FeatureSharedGoals         FeatureName = "sharedGoals"
	FeatureDetailedComparisons FeatureName = "detailedComparisons"
	FeatureJointEvolutionPanel FeatureName = "jointEvolutionPanel"
	FeatureDownloadableReports FeatureName = "downloadableReports"
	FeatureAdvancedAnalytics   FeatureName = "advancedAnalytics"
	FeatureUnlimitedComments   FeatureName = "unlimitedComments"
	FeatureCustomCategories    FeatureName = "customCategories"
)

// AllFeatureNames lists every gated feature, in declaration order.
var AllFeatureNames = []FeatureName{
	FeatureSharedGoals,
	FeatureDetailedComparisons,
	FeatureJointEvolutionPanel,
	FeatureDownloadableReports,
	FeatureAdvancedAnalytics,
	FeatureUnlimitedComments,
	FeatureCustomCategories,
}

// FeatureSet is the bundle of feature flags derived for a tier. These are
// overwritten wholesale on tier recompute, never edited per-flag by users.
type FeatureSet struct {
	HasSharedGoals         bool `json:"hasSharedGoals"`
	HasDetailedComparisons bool `json:"hasDetailedComparisons"`
	HasJointEvolutionPanel bool `json:"hasJointEvolutionPanel"`
	HasDownloadableReports bool `json:"hasDownloadableReports"`
	HasAdvancedAnalytics   bool `json:"hasAdvancedAnalytics"`
	HasUnlimitedComments   bool `json:"hasUnlimitedComments"`
	HasCustomCategories    bool `json:"hasCustomCategories"`
}

// Enabled reports whether the named feature is on in this set.
func (f FeatureSet) Enabled(name FeatureName) bool {
	switch name {
	case FeatureSharedGoals:
		return f.HasSharedGoals
	case FeatureDetailedComparisons:
		return f.HasDetailedComparisons
	case FeatureJointEvolutionPanel:
		return f.HasJointEvolutionPanel
	case FeatureDownloadableReports:
		return f.HasDownloadableReports
	case FeatureAdvancedAnalytics:
		return f.HasAdvancedAnalytics
	case FeatureUnlimitedComments:
		return f.HasUnlimitedComments
	case FeatureCustomCategories:
		return f.HasCustomCategories
	}
	return false
}

// featureBundles is the static tier → feature lookup table.
var featureBundles = map[PremiumTier]FeatureSet{
	TierBasic: {},
	TierOnePremium: {
		HasUnlimitedComments: true,
		HasCustomCategories:  true,
	},
	TierBothPremium: {
		HasSharedGoals:         true,
		HasDetailedComparisons: true,
		HasJointEvolutionPanel: true,
		HasDownloadableReports: true,
		HasAdvancedAnalytics:   true,
		HasUnlimitedComments:   true,
		HasCustomCategories:    true,
	},
}

// TierForPartners derives the couple's tier from the two partners'
// independent premium flags.
func TierForPartners(partner1HasPremium, partner2HasPremium bool) PremiumTier {
	switch {
	case partner1HasPremium && partner2HasPremium:
		return TierBothPremium
	case partner1HasPremium || partner2HasPremium:
		return TierOnePremium
	default:
		return TierBasic
	}
}

// FeatureBundle returns the feature flags for a tier. Unknown tiers map to
// the basic bundle.
func FeatureBundle(tier PremiumTier) FeatureSet {
	return featureBundles[tier]
}

// RequiredTier returns the lowest tier at which the named feature first
// becomes enabled. The second return is false for features no tier enables
// (i.e. an unknown name).
func RequiredTier(name FeatureName) (PremiumTier, bool) {
	for _, tier := range []PremiumTier{TierBasic, TierOnePremium, TierBothPremium} {
		if featureBundles[tier].Enabled(name) {
			return tier, true
		}
	}
	return "", false
}
