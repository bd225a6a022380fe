package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FinancialModel determines which contribution formula applies to a couple
// account's shared expenses.
type FinancialModel string

const (
	FiftyFifty         FinancialModel = "FIFTY_FIFTY"
	ProportionalIncome FinancialModel = "PROPORTIONAL_INCOME"
	EverythingCommon   FinancialModel = "EVERYTHING_COMMON"
	Mixed              FinancialModel = "MIXED"
)

// ValidFinancialModel reports whether s names a known financial model.
func ValidFinancialModel(s string) bool {
	switch FinancialModel(s) {
	case FiftyFifty, ProportionalIncome, EverythingCommon, Mixed:
		return true
	}
	return false
}

// percentageSumTolerance is the allowed drift when checking that the two
// contribution percentages add up to 100.
var percentageSumTolerance = decimal.NewFromFloat(0.01)

// ContributionSettings holds the per-partner contribution split used by the
// PROPORTIONAL_INCOME model. Partner references are weak foreign keys.
type ContributionSettings struct {
	Partner1UserID                 string           `json:"partner1UserID"`
	Partner2UserID                 string           `json:"partner2UserID"`
	Partner1ContributionPercentage decimal.Decimal  `json:"partner1ContributionPercentage"`
	Partner2ContributionPercentage decimal.Decimal  `json:"partner2ContributionPercentage"`
	Partner1MonthlyIncome          *decimal.Decimal `json:"partner1MonthlyIncome,omitempty"`
	Partner2MonthlyIncome          *decimal.Decimal `json:"partner2MonthlyIncome,omitempty"`
	AutoCalculateFromIncome        bool             `json:"autoCalculateFromIncome"`
	LastUpdatedAt                  time.Time        `json:"lastUpdatedAt"`
	UpdatedBy                      string           `json:"updatedBy"` // UserID Reference
}

// Validate checks the structural invariants of the contribution settings:
// two distinct partners and percentages summing to 100 (±0.01).
func (cs ContributionSettings) Validate() error {
	if cs.Partner1UserID == "" || cs.Partner2UserID == "" {
		return fmt.Errorf("both partner user IDs are required")
	}
	if cs.Partner1UserID == cs.Partner2UserID {
		return fmt.Errorf("partner user IDs must differ")
	}
	sum := cs.Partner1ContributionPercentage.Add(cs.Partner2ContributionPercentage)
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(percentageSumTolerance) {
		return fmt.Errorf("contribution percentages must sum to 100, got %s", sum.String())
	}
	return nil
}

// PercentageFor returns the contribution percentage configured for userID.
func (cs ContributionSettings) PercentageFor(userID string) (decimal.Decimal, bool) {
	switch userID {
	case cs.Partner1UserID:
		return cs.Partner1ContributionPercentage, true
	case cs.Partner2UserID:
		return cs.Partner2ContributionPercentage, true
	}
	return decimal.Decimal{}, false
}

// SettingsHistoryEntry is one record of the append-only settings audit log.
type SettingsHistoryEntry struct {
	Setting   string    `json:"setting"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedBy string    `json:"changedBy"` // UserID Reference
	ChangedAt time.Time `json:"changedAt"`
	Reason    string    `json:"reason,omitempty"`
}

// CoupleSettings is the per-couple-account configuration aggregate. Exactly
// one exists per COUPLE account. Version supports optimistic concurrency on
// writes; the repository rejects stale versions.
type CoupleSettings struct {
	CoupleSettingsID   string                `json:"coupleSettingsID"` // Primary Key (e.g., UUID)
	AccountID          string                `json:"accountID"`        // FK -> accounts.account_id, unique
	FinancialModel     FinancialModel        `json:"financialModel"`
	DefaultExpenseType ExpenseType           `json:"defaultExpenseType"`
	Contribution       *ContributionSettings `json:"contributionSettings,omitempty"`

	// Feature flags derived from the partners' premium tier. Written only by
	// the premium refresh, never directly by users.
	Features FeatureSet `json:"features"`

	// Invitation acceptance lifecycle. BothPartnersAccepted flips only when a
	// second distinct user accepts after a first has already accepted.
	InvitationAcceptedBy string     `json:"invitationAcceptedBy,omitempty"` // first acceptor, UserID Reference
	InvitationAcceptedAt *time.Time `json:"invitationAcceptedAt,omitempty"`
	BothPartnersAccepted bool       `json:"bothPartnersAccepted"`

	// Independent toggles gating feature availability on expenses.
	AllowComments         bool `json:"allowComments"`
	AllowReactions        bool `json:"allowReactions"`
	ShowContributionStats bool `json:"showContributionStats"`
	EnableCrossReminders  bool `json:"enableCrossReminders"`
	GiftModeEnabled       bool `json:"giftModeEnabled"`
	SharedGoalsEnabled    bool `json:"sharedGoalsEnabled"`

	SettingsHistory []SettingsHistoryEntry `json:"settingsHistory,omitempty"` // append-only
	Version         int64                  `json:"version"`
	AuditFields
}

// DefaultCoupleSettings returns the settings a freshly provisioned couple
// account starts with.
func DefaultCoupleSettings(accountID, settingsID, creatorUserID string, now time.Time) CoupleSettings {
	return CoupleSettings{
		CoupleSettingsID:      settingsID,
		AccountID:             accountID,
		FinancialModel:        FiftyFifty,
		DefaultExpenseType:    ExpenseShared,
		Features:              FeatureBundle(TierBasic),
		AllowComments:         true,
		AllowReactions:        true,
		ShowContributionStats: true,
		GiftModeEnabled:       true,
		Version:               1,
		AuditFields:           NewAuditFields(creatorUserID, now),
	}
}

// ValidateModel enforces the aggregate invariant tying the financial model to
// contribution settings: PROPORTIONAL_INCOME requires valid percentages.
func (s CoupleSettings) ValidateModel() error {
	if s.FinancialModel != ProportionalIncome {
		return nil
	}
	if s.Contribution == nil {
		return fmt.Errorf("proportional income model requires contribution settings")
	}
	return s.Contribution.Validate()
}

// AppendHistory records a settings change in the append-only audit log.
func (s *CoupleSettings) AppendHistory(setting, oldValue, newValue, changedBy, reason string, now time.Time) {
	s.SettingsHistory = append(s.SettingsHistory, SettingsHistoryEntry{
		Setting:   setting,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: changedBy,
		ChangedAt: now,
		Reason:    reason,
	})
}
