package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// ContributionSettingsRequest carries the contribution split for the
// proportional income model.
type ContributionSettingsRequest struct {
	Partner1UserID                 string           `json:"partner1UserID" binding:"required"`
	Partner2UserID                 string           `json:"partner2UserID" binding:"required"`
	Partner1ContributionPercentage decimal.Decimal  `json:"partner1ContributionPercentage" binding:"required"`
	Partner2ContributionPercentage decimal.Decimal  `json:"partner2ContributionPercentage" binding:"required"`
	Partner1MonthlyIncome          *decimal.Decimal `json:"partner1MonthlyIncome"`
	Partner2MonthlyIncome          *decimal.Decimal `json:"partner2MonthlyIncome"`
	AutoCalculateFromIncome        bool             `json:"autoCalculateFromIncome"`
}

// UpdateCoupleSettingsRequest defines the data allowed for updating couple
// settings. Use pointers to distinguish between zero-value updates and fields
// not provided.
type UpdateCoupleSettingsRequest struct {
	FinancialModel        *string                      `json:"financialModel" binding:"omitempty,financialmodel"`
	DefaultExpenseType    *string                      `json:"defaultExpenseType" binding:"omitempty,oneof=SHARED PERSONAL"`
	Contribution          *ContributionSettingsRequest `json:"contributionSettings"`
	AllowComments         *bool                        `json:"allowComments"`
	AllowReactions        *bool                        `json:"allowReactions"`
	ShowContributionStats *bool                        `json:"showContributionStats"`
	EnableCrossReminders  *bool                        `json:"enableCrossReminders"`
	GiftModeEnabled       *bool                        `json:"giftModeEnabled"`
	SharedGoalsEnabled    *bool                        `json:"sharedGoalsEnabled"`
	Reason                string                       `json:"reason"` // Optional audit note
}

// ToContributionSettings converts the request payload to the domain type.
func (r ContributionSettingsRequest) ToContributionSettings(updatedBy string, now time.Time) domain.ContributionSettings {
	return domain.ContributionSettings{
		Partner1UserID:                 r.Partner1UserID,
		Partner2UserID:                 r.Partner2UserID,
		Partner1ContributionPercentage: r.Partner1ContributionPercentage,
		Partner2ContributionPercentage: r.Partner2ContributionPercentage,
		Partner1MonthlyIncome:          r.Partner1MonthlyIncome,
		Partner2MonthlyIncome:          r.Partner2MonthlyIncome,
		AutoCalculateFromIncome:        r.AutoCalculateFromIncome,
		LastUpdatedAt:                  now,
		UpdatedBy:                      updatedBy,
	}
}

// SettingsHistoryEntryResponse is one audit log entry in a settings response.
type SettingsHistoryEntryResponse struct {
	Setting   string    `json:"setting"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedBy string    `json:"changedBy"`
	ChangedAt time.Time `json:"changedAt"`
	Reason    string    `json:"reason,omitempty"`
}

// CoupleSettingsResponse defines the data returned for couple settings.
type CoupleSettingsResponse struct {
	AccountID            string                         `json:"accountID"`
	FinancialModel       domain.FinancialModel          `json:"financialModel"`
	DefaultExpenseType   domain.ExpenseType             `json:"defaultExpenseType"`
	Contribution         *domain.ContributionSettings   `json:"contributionSettings,omitempty"`
	Features             domain.FeatureSet              `json:"features"`
	BothPartnersAccepted bool                           `json:"bothPartnersAccepted"`
	AllowComments        bool                           `json:"allowComments"`
	AllowReactions       bool                           `json:"allowReactions"`
	ShowContributionStats bool                          `json:"showContributionStats"`
	EnableCrossReminders bool                           `json:"enableCrossReminders"`
	GiftModeEnabled      bool                           `json:"giftModeEnabled"`
	SharedGoalsEnabled   bool                           `json:"sharedGoalsEnabled"`
	SettingsHistory      []SettingsHistoryEntryResponse `json:"settingsHistory,omitempty"`
	LastUpdatedAt        time.Time                      `json:"lastUpdatedAt"`
}

// ToCoupleSettingsResponse converts domain.CoupleSettings to its response DTO.
func ToCoupleSettingsResponse(s *domain.CoupleSettings) CoupleSettingsResponse {
	history := make([]SettingsHistoryEntryResponse, len(s.SettingsHistory))
	for i, h := range s.SettingsHistory {
		history[i] = SettingsHistoryEntryResponse{
			Setting:   h.Setting,
			OldValue:  h.OldValue,
			NewValue:  h.NewValue,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
			Reason:    h.Reason,
		}
	}
	return CoupleSettingsResponse{
		AccountID:             s.AccountID,
		FinancialModel:        s.FinancialModel,
		DefaultExpenseType:    s.DefaultExpenseType,
		Contribution:          s.Contribution,
		Features:              s.Features,
		BothPartnersAccepted:  s.BothPartnersAccepted,
		AllowComments:         s.AllowComments,
		AllowReactions:        s.AllowReactions,
		ShowContributionStats: s.ShowContributionStats,
		EnableCrossReminders:  s.EnableCrossReminders,
		GiftModeEnabled:       s.GiftModeEnabled,
		SharedGoalsEnabled:    s.SharedGoalsEnabled,
		SettingsHistory:       history,
		LastUpdatedAt:         s.LastUpdatedAt,
	}
}
