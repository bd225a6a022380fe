package models

import (
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// CoupleSettings represents a row of the couple_settings table. Contribution,
// features and history are JSONB documents; version backs the optimistic
// concurrency check on updates.
type CoupleSettings struct {
	CoupleSettingsID     string                        `db:"couple_settings_id"`
	AccountID            string                        `db:"account_id"`
	FinancialModel       string                        `db:"financial_model"`
	DefaultExpenseType   string                        `db:"default_expense_type"`
	Contribution         *domain.ContributionSettings  `db:"contribution_settings"`
	Features             domain.FeatureSet             `db:"features"`
	InvitationAcceptedBy string                        `db:"invitation_accepted_by"`
	InvitationAcceptedAt *time.Time                    `db:"invitation_accepted_at"`
	BothPartnersAccepted bool                          `db:"both_partners_accepted"`
	AllowComments        bool                          `db:"allow_comments"`
	AllowReactions       bool                          `db:"allow_reactions"`
	ShowContributionStats bool                         `db:"show_contribution_stats"`
	EnableCrossReminders bool                          `db:"enable_cross_reminders"`
	GiftModeEnabled      bool                          `db:"gift_mode_enabled"`
	SharedGoalsEnabled   bool                          `db:"shared_goals_enabled"`
	SettingsHistory      []domain.SettingsHistoryEntry `db:"settings_history"`
	Version              int64                         `db:"version"`
	AuditFields
}
