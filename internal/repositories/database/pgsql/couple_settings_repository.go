package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	"github.com/tandemfin/couple_finance_app/internal/models"
)

type PgxCoupleSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxCoupleSettingsRepository(db *pgxpool.Pool) portsrepo.CoupleSettingsRepository {
	return &PgxCoupleSettingsRepository{db: db}
}

var _ portsrepo.CoupleSettingsRepository = (*PgxCoupleSettingsRepository)(nil)

const coupleSettingsColumns = `couple_settings_id, account_id, financial_model, default_expense_type, contribution_settings, features, invitation_accepted_by, invitation_accepted_at, both_partners_accepted, allow_comments, allow_reactions, show_contribution_stats, enable_cross_reminders, gift_mode_enabled, shared_goals_enabled, settings_history, version, created_at, created_by, last_updated_at, last_updated_by`

func scanCoupleSettings(row pgx.Row) (models.CoupleSettings, error) {
	var m models.CoupleSettings
	err := row.Scan(
		&m.CoupleSettingsID,
		&m.AccountID,
		&m.FinancialModel,
		&m.DefaultExpenseType,
		&m.Contribution,
		&m.Features,
		&m.InvitationAcceptedBy,
		&m.InvitationAcceptedAt,
		&m.BothPartnersAccepted,
		&m.AllowComments,
		&m.AllowReactions,
		&m.ShowContributionStats,
		&m.EnableCrossReminders,
		&m.GiftModeEnabled,
		&m.SharedGoalsEnabled,
		&m.SettingsHistory,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func toDomainCoupleSettings(m models.CoupleSettings) domain.CoupleSettings {
	return domain.CoupleSettings{
		CoupleSettingsID:      m.CoupleSettingsID,
		AccountID:             m.AccountID,
		FinancialModel:        domain.FinancialModel(m.FinancialModel),
		DefaultExpenseType:    domain.ExpenseType(m.DefaultExpenseType),
		Contribution:          m.Contribution,
		Features:              m.Features,
		InvitationAcceptedBy:  m.InvitationAcceptedBy,
		InvitationAcceptedAt:  m.InvitationAcceptedAt,
		BothPartnersAccepted:  m.BothPartnersAccepted,
		AllowComments:         m.AllowComments,
		AllowReactions:        m.AllowReactions,
		ShowContributionStats: m.ShowContributionStats,
		EnableCrossReminders:  m.EnableCrossReminders,
		GiftModeEnabled:       m.GiftModeEnabled,
		SharedGoalsEnabled:    m.SharedGoalsEnabled,
		SettingsHistory:       m.SettingsHistory,
		Version:               m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxCoupleSettingsRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.CoupleSettings, error) {
	query := `SELECT ` + coupleSettingsColumns + ` FROM couple_settings WHERE account_id = $1;`
	m, err := scanCoupleSettings(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find couple settings for account %s: %w", accountID, err)
	}
	settings := toDomainCoupleSettings(m)
	return &settings, nil
}

func (r *PgxCoupleSettingsRepository) SaveCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error {
	query := `
        INSERT INTO couple_settings (couple_settings_id, account_id, financial_model, default_expense_type, contribution_settings, features, invitation_accepted_by, invitation_accepted_at, both_partners_accepted, allow_comments, allow_reactions, show_contribution_stats, enable_cross_reminders, gift_mode_enabled, shared_goals_enabled, settings_history, version, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
    `
	_, err := r.db.Exec(ctx, query,
		settings.CoupleSettingsID,
		settings.AccountID,
		string(settings.FinancialModel),
		string(settings.DefaultExpenseType),
		settings.Contribution,
		settings.Features,
		settings.InvitationAcceptedBy,
		settings.InvitationAcceptedAt,
		settings.BothPartnersAccepted,
		settings.AllowComments,
		settings.AllowReactions,
		settings.ShowContributionStats,
		settings.EnableCrossReminders,
		settings.GiftModeEnabled,
		settings.SharedGoalsEnabled,
		settings.SettingsHistory,
		settings.Version,
		settings.CreatedAt,
		settings.CreatedBy,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("settings already exist for account %s: %w", settings.AccountID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save couple settings: %w", err)
	}
	return nil
}

// UpdateCoupleSettings applies a version-checked update. Zero rows affected
// means the stored version moved underneath the caller.
func (r *PgxCoupleSettingsRepository) UpdateCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error {
	query := `
        UPDATE couple_settings
        SET financial_model = $1, default_expense_type = $2, contribution_settings = $3,
            features = $4, invitation_accepted_by = $5, invitation_accepted_at = $6,
            both_partners_accepted = $7, allow_comments = $8, allow_reactions = $9,
            show_contribution_stats = $10, enable_cross_reminders = $11,
            gift_mode_enabled = $12, shared_goals_enabled = $13, settings_history = $14,
            version = version + 1, last_updated_at = $15, last_updated_by = $16
        WHERE account_id = $17 AND version = $18;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		string(settings.FinancialModel),
		string(settings.DefaultExpenseType),
		settings.Contribution,
		settings.Features,
		settings.InvitationAcceptedBy,
		settings.InvitationAcceptedAt,
		settings.BothPartnersAccepted,
		settings.AllowComments,
		settings.AllowReactions,
		settings.ShowContributionStats,
		settings.EnableCrossReminders,
		settings.GiftModeEnabled,
		settings.SharedGoalsEnabled,
		settings.SettingsHistory,
		settings.LastUpdatedAt,
		settings.LastUpdatedBy,
		settings.AccountID,
		settings.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update couple settings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("settings for account %s changed concurrently: %w", settings.AccountID, apperrors.ErrConflict)
	}
	return nil
}
