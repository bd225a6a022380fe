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

type PgxAccountRepository struct {
	db *pgxpool.Pool
}

func newPgxAccountRepository(db *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{db: db}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const accountColumns = `account_id, owner_id, name, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OwnerID,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	account := toDomainAccount(m)
	members, err := r.listMembers(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.Members = members
	return &account, nil
}

func (r *PgxAccountRepository) listMembers(ctx context.Context, accountID string) ([]domain.AccountMember, error) {
	query := `
        SELECT user_id, account_id, role, is_active, joined_at
        FROM account_members
        WHERE account_id = $1
        ORDER BY joined_at;
    `
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account members: %w", err)
	}
	defer rows.Close()

	members := []domain.AccountMember{}
	for rows.Next() {
		var m models.AccountMember
		if err := rows.Scan(&m.UserID, &m.AccountID, &m.Role, &m.IsActive, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account member row: %w", err)
		}
		members = append(members, domain.AccountMember{
			UserID:    m.UserID,
			AccountID: m.AccountID,
			Role:      domain.AccountMemberRole(m.Role),
			IsActive:  m.IsActive,
			JoinedAt:  m.JoinedAt,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account member rows: %w", rows.Err())
	}
	return members, nil
}

func (r *PgxAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `
        SELECT DISTINCT a.account_id, a.owner_id, a.name, a.account_type, a.description, a.is_active,
               a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
        FROM accounts a
        LEFT JOIN account_members am ON am.account_id = a.account_id
        WHERE a.owner_id = $1
           OR (am.user_id = $1 AND am.is_active)
        ORDER BY a.created_at DESC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	// Member lists are needed by partner resolution downstream.
	for i := range accounts {
		members, err := r.listMembers(ctx, accounts[i].AccountID)
		if err != nil {
			return nil, err
		}
		accounts[i].Members = members
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListActiveCoupleAccountIDs(ctx context.Context) ([]string, error) {
	query := `SELECT account_id FROM accounts WHERE account_type = $1 AND is_active;`
	rows, err := r.db.Query(ctx, query, string(domain.AccountCouple))
	if err != nil {
		return nil, fmt.Errorf("failed to query couple account ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account id rows: %w", rows.Err())
	}
	return ids, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
        INSERT INTO accounts (account_id, owner_id, name, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.db.Exec(ctx, query,
		account.AccountID,
		account.OwnerID,
		account.Name,
		string(account.AccountType),
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) AddMember(ctx context.Context, member domain.AccountMember) error {
	query := `
        INSERT INTO account_members (user_id, account_id, role, is_active, joined_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := r.db.Exec(ctx, query,
		member.UserID,
		member.AccountID,
		string(member.Role),
		member.IsActive,
		member.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user is already a member: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to add account member: %w", err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateMember(ctx context.Context, member domain.AccountMember) error {
	query := `
        UPDATE account_members
        SET role = $1, is_active = $2
        WHERE user_id = $3 AND account_id = $4;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		string(member.Role),
		member.IsActive,
		member.UserID,
		member.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
