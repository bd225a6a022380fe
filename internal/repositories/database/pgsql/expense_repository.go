package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	"github.com/tandemfin/couple_finance_app/internal/models"
)

type PgxExpenseRepository struct {
	db *pgxpool.Pool
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{db: db}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, account_id, paid_by, description, amount, category, expense_date, couple_data, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.AccountID,
		&m.PaidBy,
		&m.Description,
		&m.Amount,
		&m.Category,
		&m.Date,
		&m.CoupleData,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func toDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:   m.ExpenseID,
		AccountID:   m.AccountID,
		PaidBy:      m.PaidBy,
		Description: m.Description,
		Amount:      m.Amount,
		Category:    m.Category,
		Date:        m.Date,
		CoupleData:  m.CoupleData,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
}

func (r *PgxExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]domain.Expense, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, toDomainExpense(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1 AND deleted_at IS NULL;`
	m, err := scanExpense(r.db.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	expense := toDomainExpense(m)
	return &expense, nil
}

func (r *PgxExpenseRepository) ListExpensesByAccount(ctx context.Context, accountID string, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE account_id = $1 AND deleted_at IS NULL`
	args := []any{accountID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND expense_date <= $%d", len(args))
	}
	if filter.ExpenseType != "" {
		args = append(args, string(filter.ExpenseType))
		query += fmt.Sprintf(" AND couple_data->>'expenseType' = $%d", len(args))
	}
	query += " ORDER BY expense_date DESC;"

	return r.queryExpenses(ctx, query, args...)
}

func (r *PgxExpenseRepository) ListGiftsByCreator(ctx context.Context, accountID, creatorUserID string) ([]domain.Expense, error) {
	query := `
        SELECT ` + expenseColumns + `
        FROM expenses
        WHERE account_id = $1
          AND paid_by = $2
          AND deleted_at IS NULL
          AND (couple_data->>'isGift')::boolean
        ORDER BY expense_date DESC;
    `
	return r.queryExpenses(ctx, query, accountID, creatorUserID)
}

func (r *PgxExpenseRepository) ListRevealedGiftsForRecipient(ctx context.Context, accountID, recipientUserID string) ([]domain.Expense, error) {
	query := `
        SELECT ` + expenseColumns + `
        FROM expenses
        WHERE account_id = $1
          AND deleted_at IS NULL
          AND (couple_data->>'isGift')::boolean
          AND (couple_data->>'isRevealed')::boolean
          AND couple_data->>'giftForUserID' = $2
        ORDER BY expense_date DESC;
    `
	return r.queryExpenses(ctx, query, accountID, recipientUserID)
}

func (r *PgxExpenseRepository) ListUnrevealedGiftsDue(ctx context.Context, now time.Time) ([]domain.Expense, error) {
	query := `
        SELECT ` + expenseColumns + `
        FROM expenses
        WHERE deleted_at IS NULL
          AND (couple_data->>'isGift')::boolean
          AND NOT (couple_data->>'isRevealed')::boolean
          AND (couple_data->>'revealDate')::timestamptz <= $1
        ORDER BY expense_date;
    `
	return r.queryExpenses(ctx, query, now)
}

func (r *PgxExpenseRepository) CountHiddenGiftsFor(ctx context.Context, accountID, recipientUserID string) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM expenses
        WHERE account_id = $1
          AND deleted_at IS NULL
          AND (couple_data->>'isGift')::boolean
          AND NOT (couple_data->>'isRevealed')::boolean
          AND couple_data->>'giftForUserID' = $2;
    `
	var count int
	if err := r.db.QueryRow(ctx, query, accountID, recipientUserID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count hidden gifts: %w", err)
	}
	return count, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
        INSERT INTO expenses (expense_id, account_id, paid_by, description, amount, category, expense_date, couple_data, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.db.Exec(ctx, query,
		expense.ExpenseID,
		expense.AccountID,
		expense.PaidBy,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date,
		expense.CoupleData,
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
        UPDATE expenses
        SET description = $1, amount = $2, category = $3, expense_date = $4,
            couple_data = $5, last_updated_at = $6, last_updated_by = $7
        WHERE expense_id = $8 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.Date,
		expense.CoupleData,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
		expense.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) MarkExpenseDeleted(ctx context.Context, expenseID string, deletedBy string, now time.Time) error {
	query := `
        UPDATE expenses
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE expense_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, now, deletedBy, expenseID)
	if err != nil {
		return fmt.Errorf("failed to mark expense deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
