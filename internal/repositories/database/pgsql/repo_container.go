package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:           newPgxUserRepository(dbPool),
		AccountRepo:        newPgxAccountRepository(dbPool),
		ExpenseRepo:        newPgxExpenseRepository(dbPool),
		CoupleSettingsRepo: newPgxCoupleSettingsRepository(dbPool),
	}
}
