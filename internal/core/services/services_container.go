package services

import (
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first since most other services authorize through it.
	accountSvc := NewAccountService(repos.AccountRepo, repos.CoupleSettingsRepo)
	container.Account = accountSvc

	// Premium before couple settings and expenses, which both depend on it.
	container.Premium = NewPremiumService(
		repos.CoupleSettingsRepo,
		repos.AccountRepo,
		repos.UserRepo,
		PremiumQuotas{
			BasicComments:      cfg.BasicCommentQuota,
			OnePremiumComments: cfg.OnePremiumCommentQuota,
			OnePremiumGoals:    cfg.OnePremiumGoalQuota,
		},
	)

	container.CoupleSettings = NewCoupleSettingsService(repos.CoupleSettingsRepo, accountSvc, container.Premium)
	container.Gift = NewGiftService(repos.ExpenseRepo, repos.CoupleSettingsRepo, repos.AccountRepo, accountSvc)
	container.Settlement = NewSettlementService(repos.ExpenseRepo, repos.CoupleSettingsRepo, accountSvc, cfg.SettlementTolerance)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.AccountRepo, repos.CoupleSettingsRepo, accountSvc, container.Premium)
	container.User = NewUserService(repos.UserRepo, repos.AccountRepo, container.Premium)
	container.Token = NewAuthService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
