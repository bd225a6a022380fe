package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	UserRepo           UserRepository
	AccountRepo        AccountRepository
	ExpenseRepo        ExpenseRepository
	CoupleSettingsRepo CoupleSettingsRepository
}
