package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portsrepo "github.com/tandemfin/couple_finance_app/internal/core/ports/repositories"
	"github.com/tandemfin/couple_finance_app/internal/dto"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	var users map[string]domain.User
	if args.Get(0) != nil {
		users = args.Get(0).(map[string]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return users, token, args.Error(2)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, userID, deletedBy, now)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserCredentials(ctx context.Context, name string) (*domain.User, string, error) {
	args := m.Called(ctx, name)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.String(1), args.Error(2)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) ListActiveCoupleAccountIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) AddMember(ctx context.Context, member domain.AccountMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateMember(ctx context.Context, member domain.AccountMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByAccount(ctx context.Context, accountID string, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, accountID, filter)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) ListGiftsByCreator(ctx context.Context, accountID, creatorUserID string) ([]domain.Expense, error) {
	args := m.Called(ctx, accountID, creatorUserID)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) ListRevealedGiftsForRecipient(ctx context.Context, accountID, recipientUserID string) ([]domain.Expense, error) {
	args := m.Called(ctx, accountID, recipientUserID)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) ListUnrevealedGiftsDue(ctx context.Context, now time.Time) ([]domain.Expense, error) {
	args := m.Called(ctx, now)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) CountHiddenGiftsFor(ctx context.Context, accountID, recipientUserID string) (int, error) {
	args := m.Called(ctx, accountID, recipientUserID)
	return args.Int(0), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) MarkExpenseDeleted(ctx context.Context, expenseID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, expenseID, deletedBy, now)
	return args.Error(0)
}

// --- Mock CoupleSettingsRepository ---

type MockCoupleSettingsRepository struct {
	mock.Mock
}

func (m *MockCoupleSettingsRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.CoupleSettings, error) {
	args := m.Called(ctx, accountID)
	var settings *domain.CoupleSettings
	if args.Get(0) != nil {
		settings = args.Get(0).(*domain.CoupleSettings)
	}
	return settings, args.Error(1)
}

func (m *MockCoupleSettingsRepository) SaveCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockCoupleSettingsRepository) UpdateCoupleSettings(ctx context.Context, settings domain.CoupleSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// --- Mock PremiumSvcFacade ---

type MockPremiumSvc struct {
	mock.Mock
}

func (m *MockPremiumSvc) GetPremiumStatus(ctx context.Context, accountID, callerUserID, featureName string) (*dto.PremiumStatusResponse, error) {
	args := m.Called(ctx, accountID, callerUserID, featureName)
	var res *dto.PremiumStatusResponse
	if args.Get(0) != nil {
		res = args.Get(0).(*dto.PremiumStatusResponse)
	}
	return res, args.Error(1)
}

func (m *MockPremiumSvc) RecomputeForAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockPremiumSvc) RefreshAllPremiumTiers(ctx context.Context) (dto.RefreshSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.RefreshSummary), args.Error(1)
}

func (m *MockPremiumSvc) TrackFeatureUsage(ctx context.Context, accountID, callerUserID string, feature string, currentCount int) error {
	args := m.Called(ctx, accountID, callerUserID, feature, currentCount)
	return args.Error(0)
}
