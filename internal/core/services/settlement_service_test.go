package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/core/services"
	"github.com/tandemfin/couple_finance_app/internal/utils/settlement"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo  *MockExpenseRepository
	mockSettingsRepo *MockCoupleSettingsRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.SettlementSvcFacade
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockSettingsRepo = new(MockCoupleSettingsRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	accountSvc := services.NewAccountService(suite.mockAccountRepo, suite.mockSettingsRepo)
	suite.service = services.NewSettlementService(suite.mockExpenseRepo, suite.mockSettingsRepo, accountSvc, settlement.DefaultTolerance)
}

func sharedExpense(id, paidBy string, amount int64) domain.Expense {
	return domain.Expense{
		ExpenseID: id,
		AccountID: testAccountID,
		PaidBy:    paidBy,
		Amount:    decimal.NewFromInt(amount),
		Date:      time.Now(),
		CoupleData: &domain.CoupleExpenseData{
			ExpenseType: domain.ExpenseShared,
		},
	}
}

func personalExpense(id, paidBy string, amount int64) domain.Expense {
	e := sharedExpense(id, paidBy, amount)
	e.CoupleData.ExpenseType = domain.ExpensePersonal
	return e
}

func (suite *SettlementServiceTestSuite) expectStatsFixture(settings *domain.CoupleSettings, expenses []domain.Expense, hidden int) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, testAccountID).Return(coupleAccount(), nil)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(settings, nil).Once()
	suite.mockExpenseRepo.On("ListExpensesByAccount", mock.Anything, testAccountID, mock.Anything).Return(expenses, nil).Once()
	suite.mockExpenseRepo.On("CountHiddenGiftsFor", mock.Anything, testAccountID, mock.Anything).Return(hidden, nil).Once()
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_FiftyFiftyPartnerOwes() {
	// Partner1 paid all 120 of shared spending; under FIFTY_FIFTY the partner
	// owes them the full difference of the per-partner deltas.
	expenses := []domain.Expense{
		sharedExpense("e1", testPartner1, 80),
		sharedExpense("e2", testPartner1, 40),
	}
	suite.expectStatsFixture(baseSettings(), expenses, 0)

	stats, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	suite.Require().NoError(err)
	suite.True(stats.TotalShared.Equal(decimal.NewFromInt(120)))
	suite.True(stats.SelfExpected.Equal(decimal.NewFromInt(60)))
	suite.True(stats.SelfActualPaid.Equal(decimal.NewFromInt(120)))
	suite.True(stats.PartnerActualPaid.IsZero())
	suite.True(stats.CurrentBalance.Equal(decimal.NewFromInt(120)))
	suite.Equal(settlement.PartnerOwes, stats.WhoOwes)
	suite.Require().NotNil(stats.RecommendedTransfer)
	suite.True(stats.RecommendedTransfer.Equal(decimal.NewFromInt(120)))
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_WithinToleranceBalanced() {
	expenses := []domain.Expense{
		sharedExpense("e1", testPartner1, 52),
		sharedExpense("e2", testPartner2, 48),
	}
	suite.expectStatsFixture(baseSettings(), expenses, 0)

	stats, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	suite.Require().NoError(err)
	// Balance is 4, inside the default tolerance of 5.
	suite.True(stats.CurrentBalance.Equal(decimal.NewFromInt(4)))
	suite.Equal(settlement.Balanced, stats.WhoOwes)
	suite.Nil(stats.RecommendedTransfer)
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_ProportionalUsesPercentages() {
	settings := baseSettings()
	settings.FinancialModel = domain.ProportionalIncome
	settings.Contribution = &domain.ContributionSettings{
		Partner1UserID:                 testPartner1,
		Partner2UserID:                 testPartner2,
		Partner1ContributionPercentage: decimal.NewFromInt(70),
		Partner2ContributionPercentage: decimal.NewFromInt(30),
	}
	expenses := []domain.Expense{sharedExpense("e1", testPartner2, 1000)}
	suite.expectStatsFixture(settings, expenses, 0)

	stats, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	suite.Require().NoError(err)
	suite.True(stats.SelfExpected.Equal(decimal.NewFromInt(700)))
	suite.True(stats.PartnerExpected.Equal(decimal.NewFromInt(300)))
	// Expected shares always complement to the shared total.
	suite.True(stats.SelfExpected.Add(stats.PartnerExpected).Equal(stats.TotalShared))
	suite.Equal(settlement.SelfOwes, stats.WhoOwes)
	suite.True(stats.SelfContributionPct.Equal(decimal.NewFromInt(70)))
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_MixedCountsPersonal() {
	settings := baseSettings()
	settings.FinancialModel = domain.Mixed
	expenses := []domain.Expense{
		sharedExpense("e1", testPartner1, 100),
		personalExpense("e2", testPartner1, 30),
		personalExpense("e3", testPartner2, 10),
	}
	suite.expectStatsFixture(settings, expenses, 0)

	stats, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	suite.Require().NoError(err)
	suite.True(stats.TotalSelfPersonal.Equal(decimal.NewFromInt(30)))
	suite.True(stats.TotalPartnerPersonal.Equal(decimal.NewFromInt(10)))
	// self expected 50+30=80, actual 130; partner expected 50+10=60, actual 10.
	suite.True(stats.SelfExpected.Equal(decimal.NewFromInt(80)))
	suite.True(stats.CurrentBalance.Equal(decimal.NewFromInt(100)))
	suite.Equal(settlement.PartnerOwes, stats.WhoOwes)
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_ExcludesHiddenGifts() {
	revealDate := time.Now().Add(24 * time.Hour)
	gift := personalExpense("g1", testPartner1, 500)
	gift.CoupleData.IsGift = true
	gift.CoupleData.GiftForUserID = testPartner2
	gift.CoupleData.RevealDate = &revealDate

	settings := baseSettings()
	settings.FinancialModel = domain.EverythingCommon
	expenses := []domain.Expense{
		sharedExpense("e1", testPartner2, 100),
		gift,
	}
	suite.expectStatsFixture(settings, expenses, 1)

	// Partner2 is the gift recipient: the concealed amount must not leak into
	// their stats view, only its count.
	stats, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner2, nil, nil)

	suite.Require().NoError(err)
	suite.True(stats.SelfActualPaid.Equal(decimal.NewFromInt(100)))
	suite.True(stats.PartnerActualPaid.IsZero())
	suite.Equal(1, stats.HiddenGiftsCount)
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_MissingSettingsFails() {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, testAccountID).Return(coupleAccount(), nil)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	// Fail fast instead of returning a zeroed report.
	suite.Require().Error(err)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "ListExpensesByAccount")
}

func (suite *SettlementServiceTestSuite) TestGetCoupleStats_ProportionalWithoutContributionFails() {
	settings := baseSettings()
	settings.FinancialModel = domain.ProportionalIncome
	settings.Contribution = nil
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, testAccountID).Return(coupleAccount(), nil)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(settings, nil).Once()

	_, err := suite.service.GetCoupleStats(context.Background(), testAccountID, testPartner1, nil, nil)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidState)
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
