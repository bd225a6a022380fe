package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/core/services"
)

type PremiumServiceTestSuite struct {
	suite.Suite
	mockSettingsRepo *MockCoupleSettingsRepository
	mockAccountRepo  *MockAccountRepository
	mockUserRepo     *MockUserRepository
	service          portssvc.PremiumSvcFacade
}

func (suite *PremiumServiceTestSuite) SetupTest() {
	suite.mockSettingsRepo = new(MockCoupleSettingsRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewPremiumService(
		suite.mockSettingsRepo,
		suite.mockAccountRepo,
		suite.mockUserRepo,
		services.PremiumQuotas{BasicComments: 10, OnePremiumComments: 50, OnePremiumGoals: 5},
	)
}

func (suite *PremiumServiceTestSuite) expectPartners(p1Premium, p2Premium bool) {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, testAccountID).Return(coupleAccount(), nil)
	suite.mockUserRepo.On("FindUsersByIDs", mock.Anything, []string{testPartner1, testPartner2}).Return(map[string]domain.User{
		testPartner1: {UserID: testPartner1, HasPremium: p1Premium},
		testPartner2: {UserID: testPartner2, HasPremium: p2Premium},
	}, nil)
}

func (suite *PremiumServiceTestSuite) TestGetPremiumStatus_BothPremium() {
	suite.expectPartners(true, true)

	status, err := suite.service.GetPremiumStatus(context.Background(), testAccountID, testPartner1, "")

	suite.Require().NoError(err)
	suite.Equal(domain.TierBothPremium, status.Tier)
	suite.True(status.Features.HasSharedGoals)
	suite.True(status.Features.HasAdvancedAnalytics)
}

func (suite *PremiumServiceTestSuite) TestGetPremiumStatus_FeatureQuery() {
	suite.expectPartners(true, false)

	status, err := suite.service.GetPremiumStatus(context.Background(), testAccountID, testPartner1, string(domain.FeatureSharedGoals))

	suite.Require().NoError(err)
	suite.Equal(domain.TierOnePremium, status.Tier)
	suite.Require().NotNil(status.FeatureEnabled)
	suite.False(*status.FeatureEnabled)
	suite.Equal(domain.TierBothPremium, status.RequiredTier)
}

func (suite *PremiumServiceTestSuite) TestGetPremiumStatus_UnknownFeature() {
	suite.expectPartners(false, false)

	_, err := suite.service.GetPremiumStatus(context.Background(), testAccountID, testPartner1, "timeTravel")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PremiumServiceTestSuite) TestRecomputeForAccount_PersistsBundle() {
	suite.expectPartners(true, true)
	stale := baseSettings() // carries the basic bundle
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(stale, nil).Once()

	var saved domain.CoupleSettings
	suite.mockSettingsRepo.On("UpdateCoupleSettings", mock.Anything, mock.MatchedBy(func(s domain.CoupleSettings) bool {
		saved = s
		return true
	})).Return(nil).Once()

	err := suite.service.RecomputeForAccount(context.Background(), testAccountID)

	suite.Require().NoError(err)
	suite.Equal(domain.FeatureBundle(domain.TierBothPremium), saved.Features)
}

func (suite *PremiumServiceTestSuite) TestRecomputeForAccount_NoopWhenInSync() {
	suite.expectPartners(false, false)
	settings := baseSettings()
	settings.Features = domain.FeatureBundle(domain.TierBasic)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(settings, nil).Once()

	err := suite.service.RecomputeForAccount(context.Background(), testAccountID)

	suite.Require().NoError(err)
	suite.mockSettingsRepo.AssertNotCalled(suite.T(), "UpdateCoupleSettings")
}

func (suite *PremiumServiceTestSuite) TestRecomputeForAccount_RetriesOnConflict() {
	suite.expectPartners(false, true)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Twice()
	suite.mockSettingsRepo.On("UpdateCoupleSettings", mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()
	suite.mockSettingsRepo.On("UpdateCoupleSettings", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.RecomputeForAccount(context.Background(), testAccountID)

	suite.Require().NoError(err)
	suite.mockSettingsRepo.AssertExpectations(suite.T())
}

func (suite *PremiumServiceTestSuite) TestRefreshAllPremiumTiers_IsolatesFailures() {
	suite.mockAccountRepo.On("ListActiveCoupleAccountIDs", mock.Anything).Return([]string{"acc-broken", testAccountID}, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, "acc-broken").Return(nil, assert.AnError)
	suite.expectPartners(false, false)
	settings := baseSettings()
	settings.Features = domain.FeatureBundle(domain.TierBasic)
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(settings, nil).Once()

	summary, err := suite.service.RefreshAllPremiumTiers(context.Background())

	suite.Require().NoError(err)
	suite.Equal(1, summary.Processed)
	suite.Equal(1, summary.Errored)
}

func (suite *PremiumServiceTestSuite) TestTrackFeatureUsage_UnderQuota() {
	suite.expectPartners(true, false)

	err := suite.service.TrackFeatureUsage(context.Background(), testAccountID, testPartner1, string(domain.FeatureUnlimitedComments), 49)

	suite.Require().NoError(err)
}

func (suite *PremiumServiceTestSuite) TestTrackFeatureUsage_QuotaExhausted() {
	suite.expectPartners(true, false)

	err := suite.service.TrackFeatureUsage(context.Background(), testAccountID, testPartner1, string(domain.FeatureUnlimitedComments), 50)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *PremiumServiceTestSuite) TestTrackFeatureUsage_BothPremiumUnlimited() {
	suite.expectPartners(true, true)

	err := suite.service.TrackFeatureUsage(context.Background(), testAccountID, testPartner1, string(domain.FeatureUnlimitedComments), 10_000)

	suite.Require().NoError(err)
}

func (suite *PremiumServiceTestSuite) TestTrackFeatureUsage_BasicGoalsDenied() {
	suite.expectPartners(false, false)

	err := suite.service.TrackFeatureUsage(context.Background(), testAccountID, testPartner1, string(domain.FeatureSharedGoals), 0)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func TestPremiumServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PremiumServiceTestSuite))
}
