package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/core/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo    *MockUserRepository
	mockAccountRepo *MockAccountRepository
	mockPremiumSvc  *MockPremiumSvc
	service         portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPremiumSvc = new(MockPremiumSvc)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockAccountRepo, suite.mockPremiumSvc)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	password := "correct-horse-battery"
	suite.mockUserRepo.On("SaveUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "ana" && u.UserID != ""
	}), mock.MatchedBy(func(hash string) bool {
		return hash != password && utils.CheckPasswordHash(password, hash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(context.Background(), dto.CreateUserRequest{
		Name:     "ana",
		Password: password,
	})

	suite.Require().NoError(err)
	suite.Equal("ana", user.Name)
	suite.Equal("ana", user.DisplayName) // defaults to name
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	suite.mockUserRepo.On("FindUserCredentials", mock.Anything, "ana").
		Return(&domain.User{UserID: testPartner1, Name: "ana"}, hash, nil).Once()

	_, err = suite.service.Authenticate(context.Background(), "ana", "wrong-password")

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUserSameError() {
	suite.mockUserRepo.On("FindUserCredentials", mock.Anything, "ghost").
		Return(nil, "", apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(context.Background(), "ghost", "whatever")

	// Unknown name and wrong password are indistinguishable to the caller.
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestUpdateUser_PremiumFlagTriggersRecompute() {
	user := &domain.User{UserID: testPartner1, Name: "ana", HasPremium: false}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, testPartner1).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.HasPremium
	})).Return(nil).Once()
	suite.mockAccountRepo.On("ListAccountsByUserID", mock.Anything, testPartner1).
		Return([]domain.Account{*coupleAccount()}, nil).Once()
	suite.mockPremiumSvc.On("RecomputeForAccount", mock.Anything, testAccountID).Return(nil).Once()

	premium := true
	updated, err := suite.service.UpdateUser(context.Background(), testPartner1, dto.UpdateUserRequest{HasPremium: &premium}, testPartner1)

	suite.Require().NoError(err)
	suite.True(updated.HasPremium)
	suite.mockPremiumSvc.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_NoPremiumChangeNoRecompute() {
	user := &domain.User{UserID: testPartner1, Name: "ana"}
	suite.mockUserRepo.On("FindUserByID", mock.Anything, testPartner1).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", mock.Anything, mock.Anything).Return(nil).Once()

	newName := "ana maria"
	_, err := suite.service.UpdateUser(context.Background(), testPartner1, dto.UpdateUserRequest{Name: &newName}, testPartner1)

	suite.Require().NoError(err)
	suite.mockPremiumSvc.AssertNotCalled(suite.T(), "RecomputeForAccount")
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
