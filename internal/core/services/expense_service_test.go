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
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/utils/contextparse"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo  *MockExpenseRepository
	mockAccountRepo  *MockAccountRepository
	mockSettingsRepo *MockCoupleSettingsRepository
	mockPremiumSvc   *MockPremiumSvc
	service          portssvc.ExpenseSvcFacade
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSettingsRepo = new(MockCoupleSettingsRepository)
	suite.mockPremiumSvc = new(MockPremiumSvc)
	accountSvc := services.NewAccountService(suite.mockAccountRepo, suite.mockSettingsRepo)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockAccountRepo, suite.mockSettingsRepo, accountSvc, suite.mockPremiumSvc)
}

func coupleExpense(id string, expenseType domain.ExpenseType) *domain.Expense {
	return &domain.Expense{
		ExpenseID: id,
		AccountID: testAccountID,
		PaidBy:    testPartner1,
		Amount:    decimal.NewFromInt(40),
		Date:      time.Now(),
		CoupleData: &domain.CoupleExpenseData{
			ExpenseType: expenseType,
		},
		AuditFields: domain.NewAuditFields(testPartner1, time.Now()),
	}
}

func (suite *ExpenseServiceTestSuite) expectAccount() {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, testAccountID).Return(coupleAccount(), nil)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_RoutedByContextTrigger() {
	personal := domain.Account{AccountID: "acc-personal", OwnerID: testPartner1, AccountType: domain.AccountPersonal, IsActive: true}
	couple := *coupleAccount()
	suite.mockAccountRepo.On("ListAccountsByUserID", mock.Anything, testPartner1).Return([]domain.Account{personal, couple}, nil).Once()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()

	var saved domain.Expense
	suite.mockExpenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		saved = e
		return true
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(context.Background(), testPartner1, dto.CreateExpenseRequest{
		Description: "cena @pareja",
		Amount:      decimal.NewFromInt(60),
	})

	suite.Require().NoError(err)
	suite.Equal(testAccountID, expense.AccountID)
	// The trigger token is stripped from the stored description.
	suite.Equal("cena", saved.Description)
	suite.Require().NotNil(saved.CoupleData)
	// Default expense type comes from the couple settings.
	suite.Equal(domain.ExpenseShared, saved.CoupleData.ExpenseType)
	suite.Require().NotNil(saved.CoupleData.SplitDetails)
	sum := saved.CoupleData.SplitDetails.Partner1Amount.Add(saved.CoupleData.SplitDetails.Partner2Amount)
	suite.True(sum.Equal(decimal.NewFromInt(60)))
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NoTriggerNoAccountFails() {
	_, err := suite.service.CreateExpense(context.Background(), testPartner1, dto.CreateExpenseRequest{
		Description: "groceries",
		Amount:      decimal.NewFromInt(30),
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense")
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_TriggerWithoutMatchingAccount() {
	suite.mockAccountRepo.On("ListAccountsByUserID", mock.Anything, testPartner1).Return([]domain.Account{*coupleAccount()}, nil).Once()

	_, err := suite.service.CreateExpense(context.Background(), testPartner1, dto.CreateExpenseRequest{
		Description: "materiales @negocio",
		Amount:      decimal.NewFromInt(200),
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_ExplicitAccountWins() {
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		// Explicit routing must not strip anything from the description.
		return e.Description == "flores @personal"
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(context.Background(), testPartner1, dto.CreateExpenseRequest{
		AccountID:   testAccountID,
		Description: "flores @personal",
		Amount:      decimal.NewFromInt(25),
	})

	suite.Require().NoError(err)
	suite.Equal(testAccountID, expense.AccountID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ListAccountsByUserID")
}

func (suite *ExpenseServiceTestSuite) TestParseContext_Pure() {
	res := suite.service.ParseContext(context.Background(), "$50 groceries @pareja")

	suite.Equal(contextparse.ContextCouple, res.Context)
	suite.Equal("$50 groceries", res.CleanDescription)
	suite.Greater(res.Confidence, 0.8)
}

func (suite *ExpenseServiceTestSuite) TestGetExpense_HiddenGiftInvisibleToRecipient() {
	revealDate := time.Now().Add(24 * time.Hour)
	gift := coupleExpense("e1", domain.ExpensePersonal)
	gift.CoupleData.IsGift = true
	gift.CoupleData.GiftForUserID = testPartner2
	gift.CoupleData.RevealDate = &revealDate
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(gift, nil)
	suite.expectAccount()

	_, err := suite.service.GetExpense(context.Background(), "e1", testPartner2)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)

	found, err := suite.service.GetExpense(context.Background(), "e1", testPartner1)
	suite.Require().NoError(err)
	suite.Equal("e1", found.ExpenseID)
}

func (suite *ExpenseServiceTestSuite) TestAddComment_AppendsAndChecksQuota() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	expense.CoupleData.Comments = []domain.Comment{{CommentID: "c0", UserID: testPartner1, Text: "first"}}
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()
	suite.mockPremiumSvc.On("TrackFeatureUsage", mock.Anything, testAccountID, testPartner2, string(domain.FeatureUnlimitedComments), 1).Return(nil).Once()

	var saved domain.Expense
	suite.mockExpenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		saved = e
		return true
	})).Return(nil).Once()

	_, err := suite.service.AddComment(context.Background(), "e1", testPartner2, "looks pricey")

	suite.Require().NoError(err)
	suite.Require().Len(saved.CoupleData.Comments, 2)
	// Append-only: the existing comment is untouched and order is preserved.
	suite.Equal("c0", saved.CoupleData.Comments[0].CommentID)
	suite.Equal("looks pricey", saved.CoupleData.Comments[1].Text)
	suite.Equal(testPartner2, saved.CoupleData.Comments[1].UserID)
	suite.False(saved.CoupleData.Comments[1].IsEdited)
	suite.mockPremiumSvc.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestAddComment_DisabledByToggle() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	settings := baseSettings()
	settings.AllowComments = false
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(settings, nil).Once()

	_, err := suite.service.AddComment(context.Background(), "e1", testPartner1, "hi")

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockPremiumSvc.AssertNotCalled(suite.T(), "TrackFeatureUsage")
}

func (suite *ExpenseServiceTestSuite) TestAddComment_QuotaExceeded() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()
	suite.mockPremiumSvc.On("TrackFeatureUsage", mock.Anything, testAccountID, testPartner1, string(domain.FeatureUnlimitedComments), 0).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.AddComment(context.Background(), "e1", testPartner1, "one too many")

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpense")
}

func (suite *ExpenseServiceTestSuite) TestEditComment_OwnerOnly() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	expense.CoupleData.Comments = []domain.Comment{{CommentID: "c1", UserID: testPartner1, Text: "mine"}}
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()

	_, err := suite.service.EditComment(context.Background(), "e1", "c1", testPartner2, "hijacked")

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ExpenseServiceTestSuite) TestEditComment_MarksEdited() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	expense.CoupleData.Comments = []domain.Comment{{CommentID: "c1", UserID: testPartner1, Text: "mine"}}
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()

	var saved domain.Expense
	suite.mockExpenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		saved = e
		return true
	})).Return(nil).Once()

	_, err := suite.service.EditComment(context.Background(), "e1", "c1", testPartner1, "mine, edited")

	suite.Require().NoError(err)
	suite.Equal("mine, edited", saved.CoupleData.Comments[0].Text)
	suite.True(saved.CoupleData.Comments[0].IsEdited)
}

func (suite *ExpenseServiceTestSuite) TestAddReaction_ReplacesPrior() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	expense.CoupleData.Reactions = []domain.Reaction{{UserID: testPartner2, Type: domain.ReactionLike}}
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()

	var saved domain.Expense
	suite.mockExpenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		saved = e
		return true
	})).Return(nil).Once()

	_, err := suite.service.AddReaction(context.Background(), "e1", testPartner2, "LOVE")

	suite.Require().NoError(err)
	// One reaction per user: the LIKE was replaced, not duplicated.
	suite.Require().Len(saved.CoupleData.Reactions, 1)
	suite.Equal(domain.ReactionLove, saved.CoupleData.Reactions[0].Type)
}

func (suite *ExpenseServiceTestSuite) TestAddReaction_UnknownTypeRejected() {
	_, err := suite.service.AddReaction(context.Background(), "e1", testPartner1, "MEH")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "FindExpenseByID")
}

func (suite *ExpenseServiceTestSuite) TestRemoveReaction_NoneToRemove() {
	expense := coupleExpense("e1", domain.ExpenseShared)
	suite.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "e1").Return(expense, nil).Once()
	suite.expectAccount()
	suite.mockSettingsRepo.On("FindByAccountID", mock.Anything, testAccountID).Return(baseSettings(), nil).Once()

	_, err := suite.service.RemoveReaction(context.Background(), "e1", testPartner1)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
