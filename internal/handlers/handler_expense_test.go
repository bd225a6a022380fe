package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/handlers"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
	"github.com/tandemfin/couple_finance_app/internal/utils/contextparse"
)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) CreateExpense(ctx context.Context, callerUserID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, callerUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) GetExpense(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, callerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) AddComment(ctx context.Context, expenseID, callerUserID, text string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, callerUserID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) EditComment(ctx context.Context, expenseID, commentID, callerUserID, text string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, commentID, callerUserID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) AddReaction(ctx context.Context, expenseID, callerUserID string, reactionType string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, callerUserID, reactionType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) RemoveReaction(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, callerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) ParseContext(ctx context.Context, text string) contextparse.Result {
	args := m.Called(ctx, text)
	return args.Get(0).(contextparse.Result)
}

// Ensure mock implements the interface
var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Test Suite ---
type ExpenseHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockExpenseService *MockExpenseService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ExpenseHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ExpenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockExpenseService = new(MockExpenseService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterExpenseRoutes(v1, suite.mockExpenseService)
}

func (suite *ExpenseHandlerTestSuite) doRequest(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

// --- Test Cases ---

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_Success() {
	userID := uuid.NewString()
	accountID := uuid.NewString()
	expenseID := uuid.NewString()

	reqBody := dto.CreateExpenseRequest{
		Description: "cena @pareja",
		Amount:      decimal.NewFromInt(60),
	}
	expected := &domain.Expense{
		ExpenseID:   expenseID,
		AccountID:   accountID,
		PaidBy:      userID,
		Description: "cena",
		Amount:      decimal.NewFromInt(60),
		Date:        time.Now(),
	}
	suite.mockExpenseService.On("CreateExpense", mock.Anything, userID, mock.MatchedBy(func(r dto.CreateExpenseRequest) bool {
		return r.Description == "cena @pareja"
	})).Return(expected, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/expenses", userID, reqBody)

	suite.Equal(http.StatusCreated, rec.Code)
	var resp dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(expenseID, resp.ExpenseID)
	suite.Equal("cena", resp.Description)
	suite.mockExpenseService.AssertExpectations(suite.T())
}

func (suite *ExpenseHandlerTestSuite) TestCreateExpense_NoRoute() {
	userID := uuid.NewString()
	reqBody := dto.CreateExpenseRequest{
		Description: "cena",
		Amount:      decimal.NewFromInt(60),
	}
	suite.mockExpenseService.On("CreateExpense", mock.Anything, userID, mock.Anything).
		Return(nil, apperrors.ErrValidation).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/expenses", userID, reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_HiddenGiftNotFound() {
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.mockExpenseService.On("GetExpense", mock.Anything, expenseID, userID).
		Return(nil, apperrors.ErrNotFound).Once()

	rec := suite.doRequest(http.MethodGet, "/api/v1/expenses/"+expenseID, userID, nil)

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *ExpenseHandlerTestSuite) TestGetExpense_Unauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/expenses/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *ExpenseHandlerTestSuite) TestAddComment_QuotaExhausted() {
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.mockExpenseService.On("AddComment", mock.Anything, expenseID, userID, "nice dinner").
		Return(nil, apperrors.ErrForbidden).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/expenses/"+expenseID+"/comments", userID, dto.AddCommentRequest{Text: "nice dinner"})

	suite.Equal(http.StatusForbidden, rec.Code)
}

func (suite *ExpenseHandlerTestSuite) TestAddReaction_UnknownType() {
	userID := uuid.NewString()
	expenseID := uuid.NewString()

	suite.mockExpenseService.On("AddReaction", mock.Anything, expenseID, userID, "MEH").
		Return(nil, apperrors.ErrValidation).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/expenses/"+expenseID+"/reactions", userID, dto.AddReactionRequest{Type: "MEH"})

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ExpenseHandlerTestSuite) TestParseContext() {
	userID := uuid.NewString()

	suite.mockExpenseService.On("ParseContext", mock.Anything, "cena @pareja").
		Return(contextparse.Result{
			Context:          contextparse.ContextCouple,
			CleanDescription: "cena",
			Confidence:       0.95,
		}).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/expenses/parse-context", userID, dto.ParseContextRequest{Text: "cena @pareja"})

	suite.Equal(http.StatusOK, rec.Code)
	var resp dto.ParsedContextResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(contextparse.ContextCouple, resp.Context)
	suite.Equal("cena", resp.CleanDescription)
	suite.InDelta(0.95, resp.Confidence, 1e-9)
}

func TestExpenseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseHandlerTestSuite))
}
