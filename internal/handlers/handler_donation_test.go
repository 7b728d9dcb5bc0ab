package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/handlers"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DonationService ---
type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) CalculateFees(grossAmount decimal.Decimal) (accounting.FeeBreakdown, error) {
	args := m.Called(grossAmount)
	return args.Get(0).(accounting.FeeBreakdown), args.Error(1)
}
func (m *MockDonationService) RecordDonation(ctx context.Context, userID string, req dto.RecordDonationRequest) (*domain.Donation, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}
func (m *MockDonationService) ListPendingVerification(ctx context.Context) ([]domain.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}
func (m *MockDonationService) VerifyDonation(ctx context.Context, userID string, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, userID, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) RejectDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error) {
	args := m.Called(ctx, userID, donationID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) RefundDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error) {
	args := m.Called(ctx, userID, donationID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}
func (m *MockDonationService) RetryPendingLedgerPostings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.DonationSvcFacade = (*MockDonationService)(nil)

// --- Test Suite ---
type DonationHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockDonationService *MockDonationService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *DonationHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ssa-test",
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

func (suite *DonationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockDonationService = new(MockDonationService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterDonationRoutes(v1, suite.mockDonationService)
}

// --- Test Cases ---

func (suite *DonationHandlerTestSuite) TestRecordDonation_Success() {
	userID := uuid.NewString()
	charityID := uuid.NewString()
	reqBody := dto.RecordDonationRequest{
		DonorID:     uuid.NewString(),
		CharityID:   charityID,
		GrossAmount: decimal.RequireFromString("100.00"),
	}
	expected := &domain.Donation{
		DonationID:         uuid.NewString(),
		DonorID:            reqBody.DonorID,
		CharityID:          charityID,
		GrossAmount:        reqBody.GrossAmount,
		PlatformFee:        decimal.RequireFromString("7.00"),
		FacilitatorFee:     decimal.RequireFromString("3.00"),
		NetAmount:          decimal.RequireFromString("90.00"),
		NightsFunded:       2,
		Status:             domain.DonationPending,
		VerificationStatus: domain.VerificationPending,
	}

	suite.mockDonationService.On("RecordDonation",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.MatchedBy(func(r dto.RecordDonationRequest) bool {
			return r.CharityID == charityID && r.GrossAmount.Equal(reqBody.GrossAmount)
		}),
	).Return(expected, nil).Once()

	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/donations", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.DonationResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(expected.DonationID, responseBody.DonationID)
	suite.Equal(domain.DonationPending, responseBody.Status)
	suite.Equal(2, responseBody.NightsFunded)

	suite.mockDonationService.AssertExpectations(suite.T())
}

func (suite *DonationHandlerTestSuite) TestRecordDonation_MissingToken() {
	reqBody := dto.RecordDonationRequest{
		DonorID:     uuid.NewString(),
		CharityID:   uuid.NewString(),
		GrossAmount: decimal.RequireFromString("100.00"),
	}
	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/donations", bytes.NewReader(body))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "RecordDonation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationHandlerTestSuite) TestVerifyDonation_Conflict() {
	userID := uuid.NewString()
	donationID := uuid.NewString()

	suite.mockDonationService.On("VerifyDonation",
		mock.AnythingOfType("*context.valueCtx"), userID, donationID,
	).Return(nil, fmt.Errorf("%w: donation verification is already VERIFIED", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/donations/%s/verify", donationID)
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockDonationService.AssertExpectations(suite.T())
}

func (suite *DonationHandlerTestSuite) TestGetDonation_NotFound() {
	userID := uuid.NewString()
	donationID := uuid.NewString()

	suite.mockDonationService.On("GetDonationByID",
		mock.AnythingOfType("*context.valueCtx"), donationID,
	).Return(nil, fmt.Errorf("%w: donation %s", apperrors.ErrNotFound, donationID)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/donations/"+donationID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DonationHandlerTestSuite) TestPreviewFees_Success() {
	userID := uuid.NewString()
	gross := decimal.RequireFromString("100.00")
	breakdown := accounting.CalculateFees(gross)

	suite.mockDonationService.On("CalculateFees",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(gross) }),
	).Return(breakdown, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/fees/preview?grossAmount=100.00", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody dto.FeePreviewResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err)
	suite.True(responseBody.PlatformFee.Equal(decimal.RequireFromString("7.00")))
	suite.True(responseBody.NetAmount.Equal(decimal.RequireFromString("90.00")))
	suite.Equal(accounting.FeeStructureVersion, responseBody.FeeStructureVersion)
}

func (suite *DonationHandlerTestSuite) TestRefundDonation_MissingReason() {
	userID := uuid.NewString()
	donationID := uuid.NewString()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/donations/"+donationID+"/refund", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDonationService.AssertNotCalled(suite.T(), "RefundDonation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestDonationHandler(t *testing.T) {
	suite.Run(t, new(DonationHandlerTestSuite))
}
