package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/core/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

func (m *MockRateRepository) SaveRate(ctx context.Context, rate domain.NightlyRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NightlyRate), args.Error(1)
}

func (m *MockRateRepository) AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, charityID, on)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type RateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockRateRepository
	service      *services.RateService
	userID       string
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockRateRepository)
	suite.service = services.NewRateService(suite.mockRateRepo)
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *RateServiceTestSuite) TestCreateRate_Success() {
	ctx := context.Background()
	req := dto.CreateRateRequest{
		LocationID:    uuid.NewString(),
		CharityID:     uuid.NewString(),
		Rate:          decimal.RequireFromString("45.00"),
		EffectiveDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockRateRepo.On("SaveRate", ctx, mock.AnythingOfType("domain.NightlyRate")).Return(nil).Once()

	rate, err := suite.service.CreateRate(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.NotEmpty(rate.RateID)
	suite.Equal(req.CharityID, rate.CharityID)
	suite.True(rate.Rate.Equal(req.Rate))
	suite.Equal(suite.userID, rate.CreatedBy)
	suite.Nil(rate.EndDate)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestCreateRate_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateRateRequest{
		LocationID:    uuid.NewString(),
		CharityID:     uuid.NewString(),
		Rate:          decimal.Zero,
		EffectiveDate: time.Now(),
	}

	_, err := suite.service.CreateRate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRate", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestCreateRate_RejectsEndBeforeEffective() {
	ctx := context.Background()
	effective := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := effective.AddDate(0, 0, -1)
	req := dto.CreateRateRequest{
		LocationID:    uuid.NewString(),
		CharityID:     uuid.NewString(),
		Rate:          decimal.RequireFromString("45.00"),
		EffectiveDate: effective,
		EndDate:       &end,
	}

	_, err := suite.service.CreateRate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateServiceTestSuite) TestAverageActiveRate_PassesThrough() {
	ctx := context.Background()
	charityID := uuid.NewString()
	on := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	suite.mockRateRepo.On("AverageActiveRate", ctx, charityID, on).
		Return(decimal.RequireFromString("47.50"), nil).Once()

	avg, err := suite.service.AverageActiveRate(ctx, charityID, on)

	suite.Require().NoError(err)
	suite.True(avg.Equal(decimal.RequireFromString("47.50")))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestRateService(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
