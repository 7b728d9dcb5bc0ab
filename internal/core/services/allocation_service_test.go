package services_test

import (
	"context"
	"testing"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/core/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FundingRepository ---
type MockFundingRepository struct {
	mock.Mock
}

var _ portsrepo.FundingRepositoryFacade = (*MockFundingRepository)(nil)

func (m *MockFundingRepository) SaveFunding(ctx context.Context, funding domain.SituationFunding) error {
	args := m.Called(ctx, funding)
	return args.Error(0)
}

func (m *MockFundingRepository) UpdateFunding(ctx context.Context, funding domain.SituationFunding) error {
	args := m.Called(ctx, funding)
	return args.Error(0)
}

func (m *MockFundingRepository) DeleteFunding(ctx context.Context, fundingID string) error {
	args := m.Called(ctx, fundingID)
	return args.Error(0)
}

func (m *MockFundingRepository) FindFundingByID(ctx context.Context, fundingID string) (*domain.SituationFunding, error) {
	args := m.Called(ctx, fundingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SituationFunding), args.Error(1)
}

func (m *MockFundingRepository) FindFundingsByDonationID(ctx context.Context, donationID string) ([]domain.SituationFunding, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SituationFunding), args.Error(1)
}

func (m *MockFundingRepository) FindFundingsBySituationID(ctx context.Context, situationID string) ([]domain.SituationFunding, error) {
	args := m.Called(ctx, situationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SituationFunding), args.Error(1)
}

func (m *MockFundingRepository) SumNightsAllocatedByDonation(ctx context.Context, donationID string) (int, error) {
	args := m.Called(ctx, donationID)
	return args.Int(0), args.Error(1)
}

func (m *MockFundingRepository) SumNightsUsedByDonation(ctx context.Context, donationID string) (int, error) {
	args := m.Called(ctx, donationID)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---
type AllocationServiceTestSuite struct {
	suite.Suite
	mockFundingRepo  *MockFundingRepository
	mockDonationRepo *MockDonationRepository
	mockLedgerSvc    *MockLedgerSvc
	service          *services.AllocationService
	userID           string
	charityID        string
}

func (suite *AllocationServiceTestSuite) SetupTest() {
	suite.mockFundingRepo = new(MockFundingRepository)
	suite.mockDonationRepo = new(MockDonationRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.service = services.NewAllocationService(suite.mockFundingRepo, suite.mockDonationRepo, suite.mockLedgerSvc)
	suite.userID = uuid.NewString()
	suite.charityID = uuid.NewString()
}

func (suite *AllocationServiceTestSuite) verifiedDonation() *domain.Donation {
	return &domain.Donation{
		DonationID:         uuid.NewString(),
		DonorID:            uuid.NewString(),
		CharityID:          suite.charityID,
		GrossAmount:        decimal.RequireFromString("100.00"),
		NetAmount:          decimal.RequireFromString("90.00"),
		NightsFunded:       6,
		AvgNightlyRate:     decimal.RequireFromString("15.00"),
		Status:             domain.DonationVerified,
		VerificationStatus: domain.VerificationVerified,
	}
}

// --- Test Cases ---

func (suite *AllocationServiceTestSuite) TestAllocate_Success() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	req := dto.AllocateFundingRequest{
		DonationID:  donation.DonationID,
		SituationID: uuid.NewString(),
		CharityID:   suite.charityID,
		Nights:      4,
	}
	txn := &domain.LedgerTransaction{TransactionID: uuid.NewString()}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockFundingRepo.On("SumNightsAllocatedByDonation", ctx, donation.DonationID).Return(0, nil).Once()
	suite.mockFundingRepo.On("SaveFunding", ctx, mock.AnythingOfType("domain.SituationFunding")).Return(nil).Once()
	suite.mockLedgerSvc.On("RecordAllocation", ctx, suite.userID, mock.AnythingOfType("domain.SituationFunding")).Return(txn, nil).Once()
	suite.mockFundingRepo.On("UpdateFunding", ctx, mock.AnythingOfType("domain.SituationFunding")).Return(nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.MatchedBy(func(d domain.Donation) bool {
		return d.Status == domain.DonationAllocated
	})).Return(nil).Once()

	funding, err := suite.service.Allocate(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(funding)
	suite.Equal(4, funding.NightsAllocated)
	suite.True(funding.AmountAllocated.Equal(decimal.RequireFromString("60.00")),
		"amount allocated: got %s", funding.AmountAllocated)
	suite.Equal(txn.TransactionID, funding.LedgerTransactionID)
	suite.Equal(suite.userID, funding.AllocatedBy)

	suite.mockFundingRepo.AssertExpectations(suite.T())
	suite.mockDonationRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestAllocate_CharityMismatch() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	req := dto.AllocateFundingRequest{
		DonationID:  donation.DonationID,
		SituationID: uuid.NewString(),
		CharityID:   uuid.NewString(),
		Nights:      1,
	}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()

	_, err := suite.service.Allocate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFundingRepo.AssertNotCalled(suite.T(), "SaveFunding", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestAllocate_PendingDonation() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	donation.Status = domain.DonationPending
	req := dto.AllocateFundingRequest{
		DonationID:  donation.DonationID,
		SituationID: uuid.NewString(),
		CharityID:   suite.charityID,
		Nights:      1,
	}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()

	_, err := suite.service.Allocate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AllocationServiceTestSuite) TestAllocate_OverCapacity() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	req := dto.AllocateFundingRequest{
		DonationID:  donation.DonationID,
		SituationID: uuid.NewString(),
		CharityID:   suite.charityID,
		Nights:      3,
	}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockFundingRepo.On("SumNightsAllocatedByDonation", ctx, donation.DonationID).Return(4, nil).Once()

	_, err := suite.service.Allocate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockFundingRepo.AssertNotCalled(suite.T(), "SaveFunding", mock.Anything, mock.Anything)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordAllocation", mock.Anything, mock.Anything, mock.Anything)
}

// A failed ledger posting must not leave a funding row consuming the
// donation's capacity.
func (suite *AllocationServiceTestSuite) TestAllocate_LedgerFailureReleasesFunding() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	req := dto.AllocateFundingRequest{
		DonationID:  donation.DonationID,
		SituationID: uuid.NewString(),
		CharityID:   suite.charityID,
		Nights:      4,
	}

	var savedID string
	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockFundingRepo.On("SumNightsAllocatedByDonation", ctx, donation.DonationID).Return(0, nil).Once()
	suite.mockFundingRepo.On("SaveFunding", ctx, mock.AnythingOfType("domain.SituationFunding")).
		Run(func(args mock.Arguments) {
			savedID = args.Get(1).(domain.SituationFunding).FundingID
		}).
		Return(nil).Once()
	suite.mockLedgerSvc.On("RecordAllocation", ctx, suite.userID, mock.AnythingOfType("domain.SituationFunding")).
		Return(nil, assert.AnError).Once()
	suite.mockFundingRepo.On("DeleteFunding", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	_, err := suite.service.Allocate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.mockFundingRepo.AssertCalled(suite.T(), "DeleteFunding", ctx, savedID)
	suite.mockFundingRepo.AssertNotCalled(suite.T(), "UpdateFunding", mock.Anything, mock.Anything)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "UpdateDonation", mock.Anything, mock.Anything)
}

func (suite *AllocationServiceTestSuite) TestRecordUsage_UpdatesDonationStatus() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	donation.Status = domain.DonationAllocated
	funding := &domain.SituationFunding{
		FundingID:       uuid.NewString(),
		DonationID:      donation.DonationID,
		SituationID:     uuid.NewString(),
		CharityID:       suite.charityID,
		NightsAllocated: 4,
		NightsUsed:      0,
	}
	req := dto.RecordUsageRequest{Nights: 2, Explanation: "two nights at the downtown shelter"}

	suite.mockFundingRepo.On("FindFundingByID", ctx, funding.FundingID).Return(funding, nil).Once()
	suite.mockFundingRepo.On("UpdateFunding", ctx, mock.AnythingOfType("domain.SituationFunding")).Return(nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockFundingRepo.On("SumNightsUsedByDonation", ctx, donation.DonationID).Return(2, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.MatchedBy(func(d domain.Donation) bool {
		return d.Status == domain.DonationPartiallyUsed
	})).Return(nil).Once()

	updated, err := suite.service.RecordUsage(ctx, suite.userID, funding.FundingID, req)

	suite.Require().NoError(err)
	suite.Equal(2, updated.NightsUsed)
	suite.Contains(updated.UsageExplanation, "downtown shelter")
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *AllocationServiceTestSuite) TestRecordUsage_FullConsumptionMarksFullyUsed() {
	ctx := context.Background()
	donation := suite.verifiedDonation()
	donation.Status = domain.DonationPartiallyUsed
	funding := &domain.SituationFunding{
		FundingID:       uuid.NewString(),
		DonationID:      donation.DonationID,
		NightsAllocated: 6,
		NightsUsed:      4,
	}
	req := dto.RecordUsageRequest{Nights: 2}

	suite.mockFundingRepo.On("FindFundingByID", ctx, funding.FundingID).Return(funding, nil).Once()
	suite.mockFundingRepo.On("UpdateFunding", ctx, mock.AnythingOfType("domain.SituationFunding")).Return(nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockFundingRepo.On("SumNightsUsedByDonation", ctx, donation.DonationID).Return(6, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.MatchedBy(func(d domain.Donation) bool {
		return d.Status == domain.DonationFullyUsed
	})).Return(nil).Once()

	updated, err := suite.service.RecordUsage(ctx, suite.userID, funding.FundingID, req)

	suite.Require().NoError(err)
	suite.Equal(6, updated.NightsUsed)
	suite.Equal(0, updated.NightsRemaining())
}

func (suite *AllocationServiceTestSuite) TestRecordUsage_RejectsOverconsumption() {
	ctx := context.Background()
	funding := &domain.SituationFunding{
		FundingID:       uuid.NewString(),
		DonationID:      uuid.NewString(),
		NightsAllocated: 4,
		NightsUsed:      3,
	}
	req := dto.RecordUsageRequest{Nights: 2}

	suite.mockFundingRepo.On("FindFundingByID", ctx, funding.FundingID).Return(funding, nil).Once()

	_, err := suite.service.RecordUsage(ctx, suite.userID, funding.FundingID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockFundingRepo.AssertNotCalled(suite.T(), "UpdateFunding", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAllocationService(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
