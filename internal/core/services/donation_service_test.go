package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/core/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock DonationRepository ---
type MockDonationRepository struct {
	mock.Mock
}

var _ portsrepo.DonationRepositoryFacade = (*MockDonationRepository)(nil)

func (m *MockDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) UpdateDonation(ctx context.Context, donation domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListDonationsByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListPendingVerification(ctx context.Context) ([]domain.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

// --- Mock OutboxRepository ---
type MockOutboxRepository struct {
	mock.Mock
}

var _ portsrepo.OutboxRepositoryFacade = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) Enqueue(ctx context.Context, item domain.LedgerOutboxItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOutboxRepository) ListUnprocessed(ctx context.Context, limit int) ([]domain.LedgerOutboxItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerOutboxItem), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, outboxID string, now time.Time) error {
	args := m.Called(ctx, outboxID, now)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, outboxID string, lastError string, now time.Time) error {
	args := m.Called(ctx, outboxID, lastError, now)
	return args.Error(0)
}

// --- Mock LedgerService (as used by DonationService and AllocationService) ---
type MockLedgerSvc struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerSvc)(nil)

func (m *MockLedgerSvc) EnsureSystemAccounts(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockLedgerSvc) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerSvc) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerSvc) GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerSvc) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerSvc) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

func (m *MockLedgerSvc) GetOrCreateCharityFundAccount(ctx context.Context, userID string, charityID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerSvc) RecordDonationReceived(ctx context.Context, userID string, donation domain.Donation) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, userID, donation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) RecordAllocation(ctx context.Context, userID string, funding domain.SituationFunding) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, userID, funding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) RecordDisbursement(ctx context.Context, userID string, req dto.RecordDisbursementRequest) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) RecordRefund(ctx context.Context, userID string, donation domain.Donation, reason string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, userID, donation, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) GetTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) GetTransactionsByReference(ctx context.Context, referenceType, referenceID string) ([]domain.LedgerTransaction, error) {
	args := m.Called(ctx, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerTransaction), args.Error(1)
}

func (m *MockLedgerSvc) GetAccountHistory(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerSvc) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerSvc) GetCharityAvailableFunds(ctx context.Context, charityID string) (decimal.Decimal, error) {
	args := m.Called(ctx, charityID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerSvc) GetTrialBalance(ctx context.Context) (dto.TrialBalanceResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(dto.TrialBalanceResponse), args.Error(1)
}

// --- Mock RateService ---
type MockRateSvc struct {
	mock.Mock
}

var _ portssvc.RateSvcFacade = (*MockRateSvc)(nil)

func (m *MockRateSvc) CreateRate(ctx context.Context, userID string, req dto.CreateRateRequest) (*domain.NightlyRate, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NightlyRate), args.Error(1)
}

func (m *MockRateSvc) ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NightlyRate), args.Error(1)
}

func (m *MockRateSvc) AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, charityID, on)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type DonationServiceTestSuite struct {
	suite.Suite
	mockDonationRepo *MockDonationRepository
	mockOutboxRepo   *MockOutboxRepository
	mockLedgerSvc    *MockLedgerSvc
	mockRateSvc      *MockRateSvc
	service          *services.DonationService
	userID           string
	charityID        string
}

func (suite *DonationServiceTestSuite) SetupTest() {
	suite.mockDonationRepo = new(MockDonationRepository)
	suite.mockOutboxRepo = new(MockOutboxRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.mockRateSvc = new(MockRateSvc)
	suite.service = services.NewDonationService(suite.mockDonationRepo, suite.mockOutboxRepo, suite.mockLedgerSvc, suite.mockRateSvc)
	suite.userID = uuid.NewString()
	suite.charityID = uuid.NewString()
}

func (suite *DonationServiceTestSuite) pendingDonation() *domain.Donation {
	return &domain.Donation{
		DonationID:         uuid.NewString(),
		DonorID:            uuid.NewString(),
		CharityID:          suite.charityID,
		GrossAmount:        decimal.RequireFromString("100.00"),
		PlatformFee:        decimal.RequireFromString("7.00"),
		FacilitatorFee:     decimal.RequireFromString("3.00"),
		NetAmount:          decimal.RequireFromString("90.00"),
		NightsFunded:       2,
		AvgNightlyRate:     decimal.RequireFromString("45.00"),
		Status:             domain.DonationPending,
		VerificationStatus: domain.VerificationPending,
	}
}

// --- Test Cases ---

func (suite *DonationServiceTestSuite) TestRecordDonation_ComputesFeesAndNights() {
	ctx := context.Background()
	req := dto.RecordDonationRequest{
		DonorID:     uuid.NewString(),
		CharityID:   suite.charityID,
		GrossAmount: decimal.RequireFromString("100.00"),
	}

	suite.mockRateSvc.On("AverageActiveRate", ctx, suite.charityID, mock.AnythingOfType("time.Time")).
		Return(decimal.RequireFromString("45.00"), nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	donation, err := suite.service.RecordDonation(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(donation)
	suite.True(donation.PlatformFee.Equal(decimal.RequireFromString("7.00")))
	suite.True(donation.FacilitatorFee.Equal(decimal.RequireFromString("3.00")))
	suite.True(donation.NetAmount.Equal(decimal.RequireFromString("90.00")))
	suite.Equal(2, donation.NightsFunded)
	suite.Equal(domain.DonationPending, donation.Status)
	suite.Equal(domain.VerificationPending, donation.VerificationStatus)
	suite.NotEmpty(donation.FeeStructureVersion)
	suite.Empty(donation.LedgerTransactionID)

	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestRecordDonation_NoActiveRateMeansZeroNights() {
	ctx := context.Background()
	req := dto.RecordDonationRequest{
		DonorID:     uuid.NewString(),
		CharityID:   suite.charityID,
		GrossAmount: decimal.RequireFromString("100.00"),
	}

	suite.mockRateSvc.On("AverageActiveRate", ctx, suite.charityID, mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	donation, err := suite.service.RecordDonation(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Equal(0, donation.NightsFunded)
	suite.True(donation.AvgNightlyRate.IsZero())
}

func (suite *DonationServiceTestSuite) TestRecordDonation_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordDonationRequest{
		DonorID:     uuid.NewString(),
		CharityID:   suite.charityID,
		GrossAmount: decimal.RequireFromString("-5.00"),
	}

	_, err := suite.service.RecordDonation(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestVerifyDonation_PostsAndLinksTransaction() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	txn := &domain.LedgerTransaction{TransactionID: uuid.NewString(), TransactionCode: "TXN-20250301-00001"}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Twice()
	suite.mockLedgerSvc.On("RecordDonationReceived", ctx, suite.userID, mock.AnythingOfType("domain.Donation")).Return(txn, nil).Once()

	verified, err := suite.service.VerifyDonation(ctx, suite.userID, donation.DonationID)

	suite.Require().NoError(err)
	suite.Equal(domain.VerificationVerified, verified.VerificationStatus)
	suite.Equal(domain.DonationVerified, verified.Status)
	suite.Equal(txn.TransactionID, verified.LedgerTransactionID)
	suite.Equal(suite.userID, verified.VerifiedBy)
	suite.Require().NotNil(verified.VerifiedAt)

	suite.mockOutboxRepo.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything)
	suite.mockDonationRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestVerifyDonation_AlreadyDecided() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.VerificationStatus = domain.VerificationVerified

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()

	_, err := suite.service.VerifyDonation(ctx, suite.userID, donation.DonationID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "UpdateDonation", mock.Anything, mock.Anything)
}

// A ledger outage must not undo a verification. The posting is queued instead.
func (suite *DonationServiceTestSuite) TestVerifyDonation_LedgerFailureQueuesRetry() {
	ctx := context.Background()
	donation := suite.pendingDonation()

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()
	suite.mockLedgerSvc.On("RecordDonationReceived", ctx, suite.userID, mock.AnythingOfType("domain.Donation")).Return(nil, assert.AnError).Once()

	var queued domain.LedgerOutboxItem
	suite.mockOutboxRepo.On("Enqueue", ctx, mock.AnythingOfType("domain.LedgerOutboxItem")).
		Run(func(args mock.Arguments) {
			queued = args.Get(1).(domain.LedgerOutboxItem)
		}).
		Return(nil).Once()

	verified, err := suite.service.VerifyDonation(ctx, suite.userID, donation.DonationID)

	suite.Require().NoError(err)
	suite.Equal(domain.VerificationVerified, verified.VerificationStatus)
	suite.Empty(verified.LedgerTransactionID)
	suite.Equal(donation.DonationID, queued.DonationID)
	suite.Equal(suite.userID, queued.ActorID)
	suite.NotEmpty(queued.LastError)

	suite.mockOutboxRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestRejectDonation_PendingOnly() {
	ctx := context.Background()
	donation := suite.pendingDonation()

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	rejected, err := suite.service.RejectDonation(ctx, suite.userID, donation.DonationID, "payment bounced")

	suite.Require().NoError(err)
	suite.Equal(domain.VerificationRejected, rejected.VerificationStatus)
	suite.Equal(domain.DonationCancelled, rejected.Status)
	suite.Contains(rejected.Notes, "payment bounced")
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordDonationReceived", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestRefundDonation_Success() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.VerificationStatus = domain.VerificationVerified
	donation.Status = domain.DonationVerified
	donation.LedgerTransactionID = uuid.NewString()
	reversal := &domain.LedgerTransaction{TransactionID: uuid.NewString()}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockLedgerSvc.On("RecordRefund", ctx, suite.userID, mock.AnythingOfType("domain.Donation"), "donor request").Return(reversal, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	refunded, err := suite.service.RefundDonation(ctx, suite.userID, donation.DonationID, "donor request")

	suite.Require().NoError(err)
	suite.Equal(domain.DonationCancelled, refunded.Status)
	suite.Contains(refunded.Notes, "donor request")
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestRefundDonation_AfterAllocationPostsReversal() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.VerificationStatus = domain.VerificationVerified
	donation.Status = domain.DonationAllocated
	donation.LedgerTransactionID = uuid.NewString()
	reversal := &domain.LedgerTransaction{TransactionID: uuid.NewString()}

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockLedgerSvc.On("RecordRefund", ctx, suite.userID, mock.AnythingOfType("domain.Donation"), "chargeback").Return(reversal, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	refunded, err := suite.service.RefundDonation(ctx, suite.userID, donation.DonationID, "chargeback")

	suite.Require().NoError(err)
	suite.Equal(domain.DonationCancelled, refunded.Status)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestRefundDonation_CancelledCannotBeRefundedAgain() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.VerificationStatus = domain.VerificationVerified
	donation.Status = domain.DonationCancelled

	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()

	_, err := suite.service.RefundDonation(ctx, suite.userID, donation.DonationID, "twice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestRetryPendingLedgerPostings_PostsAndMarks() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.VerificationStatus = domain.VerificationVerified
	donation.Status = domain.DonationVerified
	actorID := uuid.NewString()
	item := domain.LedgerOutboxItem{OutboxID: uuid.NewString(), DonationID: donation.DonationID, ActorID: actorID}
	txn := &domain.LedgerTransaction{TransactionID: uuid.NewString()}

	suite.mockOutboxRepo.On("ListUnprocessed", ctx, 50).Return([]domain.LedgerOutboxItem{item}, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockLedgerSvc.On("RecordDonationReceived", ctx, actorID, mock.AnythingOfType("domain.Donation")).Return(txn, nil).Once()
	suite.mockDonationRepo.On("UpdateDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()
	suite.mockOutboxRepo.On("MarkProcessed", ctx, item.OutboxID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.RetryPendingLedgerPostings(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, posted)
	suite.mockOutboxRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestRetryPendingLedgerPostings_SkipsAlreadyPosted() {
	ctx := context.Background()
	donation := suite.pendingDonation()
	donation.LedgerTransactionID = uuid.NewString()
	item := domain.LedgerOutboxItem{OutboxID: uuid.NewString(), DonationID: donation.DonationID, ActorID: uuid.NewString()}

	suite.mockOutboxRepo.On("ListUnprocessed", ctx, 50).Return([]domain.LedgerOutboxItem{item}, nil).Once()
	suite.mockDonationRepo.On("FindDonationByID", ctx, donation.DonationID).Return(donation, nil).Once()
	suite.mockOutboxRepo.On("MarkProcessed", ctx, item.OutboxID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.RetryPendingLedgerPostings(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, posted)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordDonationReceived", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCalculateFees_RejectsNonPositive() {
	_, err := suite.service.CalculateFees(decimal.Zero)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestDonationService(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}
