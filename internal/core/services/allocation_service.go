package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationService assigns verified donation nights to housing situations
// and tracks their consumption.
type AllocationService struct {
	fundingRepo  portsrepo.FundingRepositoryFacade
	donationRepo portsrepo.DonationRepositoryFacade
	ledgerSvc    portssvc.LedgerSvcFacade
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(
	fundingRepo portsrepo.FundingRepositoryFacade,
	donationRepo portsrepo.DonationRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) *AllocationService {
	return &AllocationService{
		fundingRepo:  fundingRepo,
		donationRepo: donationRepo,
		ledgerSvc:    ledgerSvc,
	}
}

// allocatable donation states: verified and not yet exhausted.
func isAllocatable(status domain.DonationStatus) bool {
	switch status {
	case domain.DonationVerified, domain.DonationAllocated, domain.DonationPartiallyUsed:
		return true
	}
	return false
}

// Allocate commits nights from a donation to a situation and posts the fund
// movement to the ledger.
func (s *AllocationService) Allocate(ctx context.Context, userID string, req dto.AllocateFundingRequest) (*domain.SituationFunding, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	donation, err := s.donationRepo.FindDonationByID(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}
	if donation.CharityID != req.CharityID {
		return nil, fmt.Errorf("%w: donation belongs to a different charity", apperrors.ErrValidation)
	}
	if !isAllocatable(donation.Status) {
		return nil, fmt.Errorf("%w: donation %s is %s and cannot be allocated", apperrors.ErrConflict, donation.DonationID, donation.Status)
	}

	alreadyAllocated, err := s.fundingRepo.SumNightsAllocatedByDonation(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}
	remaining := donation.NightsFunded - alreadyAllocated
	if req.Nights > remaining {
		return nil, fmt.Errorf("%w: donation %s has %d nights remaining, %d requested", apperrors.ErrConflict, donation.DonationID, remaining, req.Nights)
	}

	now := time.Now()
	funding := domain.SituationFunding{
		FundingID:       uuid.NewString(),
		DonationID:      req.DonationID,
		SituationID:     req.SituationID,
		CharityID:       req.CharityID,
		AmountAllocated: donation.AvgNightlyRate.Mul(decimal.NewFromInt(int64(req.Nights))).Round(2),
		NightsAllocated: req.Nights,
		AllocatedAt:     now,
		AllocatedBy:     userID,
	}
	if err := s.fundingRepo.SaveFunding(ctx, funding); err != nil {
		return nil, err
	}

	txn, err := s.ledgerSvc.RecordAllocation(ctx, userID, funding)
	if err != nil {
		logger.Error("failed to post allocation to ledger", "fundingID", funding.FundingID, "error", err)
		// Release the capacity the unposted row would otherwise consume.
		if delErr := s.fundingRepo.DeleteFunding(ctx, funding.FundingID); delErr != nil {
			logger.Error("failed to release unposted allocation", "fundingID", funding.FundingID, "error", delErr)
		}
		return nil, err
	}
	funding.LedgerTransactionID = txn.TransactionID
	if err := s.fundingRepo.UpdateFunding(ctx, funding); err != nil {
		return nil, err
	}

	if donation.Status == domain.DonationVerified {
		donation.Status = domain.DonationAllocated
		donation.LastUpdatedAt = now
		donation.LastUpdatedBy = userID
		if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
			return nil, err
		}
	}

	logger.Info("nights allocated",
		"fundingID", funding.FundingID, "donationID", req.DonationID,
		"situationID", req.SituationID, "nights", req.Nights)
	return &funding, nil
}

// RecordUsage consumes nights on an allocation and keeps the donation's usage
// status in step with its total consumption.
func (s *AllocationService) RecordUsage(ctx context.Context, userID string, fundingID string, req dto.RecordUsageRequest) (*domain.SituationFunding, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	funding, err := s.fundingRepo.FindFundingByID(ctx, fundingID)
	if err != nil {
		return nil, err
	}
	if req.Nights > funding.NightsRemaining() {
		return nil, fmt.Errorf("%w: allocation %s has %d nights remaining, %d requested", apperrors.ErrConflict, fundingID, funding.NightsRemaining(), req.Nights)
	}

	funding.NightsUsed += req.Nights
	funding.UsageExplanation = appendNote(funding.UsageExplanation, req.Explanation)
	if err := s.fundingRepo.UpdateFunding(ctx, *funding); err != nil {
		return nil, err
	}

	donation, err := s.donationRepo.FindDonationByID(ctx, funding.DonationID)
	if err != nil {
		return nil, err
	}
	totalUsed, err := s.fundingRepo.SumNightsUsedByDonation(ctx, funding.DonationID)
	if err != nil {
		return nil, err
	}

	newStatus := donation.Status
	switch {
	case totalUsed >= donation.NightsFunded:
		newStatus = domain.DonationFullyUsed
	case totalUsed > 0:
		newStatus = domain.DonationPartiallyUsed
	}
	if newStatus != donation.Status {
		donation.Status = newStatus
		donation.LastUpdatedAt = time.Now()
		donation.LastUpdatedBy = userID
		if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
			return nil, err
		}
	}

	logger.Info("usage recorded",
		"fundingID", fundingID, "nights", req.Nights, "totalUsed", totalUsed, "donationStatus", newStatus)
	return funding, nil
}

// GetFundingByID fetches a single allocation.
func (s *AllocationService) GetFundingByID(ctx context.Context, fundingID string) (*domain.SituationFunding, error) {
	return s.fundingRepo.FindFundingByID(ctx, fundingID)
}

// GetFundingsByDonation returns all allocations of a donation.
func (s *AllocationService) GetFundingsByDonation(ctx context.Context, donationID string) ([]domain.SituationFunding, error) {
	return s.fundingRepo.FindFundingsByDonationID(ctx, donationID)
}

// GetFundingsBySituation returns all allocations funding a situation.
func (s *AllocationService) GetFundingsBySituation(ctx context.Context, situationID string) ([]domain.SituationFunding, error) {
	return s.fundingRepo.FindFundingsBySituationID(ctx, situationID)
}
