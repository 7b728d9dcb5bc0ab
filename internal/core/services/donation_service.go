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
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const outboxBatchSize = 50

// DonationService manages the donation lifecycle. Ledger posting happens on
// verification and is deliberately decoupled from it: once a donation is
// verified it stays verified, even if the ledger write fails and has to be
// retried from the outbox.
type DonationService struct {
	donationRepo portsrepo.DonationRepositoryFacade
	outboxRepo   portsrepo.OutboxRepositoryFacade
	ledgerSvc    portssvc.LedgerSvcFacade
	rateSvc      portssvc.RateSvcFacade
}

// NewDonationService creates a new DonationService.
func NewDonationService(
	donationRepo portsrepo.DonationRepositoryFacade,
	outboxRepo portsrepo.OutboxRepositoryFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	rateSvc portssvc.RateSvcFacade,
) *DonationService {
	return &DonationService{
		donationRepo: donationRepo,
		outboxRepo:   outboxRepo,
		ledgerSvc:    ledgerSvc,
		rateSvc:      rateSvc,
	}
}

// CalculateFees computes the fee breakdown for a gross amount without
// recording anything.
func (s *DonationService) CalculateFees(grossAmount decimal.Decimal) (accounting.FeeBreakdown, error) {
	if grossAmount.LessThanOrEqual(decimal.Zero) {
		return accounting.FeeBreakdown{}, fmt.Errorf("%w: gross amount must be positive", apperrors.ErrValidation)
	}
	return accounting.CalculateFees(grossAmount), nil
}

// RecordDonation captures an incoming donation: fees are computed, the
// charity's average nightly rate is snapshotted, and the fundable nights are
// derived. The donation starts PENDING and hits the ledger only once
// verified.
func (s *DonationService) RecordDonation(ctx context.Context, userID string, req dto.RecordDonationRequest) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if req.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: gross amount must be positive", apperrors.ErrValidation)
	}

	fees := accounting.CalculateFees(req.GrossAmount)
	now := time.Now()

	avgRate, err := s.rateSvc.AverageActiveRate(ctx, req.CharityID, now)
	if err != nil {
		return nil, err
	}
	nights := accounting.NightsFunded(fees.NetAmount, avgRate)
	if avgRate.LessThanOrEqual(decimal.Zero) {
		logger.Warn("charity has no active nightly rate, donation recorded with zero nights",
			"charityID", req.CharityID)
	}

	donation := domain.Donation{
		DonationID:          uuid.NewString(),
		DonorID:             req.DonorID,
		CharityID:           req.CharityID,
		GrossAmount:         req.GrossAmount,
		PlatformFee:         fees.PlatformFee,
		FacilitatorFee:      fees.FacilitatorFee,
		ProcessingFee:       fees.ProcessingFee,
		NetAmount:           fees.NetAmount,
		NightsFunded:        nights,
		AvgNightlyRate:      avgRate,
		Status:              domain.DonationPending,
		VerificationStatus:  domain.VerificationPending,
		FeeStructureVersion: accounting.FeeStructureVersion,
		DonatedAt:           now,
		Notes:               req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		logger.Error("failed to record donation", "donorID", req.DonorID, "error", err)
		return nil, err
	}
	logger.Info("donation recorded",
		"donationID", donation.DonationID, "charityID", donation.CharityID,
		"grossAmount", donation.GrossAmount, "nightsFunded", donation.NightsFunded)
	return &donation, nil
}

// GetDonationByID fetches a single donation.
func (s *DonationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	return s.donationRepo.FindDonationByID(ctx, donationID)
}

// ListDonationsByCharity returns a charity's donations.
func (s *DonationService) ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error) {
	return s.donationRepo.ListDonationsByCharity(ctx, charityID)
}

// ListPendingVerification returns donations awaiting verification.
func (s *DonationService) ListPendingVerification(ctx context.Context) ([]domain.Donation, error) {
	return s.donationRepo.ListPendingVerification(ctx)
}

// VerifyDonation marks the donation verified, then posts it to the ledger.
// The verification is committed first and never rolled back: if the posting
// fails the donation is queued in the outbox and retried later.
func (s *DonationService) VerifyDonation(ctx context.Context, userID string, donationID string) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.VerificationStatus != domain.VerificationPending {
		return nil, fmt.Errorf("%w: donation %s verification is already %s", apperrors.ErrConflict, donationID, donation.VerificationStatus)
	}

	now := time.Now()
	donation.VerificationStatus = domain.VerificationVerified
	donation.Status = domain.DonationVerified
	donation.VerifiedAt = &now
	donation.VerifiedBy = userID
	donation.LastUpdatedAt = now
	donation.LastUpdatedBy = userID
	if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
		return nil, err
	}
	logger.Info("donation verified", "donationID", donationID, "verifiedBy", userID)

	txn, postErr := s.ledgerSvc.RecordDonationReceived(ctx, userID, *donation)
	if postErr != nil {
		logger.Error("ledger posting failed after verification, queueing for retry",
			"donationID", donationID, "error", postErr)
		item := domain.LedgerOutboxItem{
			OutboxID:   uuid.NewString(),
			DonationID: donationID,
			ActorID:    userID,
			LastError:  postErr.Error(),
			CreatedAt:  now,
		}
		if enqErr := s.outboxRepo.Enqueue(ctx, item); enqErr != nil {
			logger.Error("failed to enqueue ledger posting retry", "donationID", donationID, "error", enqErr)
		}
		return donation, nil
	}

	donation.LedgerTransactionID = txn.TransactionID
	donation.LastUpdatedAt = time.Now()
	if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
		logger.Error("failed to link ledger transaction to donation",
			"donationID", donationID, "transactionID", txn.TransactionID, "error", err)
		return nil, err
	}
	return donation, nil
}

// RejectDonation declines a pending donation. Rejected donations never reach
// the ledger.
func (s *DonationService) RejectDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.VerificationStatus != domain.VerificationPending {
		return nil, fmt.Errorf("%w: donation %s verification is already %s", apperrors.ErrConflict, donationID, donation.VerificationStatus)
	}

	now := time.Now()
	donation.VerificationStatus = domain.VerificationRejected
	donation.Status = domain.DonationCancelled
	donation.Notes = appendNote(donation.Notes, "Rejected: "+reason)
	donation.LastUpdatedAt = now
	donation.LastUpdatedBy = userID
	if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
		return nil, err
	}
	logger.Info("donation rejected", "donationID", donationID, "reason", reason)
	return donation, nil
}

// RefundDonation refunds a verified donation, reversing its original ledger
// posting and cancelling it. Allocations made from the donation are not
// unwound here; the reversal leaves the charity fund account carrying the
// shortfall until the operator resolves the outstanding allocations.
func (s *DonationService) RefundDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.VerificationStatus != domain.VerificationVerified {
		return nil, fmt.Errorf("%w: only verified donations can be refunded", apperrors.ErrConflict)
	}
	if donation.Status == domain.DonationCancelled {
		return nil, fmt.Errorf("%w: donation %s is already cancelled", apperrors.ErrConflict, donationID)
	}

	if _, err := s.ledgerSvc.RecordRefund(ctx, userID, *donation, reason); err != nil {
		return nil, err
	}

	now := time.Now()
	donation.Status = domain.DonationCancelled
	donation.Notes = appendNote(donation.Notes, "Refunded: "+reason)
	donation.LastUpdatedAt = now
	donation.LastUpdatedBy = userID
	if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
		return nil, err
	}
	logger.Info("donation refunded", "donationID", donationID, "grossAmount", donation.GrossAmount)
	return donation, nil
}

// RetryPendingLedgerPostings drains the outbox of donations that verified
// without a ledger transaction. Returns the number successfully posted.
func (s *DonationService) RetryPendingLedgerPostings(ctx context.Context) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	items, err := s.outboxRepo.ListUnprocessed(ctx, outboxBatchSize)
	if err != nil {
		return 0, err
	}

	posted := 0
	for _, item := range items {
		donation, err := s.donationRepo.FindDonationByID(ctx, item.DonationID)
		if err != nil {
			logger.Error("outbox item references unknown donation", "donationID", item.DonationID, "error", err)
			if markErr := s.outboxRepo.MarkFailed(ctx, item.OutboxID, err.Error(), time.Now()); markErr != nil {
				logger.Error("failed to mark outbox item", "outboxID", item.OutboxID, "error", markErr)
			}
			continue
		}
		if donation.LedgerTransactionID != "" {
			// Posted through another path; nothing left to do.
			if err := s.outboxRepo.MarkProcessed(ctx, item.OutboxID, time.Now()); err != nil {
				logger.Error("failed to mark outbox item processed", "outboxID", item.OutboxID, "error", err)
			}
			continue
		}

		txn, postErr := s.ledgerSvc.RecordDonationReceived(ctx, item.ActorID, *donation)
		if postErr != nil {
			logger.Error("ledger posting retry failed", "donationID", item.DonationID, "error", postErr)
			if markErr := s.outboxRepo.MarkFailed(ctx, item.OutboxID, postErr.Error(), time.Now()); markErr != nil {
				logger.Error("failed to mark outbox item", "outboxID", item.OutboxID, "error", markErr)
			}
			continue
		}

		donation.LedgerTransactionID = txn.TransactionID
		donation.LastUpdatedAt = time.Now()
		if err := s.donationRepo.UpdateDonation(ctx, *donation); err != nil {
			logger.Error("failed to link ledger transaction to donation",
				"donationID", item.DonationID, "transactionID", txn.TransactionID, "error", err)
			continue
		}
		if err := s.outboxRepo.MarkProcessed(ctx, item.OutboxID, time.Now()); err != nil {
			logger.Error("failed to mark outbox item processed", "outboxID", item.OutboxID, "error", err)
		}
		posted++
	}
	if posted > 0 {
		logger.Info("ledger posting retries completed", "posted", posted, "attempted", len(items))
	}
	return posted, nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
