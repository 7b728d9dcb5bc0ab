package services

import (
	"context"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// DonationSvcFacade covers the donation lifecycle: intake with fee and
// nights calculation, verification, rejection and refunds.
type DonationSvcFacade interface {
	// CalculateFees computes the fee breakdown for a gross amount without
	// recording anything.
	CalculateFees(grossAmount decimal.Decimal) (accounting.FeeBreakdown, error)

	RecordDonation(ctx context.Context, userID string, req dto.RecordDonationRequest) (*domain.Donation, error)
	GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)
	ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error)
	ListPendingVerification(ctx context.Context) ([]domain.Donation, error)

	// VerifyDonation marks the donation verified and posts it to the ledger.
	// A ledger failure does not undo the verification; the posting is queued
	// for retry.
	VerifyDonation(ctx context.Context, userID string, donationID string) (*domain.Donation, error)
	RejectDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error)
	RefundDonation(ctx context.Context, userID string, donationID string, reason string) (*domain.Donation, error)

	// RetryPendingLedgerPostings drains the outbox of donations verified
	// without a ledger transaction. Returns the number posted.
	RetryPendingLedgerPostings(ctx context.Context) (int, error)
}
