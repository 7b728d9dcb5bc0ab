package repositories

import (
	"context"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
)

// DonationRepositoryFacade defines persistence operations for donations.
type DonationRepositoryFacade interface {
	SaveDonation(ctx context.Context, donation domain.Donation) error

	// UpdateDonation rewrites the mutable fields of an existing donation
	// (statuses, verification data, ledger transaction link, notes).
	UpdateDonation(ctx context.Context, donation domain.Donation) error

	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)
	ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error)
	ListDonationsByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error)
	ListPendingVerification(ctx context.Context) ([]domain.Donation, error)
}
