package repositories

import (
	"context"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
)

// FundingRepositoryFacade defines persistence operations for
// donation-to-situation fund allocations.
type FundingRepositoryFacade interface {
	SaveFunding(ctx context.Context, funding domain.SituationFunding) error
	UpdateFunding(ctx context.Context, funding domain.SituationFunding) error

	// DeleteFunding removes an allocation that never reached the ledger, so a
	// failed posting does not permanently consume the donation's capacity.
	DeleteFunding(ctx context.Context, fundingID string) error

	FindFundingByID(ctx context.Context, fundingID string) (*domain.SituationFunding, error)
	FindFundingsByDonationID(ctx context.Context, donationID string) ([]domain.SituationFunding, error)
	FindFundingsBySituationID(ctx context.Context, situationID string) ([]domain.SituationFunding, error)

	// SumNightsAllocatedByDonation returns the total nights already committed
	// across all allocations of the donation.
	SumNightsAllocatedByDonation(ctx context.Context, donationID string) (int, error)

	// SumNightsUsedByDonation returns the total nights consumed across all
	// allocations of the donation.
	SumNightsUsedByDonation(ctx context.Context, donationID string) (int, error)
}
