package services

import (
	"context"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/dto"
)

// AllocationSvcFacade assigns verified donation nights to housing situations
// and tracks their consumption.
type AllocationSvcFacade interface {
	// Allocate commits nights from a donation to a situation. Fails when the
	// donation is not allocatable, belongs to another charity, or has fewer
	// nights remaining than requested.
	Allocate(ctx context.Context, userID string, req dto.AllocateFundingRequest) (*domain.SituationFunding, error)

	// RecordUsage consumes nights on an allocation and recomputes the
	// donation's usage status.
	RecordUsage(ctx context.Context, userID string, fundingID string, req dto.RecordUsageRequest) (*domain.SituationFunding, error)

	GetFundingByID(ctx context.Context, fundingID string) (*domain.SituationFunding, error)
	GetFundingsByDonation(ctx context.Context, donationID string) ([]domain.SituationFunding, error)
	GetFundingsBySituation(ctx context.Context, situationID string) ([]domain.SituationFunding, error)
}
