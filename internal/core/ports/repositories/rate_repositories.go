package repositories

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateRepositoryFacade defines persistence operations for nightly housing
// rates.
type RateRepositoryFacade interface {
	SaveRate(ctx context.Context, rate domain.NightlyRate) error
	ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error)

	// AverageActiveRate averages the rates active on the given date for the
	// charity's locations. Returns decimal.Zero with a nil error when the
	// charity has no active rate.
	AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error)
}
