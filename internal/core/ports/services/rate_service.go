package services

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/shopspring/decimal"
)

// RateSvcFacade manages nightly housing rates.
type RateSvcFacade interface {
	CreateRate(ctx context.Context, userID string, req dto.CreateRateRequest) (*domain.NightlyRate, error)
	ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error)

	// AverageActiveRate averages the charity's rates active on the given date.
	// Zero with a nil error when no rate is active.
	AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error)
}
