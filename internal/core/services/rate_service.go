package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateService manages negotiated nightly housing rates.
type RateService struct {
	rateRepo portsrepo.RateRepositoryFacade
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) *RateService {
	return &RateService{rateRepo: rateRepo}
}

// CreateRate publishes a nightly rate for a charity location.
func (s *RateService) CreateRate(ctx context.Context, userID string, req dto.CreateRateRequest) (*domain.NightlyRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if req.EndDate != nil && req.EndDate.Before(req.EffectiveDate) {
		return nil, fmt.Errorf("%w: end date must not precede the effective date", apperrors.ErrValidation)
	}

	rate := domain.NightlyRate{
		RateID:        uuid.NewString(),
		LocationID:    req.LocationID,
		CharityID:     req.CharityID,
		Rate:          req.Rate,
		EffectiveDate: req.EffectiveDate,
		EndDate:       req.EndDate,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     userID,
	}
	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		logger.Error("failed to create nightly rate", "locationID", req.LocationID, "error", err)
		return nil, err
	}
	logger.Info("nightly rate created", "rateID", rate.RateID, "charityID", rate.CharityID, "rate", rate.Rate)
	return &rate, nil
}

// ListRatesByCharity returns a charity's rates.
func (s *RateService) ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error) {
	return s.rateRepo.ListRatesByCharity(ctx, charityID)
}

// AverageActiveRate averages the charity's rates active on the given date.
// Zero with a nil error when no rate is active.
func (s *RateService) AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error) {
	return s.rateRepo.AverageActiveRate(ctx, charityID, on)
}
