package dto

import (
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateRequest is the payload for publishing a nightly housing rate.
type CreateRateRequest struct {
	LocationID    string          `json:"locationID" binding:"required"`
	CharityID     string          `json:"charityID" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required,gt=0"`
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// RateResponse is the API representation of a nightly rate.
type RateResponse struct {
	RateID        string          `json:"rateID"`
	LocationID    string          `json:"locationID"`
	CharityID     string          `json:"charityID"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToRateResponse converts a domain nightly rate to its API representation.
func ToRateResponse(r domain.NightlyRate) RateResponse {
	return RateResponse{
		RateID:        r.RateID,
		LocationID:    r.LocationID,
		CharityID:     r.CharityID,
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
		EndDate:       r.EndDate,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// ToRateResponses converts a slice of domain nightly rates.
func ToRateResponses(rates []domain.NightlyRate) []RateResponse {
	out := make([]RateResponse, len(rates))
	for i, r := range rates {
		out[i] = ToRateResponse(r)
	}
	return out
}

// AverageRateResponse reports the average active nightly rate for a charity.
type AverageRateResponse struct {
	CharityID   string          `json:"charityID"`
	AverageRate decimal.Decimal `json:"averageRate"`
	AsOf        time.Time       `json:"asOf"`
}
