package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NightlyRate is a negotiated per-location rate with an effective window.
// The charity-wide average of active rates converts a donation's net amount
// into fundable nights.
type NightlyRate struct {
	RateID        string          `json:"rateID"`
	LocationID    string          `json:"locationID"`
	CharityID     string          `json:"charityID"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"` // nil means open-ended
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ActiveOn reports whether the rate applies on the given date.
func (r *NightlyRate) ActiveOn(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(r.EffectiveDate.Truncate(24 * time.Hour)) {
		return false
	}
	if r.EndDate != nil && day.After(r.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}
