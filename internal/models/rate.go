package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NightlyRate is the database representation of a negotiated nightly rate.
type NightlyRate struct {
	RateID        string
	LocationID    string
	CharityID     string
	Rate          decimal.Decimal
	EffectiveDate time.Time
	EndDate       *time.Time
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string
}
