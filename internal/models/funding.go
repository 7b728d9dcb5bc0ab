package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SituationFunding is the database representation of a donation-to-situation
// allocation.
type SituationFunding struct {
	FundingID           string
	DonationID          string
	SituationID         string
	CharityID           string
	AmountAllocated     decimal.Decimal
	NightsAllocated     int
	NightsUsed          int
	UsageExplanation    string
	LedgerTransactionID string
	AllocatedAt         time.Time
	AllocatedBy         string
}
