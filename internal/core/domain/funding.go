package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SituationFunding links a donation to an anonymized situation. Invariants:
// NightsUsed <= NightsAllocated, and across all fundings of one donation
// sum(NightsAllocated) <= donation.NightsFunded.
type SituationFunding struct {
	FundingID           string          `json:"fundingID"`
	DonationID          string          `json:"donationID"`
	SituationID         string          `json:"situationID"` // Opaque id from the privacy layer
	CharityID           string          `json:"charityID"`
	AmountAllocated     decimal.Decimal `json:"amountAllocated"`
	NightsAllocated     int             `json:"nightsAllocated"`
	NightsUsed          int             `json:"nightsUsed"` // Monotonically non-decreasing
	UsageExplanation    string          `json:"usageExplanation"`
	LedgerTransactionID string          `json:"ledgerTransactionID"` // Allocation transaction, "" until posted
	AllocatedAt         time.Time       `json:"allocatedAt"`
	AllocatedBy         string          `json:"allocatedBy"`
}

// NightsRemaining is how many allocated nights are still unused.
func (f *SituationFunding) NightsRemaining() int {
	return f.NightsAllocated - f.NightsUsed
}
