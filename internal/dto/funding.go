package dto

import (
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocateFundingRequest is the payload for allocating donation nights to a
// housing situation.
type AllocateFundingRequest struct {
	DonationID  string `json:"donationID" binding:"required"`
	SituationID string `json:"situationID" binding:"required"`
	CharityID   string `json:"charityID" binding:"required"`
	Nights      int    `json:"nights" binding:"required,gt=0"`
}

// RecordUsageRequest is the payload for recording consumed nights on an
// allocation.
type RecordUsageRequest struct {
	Nights      int    `json:"nights" binding:"required,gt=0"`
	Explanation string `json:"explanation" binding:"required"`
}

// FundingResponse is the API representation of a fund allocation.
type FundingResponse struct {
	FundingID           string          `json:"fundingID"`
	DonationID          string          `json:"donationID"`
	SituationID         string          `json:"situationID"`
	CharityID           string          `json:"charityID"`
	AmountAllocated     decimal.Decimal `json:"amountAllocated"`
	NightsAllocated     int             `json:"nightsAllocated"`
	NightsUsed          int             `json:"nightsUsed"`
	NightsRemaining     int             `json:"nightsRemaining"`
	UsageExplanation    string          `json:"usageExplanation,omitempty"`
	LedgerTransactionID string          `json:"ledgerTransactionID,omitempty"`
	AllocatedAt         time.Time       `json:"allocatedAt"`
	AllocatedBy         string          `json:"allocatedBy"`
}

// ToFundingResponse converts a domain funding to its API representation.
func ToFundingResponse(f domain.SituationFunding) FundingResponse {
	return FundingResponse{
		FundingID:           f.FundingID,
		DonationID:          f.DonationID,
		SituationID:         f.SituationID,
		CharityID:           f.CharityID,
		AmountAllocated:     f.AmountAllocated,
		NightsAllocated:     f.NightsAllocated,
		NightsUsed:          f.NightsUsed,
		NightsRemaining:     f.NightsRemaining(),
		UsageExplanation:    f.UsageExplanation,
		LedgerTransactionID: f.LedgerTransactionID,
		AllocatedAt:         f.AllocatedAt,
		AllocatedBy:         f.AllocatedBy,
	}
}

// ToFundingResponses converts a slice of domain fundings.
func ToFundingResponses(fundings []domain.SituationFunding) []FundingResponse {
	out := make([]FundingResponse, len(fundings))
	for i, f := range fundings {
		out[i] = ToFundingResponse(f)
	}
	return out
}
