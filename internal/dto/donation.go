package dto

import (
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordDonationRequest is the payload for recording an incoming donation.
type RecordDonationRequest struct {
	DonorID     string          `json:"donorID" binding:"required"`
	CharityID   string          `json:"charityID" binding:"required"`
	GrossAmount decimal.Decimal `json:"grossAmount" binding:"required,gt=0"`
	Notes       string          `json:"notes,omitempty"`
}

// RejectDonationRequest is the payload for rejecting a pending donation.
type RejectDonationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundDonationRequest is the payload for refunding a verified donation.
type RefundDonationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FeePreviewResponse reports the fee breakdown for a prospective donation
// amount, before anything is recorded.
type FeePreviewResponse struct {
	GrossAmount         decimal.Decimal `json:"grossAmount"`
	PlatformFee         decimal.Decimal `json:"platformFee"`
	FacilitatorFee      decimal.Decimal `json:"facilitatorFee"`
	ProcessingFee       decimal.Decimal `json:"processingFee"`
	TotalFees           decimal.Decimal `json:"totalFees"`
	NetAmount           decimal.Decimal `json:"netAmount"`
	FeeStructureVersion string          `json:"feeStructureVersion"`
}

// DonationResponse is the API representation of a donation.
type DonationResponse struct {
	DonationID          string                    `json:"donationID"`
	DonorID             string                    `json:"donorID"`
	CharityID           string                    `json:"charityID"`
	GrossAmount         decimal.Decimal           `json:"grossAmount"`
	PlatformFee         decimal.Decimal           `json:"platformFee"`
	FacilitatorFee      decimal.Decimal           `json:"facilitatorFee"`
	ProcessingFee       decimal.Decimal           `json:"processingFee"`
	NetAmount           decimal.Decimal           `json:"netAmount"`
	NightsFunded        int                       `json:"nightsFunded"`
	AvgNightlyRate      decimal.Decimal           `json:"avgNightlyRate"`
	FeeStructureVersion string                    `json:"feeStructureVersion"`
	Status              domain.DonationStatus     `json:"status"`
	VerificationStatus  domain.VerificationStatus `json:"verificationStatus"`
	VerifiedAt          *time.Time                `json:"verifiedAt,omitempty"`
	VerifiedBy          string                    `json:"verifiedBy,omitempty"`
	LedgerTransactionID string                    `json:"ledgerTransactionID,omitempty"`
	Notes               string                    `json:"notes,omitempty"`
	CreatedAt           time.Time                 `json:"createdAt"`
	LastUpdatedAt       time.Time                 `json:"lastUpdatedAt"`
}

// ToDonationResponse converts a domain donation to its API representation.
func ToDonationResponse(d domain.Donation) DonationResponse {
	return DonationResponse{
		DonationID:          d.DonationID,
		DonorID:             d.DonorID,
		CharityID:           d.CharityID,
		GrossAmount:         d.GrossAmount,
		PlatformFee:         d.PlatformFee,
		FacilitatorFee:      d.FacilitatorFee,
		ProcessingFee:       d.ProcessingFee,
		NetAmount:           d.NetAmount,
		NightsFunded:        d.NightsFunded,
		AvgNightlyRate:      d.AvgNightlyRate,
		FeeStructureVersion: d.FeeStructureVersion,
		Status:              d.Status,
		VerificationStatus:  d.VerificationStatus,
		VerifiedAt:          d.VerifiedAt,
		VerifiedBy:          d.VerifiedBy,
		LedgerTransactionID: d.LedgerTransactionID,
		Notes:               d.Notes,
		CreatedAt:           d.CreatedAt,
		LastUpdatedAt:       d.LastUpdatedAt,
	}
}

// ToDonationResponses converts a slice of domain donations.
func ToDonationResponses(donations []domain.Donation) []DonationResponse {
	out := make([]DonationResponse, len(donations))
	for i, d := range donations {
		out[i] = ToDonationResponse(d)
	}
	return out
}
