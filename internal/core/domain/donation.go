package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus is the allocation lifecycle of a donation.
// Pending -> Verified -> Allocated -> PartiallyUsed -> FullyUsed, with
// Cancelled reachable from Pending or Verified via rejection/refund.
type DonationStatus string

const (
	DonationPending       DonationStatus = "PENDING"
	DonationVerified      DonationStatus = "VERIFIED"
	DonationAllocated     DonationStatus = "ALLOCATED"
	DonationPartiallyUsed DonationStatus = "PARTIALLY_USED"
	DonationFullyUsed     DonationStatus = "FULLY_USED"
	DonationCancelled     DonationStatus = "CANCELLED"
)

// VerificationStatus tracks verification independently of allocation.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Donation is a verified gift to a charity. Invariant:
// PlatformFee + FacilitatorFee + ProcessingFee + NetAmount == GrossAmount,
// exact after rounding.
type Donation struct {
	DonationID          string             `json:"donationID"`
	DonorID             string             `json:"donorID"`
	CharityID           string             `json:"charityID"`
	GrossAmount         decimal.Decimal    `json:"grossAmount"`
	PlatformFee         decimal.Decimal    `json:"platformFee"`
	FacilitatorFee      decimal.Decimal    `json:"facilitatorFee"`
	ProcessingFee       decimal.Decimal    `json:"processingFee"` // Reserved, currently always zero
	NetAmount           decimal.Decimal    `json:"netAmount"`
	NightsFunded        int                `json:"nightsFunded"`
	AvgNightlyRate      decimal.Decimal    `json:"avgNightlyRate"` // Charity average rate snapshotted at donation time
	Status              DonationStatus     `json:"status"`
	VerificationStatus  VerificationStatus `json:"verificationStatus"`
	FeeStructureVersion string             `json:"feeStructureVersion"`
	LedgerTransactionID string             `json:"ledgerTransactionID"` // Set once the receipt posts to the ledger
	DonatedAt           time.Time          `json:"donatedAt"`
	VerifiedAt          *time.Time         `json:"verifiedAt,omitempty"`
	VerifiedBy          string             `json:"verifiedBy"`
	Notes               string             `json:"notes"`
	AuditFields
}
