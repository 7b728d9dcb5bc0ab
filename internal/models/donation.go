package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is the database representation of a donation.
type Donation struct {
	DonationID          string
	DonorID             string
	CharityID           string
	GrossAmount         decimal.Decimal
	PlatformFee         decimal.Decimal
	FacilitatorFee      decimal.Decimal
	ProcessingFee       decimal.Decimal
	NetAmount           decimal.Decimal
	NightsFunded        int
	AvgNightlyRate      decimal.Decimal
	Status              string
	VerificationStatus  string
	FeeStructureVersion string
	LedgerTransactionID string
	DonatedAt           time.Time
	VerifiedAt          *time.Time
	VerifiedBy          string
	Notes               string
	AuditFields
}
