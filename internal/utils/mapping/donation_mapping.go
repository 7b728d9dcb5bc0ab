package mapping

import (
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/models"
)

// ToModelDonation converts a domain.Donation for DB storage.
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
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
		Status:              string(d.Status),
		VerificationStatus:  string(d.VerificationStatus),
		FeeStructureVersion: d.FeeStructureVersion,
		LedgerTransactionID: d.LedgerTransactionID,
		DonatedAt:           d.DonatedAt,
		VerifiedAt:          d.VerifiedAt,
		VerifiedBy:          d.VerifiedBy,
		Notes:               d.Notes,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonation converts a models.Donation from the DB.
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:          m.DonationID,
		DonorID:             m.DonorID,
		CharityID:           m.CharityID,
		GrossAmount:         m.GrossAmount,
		PlatformFee:         m.PlatformFee,
		FacilitatorFee:      m.FacilitatorFee,
		ProcessingFee:       m.ProcessingFee,
		NetAmount:           m.NetAmount,
		NightsFunded:        m.NightsFunded,
		AvgNightlyRate:      m.AvgNightlyRate,
		Status:              domain.DonationStatus(m.Status),
		VerificationStatus:  domain.VerificationStatus(m.VerificationStatus),
		FeeStructureVersion: m.FeeStructureVersion,
		LedgerTransactionID: m.LedgerTransactionID,
		DonatedAt:           m.DonatedAt,
		VerifiedAt:          m.VerifiedAt,
		VerifiedBy:          m.VerifiedBy,
		Notes:               m.Notes,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
