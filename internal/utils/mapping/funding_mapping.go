package mapping

import (
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/models"
)

// ToModelSituationFunding converts a domain.SituationFunding for DB storage.
func ToModelSituationFunding(d domain.SituationFunding) models.SituationFunding {
	return models.SituationFunding{
		FundingID:           d.FundingID,
		DonationID:          d.DonationID,
		SituationID:         d.SituationID,
		CharityID:           d.CharityID,
		AmountAllocated:     d.AmountAllocated,
		NightsAllocated:     d.NightsAllocated,
		NightsUsed:          d.NightsUsed,
		UsageExplanation:    d.UsageExplanation,
		LedgerTransactionID: d.LedgerTransactionID,
		AllocatedAt:         d.AllocatedAt,
		AllocatedBy:         d.AllocatedBy,
	}
}

// ToDomainSituationFunding converts a models.SituationFunding from the DB.
func ToDomainSituationFunding(m models.SituationFunding) domain.SituationFunding {
	return domain.SituationFunding{
		FundingID:           m.FundingID,
		DonationID:          m.DonationID,
		SituationID:         m.SituationID,
		CharityID:           m.CharityID,
		AmountAllocated:     m.AmountAllocated,
		NightsAllocated:     m.NightsAllocated,
		NightsUsed:          m.NightsUsed,
		UsageExplanation:    m.UsageExplanation,
		LedgerTransactionID: m.LedgerTransactionID,
		AllocatedAt:         m.AllocatedAt,
		AllocatedBy:         m.AllocatedBy,
	}
}

// ToDomainSituationFundingSlice converts a slice of funding models.
func ToDomainSituationFundingSlice(ms []models.SituationFunding) []domain.SituationFunding {
	ds := make([]domain.SituationFunding, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSituationFunding(m)
	}
	return ds
}
