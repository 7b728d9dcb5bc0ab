package mapping

import (
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/models"
)

// ToModelNightlyRate converts a domain.NightlyRate for DB storage.
func ToModelNightlyRate(d domain.NightlyRate) models.NightlyRate {
	return models.NightlyRate{
		RateID:        d.RateID,
		LocationID:    d.LocationID,
		CharityID:     d.CharityID,
		Rate:          d.Rate,
		EffectiveDate: d.EffectiveDate,
		EndDate:       d.EndDate,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainNightlyRate converts a models.NightlyRate from the DB.
func ToDomainNightlyRate(m models.NightlyRate) domain.NightlyRate {
	return domain.NightlyRate{
		RateID:        m.RateID,
		LocationID:    m.LocationID,
		CharityID:     m.CharityID,
		Rate:          m.Rate,
		EffectiveDate: m.EffectiveDate,
		EndDate:       m.EndDate,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainNightlyRateSlice converts a slice of rate models.
func ToDomainNightlyRateSlice(ms []models.NightlyRate) []domain.NightlyRate {
	ds := make([]domain.NightlyRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainNightlyRate(m)
	}
	return ds
}
