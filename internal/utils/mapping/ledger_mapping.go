package mapping

import (
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/models"
)

// ToModelLedgerTransaction converts a domain.LedgerTransaction for DB storage.
// Entries are persisted separately.
func ToModelLedgerTransaction(d domain.LedgerTransaction) models.LedgerTransaction {
	return models.LedgerTransaction{
		TransactionID:   d.TransactionID,
		TransactionCode: d.TransactionCode,
		TransactionType: string(d.TransactionType),
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		ReferenceType:   d.ReferenceType,
		ReferenceID:     d.ReferenceID,
		CharityID:       d.CharityID,
		TotalAmount:     d.TotalAmount,
		Notes:           d.Notes,
		IsReversed:      d.IsReversed,
		ReversalOfID:    d.ReversalOfID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerTransaction converts a models.LedgerTransaction from the DB.
func ToDomainLedgerTransaction(m models.LedgerTransaction) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID:   m.TransactionID,
		TransactionCode: m.TransactionCode,
		TransactionType: domain.TransactionType(m.TransactionType),
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		CharityID:       m.CharityID,
		TotalAmount:     m.TotalAmount,
		Notes:           m.Notes,
		IsReversed:      m.IsReversed,
		ReversalOfID:    m.ReversalOfID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain.LedgerEntry for DB storage.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		TransactionID:  d.TransactionID,
		AccountID:      d.AccountID,
		EntryType:      string(d.EntryType),
		Amount:         d.Amount,
		RunningBalance: d.RunningBalance,
		Memo:           d.Memo,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a models.LedgerEntry from the DB.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		TransactionID:  m.TransactionID,
		AccountID:      m.AccountID,
		EntryType:      domain.EntryType(m.EntryType),
		Amount:         m.Amount,
		RunningBalance: m.RunningBalance,
		Memo:           m.Memo,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainLedgerEntrySlice converts a slice of entry models.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
