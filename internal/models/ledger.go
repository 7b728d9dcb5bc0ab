package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is the database representation of a balanced transaction.
type LedgerTransaction struct {
	TransactionID   string
	TransactionCode string
	TransactionType string
	TransactionDate time.Time
	Description     string
	ReferenceType   string
	ReferenceID     string
	CharityID       string
	TotalAmount     decimal.Decimal
	Notes           string
	IsReversed      bool
	ReversalOfID    string
	AuditFields
}

// LedgerEntry is the database representation of one entry line.
type LedgerEntry struct {
	EntryID        string
	TransactionID  string
	AccountID      string
	EntryType      string
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	Memo           string
	CreatedAt      time.Time
}
