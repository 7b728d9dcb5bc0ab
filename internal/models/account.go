package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for persistence.
type AccountType string

// Account is the database representation of a ledger account.
type Account struct {
	AccountID       string
	AccountCode     string
	Name            string
	AccountType     AccountType
	ParentAccountID string
	CharityID       string
	IsSystemAccount bool
	IsActive        bool
	Balance         decimal.Decimal
	AuditFields
}
