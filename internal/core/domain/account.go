package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IncreasesWithDebit reports whether a debit entry increases the balance of
// an account of this type. Asset and Expense accounts grow with debits;
// Liability, Equity and Revenue accounts grow with credits.
func (t AccountType) IncreasesWithDebit() bool {
	return t == Asset || t == Expense
}

// Well-known system account codes. Charity fund accounts derive their code
// from FundsHeldCode with the charity id appended (e.g. "2000-42").
const (
	CashCode                  = "1000"
	AccountsReceivableCode    = "1100"
	FundsHeldCode             = "2000"
	AllocatedFundsCode        = "2100"
	PlatformFeeRevenueCode    = "4000"
	FacilitatorFeeRevenueCode = "4100"
	HousingDisbursementsCode  = "5000"
	RefundsExpenseCode        = "5100"
)

// Account is a ledger account in the chart of accounts.
// System accounts are created once at startup; per-charity fund accounts are
// created lazily on the first donation to that charity. Accounts are never
// deleted, only deactivated.
type Account struct {
	AccountID       string          `json:"accountID"`   // Primary key (UUID)
	AccountCode     string          `json:"accountCode"` // Unique, externally meaningful
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID"` // Nullable self-reference, "" when unset
	CharityID       string          `json:"charityID"`       // Owning charity, "" for shared accounts
	IsSystemAccount bool            `json:"isSystemAccount"` // Protects well-known accounts from ad hoc changes
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"` // Write-through cache; the entry log is the source of truth
	AuditFields
}
