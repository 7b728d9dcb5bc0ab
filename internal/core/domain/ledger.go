package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// TransactionType tags a ledger transaction with the business event that
// caused it.
type TransactionType string

const (
	DonationReceived TransactionType = "DONATION_RECEIVED"
	DonationRefund   TransactionType = "DONATION_REFUND"
	FundAllocated    TransactionType = "FUND_ALLOCATED"
	FundDeallocated  TransactionType = "FUND_DEALLOCATED"
	FundDisbursed    TransactionType = "FUND_DISBURSED"
	FeeCollected     TransactionType = "FEE_COLLECTED"
	Adjustment       TransactionType = "ADJUSTMENT"
	OpeningBalance   TransactionType = "OPENING_BALANCE"
	Transfer         TransactionType = "TRANSFER"
)

// Reference types linking a transaction to the business record behind it.
const (
	RefDonation         = "DONATION"
	RefSituationFunding = "SITUATION_FUNDING"
	RefBooking          = "BOOKING"
)

// LedgerTransaction is an atomic, balanced group of debit/credit entries
// representing one financial event. Immutable once persisted, except for the
// reversal flag and back-reference set when a reversing transaction posts.
type LedgerTransaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary key (UUID)
	TransactionCode string          `json:"transactionCode"` // TXN-YYYYMMDD-NNNNN, unique
	TransactionType TransactionType `json:"transactionType"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	ReferenceType   string          `json:"referenceType"` // "" when not linked to a business record
	ReferenceID     string          `json:"referenceID"`
	CharityID       string          `json:"charityID"` // "" for charity-agnostic events
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Notes           string          `json:"notes"`
	IsReversed      bool            `json:"isReversed"`
	ReversalOfID    string          `json:"reversalOfID"` // Transaction this one reverses, "" otherwise
	Entries         []LedgerEntry   `json:"entries,omitempty"`
	AuditFields
}

// LedgerEntry is one side of a double entry. Entries are append-only:
// corrections post new reversing entries, never edit existing ones.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`
	TransactionID  string          `json:"transactionID"`
	AccountID      string          `json:"accountID"`
	EntryType      EntryType       `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"`         // Always positive
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this entry posted
	Memo           string          `json:"memo"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewDebit builds a debit entry against an account.
func NewDebit(accountID string, amount decimal.Decimal, memo string) LedgerEntry {
	return LedgerEntry{AccountID: accountID, EntryType: Debit, Amount: amount, Memo: memo}
}

// NewCredit builds a credit entry against an account.
func NewCredit(accountID string, amount decimal.Decimal, memo string) LedgerEntry {
	return LedgerEntry{AccountID: accountID, EntryType: Credit, Amount: amount, Memo: memo}
}

// AddEntry appends an entry to the transaction.
func (t *LedgerTransaction) AddEntry(e LedgerEntry) {
	e.TransactionID = t.TransactionID
	t.Entries = append(t.Entries, e)
}

// TotalDebits sums the debit side of the transaction.
func (t *LedgerTransaction) TotalDebits() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.EntryType == Debit {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// TotalCredits sums the credit side of the transaction.
func (t *LedgerTransaction) TotalCredits() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.Entries {
		if e.EntryType == Credit {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// IsBalanced reports whether debits equal credits. Every transaction must be
// balanced before it may be persisted.
func (t *LedgerTransaction) IsBalanced() bool {
	return t.TotalDebits().Equal(t.TotalCredits())
}
