package dto

import (
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordDisbursementRequest is the payload for recording a housing
// disbursement against a charity's allocated funds.
type RecordDisbursementRequest struct {
	BookingID    string          `json:"bookingID" binding:"required"`
	CharityID    string          `json:"charityID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	LocationName string          `json:"locationName" binding:"required"`
	Description  string          `json:"description,omitempty"`
}

// EntryResponse is the API representation of a single ledger entry.
type EntryResponse struct {
	EntryID        string           `json:"entryID"`
	TransactionID  string           `json:"transactionID"`
	AccountID      string           `json:"accountID"`
	EntryType      domain.EntryType `json:"entryType"`
	Amount         decimal.Decimal  `json:"amount"`
	RunningBalance decimal.Decimal  `json:"runningBalance"`
	Memo           string           `json:"memo,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// TransactionResponse is the API representation of a ledger transaction with
// its entries.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	TransactionCode string                 `json:"transactionCode"`
	TransactionType domain.TransactionType `json:"transactionType"`
	TransactionDate time.Time              `json:"transactionDate"`
	Description     string                 `json:"description"`
	ReferenceType   string                 `json:"referenceType,omitempty"`
	ReferenceID     string                 `json:"referenceID,omitempty"`
	CharityID       string                 `json:"charityID,omitempty"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	Notes           string                 `json:"notes,omitempty"`
	IsReversed      bool                   `json:"isReversed"`
	ReversalOfID    string                 `json:"reversalOfID,omitempty"`
	Entries         []EntryResponse        `json:"entries"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToEntryResponse converts a domain ledger entry.
func ToEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:        e.EntryID,
		TransactionID:  e.TransactionID,
		AccountID:      e.AccountID,
		EntryType:      e.EntryType,
		Amount:         e.Amount,
		RunningBalance: e.RunningBalance,
		Memo:           e.Memo,
		CreatedAt:      e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain ledger entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToEntryResponse(e)
	}
	return out
}

// ToTransactionResponse converts a domain ledger transaction.
func ToTransactionResponse(t domain.LedgerTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		TransactionCode: t.TransactionCode,
		TransactionType: t.TransactionType,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		ReferenceType:   t.ReferenceType,
		ReferenceID:     t.ReferenceID,
		CharityID:       t.CharityID,
		TotalAmount:     t.TotalAmount,
		Notes:           t.Notes,
		IsReversed:      t.IsReversed,
		ReversalOfID:    t.ReversalOfID,
		Entries:         ToEntryResponses(t.Entries),
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain ledger transactions.
func ToTransactionResponses(txns []domain.LedgerTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = ToTransactionResponse(t)
	}
	return out
}

// TrialBalanceResponse reports whole-ledger debit and credit totals.
type TrialBalanceResponse struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Balanced     bool            `json:"balanced"`
	AsOf         time.Time       `json:"asOf"`
}

// CharityFundsResponse reports a charity's available (held) funds.
type CharityFundsResponse struct {
	CharityID      string          `json:"charityID"`
	AvailableFunds decimal.Decimal `json:"availableFunds"`
	AsOf           time.Time       `json:"asOf"`
}
