package repositories

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade defines persistence operations for ledger
// transactions and their entries. Saving a transaction persists its entries
// and refreshes cached account balances atomically.
type LedgerRepositoryFacade interface {
	// SaveTransaction persists the transaction and its entries as one atomic
	// unit: it assigns the date-stamped transaction code (serialized per day
	// prefix), locks the touched accounts, writes running-balance snapshots on
	// each entry and the refreshed cached balance on each account. Nothing is
	// persisted on error. The returned transaction carries the assigned code
	// and the populated entries.
	SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) (*domain.LedgerTransaction, error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	FindTransactionsByReference(ctx context.Context, referenceType, referenceID string) ([]domain.LedgerTransaction, error)
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error)
	FindEntriesByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// MarkTransactionReversed flags the original transaction once its reversal
	// has posted.
	MarkTransactionReversed(ctx context.Context, transactionID, reversalID, userID string, now time.Time) error

	// Entry-log aggregation: the authoritative inputs for balance and
	// trial-balance computation.
	SumEntriesByAccount(ctx context.Context, accountID string, entryType domain.EntryType) (decimal.Decimal, error)
	SumAllEntries(ctx context.Context, entryType domain.EntryType) (decimal.Decimal, error)
}
