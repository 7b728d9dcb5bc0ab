package services

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the core double-entry engine: account management,
// balanced transaction recording, balance computation and auditing.
type LedgerSvcFacade interface {
	// EnsureSystemAccounts creates any missing platform accounts (cash,
	// receivables, funds held, allocated funds, fee revenues, disbursement and
	// refund expenses). Idempotent.
	EnsureSystemAccounts(ctx context.Context, userID string) error

	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, userID string, accountID string) error

	// GetOrCreateCharityFundAccount returns the charity's liability sub-account
	// under funds held, creating it on first use.
	GetOrCreateCharityFundAccount(ctx context.Context, userID string, charityID string) (*domain.Account, error)

	// Posting operations. Each builds a balanced transaction and persists it
	// atomically with refreshed account balances.
	RecordDonationReceived(ctx context.Context, userID string, donation domain.Donation) (*domain.LedgerTransaction, error)
	RecordAllocation(ctx context.Context, userID string, funding domain.SituationFunding) (*domain.LedgerTransaction, error)
	RecordDisbursement(ctx context.Context, userID string, req dto.RecordDisbursementRequest) (*domain.LedgerTransaction, error)
	RecordRefund(ctx context.Context, userID string, donation domain.Donation, reason string) (*domain.LedgerTransaction, error)

	GetTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	GetTransactionsByReference(ctx context.Context, referenceType, referenceID string) ([]domain.LedgerTransaction, error)
	GetAccountHistory(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerEntry, error)

	// GetAccountBalance recomputes the balance from the entry log using the
	// account type's sign convention.
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetCharityAvailableFunds returns the balance of the charity's funds-held
	// account, zero when the account does not exist yet.
	GetCharityAvailableFunds(ctx context.Context, charityID string) (decimal.Decimal, error)

	// GetTrialBalance sums all debits and all credits across the ledger.
	GetTrialBalance(ctx context.Context) (dto.TrialBalanceResponse, error)
}
