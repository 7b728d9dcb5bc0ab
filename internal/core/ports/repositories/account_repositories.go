package repositories

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepositoryFacade defines persistence operations for ledger accounts.
type AccountRepositoryFacade interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate on an
	// account-code collision.
	SaveAccount(ctx context.Context, account domain.Account) error

	// GetOrCreateAccountByCode returns the account with the given code,
	// inserting the candidate when absent. Safe under concurrent calls for the
	// same code: at most one row is ever created.
	GetOrCreateAccountByCode(ctx context.Context, candidate domain.Account) (*domain.Account, error)

	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// FindAccountsByIDsForUpdate locks the account rows for the duration of the
	// surrounding DB transaction. Fails with apperrors.ErrNotFound if any id is
	// missing.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// SetAccountBalancesInTx writes freshly computed cached balances within a
	// DB transaction.
	SetAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]decimal.Decimal, userID string, now time.Time) error
}
