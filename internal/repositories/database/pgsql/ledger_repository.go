package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/models"
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/SafeStays/safe_stays_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, transaction_code, transaction_type, transaction_date, description, reference_type, reference_id, charity_id, total_amount, notes, is_reversed, reversal_of_id, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_id, entry_type, amount, running_balance, memo, created_at`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxLedgerRepository creates a new repository for ledger transactions.
// It shares the account repository for row locking and balance writes inside
// its transactions.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveTransaction persists a balanced transaction atomically: code
// assignment, transaction row, account locks, entry rows with running
// balances, and refreshed cached balances all commit or roll back together.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	err := r.RunInTx(ctx, func(tx pgx.Tx) error {
		code, err := r.nextTransactionCode(ctx, tx, txn.TransactionDate)
		if err != nil {
			return err
		}
		txn.TransactionCode = code

		if err := insertTransaction(ctx, tx, mapping.ToModelLedgerTransaction(txn)); err != nil {
			return err
		}

		// Lock every touched account, then walk the entries in order computing
		// signed running balances from the locked starting balances.
		accountIDs := uniqueAccountIDs(txn.Entries)
		accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
		if err != nil {
			return err
		}

		balances := make(map[string]decimal.Decimal, len(accounts))
		for id, acc := range accounts {
			balances[id] = acc.Balance
		}

		now := time.Now()
		for i := range txn.Entries {
			entry := &txn.Entries[i]
			if entry.EntryID == "" {
				entry.EntryID = uuid.NewString()
			}
			entry.TransactionID = txn.TransactionID
			entry.CreatedAt = now

			account := accounts[entry.AccountID]
			signed, err := accounting.SignedAmount(*entry, account.AccountType)
			if err != nil {
				return fmt.Errorf("failed to sign entry amount: %w", err)
			}
			newBalance := balances[entry.AccountID].Add(signed)
			entry.RunningBalance = newBalance
			balances[entry.AccountID] = newBalance
		}

		if err := insertEntries(ctx, tx, txn.Entries); err != nil {
			return err
		}
		return r.accountRepo.SetAccountBalancesInTx(ctx, tx, balances, txn.CreatedBy, now)
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// nextTransactionCode assigns the next TXN-YYYYMMDD-NNNNN for the
// transaction's day. An advisory lock on the day prefix serializes concurrent
// writers so the per-day sequence has no gaps or duplicates.
func (r *PgxLedgerRepository) nextTransactionCode(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	dayPrefix := "TXN-" + date.Format("20060102")

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, dayPrefix); err != nil {
		return "", fmt.Errorf("failed to acquire code generation lock for %s: %w", dayPrefix, err)
	}

	var maxSuffix int
	query := `
		SELECT COALESCE(MAX(CAST(RIGHT(transaction_code, 5) AS INTEGER)), 0)
		FROM ledger_transactions
		WHERE transaction_code LIKE $1 || '-%';
	`
	if err := tx.QueryRow(ctx, query, dayPrefix).Scan(&maxSuffix); err != nil {
		return "", fmt.Errorf("failed to read max transaction code for %s: %w", dayPrefix, err)
	}
	return fmt.Sprintf("%s-%05d", dayPrefix, maxSuffix+1), nil
}

func uniqueAccountIDs(entries []domain.LedgerEntry) []string {
	seen := make(map[string]bool, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true
			ids = append(ids, e.AccountID)
		}
	}
	return ids
}

func insertTransaction(ctx context.Context, tx pgx.Tx, m models.LedgerTransaction) error {
	query := `
		INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.TransactionCode,
		m.TransactionType,
		m.TransactionDate,
		m.Description,
		nullable(m.ReferenceType),
		nullable(m.ReferenceID),
		nullable(m.CharityID),
		m.TotalAmount,
		m.Notes,
		m.IsReversed,
		nullable(m.ReversalOfID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.TransactionID,
			m.AccountID,
			m.EntryType,
			m.Amount,
			m.RunningBalance,
			m.Memo,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert ledger entry %s: %w", entries[i].EntryID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close entry insert batch: %w", err)
	}
	return batchErr
}

// scanTransaction scans one transaction row, folding NULLs back to "".
func scanTransaction(row pgx.Row) (*models.LedgerTransaction, error) {
	var m models.LedgerTransaction
	var refType, refID, charityID, reversalOfID sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionCode,
		&m.TransactionType,
		&m.TransactionDate,
		&m.Description,
		&refType,
		&refID,
		&charityID,
		&m.TotalAmount,
		&m.Notes,
		&m.IsReversed,
		&reversalOfID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.ReferenceType = refType.String
	m.ReferenceID = refID.String
	m.CharityID = charityID.String
	m.ReversalOfID = reversalOfID.String
	return &m, nil
}

// FindTransactionByID retrieves a transaction together with its entries.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ledger_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainLedgerTransaction(*m)
	entries, err := r.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Entries = entries
	return &txn, nil
}

// FindTransactionsByReference retrieves all transactions recorded against a
// business object, oldest first, each with its entries.
func (r *PgxLedgerRepository) FindTransactionsByReference(ctx context.Context, referenceType, referenceID string) ([]domain.LedgerTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by reference %s/%s: %w", referenceType, referenceID, err)
	}
	defer rows.Close()

	txns := []domain.LedgerTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainLedgerTransaction(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	for i := range txns {
		entries, err := r.FindEntriesByTransactionID(ctx, txns[i].TransactionID)
		if err != nil {
			return nil, err
		}
		txns[i].Entries = entries
	}
	return txns, nil
}

// FindEntriesByTransactionID retrieves a transaction's entries in posting
// order.
func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE transaction_id = $1 ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindEntriesByAccountAndDateRange retrieves an account's entries posted in
// [from, to).
func (r *PgxLedgerRepository) FindEntriesByAccountAndDateRange(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	entryModels := []models.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.EntryID,
			&m.TransactionID,
			&m.AccountID,
			&m.EntryType,
			&m.Amount,
			&m.RunningBalance,
			&m.Memo,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entryModels = append(entryModels, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", rows.Err())
	}
	return mapping.ToDomainLedgerEntrySlice(entryModels), nil
}

// MarkTransactionReversed flags the original transaction once its reversal
// has posted.
func (r *PgxLedgerRepository) MarkTransactionReversed(ctx context.Context, transactionID, reversalID, userID string, now time.Time) error {
	query := `
		UPDATE ledger_transactions
		SET is_reversed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND is_reversed = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s reversed by %s: %w", transactionID, reversalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s not found or already reversed", apperrors.ErrConflict, transactionID)
	}
	return nil
}

// SumEntriesByAccount totals one side of the entry log for an account.
func (r *PgxLedgerRepository) SumEntriesByAccount(ctx context.Context, accountID string, entryType domain.EntryType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1 AND entry_type = $2;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, string(entryType)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s entries for account %s: %w", entryType, accountID, err)
	}
	return sum, nil
}

// SumAllEntries totals one side of the entire entry log.
func (r *PgxLedgerRepository) SumAllEntries(ctx context.Context, entryType domain.EntryType) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE entry_type = $1;`

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, string(entryType)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s entries: %w", entryType, err)
	}
	return sum, nil
}
