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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const outboxColumns = `outbox_id, donation_id, actor_id, attempts, last_error, processed_at, created_at`

type PgxOutboxRepository struct {
	pool *pgxpool.Pool
}

// newPgxOutboxRepository creates a new repository for the ledger posting
// outbox.
func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepositoryFacade {
	return &PgxOutboxRepository{pool: pool}
}

var _ portsrepo.OutboxRepositoryFacade = (*PgxOutboxRepository)(nil)

// Enqueue inserts a pending ledger posting.
func (r *PgxOutboxRepository) Enqueue(ctx context.Context, item domain.LedgerOutboxItem) error {
	query := `
		INSERT INTO ledger_outbox (` + outboxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		item.OutboxID,
		item.DonationID,
		item.ActorID,
		item.Attempts,
		item.LastError,
		item.ProcessedAt,
		item.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: outbox item %s already exists", apperrors.ErrDuplicate, item.OutboxID)
		}
		return fmt.Errorf("failed to enqueue outbox item for donation %s: %w", item.DonationID, err)
	}
	return nil
}

// ListUnprocessed retrieves pending items, oldest first.
func (r *PgxOutboxRepository) ListUnprocessed(ctx context.Context, limit int) ([]domain.LedgerOutboxItem, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + outboxColumns + `
		FROM ledger_outbox
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed outbox items: %w", err)
	}
	defer rows.Close()

	items := []domain.LedgerOutboxItem{}
	for rows.Next() {
		var item domain.LedgerOutboxItem
		var lastError sql.NullString
		err := rows.Scan(
			&item.OutboxID,
			&item.DonationID,
			&item.ActorID,
			&item.Attempts,
			&lastError,
			&item.ProcessedAt,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox row: %w", err)
		}
		item.LastError = lastError.String
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating outbox rows: %w", rows.Err())
	}
	return items, nil
}

// MarkProcessed stamps an item as successfully posted.
func (r *PgxOutboxRepository) MarkProcessed(ctx context.Context, outboxID string, now time.Time) error {
	query := `UPDATE ledger_outbox SET processed_at = $2 WHERE outbox_id = $1 AND processed_at IS NULL;`

	cmdTag, err := r.pool.Exec(ctx, query, outboxID, now)
	if err != nil {
		return fmt.Errorf("failed to mark outbox item %s processed: %w", outboxID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkFailed records a failed attempt so the item stays eligible for retry.
func (r *PgxOutboxRepository) MarkFailed(ctx context.Context, outboxID string, lastError string, now time.Time) error {
	query := `UPDATE ledger_outbox SET attempts = attempts + 1, last_error = $2 WHERE outbox_id = $1 AND processed_at IS NULL;`

	cmdTag, err := r.pool.Exec(ctx, query, outboxID, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark outbox item %s failed: %w", outboxID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
