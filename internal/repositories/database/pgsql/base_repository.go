package pgsql

import (
	"context"
	"errors"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository carries the shared pool and the unit-of-work helper every
// posting operation runs under.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// RunInTx executes fn inside one database transaction: every write fn makes
// becomes visible together at commit, or not at all. fn returning an error
// discards the transaction.
func (r *BaseRepository) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return apperrors.NewAppError(500, "failed to rollback transaction", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
