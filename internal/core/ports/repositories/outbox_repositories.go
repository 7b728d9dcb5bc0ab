package repositories

import (
	"context"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
)

// OutboxRepositoryFacade defines persistence operations for the ledger
// posting outbox.
type OutboxRepositoryFacade interface {
	Enqueue(ctx context.Context, item domain.LedgerOutboxItem) error
	ListUnprocessed(ctx context.Context, limit int) ([]domain.LedgerOutboxItem, error)
	MarkProcessed(ctx context.Context, outboxID string, now time.Time) error
	MarkFailed(ctx context.Context, outboxID string, lastError string, now time.Time) error
}
