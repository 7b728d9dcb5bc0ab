package models

import "time"

// LedgerOutbox queues donations whose post-verification ledger recording
// failed and must be retried out-of-band.
type LedgerOutbox struct {
	OutboxID    string
	DonationID  string
	ActorID     string
	Attempts    int
	LastError   string
	ProcessedAt *time.Time
	CreatedAt   time.Time
}
