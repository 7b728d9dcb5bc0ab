package domain

import "time"

// LedgerOutboxItem queues a donation whose post-verification ledger posting
// failed. Verification is never rolled back for a ledger failure; the posting
// is retried from here instead.
type LedgerOutboxItem struct {
	OutboxID    string     `json:"outboxID"`
	DonationID  string     `json:"donationID"`
	ActorID     string     `json:"actorID"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"lastError"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
