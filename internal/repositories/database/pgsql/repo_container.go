package pgsql

import (
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryProvider bundles all repository implementations for service
// wiring.
type RepositoryProvider struct {
	AccountRepo  portsrepo.AccountRepositoryFacade
	LedgerRepo   portsrepo.LedgerRepositoryFacade
	DonationRepo portsrepo.DonationRepositoryFacade
	FundingRepo  portsrepo.FundingRepositoryFacade
	RateRepo     portsrepo.RateRepositoryFacade
	OutboxRepo   portsrepo.OutboxRepositoryFacade
}

// NewRepositoryProvider creates all repositories over one connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return &RepositoryProvider{
		AccountRepo:  accountRepo,
		LedgerRepo:   newPgxLedgerRepository(pool, accountRepo),
		DonationRepo: newPgxDonationRepository(pool),
		FundingRepo:  newPgxFundingRepository(pool),
		RateRepo:     newPgxRateRepository(pool),
		OutboxRepo:   newPgxOutboxRepository(pool),
	}
}
