package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/models"
	"github.com/SafeStays/safe_stays_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fundingColumns = `funding_id, donation_id, situation_id, charity_id, amount_allocated, nights_allocated, nights_used, usage_explanation, ledger_transaction_id, allocated_at, allocated_by`

type PgxFundingRepository struct {
	pool *pgxpool.Pool
}

// newPgxFundingRepository creates a new repository for fund allocations.
func newPgxFundingRepository(pool *pgxpool.Pool) portsrepo.FundingRepositoryFacade {
	return &PgxFundingRepository{pool: pool}
}

var _ portsrepo.FundingRepositoryFacade = (*PgxFundingRepository)(nil)

func scanFunding(row pgx.Row) (*models.SituationFunding, error) {
	var m models.SituationFunding
	var ledgerTxnID sql.NullString
	err := row.Scan(
		&m.FundingID,
		&m.DonationID,
		&m.SituationID,
		&m.CharityID,
		&m.AmountAllocated,
		&m.NightsAllocated,
		&m.NightsUsed,
		&m.UsageExplanation,
		&ledgerTxnID,
		&m.AllocatedAt,
		&m.AllocatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.LedgerTransactionID = ledgerTxnID.String
	return &m, nil
}

// SaveFunding inserts a new allocation.
func (r *PgxFundingRepository) SaveFunding(ctx context.Context, funding domain.SituationFunding) error {
	m := mapping.ToModelSituationFunding(funding)

	query := `
		INSERT INTO situation_fundings (` + fundingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.FundingID,
		m.DonationID,
		m.SituationID,
		m.CharityID,
		m.AmountAllocated,
		m.NightsAllocated,
		m.NightsUsed,
		m.UsageExplanation,
		nullable(m.LedgerTransactionID),
		m.AllocatedAt,
		m.AllocatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: funding with ID %s already exists", apperrors.ErrDuplicate, m.FundingID)
		}
		return fmt.Errorf("failed to save funding %s: %w", m.FundingID, err)
	}
	return nil
}

// UpdateFunding rewrites the mutable fields of an allocation.
func (r *PgxFundingRepository) UpdateFunding(ctx context.Context, funding domain.SituationFunding) error {
	m := mapping.ToModelSituationFunding(funding)

	query := `
		UPDATE situation_fundings
		SET nights_used = $2, usage_explanation = $3, ledger_transaction_id = $4
		WHERE funding_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.FundingID,
		m.NightsUsed,
		m.UsageExplanation,
		nullable(m.LedgerTransactionID),
	)
	if err != nil {
		return fmt.Errorf("failed to update funding %s: %w", m.FundingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteFunding removes an allocation row. Only used to compensate an
// allocation whose ledger posting failed; posted allocations are never
// deleted.
func (r *PgxFundingRepository) DeleteFunding(ctx context.Context, fundingID string) error {
	query := `DELETE FROM situation_fundings WHERE funding_id = $1 AND ledger_transaction_id IS NULL;`

	cmdTag, err := r.pool.Exec(ctx, query, fundingID)
	if err != nil {
		return fmt.Errorf("failed to delete funding %s: %w", fundingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindFundingByID retrieves an allocation by its ID.
func (r *PgxFundingRepository) FindFundingByID(ctx context.Context, fundingID string) (*domain.SituationFunding, error) {
	query := `SELECT ` + fundingColumns + ` FROM situation_fundings WHERE funding_id = $1;`

	m, err := scanFunding(r.pool.QueryRow(ctx, query, fundingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find funding by ID %s: %w", fundingID, err)
	}
	f := mapping.ToDomainSituationFunding(*m)
	return &f, nil
}

// FindFundingsByDonationID retrieves a donation's allocations, oldest first.
func (r *PgxFundingRepository) FindFundingsByDonationID(ctx context.Context, donationID string) ([]domain.SituationFunding, error) {
	query := `SELECT ` + fundingColumns + ` FROM situation_fundings WHERE donation_id = $1 ORDER BY allocated_at;`
	return r.queryFundings(ctx, query, donationID)
}

// FindFundingsBySituationID retrieves the allocations funding a situation.
func (r *PgxFundingRepository) FindFundingsBySituationID(ctx context.Context, situationID string) ([]domain.SituationFunding, error) {
	query := `SELECT ` + fundingColumns + ` FROM situation_fundings WHERE situation_id = $1 ORDER BY allocated_at;`
	return r.queryFundings(ctx, query, situationID)
}

func (r *PgxFundingRepository) queryFundings(ctx context.Context, query string, args ...any) ([]domain.SituationFunding, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundings: %w", err)
	}
	defer rows.Close()

	fundingModels := []models.SituationFunding{}
	for rows.Next() {
		m, err := scanFunding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding row: %w", err)
		}
		fundingModels = append(fundingModels, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating funding rows: %w", rows.Err())
	}
	return mapping.ToDomainSituationFundingSlice(fundingModels), nil
}

// SumNightsAllocatedByDonation totals the nights committed across all of a
// donation's allocations.
func (r *PgxFundingRepository) SumNightsAllocatedByDonation(ctx context.Context, donationID string) (int, error) {
	query := `SELECT COALESCE(SUM(nights_allocated), 0) FROM situation_fundings WHERE donation_id = $1;`

	var sum int
	if err := r.pool.QueryRow(ctx, query, donationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum allocated nights for donation %s: %w", donationID, err)
	}
	return sum, nil
}

// SumNightsUsedByDonation totals the nights consumed across all of a
// donation's allocations.
func (r *PgxFundingRepository) SumNightsUsedByDonation(ctx context.Context, donationID string) (int, error) {
	query := `SELECT COALESCE(SUM(nights_used), 0) FROM situation_fundings WHERE donation_id = $1;`

	var sum int
	if err := r.pool.QueryRow(ctx, query, donationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum used nights for donation %s: %w", donationID, err)
	}
	return sum, nil
}
