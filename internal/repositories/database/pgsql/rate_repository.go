package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/models"
	"github.com/SafeStays/safe_stays_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const rateColumns = `rate_id, location_id, charity_id, rate, effective_date, end_date, notes, created_at, created_by`

type PgxRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxRateRepository creates a new repository for nightly rates.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{pool: pool}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// SaveRate inserts a new nightly rate.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.NightlyRate) error {
	m := mapping.ToModelNightlyRate(rate)

	query := `
		INSERT INTO nightly_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.RateID,
		m.LocationID,
		m.CharityID,
		m.Rate,
		m.EffectiveDate,
		m.EndDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rate with ID %s already exists", apperrors.ErrDuplicate, m.RateID)
		}
		return fmt.Errorf("failed to save nightly rate %s: %w", m.RateID, err)
	}
	return nil
}

// ListRatesByCharity retrieves a charity's rates, most recent first.
func (r *PgxRateRepository) ListRatesByCharity(ctx context.Context, charityID string) ([]domain.NightlyRate, error) {
	query := `SELECT ` + rateColumns + ` FROM nightly_rates WHERE charity_id = $1 ORDER BY effective_date DESC;`

	rows, err := r.pool.Query(ctx, query, charityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for charity %s: %w", charityID, err)
	}
	defer rows.Close()

	rateModels := []models.NightlyRate{}
	for rows.Next() {
		var m models.NightlyRate
		err := rows.Scan(
			&m.RateID,
			&m.LocationID,
			&m.CharityID,
			&m.Rate,
			&m.EffectiveDate,
			&m.EndDate,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		rateModels = append(rateModels, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating rate rows: %w", rows.Err())
	}
	return mapping.ToDomainNightlyRateSlice(rateModels), nil
}

// AverageActiveRate averages the rates active on the given date for the
// charity's locations. Zero with a nil error when no rate is active.
func (r *PgxRateRepository) AverageActiveRate(ctx context.Context, charityID string, on time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(AVG(rate), 0)
		FROM nightly_rates
		WHERE charity_id = $1
		  AND effective_date <= $2
		  AND (end_date IS NULL OR end_date >= $2);
	`
	var avg decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, charityID, on).Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("failed to average active rates for charity %s: %w", charityID, err)
	}
	return avg, nil
}
