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

const donationColumns = `donation_id, donor_id, charity_id, gross_amount, platform_fee, facilitator_fee, processing_fee, net_amount, nights_funded, avg_nightly_rate, status, verification_status, fee_structure_version, ledger_transaction_id, donated_at, verified_at, verified_by, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxDonationRepository struct {
	pool *pgxpool.Pool
}

// newPgxDonationRepository creates a new repository for donation data.
func newPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepositoryFacade {
	return &PgxDonationRepository{pool: pool}
}

var _ portsrepo.DonationRepositoryFacade = (*PgxDonationRepository)(nil)

// scanDonation scans one donation row, folding NULLs back to "".
func scanDonation(row pgx.Row) (*models.Donation, error) {
	var m models.Donation
	var ledgerTxnID, verifiedBy sql.NullString
	err := row.Scan(
		&m.DonationID,
		&m.DonorID,
		&m.CharityID,
		&m.GrossAmount,
		&m.PlatformFee,
		&m.FacilitatorFee,
		&m.ProcessingFee,
		&m.NetAmount,
		&m.NightsFunded,
		&m.AvgNightlyRate,
		&m.Status,
		&m.VerificationStatus,
		&m.FeeStructureVersion,
		&ledgerTxnID,
		&m.DonatedAt,
		&m.VerifiedAt,
		&verifiedBy,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.LedgerTransactionID = ledgerTxnID.String
	m.VerifiedBy = verifiedBy.String
	return &m, nil
}

// SaveDonation inserts a new donation.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	m := mapping.ToModelDonation(donation)

	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.pool.Exec(ctx, query,
		m.DonationID,
		m.DonorID,
		m.CharityID,
		m.GrossAmount,
		m.PlatformFee,
		m.FacilitatorFee,
		m.ProcessingFee,
		m.NetAmount,
		m.NightsFunded,
		m.AvgNightlyRate,
		m.Status,
		m.VerificationStatus,
		m.FeeStructureVersion,
		nullable(m.LedgerTransactionID),
		m.DonatedAt,
		m.VerifiedAt,
		nullable(m.VerifiedBy),
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: donation with ID %s already exists", apperrors.ErrDuplicate, m.DonationID)
		}
		return fmt.Errorf("failed to save donation %s: %w", m.DonationID, err)
	}
	return nil
}

// UpdateDonation rewrites the mutable fields of an existing donation.
func (r *PgxDonationRepository) UpdateDonation(ctx context.Context, donation domain.Donation) error {
	m := mapping.ToModelDonation(donation)

	query := `
		UPDATE donations
		SET status = $2, verification_status = $3, ledger_transaction_id = $4,
		    verified_at = $5, verified_by = $6, notes = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE donation_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.DonationID,
		m.Status,
		m.VerificationStatus,
		nullable(m.LedgerTransactionID),
		m.VerifiedAt,
		nullable(m.VerifiedBy),
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update donation %s: %w", m.DonationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindDonationByID retrieves a donation by its ID.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donation_id = $1;`

	m, err := scanDonation(r.pool.QueryRow(ctx, query, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find donation by ID %s: %w", donationID, err)
	}
	d := mapping.ToDomainDonation(*m)
	return &d, nil
}

// ListDonationsByCharity retrieves a charity's donations, newest first.
func (r *PgxDonationRepository) ListDonationsByCharity(ctx context.Context, charityID string) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE charity_id = $1 ORDER BY donated_at DESC;`
	return r.queryDonations(ctx, query, charityID)
}

// ListDonationsByStatus retrieves donations in a given allocation status.
func (r *PgxDonationRepository) ListDonationsByStatus(ctx context.Context, status domain.DonationStatus) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE status = $1 ORDER BY donated_at;`
	return r.queryDonations(ctx, query, string(status))
}

// ListPendingVerification retrieves donations awaiting a verification
// decision, oldest first.
func (r *PgxDonationRepository) ListPendingVerification(ctx context.Context) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE verification_status = $1 ORDER BY donated_at;`
	return r.queryDonations(ctx, query, string(domain.VerificationPending))
}

func (r *PgxDonationRepository) queryDonations(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		m, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		donations = append(donations, mapping.ToDomainDonation(*m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating donation rows: %w", rows.Err())
	}
	return donations, nil
}
