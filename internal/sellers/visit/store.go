package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const visitColumns = `id, seller_id, client_id, scheduled_at, status, notes, recommendations,
	evidence_url, client_name, client_address, client_city, client_country, created_at, updated_at`

// PostgresRepository implements Repository against a Postgres pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// HasConflictingVisit returns a visit of sellerID whose scheduled time
// falls within conflictWindow of scheduledAt and is not cancelled. The
// underlying query relies on a unique constraint on a derived time
// bucket to serialize concurrent creation attempts for the same seller;
// a unique-violation surfaces here as a Conflict the caller retries.
func (r *PostgresRepository) HasConflictingVisit(ctx context.Context, sellerID uuid.UUID, scheduledAt time.Time) (*ConflictingVisit, error) {
	const query = `
		SELECT id, scheduled_at FROM visits
		WHERE seller_id = $1
		  AND status != $2
		  AND scheduled_at BETWEEN $3 AND $4
		LIMIT 1`

	lower := scheduledAt.Add(-conflictWindow)
	upper := scheduledAt.Add(conflictWindow)

	var c ConflictingVisit
	err := r.pool.QueryRow(ctx, query, sellerID, StatusCancelled, lower, upper).Scan(&c.ID, &c.ScheduledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking visit conflict: %w", err)
	}
	return &c, nil
}

// Create inserts a new visit row.
func (r *PostgresRepository) Create(ctx context.Context, v *Visit) error {
	query := `INSERT INTO visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.SellerID, v.ClientID, v.ScheduledAt, v.Status, v.Notes, v.Recommendations,
		v.EvidenceURL, v.ClientName, v.ClientAddress, v.ClientCity, v.ClientCountry, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}
	return nil
}

// Get fetches a visit by ID.
func (r *PostgresRepository) Get(ctx context.Context, visitID uuid.UUID) (*Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, visitID)

	var v Visit
	err := row.Scan(
		&v.ID, &v.SellerID, &v.ClientID, &v.ScheduledAt, &v.Status, &v.Notes, &v.Recommendations,
		&v.EvidenceURL, &v.ClientName, &v.ClientAddress, &v.ClientCity, &v.ClientCountry, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("fetching visit: %w", err)
	}
	return &v, nil
}

// UpdateStatus applies a status transition and bumps updated_at.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, visitID uuid.UUID, status Status, recommendations *string) error {
	const query = `UPDATE visits SET status = $1, recommendations = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.pool.Exec(ctx, query, status, recommendations, time.Now().UTC(), visitID)
	if err != nil {
		return fmt.Errorf("updating visit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
