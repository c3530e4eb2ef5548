package salesplan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore implements Store against a Postgres pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// WithTx runs fn inside a transaction, committing on success and
// rolling back on any error (including a panic, via defer Rollback).
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning sales plan transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sales plan transaction: %w", err)
	}
	return nil
}

// CreditPlan atomically adds amount to the accumulate column of the one
// sales plan matching (sellerID, period). pgx.ErrNoRows signals no such
// plan exists.
func (s *PostgresStore) CreditPlan(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, period string, amount decimal.Decimal) error {
	const query = `
		UPDATE sales_plans
		SET accumulate = accumulate + $1
		WHERE seller_id = $2 AND sales_period = $3`

	tag, err := tx.Exec(ctx, query, amount, sellerID, period)
	if err != nil {
		return fmt.Errorf("crediting sales plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const planColumns = `id, seller_id, sales_period, goal_type, goal, accumulate, status, created_at, updated_at`

func scanPlan(row pgx.Row) (*SalesPlan, error) {
	var p SalesPlan
	if err := row.Scan(
		&p.ID, &p.SellerID, &p.SalesPeriod, &p.GoalType, &p.Goal, &p.Accumulate, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlan inserts a new sales plan row. A unique-violation on
// (seller_id, sales_period) is returned as a wrapped error like any other
// insert failure; the pgx error code is not translated to a Conflict.
func (s *PostgresStore) CreatePlan(ctx context.Context, p *SalesPlan) error {
	query := `INSERT INTO sales_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.SellerID, p.SalesPeriod, p.GoalType, p.Goal, p.Accumulate, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting sales plan: %w", err)
	}
	return nil
}

// GetBySellerAndPeriod fetches the one plan matching (sellerID, period).
func (s *PostgresStore) GetBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, period string) (*SalesPlan, error) {
	query := `SELECT ` + planColumns + ` FROM sales_plans WHERE seller_id = $1 AND sales_period = $2`
	row := s.pool.QueryRow(ctx, query, sellerID, period)

	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("fetching sales plan: %w", err)
	}
	return p, nil
}

// ListBySeller returns a page of sellerID's sales plans, most recently
// created first, along with the total matching count.
func (s *PostgresStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]SalesPlan, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM sales_plans WHERE seller_id = $1`, sellerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sales plans: %w", err)
	}

	query := `SELECT ` + planColumns + ` FROM sales_plans WHERE seller_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, query, sellerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("querying sales plans: %w", err)
	}
	defer rows.Close()

	var out []SalesPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}
