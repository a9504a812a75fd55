package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danuarta/opex-ingest/internal/record"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same store
// code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the slice of *pgxpool.Pool the store needs. Narrowed to an
// interface so tests can substitute a mock pool.
type Pool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ Pool = (*pgxpool.Pool)(nil)

// Postgres implements Store and Runs on a pgx connection pool.
type Postgres struct {
	store
	pool Pool
}

// NewPostgres creates a PostgreSQL-backed store.
func NewPostgres(pool Pool) *Postgres {
	return &Postgres{store: store{q: pool}, pool: pool}
}

// WithinTx runs fn against a transactional store. Any error from fn rolls
// the whole run back; nothing written inside survives a partial failure.
func (p *Postgres) WithinTx(ctx context.Context, fn func(Store) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type store struct {
	q querier
}

const recordColumns = `domain, natural_key, period, subject_id, subject_name,
       booking_id, category, venue, detail, passengers, refund,
       bank, destination, description, transaction_date, payment_date,
       amount, fee, tax, status`

// FindByKey looks a record up by its natural key within a domain.
func (s store) FindByKey(ctx context.Context, domain record.Domain, key string) (*record.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE domain = $1 AND natural_key = $2
	`

	var rec record.Record
	err := s.q.QueryRow(ctx, query, string(domain), key).Scan(
		&rec.Domain, &rec.Key, &rec.Period, &rec.SubjectID, &rec.SubjectName,
		&rec.BookingID, &rec.Category, &rec.Venue, &rec.Detail, &rec.Passengers, &rec.Refund,
		&rec.Bank, &rec.Destination, &rec.Description, &rec.TransactionDate, &rec.PaymentDate,
		&rec.Amount, &rec.Fee, &rec.Tax, &rec.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record by key: %w", err)
	}

	return &rec, nil
}

// Create inserts a new record.
func (s store) Create(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO records (id, ` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := s.q.Exec(ctx, query,
		uuid.New(), string(rec.Domain), rec.Key, rec.Period, rec.SubjectID, rec.SubjectName,
		rec.BookingID, string(rec.Category), rec.Venue, rec.Detail, rec.Passengers, rec.Refund,
		rec.Bank, rec.Destination, rec.Description, rec.TransactionDate, rec.PaymentDate,
		rec.Amount, rec.Fee, rec.Tax, string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

// Update overwrites the mutable fields of a stored record, matched by its
// natural key.
func (s store) Update(ctx context.Context, rec *record.Record) error {
	query := `
		UPDATE records SET
			period = $3, subject_id = $4, subject_name = $5,
			booking_id = $6, category = $7, venue = $8, detail = $9,
			passengers = $10, refund = $11, bank = $12, destination = $13,
			description = $14, transaction_date = $15, payment_date = $16,
			amount = $17, fee = $18, tax = $19, status = $20,
			updated_at = NOW()
		WHERE domain = $1 AND natural_key = $2
	`

	_, err := s.q.Exec(ctx, query,
		string(rec.Domain), rec.Key, rec.Period, rec.SubjectID, rec.SubjectName,
		rec.BookingID, string(rec.Category), rec.Venue, rec.Detail, rec.Passengers, rec.Refund,
		rec.Bank, rec.Destination, rec.Description, rec.TransactionDate, rec.PaymentDate,
		rec.Amount, rec.Fee, rec.Tax, string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return nil
}

// UpsertPeriodFee replaces the per-period service fee rollup.
func (s store) UpsertPeriodFee(ctx context.Context, domain record.Domain, period string, feeTotal, taxTotal int64) error {
	query := `
		INSERT INTO period_fees (id, domain, period, fee_total, tax_total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain, period) DO UPDATE SET
			fee_total = EXCLUDED.fee_total,
			tax_total = EXCLUDED.tax_total,
			updated_at = NOW()
	`

	_, err := s.q.Exec(ctx, query, uuid.New(), string(domain), period, feeTotal, taxTotal)
	if err != nil {
		return fmt.Errorf("failed to upsert period fee: %w", err)
	}

	return nil
}

// CreateRun inserts the audit row for a starting run.
func (p *Postgres) CreateRun(ctx context.Context, run *ImportRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
		INSERT INTO import_runs (id, domain, file_name, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query, run.ID, string(run.Domain), run.FileName, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}

	return nil
}

// FinishRun records the outcome of a run.
func (p *Postgres) FinishRun(ctx context.Context, run *ImportRun) error {
	query := `
		UPDATE import_runs SET
			status = $2, created_count = $3, updated_count = $4,
			skipped_count = $5, failed_count = $6, error_message = $7,
			finished_at = NOW()
		WHERE id = $1
	`

	_, err := p.pool.Exec(ctx, query,
		run.ID, run.Status, run.Created, run.Updated, run.Skipped, run.Failed, run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}

	return nil
}
