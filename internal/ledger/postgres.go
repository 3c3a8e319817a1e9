package ledger

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultLedgerTable = "registrations_ledger"
	dialectPostgres    = "postgres"
)

const createLedgerTable = `
CREATE TABLE IF NOT EXISTS registrations_ledger (
	id            BIGSERIAL PRIMARY KEY,
	submitted_at  TIMESTAMPTZ NOT NULL,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL,
	organization  TEXT NOT NULL DEFAULT '',
	municipality  TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT '',
	about         TEXT NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresWriter inserts rows into registrations_ledger.
type PostgresWriter struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres connects, pings and ensures the table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresWriter, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	w := NewPostgresFromPool(pool)
	if err := w.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return w, nil
}

// NewPostgresFromPool wraps an existing pool; the caller owns its lifecycle.
func NewPostgresFromPool(pool *pgxpool.Pool) *PostgresWriter {
	return &PostgresWriter{pool: pool, table: defaultLedgerTable}
}

func (w *PostgresWriter) Name() string {
	return "postgres"
}

// EnsureSchema creates the ledger table when missing.
func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.pool.Exec(ctx, createLedgerTable); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return nil
}

// Append inserts one row.
func (w *PostgresWriter) Append(ctx context.Context, row Row) error {
	query, args, err := buildInsert(w.table, row)
	if err != nil {
		return err
	}
	if _, err := w.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ledger row: %w", err)
	}
	return nil
}

// Close releases the pool.
func (w *PostgresWriter) Close() error {
	w.pool.Close()
	return nil
}

func buildInsert(table string, row Row) (string, []any, error) {
	if len(row) != len(Columns) {
		return "", nil, fmt.Errorf("ledger row has %d cells, want %d", len(row), len(Columns))
	}
	query, args, err := goqu.Dialect(dialectPostgres).
		Insert(table).
		Rows(goqu.Record{
			"submitted_at": goqu.L("?::timestamptz", row[0]),
			"full_name":    row[1],
			"email":        row[2],
			"organization": row[3],
			"municipality": row[4],
			"role":         row[5],
			"about":        row[6],
			"notes":        row[7],
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build insert query: %w", err)
	}
	return query, args, nil
}
