package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"esusload/db"
)

// DB is what the loader needs from a pool: plain queries for cache reads and
// Begin for the write transactions.
type DB interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ErrErrorBudget is returned when a pass hits its store-level error ceiling.
// Rows inserted before the ceiling are committed.
var ErrErrorBudget = errors.New("error budget exhausted")

// inTx runs fn in one transaction and commits it. Any error rolls back.
func inTx(ctx context.Context, conn DB, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insertRow runs fn inside a savepoint of tx. When fn fails only the savepoint
// is rolled back and the failure comes back as rowErr, leaving tx usable.
// fatal is set when the savepoint itself cannot be created or released.
func insertRow(ctx context.Context, tx pgx.Tx, fn func(q *db.Queries) error) (rowErr, fatal error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("savepoint: %w", err)
	}
	if err := fn(db.New(sp)); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return err, fmt.Errorf("rollback savepoint: %w", rbErr)
		}
		return err, nil
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, fmt.Errorf("release savepoint: %w", err)
	}
	return nil, nil
}

// logRowError logs a store-level row failure with the Postgres code and
// constraint when available.
func logRowError(log zerolog.Logger, table string, key any, err error) {
	ev := log.Warn().Str("table", table).Interface("row", key).Err(err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		ev = ev.Str("pg_code", pgErr.Code)
		if pgErr.ConstraintName != "" {
			ev = ev.Str("constraint", pgErr.ConstraintName)
		}
	}
	ev.Msg("insert failed")
}

// progress prints a line at most every interval.
type progress struct {
	log      zerolog.Logger
	table    string
	total    int
	interval time.Duration
	last     time.Time
	start    time.Time
}

func newProgress(log zerolog.Logger, table string, total int, interval time.Duration) *progress {
	now := time.Now()
	return &progress{log: log, table: table, total: total, interval: interval, last: now, start: now}
}

func (p *progress) tick(done int) {
	if p.interval <= 0 || time.Since(p.last) < p.interval {
		return
	}
	p.last = time.Now()
	elapsed := time.Since(p.start)
	rate := float64(done) / elapsed.Seconds()
	p.log.Info().
		Str("table", p.table).
		Int("rows", done).
		Int("total", p.total).
		Float64("rows_per_sec", rate).
		Msg("progress")
}
