// Package loader normalizes the case snapshot into the relational schema.
// Passes run in dependency order and each one commits and re-reads its own
// output before the next one starts.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"esusload/db"
	"esusload/internal/snapshot"
)

const (
	patientErrorLimit      = 10
	notificationErrorLimit = 50
)

// Loader owns one snapshot and one database. It is a single sequential
// writer; passes must not run concurrently.
type Loader struct {
	conn          DB
	data          *snapshot.Dataset
	log           zerolog.Logger
	batchSize     int
	progressEvery time.Duration
}

type Option func(*Loader)

// WithBatchSize sets how many notifications are inserted per commit.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

func WithProgressInterval(d time.Duration) Option {
	return func(l *Loader) { l.progressEvery = d }
}

func New(conn DB, data *snapshot.Dataset, log zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		conn:          conn,
		data:          data,
		log:           log,
		batchSize:     1000,
		progressEvery: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stats summarizes one pass over one table.
type Stats struct {
	Table      string
	Inserted   int
	Existing   int // already present, left untouched
	Skipped    int // rejected by a pre-insert rule
	Unresolved int // a reference lookup missed
	Errors     int // store-level insert failures
	Flagged    int // inserted, but the source was inconsistent
	Rows       int64
	Duration   time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%s: %d inserted, %d existing, %d skipped, %d unresolved, %d errors, %d flagged, %d rows",
		s.Table, s.Inserted, s.Existing, s.Skipped, s.Unresolved, s.Errors, s.Flagged, s.Rows)
}

// finish counts the table and logs the pass summary.
func (l *Loader) finish(ctx context.Context, s *Stats, start time.Time) error {
	n, err := db.New(l.conn).CountRows(ctx, s.Table)
	if err != nil {
		return fmt.Errorf("count %s: %w", s.Table, err)
	}
	s.Rows = n
	s.Duration = time.Since(start)
	l.log.Info().
		Str("table", s.Table).
		Int("inserted", s.Inserted).
		Int("existing", s.Existing).
		Int("skipped", s.Skipped).
		Int("unresolved", s.Unresolved).
		Int("errors", s.Errors).
		Int("flagged", s.Flagged).
		Int64("rows", s.Rows).
		Dur("elapsed", s.Duration).
		Msg("pass complete")
	return nil
}

// labelIDs reads a domain table into an uppercase label -> id map.
func labelIDs(ctx context.Context, q *db.Queries, t db.LabelTable) (map[string]int32, error) {
	labels, err := q.ListLabels(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}
	ids := make(map[string]int32, len(labels))
	for _, l := range labels {
		ids[upperKey(l.Descricao)] = l.ID
	}
	return ids, nil
}

// codeSet reads a numeric code table into a membership set.
func codeSet(ctx context.Context, q *db.Queries, t db.CodeTable) (map[int16]bool, error) {
	codes, err := q.ListCodes(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, err)
	}
	set := make(map[int16]bool, len(codes))
	for _, c := range codes {
		set[c.Codigo] = true
	}
	return set, nil
}
