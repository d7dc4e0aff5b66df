package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"esusload/db"
)

// Phase is one independently runnable stage of the load.
type Phase string

const (
	PhaseDomain Phase = "domain" // domain tables, states, municipalities
	PhaseCore   Phase = "core"   // patients, notifications
	PhaseFacts  Phase = "facts"  // everything keyed by notification
)

var allPhases = []Phase{PhaseDomain, PhaseCore, PhaseFacts}

var (
	ErrNoCoreRun        = errors.New("core phase has never completed")
	ErrRowCountMismatch = errors.New("snapshot row count differs from the core run")
)

// ParsePhases accepts a single phase name or "all".
func ParsePhases(s string) ([]Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return allPhases, nil
	}
	for _, p := range allPhases {
		if string(p) == s {
			return []Phase{p}, nil
		}
	}
	return nil, fmt.Errorf("unknown phase %q (want domain, core, facts or all)", s)
}

// PauseFunc is called before every phase but the first. Returning an error
// stops the run.
type PauseFunc func(next Phase) error

// Run executes phases in order. Every phase run is recorded in
// execucao_carga; the facts phase refuses to run against a snapshot whose
// row count differs from the last completed core run.
func (l *Loader) Run(ctx context.Context, phases []Phase, pause PauseFunc) ([]Stats, error) {
	var all []Stats
	for i, ph := range phases {
		if i > 0 && pause != nil {
			if err := pause(ph); err != nil {
				return all, err
			}
		}
		stats, err := l.runPhase(ctx, ph)
		all = append(all, stats...)
		if err != nil {
			return all, fmt.Errorf("phase %s: %w", ph, err)
		}
	}
	return all, nil
}

func (l *Loader) runPhase(ctx context.Context, ph Phase) ([]Stats, error) {
	q := db.New(l.conn)
	if ph == PhaseFacts {
		if err := l.checkCoreRun(ctx); err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	runID := pgtype.UUID{Bytes: id, Valid: true}
	err := q.StartExecucao(ctx, db.StartExecucaoParams{
		ExecucaoID: runID,
		Fase:       string(ph),
		Arquivo:    l.data.Path(),
		Linhas:     int32(l.data.Len()),
	})
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	log := l.log.With().Str("phase", string(ph)).Str("run_id", id.String()).Logger()
	log.Info().Int("rows", l.data.Len()).Msg("phase started")
	start := time.Now()

	var stats []Stats
	switch ph {
	case PhaseDomain:
		stats, err = l.LoadDomain(ctx)
		if err == nil {
			var geo []Stats
			geo, err = l.LoadGeo(ctx)
			stats = append(stats, geo...)
		}
	case PhaseCore:
		var s Stats
		s, err = l.LoadPatients(ctx)
		stats = append(stats, s)
		if err == nil {
			s, err = l.LoadNotifications(ctx)
			stats = append(stats, s)
		}
	case PhaseFacts:
		stats, err = l.LoadFacts(ctx)
	default:
		err = fmt.Errorf("unknown phase %q", ph)
	}
	if err != nil {
		return stats, err
	}

	if err := q.FinishExecucao(ctx, runID); err != nil {
		return stats, fmt.Errorf("record run: %w", err)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("phase complete")
	return stats, nil
}

func (l *Loader) checkCoreRun(ctx context.Context) error {
	run, found, err := db.New(l.conn).LastCompletedExecucao(ctx, string(PhaseCore))
	if err != nil {
		return fmt.Errorf("read core run: %w", err)
	}
	if !found {
		return ErrNoCoreRun
	}
	if int(run.Linhas) != l.data.Len() {
		return fmt.Errorf("%w: core loaded %d rows from %s, snapshot has %d",
			ErrRowCountMismatch, run.Linhas, run.Arquivo, l.data.Len())
	}
	return nil
}
