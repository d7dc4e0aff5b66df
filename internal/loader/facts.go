package loader

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"esusload/db"
	"esusload/internal/snapshot"
)

// factRow is one source row that made it into notificacao.
type factRow struct {
	key snapshot.RowKey
	row *snapshot.SourceRow
	ref NotificationRef
}

// factTx is the per-pass write context handed to each row.
type factTx struct {
	ctx   context.Context
	tx    pgx.Tx
	stats *Stats
	l     *Loader
}

// insert runs fn in a savepoint and books the outcome. Only a failure to
// manage the savepoint itself is returned.
func (fx *factTx) insert(key any, fn func(q *db.Queries) (bool, error)) error {
	var inserted bool
	rowErr, fatal := insertRow(fx.ctx, fx.tx, func(q *db.Queries) error {
		var err error
		inserted, err = fn(q)
		return err
	})
	if fatal != nil {
		return fatal
	}
	switch {
	case rowErr != nil:
		fx.stats.Errors++
		logRowError(fx.l.log, fx.stats.Table, key, rowErr)
	case inserted:
		fx.stats.Inserted++
	default:
		fx.stats.Existing++
	}
	return nil
}

// runFacts iterates the rows present in handoff inside one transaction and
// commits once at the end.
func (l *Loader) runFacts(ctx context.Context, table string, handoff map[snapshot.RowKey]NotificationRef,
	each func(fx *factTx, r factRow) error) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: table}
	prog := newProgress(l.log, table, l.data.Len(), l.progressEvery)

	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		fx := &factTx{ctx: ctx, tx: tx, stats: &stats, l: l}
		done := 0
		for key, row := range l.data.All() {
			done++
			prog.tick(done)
			ref, ok := handoff[key]
			if !ok {
				continue
			}
			if err := each(fx, factRow{key: key, row: row, ref: ref}); err != nil {
				return err
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

// LoadFacts runs every dependent pass against the notifications already in
// the store.
func (l *Loader) LoadFacts(ctx context.Context) ([]Stats, error) {
	handoff, err := l.LoadHandoff(ctx)
	if err != nil {
		return nil, err
	}
	l.log.Info().Int("notifications", len(handoff)).Msg("hand-off loaded")

	passes := []func(context.Context, map[snapshot.RowKey]NotificationRef) (Stats, error){
		l.LoadResidences,
		l.LoadClinicalData,
		l.LoadSymptomLinks,
		l.LoadConditionLinks,
		l.LoadVaccinations,
		l.LoadLabTests,
		l.LoadTestingStrategies,
	}
	var all []Stats
	for _, pass := range passes {
		s, err := pass(ctx, handoff)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}
	return all, nil
}

// LoadResidences links each patient to its residence municipality.
func (l *Loader) LoadResidences(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	geo, err := l.loadGeoCache(ctx)
	if err != nil {
		return Stats{Table: "residencia_paciente"}, err
	}
	seen := map[[2]int32]bool{}
	return l.runFacts(ctx, "residencia_paciente", handoff, func(fx *factTx, r factRow) error {
		muniID, ok := geo.resolve(r.row.Residence())
		if !ok {
			fx.stats.Unresolved++
			return nil
		}
		pair := [2]int32{r.ref.PatientID, muniID}
		if seen[pair] {
			return nil
		}
		seen[pair] = true
		return fx.insert(r.key, func(q *db.Queries) (bool, error) {
			return q.InsertResidenciaPaciente(fx.ctx, db.InsertResidenciaPacienteParams{
				PacienteID:  r.ref.PatientID,
				MunicipioID: muniID,
			})
		})
	})
}
