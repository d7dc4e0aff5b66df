package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

// NotificationRef is what the fact passes need to know about a loaded row.
type NotificationRef struct {
	NotificationID int32
	PatientID      int32
}

// LoadNotifications inserts one notificacao per source row, keyed by the
// row ordinal. Commits happen every batchSize inserted rows; store-level
// failures are isolated per row and the pass stops after
// notificationErrorLimit of them.
func (l *Loader) LoadNotifications(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "notificacao"}

	res, err := l.newPatientResolver(ctx)
	if err != nil {
		return stats, err
	}
	patients, err := l.loadPatientCache(ctx)
	if err != nil {
		return stats, err
	}
	geo, err := l.loadGeoCache(ctx)
	if err != nil {
		return stats, err
	}
	cbos, err := db.New(l.conn).ListCbos(ctx)
	if err != nil {
		return stats, fmt.Errorf("list cbo: %w", err)
	}
	cboIDs := make(map[string]int32, len(cbos))
	for _, c := range cbos {
		cboIDs[c.Codigo] = c.CboID
	}

	var (
		tx      pgx.Tx
		pending int
		budget  bool
		done    int
	)
	beginTx := func() error {
		tx, err = l.conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		return nil
	}
	if err := beginTx(); err != nil {
		return stats, err
	}

	prog := newProgress(l.log, stats.Table, l.data.Len(), l.progressEvery)
	for key, row := range l.data.All() {
		done++
		prog.tick(done)

		k, ok := res.key(row)
		if !ok {
			stats.Unresolved++
			continue
		}
		patientID, ok := patients[k]
		if !ok {
			stats.Unresolved++
			continue
		}
		muniID, ok := geo.resolve(row.Notifier())
		if !ok {
			l.log.Debug().Int32("row", int32(key)).Msg("notifying municipality unresolved")
			stats.Unresolved++
			continue
		}
		if row.DataNotificacao == nil {
			stats.Skipped++
			continue
		}

		p := notificationParams(row)
		p.LinhaOrigem = int32(key)
		p.PacienteID = patientID
		p.MunicipioNotificacaoID = muniID
		if row.Cbo != nil {
			if code, ok := canon.NotificationOccupationCode(*row.Cbo); ok {
				if id, hit := cboIDs[code]; hit {
					p.CboID = int4(id)
				}
			}
		}
		if !applyOccupationGate(&p) {
			l.log.Debug().Int32("row", int32(key)).Msg("health professional without occupation")
			stats.Skipped++
			continue
		}

		var inserted bool
		rowErr, fatal := insertRow(ctx, tx, func(q *db.Queries) error {
			var err error
			_, inserted, err = q.InsertNotificacao(ctx, p)
			return err
		})
		if fatal != nil {
			tx.Rollback(ctx)
			return stats, fatal
		}
		if rowErr != nil {
			stats.Errors++
			logRowError(l.log, stats.Table, key, rowErr)
			if stats.Errors > notificationErrorLimit {
				budget = true
				break
			}
			continue
		}
		if !inserted {
			stats.Existing++
			continue
		}
		stats.Inserted++
		pending++

		if pending >= l.batchSize {
			if err := tx.Commit(ctx); err != nil {
				return stats, fmt.Errorf("commit: %w", err)
			}
			if err := beginTx(); err != nil {
				return stats, err
			}
			pending = 0
		}
	}

	if err := ctx.Err(); err != nil {
		tx.Rollback(ctx)
		return stats, err
	}
	if err := tx.Commit(ctx); err != nil {
		return stats, fmt.Errorf("final commit: %w", err)
	}
	if err := l.finish(ctx, &stats, start); err != nil {
		return stats, err
	}
	if budget {
		return stats, fmt.Errorf("notificacao: %d errors: %w", stats.Errors, ErrErrorBudget)
	}
	return stats, nil
}

// notificationParams maps the row-local notification fields.
func notificationParams(row *snapshot.SourceRow) db.InsertNotificacaoParams {
	health, _ := canon.ParseTriStatePtr(row.ProfissionalSaude).Resolve(canon.HealthProfessionalPolicy)
	security, securityValid := canon.ParseTriStatePtr(row.ProfissionalSeguranca).Resolve(canon.SecurityProfessionalPolicy)
	validated, validatedValid := canon.ParseTriStatePtr(row.Validado).Resolve(canon.ValidatedPolicy)
	excluded, excludedValid := canon.TriStateFromBool(row.Excluido).Resolve(canon.UnknownIsNull)
	return db.InsertNotificacaoParams{
		ProfissionalSaude:     health,
		ProfissionalSeguranca: boolOrNull(security, securityValid),
		DataNotificacao:       toDate(row.DataNotificacao),
		Origem:                optToPgText(row.Origem),
		Excluido:              boolOrNull(excluded, excludedValid),
		Validado:              boolOrNull(validated, validatedValid),
	}
}

// LoadHandoff rebuilds the RowKey -> notification map from the table. Rows
// that were rejected by the notification pass are simply absent.
func (l *Loader) LoadHandoff(ctx context.Context) (map[snapshot.RowKey]NotificationRef, error) {
	refs, err := db.New(l.conn).ListNotificacaoRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notificacao: %w", err)
	}
	out := make(map[snapshot.RowKey]NotificationRef, len(refs))
	for _, r := range refs {
		out[snapshot.RowKey(r.LinhaOrigem)] = NotificationRef{
			NotificationID: r.NotificacaoID,
			PatientID:      r.PacienteID,
		}
	}
	return out, nil
}
