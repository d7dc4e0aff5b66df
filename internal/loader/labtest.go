package loader

import (
	"context"
	"fmt"

	"esusload/db"
	"esusload/internal/snapshot"
)

// LoadLabTests writes up to four teste_laboratorial rows per notification,
// one per slot with both a type and a state. Code 0 means no test.
func (l *Loader) LoadLabTests(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	const table = "teste_laboratorial"
	q := db.New(l.conn)
	types, err := codeSet(ctx, q, db.TipoTeste)
	if err != nil {
		return Stats{Table: table}, err
	}
	states, err := codeSet(ctx, q, db.EstadoTeste)
	if err != nil {
		return Stats{Table: table}, err
	}
	results, err := codeSet(ctx, q, db.ResultadoTeste)
	if err != nil {
		return Stats{Table: table}, err
	}
	makers, err := q.ListFabricantesTeste(ctx)
	if err != nil {
		return Stats{Table: table}, fmt.Errorf("list fabricante_teste: %w", err)
	}
	makerIDs := make(map[string]int32, len(makers))
	for _, m := range makers {
		makerIDs[m.Codigo] = m.FabricanteID
	}

	return l.runFacts(ctx, table, handoff, func(fx *factTx, r factRow) error {
		for i, slot := range r.row.TestSlots() {
			typ, state := toInt2(slot.Type), toInt2(slot.State)
			if !typ.Valid || !state.Valid || typ.Int16 == 0 || state.Int16 == 0 {
				continue
			}
			if !types[typ.Int16] || !states[state.Int16] {
				fx.stats.Unresolved++
				continue
			}
			p := db.InsertTesteLaboratorialParams{
				NotificacaoID:   r.ref.NotificationID,
				Ordem:           int16(i + 1),
				ResultadoCodigo: toInt2(slot.Result),
				TipoCodigo:      typ.Int16,
				EstadoCodigo:    state.Int16,
				DataColeta:      toDate(slot.Collected),
			}
			if p.ResultadoCodigo.Valid && !results[p.ResultadoCodigo.Int16] {
				fx.stats.Unresolved++
				continue
			}
			if code := optToPgText(slot.Manufacturer); code.Valid {
				if id, ok := makerIDs[code.String]; ok {
					p.FabricanteID = int4(id)
				}
			}
			if !applyLabTestRules(&p) {
				fx.stats.Skipped++
				continue
			}
			err := fx.insert(r.key, func(q *db.Queries) (bool, error) {
				return q.InsertTesteLaboratorial(fx.ctx, p)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadTestingStrategies writes the testing location and strategy of each
// notification that has a location.
func (l *Loader) LoadTestingStrategies(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	const table = "dados_estrategia_local_testagem"
	q := db.New(l.conn)
	locations, err := codeSet(ctx, q, db.LocalTestagem)
	if err != nil {
		return Stats{Table: table}, err
	}
	strategies, err := codeSet(ctx, q, db.Estrategia)
	if err != nil {
		return Stats{Table: table}, err
	}

	return l.runFacts(ctx, table, handoff, func(fx *factTx, r factRow) error {
		loc := toInt2(r.row.CodigoLocalRealizacaoTestagem)
		if !loc.Valid {
			fx.stats.Skipped++
			return nil
		}
		if !locations[loc.Int16] {
			fx.stats.Unresolved++
			return nil
		}
		p := db.InsertDadosEstrategiaParams{
			NotificacaoID:              r.ref.NotificationID,
			LocalTestagemCodigo:        loc.Int16,
			EspecificacaoOutroTestagem: optToPgText(r.row.OutroLocalRealizacaoTestagem),
			EstrategiaCodigo:           toInt2(r.row.CodigoEstrategiaCovid),
			CodigoBuscaAtiva:           toInt2(r.row.CodigoBuscaAtivaAssintomatico),
			EspecificacaoOutroBa:       optToPgText(r.row.OutroBuscaAtivaAssintomatico),
			CodigoTriagemEspecifica:    toInt2(r.row.CodigoTriagemPopulacaoEspecifica),
			EspecificacaoOutroTe:       optToPgText(r.row.OutroTriagemPopulacaoEspecifica),
		}
		if p.EstrategiaCodigo.Valid && !strategies[p.EstrategiaCodigo.Int16] {
			fx.stats.Unresolved++
			return nil
		}
		if !applyStrategyRules(&p) {
			l.log.Debug().Int32("row", int32(r.key)).Msg("other testing location without description")
			fx.stats.Skipped++
			return nil
		}
		return fx.insert(r.key, func(q *db.Queries) (bool, error) {
			return q.InsertDadosEstrategia(fx.ctx, p)
		})
	})
}
