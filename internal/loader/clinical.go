package loader

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

// LoadClinicalData writes one dados_clinicos row per notification. Labels
// that are not in the domain tables load as null.
func (l *Loader) LoadClinicalData(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	q := db.New(l.conn)
	classIDs, err := labelIDs(ctx, q, db.ClassificacaoFinal)
	if err != nil {
		return Stats{Table: "dados_clinicos"}, err
	}
	outcomeIDs, err := labelIDs(ctx, q, db.EvolucaoCaso)
	if err != nil {
		return Stats{Table: "dados_clinicos"}, err
	}

	lookup := func(ids map[string]int32, cat canon.Category, raw *string) pgtype.Int4 {
		label, ok := canon.CanonicalizePtr(cat, raw)
		if !ok {
			return pgtype.Int4{}
		}
		id, ok := ids[upperKey(label)]
		if !ok {
			return pgtype.Int4{}
		}
		return int4(id)
	}

	return l.runFacts(ctx, "dados_clinicos", handoff, func(fx *factTx, r factRow) error {
		p := db.InsertDadosClinicosParams{
			NotificacaoID:                r.ref.NotificationID,
			DataInicioSintomas:           toDate(r.row.DataInicioSintomas),
			ClassificacaoFinalID:         lookup(classIDs, canon.Classification, r.row.ClassificacaoFinal),
			EvolucaoCasoID:               lookup(outcomeIDs, canon.Outcome, r.row.EvolucaoCaso),
			EspecificacaoOutrosSintomas:  optToPgText(r.row.OutrosSintomas),
			EspecificacaoOutrasCondicoes: optToPgText(r.row.OutrasCondicoes),
			CodigoRecebeuVacina:          toInt2(r.row.CodigoRecebeuVacina),
			DataEncerramento:             toDate(r.row.DataEncerramento),
		}
		before := p
		applyClinicalRules(&p)
		if p != before {
			fx.stats.Flagged++
		}
		return fx.insert(r.key, func(q *db.Queries) (bool, error) {
			return q.InsertDadosClinicos(fx.ctx, p)
		})
	})
}

// LoadSymptomLinks links notifications to their canonical symptoms.
func (l *Loader) LoadSymptomLinks(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	ids, err := labelIDs(ctx, db.New(l.conn), db.Sintoma)
	if err != nil {
		return Stats{Table: "notificacao_sintoma"}, err
	}
	return l.runFacts(ctx, "notificacao_sintoma", handoff, func(fx *factTx, r factRow) error {
		if r.row.Sintomas == nil {
			return nil
		}
		return l.linkLabels(fx, r, ids, canon.SplitSymptoms(*r.row.Sintomas), func(q *db.Queries, labelID int32) (bool, error) {
			return q.InsertNotificacaoSintoma(fx.ctx, r.ref.NotificationID, labelID)
		})
	})
}

// LoadConditionLinks links notifications to the conditions found in the
// free-text list.
func (l *Loader) LoadConditionLinks(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	ids, err := labelIDs(ctx, db.New(l.conn), db.Condicao)
	if err != nil {
		return Stats{Table: "notificacao_condicao"}, err
	}
	return l.runFacts(ctx, "notificacao_condicao", handoff, func(fx *factTx, r factRow) error {
		if r.row.Condicoes == nil {
			return nil
		}
		return l.linkLabels(fx, r, ids, canon.ExtractConditions(*r.row.Condicoes), func(q *db.Queries, labelID int32) (bool, error) {
			return q.InsertNotificacaoCondicao(fx.ctx, r.ref.NotificationID, labelID)
		})
	})
}

func (l *Loader) linkLabels(fx *factTx, r factRow, ids map[string]int32, labels []string,
	link func(q *db.Queries, labelID int32) (bool, error)) error {
	seen := map[int32]bool{}
	for _, label := range labels {
		id, ok := ids[upperKey(label)]
		if !ok {
			fx.stats.Unresolved++
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		err := fx.insert(r.key, func(q *db.Queries) (bool, error) {
			return link(q, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
