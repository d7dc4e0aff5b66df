package loader

import (
	"context"
	"fmt"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

// LoadVaccinations writes one notificacao_vacina row per dose date present.
// The two date columns are chronological slots; the dose number comes from
// the ordinal list and falls back to the slot number.
func (l *Loader) LoadVaccinations(ctx context.Context, handoff map[snapshot.RowKey]NotificationRef) (Stats, error) {
	labs, err := db.New(l.conn).ListLaboratoriosVacina(ctx)
	if err != nil {
		return Stats{Table: "notificacao_vacina"}, fmt.Errorf("list laboratorio_vacina: %w", err)
	}
	labIDs := make(map[string]int32, len(labs))
	for _, lab := range labs {
		labIDs[lab.Nome] = lab.LaboratorioVacinaID
	}

	return l.runFacts(ctx, "notificacao_vacina", handoff, func(fx *factTx, r factRow) error {
		slots := r.row.DoseSlots()
		present := [2]bool{slots[0].Date != nil, slots[1].Date != nil}
		if !present[0] && !present[1] {
			return nil
		}

		var ordinals []int
		if r.row.CodigoDosesVacina != nil {
			ordinals = canon.ParseDoseOrdinals(*r.row.CodigoDosesVacina)
		}
		nums, mismatch := doseNumbers(ordinals, present)
		if mismatch {
			fx.stats.Flagged++
			l.log.Warn().
				Int32("row", int32(r.key)).
				Ints("ordinals", ordinals).
				Bool("first_dose", present[0]).
				Bool("second_dose", present[1]).
				Msg("ordinal_mismatch")
		}

		for i, slot := range slots {
			if slot.Date == nil {
				continue
			}
			p := db.InsertNotificacaoVacinaParams{
				NotificacaoID: r.ref.NotificationID,
				Ordem:         int16(i + 1),
				DoseNumero:    nums[i],
				DataVacinacao: toDate(slot.Date),
				Lote:          optToPgText(slot.Lot),
			}
			if name := optToPgText(slot.Laboratory); name.Valid {
				if id, ok := labIDs[name.String]; ok {
					p.LabID = int4(id)
				}
			}
			err := fx.insert(r.key, func(q *db.Queries) (bool, error) {
				return q.InsertNotificacaoVacina(fx.ctx, p)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
