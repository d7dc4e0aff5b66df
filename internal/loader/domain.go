package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

var labelTables = map[canon.Category]db.LabelTable{
	canon.Sex:            db.Sexo,
	canon.Race:           db.Raca,
	canon.Outcome:        db.EvolucaoCaso,
	canon.Classification: db.ClassificacaoFinal,
	canon.Symptom:        db.Sintoma,
	canon.Condition:      db.Condicao,
}

// simpleFields are the single-valued label columns.
var simpleFields = []struct {
	cat   canon.Category
	value func(r *snapshot.SourceRow) *string
}{
	{canon.Sex, func(r *snapshot.SourceRow) *string { return r.Sexo }},
	{canon.Race, func(r *snapshot.SourceRow) *string { return r.RacaCor }},
	{canon.Outcome, func(r *snapshot.SourceRow) *string { return r.EvolucaoCaso }},
	{canon.Classification, func(r *snapshot.SourceRow) *string { return r.ClassificacaoFinal }},
}

// codeRanges are the fixed vocabularies of the numeric code tables.
var codeRanges = []struct {
	table db.CodeTable
	last  int16
}{
	{db.Estrategia, 3},
	{db.LocalTestagem, 7},
	{db.ResultadoTeste, 3},
	{db.TipoTeste, 9},
	{db.EstadoTeste, 4},
}

// LoadDomain fills every lookup table the core and fact passes resolve
// against. All inserts are idempotent.
func (l *Loader) LoadDomain(ctx context.Context) ([]Stats, error) {
	var all []Stats
	for _, f := range simpleFields {
		s, err := l.loadLabels(ctx, f.cat, l.distinctLabels(f.cat, f.value))
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}

	symptoms := l.distinctMulti(func(r *snapshot.SourceRow) []string {
		if r.Sintomas == nil {
			return nil
		}
		return canon.SplitSymptoms(*r.Sintomas)
	})
	s, err := l.loadCatchAll(ctx, canon.Symptom, symptoms, canon.OtherSymptom, canon.OtherSymptomPosition)
	if err != nil {
		return all, err
	}
	all = append(all, s)

	conditions := l.distinctMulti(func(r *snapshot.SourceRow) []string {
		if r.Condicoes == nil {
			return nil
		}
		return canon.ExtractConditions(*r.Condicoes)
	})
	s, err = l.loadCatchAll(ctx, canon.Condition, conditions, canon.OtherCondition, canon.OtherConditionPosition)
	if err != nil {
		return all, err
	}
	all = append(all, s)

	for _, step := range []func(context.Context) (Stats, error){
		l.loadOccupations,
		l.loadLaboratories,
		l.loadManufacturers,
	} {
		s, err := step(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}

	for _, cr := range codeRanges {
		s, err := l.loadCodes(ctx, cr.table, cr.last)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}
	return all, nil
}

// distinctLabels canonicalizes one column over the dataset and returns the
// sorted distinct labels.
func (l *Loader) distinctLabels(cat canon.Category, value func(r *snapshot.SourceRow) *string) []string {
	seen := map[string]bool{}
	for _, row := range l.data.All() {
		if label, ok := canon.CanonicalizePtr(cat, value(row)); ok {
			seen[label] = true
		}
	}
	return sortedKeys(seen)
}

func (l *Loader) distinctMulti(values func(r *snapshot.SourceRow) []string) []string {
	seen := map[string]bool{}
	for _, row := range l.data.All() {
		for _, v := range values(row) {
			seen[v] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (l *Loader) loadLabels(ctx context.Context, cat canon.Category, labels []string) (Stats, error) {
	start := time.Now()
	t := labelTables[cat]
	stats := Stats{Table: t.Name}
	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, label := range labels {
			inserted, err := q.InsertLabel(ctx, t, label)
			if err != nil {
				return fmt.Errorf("insert %s %q: %w", t.Name, label, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

// loadCatchAll inserts labels with the catch-all forced to position, then
// checks that the catch-all really received that id. A mismatch means the
// table was not empty before the first run; consumers that hard-code the id
// will be wrong, so it is logged loudly but not fatal.
func (l *Loader) loadCatchAll(ctx context.Context, cat canon.Category, labels []string, catchAll string, position int) (Stats, error) {
	ordered := canon.OrderWithCatchAll(labels, catchAll, position)
	stats, err := l.loadLabels(ctx, cat, ordered)
	if err != nil {
		return stats, err
	}
	t := labelTables[cat]
	id, err := db.New(l.conn).GetLabelID(ctx, t, catchAll)
	if err != nil {
		return stats, fmt.Errorf("read back %s %q: %w", t.Name, catchAll, err)
	}
	if int(id) != position {
		l.log.Warn().
			Str("table", t.Name).
			Str("label", catchAll).
			Int32("id", id).
			Int("expected", position).
			Msg("catch-all label id differs from expected position")
	}
	return stats, nil
}

func (l *Loader) loadOccupations(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "cbo"}

	var occs []canon.Occupation
	seen := map[string]bool{}
	for key, row := range l.data.All() {
		if row.Cbo == nil {
			continue
		}
		occ, ok, err := canon.ParseOccupation(*row.Cbo)
		if err != nil {
			l.log.Warn().Int32("row", int32(key)).Err(err).Msg("skipping occupation")
			stats.Skipped++
			continue
		}
		if !ok || seen[occ.Code] {
			continue
		}
		seen[occ.Code] = true
		occ.Title = sanitizeUTF8(occ.Title)
		occs = append(occs, occ)
	}
	sort.Slice(occs, func(i, j int) bool { return occs[i].Code < occs[j].Code })

	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, occ := range occs {
			inserted, err := q.InsertCbo(ctx, db.InsertCboParams{Codigo: occ.Code, Titulo: occ.Title})
			if err != nil {
				return fmt.Errorf("insert cbo %s: %w", occ.Code, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

func (l *Loader) loadLaboratories(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "laboratorio_vacina"}
	names := l.distinctText(func(r *snapshot.SourceRow) []*string {
		return []*string{r.CodigoLaboratorioPrimeiraDose, r.CodigoLaboratorioSegundaDose}
	})
	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, name := range names {
			inserted, err := q.InsertLaboratorioVacina(ctx, name)
			if err != nil {
				return fmt.Errorf("insert laboratorio_vacina %q: %w", name, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

func (l *Loader) loadManufacturers(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "fabricante_teste"}
	codes := l.distinctText(func(r *snapshot.SourceRow) []*string {
		slots := r.TestSlots()
		out := make([]*string, len(slots))
		for i, s := range slots {
			out[i] = s.Manufacturer
		}
		return out
	})
	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, code := range codes {
			inserted, err := q.InsertFabricanteTeste(ctx, code)
			if err != nil {
				return fmt.Errorf("insert fabricante_teste %q: %w", code, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

// distinctText collects trimmed, non-missing free-text values from several
// columns.
func (l *Loader) distinctText(values func(r *snapshot.SourceRow) []*string) []string {
	seen := map[string]bool{}
	for _, row := range l.data.All() {
		for _, v := range values(row) {
			if t := optToPgText(v); t.Valid {
				seen[t.String] = true
			}
		}
	}
	return sortedKeys(seen)
}

func (l *Loader) loadCodes(ctx context.Context, t db.CodeTable, last int16) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: t.Name}
	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for c := int16(1); c <= last; c++ {
			inserted, err := q.InsertCode(ctx, t, c)
			if err != nil {
				return fmt.Errorf("insert %s %d: %w", t.Name, c, err)
			}
			if inserted {
				stats.Inserted++
			} else {
				stats.Existing++
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, l.finish(ctx, &stats, start)
}

// upperKey is the key used by every label cache.
func upperKey(label string) string { return strings.ToUpper(label) }
