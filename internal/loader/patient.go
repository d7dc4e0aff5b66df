package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

// PatientKey is the dedup tuple of a patient. Age is meaningful only when
// HasAge is set; negative source ages are treated as missing.
type PatientKey struct {
	Age    int32
	HasAge bool
	SexID  int32
	RaceID int32
	Member bool
}

// patientResolver derives patient keys from source rows.
type patientResolver struct {
	sexIDs  map[string]int32
	raceIDs map[string]int32
}

func (l *Loader) newPatientResolver(ctx context.Context) (*patientResolver, error) {
	q := db.New(l.conn)
	sexIDs, err := labelIDs(ctx, q, db.Sexo)
	if err != nil {
		return nil, err
	}
	raceIDs, err := labelIDs(ctx, q, db.Raca)
	if err != nil {
		return nil, err
	}
	return &patientResolver{sexIDs: sexIDs, raceIDs: raceIDs}, nil
}

// key returns false when sex or race is missing or not in the domain tables.
func (r *patientResolver) key(row *snapshot.SourceRow) (PatientKey, bool) {
	sex, ok := canon.CanonicalizePtr(canon.Sex, row.Sexo)
	if !ok {
		return PatientKey{}, false
	}
	race, ok := canon.CanonicalizePtr(canon.Race, row.RacaCor)
	if !ok {
		return PatientKey{}, false
	}
	k := PatientKey{}
	if k.SexID, ok = r.sexIDs[upperKey(sex)]; !ok {
		return PatientKey{}, false
	}
	if k.RaceID, ok = r.raceIDs[upperKey(race)]; !ok {
		return PatientKey{}, false
	}
	if row.Idade != nil && *row.Idade >= 0 {
		k.Age, k.HasAge = *row.Idade, true
	}
	k.Member, _ = canon.TriStateFromBool(row.CodigoContemComunidadeTradicional).Resolve(canon.TraditionalMemberPolicy)
	return k, true
}

// sourceTuple is the raw patient tuple of a row, used to count unresolved
// patients once each.
type sourceTuple struct {
	age    int32
	hasAge bool
	sex    string
	race   string
	member bool
}

func tupleOf(row *snapshot.SourceRow) sourceTuple {
	var st sourceTuple
	if row.Idade != nil && *row.Idade >= 0 {
		st.age, st.hasAge = *row.Idade, true
	}
	if sex, ok := canon.CanonicalizePtr(canon.Sex, row.Sexo); ok {
		st.sex = upperKey(sex)
	}
	if race, ok := canon.CanonicalizePtr(canon.Race, row.RacaCor); ok {
		st.race = upperKey(race)
	}
	st.member, _ = canon.TriStateFromBool(row.CodigoContemComunidadeTradicional).Resolve(canon.TraditionalMemberPolicy)
	return st
}

func (k PatientKey) params() db.InsertPacienteParams {
	return db.InsertPacienteParams{
		Idade:                 pgtype.Int4{Int32: k.Age, Valid: k.HasAge},
		SexoID:                k.SexID,
		RacaID:                k.RaceID,
		MembroPovoTradicional: k.Member,
	}
}

// LoadPatients inserts every distinct patient tuple. Store-level failures are
// isolated per row; the pass stops after patientErrorLimit of them.
func (l *Loader) LoadPatients(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "paciente"}

	res, err := l.newPatientResolver(ctx)
	if err != nil {
		return stats, err
	}

	var keys []PatientKey
	seen := map[PatientKey]bool{}
	unresolved := map[sourceTuple]bool{}
	for key, row := range l.data.All() {
		k, ok := res.key(row)
		if !ok {
			st := tupleOf(row)
			if !unresolved[st] {
				unresolved[st] = true
				l.log.Debug().Int32("row", int32(key)).Msg("patient sex or race unresolved")
				stats.Unresolved++
			}
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}

	budget := false
	prog := newProgress(l.log, stats.Table, len(keys), l.progressEvery)
	err = inTx(ctx, l.conn, func(tx pgx.Tx) error {
		for i, k := range keys {
			var inserted bool
			rowErr, fatal := insertRow(ctx, tx, func(q *db.Queries) error {
				var err error
				inserted, err = q.InsertPaciente(ctx, k.params())
				return err
			})
			if fatal != nil {
				return fatal
			}
			switch {
			case rowErr != nil:
				stats.Errors++
				logRowError(l.log, stats.Table, k, rowErr)
				if stats.Errors > patientErrorLimit {
					budget = true
					return nil
				}
			case inserted:
				stats.Inserted++
			default:
				stats.Existing++
			}
			prog.tick(i + 1)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	if err := l.finish(ctx, &stats, start); err != nil {
		return stats, err
	}
	if budget {
		return stats, fmt.Errorf("paciente: %d errors: %w", stats.Errors, ErrErrorBudget)
	}
	return stats, nil
}

// loadPatientCache reads paciente back into a key -> id map.
func (l *Loader) loadPatientCache(ctx context.Context) (map[PatientKey]int32, error) {
	rows, err := db.New(l.conn).ListPacientes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pacientes: %w", err)
	}
	cache := make(map[PatientKey]int32, len(rows))
	for _, p := range rows {
		k := PatientKey{
			Age:    p.Idade.Int32,
			HasAge: p.Idade.Valid,
			SexID:  p.SexoID,
			RaceID: p.RacaID,
			Member: p.MembroPovoTradicional,
		}
		if _, dup := cache[k]; !dup {
			cache[k] = p.PacienteID
		}
	}
	return cache, nil
}
