package loader

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"esusload/db"
	"esusload/internal/canon"
	"esusload/internal/snapshot"
)

// LoadGeo loads states and then municipalities from both the residence and
// the notifying column groups.
func (l *Loader) LoadGeo(ctx context.Context) ([]Stats, error) {
	states, err := l.loadStates(ctx)
	if err != nil {
		return nil, err
	}
	munis, err := l.loadMunicipalities(ctx)
	if err != nil {
		return []Stats{states}, err
	}
	return []Stats{states, munis}, nil
}

func (l *Loader) places() iter.Seq2[snapshot.RowKey, snapshot.Place] {
	return func(yield func(snapshot.RowKey, snapshot.Place) bool) {
		for key, row := range l.data.All() {
			if !yield(key, row.Residence()) || !yield(key, row.Notifier()) {
				return
			}
		}
	}
}

func (l *Loader) loadStates(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "estado"}

	codes := map[string]bool{}
	unmatched := map[string]bool{}
	for _, p := range l.places() {
		if p.Estado == nil || canon.IsMissing(*p.Estado) {
			continue
		}
		code, ok := canon.StateCode(*p.Estado)
		if !ok {
			unmatched[*p.Estado] = true
			continue
		}
		codes[code] = true
	}
	for _, name := range sortedKeys(unmatched) {
		l.log.Warn().Str("estado", name).Msg("unknown state name")
		stats.Unresolved++
	}

	err := inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, code := range sortedKeys(codes) {
			name, _ := canon.StateName(code)
			_, inserted, err := q.UpsertEstado(ctx, db.UpsertEstadoParams{Nome: name, CodigoIbge: code})
			if err != nil {
				return fmt.Errorf("upsert estado %s: %w", code, err)
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

type muniKey struct {
	name  string // canon.MunicipalityKey
	state string // 2-digit IBGE state code
}

type muniSource struct {
	key  muniKey
	name string // display name
	code string // IBGE code, may be empty
}

func (l *Loader) loadMunicipalities(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{Table: "municipio"}

	estados, err := db.New(l.conn).ListEstados(ctx)
	if err != nil {
		return stats, fmt.Errorf("list estados: %w", err)
	}
	stateIDs := make(map[string]int32, len(estados))
	for _, e := range estados {
		stateIDs[e.CodigoIbge] = e.EstadoID
	}

	type dedup struct {
		key  muniKey
		code string
	}
	seen := map[dedup]bool{}
	var sources []muniSource
	for _, p := range l.places() {
		if p.Municipio == nil || canon.IsMissing(*p.Municipio) || p.Estado == nil {
			continue
		}
		state, ok := canon.StateCode(*p.Estado)
		if !ok {
			continue
		}
		src := muniSource{
			key:  muniKey{name: canon.MunicipalityKey(*p.Municipio), state: state},
			name: sanitizeUTF8(canon.MunicipalityName(*p.Municipio)),
		}
		src.code, _ = ibgeCode(p.IBGE)
		d := dedup{src.key, src.code}
		if seen[d] {
			continue
		}
		seen[d] = true
		sources = append(sources, src)
	}
	// Coded municipalities go first; a code-less source is only inserted when
	// no row with the same folded name exists in its state.
	sort.SliceStable(sources, func(i, j int) bool {
		ci, cj := sources[i].code != "", sources[j].code != ""
		if ci != cj {
			return ci
		}
		if sources[i].key.state != sources[j].key.state {
			return sources[i].key.state < sources[j].key.state
		}
		return sources[i].key.name < sources[j].key.name
	})

	known, err := l.loadGeoCache(ctx)
	if err != nil {
		return stats, err
	}

	err = inTx(ctx, l.conn, func(tx pgx.Tx) error {
		q := db.New(tx)
		for _, src := range sources {
			estadoID, ok := stateIDs[src.key.state]
			if !ok {
				stats.Unresolved++
				continue
			}
			if _, dup := known.byName[src.key]; dup && src.code == "" {
				stats.Existing++
				continue
			}
			var id int32
			var inserted bool
			var err error
			if src.code != "" {
				id, inserted, err = q.UpsertMunicipioByCode(ctx, db.UpsertMunicipioParams{
					Nome:       src.name,
					CodigoIbge: src.code,
					EstadoID:   estadoID,
				})
			} else {
				id, inserted, err = q.InsertMunicipioSemCodigo(ctx, db.InsertMunicipioSemCodigoParams{
					Nome:     src.name,
					EstadoID: estadoID,
				})
			}
			if err != nil {
				return fmt.Errorf("insert municipio %q/%s: %w", src.name, src.key.state, err)
			}
			if _, dup := known.byName[src.key]; !dup {
				known.byName[src.key] = id
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

// ibgeCode formats a municipality IBGE code. Codes are 6 or 7 digits.
func ibgeCode(v *int64) (string, bool) {
	if v == nil || *v < 100000 || *v > 9999999 {
		return "", false
	}
	return strconv.FormatInt(*v, 10), true
}

// geoCache resolves snapshot places to municipio ids.
type geoCache struct {
	byCode map[string]int32
	byName map[muniKey]int32
}

func (l *Loader) loadGeoCache(ctx context.Context) (*geoCache, error) {
	munis, err := db.New(l.conn).ListMunicipios(ctx)
	if err != nil {
		return nil, fmt.Errorf("list municipios: %w", err)
	}
	g := &geoCache{
		byCode: make(map[string]int32, len(munis)),
		byName: make(map[muniKey]int32, len(munis)),
	}
	for _, m := range munis {
		if m.CodigoIbge.Valid {
			g.byCode[m.CodigoIbge.String] = m.MunicipioID
		}
		k := muniKey{name: canon.MunicipalityKey(m.Nome), state: m.CodigoIbgeEstado}
		// lowest id wins for duplicate names
		if _, dup := g.byName[k]; !dup {
			g.byName[k] = m.MunicipioID
		}
	}
	return g, nil
}

// resolve looks a place up by IBGE code first, then by (name, state).
func (g *geoCache) resolve(p snapshot.Place) (int32, bool) {
	if code, ok := ibgeCode(p.IBGE); ok {
		if id, hit := g.byCode[code]; hit {
			return id, true
		}
	}
	if p.Municipio == nil || p.Estado == nil || canon.IsMissing(*p.Municipio) {
		return 0, false
	}
	state, ok := canon.StateCode(*p.Estado)
	if !ok {
		return 0, false
	}
	id, ok := g.byName[muniKey{name: canon.MunicipalityKey(*p.Municipio), state: state}]
	return id, ok
}
