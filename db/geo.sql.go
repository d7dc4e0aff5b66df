package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type UpsertEstadoParams struct {
	Nome       string
	CodigoIbge string
}

// xmax = 0 only for a tuple created by this statement.
const upsertEstado = `
INSERT INTO estado (nome, codigo_ibge) VALUES ($1, $2)
ON CONFLICT (codigo_ibge) DO UPDATE SET nome = EXCLUDED.nome
RETURNING estado_id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertEstado(ctx context.Context, arg UpsertEstadoParams) (int32, bool, error) {
	var id int32
	var inserted bool
	err := q.db.QueryRow(ctx, upsertEstado, arg.Nome, arg.CodigoIbge).Scan(&id, &inserted)
	return id, inserted, err
}

const listEstados = `SELECT estado_id, nome, codigo_ibge FROM estado ORDER BY estado_id`

func (q *Queries) ListEstados(ctx context.Context) ([]Estado, error) {
	rows, err := q.db.Query(ctx, listEstados)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Estado, error) {
		var e Estado
		err := row.Scan(&e.EstadoID, &e.Nome, &e.CodigoIbge)
		return e, err
	})
}

type UpsertMunicipioParams struct {
	Nome       string
	CodigoIbge string
	EstadoID   int32
}

const upsertMunicipioByCode = `
INSERT INTO municipio (nome, codigo_ibge, estado_id) VALUES ($1, $2, $3)
ON CONFLICT (codigo_ibge) DO UPDATE SET nome = EXCLUDED.nome, estado_id = EXCLUDED.estado_id
RETURNING municipio_id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertMunicipioByCode(ctx context.Context, arg UpsertMunicipioParams) (int32, bool, error) {
	var id int32
	var inserted bool
	err := q.db.QueryRow(ctx, upsertMunicipioByCode, arg.Nome, arg.CodigoIbge, arg.EstadoID).Scan(&id, &inserted)
	return id, inserted, err
}

type InsertMunicipioSemCodigoParams struct {
	Nome     string
	EstadoID int32
}

// The CTE's insert is invisible to the second branch, so exactly one branch
// yields a row.
const insertMunicipioSemCodigo = `
WITH ins AS (
    INSERT INTO municipio (nome, codigo_ibge, estado_id)
    SELECT $1, NULL, $2
    WHERE NOT EXISTS (SELECT 1 FROM municipio WHERE nome = $1 AND estado_id = $2)
    RETURNING municipio_id
)
SELECT municipio_id, TRUE FROM ins
UNION ALL
(SELECT municipio_id, FALSE FROM municipio WHERE nome = $1 AND estado_id = $2 ORDER BY municipio_id LIMIT 1)
`

func (q *Queries) InsertMunicipioSemCodigo(ctx context.Context, arg InsertMunicipioSemCodigoParams) (int32, bool, error) {
	var id int32
	var inserted bool
	err := q.db.QueryRow(ctx, insertMunicipioSemCodigo, arg.Nome, arg.EstadoID).Scan(&id, &inserted)
	return id, inserted, err
}

const listMunicipios = `
SELECT m.municipio_id, m.nome, m.codigo_ibge, m.estado_id, e.codigo_ibge
FROM municipio m
JOIN estado e ON e.estado_id = m.estado_id
ORDER BY m.municipio_id
`

func (q *Queries) ListMunicipios(ctx context.Context) ([]Municipio, error) {
	rows, err := q.db.Query(ctx, listMunicipios)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Municipio, error) {
		var m Municipio
		err := row.Scan(&m.MunicipioID, &m.Nome, &m.CodigoIbge, &m.EstadoID, &m.CodigoIbgeEstado)
		return m, err
	})
}
