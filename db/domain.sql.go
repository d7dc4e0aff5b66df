package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InsertLabel inserts a domain label and reports whether a new row was created.
func (q *Queries) InsertLabel(ctx context.Context, t LabelTable, descricao string) (bool, error) {
	sql := fmt.Sprintf(`INSERT INTO %s (descricao) VALUES ($1) ON CONFLICT (descricao) DO NOTHING`,
		pgx.Identifier{t.Name}.Sanitize())
	tag, err := q.db.Exec(ctx, sql, descricao)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *Queries) ListLabels(ctx context.Context, t LabelTable) ([]Label, error) {
	sql := fmt.Sprintf(`SELECT %s, descricao FROM %s ORDER BY %s`,
		pgx.Identifier{t.IDColumn}.Sanitize(), pgx.Identifier{t.Name}.Sanitize(), pgx.Identifier{t.IDColumn}.Sanitize())
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Label, error) {
		var l Label
		err := row.Scan(&l.ID, &l.Descricao)
		return l, err
	})
}

func (q *Queries) GetLabelID(ctx context.Context, t LabelTable, descricao string) (int32, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE descricao = $1`,
		pgx.Identifier{t.IDColumn}.Sanitize(), pgx.Identifier{t.Name}.Sanitize())
	var id int32
	err := q.db.QueryRow(ctx, sql, descricao).Scan(&id)
	return id, err
}

func (q *Queries) InsertCode(ctx context.Context, t CodeTable, codigo int16) (bool, error) {
	sql := fmt.Sprintf(`INSERT INTO %s (codigo) VALUES ($1) ON CONFLICT (codigo) DO NOTHING`,
		pgx.Identifier{t.Name}.Sanitize())
	tag, err := q.db.Exec(ctx, sql, codigo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *Queries) ListCodes(ctx context.Context, t CodeTable) ([]Code, error) {
	sql := fmt.Sprintf(`SELECT %s, codigo FROM %s ORDER BY codigo`,
		pgx.Identifier{t.IDColumn}.Sanitize(), pgx.Identifier{t.Name}.Sanitize())
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Code, error) {
		var c Code
		err := row.Scan(&c.ID, &c.Codigo)
		return c, err
	})
}

type InsertCboParams struct {
	Codigo string
	Titulo string
}

const insertCbo = `
INSERT INTO cbo (codigo, titulo) VALUES ($1, $2)
ON CONFLICT (codigo) DO NOTHING
`

func (q *Queries) InsertCbo(ctx context.Context, arg InsertCboParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertCbo, arg.Codigo, arg.Titulo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const listCbos = `SELECT cbo_id, codigo, titulo FROM cbo ORDER BY cbo_id`

func (q *Queries) ListCbos(ctx context.Context) ([]Cbo, error) {
	rows, err := q.db.Query(ctx, listCbos)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Cbo, error) {
		var c Cbo
		err := row.Scan(&c.CboID, &c.Codigo, &c.Titulo)
		return c, err
	})
}

const insertLaboratorioVacina = `
INSERT INTO laboratorio_vacina (nome) VALUES ($1)
ON CONFLICT (nome) DO NOTHING
`

func (q *Queries) InsertLaboratorioVacina(ctx context.Context, nome string) (bool, error) {
	tag, err := q.db.Exec(ctx, insertLaboratorioVacina, nome)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const listLaboratoriosVacina = `SELECT laboratorio_vacina_id, nome FROM laboratorio_vacina ORDER BY laboratorio_vacina_id`

func (q *Queries) ListLaboratoriosVacina(ctx context.Context) ([]LaboratorioVacina, error) {
	rows, err := q.db.Query(ctx, listLaboratoriosVacina)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (LaboratorioVacina, error) {
		var l LaboratorioVacina
		err := row.Scan(&l.LaboratorioVacinaID, &l.Nome)
		return l, err
	})
}

const insertFabricanteTeste = `
INSERT INTO fabricante_teste (codigo) VALUES ($1)
ON CONFLICT (codigo) DO NOTHING
`

func (q *Queries) InsertFabricanteTeste(ctx context.Context, codigo string) (bool, error) {
	tag, err := q.db.Exec(ctx, insertFabricanteTeste, codigo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const listFabricantesTeste = `SELECT fabricante_id, codigo FROM fabricante_teste ORDER BY fabricante_id`

func (q *Queries) ListFabricantesTeste(ctx context.Context) ([]FabricanteTeste, error) {
	rows, err := q.db.Query(ctx, listFabricantesTeste)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (FabricanteTeste, error) {
		var f FabricanteTeste
		err := row.Scan(&f.FabricanteID, &f.Codigo)
		return f, err
	})
}
