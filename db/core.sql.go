package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type InsertPacienteParams struct {
	Idade                 pgtype.Int4
	SexoID                int32
	RacaID                int32
	MembroPovoTradicional bool
}

// paciente has no natural key; the tuple itself is the dedup key.
const insertPaciente = `
INSERT INTO paciente (idade, sexo_id, raca_id, membro_povo_tradicional)
SELECT $1::integer, $2::integer, $3::integer, $4::boolean
WHERE NOT EXISTS (
    SELECT 1 FROM paciente
    WHERE idade IS NOT DISTINCT FROM $1::integer
      AND sexo_id = $2 AND raca_id = $3 AND membro_povo_tradicional = $4
)
`

func (q *Queries) InsertPaciente(ctx context.Context, arg InsertPacienteParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertPaciente, arg.Idade, arg.SexoID, arg.RacaID, arg.MembroPovoTradicional)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const listPacientes = `
SELECT paciente_id, idade, sexo_id, raca_id, membro_povo_tradicional
FROM paciente ORDER BY paciente_id
`

func (q *Queries) ListPacientes(ctx context.Context) ([]Paciente, error) {
	rows, err := q.db.Query(ctx, listPacientes)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Paciente, error) {
		var p Paciente
		err := row.Scan(&p.PacienteID, &p.Idade, &p.SexoID, &p.RacaID, &p.MembroPovoTradicional)
		return p, err
	})
}

type InsertNotificacaoParams struct {
	LinhaOrigem            int32
	PacienteID             int32
	MunicipioNotificacaoID int32
	CboID                  pgtype.Int4
	ProfissionalSaude      bool
	ProfissionalSeguranca  pgtype.Bool
	DataNotificacao        pgtype.Date
	Origem                 pgtype.Text
	Excluido               pgtype.Bool
	Validado               pgtype.Bool
}

const insertNotificacao = `
INSERT INTO notificacao (
    linha_origem, paciente_id, municipio_notificacao_id, cbo_id,
    profissional_saude, profissional_seguranca, data_notificacao,
    origem, excluido, validado
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (linha_origem) DO NOTHING
RETURNING notificacao_id
`

// InsertNotificacao returns inserted=false when linha_origem was already loaded.
func (q *Queries) InsertNotificacao(ctx context.Context, arg InsertNotificacaoParams) (int32, bool, error) {
	var id int32
	err := q.db.QueryRow(ctx, insertNotificacao,
		arg.LinhaOrigem,
		arg.PacienteID,
		arg.MunicipioNotificacaoID,
		arg.CboID,
		arg.ProfissionalSaude,
		arg.ProfissionalSeguranca,
		arg.DataNotificacao,
		arg.Origem,
		arg.Excluido,
		arg.Validado,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

const listNotificacaoRefs = `
SELECT notificacao_id, linha_origem, paciente_id
FROM notificacao ORDER BY linha_origem
`

func (q *Queries) ListNotificacaoRefs(ctx context.Context) ([]NotificacaoRef, error) {
	rows, err := q.db.Query(ctx, listNotificacaoRefs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (NotificacaoRef, error) {
		var n NotificacaoRef
		err := row.Scan(&n.NotificacaoID, &n.LinhaOrigem, &n.PacienteID)
		return n, err
	})
}
