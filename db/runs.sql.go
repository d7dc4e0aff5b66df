package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type StartExecucaoParams struct {
	ExecucaoID pgtype.UUID
	Fase       string
	Arquivo    string
	Linhas     int32
}

const startExecucao = `
INSERT INTO execucao_carga (execucao_id, fase, arquivo, linhas) VALUES ($1, $2, $3, $4)
`

func (q *Queries) StartExecucao(ctx context.Context, arg StartExecucaoParams) error {
	_, err := q.db.Exec(ctx, startExecucao, arg.ExecucaoID, arg.Fase, arg.Arquivo, arg.Linhas)
	return err
}

const finishExecucao = `
UPDATE execucao_carga SET concluida_em = NOW() WHERE execucao_id = $1
`

func (q *Queries) FinishExecucao(ctx context.Context, execucaoID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, finishExecucao, execucaoID)
	return err
}

const lastCompletedExecucao = `
SELECT execucao_id, fase, arquivo, linhas, iniciada_em, concluida_em
FROM execucao_carga
WHERE fase = $1 AND concluida_em IS NOT NULL
ORDER BY concluida_em DESC
LIMIT 1
`

// LastCompletedExecucao returns found=false when the phase never completed.
func (q *Queries) LastCompletedExecucao(ctx context.Context, fase string) (ExecucaoCarga, bool, error) {
	var e ExecucaoCarga
	err := q.db.QueryRow(ctx, lastCompletedExecucao, fase).Scan(
		&e.ExecucaoID, &e.Fase, &e.Arquivo, &e.Linhas, &e.IniciadaEm, &e.ConcluidaEm,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	return e, true, nil
}
