package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var Schema string

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

// InitSchema applies schema.sql. Every statement is IF NOT EXISTS so it is safe
// to run against an already migrated database.
func InitSchema(ctx context.Context, conn DBTX) error {
	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// CountRows returns COUNT(*) for a table owned by this schema.
func (q *Queries) CountRows(ctx context.Context, table string) (int64, error) {
	if !knownTables[table] {
		return 0, fmt.Errorf("count rows: unknown table %q", table)
	}
	var n int64
	err := q.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	return n, err
}

var knownTables = map[string]bool{
	"sexo": true, "raca": true, "evolucao_caso": true, "classificacao_final": true,
	"sintoma": true, "condicao": true,
	"estrategia": true, "local_testagem": true, "resultado_teste": true,
	"tipo_teste": true, "estado_teste": true,
	"cbo": true, "laboratorio_vacina": true, "fabricante_teste": true,
	"estado": true, "municipio": true, "paciente": true, "notificacao": true,
	"residencia_paciente": true, "dados_clinicos": true,
	"notificacao_sintoma": true, "notificacao_condicao": true,
	"notificacao_vacina": true, "teste_laboratorial": true,
	"dados_estrategia_local_testagem": true, "execucao_carga": true,
}
