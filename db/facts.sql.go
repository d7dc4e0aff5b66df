package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type InsertResidenciaPacienteParams struct {
	PacienteID  int32
	MunicipioID int32
}

const insertResidenciaPaciente = `
INSERT INTO residencia_paciente (paciente_id, municipio_id) VALUES ($1, $2)
ON CONFLICT (paciente_id, municipio_id) DO NOTHING
`

func (q *Queries) InsertResidenciaPaciente(ctx context.Context, arg InsertResidenciaPacienteParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertResidenciaPaciente, arg.PacienteID, arg.MunicipioID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type InsertDadosClinicosParams struct {
	NotificacaoID                int32
	DataInicioSintomas           pgtype.Date
	ClassificacaoFinalID         pgtype.Int4
	EvolucaoCasoID               pgtype.Int4
	EspecificacaoOutrosSintomas  pgtype.Text
	EspecificacaoOutrasCondicoes pgtype.Text
	CodigoRecebeuVacina          pgtype.Int2
	DataEncerramento             pgtype.Date
}

const insertDadosClinicos = `
INSERT INTO dados_clinicos (
    notificacao_id, data_inicio_sintomas, classificacao_final_id, evolucao_caso_id,
    especificacao_outros_sintomas, especificacao_outras_condicoes,
    codigo_recebeu_vacina, data_encerramento
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (notificacao_id) DO NOTHING
`

func (q *Queries) InsertDadosClinicos(ctx context.Context, arg InsertDadosClinicosParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertDadosClinicos,
		arg.NotificacaoID,
		arg.DataInicioSintomas,
		arg.ClassificacaoFinalID,
		arg.EvolucaoCasoID,
		arg.EspecificacaoOutrosSintomas,
		arg.EspecificacaoOutrasCondicoes,
		arg.CodigoRecebeuVacina,
		arg.DataEncerramento,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const insertNotificacaoSintoma = `
INSERT INTO notificacao_sintoma (notificacao_id, sintoma_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (q *Queries) InsertNotificacaoSintoma(ctx context.Context, notificacaoID, sintomaID int32) (bool, error) {
	tag, err := q.db.Exec(ctx, insertNotificacaoSintoma, notificacaoID, sintomaID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const insertNotificacaoCondicao = `
INSERT INTO notificacao_condicao (notificacao_id, condicao_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

func (q *Queries) InsertNotificacaoCondicao(ctx context.Context, notificacaoID, condicaoID int32) (bool, error) {
	tag, err := q.db.Exec(ctx, insertNotificacaoCondicao, notificacaoID, condicaoID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type InsertNotificacaoVacinaParams struct {
	NotificacaoID int32
	Ordem         int16
	DoseNumero    int16
	DataVacinacao pgtype.Date
	LabID         pgtype.Int4
	Lote          pgtype.Text
}

const insertNotificacaoVacina = `
INSERT INTO notificacao_vacina (notificacao_id, ordem, dose_numero, data_vacinacao, lab_id, lote)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (notificacao_id, ordem) DO NOTHING
`

func (q *Queries) InsertNotificacaoVacina(ctx context.Context, arg InsertNotificacaoVacinaParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertNotificacaoVacina,
		arg.NotificacaoID,
		arg.Ordem,
		arg.DoseNumero,
		arg.DataVacinacao,
		arg.LabID,
		arg.Lote,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type InsertTesteLaboratorialParams struct {
	NotificacaoID   int32
	Ordem           int16
	ResultadoCodigo pgtype.Int2
	FabricanteID    pgtype.Int4
	TipoCodigo      int16
	EstadoCodigo    int16
	DataColeta      pgtype.Date
}

const insertTesteLaboratorial = `
INSERT INTO teste_laboratorial (
    notificacao_id, ordem, resultado_codigo, fabricante_id,
    tipo_codigo, estado_codigo, data_coleta
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (notificacao_id, ordem) DO NOTHING
`

func (q *Queries) InsertTesteLaboratorial(ctx context.Context, arg InsertTesteLaboratorialParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertTesteLaboratorial,
		arg.NotificacaoID,
		arg.Ordem,
		arg.ResultadoCodigo,
		arg.FabricanteID,
		arg.TipoCodigo,
		arg.EstadoCodigo,
		arg.DataColeta,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

type InsertDadosEstrategiaParams struct {
	NotificacaoID              int32
	LocalTestagemCodigo        int16
	EspecificacaoOutroTestagem pgtype.Text
	EstrategiaCodigo           pgtype.Int2
	CodigoBuscaAtiva           pgtype.Int2
	EspecificacaoOutroBa       pgtype.Text
	CodigoTriagemEspecifica    pgtype.Int2
	EspecificacaoOutroTe       pgtype.Text
}

const insertDadosEstrategia = `
INSERT INTO dados_estrategia_local_testagem (
    notificacao_id, local_testagem_codigo, especificacao_outro_testagem,
    estrategia_codigo, codigo_busca_ativa, especificacao_outro_ba,
    codigo_triagem_especifica, especificacao_outro_te
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (notificacao_id) DO NOTHING
`

func (q *Queries) InsertDadosEstrategia(ctx context.Context, arg InsertDadosEstrategiaParams) (bool, error) {
	tag, err := q.db.Exec(ctx, insertDadosEstrategia,
		arg.NotificacaoID,
		arg.LocalTestagemCodigo,
		arg.EspecificacaoOutroTestagem,
		arg.EstrategiaCodigo,
		arg.CodigoBuscaAtiva,
		arg.EspecificacaoOutroBa,
		arg.CodigoTriagemEspecifica,
		arg.EspecificacaoOutroTe,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
