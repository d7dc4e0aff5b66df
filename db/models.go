package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// LabelTable names one of the descricao-keyed domain tables.
type LabelTable struct {
	Name     string
	IDColumn string
}

// CodeTable names one of the codigo-keyed domain tables.
type CodeTable struct {
	Name     string
	IDColumn string
}

var (
	Sexo               = LabelTable{Name: "sexo", IDColumn: "sexo_id"}
	Raca               = LabelTable{Name: "raca", IDColumn: "raca_id"}
	EvolucaoCaso       = LabelTable{Name: "evolucao_caso", IDColumn: "evolucao_caso_id"}
	ClassificacaoFinal = LabelTable{Name: "classificacao_final", IDColumn: "classificacao_final_id"}
	Sintoma            = LabelTable{Name: "sintoma", IDColumn: "sintoma_id"}
	Condicao           = LabelTable{Name: "condicao", IDColumn: "condicao_id"}

	Estrategia     = CodeTable{Name: "estrategia", IDColumn: "estrategia_id"}
	LocalTestagem  = CodeTable{Name: "local_testagem", IDColumn: "local_testagem_id"}
	ResultadoTeste = CodeTable{Name: "resultado_teste", IDColumn: "resultado_teste_id"}
	TipoTeste      = CodeTable{Name: "tipo_teste", IDColumn: "tipo_teste_id"}
	EstadoTeste    = CodeTable{Name: "estado_teste", IDColumn: "estado_teste_id"}
)

type Label struct {
	ID        int32
	Descricao string
}

type Code struct {
	ID     int32
	Codigo int16
}

type Cbo struct {
	CboID  int32
	Codigo string
	Titulo string
}

type LaboratorioVacina struct {
	LaboratorioVacinaID int32
	Nome                string
}

type FabricanteTeste struct {
	FabricanteID int32
	Codigo       string
}

type Estado struct {
	EstadoID   int32
	Nome       string
	CodigoIbge string
}

type Municipio struct {
	MunicipioID int32
	Nome        string
	CodigoIbge  pgtype.Text
	EstadoID    int32
	// CodigoIbgeEstado is joined from estado.
	CodigoIbgeEstado string
}

type Paciente struct {
	PacienteID            int32
	Idade                 pgtype.Int4
	SexoID                int32
	RacaID                int32
	MembroPovoTradicional bool
}

type NotificacaoRef struct {
	NotificacaoID int32
	LinhaOrigem   int32
	PacienteID    int32
}

type ExecucaoCarga struct {
	ExecucaoID  pgtype.UUID
	Fase        string
	Arquivo     string
	Linhas      int32
	IniciadaEm  pgtype.Timestamptz
	ConcluidaEm pgtype.Timestamptz
}
