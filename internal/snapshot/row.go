// Package snapshot reads and writes the wide-format case snapshot: one row per
// notification, column names as exported by e-SUS Notifica.
package snapshot

import "time"

// SourceRow is one notification in the snapshot. Every column is optional;
// missing values are nil.
type SourceRow struct {
	// ── Patient ───────────────────────────────────────────────────────
	Idade                             *int32  `parquet:"idade,optional"`
	Sexo                              *string `parquet:"sexo,optional"`
	RacaCor                           *string `parquet:"racaCor,optional"`
	CodigoContemComunidadeTradicional *bool   `parquet:"codigoContemComunidadeTradicional,optional"`

	// ── Clinical ──────────────────────────────────────────────────────
	EvolucaoCaso       *string    `parquet:"evolucaoCaso,optional"`
	ClassificacaoFinal *string    `parquet:"classificacaoFinal,optional"`
	Sintomas           *string    `parquet:"sintomas,optional"` // comma separated
	Condicoes          *string    `parquet:"condicoes,optional"` // comma separated, labels may contain commas
	OutrosSintomas     *string    `parquet:"outrosSintomas,optional"`
	OutrasCondicoes    *string    `parquet:"outrasCondicoes,optional"`
	DataInicioSintomas *time.Time `parquet:"dataInicioSintomas,optional,timestamp(millisecond)"`
	DataEncerramento   *time.Time `parquet:"dataEncerramento,optional,timestamp(millisecond)"`

	// ── Geography ─────────────────────────────────────────────────────
	Estado                   *string `parquet:"estado,optional"`
	Municipio                *string `parquet:"municipio,optional"`
	MunicipioIBGE            *int64  `parquet:"municipioIBGE,optional"`
	EstadoNotificacao        *string `parquet:"estadoNotificacao,optional"`
	MunicipioNotificacao     *string `parquet:"municipioNotificacao,optional"`
	MunicipioNotificacaoIBGE *int64  `parquet:"municipioNotificacaoIBGE,optional"`

	// ── Notification ──────────────────────────────────────────────────
	Cbo                   *string    `parquet:"cbo,optional"` // "code - title" or bare code
	ProfissionalSaude     *string    `parquet:"profissionalSaude,optional"`
	ProfissionalSeguranca *string    `parquet:"profissionalSeguranca,optional"`
	DataNotificacao       *time.Time `parquet:"dataNotificacao,optional,timestamp(millisecond)"`
	Origem                *string    `parquet:"origem,optional"`
	Excluido              *bool      `parquet:"excluido,optional"`
	Validado              *string    `parquet:"validado,optional"`

	// ── Vaccination ───────────────────────────────────────────────────
	CodigoRecebeuVacina           *int32     `parquet:"codigoRecebeuVacina,optional"`
	CodigoDosesVacina             *string    `parquet:"codigoDosesVacina,optional"` // e.g. "1,2"
	DataPrimeiraDose              *time.Time `parquet:"dataPrimeiraDose,optional,timestamp(millisecond)"`
	DataSegundaDose               *time.Time `parquet:"dataSegundaDose,optional,timestamp(millisecond)"`
	CodigoLaboratorioPrimeiraDose *string    `parquet:"codigoLaboratorioPrimeiraDose,optional"`
	CodigoLaboratorioSegundaDose  *string    `parquet:"codigoLaboratorioSegundaDose,optional"`
	LotePrimeiraDose              *string    `parquet:"lotePrimeiraDose,optional"`
	LoteSegundaDose               *string    `parquet:"loteSegundaDose,optional"`

	// ── Lab tests (four fixed slots) ──────────────────────────────────
	CodigoResultadoTeste1  *int32     `parquet:"codigoResultadoTeste1,optional"`
	CodigoResultadoTeste2  *int32     `parquet:"codigoResultadoTeste2,optional"`
	CodigoResultadoTeste3  *int32     `parquet:"codigoResultadoTeste3,optional"`
	CodigoResultadoTeste4  *int32     `parquet:"codigoResultadoTeste4,optional"`
	CodigoTipoTeste1       *int32     `parquet:"codigoTipoTeste1,optional"`
	CodigoTipoTeste2       *int32     `parquet:"codigoTipoTeste2,optional"`
	CodigoTipoTeste3       *int32     `parquet:"codigoTipoTeste3,optional"`
	CodigoTipoTeste4       *int32     `parquet:"codigoTipoTeste4,optional"`
	CodigoEstadoTeste1     *int32     `parquet:"codigoEstadoTeste1,optional"`
	CodigoEstadoTeste2     *int32     `parquet:"codigoEstadoTeste2,optional"`
	CodigoEstadoTeste3     *int32     `parquet:"codigoEstadoTeste3,optional"`
	CodigoEstadoTeste4     *int32     `parquet:"codigoEstadoTeste4,optional"`
	DataColetaTeste1       *time.Time `parquet:"dataColetaTeste1,optional,timestamp(millisecond)"`
	DataColetaTeste2       *time.Time `parquet:"dataColetaTeste2,optional,timestamp(millisecond)"`
	DataColetaTeste3       *time.Time `parquet:"dataColetaTeste3,optional,timestamp(millisecond)"`
	DataColetaTeste4       *time.Time `parquet:"dataColetaTeste4,optional,timestamp(millisecond)"`
	CodigoFabricanteTeste1 *string    `parquet:"codigoFabricanteTeste1,optional"`
	CodigoFabricanteTeste2 *string    `parquet:"codigoFabricanteTeste2,optional"`
	CodigoFabricanteTeste3 *string    `parquet:"codigoFabricanteTeste3,optional"`
	CodigoFabricanteTeste4 *string    `parquet:"codigoFabricanteTeste4,optional"`

	// ── Testing strategy ──────────────────────────────────────────────
	CodigoLocalRealizacaoTestagem    *int32  `parquet:"codigoLocalRealizacaoTestagem,optional"`
	OutroLocalRealizacaoTestagem     *string `parquet:"outroLocalRealizacaoTestagem,optional"`
	CodigoEstrategiaCovid            *int32  `parquet:"codigoEstrategiaCovid,optional"`
	CodigoBuscaAtivaAssintomatico    *int32  `parquet:"codigoBuscaAtivaAssintomatico,optional"`
	OutroBuscaAtivaAssintomatico     *string `parquet:"outroBuscaAtivaAssintomatico,optional"`
	CodigoTriagemPopulacaoEspecifica *int32  `parquet:"codigoTriagemPopulacaoEspecifica,optional"`
	OutroTriagemPopulacaoEspecifica  *string `parquet:"outroTriagemPopulacaoEspecifica,optional"`
}

// TestSlot is one of the four lab-test column groups.
type TestSlot struct {
	Result       *int32
	Type         *int32
	State        *int32
	Collected    *time.Time
	Manufacturer *string
}

// TestSlots returns the four lab-test slots in column order.
func (r *SourceRow) TestSlots() [4]TestSlot {
	return [4]TestSlot{
		{r.CodigoResultadoTeste1, r.CodigoTipoTeste1, r.CodigoEstadoTeste1, r.DataColetaTeste1, r.CodigoFabricanteTeste1},
		{r.CodigoResultadoTeste2, r.CodigoTipoTeste2, r.CodigoEstadoTeste2, r.DataColetaTeste2, r.CodigoFabricanteTeste2},
		{r.CodigoResultadoTeste3, r.CodigoTipoTeste3, r.CodigoEstadoTeste3, r.DataColetaTeste3, r.CodigoFabricanteTeste3},
		{r.CodigoResultadoTeste4, r.CodigoTipoTeste4, r.CodigoEstadoTeste4, r.DataColetaTeste4, r.CodigoFabricanteTeste4},
	}
}

// DoseSlot is one of the two chronological vaccination column groups.
type DoseSlot struct {
	Date       *time.Time
	Laboratory *string
	Lot        *string
}

func (r *SourceRow) DoseSlots() [2]DoseSlot {
	return [2]DoseSlot{
		{r.DataPrimeiraDose, r.CodigoLaboratorioPrimeiraDose, r.LotePrimeiraDose},
		{r.DataSegundaDose, r.CodigoLaboratorioSegundaDose, r.LoteSegundaDose},
	}
}

// Place is a (municipality, IBGE code, state) triple from one column group.
type Place struct {
	Municipio *string
	IBGE      *int64
	Estado    *string
}

func (r *SourceRow) Residence() Place {
	return Place{r.Municipio, r.MunicipioIBGE, r.Estado}
}

func (r *SourceRow) Notifier() Place {
	return Place{r.MunicipioNotificacao, r.MunicipioNotificacaoIBGE, r.EstadoNotificacao}
}
