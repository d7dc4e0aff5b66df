package loader

import (
	"github.com/jackc/pgx/v5/pgtype"

	"esusload/db"
)

// The functions in this file mirror the check constraints in db/schema.sql.
// They null out or reject values before insert so the constraints never fire
// on well-formed input.

// Location and screening codes that require a free-text override.
const (
	localOther           = 7
	activeSearchOther    = 4
	targetedScreenOther  = 5
	strategyActiveSearch = 2
	strategyTargeted     = 3
)

// Lab test states.
const (
	testRequested = 1
	testCollected = 2
	testConcluded = 3
	testMissing   = 4
)

// applyOccupationGate enforces chk_profissional_saude_cbo. It returns false
// when a health professional has no resolved occupation.
func applyOccupationGate(p *db.InsertNotificacaoParams) bool {
	if !p.ProfissionalSaude {
		p.CboID = pgtype.Int4{}
		return true
	}
	return p.CboID.Valid
}

// applyClinicalRules enforces chk_data_encerramento: closure before onset
// clears both closure and outcome, and closure and outcome must be present
// together.
func applyClinicalRules(p *db.InsertDadosClinicosParams) {
	switch {
	case p.DataEncerramento.Valid && p.DataInicioSintomas.Valid &&
		p.DataEncerramento.Time.Before(p.DataInicioSintomas.Time):
		p.DataEncerramento = pgtype.Date{}
		p.EvolucaoCasoID = pgtype.Int4{}
	case p.DataEncerramento.Valid && !p.EvolucaoCasoID.Valid:
		p.DataEncerramento = pgtype.Date{}
	case p.EvolucaoCasoID.Valid && !p.DataEncerramento.Valid:
		p.EvolucaoCasoID = pgtype.Int4{}
	}
}

// applyLabTestRules enforces chk_estado_teste. It returns false when the slot
// must be skipped.
func applyLabTestRules(p *db.InsertTesteLaboratorialParams) bool {
	switch p.EstadoCodigo {
	case testRequested, testMissing:
		p.ResultadoCodigo = pgtype.Int2{}
		p.FabricanteID = pgtype.Int4{}
		p.DataColeta = pgtype.Date{}
	case testCollected:
		if !p.DataColeta.Valid {
			return false
		}
	case testConcluded:
		if !p.ResultadoCodigo.Valid || !p.DataColeta.Valid {
			return false
		}
	}
	return true
}

// applyStrategyRules enforces chk_busca_ativa, chk_triagem_especifica,
// chk_outro_busca_ativa, chk_outro_triagem_especifica and chk_outro_testagem.
// It returns false when the row must be rejected.
func applyStrategyRules(p *db.InsertDadosEstrategiaParams) bool {
	if !p.EstrategiaCodigo.Valid || p.EstrategiaCodigo.Int16 != strategyActiveSearch {
		p.CodigoBuscaAtiva = pgtype.Int2{}
		p.EspecificacaoOutroBa = pgtype.Text{}
	}
	if !p.EstrategiaCodigo.Valid || p.EstrategiaCodigo.Int16 != strategyTargeted {
		p.CodigoTriagemEspecifica = pgtype.Int2{}
		p.EspecificacaoOutroTe = pgtype.Text{}
	}

	if !p.CodigoBuscaAtiva.Valid || p.CodigoBuscaAtiva.Int16 != activeSearchOther {
		p.EspecificacaoOutroBa = pgtype.Text{}
	} else if !p.EspecificacaoOutroBa.Valid {
		p.CodigoBuscaAtiva = pgtype.Int2{}
	}

	if !p.CodigoTriagemEspecifica.Valid || p.CodigoTriagemEspecifica.Int16 != targetedScreenOther {
		p.EspecificacaoOutroTe = pgtype.Text{}
	} else if !p.EspecificacaoOutroTe.Valid {
		p.CodigoTriagemEspecifica = pgtype.Int2{}
	}

	if p.LocalTestagemCodigo != localOther {
		p.EspecificacaoOutroTestagem = pgtype.Text{}
		return true
	}
	return p.EspecificacaoOutroTestagem.Valid
}

// doseNumbers pairs the two chronological dose slots with the parsed ordinal
// list: slot 1 takes ordinals[0] (default 1), slot 2 takes ordinals[1]
// (default 2). mismatch reports an ordinal list whose length differs from
// the number of dates present.
func doseNumbers(ordinals []int, present [2]bool) (nums [2]int16, mismatch bool) {
	nums = [2]int16{1, 2}
	for i := 0; i < 2 && i < len(ordinals); i++ {
		if ordinals[i] > 0 && ordinals[i] <= 32767 {
			nums[i] = int16(ordinals[i])
		}
	}
	dates := 0
	for _, p := range present {
		if p {
			dates++
		}
	}
	mismatch = len(ordinals) > 0 && len(ordinals) != dates
	return nums, mismatch
}
