package snapshot

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVReader streams a delimited e-SUS Notifica export and emits one SourceRow
// per data line. Cells that do not parse are stored as nil and counted.
type CSVReader struct {
	file    *os.File
	csv     *csv.Reader
	rowNum  int64
	colIdx  map[string]int // lowercase column name -> index
	invalid int64
}

func NewCSVReader(filepath string, delimiter rune) (*CSVReader, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	r := &CSVReader{
		file:   file,
		csv:    reader,
		colIdx: make(map[string]int),
	}

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	r.rowNum++
	for i, h := range header {
		r.colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	return r, nil
}

// Columns reports the header names seen, lowercased.
func (r *CSVReader) Columns() map[string]int {
	return r.colIdx
}

// Next returns the next row, or io.EOF.
func (r *CSVReader) Next() (SourceRow, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return SourceRow{}, io.EOF
		}
		return SourceRow{}, fmt.Errorf("line %d: %w", r.rowNum+1, err)
	}
	r.rowNum++

	row := SourceRow{
		Idade:                             r.optInt32(rec, "idade"),
		Sexo:                              optStr(rec, r.colIdx, "sexo"),
		RacaCor:                           optStr(rec, r.colIdx, "racaCor"),
		CodigoContemComunidadeTradicional: r.optBool(rec, "codigoContemComunidadeTradicional"),

		EvolucaoCaso:       optStr(rec, r.colIdx, "evolucaoCaso"),
		ClassificacaoFinal: optStr(rec, r.colIdx, "classificacaoFinal"),
		Sintomas:           optStr(rec, r.colIdx, "sintomas"),
		Condicoes:          optStr(rec, r.colIdx, "condicoes"),
		OutrosSintomas:     optStr(rec, r.colIdx, "outrosSintomas"),
		OutrasCondicoes:    optStr(rec, r.colIdx, "outrasCondicoes"),
		DataInicioSintomas: r.optDate(rec, "dataInicioSintomas"),
		DataEncerramento:   r.optDate(rec, "dataEncerramento"),

		Estado:                   optStr(rec, r.colIdx, "estado"),
		Municipio:                optStr(rec, r.colIdx, "municipio"),
		MunicipioIBGE:            r.optInt64(rec, "municipioIBGE"),
		EstadoNotificacao:        optStr(rec, r.colIdx, "estadoNotificacao"),
		MunicipioNotificacao:     optStr(rec, r.colIdx, "municipioNotificacao"),
		MunicipioNotificacaoIBGE: r.optInt64(rec, "municipioNotificacaoIBGE"),

		Cbo:                   optStr(rec, r.colIdx, "cbo"),
		ProfissionalSaude:     optStr(rec, r.colIdx, "profissionalSaude"),
		ProfissionalSeguranca: optStr(rec, r.colIdx, "profissionalSeguranca"),
		DataNotificacao:       r.optDate(rec, "dataNotificacao"),
		Origem:                optStr(rec, r.colIdx, "origem"),
		Excluido:              r.optBool(rec, "excluido"),
		Validado:              optStr(rec, r.colIdx, "validado"),

		CodigoRecebeuVacina:           r.optInt32(rec, "codigoRecebeuVacina"),
		CodigoDosesVacina:             optStr(rec, r.colIdx, "codigoDosesVacina"),
		DataPrimeiraDose:              r.optDate(rec, "dataPrimeiraDose"),
		DataSegundaDose:               r.optDate(rec, "dataSegundaDose"),
		CodigoLaboratorioPrimeiraDose: optStr(rec, r.colIdx, "codigoLaboratorioPrimeiraDose"),
		CodigoLaboratorioSegundaDose:  optStr(rec, r.colIdx, "codigoLaboratorioSegundaDose"),
		LotePrimeiraDose:              optStr(rec, r.colIdx, "lotePrimeiraDose"),
		LoteSegundaDose:               optStr(rec, r.colIdx, "loteSegundaDose"),

		CodigoLocalRealizacaoTestagem:    r.optInt32(rec, "codigoLocalRealizacaoTestagem"),
		OutroLocalRealizacaoTestagem:     optStr(rec, r.colIdx, "outroLocalRealizacaoTestagem"),
		CodigoEstrategiaCovid:            r.optInt32(rec, "codigoEstrategiaCovid"),
		CodigoBuscaAtivaAssintomatico:    r.optInt32(rec, "codigoBuscaAtivaAssintomatico"),
		OutroBuscaAtivaAssintomatico:     optStr(rec, r.colIdx, "outroBuscaAtivaAssintomatico"),
		CodigoTriagemPopulacaoEspecifica: r.optInt32(rec, "codigoTriagemPopulacaoEspecifica"),
		OutroTriagemPopulacaoEspecifica:  optStr(rec, r.colIdx, "outroTriagemPopulacaoEspecifica"),
	}

	results := []**int32{&row.CodigoResultadoTeste1, &row.CodigoResultadoTeste2, &row.CodigoResultadoTeste3, &row.CodigoResultadoTeste4}
	types := []**int32{&row.CodigoTipoTeste1, &row.CodigoTipoTeste2, &row.CodigoTipoTeste3, &row.CodigoTipoTeste4}
	states := []**int32{&row.CodigoEstadoTeste1, &row.CodigoEstadoTeste2, &row.CodigoEstadoTeste3, &row.CodigoEstadoTeste4}
	dates := []**time.Time{&row.DataColetaTeste1, &row.DataColetaTeste2, &row.DataColetaTeste3, &row.DataColetaTeste4}
	makers := []**string{&row.CodigoFabricanteTeste1, &row.CodigoFabricanteTeste2, &row.CodigoFabricanteTeste3, &row.CodigoFabricanteTeste4}
	for i := 0; i < 4; i++ {
		n := strconv.Itoa(i + 1)
		*results[i] = r.optInt32(rec, "codigoResultadoTeste"+n)
		*types[i] = r.optInt32(rec, "codigoTipoTeste"+n)
		*states[i] = r.optInt32(rec, "codigoEstadoTeste"+n)
		*dates[i] = r.optDate(rec, "dataColetaTeste"+n)
		*makers[i] = optStr(rec, r.colIdx, "codigoFabricanteTeste"+n)
	}

	return row, nil
}

func (r *CSVReader) RowNum() int64 {
	return r.rowNum
}

// Invalid returns how many non-empty cells failed to parse.
func (r *CSVReader) Invalid() int64 {
	return r.invalid
}

func (r *CSVReader) Close() error {
	return r.file.Close()
}

func (r *CSVReader) optInt32(rec []string, col string) *int32 {
	s := valAt(rec, r.colIdx, col)
	if s == "" {
		return nil
	}
	// pandas exports nullable ints as floats ("30.0")
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f != float64(int32(f)) {
		r.invalid++
		return nil
	}
	v := int32(f)
	return &v
}

func (r *CSVReader) optInt64(rec []string, col string) *int64 {
	s := valAt(rec, r.colIdx, col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || f != float64(int64(f)) {
		r.invalid++
		return nil
	}
	v := int64(f)
	return &v
}

func (r *CSVReader) optBool(rec []string, col string) *bool {
	s := valAt(rec, r.colIdx, col)
	if s == "" {
		return nil
	}
	var v bool
	switch strings.ToUpper(s) {
	case "TRUE", "VERDADEIRO", "SIM", "1":
		v = true
	case "FALSE", "FALSO", "NÃO", "NAO", "0":
		v = false
	default:
		r.invalid++
		return nil
	}
	return &v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func (r *CSVReader) optDate(rec []string, col string) *time.Time {
	s := valAt(rec, r.colIdx, col)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	r.invalid++
	return nil
}

func valAt(row []string, idx map[string]int, col string) string {
	i, ok := idx[strings.ToLower(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optStr(row []string, idx map[string]int, col string) *string {
	s := valAt(row, idx, col)
	if s == "" {
		return nil
	}
	return &s
}

// Convert reads a delimited export and writes it as a Parquet snapshot in
// batches of batchSize rows. It returns rows written and unparseable cells.
func Convert(inputPath, outputPath string, delimiter rune, batchSize int) (written int, invalid int64, err error) {
	reader, err := NewCSVReader(inputPath, delimiter)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	writer, err := NewWriter(outputPath)
	if err != nil {
		return 0, 0, err
	}

	batch := make([]SourceRow, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := writer.Write(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for {
		row, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			writer.Close()
			return writer.Count(), reader.Invalid(), nextErr
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				writer.Close()
				return writer.Count(), reader.Invalid(), err
			}
		}
	}
	if err := flush(); err != nil {
		writer.Close()
		return writer.Count(), reader.Invalid(), err
	}
	if err := writer.Close(); err != nil {
		return writer.Count(), reader.Invalid(), err
	}
	return writer.Count(), reader.Invalid(), nil
}
