package snapshot

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// RowKey identifies a source row across load phases. It is the row's ordinal
// in the snapshot and is persisted as notificacao.linha_origem.
type RowKey int32

// Dataset is the whole snapshot held in memory. It is never modified after Load.
type Dataset struct {
	path string
	rows []SourceRow
}

// NewDataset wraps rows already in memory. RowKeys follow slice order.
func NewDataset(path string, rows []SourceRow) *Dataset {
	return &Dataset{path: path, rows: rows}
}

func (d *Dataset) Path() string { return d.path }

func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the row for k. The returned value shares its optional fields
// with the dataset; callers must not write through them.
func (d *Dataset) Row(k RowKey) (SourceRow, bool) {
	if k < 0 || int(k) >= len(d.rows) {
		return SourceRow{}, false
	}
	return d.rows[k], true
}

// All yields every row in snapshot order.
func (d *Dataset) All() iter.Seq2[RowKey, *SourceRow] {
	return func(yield func(RowKey, *SourceRow) bool) {
		for i := range d.rows {
			row := d.rows[i]
			if !yield(RowKey(i), &row) {
				return
			}
		}
	}
}

// requiredColumns are the snapshot columns every load phase reads.
// municipioNotificacaoIBGE is optional.
var requiredColumns = []string{
	"idade", "sexo", "racaCor", "codigoContemComunidadeTradicional",
	"evolucaoCaso", "classificacaoFinal", "sintomas", "condicoes",
	"outrosSintomas", "outrasCondicoes", "dataInicioSintomas", "dataEncerramento",
	"estado", "municipio", "municipioIBGE", "estadoNotificacao", "municipioNotificacao",
	"cbo", "profissionalSaude", "profissionalSeguranca", "dataNotificacao",
	"origem", "excluido", "validado",
	"codigoRecebeuVacina", "codigoDosesVacina", "dataPrimeiraDose", "dataSegundaDose",
	"codigoLaboratorioPrimeiraDose", "codigoLaboratorioSegundaDose",
	"lotePrimeiraDose", "loteSegundaDose",
	"codigoLocalRealizacaoTestagem", "outroLocalRealizacaoTestagem", "codigoEstrategiaCovid",
	"codigoBuscaAtivaAssintomatico", "outroBuscaAtivaAssintomatico",
	"codigoTriagemPopulacaoEspecifica", "outroTriagemPopulacaoEspecifica",
}

func init() {
	for i := 1; i <= 4; i++ {
		for _, prefix := range []string{"codigoResultadoTeste", "codigoTipoTeste", "codigoEstadoTeste", "dataColetaTeste", "codigoFabricanteTeste"} {
			requiredColumns = append(requiredColumns, fmt.Sprintf("%s%d", prefix, i))
		}
	}
}

// ValidateSchema checks that the Parquet schema carries every required column.
// Names are compared case-insensitively.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !columns[strings.ToLower(col)] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Info describes a snapshot file without loading it.
type Info struct {
	Path    string
	Size    int64
	Rows    int64
	Columns []string
}

// Inspect opens path, validates its schema and reports its shape.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat parquet: %w", err)
	}

	pf, err := parquet.OpenFile(f, fi.Size())
	if err != nil {
		return Info{}, fmt.Errorf("read parquet footer: %w", err)
	}

	info := Info{Path: path, Size: fi.Size(), Rows: pf.NumRows()}
	for _, field := range pf.Schema().Fields() {
		info.Columns = append(info.Columns, field.Name())
	}
	if err := ValidateSchema(pf.Schema()); err != nil {
		return info, err
	}
	return info, nil
}

// Load reads the full snapshot into memory in file order.
func Load(path string) (*Dataset, error) {
	info, err := Inspect(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[SourceRow](f)
	defer reader.Close()

	const readBatch = 8192
	rows := make([]SourceRow, 0, info.Rows)
	buf := make([]SourceRow, readBatch)
	for {
		n, readErr := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet: %w", readErr)
		}
		// Fresh buffer per batch so appended rows never alias the next read.
		buf = make([]SourceRow, readBatch)
	}

	return NewDataset(path, rows), nil
}
