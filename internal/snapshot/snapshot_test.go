package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLoadPreservesOrderAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.parquet")
	rows := []SourceRow{
		{Idade: ptr(int32(30)), Sexo: ptr("MASCULINO"), RacaCor: ptr("BRANCA"), DataNotificacao: day(2021, 3, 1)},
		{Idade: nil, Sexo: ptr("FEMININO"), CodigoEstadoTeste2: ptr(int32(3)), DataColetaTeste2: day(2021, 3, 2)},
		{Sexo: ptr("FEMININO"), CodigoContemComunidadeTradicional: ptr(true), MunicipioIBGE: ptr(int64(3509502))},
	}
	require.NoError(t, WriteFile(path, rows))

	ds, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, path, ds.Path())

	var keys []RowKey
	var sexes []string
	for k, row := range ds.All() {
		keys = append(keys, k)
		sexes = append(sexes, *row.Sexo)
	}
	assert.Equal(t, []RowKey{0, 1, 2}, keys)
	assert.Equal(t, []string{"MASCULINO", "FEMININO", "FEMININO"}, sexes)

	first, ok := ds.Row(0)
	require.True(t, ok)
	assert.Equal(t, int32(30), *first.Idade)
	assert.True(t, first.DataNotificacao.Equal(*day(2021, 3, 1)))

	second, _ := ds.Row(1)
	assert.Nil(t, second.Idade)
	slot := second.TestSlots()[1]
	require.NotNil(t, slot.State)
	assert.Equal(t, int32(3), *slot.State)
	assert.True(t, slot.Collected.Equal(*day(2021, 3, 2)))

	third, _ := ds.Row(2)
	assert.True(t, *third.CodigoContemComunidadeTradicional)
	assert.Equal(t, int64(3509502), *third.Residence().IBGE)

	_, ok = ds.Row(3)
	assert.False(t, ok)
}

func TestAllStopsEarly(t *testing.T) {
	ds := NewDataset("mem", make([]SourceRow, 5))
	n := 0
	for range ds.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

type partialRow struct {
	Sexo *string `parquet:"sexo,optional"`
}

func TestInspectRejectsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.parquet")
	require.NoError(t, parquet.WriteFile(path, []partialRow{{Sexo: ptr("MASCULINO")}}))

	info, err := Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "racaCor")
	assert.Equal(t, int64(1), info.Rows)

	_, err = Load(path)
	assert.Error(t, err)
}

func TestRequiredColumnsCoverTestSlots(t *testing.T) {
	joined := strings.Join(requiredColumns, ",")
	for _, col := range []string{"codigoTipoTeste1", "codigoEstadoTeste4", "dataColetaTeste3", "codigoFabricanteTeste2"} {
		assert.Contains(t, joined, col)
	}
	assert.NotContains(t, joined, "municipioNotificacaoIBGE")
}

func TestConvertCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "export.csv")
	out := filepath.Join(dir, "export.parquet")

	header := strings.Join(requiredColumns, ";")
	values := make([]string, len(requiredColumns))
	set := func(col, v string) {
		for i, c := range requiredColumns {
			if c == col {
				values[i] = v
			}
		}
	}
	set("idade", "45.0")
	set("sexo", "FEMININO")
	set("racaCor", "PARDA")
	set("dataNotificacao", "2021-07-15")
	set("dataInicioSintomas", "10/07/2021")
	set("excluido", "False")
	set("codigoEstadoTeste1", "3")
	line1 := strings.Join(values, ";")

	values = make([]string, len(requiredColumns))
	set("sexo", "MASCULINO")
	set("idade", "abc")
	line2 := strings.Join(values, ";")

	content := "\ufeff" + header + "\n" + line1 + "\n" + line2 + "\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0o600))

	written, invalid, err := Convert(in, out, ';', 1)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, int64(1), invalid)

	ds, err := Load(out)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	r0, _ := ds.Row(0)
	assert.Equal(t, int32(45), *r0.Idade)
	assert.Equal(t, "PARDA", *r0.RacaCor)
	assert.True(t, r0.DataInicioSintomas.Equal(*day(2021, 7, 10)))
	assert.False(t, *r0.Excluido)
	assert.Equal(t, int32(3), *r0.CodigoEstadoTeste1)
	assert.Nil(t, r0.Cbo)

	r1, _ := ds.Row(1)
	assert.Nil(t, r1.Idade)
	assert.Equal(t, "MASCULINO", *r1.Sexo)
}
