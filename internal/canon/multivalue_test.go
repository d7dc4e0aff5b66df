package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSymptoms(t *testing.T) {
	got := SplitSymptoms("FEBRE, Tosse,DISPNÉIA, febre, ,Mialgia")
	assert.Equal(t, []string{"Febre", "Tosse", "Dispneia", "Mialgia"}, got)

	assert.Nil(t, SplitSymptoms(""))
	assert.Nil(t, SplitSymptoms("NÃO INFORMADO"))
	assert.Equal(t, []string{"Tosse"}, SplitSymptoms("Tosse, Não informado"))
}

func TestExtractConditionsCountsBothDiabetesAndOther(t *testing.T) {
	got := ExtractConditions("DIABETES, OUTROS")
	assert.ElementsMatch(t, []string{"Diabetes", "Outros"}, got)
	assert.Len(t, got, 2)
}

func TestExtractConditionsKeepsCommaLabelsWhole(t *testing.T) {
	got := ExtractConditions("Doenças renais crônicas em estágio avançado (graus 3, 4 ou 5), Obesidade")
	assert.ElementsMatch(t, []string{
		"Doenças renais crônicas em estágio avançado (graus 3, 4 ou 5)",
		"Obesidade",
	}, got)
}

func TestExtractConditionsAccentInsensitive(t *testing.T) {
	got := ExtractConditions("IMUNOSSUPRESSAO, PUÉRPERA (ATÉ 45 DIAS DO PARTO)")
	assert.ElementsMatch(t, []string{"Imunossupressão", "Puérpera (até 45 dias do parto)"}, got)
}

func TestExtractConditionsCountsEachLabelOnce(t *testing.T) {
	got := ExtractConditions("GESTANTE, GESTANTE")
	assert.Equal(t, []string{"Gestante"}, got)
}

func TestExtractConditionsIgnoresUnknownText(t *testing.T) {
	assert.Empty(t, ExtractConditions("HIPERTENSAO"))
	assert.Nil(t, ExtractConditions("Não informado"))
}

func TestOrderWithCatchAllSymptoms(t *testing.T) {
	labels := []string{"Tosse", "Febre", "Outros", "Coriza", "Dispneia", "Dor de Cabeça",
		"Dor de Garganta", "Assintomático", "Distúrbios Gustativos", "Distúrbios Olfativos",
		"Mialgia", "Vômito"}

	got := OrderWithCatchAll(labels, OtherSymptom, OtherSymptomPosition)

	assert.Len(t, got, 12)
	assert.Equal(t, OtherSymptom, got[OtherSymptomPosition-1])
	assert.Equal(t, []string{"Assintomático", "Coriza", "Dispneia", "Distúrbios Gustativos",
		"Distúrbios Olfativos", "Dor de Cabeça", "Dor de Garganta", "Febre", "Mialgia"}, got[:9])
	assert.Equal(t, []string{"Tosse", "Vômito"}, got[10:])
}

func TestOrderWithCatchAllShortList(t *testing.T) {
	got := OrderWithCatchAll([]string{"Gestante", "Diabetes", "Diabetes"}, OtherCondition, OtherConditionPosition)
	assert.Equal(t, []string{"Diabetes", "Gestante", "Outros"}, got)

	got = OrderWithCatchAll(nil, OtherCondition, OtherConditionPosition)
	assert.Equal(t, []string{"Outros"}, got)
}

func TestParseDoseOrdinals(t *testing.T) {
	assert.Equal(t, []int{1, 2}, ParseDoseOrdinals("1,2"))
	assert.Equal(t, []int{2, 3}, ParseDoseOrdinals(" 2 , 3 "))
	assert.Equal(t, []int{1}, ParseDoseOrdinals("1,x,0"))
	assert.Nil(t, ParseDoseOrdinals(""))
	assert.Nil(t, ParseDoseOrdinals("NÃO INFORMADO"))
}

func TestStateCode(t *testing.T) {
	code, ok := StateCode("SÃO PAULO")
	assert.True(t, ok)
	assert.Equal(t, "35", code)

	code, ok = StateCode("sao paulo")
	assert.True(t, ok)
	assert.Equal(t, "35", code)

	_, ok = StateCode("Atlantida")
	assert.False(t, ok)

	name, ok := StateName("26")
	assert.True(t, ok)
	assert.Equal(t, "Pernambuco", name)
	assert.Len(t, states, 27)
}

func TestMunicipalityName(t *testing.T) {
	assert.Equal(t, "Campinas", MunicipalityName("  CAMPINAS "))
	assert.Equal(t, "São José", MunicipalityName("SÃO  JOSÉ"))
	assert.Equal(t, MunicipalityKey("São José"), MunicipalityKey("SAO JOSE"))
}

func TestParseOccupation(t *testing.T) {
	occ, ok, err := ParseOccupation("2235 - Enfermeiro")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Occupation{Code: "002235", Title: "Enfermeiro"}, occ)

	occ, ok, err = ParseOccupation("225125")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Occupation{Code: "225125", Title: "CBO 225125"}, occ)

	_, ok, err = ParseOccupation("1234567 - Longo")
	assert.Error(t, err)
	assert.False(t, ok)

	_, ok, err = ParseOccupation("ABC - Letras")
	assert.Error(t, err)
	assert.False(t, ok)

	_, ok, err = ParseOccupation("Não informado")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNotificationOccupationCode(t *testing.T) {
	code, ok := NotificationOccupationCode("2235 - Enfermeiro")
	assert.True(t, ok)
	assert.Equal(t, "002235", code)

	_, ok = NotificationOccupationCode("225125")
	assert.False(t, ok)
}
