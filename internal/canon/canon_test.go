package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesAreConsistent(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateRejectsConflictingAliases(t *testing.T) {
	err := validateTables(map[Category][]entry{
		Outcome: {
			{"Óbito", []string{"ÓBITO"}},
			{"Morte", []string{"OBITO"}},
		},
	})
	assert.Error(t, err)
}

func TestValidateRejectsLowercaseAlias(t *testing.T) {
	err := validateTables(map[Category][]entry{
		Sex: {{"Masculino", []string{"masculino"}}},
	})
	assert.Error(t, err)
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		cat    Category
		raw    string
		want   string
		wantOK bool
	}{
		{Sex, "MASCULINO", "Masculino", true},
		{Sex, "  feminino ", "Feminino", true},
		{Race, "INDIGENA", "Indígena", true},
		{Race, "Indígena", "Indígena", true},
		{Outcome, "obito", "Óbito", true},
		{Outcome, "INTERNADO EM UTI", "Internado em UTI", true},
		{Classification, "CONFIRMADO CLÍNICO-IMAGEM", "Clínico-Imagem", true},
		{Classification, "Sindrome Gripal Não Especificada", "Síndrome Gripal Não Especificada", true},
		{Symptom, "DISPNÉIA", "Dispneia", true},
		{Symptom, "dor de cabeca", "Dor de Cabeça", true},
		// unmapped but present values are kept verbatim
		{Symptom, " Mialgia ", "Mialgia", true},
		{Race, "Outra", "Outra", true},
		{Sex, "", "", false},
		{Sex, "   ", "", false},
		{Sex, "NÃO INFORMADO", "NÃO INFORMADO", true},
		{Race, " Nao Informado ", "Nao Informado", true},
	}
	for _, tt := range tests {
		got, ok := Canonicalize(tt.cat, tt.raw)
		assert.Equal(t, tt.wantOK, ok, "%s %q", tt.cat, tt.raw)
		assert.Equal(t, tt.want, got, "%s %q", tt.cat, tt.raw)
	}
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("  "))
	assert.True(t, IsMissing("NÃO INFORMADO"))
	assert.True(t, IsMissing("nao informado"))
	assert.False(t, IsMissing("Parda"))
}

func TestCanonicalizePtr(t *testing.T) {
	_, ok := CanonicalizePtr(Sex, nil)
	assert.False(t, ok)

	v := "FEMININO"
	got, ok := CanonicalizePtr(Sex, &v)
	assert.True(t, ok)
	assert.Equal(t, "Feminino", got)
}

func TestLabelsAreSortedAndDistinct(t *testing.T) {
	labels := Labels(Race)
	assert.Equal(t, []string{"Amarela", "Branca", "Ignorado", "Indígena", "Parda", "Preta"}, labels)
	assert.Nil(t, Labels(Category(99)))
	assert.Equal(t, "Category(99)", Category(99).String())
}

func TestFold(t *testing.T) {
	assert.Equal(t, "SAO PAULO", Fold(" São Paulo "))
	assert.Equal(t, "PUERPERA (ATE 45 DIAS DO PARTO)", Fold("Puérpera (até 45 dias do parto)"))
}

func TestParseTriState(t *testing.T) {
	tests := map[string]TriState{
		"TRUE":        True,
		"sim":         True,
		" Verdadeiro": True,
		"False":       False,
		"NÃO":         False,
		"nao":         False,
		"FALSO":       False,
		"":            Unknown,
		"IGNORADO":    Unknown,
		"1":           Unknown,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseTriState(raw), "%q", raw)
	}
	assert.Equal(t, Unknown, ParseTriStatePtr(nil))
}

func TestTriStatePolicies(t *testing.T) {
	v, valid := Unknown.Resolve(HealthProfessionalPolicy)
	assert.True(t, valid)
	assert.False(t, v)

	_, valid = Unknown.Resolve(SecurityProfessionalPolicy)
	assert.False(t, valid)

	_, valid = Unknown.Resolve(ValidatedPolicy)
	assert.False(t, valid)

	v, valid = True.Resolve(SecurityProfessionalPolicy)
	assert.True(t, valid)
	assert.True(t, v)

	v, valid = False.Resolve(ValidatedPolicy)
	assert.True(t, valid)
	assert.False(t, v)

	yes, no := true, false
	assert.Equal(t, True, TriStateFromBool(&yes))
	assert.Equal(t, False, TriStateFromBool(&no))
	assert.Equal(t, Unknown, TriStateFromBool(nil))
}
