package canon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type state struct {
	code string
	name string
}

var states = []state{
	{"12", "Acre"}, {"27", "Alagoas"}, {"16", "Amapá"}, {"13", "Amazonas"},
	{"29", "Bahia"}, {"23", "Ceará"}, {"53", "Distrito Federal"},
	{"32", "Espírito Santo"}, {"52", "Goiás"}, {"21", "Maranhão"},
	{"51", "Mato Grosso"}, {"50", "Mato Grosso do Sul"}, {"31", "Minas Gerais"},
	{"15", "Pará"}, {"25", "Paraíba"}, {"41", "Paraná"}, {"26", "Pernambuco"},
	{"22", "Piauí"}, {"33", "Rio de Janeiro"}, {"24", "Rio Grande do Norte"},
	{"43", "Rio Grande do Sul"}, {"11", "Rondônia"}, {"14", "Roraima"},
	{"42", "Santa Catarina"}, {"35", "São Paulo"}, {"28", "Sergipe"},
	{"17", "Tocantins"},
}

var (
	stateByFold = map[string]state{}
	stateByCode = map[string]state{}
)

func init() {
	for _, s := range states {
		stateByFold[Fold(s.name)] = s
		stateByCode[s.code] = s
	}
}

// StateCode resolves a state name (any case, with or without accents) to its
// 2-digit IBGE code.
func StateCode(name string) (string, bool) {
	if IsMissing(name) {
		return "", false
	}
	s, ok := stateByFold[Fold(name)]
	return s.code, ok
}

// StateName returns the display name registered for an IBGE code.
func StateName(code string) (string, bool) {
	s, ok := stateByCode[code]
	return s.name, ok
}

// MunicipalityName title-cases a municipality the way it is stored.
func MunicipalityName(raw string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(strings.Fields(raw), " "))
}

// MunicipalityKey is the lookup key for a municipality within a state.
func MunicipalityKey(name string) string {
	return Fold(strings.Join(strings.Fields(name), " "))
}
