package canon

type entry struct {
	label   string
	aliases []string
}

// Catch-all labels and the table ordinal downstream consumers hard-code for them.
const (
	OtherSymptom           = "Outros"
	OtherSymptomPosition   = 10
	OtherCondition         = "Outros"
	OtherConditionPosition = 9
)

var aliases = map[Category][]entry{
	Sex: {
		{"Masculino", []string{"MASCULINO"}},
		{"Feminino", []string{"FEMININO"}},
	},
	Race: {
		{"Branca", []string{"BRANCA"}},
		{"Preta", []string{"PRETA"}},
		{"Parda", []string{"PARDA"}},
		{"Amarela", []string{"AMARELA"}},
		{"Indígena", []string{"INDÍGENA", "INDIGENA"}},
		{"Ignorado", []string{"IGNORADO"}},
	},
	Outcome: {
		{"Cancelado", []string{"CANCELADO"}},
		{"Ignorado", []string{"IGNORADO"}},
		{"Em tratamento domiciliar", []string{"EM TRATAMENTO DOMICILIAR"}},
		{"Internado em UTI", []string{"INTERNADO EM UTI"}},
		{"Internado", []string{"INTERNADO"}},
		{"Óbito", []string{"ÓBITO", "OBITO"}},
		{"Cura", []string{"CURA"}},
	},
	Classification: {
		{"Confirmado Laboratorial", []string{"CONFIRMADO LABORATORIAL"}},
		{"Confirmado Clínico-Epidemiológico", []string{"CONFIRMADO CLÍNICO-EPIDEMIOLÓGICO", "CONFIRMADO CLINICO-EPIDEMIOLOGICO"}},
		{"Descartado", []string{"DESCARTADO"}},
		{"Síndrome Gripal Não Especificada", []string{"SÍNDROME GRIPAL NÃO ESPECIFICADA", "SINDROME GRIPAL NAO ESPECIFICADA"}},
		{"Confirmado", []string{"CONFIRMADO"}},
		{"Confirmado por Critério Clínico", []string{"CONFIRMADO POR CRITÉRIO CLÍNICO", "CONFIRMADO POR CRITERIO CLINICO"}},
		{"Clínico-Imagem", []string{"CLÍNICO-IMAGEM", "CLINICO-IMAGEM", "CONFIRMADO CLÍNICO-IMAGEM", "CONFIRMADO CLINICO-IMAGEM"}},
	},
	Symptom: {
		{"Assintomático", []string{"ASSINTOMÁTICO", "ASSINTOMATICO"}},
		{"Dor de Cabeça", []string{"DOR DE CABEÇA", "DOR DE CABECA"}},
		{"Febre", []string{"FEBRE"}},
		{"Distúrbios Gustativos", []string{"DISTÚRBIOS GUSTATIVOS", "DISTURBIOS GUSTATIVOS"}},
		{"Distúrbios Olfativos", []string{"DISTÚRBIOS OLFATIVOS", "DISTURBIOS OLFATIVOS"}},
		{"Dor de Garganta", []string{"DOR DE GARGANTA"}},
		{"Dispneia", []string{"DISPNEIA", "DISPNÉIA"}},
		{"Tosse", []string{"TOSSE"}},
		{"Coriza", []string{"CORIZA"}},
		{OtherSymptom, []string{"OUTROS"}},
	},
	Condition: {
		{"Doenças respiratórias crônicas descompensadas", []string{
			"DOENÇAS RESPIRATÓRIAS CRÔNICAS DESCOMPENSADAS",
			"DOENCAS RESPIRATORIAS CRONICAS DESCOMPENSADAS",
		}},
		{OtherCondition, []string{"OUTROS"}},
		{"Doenças cardíacas crônicas", []string{"DOENÇAS CARDÍACAS CRÔNICAS", "DOENCAS CARDIACAS CRONICAS"}},
		{"Diabetes", []string{"DIABETES"}},
		{"Doenças renais crônicas em estágio avançado (graus 3, 4 ou 5)", []string{
			"DOENÇAS RENAIS CRÔNICAS EM ESTÁGIO AVANÇADO (GRAUS 3, 4 OU 5)",
			"DOENCAS RENAIS CRONICAS EM ESTAGIO AVANCADO (GRAUS 3, 4 OU 5)",
		}},
		{"Imunossupressão", []string{"IMUNOSSUPRESSÃO", "IMUNOSSUPRESSAO"}},
		{"Portador de doenças cromossômicas ou estado de fragilidade imunológica", []string{
			"PORTADOR DE DOENÇAS CROMOSSÔMICAS OU ESTADO DE FRAGILIDADE IMUNOLÓGICA",
			"PORTADOR DE DOENCAS CROMOSSOMICAS OU ESTADO DE FRAGILIDADE IMUNOLOGICA",
		}},
		{"Puérpera (até 45 dias do parto)", []string{"PUÉRPERA (ATÉ 45 DIAS DO PARTO)", "PUERPERA (ATE 45 DIAS DO PARTO)"}},
		{"Obesidade", []string{"OBESIDADE"}},
		{"Gestante", []string{"GESTANTE"}},
	},
}
