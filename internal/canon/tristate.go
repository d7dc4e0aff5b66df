package canon

import "strings"

// TriState is a boolean-like source field that may be unknown.
type TriState int

const (
	Unknown TriState = iota
	True
	False
)

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// ParseTriState recognizes TRUE/VERDADEIRO/SIM and FALSE/FALSO/NÃO/NAO in any
// case. Anything else, missing values included, is Unknown.
func ParseTriState(raw string) TriState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRUE", "VERDADEIRO", "SIM":
		return True
	case "FALSE", "FALSO", "NÃO", "NAO":
		return False
	}
	return Unknown
}

func ParseTriStatePtr(raw *string) TriState {
	if raw == nil {
		return Unknown
	}
	return ParseTriState(*raw)
}

// TriStateFromBool lifts an already typed nullable column.
func TriStateFromBool(b *bool) TriState {
	switch {
	case b == nil:
		return Unknown
	case *b:
		return True
	default:
		return False
	}
}

// Policy says what Unknown resolves to for one field.
type Policy int

const (
	UnknownIsFalse Policy = iota
	UnknownIsNull
)

// Field policies for the notification flags.
const (
	HealthProfessionalPolicy   = UnknownIsFalse
	SecurityProfessionalPolicy = UnknownIsNull
	ValidatedPolicy            = UnknownIsNull
	TraditionalMemberPolicy    = UnknownIsFalse
)

// Resolve applies p. valid is false when the field must be stored as null.
func (t TriState) Resolve(p Policy) (value, valid bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	}
	if p == UnknownIsFalse {
		return false, true
	}
	return false, false
}
