package canon

import (
	"fmt"
	"strings"
)

const cboWidth = 6

// Occupation is a parsed CBO (Classificação Brasileira de Ocupações) value.
type Occupation struct {
	Code  string // zero-padded to 6 digits
	Title string
}

// ParseOccupation reads "code - title" or a bare code. A bare code gets the
// title "CBO <code>". ok is false for missing values; err is set when a value
// is present but its code is not 1 to 6 digits.
func ParseOccupation(raw string) (occ Occupation, ok bool, err error) {
	if IsMissing(raw) {
		return Occupation{}, false, nil
	}
	s := strings.TrimSpace(raw)
	code, title, split := strings.Cut(s, " - ")
	code = strings.TrimSpace(code)
	title = strings.TrimSpace(title)
	if !split || title == "" {
		title = "CBO " + code
	}
	if !isDigits(code) || len(code) > cboWidth {
		return Occupation{}, false, fmt.Errorf("invalid cbo code %q", s)
	}
	return Occupation{Code: padCode(code), Title: title}, true, nil
}

// NotificationOccupationCode extracts the code only from the "code - title"
// form, as the notification loader requires.
func NotificationOccupationCode(raw string) (string, bool) {
	if IsMissing(raw) || !strings.Contains(raw, " - ") {
		return "", false
	}
	occ, ok, err := ParseOccupation(raw)
	if !ok || err != nil {
		return "", false
	}
	return occ.Code, true
}

func padCode(code string) string {
	if len(code) >= cboWidth {
		return code
	}
	return strings.Repeat("0", cboWidth-len(code)) + code
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
