package loader

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"esusload/internal/canon"
)

// optToPgText trims s and maps missing values (nil, blank, "NÃO INFORMADO")
// to NULL.
func optToPgText(s *string) pgtype.Text {
	if s == nil || canon.IsMissing(*s) {
		return pgtype.Text{}
	}
	return pgtype.Text{String: sanitizeUTF8(strings.TrimSpace(*s)), Valid: true}
}

func toDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

func toInt2(v *int32) pgtype.Int2 {
	if v == nil || *v < -32768 || *v > 32767 {
		return pgtype.Int2{}
	}
	return pgtype.Int2{Int16: int16(*v), Valid: true}
}

func int4(v int32) pgtype.Int4 {
	return pgtype.Int4{Int32: v, Valid: true}
}

func boolOrNull(v, valid bool) pgtype.Bool {
	return pgtype.Bool{Bool: v, Valid: valid}
}

func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}
