// Package canon maps the noisy free-text and coded values of the case snapshot
// to the canonical labels stored in the domain tables.
package canon

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category selects one of the alias tables.
type Category int

const (
	Sex Category = iota
	Race
	Outcome
	Classification
	Symptom
	Condition
)

var categoryNames = [...]string{
	Sex:            "sexo",
	Race:           "raca",
	Outcome:        "evolucao_caso",
	Classification: "classificacao_final",
	Symptom:        "sintoma",
	Condition:      "condicao",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Sex, Race, Outcome, Classification, Symptom, Condition}
}

type table struct {
	exact  map[string]string // uppercase alias -> label
	folded map[string]string // accent-free uppercase alias -> label
	labels []string          // distinct labels, sorted
}

var tables = buildTables(aliases)

func buildTables(src map[Category][]entry) map[Category]*table {
	out := make(map[Category]*table, len(src))
	for cat, entries := range src {
		t := &table{exact: map[string]string{}, folded: map[string]string{}}
		for _, e := range entries {
			t.labels = append(t.labels, e.label)
			for _, a := range append([]string{strings.ToUpper(e.label)}, e.aliases...) {
				t.exact[a] = e.label
				t.folded[Fold(a)] = e.label
			}
		}
		sort.Strings(t.labels)
		out[cat] = t
	}
	return out
}

// Fold uppercases s and strips combining marks, so "Óbito" and "OBITO" fold
// to the same key.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return folded
}

// IsMissing reports whether raw carries no value: empty, blank, or the
// source's "NÃO INFORMADO" placeholder.
func IsMissing(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return true
	}
	return Fold(s) == "NAO INFORMADO"
}

// Canonicalize maps raw to the category's canonical label. Values with no alias
// come back trimmed but otherwise verbatim, the "NÃO INFORMADO" placeholder
// included; ok is false only for blank input.
func Canonicalize(cat Category, raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	t, found := tables[cat]
	if !found {
		return s, true
	}
	if label, hit := t.exact[strings.ToUpper(s)]; hit {
		return label, true
	}
	if label, hit := t.folded[Fold(s)]; hit {
		return label, true
	}
	return s, true
}

// CanonicalizePtr is Canonicalize for an optional snapshot column.
func CanonicalizePtr(cat Category, raw *string) (string, bool) {
	if raw == nil {
		return "", false
	}
	return Canonicalize(cat, *raw)
}

// Labels returns the sorted canonical vocabulary of a category.
func Labels(cat Category) []string {
	t, ok := tables[cat]
	if !ok {
		return nil
	}
	return append([]string(nil), t.labels...)
}

// Validate is the startup self-check over the alias tables.
func Validate() error {
	return validateTables(aliases)
}

func validateTables(src map[Category][]entry) error {
	for cat, entries := range src {
		byFold := map[string]string{}
		labels := map[string]bool{}
		for _, e := range entries {
			if e.label == "" {
				return fmt.Errorf("%s: empty canonical label", cat)
			}
			if labels[e.label] {
				return fmt.Errorf("%s: label %q declared twice", cat, e.label)
			}
			labels[e.label] = true
			for _, a := range append([]string{strings.ToUpper(e.label)}, e.aliases...) {
				if a != strings.ToUpper(strings.TrimSpace(a)) {
					return fmt.Errorf("%s: alias %q is not trimmed uppercase", cat, a)
				}
				k := Fold(a)
				if prev, dup := byFold[k]; dup && prev != e.label {
					return fmt.Errorf("%s: alias %q maps to both %q and %q", cat, a, prev, e.label)
				}
				byFold[k] = e.label
			}
		}
		t := buildTables(map[Category][]entry{cat: entries})[cat]
		for l := range labels {
			if got := t.folded[Fold(l)]; got != l {
				return fmt.Errorf("%s: label %q does not map to itself (got %q)", cat, l, got)
			}
		}
	}
	return nil
}
