package canon

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SplitSymptoms splits a comma-delimited symptom list and canonicalizes every
// token. Duplicates and empty tokens are dropped; order of first appearance is kept.
func SplitSymptoms(raw string) []string {
	if IsMissing(raw) {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, tok := range strings.Split(raw, ",") {
		if IsMissing(tok) {
			continue
		}
		label, ok := Canonicalize(Symptom, tok)
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

type conditionAlias struct {
	alias string
	label string
}

// Some condition labels contain the list delimiter ("graus 3, 4 ou 5"), so the
// field is scanned for known aliases instead of split.
var conditionScan = buildConditionScan()

func buildConditionScan() []conditionAlias {
	var scan []conditionAlias
	for _, e := range aliases[Condition] {
		for _, a := range append([]string{Fold(e.label)}, e.aliases...) {
			scan = append(scan, conditionAlias{alias: Fold(a), label: e.label})
		}
	}
	// Longest first so a shorter label never matches inside a longer one.
	sort.SliceStable(scan, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(scan[i].alias), utf8.RuneCountInString(scan[j].alias)
		if li != lj {
			return li > lj
		}
		return scan[i].alias < scan[j].alias
	})
	// Folded accented and plain aliases collapse to the same key.
	dedup := scan[:0]
	seen := map[string]bool{}
	for _, c := range scan {
		if seen[c.alias] {
			continue
		}
		seen[c.alias] = true
		dedup = append(dedup, c)
	}
	return dedup
}

// ExtractConditions returns the canonical conditions found in raw. Each match
// is removed from the scratch string before the next alias is tried, so a
// label is counted at most once. Result order follows the scan order.
func ExtractConditions(raw string) []string {
	if IsMissing(raw) {
		return nil
	}
	scratch := Fold(raw)
	var out []string
	seen := map[string]bool{}
	for _, c := range conditionScan {
		if !strings.Contains(scratch, c.alias) {
			continue
		}
		scratch = strings.Replace(scratch, c.alias, "", 1)
		if seen[c.label] {
			continue
		}
		seen[c.label] = true
		out = append(out, c.label)
	}
	return out
}

// OrderWithCatchAll sorts labels and moves catchAll to the 1-based position.
// Labels sorting after the cutoff keep their relative order after it. The
// catch-all is always present in the result.
func OrderWithCatchAll(labels []string, catchAll string, position int) []string {
	var rest []string
	seen := map[string]bool{catchAll: true}
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		rest = append(rest, l)
	}
	sort.Strings(rest)

	cut := position - 1
	if cut > len(rest) {
		cut = len(rest)
	}
	out := make([]string, 0, len(rest)+1)
	out = append(out, rest[:cut]...)
	out = append(out, catchAll)
	out = append(out, rest[cut:]...)
	return out
}

// ParseDoseOrdinals reads a comma-separated list of dose numbers ("1,2",
// "2, 3"). Non-numeric and non-positive tokens are ignored.
func ParseDoseOrdinals(raw string) []int {
	if IsMissing(raw) {
		return nil
	}
	var out []int
	for _, tok := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}
