// Package rank orders matched records by relevance to the raw query term.
//
// A record whose package name is the term itself, or the term followed by one
// of the common "js" suffixes, sorts ahead of everything else. Among those the
// bare term comes first, so "lodash" is listed above "lodash-js". All remaining
// ties are broken by monthly downloads, most downloaded first. Records that
// compare equal keep their input order.
package rank

import (
	"sort"
	"strings"

	"github.com/bastiangx/typesearch/pkg/records"
)

// jsSuffixes are appended to the term to build its exact forms.
var jsSuffixes = []string{"js", ".js", "-js"}

// ExactForms returns the package names treated as a direct hit for term.
func ExactForms(term string) []string {
	forms := make([]string, 0, 1+len(jsSuffixes))
	forms = append(forms, term)
	for _, suffix := range jsSuffixes {
		forms = append(forms, term+suffix)
	}
	return forms
}

// Ranker sorts matches for a term. The zero value compares names exactly.
type Ranker struct {
	FoldCase bool
}

// Rank is Ranker{}.Rank.
func Rank(term string, matches []records.SearchRecord) []records.SearchRecord {
	return Ranker{}.Rank(term, matches)
}

// Rank returns a sorted copy of matches.
func (r Ranker) Rank(term string, matches []records.SearchRecord) []records.SearchRecord {
	out := make([]records.SearchRecord, len(matches))
	copy(out, matches)
	if len(out) < 2 {
		return out
	}

	tierOf := r.tiers(term)
	tier := make([]int, len(out))
	for i, rec := range out {
		tier[i] = tierOf(rec.TypesPackageName)
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if tier[a] != tier[b] {
			return tier[a] < tier[b]
		}
		return out[a].MonthlyDownloads > out[b].MonthlyDownloads
	})

	sorted := make([]records.SearchRecord, len(out))
	for i, pos := range idx {
		sorted[i] = out[pos]
	}
	return sorted
}

const (
	tierTerm = iota
	tierSuffix
	tierOther
)

func (r Ranker) tiers(term string) func(string) int {
	if r.FoldCase {
		term = strings.ToLower(term)
	}
	set := make(map[string]int, 1+len(jsSuffixes))
	for _, form := range ExactForms(term) {
		set[form] = tierSuffix
	}
	set[term] = tierTerm
	return func(name string) int {
		if r.FoldCase {
			name = strings.ToLower(name)
		}
		if t, ok := set[name]; ok {
			return t
		}
		return tierOther
	}
}

// IsExact reports whether name is one of the exact forms of term.
func (r Ranker) IsExact(term, name string) bool {
	return r.tiers(term)(name) != tierOther
}
