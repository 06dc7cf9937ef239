package rank

import (
	"strings"
	"testing"

	"github.com/bastiangx/typesearch/pkg/records"
)

func rec(name string, downloads int) records.SearchRecord {
	return records.SearchRecord{TypesPackageName: name, MonthlyDownloads: downloads}
}

func order(recs []records.SearchRecord) string {
	return strings.Join(records.Keys(recs), ",")
}

func TestRank(t *testing.T) {
	testCases := []struct {
		name    string
		term    string
		matches []records.SearchRecord
		want    string
	}{
		{
			name:    "bare term ahead of suffix form",
			term:    "lodash",
			matches: []records.SearchRecord{rec("lodash", 100), rec("lodash-js", 100000)},
			want:    "lodash,lodash-js",
		},
		{
			name:    "suffix forms by downloads",
			term:    "vue",
			matches: []records.SearchRecord{rec("vue-js", 3), rec("other", 900), rec("vue.js", 7)},
			want:    "vue.js,vue-js,other",
		},
		{
			name:    "exact name ahead of popular non-exact",
			term:    "lodash",
			matches: []records.SearchRecord{rec("lodash.merge", 100000), rec("lodash", 100)},
			want:    "lodash,lodash.merge",
		},
		{
			name:    "popularity when nothing is exact",
			term:    "baz",
			matches: []records.SearchRecord{rec("foo", 10), rec("bar", 50)},
			want:    "bar,foo",
		},
		{
			name:    "suffix form promoted",
			term:    "react",
			matches: []records.SearchRecord{rec("preact", 900), rec("react-js", 1), rec("inferno", 500)},
			want:    "react-js,preact,inferno",
		},
		{
			name:    "dot js and bare js suffixes",
			term:    "chart",
			matches: []records.SearchRecord{rec("d3", 10), rec("chart.js", 2), rec("chartjs", 1)},
			want:    "chart.js,chartjs,d3",
		},
		{
			name:    "equal downloads keep input order",
			term:    "x",
			matches: []records.SearchRecord{rec("b", 5), rec("a", 5), rec("c", 5)},
			want:    "b,a,c",
		},
		{
			name:    "single record",
			term:    "x",
			matches: []records.SearchRecord{rec("solo", 1)},
			want:    "solo",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Rank(tc.term, tc.matches)
			if order(got) != tc.want {
				t.Errorf("Rank(%q) = %s, want %s", tc.term, order(got), tc.want)
			}
		})
	}
}

// "lodash" with the exact package at low downloads and
// an unrelated but popular package.
func TestRankExactDespiteDownloads(t *testing.T) {
	got := Rank("lodash", []records.SearchRecord{rec("lodash-es", 100000), rec("lodash", 100)})
	if got[0].TypesPackageName != "lodash" {
		t.Errorf("first = %s, want lodash", got[0].TypesPackageName)
	}
}

func TestRankEmpty(t *testing.T) {
	got := Rank("anything", nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Rank on nil = %#v, want empty slice", got)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []records.SearchRecord{rec("foo", 10), rec("bar", 50)}
	_ = Rank("baz", in)
	if order(in) != "foo,bar" {
		t.Errorf("input reordered to %s", order(in))
	}
}

func TestRankFoldCase(t *testing.T) {
	matches := []records.SearchRecord{rec("other", 100), rec("jquery", 1)}
	if got := Rank("JQuery", matches); got[0].TypesPackageName != "other" {
		t.Errorf("case-sensitive rank promoted %s", got[0].TypesPackageName)
	}
	if got := (Ranker{FoldCase: true}).Rank("JQuery", matches); got[0].TypesPackageName != "jquery" {
		t.Errorf("folded rank first = %s, want jquery", got[0].TypesPackageName)
	}
}

func TestIsExact(t *testing.T) {
	r := Ranker{}
	for _, name := range []string{"vue", "vuejs", "vue.js", "vue-js"} {
		if !r.IsExact("vue", name) {
			t.Errorf("IsExact(vue, %s) = false", name)
		}
	}
	if r.IsExact("vue", "vue-router") {
		t.Error("IsExact(vue, vue-router) = true")
	}
}

func TestExactForms(t *testing.T) {
	got := strings.Join(ExactForms("vue"), ",")
	if got != "vue,vuejs,vue.js,vue-js" {
		t.Errorf("ExactForms = %s", got)
	}
}
