package index

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var fixture = []records.SearchRecord{
	{TypesPackageName: "lodash", Globals: []string{"_"}, Modules: []string{"lodash"}, ProjectURL: "https://lodash.com", LibraryName: "lodash", MonthlyDownloads: 100},
	{TypesPackageName: "lodash-js", Modules: []string{"lodash-js"}, LibraryName: "Lodash JS", MonthlyDownloads: 100000},
	{TypesPackageName: "underscore", Globals: []string{"_"}, Modules: []string{"underscore"}, LibraryName: "Underscore", MonthlyDownloads: 5000},
	{TypesPackageName: "jquery", Globals: []string{"$", "jQuery"}, Modules: []string{"jquery"}, ProjectURL: "https://jquery.com", LibraryName: "jQuery", MonthlyDownloads: 9000},
}

func names(recs []records.SearchRecord) []string {
	out := records.Keys(recs)
	sort.Strings(out)
	return out
}

func TestLoadAndQuery(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	testCases := []struct {
		term string
		want []string
	}{
		{"_", []string{"lodash", "underscore"}},
		{"lodash", []string{"lodash"}},
		{"Lodash JS", []string{"lodash-js"}},
		{"jQuery", []string{"jquery"}},
		{"$", []string{"jquery"}},
		{"https://jquery.com", nil},
		{"lod", nil},
		{"doesnotexist", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.term, func(t *testing.T) {
			got := s.Query(tc.term)
			if got == nil {
				t.Fatal("Query returned nil, want empty slice")
			}
			if fmt.Sprint(names(got)) != fmt.Sprint(append([]string{}, tc.want...)) {
				t.Errorf("Query(%q) = %v, want %v", tc.term, names(got), tc.want)
			}
		})
	}
}

func TestQueryMatchesTokenSets(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, r := range fixture {
		for _, tok := range Tokenize(r) {
			var want []string
			for _, other := range fixture {
				for _, otherTok := range Tokenize(other) {
					if otherTok == tok {
						want = append(want, other.TypesPackageName)
						break
					}
				}
			}
			sort.Strings(want)
			if got := names(s.Query(tok)); fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("Query(%q) = %v, want %v", tok, got, want)
			}
		}
	}
}

func TestLoadDuplicateKey(t *testing.T) {
	recs := append([]records.SearchRecord{}, fixture...)
	recs = append(recs, records.SearchRecord{TypesPackageName: "jquery"})

	s, err := Load(recs)
	if s != nil {
		t.Error("store returned alongside error")
	}
	if !errors.Is(err, records.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	var inv *records.InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("err is not *InvalidInputError: %T", err)
	}
	if inv.Key != "jquery" || inv.Index != len(fixture) {
		t.Errorf("got key %q index %d", inv.Key, inv.Index)
	}
}

func TestLoadMalformedRecord(t *testing.T) {
	_, err := Load([]records.SearchRecord{{LibraryName: "nameless"}})
	if !errors.Is(err, records.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	s, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if s.Len() != 0 || len(s.Query("anything")) != 0 {
		t.Error("empty store returned records")
	}
}

func TestTokenize(t *testing.T) {
	r := records.SearchRecord{
		TypesPackageName: "react",
		LibraryName:      "React",
		Globals:          []string{"React", ""},
		Modules:          []string{"react", "react/jsx-runtime"},
		ProjectURL:       "https://react.dev",
	}
	got := Tokenize(r)
	want := []string{"React", "react", "react/jsx-runtime"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestQueryIdempotent(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := names(s.Query("_"))
	second := names(s.Query("_"))
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("repeated query differs: %v vs %v", first, second)
	}
}

func TestFoldCase(t *testing.T) {
	sensitive, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sensitive.Query("JQUERY")) != 0 {
		t.Error("case-sensitive store matched JQUERY")
	}

	folded, err := Load(fixture, WithFoldCase(true))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := names(folded.Query("JQUERY")); fmt.Sprint(got) != "[jquery]" {
		t.Errorf("folded Query(JQUERY) = %v", got)
	}
	// "Lodash JS" and "lodash-js" stay distinct tokens; one record, no duplicates.
	if got := folded.Query("lodash js"); len(got) != 1 {
		t.Errorf("folded Query(lodash js) = %v", names(got))
	}
}

func TestComplete(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Complete("lodash", 0)
	sort.Strings(got)
	if fmt.Sprint(got) != "[lodash-js]" {
		t.Errorf("Complete(lodash) = %v", got)
	}
	if got := s.Complete("", 2); len(got) != 2 {
		t.Errorf("Complete with limit 2 returned %d tokens", len(got))
	}
}

func TestCompleteStopsAtLimit(t *testing.T) {
	var recs []records.SearchRecord
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("pkg%02d", i)
		recs = append(recs, records.SearchRecord{TypesPackageName: name})
	}
	s, err := Load(recs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	testCases := []struct {
		limit int
		want  int
	}{
		{limit: 1, want: 1},
		{limit: 7, want: 7},
		{limit: 50, want: 50},
		{limit: 100, want: 50},
		{limit: 0, want: 50},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.limit), func(t *testing.T) {
			if got := s.Complete("pkg", tc.limit); len(got) != tc.want {
				t.Errorf("Complete(pkg, %d) returned %d tokens, want %d", tc.limit, len(got), tc.want)
			}
		})
	}
}

func TestGetAndStats(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r, ok := s.Get("jquery")
	if !ok || r.ProjectURL != "https://jquery.com" {
		t.Errorf("Get(jquery) = %+v, %v", r, ok)
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get(nope) found a record")
	}
	if s.Len() != len(fixture) {
		t.Errorf("Len = %d", s.Len())
	}
	if s.TokenCount() == 0 {
		t.Error("TokenCount = 0")
	}
}

func TestConcurrentQuery(t *testing.T) {
	s, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if len(s.Query("_")) != 2 {
					t.Error("concurrent query lost records")
					return
				}
			}
		}()
	}
	wg.Wait()
}
