package main

import (
	"testing"

	"github.com/bastiangx/typesearch/pkg/config"
	"github.com/bastiangx/typesearch/pkg/index"
	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/bastiangx/typesearch/pkg/search"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func TestLookupExitCodes(t *testing.T) {
	store, err := index.Load([]records.SearchRecord{
		{TypesPackageName: "lodash", LibraryName: "lodash", ProjectURL: "https://lodash.com", MonthlyDownloads: 10},
	})
	if err != nil {
		t.Fatalf("index.Load: %v", err)
	}
	searcher := search.New(store)
	cfg := config.DefaultConfig().Search

	testCases := []struct {
		name string
		term string
		want int
	}{
		{name: "match", term: "lodash", want: exitOK},
		{name: "namespaced match", term: "@types/lodash", want: exitOK},
		{name: "no match", term: "react", want: exitNoMatch},
		{name: "blank term", term: "   ", want: exitError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lookup(searcher, cfg, tc.term, true); got != tc.want {
				t.Errorf("lookup(%q) = %d, want %d", tc.term, got, tc.want)
			}
		})
	}
	if exitError == exitNoMatch {
		t.Error("error and no-match share an exit code")
	}
}
