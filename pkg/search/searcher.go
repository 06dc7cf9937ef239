// Package search composes the record store and the ranker into the
// caller-facing lookup: a term goes in, ranked package identifiers and their
// project URLs come out.
//
// The Searcher holds the current store behind an atomic pointer. Refreshing
// the record set builds a new store and swaps it in; searches already running
// keep reading the snapshot they started with.
package search

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/bastiangx/typesearch/pkg/index"
	"github.com/bastiangx/typesearch/pkg/rank"
	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
)

// DefaultNamespace prefixes every package name in results.
const DefaultNamespace = "@types/"

// ErrMissingTerm is returned when Search is called without a term.
var ErrMissingTerm = errors.New("missing search term")

// Result is one ranked hit.
type Result struct {
	Package   string // namespaced package identifier, e.g. @types/lodash
	URL       string
	Downloads int
	Exact     bool
	Record    records.SearchRecord
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithNamespace sets the prefix added to package names.
func WithNamespace(ns string) Option {
	return func(s *Searcher) {
		s.namespace = ns
	}
}

// WithLimit caps the number of results. 0 means no cap.
func WithLimit(limit int) Option {
	return func(s *Searcher) {
		s.limit = limit
	}
}

// Searcher answers searches against the current store snapshot.
type Searcher struct {
	store     atomic.Pointer[index.Store]
	namespace string
	limit     int
	served    atomic.Int64
}

// New returns a Searcher over store.
func New(store *index.Store, opts ...Option) *Searcher {
	s := &Searcher{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(s)
	}
	s.store.Store(store)
	return s
}

// Store returns the snapshot currently served.
func (s *Searcher) Store() *index.Store {
	return s.store.Load()
}

// Swap installs store as the new snapshot and returns the previous one.
func (s *Searcher) Swap(store *index.Store) *index.Store {
	old := s.store.Swap(store)
	log.Debugf("Swapped index snapshot: %d -> %d records", old.Len(), store.Len())
	return old
}

// Search ranks the records matching term. An unmatched term gives an empty
// slice and a nil error; an empty term gives ErrMissingTerm without touching
// the store.
func (s *Searcher) Search(term string) ([]Result, error) {
	return s.SearchLimit(term, s.limit)
}

// SearchLimit is Search with an explicit result cap. limit <= 0 means no cap.
func (s *Searcher) SearchLimit(term string, limit int) ([]Result, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrMissingTerm
	}
	s.served.Add(1)

	store := s.store.Load()
	ranker := rank.Ranker{FoldCase: store.FoldCase()}
	ranked := ranker.Rank(term, store.Query(term))
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]Result, len(ranked))
	for i, r := range ranked {
		results[i] = Result{
			Package:   s.namespace + r.TypesPackageName,
			URL:       r.ProjectURL,
			Downloads: r.MonthlyDownloads,
			Exact:     ranker.IsExact(term, r.TypesPackageName),
			Record:    r,
		}
	}
	return results, nil
}

// Suggest returns up to n package names that fuzzily resemble term, best
// match first. It is meant for "did you mean" hints after an empty search.
func (s *Searcher) Suggest(term string, n int) []string {
	if term == "" || n <= 0 {
		return nil
	}
	keys := s.store.Load().Keys()
	matches := fuzzy.Find(term, keys)
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Stats reports snapshot size and searches served.
func (s *Searcher) Stats() map[string]int {
	store := s.store.Load()
	return map[string]int{
		"records":  store.Len(),
		"tokens":   store.TokenCount(),
		"searches": int(s.served.Load()),
	}
}
