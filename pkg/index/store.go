// Package index is the record store: an immutable token index over a
// prefetched set of search records.
//
// Every record contributes its libraryName, typesPackageName, globals and
// modules as whole tokens. A query term is a single token and matches records
// by exact membership. Tokens live in a Patricia trie, which also lets callers
// list the tokens under a prefix for term completion.
//
// A Store is never mutated after Load returns, so Query, Complete and Get are
// safe for concurrent use without locking.
package index

import (
	"errors"
	"strings"

	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Option configures Load.
type Option func(*options)

type options struct {
	foldCase bool
}

// WithFoldCase lower-cases tokens at load time and terms at query time.
func WithFoldCase(fold bool) Option {
	return func(o *options) {
		o.foldCase = fold
	}
}

// Store holds the record set and its token index.
type Store struct {
	records  []records.SearchRecord
	byKey    map[string]int
	tokens   *patricia.Trie // token -> []int positions into records
	numToken int
	foldCase bool
}

// Load validates recs and builds the token index. It fails with a
// *records.InvalidInputError on a malformed record or a duplicate
// typesPackageName; no store is returned in that case.
func Load(recs []records.SearchRecord, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := records.ValidateAll(recs); err != nil {
		return nil, err
	}
	byKey := make(map[string]int, len(recs))
	for i, r := range recs {
		byKey[r.TypesPackageName] = i
	}

	s := &Store{
		records:  append([]records.SearchRecord(nil), recs...),
		byKey:    byKey,
		tokens:   patricia.NewTrie(),
		foldCase: o.foldCase,
	}

	for i, r := range s.records {
		for _, tok := range Tokenize(r) {
			s.insert(s.normalize(tok), i)
		}
	}

	log.Debugf("Index loaded: %d records, %d tokens", len(s.records), s.numToken)
	return s, nil
}

func (s *Store) insert(token string, pos int) {
	key := patricia.Prefix(token)
	item := s.tokens.Get(key)
	if item == nil {
		s.tokens.Insert(key, []int{pos})
		s.numToken++
		return
	}
	positions := item.([]int)
	// Folding can map two tokens of one record onto the same key.
	if positions[len(positions)-1] == pos {
		return
	}
	s.tokens.Set(key, append(positions, pos))
}

func (s *Store) normalize(term string) string {
	if s.foldCase {
		return strings.ToLower(term)
	}
	return term
}

// Tokenize returns the token set of r: libraryName, typesPackageName, every
// global and every module, each as one opaque token. Empty values are skipped
// and duplicates collapsed; projectUrl is never a token.
func Tokenize(r records.SearchRecord) []string {
	n := 2 + len(r.Globals) + len(r.Modules)
	seen := make(map[string]bool, n)
	tokens := make([]string, 0, n)
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}

	add(r.LibraryName)
	add(r.TypesPackageName)
	for _, g := range r.Globals {
		add(g)
	}
	for _, m := range r.Modules {
		add(m)
	}
	return tokens
}

// Query returns the records whose token set contains term, in load order.
// An unmatched term yields an empty, non-nil slice.
func (s *Store) Query(term string) []records.SearchRecord {
	item := s.tokens.Get(patricia.Prefix(s.normalize(term)))
	if item == nil {
		return []records.SearchRecord{}
	}
	positions := item.([]int)
	out := make([]records.SearchRecord, len(positions))
	for i, pos := range positions {
		out[i] = s.records[pos]
	}
	return out
}

// errLimitReached stops a subtree walk once enough tokens are collected.
var errLimitReached = errors.New("completion limit reached")

// Complete lists up to limit tokens that start with prefix, excluding prefix
// itself. limit <= 0 means no limit.
func (s *Store) Complete(prefix string, limit int) []string {
	prefix = s.normalize(prefix)
	var out []string
	err := s.tokens.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		tok := string(p)
		if tok == prefix {
			return nil
		}
		out = append(out, tok)
		if limit > 0 && len(out) >= limit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		log.Errorf("Error visiting token subtree: %v", err)
	}
	return out
}

// Get returns the record with the given typesPackageName.
func (s *Store) Get(name string) (records.SearchRecord, bool) {
	pos, ok := s.byKey[name]
	if !ok {
		return records.SearchRecord{}, false
	}
	return s.records[pos], true
}

// Keys returns every typesPackageName in load order.
func (s *Store) Keys() []string {
	return records.Keys(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// TokenCount returns the number of distinct tokens in the index.
func (s *Store) TokenCount() int {
	return s.numToken
}

// FoldCase reports whether the store matches case-insensitively.
func (s *Store) FoldCase() bool {
	return s.foldCase
}
