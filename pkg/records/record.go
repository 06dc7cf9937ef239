// Package records defines the type-definition package records served by the
// search index and decodes them from the published JSON feed.
package records

import (
	"encoding/json"
	"fmt"
	"io"
)

// SearchRecord is one entry of the prefetched search index.
type SearchRecord struct {
	TypesPackageName string   `json:"typesPackageName" msgpack:"t"`
	Globals          []string `json:"globals,omitempty" msgpack:"g,omitempty"`
	Modules          []string `json:"modules,omitempty" msgpack:"m,omitempty"`
	ProjectURL       string   `json:"projectUrl,omitempty" msgpack:"p,omitempty"`
	LibraryName      string   `json:"libraryName,omitempty" msgpack:"l,omitempty"`
	MonthlyDownloads int      `json:"monthlyDownloads" msgpack:"d"`
}

// Validate reports whether r can be indexed.
func (r SearchRecord) Validate() error {
	if r.TypesPackageName == "" {
		return fmt.Errorf("missing typesPackageName")
	}
	if r.MonthlyDownloads < 0 {
		return fmt.Errorf("negative monthlyDownloads (%d)", r.MonthlyDownloads)
	}
	return nil
}

// rawRecord accepts both feed layouts. The minified index uses one letter keys,
// the full index spells them out and calls the popularity field "downloads".
type rawRecord struct {
	T string   `json:"t"`
	G []string `json:"g"`
	M []string `json:"m"`
	P string   `json:"p"`
	L string   `json:"l"`
	D *int     `json:"d"`

	TypesPackageName string   `json:"typesPackageName"`
	Globals          []string `json:"globals"`
	Modules          []string `json:"modules"`
	ProjectURL       string   `json:"projectUrl"`
	LibraryName      string   `json:"libraryName"`
	Downloads        *int     `json:"downloads"`
	MonthlyDownloads *int     `json:"monthlyDownloads"`
}

func (raw rawRecord) record() SearchRecord {
	rec := SearchRecord{
		TypesPackageName: firstNonEmpty(raw.TypesPackageName, raw.T),
		Globals:          firstNonNil(raw.Globals, raw.G),
		Modules:          firstNonNil(raw.Modules, raw.M),
		ProjectURL:       firstNonEmpty(raw.ProjectURL, raw.P),
		LibraryName:      firstNonEmpty(raw.LibraryName, raw.L),
	}
	switch {
	case raw.MonthlyDownloads != nil:
		rec.MonthlyDownloads = *raw.MonthlyDownloads
	case raw.Downloads != nil:
		rec.MonthlyDownloads = *raw.Downloads
	case raw.D != nil:
		rec.MonthlyDownloads = *raw.D
	}
	return rec
}

// Decode reads a JSON array of records in either the minified or the full
// layout. It does not validate the records; the index does that on load.
func Decode(r io.Reader) ([]SearchRecord, error) {
	var raws []rawRecord
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("failed to decode search index: %w", err)
	}
	recs := make([]SearchRecord, len(raws))
	for i, raw := range raws {
		recs[i] = raw.record()
	}
	return recs, nil
}

// ValidateAll checks every record and rejects a repeated typesPackageName.
// The first problem is returned as an *InvalidInputError.
func ValidateAll(recs []SearchRecord) error {
	seen := make(map[string]struct{}, len(recs))
	for i, r := range recs {
		if err := r.Validate(); err != nil {
			return &InvalidInputError{Index: i, Key: r.TypesPackageName, Reason: err.Error()}
		}
		if _, dup := seen[r.TypesPackageName]; dup {
			return &InvalidInputError{Index: i, Key: r.TypesPackageName, Reason: "duplicate typesPackageName"}
		}
		seen[r.TypesPackageName] = struct{}{}
	}
	return nil
}

// Keys returns the package names of recs in order.
func Keys(recs []SearchRecord) []string {
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.TypesPackageName
	}
	return keys
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonNil(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}
