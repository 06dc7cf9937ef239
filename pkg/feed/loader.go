package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/charmbracelet/log"
)

// Source fetches records from the network.
type Source interface {
	Fetch(ctx context.Context) ([]records.SearchRecord, error)
}

// Loader picks between the cached snapshot and a fresh download.
type Loader struct {
	source  Source
	cache   *Cache
	ttl     time.Duration
	offline bool
	origin  string
}

// NewLoader returns a Loader that considers snapshots younger than ttl fresh.
// cache may be nil, in which case every Load fetches.
func NewLoader(source Source, cache *Cache, ttl time.Duration) *Loader {
	origin := ""
	if f, ok := source.(*Fetcher); ok {
		origin = f.URL
	}
	return &Loader{source: source, cache: cache, ttl: ttl, origin: origin}
}

// SetOffline makes Load serve the cached snapshot only, whatever its age.
func (l *Loader) SetOffline(offline bool) {
	l.offline = offline
}

// Load returns the records to serve.
func (l *Loader) Load(ctx context.Context) ([]records.SearchRecord, error) {
	snap, err := l.readCache()
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		log.Warnf("Ignoring unreadable cache: %v", err)
		snap = nil
	}
	if snap != nil {
		if err := records.ValidateAll(snap.Records); err != nil {
			log.Warnf("Ignoring invalid cached snapshot: %v", err)
			snap = nil
		}
	}

	if l.offline {
		if snap == nil {
			return nil, fmt.Errorf("offline mode: %w", ErrNoSnapshot)
		}
		log.Debugf("Offline: serving snapshot fetched %v ago", snap.Age().Round(time.Second))
		return snap.Records, nil
	}

	if snap != nil && snap.Age() < l.ttl {
		log.Debugf("Serving cached snapshot (%d records, age %v)", len(snap.Records), snap.Age().Round(time.Second))
		return snap.Records, nil
	}

	recs, err := l.Refresh(ctx)
	if err != nil {
		if snap != nil {
			log.Warnf("Fetch failed, serving stale snapshot from %s: %v", snap.FetchedAt.Format(time.RFC3339), err)
			return snap.Records, nil
		}
		return nil, err
	}
	return recs, nil
}

// Reload returns a new record set for a running process: the cached snapshot
// in offline mode, a fresh download otherwise.
func (l *Loader) Reload(ctx context.Context) ([]records.SearchRecord, error) {
	if l.offline {
		return l.Load(ctx)
	}
	return l.Refresh(ctx)
}

// Refresh downloads the index and stores it in the cache. A record set that
// fails validation is rejected before it reaches the cache. A cache write
// failure is logged, not returned.
func (l *Loader) Refresh(ctx context.Context) ([]records.SearchRecord, error) {
	recs, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := records.ValidateAll(recs); err != nil {
		return nil, fmt.Errorf("fetched index rejected: %w", err)
	}
	if l.cache != nil {
		snap := &Snapshot{FetchedAt: time.Now(), Source: l.origin, Records: recs}
		if err := l.cache.Write(snap); err != nil {
			log.Warnf("Failed to write snapshot: %v", err)
		}
	}
	return recs, nil
}

func (l *Loader) readCache() (*Snapshot, error) {
	if l.cache == nil {
		return nil, ErrNoSnapshot
	}
	return l.cache.Read()
}
