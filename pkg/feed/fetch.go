/*
Package feed obtains the search index: it downloads the published JSON
document, keeps a msgpack snapshot of it on disk and decides which of the two
to serve.

The published index comes in a minified layout (one letter keys) and a full
layout; both decode into records.SearchRecord.

	loader := feed.NewLoader(fetcher, feed.NewCache(path), ttl)
	recs, err := loader.Load(ctx)

A fresh snapshot is served without touching the network. A stale or missing
one triggers a download; if the download fails and a stale snapshot exists,
the stale records are served with a warning.
*/
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/charmbracelet/log"
)

// DefaultURL is the minified index published for the @types packages.
const DefaultURL = "https://typespublisher.blob.core.windows.net/typespublisher/data/search-index-min.json"

// ErrStatus is wrapped by fetch errors caused by a non-2xx response.
var ErrStatus = errors.New("unexpected response status")

// Fetcher downloads the index document.
type Fetcher struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
	Client     *http.Client

	// backoff is the delay unit between attempts; attempt n waits n*backoff.
	backoff time.Duration
}

// NewFetcher returns a Fetcher for url.
func NewFetcher(url string, timeout time.Duration, maxRetries int) *Fetcher {
	return &Fetcher{
		URL:        url,
		Timeout:    timeout,
		MaxRetries: maxRetries,
		Client:     &http.Client{Timeout: timeout},
		backoff:    time.Second,
	}
}

// Fetch downloads and decodes the index, retrying failed attempts up to
// MaxRetries times.
func (f *Fetcher) Fetch(ctx context.Context) ([]records.SearchRecord, error) {
	attempts := f.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		recs, err := f.fetchOnce(ctx)
		if err == nil {
			log.Debugf("Fetched %d records from %s", len(recs), f.URL)
			return recs, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			delay := time.Duration(attempt) * f.backoff
			log.Debugf("Fetch attempt %d/%d failed: %v. Retrying in %v", attempt, attempts, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch %s: %w", f.URL, ctx.Err())
			}
		}
	}
	return nil, fmt.Errorf("fetch %s: giving up after %d attempts: %w", f.URL, attempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]records.SearchRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return records.Decode(resp.Body)
}
