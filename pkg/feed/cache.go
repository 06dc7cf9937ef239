package feed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/typesearch/pkg/records"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNoSnapshot is returned by Cache.Read when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot is the on-disk copy of a fetched index.
type Snapshot struct {
	FetchedAt time.Time              `msgpack:"fetched_at"`
	Source    string                 `msgpack:"source"`
	Records   []records.SearchRecord `msgpack:"records"`
}

// Age returns how long ago the snapshot was fetched.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

// Cache stores one Snapshot in a msgpack file.
type Cache struct {
	Path string
}

// NewCache returns a cache backed by path.
func NewCache(path string) *Cache {
	return &Cache{Path: path}
}

// Read loads the snapshot from disk.
func (c *Cache) Read() (*Snapshot, error) {
	file, err := os.Open(c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to open snapshot %s: %w", c.Path, err)
	}
	defer file.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", c.Path, err)
	}
	return &snap, nil
}

// Write replaces the snapshot on disk. The file is written next to the
// target and renamed over it, so readers never see a partial file.
func (c *Cache) Write(snap *Snapshot) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", c.Path, err)
	}
	return nil
}
