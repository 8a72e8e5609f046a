package ipwherelib

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// DefaultCacheTTL is the freshness window served without a live
// lookup. Public IPs change rarely but not never, so a minutes-scale
// window is enough.
const DefaultCacheTTL = 5 * time.Minute

// CacheEntry is a persisted successful lookup together with the time
// it was retrieved.
type CacheEntry struct {
	Response    LookupResponse `json:"response"`
	RetrievedAt time.Time      `json:"retrieved_at"`
}

func (c CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.RetrievedAt) < ttl
}

// Cache persists the single most recent successful lookup. There is
// exactly one entry: every write overwrites the previous one.
type Cache struct {
	fs   afero.Fs
	path string
}

// Read returns the stored entry. Absence or corruption comes back as
// an error; callers are expected to treat any error here as a plain
// cache miss.
func (c *Cache) Read() (*CacheEntry, error) {
	content, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read cache file: %w", err)
	}

	entry := &CacheEntry{}
	if err := json.Unmarshal(content, entry); err != nil {
		return nil, fmt.Errorf("cannot parse cache file: %w", err)
	}

	if entry.Response.IP == nil || entry.RetrievedAt.IsZero() {
		return nil, fmt.Errorf("cache file %s is incomplete", c.path)
	}

	return entry, nil
}

// Write replaces the stored entry. The entry is staged into a
// temporary file first and moved into place with a rename, so a
// concurrent reader never observes a half-written entry.
func (c *Cache) Write(entry CacheEntry) error {
	content, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("cannot marshal cache entry: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := c.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}

	tempFile, err := afero.TempFile(c.fs, dir, "cache_")
	if err != nil {
		return fmt.Errorf("cannot create temporary file: %w", err)
	}

	tempName := tempFile.Name()

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()      // nolint: errcheck
		c.fs.Remove(tempName) // nolint: errcheck

		return fmt.Errorf("cannot write temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		c.fs.Remove(tempName) // nolint: errcheck

		return fmt.Errorf("cannot flush temporary file: %w", err)
	}

	if err := c.fs.Rename(tempName, c.path); err != nil {
		c.fs.Remove(tempName) // nolint: errcheck

		return fmt.Errorf("cannot move cache file into place: %w", err)
	}

	return nil
}

func NewCache(fs afero.Fs, path string) *Cache {
	return &Cache{
		fs:   fs,
		path: path,
	}
}
