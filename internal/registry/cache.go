package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 1

// DefaultCacheTTL bounds how long a cached registry answer is trusted.
const DefaultCacheTTL = 24 * time.Hour

// cachePayload stores one registry lookup for reuse across runs.
type cachePayload struct {
	Schema     uint16
	Name       string
	MaxVersion string
	FetchedAt  time.Time
}

// DiskCache keeps registry responses on disk keyed by crate name.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string, ttl time.Duration) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "registry")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, ttl: ttl}, nil
}

func (c *DiskCache) pathFor(name string) string {
	sum := sha256.Sum256([]byte(name))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".mp")
}

// Put serializes and writes a lookup result to the disk cache.
func (c *DiskCache) Put(name, maxVersion string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(name)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := cachePayload{
		Schema:     cacheSchemaVersion,
		Name:       name,
		MaxVersion: maxVersion,
		FetchedAt:  time.Now(),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a cached lookup. Misses, stale entries, schema mismatches and
// unreadable files all report !ok; corruption is not worth surfacing.
func (c *DiskCache) Get(name string) (maxVersion string, ok bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(name))
	if err != nil {
		return "", false
	}
	defer f.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return "", false
	}
	if payload.Schema != cacheSchemaVersion || payload.Name != name {
		return "", false
	}
	if c.ttl > 0 && time.Since(payload.FetchedAt) > c.ttl {
		return "", false
	}
	return payload.MaxVersion, true
}

// Clear removes every cached entry.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
