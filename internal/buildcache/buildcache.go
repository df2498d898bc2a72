// Package buildcache stores generated Rust text keyed by a content hash of
// the source and the active policy. It belongs to the CLI: the pipeline
// packages are pure and know nothing about it. A hit means the exact same
// source under the exact same policy was transpiled before, so the cached
// output is byte-for-byte what generation would produce.
package buildcache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zeebo/xxh3"
)

// ErrMiss reports that no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Key derives the cache key for a source text under a policy fingerprint.
// Keys are xxh3 hashes rendered in base 36, matching the entry filenames.
func Key(source, fingerprint string) string {
	h := xxh3.New()
	_, _ = h.WriteString(source)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(fingerprint)
	return strconv.FormatUint(h.Sum64(), 36)
}

// Cache is a directory of generated-output files, one per key.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger attaches a logger for hit/miss/store traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open creates the cache directory if needed and returns a handle to it.
func Open(dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	c := &Cache{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultDir returns the per-user cache directory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "ruchy"), nil
}

// Dir returns the directory backing the cache.
func (c *Cache) Dir() string { return c.dir }

// Get returns the output stored under key, or ErrMiss.
func (c *Cache) Get(key string) (string, error) {
	data, err := os.ReadFile(c.entryPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("cache miss", slog.String("key", key))
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("read cache entry: %w", err)
	}
	c.logger.Debug("cache hit", slog.String("key", key))
	return string(data), nil
}

// Put stores output under key. The write is atomic: a concurrent Get sees
// either the old entry or the new one, never a partial file.
func (c *Cache) Put(key, output string) error {
	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if _, err := tmp.WriteString(output); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.entryPath(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	c.logger.Debug("cache store", slog.String("key", key), slog.Int("bytes", len(output)))
	return nil
}

// Remove deletes the entry for key if present.
func (c *Cache) Remove(key string) error {
	err := os.Remove(c.entryPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".rs")
}
