package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

// CachedProvider stores synthesized audio on disk keyed by text and settings
type CachedProvider struct {
	inner    Provider
	cacheDir string
	salt     string
	lock     *flock.Flock

	hits   int
	misses int
}

// NewCachedProvider wraps p with an on-disk cache in cacheDir. The
// directory is locked until Close so concurrent runs do not race on it.
func NewCachedProvider(p Provider, cacheDir, salt string) (*CachedProvider, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	lock := flock.New(filepath.Join(cacheDir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock cache directory: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("audio cache %s is in use by another run", cacheDir)
	}

	return &CachedProvider{
		inner:    p,
		cacheDir: cacheDir,
		salt:     salt,
		lock:     lock,
	}, nil
}

// Synthesize returns cached audio when present, otherwise delegates and stores
func (c *CachedProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	path := c.path(text)
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		c.hits++
		return data, nil
	}

	data, err := c.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	c.misses++

	if len(data) > 0 {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if err := os.WriteFile(path, data, 0644); err != nil {
				log.Warn("failed to write audio cache", "path", path, "error", err)
			}
		}
	}

	return data, nil
}

// path generates a cache file path for the given text
func (c *CachedProvider) path(text string) string {
	h := md5.New()
	h.Write([]byte(c.salt))
	h.Write([]byte{0})
	h.Write([]byte(text))
	hash := hex.EncodeToString(h.Sum(nil))

	// Use first 2 chars as subdirectory for better file system performance
	return filepath.Join(c.cacheDir, hash[:2], hash[2:]+"."+c.inner.Extension())
}

// Name returns the wrapped provider name
func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

// Extension returns the wrapped provider extension
func (c *CachedProvider) Extension() string {
	return c.inner.Extension()
}

// IsAvailable delegates to the wrapped provider
func (c *CachedProvider) IsAvailable() error {
	return c.inner.IsAvailable()
}

// Stats returns cache hits and misses for this run
func (c *CachedProvider) Stats() (hits, misses int) {
	return c.hits, c.misses
}

// Close releases the cache directory lock
func (c *CachedProvider) Close() error {
	return c.lock.Unlock()
}
