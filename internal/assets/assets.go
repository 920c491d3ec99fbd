// Package assets fetches showcase assets by URL or path, with caching.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no source can provide the asset.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset references against the local filesystem and
// HTTP(S), caching what it fetches.
type Manager struct {
	roots  []string
	client *http.Client
	cache  *Cache
	mu     sync.RWMutex
}

// NewManager creates a manager searching the given directories for
// relative paths. Later roots take priority.
func NewManager(roots ...string) *Manager {
	return &Manager{
		roots:  roots,
		client: http.DefaultClient,
		cache:  NewCache(),
	}
}

// SetHTTPClient replaces the client used for remote assets.
func (m *Manager) SetHTTPClient(c *http.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = c
}

// AddRoot adds a search directory with the highest priority.
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = append(m.roots, dir)
}

// IsRemote reports whether ref is fetched over HTTP(S).
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// LocalPath resolves ref to an existing file on disk. Remote references
// and missing files report false.
func (m *Manager) LocalPath(ref string) (string, bool) {
	if IsRemote(ref) {
		return "", false
	}
	path := strings.TrimPrefix(ref, "file://")

	if filepath.IsAbs(path) {
		return path, fileExists(path)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.roots[i], path)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return path, fileExists(path)
}

// Fetch returns the asset's bytes. There is no timeout beyond ctx.
func (m *Manager) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if data, ok := m.cache.Get(ref); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	if IsRemote(ref) {
		data, err = m.fetchRemote(ctx, ref)
	} else {
		data, err = m.fetchLocal(ref)
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(ref, data)
	return data, nil
}

func (m *Manager) fetchLocal(ref string) ([]byte, error) {
	path, ok := m.LocalPath(ref)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (m *Manager) fetchRemote(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", ref, err)
	}

	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", ref, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", ref, err)
	}
	return data, nil
}

// Stats returns cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close drops cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is an in-memory asset cache keyed by reference.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an entry and records a hit or miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an entry.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear removes every entry and resets the stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
