package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SpecEntry is a parsed spec file together with the file state it was read from
type SpecEntry struct {
	Path     string    `json:"path"`
	ModTime  time.Time `json:"mod_time"`
	Size     int64     `json:"size"`
	FileHash string    `json:"file_hash"`
	// encoded keeps the parsed spec so every Get hands out a fresh copy
	encoded []byte
}

// SpecCache remembers parsed spec files until they change on disk. The
// preview and serve commands reload the same file repeatedly.
type SpecCache struct {
	entries map[string]*SpecEntry
	mu      sync.RWMutex // Protects entries from concurrent access
}

// NewSpecCache creates an empty cache
func NewSpecCache() *SpecCache {
	return &SpecCache{entries: make(map[string]*SpecEntry)}
}

// Get returns the cached spec when the file is unchanged
func (c *SpecCache) Get(path string, info os.FileInfo) (map[string]interface{}, bool) {
	c.mu.RLock()
	cached, exists := c.entries[path]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	// Check if file has been modified
	if !info.ModTime().Equal(cached.ModTime) || info.Size() != cached.Size {
		return nil, false
	}

	var spec map[string]interface{}
	if err := json.Unmarshal(cached.encoded, &spec); err != nil {
		return nil, false
	}
	return spec, true
}

// Set stores a parsed spec
func (c *SpecCache) Set(path string, info os.FileInfo, hash string, spec map[string]interface{}) {
	encoded, err := json.Marshal(spec)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.entries[path] = &SpecEntry{
		Path:     path,
		ModTime:  info.ModTime(),
		Size:     info.Size(),
		FileHash: hash,
		encoded:  encoded,
	}
	c.mu.Unlock()
}

// Entry returns the cache metadata for path
func (c *SpecCache) Entry(path string) (SpecEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok {
		return SpecEntry{}, false
	}
	return *e, true
}

// Len returns the number of cached specs
func (c *SpecCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes entries under dir for files that no longer exist
func (c *SpecCache) Cleanup(dir string, existing map[string]bool) {
	c.mu.Lock()
	for path := range c.entries {
		if filepath.Dir(path) == filepath.Clean(dir) && !existing[path] {
			delete(c.entries, path)
		}
	}
	c.mu.Unlock()
}
