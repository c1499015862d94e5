// Package theme holds the process-wide table of named themes.
//
// The registry is the only shared mutable state in the compiler: it is
// initialized once at startup with the built-in themes, may be extended
// with YAML theme definitions, and is read concurrently by every render.
package theme

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

// DefaultID is the theme used when none is given or a lookup fails
const DefaultID = "default"

// Registry is a concurrency-safe table of themes keyed by id
type Registry struct {
	themes map[string]*models.Theme
	mu     sync.RWMutex // Protects themes from concurrent access
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]*models.Theme)}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, initialized with the built-in themes
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Init()
	})
	return defaultRegistry
}

// Init resets the registry to the built-in themes
func (r *Registry) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.themes = make(map[string]*models.Theme)
	for _, t := range Builtin() {
		r.themes[t.ID] = t
	}
}

// Register adds or replaces a theme. Missing colors are filled from the
// default theme so renderers can rely on the standard color names.
func (r *Registry) Register(t *models.Theme) error {
	if t == nil || strings.TrimSpace(t.ID) == "" {
		return apperrors.InvalidInputError("theme id is required")
	}
	for name, value := range t.Colors {
		if !IsColor(value) {
			return apperrors.InvalidInputError(fmt.Sprintf("theme '%s': color '%s' has invalid value '%s'", t.ID, name, value))
		}
	}
	for _, value := range t.Palette {
		if !IsColor(value) {
			return apperrors.InvalidInputError(fmt.Sprintf("theme '%s': palette entry '%s' is not a color", t.ID, value))
		}
	}

	stored := fillDefaults(t.Clone())

	r.mu.Lock()
	r.themes[stored.ID] = stored
	r.mu.Unlock()
	return nil
}

// Lookup returns a copy of the theme with the given id
func (r *Registry) Lookup(id string) (*models.Theme, bool) {
	r.mu.RLock()
	t, ok := r.themes[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Get is Lookup with a NOT_FOUND error
func (r *Registry) Get(id string) (*models.Theme, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return nil, apperrors.NotFoundError(fmt.Sprintf("theme '%s'", id)).WithContext("theme", id)
	}
	return t, nil
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.themes[id]
	return ok
}

// IDs returns the registered ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.themes))
	for id := range r.themes {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// List returns copies of all themes sorted by id
func (r *Registry) List() []*models.Theme {
	ids := r.IDs()
	out := make([]*models.Theme, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.Lookup(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// Clear removes every theme, including the built-ins
func (r *Registry) Clear() {
	r.mu.Lock()
	r.themes = make(map[string]*models.Theme)
	r.mu.Unlock()
}

// LoadFile registers a theme from a YAML definition. The file name is used
// as the id when the document has none.
func (r *Registry) LoadFile(path string) (*models.Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.StorageError("read theme file", err).WithContext("path", path)
	}

	var t models.Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse theme file").WithContext("path", path)
	}
	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if t.Name == "" {
		t.Name = t.ID
	}

	if err := r.Register(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadDir registers every .yaml/.yml theme in dir. Broken files are logged
// and skipped; a missing directory is not an error.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, apperrors.StorageError("read theme directory", err).WithContext("path", dir)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := r.LoadFile(path); err != nil {
			log.Printf("[THEME] skipping %s: %v", path, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}
