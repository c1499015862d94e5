package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/theme"
)

// ThemeInstallOptions controls theme installation
type ThemeInstallOptions struct {
	ID    string // Overrides the id from the theme file
	Force bool   // Replace an installed theme with the same id
}

// ThemeInstaller copies theme definitions into the user theme directory
type ThemeInstaller struct {
	dir string
}

// NewThemeInstaller creates an installer for the config's first theme directory
func NewThemeInstaller(cfg *Config) (*ThemeInstaller, error) {
	if len(cfg.ThemeDirs) == 0 {
		return nil, apperrors.InvalidInputError("no theme directory configured").
			WithDetails("add a themeDirs entry to " + cfg.Path())
	}
	return &ThemeInstaller{dir: cfg.ThemeDirs[0]}, nil
}

// Dir returns the directory themes are installed into
func (ti *ThemeInstaller) Dir() string {
	return ti.dir
}

// Install validates a YAML theme file and copies it into the theme directory
func (ti *ThemeInstaller) Install(src string, options ThemeInstallOptions) (*models.Theme, error) {
	// A scratch registry validates the file without touching the live one.
	t, err := theme.NewRegistry().LoadFile(src)
	if err != nil {
		return nil, err
	}
	if options.ID != "" {
		if err := ValidateThemeID(options.ID); err != nil {
			return nil, err
		}
		t.ID = options.ID
	}

	dest := filepath.Join(ti.dir, t.ID+".yaml")
	if _, err := ti.find(t.ID); err == nil && !options.Force {
		return nil, apperrors.AlreadyExistsError("theme '"+t.ID+"'").
			WithDetails("use --force to replace it")
	}

	if err := os.MkdirAll(ti.dir, 0755); err != nil {
		return nil, apperrors.StorageError("create theme directory", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, apperrors.StorageError("read theme file", err)
	}
	if options.ID != "" {
		data = []byte(fmt.Sprintf("# installed as %s\nid: %s\n%s", t.ID, t.ID, stripID(string(data))))
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return nil, apperrors.StorageError("write theme file", err)
	}
	return t, nil
}

// Uninstall removes an installed theme by id
func (ti *ThemeInstaller) Uninstall(id string) error {
	path, err := ti.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return apperrors.StorageError("remove theme file", err)
	}
	return nil
}

// Installed returns the ids of installed theme files, sorted
func (ti *ThemeInstaller) Installed() ([]string, error) {
	entries, err := os.ReadDir(ti.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.StorageError("read theme directory", err)
	}
	var ids []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(ids)
	return ids, nil
}

func (ti *ThemeInstaller) find(id string) (string, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(ti.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", apperrors.NotFoundError("installed theme '" + id + "'")
}

// ValidateThemeID checks that id is usable as a file name and CSS class
func ValidateThemeID(id string) error {
	if id == "" || len(id) > 64 {
		return apperrors.InvalidInputError("theme id must be 1-64 characters")
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return apperrors.InvalidInputError(fmt.Sprintf("theme id '%s' may only contain lowercase letters, digits, '-' and '_'", id))
		}
	}
	return nil
}

// stripID drops a top-level id line so an override id can be prepended
func stripID(doc string) string {
	lines := strings.Split(doc, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "id:") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
