package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
)

// Storage handles file system access for spec files and rendered output
type Storage struct {
	outputDir string
	cache     *SpecCache
}

// NewStorage creates a storage rooted at outputDir for written documents
func NewStorage(outputDir string) *Storage {
	if outputDir == "" {
		outputDir = "."
	}
	return &Storage{
		outputDir: outputDir,
		cache:     NewSpecCache(),
	}
}

// OutputDir returns the directory relative output paths resolve against
func (s *Storage) OutputDir() string {
	return s.outputDir
}

// IsSpecFile reports whether path has a spec file extension
func IsSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadSpec reads an untyped presentation spec from a YAML or JSON file.
// The format follows the file extension; unknown extensions are tried as
// YAML, which also accepts JSON.
func (s *Storage) LoadSpec(path string) (map[string]interface{}, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeFileNotFound, fmt.Sprintf("spec file not found: %s", path)).
				WithContext("path", path)
		}
		return nil, apperrors.StorageError("stat spec file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return nil, apperrors.InvalidInputError(fmt.Sprintf("%s is a directory", path))
	}

	if cached, ok := s.cache.Get(path, info); ok {
		return cached, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.StorageError("read spec file", err).WithContext("path", path)
	}

	spec, err := ParseSpec(content, filepath.Ext(path))
	if err != nil {
		return nil, apperrors.GetAppError(err).WithContext("path", path)
	}

	s.cache.Set(path, info, calculateHash(content), spec)
	return spec, nil
}

// ParseSpec decodes spec content; ext selects JSON or YAML
func ParseSpec(content []byte, ext string) (map[string]interface{}, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "spec file is empty")
	}

	var raw interface{}
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse JSON spec")
		}
	} else {
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse YAML spec")
		}
	}

	spec, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "spec must be a mapping at the top level")
	}
	return spec, nil
}

// normalize converts YAML-decoded values into the JSON shapes the
// validator expects: string-keyed maps and float64 numbers
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}

// ListSpecs returns the spec files directly inside dir, sorted by name
func (s *Storage) ListSpecs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.StorageError("read spec directory", err).WithContext("path", dir)
	}

	var paths []string
	existing := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !IsSpecFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		paths = append(paths, path)
		existing[path] = true
	}
	sort.Strings(paths)
	s.cache.Cleanup(dir, existing)
	return paths, nil
}

// OutputPath resolves name against the output directory. Absolute paths are
// returned unchanged.
func (s *Storage) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.outputDir, name)
}

// WriteFile writes data atomically, so readers never see a partial document
func (s *Storage) WriteFile(path string, data []byte) error {
	path = s.OutputPath(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.StorageError("create output directory", err).WithContext("path", dir)
	}
	if err := writeAtomic(path, data); err != nil {
		return apperrors.StorageError("write output", err).WithContext("path", path)
	}
	return nil
}

// calculateHash returns the hex SHA-256 of content
func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
