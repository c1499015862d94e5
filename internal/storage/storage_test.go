package storage

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
)

const yamlSpec = `title: Launch
theme: dark
slides:
  - type: title
    title: Hello
  - type: grid
    title: Grid
    columns: 3
    items:
      - title: One
`

const jsonSpec = `{"title": "Launch", "slides": [{"type": "blank"}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSpecYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deck.yaml", yamlSpec)

	spec, err := NewStorage(dir).LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if spec["title"] != "Launch" {
		t.Errorf("title = %v", spec["title"])
	}
	slides, ok := spec["slides"].([]interface{})
	if !ok || len(slides) != 2 {
		t.Fatalf("slides = %#v", spec["slides"])
	}
	grid := slides[1].(map[string]interface{})
	if cols, ok := grid["columns"].(float64); !ok || cols != 3 {
		t.Errorf("YAML ints should normalize to float64, got %#v", grid["columns"])
	}
}

func TestLoadSpecJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deck.json", jsonSpec)

	spec, err := NewStorage(dir).LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if len(spec["slides"].([]interface{})) != 1 {
		t.Errorf("unexpected spec %v", spec)
	}
}

func TestLoadSpecErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir)

	tests := []struct {
		name    string
		file    string
		content string
		code    apperrors.ErrorCode
	}{
		{"malformed json", "bad.json", `{"title":`, apperrors.ErrCodeInvalidFormat},
		{"malformed yaml", "bad.yaml", "title: [", apperrors.ErrCodeInvalidFormat},
		{"empty", "empty.yaml", "  \n", apperrors.ErrCodeInvalidFormat},
		{"top-level list", "list.yaml", "- a\n- b\n", apperrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			if _, err := s.LoadSpec(path); !apperrors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}

	if _, err := s.LoadSpec(filepath.Join(dir, "missing.yaml")); !apperrors.HasCode(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
	if _, err := s.LoadSpec(dir); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a directory, got %v", err)
	}
}

func TestLoadSpecCache(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir)
	path := writeFile(t, dir, "deck.json", jsonSpec)

	first, err := s.LoadSpec(path)
	if err != nil {
		t.Fatal(err)
	}
	first["title"] = "mutated"

	second, err := s.LoadSpec(path)
	if err != nil {
		t.Fatal(err)
	}
	if second["title"] != "Launch" {
		t.Error("cached spec must not share state with earlier callers")
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache size = %d", s.cache.Len())
	}

	// A different size invalidates the entry even within one mtime tick.
	writeFile(t, dir, "deck.json", `{"title": "Relaunch", "slides": [{"type": "blank"}]}`)
	third, err := s.LoadSpec(path)
	if err != nil {
		t.Fatal(err)
	}
	if third["title"] != "Relaunch" {
		t.Errorf("stale cache entry returned: %v", third["title"])
	}
	if e, ok := s.cache.Entry(path); !ok || len(e.FileHash) != 64 {
		t.Errorf("unexpected cache entry %+v", e)
	}
}

func TestListSpecs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", yamlSpec)
	writeFile(t, dir, "a.json", jsonSpec)
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	s := NewStorage(dir)
	removed := writeFile(t, dir, "c.yml", yamlSpec)
	if _, err := s.LoadSpec(removed); err != nil {
		t.Fatal(err)
	}
	os.Remove(removed)

	paths, err := s.ListSpecs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.json" || filepath.Base(paths[1]) != "b.yaml" {
		t.Errorf("ListSpecs = %v", paths)
	}
	if s.cache.Len() != 0 {
		t.Error("cache entry for a deleted file should be dropped")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir)

	if err := s.WriteFile("out/deck.html", []byte("<html>one</html>")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := s.WriteFile("out/deck.html", []byte("<html>two</html>")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out", "deck.html"))
	if err != nil || string(data) != "<html>two</html>" {
		t.Errorf("content = %q, %v", data, err)
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "out"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	abs := filepath.Join(t.TempDir(), "abs.html")
	if s.OutputPath(abs) != abs {
		t.Error("absolute paths should not be rebased")
	}
}
