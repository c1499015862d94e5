// No t.Parallel(): these tests set process-wide environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvMinify, "")
	return home
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != filepath.Join(home, "config.yaml") {
		t.Errorf("path = %s", cfg.Path())
	}
	if cfg.Addr() != "localhost:8080" {
		t.Errorf("addr = %s", cfg.Addr())
	}
	if len(cfg.ThemeDirs) != 1 || cfg.ThemeDirs[0] != filepath.Join(home, "themes") {
		t.Errorf("theme dirs = %v", cfg.ThemeDirs)
	}
	if cfg.OutputDir != "." || cfg.Verbose {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "deck.yaml")
	content := `
defaults:
  aspectRatio: "4:3"
  fontSize: large
  minify: true
  theme: corporate
themeDirs:
  - /srv/themes
server:
  host: 0.0.0.0
  port: 9000
outputDir: build
verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d := cfg.Defaults
	if d.AspectRatio != models.Aspect4x3 || d.FontSize != models.FontLarge || d.Minify == nil || !*d.Minify || d.Theme != "corporate" {
		t.Errorf("unexpected defaults %+v", d)
	}
	if cfg.Addr() != "0.0.0.0:9000" || cfg.OutputDir != "build" || !cfg.Verbose {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.ThemeDirs) != 1 || cfg.ThemeDirs[0] != "/srv/themes" {
		t.Errorf("theme dirs = %v", cfg.ThemeDirs)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTheme, "dark")
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvMinify, "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults.Theme != "dark" || cfg.Server.Port != 7070 || cfg.Defaults.Minify == nil || !*cfg.Defaults.Minify {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv(EnvPort, "not-a-port")
	t.Setenv(EnvMinify, "maybe")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 || cfg.Defaults.Minify != nil {
		t.Errorf("invalid env values should be ignored: %+v", cfg)
	}
}

func TestConfigPathFromEnvironment(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfig, path)

	got, err := DefaultPath()
	if err != nil || got != path {
		t.Errorf("DefaultPath = %q, %v", got, err)
	}
}

func TestInitWritesOnce(t *testing.T) {
	home := isolate(t)

	cfg, created, err := Init("")
	if err != nil || !created {
		t.Fatalf("Init: created=%v err=%v", created, err)
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
	if _, err := os.Stat(cfg.ThemeDirs[0]); err != nil {
		t.Errorf("theme dir not created: %v", err)
	}

	cfg.Server.Port = 9999
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	_, created, err = Init("")
	if err != nil || created {
		t.Errorf("second Init should not overwrite: created=%v err=%v", created, err)
	}
	reloaded, _ := Load("")
	if reloaded.Server.Port != 9999 {
		t.Errorf("saved port lost: %d", reloaded.Server.Port)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("POCKET_DECK_TEST_KEY", "custom")
	if got := envOr("POCKET_DECK_TEST_KEY", "fallback"); got != "custom" {
		t.Errorf("got %q", got)
	}
	t.Setenv("POCKET_DECK_TEST_KEY", "")
	if got := envOr("POCKET_DECK_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q", got)
	}
}

const oceanTheme = `id: ocean
name: Ocean
colors:
  primary: "#0077b6"
  background: "#caf0f8"
`

func TestThemeInstaller(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	installer, err := NewThemeInstaller(cfg)
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "ocean.yaml")
	if err := os.WriteFile(src, []byte(oceanTheme), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := installer.Install(src, ThemeInstallOptions{})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if th.ID != "ocean" {
		t.Errorf("id = %s", th.ID)
	}

	if _, err := installer.Install(src, ThemeInstallOptions{}); !apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists) {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if _, err := installer.Install(src, ThemeInstallOptions{Force: true}); err != nil {
		t.Errorf("forced install failed: %v", err)
	}

	if _, err := installer.Install(src, ThemeInstallOptions{ID: "deep-sea"}); err != nil {
		t.Fatalf("install with id: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(installer.Dir(), "deep-sea.yaml"))
	if !strings.Contains(string(data), "id: deep-sea") || strings.Contains(string(data), "id: ocean") {
		t.Errorf("override id not written:\n%s", data)
	}

	ids, err := installer.Installed()
	if err != nil || len(ids) != 2 || ids[0] != "deep-sea" || ids[1] != "ocean" {
		t.Errorf("Installed = %v, %v", ids, err)
	}

	if err := installer.Uninstall("ocean"); err != nil {
		t.Fatal(err)
	}
	if err := installer.Uninstall("ocean"); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestThemeInstallerRejectsInvalidThemes(t *testing.T) {
	isolate(t)
	cfg, _ := Load("")
	installer, _ := NewThemeInstaller(cfg)

	src := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(src, []byte("id: broken\ncolors:\n  primary: not-a-color\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := installer.Install(src, ThemeInstallOptions{}); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if _, err := installer.Install(src, ThemeInstallOptions{ID: "Bad Id"}); err == nil {
		t.Error("expected an error")
	}
	if err := ValidateThemeID("ok-id_2"); err != nil {
		t.Errorf("ValidateThemeID: %v", err)
	}
}
