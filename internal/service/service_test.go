package service

import (
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dpshade/pocket-deck/internal/assembler"
	"github.com/dpshade/pocket-deck/internal/config"
	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/renderer"
	"github.com/dpshade/pocket-deck/internal/theme"
)

func newTestService(t *testing.T, mutate func(*config.Config)) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.ThemeDirs = nil
	cfg.OutputDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	themes := theme.NewRegistry()
	themes.Init()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, err := NewService(cfg, WithThemes(themes), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func deck() map[string]interface{} {
	return map[string]interface{}{
		"title": "Roadmap",
		"theme": "corporate",
		"slides": []interface{}{
			map[string]interface{}{"type": "title", "title": "Roadmap 2025", "subtitle": "Where we go"},
			map[string]interface{}{"type": "content", "title": "Goals", "bullets": []interface{}{"Grow", "Hire"}},
			map[string]interface{}{"type": "data", "title": "Revenue", "chart": map[string]interface{}{
				"type": "bar",
				"data": map[string]interface{}{
					"labels": []interface{}{"Q1", "Q2"},
					"series": []interface{}{map[string]interface{}{"name": "2025", "values": []interface{}{10.0, 20.0}}},
				},
			}},
		},
	}
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, nil)

	doc, result, err := svc.Generate(deck(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !result.Valid || doc.Metadata.SlideCount != 3 || doc.Metadata.Theme != "corporate" {
		t.Errorf("unexpected result: valid=%v meta=%+v", result.Valid, doc.Metadata)
	}
	if !strings.Contains(doc.HTML, "<svg") {
		t.Error("chart not rendered")
	}
}

func TestGenerateRejectsInvalidSpec(t *testing.T) {
	svc := newTestService(t, nil)
	raw := deck()
	raw["slides"] = []interface{}{}

	doc, result, err := svc.Generate(raw, nil)
	if doc != nil || result == nil || result.Valid {
		t.Fatal("expected a failed validation result")
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
		t.Errorf("expected SPEC_VALIDATION, got %v", err)
	}
}

func TestConfigDefaultsApply(t *testing.T) {
	svc := newTestService(t, func(cfg *config.Config) {
		cfg.Defaults = models.GenerationOptions{AspectRatio: models.Aspect4x3, Theme: "dark"}
	})
	raw := deck()
	delete(raw, "theme")

	doc, _, err := svc.Generate(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Options.AspectRatio != models.Aspect4x3 || doc.Metadata.Theme != "dark" {
		t.Errorf("config defaults not applied: %+v", doc.Options)
	}

	doc, _, err = svc.Generate(raw, &models.GenerationOptions{AspectRatio: models.Aspect16x9})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Options.AspectRatio != models.Aspect16x9 {
		t.Error("call options must beat config defaults")
	}
}

func TestThemeDirsAreLoaded(t *testing.T) {
	dir := t.TempDir()
	def := "id: sunset\nname: Sunset\ncolors:\n  primary: \"#ff5f6d\"\n"
	if err := os.WriteFile(filepath.Join(dir, "sunset.yaml"), []byte(def), 0644); err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, func(cfg *config.Config) { cfg.ThemeDirs = []string{dir} })

	if _, err := svc.Theme("sunset"); err != nil {
		t.Fatalf("custom theme not registered: %v", err)
	}
	raw := deck()
	raw["theme"] = "sunset"
	doc, _, err := svc.Generate(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.HTML, "--color-primary: #ff5f6d") {
		t.Error("custom theme colors not used")
	}
}

func TestThemeNotFound(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Theme("drak")
	if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if !strings.Contains(apperrors.GetAppError(err).Details, "dark") {
		t.Errorf("expected a suggestion, got %q", apperrors.GetAppError(err).Details)
	}
	if len(svc.Themes()) != len(theme.Builtin()) {
		t.Errorf("Themes() = %d", len(svc.Themes()))
	}
}

func TestCapabilitiesReflectLiveRegistries(t *testing.T) {
	templates := renderer.NewDefaultRegistry()
	themes := theme.NewRegistry()
	themes.Init()
	cfg := config.Default()
	cfg.ThemeDirs = nil
	svc, err := NewService(cfg, WithThemes(themes), WithTemplates(templates))
	if err != nil {
		t.Fatal(err)
	}

	before := svc.Capabilities()
	if len(before.SlideKinds) != len(models.SlideKinds()) {
		t.Errorf("slide kinds = %d", len(before.SlideKinds))
	}
	if len(before.ExportFormats) != 3 || len(before.ChartKinds) != len(models.ChartKinds()) {
		t.Errorf("unexpected capabilities %+v", before)
	}

	if err := svc.RegisterTemplate("timeline-vertical", func(*renderer.RenderContext, *models.Slide) (template.HTML, error) {
		return "", nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := themes.Register(&models.Theme{ID: "extra", Colors: map[string]string{"primary": "#000000"}}); err != nil {
		t.Fatal(err)
	}

	after := svc.Capabilities()
	if len(after.SlideKinds) != len(before.SlideKinds)+1 || len(after.Themes) != len(before.Themes)+1 {
		t.Error("capabilities should reflect registrations made after construction")
	}
}

func TestExport(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Export(export.FormatJSON, deck(), &models.GenerationOptions{Theme: "minimal"})
	if err != nil {
		t.Fatal(err)
	}
	var doc export.ExportDocument
	if err := json.Unmarshal(res.Data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Theme != "minimal" || len(doc.Slides) != 3 {
		t.Errorf("unexpected json export %+v", doc.Metadata)
	}

	res, err = svc.Export(export.FormatPDF, deck(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Data), "@page") {
		t.Error("pdf export missing print styles")
	}

	raw := deck()
	raw["slides"] = []interface{}{map[string]interface{}{"type": "timline"}}
	if _, err := svc.Export(export.FormatHTML, raw, nil); !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
		t.Errorf("expected SPEC_VALIDATION, got %v", err)
	}
}

func TestGenerateFileAndWriteDocument(t *testing.T) {
	svc := newTestService(t, nil)
	specPath := filepath.Join(t.TempDir(), "roadmap.yaml")
	content := "title: Roadmap\nslides:\n  - type: title\n    title: Hello\n"
	if err := os.WriteFile(specPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, _, err := svc.GenerateFile(specPath, &models.GenerationOptions{EmbedStyles: models.Bool(false)})
	if err != nil {
		t.Fatal(err)
	}

	out := DefaultOutputPath(specPath, ".html")
	if out != "roadmap.html" {
		t.Errorf("DefaultOutputPath = %s", out)
	}
	written, err := svc.WriteDocument(doc, out)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 || filepath.Base(written[1]) != assembler.StylesheetName {
		t.Fatalf("written = %v", written)
	}
	css, err := os.ReadFile(written[1])
	if err != nil || !strings.Contains(string(css), "--color-primary") {
		t.Errorf("stylesheet not written: %v", err)
	}
}

func TestSpecReportsValidationErrors(t *testing.T) {
	svc := newTestService(t, nil)
	specPath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(specPath, []byte(`{"title": "x", "slides": [{"type": "quote"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Spec(specPath)
	if !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
		t.Fatalf("expected SPEC_VALIDATION, got %v", err)
	}
	if !strings.Contains(err.Error(), "slides[0].quote") && !strings.Contains(apperrors.GetAppError(err).Details, "slides[0].quote") {
		t.Errorf("issue path missing from %v", err)
	}
}

func TestOutline(t *testing.T) {
	svc := newTestService(t, nil)
	result, err := svc.Validate(deck())
	if err != nil || !result.Valid {
		t.Fatalf("deck invalid: %v", err)
	}

	md := Outline(result.Spec)
	for _, want := range []string{"# Roadmap", "3 slides", "## 1. Roadmap 2025", "- Grow", "Chart: bar", "`data`"} {
		if !strings.Contains(md, want) {
			t.Errorf("outline missing %q:\n%s", want, md)
		}
	}

	long := &models.Slide{Kind: models.KindQuote, Body: &models.QuoteSlide{Quote: strings.Repeat("word ", 30)}}
	if title := SlideTitle(0, long); len([]rune(title)) > 64 || !strings.HasSuffix(title, "...") {
		t.Errorf("long titles should be truncated: %q", title)
	}
	if SlideTitle(1, &models.Slide{Kind: models.KindBlank, Body: &models.BlankSlide{}}) != "2. (untitled)" {
		t.Error("blank slides should be labelled untitled")
	}
}
