package assembler

import (
	stderrors "errors"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/renderer"
	"github.com/dpshade/pocket-deck/internal/theme"
)

func newThemes() *theme.Registry {
	r := theme.NewRegistry()
	r.Init()
	return r
}

func newAssembler(opts ...Option) *Assembler {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return New(renderer.NewDefaultRegistry(), newThemes(), opts...)
}

func buildSpec(t *testing.T, slides ...map[string]interface{}) *models.PresentationSpec {
	t.Helper()
	spec := &models.PresentationSpec{Title: "Deck", Theme: "default"}
	for _, raw := range slides {
		s, err := models.DecodeSlide(raw)
		if err != nil {
			t.Fatalf("DecodeSlide: %v", err)
		}
		spec.Slides = append(spec.Slides, s)
	}
	return spec
}

var sectionID = regexp.MustCompile(`<section class="slide slide-([a-z-]+)[^"]*" id="([^"]+)" data-index="(\d+)"`)

func TestSlideContainersInInputOrder(t *testing.T) {
	spec := buildSpec(t,
		map[string]interface{}{"type": "title", "title": "One"},
		map[string]interface{}{"type": "quote", "quote": "Two"},
		map[string]interface{}{"type": "blank"},
		map[string]interface{}{"type": "section-header", "title": "Four"},
	)

	doc, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	matches := sectionID.FindAllStringSubmatch(doc.HTML, -1)
	want := []string{"title", "quote", "blank", "section-header"}
	if len(matches) != len(want) {
		t.Fatalf("expected %d slide containers, got %d", len(want), len(matches))
	}
	for i, m := range matches {
		if m[1] != want[i] {
			t.Errorf("slide %d kind = %s, want %s", i, m[1], want[i])
		}
		if m[3] != strconv.Itoa(i) {
			t.Errorf("slide %d data-index = %s", i, m[3])
		}
	}
	if doc.Metadata.SlideCount != 4 || doc.Metadata.Size != len(doc.HTML) {
		t.Errorf("unexpected metadata %+v", doc.Metadata)
	}
	if !doc.Metadata.GeneratedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("generatedAt = %v", doc.Metadata.GeneratedAt)
	}
}

func TestNavigationScriptIsParameterized(t *testing.T) {
	spec := buildSpec(t,
		map[string]interface{}{"type": "blank"},
		map[string]interface{}{"type": "blank"},
		map[string]interface{}{"type": "blank"},
	)
	doc, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"var slideCount =  3 ;",
		"var initialIndex =  0 ;",
		"Math.max(0, Math.min(slideCount - 1, i))",
		`<meta name="slide-count" content="3">`,
		`<meta name="generator" content="pocket-deck">`,
	} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestMetadataTags(t *testing.T) {
	spec := buildSpec(t, map[string]interface{}{"type": "blank"})
	spec.Metadata = &models.Metadata{Author: "Ada <Admin>", Description: "Q3", Tags: []string{"finance", "q3"}, Language: "fr", CreatedAt: "2024-01-02T03:04:05Z"}

	doc, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<html lang="fr">`,
		`<meta name="author" content="Ada &lt;Admin&gt;">`,
		`<meta name="keywords" content="finance, q3">`,
		`<meta name="created" content="2024-01-02T03:04:05Z">`,
	} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestOptionPrecedence(t *testing.T) {
	a := newAssembler(WithDefaults(&models.GenerationOptions{AspectRatio: models.Aspect4x3, FontSize: models.FontSmall}))
	spec := buildSpec(t, map[string]interface{}{"type": "blank"})
	spec.Options = &models.GenerationOptions{FontSize: models.FontLarge, SlideNumbers: models.Bool(false)}

	doc, err := a.Assemble(spec, &models.GenerationOptions{SlideNumbers: models.Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Options.AspectRatio != models.Aspect4x3 {
		t.Errorf("config default lost: %s", doc.Options.AspectRatio)
	}
	if doc.Options.FontSize != models.FontLarge {
		t.Errorf("spec option should beat config: %s", doc.Options.FontSize)
	}
	if !doc.Options.SlideNumbers || !strings.Contains(doc.HTML, `class="slide-number"`) {
		t.Error("call option should beat spec option")
	}
	if !strings.Contains(doc.HTML, "--slide-width: 1024px") {
		t.Error("aspect ratio not applied to stylesheet")
	}
}

func TestThemeResolution(t *testing.T) {
	spec := buildSpec(t, map[string]interface{}{"type": "blank"})
	spec.Theme = "corporate"

	doc, err := newAssembler().Assemble(spec, &models.GenerationOptions{Theme: "dark"})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Theme != "dark" || !strings.Contains(doc.HTML, "theme-dark") {
		t.Errorf("override theme not applied: %s", doc.Metadata.Theme)
	}

	spec.Theme = "missing"
	doc, err = newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Theme != theme.DefaultID || len(doc.Metadata.Warnings) != 1 {
		t.Errorf("expected default theme with a warning, got %s %v", doc.Metadata.Theme, doc.Metadata.Warnings)
	}

	empty := theme.NewRegistry()
	doc, err = New(renderer.NewDefaultRegistry(), empty).Assemble(spec, nil)
	if err != nil {
		t.Fatalf("empty theme registry should degrade, got %v", err)
	}
	if !strings.Contains(doc.HTML, "--color-primary: #2563eb") {
		t.Error("embedded default colors not used")
	}
}

func TestZeroSlidesRejected(t *testing.T) {
	_, err := newAssembler().Assemble(&models.PresentationSpec{Title: "x"}, nil)
	if !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
		t.Fatalf("expected SPEC_VALIDATION, got %v", err)
	}
	if !strings.Contains(err.Error(), "at least one slide required") {
		t.Errorf("unexpected message %v", err)
	}
}

func TestSlideFailureAbortsAssembly(t *testing.T) {
	templates := renderer.NewDefaultRegistry()
	boom := stderrors.New("boom")
	_ = templates.Replace(models.KindQuote, func(*renderer.RenderContext, *models.Slide) (template.HTML, error) {
		return "", apperrors.InternalError("quote failed").WithDetails(boom.Error())
	})

	spec := buildSpec(t,
		map[string]interface{}{"type": "title", "title": "ok"},
		map[string]interface{}{"type": "quote", "quote": "fails"},
	)
	doc, err := New(templates, newThemes()).Assemble(spec, nil)
	if err == nil || doc != nil {
		t.Fatal("expected assembly to fail")
	}
	if got := apperrors.GetAppError(err).Context["slide"]; got != 1 {
		t.Errorf("failing slide index not recorded: %v", got)
	}
}

func TestUnknownTemplateAbortsAssembly(t *testing.T) {
	templates := renderer.NewRegistry()
	spec := buildSpec(t, map[string]interface{}{"type": "blank"})
	_, err := New(templates, newThemes()).Assemble(spec, nil)
	if !apperrors.HasCode(err, apperrors.ErrCodeUnknownTemplate) {
		t.Errorf("expected UNKNOWN_TEMPLATE, got %v", err)
	}
}

func TestChartErrorIsContainedToSlide(t *testing.T) {
	spec := buildSpec(t,
		map[string]interface{}{"type": "title", "title": "Before"},
		map[string]interface{}{"type": "data", "chart": map[string]interface{}{"type": "bar", "data": map[string]interface{}{
			"headers": []interface{}{"a"}, "rows": []interface{}{[]interface{}{1.0}},
		}}},
		map[string]interface{}{"type": "title", "title": "After"},
	)
	doc, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatalf("chart data errors must not abort: %v", err)
	}
	if strings.Count(doc.HTML, "Chart Error") != 1 {
		t.Error("expected exactly one chart error panel")
	}
	if !strings.Contains(doc.HTML, "Before") || !strings.Contains(doc.HTML, "After") {
		t.Error("sibling slides missing")
	}
	if len(sectionID.FindAllString(doc.HTML, -1)) != 3 {
		t.Error("expected three slide containers")
	}
}

func TestMinifyAndFallback(t *testing.T) {
	spec := buildSpec(t, map[string]interface{}{"type": "title", "title": "Small"})

	plain, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := newAssembler().Assemble(spec, &models.GenerationOptions{Minify: models.Bool(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Metadata.Minified || len(doc.HTML) >= len(plain.HTML) {
		t.Errorf("expected smaller minified output: %d vs %d", len(doc.HTML), len(plain.HTML))
	}

	failing := MinifierFunc(func(string) (string, error) { return "", stderrors.New("minifier offline") })
	doc, err = newAssembler(WithMinifier(failing)).Assemble(spec, &models.GenerationOptions{Minify: models.Bool(true)})
	if err != nil {
		t.Fatalf("minifier failure must degrade, got %v", err)
	}
	if doc.Metadata.Minified || doc.HTML != plain.HTML {
		t.Error("expected unminified output on minifier failure")
	}
	if len(doc.Metadata.Warnings) != 1 || !strings.Contains(doc.Metadata.Warnings[0], "minifier offline") {
		t.Errorf("expected a minification warning, got %v", doc.Metadata.Warnings)
	}
}

func TestExternalStylesheet(t *testing.T) {
	spec := buildSpec(t, map[string]interface{}{"type": "blank"})
	doc, err := newAssembler().Assemble(spec, &models.GenerationOptions{EmbedStyles: models.Bool(false)})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(doc.HTML, "<style>") {
		t.Error("styles embedded despite embedStyles=false")
	}
	if !strings.Contains(doc.HTML, `<link rel="stylesheet" href="`+StylesheetName+`">`) {
		t.Error("stylesheet link missing")
	}
}

func TestStylesheet(t *testing.T) {
	css := Stylesheet(theme.Builtin()[1], models.ResolveOptions(&models.GenerationOptions{FontSize: models.FontLarge}))
	for _, want := range []string{"--color-background: #0f172a", "--color-primary-soft:", "--base-size: 28px", "--slide-height: 720px"} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
	if Stylesheet(nil, models.DefaultOptions()) == "" {
		t.Error("nil theme should fall back to the default theme")
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	spec := buildSpec(t,
		map[string]interface{}{"type": "data", "chart": map[string]interface{}{"type": "pie", "data": map[string]interface{}{
			"labels": []interface{}{"a", "b", "c"}, "series": []interface{}{map[string]interface{}{"values": []interface{}{1.0, 2.0, 3.0}}},
		}}},
	)
	first, err := newAssembler().Assemble(spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := newAssembler().Assemble(spec, nil)
	if first.HTML != second.HTML {
		t.Error("identical input produced different documents")
	}
}
