package export

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/validation"
)

func sampleSpec(t *testing.T) *models.PresentationSpec {
	t.Helper()
	raw := map[string]interface{}{
		"title": "Quarterly Review",
		"theme": "dark",
		"metadata": map[string]interface{}{
			"author":    "Finance",
			"tags":      []interface{}{"q3", "finance"},
			"createdAt": "2024-07-01T09:00:00Z",
		},
		"options": map[string]interface{}{"aspectRatio": "4:3"},
		"slides": []interface{}{
			map[string]interface{}{"type": "title", "title": "Q3", "id": "intro"},
			map[string]interface{}{"type": "content", "title": "Highlights", "content": "Revenue **up**"},
			map[string]interface{}{"type": "quote", "quote": "Ship it", "author": "Team"},
		},
	}
	result, err := validation.NewValidator(nil).ValidateSpec(raw)
	if err != nil {
		t.Fatalf("ValidateSpec: %v", err)
	}
	if !result.Valid {
		t.Fatalf("sample spec invalid: %v", result.Issues)
	}
	return result.Spec
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"html", "PDF", " json "} {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q): %v", name, err)
		}
	}
	_, err := ParseFormat("pptx")
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestMarkupFormatsRequireDocument(t *testing.T) {
	spec := sampleSpec(t)
	for _, format := range []Format{FormatHTML, FormatPDF} {
		_, err := Export(format, spec, nil)
		if !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
			t.Errorf("%s: expected SPEC_VALIDATION, got %v", format, err)
		}
	}
	_, err := Export(FormatJSON, nil, nil)
	if !apperrors.HasCode(err, apperrors.ErrCodeSpecValidation) {
		t.Errorf("json: expected SPEC_VALIDATION, got %v", err)
	}
}

func TestHTMLExportIsVerbatim(t *testing.T) {
	doc := &models.RenderedDocument{HTML: "<!DOCTYPE html><html><head></head><body></body></html>"}
	res, err := Export(FormatHTML, nil, doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Data) != doc.HTML || res.Extension != ".html" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestPDFExportInjectsPrintStyles(t *testing.T) {
	doc := &models.RenderedDocument{
		HTML:    "<html><head><title>x</title></head><body></body></html>",
		Options: models.ResolvedOptions{AspectRatio: models.Aspect4x3},
	}
	res, err := Export(FormatPDF, nil, doc)
	if err != nil {
		t.Fatal(err)
	}
	out := string(res.Data)
	for _, want := range []string{"@page { size: 1024px 768px", "break-after: page", ".deck-controls, .progress, .notes { display: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("print styles missing %q", want)
		}
	}
	if strings.Index(out, printMarker) > strings.Index(out, "</head>") {
		t.Error("print styles must be inside <head>")
	}
	if InjectPrintStyles(out, models.Aspect4x3) != out {
		t.Error("injection should be idempotent")
	}
}

func TestJSONExportLayout(t *testing.T) {
	spec := sampleSpec(t)
	res, err := Export(FormatJSON, spec, nil)
	if err != nil {
		t.Fatal(err)
	}

	var doc ExportDocument
	if err := json.Unmarshal(res.Data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != "1.0" {
		t.Errorf("version = %q", doc.Version)
	}
	m := doc.Metadata
	if m.Title != "Quarterly Review" || m.Author != "Finance" || m.SlideCount != 3 || m.Theme != "dark" || m.AspectRatio != "4:3" {
		t.Errorf("unexpected metadata %+v", m)
	}
	if m.CreatedAt != "2024-07-01T09:00:00Z" || len(m.Tags) != 2 {
		t.Errorf("unexpected createdAt/tags %+v", m)
	}
	if doc.Slides[0].ID != "intro" {
		t.Errorf("explicit id not kept: %s", doc.Slides[0].ID)
	}
	for i, s := range doc.Slides {
		if s.Position != i {
			t.Errorf("slide %d position = %d", i, s.Position)
		}
	}
	if doc.Slides[1].Content["content"] != "Revenue **up**" {
		t.Errorf("content not preserved: %v", doc.Slides[1].Content)
	}
}

func TestSlideIDsAreStable(t *testing.T) {
	spec := sampleSpec(t)
	a := ToDocument(spec, models.DefaultOptions())
	b := ToDocument(spec, models.DefaultOptions())
	if a.Slides[1].ID != b.Slides[1].ID || a.Slides[2].ID != b.Slides[2].ID {
		t.Error("generated ids differ between exports")
	}
	if a.Slides[1].ID == a.Slides[2].ID {
		t.Error("distinct slides share an id")
	}
	if len(a.Slides[1].ID) != 36 {
		t.Errorf("expected a UUID, got %q", a.Slides[1].ID)
	}

	moved := SlideID(spec.Title, spec.Slides[1], 5)
	if moved == a.Slides[1].ID {
		t.Error("position must contribute to the generated id")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	spec := sampleSpec(t)
	res, err := Export(FormatJSON, spec, nil)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ParseJSON(res.Data)
	if err != nil {
		t.Fatal(err)
	}

	result, err := validation.NewValidator(nil).ValidateSpec(doc.ToSpec())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Valid {
		t.Fatalf("round-tripped spec invalid: %v", result.Issues)
	}
	back := result.Spec
	if back.Title != spec.Title || back.Theme != spec.Theme || len(back.Slides) != len(spec.Slides) {
		t.Fatalf("round trip changed the deck: %+v", back)
	}
	for i := range spec.Slides {
		if back.Slides[i].Kind != spec.Slides[i].Kind || back.Slides[i].Heading() != spec.Slides[i].Heading() {
			t.Errorf("slide %d differs after round trip", i)
		}
	}
	if back.Author() != "Finance" || back.Options == nil || back.Options.AspectRatio != models.Aspect4x3 {
		t.Error("metadata or options lost in round trip")
	}
}

func TestToSpecOrdersByPosition(t *testing.T) {
	doc := &ExportDocument{
		Version:  Version,
		Metadata: ExportMetadata{Title: "x"},
		Slides: []ExportSlide{
			{Kind: models.KindBlank, Content: map[string]interface{}{"type": "blank", "id": "b"}, Position: 1},
			{Kind: models.KindTitle, Content: map[string]interface{}{"title": "a"}, Position: 0},
		},
	}
	slides := doc.ToSpec()["slides"].([]interface{})
	first := slides[0].(map[string]interface{})
	if first["type"] != "title" || first["title"] != "a" {
		t.Errorf("unexpected first slide %v", first)
	}
}

func TestParseJSONRejectsBadInput(t *testing.T) {
	if _, err := ParseJSON([]byte("{")); !apperrors.HasCode(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT for malformed json, got %v", err)
	}
	if _, err := ParseJSON([]byte(`{"version":"2.0"}`)); !apperrors.HasCode(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT for unknown version, got %v", err)
	}
}
