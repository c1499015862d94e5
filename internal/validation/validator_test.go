package validation

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

type fakeThemes []string

func (f fakeThemes) Has(id string) bool {
	for _, t := range f {
		if t == id {
			return true
		}
	}
	return false
}

func (f fakeThemes) IDs() []string { return f }

func newTestValidator() *Validator {
	return NewValidator(fakeThemes{"corporate", "dark", "default"})
}

func parse(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func findIssue(issues Issues, path string) *Issue {
	for i := range issues {
		if issues[i].Path == path {
			return &issues[i]
		}
	}
	return nil
}

func TestValidSpecDecodes(t *testing.T) {
	raw := parse(t, `{
		"title": "Review",
		"theme": "dark",
		"options": {"aspectRatio": "4:3", "minify": true},
		"metadata": {"author": "Ada", "language": "en-GB", "createdAt": "2024-05-01T10:00:00Z"},
		"slides": [
			{"type": "title", "title": "Hello"},
			{"type": "content", "title": "Agenda", "bullets": ["a", "b"]},
			{"type": "data", "chart": {"type": "bar", "data": {"labels": ["a"], "series": [{"values": [1]}]}}},
			{"type": "section-header", "title": "Part 2", "number": 2},
			{"type": "two-column", "columns": [{"title": "L"}, {"title": "R"}]}
		]
	}`)

	result, err := newTestValidator().ValidateSpec(raw)
	if err != nil {
		t.Fatalf("ValidateSpec: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid, got %v", result.Issues.Lines())
	}

	spec := result.Spec
	if spec == nil || len(spec.Slides) != 5 {
		t.Fatalf("expected 5 decoded slides, got %+v", spec)
	}
	if spec.Options.AspectRatio != models.Aspect4x3 || spec.Options.Minify == nil || !*spec.Options.Minify {
		t.Errorf("options not decoded: %+v", spec.Options)
	}
	if spec.Language() != "en-GB" || spec.Author() != "Ada" {
		t.Errorf("metadata not decoded: %+v", spec.Metadata)
	}
	header, ok := spec.Slides[3].Body.(*models.SectionHeaderSlide)
	if !ok || header.Number != "2" {
		t.Errorf("numeric section number not decoded: %+v", spec.Slides[3].Body)
	}
	if spec.Slides[4].Body.SlideKind() != models.KindTwoColumn {
		t.Errorf("column slide kind lost: %s", spec.Slides[4].Body.SlideKind())
	}
}

func TestEveryKindHasSchemaAndValidExample(t *testing.T) {
	v := newTestValidator()
	for _, kind := range models.SlideKinds() {
		if _, ok := v.Schema(string(kind)); !ok {
			t.Errorf("no schema for %s", kind)
			continue
		}
		raw := map[string]interface{}{"title": "x", "slides": []interface{}{Example(kind)}}
		result, err := v.ValidateSpec(raw)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !result.Valid {
			t.Errorf("example for %s is invalid: %v", kind, result.Issues.Lines())
		}
	}
}

func TestIssuePaths(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		path     string
		code     string
		expected string
	}{
		{"missing title", `{"slides":[{"type":"blank"}]}`, "title", "REQUIRED_FIELD_MISSING", "non-empty string"},
		{"empty slides", `{"title":"x","slides":[]}`, "slides", "MIN_ITEMS", "at least 1 slide(s)"},
		{"missing slide type", `{"title":"x","slides":[{"title":"a"}]}`, "slides[0].type", "REQUIRED_FIELD_MISSING", ""},
		{"slide field type", `{"title":"x","slides":[{"type":"title","title":5}]}`, "slides[0].title", "INVALID_TYPE", "non-empty string"},
		{"nested item", `{"title":"x","slides":[{"type":"blank"},{"type":"timeline","events":[{"date":"2020"}]}]}`, "slides[1].events[0].title", "REQUIRED_FIELD_MISSING", "non-empty string"},
		{"chart type", `{"title":"x","slides":[{"type":"data","chart":{"type":"radar","data":{}}}]}`, "slides[0].chart.type", "INVALID_OPTION", ""},
		{"column count", `{"title":"x","slides":[{"type":"three-column","columns":[{"title":"a"},{"title":"b"}]}]}`, "slides[0].columns", "ITEM_COUNT", "exactly 3 columns"},
		{"bad color", `{"title":"x","slides":[{"type":"blank","background":"not a color!"}]}`, "slides[0].background", "INVALID_COLOR", ""},
		{"unsafe url", `{"title":"x","slides":[{"type":"media","src":"javascript:alert(1)"}]}`, "slides[0].src", "INVALID_URL", ""},
		{"language", `{"title":"x","metadata":{"language":"not a tag"},"slides":[{"type":"blank"}]}`, "metadata.language", "INVALID_FORMAT", ""},
		{"aspect ratio", `{"title":"x","options":{"aspectRatio":"21:9"},"slides":[{"type":"blank"}]}`, "options.aspectRatio", "INVALID_OPTION", ""},
		{"grid columns", `{"title":"x","slides":[{"type":"grid","columns":9,"items":[{"title":"a"}]}]}`, "slides[0].columns", "OUT_OF_RANGE", ""},
		{"content or bullets", `{"title":"x","slides":[{"type":"content","title":"a"}]}`, "slides[0].content", "REQUIRED_FIELD_MISSING", "content or bullets"},
		{"chart and table", `{"title":"x","slides":[{"type":"data","chart":{"type":"bar","data":{}},"table":{"headers":["a"],"rows":[]}}]}`, "slides[0].table", "MUTUALLY_EXCLUSIVE", ""},
		{"table row", `{"title":"x","slides":[{"type":"data","table":{"headers":["a"],"rows":["oops"]}}]}`, "slides[0].table.rows", "INVALID_TYPE", "array of cells"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateSpec(parse(t, tt.doc))
			if err != nil {
				t.Fatalf("ValidateSpec: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid result")
			}
			issue := findIssue(result.Issues, tt.path)
			if issue == nil {
				t.Fatalf("no issue at %s; got %v", tt.path, result.Issues.Lines())
			}
			if issue.Code != tt.code {
				t.Errorf("code = %s, want %s", issue.Code, tt.code)
			}
			if tt.expected != "" && issue.Expected != tt.expected {
				t.Errorf("expected = %q, want %q", issue.Expected, tt.expected)
			}
			if issue.Actual == "" {
				t.Error("actual should always be filled in")
			}
			if result.Spec != nil {
				t.Error("invalid input must not produce a spec")
			}
		})
	}
}

func TestEmptySlidesMessage(t *testing.T) {
	result, _ := newTestValidator().ValidateSpec(parse(t, `{"title":"x","slides":[]}`))
	issue := findIssue(result.Issues, "slides")
	if issue == nil || issue.Message != "at least one slide required" {
		t.Errorf("unexpected issue %+v", issue)
	}
}

func TestUnknownKindSuggestion(t *testing.T) {
	result, err := newTestValidator().ValidateSpec(parse(t, `{"title":"x","slides":[{"type":"timline","events":[]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	issue := findIssue(result.Issues, "slides[0].type")
	if issue == nil || issue.Code != "UNKNOWN_SLIDE_TYPE" {
		t.Fatalf("unexpected issues %v", result.Issues.Lines())
	}
	if !strings.Contains(issue.Message, "did you mean 'timeline'") {
		t.Errorf("missing suggestion: %s", issue.Message)
	}
	if result.Example["type"] != "timeline" {
		t.Errorf("example should follow the suggestion, got %v", result.Example)
	}
}

func TestSuggestTransposedLetters(t *testing.T) {
	candidates := []string{"title", "timeline", "table"}
	tests := map[string]string{
		"timline":  "timeline",
		"tmieline": "timeline",
		"TITEL":    "title",
		"zzzzzz":   "",
	}
	for in, want := range tests {
		if got := Suggest(in, candidates); got != want {
			t.Errorf("Suggest(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnknownTheme(t *testing.T) {
	result, _ := newTestValidator().ValidateSpec(parse(t, `{"title":"x","theme":"drak","slides":[{"type":"blank"}]}`))
	issue := findIssue(result.Issues, "theme")
	if issue == nil || issue.Code != "UNKNOWN_THEME" {
		t.Fatalf("unexpected issues %v", result.Issues.Lines())
	}
	if !strings.Contains(issue.Message, "'dark'") {
		t.Errorf("expected a suggestion of dark, got %s", issue.Message)
	}
}

func TestNilThemeCheckerSkipsThemeCheck(t *testing.T) {
	result, _ := NewValidator(nil).ValidateSpec(parse(t, `{"title":"x","theme":"anything","slides":[{"type":"blank"}]}`))
	if !result.Valid {
		t.Errorf("expected valid, got %v", result.Issues.Lines())
	}
}

func TestUnknownFieldIsWarning(t *testing.T) {
	result, _ := newTestValidator().ValidateSpec(parse(t, `{"title":"x","slides":[{"type":"title","titel":"oops","title":"ok"}]}`))
	if !result.Valid {
		t.Fatalf("unknown fields should not invalidate: %v", result.Issues.Lines())
	}
	w := findIssue(result.Warnings, "slides[0].titel")
	if w == nil || !strings.Contains(w.Message, "did you mean 'title'") {
		t.Errorf("expected a suggestion warning, got %v", result.Warnings.Lines())
	}
}

func TestIssuesAreDeterministic(t *testing.T) {
	doc := `{"slides":[{"type":"hero","cta":{"url":"ftp://x"}},{"type":"team","members":[{}]}],"options":{"fontSize":"huge"}}`
	v := newTestValidator()
	first, _ := v.ValidateSpec(parse(t, doc))
	for i := 0; i < 10; i++ {
		again, _ := v.ValidateSpec(parse(t, doc))
		if strings.Join(again.Issues.Paths(), ",") != strings.Join(first.Issues.Paths(), ",") {
			t.Fatalf("issue order changed: %v vs %v", again.Issues.Paths(), first.Issues.Paths())
		}
	}
}

func TestChartDataShapeIsLeftToRenderer(t *testing.T) {
	// Table-shaped chart data is structurally an object; it fails later, per slide.
	result, _ := newTestValidator().ValidateSpec(parse(t, `{"title":"x","slides":[{"type":"data","chart":{"type":"bar","data":{"headers":["a"],"rows":[[1]]}}}]}`))
	if !result.Valid {
		t.Errorf("expected valid, got %v", result.Issues.Lines())
	}
}

func TestSchemaNotRegistered(t *testing.T) {
	v := newTestValidator()
	delete(v.schemas, string(models.KindQuote))
	_, err := v.ValidateSpec(parse(t, `{"title":"x","slides":[{"type":"quote","quote":"q"}]}`))
	if !stderrors.Is(err, ErrSchemaNotRegistered) {
		t.Errorf("expected ErrSchemaNotRegistered, got %v", err)
	}
}

func TestToAppError(t *testing.T) {
	result, _ := newTestValidator().ValidateSpec(parse(t, `{"slides":[{"type":"quote"}]}`))
	appErr := result.ToAppError()
	if appErr == nil || appErr.Code != errors.ErrCodeSpecValidation {
		t.Fatalf("unexpected error %+v", appErr)
	}
	issues, ok := appErr.Context["issues"].(Issues)
	if !ok || len(issues) != 2 {
		t.Errorf("issues not attached: %#v", appErr.Context["issues"])
	}
	if appErr.Context["example"] == nil {
		t.Error("example not attached")
	}

	valid, _ := newTestValidator().ValidateSpec(parse(t, `{"title":"x","slides":[{"type":"blank"}]}`))
	if valid.ToAppError() != nil {
		t.Error("valid result should not convert to an error")
	}
}

func TestValidateOptions(t *testing.T) {
	v := newTestValidator()
	opts, result := v.ValidateOptions(map[string]interface{}{"fontSize": "large", "theme": "corporate", "slideNumbers": false})
	if !result.Valid {
		t.Fatalf("unexpected issues %v", result.Issues.Lines())
	}
	if opts.FontSize != models.FontLarge || opts.Theme != "corporate" || opts.SlideNumbers == nil || *opts.SlideNumbers {
		t.Errorf("options not decoded: %+v", opts)
	}

	if _, result := v.ValidateOptions(map[string]interface{}{"theme": "nope"}); result.Valid {
		t.Error("unknown theme should be rejected")
	}
}

func TestIsSafeURL(t *testing.T) {
	safe := []string{"https://example.com/a.png", "http://x.io", "images/logo.svg", "/static/a.png", "data:image/png;base64,AAAA"}
	unsafe := []string{"", "javascript:alert(1)", "ftp://host/file", "data:text/html,<b>", "vbscript:x"}
	for _, u := range safe {
		if !IsSafeURL(u) {
			t.Errorf("IsSafeURL(%q) = false", u)
		}
	}
	for _, u := range unsafe {
		if IsSafeURL(u) {
			t.Errorf("IsSafeURL(%q) = true", u)
		}
	}
}

func TestValidateRequestMiddleware(t *testing.T) {
	rv := NewRequestValidator(newTestValidator())
	var got *Request
	handler := rv.ValidateRequest(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = RequestFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	body := `{"spec":{"title":"x","slides":[{"type":"blank"}]},"options":{"minify":true}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/render", bytes.NewBufferString(body)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got == nil || got.Result.Spec == nil || got.Options == nil || !*got.Options.Minify {
		t.Fatalf("request not stored: %+v", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/render", bytes.NewBufferString(`{"title":"x","slides":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid spec status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SPEC_VALIDATION") {
		t.Errorf("body missing error code: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/render", bytes.NewBufferString(`{not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d", rec.Code)
	}
}

func TestSanitizeAndIdentifier(t *testing.T) {
	if got := SanitizeString(" a\x00b\x07c\n "); got != "abc" {
		t.Errorf("SanitizeString = %q", got)
	}
	if ValidateIdentifier("dark-2") != nil {
		t.Error("valid identifier rejected")
	}
	if ValidateIdentifier("../etc") == nil {
		t.Error("path-like identifier accepted")
	}
}
