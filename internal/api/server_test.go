package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dpshade/pocket-deck/internal/config"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/service"
	"github.com/dpshade/pocket-deck/internal/theme"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.ThemeDirs = nil
	cfg.OutputDir = t.TempDir()

	themes := theme.NewRegistry()
	themes.Init()
	svc, err := service.NewService(cfg, service.WithThemes(themes))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewAPIServer(svc, "localhost:0", "test").Router()
}

const deckBody = `{
  "spec": {
    "title": "Quarterly Review",
    "theme": "dark",
    "slides": [
      {"type": "title", "title": "Q3 Review"},
      {"type": "data", "title": "Revenue", "chart": {"type": "line", "data": {"labels": ["Jul", "Aug"], "series": [{"name": "EU", "values": [3, 5]}]}}}
    ]
  },
  "options": {"aspectRatio": "4:3"}
}`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestRenderJSON(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/render", deckBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode(t, rec)
	if resp["success"] != true {
		t.Fatalf("success = %v", resp["success"])
	}
	data := resp["data"].(map[string]interface{})
	meta := data["metadata"].(map[string]interface{})
	if meta["slideCount"] != 2.0 || meta["theme"] != "dark" {
		t.Errorf("metadata = %v", meta)
	}
	if data["options"].(map[string]interface{})["aspectRatio"] != "4:3" {
		t.Errorf("call options not applied: %v", data["options"])
	}
	if !strings.Contains(data["html"].(string), "<svg") {
		t.Error("chart missing from rendered html")
	}
}

func TestRenderHTML(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/render?format=html", deckBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %s", ct)
	}
	if rec.Header().Get("X-Slide-Count") != "2" {
		t.Errorf("X-Slide-Count = %s", rec.Header().Get("X-Slide-Count"))
	}
	if !strings.HasPrefix(strings.ToLower(rec.Body.String()), "<!doctype html>") {
		t.Errorf("body is not a document: %.60s", rec.Body.String())
	}
}

func TestRenderRejectsInvalidSpec(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/render", `{"spec": {"title": "x", "slides": [{"type": "timline"}]}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decode(t, rec)
	errBody := resp["error"].(map[string]interface{})
	if errBody["code"] != "SPEC_VALIDATION" {
		t.Errorf("code = %v", errBody["code"])
	}
	issues, ok := errBody["issues"].([]interface{})
	if !ok || len(issues) == 0 {
		t.Fatalf("issues missing: %v", errBody)
	}
	if errBody["example"] == nil {
		t.Error("validation errors should carry an example")
	}
}

func TestRenderBadBodies(t *testing.T) {
	h := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty", "", "INVALID_INPUT"},
		{"malformed", `{"spec":`, "INVALID_FORMAT"},
		{"spec not object", `{"spec": []}`, "INVALID_INPUT"},
		{"bad options", `{"spec": {"title": "x", "slides": [{"type": "blank"}]}, "options": {"aspectRatio": "3:2"}}`, "SPEC_VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/render", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if code := decode(t, rec)["error"].(map[string]interface{})["code"]; code != tt.code {
				t.Errorf("code = %v, want %s", code, tt.code)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", bytes.NewBufferString(deckBody))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong content type should be rejected, got %d", rec.Code)
	}
}

func TestValidateReportsIssuesWith200(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/validate", `{"title": "x", "slides": []}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decode(t, rec)["data"].(map[string]interface{})
	if data["valid"] != false {
		t.Error("empty slide list should be invalid")
	}
	if issues := data["issues"].([]interface{}); len(issues) == 0 {
		t.Error("issues missing")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/validate", deckBody)
	if data := decode(t, rec)["data"].(map[string]interface{}); data["valid"] != true {
		t.Errorf("valid deck reported invalid: %v", data)
	}
}

func TestExport(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/export/json", deckBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `quarterly-review.json`) {
		t.Errorf("Content-Disposition = %s", cd)
	}
	doc, err := export.ParseJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if doc.Metadata.AspectRatio != "4:3" || len(doc.Slides) != 2 {
		t.Errorf("unexpected export %+v", doc.Metadata)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/export/PDF", deckBody)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "@page") {
		t.Errorf("pdf export failed: %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/export/docx", deckBody)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d", rec.Code)
	}
}

func TestThemes(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/themes", "")
	if list := decode(t, rec)["data"].([]interface{}); len(list) != len(theme.Builtin()) {
		t.Errorf("themes = %d", len(list))
	}

	rec = do(t, h, http.MethodGet, "/api/v1/themes/dark", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if data := decode(t, rec)["data"].(map[string]interface{}); data["id"] != "dark" {
		t.Errorf("theme = %v", data)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/themes/drak", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing theme status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "did you mean") {
		t.Errorf("expected a suggestion: %s", rec.Body.String())
	}
}

func TestCapabilitiesAndHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/capabilities", "")
	data := decode(t, rec)["data"].(map[string]interface{})
	if kinds := data["slideKinds"].([]interface{}); len(kinds) < 10 {
		t.Errorf("slideKinds = %v", kinds)
	}
	if formats := data["exportFormats"].([]interface{}); len(formats) != 3 {
		t.Errorf("exportFormats = %v", formats)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/health", "")
	if data := decode(t, rec)["data"].(map[string]interface{}); data["status"] != "ok" || data["version"] != "test" {
		t.Errorf("health = %v", data)
	}
}

func TestOpenAPIAndFallbacks(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/openapi.json", "")
	spec := decode(t, rec)
	paths := spec["paths"].(map[string]interface{})
	for _, p := range []string{"/render", "/validate", "/export/{format}", "/themes/{id}"} {
		if _, ok := paths[p]; !ok {
			t.Errorf("openapi missing %s", p)
		}
	}

	rec = do(t, h, http.MethodGet, "/api/docs", "")
	if !strings.Contains(rec.Body.String(), "swagger-ui") {
		t.Error("docs page missing swagger ui")
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/themes", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("wrong method status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodOptions, "/api/v1/render", ""); rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight not handled: %d", rec.Code)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Quarterly Review":   "quarterly-review",
		"  Q3 / 2024 -- EU ": "q3-2024-eu",
		"!!!":                "presentation",
		"Café Menü":          "cafe-menu",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
