// Package export converts presentations into their downloadable forms.
//
// Three formats are supported:
//
//   - html: the rendered document as-is
//   - pdf: the rendered document with print styles injected so that a
//     browser prints one slide per page at the deck's aspect ratio
//   - json: a portable description of the deck (metadata, slides with stable
//     ids, generation options) that ParseJSON and ToSpec read back
package export

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/validation"
)

// Format names an export format
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Version is the JSON export layout version
const Version = "1.0"

// slideNamespace seeds generated slide ids
var slideNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://pocket-deck.dev/slides"))

// Formats returns the supported export formats
func Formats() []Format {
	return []Format{FormatHTML, FormatPDF, FormatJSON}
}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", apperrors.InvalidInputError(fmt.Sprintf("unsupported export format '%s'", name)).
		WithDetails("supported formats: html, pdf, json")
}

// Result is an exported artifact
type Result struct {
	Format      Format `json:"format"`
	ContentType string `json:"contentType"`
	Extension   string `json:"extension"`
	Data        []byte `json:"-"`
}

// Export produces format from a validated spec and, for the markup formats,
// its rendered document
func Export(format Format, spec *models.PresentationSpec, doc *models.RenderedDocument) (*Result, error) {
	switch format {
	case FormatHTML:
		if doc == nil || doc.HTML == "" {
			return nil, missingMarkup(format)
		}
		return &Result{Format: format, ContentType: "text/html; charset=utf-8", Extension: ".html", Data: []byte(doc.HTML)}, nil

	case FormatPDF:
		if doc == nil || doc.HTML == "" {
			return nil, missingMarkup(format)
		}
		printable := InjectPrintStyles(doc.HTML, doc.Options.AspectRatio)
		return &Result{Format: format, ContentType: "text/html; charset=utf-8", Extension: ".print.html", Data: []byte(printable)}, nil

	case FormatJSON:
		if spec == nil {
			return nil, apperrors.SpecValidationError("presentation spec is required for json export", validation.Issues{{
				Path: "", Code: "REQUIRED_FIELD_MISSING", Expected: "presentation", Actual: "missing", Message: "presentation spec is required",
			}})
		}
		var opts models.ResolvedOptions
		if doc != nil {
			opts = doc.Options
		} else {
			opts = models.ResolveOptions(spec.Options)
			if opts.Theme == "" {
				opts.Theme = spec.Theme
			}
		}
		return JSON(spec, opts)
	}

	_, err := ParseFormat(string(format))
	return nil, err
}

// JSON encodes the JSON export layout with already-resolved options
func JSON(spec *models.PresentationSpec, opts models.ResolvedOptions) (*Result, error) {
	data, err := json.MarshalIndent(ToDocument(spec, opts), "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to encode json export")
	}
	return &Result{Format: FormatJSON, ContentType: "application/json", Extension: ".json", Data: data}, nil
}

func missingMarkup(format Format) error {
	log.Printf("[EXPORT] %s export requested without rendered markup", format)
	return apperrors.SpecValidationError(fmt.Sprintf("%s export requires rendered markup", format), validation.Issues{{
		Path: "html", Code: "REQUIRED_FIELD_MISSING", Expected: "rendered document", Actual: "missing",
		Message: fmt.Sprintf("%s export requires rendered markup", format),
	}})
}

// ExportDocument is the JSON export layout
type ExportDocument struct {
	Version  string                   `json:"version"`
	Metadata ExportMetadata           `json:"metadata"`
	Slides   []ExportSlide            `json:"slides"`
	Config   models.GenerationOptions `json:"config"`
}

// ExportMetadata describes the exported deck
type ExportMetadata struct {
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	SlideCount  int      `json:"slideCount"`
	Theme       string   `json:"theme"`
	AspectRatio string   `json:"aspectRatio"`
	Tags        []string `json:"tags,omitempty"`
}

// ExportSlide is one slide of the JSON export
type ExportSlide struct {
	ID       string                 `json:"id"`
	Kind     models.SlideKind       `json:"kind"`
	Content  map[string]interface{} `json:"content"`
	Position int                    `json:"position"`
}

// ToDocument builds the JSON export layout. Created time falls back to now
// when the spec does not carry one.
func ToDocument(spec *models.PresentationSpec, opts models.ResolvedOptions) *ExportDocument {
	doc := &ExportDocument{
		Version: Version,
		Metadata: ExportMetadata{
			Title:       spec.Title,
			Author:      spec.Author(),
			SlideCount:  len(spec.Slides),
			Theme:       opts.Theme,
			AspectRatio: string(opts.AspectRatio),
			Tags:        spec.Tags(),
		},
		Config: opts.Generation(),
	}
	if doc.Metadata.Theme == "" {
		doc.Metadata.Theme = spec.Theme
	}
	if spec.Metadata != nil {
		doc.Metadata.Description = spec.Metadata.Description
		if spec.Metadata.Language != "" {
			doc.Metadata.Language = spec.Metadata.Language
		}
	}
	if created := spec.CreatedAt(); !created.IsZero() {
		doc.Metadata.CreatedAt = created.UTC().Format(time.RFC3339)
	} else {
		doc.Metadata.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	doc.Slides = make([]ExportSlide, 0, len(spec.Slides))
	for i, slide := range spec.Slides {
		if slide == nil {
			continue
		}
		doc.Slides = append(doc.Slides, ExportSlide{
			ID:       SlideID(spec.Title, slide, i),
			Kind:     slide.Kind,
			Content:  slide.Content(),
			Position: i,
		})
	}
	return doc
}

// SlideID returns the slide's explicit id, or a name-based UUID derived from
// the deck title, slide kind and position. The same deck always exports the
// same ids.
func SlideID(title string, slide *models.Slide, position int) string {
	if slide.ID != "" {
		return slide.ID
	}
	name := fmt.Sprintf("%s\x00%s\x00%d", title, slide.Kind, position)
	return uuid.NewSHA1(slideNamespace, []byte(name)).String()
}

// ParseJSON reads a JSON export back
func ParseJSON(data []byte) (*ExportDocument, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidFormat, "failed to parse json export")
	}
	if doc.Version != Version {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported export version '%s'", doc.Version)).WithDetails("expected version " + Version)
	}
	return &doc, nil
}

// ToSpec rebuilds the untyped presentation spec so it can be validated and
// rendered again. Slides are ordered by position.
func (d *ExportDocument) ToSpec() map[string]interface{} {
	slides := make([]ExportSlide, len(d.Slides))
	copy(slides, d.Slides)
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Position < slides[j].Position })

	rawSlides := make([]interface{}, 0, len(slides))
	for _, s := range slides {
		content := make(map[string]interface{}, len(s.Content)+1)
		for k, v := range s.Content {
			content[k] = v
		}
		if _, ok := content["type"]; !ok {
			content["type"] = string(s.Kind)
		}
		rawSlides = append(rawSlides, content)
	}

	spec := map[string]interface{}{
		"title":  d.Metadata.Title,
		"slides": rawSlides,
	}
	if d.Metadata.Theme != "" {
		spec["theme"] = d.Metadata.Theme
	}

	meta := map[string]interface{}{}
	if d.Metadata.Author != "" {
		meta["author"] = d.Metadata.Author
	}
	if d.Metadata.Description != "" {
		meta["description"] = d.Metadata.Description
	}
	if d.Metadata.Language != "" {
		meta["language"] = d.Metadata.Language
	}
	if d.Metadata.CreatedAt != "" {
		meta["createdAt"] = d.Metadata.CreatedAt
	}
	if len(d.Metadata.Tags) > 0 {
		tags := make([]interface{}, len(d.Metadata.Tags))
		for i, t := range d.Metadata.Tags {
			tags[i] = t
		}
		meta["tags"] = tags
	}
	if len(meta) > 0 {
		spec["metadata"] = meta
	}

	options := map[string]interface{}{}
	if data, err := json.Marshal(d.Config); err == nil {
		_ = json.Unmarshal(data, &options)
	}
	if len(options) > 0 {
		spec["options"] = options
	}
	return spec
}
