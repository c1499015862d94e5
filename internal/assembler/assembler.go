// Package assembler turns a validated presentation into a complete HTML document.
//
// Assembly runs in a fixed order: merge option layers, resolve the theme,
// render every slide through the template registry, wrap the slides in the
// document shell and optionally minify. A slide that fails to render aborts
// the whole document; a failing minifier or theme lookup only adds a warning.
package assembler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/renderer"
	"github.com/dpshade/pocket-deck/internal/theme"
	"github.com/dpshade/pocket-deck/internal/validation"
)

// Generator is written to the generator meta tag
const Generator = "pocket-deck"

//go:embed templates/document.html
var documentFS embed.FS

var documentTemplate = template.Must(template.New("document").ParseFS(documentFS, "templates/document.html"))

// ThemeSource resolves theme ids
type ThemeSource interface {
	Lookup(id string) (*models.Theme, bool)
}

// Assembler builds documents. It holds no per-call state and may be shared.
type Assembler struct {
	templates *renderer.Registry
	themes    ThemeSource
	minifier  Minifier
	defaults  *models.GenerationOptions
	now       func() time.Time
	verbose   bool
}

// Option configures an Assembler
type Option func(*Assembler)

// WithMinifier replaces the default minifier
func WithMinifier(m Minifier) Option {
	return func(a *Assembler) { a.minifier = m }
}

// WithDefaults sets the configuration-level option layer
func WithDefaults(defaults *models.GenerationOptions) Option {
	return func(a *Assembler) { a.defaults = defaults }
}

// WithClock sets the time source used for generatedAt
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithVerbose enables per-slide debug logging
func WithVerbose(verbose bool) Option {
	return func(a *Assembler) { a.verbose = verbose }
}

// New creates an assembler over a template registry and theme source
func New(templates *renderer.Registry, themes ThemeSource, opts ...Option) *Assembler {
	a := &Assembler{
		templates: templates,
		themes:    themes,
		minifier:  NewHTMLMinifier(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders spec into a document. callOpts has the highest precedence
// of the option layers and may be nil.
func (a *Assembler) Assemble(spec *models.PresentationSpec, callOpts *models.GenerationOptions) (*models.RenderedDocument, error) {
	if spec == nil {
		return nil, apperrors.SpecValidationError("presentation spec is required", validation.Issues{{
			Path: "", Code: "REQUIRED_FIELD_MISSING", Expected: "presentation", Actual: "missing", Message: "presentation spec is required",
		}})
	}
	if len(spec.Slides) == 0 {
		return nil, apperrors.SpecValidationError("at least one slide required", validation.Issues{{
			Path: "slides", Code: "MIN_ITEMS", Expected: "at least 1 slide(s)", Actual: "0", Message: "at least one slide required",
		}})
	}

	start := a.now()
	opts, th, warnings := a.Resolve(spec, callOpts)

	ctx := renderer.NewRenderContext(opts, th, len(spec.Slides))
	fragments := make([]template.HTML, 0, len(spec.Slides))
	for i, slide := range spec.Slides {
		if slide == nil {
			return nil, apperrors.InternalError(fmt.Sprintf("slide %d is nil", i)).WithContext("index", i)
		}
		fragment, err := a.templates.Dispatch(ctx.At(i), slide)
		if err != nil {
			if apperrors.IsAppError(err) {
				apperrors.GetAppError(err).WithContext("slide", i)
			}
			log.Printf("[ASSEMBLE] slide %d (%s) failed: %v", i+1, slide.Kind, err)
			return nil, err
		}
		if a.verbose {
			log.Printf("[ASSEMBLE] rendered slide %d/%d (%s, %d bytes)", i+1, len(spec.Slides), slide.Kind, len(fragment))
		}
		fragments = append(fragments, fragment)
	}

	html, err := a.shell(spec, opts, th, fragments)
	if err != nil {
		return nil, err
	}

	minified := false
	if opts.Minify && a.minifier != nil {
		out, err := a.minifier.Minify(html)
		if err != nil {
			failure := apperrors.CollaboratorFailure("minifier", err)
			log.Printf("[ASSEMBLE] %v; returning unminified output", failure)
			warnings = append(warnings, "minification failed, output is not minified: "+err.Error())
		} else {
			html = out
			minified = true
		}
	}

	doc := &models.RenderedDocument{
		HTML:    html,
		Options: opts,
		Metadata: models.DocumentMetadata{
			Title:       spec.Title,
			SlideCount:  len(spec.Slides),
			Theme:       th.ID,
			AspectRatio: string(opts.AspectRatio),
			GeneratedAt: start.UTC(),
			Size:        len(html),
			Minified:    minified,
			Warnings:    warnings,
		},
	}

	log.Printf("[ASSEMBLE] %q: %d slides, theme %s, %d bytes in %s", spec.Title, len(spec.Slides), th.ID, len(html), a.now().Sub(start).Round(time.Millisecond))
	return doc, nil
}

// Resolve merges the option layers and resolves the theme without
// rendering anything. The returned options carry the resolved theme id.
func (a *Assembler) Resolve(spec *models.PresentationSpec, callOpts *models.GenerationOptions) (models.ResolvedOptions, *models.Theme, []string) {
	var warnings []string
	opts := models.ResolveOptions(a.defaults, spec.Options, callOpts)
	th, themeWarning := a.resolveTheme(spec, callOpts)
	if themeWarning != "" {
		warnings = append(warnings, themeWarning)
	}
	opts.Theme = th.ID
	return opts, th, warnings
}

// resolveTheme picks the theme id by precedence and falls back to the
// built-in default when the lookup fails
func (a *Assembler) resolveTheme(spec *models.PresentationSpec, callOpts *models.GenerationOptions) (*models.Theme, string) {
	id := ""
	switch {
	case callOpts != nil && callOpts.Theme != "":
		id = callOpts.Theme
	case spec.Options != nil && spec.Options.Theme != "":
		id = spec.Options.Theme
	case spec.Theme != "":
		id = spec.Theme
	case a.defaults != nil && a.defaults.Theme != "":
		id = a.defaults.Theme
	default:
		id = theme.DefaultID
	}

	if a.themes != nil {
		if th, ok := a.themes.Lookup(id); ok {
			return th, ""
		}
		if th, ok := a.themes.Lookup(theme.DefaultID); ok {
			log.Printf("[ASSEMBLE] theme %q not found, using %s", id, theme.DefaultID)
			return th, fmt.Sprintf("theme '%s' not found, using '%s'", id, theme.DefaultID)
		}
	}
	log.Printf("[ASSEMBLE] theme %q unavailable, using embedded default colors", id)
	return theme.Builtin()[0], fmt.Sprintf("theme '%s' not found, using embedded default colors", id)
}

type documentData struct {
	Lang           string
	Title          string
	Generator      string
	Author         string
	Description    string
	Keywords       string
	Created        string
	SlideCount     int
	InitialIndex   int
	Theme          string
	Dark           bool
	AspectRatio    string
	FontSize       string
	Width          int
	Height         int
	EmbedStyles    bool
	CSS            template.CSS
	StylesheetHref string
	Slides         []template.HTML
}

// shell wraps the rendered slides in the document template
func (a *Assembler) shell(spec *models.PresentationSpec, opts models.ResolvedOptions, th *models.Theme, slides []template.HTML) (string, error) {
	data := documentData{
		Lang:           spec.Language(),
		Title:          spec.Title,
		Generator:      Generator,
		Author:         spec.Author(),
		Keywords:       strings.Join(spec.Tags(), ", "),
		SlideCount:     len(slides),
		InitialIndex:   0,
		Theme:          th.ID,
		Dark:           th.Dark,
		AspectRatio:    string(opts.AspectRatio),
		FontSize:       string(opts.FontSize),
		EmbedStyles:    opts.EmbedStyles,
		StylesheetHref: StylesheetName,
		Slides:         slides,
	}
	data.Width, data.Height = opts.AspectRatio.Dimensions()
	if spec.Metadata != nil {
		data.Description = spec.Metadata.Description
	}
	if created := spec.CreatedAt(); !created.IsZero() {
		data.Created = created.Format(time.RFC3339)
	}
	if opts.EmbedStyles {
		data.CSS = template.CSS(Stylesheet(th, opts))
	}

	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document", data); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to render document shell")
	}
	return buf.String(), nil
}
