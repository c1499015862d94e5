package service

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/dpshade/pocket-deck/internal/assembler"
	"github.com/dpshade/pocket-deck/internal/config"
	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/export"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/renderer"
	"github.com/dpshade/pocket-deck/internal/storage"
	"github.com/dpshade/pocket-deck/internal/theme"
	"github.com/dpshade/pocket-deck/internal/validation"
)

// Service ties validation, rendering and export together for the CLI, the
// HTTP API and the terminal preview
type Service struct {
	config    *config.Config
	storage   *storage.Storage
	themes    *theme.Registry
	templates *renderer.Registry
	validator *validation.Validator
	assembler *assembler.Assembler
	clock     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithThemes uses a specific theme registry instead of the process-wide one
func WithThemes(themes *theme.Registry) Option {
	return func(s *Service) { s.themes = themes }
}

// WithTemplates uses a specific template registry
func WithTemplates(templates *renderer.Registry) Option {
	return func(s *Service) { s.templates = templates }
}

// WithClock sets the time source for generated documents
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.clock = now }
}

// NewService creates a service from cfg. Themes from the configured theme
// directories are registered on top of the built-in ones.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	svc := &Service{config: cfg, clock: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.themes == nil {
		svc.themes = theme.Default()
	}
	if svc.templates == nil {
		svc.templates = renderer.NewDefaultRegistry()
	}

	for _, dir := range cfg.ThemeDirs {
		n, err := svc.themes.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load themes: %w", err)
		}
		if n > 0 && cfg.Verbose {
			log.Printf("[THEME] loaded %d theme(s) from %s", n, dir)
		}
	}

	svc.storage = storage.NewStorage(cfg.OutputDir)
	svc.validator = validation.NewValidator(svc.themes)
	svc.assembler = assembler.New(svc.templates, svc.themes,
		assembler.WithDefaults(&cfg.Defaults),
		assembler.WithVerbose(cfg.Verbose),
		assembler.WithClock(func() time.Time { return svc.clock() }),
	)
	return svc, nil
}

// Config returns the effective configuration
func (s *Service) Config() *config.Config {
	return s.config
}

// Storage returns the file storage
func (s *Service) Storage() *storage.Storage {
	return s.storage
}

// Validator returns the spec validator
func (s *Service) Validator() *validation.Validator {
	return s.validator
}

// Validate checks an untyped spec
func (s *Service) Validate(raw map[string]interface{}) (*validation.SpecResult, error) {
	return s.validator.ValidateSpec(raw)
}

// LoadSpec reads a spec file
func (s *Service) LoadSpec(path string) (map[string]interface{}, error) {
	return s.storage.LoadSpec(path)
}

// ValidateFile loads and validates a spec file
func (s *Service) ValidateFile(path string) (*validation.SpecResult, error) {
	raw, err := s.storage.LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return s.Validate(raw)
}

// Spec loads, validates and decodes a spec file. Invalid specs are
// returned as a SPEC_VALIDATION error.
func (s *Service) Spec(path string) (*models.PresentationSpec, error) {
	result, err := s.ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, result.ToAppError()
	}
	return result.Spec, nil
}

// Generate validates raw and renders it. The validation result is returned
// alongside so callers can surface warnings.
func (s *Service) Generate(raw map[string]interface{}, opts *models.GenerationOptions) (*models.RenderedDocument, *validation.SpecResult, error) {
	result, err := s.Validate(raw)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, result.ToAppError()
	}

	doc, err := s.Render(result.Spec, opts)
	if err != nil {
		return nil, result, err
	}
	for _, w := range result.Warnings {
		doc.Metadata.Warnings = append(doc.Metadata.Warnings, w.String())
	}
	return doc, result, nil
}

// GenerateFile renders a spec file
func (s *Service) GenerateFile(path string, opts *models.GenerationOptions) (*models.RenderedDocument, *validation.SpecResult, error) {
	raw, err := s.storage.LoadSpec(path)
	if err != nil {
		return nil, nil, err
	}
	return s.Generate(raw, opts)
}

// Render assembles an already-validated spec
func (s *Service) Render(spec *models.PresentationSpec, opts *models.GenerationOptions) (*models.RenderedDocument, error) {
	return s.assembler.Assemble(spec, opts)
}

// Export validates raw and produces format. Markup formats render the deck;
// json only resolves options and the theme.
func (s *Service) Export(format export.Format, raw map[string]interface{}, opts *models.GenerationOptions) (*export.Result, error) {
	result, err := s.Validate(raw)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, result.ToAppError()
	}
	return s.ExportSpec(format, result.Spec, opts)
}

// ExportSpec produces format from an already-validated spec
func (s *Service) ExportSpec(format export.Format, spec *models.PresentationSpec, opts *models.GenerationOptions) (*export.Result, error) {
	if format == export.FormatJSON {
		resolved, _, _ := s.assembler.Resolve(spec, opts)
		return export.JSON(spec, resolved)
	}
	doc, err := s.Render(spec, opts)
	if err != nil {
		return nil, err
	}
	return export.Export(format, spec, doc)
}

// WriteDocument writes doc to path and, when styles are not embedded, the
// stylesheet it links to next to it. It returns the written paths.
func (s *Service) WriteDocument(doc *models.RenderedDocument, path string) ([]string, error) {
	if err := s.storage.WriteFile(path, []byte(doc.HTML)); err != nil {
		return nil, err
	}
	written := []string{s.storage.OutputPath(path)}

	if !doc.Options.EmbedStyles {
		th, ok := s.themes.Lookup(doc.Metadata.Theme)
		if !ok {
			th = theme.Builtin()[0]
		}
		cssPath := filepath.Join(filepath.Dir(path), assembler.StylesheetName)
		if err := s.storage.WriteFile(cssPath, []byte(assembler.Stylesheet(th, doc.Options))); err != nil {
			return written, err
		}
		written = append(written, s.storage.OutputPath(cssPath))
	}
	return written, nil
}

// WriteExport writes an export result to path
func (s *Service) WriteExport(res *export.Result, path string) (string, error) {
	if err := s.storage.WriteFile(path, res.Data); err != nil {
		return "", err
	}
	return s.storage.OutputPath(path), nil
}

// DefaultOutputPath derives an output file name from a spec path
func DefaultOutputPath(specPath string, ext string) string {
	base := filepath.Base(specPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// Themes returns the registered themes sorted by id
func (s *Service) Themes() []*models.Theme {
	return s.themes.List()
}

// Theme returns one theme or a NOT_FOUND error
func (s *Service) Theme(id string) (*models.Theme, error) {
	t, err := s.themes.Get(id)
	if err != nil {
		if suggestion := validation.Suggest(id, s.themes.IDs()); suggestion != "" && apperrors.IsAppError(err) {
			apperrors.GetAppError(err).WithDetails(fmt.Sprintf("did you mean '%s'?", suggestion))
		}
		return nil, err
	}
	return t, nil
}

// Capabilities describes what this build can render
type Capabilities struct {
	SlideKinds    []models.SlideKind   `json:"slideKinds"`
	ChartKinds    []models.ChartKind   `json:"chartKinds"`
	ExportFormats []export.Format      `json:"exportFormats"`
	AspectRatios  []models.AspectRatio `json:"aspectRatios"`
	FontSizes     []models.FontSize    `json:"fontSizes"`
	Themes        []string             `json:"themes"`
}

// Capabilities reports the live template and theme registries
func (s *Service) Capabilities() Capabilities {
	return Capabilities{
		SlideKinds:    s.templates.Kinds(),
		ChartKinds:    models.ChartKinds(),
		ExportFormats: export.Formats(),
		AspectRatios:  models.AspectRatios(),
		FontSizes:     models.FontSizes(),
		Themes:        s.themes.IDs(),
	}
}

// RegisterTemplate adds a renderer for a slide kind
func (s *Service) RegisterTemplate(kind models.SlideKind, fn renderer.RenderFunc) error {
	return s.templates.Register(kind, fn)
}
