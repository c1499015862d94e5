package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/svg"
	"github.com/dpshade/pocket-deck/internal/theme"
)

// RenderContext carries everything a slide renderer may depend on besides the slide itself
type RenderContext struct {
	Options models.ResolvedOptions
	Theme   *models.Theme
	Colors  map[string]string // theme colors plus derived shades, for theme:<name> lookups
	Index   int
	Total   int
}

// NewRenderContext prepares a context for a deck of total slides. A nil theme
// means the built-in default.
func NewRenderContext(opts models.ResolvedOptions, t *models.Theme, total int) *RenderContext {
	if t == nil {
		t = theme.Builtin()[0]
	}
	return &RenderContext{
		Options: opts,
		Theme:   t,
		Colors:  theme.Derived(t),
		Total:   total,
	}
}

// At returns a copy of the context positioned at slide index i
func (c *RenderContext) At(i int) *RenderContext {
	cp := *c
	cp.Index = i
	return &cp
}

// RenderFunc renders the inner markup of one slide. It must escape all user text.
type RenderFunc func(ctx *RenderContext, slide *models.Slide) (template.HTML, error)

// Registry maps slide kinds to renderers
type Registry struct {
	renderers map[models.SlideKind]RenderFunc
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[models.SlideKind]RenderFunc)}
}

// Register adds a renderer for kind. Registering a kind twice is an error;
// use Replace to override a renderer.
func (r *Registry) Register(kind models.SlideKind, fn RenderFunc) error {
	if fn == nil {
		return apperrors.InvalidInputError(fmt.Sprintf("renderer for '%s' is nil", kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[kind]; exists {
		return apperrors.AlreadyExistsError(fmt.Sprintf("renderer for slide type '%s'", kind))
	}
	r.renderers[kind] = fn
	return nil
}

// Replace sets the renderer for kind, whether or not one exists
func (r *Registry) Replace(kind models.SlideKind, fn RenderFunc) error {
	if fn == nil {
		return apperrors.InvalidInputError(fmt.Sprintf("renderer for '%s' is nil", kind))
	}

	r.mu.Lock()
	r.renderers[kind] = fn
	r.mu.Unlock()
	return nil
}

// Has reports whether kind has a renderer
func (r *Registry) Has(kind models.SlideKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[kind]
	return ok
}

// Kinds lists the registered kinds: built-in kinds in declaration order, then
// any others sorted by name
func (r *Registry) Kinds() []models.SlideKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]models.SlideKind, 0, len(r.renderers))
	seen := make(map[models.SlideKind]bool, len(r.renderers))
	for _, k := range models.SlideKinds() {
		if _, ok := r.renderers[k]; ok {
			kinds = append(kinds, k)
			seen[k] = true
		}
	}
	var extra []models.SlideKind
	for k := range r.renderers {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(kinds, extra...)
}

func (r *Registry) lookup(kind models.SlideKind) (RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[kind]
	return fn, ok
}

// frameData is the slide container around a renderer's output
type frameData struct {
	Kind       models.SlideKind
	ID         string
	Index      int
	Number     int
	Total      int
	Style      template.CSS
	Reveal     bool
	Body       template.HTML
	Notes      template.HTML
	ShowNumber bool
}

// Dispatch renders slide through the renderer registered for its kind and
// wraps the result in the slide container
func (r *Registry) Dispatch(ctx *RenderContext, slide *models.Slide) (template.HTML, error) {
	fn, ok := r.lookup(slide.Kind)
	if !ok {
		return "", apperrors.UnknownTemplateError(string(slide.Kind))
	}

	body, err := fn(ctx, slide)
	if err != nil {
		return "", err
	}

	frame := frameData{
		Kind:       slide.Kind,
		ID:         slide.ID,
		Index:      ctx.Index,
		Number:     ctx.Index + 1,
		Total:      ctx.Total,
		Reveal:     slide.Reveal,
		Body:       body,
		ShowNumber: ctx.Options.SlideNumbers,
	}
	if frame.ID == "" {
		frame.ID = fmt.Sprintf("slide-%d", frame.Number)
	}
	if bg, ok := backgroundColor(ctx, slide.Background); ok {
		frame.Style = template.CSS("background: " + bg)
	}
	if slide.Notes != "" {
		frame.Notes = sanitizeNotes(slide.Notes)
	}

	var buf bytes.Buffer
	if err := slideTemplates.ExecuteTemplate(&buf, "frame", frame); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to render slide container").
			WithContext("kind", string(slide.Kind)).WithContext("index", ctx.Index)
	}
	return template.HTML(buf.String()), nil
}

// backgroundColor resolves a slide background to a concrete color literal.
// Unresolved theme references and anything that is not a color are dropped,
// since the value lands in a style attribute as trusted CSS.
func backgroundColor(ctx *RenderContext, value string) (string, bool) {
	if value == "" || !theme.IsColor(value) {
		return "", false
	}
	c := strings.TrimSpace(resolveColor(ctx, value))
	if strings.HasPrefix(c, svg.ThemePrefix) || !theme.IsColor(c) {
		return "", false
	}
	return c, true
}

// resolveColor maps a color or theme reference to a CSS value
func resolveColor(ctx *RenderContext, value string) string {
	if name, ok := strings.CutPrefix(value, svg.ThemePrefix); ok {
		if c, ok := ctx.Colors[name]; ok {
			return c
		}
	}
	return value
}
