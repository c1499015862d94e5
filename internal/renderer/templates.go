package renderer

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"markdown":  Markdown,
	"inline":    InlineMarkdown,
	"url":       safeURL,
	"inc":       func(i int) int { return i + 1 },
	"trendIcon": trendIcon,
	"initials":  initials,
}

var slideTemplates = template.Must(template.New("slides").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// view is the data handed to a slide template
type view struct {
	Body   models.SlideBody
	Reveal bool
	Chart  template.HTML
	Code   template.HTML
}

// prepareFunc fills the parts of a view that need Go code rather than template logic
type prepareFunc func(ctx *RenderContext, slide *models.Slide, v *view) error

// TemplateRenderer returns a RenderFunc that executes the named embedded template
func TemplateRenderer(name string, prepare prepareFunc) RenderFunc {
	return func(ctx *RenderContext, slide *models.Slide) (template.HTML, error) {
		if slide.Body == nil {
			return "", apperrors.InternalError("slide has no decoded body").WithContext("kind", string(slide.Kind))
		}

		v := &view{Body: slide.Body, Reveal: slide.Reveal}
		if prepare != nil {
			if err := prepare(ctx, slide, v); err != nil {
				return "", err
			}
		}

		var buf bytes.Buffer
		if err := slideTemplates.ExecuteTemplate(&buf, name, v); err != nil {
			return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to execute slide template").
				WithContext("template", name).WithContext("index", ctx.Index)
		}
		return template.HTML(buf.String()), nil
	}
}

// NewDefaultRegistry returns a registry with a renderer for every built-in slide kind
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	plain := []models.SlideKind{
		models.KindTitle, models.KindContent, models.KindMedia, models.KindQuote,
		models.KindTimeline, models.KindComparison, models.KindProcess,
		models.KindSectionHeader, models.KindBlank, models.KindHero,
		models.KindProductOverview, models.KindGrid, models.KindFeatureCards,
		models.KindTeam, models.KindPricing,
	}
	for _, kind := range plain {
		mustRegister(r, kind, TemplateRenderer(string(kind), nil))
	}

	for _, kind := range []models.SlideKind{models.KindTwoColumn, models.KindThreeColumn, models.KindFourColumn} {
		mustRegister(r, kind, TemplateRenderer("columns", nil))
	}

	mustRegister(r, models.KindData, TemplateRenderer("data", prepareData))
	mustRegister(r, models.KindChartWithMetrics, TemplateRenderer("chart-with-metrics", prepareChartWithMetrics))
	mustRegister(r, models.KindCode, TemplateRenderer("code", prepareCode))

	return r
}

func mustRegister(r *Registry, kind models.SlideKind, fn RenderFunc) {
	if err := r.Register(kind, fn); err != nil {
		panic(err)
	}
}

func prepareData(ctx *RenderContext, slide *models.Slide, v *view) error {
	body := slide.Body.(*models.DataSlide)
	if body.Table != nil {
		return nil
	}
	w, h := ctx.Options.AspectRatio.Dimensions()
	markup, err := renderChart(ctx, body.Chart, float64(w-160), float64(h-240), body.Title)
	if err != nil {
		return err
	}
	v.Chart = markup
	return nil
}

func prepareChartWithMetrics(ctx *RenderContext, slide *models.Slide, v *view) error {
	body := slide.Body.(*models.ChartWithMetricsSlide)
	w, h := ctx.Options.AspectRatio.Dimensions()
	width := float64(w-160) * 0.64
	if len(body.Metrics) == 0 {
		width = float64(w - 160)
	}
	markup, err := renderChart(ctx, body.Chart, width, float64(h-260), body.Title)
	if err != nil {
		return err
	}
	v.Chart = markup
	return nil
}

func prepareCode(ctx *RenderContext, slide *models.Slide, v *view) error {
	body := slide.Body.(*models.CodeSlide)
	v.Code = Highlight(body.Code, body.Language, ctx.Theme.CodeStyle, body.LineNumbers, body.Highlight)
	return nil
}

// safeURL passes URLs the validator accepts and neutralizes everything else
func safeURL(raw string) template.URL {
	if !validation.IsSafeURL(raw) {
		return "#"
	}
	return template.URL(strings.TrimSpace(raw))
}

func trendIcon(trend string) string {
	switch trend {
	case "up":
		return "▲"
	case "down":
		return "▼"
	case "flat":
		return "▬"
	}
	return ""
}

// initials returns up to two leading letters of a name for avatar placeholders
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
