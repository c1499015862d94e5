// Package chart turns chart datasets into SVG primitives.
//
// Render is a pure function of (kind, dataset, bounds, style): it never
// touches the theme registry and returns elements that the svg builder
// serializes. Colors may be theme references (svg.Ref) so the same element
// list can be drawn against any theme.
package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/svg"
)

// DefaultPalette is used when the style carries no palette
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Bounds is the drawing area of a chart in SVG user units
type Bounds struct {
	X, Y, Width, Height float64
}

// Style controls presentation. Zero values fall back to defaults.
type Style struct {
	Palette     []string
	Padding     float64 // band padding, 0..1
	ShowGrid    bool
	ShowLegend  bool
	ShowValues  bool
	InnerRadius float64 // doughnut hole as a fraction of the radius
	FontSize    float64
	TextColor   string
	AxisColor   string
	GridColor   string
	XLabel      string
	YLabel      string
}

// DefaultStyle returns the style used by slide renderers
func DefaultStyle() Style {
	return Style{
		Palette:    DefaultPalette,
		Padding:    0.2,
		ShowGrid:   true,
		ShowLegend: true,
	}.withDefaults()
}

func (s Style) withDefaults() Style {
	if len(s.Palette) == 0 {
		s.Palette = DefaultPalette
	}
	if s.Padding <= 0 || s.Padding >= 1 {
		s.Padding = 0.2
	}
	if s.InnerRadius <= 0 || s.InnerRadius >= 1 {
		s.InnerRadius = 0.6
	}
	if s.FontSize <= 0 {
		s.FontSize = 12
	}
	if s.TextColor == "" {
		s.TextColor = svg.Ref("text")
	}
	if s.AxisColor == "" {
		s.AxisColor = svg.Ref("muted")
	}
	if s.GridColor == "" {
		s.GridColor = svg.Ref("border")
	}
	return s
}

// SeriesColor returns the explicit series color or the palette entry for idx
func (s Style) SeriesColor(series models.Series, idx int) string {
	if series.Color != "" {
		return series.Color
	}
	return s.PaletteColor(idx)
}

// PaletteColor cycles through the palette deterministically
func (s Style) PaletteColor(idx int) string {
	palette := s.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if idx < 0 {
		idx = -idx
	}
	return palette[idx%len(palette)]
}

// Render produces the primitives for one chart
func Render(kind models.ChartKind, data models.ChartDataset, bounds Bounds, style Style) ([]svg.Element, error) {
	if !kind.Valid() {
		return nil, shapeError(kind, fmt.Sprintf("unsupported chart type '%s'", kind))
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, shapeError(kind, "chart bounds must have positive width and height")
	}
	if _, err := checkDataset(kind, data); err != nil {
		return nil, err
	}

	style = style.withDefaults()

	switch kind {
	case models.ChartPie, models.ChartDoughnut:
		return renderRadial(kind, data, bounds, style), nil
	case models.ChartScatter:
		return renderScatter(data, bounds, style), nil
	default:
		return renderCategorical(kind, data, bounds, style), nil
	}
}

// RenderSVG renders a chart straight to markup, resolving theme references against colors
func RenderSVG(kind models.ChartKind, data models.ChartDataset, width, height float64, style Style, colors map[string]string, title string) (string, error) {
	elements, err := Render(kind, data, Bounds{Width: width, Height: height}, style)
	if err != nil {
		return "", err
	}
	return svg.NewBuilder(width, height).
		WithColors(colors).
		WithTitle(title).
		WithClass("chart chart-" + string(kind)).
		Add(elements...).
		Serialize(), nil
}

// FormatValue formats a tick or data label
func FormatValue(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// placeholder is drawn for charts that have nothing to plot
func placeholder(bounds Bounds, style Style) []svg.Element {
	return []svg.Element{
		svg.Rect{
			X: bounds.X + 1, Y: bounds.Y + 1, Width: bounds.Width - 2, Height: bounds.Height - 2, RX: 6,
			Style: svg.Style{Fill: "none", Stroke: style.GridColor, StrokeWidth: 1, Dash: "6 4", Class: "chart-empty"},
		},
		svg.Text{
			X: bounds.X + bounds.Width/2, Y: bounds.Y + bounds.Height/2,
			Content: "No data", Anchor: "middle", Baseline: "middle", Size: style.FontSize * 1.2,
			Style: svg.Style{Fill: style.AxisColor, Class: "chart-empty-label"},
		},
	}
}

// legend draws a horizontal row of swatches starting at (x, y)
func legend(entries []string, colors []string, x, y float64, style Style) []svg.Element {
	var out []svg.Element
	cursor := x
	for i, label := range entries {
		out = append(out,
			svg.Rect{X: cursor, Y: y, Width: 10, Height: 10, RX: 2, Style: svg.Style{Fill: colors[i]}},
			svg.Text{X: cursor + 14, Y: y + 9, Content: label, Size: style.FontSize, Style: svg.Style{Fill: style.TextColor}},
		)
		cursor += 14 + float64(len([]rune(label)))*style.FontSize*0.6 + 16
	}
	return []svg.Element{svg.Group{Class: "chart-legend", Children: out}}
}

// verticalLegend draws one swatch per line starting at (x, y)
func verticalLegend(entries []string, colors []string, x, y float64, style Style) []svg.Element {
	var out []svg.Element
	lineHeight := style.FontSize * 1.6
	for i, label := range entries {
		top := y + float64(i)*lineHeight
		out = append(out,
			svg.Rect{X: x, Y: top, Width: 10, Height: 10, RX: 2, Style: svg.Style{Fill: colors[i]}},
			svg.Text{X: x + 14, Y: top + 9, Content: label, Size: style.FontSize, Style: svg.Style{Fill: style.TextColor}},
		)
	}
	return []svg.Element{svg.Group{Class: "chart-legend", Children: out}}
}
