package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/svg"
)

const tickCount = 5

type plot struct {
	X, Y, W, H float64
}

func (p plot) bottom() float64 { return p.Y + p.H }
func (p plot) right() float64  { return p.X + p.W }

func layoutPlot(bounds Bounds, style Style, withLegend bool) plot {
	top, right, bottom, left := 8.0, 12.0, 28.0, 52.0
	if withLegend {
		top += 22
	}
	if style.XLabel != "" {
		bottom += 18
	}
	if style.YLabel != "" {
		left += 18
	}
	p := plot{
		X: bounds.X + left,
		Y: bounds.Y + top,
		W: bounds.Width - left - right,
		H: bounds.Height - top - bottom,
	}
	if p.W < 10 {
		p.W = 10
	}
	if p.H < 10 {
		p.H = 10
	}
	return p
}

// valueRange returns the extent of the first n values of every series
func valueRange(series []models.Series, n int) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i, v := range s.Values {
			if i >= n {
				break
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if math.IsInf(min, 1) {
		return 0, 0
	}
	return min, max
}

// valueAxis draws horizontal gridlines with tick labels, the y axis and the zero line
func valueAxis(y LinearScale, p plot, style Style) []svg.Element {
	var out []svg.Element
	if style.ShowGrid {
		var grid []svg.Element
		for _, tick := range y.Ticks(tickCount) {
			py := y.Map(tick)
			grid = append(grid,
				svg.Line{X1: p.X, Y1: py, X2: p.right(), Y2: py, Style: svg.Style{Stroke: style.GridColor, StrokeWidth: 1, Dash: "2 3"}},
				svg.Text{X: p.X - 8, Y: py, Content: FormatValue(tick), Anchor: "end", Baseline: "middle", Size: style.FontSize, Style: svg.Style{Fill: style.AxisColor}},
			)
		}
		out = append(out, svg.Group{Class: "chart-grid", Children: grid})
	}
	out = append(out,
		svg.Line{X1: p.X, Y1: p.Y, X2: p.X, Y2: p.bottom(), Style: svg.Style{Stroke: style.AxisColor, StrokeWidth: 1, Class: "chart-axis"}},
		svg.Line{X1: p.X, Y1: y.Map(0), X2: p.right(), Y2: y.Map(0), Style: svg.Style{Stroke: style.AxisColor, StrokeWidth: 1, Class: "chart-baseline"}},
	)
	return out
}

func axisTitles(p plot, style Style) []svg.Element {
	var out []svg.Element
	if style.XLabel != "" {
		out = append(out, svg.Text{
			X: p.X + p.W/2, Y: p.bottom() + 38, Content: style.XLabel, Anchor: "middle", Size: style.FontSize,
			Style: svg.Style{Fill: style.TextColor, Class: "chart-axis-title"},
		})
	}
	if style.YLabel != "" {
		out = append(out, svg.Group{
			Transform: "rotate(-90 " + svg.Num(p.X-56) + " " + svg.Num(p.Y+p.H/2) + ")",
			Children: []svg.Element{svg.Text{
				X: p.X - 56, Y: p.Y + p.H/2, Content: style.YLabel, Anchor: "middle", Size: style.FontSize,
				Style: svg.Style{Fill: style.TextColor, Class: "chart-axis-title"},
			}},
		})
	}
	return out
}

func seriesNames(series []models.Series) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
		if strings.TrimSpace(names[i]) == "" {
			names[i] = "Series " + strconv.Itoa(i+1)
		}
	}
	return names
}

func seriesColors(series []models.Series, style Style) []string {
	colors := make([]string, len(series))
	for i, s := range series {
		colors[i] = style.SeriesColor(s, i)
	}
	return colors
}

// renderCategorical draws bar, line and area charts over a band scale
func renderCategorical(kind models.ChartKind, data models.ChartDataset, bounds Bounds, style Style) []svg.Element {
	n := data.CategoryCount()
	if n == 0 {
		return placeholder(bounds, style)
	}

	withLegend := style.ShowLegend && len(data.Series) > 1
	p := layoutPlot(bounds, style, withLegend)
	min, max := valueRange(data.Series, n)
	y := NewLinearScale(min, max, p.bottom(), p.Y).Nice(tickCount)
	x := NewBandScale(n, p.X, p.right(), style.Padding)
	baseline := y.Map(0)

	out := valueAxis(y, p, style)

	var labels []svg.Element
	for i := 0; i < n; i++ {
		labels = append(labels, svg.Text{
			X: x.Center(i), Y: p.bottom() + 16, Content: data.Labels[i], Anchor: "middle", Size: style.FontSize,
			Style: svg.Style{Fill: style.TextColor},
		})
	}
	out = append(out, svg.Group{Class: "chart-labels", Children: labels})

	colors := seriesColors(data.Series, style)
	switch kind {
	case models.ChartBar:
		out = append(out, bars(data.Series, n, x, y, baseline, colors, style)...)
	case models.ChartLine:
		out = append(out, lines(data.Series, n, x, y, baseline, colors, style, false)...)
	case models.ChartArea:
		out = append(out, lines(data.Series, n, x, y, baseline, colors, style, true)...)
	}

	out = append(out, axisTitles(p, style)...)
	if withLegend {
		out = append(out, legend(seriesNames(data.Series), colors, p.X, bounds.Y+6, style)...)
	}
	return out
}

// bars splits each band evenly between series; every bar is anchored at the zero line
func bars(series []models.Series, n int, x BandScale, y LinearScale, baseline float64, colors []string, style Style) []svg.Element {
	sub := x.Bandwidth() / float64(len(series))
	var out []svg.Element
	for si, s := range series {
		var group []svg.Element
		for ci := 0; ci < n && ci < len(s.Values); ci++ {
			v := s.Values[ci]
			py := y.Map(v)
			top := math.Min(py, baseline)
			bx := x.Position(ci) + float64(si)*sub
			group = append(group, svg.Rect{
				X: bx, Y: top, Width: sub, Height: math.Abs(py - baseline),
				Style: svg.Style{Fill: colors[si], Class: "chart-bar"},
			})
			if style.ShowValues {
				ly := py - 4
				if v < 0 {
					ly = py + style.FontSize + 2
				}
				group = append(group, svg.Text{
					X: bx + sub/2, Y: ly, Content: FormatValue(v), Anchor: "middle", Size: style.FontSize * 0.9,
					Style: svg.Style{Fill: style.TextColor, Class: "chart-value"},
				})
			}
		}
		out = append(out, svg.Group{Class: "chart-series", Children: group})
	}
	return out
}

// lines draws one polyline per series through band centers; filled areas close to the zero line
func lines(series []models.Series, n int, x BandScale, y LinearScale, baseline float64, colors []string, style Style, filled bool) []svg.Element {
	var out []svg.Element
	for si, s := range series {
		count := n
		if len(s.Values) < count {
			count = len(s.Values)
		}
		if count == 0 {
			continue
		}

		var d strings.Builder
		var markers []svg.Element
		for ci := 0; ci < count; ci++ {
			px, py := x.Center(ci), y.Map(s.Values[ci])
			if ci == 0 {
				d.WriteString("M" + svg.Num(px) + " " + svg.Num(py))
			} else {
				d.WriteString(" L" + svg.Num(px) + " " + svg.Num(py))
			}
			markers = append(markers, svg.Circle{CX: px, CY: py, R: 3.5, Style: svg.Style{Fill: colors[si], Class: "chart-point"}})
			if style.ShowValues {
				markers = append(markers, svg.Text{
					X: px, Y: py - 8, Content: FormatValue(s.Values[ci]), Anchor: "middle", Size: style.FontSize * 0.9,
					Style: svg.Style{Fill: style.TextColor, Class: "chart-value"},
				})
			}
		}

		var group []svg.Element
		if filled {
			area := d.String() +
				" L" + svg.Num(x.Center(count-1)) + " " + svg.Num(baseline) +
				" L" + svg.Num(x.Center(0)) + " " + svg.Num(baseline) + " Z"
			group = append(group, svg.Path{D: area, Style: svg.Style{Fill: colors[si], Opacity: 0.3, Class: "chart-area"}})
		}
		group = append(group, svg.Path{D: d.String(), Style: svg.Style{Fill: "none", Stroke: colors[si], StrokeWidth: 2.5, Class: "chart-line"}})
		group = append(group, markers...)
		out = append(out, svg.Group{Class: "chart-series", Children: group})
	}
	return out
}

// scatterPoints returns explicit points, or values paired with their label index
func scatterPoints(data models.ChartDataset, s models.Series) []models.Point {
	if len(s.Points) > 0 {
		return s.Points
	}
	count := len(s.Values)
	if len(data.Labels) > 0 && len(data.Labels) < count {
		count = len(data.Labels)
	}
	pts := make([]models.Point, count)
	for i := 0; i < count; i++ {
		pts[i] = models.Point{X: float64(i), Y: s.Values[i]}
	}
	return pts
}

func renderScatter(data models.ChartDataset, bounds Bounds, style Style) []svg.Element {
	all := make([][]models.Point, len(data.Series))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	total := 0
	for i, s := range data.Series {
		all[i] = scatterPoints(data, s)
		for _, pt := range all[i] {
			minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
			minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
			total++
		}
	}
	if total == 0 {
		return placeholder(bounds, style)
	}

	withLegend := style.ShowLegend && len(data.Series) > 1
	p := layoutPlot(bounds, style, withLegend)
	x := NewLinearScale(minX, maxX, p.X, p.right()).Nice(tickCount)
	y := NewLinearScale(minY, maxY, p.bottom(), p.Y).Nice(tickCount)

	out := valueAxis(y, p, style)

	var xTicks []svg.Element
	for _, tick := range x.Ticks(tickCount) {
		px := x.Map(tick)
		if style.ShowGrid {
			xTicks = append(xTicks, svg.Line{X1: px, Y1: p.Y, X2: px, Y2: p.bottom(), Style: svg.Style{Stroke: style.GridColor, StrokeWidth: 1, Dash: "2 3"}})
		}
		xTicks = append(xTicks, svg.Text{X: px, Y: p.bottom() + 16, Content: FormatValue(tick), Anchor: "middle", Size: style.FontSize, Style: svg.Style{Fill: style.AxisColor}})
	}
	out = append(out, svg.Group{Class: "chart-labels", Children: xTicks})

	colors := seriesColors(data.Series, style)
	for si, pts := range all {
		var group []svg.Element
		for _, pt := range pts {
			group = append(group, svg.Circle{
				CX: x.Map(pt.X), CY: y.Map(pt.Y), R: 4.5,
				Style: svg.Style{Fill: colors[si], Opacity: 0.85, Class: "chart-point"},
			})
		}
		out = append(out, svg.Group{Class: "chart-series", Children: group})
	}

	out = append(out, axisTitles(p, style)...)
	if withLegend {
		out = append(out, legend(seriesNames(data.Series), colors, p.X, bounds.Y+6, style)...)
	}
	return out
}
