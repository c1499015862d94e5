package chart

import (
	"math"
	"strconv"

	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/svg"
)

// StartAngle is where the first slice begins: twelve o'clock
const StartAngle = -math.Pi / 2

// Slice is one wedge of a pie or doughnut. Angles are in radians,
// measured clockwise in screen space.
type Slice struct {
	Index      int
	Value      float64
	Fraction   float64
	StartAngle float64
	EndAngle   float64
}

// Sweep is the angular size of the slice
func (s Slice) Sweep() float64 {
	return s.EndAngle - s.StartAngle
}

// Slices lays values out clockwise from twelve o'clock in input order.
// Non-positive values get no slice. Returns nil when nothing is positive.
func Slices(values []float64) []Slice {
	// Summing relative to the largest value keeps huge inputs finite.
	largest := 0.0
	for _, v := range values {
		if v > largest {
			largest = v
		}
	}
	if largest == 0 {
		return nil
	}
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v / largest
		}
	}

	var out []Slice
	angle := StartAngle
	for i, v := range values {
		if v <= 0 {
			continue
		}
		fraction := v / largest / total
		sweep := 2 * math.Pi * fraction
		out = append(out, Slice{Index: i, Value: v, Fraction: fraction, StartAngle: angle, EndAngle: angle + sweep})
		angle += sweep
	}
	return out
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

func arcFlag(sweep float64) string {
	if sweep > math.Pi {
		return "1"
	}
	return "0"
}

// slicePath builds the outline of a wedge, or of a ring segment when inner > 0
func slicePath(cx, cy, outer, inner float64, s Slice) string {
	ox0, oy0 := polar(cx, cy, outer, s.StartAngle)
	ox1, oy1 := polar(cx, cy, outer, s.EndAngle)
	large := arcFlag(s.Sweep())
	r := svg.Num(outer)

	if inner <= 0 {
		return "M" + svg.Num(cx) + " " + svg.Num(cy) +
			" L" + svg.Num(ox0) + " " + svg.Num(oy0) +
			" A" + r + " " + r + " 0 " + large + " 1 " + svg.Num(ox1) + " " + svg.Num(oy1) +
			" Z"
	}

	ix0, iy0 := polar(cx, cy, inner, s.StartAngle)
	ix1, iy1 := polar(cx, cy, inner, s.EndAngle)
	ir := svg.Num(inner)
	return "M" + svg.Num(ox0) + " " + svg.Num(oy0) +
		" A" + r + " " + r + " 0 " + large + " 1 " + svg.Num(ox1) + " " + svg.Num(oy1) +
		" L" + svg.Num(ix1) + " " + svg.Num(iy1) +
		" A" + ir + " " + ir + " 0 " + large + " 0 " + svg.Num(ix0) + " " + svg.Num(iy0) +
		" Z"
}

// radialValues returns the primary series truncated to the label count
func radialValues(data models.ChartDataset) []float64 {
	values := data.Series[0].Values
	if len(data.Labels) < len(values) {
		values = values[:len(data.Labels)]
	}
	return values
}

func renderRadial(kind models.ChartKind, data models.ChartDataset, bounds Bounds, style Style) []svg.Element {
	values := radialValues(data)
	slices := Slices(values)
	if len(slices) == 0 {
		return placeholder(bounds, style)
	}

	area := bounds
	legendWidth := 0.0
	if style.ShowLegend && len(data.Labels) > 0 {
		legendWidth = math.Min(bounds.Width*0.35, 220)
		area.Width -= legendWidth
	}

	cx := area.X + area.Width/2
	cy := area.Y + area.Height/2
	outer := math.Max(math.Min(area.Width, area.Height)/2-8, 4)
	inner := 0.0
	if kind == models.ChartDoughnut {
		inner = outer * style.InnerRadius
	}

	var wedges []svg.Element
	for _, s := range slices {
		color := style.PaletteColor(s.Index)
		if s.Sweep() >= 2*math.Pi-1e-9 {
			// A lone slice cannot be drawn as an arc from a point to itself.
			if inner > 0 {
				wedges = append(wedges, svg.Circle{CX: cx, CY: cy, R: (outer + inner) / 2,
					Style: svg.Style{Fill: "none", Stroke: color, StrokeWidth: outer - inner, Class: "chart-slice"}})
			} else {
				wedges = append(wedges, svg.Circle{CX: cx, CY: cy, R: outer, Style: svg.Style{Fill: color, Class: "chart-slice"}})
			}
		} else {
			wedges = append(wedges, svg.Path{
				D:     slicePath(cx, cy, outer, inner, s),
				Style: svg.Style{Fill: color, Stroke: svg.Ref("background"), StrokeWidth: 1.5, Class: "chart-slice"},
			})
		}

		if style.ShowValues {
			mid := s.StartAngle + s.Sweep()/2
			labelRadius := outer * 0.65
			if inner > 0 {
				labelRadius = (outer + inner) / 2
			}
			lx, ly := polar(cx, cy, labelRadius, mid)
			wedges = append(wedges, svg.Text{
				X: lx, Y: ly, Content: strconv.Itoa(int(math.Round(s.Fraction*100))) + "%",
				Anchor: "middle", Baseline: "middle", Size: style.FontSize, Weight: "600",
				Style: svg.Style{Fill: "#ffffff", Class: "chart-value"},
			})
		}
	}

	out := []svg.Element{svg.Group{Class: "chart-slices", Children: wedges}}

	if legendWidth > 0 {
		n := len(values)
		if len(data.Labels) < n {
			n = len(data.Labels)
		}
		entries := make([]string, n)
		colors := make([]string, n)
		for i := 0; i < n; i++ {
			entries[i] = data.Labels[i]
			colors[i] = style.PaletteColor(i)
		}
		top := cy - float64(n)*style.FontSize*1.6/2
		out = append(out, verticalLegend(entries, colors, area.X+area.Width+8, math.Max(top, bounds.Y+4), style)...)
	}
	return out
}
