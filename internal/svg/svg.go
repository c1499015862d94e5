// Package svg builds deterministic SVG markup.
//
// Elements are plain values; a Builder collects them in call order and
// serializes them with a fixed attribute order and fixed numeric precision,
// so identical call sequences always produce byte-identical output.
// Color attributes may hold "theme:<name>" references, which are resolved
// against the builder's color table at serialize time.
package svg

import (
	"math"
	"strconv"
	"strings"
)

// ThemePrefix marks a color reference resolved at serialize time
const ThemePrefix = "theme:"

// Ref returns a theme color reference for name
func Ref(name string) string {
	return ThemePrefix + name
}

// Style holds the presentation attributes shared by all shapes
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64 // 0 means unset
	Dash        string
	Class       string
}

// Element is a drawable SVG node
type Element interface {
	writeTo(w *writer)
}

// Rect is an axis-aligned rectangle
type Rect struct {
	X, Y, Width, Height float64
	RX                  float64
	Style
}

// Circle is a circle
type Circle struct {
	CX, CY, R float64
	Style
}

// Line is a straight segment
type Line struct {
	X1, Y1, X2, Y2 float64
	Style
}

// Path is an arbitrary path; D is written verbatim
type Path struct {
	D string
	Style
}

// Text is a single line of text
type Text struct {
	X, Y     float64
	Content  string
	Anchor   string // start, middle, end
	Baseline string // dominant-baseline
	Size     float64
	Weight   string
	Style
}

// Pt is a polygon vertex
type Pt struct {
	X, Y float64
}

// Polygon is a closed shape through Points
type Polygon struct {
	Points []Pt
	Style
}

// Group wraps children in a <g>
type Group struct {
	Class     string
	Transform string
	Children  []Element
}

// Stop is a gradient color stop
type Stop struct {
	Offset  float64 // 0..1
	Color   string
	Opacity float64 // 0 means unset
}

// Gradient is a linear gradient definition placed in <defs>
type Gradient struct {
	ID             string
	X1, Y1, X2, Y2 float64 // 0..1 fractions
	Stops          []Stop
}

// URL returns the paint reference for use in Fill or Stroke
func (g Gradient) URL() string {
	return "url(#" + g.ID + ")"
}

// Resolver maps a theme color name to a concrete color
type Resolver func(name string) (string, bool)

type writer struct {
	sb      strings.Builder
	resolve Resolver
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape escapes s for use in SVG text or attribute values
func Escape(s string) string {
	return escaper.Replace(s)
}

// Num formats v with at most two decimals and no trailing zeros
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (w *writer) color(value string) string {
	if strings.HasPrefix(value, ThemePrefix) && w.resolve != nil {
		if c, ok := w.resolve(strings.TrimPrefix(value, ThemePrefix)); ok {
			return c
		}
	}
	return value
}

func (w *writer) attr(name, value string) {
	w.sb.WriteByte(' ')
	w.sb.WriteString(name)
	w.sb.WriteString(`="`)
	w.sb.WriteString(Escape(value))
	w.sb.WriteByte('"')
}

func (w *writer) num(name string, v float64) {
	w.attr(name, Num(v))
}

func (w *writer) style(s Style) {
	if s.Class != "" {
		w.attr("class", s.Class)
	}
	if s.Fill != "" {
		w.attr("fill", w.color(s.Fill))
	}
	if s.Stroke != "" {
		w.attr("stroke", w.color(s.Stroke))
	}
	if s.StrokeWidth > 0 {
		w.num("stroke-width", s.StrokeWidth)
	}
	if s.Dash != "" {
		w.attr("stroke-dasharray", s.Dash)
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		w.num("opacity", s.Opacity)
	}
}

func (r Rect) writeTo(w *writer) {
	w.sb.WriteString("<rect")
	w.num("x", r.X)
	w.num("y", r.Y)
	w.num("width", math.Max(r.Width, 0))
	w.num("height", math.Max(r.Height, 0))
	if r.RX > 0 {
		w.num("rx", r.RX)
	}
	w.style(r.Style)
	w.sb.WriteString("/>")
}

func (c Circle) writeTo(w *writer) {
	w.sb.WriteString("<circle")
	w.num("cx", c.CX)
	w.num("cy", c.CY)
	w.num("r", math.Max(c.R, 0))
	w.style(c.Style)
	w.sb.WriteString("/>")
}

func (l Line) writeTo(w *writer) {
	w.sb.WriteString("<line")
	w.num("x1", l.X1)
	w.num("y1", l.Y1)
	w.num("x2", l.X2)
	w.num("y2", l.Y2)
	w.style(l.Style)
	w.sb.WriteString("/>")
}

func (p Path) writeTo(w *writer) {
	w.sb.WriteString("<path")
	w.attr("d", p.D)
	w.style(p.Style)
	w.sb.WriteString("/>")
}

func (t Text) writeTo(w *writer) {
	w.sb.WriteString("<text")
	w.num("x", t.X)
	w.num("y", t.Y)
	if t.Anchor != "" {
		w.attr("text-anchor", t.Anchor)
	}
	if t.Baseline != "" {
		w.attr("dominant-baseline", t.Baseline)
	}
	if t.Size > 0 {
		w.num("font-size", t.Size)
	}
	if t.Weight != "" {
		w.attr("font-weight", t.Weight)
	}
	w.style(t.Style)
	w.sb.WriteByte('>')
	w.sb.WriteString(Escape(t.Content))
	w.sb.WriteString("</text>")
}

func (p Polygon) writeTo(w *writer) {
	points := make([]string, len(p.Points))
	for i, pt := range p.Points {
		points[i] = Num(pt.X) + "," + Num(pt.Y)
	}
	w.sb.WriteString("<polygon")
	w.attr("points", strings.Join(points, " "))
	w.style(p.Style)
	w.sb.WriteString("/>")
}

func (g Group) writeTo(w *writer) {
	w.sb.WriteString("<g")
	if g.Class != "" {
		w.attr("class", g.Class)
	}
	if g.Transform != "" {
		w.attr("transform", g.Transform)
	}
	w.sb.WriteByte('>')
	for _, child := range g.Children {
		child.writeTo(w)
	}
	w.sb.WriteString("</g>")
}

func (g Gradient) writeTo(w *writer) {
	w.sb.WriteString("<linearGradient")
	w.attr("id", g.ID)
	w.num("x1", g.X1)
	w.num("y1", g.Y1)
	w.num("x2", g.X2)
	w.num("y2", g.Y2)
	w.sb.WriteByte('>')
	for _, stop := range g.Stops {
		w.sb.WriteString("<stop")
		w.attr("offset", Num(stop.Offset*100)+"%")
		w.attr("stop-color", w.color(stop.Color))
		if stop.Opacity > 0 && stop.Opacity < 1 {
			w.num("stop-opacity", stop.Opacity)
		}
		w.sb.WriteString("/>")
	}
	w.sb.WriteString("</linearGradient>")
}
