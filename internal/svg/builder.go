package svg

// Builder accumulates elements in call order and serializes them as one
// <svg> document. A Builder is not safe for concurrent use.
type Builder struct {
	width, height float64
	title         string
	class         string
	colors        map[string]string
	defs          []Element
	elements      []Element
}

// NewBuilder creates a builder for a width x height viewBox
func NewBuilder(width, height float64) *Builder {
	return &Builder{width: width, height: height}
}

// WithColors sets the table used to resolve theme: references
func (b *Builder) WithColors(colors map[string]string) *Builder {
	b.colors = colors
	return b
}

// WithTitle sets the accessible label of the drawing
func (b *Builder) WithTitle(title string) *Builder {
	b.title = title
	return b
}

// WithClass sets the class attribute of the root element
func (b *Builder) WithClass(class string) *Builder {
	b.class = class
	return b
}

// Add appends arbitrary elements; gradients are routed to <defs>
func (b *Builder) Add(elements ...Element) *Builder {
	for _, el := range elements {
		if g, ok := el.(Gradient); ok {
			b.defs = append(b.defs, g)
			continue
		}
		b.elements = append(b.elements, el)
	}
	return b
}

// AddRect appends a rectangle
func (b *Builder) AddRect(r Rect) *Builder { return b.Add(r) }

// AddCircle appends a circle
func (b *Builder) AddCircle(c Circle) *Builder { return b.Add(c) }

// AddLine appends a line segment
func (b *Builder) AddLine(l Line) *Builder { return b.Add(l) }

// AddPath appends a path
func (b *Builder) AddPath(p Path) *Builder { return b.Add(p) }

// AddText appends a text label
func (b *Builder) AddText(t Text) *Builder { return b.Add(t) }

// AddPolygon appends a closed polygon
func (b *Builder) AddPolygon(p Polygon) *Builder { return b.Add(p) }

// AddGroup appends a group of elements
func (b *Builder) AddGroup(g Group) *Builder { return b.Add(g) }

// AddGradient registers a gradient in <defs>
func (b *Builder) AddGradient(g Gradient) *Builder { return b.Add(g) }

// Len returns the number of non-definition elements added so far
func (b *Builder) Len() int {
	return len(b.elements)
}

// Serialize renders the accumulated elements. Unresolved theme references
// are written literally.
func (b *Builder) Serialize() string {
	w := &writer{}
	if b.colors != nil {
		w.resolve = func(name string) (string, bool) {
			c, ok := b.colors[name]
			return c, ok && c != ""
		}
	}

	w.sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	w.attr("viewBox", "0 0 "+Num(b.width)+" "+Num(b.height))
	w.attr("preserveAspectRatio", "xMidYMid meet")
	if b.class != "" {
		w.attr("class", b.class)
	}
	w.attr("role", "img")
	if b.title != "" {
		w.attr("aria-label", b.title)
	}
	w.sb.WriteByte('>')

	if b.title != "" {
		w.sb.WriteString("<title>")
		w.sb.WriteString(Escape(b.title))
		w.sb.WriteString("</title>")
	}

	if len(b.defs) > 0 {
		w.sb.WriteString("<defs>")
		for _, d := range b.defs {
			d.writeTo(w)
		}
		w.sb.WriteString("</defs>")
	}

	for _, el := range b.elements {
		el.writeTo(w)
	}

	w.sb.WriteString("</svg>")
	return w.sb.String()
}
