package svg

import (
	"strings"
	"testing"
)

func buildSample(colors map[string]string) string {
	return NewBuilder(200, 100).
		WithColors(colors).
		WithTitle("Sample").
		AddGradient(Gradient{ID: "g1", X2: 1, Stops: []Stop{{Offset: 0, Color: Ref("primary")}, {Offset: 1, Color: "#ffffff", Opacity: 0.5}}}).
		AddRect(Rect{X: 1.005, Y: 2, Width: 10, Height: 20, Style: Style{Fill: Ref("primary")}}).
		AddCircle(Circle{CX: 50, CY: 50, R: 5, Style: Style{Fill: "red", Opacity: 0.4}}).
		AddLine(Line{X1: 0, Y1: 0, X2: 10, Y2: 10, Style: Style{Stroke: Ref("muted"), StrokeWidth: 1}}).
		AddPath(Path{D: "M0 0 L10 10 Z", Style: Style{Fill: "none", Stroke: "#000"}}).
		AddText(Text{X: 5, Y: 5, Content: "A & B <c>", Anchor: "middle", Size: 12}).
		AddPolygon(Polygon{Points: []Pt{{0, 0}, {10, 0}, {5, 8.333}}, Style: Style{Fill: "#123456"}}).
		Serialize()
}

func TestSerializeIsDeterministic(t *testing.T) {
	colors := map[string]string{"primary": "#3366ff", "muted": "#999999"}
	first := buildSample(colors)
	for i := 0; i < 5; i++ {
		if got := buildSample(colors); got != first {
			t.Fatalf("run %d produced different output:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestSerializeResolvesThemeReferences(t *testing.T) {
	out := buildSample(map[string]string{"primary": "#3366ff"})

	if !strings.Contains(out, `fill="#3366ff"`) {
		t.Errorf("expected primary to resolve, got %s", out)
	}
	if !strings.Contains(out, `stop-color="#3366ff"`) {
		t.Errorf("expected gradient stop to resolve, got %s", out)
	}
	// muted is not in the table, so the reference is written literally
	if !strings.Contains(out, `stroke="theme:muted"`) {
		t.Errorf("expected unresolved reference to stay literal, got %s", out)
	}
}

func TestSerializeWithoutColorTable(t *testing.T) {
	out := buildSample(nil)
	if !strings.Contains(out, `fill="theme:primary"`) {
		t.Errorf("expected literal reference without a color table, got %s", out)
	}
}

func TestSerializeEscapesText(t *testing.T) {
	out := buildSample(nil)
	if !strings.Contains(out, "A &amp; B &lt;c&gt;") {
		t.Errorf("text was not escaped: %s", out)
	}
	if strings.Contains(out, "<c>") {
		t.Errorf("raw markup leaked into output: %s", out)
	}
}

func TestSerializeStructure(t *testing.T) {
	out := buildSample(nil)

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"`) {
		t.Errorf("unexpected root element: %s", out)
	}
	if !strings.HasSuffix(out, "</svg>") {
		t.Errorf("missing closing tag: %s", out)
	}

	defs := strings.Index(out, "<defs>")
	rect := strings.Index(out, "<rect")
	if defs < 0 || rect < 0 || defs > rect {
		t.Errorf("gradients should be emitted in <defs> before shapes: %s", out)
	}

	order := []string{"<rect", "<circle", "<line", "<path", "<text", "<polygon"}
	last := -1
	for _, tag := range order {
		idx := strings.Index(out, tag)
		if idx < last {
			t.Errorf("%s out of call order", tag)
		}
		last = idx
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.006, "1.01"},
		{-0.001, "0"},
		{12.5, "12.5"},
		{100, "100"},
		{8.333, "8.33"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuilderLenIgnoresDefinitions(t *testing.T) {
	b := NewBuilder(10, 10).
		AddGradient(Gradient{ID: "x"}).
		AddRect(Rect{Width: 1, Height: 1})
	if b.Len() != 1 {
		t.Errorf("expected 1 element, got %d", b.Len())
	}
}

func TestGroupWrapsChildren(t *testing.T) {
	out := NewBuilder(10, 10).
		AddGroup(Group{Class: "bars", Children: []Element{Rect{Width: 1, Height: 1}}}).
		Serialize()
	if !strings.Contains(out, `<g class="bars"><rect x="0" y="0" width="1" height="1"/></g>`) {
		t.Errorf("unexpected group output: %s", out)
	}
}
