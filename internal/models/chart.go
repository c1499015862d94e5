package models

// ChartKind names a chart type
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartLine     ChartKind = "line"
	ChartArea     ChartKind = "area"
	ChartPie      ChartKind = "pie"
	ChartDoughnut ChartKind = "doughnut"
	ChartScatter  ChartKind = "scatter"
)

// ChartKinds returns the supported chart types
func ChartKinds() []ChartKind {
	return []ChartKind{ChartBar, ChartLine, ChartArea, ChartPie, ChartDoughnut, ChartScatter}
}

// Valid reports whether k is a supported chart type
func (k ChartKind) Valid() bool {
	for _, known := range ChartKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsRadial reports whether the chart is drawn around a center point
func (k ChartKind) IsRadial() bool {
	return k == ChartPie || k == ChartDoughnut
}

// Point is an explicit x/y pair for scatter charts
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Series is one named run of values
type Series struct {
	Name   string    `json:"name,omitempty" yaml:"name,omitempty"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Points []Point   `json:"points,omitempty" yaml:"points,omitempty"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartDataset is the parsed form of ChartBlock.Data
type ChartDataset struct {
	Labels []string `json:"labels" yaml:"labels"`
	Series []Series `json:"series" yaml:"series"`
}

// CategoryCount is the number of categories that have both a label and a
// value in at least one series. Longer inputs are truncated to the shorter.
func (d ChartDataset) CategoryCount() int {
	longest := 0
	for _, s := range d.Series {
		if len(s.Values) > longest {
			longest = len(s.Values)
		}
	}
	if len(d.Labels) < longest {
		return len(d.Labels)
	}
	return longest
}
