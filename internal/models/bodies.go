package models

import (
	"encoding/json"
	"strconv"
)

// TitleSlide opens a deck
type TitleSlide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`
}

// ContentSlide carries markdown text and/or a bullet list
type ContentSlide struct {
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// MediaSlide shows a single image or video
type MediaSlide struct {
	Title     string `json:"title,omitempty"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	Caption   string `json:"caption,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

// IsVideo reports whether the media should be rendered as a video element
func (m *MediaSlide) IsVideo() bool {
	return m.MediaType == "video"
}

// ChartOptions tweaks a chart's presentation
type ChartOptions struct {
	ShowLegend  *bool   `json:"showLegend,omitempty"`
	ShowGrid    *bool   `json:"showGrid,omitempty"`
	ShowValues  bool    `json:"showValues,omitempty"`
	InnerRadius float64 `json:"innerRadius,omitempty"`
	XLabel      string  `json:"xLabel,omitempty"`
	YLabel      string  `json:"yLabel,omitempty"`
}

// ChartBlock is a chart reference inside a slide. Data stays untyped until
// the chart engine parses it, so shape problems surface per slide.
type ChartBlock struct {
	Type    ChartKind    `json:"type"`
	Data    interface{}  `json:"data"`
	Options ChartOptions `json:"options,omitempty"`
}

// Cell is a table cell; numbers are accepted and kept in their textual form
type Cell string

// UnmarshalJSON accepts strings, numbers, booleans and null
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*c = ""
	case string:
		*c = Cell(t)
	case float64:
		*c = Cell(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*c = Cell(strconv.FormatBool(t))
	default:
		*c = Cell(string(data))
	}
	return nil
}

// TableBlock is a plain data table
type TableBlock struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}

// DataSlide shows either a chart or a table
type DataSlide struct {
	Title string      `json:"title,omitempty"`
	Chart *ChartBlock `json:"chart,omitempty"`
	Table *TableBlock `json:"table,omitempty"`
}

// QuoteSlide is a pull quote
type QuoteSlide struct {
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
	Source string `json:"source,omitempty"`
}

// TimelineEvent is one point on a timeline
type TimelineEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TimelineSlide lays events out in order
type TimelineSlide struct {
	Title  string          `json:"title,omitempty"`
	Events []TimelineEvent `json:"events"`
}

// ComparisonSide is one half of a comparison
type ComparisonSide struct {
	Title string   `json:"title,omitempty"`
	Items []string `json:"items,omitempty"`
}

// ComparisonSlide puts two lists side by side
type ComparisonSlide struct {
	Title string         `json:"title,omitempty"`
	Left  ComparisonSide `json:"left"`
	Right ComparisonSide `json:"right"`
}

// ProcessStep is one numbered step
type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ProcessSlide shows numbered steps
type ProcessSlide struct {
	Title string        `json:"title,omitempty"`
	Steps []ProcessStep `json:"steps"`
}

// SectionHeaderSlide divides a deck into sections
type SectionHeaderSlide struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Number   Cell   `json:"number,omitempty"`
}

// BlankSlide has no content of its own
type BlankSlide struct{}

// CallToAction is a labelled link
type CallToAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// HeroSlide is a large banner slide
type HeroSlide struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Image    string        `json:"image,omitempty"`
	CTA      *CallToAction `json:"cta,omitempty"`
}

// Column is one column of a multi-column slide
type Column struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ColumnsSlide backs the two-, three- and four-column kinds
type ColumnsSlide struct {
	kind    SlideKind
	Title   string   `json:"title,omitempty"`
	Columns []Column `json:"columns"`
}

// Metric is a headline number next to a chart
type Metric struct {
	Label  string `json:"label"`
	Value  Cell   `json:"value"`
	Change Cell   `json:"change,omitempty"`
	Trend  string `json:"trend,omitempty"`
}

// ChartWithMetricsSlide pairs a chart with key figures
type ChartWithMetricsSlide struct {
	Title   string      `json:"title,omitempty"`
	Chart   *ChartBlock `json:"chart"`
	Metrics []Metric    `json:"metrics"`
}

// ProductOverviewSlide describes a product
type ProductOverviewSlide struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Features    []string `json:"features,omitempty"`
	Price       Cell     `json:"price,omitempty"`
}

// GridItem is one tile of a grid
type GridItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// GridSlide lays tiles out in a fixed number of columns
type GridSlide struct {
	Title   string     `json:"title,omitempty"`
	Columns int        `json:"columns,omitempty"`
	Items   []GridItem `json:"items"`
}

// ColumnCount returns the grid width, defaulting to 3
func (g *GridSlide) ColumnCount() int {
	if g.Columns <= 0 {
		return 3
	}
	return g.Columns
}

// FeatureCard is one card of a feature-cards slide
type FeatureCard struct {
	Icon        string `json:"icon,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// FeatureCardsSlide lists features as cards
type FeatureCardsSlide struct {
	Title string        `json:"title,omitempty"`
	Cards []FeatureCard `json:"cards"`
}

// TeamMember is one person on a team slide
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo string `json:"photo,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// TeamSlide introduces people
type TeamSlide struct {
	Title   string       `json:"title,omitempty"`
	Members []TeamMember `json:"members"`
}

// PricingTier is one plan
type PricingTier struct {
	Name        string        `json:"name"`
	Price       Cell          `json:"price"`
	Period      string        `json:"period,omitempty"`
	Features    []string      `json:"features,omitempty"`
	Highlighted bool          `json:"highlighted,omitempty"`
	CTA         *CallToAction `json:"cta,omitempty"`
}

// PricingSlide compares plans
type PricingSlide struct {
	Title string        `json:"title,omitempty"`
	Tiers []PricingTier `json:"tiers"`
}

// CodeSlide shows a highlighted snippet
type CodeSlide struct {
	Title       string `json:"title,omitempty"`
	Code        string `json:"code"`
	Language    string `json:"language,omitempty"`
	LineNumbers bool   `json:"lineNumbers,omitempty"`
	Highlight   []int  `json:"highlight,omitempty"`
}

func (*TitleSlide) SlideKind() SlideKind            { return KindTitle }
func (*ContentSlide) SlideKind() SlideKind          { return KindContent }
func (*MediaSlide) SlideKind() SlideKind            { return KindMedia }
func (*DataSlide) SlideKind() SlideKind             { return KindData }
func (*QuoteSlide) SlideKind() SlideKind            { return KindQuote }
func (*TimelineSlide) SlideKind() SlideKind         { return KindTimeline }
func (*ComparisonSlide) SlideKind() SlideKind       { return KindComparison }
func (*ProcessSlide) SlideKind() SlideKind          { return KindProcess }
func (*SectionHeaderSlide) SlideKind() SlideKind    { return KindSectionHeader }
func (*BlankSlide) SlideKind() SlideKind            { return KindBlank }
func (*HeroSlide) SlideKind() SlideKind             { return KindHero }
func (c *ColumnsSlide) SlideKind() SlideKind        { return c.kind }
func (*ChartWithMetricsSlide) SlideKind() SlideKind { return KindChartWithMetrics }
func (*ProductOverviewSlide) SlideKind() SlideKind  { return KindProductOverview }
func (*GridSlide) SlideKind() SlideKind             { return KindGrid }
func (*FeatureCardsSlide) SlideKind() SlideKind     { return KindFeatureCards }
func (*TeamSlide) SlideKind() SlideKind             { return KindTeam }
func (*PricingSlide) SlideKind() SlideKind          { return KindPricing }
func (*CodeSlide) SlideKind() SlideKind             { return KindCode }
