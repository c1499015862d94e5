package models

import (
	"encoding/json"
	"fmt"
)

// SlideKind is the discriminant of the slide union
type SlideKind string

const (
	KindTitle            SlideKind = "title"
	KindContent          SlideKind = "content"
	KindMedia            SlideKind = "media"
	KindData             SlideKind = "data"
	KindQuote            SlideKind = "quote"
	KindTimeline         SlideKind = "timeline"
	KindComparison       SlideKind = "comparison"
	KindProcess          SlideKind = "process"
	KindSectionHeader    SlideKind = "section-header"
	KindBlank            SlideKind = "blank"
	KindHero             SlideKind = "hero"
	KindTwoColumn        SlideKind = "two-column"
	KindThreeColumn      SlideKind = "three-column"
	KindFourColumn       SlideKind = "four-column"
	KindChartWithMetrics SlideKind = "chart-with-metrics"
	KindProductOverview  SlideKind = "product-overview"
	KindGrid             SlideKind = "grid"
	KindFeatureCards     SlideKind = "feature-cards"
	KindTeam             SlideKind = "team"
	KindPricing          SlideKind = "pricing"
	KindCode             SlideKind = "code"
)

var slideKinds = []SlideKind{
	KindTitle, KindContent, KindMedia, KindData, KindQuote, KindTimeline,
	KindComparison, KindProcess, KindSectionHeader, KindBlank, KindHero,
	KindTwoColumn, KindThreeColumn, KindFourColumn, KindChartWithMetrics,
	KindProductOverview, KindGrid, KindFeatureCards, KindTeam, KindPricing,
	KindCode,
}

// SlideKinds returns every slide kind the data model knows about, in declaration order
func SlideKinds() []SlideKind {
	out := make([]SlideKind, len(slideKinds))
	copy(out, slideKinds)
	return out
}

// Valid reports whether k is a known slide kind
func (k SlideKind) Valid() bool {
	for _, known := range slideKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ColumnCount returns the fixed column count for multi-column kinds, 0 otherwise
func (k SlideKind) ColumnCount() int {
	switch k {
	case KindTwoColumn:
		return 2
	case KindThreeColumn:
		return 3
	case KindFourColumn:
		return 4
	default:
		return 0
	}
}

// SlideBody is implemented by exactly one struct per slide kind
type SlideBody interface {
	SlideKind() SlideKind
}

// Slide is one entry of the presentation. Common fields live here; the
// kind-specific payload lives in Body.
type Slide struct {
	Kind       SlideKind `json:"type"`
	ID         string    `json:"id,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Background string    `json:"background,omitempty"`
	Reveal     bool      `json:"reveal,omitempty"`

	Body SlideBody              `json:"-"`
	Raw  map[string]interface{} `json:"-"`
}

// Heading returns the most descriptive title-ish text the slide carries
func (s *Slide) Heading() string {
	switch b := s.Body.(type) {
	case *TitleSlide:
		return b.Title
	case *ContentSlide:
		return b.Title
	case *MediaSlide:
		return b.Title
	case *DataSlide:
		return b.Title
	case *QuoteSlide:
		return b.Quote
	case *TimelineSlide:
		return b.Title
	case *ComparisonSlide:
		return b.Title
	case *ProcessSlide:
		return b.Title
	case *SectionHeaderSlide:
		return b.Title
	case *HeroSlide:
		return b.Title
	case *ColumnsSlide:
		return b.Title
	case *ChartWithMetricsSlide:
		return b.Title
	case *ProductOverviewSlide:
		return b.Title
	case *GridSlide:
		return b.Title
	case *FeatureCardsSlide:
		return b.Title
	case *TeamSlide:
		return b.Title
	case *PricingSlide:
		return b.Title
	case *CodeSlide:
		return b.Title
	}
	return ""
}

// NewSlideBody returns an empty body for kind, or nil for unknown kinds
func NewSlideBody(kind SlideKind) SlideBody {
	switch kind {
	case KindTitle:
		return &TitleSlide{}
	case KindContent:
		return &ContentSlide{}
	case KindMedia:
		return &MediaSlide{}
	case KindData:
		return &DataSlide{}
	case KindQuote:
		return &QuoteSlide{}
	case KindTimeline:
		return &TimelineSlide{}
	case KindComparison:
		return &ComparisonSlide{}
	case KindProcess:
		return &ProcessSlide{}
	case KindSectionHeader:
		return &SectionHeaderSlide{}
	case KindBlank:
		return &BlankSlide{}
	case KindHero:
		return &HeroSlide{}
	case KindTwoColumn, KindThreeColumn, KindFourColumn:
		return &ColumnsSlide{kind: kind}
	case KindChartWithMetrics:
		return &ChartWithMetricsSlide{}
	case KindProductOverview:
		return &ProductOverviewSlide{}
	case KindGrid:
		return &GridSlide{}
	case KindFeatureCards:
		return &FeatureCardsSlide{}
	case KindTeam:
		return &TeamSlide{}
	case KindPricing:
		return &PricingSlide{}
	case KindCode:
		return &CodeSlide{}
	}
	return nil
}

// DecodeSlide builds a typed slide from its untyped form. The raw map is kept
// as-is for exports.
func DecodeSlide(raw map[string]interface{}) (*Slide, error) {
	kindValue, _ := raw["type"].(string)
	if !SlideKind(kindValue).Valid() {
		return nil, fmt.Errorf("unknown slide type %q", kindValue)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode slide: %w", err)
	}

	slide := &Slide{}
	if err := json.Unmarshal(data, slide); err != nil {
		return nil, err
	}
	slide.Raw = raw
	return slide, nil
}

// Content returns the slide as an untyped map, preferring the raw input
func (s *Slide) Content() map[string]interface{} {
	if s.Raw != nil {
		return s.Raw
	}
	out := map[string]interface{}{}
	if s.Body != nil {
		if data, err := json.Marshal(s.Body); err == nil {
			_ = json.Unmarshal(data, &out)
		}
	}
	out["type"] = string(s.Kind)
	if s.ID != "" {
		out["id"] = s.ID
	}
	if s.Notes != "" {
		out["notes"] = s.Notes
	}
	if s.Background != "" {
		out["background"] = s.Background
	}
	if s.Reveal {
		out["reveal"] = true
	}
	return out
}

// MarshalJSON flattens the common fields and the body into one object
func (s *Slide) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Content())
}

// UnmarshalJSON decodes the common fields and the kind-specific body
func (s *Slide) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// The common fields are decoded through an alias to avoid recursion.
	type common Slide
	var c common
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	body := NewSlideBody(c.Kind)
	if body == nil {
		return fmt.Errorf("unknown slide type %q", c.Kind)
	}
	if err := json.Unmarshal(data, body); err != nil {
		return fmt.Errorf("failed to decode %s slide: %w", c.Kind, err)
	}
	*s = Slide(c)
	s.Body = body
	s.Raw = raw
	return nil
}
