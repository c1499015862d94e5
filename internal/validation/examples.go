package validation

import "github.com/dpshade/pocket-deck/internal/models"

// examples holds a minimal valid slide for each kind. They are returned with
// validation failures and listed by the capabilities report.
var examples = map[models.SlideKind]map[string]interface{}{
	models.KindTitle:         {"type": "title", "title": "Quarterly Review", "subtitle": "Q3 2024", "author": "Jane Doe"},
	models.KindContent:       {"type": "content", "title": "Agenda", "bullets": []interface{}{"Results", "Roadmap", "Questions"}},
	models.KindMedia:         {"type": "media", "src": "https://example.com/diagram.png", "alt": "Architecture diagram", "caption": "System overview"},
	models.KindData:          {"type": "data", "title": "Revenue", "chart": map[string]interface{}{"type": "bar", "data": map[string]interface{}{"labels": []interface{}{"Q1", "Q2", "Q3"}, "series": []interface{}{map[string]interface{}{"name": "2024", "values": []interface{}{120, 150, 180}}}}}},
	models.KindQuote:         {"type": "quote", "quote": "Simplicity is prerequisite for reliability.", "author": "Edsger W. Dijkstra"},
	models.KindTimeline:      {"type": "timeline", "title": "Milestones", "events": []interface{}{map[string]interface{}{"date": "2023", "title": "Founded"}, map[string]interface{}{"date": "2024", "title": "Launch"}}},
	models.KindComparison:    {"type": "comparison", "title": "Before and after", "left": map[string]interface{}{"title": "Before", "items": []interface{}{"Manual"}}, "right": map[string]interface{}{"title": "After", "items": []interface{}{"Automated"}}},
	models.KindProcess:       {"type": "process", "title": "How it works", "steps": []interface{}{map[string]interface{}{"title": "Write"}, map[string]interface{}{"title": "Compile"}, map[string]interface{}{"title": "Present"}}},
	models.KindSectionHeader: {"type": "section-header", "title": "Part Two", "number": 2},
	models.KindBlank:         {"type": "blank"},
	models.KindHero:          {"type": "hero", "title": "Ship faster", "subtitle": "Decks from data", "cta": map[string]interface{}{"label": "Get started", "url": "https://example.com"}},
	models.KindTwoColumn:     {"type": "two-column", "columns": []interface{}{map[string]interface{}{"title": "Pros", "content": "Fast"}, map[string]interface{}{"title": "Cons", "content": "New"}}},
	models.KindThreeColumn: {"type": "three-column", "columns": []interface{}{
		map[string]interface{}{"title": "Plan"}, map[string]interface{}{"title": "Build"}, map[string]interface{}{"title": "Run"},
	}},
	models.KindFourColumn: {"type": "four-column", "columns": []interface{}{
		map[string]interface{}{"title": "North"}, map[string]interface{}{"title": "East"}, map[string]interface{}{"title": "South"}, map[string]interface{}{"title": "West"},
	}},
	models.KindChartWithMetrics: {"type": "chart-with-metrics", "title": "Growth", "chart": map[string]interface{}{"type": "line", "data": map[string]interface{}{"labels": []interface{}{"Jan", "Feb", "Mar"}, "series": []interface{}{map[string]interface{}{"name": "Users", "values": []interface{}{10, 14, 21}}}}},
		"metrics": []interface{}{map[string]interface{}{"label": "MAU", "value": "21k", "change": "+50%", "trend": "up"}}},
	models.KindProductOverview: {"type": "product-overview", "title": "Pocket Deck", "description": "Slides from structured data", "features": []interface{}{"Charts", "Themes"}, "price": "$0"},
	models.KindGrid:            {"type": "grid", "title": "Highlights", "columns": 2, "items": []interface{}{map[string]interface{}{"title": "Fast"}, map[string]interface{}{"title": "Portable"}}},
	models.KindFeatureCards:    {"type": "feature-cards", "title": "Features", "cards": []interface{}{map[string]interface{}{"icon": "⚡", "title": "Quick", "description": "Renders in milliseconds"}}},
	models.KindTeam:            {"type": "team", "title": "Team", "members": []interface{}{map[string]interface{}{"name": "Ada", "role": "Engineer"}}},
	models.KindPricing:         {"type": "pricing", "title": "Plans", "tiers": []interface{}{map[string]interface{}{"name": "Free", "price": 0}, map[string]interface{}{"name": "Pro", "price": "$12", "period": "month", "highlighted": true}}},
	models.KindCode:            {"type": "code", "title": "Hello", "language": "go", "code": "fmt.Println(\"hello\")"},
}

// Example returns a deep copy of the example slide for kind, or nil
func Example(kind models.SlideKind) map[string]interface{} {
	ex, ok := examples[kind]
	if !ok {
		return nil
	}
	return deepCopy(ex).(map[string]interface{})
}

// PresentationExample returns a small complete presentation
func PresentationExample() map[string]interface{} {
	return map[string]interface{}{
		"title": "Quarterly Review",
		"theme": "default",
		"slides": []interface{}{
			Example(models.KindTitle),
			Example(models.KindContent),
			Example(models.KindData),
		},
	}
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
