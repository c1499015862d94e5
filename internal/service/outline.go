package service

import (
	"fmt"
	"strings"

	"github.com/dpshade/pocket-deck/internal/models"
)

// Outline renders a markdown summary of the deck, one section per slide
func Outline(spec *models.PresentationSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", spec.Title)

	var meta []string
	if author := spec.Author(); author != "" {
		meta = append(meta, "by "+author)
	}
	if spec.Theme != "" {
		meta = append(meta, "theme `"+spec.Theme+"`")
	}
	meta = append(meta, fmt.Sprintf("%d slides", len(spec.Slides)))
	b.WriteString("_" + strings.Join(meta, " · ") + "_\n")

	for i, slide := range spec.Slides {
		b.WriteString("\n")
		b.WriteString(SlideOutline(i, slide))
	}
	return b.String()
}

// SlideTitle is the one-line label used in slide lists
func SlideTitle(i int, slide *models.Slide) string {
	heading := slide.Heading()
	if heading == "" {
		heading = "(untitled)"
	}
	if len([]rune(heading)) > 60 {
		heading = string([]rune(heading)[:57]) + "..."
	}
	return fmt.Sprintf("%d. %s", i+1, heading)
}

// SlideOutline renders one slide as markdown
func SlideOutline(i int, slide *models.Slide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", SlideTitle(i, slide))
	fmt.Fprintf(&b, "`%s`", slide.Kind)
	if slide.ID != "" {
		fmt.Fprintf(&b, " · `#%s`", slide.ID)
	}
	if slide.Reveal {
		b.WriteString(" · reveal")
	}
	b.WriteString("\n\n")

	switch body := slide.Body.(type) {
	case *models.TitleSlide:
		line(&b, body.Subtitle)
		line(&b, join(" · ", body.Author, body.Date))
	case *models.ContentSlide:
		line(&b, body.Content)
		bullets(&b, body.Bullets)
	case *models.MediaSlide:
		fmt.Fprintf(&b, "%s: %s\n\n", mediaLabel(body), body.Src)
		line(&b, body.Caption)
	case *models.DataSlide:
		if body.Chart != nil {
			chartLine(&b, body.Chart)
		}
		if body.Table != nil {
			table(&b, body.Table)
		}
	case *models.QuoteSlide:
		fmt.Fprintf(&b, "> %s\n\n", body.Quote)
		line(&b, join(", ", body.Author, body.Source))
	case *models.TimelineSlide:
		for _, e := range body.Events {
			fmt.Fprintf(&b, "- **%s** %s\n", e.Date, e.Title)
		}
		b.WriteString("\n")
	case *models.ComparisonSlide:
		for _, side := range []models.ComparisonSide{body.Left, body.Right} {
			fmt.Fprintf(&b, "**%s**\n\n", orDash(side.Title))
			bullets(&b, side.Items)
		}
	case *models.ProcessSlide:
		for n, step := range body.Steps {
			fmt.Fprintf(&b, "%d. %s\n", n+1, step.Title)
		}
		b.WriteString("\n")
	case *models.SectionHeaderSlide:
		line(&b, join(" · ", string(body.Number), body.Subtitle))
	case *models.HeroSlide:
		line(&b, body.Subtitle)
		if body.CTA != nil {
			fmt.Fprintf(&b, "[%s](%s)\n\n", body.CTA.Label, body.CTA.URL)
		}
	case *models.ColumnsSlide:
		for _, col := range body.Columns {
			fmt.Fprintf(&b, "**%s**\n\n", orDash(col.Title))
			line(&b, col.Content)
		}
	case *models.ChartWithMetricsSlide:
		if body.Chart != nil {
			chartLine(&b, body.Chart)
		}
		for _, m := range body.Metrics {
			fmt.Fprintf(&b, "- %s: **%s** %s\n", m.Label, m.Value, m.Change)
		}
		b.WriteString("\n")
	case *models.ProductOverviewSlide:
		line(&b, body.Description)
		bullets(&b, body.Features)
		line(&b, string(body.Price))
	case *models.GridSlide:
		fmt.Fprintf(&b, "%d columns\n\n", body.ColumnCount())
		for _, item := range body.Items {
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
		b.WriteString("\n")
	case *models.FeatureCardsSlide:
		for _, c := range body.Cards {
			fmt.Fprintf(&b, "- %s\n", join(" ", c.Icon, c.Title))
		}
		b.WriteString("\n")
	case *models.TeamSlide:
		for _, m := range body.Members {
			fmt.Fprintf(&b, "- %s\n", join(", ", m.Name, m.Role))
		}
		b.WriteString("\n")
	case *models.PricingSlide:
		for _, tier := range body.Tiers {
			mark := ""
			if tier.Highlighted {
				mark = " ★"
			}
			fmt.Fprintf(&b, "- **%s** %s%s\n", tier.Name, join(" ", string(tier.Price), tier.Period), mark)
		}
		b.WriteString("\n")
	case *models.CodeSlide:
		fmt.Fprintf(&b, "```%s\n%s\n```\n\n", body.Language, strings.TrimRight(body.Code, "\n"))
	}

	if slide.Notes != "" {
		fmt.Fprintf(&b, "_Notes: %s_\n\n", strings.TrimSpace(slide.Notes))
	}
	return b.String()
}

func chartLine(b *strings.Builder, c *models.ChartBlock) {
	fmt.Fprintf(b, "Chart: %s\n\n", c.Type)
}

func table(b *strings.Builder, t *models.TableBlock) {
	if len(t.Headers) == 0 {
		return
	}
	b.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = strings.ReplaceAll(string(row[i]), "|", "\\|")
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func mediaLabel(m *models.MediaSlide) string {
	if m.IsVideo() {
		return "Video"
	}
	return "Image"
}

func line(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.WriteString(s + "\n\n")
	}
}

func bullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func join(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
