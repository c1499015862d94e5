package renderer

import (
	"bytes"
	"html/template"
	"log"

	"github.com/dpshade/pocket-deck/internal/chart"
	apperrors "github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
)

// chartStyle derives the chart style from the theme, font tier and per-chart options
func chartStyle(ctx *RenderContext, opts models.ChartOptions) chart.Style {
	style := chart.DefaultStyle()
	if len(ctx.Theme.Palette) > 0 {
		style.Palette = ctx.Theme.Palette
	}
	style.FontSize = float64(ctx.Options.FontSize.BasePixels()) * 0.65
	if opts.ShowLegend != nil {
		style.ShowLegend = *opts.ShowLegend
	}
	if opts.ShowGrid != nil {
		style.ShowGrid = *opts.ShowGrid
	}
	style.ShowValues = opts.ShowValues
	if opts.InnerRadius > 0 {
		style.InnerRadius = opts.InnerRadius
	}
	style.XLabel = opts.XLabel
	style.YLabel = opts.YLabel
	return style
}

// renderChart draws a chart block as inline SVG. Data that cannot be plotted
// produces an error panel instead, so only this slide is affected.
func renderChart(ctx *RenderContext, block *models.ChartBlock, width, height float64, title string) (template.HTML, error) {
	if block == nil {
		return chartErrorPanel(apperrors.ChartDataShapeError("", "chart is missing"))
	}

	markup, err := func() (string, error) {
		data, err := chart.ParseDataset(block.Type, block.Data)
		if err != nil {
			return "", err
		}
		return chart.RenderSVG(block.Type, data, width, height, chartStyle(ctx, block.Options), ctx.Colors, title)
	}()
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeChartDataShape) {
			log.Printf("[RENDER] slide %d: %s chart not drawn: %v", ctx.Index+1, block.Type, err)
			return chartErrorPanel(err)
		}
		return "", err
	}

	// The builder escapes every attribute and text node it writes.
	return template.HTML(markup), nil
}

func chartErrorPanel(err error) (template.HTML, error) {
	appErr := apperrors.GetAppError(err)
	data := struct {
		Message string
		Chart   interface{}
	}{Message: appErr.Message, Chart: appErr.Context["chart"]}

	var buf bytes.Buffer
	if err := slideTemplates.ExecuteTemplate(&buf, "chart-error", data); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to render chart error panel")
	}
	return template.HTML(buf.String()), nil
}
