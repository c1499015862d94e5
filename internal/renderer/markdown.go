package renderer

import (
	"bytes"
	"html/template"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
	)

	// ugcPolicy allows the formatting markdown produces and strips scripts, handlers and styles
	ugcPolicy = bluemonday.UGCPolicy().
			RequireNoFollowOnLinks(true).
			AddTargetBlankToFullyQualifiedLinks(true)

	strictPolicy = bluemonday.StrictPolicy()
)

// Markdown converts slide markdown to sanitized HTML
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		log.Printf("[RENDER] markdown conversion failed, using plain text: %v", err)
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes()))
}

// InlineMarkdown renders a single line of markdown without the wrapping paragraph
func InlineMarkdown(src string) template.HTML {
	out := strings.TrimSpace(string(Markdown(src)))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out)
}

// sanitizeNotes strips all markup from speaker notes, keeping escaped text
func sanitizeNotes(notes string) template.HTML {
	return template.HTML(strictPolicy.Sanitize(notes))
}
