package assembler

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

// Minifier compresses a finished HTML document
type Minifier interface {
	Minify(document string) (string, error)
}

// HTMLMinifier minifies documents, including inline CSS, JS and SVG, with tdewolff/minify
type HTMLMinifier struct {
	m *minify.M
}

// NewHTMLMinifier creates the default minifier
func NewHTMLMinifier() *HTMLMinifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("image/svg+xml", minsvg.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &HTMLMinifier{m: m}
}

// Minify implements Minifier
func (h *HTMLMinifier) Minify(document string) (string, error) {
	return h.m.String("text/html", document)
}

// MinifierFunc adapts a function to the Minifier interface
type MinifierFunc func(string) (string, error)

// Minify implements Minifier
func (f MinifierFunc) Minify(document string) (string, error) {
	return f(document)
}
