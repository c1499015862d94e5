package renderer

import (
	"bytes"
	"html/template"
	"log"
	"sort"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight renders code as syntax-highlighted HTML with inline styles so the
// output needs no external stylesheet. An unknown language is detected from
// the source, falling back to plain text.
func Highlight(code, language, style string, lineNumbers bool, highlight []int) template.HTML {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(lineNumbers),
		chromahtml.HighlightLines(lineRanges(highlight)),
		chromahtml.TabWidth(4),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err == nil {
		var buf bytes.Buffer
		if err = formatter.Format(&buf, styles.Get(style), iterator); err == nil {
			return template.HTML(buf.String())
		}
	}

	log.Printf("[RENDER] highlighting failed for language %q, using plain text: %v", language, err)
	return template.HTML("<pre><code>" + template.HTMLEscapeString(code) + "</code></pre>")
}

// lineRanges collapses 1-based line numbers into the [start, end] pairs chroma expects
func lineRanges(lines []int) [][2]int {
	if len(lines) == 0 {
		return nil
	}
	sorted := append([]int(nil), lines...)
	sort.Ints(sorted)

	var ranges [][2]int
	for _, n := range sorted {
		if n < 1 {
			continue
		}
		if last := len(ranges) - 1; last >= 0 && n <= ranges[last][1]+1 {
			if n > ranges[last][1] {
				ranges[last][1] = n
			}
			continue
		}
		ranges = append(ranges, [2]int{n, n})
	}
	return ranges
}
