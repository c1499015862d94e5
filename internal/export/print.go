package export

import (
	"fmt"
	"strings"

	"github.com/dpshade/pocket-deck/internal/models"
)

// printMarker identifies documents that already carry print styles
const printMarker = `<style media="print" data-export="pdf">`

// PrintCSS returns print-media rules that lay the deck out one slide per page
func PrintCSS(aspect models.AspectRatio) string {
	width, height := aspect.Dimensions()
	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: %dpx %dpx; margin: 0; }\n", width, height)
	b.WriteString("html, body { height: auto; overflow: visible; background: none; }\n")
	b.WriteString(".viewport { position: static; display: block; }\n")
	b.WriteString(".deck { transform: none !important; width: auto; height: auto; }\n")
	fmt.Fprintf(&b, ".slide { display: flex !important; position: relative; width: %dpx; height: %dpx; page-break-after: always; break-after: page; }\n", width, height)
	b.WriteString(".slide:last-child { page-break-after: auto; break-after: auto; }\n")
	b.WriteString(".slide [data-reveal] { animation: none !important; opacity: 1 !important; transform: none !important; }\n")
	b.WriteString(".deck-controls, .progress, .notes { display: none !important; }\n")
	b.WriteString("* { -webkit-print-color-adjust: exact; print-color-adjust: exact; }\n")
	return b.String()
}

// InjectPrintStyles adds the print stylesheet before </head>. Documents that
// already carry it are returned unchanged.
func InjectPrintStyles(document string, aspect models.AspectRatio) string {
	if strings.Contains(document, printMarker) {
		return document
	}
	block := printMarker + "\n" + PrintCSS(aspect) + "</style>\n"
	if i := strings.Index(strings.ToLower(document), "</head>"); i >= 0 {
		return document[:i] + block + document[i:]
	}
	return block + document
}
