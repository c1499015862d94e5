package assembler

import (
	"bytes"
	_ "embed"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/theme"
)

// StylesheetName is the file name the document links to when styles are not embedded
const StylesheetName = "pocket-deck.css"

//go:embed templates/deck.css
var deckCSS string

var cssTemplate = texttemplate.Must(texttemplate.New("deck.css").Parse(deckCSS))

type cssColor struct {
	Name  string
	Value string
}

type cssData struct {
	Colors      []cssColor
	HeadingFont string
	BodyFont    string
	MonoFont    string
	BaseSize    int
	Width       int
	Height      int
}

// cssUnsafe strips characters that could end a declaration or block
var cssUnsafe = strings.NewReplacer("{", "", "}", "", ";", "", "<", "", ">", "", "\\", "")

// Stylesheet returns the deck CSS for a theme and option set. It is embedded
// in the document or, with embedStyles disabled, written next to it.
func Stylesheet(t *models.Theme, opts models.ResolvedOptions) string {
	if t == nil {
		t = theme.Builtin()[0]
	}

	derived := theme.Derived(t)
	names := make([]string, 0, len(derived))
	for name := range derived {
		names = append(names, name)
	}
	sort.Strings(names)

	data := cssData{
		HeadingFont: cssUnsafe.Replace(t.Typography.Heading),
		BodyFont:    cssUnsafe.Replace(t.Typography.Body),
		MonoFont:    cssUnsafe.Replace(t.Typography.Mono),
		BaseSize:    scaledBase(t, opts.FontSize),
	}
	data.Width, data.Height = opts.AspectRatio.Dimensions()
	for _, name := range names {
		value := derived[name]
		if !theme.IsColor(value) || strings.HasPrefix(value, "theme:") {
			continue
		}
		data.Colors = append(data.Colors, cssColor{Name: name, Value: cssUnsafe.Replace(value)})
	}

	var buf bytes.Buffer
	// The template is static and every value is a plain string or int.
	_ = cssTemplate.Execute(&buf, data)
	return buf.String()
}

// scaledBase applies the font tier to the theme's base size
func scaledBase(t *models.Theme, size models.FontSize) int {
	base := size.BasePixels()
	if t.Typography.BaseSize > 0 {
		base = base * t.Typography.BaseSize / models.FontMedium.BasePixels()
	}
	return base
}
