package theme

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dpshade/pocket-deck/internal/models"
)

var (
	functionalColor = regexp.MustCompile(`^(rgb|rgba|hsl|hsla)\([0-9.,%\s/]+\)$`)
	namedColor      = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
	themeRef        = regexp.MustCompile(`^theme:[a-zA-Z0-9_-]+$`)
)

// IsColor reports whether s is usable as a color: a hex value, a CSS color
// function, a CSS color keyword, or a theme:<name> reference.
func IsColor(s string) bool {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return false
	case strings.HasPrefix(s, "theme:"):
		return themeRef.MatchString(s)
	case strings.HasPrefix(s, "#"):
		_, err := colorful.Hex(s)
		return err == nil
	case functionalColor.MatchString(s):
		return true
	default:
		return namedColor.MatchString(s)
	}
}

// Resolve maps a color literal or theme:<name> reference to a concrete value.
// Unresolved references are returned unchanged.
func Resolve(t *models.Theme, value string) string {
	if !strings.HasPrefix(value, "theme:") {
		return value
	}
	if c, ok := t.Color(strings.TrimPrefix(value, "theme:")); ok {
		return c
	}
	return value
}

// blend mixes a toward b in Lab space; non-hex inputs return a unchanged
func blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

// Derived returns the theme colors plus tints used by the stylesheet:
// "<name>-soft" leans toward the background, "<name>-strong" toward the text.
func Derived(t *models.Theme) map[string]string {
	out := make(map[string]string, len(t.Colors)*3)
	background := t.Colors["background"]
	text := t.Colors["text"]
	for name, value := range t.Colors {
		out[name] = value
	}
	for _, name := range []string{"primary", "secondary", "accent", "success", "warning", "danger"} {
		value, ok := t.Colors[name]
		if !ok {
			continue
		}
		out[name+"-soft"] = blend(value, background, 0.85)
		out[name+"-strong"] = blend(value, text, 0.25)
	}
	for i, c := range t.Palette {
		out["series-"+strconv.Itoa(i+1)] = c
	}
	return out
}
