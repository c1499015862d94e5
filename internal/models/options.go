package models

// AspectRatio is the fixed slide shape
type AspectRatio string

const (
	Aspect16x9 AspectRatio = "16:9"
	Aspect4x3  AspectRatio = "4:3"
)

// AspectRatios returns the supported aspect ratios
func AspectRatios() []AspectRatio {
	return []AspectRatio{Aspect16x9, Aspect4x3}
}

// Valid reports whether a is supported
func (a AspectRatio) Valid() bool {
	return a == Aspect16x9 || a == Aspect4x3
}

// Dimensions returns the slide canvas size in CSS pixels
func (a AspectRatio) Dimensions() (width, height int) {
	if a == Aspect4x3 {
		return 1024, 768
	}
	return 1280, 720
}

// FontSize is the base font size tier
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// FontSizes returns the supported font size tiers
func FontSizes() []FontSize {
	return []FontSize{FontSmall, FontMedium, FontLarge}
}

// Valid reports whether f is a known tier
func (f FontSize) Valid() bool {
	return f == FontSmall || f == FontMedium || f == FontLarge
}

// BasePixels returns the root font size for the tier
func (f FontSize) BasePixels() int {
	switch f {
	case FontSmall:
		return 18
	case FontLarge:
		return 28
	default:
		return 22
	}
}

// GenerationOptions are the user-facing knobs. Nil pointers and empty
// strings mean "not set" so layers can be merged.
type GenerationOptions struct {
	AspectRatio  AspectRatio `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
	FontSize     FontSize    `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	Minify       *bool       `json:"minify,omitempty" yaml:"minify,omitempty"`
	EmbedStyles  *bool       `json:"embedStyles,omitempty" yaml:"embedStyles,omitempty"`
	Theme        string      `json:"theme,omitempty" yaml:"theme,omitempty"`
	SlideNumbers *bool       `json:"slideNumbers,omitempty" yaml:"slideNumbers,omitempty"`
}

// ResolvedOptions is the fully merged option set used while rendering
type ResolvedOptions struct {
	AspectRatio  AspectRatio `json:"aspectRatio"`
	FontSize     FontSize    `json:"fontSize"`
	Minify       bool        `json:"minify"`
	EmbedStyles  bool        `json:"embedStyles"`
	Theme        string      `json:"theme,omitempty"`
	SlideNumbers bool        `json:"slideNumbers"`
}

// DefaultOptions returns the hard defaults
func DefaultOptions() ResolvedOptions {
	return ResolvedOptions{
		AspectRatio:  Aspect16x9,
		FontSize:     FontMedium,
		Minify:       false,
		EmbedStyles:  true,
		SlideNumbers: true,
	}
}

// Bool returns a pointer to b
func Bool(b bool) *bool {
	return &b
}

// ResolveOptions merges option layers over the hard defaults. Layers are
// ordered from lowest to highest precedence; nil layers are skipped.
func ResolveOptions(layers ...*GenerationOptions) ResolvedOptions {
	resolved := DefaultOptions()
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		if layer.AspectRatio != "" {
			resolved.AspectRatio = layer.AspectRatio
		}
		if layer.FontSize != "" {
			resolved.FontSize = layer.FontSize
		}
		if layer.Minify != nil {
			resolved.Minify = *layer.Minify
		}
		if layer.EmbedStyles != nil {
			resolved.EmbedStyles = *layer.EmbedStyles
		}
		if layer.Theme != "" {
			resolved.Theme = layer.Theme
		}
		if layer.SlideNumbers != nil {
			resolved.SlideNumbers = *layer.SlideNumbers
		}
	}
	if !resolved.AspectRatio.Valid() {
		resolved.AspectRatio = Aspect16x9
	}
	if !resolved.FontSize.Valid() {
		resolved.FontSize = FontMedium
	}
	return resolved
}

// Generation converts resolved options back into an explicit option layer
func (r ResolvedOptions) Generation() GenerationOptions {
	return GenerationOptions{
		AspectRatio:  r.AspectRatio,
		FontSize:     r.FontSize,
		Minify:       Bool(r.Minify),
		EmbedStyles:  Bool(r.EmbedStyles),
		Theme:        r.Theme,
		SlideNumbers: Bool(r.SlideNumbers),
	}
}
