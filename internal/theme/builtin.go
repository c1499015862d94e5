package theme

import "github.com/dpshade/pocket-deck/internal/models"

// ColorNames lists the colors every registered theme carries
var ColorNames = []string{
	"primary", "secondary", "accent", "background", "surface",
	"text", "muted", "border", "success", "warning", "danger",
}

var systemFonts = models.Typography{
	Heading:  `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`,
	Body:     `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`,
	Mono:     `"SFMono-Regular", Menlo, Consolas, "Liberation Mono", monospace`,
	BaseSize: 22,
}

// Builtin returns fresh copies of the themes that ship with pocket-deck
func Builtin() []*models.Theme {
	return []*models.Theme{
		{
			ID:          DefaultID,
			Name:        "Default",
			Description: "Clean light theme with a blue accent",
			Colors: map[string]string{
				"primary": "#2563eb", "secondary": "#64748b", "accent": "#f59e0b",
				"background": "#ffffff", "surface": "#f8fafc", "text": "#0f172a",
				"muted": "#64748b", "border": "#e2e8f0",
				"success": "#16a34a", "warning": "#d97706", "danger": "#dc2626",
			},
			Palette:    []string{"#2563eb", "#f59e0b", "#10b981", "#ef4444", "#8b5cf6", "#06b6d4", "#ec4899", "#84cc16"},
			Typography: systemFonts,
			CodeStyle:  "github",
		},
		{
			ID:          "dark",
			Name:        "Dark",
			Description: "High contrast dark theme",
			Dark:        true,
			Colors: map[string]string{
				"primary": "#60a5fa", "secondary": "#94a3b8", "accent": "#fbbf24",
				"background": "#0f172a", "surface": "#1e293b", "text": "#f1f5f9",
				"muted": "#94a3b8", "border": "#334155",
				"success": "#4ade80", "warning": "#fbbf24", "danger": "#f87171",
			},
			Palette:    []string{"#60a5fa", "#fbbf24", "#34d399", "#f87171", "#a78bfa", "#22d3ee", "#f472b6", "#a3e635"},
			Typography: systemFonts,
			CodeStyle:  "monokai",
		},
		{
			ID:          "corporate",
			Name:        "Corporate",
			Description: "Conservative navy and slate",
			Colors: map[string]string{
				"primary": "#1e3a8a", "secondary": "#475569", "accent": "#0891b2",
				"background": "#ffffff", "surface": "#f1f5f9", "text": "#1e293b",
				"muted": "#64748b", "border": "#cbd5e1",
				"success": "#15803d", "warning": "#b45309", "danger": "#b91c1c",
			},
			Palette: []string{"#1e3a8a", "#0891b2", "#475569", "#0d9488", "#7c3aed", "#b45309"},
			Typography: models.Typography{
				Heading:  `Georgia, "Times New Roman", serif`,
				Body:     systemFonts.Body,
				Mono:     systemFonts.Mono,
				BaseSize: 22,
			},
			CodeStyle: "friendly",
		},
		{
			ID:          "minimal",
			Name:        "Minimal",
			Description: "Monochrome with generous whitespace",
			Colors: map[string]string{
				"primary": "#111111", "secondary": "#555555", "accent": "#e11d48",
				"background": "#ffffff", "surface": "#fafafa", "text": "#111111",
				"muted": "#737373", "border": "#e5e5e5",
				"success": "#166534", "warning": "#a16207", "danger": "#be123c",
			},
			Palette:    []string{"#111111", "#737373", "#e11d48", "#a3a3a3", "#404040"},
			Typography: systemFonts,
			CodeStyle:  "bw",
		},
		{
			ID:          "vibrant",
			Name:        "Vibrant",
			Description: "Saturated purple and pink",
			Colors: map[string]string{
				"primary": "#7c3aed", "secondary": "#db2777", "accent": "#f97316",
				"background": "#fdf4ff", "surface": "#ffffff", "text": "#1f1235",
				"muted": "#6b5b7b", "border": "#f0d9ff",
				"success": "#059669", "warning": "#ea580c", "danger": "#e11d48",
			},
			Palette:    []string{"#7c3aed", "#db2777", "#f97316", "#06b6d4", "#84cc16", "#eab308"},
			Typography: systemFonts,
			CodeStyle:  "dracula",
		},
	}
}

// fillDefaults completes a theme with the default theme's colors, palette and fonts
func fillDefaults(t *models.Theme) *models.Theme {
	base := Builtin()[0]
	if t.Colors == nil {
		t.Colors = map[string]string{}
	}
	for _, name := range ColorNames {
		if t.Colors[name] == "" {
			t.Colors[name] = base.Colors[name]
		}
	}
	if len(t.Palette) == 0 {
		t.Palette = append([]string{t.Colors["primary"], t.Colors["accent"], t.Colors["secondary"]}, base.Palette[2:]...)
	}
	if t.Typography.Heading == "" {
		t.Typography.Heading = base.Typography.Heading
	}
	if t.Typography.Body == "" {
		t.Typography.Body = base.Typography.Body
	}
	if t.Typography.Mono == "" {
		t.Typography.Mono = base.Typography.Mono
	}
	if t.Typography.BaseSize <= 0 {
		t.Typography.BaseSize = base.Typography.BaseSize
	}
	if t.CodeStyle == "" {
		if t.Dark {
			t.CodeStyle = "monokai"
		} else {
			t.CodeStyle = base.CodeStyle
		}
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	return t
}
