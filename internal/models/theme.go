package models

// Typography holds font choices for a theme
type Typography struct {
	Heading  string `json:"heading" yaml:"heading"`
	Body     string `json:"body" yaml:"body"`
	Mono     string `json:"mono" yaml:"mono"`
	BaseSize int    `json:"baseSize,omitempty" yaml:"baseSize,omitempty"`
}

// Theme is a named color table plus typography
type Theme struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Dark        bool              `json:"dark" yaml:"dark"`
	Colors      map[string]string `json:"colors" yaml:"colors"`
	Palette     []string          `json:"palette" yaml:"palette"`
	Typography  Typography        `json:"typography" yaml:"typography"`
	CodeStyle   string            `json:"codeStyle,omitempty" yaml:"codeStyle,omitempty"`
}

// Color looks up a named color
func (t *Theme) Color(name string) (string, bool) {
	if t == nil || t.Colors == nil {
		return "", false
	}
	c, ok := t.Colors[name]
	return c, ok
}

// Clone returns a deep copy so callers cannot mutate registry state
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	out := *t
	out.Colors = make(map[string]string, len(t.Colors))
	for k, v := range t.Colors {
		out.Colors[k] = v
	}
	out.Palette = append([]string(nil), t.Palette...)
	return &out
}
