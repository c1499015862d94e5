package models

import "time"

// Metadata is descriptive information about a deck
type Metadata struct {
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
}

// PresentationSpec is a validated deck definition
type PresentationSpec struct {
	Theme    string             `json:"theme"`
	Title    string             `json:"title"`
	Slides   []*Slide           `json:"slides"`
	Options  *GenerationOptions `json:"options,omitempty"`
	Metadata *Metadata          `json:"metadata,omitempty"`
}

// Author returns the metadata author, if any
func (p *PresentationSpec) Author() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Author
}

// Language returns the document language, defaulting to "en"
func (p *PresentationSpec) Language() string {
	if p.Metadata == nil || p.Metadata.Language == "" {
		return "en"
	}
	return p.Metadata.Language
}

// Tags returns the metadata tags, if any
func (p *PresentationSpec) Tags() []string {
	if p.Metadata == nil {
		return nil
	}
	return p.Metadata.Tags
}

// CreatedAt parses metadata.createdAt, returning the zero time when unset or malformed
func (p *PresentationSpec) CreatedAt() time.Time {
	if p.Metadata == nil || p.Metadata.CreatedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, p.Metadata.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DocumentMetadata describes a rendered document
type DocumentMetadata struct {
	Title       string    `json:"title"`
	SlideCount  int       `json:"slideCount"`
	Theme       string    `json:"theme"`
	AspectRatio string    `json:"aspectRatio"`
	GeneratedAt time.Time `json:"generatedAt"`
	Size        int       `json:"size"`
	Minified    bool      `json:"minified"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// RenderedDocument is the assembler's output
type RenderedDocument struct {
	HTML     string           `json:"html"`
	Options  ResolvedOptions  `json:"options"`
	Metadata DocumentMetadata `json:"metadata"`
}
