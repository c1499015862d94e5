package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	// Primary brand colors (work well on both light and dark)
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	// Semantic colors
	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	// Neutral colors (contrast-adaptive)
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
	ColorSurface   lipgloss.Color
)

func init() {
	initializeColors()
	buildStyles()
}

// initializeColors sets up adaptive colors based on terminal background
func initializeColors() {
	// GLAMOUR_STYLE forces a palette, matching the markdown renderer
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
		return
	case "dark":
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
	ColorSurface = lipgloss.Color("236")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
	ColorSurface = lipgloss.Color("254")
}

// Component Styles
var (
	StyleTitle     lipgloss.Style
	StyleSubtitle  lipgloss.Style
	StyleText      lipgloss.Style
	StyleTextMuted lipgloss.Style
	StyleTextDim   lipgloss.Style

	StyleSuccess lipgloss.Style
	StyleWarning lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style

	StyleContentContainer lipgloss.Style
	StyleMetadata         lipgloss.Style
	StyleCode             lipgloss.Style
	StyleSwatch           lipgloss.Style

	StyleScrollIndicator       lipgloss.Style
	StyleScrollIndicatorActive lipgloss.Style
)

// buildStyles derives the component styles from the current palette
func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleSubtitle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)

	// Slide outline pane in the preview
	StyleContentContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	StyleMetadata = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Padding(0, 1)

	StyleCode = lipgloss.NewStyle().
		Foreground(ColorAccent).
		Padding(0, 1)

	StyleSwatch = lipgloss.NewStyle().Padding(0, 1)

	StyleScrollIndicator = lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Align(lipgloss.Center)
}

// CreateMainHeader renders a page title
func CreateMainHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

func CreateHelp(text string) string {
	return StyleTextDim.Render(text)
}

// CreateStatus renders text in the style of a status type: success,
// warning, error or info
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateSwatch renders a colour sample followed by its hex value
func CreateSwatch(name, hex string) string {
	sample := StyleSwatch.Background(lipgloss.Color(hex)).Render("  ")
	return fmt.Sprintf("%s %-12s %s", sample, name, StyleTextMuted.Render(hex))
}

// CreateGuaranteedHelp renders help text that fits the terminal width
func CreateGuaranteedHelp(helpText string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(ColorTextDim).
		Width(width).
		Align(lipgloss.Left).
		Padding(0, 1)

	if width > 5 && len(helpText) > width-2 {
		helpText = helpText[:width-5] + "..."
	}

	return helpStyle.Render(helpText)
}

// CreateScrollIndicators renders the markers above and below a scrollable pane
func CreateScrollIndicators(canScrollUp, canScrollDown bool, width int) (string, string) {
	line := strings.Repeat("─", max(width, 9))
	top := StyleScrollIndicator.Width(width).Render(line)
	if canScrollUp {
		top = StyleScrollIndicatorActive.Width(width).Render("...")
	}
	bottom := StyleScrollIndicator.Width(width).Render(line)
	if canScrollDown {
		bottom = StyleScrollIndicatorActive.Width(width).Render("...")
	}
	return top, bottom
}

// AddMainPadding indents main content
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}
