package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dpshade/pocket-deck/internal/clipboard"
	"github.com/dpshade/pocket-deck/internal/errors"
	"github.com/dpshade/pocket-deck/internal/models"
	"github.com/dpshade/pocket-deck/internal/service"
)

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	// Check for environment variable override first
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch profile {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		// Limited color terminals and pipes
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// RenderMarkdown renders markdown for terminal output at the given width
func RenderMarkdown(md string, width int) (string, error) {
	r, err := createGlamourRenderer(width)
	if err != nil {
		return "", fmt.Errorf("failed to create glamour renderer: %w", err)
	}
	return r.Render(md)
}

// specLoadedMsg carries the result of reading and validating the spec file
type specLoadedMsg struct {
	spec *models.PresentationSpec
	err  error
}

// loadSpecCmd loads the spec file (the storage cache makes reloads cheap)
func loadSpecCmd(svc *service.Service, path string) tea.Cmd {
	return func() tea.Msg {
		spec, err := svc.Spec(path)
		return specLoadedMsg{spec: spec, err: err}
	}
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewDeck ViewMode = iota
	ViewSlide
)

// slideItem adapts a slide to the list component
type slideItem struct {
	index int
	slide *models.Slide
}

func (i slideItem) Title() string { return service.SlideTitle(i.index, i.slide) }

func (i slideItem) Description() string {
	desc := string(i.slide.Kind)
	if i.slide.ID != "" {
		desc += " · #" + i.slide.ID
	}
	if i.slide.Notes != "" {
		desc += " · notes"
	}
	return desc
}

func (i slideItem) FilterValue() string { return i.slide.Heading() + " " + string(i.slide.Kind) }

// Model represents the preview application state
type Model struct {
	service  *service.Service
	path     string
	viewMode ViewMode

	// UI components
	slideList list.Model
	viewport  viewport.Model
	help      help.Model
	keys      KeyMap

	// Data
	spec     *models.PresentationSpec
	selected int
	loading  bool

	glamourRenderer *glamour.TermRenderer

	// Window dimensions
	width  int
	height int

	// Status messages
	statusMsg     string
	statusType    string
	statusTimeout int
	errHandler    *errors.TUIErrorHandler

	// Error state
	err error
}

// KeyMap defines the preview key bindings
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Enter  key.Binding
	Back   key.Binding
	Reload key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Prev, k.Next, k.Reload, k.Copy},
		{k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l", "n"),
		key.WithHelp("→/n", "next slide"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "p"),
		key.WithHelp("←/p", "previous slide"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view slide"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload spec"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy slide outline"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewModel creates the preview for the spec file at path
func NewModel(svc *service.Service, path string) (*Model, error) {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20) // resized on the first WindowSizeMsg
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	keyMap := list.DefaultKeyMap()
	keyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	)
	l.KeyMap = keyMap

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	renderer, err := createGlamourRenderer(60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		service:         svc,
		path:            path,
		viewMode:        ViewDeck,
		slideList:       l,
		viewport:        vp,
		help:            help.New(),
		keys:            keys,
		loading:         true,
		glamourRenderer: renderer,
		errHandler:      errors.NewTUIErrorHandler(svc.Config().Verbose),
	}, nil
}

// Init loads the spec
func (m Model) Init() tea.Cmd {
	return loadSpecCmd(m.service, m.path)
}

// tickMsg is sent to clear the status message
type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) setStatus(text, statusType string) tea.Cmd {
	m.statusMsg = text
	m.statusType = statusType
	m.statusTimeout = 4
	return clearStatusCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case specLoadedMsg:
		first := m.loading
		m.loading = false
		if msg.err != nil {
			err := m.errHandler.HandleError(msg.err)
			if first {
				m.err = err
				return m, nil
			}
			// Keep showing the last good spec after a failed reload
			return m, m.setStatus("Reload failed: "+errors.GetAppError(err).Message, "error")
		}
		m.spec = msg.spec
		m.err = nil
		m.refreshSlideList()
		if m.selected >= len(m.spec.Slides) {
			m.selected = len(m.spec.Slides) - 1
		}
		if m.viewMode == ViewSlide {
			m.renderSlide()
		}
		if !first {
			return m, m.setStatus(fmt.Sprintf("Reloaded %d slides", len(m.spec.Slides)), "success")
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// title + metadata + help + status + container borders
		const reservedHeight = 8
		availableHeight := msg.Height - reservedHeight
		if availableHeight < 5 {
			availableHeight = 5
		}

		m.slideList.SetSize(msg.Width-4, availableHeight)

		viewportWidth := msg.Width - 8
		if viewportWidth < 40 {
			viewportWidth = 40
		}
		m.viewport.Width = viewportWidth
		m.viewport.Height = availableHeight - 2
		m.help.Width = msg.Width
		if renderer, err := createGlamourRenderer(viewportWidth - 2); err == nil {
			m.glamourRenderer = renderer
		}
		if m.viewMode == ViewSlide {
			m.renderSlide()
		}
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Back) {
				return m, tea.Quit
			}
			return m, nil
		}

		// Let the list own every key while its filter input is open
		if m.viewMode == ViewDeck && m.slideList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.slideList, cmd = m.slideList.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			return m, loadSpecCmd(m.service, m.path)
		case key.Matches(msg, m.keys.Copy) && m.spec != nil:
			return m, m.copySlide()
		}

		switch m.viewMode {
		case ViewDeck:
			if key.Matches(msg, m.keys.Enter) && !m.loading {
				if item, ok := m.slideList.SelectedItem().(slideItem); ok {
					m.selected = item.index
					m.viewMode = ViewSlide
					m.renderSlide()
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.slideList, cmd = m.slideList.Update(msg)
			cmds = append(cmds, cmd)

		case ViewSlide:
			switch {
			case key.Matches(msg, m.keys.Back):
				m.viewMode = ViewDeck
				m.slideList.Select(m.selected)
				return m, nil
			case key.Matches(msg, m.keys.Next):
				if m.selected < len(m.spec.Slides)-1 {
					m.selected++
					m.renderSlide()
				}
				return m, nil
			case key.Matches(msg, m.keys.Prev):
				if m.selected > 0 {
					m.selected--
					m.renderSlide()
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// copySlide puts the markdown outline of the open or highlighted slide on
// the clipboard
func (m *Model) copySlide() tea.Cmd {
	i := m.selected
	if m.viewMode == ViewDeck {
		item, ok := m.slideList.SelectedItem().(slideItem)
		if !ok {
			return nil
		}
		i = item.index
	}
	msg, err := clipboard.CopyWithFallback(service.SlideOutline(i, m.spec.Slides[i]))
	if err != nil {
		return m.setStatus(err.Error(), "error")
	}
	return m.setStatus(msg, "success")
}

// refreshSlideList rebuilds the list items from the current spec
func (m *Model) refreshSlideList() {
	items := make([]list.Item, len(m.spec.Slides))
	for i, s := range m.spec.Slides {
		items[i] = slideItem{index: i, slide: s}
	}
	m.slideList.SetItems(items)
}

// renderSlide renders the selected slide's outline into the viewport
func (m *Model) renderSlide() {
	if m.spec == nil || m.selected < 0 || m.selected >= len(m.spec.Slides) {
		m.viewport.SetContent("No slide selected")
		return
	}
	md := service.SlideOutline(m.selected, m.spec.Slides[m.selected])
	formatted, err := m.glamourRenderer.Render(md)
	if err != nil {
		formatted = md
	}
	m.viewport.SetContent(formatted)
	m.viewport.GotoTop()
}

// View renders the current view
func (m Model) View() string {
	if m.err != nil {
		icon, color := m.errHandler.GetErrorStyle(m.err)
		title := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).
			Render(icon + " Cannot preview " + m.path)
		return fmt.Sprintf("\n%s\n\n%s\n\n  Press 'q' to quit.\n", title, m.errHandler.FormatError(m.err))
	}

	var mainView string
	switch m.viewMode {
	case ViewSlide:
		mainView = m.renderSlideView()
	default:
		mainView = m.renderDeckView()
	}

	if m.statusMsg != "" {
		return AddMainPadding(lipgloss.JoinVertical(lipgloss.Left, mainView, CreateStatus(m.statusMsg, m.statusType)))
	}
	return AddMainPadding(mainView)
}

// deckMetadata summarizes the spec for the header line
func (m Model) deckMetadata() string {
	meta := fmt.Sprintf("%d slides", len(m.spec.Slides))
	if m.spec.Theme != "" {
		meta = "theme " + m.spec.Theme + " • " + meta
	}
	if author := m.spec.Author(); author != "" {
		meta = author + " • " + meta
	}
	return meta
}

// renderDeckView renders the slide list
func (m Model) renderDeckView() string {
	if m.loading || m.spec == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			CreateMainHeader("Pocket Deck"),
			StyleInfo.Render("Loading "+m.path+"..."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		CreateMainHeader(m.spec.Title),
		CreateMetadata(m.deckMetadata()),
		m.slideList.View(),
		m.help.View(m.keys),
	)
}

// renderSlideView renders the selected slide in full-page view
func (m Model) renderSlideView() string {
	slide := m.spec.Slides[m.selected]
	header := CreateMainHeader(service.SlideTitle(m.selected, slide))

	metadata := fmt.Sprintf("%s • %d/%d", slide.Kind, m.selected+1, len(m.spec.Slides))
	if slide.ID != "" {
		metadata += " • #" + slide.ID
	}
	if slide.Reveal {
		metadata += " • reveal"
	}

	topIndicator, bottomIndicator := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom(), m.viewport.Width)
	content := StyleContentContainer.Render(lipgloss.JoinVertical(lipgloss.Left,
		topIndicator,
		m.viewport.View(),
		bottomIndicator,
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		CreateMetadata(metadata),
		content,
		CreateGuaranteedHelp("←/→ slides • ↑/↓ scroll • esc back • r reload • q quit", m.width),
	)
}

// Run starts the preview program for the spec file at path
func Run(svc *service.Service, path string) error {
	m, err := NewModel(svc, path)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
