package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// renderMarkdown renders markdown content using glamour.
func renderMarkdown(width int, content string) string {
	if content == "" {
		return ""
	}

	// Use a fixed style to avoid slow terminal background detection.
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSpace(out)
}

// Colors
var (
	colorPrimary   = lipgloss.Color("#E0A458") // warm gold
	colorSecondary = lipgloss.Color("#A8D8B9") // soft green
	colorMuted     = lipgloss.Color("#666666")
	colorHighlight = lipgloss.Color("#FFFBE6") // cream
	colorDanger    = lipgloss.Color("#E06C75")
	colorBorder    = lipgloss.Color("#444444")
	colorBubble    = lipgloss.Color("#2B2B2B")
)

// Layout styles
var (
	// App-level wrapper
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	// Title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)
)

// Tab strip
var (
	tabStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 1)
)

// Note bubbles
var (
	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Background(colorBubble).
			Padding(0, 1)

	// selectedBubbleStyle marks the note under the cursor in list mode.
	selectedBubbleStyle = bubbleStyle.
				BorderForeground(colorPrimary)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBubble)

	emptyPageStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

// Input bar
var (
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	focusedInputStyle = inputStyle.
				BorderForeground(colorPrimary)

	addMarkerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)

// Misc
var (
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	pickerKeyStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)
)

// Help bar
var (
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpBarStyle = lipgloss.NewStyle().
			MarginTop(1)
)

// Status messages
var (
	successStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)
)

// helpEntry renders a single "[key] description" help item.
func helpEntry(key, desc string) string {
	return helpKeyStyle.Render("["+key+"]") + " " + helpDescStyle.Render(desc)
}

// Constants for layout
const (
	defaultTerminalWidth  = 80
	defaultTerminalHeight = 24

	// Rows taken by everything but the pager, inside appStyle padding:
	// title + margin (2), tab strip (3), input bar (3), status (1),
	// help + margin (2).
	chromeHeight  = 11
	minPageHeight = 3
	minPageWidth  = 20

	// Vertical position of the tab strip and pager inside the frame,
	// counting appStyle's top padding.
	tabStripTop = 1 + 2
	pagerTop    = tabStripTop + 3
	frameLeft   = 2

	statusPreviewWidth = 32
)
