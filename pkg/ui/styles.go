package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired; DefaultTheme uses these for its dark side
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	// Accent colors
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#6272A4")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")
)

// ══════════════════════════════════════════════════════════════════════════════
// TREE GLYPHS - Expansion indicators and branch guides
// ══════════════════════════════════════════════════════════════════════════════

const (
	GlyphCollapsed = "▸"
	GlyphExpanded  = "▾"
	GlyphLeaf      = "•"

	BranchTee    = "├── "
	BranchElbow  = "└── "
	BranchPipe   = "│   "
	BranchBlank  = "    "
	CursorMarker = "❯ "
)

// ══════════════════════════════════════════════════════════════════════════════
// STATUS LINE - Session state rendering
// ══════════════════════════════════════════════════════════════════════════════

// RenderStatusBadge returns a styled badge for a session state name
func RenderStatusBadge(status string) string {
	var fg, bg lipgloss.Color
	var label string

	switch status {
	case "idle":
		fg, bg, label = ColorMuted, ColorBgSubtle, "IDLE"
	case "fetching":
		fg, bg, label = ColorInfo, lipgloss.Color("#1A3344"), "FETCH"
	case "loaded":
		fg, bg, label = ColorSuccess, lipgloss.Color("#1A3D2A"), "OK"
	case "failed":
		fg, bg, label = ColorDanger, lipgloss.Color("#3D1A1A"), "FAIL"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "????"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// Truncate trims a string to the given display width, appending an
// ellipsis when something was cut. Width-aware so CJK labels line up.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
