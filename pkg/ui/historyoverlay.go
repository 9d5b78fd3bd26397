package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/hal_browser/pkg/history"
)

// HistoryOverlayModel lists previously visited URIs so one keystroke can
// re-open an earlier stop.
type HistoryOverlayModel struct {
	items         []history.Visit
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed bool
	selected  *history.Visit
}

// NewHistoryOverlayModel creates an empty history overlay
func NewHistoryOverlayModel(theme Theme) HistoryOverlayModel {
	return HistoryOverlayModel{theme: theme}
}

// SetItems replaces the visit list, newest first.
func (m *HistoryOverlayModel) SetItems(items []history.Visit) {
	m.items = items
	m.selectedIndex = 0
}

// SetSize updates the overlay dimensions
func (m *HistoryOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input and returns whether the key was consumed
func (m *HistoryOverlayModel) Update(key string) (handled bool) {
	switch key {
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "j":
		if m.selectedIndex < len(m.items)-1 {
			m.selectedIndex++
		}
		return true
	case "g":
		m.selectedIndex = 0
		return true
	case "G":
		if len(m.items) > 0 {
			m.selectedIndex = len(m.items) - 1
		}
		return true
	case "enter":
		if len(m.items) > 0 && m.selectedIndex < len(m.items) {
			visit := m.items[m.selectedIndex]
			m.selected = &visit
			m.confirmed = true
		}
		return true
	case "esc", "H":
		m.confirmed = false
		m.selected = nil
		return true
	}
	return false
}

// IsConfirmed returns true if user picked a visit
func (m *HistoryOverlayModel) IsConfirmed() bool {
	return m.confirmed
}

// Selected returns the chosen visit, or nil
func (m *HistoryOverlayModel) Selected() *history.Visit {
	return m.selected
}

// Reset clears the selection state for reuse
func (m *HistoryOverlayModel) Reset() {
	m.confirmed = false
	m.selected = nil
	m.selectedIndex = 0
}

// View renders the history overlay centered in the window
func (m *HistoryOverlayModel) View() string {
	t := m.theme

	boxWidth := 70
	if m.width < 80 {
		boxWidth = m.width - 10
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	contentWidth := boxWidth - 4

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Visit History"))
	lines = append(lines, "")

	maxVisible := m.height - 10
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 20 {
		maxVisible = 20
	}

	if len(m.items) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No visits recorded yet"))
	} else {
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		for i := start; i < len(m.items) && i < start+maxVisible; i++ {
			lines = append(lines, m.renderItem(m.items[i], i == m.selectedIndex, contentWidth))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k navigate · enter open · esc close"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}

func (m *HistoryOverlayModel) renderItem(v history.Visit, selected bool, width int) string {
	t := m.theme

	dotColor := t.Success
	if v.Status != "ok" {
		dotColor = t.Danger
	}
	dot := t.Renderer.NewStyle().Foreground(dotColor).Render("●")

	age := relativeAge(time.Since(v.FetchedAt))
	ageStyled := t.Renderer.NewStyle().Foreground(t.Subtext).Width(9).Render(age)

	uri := Truncate(v.URI, width-14)

	if selected {
		return t.Renderer.NewStyle().
			Background(t.Highlight).
			Bold(true).
			Render(CursorMarker + age + " " + v.Status + " " + uri)
	}
	return "  " + dot + " " + ageStyled + " " + t.Renderer.NewStyle().Foreground(t.Base.GetForeground()).Render(uri)
}

// relativeAge formats a duration as a compact "ago" string.
func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
