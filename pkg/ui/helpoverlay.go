package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := m.theme.Renderer.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("API Browser Help"))
	b.WriteString("\n\n")

	sectionStyle := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Secondary)
	keyStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Width(14)
	descStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Subtext)

	// Navigation section
	b.WriteString(sectionStyle.Render("NAVIGATION") + "\n")
	shortcuts := []struct{ key, desc string }{
		{"j/↓ k/↑", "Move cursor"},
		{"enter", "Follow link under cursor"},
		{"l/shift+→", "Expand / step into node"},
		{"h/shift+←", "Collapse / step out"},
		{"p", "Jump to parent node"},
		{"g/G", "Top / bottom"},
		{"Tab", "Switch panel focus"},
		{"o : /", "Edit location URI"},
	}
	for _, s := range shortcuts {
		b.WriteString("  " + keyStyle.Render(s.key) + descStyle.Render(s.desc) + "\n")
	}
	b.WriteString("\n")

	// Output section
	b.WriteString(sectionStyle.Render("OUTPUT") + "\n")
	outputs := []struct{ key, desc string }{
		{"t", "Text view (pretty JSON)"},
		{"y", "Structure view"},
		{"u", "Toggle link decluttering"},
		{"c", "Copy link under cursor"},
		{"C", "Copy current URI"},
	}
	for _, o := range outputs {
		b.WriteString("  " + keyStyle.Render(o.key) + descStyle.Render(o.desc) + "\n")
	}
	b.WriteString("\n")

	// Tools section
	b.WriteString(sectionStyle.Render("TOOLS") + "\n")
	tools := []struct{ key, desc string }{
		{"f", "Fuzzy link filter"},
		{"H", "Visit history"},
		{"x", "Cancel in-flight fetch"},
		{"F1/ctrl+g", "Manual"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}
	for _, v := range tools {
		b.WriteString("  " + keyStyle.Render(v.key) + descStyle.Render(v.desc) + "\n")
	}

	b.WriteString("\n")
	hintStyle := m.theme.Renderer.NewStyle().Faint(true).Italic(true)
	b.WriteString(hintStyle.Render("[Press any key to close]"))

	// Wrap in box
	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
