package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const manualMarkdown = `# hb — hypermedia API browser

hb walks JSON REST APIs that describe themselves through ` + "`links`" + `
arrays. Every response is mined for links; the links become a tree you
navigate with the keyboard, and every fetch grows the tree in place.

## Moving around

The screen splits into the link tree on the left and the document body
on the right. ` + "`Tab`" + ` moves focus between them. In the tree,
` + "`j`" + ` and ` + "`k`" + ` move the cursor and ` + "`enter`" + `
follows the link under it. ` + "`l`" + ` expands a branch, or steps into
one that is already open; ` + "`h`" + ` collapses a branch, or steps out
to the enclosing node. ` + "`p`" + ` always jumps to the enclosing node.
Following a link attaches the newly discovered links underneath the node
you selected, so the tree records the whole path you took.

The top two nodes are fixed: the resource's *parent* and the resource
*itself*. Their labels come from the last segment of the URI path.
Re-selecting a node whose links are already on screen never refetches;
use the location bar to force a reload.

## The location bar

Press ` + "`o`" + `, ` + "`:`" + ` or ` + "`/`" + ` to edit the URI
directly and ` + "`enter`" + ` to go. A URI typed here resets the tree
to the new resource. http, https, file:// and plain paths all work, so
an API snapshot saved to disk browses the same way a live server does.

## Reading responses

The right panel shows the current document. ` + "`t`" + ` shows pretty
JSON, ` + "`y`" + ` shows a structure outline. ` + "`u`" + ` toggles link
decluttering: with it on, the ` + "`links`" + ` member is hidden from the
body since the tree already shows it.

Collections are expanded automatically: each item carrying a
` + "`canonical`" + ` link appears in the tree under its own name.

## Tools

- ` + "`f`" + ` opens a fuzzy filter over every link found so far
- ` + "`H`" + ` lists earlier visits; ` + "`enter`" + ` re-opens one
- ` + "`c`" + ` copies the link under the cursor, ` + "`C`" + ` the current URI
- ` + "`x`" + ` cancels a fetch that is taking too long

## Configuration

hb reads ` + "`~/.config/hb/config.yaml`" + `. Flags override environment
variables (` + "`HB_URI`" + `, ` + "`HB_USERNAME`" + `,
` + "`HB_PASSWORD`" + `), which override the file. Credentials are sent
as HTTP basic auth; ` + "`--insecure`" + ` accepts self-signed
certificates.
`

// ManualOverlayModel shows the built-in manual rendered as rich text.
type ManualOverlayModel struct {
	visible  bool
	viewport viewport.Model
	theme    Theme
	width    int
	height   int
	rendered bool
}

// NewManualOverlayModel creates the manual overlay
func NewManualOverlayModel(theme Theme) ManualOverlayModel {
	return ManualOverlayModel{
		viewport: viewport.New(60, 20),
		theme:    theme,
	}
}

// IsVisible returns true if the manual is showing
func (m ManualOverlayModel) IsVisible() bool {
	return m.visible
}

// Show opens the manual
func (m *ManualOverlayModel) Show() {
	m.visible = true
	if !m.rendered {
		m.render()
	}
	m.viewport.GotoTop()
}

// Hide closes the manual
func (m *ManualOverlayModel) Hide() {
	m.visible = false
}

// SetSize sets dimensions and re-renders for the new wrap width
func (m *ManualOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	vw := width - 8
	if vw < 30 {
		vw = 30
	}
	vh := height - 6
	if vh < 5 {
		vh = 5
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
	m.rendered = false
	if m.visible {
		m.render()
	}
}

func (m *ManualOverlayModel) render() {
	wrap := m.viewport.Width
	if wrap <= 0 {
		wrap = 76
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.viewport.SetContent(manualMarkdown)
		m.rendered = true
		return
	}
	out, err := r.Render(manualMarkdown)
	if err != nil {
		out = manualMarkdown
	}
	m.viewport.SetContent(out)
	m.rendered = true
}

// Update handles input and returns whether the key was consumed
func (m *ManualOverlayModel) Update(key string) (handled bool) {
	if !m.visible {
		return false
	}
	switch key {
	case "esc", "q", "f1", "ctrl+g":
		m.visible = false
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d", "pgdown":
		m.viewport.HalfViewDown()
	case "ctrl+u", "pgup":
		m.viewport.HalfViewUp()
	case "g", "home":
		m.viewport.GotoTop()
	case "G", "end":
		m.viewport.GotoBottom()
	}
	return true
}

// View renders the manual overlay centered in the window
func (m *ManualOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	t := m.theme
	footer := t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Italic(true).
		Render("j/k scroll · esc close")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)

	box := boxStyle.Render(m.viewport.View() + "\n" + footer)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
