package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

// OutputMode selects how the document body is rendered.
type OutputMode int

const (
	// ModeText shows the document as pretty-printed JSON.
	ModeText OutputMode = iota
	// ModeTree shows the document as an indented structure outline.
	ModeTree
)

// String returns the tab name for the mode
func (m OutputMode) String() string {
	if m == ModeTree {
		return "json"
	}
	return "text"
}

// OutputPanelModel shows the body of the current document, or the failure
// reason when the last fetch went wrong.
type OutputPanelModel struct {
	viewport viewport.Model
	theme    Theme
	mode     OutputMode

	value    model.Value
	hasValue bool
	failure  string

	width   int
	height  int
	focused bool
}

// NewOutputPanelModel creates an empty output panel.
func NewOutputPanelModel(theme Theme) OutputPanelModel {
	return OutputPanelModel{
		viewport: viewport.New(40, 20),
		theme:    theme,
	}
}

// SetSize updates the panel dimensions (content area, borders excluded).
func (m *OutputPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

// Focus marks the panel focused.
func (m *OutputPanelModel) Focus() { m.focused = true }

// Blur removes focus.
func (m *OutputPanelModel) Blur() { m.focused = false }

// Focused reports focus state.
func (m OutputPanelModel) Focused() bool { return m.focused }

// Mode returns the active render mode.
func (m OutputPanelModel) Mode() OutputMode { return m.mode }

// SetMode switches the render mode and re-renders from the top.
func (m *OutputPanelModel) SetMode(mode OutputMode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.refresh()
	m.viewport.GotoTop()
}

// SetValue shows a freshly loaded document body.
func (m *OutputPanelModel) SetValue(v model.Value) {
	m.value = v
	m.hasValue = true
	m.failure = ""
	m.refresh()
	m.viewport.GotoTop()
}

// SetFailure shows a fetch failure. The previous document body is
// replaced by the reason; the rest of the screen stays as it was.
func (m *OutputPanelModel) SetFailure(reason string) {
	m.failure = reason
	m.refresh()
	m.viewport.GotoTop()
}

// Update handles a scrolling key and reports whether it was consumed.
func (m *OutputPanelModel) Update(key string) bool {
	switch key {
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
	default:
		return false
	}
	return true
}

// View renders the panel contents.
func (m *OutputPanelModel) View() string {
	return m.viewport.View()
}

func (m *OutputPanelModel) refresh() {
	t := m.theme
	switch {
	case m.failure != "":
		style := t.Renderer.NewStyle().Foreground(t.Danger)
		m.viewport.SetContent(style.Render("error: " + m.failure))
	case !m.hasValue:
		style := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		m.viewport.SetContent(style.Render("Nothing loaded. Enter a URI and press enter."))
	case m.mode == ModeTree:
		m.viewport.SetContent(joinLines(outline(m.value)))
	default:
		text, err := m.value.Indent("  ")
		if err != nil {
			text = fmt.Sprintf("render error: %v", err)
		}
		m.viewport.SetContent(text)
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// outline renders the value as an indented structure tree, one line per
// member, the same shape as the link tree panel.
func outline(v model.Value) []string {
	var lines []string
	switch v.Kind() {
	case model.KindObject, model.KindArray:
		appendOutlineChildren(&lines, "", v)
	default:
		lines = append(lines, scalarText(v))
	}
	if len(lines) == 0 {
		lines = append(lines, "(empty)")
	}
	return lines
}

func appendOutlineChildren(lines *[]string, prefix string, v model.Value) {
	switch v.Kind() {
	case model.KindObject:
		members := v.Members()
		for i, mem := range members {
			appendOutlineNode(lines, prefix, mem.Key, mem.Value, i == len(members)-1)
		}
	case model.KindArray:
		elems := v.Elems()
		for i, el := range elems {
			appendOutlineNode(lines, prefix, fmt.Sprintf("[%d]", i), el, i == len(elems)-1)
		}
	}
}

func appendOutlineNode(lines *[]string, prefix, label string, v model.Value, last bool) {
	connector := BranchTee
	childPrefix := prefix + BranchPipe
	if last {
		connector = BranchElbow
		childPrefix = prefix + BranchBlank
	}

	switch v.Kind() {
	case model.KindObject, model.KindArray:
		*lines = append(*lines, prefix+connector+label)
		appendOutlineChildren(lines, childPrefix, v)
	default:
		*lines = append(*lines, prefix+connector+label+": "+scalarText(v))
	}
}

func scalarText(v model.Value) string {
	switch v.Kind() {
	case model.KindString:
		s, _ := v.AsString()
		return s
	case model.KindNumber:
		n, _ := v.AsNumber()
		return n.String()
	case model.KindBool:
		if b, _ := v.AsBool(); b {
			return "true"
		}
		return "false"
	}
	return "null"
}
