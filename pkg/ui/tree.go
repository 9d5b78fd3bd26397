package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

// TreePanelModel renders the link tree with branch guides and keeps the
// cursor row scrolled into view. Cursor and expansion state live on the
// session tree itself; this model only owns presentation.
type TreePanelModel struct {
	tree    *session.Tree
	theme   Theme
	width   int
	height  int
	offset  int
	focused bool
}

// NewTreePanelModel creates a tree panel over the session tree.
func NewTreePanelModel(tree *session.Tree, theme Theme) TreePanelModel {
	return TreePanelModel{tree: tree, theme: theme, focused: true}
}

// SetSize updates the panel dimensions (content area, borders excluded).
func (m *TreePanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Focus marks the panel focused.
func (m *TreePanelModel) Focus() { m.focused = true }

// Blur removes focus.
func (m *TreePanelModel) Blur() { m.focused = false }

// Focused reports focus state.
func (m TreePanelModel) Focused() bool { return m.focused }

// Update handles a navigation key and reports whether it was consumed.
func (m *TreePanelModel) Update(key string) bool {
	t := m.tree
	switch key {
	case "j", "down":
		t.CursorDown()
	case "k", "up":
		t.CursorUp()
	case "l", "right", "shift+right":
		// Expand a closed branch; descend into an open one.
		if cur := t.Cursor(); cur != nil && cur.Expanded && len(cur.Children) > 0 {
			t.SetCursor(cur.Children[0])
		} else {
			t.ExpandCursor()
		}
	case "h", "left", "shift+left":
		// Collapse an open branch; ascend from anything else.
		if cur := t.Cursor(); cur != nil && cur.Expanded && len(cur.Children) > 0 {
			t.CollapseCursor()
		} else {
			t.CursorToParent()
		}
	case "p":
		t.CursorToParent()
	case "g", "home":
		if visible := t.VisibleNodes(); len(visible) > 0 {
			t.SetCursor(visible[0])
		}
	case "G", "end":
		if visible := t.VisibleNodes(); len(visible) > 0 {
			t.SetCursor(visible[len(visible)-1])
		}
	default:
		return false
	}
	m.ensureCursorVisible()
	return true
}

// Rows returns one prefixed, unstyled line per visible node, in the same
// order as session.Tree.VisibleNodes.
func (m *TreePanelModel) Rows() []string {
	var rows []string
	root := m.tree.Root()
	rows = append(rows, glyphFor(root)+" Links")

	if !root.Expanded {
		return rows
	}
	children := root.Children
	for i, c := range children {
		m.appendRows(&rows, c, "", i == len(children)-1)
	}
	return rows
}

func (m *TreePanelModel) appendRows(rows *[]string, n *session.Node, prefix string, last bool) {
	connector := BranchTee
	if last {
		connector = BranchElbow
	}
	*rows = append(*rows, prefix+connector+glyphFor(n)+" "+m.nodeLabel(n))

	if !n.Expanded {
		return
	}
	childPrefix := prefix + BranchPipe
	if last {
		childPrefix = prefix + BranchBlank
	}
	for i, c := range n.Children {
		m.appendRows(rows, c, childPrefix, i == len(n.Children)-1)
	}
}

func glyphFor(n *session.Node) string {
	if len(n.Children) == 0 {
		return GlyphLeaf
	}
	if n.Expanded {
		return GlyphExpanded
	}
	return GlyphCollapsed
}

func (m *TreePanelModel) nodeLabel(n *session.Node) string {
	if n.Label != "" {
		return n.Label
	}
	switch m.tree.RoleOf(n) {
	case session.RoleParent:
		return "parent"
	case session.RoleSelf:
		return "self"
	}
	return "?"
}

func (m *TreePanelModel) ensureCursorVisible() {
	if m.height <= 0 {
		return
	}
	idx := m.cursorIndex()
	if idx < m.offset {
		m.offset = idx
	}
	if idx >= m.offset+m.height {
		m.offset = idx - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *TreePanelModel) cursorIndex() int {
	cursor := m.tree.Cursor()
	for i, n := range m.tree.VisibleNodes() {
		if n == cursor {
			return i
		}
	}
	return 0
}

// View renders the visible window of tree rows, cursor row highlighted.
func (m *TreePanelModel) View() string {
	rows := m.Rows()
	visible := m.tree.VisibleNodes()
	cursorIdx := m.cursorIndex()

	start := m.offset
	if start > len(rows) {
		start = len(rows)
	}
	end := len(rows)
	if m.height > 0 && start+m.height < end {
		end = start + m.height
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderRow(rows[i], visible[i], i == cursorIdx))
	}

	// Pad to full height so the layout below the panel stays put.
	for i := end - start; i < m.height; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *TreePanelModel) renderRow(text string, n *session.Node, isCursor bool) string {
	t := m.theme
	line := Truncate(text, m.width)

	style := t.Renderer.NewStyle().Foreground(m.roleColor(n))
	if n.Link == nil && m.tree.RoleOf(n) != session.RoleRoot {
		// Structural placeholder without a link: present but inert.
		style = t.Renderer.NewStyle().Foreground(t.Muted).Italic(true)
	}
	if isCursor && m.focused {
		style = style.Background(t.Highlight).Bold(true)
	} else if isCursor {
		style = style.Bold(true)
	}
	return style.Render(line)
}

func (m *TreePanelModel) roleColor(n *session.Node) lipgloss.TerminalColor {
	switch m.tree.RoleOf(n) {
	case session.RoleSelf:
		return m.theme.Info
	case session.RoleParent:
		return m.theme.Warning
	case session.RoleRoot:
		return m.theme.Primary
	}
	if n.Link != nil && n.Link.Rel == model.RelAction {
		return m.theme.Primary
	}
	return m.theme.Base.GetForeground()
}
