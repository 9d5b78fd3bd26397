package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

// LinkItem is one selectable entry in the link filter overlay.
type LinkItem struct {
	Node  *session.Node
	Label string
	Href  string
}

// LinkFilterModel is a fuzzy finder over every followable link discovered
// so far, including ones hidden inside collapsed subtrees.
type LinkFilterModel struct {
	allItems      []LinkItem
	filteredItems []LinkItem

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed    bool
	selectedItem *LinkItem
}

// NewLinkFilterModel creates an empty link filter
func NewLinkFilterModel(theme Theme) LinkFilterModel {
	ti := textinput.New()
	ti.Placeholder = "Search links..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return LinkFilterModel{
		searchInput: ti,
		theme:       theme,
	}
}

// SetItems rebuilds the candidate list from the tree, collapsed branches
// included.
func (m *LinkFilterModel) SetItems(tree *session.Tree) {
	var items []LinkItem
	var walk func(n *session.Node)
	walk = func(n *session.Node) {
		if link := tree.Selectable(n); link != nil {
			items = append(items, LinkItem{Node: n, Label: link.Label(), Href: link.Href})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range tree.Root().Children {
		walk(c)
	}

	m.allItems = items
	m.filteredItems = items
	m.selectedIndex = 0
}

// SetSize updates the selector dimensions
func (m *LinkFilterModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 50 {
		inputWidth = 50
	}
	m.searchInput.Width = inputWidth
}

// Update handles input and returns whether the key was consumed
func (m *LinkFilterModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+p":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+n":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if len(m.filteredItems) > 0 && m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		return true
	case "esc":
		m.confirmed = false
		m.selectedItem = nil
		return true
	case "backspace":
		if v := m.searchInput.Value(); len(v) > 0 {
			m.searchInput.SetValue(v[:len(v)-1])
			m.filterItems()
		}
		return true
	default:
		// Printable characters feed the query; rels and hrefs contain
		// letters like j and k, so navigation stays on arrows.
		if len([]rune(key)) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterItems()
			return true
		}
	}
	return false
}

func (m *LinkFilterModel) filterItems() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredItems = m.allItems
		m.selectedIndex = 0
		return
	}

	searchStrings := make([]string, len(m.allItems))
	for i, item := range m.allItems {
		searchStrings[i] = item.Label + " " + item.Href
	}

	matches := fuzzy.Find(query, searchStrings)

	m.filteredItems = make([]LinkItem, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
	m.selectedIndex = 0
}

// IsConfirmed returns true if user confirmed a selection
func (m *LinkFilterModel) IsConfirmed() bool {
	return m.confirmed
}

// SelectedItem returns the chosen link, or nil
func (m *LinkFilterModel) SelectedItem() *LinkItem {
	return m.selectedItem
}

// Reset clears the selection state for reuse
func (m *LinkFilterModel) Reset() {
	m.confirmed = false
	m.selectedItem = nil
	m.searchInput.SetValue("")
	m.filteredItems = m.allItems
	m.selectedIndex = 0
}

// View renders the link filter overlay centered in the window
func (m *LinkFilterModel) View() string {
	t := m.theme

	boxWidth := 60
	if m.width < 70 {
		boxWidth = m.width - 10
	}
	if boxWidth < 35 {
		boxWidth = 35
	}
	contentWidth := boxWidth - 4

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Jump to Link"))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Foreground(t.Base.GetForeground()).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)

	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue))
	lines = append(lines, "")

	maxVisible := m.height - 12
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 15 {
		maxVisible = 15
	}

	if len(m.filteredItems) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No matching links"))
	} else {
		for i, item := range m.filteredItems {
			if i >= maxVisible {
				break
			}
			lines = append(lines, m.renderItem(item, i == m.selectedIndex, contentWidth))
		}
		if len(m.filteredItems) > maxVisible {
			moreStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
			lines = append(lines, moreStyle.Render(
				"  ... and "+strconv.Itoa(len(m.filteredItems)-maxVisible)+" more"))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Subtext).
		Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓ navigate · enter jump · esc cancel"))

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

func (m *LinkFilterModel) renderItem(item LinkItem, selected bool, width int) string {
	t := m.theme

	label := Truncate(item.Label, 24)
	href := Truncate(item.Href, width-28)

	labelStyle := t.Renderer.NewStyle().Foreground(t.Base.GetForeground())
	hrefStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	line := "  " + labelStyle.Render(label) + "  " + hrefStyle.Render(href)

	if selected {
		return t.Renderer.NewStyle().
			Background(t.Highlight).
			Bold(true).
			Render(CursorMarker + label + "  " + href)
	}
	return line
}
