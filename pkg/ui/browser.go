package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/hal_browser/pkg/history"
	"github.com/Dicklesworthstone/hal_browser/pkg/model"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

// Fetcher retrieves documents for the browser. *fetch.Client satisfies it;
// tests substitute canned responses.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (model.Document, error)
}

// DocumentMsg delivers a fetched document to the update loop.
type DocumentMsg struct {
	Gen uint64
	Doc model.Document
}

// FetchFailedMsg delivers a fetch error to the update loop.
type FetchFailedMsg struct {
	Gen uint64
	URI string
	Err error
}

// FileChangedMsg reports that a local file changed on disk. The browser
// reloads when the file is the resource currently on screen.
type FileChangedMsg struct {
	Path string
}

// ConfigReloadedMsg carries freshly loaded settings into the running
// browser after the config file changed on disk. A nil Fetcher keeps the
// current transport.
type ConfigReloadedMsg struct {
	Declutter bool
	Fetcher   Fetcher
}

// panelFocus identifies which half of the split view owns plain keys
type panelFocus int

const (
	focusTree panelFocus = iota
	focusOutput
)

// BrowserModel is the main model for the API browser
type BrowserModel struct {
	session *session.Session
	fetcher Fetcher
	visits  *history.DB // nil disables visit tracking
	logger  *slog.Logger

	theme  Theme
	width  int
	height int

	startURI string

	// Split view: side by side when the window is wide enough, stacked
	// below BreakpointMedium
	focus        panelFocus
	tree         TreePanelModel
	output       OutputPanelModel
	stacked      bool
	treeWidth    int
	outputWidth  int
	treeHeight   int
	outputHeight int

	// Location bar
	location        textinput.Model
	editingLocation bool

	spin spinner.Model

	// Overlays
	help   HelpOverlayModel
	manual ManualOverlayModel

	filter     LinkFilterModel
	showFilter bool

	visitsList HistoryOverlayModel
	showVisits bool

	// Transient status bar message, cleared on the next keypress
	note string
}

// NewBrowserModel creates the browser over an existing session
func NewBrowserModel(sess *session.Session, fetcher Fetcher, theme Theme) *BrowserModel {
	location := textinput.New()
	location.Placeholder = "http://host/api"
	location.Prompt = "uri: "
	location.CharLimit = 0

	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Renderer.NewStyle().Foreground(theme.Info)),
	)

	m := &BrowserModel{
		session:    sess,
		fetcher:    fetcher,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		theme:      theme,
		tree:       NewTreePanelModel(sess.Tree(), theme),
		output:     NewOutputPanelModel(theme),
		location:   location,
		spin:       spin,
		help:       NewHelpOverlayModel(theme),
		manual:     NewManualOverlayModel(theme),
		filter:     NewLinkFilterModel(theme),
		visitsList: NewHistoryOverlayModel(theme),
	}
	m.tree.Focus()
	return m
}

// SetHistory attaches the visit database. Without one the H overlay
// reports that history is disabled.
func (m *BrowserModel) SetHistory(db *history.DB) {
	m.visits = db
}

// SetLogger replaces the discard logger
func (m *BrowserModel) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// SetStartURI sets the resource fetched on startup
func (m *BrowserModel) SetStartURI(uri string) {
	m.startURI = uri
}

// Init implements tea.Model
func (m *BrowserModel) Init() tea.Cmd {
	if m.startURI == "" {
		// Nothing to load; drop straight into the location bar.
		m.editingLocation = true
		return m.location.Focus()
	}
	return m.submit(m.startURI)
}

// Update implements tea.Model
func (m *BrowserModel) Update(msg tea.Msg) (*BrowserModel, tea.Cmd) {
	switch msg := msg.(type) {
	case DocumentMsg:
		return m.applyDocument(msg)

	case FetchFailedMsg:
		return m.applyFailure(msg)

	case FileChangedMsg:
		uri := m.session.CurrentURI()
		if uri == "" || !refersToFile(uri, msg.Path) {
			return m, nil
		}
		m.logger.Info("reloading changed file", "path", msg.Path)
		return m, m.submit(uri)

	case ConfigReloadedMsg:
		m.session.SetDeclutter(msg.Declutter)
		if msg.Fetcher != nil {
			m.fetcher = msg.Fetcher
		}
		m.logger.Info("config reloaded", "declutter", msg.Declutter)
		m.refreshOutput()
		m.note = "config reloaded"
		return m, nil

	case spinner.TickMsg:
		if m.session.Status() != session.StatusFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other component messages while editing
	if m.editingLocation {
		var cmd tea.Cmd
		m.location, cmd = m.location.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *BrowserModel) applyDocument(msg DocumentMsg) (*BrowserModel, tea.Cmd) {
	if !m.session.Resolve(msg.Gen, msg.Doc, nil) {
		return m, nil
	}
	m.logger.Info("loaded", "uri", msg.Doc.URI, "links", len(msg.Doc.Links()))
	m.refreshOutput()
	return m, nil
}

func (m *BrowserModel) applyFailure(msg FetchFailedMsg) (*BrowserModel, tea.Cmd) {
	// Cancellations are user actions, not failures worth reporting.
	if errors.Is(msg.Err, context.Canceled) {
		return m, nil
	}
	if !m.session.Resolve(msg.Gen, model.Document{}, msg.Err) {
		return m, nil
	}
	m.logger.Error("fetch failed", "uri", msg.URI, "error", msg.Err)
	m.output.SetFailure(m.session.FailureReason())
	return m, nil
}

func (m *BrowserModel) refreshOutput() {
	if v, ok := m.session.DisplayValue(); ok {
		m.output.SetValue(v)
	}
}

// submit starts a fresh navigation to the given URI
func (m *BrowserModel) submit(uri string) tea.Cmd {
	req, ok := m.session.SubmitURI(uri)
	if !ok {
		return nil
	}
	return m.beginFetch(req)
}

func (m *BrowserModel) beginFetch(req session.Request) tea.Cmd {
	m.logger.Info("fetching", "uri", req.URI, "gen", req.Gen)
	m.note = ""
	return tea.Batch(m.spin.Tick, m.fetchCmd(req))
}

// fetchCmd runs the fetch off the update loop and reports back by message
func (m *BrowserModel) fetchCmd(req session.Request) tea.Cmd {
	return func() tea.Msg {
		doc, err := m.fetcher.Fetch(req.Ctx, req.URI)
		if err != nil {
			m.recordVisit(req.URI, "error", err)
			return FetchFailedMsg{Gen: req.Gen, URI: req.URI, Err: err}
		}
		m.recordVisit(doc.URI, "ok", nil)
		return DocumentMsg{Gen: req.Gen, Doc: doc}
	}
}

func (m *BrowserModel) recordVisit(uri, status string, cause error) {
	if m.visits == nil || errors.Is(cause, context.Canceled) {
		return
	}
	if _, err := m.visits.RecordVisit(uri, status); err != nil {
		m.logger.Warn("history write failed", "error", err)
	}
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) (*BrowserModel, tea.Cmd) {
	key := msg.String()

	// Overlays take every key while visible
	if m.manual.IsVisible() {
		m.manual.Update(key)
		return m, nil
	}
	if m.help.IsVisible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	if m.showFilter {
		return m.handleFilterKey(key)
	}
	if m.showVisits {
		return m.handleVisitsKey(key)
	}
	if m.editingLocation {
		return m.handleLocationKey(msg)
	}

	m.note = ""
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.help.Show()

	case "f1", "ctrl+g":
		m.manual.Show()

	case "o", ":", "/":
		m.location.SetValue(m.session.CurrentURI())
		m.location.CursorEnd()
		m.editingLocation = true
		return m, m.location.Focus()

	case "tab":
		m.toggleFocus()

	case "t":
		m.output.SetMode(ModeText)

	case "y":
		m.output.SetMode(ModeTree)

	case "u":
		m.session.SetDeclutter(!m.session.Declutter())
		m.refreshOutput()

	case "c":
		m.copyCursorHref()

	case "C":
		m.copyToClipboard(m.session.CurrentURI(), "URI copied")

	case "x":
		if m.session.Status() == session.StatusFetching {
			m.session.CancelPending()
			m.note = "fetch cancelled"
		}

	case "f":
		m.filter.SetItems(m.session.Tree())
		m.filter.Reset()
		m.filter.SetSize(m.width, m.height)
		m.showFilter = true

	case "H":
		return m.openVisits()

	case "enter":
		if m.focus == focusTree {
			return m.followCursor()
		}

	default:
		if m.focus == focusTree {
			m.tree.Update(key)
		} else {
			m.output.Update(key)
		}
	}
	return m, nil
}

// followCursor fetches the link under the tree cursor. Nodes whose links
// are already on screen just toggle open instead of refetching.
func (m *BrowserModel) followCursor() (*BrowserModel, tea.Cmd) {
	node := m.session.Tree().Cursor()
	if node == nil {
		return m, nil
	}
	req, ok := m.session.SelectNode(node)
	if !ok {
		m.session.Tree().ExpandCursor()
		return m, nil
	}
	return m, m.beginFetch(req)
}

func (m *BrowserModel) handleLocationKey(msg tea.KeyMsg) (*BrowserModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingLocation = false
		m.location.Blur()
		return m, nil
	case "enter":
		uri := strings.TrimSpace(m.location.Value())
		m.editingLocation = false
		m.location.Blur()
		return m, m.submit(uri)
	}
	var cmd tea.Cmd
	m.location, cmd = m.location.Update(msg)
	return m, cmd
}

func (m *BrowserModel) handleFilterKey(key string) (*BrowserModel, tea.Cmd) {
	if key == "esc" {
		m.showFilter = false
		m.filter.Reset()
		return m, nil
	}
	m.filter.Update(key)
	if m.filter.IsConfirmed() {
		item := m.filter.SelectedItem()
		m.showFilter = false
		m.filter.Reset()
		if item != nil {
			m.jumpTo(item.Node)
		}
	}
	return m, nil
}

func (m *BrowserModel) handleVisitsKey(key string) (*BrowserModel, tea.Cmd) {
	if key == "esc" || key == "H" {
		m.showVisits = false
		m.visitsList.Reset()
		return m, nil
	}
	m.visitsList.Update(key)
	if m.visitsList.IsConfirmed() {
		visit := m.visitsList.Selected()
		m.showVisits = false
		m.visitsList.Reset()
		if visit != nil {
			return m, m.submit(visit.URI)
		}
	}
	return m, nil
}

// jumpTo moves the tree cursor to a node picked in the filter, opening
// every ancestor so the node is actually visible.
func (m *BrowserModel) jumpTo(n *session.Node) {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expanded = true
	}
	m.session.Tree().SetCursor(n)
	m.focus = focusTree
	m.tree.Focus()
	m.output.Blur()
}

func (m *BrowserModel) openVisits() (*BrowserModel, tea.Cmd) {
	if m.visits == nil {
		m.note = "history is disabled"
		return m, nil
	}
	items, err := m.visits.Recent(50)
	if err != nil {
		m.logger.Warn("history read failed", "error", err)
		m.note = "history unavailable"
		return m, nil
	}
	m.visitsList.SetItems(items)
	m.visitsList.SetSize(m.width, m.height)
	m.showVisits = true
	return m, nil
}

func (m *BrowserModel) toggleFocus() {
	if m.focus == focusTree {
		m.focus = focusOutput
		m.tree.Blur()
		m.output.Focus()
	} else {
		m.focus = focusTree
		m.output.Blur()
		m.tree.Focus()
	}
}

// copyCursorHref copies the resolved href of the link under the cursor.
func (m *BrowserModel) copyCursorHref() {
	link := m.session.Tree().Selectable(m.session.Tree().Cursor())
	if link == nil {
		m.note = "nothing to copy"
		return
	}
	m.copyToClipboard(session.ResolveHref(m.session.CurrentURI(), link.Href), "href copied")
}

func (m *BrowserModel) copyToClipboard(text, note string) {
	if text == "" {
		m.note = "nothing to copy"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.note = "clipboard unavailable"
		return
	}
	m.note = note
}

// SetSize recomputes the split layout for a new terminal size
func (m *BrowserModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	// Location bar and separator above, separator and keybinds below
	contentHeight := height - 4
	if contentHeight < MinContentHeight {
		contentHeight = MinContentHeight
	}

	m.stacked = width < BreakpointMedium
	if m.stacked {
		m.treeWidth = width
		m.outputWidth = width
		m.treeHeight = (contentHeight * 40) / 100
		if m.treeHeight < MinContentHeight {
			m.treeHeight = MinContentHeight
		}
		m.outputHeight = contentHeight - m.treeHeight - 1 // 1 for the separator
		if m.outputHeight < MinContentHeight {
			m.outputHeight = MinContentHeight
		}
	} else {
		m.treeHeight = contentHeight
		m.outputHeight = contentHeight
		m.treeWidth = (width * 40) / 100
		if m.treeWidth < 24 {
			m.treeWidth = 24
		}
		m.outputWidth = width - m.treeWidth - 1 // 1 for the divider
		if m.outputWidth < 20 {
			m.outputWidth = 20
		}
	}

	m.tree.SetSize(m.treeWidth, m.treeHeight)
	m.output.SetSize(m.outputWidth, m.outputHeight)

	m.location.Width = width - 8

	m.help.SetSize(width, height)
	m.manual.SetSize(width, height)
	m.filter.SetSize(width, height)
	m.visitsList.SetSize(width, height)
}

// View implements tea.Model
func (m *BrowserModel) View() string {
	if m.width == 0 {
		return ""
	}

	if m.manual.IsVisible() {
		return m.manual.View()
	}
	if m.help.IsVisible() {
		return m.help.View()
	}
	if m.showFilter {
		return m.filter.View()
	}
	if m.showVisits {
		return m.visitsList.View()
	}

	var output strings.Builder
	sepStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Border)

	// ══════════════════════════════════════════════════════════════════
	// HEADER
	// ══════════════════════════════════════════════════════════════════
	output.WriteString(m.renderLocationBar() + "\n")
	output.WriteString(sepStyle.Render(strings.Repeat("─", m.width)) + "\n")

	// ══════════════════════════════════════════════════════════════════
	// CONTENT PANELS
	// ══════════════════════════════════════════════════════════════════
	if m.stacked {
		output.WriteString(m.renderStackedPanels(sepStyle))
	} else {
		output.WriteString(m.renderSplitPanels(sepStyle))
	}

	// ══════════════════════════════════════════════════════════════════
	// FOOTER
	// ══════════════════════════════════════════════════════════════════
	output.WriteString(sepStyle.Render(strings.Repeat("─", m.width)) + "\n")
	output.WriteString(m.renderStatusBar())

	return output.String()
}

// renderSplitPanels lays the tree beside the output with a focus-colored
// divider column between them.
func (m *BrowserModel) renderSplitPanels(sepStyle lipgloss.Style) string {
	leftLines := strings.Split(m.tree.View(), "\n")
	rightLines := strings.Split(m.output.View(), "\n")

	dividerStyle := sepStyle
	if m.focus == focusOutput {
		dividerStyle = m.theme.Renderer.NewStyle().Foreground(m.theme.Primary)
	}
	divider := dividerStyle.Render("│")

	var b strings.Builder
	for i := 0; i < m.treeHeight; i++ {
		leftLine := ""
		if i < len(leftLines) {
			leftLine = leftLines[i]
		}
		rightLine := ""
		if i < len(rightLines) {
			rightLine = rightLines[i]
		}

		// Pad the left panel out to the divider column
		if pad := m.treeWidth - lipgloss.Width(leftLine); pad > 0 {
			leftLine += strings.Repeat(" ", pad)
		}

		b.WriteString(leftLine)
		b.WriteString(divider)
		b.WriteString(rightLine)
		b.WriteString("\n")
	}
	return b.String()
}

// renderStackedPanels lays the tree above the output for narrow windows.
func (m *BrowserModel) renderStackedPanels(sepStyle lipgloss.Style) string {
	dividerStyle := sepStyle
	if m.focus == focusOutput {
		dividerStyle = m.theme.Renderer.NewStyle().Foreground(m.theme.Primary)
	}

	var b strings.Builder
	treeLines := strings.Split(m.tree.View(), "\n")
	for i := 0; i < m.treeHeight; i++ {
		if i < len(treeLines) {
			b.WriteString(treeLines[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.width)) + "\n")

	outputLines := strings.Split(m.output.View(), "\n")
	for i := 0; i < m.outputHeight; i++ {
		if i < len(outputLines) {
			b.WriteString(outputLines[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *BrowserModel) renderLocationBar() string {
	if m.editingLocation {
		return m.location.View()
	}

	t := m.theme
	badge := RenderStatusBadge(m.session.Status().String())
	if m.session.Status() == session.StatusFetching {
		badge = m.spin.View() + " " + badge
	}

	uri := m.session.CurrentURI()
	if uri == "" {
		hint := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		return badge + " " + hint.Render("press o to enter a URI")
	}
	uriStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	return badge + " " + uriStyle.Render(Truncate(uri, m.width-12))
}

func (m *BrowserModel) renderStatusBar() string {
	t := m.theme

	left := m.note
	if left == "" && m.session.Status() == session.StatusFailed {
		left = m.session.FailureReason()
	}
	leftStyle := t.Renderer.NewStyle().Foreground(t.Warning)
	if m.note != "" {
		leftStyle = t.Renderer.NewStyle().Foreground(t.Success)
	}

	mode := "view: " + m.output.Mode().String()
	if m.session.Declutter() {
		mode += " · links hidden"
	}
	hints := mode + " · ? help · q quit"
	if m.width < BreakpointNarrow {
		hints = mode
	}
	hintStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	leftText := leftStyle.Render(Truncate(left, m.width/2))
	rightText := hintStyle.Render(hints)

	gap := m.width - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if gap < 1 {
		return leftText
	}
	return leftText + strings.Repeat(" ", gap) + rightText
}

func refersToFile(uri, path string) bool {
	return uri == path || strings.TrimPrefix(uri, "file://") == path
}

// BrowserProgram wraps BrowserModel to implement tea.Model for tea.NewProgram
type BrowserProgram struct {
	browser *BrowserModel
}

// NewBrowserProgram creates the program wrapper
func NewBrowserProgram(browser *BrowserModel) *BrowserProgram {
	return &BrowserProgram{browser: browser}
}

// Init implements tea.Model
func (p *BrowserProgram) Init() tea.Cmd {
	return p.browser.Init()
}

// Update implements tea.Model
func (p *BrowserProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.browser.SetSize(msg.Width, msg.Height)
		return p, nil
	}

	var cmd tea.Cmd
	p.browser, cmd = p.browser.Update(msg)
	return p, cmd
}

// View implements tea.Model
func (p *BrowserProgram) View() string {
	return p.browser.View()
}
