// Package session holds the navigation state machine and the link tree it
// maintains. It is UI-free and transport-free: fetches are dispatched by
// the caller, and results come back through Resolve, which discards
// anything the session has already navigated away from.
package session

import (
	"context"
	"net/url"

	"github.com/Dicklesworthstone/hal_browser/pkg/links"
	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

// Status is the lifecycle state of the navigation session.
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusLoaded
	StatusFailed
)

// String returns a human-readable name for the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Request describes one fetch the caller should dispatch. Gen is the
// cancellation token: Resolve ignores results whose generation is no
// longer current, and Ctx is cancelled outright when a newer request
// pre-empts this one.
type Request struct {
	URI string
	Gen uint64
	Ctx context.Context
}

// Session coordinates URI changes, fetch dispatch, tree mutation and
// output-view state. At most one fetch is live at a time; a new submit or
// select pre-empts the previous one and the latest request wins.
type Session struct {
	base context.Context

	tree       *Tree
	status     Status
	currentURI string
	doc        *model.Document
	failure    error
	declutter  bool

	gen    uint64
	cancel context.CancelFunc
	target *Node // node awaiting population; nil for URI submission
}

// New creates an idle session. The context is the parent for every fetch
// the session issues; cancelling it aborts any in-flight request.
func New(ctx context.Context) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Session{
		base:   ctx,
		tree:   NewTree(),
		status: StatusIdle,
	}
}

// SetDeclutter switches the raw-document display between full and
// links-stripped form. Takes effect from the next DisplayValue call; the
// stored document itself is never modified.
func (s *Session) SetDeclutter(on bool) {
	s.declutter = on
}

// Declutter reports whether the links field is stripped from display.
func (s *Session) Declutter() bool {
	return s.declutter
}

// SubmitURI starts navigation to an explicitly entered URI. Allowed from
// any state; an in-flight fetch is cancelled and superseded.
func (s *Session) SubmitURI(uri string) (Request, bool) {
	if uri == "" {
		return Request{}, false
	}
	return s.begin(uri, nil), true
}

// SelectNode starts navigation to the resource behind a tree node. Nodes
// without a selectable link are ignored, and a node that is already
// populated with children never re-fetches: its selection is a pure
// cursor movement.
func (s *Session) SelectNode(n *Node) (Request, bool) {
	link := s.tree.Selectable(n)
	if link == nil {
		return Request{}, false
	}
	if n.Populated && len(n.Children) > 0 {
		return Request{}, false
	}
	return s.begin(ResolveHref(s.currentURI, link.Href), n), true
}

// begin pre-empts any outstanding fetch and records the new one.
func (s *Session) begin(uri string, target *Node) Request {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.gen++
	s.target = target
	s.status = StatusFetching
	return Request{URI: uri, Gen: s.gen, Ctx: ctx}
}

// Resolve applies a completed fetch. The first step is the staleness
// check: a result whose generation is not the current one belongs to a
// pre-empted request and is discarded without touching any state. On
// failure the tree is left exactly as it was; only the status and failure
// reason change. On success the document's links are augmented with
// promoted items, classified, and integrated into the tree: a fresh
// Initialize for URI submissions, a Populate of the selected node
// otherwise.
func (s *Session) Resolve(gen uint64, doc model.Document, err error) bool {
	if gen != s.gen || s.status != StatusFetching {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err != nil {
		s.status = StatusFailed
		s.failure = err
		s.target = nil
		return true
	}

	cls := links.Classify(links.AugmentedLinks(doc))
	if s.target == nil {
		s.tree.Initialize(cls)
	} else {
		s.tree.Populate(s.target, cls.Navigable)
		// Open the node so the children just attached are on screen.
		s.target.Expanded = true
		s.tree.SetCursor(s.target)
	}

	s.doc = &doc
	s.currentURI = doc.URI
	s.status = StatusLoaded
	s.failure = nil
	s.target = nil
	return true
}

// CancelPending aborts any in-flight fetch and returns the session to an
// interactive state without touching the tree or document.
func (s *Session) CancelPending() {
	if s.status != StatusFetching {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.target = nil
	if s.doc != nil {
		s.status = StatusLoaded
	} else {
		s.status = StatusIdle
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// CurrentURI returns the URI of the most recently loaded document.
func (s *Session) CurrentURI() string {
	return s.currentURI
}

// Document returns the most recently loaded document, or nil before the
// first successful fetch.
func (s *Session) Document() *model.Document {
	return s.doc
}

// FailureReason returns the message for the Failed state, or "".
func (s *Session) FailureReason() string {
	if s.failure == nil {
		return ""
	}
	return s.failure.Error()
}

// DisplayValue returns the document body the output view should render,
// with the links member stripped when decluttering is on.
func (s *Session) DisplayValue() (model.Value, bool) {
	if s.doc == nil {
		return model.Value{}, false
	}
	if s.declutter {
		return s.doc.Declutter(), true
	}
	return s.doc.Root, true
}

// Tree returns the link tree for cursor operations and rendering.
func (s *Session) Tree() *Tree {
	return s.tree
}

// ResolveHref resolves a possibly relative link href against the current
// URI. Hypermedia responses routinely carry server-relative hrefs like
// /api/orders; following one from http://host/api must target
// http://host/api/orders.
func ResolveHref(base, href string) string {
	if base == "" {
		return href
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
