package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

func docFromJSON(t *testing.T, uri, src string) model.Document {
	t.Helper()
	v, err := model.ParseValue([]byte(src))
	if err != nil {
		t.Fatalf("parse document %s: %v", uri, err)
	}
	return model.Document{URI: uri, Root: v}
}

const apiBody = `{
	"links": [
		{"rel": "self", "href": "/api"},
		{"rel": "parent", "href": "/"},
		{"rel": "orders", "href": "/api/orders"},
		{"rel": "users", "href": "/api/users"}
	]
}`

const ordersBody = `{
	"links": [
		{"rel": "self", "href": "/api/orders"},
		{"rel": "parent", "href": "/api"}
	],
	"items": [
		{"name": "o1", "links": [{"rel": "canonical", "href": "/api/orders/o1"}]}
	]
}`

func loadedSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(context.Background())
	req, ok := s.SubmitURI("http://example.com/api")
	if !ok {
		t.Fatal("submit refused")
	}
	if !s.Resolve(req.Gen, docFromJSON(t, "http://example.com/api", apiBody), nil) {
		t.Fatal("resolve of current request was discarded")
	}
	return s
}

func findLeaf(t *testing.T, s *session.Session, label string) *session.Node {
	t.Helper()
	for _, n := range s.Tree().VisibleNodes() {
		if n.Label == label {
			return n
		}
	}
	t.Fatalf("no visible node labelled %q", label)
	return nil
}

func TestSubmitLifecycle(t *testing.T) {
	s := session.New(context.Background())
	if s.Status() != session.StatusIdle {
		t.Fatalf("initial status = %v, want idle", s.Status())
	}

	req, ok := s.SubmitURI("http://example.com/api")
	if !ok {
		t.Fatal("submit refused")
	}
	if req.URI != "http://example.com/api" {
		t.Errorf("request URI = %q", req.URI)
	}
	if s.Status() != session.StatusFetching {
		t.Errorf("status during fetch = %v, want fetching", s.Status())
	}

	doc := docFromJSON(t, "http://example.com/api", apiBody)
	if !s.Resolve(req.Gen, doc, nil) {
		t.Fatal("resolve discarded")
	}
	if s.Status() != session.StatusLoaded {
		t.Errorf("status after load = %v, want loaded", s.Status())
	}
	if s.CurrentURI() != "http://example.com/api" {
		t.Errorf("current URI = %q", s.CurrentURI())
	}
	if s.Document() == nil {
		t.Error("document missing after load")
	}

	self := s.Tree().Root().Children[1]
	if self.Label != "api" {
		t.Errorf("self label = %q, want api", self.Label)
	}
	if len(self.Children) != 2 {
		t.Errorf("navigable leaves = %d, want 2", len(self.Children))
	}
}

func TestSubmitEmptyURIRefused(t *testing.T) {
	s := session.New(context.Background())
	if _, ok := s.SubmitURI(""); ok {
		t.Error("empty URI accepted")
	}
	if s.Status() != session.StatusIdle {
		t.Errorf("status = %v, want idle", s.Status())
	}
}

// Walks the whole flow: load the entry point, drill into orders, see the
// canonical item link promoted to a navigable child, and confirm that
// re-selecting the populated node stays local.
func TestDrillDownAndItemPromotion(t *testing.T) {
	s := session.New(context.Background())

	req, _ := s.SubmitURI("http://example.com/api")
	s.Resolve(req.Gen, docFromJSON(t, "http://example.com/api", apiBody), nil)

	orders := findLeaf(t, s, "orders")
	req, ok := s.SelectNode(orders)
	if !ok {
		t.Fatal("selecting an unpopulated leaf must fetch")
	}
	if req.URI != "http://example.com/api/orders" {
		t.Errorf("relative href resolved to %q", req.URI)
	}

	if !s.Resolve(req.Gen, docFromJSON(t, "http://example.com/api/orders", ordersBody), nil) {
		t.Fatal("resolve discarded")
	}
	if s.CurrentURI() != "http://example.com/api/orders" {
		t.Errorf("current URI = %q", s.CurrentURI())
	}

	if len(orders.Children) != 1 || orders.Children[0].Label != "o1" {
		t.Fatalf("orders children = %v, want single o1 leaf", orders.Children)
	}
	if !orders.Expanded {
		t.Error("freshly populated node should open without another keypress")
	}
	if s.Tree().Cursor() != orders {
		t.Error("cursor should follow the selected node")
	}

	// Second selection of the now-populated node: no fetch at all.
	if _, ok := s.SelectNode(orders); ok {
		t.Error("re-selecting a populated node must not fetch")
	}
	if s.Status() != session.StatusLoaded {
		t.Errorf("status after no-op selection = %v, want loaded", s.Status())
	}

	// The promoted item is itself navigable.
	o1 := findLeaf(t, s, "o1")
	req, ok = s.SelectNode(o1)
	if !ok {
		t.Fatal("promoted item not selectable")
	}
	if req.URI != "http://example.com/api/orders/o1" {
		t.Errorf("item URI = %q", req.URI)
	}
}

func TestParentNodeRefetchesDespitePopulatedFlag(t *testing.T) {
	s := loadedSession(t)
	parent := s.Tree().Root().Children[0]

	// The parent node starts populated but childless, so selecting it
	// still navigates.
	req, ok := s.SelectNode(parent)
	if !ok {
		t.Fatal("childless parent node refused to fetch")
	}
	if req.URI != "http://example.com/" {
		t.Errorf("parent URI = %q", req.URI)
	}

	rootBody := `{"links": [{"rel": "self", "href": "/"}, {"rel": "api", "href": "/api"}]}`
	s.Resolve(req.Gen, docFromJSON(t, "http://example.com/", rootBody), nil)
	if len(parent.Children) != 1 || parent.Children[0].Label != "api" {
		t.Errorf("parent children after fetch = %v, want single api leaf", parent.Children)
	}
}

func TestFailureLeavesTreeUntouched(t *testing.T) {
	s := loadedSession(t)
	before := s.Tree().NodeCount()
	uriBefore := s.CurrentURI()

	orders := findLeaf(t, s, "orders")
	req, _ := s.SelectNode(orders)
	if !s.Resolve(req.Gen, model.Document{}, errors.New("connection refused")) {
		t.Fatal("failure resolve discarded")
	}

	if s.Status() != session.StatusFailed {
		t.Errorf("status = %v, want failed", s.Status())
	}
	if s.FailureReason() != "connection refused" {
		t.Errorf("failure reason = %q", s.FailureReason())
	}
	if got := s.Tree().NodeCount(); got != before {
		t.Errorf("node count changed on failure: %d -> %d", before, got)
	}
	if orders.Populated {
		t.Error("target node marked populated by a failed fetch")
	}
	if s.CurrentURI() != uriBefore {
		t.Errorf("current URI changed on failure: %q", s.CurrentURI())
	}
	if s.Document() == nil {
		t.Error("previous document lost on failure")
	}

	// Failed is not terminal: the next submission fetches normally.
	if _, ok := s.SubmitURI("http://example.com/api"); !ok {
		t.Error("submit refused after failure")
	}
	if s.Status() != session.StatusFetching {
		t.Errorf("status = %v, want fetching", s.Status())
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	s := session.New(context.Background())

	first, _ := s.SubmitURI("http://example.com/a")
	second, _ := s.SubmitURI("http://example.com/b")

	if first.Ctx.Err() == nil {
		t.Error("superseded request context not cancelled")
	}
	if second.Ctx.Err() != nil {
		t.Error("current request context cancelled prematurely")
	}

	if s.Resolve(first.Gen, docFromJSON(t, "http://example.com/a", apiBody), nil) {
		t.Error("stale result applied")
	}
	if s.Status() != session.StatusFetching {
		t.Errorf("status after stale result = %v, want fetching", s.Status())
	}
	if s.Document() != nil {
		t.Error("stale document stored")
	}

	if !s.Resolve(second.Gen, docFromJSON(t, "http://example.com/b", apiBody), nil) {
		t.Error("current result discarded")
	}
	if s.CurrentURI() != "http://example.com/b" {
		t.Errorf("current URI = %q, want the latest submission", s.CurrentURI())
	}
}

func TestCancelPending(t *testing.T) {
	s := session.New(context.Background())
	req, _ := s.SubmitURI("http://example.com/api")

	s.CancelPending()
	if req.Ctx.Err() == nil {
		t.Error("cancel left the request context alive")
	}
	if s.Status() != session.StatusIdle {
		t.Errorf("status = %v, want idle before any document", s.Status())
	}
	if s.Resolve(req.Gen, docFromJSON(t, "http://example.com/api", apiBody), nil) {
		t.Error("cancelled request still resolved")
	}

	// With a document already on screen, cancel returns to loaded.
	s = loadedSession(t)
	s.SubmitURI("http://example.com/other")
	s.CancelPending()
	if s.Status() != session.StatusLoaded {
		t.Errorf("status = %v, want loaded after cancel", s.Status())
	}
}

func TestSelectNodeRequiresLink(t *testing.T) {
	s := loadedSession(t)
	if _, ok := s.SelectNode(s.Tree().Root()); ok {
		t.Error("synthetic root accepted for navigation")
	}
	if _, ok := s.SelectNode(nil); ok {
		t.Error("nil node accepted for navigation")
	}
}

func TestDeclutterDisplay(t *testing.T) {
	s := loadedSession(t)

	v, ok := s.DisplayValue()
	if !ok {
		t.Fatal("no display value after load")
	}
	if _, found := v.Get("links"); !found {
		t.Error("links member missing with declutter off")
	}

	s.SetDeclutter(true)
	v, _ = s.DisplayValue()
	if _, found := v.Get("links"); found {
		t.Error("links member present with declutter on")
	}

	// The stored document keeps its links either way.
	if _, found := s.Document().Root.Get("links"); !found {
		t.Error("declutter modified the stored document")
	}
}

func TestResolveHref(t *testing.T) {
	cases := []struct {
		base string
		href string
		want string
	}{
		{"http://example.com/api", "/api/orders", "http://example.com/api/orders"},
		{"http://example.com/api/", "orders", "http://example.com/api/orders"},
		{"http://example.com/api", "http://other.net/x", "http://other.net/x"},
		{"", "/api/orders", "/api/orders"},
		{"not a url", "/x", "/x"},
	}
	for _, tc := range cases {
		if got := session.ResolveHref(tc.base, tc.href); got != tc.want {
			t.Errorf("ResolveHref(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	for st, want := range map[session.Status]string{
		session.StatusIdle:     "idle",
		session.StatusFetching: "fetching",
		session.StatusLoaded:   "loaded",
		session.StatusFailed:   "failed",
		session.Status(99):     "unknown",
	} {
		if got := st.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", st, got, want)
		}
	}
}
