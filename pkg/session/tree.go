package session

import (
	"net/url"
	"strings"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

// Node is one reachable resource (or structural placeholder) in the link
// tree.
type Node struct {
	Label     string         // display label, possibly empty for structural nodes
	Link      *model.LinkRef // nil for pure structural nodes
	Children  []*Node        // sorted-by-rel order fixed at creation
	Parent    *Node          // back-reference for cursor navigation only
	Populated bool           // children derived from a fetch; expansion is idempotent once set
	Expanded  bool           // presentation flag, independent of population
}

// Role distinguishes the fixed structural nodes from ordinary link leaves.
type Role int

const (
	RoleLeaf Role = iota
	RoleRoot
	RoleParent
	RoleSelf
)

// Tree is the persistent, mutable tree of link nodes. It exclusively owns
// all nodes; parent pointers exist for cursor movement, never ownership.
type Tree struct {
	root       *Node
	parentNode *Node
	selfNode   *Node
	cursor     *Node
}

// NewTree returns an empty tree with only the synthetic root.
func NewTree() *Tree {
	root := &Node{Expanded: true}
	return &Tree{root: root, cursor: root}
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Initialize discards any existing tree and builds the fixed two-node
// structure for a freshly loaded resource: a parent-role node and a
// self-role node side by side under the synthetic root, with every
// navigable link attached as a leaf under the self node. Both fixed nodes
// come up populated and expanded.
func (t *Tree) Initialize(cls model.Classification) {
	root := &Node{Expanded: true}

	parentNode := &Node{
		Parent:    root,
		Populated: true,
		Expanded:  true,
	}
	if cls.Parent != nil {
		link := *cls.Parent
		parentNode.Link = &link
		parentNode.Label = LastPathSegment(link.Href)
	}

	selfNode := &Node{
		Parent:    root,
		Populated: true,
		Expanded:  true,
	}
	if cls.Self != nil {
		link := *cls.Self
		selfNode.Link = &link
		selfNode.Label = LastPathSegment(link.Href)
	}

	for _, link := range cls.Navigable {
		selfNode.Children = append(selfNode.Children, newLeaf(selfNode, link))
	}

	root.Children = []*Node{parentNode, selfNode}
	t.root = root
	t.parentNode = parentNode
	t.selfNode = selfNode
	t.cursor = selfNode
}

// Populate attaches one leaf per navigable link under the node, in the
// given (already sorted) order. A node that is populated and has children
// is never touched again: re-selection must not re-derive children.
func (t *Tree) Populate(n *Node, navigable []model.LinkRef) {
	if n == nil {
		return
	}
	if n.Populated && len(n.Children) > 0 {
		return
	}
	for _, link := range navigable {
		n.Children = append(n.Children, newLeaf(n, link))
	}
	n.Populated = true
}

func newLeaf(parent *Node, link model.LinkRef) *Node {
	l := link
	return &Node{
		Label:  link.Label(),
		Link:   &l,
		Parent: parent,
	}
}

// Selectable returns the node's link when it can actually be followed:
// present and carrying an href. Structural placeholders and href-less
// links yield nil and are simply not navigation targets.
func (t *Tree) Selectable(n *Node) *model.LinkRef {
	if n == nil || n.Link == nil || n.Link.Href == "" {
		return nil
	}
	return n.Link
}

// RoleOf reports which structural position the node occupies.
func (t *Tree) RoleOf(n *Node) Role {
	switch n {
	case t.root:
		return RoleRoot
	case t.parentNode:
		return RoleParent
	case t.selfNode:
		return RoleSelf
	}
	return RoleLeaf
}

// VisibleNodes returns the nodes in display order: the synthetic root
// followed by a depth-first walk that descends only into expanded nodes.
func (t *Tree) VisibleNodes() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		if !n.Expanded {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.root)
	return out
}

// Cursor returns the node the cursor currently rests on.
func (t *Tree) Cursor() *Node {
	return t.cursor
}

// SetCursor moves the cursor to the given node if it belongs to the tree.
func (t *Tree) SetCursor(n *Node) {
	if n == nil {
		return
	}
	for _, v := range t.VisibleNodes() {
		if v == n {
			t.cursor = n
			return
		}
	}
}

// CursorDown moves the cursor to the next node in display order.
func (t *Tree) CursorDown() {
	visible := t.VisibleNodes()
	for i, n := range visible {
		if n == t.cursor {
			if i < len(visible)-1 {
				t.cursor = visible[i+1]
			}
			return
		}
	}
	// Cursor fell off the visible set (collapse above it); reset to top.
	if len(visible) > 0 {
		t.cursor = visible[0]
	}
}

// CursorUp moves the cursor to the previous node in display order.
func (t *Tree) CursorUp() {
	visible := t.VisibleNodes()
	for i, n := range visible {
		if n == t.cursor {
			if i > 0 {
				t.cursor = visible[i-1]
			}
			return
		}
	}
	if len(visible) > 0 {
		t.cursor = visible[0]
	}
}

// CursorToParent jumps to the cursor node's parent, stopping at the root.
func (t *Tree) CursorToParent() {
	if t.cursor != nil && t.cursor.Parent != nil {
		t.cursor = t.cursor.Parent
	}
}

// ExpandCursor marks the cursor node expanded. Presentation only: data
// population is driven by selection, never by this flag.
func (t *Tree) ExpandCursor() {
	if t.cursor != nil {
		t.cursor.Expanded = true
	}
}

// CollapseCursor marks the cursor node collapsed.
func (t *Tree) CollapseCursor() {
	if t.cursor != nil {
		t.cursor.Expanded = false
	}
}

// NodeCount returns the number of nodes in the whole tree, visible or not.
// Used to verify that failed fetches leave the tree untouched.
func (t *Tree) NodeCount() int {
	count := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		count++
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.root)
	return count
}

// LastPathSegment returns the last non-empty path segment of an href, the
// label source for the parent and self nodes. An href without a path
// yields "".
func LastPathSegment(href string) string {
	if href == "" {
		return ""
	}
	path := href
	if u, err := url.Parse(href); err == nil {
		path = u.Path
	}
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
