package model

import (
	"fmt"
)

// Reserved structural link relations. Links carrying one of these rels shape
// the tree rather than appearing as ordinary navigation targets.
const (
	RelParent    = "parent"
	RelSelf      = "self"
	RelCanonical = "canonical"
)

// RelAction marks operation links; when such a link carries a title, the
// title becomes part of its display label.
const RelAction = "action"

// LinkRef is a hypermedia link: a {rel, href, title?} triple describing a
// relationship from the current resource to another. Immutable once parsed.
type LinkRef struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// IsStructural returns true if the rel is one of the reserved tree-shaping
// roles (parent, self, canonical).
func (l LinkRef) IsStructural() bool {
	switch l.Rel {
	case RelParent, RelSelf, RelCanonical:
		return true
	}
	return false
}

// IsNavigable returns true if the link is an ordinary navigation target
// rather than a structural role.
func (l LinkRef) IsNavigable() bool {
	return !l.IsStructural()
}

// Selectable returns true if the link can be followed. Links without an href
// still render in the tree but never trigger navigation.
func (l LinkRef) Selectable() bool {
	return l.Href != ""
}

// Label derives the display label: the rel, or "rel (title)" for action
// links that carry a title.
func (l LinkRef) Label() string {
	if l.Rel == RelAction && l.Title != "" {
		return fmt.Sprintf("%s (%s)", l.Rel, l.Title)
	}
	return l.Rel
}

// Validate checks if the link is usable as a tree entry
func (l LinkRef) Validate() error {
	if l.Rel == "" {
		return fmt.Errorf("link rel cannot be empty")
	}
	return nil
}

// Classification is the structural partition of a document's link list:
// at most one parent link, at most one self link (first match wins for
// both), and the ordered navigable remainder.
type Classification struct {
	Parent    *LinkRef
	Self      *LinkRef
	Navigable []LinkRef
}

// Document is the parsed JSON body of one fetched resource. Transient: only
// the currently displayed document is retained, never one per tree node.
type Document struct {
	URI  string
	Root Value
}

// Links decodes the document's top-level "links" array. Entries that are not
// objects or carry no rel are skipped; a missing or malformed field yields
// nil rather than an error.
func (d Document) Links() []LinkRef {
	return LinksOf(d.Root)
}

// LinksOf decodes the "links" member of any object value. Embedded items
// carry their own links array, so this works for both documents and items.
func LinksOf(v Value) []LinkRef {
	arr, ok := v.Get("links")
	if !ok || arr.Kind() != KindArray {
		return nil
	}
	var links []LinkRef
	for _, elem := range arr.Elems() {
		link, ok := linkFromValue(elem)
		if !ok {
			continue
		}
		links = append(links, link)
	}
	return links
}

// Items returns the document's top-level "items" array, or nil.
func (d Document) Items() []Value {
	arr, ok := d.Root.Get("items")
	if !ok || arr.Kind() != KindArray {
		return nil
	}
	return arr.Elems()
}

// Declutter returns the document body with the "links" member removed, for
// the decluttered raw view. The stored document is never mutated.
func (d Document) Declutter() Value {
	return d.Root.WithoutMember("links")
}

// linkFromValue extracts a LinkRef from one element of a links array.
func linkFromValue(v Value) (LinkRef, bool) {
	if v.Kind() != KindObject {
		return LinkRef{}, false
	}
	link := LinkRef{
		Rel:   stringField(v, "rel"),
		Href:  stringField(v, "href"),
		Title: stringField(v, "title"),
	}
	if err := link.Validate(); err != nil {
		return LinkRef{}, false
	}
	return link, true
}

// stringField returns the string value of an object member, or "" when the
// member is absent or not a string.
func stringField(v Value, key string) string {
	m, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, ok := m.AsString()
	if !ok {
		return ""
	}
	return s
}
