package links

import (
	"strconv"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

// ExpandItems synthesizes one navigable link per embedded collection item
// that carries its own canonical link: the item's "name" field becomes the
// rel (falling back to the item's position as a string) and the canonical
// href becomes the target. Items without a usable canonical link are
// silently skipped.
//
// Duplicate item names produce duplicate rels; they collide last-write-wins
// when inserted as sibling leaves, which is an accepted limitation.
func ExpandItems(doc model.Document) []model.LinkRef {
	items := doc.Items()
	if len(items) == 0 {
		return nil
	}

	var promoted []model.LinkRef
	for i, item := range items {
		canonical, ok := canonicalLink(item)
		if !ok {
			continue
		}
		rel := itemName(item)
		if rel == "" {
			rel = strconv.Itoa(i)
		}
		promoted = append(promoted, model.LinkRef{Rel: rel, Href: canonical.Href})
	}
	return promoted
}

// AugmentedLinks returns the document's own links followed by the promoted
// item links. Promotion augments the link list, never replaces it, so
// promoted links ride the same classify/sort path as ordinary ones.
func AugmentedLinks(doc model.Document) []model.LinkRef {
	own := doc.Links()
	promoted := ExpandItems(doc)
	if len(promoted) == 0 {
		return own
	}
	out := make([]model.LinkRef, 0, len(own)+len(promoted))
	out = append(out, own...)
	out = append(out, promoted...)
	return out
}

// canonicalLink finds the item's canonical link. A canonical entry without
// an href is useless as a navigation target and counts as absent.
func canonicalLink(item model.Value) (model.LinkRef, bool) {
	for _, link := range model.LinksOf(item) {
		if link.Rel == model.RelCanonical && link.Href != "" {
			return link, true
		}
	}
	return model.LinkRef{}, false
}

// itemName extracts the item's display name. String names are taken as-is;
// numeric names are stringified; anything else falls back to the positional
// index in ExpandItems.
func itemName(item model.Value) string {
	name, ok := item.Get("name")
	if !ok {
		return ""
	}
	if s, ok := name.AsString(); ok {
		return s
	}
	if n, ok := name.AsNumber(); ok {
		return n.String()
	}
	return ""
}
