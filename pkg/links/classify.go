// Package links classifies hypermedia link lists into structural roles and
// promotes embedded collection items into navigable links. Every function
// here is pure: no I/O, no mutation of inputs.
package links

import (
	"sort"
	"strings"

	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

// Classify partitions a raw link list into the parent/self structural roles
// and the ordered navigable remainder.
//
// The first link with rel "parent" takes that role; any later ones are
// ignored. Same rule for "self". "canonical" is consumed by item promotion
// upstream and never surfaces here. Navigable links are sorted by rel,
// case-insensitive ascending; the sort is stable so equal rels keep their
// document order.
func Classify(raw []model.LinkRef) model.Classification {
	var cls model.Classification
	for _, link := range raw {
		switch link.Rel {
		case model.RelParent:
			if cls.Parent == nil {
				l := link
				cls.Parent = &l
			}
		case model.RelSelf:
			if cls.Self == nil {
				l := link
				cls.Self = &l
			}
		case model.RelCanonical:
			// Dropped: already consumed by item promotion where relevant.
		default:
			cls.Navigable = append(cls.Navigable, link)
		}
	}

	sort.SliceStable(cls.Navigable, func(i, j int) bool {
		return strings.ToLower(cls.Navigable[i].Rel) < strings.ToLower(cls.Navigable[j].Rel)
	})
	return cls
}
