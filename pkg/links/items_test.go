package links_test

import (
	"testing"

	"github.com/Dicklesworthstone/hal_browser/pkg/links"
	"github.com/Dicklesworthstone/hal_browser/pkg/model"
)

func mustDocument(t *testing.T, src string) model.Document {
	t.Helper()
	root, err := model.ParseValue([]byte(src))
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	return model.Document{Root: root}
}

func TestExpandItemsPromotesCanonical(t *testing.T) {
	doc := mustDocument(t, `{
		"items": [
			{"name": "order1", "links": [{"rel": "canonical", "href": "/o/1"}]}
		]
	}`)

	promoted := links.ExpandItems(doc)
	if len(promoted) != 1 {
		t.Fatalf("Expected 1 promoted link, got %d", len(promoted))
	}
	if promoted[0].Rel != "order1" || promoted[0].Href != "/o/1" {
		t.Errorf("Expected {order1 /o/1}, got %+v", promoted[0])
	}
}

func TestExpandItemsSkipsWithoutCanonical(t *testing.T) {
	doc := mustDocument(t, `{
		"items": [
			{"name": "no-links"},
			{"name": "wrong-rel", "links": [{"rel": "self", "href": "/x"}]},
			{"name": "empty-href", "links": [{"rel": "canonical", "href": ""}]},
			{"name": "good", "links": [{"rel": "canonical", "href": "/ok"}]}
		]
	}`)

	promoted := links.ExpandItems(doc)
	if len(promoted) != 1 {
		t.Fatalf("Expected only the good item, got %v", promoted)
	}
	if promoted[0].Rel != "good" {
		t.Errorf("Expected rel good, got %q", promoted[0].Rel)
	}
}

func TestExpandItemsNameFallbacks(t *testing.T) {
	doc := mustDocument(t, `{
		"items": [
			{"links": [{"rel": "canonical", "href": "/a"}]},
			{"name": 42, "links": [{"rel": "canonical", "href": "/b"}]},
			{"name": {"nested": true}, "links": [{"rel": "canonical", "href": "/c"}]}
		]
	}`)

	promoted := links.ExpandItems(doc)
	if len(promoted) != 3 {
		t.Fatalf("Expected 3 promoted links, got %d", len(promoted))
	}
	if promoted[0].Rel != "0" {
		t.Errorf("Missing name should fall back to index, got %q", promoted[0].Rel)
	}
	if promoted[1].Rel != "42" {
		t.Errorf("Numeric name should stringify, got %q", promoted[1].Rel)
	}
	if promoted[2].Rel != "2" {
		t.Errorf("Unusable name should fall back to index, got %q", promoted[2].Rel)
	}
}

func TestExpandItemsEmpty(t *testing.T) {
	if got := links.ExpandItems(mustDocument(t, `{"items": []}`)); got != nil {
		t.Errorf("Expected nil for empty items, got %v", got)
	}
	if got := links.ExpandItems(mustDocument(t, `{"name": "svc"}`)); got != nil {
		t.Errorf("Expected nil for absent items, got %v", got)
	}
}

func TestAugmentedLinksAppends(t *testing.T) {
	doc := mustDocument(t, `{
		"links": [
			{"rel": "self", "href": "/api/orders"},
			{"rel": "stats", "href": "/api/orders/stats"}
		],
		"items": [
			{"name": "o1", "links": [{"rel": "canonical", "href": "/api/orders/1"}]}
		]
	}`)

	all := links.AugmentedLinks(doc)
	if len(all) != 3 {
		t.Fatalf("Expected 3 links (2 own + 1 promoted), got %d", len(all))
	}
	// Own links come first, promotion augments at the end.
	if all[0].Rel != "self" || all[1].Rel != "stats" || all[2].Rel != "o1" {
		t.Errorf("Unexpected augmented order: %v", all)
	}

	// The promoted link survives the classify path like an ordinary link.
	cls := links.Classify(all)
	found := false
	for _, l := range cls.Navigable {
		if l.Rel == "o1" && l.Href == "/api/orders/1" {
			found = true
		}
	}
	if !found {
		t.Errorf("Promoted link lost in classification: %v", cls.Navigable)
	}
}
