package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/hal_browser/pkg/export"
	"github.com/Dicklesworthstone/hal_browser/pkg/model"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

func demoTree() *session.Tree {
	t := session.NewTree()
	t.Initialize(model.Classification{
		Parent: &model.LinkRef{Rel: "parent", Href: "/"},
		Self:   &model.LinkRef{Rel: "self", Href: "/api"},
		Navigable: []model.LinkRef{
			{Rel: "orders", Href: "/api/orders"},
			{Rel: "users", Href: "/api/users"},
		},
	})
	orders := t.Root().Children[1].Children[0]
	t.Populate(orders, []model.LinkRef{{Rel: "o1", Href: "/api/orders/o1"}})
	return t
}

func TestWriteLinkMap(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteLinkMap(&buf, demoTree(), "http://example.com/api"); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an svg document")
	}
	for _, want := range []string{"http://example.com/api", "orders", "users", "o1", "/api/orders/o1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriteLinkMapIncludesCollapsedNodes(t *testing.T) {
	tree := demoTree()
	tree.Root().Children[1].Expanded = false

	var buf bytes.Buffer
	if err := export.WriteLinkMap(&buf, tree, "map"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "o1") {
		t.Error("collapsed subtree missing from export")
	}
}

func TestWriteLinkMapLabelsBareStructuralNodes(t *testing.T) {
	tree := session.NewTree()
	tree.Initialize(model.Classification{})

	var buf bytes.Buffer
	if err := export.WriteLinkMap(&buf, tree, "empty"); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "parent") || !strings.Contains(out, "self") {
		t.Error("structural placeholders missing labels in export")
	}
}

func TestWriteLinkMapReportsWriterFailure(t *testing.T) {
	if err := export.WriteLinkMap(failingWriter{}, demoTree(), "x"); err == nil {
		t.Error("writer failure swallowed")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestSaveLinkMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.svg")
	if err := export.SaveLinkMap(path, demoTree(), "title"); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "</svg>") {
		t.Error("saved file is not a complete svg document")
	}
}
