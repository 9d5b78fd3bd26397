package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Dicklesworthstone/hal_browser/pkg/config"
	"github.com/Dicklesworthstone/hal_browser/pkg/export"
	"github.com/Dicklesworthstone/hal_browser/pkg/links"
	"github.com/Dicklesworthstone/hal_browser/pkg/model"
	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

// LinkReport is the robot-mode payload: the classified links of a single
// fetch, promoted items included, in the order the tree would show them.
type LinkReport struct {
	URI    string          `json:"uri"`
	Parent *model.LinkRef  `json:"parent,omitempty"`
	Self   *model.LinkRef  `json:"self,omitempty"`
	Links  []model.LinkRef `json:"links"`
}

// RobotLinks fetches the start URI once and writes the classified links
// as indented JSON. No TUI comes up; the writer is the only output, so
// the result stays parseable by scripts.
func RobotLinks(ctx context.Context, cfg *config.Config, w io.Writer) error {
	doc, err := fetchOnce(ctx, cfg)
	if err != nil {
		return err
	}

	cls := links.Classify(links.AugmentedLinks(doc))
	report := LinkReport{
		URI:    doc.URI,
		Parent: cls.Parent,
		Self:   cls.Self,
		// Always an array in the output, even with nothing to list.
		Links: append([]model.LinkRef{}, cls.Navigable...),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ExportLinkMap fetches the start URI once, builds the link tree exactly
// as a fresh browsing session would, and writes it as an SVG diagram.
func ExportLinkMap(ctx context.Context, cfg *config.Config, path string) error {
	sess := session.New(ctx)
	req, ok := sess.SubmitURI(cfg.StartURI)
	if !ok {
		return fmt.Errorf("no URI to fetch")
	}

	doc, err := newClient(cfg).Fetch(req.Ctx, req.URI)
	if err != nil {
		return err
	}
	sess.Resolve(req.Gen, doc, nil)

	return export.SaveLinkMap(path, sess.Tree(), doc.URI)
}

func fetchOnce(ctx context.Context, cfg *config.Config) (model.Document, error) {
	if cfg.StartURI == "" {
		return model.Document{}, fmt.Errorf("no URI to fetch")
	}
	return newClient(cfg).Fetch(ctx, cfg.StartURI)
}
