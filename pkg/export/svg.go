// Package export renders the discovered link tree to shareable artifacts.
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/hal_browser/pkg/session"
)

// Palette mirrors the TUI theme so exported maps look like the browser.
const (
	svgBg     = "#282A36"
	svgBox    = "#44475A"
	svgText   = "#F8F8F2"
	svgMuted  = "#6272A4"
	svgSubtle = "#BFBFBF"
	svgAccent = "#BD93F9"
	svgSelf   = "#8BE9FD"
)

// Layout constants (in pixels)
const (
	rowHeight  = 36
	boxHeight  = 26
	boxPad     = 8
	indentStep = 48
	charWidth  = 8
	hrefWidth  = 7
	marginX    = 24
	marginY    = 56
)

type row struct {
	node  *session.Node
	depth int
}

// WriteLinkMap renders every node discovered so far, visible or collapsed,
// as a boxes-and-elbows SVG diagram headed by the given title.
func WriteLinkMap(w io.Writer, t *session.Tree, title string) error {
	ew := &errWriter{w: w}
	rows := flatten(t)

	width := marginX + len(title)*charWidth + marginX
	for _, r := range rows {
		if edge := rowEdge(t, r); edge > width {
			width = edge
		}
	}
	height := marginY + len(rows)*rowHeight + marginY/2

	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, "fill:"+svgBg)
	canvas.Text(marginX, 30, title, textStyle(14, svgAccent))

	yOf := make(map[*session.Node]int)
	xOf := make(map[*session.Node]int)
	for i, r := range rows {
		x := marginX + r.depth*indentStep
		y := marginY + i*rowHeight
		yOf[r.node] = y
		xOf[r.node] = x

		if py, ok := yOf[r.node.Parent]; ok {
			px := xOf[r.node.Parent] + 12
			mid := y + boxHeight/2
			canvas.Line(px, py+boxHeight, px, mid, lineStyle())
			canvas.Line(px, mid, x, mid, lineStyle())
		}

		label := displayLabel(t, r.node)
		boxW := len(label)*charWidth + 2*boxPad
		canvas.Roundrect(x, y, boxW, boxHeight, 4, 4, boxStyle(t, r.node))
		canvas.Text(x+boxPad, y+18, label, textStyle(13, svgText))

		if r.node.Link != nil && r.node.Link.Href != "" {
			canvas.Text(x+boxW+boxPad, y+18, r.node.Link.Href, textStyle(11, svgSubtle))
		}
	}
	canvas.End()

	return ew.err
}

// SaveLinkMap writes the diagram to a file.
func SaveLinkMap(path string, t *session.Tree, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg file: %w", err)
	}
	if err := WriteLinkMap(f, t, title); err != nil {
		f.Close()
		return fmt.Errorf("render svg: %w", err)
	}
	return f.Close()
}

// flatten walks the whole tree below the synthetic root, depth-first.
func flatten(t *session.Tree) []row {
	var rows []row
	var walk func(n *session.Node, depth int)
	walk = func(n *session.Node, depth int) {
		rows = append(rows, row{node: n, depth: depth})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, c := range t.Root().Children {
		walk(c, 0)
	}
	return rows
}

// rowEdge returns the rightmost pixel a row needs, href included.
func rowEdge(t *session.Tree, r row) int {
	x := marginX + r.depth*indentStep
	boxW := len(displayLabel(t, r.node))*charWidth + 2*boxPad
	edge := x + boxW + marginX
	if r.node.Link != nil && r.node.Link.Href != "" {
		edge += boxPad + len(r.node.Link.Href)*hrefWidth
	}
	return edge
}

func displayLabel(t *session.Tree, n *session.Node) string {
	if n.Label != "" {
		return n.Label
	}
	switch t.RoleOf(n) {
	case session.RoleParent:
		return "parent"
	case session.RoleSelf:
		return "self"
	}
	return "link"
}

func boxStyle(t *session.Tree, n *session.Node) string {
	stroke := svgMuted
	switch t.RoleOf(n) {
	case session.RoleSelf:
		stroke = svgSelf
	case session.RoleLeaf:
		if n.Populated {
			stroke = svgAccent
		}
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", svgBox, stroke)
}

func textStyle(size int, color string) string {
	return fmt.Sprintf("font-family:monospace;font-size:%dpx;fill:%s", size, color)
}

func lineStyle() string {
	return "stroke:" + svgMuted + ";stroke-width:1"
}

// errWriter remembers the first write failure so the svg canvas, which
// never returns errors itself, still surfaces broken pipes and full disks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
