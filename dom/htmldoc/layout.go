package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/elpick/dom"
)

// ensureLayout recomputes the block layout when the tree changed through
// Remove, SetAttr or Hide since the last computation.
func (d *Document) ensureLayout() {
	if d.layoutVersion == d.version && d.layout != nil {
		return
	}
	d.layout = make(map[*html.Node]layoutBox)
	line := 0
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			d.place(c, 0, &line)
		}
	}
	d.layoutVersion = d.version
}

// place lays out n and its rendered descendants, returning how many lines
// the subtree occupies.
func (d *Document) place(n *html.Node, depth int, line *int) int {
	if !rendered(n) {
		return 0
	}
	top := *line
	*line++
	lines := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			lines += d.place(c, depth+1, line)
		}
	}

	indent := min(depth, maxIndent)
	x := float64(indent * Indent)
	d.layout[n] = layoutBox{
		depth: depth,
		rect: dom.Rect{
			X:      x,
			Y:      float64(top * LineHeight),
			Width:  ViewportWidth - 2*x,
			Height: float64(lines * LineHeight),
		},
	}
	return lines
}

func rendered(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript,
		atom.Title, atom.Meta, atom.Link, atom.Base:
		return false
	}
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		switch a.Key {
		case "hidden":
			return false
		case "style":
			if isDisplayNone(a.Val) {
				return false
			}
		}
	}
	return true
}

func isDisplayNone(style string) bool {
	s := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(s, "display:none")
}
