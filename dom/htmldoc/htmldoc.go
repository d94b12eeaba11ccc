// Package htmldoc implements dom.Document over a parsed HTML tree.
//
// Queries go through goquery with cascadia-compiled selectors kept in a
// shared LRU cache. A simple block layout gives every rendered element a
// rectangle so the picker can run headless: one 20px line per element in
// document order, indented 8px per depth level.
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"

	"github.com/hazyhaar/elpick/dom"
)

// Layout constants of the static block model.
const (
	ViewportWidth = 1000
	LineHeight    = 20
	Indent        = 8
	maxIndent     = 60
)

type compiled struct {
	sel cascadia.Selector
	err error
}

var selectorCache = newCache(1024)

func newCache(size int) *lru.Cache[string, compiled] {
	c, err := lru.New[string, compiled](size)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile compiles a CSS selector group, caching the result (including
// failures) by selector text.
func Compile(selector string) (cascadia.Selector, error) {
	if c, ok := selectorCache.Get(selector); ok {
		return c.sel, c.err
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		err = fmt.Errorf("htmldoc: compile selector %q: %w", selector, err)
	}
	selectorCache.Add(selector, compiled{sel: sel, err: err})
	return sel, err
}

// Document is a parsed HTML page. It is not safe for concurrent use.
type Document struct {
	root  *html.Node
	gq    *goquery.Document
	elems map[*html.Node]*Element
	// names holds the original local names the parser camel-cased
	names map[*html.Node]string

	version       int
	layoutVersion int
	layout        map[*html.Node]layoutBox
}

type layoutBox struct {
	rect  dom.Rect
	depth int
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return FromNode(root), nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FromNode wraps an already parsed tree. Camel-cased foreign element names
// (clipPath, foreignObject) are lower-cased in the tree so type selectors,
// which cascadia lower-cases, match them; LocalName still reports the
// original case.
func FromNode(root *html.Node) *Document {
	d := &Document{
		root:          root,
		gq:            goquery.NewDocumentFromNode(root),
		elems:         make(map[*html.Node]*Element),
		names:         make(map[*html.Node]string),
		layoutVersion: -1,
	}
	d.foldNames(root)
	return d
}

func (d *Document) foldNames(n *html.Node) {
	if n.Type == html.ElementNode {
		if lower := strings.ToLower(n.Data); lower != n.Data {
			d.names[n] = n.Data
			n.Data = lower
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.foldNames(c)
	}
}

// Element returns the interned wrapper for an element node, or nil.
func (d *Document) Element(n *html.Node) *Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	if e, ok := d.elems[n]; ok {
		return e
	}
	e := &Element{doc: d, n: n}
	d.elems[n] = e
	return e
}

// Body returns the body element, or nil.
func (d *Document) Body() dom.Element {
	sel := d.gq.Find("body")
	if sel.Length() == 0 {
		return nil
	}
	return d.Element(sel.Nodes[0])
}

// First returns the first element matching selector, or nil.
func (d *Document) First(selector string) (dom.Element, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	found := d.gq.FindMatcher(sel)
	if found.Length() == 0 {
		return nil, nil
	}
	return d.Element(found.Nodes[0]), nil
}

// QuerySelectorAll implements dom.Document.
func (d *Document) QuerySelectorAll(selector string) ([]dom.Element, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	nodes := d.gq.FindMatcher(sel).Nodes
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.Element(n))
	}
	return out, nil
}

// QueryChildren implements dom.Document.
func (d *Document) QueryChildren(parent dom.Element, selector string) ([]dom.Element, error) {
	p, ok := parent.(*Element)
	if !ok || p.doc != d {
		return nil, fmt.Errorf("htmldoc: query children: foreign element %T", parent)
	}
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	var out []dom.Element
	for c := p.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && sel.Match(c) {
			out = append(out, d.Element(c))
		}
	}
	return out, nil
}

// ElementFromPoint returns the deepest rendered element containing the
// point, or nil.
func (d *Document) ElementFromPoint(x, y float64) dom.Element {
	d.ensureLayout()
	var (
		best  *html.Node
		depth = -1
	)
	for n, box := range d.layout {
		if box.depth > depth && box.rect.Contains(x, y) {
			best, depth = n, box.depth
		}
	}
	if best == nil {
		return nil
	}
	return d.Element(best)
}

// Remove detaches el from the tree.
func (d *Document) Remove(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e.n.Parent == nil {
		return
	}
	e.n.Parent.RemoveChild(e.n)
	d.version++
}

// SetAttr sets or replaces an attribute on el.
func (d *Document) SetAttr(el dom.Element, name, value string) {
	e, ok := el.(*Element)
	if !ok {
		return
	}
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			d.version++
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
	d.version++
}

// Hide applies display:none to every element matching selector and
// returns how many were hidden.
func (d *Document) Hide(selector string) (int, error) {
	els, err := d.QuerySelectorAll(selector)
	if err != nil {
		return 0, err
	}
	for _, el := range els {
		style, _ := el.Attr("style")
		if isDisplayNone(style) {
			continue
		}
		if style != "" && !strings.HasSuffix(strings.TrimSpace(style), ";") {
			style += ";"
		}
		d.SetAttr(el, "style", style+"display:none !important")
	}
	return len(els), nil
}

// Element is an interned wrapper around an element node.
type Element struct {
	doc *Document
	n   *html.Node
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node { return e.n }

func (e *Element) LocalName() string {
	if name, ok := e.doc.names[e.n]; ok {
		return name
	}
	return e.n.Data
}

func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e *Element) ClassList() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) Parent() dom.Element {
	p := e.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.Element(p)
}

func (e *Element) Children() []dom.Element {
	var out []dom.Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.Element(c))
		}
	}
	return out
}

func (e *Element) Rect() dom.Rect {
	e.doc.ensureLayout()
	return e.doc.layout[e.n].rect
}

func (e *Element) String() string { return "<" + e.LocalName() + ">" }
