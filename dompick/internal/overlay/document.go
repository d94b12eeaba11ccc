package overlay

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/picker"
)

// Document is the live page seen through rod. Element wrappers are fetched
// per query, so identity goes through the backend node id.
type Document struct {
	page   *rod.Page
	logger *slog.Logger
}

var _ picker.Page = (*Document)(nil)

// NewDocument wraps page.
func NewDocument(page *rod.Page, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{page: page, logger: logger}
}

func (d *Document) QuerySelectorAll(selector string) ([]dom.Element, error) {
	els, err := d.page.ElementsByJS(rod.Eval(`(sel) => Array.from(document.querySelectorAll(sel))
		.filter((e) => !e.closest('`+HostTag+`'))`, selector))
	if err != nil {
		return nil, fmt.Errorf("overlay: query %q: %w", selector, err)
	}
	return d.wrap(els), nil
}

func (d *Document) QueryChildren(parent dom.Element, selector string) ([]dom.Element, error) {
	p, ok := parent.(*Element)
	if !ok {
		return nil, fmt.Errorf("overlay: query children: foreign element %T", parent)
	}
	els, err := p.el.Elements(":scope > " + selector)
	if err != nil {
		return nil, fmt.Errorf("overlay: query children %q: %w", selector, err)
	}
	return d.wrap(els), nil
}

// ElementFromPoint returns the topmost page element at (x, y), skipping the
// overlay host.
func (d *Document) ElementFromPoint(x, y float64) dom.Element {
	els, err := d.page.ElementsByJS(rod.Eval(`(x, y) => {
		const el = document.elementsFromPoint(x, y).find((e) => !e.closest('`+HostTag+`'));
		return el ? [el] : [];
	}`, x, y))
	if err != nil {
		d.logger.Debug("overlay: element from point", "x", x, "y", y, "error", err)
		return nil
	}
	if len(els) == 0 {
		return nil
	}
	return d.wrap(els)[0]
}

func (d *Document) wrap(els rod.Elements) []dom.Element {
	out := make([]dom.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el, doc: d}
	}
	return out
}

// Element is a live page element.
type Element struct {
	el  *rod.Element
	doc *Document

	backendID proto.DOMBackendNodeID
	info      *elementInfo
}

var _ dom.Identity = (*Element)(nil)

// elementInfo is read once per wrapper; tag, id and classes are what the
// selector was built from.
type elementInfo struct {
	LocalName string            `json:"localName"`
	ID        string            `json:"id"`
	Classes   []string          `json:"classes"`
	Attrs     map[string]string `json:"attrs"`
}

func (e *Element) load() *elementInfo {
	if e.info != nil {
		return e.info
	}
	info := &elementInfo{}
	res, err := e.el.Eval(`function () {
		const attrs = {};
		for (const a of this.attributes) attrs[a.name] = a.value;
		return { localName: this.localName, id: this.id, classes: Array.from(this.classList), attrs };
	}`)
	if err != nil {
		e.doc.logger.Debug("overlay: read element", "error", err)
	} else if err := json.Unmarshal([]byte(res.Value.JSON("", "")), info); err != nil {
		e.doc.logger.Debug("overlay: decode element", "error", err)
	}
	e.info = info
	return info
}

func (e *Element) LocalName() string   { return e.load().LocalName }
func (e *Element) ID() string          { return e.load().ID }
func (e *Element) ClassList() []string { return e.load().Classes }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.load().Attrs[name]
	return v, ok
}

func (e *Element) Parent() dom.Element {
	els, err := e.doc.page.ElementsByJS(rod.Eval(`(el) => el.parentElement ? [el.parentElement] : []`, e.el.Object))
	if err != nil || len(els) == 0 {
		return nil
	}
	return e.doc.wrap(els)[0]
}

func (e *Element) Children() []dom.Element {
	els, err := e.doc.page.ElementsByJS(rod.Eval(`(el) => Array.from(el.children)`, e.el.Object))
	if err != nil {
		return nil
	}
	return e.doc.wrap(els)
}

// Rect reads the bounding client rect. Detached or unreachable elements
// report a zero rect.
func (e *Element) Rect() dom.Rect {
	res, err := e.el.Eval(`function () {
		if (!this.isConnected) return { x: 0, y: 0, width: 0, height: 0 };
		const r = this.getBoundingClientRect();
		return { x: r.x, y: r.y, width: r.width, height: r.height };
	}`)
	if err != nil {
		return dom.Rect{}
	}
	return decodeRect(res.Value.JSON("", ""))
}

// SameAs compares backend node ids.
func (e *Element) SameAs(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok {
		return false
	}
	a, b := e.backend(), o.backend()
	return a != 0 && a == b
}

func (e *Element) backend() proto.DOMBackendNodeID {
	if e.backendID != 0 {
		return e.backendID
	}
	node, err := e.el.Describe(0, false)
	if err != nil {
		return 0
	}
	e.backendID = node.BackendNodeID
	return e.backendID
}

func decodeRect(data string) dom.Rect {
	var r dom.Rect
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return dom.Rect{}
	}
	return r
}
