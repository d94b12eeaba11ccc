// Package tracker keeps the set of highlighted elements and their cached
// bounding rectangles.
package tracker

import (
	"github.com/hazyhaar/elpick/dom"
)

// Passthrough toggles pointer events on the picker's full-screen overlay.
type Passthrough interface {
	SetPointerEvents(enabled bool)
}

// WithPassthrough runs fn with overlay pointer events disabled so hit tests
// and rect reads see the page underneath. Pointer events are restored when
// fn returns, including on panic. A nil p runs fn directly.
func WithPassthrough(p Passthrough, fn func()) {
	if p == nil {
		fn()
		return
	}
	p.SetPointerEvents(false)
	defer p.SetPointerEvents(true)
	fn()
}

// Target is a non-owning reference to a highlighted element plus its rect
// as of the last recomputation.
type Target struct {
	el   dom.Element
	rect dom.Rect
}

// Element returns the tracked element.
func (t *Target) Element() dom.Element { return t.el }

// Rect returns the cached rect. It is never refreshed implicitly.
func (t *Target) Rect() dom.Rect { return t.rect }

// Live reports whether the cached rect has an area.
func (t *Target) Live() bool { return !t.rect.Empty() }

func (t *Target) recalc() { t.rect = t.el.Rect() }

// Collection is the ordered set of everything currently highlighted.
type Collection struct {
	targets []*Target
	pass    Passthrough
	toggle  func(on bool)
}

// Option configures a Collection.
type Option func(*Collection)

// WithOverlay sets the overlay whose pointer events are disabled while rects
// are captured.
func WithOverlay(p Passthrough) Option {
	return func(c *Collection) { c.pass = p }
}

// OnToggle registers the togglePicker callback. It receives false when a
// recomputation prunes the last target.
func OnToggle(fn func(on bool)) Option {
	return func(c *Collection) { c.toggle = fn }
}

// New creates an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reset replaces the tracked set and computes every rect. Nil elements are
// skipped.
func (c *Collection) Reset(elements []dom.Element) {
	targets := make([]*Target, 0, len(elements))
	for _, el := range elements {
		if el != nil {
			targets = append(targets, &Target{el: el})
		}
	}
	c.targets = targets
	c.capture()
}

// ForceRecalcCoords recomputes every rect in place and drops targets whose
// element has left the page. If that empties a non-empty collection, the
// toggle callback fires once with false.
func (c *Collection) ForceRecalcCoords() {
	if len(c.targets) == 0 {
		return
	}
	c.capture()

	kept := c.targets[:0]
	for _, t := range c.targets {
		if t.Live() {
			kept = append(kept, t)
		}
	}
	clear(c.targets[len(kept):])
	c.targets = kept

	if len(c.targets) == 0 && c.toggle != nil {
		c.toggle(false)
	}
}

// Clear drops every target without notifying.
func (c *Collection) Clear() { c.targets = nil }

// Targets returns the tracked targets in order.
func (c *Collection) Targets() []*Target { return c.targets }

// Len returns the number of tracked targets.
func (c *Collection) Len() int { return len(c.targets) }

// Rects returns the cached rects in order.
func (c *Collection) Rects() []dom.Rect {
	out := make([]dom.Rect, len(c.targets))
	for i, t := range c.targets {
		out[i] = t.rect
	}
	return out
}

func (c *Collection) capture() {
	WithPassthrough(c.pass, func() {
		for _, t := range c.targets {
			t.recalc()
		}
	})
}
