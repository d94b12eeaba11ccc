// Package dom is the narrow view of a web page that selector synthesis and
// the picker work against. A static parsed document and a live browser page
// both implement it.
package dom

// Element is a non-owning reference to one element of a page. The page may
// detach or hide it at any time; a zero Rect is the liveness signal.
type Element interface {
	// LocalName returns the tag name as the DOM reports it: lower case for
	// HTML elements, camel case for some SVG elements such as clipPath.
	LocalName() string
	ID() string
	// ClassList returns the class names in DOM order.
	ClassList() []string
	Attr(name string) (string, bool)
	// Parent returns the parent element, or nil at the root or when detached.
	Parent() Element
	// Children returns the element children in DOM order.
	Children() []Element
	// Rect returns the current bounding rectangle in viewport coordinates.
	Rect() Rect
}

// Document runs selector queries against a page. Malformed selectors are
// reported as errors; callers in this module treat them as zero matches.
type Document interface {
	QuerySelectorAll(selector string) ([]Element, error)
	// QueryChildren returns the children of parent matched by selector,
	// like parent.querySelectorAll(":scope > " + selector).
	QueryChildren(parent Element, selector string) ([]Element, error)
}

// Rect is a bounding rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return !r.Empty() && x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// IsBody reports whether el is the document body.
func IsBody(el Element) bool { return el != nil && el.LocalName() == "body" }

// NthOfType returns el's 1-based ordinal among its same-tag element siblings.
func NthOfType(el Element) int {
	parent := el.Parent()
	if parent == nil {
		return 1
	}
	name := el.LocalName()
	n := 0
	for _, c := range parent.Children() {
		if c.LocalName() != name {
			continue
		}
		n++
		if Same(c, el) {
			return n
		}
	}
	return 1
}

// Identity is implemented by elements whose wrappers are not interned and
// therefore cannot be compared with ==.
type Identity interface {
	SameAs(other Element) bool
}

// Same reports whether a and b refer to the same element.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if id, ok := a.(Identity); ok {
		return id.SameAs(b)
	}
	return a == b
}

// Contains reports whether el is in list.
func Contains(list []Element, el Element) bool {
	for _, e := range list {
		if Same(e, el) {
			return true
		}
	}
	return false
}
