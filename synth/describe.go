// Package synth derives CSS selectors for picked elements: Describe records
// the identifying facts of one element and Resolve walks the ancestor chain
// until the compound selector is unique enough.
//
// Everything here only reads the page. Query failures count as zero matches.
package synth

import (
	"strings"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/selector"
)

// maxAttrValue caps the length of iframe src and inline data URI values.
const maxAttrValue = 256

// Describe returns a Builder holding the facts worth recording for el.
func Describe(doc dom.Document, el dom.Element) *selector.Builder {
	b := selector.NewBuilder(el.LocalName())

	if id := el.ID(); id != "" {
		esc := selector.EscapeIdent(id)
		if count(doc, "#"+esc) == 1 {
			b.AddRule(selector.IDRule(esc))
		}
	}

	if classes := el.ClassList(); len(classes) > 0 {
		esc := make([]string, len(classes))
		for i, c := range classes {
			esc[i] = selector.EscapeIdent(c)
		}
		b.AddRule(selector.ClassRule(esc...))
	}

	if b.RuleCount() == 0 {
		if attr, ok := fallbackAttribute(el); ok {
			b.AddRule(selector.AttributesRule(attr))
		}
	}

	parent := el.Parent()
	if b.RuleCount() == 0 || siblingMatches(doc, parent, b) > 1 {
		b.AttachTag()
		if siblingMatches(doc, parent, b) > 1 {
			b.AddRule(selector.NthOfTypeRule(dom.NthOfType(el)))
		}
	}
	return b
}

// siblingMatches counts the children of parent matched by the selector
// built so far.
func siblingMatches(doc dom.Document, parent dom.Element, b *selector.Builder) int {
	if parent == nil {
		return 1
	}
	els, err := doc.QueryChildren(parent, b.Peek(selector.Full))
	if err != nil {
		return 0
	}
	return len(els)
}

// fallbackAttribute extracts a tag-specific attribute for elements carrying
// neither a unique id nor classes.
func fallbackAttribute(el dom.Element) (selector.Attribute, bool) {
	var a selector.Attribute
	switch el.LocalName() {
	case "a":
		href, _ := el.Attr("href")
		if i := strings.IndexAny(href, "?#"); i >= 0 {
			href = href[:i]
		}
		a = selector.Attribute{Name: "href", Op: selector.OpPrefix, Value: href}
	case "iframe":
		src, _ := el.Attr("src")
		a = selector.Attribute{Name: "src", Op: selector.OpPrefix, Value: truncate(src, maxAttrValue)}
	case "img":
		src, _ := el.Attr("src")
		switch {
		case strings.HasPrefix(src, "data:"):
			data := strings.TrimPrefix(src, "data:")
			if _, after, ok := strings.Cut(data, ","); ok {
				data = after
			}
			a = selector.Attribute{Name: "src", Op: selector.OpContains, Value: truncate(data, maxAttrValue)}
		case src != "":
			a = selector.Attribute{Name: "src", Op: selector.OpEquals, Value: src}
		default:
			alt, _ := el.Attr("alt")
			a = selector.Attribute{Name: "alt", Op: selector.OpEquals, Value: alt}
		}
	default:
		return a, false
	}
	return a, a.Value != ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// count returns how many elements of doc match sel, zero on error.
func count(doc dom.Document, sel string) int {
	els, err := doc.QuerySelectorAll(sel)
	if err != nil {
		return 0
	}
	return len(els)
}
