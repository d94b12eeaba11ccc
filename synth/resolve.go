package synth

import (
	"slices"
	"strings"

	"github.com/hazyhaar/elpick/dom"
	"github.com/hazyhaar/elpick/selector"
)

// Combinator joins ancestor parts of a compound selector.
const Combinator = " > "

// Resolve synthesizes a selector for target under the mask at maskIndex
// (clamped to the canonical range).
//
// When the mask allows hierarchy, the target and its ancestors up to but
// excluding body are described; otherwise only the target is. Walking from
// the target outward, each rendered part is prepended to the compound, and
// the walk stops at the first part carrying an id (when the mask keeps ids)
// or at the first compound matching exactly one element. Without such a
// stop the whole chain is returned. The result is "" only for body or a nil
// target.
func Resolve(doc dom.Document, target dom.Element, maskIndex int) string {
	if target == nil || dom.IsBody(target) {
		return ""
	}
	mask := selector.MaskAt(maskIndex)

	var parts []string
	for _, el := range Chain(target, mask) {
		b := Describe(doc, el)
		parts = append(parts, b.Render(mask))
		sel := compound(parts)
		if (mask.Has(selector.Id) && b.HasID()) || IsUnique(doc, sel) {
			return sel
		}
	}
	return compound(parts)
}

// ResolveAll returns the selector synthesized under every canonical mask.
func ResolveAll(doc dom.Document, target dom.Element) [len(selector.Masks)]string {
	var out [len(selector.Masks)]string
	for i := range selector.Masks {
		out[i] = Resolve(doc, target, i)
	}
	return out
}

// ResolveLevel synthesizes a selector for a slider level.
func ResolveLevel(doc dom.Document, target dom.Element, level int) string {
	return Resolve(doc, target, selector.IndexForLevel(level))
}

// Chain returns the elements described for target under mask, closest
// first: the target alone, or the target and its ancestors below body.
func Chain(target dom.Element, mask selector.Mask) []dom.Element {
	chain := []dom.Element{target}
	if !mask.Has(selector.Hierarchy) {
		return chain
	}
	for p := target.Parent(); p != nil && !dom.IsBody(p); p = p.Parent() {
		chain = append(chain, p)
	}
	return chain
}

// IsUnique reports whether sel parses and matches at most one element.
func IsUnique(doc dom.Document, sel string) bool {
	els, err := doc.QuerySelectorAll(sel)
	return err == nil && len(els) <= 1
}

// compound joins parts collected closest-first into an outermost-first
// child-combinator selector.
func compound(parts []string) string {
	rev := slices.Clone(parts)
	slices.Reverse(rev)
	return strings.Join(rev, Combinator)
}
