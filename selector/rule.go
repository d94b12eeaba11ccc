// Package selector models the identifying facts recorded for one DOM element
// and renders them into a CSS selector under a specificity mask.
//
// Rendering is pure: a Builder never touches the DOM. Deciding which facts
// are worth recording is the job of package synth.
package selector

// RuleKind tags the variant held by a Rule.
type RuleKind int

const (
	KindID RuleKind = iota
	KindClass
	KindAttributes
	KindNthOfType
)

func (k RuleKind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindClass:
		return "class"
	case KindAttributes:
		return "attributes"
	case KindNthOfType:
		return "nth-of-type"
	}
	return "unknown"
}

// mask returns the specificity category that gates this kind of rule.
func (k RuleKind) mask() Mask {
	switch k {
	case KindID:
		return Id
	case KindClass:
		return Class
	case KindAttributes:
		return Attributes
	case KindNthOfType:
		return NthOfType
	}
	return 0
}

// Attribute operators.
const (
	OpEquals   = "="
	OpPrefix   = "^="
	OpContains = "*="
)

// Attribute is one attribute constraint. Name is a raw attribute name;
// Value is the unescaped attribute value, quoted at render time.
type Attribute struct {
	Name  string `json:"name"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// Rule is one identifying fact about an element. Only the field matching
// Kind is meaningful. ID and Classes hold already-escaped identifiers.
type Rule struct {
	Kind    RuleKind    `json:"kind"`
	ID      string      `json:"id,omitempty"`
	Classes []string    `json:"classes,omitempty"`
	Attrs   []Attribute `json:"attrs,omitempty"`
	Nth     int         `json:"nth,omitempty"`
}

// IDRule returns an Id rule for an escaped id.
func IDRule(escapedID string) Rule { return Rule{Kind: KindID, ID: escapedID} }

// ClassRule returns a Class rule for escaped class names.
func ClassRule(escaped ...string) Rule { return Rule{Kind: KindClass, Classes: escaped} }

// AttributesRule returns an Attributes rule.
func AttributesRule(attrs ...Attribute) Rule { return Rule{Kind: KindAttributes, Attrs: attrs} }

// NthOfTypeRule returns a 1-based NthOfType rule.
func NthOfTypeRule(n int) Rule { return Rule{Kind: KindNthOfType, Nth: n} }

// empty reports whether the rule carries no value and must not be added.
func (r Rule) empty() bool {
	switch r.Kind {
	case KindID:
		return r.ID == ""
	case KindClass:
		return len(r.Classes) == 0
	case KindAttributes:
		return len(r.Attrs) == 0
	case KindNthOfType:
		return r.Nth < 1
	}
	return true
}
