package selector

import (
	"strconv"
	"strings"
)

// Builder accumulates the rules recorded for exactly one element.
// The first call to Render freezes it: later AddRule and AttachTag calls
// are ignored so every rendering sees the same facts.
type Builder struct {
	name   string // escaped local name
	tag    bool   // tag qualifier attached
	rules  []Rule
	hasID  bool
	frozen bool
}

// NewBuilder creates a Builder for an element with the given local name.
// The name keeps its case: type selectors are case-sensitive for SVG and
// MathML elements.
func NewBuilder(localName string) *Builder {
	return &Builder{name: EscapeIdent(localName)}
}

// AddRule appends a rule. Rules without a value are dropped.
func (b *Builder) AddRule(r Rule) {
	if b.frozen || r.empty() {
		return
	}
	if r.Kind == KindID {
		b.hasID = true
	}
	b.rules = append(b.rules, r)
}

// AttachTag makes the escaped tag name part of the selector.
func (b *Builder) AttachTag() {
	if b.frozen {
		return
	}
	b.tag = true
}

// HasID reports whether an Id rule was recorded.
func (b *Builder) HasID() bool { return b.hasID }

// RuleCount returns the number of recorded rules.
func (b *Builder) RuleCount() int { return len(b.rules) }

// Render renders the recorded facts allowed by mask.
//
// The tag belongs to the structural category: it is emitted when attached
// and the mask keeps NthOfType, or when nothing else survives the mask.
// Under a mask keeping Id, classes are dropped for elements with an id.
func (b *Builder) Render(mask Mask) string {
	b.frozen = true
	return b.render(mask)
}

// Peek renders like Render without freezing the builder. It lets a
// describer test the selector built so far before adding more facts.
func (b *Builder) Peek(mask Mask) string { return b.render(mask) }

func (b *Builder) render(mask Mask) string {
	var sb strings.Builder
	for _, r := range b.rules {
		if !mask.Has(r.Kind.mask()) {
			continue
		}
		switch r.Kind {
		case KindID:
			sb.WriteByte('#')
			sb.WriteString(r.ID)
		case KindClass:
			if b.hasID && mask.Has(Id) {
				continue
			}
			for _, c := range r.Classes {
				sb.WriteByte('.')
				sb.WriteString(c)
			}
		case KindAttributes:
			for _, a := range r.Attrs {
				writeAttribute(&sb, a)
			}
		case KindNthOfType:
			sb.WriteString(":nth-of-type(")
			sb.WriteString(strconv.Itoa(r.Nth))
			sb.WriteByte(')')
		}
	}

	body := sb.String()
	if (b.tag && mask.Has(NthOfType)) || body == "" {
		return b.name + body
	}
	return body
}

// String renders under the full mask.
func (b *Builder) String() string { return b.Render(Full) }

func writeAttribute(sb *strings.Builder, a Attribute) {
	op := a.Op
	if op == "" {
		op = OpEquals
	}
	sb.WriteByte('[')
	sb.WriteString(EscapeIdent(a.Name))
	sb.WriteString(op)
	sb.WriteString(QuoteString(a.Value))
	sb.WriteByte(']')
}
