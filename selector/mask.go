package selector

import "strings"

// Mask is a bit-set selecting which categories of identifying facts may
// appear in a rendered selector.
type Mask uint8

const (
	Id Mask = 1 << iota
	Hierarchy
	Attributes
	Class
	NthOfType

	Full = Id | Hierarchy | Attributes | Class | NthOfType
)

// Masks are the canonical specificity masks, ordered from the most
// permissive (and most fragile) to the most rigid.
var Masks = [...]Mask{
	Class | Attributes,
	Class | Attributes | Hierarchy,
	Full &^ (NthOfType | Attributes),
	Full &^ (Class | Attributes),
	Full,
}

// Slider bounds. Level n selects Masks[n-1].
const (
	MinLevel     = 1
	MaxLevel     = 4
	DefaultLevel = MaxLevel
)

// Has reports whether every bit of f is set in m.
func (m Mask) Has(f Mask) bool { return m&f == f }

// MaskAt returns the canonical mask at index i, clamped to the valid range.
func MaskAt(i int) Mask {
	return Masks[ClampIndex(i)]
}

// ClampIndex clamps a mask index into [0, len(Masks)).
func ClampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(Masks) {
		return len(Masks) - 1
	}
	return i
}

// ClampLevel clamps a slider level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// IndexForLevel maps a slider level to its mask index.
func IndexForLevel(level int) int {
	return ClampLevel(level) - 1
}

// MaskForLevel maps a slider level to its canonical mask.
func MaskForLevel(level int) Mask {
	return Masks[IndexForLevel(level)]
}

func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		bit  Mask
		name string
	}{
		{Id, "id"},
		{Hierarchy, "hierarchy"},
		{Attributes, "attributes"},
		{Class, "class"},
		{NthOfType, "nth-of-type"},
	} {
		if m.Has(f.bit) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, ",")
}
