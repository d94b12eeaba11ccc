package selector

import (
	"strconv"
	"strings"
)

// EscapeIdent escapes s for use as a CSS identifier, following the
// CSSOM CSS.escape() algorithm.
func EscapeIdent(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))

	for i, c := range runes {
		switch {
		case c == 0:
			sb.WriteRune('�')
		case (c >= 0x01 && c <= 0x1f) || c == 0x7f:
			writeHexEscape(&sb, c)
		case i == 0 && c >= '0' && c <= '9':
			writeHexEscape(&sb, c)
		case i == 1 && c >= '0' && c <= '9' && runes[0] == '-':
			writeHexEscape(&sb, c)
		case i == 0 && c == '-' && len(runes) == 1:
			sb.WriteString(`\-`)
		case c >= 0x80 || c == '-' || c == '_' ||
			(c >= '0' && c <= '9') ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			sb.WriteRune(c)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// QuoteString renders s as a double-quoted CSS string.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, c := range s {
		switch {
		case c == 0:
			sb.WriteRune('�')
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case (c >= 0x01 && c <= 0x1f) || c == 0x7f:
			writeHexEscape(&sb, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func writeHexEscape(sb *strings.Builder, c rune) {
	sb.WriteByte('\\')
	sb.WriteString(strconv.FormatInt(int64(c), 16))
	sb.WriteByte(' ')
}
