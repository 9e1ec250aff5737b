// printer.go — user-facing value rendering.
//
// FormatValue is what print and str produce: a bare string at the top level,
// quoted strings inside containers, lists as [a, b, c] and maps as
// {k: v, ...} in insertion order.
package kentscript

import (
	"strconv"
	"strings"
)

// FormatValue renders a value the way print shows it. Strings appear
// unquoted at the top level.
func FormatValue(v Value) string {
	if v.Tag == VTStr {
		return v.Data.(string)
	}
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNull:
		b.WriteString("None")
	case VTBool:
		if v.Data.(bool) {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case VTInt:
		b.WriteString(strconv.FormatInt(v.Data.(int64), 10))
	case VTNum:
		b.WriteString(formatFloat(v.Data.(float64)))
	case VTStr:
		b.WriteString(quoteString(v.Data.(string)))
	case VTList:
		b.WriteByte('[')
		for i, el := range v.Data.(*ListObject).Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el)
		}
		b.WriteByte(']')
	case VTMap:
		m := v.Data.(*MapObject)
		b.WriteByte('{')
		for i, k := range m.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteString(k))
			b.WriteString(": ")
			val, _ := m.Get(k)
			writeValue(b, val)
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.String())
	}
}

// formatFloat keeps a trailing .0 on whole floats so Int and Num stay
// visually distinct.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.ContainsAny(s, "nN") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
