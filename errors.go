// errors.go — caret-snippet rendering for user-facing diagnostics.
//
// prettyError turns *LexError, *ParseError and *RuntimeError values into a
// Python-style snippet with a header, the offending line with one line of
// context on each side, and a caret under the 1-based column:
//
//	SYNTAX ERROR at 3:13: expected ')' after expression
//
//	   2 | let x = (1 + 2
//	   3 |              ;
//	     |             ^
//	   4 | print(x)
//
// Lexer, parser and node columns are 0-based internally and rendered as
// 1-based here. Out-of-range coordinates are clamped so rendering never
// fails on truncated or empty sources. Other error values pass through as
// their plain Error() text.
package kentscript

import (
	"fmt"
	"strings"
)

// prettyError renders a diagnostic against its source text.
func prettyError(err error, src string) string {
	switch e := err.(type) {
	case *LexError:
		return caretSnippet(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg)
	case *ParseError:
		return caretSnippet(src, "SYNTAX ERROR", e.Line, e.Col+1, e.Msg)
	case *RuntimeError:
		return caretSnippet(src, "RUNTIME ERROR", e.Line, e.Col+1, e.Text())
	}
	return err.Error()
}

func caretSnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "\n%4d | %s", line+1, lines[line])
	}
	return b.String()
}
