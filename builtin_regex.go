// builtin_regex.go — the regex module table.
//
// Patterns use Go's RE2 syntax. match anchors at the start of the text
// (Python re.match semantics); search matches anywhere.
package kentscript

import (
	"regexp"
	"strings"
)

func regexModule(_ *Interp) *Module {
	compile := func(fname, pattern string) (*regexp.Regexp, error) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, newError(ErrValue, "%s: bad pattern: %s", fname, err.Error())
		}
		return re, nil
	}
	twoStrings := func(fname string, args []Value) (string, string, error) {
		pattern, err := wantStr(fname, args, 0)
		if err != nil {
			return "", "", err
		}
		text, err := wantStr(fname, args, 1)
		if err != nil {
			return "", "", err
		}
		return pattern, text, nil
	}
	return buildModule("regex").
		fn("match", func(_ *Interp, args []Value) (Value, error) {
			pattern, text, err := twoStrings("match", args)
			if err != nil {
				return Null, err
			}
			if !strings.HasPrefix(pattern, "^") {
				pattern = "^(?:" + pattern + ")"
			}
			re, err := compile("match", pattern)
			if err != nil {
				return Null, err
			}
			return Bool(re.MatchString(text)), nil
		}).
		fn("search", func(_ *Interp, args []Value) (Value, error) {
			pattern, text, err := twoStrings("search", args)
			if err != nil {
				return Null, err
			}
			re, err := compile("search", pattern)
			if err != nil {
				return Null, err
			}
			return Bool(re.MatchString(text)), nil
		}).
		fn("findall", func(_ *Interp, args []Value) (Value, error) {
			pattern, text, err := twoStrings("findall", args)
			if err != nil {
				return Null, err
			}
			re, err := compile("findall", pattern)
			if err != nil {
				return Null, err
			}
			matches := re.FindAllString(text, -1)
			out := make([]Value, len(matches))
			for i, m := range matches {
				out[i] = Str(m)
			}
			return List(out), nil
		}).
		fn("replace", regexReplace).
		fn("sub", regexReplace).
		done()
}

func regexReplace(_ *Interp, args []Value) (Value, error) {
	pattern, err := wantStr("replace", args, 0)
	if err != nil {
		return Null, err
	}
	repl, err := wantStr("replace", args, 1)
	if err != nil {
		return Null, err
	}
	text, err := wantStr("replace", args, 2)
	if err != nil {
		return Null, err
	}
	re, err2 := regexp.Compile(pattern)
	if err2 != nil {
		return Null, newError(ErrValue, "replace: bad pattern: %s", err2.Error())
	}
	return Str(re.ReplaceAllString(text, repl)), nil
}
