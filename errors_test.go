package kentscript

import (
	"errors"
	"testing"
)

func Test_CaretSnippet_With_Context(t *testing.T) {
	got := caretSnippet("one\ntwo\nthree", "RUNTIME ERROR", 2, 2, "boom")
	want := "RUNTIME ERROR at 2:2: boom\n" +
		"\n" +
		"   1 | one\n" +
		"   2 | two\n" +
		"     |  ^\n" +
		"   3 | three"
	if got != want {
		t.Fatalf("snippet mismatch:\n%q\nwant:\n%q", got, want)
	}
}

func Test_CaretSnippet_First_And_Last_Line(t *testing.T) {
	got := caretSnippet("only", "SYNTAX ERROR", 1, 1, "m")
	want := "SYNTAX ERROR at 1:1: m\n" +
		"\n" +
		"   1 | only\n" +
		"     | ^"
	if got != want {
		t.Fatalf("snippet mismatch:\n%q\nwant:\n%q", got, want)
	}
}

func Test_CaretSnippet_Clamps_Out_Of_Range(t *testing.T) {
	got := caretSnippet("x", "H", 99, 0, "m")
	want := "H at 1:1: m\n" +
		"\n" +
		"   1 | x\n" +
		"     | ^"
	if got != want {
		t.Fatalf("snippet mismatch:\n%q\nwant:\n%q", got, want)
	}
	// empty source must not panic
	_ = caretSnippet("", "H", 1, 1, "m")
}

func Test_PrettyError_Runtime(t *testing.T) {
	re := &RuntimeError{Kind: ErrType, Msg: "bad operand", Line: 1, Col: 4}
	got := prettyError(re, "let x = 1")
	want := "RUNTIME ERROR at 1:5: TypeError: bad operand\n" +
		"\n" +
		"   1 | let x = 1\n" +
		"     |     ^"
	if got != want {
		t.Fatalf("rendering mismatch:\n%q\nwant:\n%q", got, want)
	}
}

func Test_PrettyError_Syntax(t *testing.T) {
	pe := &ParseError{Line: 1, Col: 4, Msg: "expected identifier"}
	got := prettyError(pe, "let = 5")
	want := "SYNTAX ERROR at 1:5: expected identifier\n" +
		"\n" +
		"   1 | let = 5\n" +
		"     |     ^"
	if got != want {
		t.Fatalf("rendering mismatch:\n%q\nwant:\n%q", got, want)
	}
}

func Test_PrettyError_Passes_Other_Errors_Through(t *testing.T) {
	if got := prettyError(errors.New("plain failure"), "src"); got != "plain failure" {
		t.Fatalf("got %q", got)
	}
}

func Test_RuntimeError_Text(t *testing.T) {
	re := newError(ErrKey, "missing key: %q", "k")
	if re.Text() != `KeyError: missing key: "k"` {
		t.Fatalf("Text: %q", re.Text())
	}
}
