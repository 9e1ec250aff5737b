package kentscript

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	if diff := cmp.Diff(want, typesWithoutEOF(got)); diff != "" {
		t.Fatalf("token types for %q (-want +got):\n%s", src, diff)
	}
	return got
}

func Test_Lexer_Operators_MaximalMunch(t *testing.T) {
	wantTypes(t, `== != <= >= ** -> += -= *= /= %=`, []TokenType{
		EQ, NEQ, LESS_EQ, GREATER_EQ, POWER, ARROW,
		PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ,
	})
	// single-char forms survive next to their two-char cousins
	wantTypes(t, `= ! < > * - + / %`, []TokenType{
		ASSIGN, BANG, LESS, GREATER, STAR, MINUS, PLUS, SLASH, PERCENT,
	})
	wantTypes(t, `***`, []TokenType{POWER, STAR})
}

func Test_Lexer_Keywords_And_Identifiers(t *testing.T) {
	ts := wantTypes(t, `let const if elif else while for in func return class new import as try except finally break continue and or not match case default assert async await thread`,
		[]TokenType{LET, CONST, IF, ELIF, ELSE, WHILE, FOR, IN, FUNC, RETURN,
			CLASS, NEW, IMPORT, AS, TRY, EXCEPT, FINALLY, BREAK, CONTINUE,
			AND, OR, NOT, MATCH, CASE, DEFAULT, ASSERT, ASYNC, AWAIT, THREAD})
	if ts[0].Lexeme != "let" {
		t.Fatalf("lexeme %q", ts[0].Lexeme)
	}

	ts = wantTypes(t, `letter _private x2 threads`, []TokenType{IDENT, IDENT, IDENT, IDENT})
	if ts[3].Lexeme != "threads" {
		t.Fatalf("keyword prefix must not split identifier: %q", ts[3].Lexeme)
	}
}

func Test_Lexer_Literal_Spellings(t *testing.T) {
	ts := wantTypes(t, `True true False false None null`, []TokenType{
		TRUE, TRUE, FALSE, FALSE, NONE, NONE,
	})
	if ts[0].Literal != true || ts[2].Literal != false || ts[4].Literal != nil {
		t.Fatalf("literal payloads wrong: %#v", ts)
	}
}

func Test_Lexer_Numbers(t *testing.T) {
	ts := wantTypes(t, `42 3.14 0 10.0`, []TokenType{INTEGER, NUMBER, INTEGER, NUMBER})
	if ts[0].Literal.(int64) != 42 {
		t.Fatalf("int literal: %#v", ts[0])
	}
	if ts[1].Literal.(float64) != 3.14 {
		t.Fatalf("float literal: %#v", ts[1])
	}
	// '5.' is an integer followed by a dot, not a float
	wantTypes(t, `5.x`, []TokenType{INTEGER, DOT, IDENT})
}

func Test_Lexer_Strings(t *testing.T) {
	ts := wantTypes(t, `"hello" 'world'`, []TokenType{STRING, STRING})
	if ts[0].Literal.(string) != "hello" || ts[1].Literal.(string) != "world" {
		t.Fatalf("string literals: %#v", ts)
	}

	ts = toks(t, `"a\nb\tc\\d\"e"`)
	if got := ts[0].Literal.(string); got != "a\nb\tc\\d\"e" {
		t.Fatalf("escapes: %q", got)
	}

	// unknown escapes keep the byte
	ts = toks(t, `"a\qb"`)
	if got := ts[0].Literal.(string); got != "aqb" {
		t.Fatalf("lenient escape: %q", got)
	}

	// unterminated strings keep what they have
	ts = toks(t, `"dangling`)
	if got := ts[0].Literal.(string); got != "dangling" {
		t.Fatalf("unterminated: %q", got)
	}
}

func Test_Lexer_Comments(t *testing.T) {
	wantTypes(t, "1 // ignored\n2", []TokenType{INTEGER, INTEGER})
	wantTypes(t, "1 /* all\nof this */ 2", []TokenType{INTEGER, INTEGER})
	// block comments do not nest
	wantTypes(t, "/* outer /* inner */ 7", []TokenType{INTEGER})
	// unterminated block comment is lenient
	wantTypes(t, "1 /* runs off", []TokenType{INTEGER})
}

func Test_Lexer_Positions(t *testing.T) {
	ts := toks(t, "let x = 1\nlet y = 2")
	if ts[0].Line != 1 || ts[0].Col != 0 {
		t.Fatalf("first token at %d:%d", ts[0].Line, ts[0].Col)
	}
	// second 'let' starts line 2, column 0
	if ts[4].Type != LET || ts[4].Line != 2 || ts[4].Col != 0 {
		t.Fatalf("second let: %#v", ts[4])
	}
	if ts[5].Type != IDENT || ts[5].Col != 4 {
		t.Fatalf("y position: %#v", ts[5])
	}
}

func Test_Lexer_Unknown_Character(t *testing.T) {
	_, err := NewLexer("let a = 1 $ 2").Scan()
	if err == nil {
		t.Fatal("expected a lex error")
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %T", err)
	}
	if le.Line != 1 || !strings.Contains(le.Msg, "unexpected character") {
		t.Fatalf("bad error: %#v", le)
	}
}

func Test_Lexer_EOF_Terminates_Stream(t *testing.T) {
	ts := toks(t, "")
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("empty source: %#v", ts)
	}
}
