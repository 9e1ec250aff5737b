// kentscript lexer
package kentscript

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COLON    // ":"
	COMMA    // ","
	DOT      // "."
	SEMI     // ";"
	QUESTION // "?"
	AT       // "@"

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	POWER      // "**"
	ASSIGN     // "="
	PLUS_EQ    // "+="
	MINUS_EQ   // "-="
	STAR_EQ    // "*="
	SLASH_EQ   // "/="
	PERCENT_EQ // "%="
	EQ         // "=="
	NEQ        // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ
	BANG  // "!"
	PIPE  // "|"
	ARROW // "->"

	// Literals & identifiers
	IDENT
	STRING
	INTEGER
	NUMBER
	TRUE
	FALSE
	NONE

	// Keywords
	LET
	CONST
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	FUNC
	RETURN
	CLASS
	NEW
	IMPORT
	AS
	TRY
	EXCEPT
	FINALLY
	BREAK
	CONTINUE
	AND
	OR
	NOT
	MATCH
	CASE
	DEFAULT
	ASSERT
	ASYNC
	AWAIT
	THREAD
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int
	Col     int
}

// keywords map
var keywords = map[string]TokenType{
	"let":      LET,
	"const":    CONST,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"func":     FUNC,
	"return":   RETURN,
	"class":    CLASS,
	"new":      NEW,
	"import":   IMPORT,
	"as":       AS,
	"try":      TRY,
	"except":   EXCEPT,
	"finally":  FINALLY,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"match":    MATCH,
	"case":     CASE,
	"default":  DEFAULT,
	"assert":   ASSERT,
	"async":    ASYNC,
	"await":    AWAIT,
	"thread":   THREAD,
	"True":     TRUE,
	"true":     TRUE,
	"False":    FALSE,
	"false":    FALSE,
	"None":     NONE,
	"null":     NONE,
}

// Lexer scans a KentScript source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) match(want byte) bool {
	if b, ok := l.peek(); ok && b == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) rewindToStart() {
	// Rewind to the first byte of the current token so a scanner can
	// consume it again. Restores the position counters too.
	l.cur = l.start
	l.line = l.tokStartLine
	l.col = l.tokStartCol
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- errors -----

type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

// ----- scanners -----

// scanString parses a string literal (single or double quotes). Escapes are
// \n \t \r \\ plus a self-escape of the delimiter; any other escaped byte is
// kept verbatim. An unterminated string stops at end of input and keeps what
// it has.
func (l *Lexer) scanString() string {
	del := l.src[l.start]
	// consume the delimiter
	l.advance()

	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out)
		}
		if ch == '\\' {
			if l.isAtEnd() {
				break
			}
			esc, _ := l.advance()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}

// scanNumber parses a run of digits, optionally followed by a decimal point
// and more digits. Integer unless the point was seen.
func (l *Lexer) scanNumber() (TokenType, interface{}, error) {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	sawDot := false
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance() // consume '.'
			sawDot = true
			for {
				b, ok := l.peek()
				if !ok || !isDigit(b) {
					break
				}
				l.advance()
			}
		}
	}

	lex := l.src[l.start:l.cur]
	if !sawDot {
		v, convErr := strconv.ParseInt(lex, 10, 64)
		if convErr != nil {
			return ILLEGAL, nil, l.err("invalid integer literal")
		}
		return INTEGER, v, nil
	}
	vf, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return ILLEGAL, nil, l.err("invalid float literal")
	}
	return NUMBER, vf, nil
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// ignoreLineComment eats until '\n' or EOF.
func (l *Lexer) ignoreLineComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// ignoreBlockComment eats until the first "*/". Block comments do not nest.
// Lenient if EOF arrives before the terminator.
func (l *Lexer) ignoreBlockComment() {
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '*' {
			if b, ok := l.peek(); ok && b == '/' {
				l.advance()
				return
			}
		}
	}
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		ch, _ := l.advance()

		// Single-char punctuation
		switch ch {
		case '(':
			return l.addToken(LPAREN, "("), nil
		case ')':
			return l.addToken(RPAREN, ")"), nil
		case '[':
			return l.addToken(LBRACKET, "["), nil
		case ']':
			return l.addToken(RBRACKET, "]"), nil
		case '{':
			return l.addToken(LBRACE, "{"), nil
		case '}':
			return l.addToken(RBRACE, "}"), nil
		case ':':
			return l.addToken(COLON, ":"), nil
		case ',':
			return l.addToken(COMMA, ","), nil
		case ';':
			return l.addToken(SEMI, ";"), nil
		case '.':
			return l.addToken(DOT, "."), nil
		case '?':
			return l.addToken(QUESTION, "?"), nil
		case '@':
			return l.addToken(AT, "@"), nil
		case '|':
			return l.addToken(PIPE, "|"), nil
		}

		// Operators, maximal munch for the two-char forms.
		switch ch {
		case '+':
			if l.match('=') {
				return l.addToken(PLUS_EQ, "+="), nil
			}
			return l.addToken(PLUS, "+"), nil
		case '-':
			if l.match('>') {
				return l.addToken(ARROW, "->"), nil
			}
			if l.match('=') {
				return l.addToken(MINUS_EQ, "-="), nil
			}
			return l.addToken(MINUS, "-"), nil
		case '*':
			if l.match('*') {
				return l.addToken(POWER, "**"), nil
			}
			if l.match('=') {
				return l.addToken(STAR_EQ, "*="), nil
			}
			return l.addToken(STAR, "*"), nil
		case '/':
			if l.match('/') {
				l.ignoreLineComment()
				l.start = l.cur
				continue
			}
			if l.match('*') {
				l.ignoreBlockComment()
				l.start = l.cur
				continue
			}
			if l.match('=') {
				return l.addToken(SLASH_EQ, "/="), nil
			}
			return l.addToken(SLASH, "/"), nil
		case '%':
			if l.match('=') {
				return l.addToken(PERCENT_EQ, "%="), nil
			}
			return l.addToken(PERCENT, "%"), nil
		case '=':
			if l.match('=') {
				return l.addToken(EQ, "=="), nil
			}
			return l.addToken(ASSIGN, "="), nil
		case '!':
			if l.match('=') {
				return l.addToken(NEQ, "!="), nil
			}
			return l.addToken(BANG, "!"), nil
		case '<':
			if l.match('=') {
				return l.addToken(LESS_EQ, "<="), nil
			}
			return l.addToken(LESS, "<"), nil
		case '>':
			if l.match('=') {
				return l.addToken(GREATER_EQ, ">="), nil
			}
			return l.addToken(GREATER, ">"), nil
		}

		// Strings
		if ch == '"' || ch == '\'' {
			l.rewindToStart()
			text := l.scanString()
			return l.addToken(STRING, text), nil
		}

		// Numbers
		if isDigit(ch) {
			l.rewindToStart()
			tt, lit, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(tt, lit), nil
		}

		// Identifiers / keywords
		if isAlpha(ch) {
			l.rewindToStart()
			lex := l.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				switch tt {
				case TRUE:
					return l.addToken(TRUE, true), nil
				case FALSE:
					return l.addToken(FALSE, false), nil
				case NONE:
					return l.addToken(NONE, nil), nil
				default:
					return l.addToken(tt, lex), nil
				}
			}
			return l.addToken(IDENT, lex), nil
		}

		return Token{}, l.err(fmt.Sprintf("unexpected character: %q", ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
