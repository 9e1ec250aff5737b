package kentscript

import (
	"strings"
	"testing"
)

func parseStmts(t *testing.T, src string) []Stmt {
	t.Helper()
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v\nsource:\n%s", err, src)
	}
	return stmts
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	stmts := parseStmts(t, src)
	if len(stmts) != 1 {
		t.Fatalf("want one statement, got %d", len(stmts))
	}
	es, ok := stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("want *ExprStmt, got %T", stmts[0])
	}
	return es.X
}

func parseFails(t *testing.T, src, wantMsg string) {
	t.Helper()
	_, err := Parse(src)
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError for %q, got %v", src, err)
	}
	if !strings.Contains(pe.Msg, wantMsg) {
		t.Fatalf("message %q does not mention %q", pe.Msg, wantMsg)
	}
}

func asBinary(t *testing.T, e Expr, op TokenType) *Binary {
	t.Helper()
	b, ok := e.(*Binary)
	if !ok || b.Op != op {
		t.Fatalf("want Binary(%d), got %#v", op, e)
	}
	return b
}

func litInt(t *testing.T, e Expr, n int64) {
	t.Helper()
	l, ok := e.(*Literal)
	if !ok || l.Val != interface{}(n) {
		t.Fatalf("want literal %d, got %#v", n, e)
	}
}

func Test_Parser_Precedence_Tree(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	add := asBinary(t, parseExpr(t, `1 + 2 * 3`), PLUS)
	litInt(t, add.Left, 1)
	mul := asBinary(t, add.Right, STAR)
	litInt(t, mul.Left, 2)
	litInt(t, mul.Right, 3)
}

func Test_Parser_Power_Right_Associative(t *testing.T) {
	outer := asBinary(t, parseExpr(t, `2 ** 3 ** 2`), POWER)
	litInt(t, outer.Left, 2)
	inner := asBinary(t, outer.Right, POWER)
	litInt(t, inner.Left, 3)
	litInt(t, inner.Right, 2)
}

func Test_Parser_Negation_Binds_Below_Power(t *testing.T) {
	// -2 ** 3 parses as (-2) ** 3
	pow := asBinary(t, parseExpr(t, `-2 ** 3`), POWER)
	u, ok := pow.Left.(*Unary)
	if !ok || u.Op != MINUS {
		t.Fatalf("want unary minus on the left, got %#v", pow.Left)
	}
	litInt(t, u.Operand, 2)
	litInt(t, pow.Right, 3)
}

func Test_Parser_Pipe_Desugars_To_Call(t *testing.T) {
	call, ok := parseExpr(t, `5 | inc`).(*Call)
	if !ok {
		t.Fatalf("want *Call, got %T", parseExpr(t, `5 | inc`))
	}
	if id, ok := call.Callee.(*Ident); !ok || id.Name != "inc" {
		t.Fatalf("callee: %#v", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("args: %#v", call.Args)
	}
	litInt(t, call.Args[0], 5)
}

func Test_Parser_Compound_Assign_Desugars(t *testing.T) {
	stmts := parseStmts(t, `x += 1`)
	as, ok := stmts[0].(*AssignStmt)
	if !ok {
		t.Fatalf("want *AssignStmt, got %T", stmts[0])
	}
	if id, ok := as.Target.(*Ident); !ok || id.Name != "x" {
		t.Fatalf("target: %#v", as.Target)
	}
	add := asBinary(t, as.Value, PLUS)
	if id, ok := add.Left.(*Ident); !ok || id.Name != "x" {
		t.Fatalf("desugared left: %#v", add.Left)
	}
	litInt(t, add.Right, 1)
}

func Test_Parser_Lambda_Forms(t *testing.T) {
	lam, ok := parseExpr(t, `(a, b) -> a`).(*Lambda)
	if !ok || len(lam.Params) != 2 || lam.Params[1].Name != "b" {
		t.Fatalf("two-param lambda: %#v", lam)
	}
	lam, ok = parseExpr(t, `x -> x`).(*Lambda)
	if !ok || len(lam.Params) != 1 {
		t.Fatalf("bare-param lambda: %#v", lam)
	}
	lam, ok = parseExpr(t, `() -> 1`).(*Lambda)
	if !ok || len(lam.Params) != 0 {
		t.Fatalf("zero-param lambda: %#v", lam)
	}
	// a parenthesized expression is not a lambda
	if _, ok := parseExpr(t, `(a)`).(*Ident); !ok {
		t.Fatal("parenthesized ident should stay an ident")
	}
}

func Test_Parser_Comprehension_Shape(t *testing.T) {
	c, ok := parseExpr(t, `[x * 2 for x in xs if x > 0]`).(*Comprehension)
	if !ok || c.Var != "x" || c.Cond == nil {
		t.Fatalf("comprehension: %#v", c)
	}
	c, ok = parseExpr(t, `[x for x in xs]`).(*Comprehension)
	if !ok || c.Cond != nil {
		t.Fatalf("unconditioned comprehension: %#v", c)
	}
	// plain lists are not comprehensions
	if _, ok := parseExpr(t, `[1, 2]`).(*ListLit); !ok {
		t.Fatal("plain list literal expected")
	}
}

func Test_Parser_New_Is_A_Call(t *testing.T) {
	call, ok := parseExpr(t, `new Point(1, 2)`).(*Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("new: %#v", call)
	}
	if id, ok := call.Callee.(*Ident); !ok || id.Name != "Point" {
		t.Fatalf("callee: %#v", call.Callee)
	}
	// argument list is optional
	call, ok = parseExpr(t, `new Point`).(*Call)
	if !ok || len(call.Args) != 0 {
		t.Fatalf("new without parens: %#v", call)
	}
}

func Test_Parser_Postfix_Chain(t *testing.T) {
	call, ok := parseExpr(t, `a.b[0](1)`).(*Call)
	if !ok {
		t.Fatalf("want call at the top, got %#v", parseExpr(t, `a.b[0](1)`))
	}
	idx, ok := call.Callee.(*Index)
	if !ok {
		t.Fatalf("want index under call, got %#v", call.Callee)
	}
	mem, ok := idx.Object.(*Member)
	if !ok || mem.Name != "b" {
		t.Fatalf("want member under index, got %#v", idx.Object)
	}
}

func Test_Parser_Decorators_Collected_In_Order(t *testing.T) {
	stmts := parseStmts(t, "@outer\n@inner\nfunc f() { return 1 }")
	fn, ok := stmts[0].(*FuncStmt)
	if !ok || len(fn.Decorators) != 2 {
		t.Fatalf("decorated func: %#v", stmts[0])
	}
	if fn.Decorators[0] != "outer" || fn.Decorators[1] != "inner" {
		t.Fatalf("decorator order: %v", fn.Decorators)
	}
}

func Test_Parser_Return_Value_Is_Optional(t *testing.T) {
	stmts := parseStmts(t, "func f() {\n\treturn\n}\nfunc g() { return 1 }")
	f := stmts[0].(*FuncStmt)
	if f.Body[0].(*ReturnStmt).Value != nil {
		t.Fatal("bare return should carry no value")
	}
	g := stmts[1].(*FuncStmt)
	if g.Body[0].(*ReturnStmt).Value == nil {
		t.Fatal("valued return lost its expression")
	}
}

func Test_Parser_Try_Shape(t *testing.T) {
	stmts := parseStmts(t, `
try { x() }
except KeyError as e { y() }
except { z() }
else { w() }
finally { v() }`)
	ts := stmts[0].(*TryStmt)
	if len(ts.Handlers) != 2 || ts.Handlers[0].Kind != "KeyError" || ts.Handlers[0].Bind != "e" {
		t.Fatalf("handlers: %#v", ts.Handlers)
	}
	if ts.Handlers[1].Kind != "" || ts.Handlers[1].Bind != "" {
		t.Fatalf("bare handler: %#v", ts.Handlers[1])
	}
	if ts.Else == nil || ts.Finally == nil {
		t.Fatal("else/finally missing")
	}
}

func Test_Parser_Failures(t *testing.T) {
	parseFails(t, `try { x() }`, "'try' requires at least one 'except' or a 'finally'")
	parseFails(t, `match x { default { } default { } }`, "duplicate 'default'")
	parseFails(t, `1 = 2`, "invalid assignment target")
	parseFails(t, `f() = 2`, "invalid assignment target")
	parseFails(t, `async let x = 1`, "expected 'func' after 'async'")
	parseFails(t, `@dec
let x = 1`, "expected 'func' after decorator")
	parseFails(t, `(1 + 2`, "expected ')'")
	parseFails(t, `1 ? 2`, "expected ':' in ternary")
}
