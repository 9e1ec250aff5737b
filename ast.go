// ast.go — typed AST for KentScript.
//
// One struct per construct. Nodes are immutable after parsing: the evaluator
// never writes back into the tree. Every node carries the line/col of the
// token that opened it, for diagnostics.
package kentscript

// Node is implemented by every AST node.
type Node interface {
	Pos() (line, col int)
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// at holds a node's source position.
type at struct {
	Line int
	Col  int
}

func (a at) Pos() (int, int) { return a.Line, a.Col }

// ───────────────────────────── expressions ─────────────────────────────

// Literal is a number, string, boolean or null constant.
// Val is nil, bool, int64, float64 or string.
type Literal struct {
	at
	Val interface{}
}

// Ident is a variable reference.
type Ident struct {
	at
	Name string
}

// Binary is a binary operator application. Op is the operator's TokenType.
type Binary struct {
	at
	Op    TokenType
	Left  Expr
	Right Expr
}

// Unary is a prefix operator application ('-', 'not', '!').
type Unary struct {
	at
	Op      TokenType
	Operand Expr
}

// Ternary is 'cond ? then : else'. Only the winning branch is evaluated.
type Ternary struct {
	at
	Cond Expr
	Then Expr
	Else Expr
}

// Call is a function invocation.
type Call struct {
	at
	Callee Expr
	Args   []Expr
}

// Member is 'obj.name'.
type Member struct {
	at
	Object Expr
	Name   string
}

// Index is 'obj[key]'.
type Index struct {
	at
	Object Expr
	Key    Expr
}

// ListLit is '[e1, e2, ...]'.
type ListLit struct {
	at
	Elems []Expr
}

// MapLit is '{k1: v1, ...}'. Keys and Vals are parallel, in source order.
type MapLit struct {
	at
	Keys []Expr
	Vals []Expr
}

// Lambda is '(a, b) -> expr' or 'a -> expr'.
type Lambda struct {
	at
	Params []Param
	Body   Expr
}

// Comprehension is '[expr for v in iterable if cond]'. Cond may be nil.
type Comprehension struct {
	at
	Expr     Expr
	Var      string
	Iterable Expr
	Cond     Expr
}

// AwaitExpr is 'await x'.
type AwaitExpr struct {
	at
	X Expr
}

// ThreadExpr is 'thread f(args...)'. Callee and Args are evaluated eagerly
// in the calling frame; the call itself runs on the task pool.
type ThreadExpr struct {
	at
	Callee Expr
	Args   []Expr
}

func (*Literal) exprNode()       {}
func (*Ident) exprNode()         {}
func (*Binary) exprNode()        {}
func (*Unary) exprNode()         {}
func (*Ternary) exprNode()       {}
func (*Call) exprNode()          {}
func (*Member) exprNode()        {}
func (*Index) exprNode()         {}
func (*ListLit) exprNode()       {}
func (*MapLit) exprNode()        {}
func (*Lambda) exprNode()        {}
func (*Comprehension) exprNode() {}
func (*AwaitExpr) exprNode()     {}
func (*ThreadExpr) exprNode()    {}

// ───────────────────────────── statements ─────────────────────────────

// Param is a function parameter with an optional advisory type tag.
type Param struct {
	Name string
	Tag  string // "" when untagged
}

// LetStmt is 'let name = e', 'let name: Tag = e' or 'const name = e'.
type LetStmt struct {
	at
	Name    string
	Tag     string // advisory type tag, "" when absent
	Value   Expr
	IsConst bool
}

// AssignStmt is 'target = e' where target is an Ident, Member or Index.
// Compound forms (+= etc.) are desugared at parse time into plain '='.
type AssignStmt struct {
	at
	Target Expr
	Value  Expr
}

// ExprStmt wraps an expression evaluated for its effects.
type ExprStmt struct {
	at
	X Expr
}

// ElifClause is one 'elif cond { body }' arm.
type ElifClause struct {
	Cond Expr
	Body []Stmt
}

// IfStmt is the full if/elif/else chain.
type IfStmt struct {
	at
	Cond  Expr
	Then  []Stmt
	Elifs []ElifClause
	Else  []Stmt
}

// WhileStmt is 'while cond { body }'.
type WhileStmt struct {
	at
	Cond Expr
	Body []Stmt
}

// ForStmt is 'for v in iterable { body }'. The loop variable is bound in a
// fresh child frame each iteration.
type ForStmt struct {
	at
	Var      string
	Iterable Expr
	Body     []Stmt
}

// FuncStmt is a named function definition, possibly decorated and async.
// Decorators are listed in declaration order; they apply in reverse.
type FuncStmt struct {
	at
	Name       string
	Params     []Param
	ReturnTag  string // "" when absent
	Body       []Stmt
	Async      bool
	Decorators []string
}

// ReturnStmt is 'return' or 'return e'.
type ReturnStmt struct {
	at
	Value Expr // nil for bare return
}

// BreakStmt is 'break'.
type BreakStmt struct {
	at
}

// ContinueStmt is 'continue'.
type ContinueStmt struct {
	at
}

// ClassStmt is 'class Name { methods... }'.
type ClassStmt struct {
	at
	Name    string
	Methods []*FuncStmt
}

// ImportStmt is 'import "name"' or 'import "name" as alias'.
type ImportStmt struct {
	at
	Module string
	Alias  string
}

// ExceptClause is one handler arm. Kind "" or "Exception" catches anything;
// Bind "" means no name is bound.
type ExceptClause struct {
	Kind string
	Bind string
	Body []Stmt
}

// TryStmt is try/except*/else?/finally?.
type TryStmt struct {
	at
	Body     []Stmt
	Handlers []ExceptClause
	Else     []Stmt
	Finally  []Stmt
}

// MatchCase is one 'case pattern (if guard)? { body }' arm.
type MatchCase struct {
	Pattern Expr
	Guard   Expr // nil when absent
	Body    []Stmt
}

// MatchStmt matches the subject against cases by value equality.
type MatchStmt struct {
	at
	Subject Expr
	Cases   []MatchCase
	Default []Stmt
}

// AssertStmt is 'assert cond' or 'assert cond, msg'.
type AssertStmt struct {
	at
	Cond Expr
	Msg  Expr // nil when absent
}

func (*LetStmt) stmtNode()      {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*FuncStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ClassStmt) stmtNode()    {}
func (*ImportStmt) stmtNode()   {}
func (*TryStmt) stmtNode()      {}
func (*MatchStmt) stmtNode()    {}
func (*AssertStmt) stmtNode()   {}
