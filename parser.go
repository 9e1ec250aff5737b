// parser.go — recursive-descent parser for KentScript.
//
// Consumes the token stream from lexer.go and builds the typed AST in ast.go.
// Expression precedence, lowest to highest:
//
//	ternary ?:  →  or  →  and  →  equality  →  comparison  →  pipe |
//	→  additive  →  multiplicative  →  power ** (right-assoc)
//	→  unary (- not !)  →  postfix (call, member, index)  →  primary
//
// Desugarings performed here, not at evaluation time:
//   - a | f            becomes f(a)
//   - new C(args)      becomes a call of the identifier C
//   - x op= e          becomes x = x op e
//
// Lambdas '(a, b) -> expr' are disambiguated from parenthesized groups by
// speculative lookahead with rollback. List comprehensions are recognized by
// a 'for' token after the first element. All block bodies require braces.
// Parse failures are fatal: *ParseError, no recovery.
package kentscript

import "fmt"

// ParseError is a fatal syntax failure with source position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("SYNTAX ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse lexes and parses a complete source string into a statement list.
func Parse(src string) ([]Stmt, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────── token basics & helpers ───────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	idx := p.i + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	g := p.peek()
	return Token{}, &ParseError{Line: g.Line, Col: g.Col, Msg: msg}
}

func (p *parser) errAt(t Token, msg string) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: msg}
}

func pos(t Token) at { return at{Line: t.Line, Col: t.Col} }

// canStartExpr reports whether a token may begin an expression. Used to
// decide whether 'return' carries a value.
func canStartExpr(tt TokenType) bool {
	switch tt {
	case IDENT, STRING, INTEGER, NUMBER, TRUE, FALSE, NONE,
		LPAREN, LBRACKET, LBRACE, MINUS, BANG, NOT, NEW, AWAIT, THREAD:
		return true
	default:
		return false
	}
}

// ───────────────────────────── program ─────────────────────────────

func (p *parser) program() ([]Stmt, error) {
	var stmts []Stmt
	for !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// block parses statements up to the closing '}' (not consumed here).
func (p *parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RBRACE) && !p.atEnd() {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// bracedBlock parses '{ stmts }'.
func (p *parser) bracedBlock() ([]Stmt, error) {
	if _, err := p.need(LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return body, nil
}

// ───────────────────────────── statements ─────────────────────────────

func (p *parser) statement() (Stmt, error) {
	s, err := p.statementInner()
	if err != nil {
		return nil, err
	}
	p.match(SEMI) // optional trailing ';'
	return s, nil
}

func (p *parser) statementInner() (Stmt, error) {
	switch p.peek().Type {
	case LET:
		return p.letDecl(false)
	case CONST:
		return p.letDecl(true)
	case IF:
		return p.ifStmt()
	case WHILE:
		return p.whileStmt()
	case FOR:
		return p.forStmt()
	case FUNC:
		return p.funcDef(nil, false)
	case ASYNC:
		tok := p.peek()
		p.i++
		if !p.check(FUNC) {
			return nil, p.errAt(tok, "expected 'func' after 'async'")
		}
		return p.funcDef(nil, true)
	case AT:
		return p.decoratedFunc()
	case CLASS:
		return p.classDef()
	case RETURN:
		return p.returnStmt()
	case IMPORT:
		return p.importStmt()
	case TRY:
		return p.tryStmt()
	case MATCH:
		return p.matchStmt()
	case ASSERT:
		return p.assertStmt()
	case BREAK:
		tok := p.peek()
		p.i++
		return &BreakStmt{at: pos(tok)}, nil
	case CONTINUE:
		tok := p.peek()
		p.i++
		return &ContinueStmt{at: pos(tok)}, nil
	default:
		return p.exprOrAssignStmt()
	}
}

func (p *parser) letDecl(isConst bool) (Stmt, error) {
	kw := p.peek()
	p.i++ // 'let' or 'const'
	name, err := p.need(IDENT, "expected name after declaration keyword")
	if err != nil {
		return nil, err
	}
	tag := ""
	if p.match(COLON) {
		t, err := p.need(IDENT, "expected type tag after ':'")
		if err != nil {
			return nil, err
		}
		tag = t.Lexeme
	}
	if _, err := p.need(ASSIGN, "expected '=' in declaration"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &LetStmt{at: pos(kw), Name: name.Lexeme, Tag: tag, Value: value, IsConst: isConst}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'if'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	then, err := p.bracedBlock()
	if err != nil {
		return nil, err
	}

	var elifs []ElifClause
	for p.match(ELIF) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		body, err := p.bracedBlock()
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ElifClause{Cond: c, Body: body})
	}

	var elseBody []Stmt
	if p.match(ELSE) {
		elseBody, err = p.bracedBlock()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{at: pos(kw), Cond: cond, Then: then, Elifs: elifs, Else: elseBody}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'while'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.bracedBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{at: pos(kw), Cond: cond, Body: body}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'for'
	v, err := p.need(IDENT, "expected loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IN, "expected 'in' in for loop"); err != nil {
		return nil, err
	}
	iter, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.bracedBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{at: pos(kw), Var: v.Lexeme, Iterable: iter, Body: body}, nil
}

// decoratedFunc collects '@name' lines and parses the function they wrap.
func (p *parser) decoratedFunc() (Stmt, error) {
	var decorators []string
	for p.match(AT) {
		name, err := p.need(IDENT, "expected decorator name after '@'")
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, name.Lexeme)
	}
	async := false
	if p.match(ASYNC) {
		async = true
	}
	if !p.check(FUNC) {
		return nil, p.errAt(p.peek(), "expected 'func' after decorator")
	}
	return p.funcDef(decorators, async)
}

func (p *parser) funcDef(decorators []string, async bool) (*FuncStmt, error) {
	kw := p.peek()
	p.i++ // 'func'
	name, err := p.need(IDENT, "expected function name")
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	returnTag := ""
	if p.match(ARROW) {
		t, err := p.need(IDENT, "expected return type tag after '->'")
		if err != nil {
			return nil, err
		}
		returnTag = t.Lexeme
	}
	body, err := p.bracedBlock()
	if err != nil {
		return nil, err
	}
	return &FuncStmt{
		at:         pos(kw),
		Name:       name.Lexeme,
		Params:     params,
		ReturnTag:  returnTag,
		Body:       body,
		Async:      async,
		Decorators: decorators,
	}, nil
}

func (p *parser) paramList() ([]Param, error) {
	if _, err := p.need(LPAREN, "expected '(' before parameters"); err != nil {
		return nil, err
	}
	var params []Param
	for !p.check(RPAREN) {
		name, err := p.need(IDENT, "expected parameter name")
		if err != nil {
			return nil, err
		}
		tag := ""
		if p.match(COLON) {
			t, err := p.need(IDENT, "expected type tag after ':'")
			if err != nil {
				return nil, err
			}
			tag = t.Lexeme
		}
		params = append(params, Param{Name: name.Lexeme, Tag: tag})
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) classDef() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'class'
	name, err := p.need(IDENT, "expected class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "expected '{' after class name"); err != nil {
		return nil, err
	}
	var methods []*FuncStmt
	for !p.check(RBRACE) && !p.atEnd() {
		async := false
		if p.match(ASYNC) {
			async = true
		}
		if !p.check(FUNC) {
			return nil, p.errAt(p.peek(), "expected method definition in class body")
		}
		m, err := p.funcDef(nil, async)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.need(RBRACE, "expected '}' after class body"); err != nil {
		return nil, err
	}
	return &ClassStmt{at: pos(kw), Name: name.Lexeme, Methods: methods}, nil
}

func (p *parser) returnStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'return'
	var value Expr
	if canStartExpr(p.peek().Type) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &ReturnStmt{at: pos(kw), Value: value}, nil
}

func (p *parser) importStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'import'
	mod, err := p.need(STRING, "expected module name string after 'import'")
	if err != nil {
		return nil, err
	}
	name, _ := mod.Literal.(string)
	alias := name
	if p.match(AS) {
		a, err := p.need(IDENT, "expected alias name after 'as'")
		if err != nil {
			return nil, err
		}
		alias = a.Lexeme
	}
	return &ImportStmt{at: pos(kw), Module: name, Alias: alias}, nil
}

func (p *parser) tryStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'try'
	body, err := p.bracedBlock()
	if err != nil {
		return nil, err
	}

	var handlers []ExceptClause
	for p.match(EXCEPT) {
		kind, bind := "", ""
		if p.check(IDENT) {
			kind = p.peek().Lexeme
			p.i++
			if p.match(AS) {
				b, err := p.need(IDENT, "expected binding name after 'as'")
				if err != nil {
					return nil, err
				}
				bind = b.Lexeme
			}
		}
		hbody, err := p.bracedBlock()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, ExceptClause{Kind: kind, Bind: bind, Body: hbody})
	}

	var elseBody []Stmt
	if p.match(ELSE) {
		elseBody, err = p.bracedBlock()
		if err != nil {
			return nil, err
		}
	}

	var finally []Stmt
	sawFinally := false
	if p.match(FINALLY) {
		sawFinally = true
		finally, err = p.bracedBlock()
		if err != nil {
			return nil, err
		}
	}

	if len(handlers) == 0 && !sawFinally {
		return nil, p.errAt(kw, "'try' requires at least one 'except' or a 'finally'")
	}
	return &TryStmt{at: pos(kw), Body: body, Handlers: handlers, Else: elseBody, Finally: finally}, nil
}

func (p *parser) matchStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'match'
	subject, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LBRACE, "expected '{' after match subject"); err != nil {
		return nil, err
	}

	var cases []MatchCase
	var deflt []Stmt
	sawDefault := false
	for !p.check(RBRACE) && !p.atEnd() {
		if p.match(DEFAULT) {
			if sawDefault {
				return nil, p.errAt(p.prev(), "duplicate 'default' in match")
			}
			sawDefault = true
			deflt, err = p.bracedBlock()
			if err != nil {
				return nil, err
			}
			continue
		}
		if _, err := p.need(CASE, "expected 'case' or 'default' in match body"); err != nil {
			return nil, err
		}
		pattern, err := p.primary()
		if err != nil {
			return nil, err
		}
		var guard Expr
		if p.match(IF) {
			guard, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		body, err := p.bracedBlock()
		if err != nil {
			return nil, err
		}
		cases = append(cases, MatchCase{Pattern: pattern, Guard: guard, Body: body})
	}
	if _, err := p.need(RBRACE, "expected '}' after match body"); err != nil {
		return nil, err
	}
	return &MatchStmt{at: pos(kw), Subject: subject, Cases: cases, Default: deflt}, nil
}

func (p *parser) assertStmt() (Stmt, error) {
	kw := p.peek()
	p.i++ // 'assert'
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	var msg Expr
	if p.match(COMMA) {
		msg, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	return &AssertStmt{at: pos(kw), Cond: cond, Msg: msg}, nil
}

// exprOrAssignStmt parses an expression; if an assignment operator follows
// and the expression is a valid target, it becomes an assignment. Compound
// operators desugar to the plain form: x += e  →  x = x + e.
func (p *parser) exprOrAssignStmt() (Stmt, error) {
	start := p.peek()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	var binOp TokenType
	isAssign := false
	switch p.peek().Type {
	case ASSIGN:
		isAssign = true
	case PLUS_EQ:
		isAssign, binOp = true, PLUS
	case MINUS_EQ:
		isAssign, binOp = true, MINUS
	case STAR_EQ:
		isAssign, binOp = true, STAR
	case SLASH_EQ:
		isAssign, binOp = true, SLASH
	case PERCENT_EQ:
		isAssign, binOp = true, PERCENT
	}
	if !isAssign {
		return &ExprStmt{at: pos(start), X: expr}, nil
	}

	opTok := p.peek()
	p.i++
	switch expr.(type) {
	case *Ident, *Member, *Index:
	default:
		return nil, p.errAt(opTok, "invalid assignment target")
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if binOp != 0 {
		value = &Binary{at: pos(opTok), Op: binOp, Left: expr, Right: value}
	}
	return &AssignStmt{at: pos(start), Target: expr, Value: value}, nil
}

// ───────────────────────────── expressions ─────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.ternary()
}

func (p *parser) ternary() (Expr, error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.match(QUESTION) {
		return cond, nil
	}
	qTok := p.prev()
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(COLON, "expected ':' in ternary expression"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Ternary{at: pos(qTok), Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) logicalOr() (Expr, error) {
	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) logicalAnd() (Expr, error) {
	left, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: AND, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) equality() (Expr, error) {
	left, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(EQ) || p.check(NEQ) {
		op := p.peek()
		p.i++
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) comparison() (Expr, error) {
	left, err := p.pipe()
	if err != nil {
		return nil, err
	}
	for p.check(LESS) || p.check(LESS_EQ) || p.check(GREATER) || p.check(GREATER_EQ) {
		op := p.peek()
		p.i++
		right, err := p.pipe()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

// pipe desugars 'a | f' into 'f(a)' at parse time.
func (p *parser) pipe() (Expr, error) {
	left, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.match(PIPE) {
		op := p.prev()
		fn, err := p.additive()
		if err != nil {
			return nil, err
		}
		left = &Call{at: pos(op), Callee: fn, Args: []Expr{left}}
	}
	return left, nil
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.peek()
		p.i++
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		op := p.peek()
		p.i++
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		left = &Binary{at: pos(op), Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

// power is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2). Unary binds
// tighter than '**', so -2 ** 3 is (-2) ** 3.
func (p *parser) power() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.match(POWER) {
		op := p.prev()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		return &Binary{at: pos(op), Op: POWER, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	switch p.peek().Type {
	case MINUS, NOT, BANG:
		op := p.peek()
		p.i++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{at: pos(op), Op: op.Type, Operand: operand}, nil
	case AWAIT:
		kw := p.peek()
		p.i++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &AwaitExpr{at: pos(kw), X: x}, nil
	case THREAD:
		return p.threadExpr()
	}
	return p.postfix()
}

// threadExpr parses 'thread callee(args...)'. The call shape is required:
// the pool receives an already-evaluated callable plus arguments.
func (p *parser) threadExpr() (Expr, error) {
	kw := p.peek()
	p.i++ // 'thread'
	target, err := p.postfix()
	if err != nil {
		return nil, err
	}
	call, ok := target.(*Call)
	if !ok {
		return nil, p.errAt(kw, "'thread' requires a call expression")
	}
	return &ThreadExpr{at: pos(kw), Callee: call.Callee, Args: call.Args}, nil
}

func (p *parser) postfix() (Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case LPAREN:
			open := p.peek()
			p.i++
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			left = &Call{at: pos(open), Callee: left, Args: args}
		case DOT:
			p.i++
			name, err := p.need(IDENT, "expected attribute name after '.'")
			if err != nil {
				return nil, err
			}
			left = &Member{at: pos(name), Object: left, Name: name.Lexeme}
		case LBRACKET:
			open := p.peek()
			p.i++
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RBRACKET, "expected ']' after index"); err != nil {
				return nil, err
			}
			left = &Index{at: pos(open), Object: left, Key: key}
		default:
			return left, nil
		}
	}
}

// argList parses 'e1, e2, ...' up to and including the closing ')'.
func (p *parser) argList() ([]Expr, error) {
	var args []Expr
	for !p.check(RPAREN) {
		a, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RPAREN, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER, NUMBER, STRING, TRUE, FALSE, NONE:
		p.i++
		return &Literal{at: pos(tok), Val: tok.Literal}, nil

	case IDENT:
		// 'a -> expr' is a single-parameter lambda.
		if p.peekN(1).Type == ARROW {
			p.i += 2
			body, err := p.expression()
			if err != nil {
				return nil, err
			}
			return &Lambda{at: pos(tok), Params: []Param{{Name: tok.Lexeme}}, Body: body}, nil
		}
		p.i++
		return &Ident{at: pos(tok), Name: tok.Lexeme}, nil

	case LPAREN:
		if lam, ok, err := p.tryLambda(); err != nil {
			return nil, err
		} else if ok {
			return lam, nil
		}
		p.i++ // '('
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RPAREN, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return expr, nil

	case LBRACKET:
		return p.listOrComprehension()

	case LBRACE:
		return p.mapLiteral()

	case NEW:
		return p.newExpr()
	}
	return nil, p.errAt(tok, fmt.Sprintf("unexpected token %q", tok.Lexeme))
}

// tryLambda speculatively matches '( params ) ->'. On success it consumes the
// whole lambda; otherwise it rolls the cursor back and reports no match.
func (p *parser) tryLambda() (Expr, bool, error) {
	save := p.i
	open := p.peek()
	p.i++ // '('

	var params []Param
	for !p.check(RPAREN) {
		if !p.check(IDENT) {
			p.i = save
			return nil, false, nil
		}
		name := p.peek()
		p.i++
		tag := ""
		if p.match(COLON) {
			if !p.check(IDENT) {
				p.i = save
				return nil, false, nil
			}
			tag = p.peek().Lexeme
			p.i++
		}
		params = append(params, Param{Name: name.Lexeme, Tag: tag})
		if !p.match(COMMA) {
			break
		}
	}
	if !p.match(RPAREN) || !p.match(ARROW) {
		p.i = save
		return nil, false, nil
	}

	body, err := p.expression()
	if err != nil {
		return nil, false, err
	}
	return &Lambda{at: pos(open), Params: params, Body: body}, true, nil
}

// listOrComprehension parses '[...]': empty list, plain list, or a
// comprehension when 'for' follows the first element.
func (p *parser) listOrComprehension() (Expr, error) {
	open := p.peek()
	p.i++ // '['

	if p.match(RBRACKET) {
		return &ListLit{at: pos(open)}, nil
	}

	first, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.match(FOR) {
		v, err := p.need(IDENT, "expected loop variable in comprehension")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(IN, "expected 'in' in comprehension"); err != nil {
			return nil, err
		}
		iter, err := p.expression()
		if err != nil {
			return nil, err
		}
		var cond Expr
		if p.match(IF) {
			cond, err = p.expression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.need(RBRACKET, "expected ']' after comprehension"); err != nil {
			return nil, err
		}
		return &Comprehension{at: pos(open), Expr: first, Var: v.Lexeme, Iterable: iter, Cond: cond}, nil
	}

	elems := []Expr{first}
	for p.match(COMMA) {
		if p.check(RBRACKET) {
			break
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.need(RBRACKET, "expected ']' after list"); err != nil {
		return nil, err
	}
	return &ListLit{at: pos(open), Elems: elems}, nil
}

func (p *parser) mapLiteral() (Expr, error) {
	open := p.peek()
	p.i++ // '{'

	var keys, vals []Expr
	for !p.check(RBRACE) {
		k, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "expected ':' in map literal"); err != nil {
			return nil, err
		}
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RBRACE, "expected '}' after map literal"); err != nil {
		return nil, err
	}
	return &MapLit{at: pos(open), Keys: keys, Vals: vals}, nil
}

// newExpr desugars 'new C(args)' into a call of the identifier C. Class
// values are callable, so no dedicated node is needed.
func (p *parser) newExpr() (Expr, error) {
	kw := p.peek()
	p.i++ // 'new'
	name, err := p.need(IDENT, "expected class name after 'new'")
	if err != nil {
		return nil, err
	}
	callee := &Ident{at: pos(name), Name: name.Lexeme}
	var args []Expr
	if p.match(LPAREN) {
		args, err = p.argList()
		if err != nil {
			return nil, err
		}
	}
	return &Call{at: pos(kw), Callee: callee, Args: args}, nil
}
