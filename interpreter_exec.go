// interpreter_exec.go — the tree-walking evaluator.
//
// Statements execute through exec(stmt, env, st) returning (Value, ctrl, err)
// where ctrl is the tagged control-flow result: none, return, break or
// continue. Non-local exits are plain values threaded upward, never host
// panics, and never conflated with catchable failures. Expressions evaluate
// through eval(expr, env), returning (Value, err).
//
// Loop validation is carried in an execState local to each logical execution
// strand (the main evaluation, each function call, each pool task), so pool
// workers evaluate concurrently without shared interpreter bookkeeping.
package kentscript

import (
	"math"
	"strings"
)

// ctrl tags the outcome of a statement.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// execState is per-strand execution bookkeeping. A fresh state starts at
// every function call and every pool task.
type execState struct {
	loopDepth int
}

// execProgram runs a top-level statement list and returns the value of the
// last statement. A 'return' escaping the top level is a failure.
func (ip *Interp) execProgram(stmts []Stmt, env *Env) (Value, error) {
	st := &execState{}
	last := Null
	for _, s := range stmts {
		v, c, err := ip.exec(s, env, st)
		if err != nil {
			return Null, err
		}
		if c == ctrlReturn {
			return Null, errAtNode(newError(ErrRuntime, "'return' outside function"), s)
		}
		last = v
	}
	return last, nil
}

// execBlock runs statements in order, stopping on the first non-normal
// outcome.
func (ip *Interp) execBlock(stmts []Stmt, env *Env, st *execState) (Value, ctrl, error) {
	last := Null
	for _, s := range stmts {
		v, c, err := ip.exec(s, env, st)
		if err != nil || c != ctrlNone {
			return v, c, err
		}
		last = v
	}
	return last, ctrlNone, nil
}

// ───────────────────────────── statements ─────────────────────────────

func (ip *Interp) exec(n Stmt, env *Env, st *execState) (Value, ctrl, error) {
	switch s := n.(type) {

	case *LetStmt:
		v, err := ip.eval(s.Value, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		if s.Tag != "" && !tagMatches(s.Tag, v) {
			return Null, ctrlNone, errAtNode(newError(ErrType,
				"declared %s but value is %s", s.Tag, v.TypeName()), s)
		}
		if err := env.Define(s.Name, v, s.IsConst); err != nil {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "%s", err.Error()), s)
		}
		return v, ctrlNone, nil

	case *AssignStmt:
		v, err := ip.eval(s.Value, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		if err := ip.assign(s.Target, v, env); err != nil {
			return Null, ctrlNone, errAtNode(err, s)
		}
		return v, ctrlNone, nil

	case *ExprStmt:
		v, err := ip.eval(s.X, env)
		return v, ctrlNone, err

	case *IfStmt:
		cond, err := ip.eval(s.Cond, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		if truthy(cond) {
			return ip.execBlock(s.Then, env, st)
		}
		for _, arm := range s.Elifs {
			c, err := ip.eval(arm.Cond, env)
			if err != nil {
				return Null, ctrlNone, err
			}
			if truthy(c) {
				return ip.execBlock(arm.Body, env, st)
			}
		}
		if s.Else != nil {
			return ip.execBlock(s.Else, env, st)
		}
		return Null, ctrlNone, nil

	case *WhileStmt:
		for {
			cond, err := ip.eval(s.Cond, env)
			if err != nil {
				return Null, ctrlNone, err
			}
			if !truthy(cond) {
				return Null, ctrlNone, nil
			}
			st.loopDepth++
			_, c, err := ip.execBlock(s.Body, env, st)
			st.loopDepth--
			if err != nil {
				return Null, ctrlNone, err
			}
			switch c {
			case ctrlBreak:
				return Null, ctrlNone, nil
			case ctrlReturn:
				return Null, ctrlReturn, nil
			}
			// ctrlContinue and ctrlNone both advance
		}

	case *ForStmt:
		items, err := ip.iterate(s.Iterable, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		for _, item := range items {
			// fresh frame per iteration: closures created in the body
			// each capture a distinct binding of the loop variable
			frame := NewEnv(env)
			frame.Define(s.Var, item, false)
			st.loopDepth++
			_, c, err := ip.execBlock(s.Body, frame, st)
			st.loopDepth--
			if err != nil {
				return Null, ctrlNone, err
			}
			if c == ctrlBreak {
				return Null, ctrlNone, nil
			}
			if c == ctrlReturn {
				return Null, ctrlReturn, nil
			}
		}
		return Null, ctrlNone, nil

	case *FuncStmt:
		fn := &Fun{
			Name:      s.Name,
			Params:    s.Params,
			ReturnTag: s.ReturnTag,
			Body:      s.Body,
			Env:       env,
			Async:     s.Async,
		}
		// bind first so the body can recurse by name
		if err := env.Define(s.Name, FunVal(fn), false); err != nil {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "%s", err.Error()), s)
		}
		// decorators apply in reverse declaration order
		for i := len(s.Decorators) - 1; i >= 0; i-- {
			dec, err := env.Get(s.Decorators[i])
			if err != nil {
				return Null, ctrlNone, errAtNode(newError(ErrName, "%s", err.Error()), s)
			}
			cur, _ := env.Get(s.Name)
			wrapped, err := ip.call(dec, []Value{cur}, s)
			if err != nil {
				return Null, ctrlNone, errAtNode(err, s)
			}
			if err := env.Define(s.Name, wrapped, false); err != nil {
				return Null, ctrlNone, errAtNode(newError(ErrRuntime, "%s", err.Error()), s)
			}
		}
		return Null, ctrlNone, nil

	case *ReturnStmt:
		v := Null
		if s.Value != nil {
			var err error
			v, err = ip.eval(s.Value, env)
			if err != nil {
				return Null, ctrlNone, err
			}
		}
		return v, ctrlReturn, nil

	case *BreakStmt:
		if st.loopDepth == 0 {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "'break' outside loop"), s)
		}
		return Null, ctrlBreak, nil

	case *ContinueStmt:
		if st.loopDepth == 0 {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "'continue' outside loop"), s)
		}
		return Null, ctrlContinue, nil

	case *ClassStmt:
		methods := make(map[string]*Fun, len(s.Methods))
		for _, m := range s.Methods {
			methods[m.Name] = &Fun{
				Name:      m.Name,
				Params:    m.Params,
				ReturnTag: m.ReturnTag,
				Body:      m.Body,
				Env:       env,
				Async:     m.Async,
			}
		}
		cls := &Class{Name: s.Name, Methods: methods}
		if err := env.Define(s.Name, ClassVal(cls), false); err != nil {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "%s", err.Error()), s)
		}
		return Null, ctrlNone, nil

	case *ImportStmt:
		mod, err := ip.importModule(s.Module, s.Alias)
		if err != nil {
			return Null, ctrlNone, errAtNode(err, s)
		}
		if err := env.Define(s.Alias, mod, false); err != nil {
			return Null, ctrlNone, errAtNode(newError(ErrRuntime, "%s", err.Error()), s)
		}
		return Null, ctrlNone, nil

	case *TryStmt:
		return ip.execTry(s, env, st)

	case *MatchStmt:
		subject, err := ip.eval(s.Subject, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		for _, cs := range s.Cases {
			matched, err := ip.caseMatches(cs.Pattern, subject, env)
			if err != nil {
				return Null, ctrlNone, err
			}
			if !matched {
				continue
			}
			if cs.Guard != nil {
				g, err := ip.eval(cs.Guard, env)
				if err != nil {
					return Null, ctrlNone, err
				}
				if !truthy(g) {
					continue
				}
			}
			return ip.execBlock(cs.Body, env, st)
		}
		if s.Default != nil {
			return ip.execBlock(s.Default, env, st)
		}
		return Null, ctrlNone, nil

	case *AssertStmt:
		cond, err := ip.eval(s.Cond, env)
		if err != nil {
			return Null, ctrlNone, err
		}
		if truthy(cond) {
			return Null, ctrlNone, nil
		}
		msg := "Assertion failed"
		if s.Msg != nil {
			mv, err := ip.eval(s.Msg, env)
			if err != nil {
				return Null, ctrlNone, err
			}
			msg = FormatValue(mv)
		}
		return Null, ctrlNone, errAtNode(newError(ErrAssertion, "%s", msg), s)
	}

	return Null, ctrlNone, errAtNode(newError(ErrRuntime, "unhandled statement %T", n), n)
}

// execTry runs the try body, dispatches handlers, runs else/finally.
// The finally block runs on every exit path; an outcome raised inside
// finally supersedes the pending one. Non-local exits pass through
// handlers uncaught, but still trigger finally.
func (ip *Interp) execTry(s *TryStmt, env *Env, st *execState) (Value, ctrl, error) {
	v, c, err := ip.execBlock(s.Body, env, st)

	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			for _, h := range s.Handlers {
				if h.Kind != "" && h.Kind != "Exception" && h.Kind != re.Kind {
					continue
				}
				if h.Bind != "" {
					env.Define(h.Bind, Str(re.Text()), false)
				}
				v, c, err = ip.execBlock(h.Body, env, st)
				break
			}
		}
	} else if c == ctrlNone && s.Else != nil {
		v, c, err = ip.execBlock(s.Else, env, st)
	}

	if s.Finally != nil {
		fv, fc, ferr := ip.execBlock(s.Finally, env, st)
		if ferr != nil || fc != ctrlNone {
			return fv, fc, ferr
		}
	}
	return v, c, err
}

// caseMatches tests a match arm. A bare '_' pattern is a wildcard; every
// other pattern is evaluated and compared by value equality.
func (ip *Interp) caseMatches(pattern Expr, subject Value, env *Env) (bool, error) {
	if id, ok := pattern.(*Ident); ok && id.Name == "_" {
		return true, nil
	}
	pv, err := ip.eval(pattern, env)
	if err != nil {
		return false, err
	}
	return valueEquals(subject, pv), nil
}

// assign stores into an Ident, Member or Index target.
func (ip *Interp) assign(target Expr, v Value, env *Env) error {
	switch t := target.(type) {
	case *Ident:
		if err := env.Set(t.Name, v); err != nil {
			return newError(ErrRuntime, "%s", err.Error())
		}
		return nil

	case *Member:
		obj, err := ip.eval(t.Object, env)
		if err != nil {
			return err
		}
		switch obj.Tag {
		case VTInstance:
			obj.Data.(*Instance).Attrs[t.Name] = v
			return nil
		case VTMap:
			obj.Data.(*MapObject).Set(t.Name, v)
			return nil
		}
		return newError(ErrAttribute, "cannot set attribute %q on %s", t.Name, obj.TypeName())

	case *Index:
		obj, err := ip.eval(t.Object, env)
		if err != nil {
			return err
		}
		key, err := ip.eval(t.Key, env)
		if err != nil {
			return err
		}
		switch obj.Tag {
		case VTList:
			lst := obj.Data.(*ListObject)
			idx, err := listIndex(key, len(lst.Elems))
			if err != nil {
				return err
			}
			lst.Elems[idx] = v
			return nil
		case VTMap:
			k, err := mapKey(key)
			if err != nil {
				return err
			}
			obj.Data.(*MapObject).Set(k, v)
			return nil
		}
		return newError(ErrType, "%s does not support index assignment", obj.TypeName())
	}
	return newError(ErrRuntime, "invalid assignment target")
}

// ───────────────────────────── expressions ─────────────────────────────

func (ip *Interp) eval(n Expr, env *Env) (Value, error) {
	switch e := n.(type) {

	case *Literal:
		switch v := e.Val.(type) {
		case nil:
			return Null, nil
		case bool:
			return Bool(v), nil
		case int64:
			return Int(v), nil
		case float64:
			return Num(v), nil
		case string:
			return Str(v), nil
		}
		return Null, errAtNode(newError(ErrRuntime, "bad literal %T", e.Val), e)

	case *Ident:
		v, err := env.Get(e.Name)
		if err != nil {
			return Null, errAtNode(newError(ErrName, "%s", err.Error()), e)
		}
		return v, nil

	case *Binary:
		// 'and'/'or' short-circuit and yield the deciding operand
		if e.Op == AND || e.Op == OR {
			left, err := ip.eval(e.Left, env)
			if err != nil {
				return Null, err
			}
			if e.Op == AND && !truthy(left) {
				return left, nil
			}
			if e.Op == OR && truthy(left) {
				return left, nil
			}
			return ip.eval(e.Right, env)
		}
		left, err := ip.eval(e.Left, env)
		if err != nil {
			return Null, err
		}
		right, err := ip.eval(e.Right, env)
		if err != nil {
			return Null, err
		}
		v, err := binaryOp(e.Op, left, right)
		if err != nil {
			return Null, errAtNode(err, e)
		}
		return v, nil

	case *Unary:
		operand, err := ip.eval(e.Operand, env)
		if err != nil {
			return Null, err
		}
		switch e.Op {
		case MINUS:
			switch operand.Tag {
			case VTInt:
				return Int(-operand.Data.(int64)), nil
			case VTNum:
				return Num(-operand.Data.(float64)), nil
			}
			return Null, errAtNode(newError(ErrType, "bad operand for unary '-': %s", operand.TypeName()), e)
		case NOT, BANG:
			return Bool(!truthy(operand)), nil
		}
		return Null, errAtNode(newError(ErrRuntime, "unhandled unary operator"), e)

	case *Ternary:
		cond, err := ip.eval(e.Cond, env)
		if err != nil {
			return Null, err
		}
		if truthy(cond) {
			return ip.eval(e.Then, env)
		}
		return ip.eval(e.Else, env)

	case *Call:
		callee, err := ip.eval(e.Callee, env)
		if err != nil {
			return Null, err
		}
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i], err = ip.eval(a, env)
			if err != nil {
				return Null, err
			}
		}
		v, err := ip.call(callee, args, e)
		if err != nil {
			return Null, errAtNode(err, e)
		}
		return v, nil

	case *Member:
		obj, err := ip.eval(e.Object, env)
		if err != nil {
			return Null, err
		}
		v, err := ip.member(obj, e.Name)
		if err != nil {
			return Null, errAtNode(err, e)
		}
		return v, nil

	case *Index:
		obj, err := ip.eval(e.Object, env)
		if err != nil {
			return Null, err
		}
		key, err := ip.eval(e.Key, env)
		if err != nil {
			return Null, err
		}
		v, err := indexGet(obj, key)
		if err != nil {
			return Null, errAtNode(err, e)
		}
		return v, nil

	case *ListLit:
		elems := make([]Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := ip.eval(el, env)
			if err != nil {
				return Null, err
			}
			elems[i] = v
		}
		return List(elems), nil

	case *MapLit:
		m := NewMapObject()
		for i, k := range e.Keys {
			kv, err := ip.eval(k, env)
			if err != nil {
				return Null, err
			}
			key, err := mapKey(kv)
			if err != nil {
				return Null, errAtNode(err, e)
			}
			vv, err := ip.eval(e.Vals[i], env)
			if err != nil {
				return Null, err
			}
			m.Set(key, vv)
		}
		return MapVal(m), nil

	case *Lambda:
		return FunVal(&Fun{
			Params: e.Params,
			Body:   []Stmt{&ReturnStmt{at: e.at, Value: e.Body}},
			Env:    env,
		}), nil

	case *Comprehension:
		items, err := ip.iterate(e.Iterable, env)
		if err != nil {
			return Null, err
		}
		var out []Value
		for _, item := range items {
			frame := NewEnv(env)
			frame.Define(e.Var, item, false)
			if e.Cond != nil {
				c, err := ip.eval(e.Cond, frame)
				if err != nil {
					return Null, err
				}
				if !truthy(c) {
					continue
				}
			}
			v, err := ip.eval(e.Expr, frame)
			if err != nil {
				return Null, err
			}
			out = append(out, v)
		}
		return List(out), nil

	case *AwaitExpr:
		v, err := ip.eval(e.X, env)
		if err != nil {
			return Null, err
		}
		switch v.Tag {
		case VTFuture:
			res, err := v.Data.(*Future).Result(0)
			if err != nil {
				return Null, errAtNode(err, e)
			}
			return res, nil
		case VTFun:
			if v.Data.(*Fun).Async {
				res, err := ip.call(v, nil, e)
				if err != nil {
					return Null, errAtNode(err, e)
				}
				return res, nil
			}
		}
		// synchronous pass-through
		return v, nil

	case *ThreadExpr:
		callee, err := ip.eval(e.Callee, env)
		if err != nil {
			return Null, err
		}
		if !isCallable(callee) {
			return Null, errAtNode(newError(ErrType,
				"'%s' object is not callable", callee.TypeName()), e)
		}
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			args[i], err = ip.eval(a, env)
			if err != nil {
				return Null, err
			}
		}
		fut := ip.ensurePool().Submit(func() (Value, error) {
			return ip.call(callee, args, e)
		})
		if fut == nil {
			return Null, errAtNode(newError(ErrRuntime, "task pool is shut down"), e)
		}
		return FutureVal(fut), nil
	}

	return Null, errAtNode(newError(ErrRuntime, "unhandled expression %T", n), n)
}

// iterate evaluates an expression and expands it into a sequence.
func (ip *Interp) iterate(e Expr, env *Env) ([]Value, error) {
	v, err := ip.eval(e, env)
	if err != nil {
		return nil, err
	}
	items, err := sequence(v)
	if err != nil {
		return nil, errAtNode(err, e)
	}
	return items, nil
}

// sequence expands a value into its elements: list elements, string
// characters, map keys in insertion order.
func sequence(v Value) ([]Value, error) {
	switch v.Tag {
	case VTList:
		return v.Data.(*ListObject).Elems, nil
	case VTStr:
		s := v.Data.(string)
		out := make([]Value, 0, len(s))
		for _, r := range s {
			out = append(out, Str(string(r)))
		}
		return out, nil
	case VTMap:
		m := v.Data.(*MapObject)
		out := make([]Value, len(m.Keys))
		for i, k := range m.Keys {
			out[i] = Str(k)
		}
		return out, nil
	}
	return nil, newError(ErrType, "%s is not iterable", v.TypeName())
}

// ───────────────────────────── calls ─────────────────────────────

func isCallable(v Value) bool {
	return v.Tag == VTFun || v.Tag == VTClass
}

// call invokes a function or class value. Arity is lenient: missing
// parameters bind to null, excess arguments are ignored.
func (ip *Interp) call(callee Value, args []Value, site Node) (Value, error) {
	switch callee.Tag {
	case VTFun:
		return ip.callFun(callee.Data.(*Fun), args, site)
	case VTClass:
		return ip.instantiate(callee.Data.(*Class), args, site)
	}
	return Null, newError(ErrType, "'%s' object is not callable", callee.TypeName())
}

func (ip *Interp) callFun(f *Fun, args []Value, site Node) (Value, error) {
	if f.Native != nil {
		v, err := f.Native(ip, args)
		if err != nil {
			if site != nil {
				err = errAtNode(err, site)
			}
			return Null, err
		}
		return v, nil
	}

	frame := NewEnv(f.Env)
	if f.Self != nil {
		recv := InstanceVal(f.Self)
		frame.Define("self", recv, false)
		frame.Define("this", recv, false)
	}
	for i, p := range f.Params {
		arg := Null
		if i < len(args) {
			arg = args[i]
		}
		if p.Tag != "" && arg.Tag != VTNull && !tagMatches(p.Tag, arg) {
			return Null, newError(ErrType,
				"parameter %q declared %s but got %s", p.Name, p.Tag, arg.TypeName())
		}
		frame.Define(p.Name, arg, false)
	}

	st := &execState{}
	v, c, err := ip.execBlock(f.Body, frame, st)
	if err != nil {
		return Null, err
	}
	result := Null
	if c == ctrlReturn {
		result = v
	}
	if f.ReturnTag != "" && result.Tag != VTNull && !tagMatches(f.ReturnTag, result) {
		return Null, newError(ErrType,
			"declared return %s but got %s", f.ReturnTag, result.TypeName())
	}
	return result, nil
}

// instantiate creates an Instance and runs __init__ when present, with the
// receiver prepended as 'self'.
func (ip *Interp) instantiate(cls *Class, args []Value, site Node) (Value, error) {
	inst := &Instance{Class: cls, Attrs: map[string]Value{}}
	if init, ok := cls.Methods["__init__"]; ok {
		bound := *init
		bound.Self = inst
		if _, err := ip.callFun(&bound, args, site); err != nil {
			return Null, err
		}
	}
	return InstanceVal(inst), nil
}

// ───────────────────────────── member / index ─────────────────────────────

// member resolves 'obj.name': instance attribute, else bound method, else
// map entry, else module export, else built-in method on primitives.
func (ip *Interp) member(obj Value, name string) (Value, error) {
	switch obj.Tag {
	case VTInstance:
		inst := obj.Data.(*Instance)
		if v, ok := inst.Attrs[name]; ok {
			return v, nil
		}
		if m, ok := inst.Class.Methods[name]; ok {
			bound := *m
			bound.Self = inst
			return FunVal(&bound), nil
		}
		return Null, newError(ErrAttribute,
			"'%s' object has no attribute '%s'", inst.Class.Name, name)

	case VTMap:
		if v, ok := obj.Data.(*MapObject).Get(name); ok {
			return v, nil
		}
		return Null, nil // lenient, mirrors dict.get

	case VTModule:
		mod := obj.Data.(*Module)
		if v, ok := mod.Exports.Get(name); ok {
			return v, nil
		}
		return Null, newError(ErrAttribute,
			"module '%s' has no attribute '%s'", mod.Name, name)

	case VTStr:
		if fn, ok := stringMethod(obj.Data.(string), name); ok {
			return fn, nil
		}
		return Null, newError(ErrAttribute, "Str has no attribute '%s'", name)

	case VTList:
		if fn, ok := listMethod(obj.Data.(*ListObject), name); ok {
			return fn, nil
		}
		return Null, newError(ErrAttribute, "List has no attribute '%s'", name)

	case VTFuture:
		if fn, ok := futureMethod(obj.Data.(*Future), name); ok {
			return fn, nil
		}
		return Null, newError(ErrAttribute, "Future has no attribute '%s'", name)
	}
	return Null, newError(ErrAttribute,
		"%s has no attribute '%s'", obj.TypeName(), name)
}

// indexGet resolves 'obj[key]'.
func indexGet(obj, key Value) (Value, error) {
	switch obj.Tag {
	case VTList:
		elems := obj.Data.(*ListObject).Elems
		idx, err := listIndex(key, len(elems))
		if err != nil {
			return Null, err
		}
		return elems[idx], nil
	case VTStr:
		// Index by rune so subscripting agrees with len and iteration
		// on multi-byte text.
		rs := []rune(obj.Data.(string))
		idx, err := listIndex(key, len(rs))
		if err != nil {
			return Null, err
		}
		return Str(string(rs[idx])), nil
	case VTMap:
		k, err := mapKey(key)
		if err != nil {
			return Null, err
		}
		if v, ok := obj.Data.(*MapObject).Get(k); ok {
			return v, nil
		}
		return Null, newError(ErrKey, "key not found: %s", k)
	}
	return Null, newError(ErrType, "%s is not indexable", obj.TypeName())
}

// listIndex validates an integer index, supporting negative offsets.
func listIndex(key Value, length int) (int, error) {
	if key.Tag != VTInt {
		return 0, newError(ErrType, "index must be Int, got %s", key.TypeName())
	}
	idx := int(key.Data.(int64))
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, newError(ErrIndex, "index out of range: %d", key.Data.(int64))
	}
	return idx, nil
}

// mapKey converts a value into the string key space of MapObject.
func mapKey(v Value) (string, error) {
	switch v.Tag {
	case VTStr:
		return v.Data.(string), nil
	case VTInt, VTNum, VTBool:
		return v.String(), nil
	}
	return "", newError(ErrType, "unusable map key type: %s", v.TypeName())
}

// ───────────────────────────── operators ─────────────────────────────

// truthy follows the usual scripting rules: null, false, zero, the empty
// string, empty list and empty map are false; everything else is true.
func truthy(v Value) bool {
	switch v.Tag {
	case VTNull:
		return false
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTList:
		return len(v.Data.(*ListObject).Elems) > 0
	case VTMap:
		return len(v.Data.(*MapObject).Keys) > 0
	}
	return true
}

// numOf widens int/num operands to float64.
func numOf(v Value) (float64, bool) {
	switch v.Tag {
	case VTInt:
		return float64(v.Data.(int64)), true
	case VTNum:
		return v.Data.(float64), true
	}
	return 0, false
}

func bothInt(a, b Value) bool { return a.Tag == VTInt && b.Tag == VTInt }

// valueEquals is structural for primitives, lists and maps, and identity
// for functions, classes, instances and modules. Ints and floats compare
// across tags by numeric value.
func valueEquals(a, b Value) bool {
	if an, ok := numOf(a); ok {
		if bn, ok := numOf(b); ok {
			return an == bn
		}
		return false
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNull:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		xs, ys := a.Data.(*ListObject).Elems, b.Data.(*ListObject).Elems
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !valueEquals(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case VTMap:
		ma, mb := a.Data.(*MapObject), b.Data.(*MapObject)
		if len(ma.Keys) != len(mb.Keys) {
			return false
		}
		for _, k := range ma.Keys {
			va, _ := ma.Get(k)
			vb, ok := mb.Get(k)
			if !ok || !valueEquals(va, vb) {
				return false
			}
		}
		return true
	}
	return a.Data == b.Data
}

func binaryOp(op TokenType, left, right Value) (Value, error) {
	switch op {
	case PLUS:
		if bothInt(left, right) {
			return Int(left.Data.(int64) + right.Data.(int64)), nil
		}
		if ln, ok := numOf(left); ok {
			if rn, ok := numOf(right); ok {
				return Num(ln + rn), nil
			}
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string)), nil
		}
		if left.Tag == VTList && right.Tag == VTList {
			xs := left.Data.(*ListObject).Elems
			ys := right.Data.(*ListObject).Elems
			out := make([]Value, 0, len(xs)+len(ys))
			out = append(out, xs...)
			out = append(out, ys...)
			return List(out), nil
		}
		return Null, newError(ErrType, "unsupported operand types for +: %s and %s",
			left.TypeName(), right.TypeName())

	case MINUS:
		if bothInt(left, right) {
			return Int(left.Data.(int64) - right.Data.(int64)), nil
		}
		return numericOp(left, right, func(a, b float64) float64 { return a - b })

	case STAR:
		if bothInt(left, right) {
			return Int(left.Data.(int64) * right.Data.(int64)), nil
		}
		if left.Tag == VTStr && right.Tag == VTInt {
			return Str(strings.Repeat(left.Data.(string), clampRepeat(right.Data.(int64)))), nil
		}
		if left.Tag == VTList && right.Tag == VTInt {
			xs := left.Data.(*ListObject).Elems
			n := clampRepeat(right.Data.(int64))
			out := make([]Value, 0, len(xs)*n)
			for i := 0; i < n; i++ {
				out = append(out, xs...)
			}
			return List(out), nil
		}
		return numericOp(left, right, func(a, b float64) float64 { return a * b })

	case SLASH:
		// true division, always a float
		ln, lok := numOf(left)
		rn, rok := numOf(right)
		if !lok || !rok {
			return Null, newError(ErrType, "unsupported operand types for /: %s and %s",
				left.TypeName(), right.TypeName())
		}
		if rn == 0 {
			return Null, newError(ErrZeroDivision, "division by zero")
		}
		return Num(ln / rn), nil

	case PERCENT:
		if bothInt(left, right) {
			b := right.Data.(int64)
			if b == 0 {
				return Null, newError(ErrZeroDivision, "modulo by zero")
			}
			// result takes the sign of the divisor
			m := left.Data.(int64) % b
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return Int(m), nil
		}
		ln, lok := numOf(left)
		rn, rok := numOf(right)
		if !lok || !rok {
			return Null, newError(ErrType, "unsupported operand types for %%: %s and %s",
				left.TypeName(), right.TypeName())
		}
		if rn == 0 {
			return Null, newError(ErrZeroDivision, "modulo by zero")
		}
		m := math.Mod(ln, rn)
		if m != 0 && (m < 0) != (rn < 0) {
			m += rn
		}
		return Num(m), nil

	case POWER:
		if bothInt(left, right) && right.Data.(int64) >= 0 {
			return Int(intPow(left.Data.(int64), right.Data.(int64))), nil
		}
		return numericOp(left, right, math.Pow)

	case EQ:
		return Bool(valueEquals(left, right)), nil
	case NEQ:
		return Bool(!valueEquals(left, right)), nil

	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		return compareOp(op, left, right)
	}
	return Null, newError(ErrRuntime, "unhandled binary operator")
}

func numericOp(left, right Value, f func(a, b float64) float64) (Value, error) {
	ln, lok := numOf(left)
	rn, rok := numOf(right)
	if !lok || !rok {
		return Null, newError(ErrType, "unsupported operand types: %s and %s",
			left.TypeName(), right.TypeName())
	}
	return Num(f(ln, rn)), nil
}

func compareOp(op TokenType, left, right Value) (Value, error) {
	if ln, ok := numOf(left); ok {
		if rn, ok := numOf(right); ok {
			switch op {
			case LESS:
				return Bool(ln < rn), nil
			case LESS_EQ:
				return Bool(ln <= rn), nil
			case GREATER:
				return Bool(ln > rn), nil
			case GREATER_EQ:
				return Bool(ln >= rn), nil
			}
		}
	}
	if left.Tag == VTStr && right.Tag == VTStr {
		a, b := left.Data.(string), right.Data.(string)
		switch op {
		case LESS:
			return Bool(a < b), nil
		case LESS_EQ:
			return Bool(a <= b), nil
		case GREATER:
			return Bool(a > b), nil
		case GREATER_EQ:
			return Bool(a >= b), nil
		}
	}
	return Null, newError(ErrType, "unorderable types: %s and %s",
		left.TypeName(), right.TypeName())
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func clampRepeat(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// ───────────────────────────── type tags ─────────────────────────────

// tagMatches performs the advisory runtime type check. Num accepts Int.
// Unknown tags (class names) compare against the value's type name.
func tagMatches(tag string, v Value) bool {
	switch tag {
	case "Any":
		return true
	case "Int":
		return v.Tag == VTInt
	case "Num", "Float":
		return v.Tag == VTNum || v.Tag == VTInt
	case "Str", "String":
		return v.Tag == VTStr
	case "Bool":
		return v.Tag == VTBool
	case "List":
		return v.Tag == VTList
	case "Map", "Dict":
		return v.Tag == VTMap
	case "Null", "None":
		return v.Tag == VTNull
	case "Function":
		return v.Tag == VTFun
	}
	return tag == v.TypeName()
}

// ensurePool lazily creates the task pool on first use.
func (ip *Interp) ensurePool() *TaskPool {
	if ip.pool == nil {
		ip.pool = NewTaskPool(ip.workers)
	}
	return ip.pool
}

// futureMethod exposes the pool handle surface as bound methods:
// result(timeoutSeconds?) and done().
func futureMethod(f *Future, name string) (Value, bool) {
	switch name {
	case "result":
		return NativeVal("result", func(ip *Interp, args []Value) (Value, error) {
			var timeout float64
			if len(args) > 0 {
				t, ok := numOf(args[0])
				if !ok {
					return Null, newError(ErrType, "result timeout must be a number")
				}
				timeout = t
			}
			return f.Result(timeout)
		}), true
	case "done":
		return NativeVal("done", func(ip *Interp, args []Value) (Value, error) {
			return Bool(f.Done()), nil
		}), true
	}
	return Null, false
}
