// interpreter.go — public surface of the KentScript runtime.
//
// This file holds the runtime value model (Value, ValueTag, constructors),
// ordered maps (MapObject), functions/closures (Fun), classes and instances,
// module handles, lexical environments (Env), and the Interp type with the
// canonical entry points:
//
//   - Run / RunFile     — parse + evaluate, report failures, return success.
//   - EvalSource        — evaluate in the persistent Globals (REPL, tests).
//   - Apply             — invoke a callable Value from the host.
//   - RegisterNative    — install a host function into Core.
//
// SCOPING
// -------
// Code evaluates in environments (*Env) forming a lexical chain via parent.
// The interpreter exposes two well-known frames:
//   - Core:    built-ins and registered natives.
//   - Globals: user program state (persistent across EvalSource calls).
//
// `let`/`const` bind in the current frame only. Plain assignment mutates the
// nearest visible binding; assignment to a name with no visible binding
// creates one in the outermost frame, which keeps top-level dynamic
// assignment working at the price of typo-silence.
//
// FAILURES
// --------
// Evaluation failures are *RuntimeError values carrying a kind name
// (NameError, TypeError, ...), a message and a 1-based source position.
// `except` clauses match the kind name textually. Failures that escape the
// top level are rendered to the diagnostic sink with a caret snippet
// (errors.go) and surfaced as a false return from Run/RunFile.
package kentscript

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

////////////////////////////////////////////////////////////////////////////////
//                              VALUES
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull     ValueTag = iota // null (no payload)
	VTBool                     // bool
	VTInt                      // int64
	VTNum                      // float64
	VTStr                      // string
	VTList                     // *ListObject
	VTMap                      // *MapObject (ordered map)
	VTFun                      // *Fun (closure; native or user-defined)
	VTClass                    // *Class
	VTInstance                 // *Instance
	VTModule                   // *Module
	VTFuture                   // *Future (task pool handle)
)

// Value is the universal runtime carrier. Tag determines which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// String renders a short debug representation. FormatValue (printer.go)
// renders the user-facing form.
func (v Value) String() string {
	switch v.Tag {
	case VTNull:
		return "None"
	case VTBool:
		if v.Data.(bool) {
			return "True"
		}
		return "False"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTStr:
		return fmt.Sprintf("%q", v.Data.(string))
	case VTList:
		return fmt.Sprintf("<list len=%d>", len(v.Data.(*ListObject).Elems))
	case VTMap:
		return "<map>"
	case VTFun:
		return "<function>"
	case VTClass:
		return "<class " + v.Data.(*Class).Name + ">"
	case VTInstance:
		return "<" + v.Data.(*Instance).Class.Name + " instance>"
	case VTModule:
		return "<module " + v.Data.(*Module).Name + ">"
	case VTFuture:
		return "<future>"
	default:
		return "<unknown>"
	}
}

// TypeName reports the user-visible type tag used by type() and by advisory
// type checks.
func (v Value) TypeName() string {
	switch v.Tag {
	case VTNull:
		return "Null"
	case VTBool:
		return "Bool"
	case VTInt:
		return "Int"
	case VTNum:
		return "Num"
	case VTStr:
		return "Str"
	case VTList:
		return "List"
	case VTMap:
		return "Map"
	case VTFun:
		return "Function"
	case VTClass:
		return "Class"
	case VTInstance:
		return v.Data.(*Instance).Class.Name
	case VTModule:
		return "Module"
	case VTFuture:
		return "Future"
	default:
		return "Unknown"
	}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value   { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// ListObject is the mutable list payload. Lists share by reference, so
// in-place mutation (index assignment, append) is visible to every holder.
type ListObject struct {
	Elems []Value
}

// List wraps a slice of elements into a list Value.
func List(xs []Value) Value { return Value{Tag: VTList, Data: &ListObject{Elems: xs}} }

// MapObject is an ordered map: Keys records insertion order, Entries holds
// the storage. Order-sensitive operations must consult Keys.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

// NewMapObject creates an empty ordered map.
func NewMapObject() *MapObject {
	return &MapObject{Entries: map[string]Value{}}
}

// Set inserts or replaces a key, appending to Keys on first insertion.
func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

// Get returns the value for key and whether it exists.
func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// Delete removes a key, keeping Keys consistent.
func (m *MapObject) Delete(key string) {
	if _, ok := m.Entries[key]; !ok {
		return
	}
	delete(m.Entries, key)
	for i, k := range m.Keys {
		if k == key {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			break
		}
	}
}

// MapVal wraps a MapObject into a Value.
func MapVal(m *MapObject) Value { return Value{Tag: VTMap, Data: m} }

// NativeFn is the implementation signature for host/native functions.
// A returned *RuntimeError gets its source position filled at the call site.
type NativeFn func(ip *Interp, args []Value) (Value, error)

// Fun is a function/closure. Functions are first-class Values (VTFun).
// Exactly one of Body or Native is meaningful.
type Fun struct {
	Name      string
	Params    []Param
	ReturnTag string
	Body      []Stmt
	Env       *Env // closure environment captured at definition time
	Async     bool
	Native    NativeFn // non-nil for registered natives

	// Self is set on bound methods: the receiver is prepended as the
	// leading 'self' binding when the method is invoked.
	Self *Instance
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// NativeVal builds a native function Value.
func NativeVal(name string, impl NativeFn) Value {
	return FunVal(&Fun{Name: name, Native: impl})
}

// Class is a user-defined class: a name plus a method table. Instantiation
// happens by calling the class value; '__init__' runs when present.
type Class struct {
	Name    string
	Methods map[string]*Fun
}

// ClassVal wraps *Class into a Value.
func ClassVal(c *Class) Value { return Value{Tag: VTClass, Data: c} }

// Instance is an object: a class reference plus own attributes. Attribute
// lookup is own-attribute first, else bound method from the class, never
// further (no inheritance chain).
type Instance struct {
	Class *Class
	Attrs map[string]Value
}

// InstanceVal wraps *Instance into a Value.
func InstanceVal(in *Instance) Value { return Value{Tag: VTInstance, Data: in} }

// Module is a loaded module handle: a name and its exported bindings.
type Module struct {
	Name    string
	Exports *MapObject
}

// ModuleVal wraps *Module into a Value.
func ModuleVal(m *Module) Value { return Value{Tag: VTModule, Data: m} }

// FutureVal wraps *Future (pool.go) into a Value.
func FutureVal(f *Future) Value { return Value{Tag: VTFuture, Data: f} }

////////////////////////////////////////////////////////////////////////////////
//                              ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

type binding struct {
	value   Value
	isConst bool
}

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward. Frames are plain GC'd values: a frame lives as long as any
// closure or call that references it.
type Env struct {
	parent *Env
	table  map[string]binding
}

// NewEnv creates a new lexical frame with the given parent (may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]binding)}
}

// Define binds name in the current frame, shadowing any outer binding.
// Redefining a name that is const-bound in this frame fails.
func (e *Env) Define(name string, v Value, isConst bool) error {
	if b, ok := e.table[name]; ok && b.isConst {
		return fmt.Errorf("cannot redefine constant: %s", name)
	}
	e.table[name] = binding{value: v, isConst: isConst}
	return nil
}

// Get retrieves the nearest visible binding for name.
func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			return b.value, nil
		}
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}

// Set mutates the nearest visible binding of name, failing on const. When no
// binding exists anywhere, the binding is created in the outermost frame.
func (e *Env) Set(name string, v Value) error {
	root := e
	for env := e; env != nil; env = env.parent {
		if b, ok := env.table[name]; ok {
			if b.isConst {
				return fmt.Errorf("cannot modify constant: %s", name)
			}
			env.table[name] = binding{value: v}
			return nil
		}
		root = env
	}
	root.table[name] = binding{value: v}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                              RUNTIME ERRORS
////////////////////////////////////////////////////////////////////////////////

// Failure kind names, matched textually by 'except' clauses.
const (
	ErrName         = "NameError"
	ErrType         = "TypeError"
	ErrAttribute    = "AttributeError"
	ErrKey          = "KeyError"
	ErrIndex        = "IndexError"
	ErrValue        = "ValueError"
	ErrZeroDivision = "ZeroDivisionError"
	ErrRuntime      = "RuntimeError"
	ErrImport       = "ImportError"
	ErrAssertion    = "AssertionError"
	ErrTimeout      = "TimeoutError"
)

// RuntimeError is an execution-time failure: a kind name, a message and a
// 1-based source position. Catchable by try/except in user code.
type RuntimeError struct {
	Kind string
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
}

// Text renders the form bound by 'except ... as name'.
func (e *RuntimeError) Text() string {
	return e.Kind + ": " + e.Msg
}

func newError(kind string, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// errAtNode stamps a node's position onto a RuntimeError that lacks one.
func errAtNode(err error, n Node) error {
	re, ok := err.(*RuntimeError)
	if !ok {
		return err
	}
	if re.Line == 0 {
		re.Line, re.Col = n.Pos()
	}
	return re
}

////////////////////////////////////////////////////////////////////////////////
//                              INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// ModuleProvider supplies module export tables by name. The evaluator treats
// it as opaque and caches the resulting handle per (name, alias).
type ModuleProvider interface {
	Load(name string) (*Module, error)
}

// Interp evaluates KentScript programs.
//
// Public fields:
//   - Core:    built-in environment; parent of Globals.
//   - Globals: persistent program environment.
type Interp struct {
	Core    *Env
	Globals *Env

	stdout   io.Writer
	stderr   io.Writer
	provider ModuleProvider
	workers  int

	modules map[string]Value // (name, alias) → module handle, session cache
	pool    *TaskPool        // created on first 'thread', see ensurePool
}

// Option configures an Interp at construction time.
type Option func(*Interp)

// WithStdout redirects program output (print and friends).
func WithStdout(w io.Writer) Option { return func(ip *Interp) { ip.stdout = w } }

// WithStderr redirects the diagnostic sink used by Run/RunFile.
func WithStderr(w io.Writer) Option { return func(ip *Interp) { ip.stderr = w } }

// WithWorkers sets the task pool size used for 'thread' calls.
func WithWorkers(n int) Option { return func(ip *Interp) { ip.workers = n } }

// WithProvider replaces the default built-in module provider.
func WithProvider(p ModuleProvider) Option { return func(ip *Interp) { ip.provider = p } }

// New constructs a ready-to-use interpreter: Core is populated with the
// built-in globals, Globals is an empty child of Core.
func New(opts ...Option) *Interp {
	ip := &Interp{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		workers: defaultPoolWorkers,
		modules: map[string]Value{},
	}
	for _, opt := range opts {
		opt(ip)
	}
	ip.Core = NewEnv(nil)
	ip.Globals = NewEnv(ip.Core)
	if ip.provider == nil {
		ip.provider = newBuiltinProvider(ip)
	}
	registerCoreBuiltins(ip)
	return ip
}

// RegisterNative installs a host function into Core under name.
func (ip *Interp) RegisterNative(name string, impl NativeFn) {
	ip.Core.Define(name, NativeVal(name, impl), false)
}

// EvalSource parses and evaluates source in the persistent Globals and
// returns the value of the last statement (Null when the program is empty or
// ends in a non-expression statement).
func (ip *Interp) EvalSource(src string) (Value, error) {
	stmts, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.execProgram(stmts, ip.Globals)
}

// Run parses and evaluates source. Lexical, syntax and runtime failures are
// rendered to the diagnostic sink with a caret snippet; Run returns false on
// any failure.
func (ip *Interp) Run(src string) bool {
	if _, err := ip.EvalSource(src); err != nil {
		fmt.Fprintln(ip.stderr, prettyError(err, src))
		return false
	}
	return true
}

// RunFile reads and runs a script file. A missing or unreadable file is
// reported to the sink, not thrown.
func (ip *Interp) RunFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(ip.stderr, "cannot read %s: %v\n", path, err)
		return false
	}
	return ip.Run(string(data))
}

// Apply invokes a callable Value (function or class) with the given
// arguments from the host.
func (ip *Interp) Apply(fn Value, args []Value) (Value, error) {
	return ip.call(fn, args, nil)
}

// Shutdown stops the task pool, if one was started, and joins its workers.
func (ip *Interp) Shutdown() {
	if ip.pool != nil {
		ip.pool.Shutdown()
	}
}
