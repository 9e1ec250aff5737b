// modules.go — module loading and the built-in module provider.
//
// 'import "name"' asks the interpreter's ModuleProvider for an export table
// and binds the resulting handle. Handles are cached on the interpreter per
// (name, alias) pair, so repeated imports in one session observe the same
// module object.
package kentscript

// importModule loads a module through the provider, consulting the session
// cache first.
func (ip *Interp) importModule(name, alias string) (Value, error) {
	key := name + "\x00" + alias
	if v, ok := ip.modules[key]; ok {
		return v, nil
	}
	mod, err := ip.provider.Load(name)
	if err != nil {
		return Null, err
	}
	v := ModuleVal(mod)
	ip.modules[key] = v
	return v, nil
}

// builtinProvider serves the fixed native module tables. Each table lives in
// its builtin_*.go file; aliases ("network" for "http", "io" for "file")
// resolve to the same constructor.
type builtinProvider struct {
	ip      *Interp
	loaders map[string]func(ip *Interp) *Module
}

func newBuiltinProvider(ip *Interp) *builtinProvider {
	return &builtinProvider{
		ip: ip,
		loaders: map[string]func(*Interp) *Module{
			"math":     mathModule,
			"json":     jsonModule,
			"time":     timeModule,
			"datetime": datetimeModule,
			"crypto":   cryptoModule,
			"regex":    regexModule,
			"os":       osModule,
			"csv":      csvModule,
			"http":     httpModule,
			"network":  httpModule,
			"file":     fileModule,
			"io":       fileModule,
		},
	}
}

// Load builds the module table for name.
func (p *builtinProvider) Load(name string) (*Module, error) {
	loader, ok := p.loaders[name]
	if !ok {
		return nil, newError(ErrImport, "unknown module: %s", name)
	}
	return loader(p.ip), nil
}

// moduleBuilder assembles an export table in declaration order.
type moduleBuilder struct {
	mod *Module
}

func buildModule(name string) *moduleBuilder {
	return &moduleBuilder{mod: &Module{Name: name, Exports: NewMapObject()}}
}

func (b *moduleBuilder) fn(name string, impl NativeFn) *moduleBuilder {
	b.mod.Exports.Set(name, NativeVal(name, impl))
	return b
}

func (b *moduleBuilder) val(name string, v Value) *moduleBuilder {
	b.mod.Exports.Set(name, v)
	return b
}

func (b *moduleBuilder) done() *Module { return b.mod }
