package scope

import (
	"path/filepath"

	"github.com/dop251/goja"

	"github.com/inlayhq/inlay/builtin"
	"github.com/inlayhq/inlay/namespace"
	"github.com/inlayhq/inlay/resolve"
)

// Config is everything Synthesize needs to materialize one namespace's
// environment for one evaluate call.
type Config struct {
	Namespace string
	Store     *namespace.Store
	Loader    *builtin.Loader

	// Resolver resolves a bare/relative specifier as require() sees it.
	// Defaults to resolve.Resolve when nil.
	Resolver func(ns, specifier string) (resolve.Result, error)

	// EvalImports and OnUserImport mirror rewrite.Options: require() of an
	// unevaluated user module triggers recursive evaluation the same way a
	// static import does.
	EvalImports  bool
	OnUserImport func(target string) error
}

// Module is the live `module` object handed back so the evaluator can read
// its final `exports` value after running the body. The exports aliasing is
// resolved as a post-hoc read rather than a live proxy, see Finalize.
type Module struct {
	Object         *goja.Object
	InitialExports *goja.Object
}

// Synthesize sets every global the rewritten body can observe on rt, in
// ascending precedence order (host globals, then this namespace's own
// bindings, then resolved imports, then the CJS stubs), and returns the
// `module` object for Finalize to inspect afterward.
func Synthesize(rt *goja.Runtime, cfg Config) (*Module, error) {
	if cfg.Resolver == nil {
		cfg.Resolver = resolve.Resolve
	}

	layerHostGlobals(rt, cfg)
	layerBindings(rt, cfg)
	if err := layerImports(rt, cfg); err != nil {
		return nil, err
	}
	return layerCJSStubs(rt, cfg), nil
}

// layerHostGlobals is layer 4: require/console/process installed as bare
// globals, the way Node exposes them without an explicit require() call.
// The CJS stub layer later replaces require with the namespace-aware one.
func layerHostGlobals(rt *goja.Runtime, cfg Config) {
	if cfg.Loader == nil {
		return
	}
	cfg.Loader.Attach(rt)
}

// layerBindings is layer 3: every binding this namespace has accumulated
// across prior evaluate calls.
func layerBindings(rt *goja.Runtime, cfg Config) {
	snap := cfg.Store.Snapshot(cfg.Namespace)
	for local, binding := range snap.Bindings {
		_ = rt.Set(local, rt.ToValue(binding.Value))
	}
}

// layerImports is layer 2: every import this namespace's rewrite pass has
// registered, resolved to a concrete value at scope-synthesis time for the
// current call.
func layerImports(rt *goja.Runtime, cfg Config) error {
	snap := cfg.Store.Snapshot(cfg.Namespace)
	for local, imp := range snap.Imports {
		value, err := resolveImportValue(rt, cfg, imp)
		if err != nil {
			return err
		}
		_ = rt.Set(local, value)
	}
	return nil
}

func resolveImportValue(rt *goja.Runtime, cfg Config, imp namespace.Import) (goja.Value, error) {
	if imp.IsBuiltIn {
		mod, ok := cfg.Loader.Load(rt, imp.ImportedNamespace)
		if !ok {
			// An unknown built-in imports as an empty module object.
			mod = rt.NewObject()
		}
		if imp.Imported.IsNamed() {
			obj, ok := mod.(*goja.Object)
			if !ok {
				return goja.Undefined(), nil
			}
			return obj.Get(imp.Imported.String()), nil
		}
		return mod, nil
	}

	target := imp.ImportedNamespace
	if cfg.EvalImports && cfg.OnUserImport != nil && !cfg.Store.HasBeenEvaluated(target) {
		if err := cfg.OnUserImport(target); err != nil {
			return nil, err
		}
	}

	if imp.Imported == namespace.NamespaceExport {
		return materializeNamespaceObject(rt, cfg.Store, target), nil
	}

	value, ok := cfg.Store.Resolve(target, imp.Imported)
	if !ok {
		return goja.Undefined(), nil
	}
	return rt.ToValue(value), nil
}

// materializeNamespaceObject builds the "import * as X" object: one own
// property per export of target, snapshotted at the moment of the call
// rather than kept live.
func materializeNamespaceObject(rt *goja.Runtime, store *namespace.Store, target string) *goja.Object {
	snap := store.Snapshot(target)
	obj := rt.NewObject()
	for exported, exp := range snap.Exports {
		binding, ok := snap.Bindings[exp.Local]
		if !ok {
			continue
		}
		name := exported.String()
		if exported == namespace.DefaultExport {
			name = "default"
		}
		_ = obj.Set(name, rt.ToValue(binding.Value))
	}
	return obj
}

// layerCJSStubs is layer 1, the highest-precedence layer: module, exports,
// require, __filename, __dirname, plus the registration helpers the
// rewriter's injected calls invoke.
func layerCJSStubs(rt *goja.Runtime, cfg Config) *Module {
	initialExports := rt.NewObject()
	moduleObj := rt.NewObject()
	_ = moduleObj.Set("exports", initialExports)
	_ = moduleObj.Set("id", cfg.Namespace)

	_ = rt.Set("module", moduleObj)
	_ = rt.Set("exports", initialExports)
	_ = rt.Set("__filename", cfg.Namespace)
	_ = rt.Set("__dirname", filepath.Dir(cfg.Namespace))
	_ = rt.Set("__replResult", goja.Undefined())

	_ = rt.Set("require", func(specifier string) goja.Value {
		res, err := cfg.Resolver(cfg.Namespace, specifier)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		if res.Kind == resolve.BuiltIn {
			if cfg.Loader == nil {
				return goja.Undefined()
			}
			v, ok := cfg.Loader.Load(rt, res.ID)
			if !ok {
				return goja.Undefined()
			}
			return v
		}
		if cfg.EvalImports && cfg.OnUserImport != nil && !cfg.Store.HasBeenEvaluated(res.Path) {
			if err := cfg.OnUserImport(res.Path); err != nil {
				panic(rt.NewGoError(err))
			}
		}
		value, ok := cfg.Store.Resolve(res.Path, namespace.DefaultExport)
		if !ok {
			return goja.Undefined()
		}
		return rt.ToValue(value)
	})

	registerBindingHelpers(rt, cfg)
	registerDynamicImport(rt, cfg)

	return &Module{Object: moduleObj, InitialExports: initialExports}
}

// registerDynamicImport wires __dynamicImport, the runtime helper the
// rewriter points every import(expr) call expression at. Resolution and
// any recursive evaluation it triggers run synchronously; only the promise
// wrapper around the already-known result is async-flavored, matching what
// a fragment chaining .then() on import(...) expects from real ESM. goja
// drains the promise's reactions when the program unwinds.
func registerDynamicImport(rt *goja.Runtime, cfg Config) {
	_ = rt.Set("__dynamicImport", func(specifier string) *goja.Promise {
		promise, resolveP, rejectP := rt.NewPromise()

		res, err := cfg.Resolver(cfg.Namespace, specifier)
		if err != nil {
			rejectP(err.Error())
			return promise
		}

		if res.Kind == resolve.BuiltIn {
			if cfg.Loader == nil {
				resolveP(goja.Undefined())
				return promise
			}
			v, ok := cfg.Loader.Load(rt, res.ID)
			if !ok {
				resolveP(goja.Undefined())
				return promise
			}
			resolveP(v)
			return promise
		}

		if cfg.EvalImports && cfg.OnUserImport != nil && !cfg.Store.HasBeenEvaluated(res.Path) {
			if err := cfg.OnUserImport(res.Path); err != nil {
				rejectP(err.Error())
				return promise
			}
		}
		resolveP(materializeNamespaceObject(rt, cfg.Store, res.Path))
		return promise
	})
}

// registerBindingHelpers wires the __putBinding/__putExport/__putDefaultExport
// globals the rewrite package's injected source text calls. A language with
// a reflective scope proxy would need no such helpers; a rewrite pass that
// only splices source text does.
func registerBindingHelpers(rt *goja.Runtime, cfg Config) {
	ns := cfg.Namespace
	store := cfg.Store

	_ = rt.Set("__putBinding", func(name string, value goja.Value) {
		store.PutBinding(ns, name, value.Export())
	})
	_ = rt.Set("__putExport", func(local, exported string) {
		if err := store.PutExport(ns, local, namespace.Named(exported)); err != nil {
			panic(rt.NewGoError(err))
		}
	})
	_ = rt.Set("__putDefaultExport", func(local string) {
		if err := store.PutDefaultExport(ns, local); err != nil {
			panic(rt.NewGoError(err))
		}
	})
}

// Finalize inspects module.exports after the rewritten body has run and
// registers it as the namespace's default export if the user ever touched
// it, either by reassigning module.exports wholesale or by mutating the
// object exports/module.exports started out aliased to. If neither
// happened, InitialExports is untouched and unreferenced, and no default
// export is registered, matching "if user code does nothing, the default
// export stays absent" lazy semantics.
func Finalize(rt *goja.Runtime, ns string, store *namespace.Store, mod *Module) {
	current := mod.Object.Get("exports")
	currentObj, ok := current.(*goja.Object)
	if !ok {
		registerSyntheticDefault(store, ns, current.Export())
		return
	}
	if currentObj.SameAs(mod.InitialExports) && len(currentObj.Keys()) == 0 {
		return
	}
	registerSyntheticDefault(store, ns, currentObj.Export())
}

func registerSyntheticDefault(store *namespace.Store, ns string, value any) {
	id := "__moduleExports"
	store.PutBinding(ns, id, value)
	_ = store.PutDefaultExport(ns, id)
}
