package scope

import (
	"testing"

	"github.com/dop251/goja"

	"github.com/inlayhq/inlay/builtin"
	"github.com/inlayhq/inlay/namespace"
	"github.com/inlayhq/inlay/resolve"
)

func TestSynthesizeExposesPriorBindings(t *testing.T) {
	store := namespace.NewStore()
	store.PutBinding("/tmp/a.js", "x", int64(10))

	rt := goja.New()
	_, err := Synthesize(rt, Config{Namespace: "/tmp/a.js", Store: store, Loader: builtin.NewLoader(builtin.Config{})})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	v, err := rt.RunString("x")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.ToInteger() != 10 {
		t.Errorf("expected x=10, got %v", v)
	}
}

func TestFinalizeRegistersModuleExportsReassignment(t *testing.T) {
	store := namespace.NewStore()
	rt := goja.New()
	mod, err := Synthesize(rt, Config{Namespace: "/m/c.js", Store: store, Loader: builtin.NewLoader(builtin.Config{})})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if _, err := rt.RunString("module.exports = 99;"); err != nil {
		t.Fatalf("run: %v", err)
	}
	Finalize(rt, "/m/c.js", store, mod)

	value, ok := store.Resolve("/m/c.js", namespace.DefaultExport)
	if !ok {
		t.Fatal("expected a default export to be registered")
	}
	if value != int64(99) {
		t.Errorf("expected 99, got %v (%T)", value, value)
	}
}

func TestFinalizeLeavesUntouchedExportsUnregistered(t *testing.T) {
	store := namespace.NewStore()
	rt := goja.New()
	mod, err := Synthesize(rt, Config{Namespace: "/m/c.js", Store: store, Loader: builtin.NewLoader(builtin.Config{})})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if _, err := rt.RunString("1 + 1;"); err != nil {
		t.Fatalf("run: %v", err)
	}
	Finalize(rt, "/m/c.js", store, mod)

	if _, ok := store.Resolve("/m/c.js", namespace.DefaultExport); ok {
		t.Error("did not expect a default export when module.exports was never touched")
	}
}

func TestRequireBuiltinNeverCreatesNamespace(t *testing.T) {
	store := namespace.NewStore()
	rt := goja.New()
	resolver := func(ns, specifier string) (resolve.Result, error) {
		return resolve.Result{Kind: resolve.BuiltIn, ID: specifier}, nil
	}
	_, err := Synthesize(rt, Config{
		Namespace: "/m/app.js",
		Store:     store,
		Loader:    builtin.NewLoader(builtin.Config{}),
		Resolver:  resolver,
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if _, err := rt.RunString(`require('fs')`); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, ns := range store.Namespaces() {
		if ns == "fs" {
			t.Fatal("require of a built-in must never create a namespace entry")
		}
	}
}
