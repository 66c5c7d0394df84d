package builtin

import (
	"strings"
	"testing"

	"github.com/dop251/goja"
)

func TestLoaderKnownBuiltins(t *testing.T) {
	for _, name := range []string{"fs", "http", "path", "process", "console", "kv", "time"} {
		if !IsKnown(name) {
			t.Errorf("expected %q to be a known built-in", name)
		}
	}
	if IsKnown("left-pad") {
		t.Error("did not expect an arbitrary npm package name to be known")
	}
}

func TestLoaderLoadUnknownReportsNotOK(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	_, ok := l.Load(rt, "left-pad")
	if ok {
		t.Error("expected unknown specifier to report ok=false")
	}
}

func TestLoaderPathModule(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	mod, ok := l.Load(rt, "path")
	if !ok {
		t.Fatal("expected path module to load")
	}
	if err := rt.Set("p", mod); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := rt.RunString(`p.join('a', 'b', 'c')`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "a/b/c" {
		t.Errorf("expected 'a/b/c', got %q", v.String())
	}
}

func TestLoaderTimeModule(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	mod, ok := l.Load(rt, "time")
	if !ok {
		t.Fatal("expected time module to load")
	}
	if err := rt.Set("t", mod); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := rt.RunString(`t.now() > 0`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("expected time.now() to return a positive number")
	}
}

func TestLoaderAttachInstallsConsoleAndProcess(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{Argv: []string{"inlay", "script.js"}})
	l.Attach(rt)

	v, err := rt.RunString(`typeof console.log`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "function" {
		t.Errorf("expected console.log to be a function, got %q", v.String())
	}

	v, err = rt.RunString(`process.argv[1]`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "script.js" {
		t.Errorf("expected argv override to apply, got %q", v.String())
	}
}

func TestLoaderAttachEnvOverride(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{Env: map[string]string{"MODE": "test"}})
	l.Attach(rt)

	v, err := rt.RunString(`process.env.MODE`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "test" {
		t.Errorf("expected env override to apply, got %q", v.String())
	}
}

func TestLoaderConsoleModuleIsGlobalConsole(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	l.Attach(rt)

	mod, ok := l.Load(rt, "console")
	if !ok {
		t.Fatal("expected console module to load")
	}
	if mod != rt.GlobalObject().Get("console") {
		t.Error("expected imported console to be the attached global")
	}
}

func TestLoaderCustomModule(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	l.Register("greeter", func(rt *goja.Runtime) goja.Value {
		obj := rt.NewObject()
		obj.Set("hello", func(call goja.FunctionCall) goja.Value {
			return rt.ToValue("hello " + call.Arguments[0].String())
		})
		return obj
	})

	mod, ok := l.Load(rt, "greeter")
	if !ok {
		t.Fatal("expected custom module to load")
	}
	if err := rt.Set("g", mod); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := rt.RunString(`g.hello('world')`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.String() != "hello world" {
		t.Errorf("expected 'hello world', got %q", v.String())
	}
}

func TestLoaderKVModuleRoundTrip(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	mod, ok := l.Load(rt, "kv")
	if !ok {
		t.Fatal("expected kv module to load")
	}
	if err := rt.Set("kv", mod); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := rt.RunString(`kv.set('answer', 42)`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := rt.RunString(`kv.get('answer')`)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v.ToInteger() != 42 {
		t.Errorf("expected 42, got %v", v)
	}
	v, err = rt.RunString(`kv.get('missing') === undefined`)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("expected missing key to be undefined")
	}
}

func TestLoaderFSModuleThrowsOutsideMounts(t *testing.T) {
	rt := goja.New()
	l := NewLoader(Config{})
	mod, ok := l.Load(rt, "fs")
	if !ok {
		t.Fatal("expected fs module to load")
	}
	if err := rt.Set("fs", mod); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, err := rt.RunString(`fs.readFileSync('/etc/passwd')`)
	if err == nil {
		t.Fatal("expected read outside mounts to throw")
	}
	if !strings.Contains(err.Error(), "EACCES") {
		t.Errorf("expected EACCES error, got %v", err)
	}
}
