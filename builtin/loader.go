package builtin

import (
	"context"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/process"
	"github.com/dop251/goja_nodejs/require"
)

// ModuleFunc builds a host module object bound to rt. Registered custom
// modules are consulted for any specifier the fixed set does not cover.
type ModuleFunc func(rt *goja.Runtime) goja.Value

// Loader resolves a built-in specifier to a goja value at scope-synthesis
// time, on every call. Built-ins never participate in a namespace's
// bindings or exports; each evaluation asks the loader afresh.
type Loader struct {
	reg    *require.Registry
	fs     *FS
	http   *HTTP
	kv     *KVStore
	argv   []string
	env    map[string]string
	custom map[string]ModuleFunc
}

// Config configures which capabilities a Loader exposes. Leaving Mounts or
// AllowedHosts empty disables fs or http: "require('fs')" still resolves,
// since a built-in is always known, but every operation on it fails at call
// time. Leaving Argv or Env nil keeps goja_nodejs's own process.argv or
// process.env.
type Config struct {
	Mounts       []Mount
	AllowedHosts []string
	Argv         []string
	Env          map[string]string
}

// NewLoader builds a Loader from cfg.
func NewLoader(cfg Config) *Loader {
	return &Loader{
		reg:    require.NewRegistry(),
		fs:     NewFS(cfg.Mounts...),
		http:   NewHTTP(HTTPConfig{AllowedHosts: cfg.AllowedHosts}),
		kv:     NewKVStore(),
		argv:   cfg.Argv,
		env:    cfg.Env,
		custom: make(map[string]ModuleFunc),
	}
}

// Register adds a custom host module under name, e.g. a test double or an
// editor-specific capability. Custom modules shadow nothing: the fixed set
// is checked first.
func (l *Loader) Register(name string, fn ModuleFunc) {
	l.custom[name] = fn
}

// Attach enables the Node-flavored globals (require, console, process) on
// rt and applies any configured argv/env overrides to the process object.
func (l *Loader) Attach(rt *goja.Runtime) {
	l.reg.Enable(rt)
	console.Enable(rt)
	process.Enable(rt)

	if l.argv == nil && l.env == nil {
		return
	}
	proc := rt.GlobalObject().Get("process")
	if proc == nil {
		return
	}
	obj := proc.ToObject(rt)
	if l.argv != nil {
		_ = obj.Set("argv", l.argv)
	}
	if l.env != nil {
		_ = obj.Set("env", l.env)
	}
}

// knownBuiltins is the fixed set of specifiers the loader recognizes.
var knownBuiltins = map[string]bool{
	"fs": true, "http": true, "path": true,
	"process": true, "console": true, "kv": true, "time": true,
}

// IsKnown reports whether specifier names one of the fixed built-ins.
func IsKnown(specifier string) bool {
	return knownBuiltins[specifier]
}

// Load materializes specifier as a goja value bound to rt. ok is false for
// an unrecognized specifier, which a static import surfaces as an empty
// module object and require as undefined, rather than an error.
func (l *Loader) Load(rt *goja.Runtime, specifier string) (value goja.Value, ok bool) {
	switch specifier {
	case "console", "process":
		// Attach already installed these as globals; importing the module
		// hands back the same object.
		if v := rt.GlobalObject().Get(specifier); v != nil {
			return v, true
		}
		return goja.Undefined(), true
	case "path":
		return l.pathModule(rt), true
	case "fs":
		return l.fsModule(rt), true
	case "http":
		return l.httpModule(rt), true
	case "kv":
		return l.kvModule(rt), true
	case "time":
		return l.timeModule(rt), true
	default:
		if fn, found := l.custom[specifier]; found {
			return fn(rt), true
		}
		return goja.Undefined(), false
	}
}

func throw(rt *goja.Runtime, err error) {
	panic(rt.NewGoError(err))
}

func (l *Loader) fsModule(rt *goja.Runtime) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("readFileSync", func(call goja.FunctionCall) goja.Value {
		content, err := l.fs.ReadFile(argString(call, 0))
		if err != nil {
			throw(rt, err)
		}
		return rt.ToValue(content)
	})
	_ = obj.Set("writeFileSync", func(call goja.FunctionCall) goja.Value {
		if err := l.fs.WriteFile(argString(call, 0), argString(call, 1)); err != nil {
			throw(rt, err)
		}
		return goja.Undefined()
	})
	_ = obj.Set("readdirSync", func(call goja.FunctionCall) goja.Value {
		entries, err := l.fs.ReadDir(argString(call, 0))
		if err != nil {
			throw(rt, err)
		}
		return rt.ToValue(entries)
	})
	_ = obj.Set("existsSync", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(l.fs.Exists(argString(call, 0)))
	})
	_ = obj.Set("mkdirSync", func(call goja.FunctionCall) goja.Value {
		if err := l.fs.Mkdir(argString(call, 0)); err != nil {
			throw(rt, err)
		}
		return goja.Undefined()
	})
	_ = obj.Set("unlinkSync", func(call goja.FunctionCall) goja.Value {
		if err := l.fs.Remove(argString(call, 0)); err != nil {
			throw(rt, err)
		}
		return goja.Undefined()
	})
	_ = obj.Set("statSync", func(call goja.FunctionCall) goja.Value {
		info, err := l.fs.Stat(argString(call, 0))
		if err != nil {
			throw(rt, err)
		}
		return rt.ToValue(info)
	})
	return obj
}

func (l *Loader) httpModule(rt *goja.Runtime) goja.Value {
	obj := rt.NewObject()
	ctx := context.Background()

	_ = obj.Set("get", func(call goja.FunctionCall) goja.Value {
		resp, err := l.http.Get(ctx, argString(call, 0))
		if err != nil {
			throw(rt, err)
		}
		return rt.ToValue(resp)
	})
	_ = obj.Set("request", func(call goja.FunctionCall) goja.Value {
		var method, rawURL, body string
		headers := map[string]string{}
		if len(call.Arguments) > 0 {
			if opts, isObj := call.Arguments[0].Export().(map[string]any); isObj {
				method, _ = opts["method"].(string)
				rawURL, _ = opts["url"].(string)
				body, _ = opts["body"].(string)
				if hs, hok := opts["headers"].(map[string]any); hok {
					for k, v := range hs {
						if vs, sok := v.(string); sok {
							headers[k] = vs
						}
					}
				}
			} else {
				rawURL = call.Arguments[0].String()
			}
		}
		if method == "" {
			method = "GET"
		}
		resp, err := l.http.Do(ctx, method, rawURL, headers, body)
		if err != nil {
			throw(rt, err)
		}
		return rt.ToValue(resp)
	})
	return obj
}

func (l *Loader) kvModule(rt *goja.Runtime) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("get", func(call goja.FunctionCall) goja.Value {
		val, ok := l.kv.Get(argString(call, 0))
		if !ok {
			return goja.Undefined()
		}
		return rt.ToValue(val)
	})
	_ = obj.Set("set", func(call goja.FunctionCall) goja.Value {
		var val any
		if len(call.Arguments) > 1 {
			val = call.Arguments[1].Export()
		}
		l.kv.Set(argString(call, 0), val)
		return goja.Undefined()
	})
	_ = obj.Set("delete", func(call goja.FunctionCall) goja.Value {
		l.kv.Delete(argString(call, 0))
		return goja.Undefined()
	})
	_ = obj.Set("keys", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(l.kv.Keys())
	})
	return obj
}

func (l *Loader) timeModule(rt *goja.Runtime) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("now", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(nowSeconds())
	})
	return obj
}

func (l *Loader) pathModule(rt *goja.Runtime) goja.Value {
	obj := rt.NewObject()
	_ = obj.Set("join", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(pathJoin(argStrings(call)))
	})
	_ = obj.Set("dirname", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(pathDirname(argString(call, 0)))
	})
	_ = obj.Set("basename", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(pathBasename(argString(call, 0)))
	})
	_ = obj.Set("extname", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(pathExtname(argString(call, 0)))
	})
	_ = obj.Set("resolve", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(pathResolve(argStrings(call)))
	})
	return obj
}

func argString(call goja.FunctionCall, i int) string {
	if i >= len(call.Arguments) {
		return ""
	}
	return call.Arguments[i].String()
}

func argStrings(call goja.FunctionCall) []string {
	parts := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		parts[i] = a.String()
	}
	return parts
}
