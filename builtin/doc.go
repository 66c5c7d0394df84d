// Package builtin is the engine's host module loader: the fixed set of
// Node-like modules ("fs", "http", "path", "process", "console", "kv",
// "time") that a bare import specifier resolves to once resolve.Resolve
// reports it as a built-in rather than a file on disk.
//
// # Overview
//
// Built-ins never enter a namespace's bindings or exports. Each evaluation
// asks the Loader afresh, so two fragments importing "kv" in different
// namespaces talk to the same live store. The Node-flavored globals
// (require, console, process) come from goja_nodejs and are installed by
// [Loader.Attach]; the remaining modules are built per runtime by
// [Loader.Load].
//
// Custom host modules register on the loader directly:
//
//	loader := builtin.NewLoader(builtin.Config{})
//	loader.Register("env", func(rt *goja.Runtime) goja.Value {
//	    obj := rt.NewObject()
//	    obj.Set("get", func(call goja.FunctionCall) goja.Value {
//	        return rt.ToValue(os.Getenv(call.Arguments[0].String()))
//	    })
//	    return obj
//	})
//
// # Capability limits
//
// Hostile-code sandboxing is out of scope: the engine trusts the developer
// running their own fragments. The capability limits still exist because a
// pasted fragment can reach the wrong host or file by accident:
//   - HTTP requests are limited to explicitly allowed hosts, with size
//     limits on URLs and bodies.
//   - Filesystem access goes through mount points with per-mount
//     read/write/create permissions.
package builtin
