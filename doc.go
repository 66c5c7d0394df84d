// Package inlay is an interactive evaluator for JavaScript/TypeScript
// source fragments, in the style of a Lisp-like REPL bound to an editor:
// a fragment is evaluated against a persistent per-file namespace, so
// bindings, exports and imports defined by earlier evaluations stay
// visible to later ones in the same file.
//
// # Overview
//
// The [engine] package is the library entry point. It drives the
// [rewrite] package (source-to-source transformation that reifies
// top-level bindings, exports and imports), the [namespace] package (the
// process-wide store those registrations mutate), the [scope] package
// (the synthesized per-call execution environment), and the [resolve]
// package (import specifier resolution) against a [github.com/dop251/goja]
// runtime.
//
// # Basic Usage
//
//	e := engine.New()
//	result, err := e.Evaluate("/tmp/a.js", "const x = 10; x * 2", false, false)
//	// result == int64(20)
//
// # Imports
//
// Pass evalImports=true to have the engine recursively evaluate a
// user-module import's target file before resolving its exports:
//
//	e.Evaluate("/m/app.js", `import { greet } from './lib'; greet('x')`, true, false)
//
// # CLI and server
//
// See [cmd/inlay] for the `eval`/`repl`/`serve` front ends, and [builtin]
// for the host module loader backing `require`/`import` of built-ins like
// `fs`, `http`, `path` and `kv`.
package inlay
