// Package rewrite turns a source fragment into an imperative script with
// no import/export syntax, registering every top-level binding, export and
// import into a namespace.Store as it goes.
//
// # Approach
//
// Import/export syntax is detected with a brace/string/comment-aware
// top-level statement scanner rather than a full ECMAScript-module AST.
// This is the same lightweight-lexer approach Node's own cjs-module-lexer
// uses to detect named exports without building a full parse tree: the
// only information needed is "what does this specific top-level statement
// shape look like", not a general-purpose AST.
//
// Everything that remains after import/export statements are stripped is
// ordinary script syntax: variable/function/class declarations and
// expressions, which goja's parser (github.com/dop251/goja) handles
// directly. The engine package compiles and runs the rewritten text with
// goja.Compile/Runtime.RunProgram.
package rewrite
