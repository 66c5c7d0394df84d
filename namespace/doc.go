// Package namespace implements the evaluation engine's sole mutable state:
// a process-wide registry of namespaces (absolute, canonical file paths)
// each holding the bindings, exports and imports that accumulate across
// repeated evaluations of that file.
//
// A Store is the only place state is kept between calls to engine.Evaluate.
// Everything else in the engine is re-derived on every call.
package namespace
