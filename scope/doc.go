// Package scope materializes the goja globals that rewritten code runs
// against for a given namespace: CommonJS stubs, resolved imports, the
// namespace's own prior bindings, and host globals. Precedence is CJS
// stubs over imports over bindings over host globals.
//
// A fresh goja.Runtime is synthesized for every evaluate call, so layering
// is just repeated global Set calls: each layer is applied after the
// lower-precedence one, and a later Set silently wins name collisions.
package scope
