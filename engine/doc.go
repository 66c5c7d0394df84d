// Package engine drives the namespace store, source rewriter and scope
// synthesizer together through one Evaluate call, including recursive
// evaluation of imported user modules with cycle detection, and reports
// the final value back to the caller.
//
// The "session" here is the namespace store, not a process: every Evaluate
// call gets a fresh goja.Runtime, and persistence lives entirely in
// Engine.Store().
package engine
