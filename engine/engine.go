package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dop251/goja"

	"github.com/inlayhq/inlay/builtin"
	"github.com/inlayhq/inlay/namespace"
	"github.com/inlayhq/inlay/resolve"
	"github.com/inlayhq/inlay/rewrite"
	"github.com/inlayhq/inlay/scope"
)

// Engine is the process-wide evaluator: one long-lived value holding
// configuration plus all namespace state, with Evaluate doing the real
// work per call.
type Engine struct {
	mu       sync.Mutex
	store    *namespace.Store
	loader   *builtin.Loader
	resolver func(ns, specifier string) (resolve.Result, error)
	stderr   io.Writer
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLoader sets the host module loader backing built-in imports.
func WithLoader(l *builtin.Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithResolver overrides the module path resolver (tests substitute a
// stub; production code leaves this unset and gets resolve.Resolve).
func WithResolver(fn func(ns, specifier string) (resolve.Result, error)) Option {
	return func(e *Engine) { e.resolver = fn }
}

// WithStderr overrides where runtime-error diagnostics and debug dumps
// are written.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.stderr = w }
}

// New builds an Engine with a fresh, empty namespace store.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:    namespace.NewStore(),
		resolver: resolve.Resolve,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loader == nil {
		e.loader = builtin.NewLoader(builtin.Config{})
	}
	return e
}

// Store exposes the underlying namespace store for inspection (the HTTP
// server's /namespaces endpoint lists it).
func (e *Engine) Store() *namespace.Store { return e.store }

// Reset clears every namespace.
func (e *Engine) Reset() { e.store.Reset() }

// ResetNamespace clears a single namespace.
func (e *Engine) ResetNamespace(ns string) { e.store.ResetNamespace(ns) }

// Evaluate runs one fragment against ns's persistent namespace and returns
// the value of its trailing expression, if any. Concurrent calls are
// serialized by e.mu.
func (e *Engine) Evaluate(ns, code string, evalImports, debug bool) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.evaluateLocked(ns, code, evalImports, debug)
}

func (e *Engine) evaluateLocked(ns, code string, evalImports, debug bool) (any, error) {
	// Step 1: mark before anything else, so a cycle reached through
	// recursive import evaluation sees this namespace as already present.
	e.store.Mark(ns)

	onUserImport := func(target string) error {
		src, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading imported module %s: %w", target, err)
		}
		_, err = e.evaluateLocked(target, string(src), evalImports, debug)
		return err
	}

	// Step 2-3: rewrite, registering imports (and recursively evaluating
	// them) synchronously as they are encountered.
	result, err := rewrite.Rewrite(ns, code, rewrite.Options{
		Store:        e.store,
		Resolver:     e.resolver,
		EvalImports:  evalImports,
		OnUserImport: onUserImport,
	})
	if err != nil {
		return nil, err
	}

	if debug {
		fmt.Fprintf(e.stderr, "[inlay debug] rewritten source for %s:\n%s\n", ns, result.Source)
	}

	// Step 4: synthesize scope against a fresh runtime.
	rt := goja.New()
	mod, err := scope.Synthesize(rt, scope.Config{
		Namespace:    ns,
		Store:        e.store,
		Loader:       e.loader,
		Resolver:     e.resolver,
		EvalImports:  evalImports,
		OnUserImport: onUserImport,
	})
	if err != nil {
		return nil, err
	}

	if debug {
		fmt.Fprintf(e.stderr, "[inlay debug] scope keys for %s: %v\n", ns, rt.GlobalObject().Keys())
	}

	// Step 5: execute.
	program, err := goja.Compile(ns, result.Source, true)
	if err != nil {
		return nil, &rewrite.ParseError{Namespace: ns, Reason: err.Error()}
	}

	_, runErr := rt.RunProgram(program)
	if runErr != nil {
		if cause := fatalCause(runErr); cause != nil {
			return nil, cause
		}
		// A user-thrown runtime error is caught here and logged; the call
		// still returns undefined rather than losing the session.
		fmt.Fprintf(e.stderr, "[inlay] runtime error in %s: %v\n", ns, runErr)
		scope.Finalize(rt, ns, e.store, mod)
		return nil, nil
	}

	scope.Finalize(rt, ns, e.store, mod)
	return rt.GlobalObject().Get("__replResult").Export(), nil
}

// fatalCause unwraps a goja.Exception looking for an underlying Go error
// raised via rt.NewGoError (the __putExport / __putDefaultExport / require
// panics). Those propagate to the caller as engine errors, as opposed to
// an ordinary user-thrown JS value, which is recovered instead.
func fatalCause(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return nil
	}
	// rt.NewGoError builds a JS error object carrying the Go error in its
	// "value" property.
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		return nil
	}
	if v := obj.Get("value"); v != nil {
		if goErr, ok := v.Export().(error); ok {
			return goErr
		}
	}
	return nil
}
