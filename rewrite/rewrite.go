package rewrite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/inlayhq/inlay/namespace"
	"github.com/inlayhq/inlay/resolve"
)

// Options supplies a Rewrite call with everything it needs to register
// imports as it encounters them. Import registration happens synchronously,
// during the rewrite, not as injected runtime code.
type Options struct {
	Store *namespace.Store

	// Resolver resolves one specifier as imported from ns. Defaults to
	// resolve.Resolve when nil (tests substitute a stub here).
	Resolver func(ns, specifier string) (resolve.Result, error)

	// EvalImports, when true, makes an unevaluated user import target
	// trigger OnUserImport.
	EvalImports bool

	// OnUserImport is invoked once per unevaluated user-module import
	// target, with its resolved absolute path. Left nil, imports are
	// recorded but never recursively evaluated (evalImports=false).
	OnUserImport func(targetNamespace string) error
}

// Result is the outcome of one rewrite pass.
type Result struct {
	// Source is the transformed, import/export-free script text, ready to
	// be compiled and run against a synthesized scope.
	Source string
	// HasTrailingExpression reports whether the last statement was turned
	// into an assignment to __replResult (informational only; the
	// assignment is already in Source).
	HasTrailingExpression bool
}

var defaultExportCounter int

// Rewrite transforms src, a fragment belonging to namespace ns, into plain
// script text. It registers every import synchronously against opts.Store
// before returning; binding and export registrations are instead emitted as
// calls to __putBinding/__putExport/__putDefaultExport left in Source, which
// the scope synthesizer binds to ns for the duration of one execution.
func Rewrite(ns, src string, opts Options) (Result, error) {
	if opts.Resolver == nil {
		opts.Resolver = resolve.Resolve
	}

	statements := splitTopLevel(src)
	if len(statements) == 0 {
		return Result{Source: ""}, nil
	}

	var out []string
	var hasTrailing bool
	for i, stmt := range statements {
		text := src[stmt.Start:stmt.End]
		k := classify(text)
		isLast := i == len(statements)-1

		switch k {
		case kindTypeDecl:
			// Type-level statements (interface, type alias, declare) have
			// no runtime effect and are dropped before execution. Inline
			// annotations inside otherwise-plain statements are not
			// stripped and surface as parse errors.
			continue

		case kindImport:
			rendered, err := rewriteImport(ns, text, opts)
			if err != nil {
				return Result{}, err
			}
			if rendered != "" {
				out = append(out, rendered)
			}
			continue

		case kindExportNamed:
			rendered, err := rewriteExportNamed(ns, text)
			if err != nil {
				return Result{}, err
			}
			out = append(out, rendered)
			continue

		case kindExportDecl:
			rendered, names, err := rewriteExportDecl(ns, text)
			if err != nil {
				return Result{}, err
			}
			rendered = injectDynamicImport(rendered)
			out = append(out, rendered)
			for _, name := range names {
				out = append(out, putBindingCall(name))
				out = append(out, putExportCall(name, name))
			}
			continue

		case kindExportDefault:
			rendered, err := rewriteExportDefault(ns, text)
			if err != nil {
				return Result{}, err
			}
			out = append(out, injectDynamicImport(rendered))
			continue

		case kindVarDecl:
			text = injectDynamicImport(text)
			out = append(out, text)
			for _, name := range declaredNames(text) {
				out = append(out, putBindingCall(name))
			}
			continue

		case kindFuncDecl:
			text = injectDynamicImport(text)
			out = append(out, text)
			if name := funcDeclName(text); name != "" {
				out = append(out, putBindingCall(name))
			}
			continue

		case kindClassDecl:
			text = injectDynamicImport(text)
			out = append(out, text)
			if name := classDeclName(text); name != "" {
				out = append(out, putBindingCall(name))
			}
			continue

		default:
			text = injectDynamicImport(text)
			if isLast && isExpressionStatement(k, text) {
				expr := strings.TrimSpace(text)
				expr = strings.TrimSuffix(expr, ";")
				out = append(out, fmt.Sprintf("__replResult = (%s);", expr))
				hasTrailing = true
			} else {
				out = append(out, text)
			}
		}
	}

	return Result{Source: strings.Join(out, "\n"), HasTrailingExpression: hasTrailing}, nil
}

// putBindingCall passes the bound value directly as a second argument
// rather than having __putBinding read it back out of scope itself: the
// identifier is always in lexical scope exactly where this call is
// spliced in, which is simpler and more robust than any lookup the helper
// could do on its own.
func putBindingCall(name string) string {
	return fmt.Sprintf("__putBinding(%s, %s);", strconv.Quote(name), name)
}

func putExportCall(local, exported string) string {
	return fmt.Sprintf("__putExport(%s, %s);", strconv.Quote(local), strconv.Quote(exported))
}

func putDefaultExportCall(local string) string {
	return fmt.Sprintf("__putDefaultExport(%s);", strconv.Quote(local))
}

var reDynamicImport = regexp.MustCompile(`\bimport\s*\(`)

// injectDynamicImport rewrites dynamic import() call expressions into
// calls to the __dynamicImport runtime helper wired up by the scope
// synthesizer. A plain substring scan is safe because "import" is a
// reserved word, so no identifier can shadow it. Occurrences inside string
// literals are an accepted limitation.
func injectDynamicImport(text string) string {
	return reDynamicImport.ReplaceAllString(text, "__dynamicImport(")
}

func funcDeclName(text string) string {
	m := reFuncDecl.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return m[2]
}

func classDeclName(text string) string {
	m := reClassDecl.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return m[1]
}

var reReservedStmt = regexp.MustCompile(`^(if|for|while|do|switch|try|throw|return|break|continue|debugger|with)\b`)

func isExpressionStatement(k kind, text string) bool {
	if k != kindOther {
		return false
	}
	t := strings.TrimSpace(text)
	if strings.TrimSpace(strings.TrimSuffix(t, ";")) == "" {
		return false
	}
	if strings.HasPrefix(t, "{") {
		return false
	}
	if reReservedStmt.MatchString(t) {
		return false
	}
	return true
}

func rewriteImport(ns, text string, opts Options) (string, error) {
	clause, specifier, sideEffectOnly, ok := parseImportStatement(text)
	if !ok {
		return "", &ParseError{Namespace: ns, Reason: "malformed import statement: " + strings.TrimSpace(text)}
	}

	res, err := opts.Resolver(ns, specifier)
	if err != nil {
		return "", err
	}
	isBuiltIn := res.Kind == resolve.BuiltIn
	target := res.ID
	if !isBuiltIn {
		target = res.Path
		if opts.EvalImports && opts.OnUserImport != nil && !opts.Store.HasBeenEvaluated(target) {
			if err := opts.OnUserImport(target); err != nil {
				return "", err
			}
		}
	}

	if sideEffectOnly {
		return "", nil
	}
	if clause.DefaultLocal != "" {
		opts.Store.PutImport(ns, clause.DefaultLocal, namespace.DefaultExport, target, isBuiltIn)
	}
	if clause.NamespaceLocal != "" {
		opts.Store.PutImport(ns, clause.NamespaceLocal, namespace.NamespaceExport, target, isBuiltIn)
	}
	for _, spec := range clause.Named {
		opts.Store.PutImport(ns, spec.Inner, namespace.Named(spec.Outer), target, isBuiltIn)
	}
	return "", nil
}

func rewriteExportNamed(ns, text string) (string, error) {
	t := strings.TrimSpace(text)
	if reExportFrom.MatchString(t) {
		return "", &UnsupportedError{Namespace: ns, Construct: "export ... from (re-export)"}
	}
	m := reExportBraceOnly.FindStringSubmatch(t)
	if m == nil {
		return "", &ParseError{Namespace: ns, Reason: "malformed export statement: " + t}
	}
	var calls []string
	for _, spec := range exportBraceSpecifiers(m[1]) {
		calls = append(calls, putExportCall(spec.Inner, spec.Outer))
	}
	return strings.Join(calls, "\n"), nil
}

var reExportDeclStrip = regexp.MustCompile(`^export\s+`)

func rewriteExportDecl(ns, text string) (string, []string, error) {
	t := strings.TrimSpace(text)
	decl := reExportDeclStrip.ReplaceAllString(t, "")

	switch classify(decl) {
	case kindVarDecl:
		return decl, declaredNames(decl), nil
	case kindFuncDecl:
		name := funcDeclName(decl)
		if name == "" {
			return "", nil, &ParseError{Namespace: ns, Reason: "exported function declaration must be named"}
		}
		return decl, []string{name}, nil
	case kindClassDecl:
		name := classDeclName(decl)
		if name == "" {
			return "", nil, &ParseError{Namespace: ns, Reason: "exported class declaration must be named"}
		}
		return decl, []string{name}, nil
	default:
		return "", nil, &ParseError{Namespace: ns, Reason: "unrecognized export declaration: " + t}
	}
}

var (
	reDefaultAnonFunc  = regexp.MustCompile(`^(async\s+function\*?|function\*?)\s*\(`)
	reDefaultNamedFunc = regexp.MustCompile(`^(async\s+function\*?|function\*?)\s+(\w+)\s*\(`)
	reDefaultAnonClass = regexp.MustCompile(`^class\s*\{`)
	reDefaultNamedClass = regexp.MustCompile(`^class\s+(\w+)\b`)
)

func rewriteExportDefault(ns, text string) (string, error) {
	t := strings.TrimSpace(text)
	expr := strings.TrimSpace(reExportDefault.ReplaceAllString(t, ""))
	expr = strings.TrimSuffix(expr, ";")

	switch {
	case reDefaultNamedFunc.MatchString(expr):
		m := reDefaultNamedFunc.FindStringSubmatch(expr)
		name := m[2]
		return expr + "\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil

	case reDefaultAnonFunc.MatchString(expr):
		name := synthesizeDefaultExportName()
		kw := reDefaultAnonFunc.FindStringSubmatch(expr)[1]
		named := kw + " " + name + expr[len(kw):]
		return named + "\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil

	case reDefaultNamedClass.MatchString(expr):
		name := reDefaultNamedClass.FindStringSubmatch(expr)[1]
		if name == "extends" {
			// "class extends Base { ... }": anonymous after all.
			name = synthesizeDefaultExportName()
			named := "class " + name + expr[len("class"):]
			return named + "\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil
		}
		return expr + "\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil

	case reDefaultAnonClass.MatchString(expr):
		name := synthesizeDefaultExportName()
		named := "class " + name + expr[len("class"):]
		return named + "\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil

	case identifierOnly(expr) != "":
		return putDefaultExportCall(expr), nil

	default:
		// An arbitrary default-exported expression: evaluate it once into
		// a synthesized binding, then register that binding as the default.
		name := synthesizeDefaultExportName()
		return "const " + name + " = (" + expr + ");\n" + putBindingCall(name) + "\n" + putDefaultExportCall(name), nil
	}
}

func synthesizeDefaultExportName() string {
	defaultExportCounter++
	return fmt.Sprintf("__defaultExport_%d", defaultExportCounter)
}
