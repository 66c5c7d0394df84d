package namespace

import "fmt"

// Namespace is the absolute, canonical filesystem path identifying a user
// module within the session. Built-in modules are never namespaces.
type Namespace = string

// exportKey is the type exported names and import targets are keyed by. It
// is either a plain string (a named export/import) or one of the two
// sentinels below. The sentinels carry a flag that Named never sets, so they
// cannot collide with any user-chosen identifier, including one spelled like
// a sentinel's tag, or the empty string.
type exportKey struct {
	tag      string
	sentinel bool
}

func (k exportKey) String() string { return k.tag }

var (
	// DefaultExport represents the anonymous default export of a module
	// ("export default ..."). It is distinguishable from any string key a
	// user could write in source.
	DefaultExport = exportKey{tag: "[default]", sentinel: true}

	// NamespaceExport represents an "import * as X" request: the caller
	// wants every export of the target module materialized as an object.
	NamespaceExport = exportKey{tag: "[namespace]", sentinel: true}
)

// ExportName is the outward name of an export: a plain identifier, or one
// of DefaultExport / NamespaceExport.
type ExportName = exportKey

// Named wraps a plain identifier as an ExportName.
func Named(name string) ExportName { return exportKey{tag: name} }

// IsNamed reports whether n is a plain identifier (neither sentinel).
func (n exportKey) IsNamed() bool {
	return n != DefaultExport && n != NamespaceExport
}

// Binding is a named value defined at the top level of a namespace.
type Binding struct {
	Local string
	Value any
}

// Export records that an outward name resolves to a local binding name.
type Export struct {
	Exported ExportName
	Local    string
}

// ImportedName is the polymorphic "what is imported" field of an Import: a
// named export, the default export, or the whole namespace object.
type ImportedName = exportKey

// Import records a reference from one namespace into another (or into a
// built-in), as registered by the rewriter before the importing fragment's
// body runs.
type Import struct {
	Local             string
	Imported          ImportedName
	ImportedNamespace string // Namespace path, or the built-in specifier.
	IsBuiltIn         bool
}

// MissingLocalError is raised when an export (or default export) is
// registered against a local binding that does not exist in the namespace
// at registration time.
type MissingLocalError struct {
	Namespace Namespace
	Local     string
}

func (e *MissingLocalError) Error() string {
	return fmt.Sprintf("namespace %s: no binding %q to export", e.Namespace, e.Local)
}
