package rewrite

import "fmt"

// ParseError is raised when a fragment cannot be parsed well enough to
// locate its top-level statement boundaries.
type ParseError struct {
	Namespace string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: %s", e.Namespace, e.Reason)
}

// UnsupportedError is raised for a construct the rewriter deliberately does
// not handle. Today that is the re-export form ("export { x } from './y'"),
// which would need a binding/import crossover the namespace store does not
// model.
type UnsupportedError struct {
	Namespace string
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported construct: %s", e.Namespace, e.Construct)
}
