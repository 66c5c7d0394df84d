// Package resolve decides, given an importing namespace and a specifier,
// whether the specifier names a user module on disk or an opaque built-in
// identifier.
//
// Resolution follows the shape of Node's CommonJS algorithm closely enough
// to be unsurprising to the editor users this engine serves: relative and
// absolute specifiers must resolve to a file (trying a fixed extension
// list, then index files); bare specifiers are walked up through
// node_modules directories. The distinguishing test is whether resolution
// ends in an absolute filesystem path. If it does not, the specifier is a
// built-in, resolved later by the host module loader.
package resolve
