package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind distinguishes a resolved user module from an opaque built-in.
type Kind int

const (
	// User indicates the specifier resolved to a file on disk.
	User Kind = iota
	// BuiltIn indicates the specifier did not resolve to a file and is
	// delegated to the host module loader.
	BuiltIn
)

// Result is the outcome of resolving one specifier.
type Result struct {
	Kind Kind
	// Path is the absolute canonical path when Kind == User.
	Path string
	// ID is the specifier, unchanged, when Kind == BuiltIn.
	ID string
}

// ResolveError is returned when a relative or absolute specifier names no
// file reachable on disk. Bare specifiers never produce a ResolveError;
// failing to find one on disk just makes it a built-in.
type ResolveError struct {
	Namespace  string
	Specifier  string
	Candidates []string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q from %s (tried: %s)", e.Specifier, e.Namespace, strings.Join(e.Candidates, ", "))
}

// extensions tried, in order, when a specifier has none of its own.
var extensions = []string{"", ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".json"}

// Resolve resolves specifier as imported by importingNamespace (an absolute
// file path). It never returns an error for bare specifiers; only relative
// and absolute specifiers that fail to find a file on disk are errors.
func Resolve(importingNamespace, specifier string) (Result, error) {
	if isRelativeOrAbsolute(specifier) {
		base := specifier
		if !filepath.IsAbs(specifier) {
			base = filepath.Join(filepath.Dir(importingNamespace), specifier)
		}
		if path, ok := probeFile(base); ok {
			canon, err := filepath.Abs(path)
			if err != nil {
				canon = path
			}
			return Result{Kind: User, Path: canon}, nil
		}
		return Result{}, &ResolveError{
			Namespace:  importingNamespace,
			Specifier:  specifier,
			Candidates: candidateList(base),
		}
	}

	if path, ok := resolveNodeModules(filepath.Dir(importingNamespace), specifier); ok {
		canon, err := filepath.Abs(path)
		if err != nil {
			canon = path
		}
		return Result{Kind: User, Path: canon}, nil
	}

	// Not found on disk anywhere: treat as a built-in.
	return Result{Kind: BuiltIn, ID: specifier}, nil
}

func isRelativeOrAbsolute(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".." ||
		filepath.IsAbs(specifier)
}

// probeFile tries base, base+ext for each known extension, and
// base/index+ext for directory-style imports.
func probeFile(base string) (string, bool) {
	for _, ext := range extensions {
		candidate := base + ext
		if isFile(candidate) {
			return candidate, true
		}
	}
	for _, ext := range extensions[1:] {
		candidate := filepath.Join(base, "index"+ext)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func candidateList(base string) []string {
	var out []string
	for _, ext := range extensions {
		out = append(out, base+ext)
	}
	for _, ext := range extensions[1:] {
		out = append(out, filepath.Join(base, "index"+ext))
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// resolveNodeModules walks dir and each of its ancestors looking for
// <ancestor>/node_modules/<specifier>.
func resolveNodeModules(dir, specifier string) (string, bool) {
	for {
		candidateBase := filepath.Join(dir, "node_modules", specifier)
		if path, ok := probeFile(candidateBase); ok {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
