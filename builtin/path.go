package builtin

import "path/filepath"

// These wrap path/filepath with POSIX-style forward slashes so fragments
// see the same path module shape on every host OS, matching Node's "path"
// (really "path/posix" in spirit) rather than leaking Windows separators
// into a JS fragment.

func pathJoin(parts []string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

func pathDirname(p string) string {
	return filepath.ToSlash(filepath.Dir(p))
}

func pathBasename(p string) string {
	return filepath.Base(p)
}

func pathExtname(p string) string {
	return filepath.Ext(p)
}

func pathResolve(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	joined := filepath.Join(parts...)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return filepath.ToSlash(joined)
	}
	return filepath.ToSlash(abs)
}
