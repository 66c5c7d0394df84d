package rewrite

import (
	"regexp"
	"strings"
)

// kind classifies a top-level statement for the rewrite pass.
type kind int

const (
	kindOther kind = iota
	kindImport
	kindExportDefault
	kindExportNamed
	kindExportDecl
	kindVarDecl
	kindFuncDecl
	kindClassDecl
	kindTypeDecl
)

var (
	reImport       = regexp.MustCompile(`^import\s`)
	reExportDefault = regexp.MustCompile(`^export\s+default\b`)
	reExportBrace  = regexp.MustCompile(`^export\s*\{`)
	reExportDecl   = regexp.MustCompile(`^export\s+(const|let|var|function\*?|async\s+function\*?|class)\b`)
	reVarDecl      = regexp.MustCompile(`^(const|let|var)\b`)
	reFuncDecl     = regexp.MustCompile(`^(async\s+function\*?|function\*?)\s+(\w+)`)
	reClassDecl    = regexp.MustCompile(`^class\s+(\w+)`)
	reTypeDecl     = regexp.MustCompile(`^(export\s+)?(interface\s+[\w$]+|type\s+[\w$]+\s*(<[^=]*>\s*)?=|declare\s)`)
)

func classify(text string) kind {
	t := strings.TrimSpace(text)
	switch {
	case reImport.MatchString(t):
		return kindImport
	case reTypeDecl.MatchString(t):
		return kindTypeDecl
	case reExportDefault.MatchString(t):
		return kindExportDefault
	case reExportDecl.MatchString(t):
		return kindExportDecl
	case reExportBrace.MatchString(t):
		return kindExportNamed
	case strings.HasPrefix(t, "export "):
		// export-from (re-export) or another export shape this rewriter
		// does not special-case; treated as an ordinary statement, since
		// stripping the leading keyword is unsafe without knowing which
		// shape it is.
		return kindOther
	case reVarDecl.MatchString(t):
		return kindVarDecl
	case reFuncDecl.MatchString(t):
		return kindFuncDecl
	case reClassDecl.MatchString(t):
		return kindClassDecl
	default:
		return kindOther
	}
}

// declaredNames extracts the bound identifier names from a var/let/const
// declaration statement's text (including the leading keyword). Supports
// plain identifiers and one level of object/array destructuring, which
// covers the overwhelming majority of REPL fragments; deeply nested
// patterns fall back to returning whatever top-level names were found.
func declaredNames(declText string) []string {
	t := strings.TrimSpace(declText)
	t = strings.TrimSuffix(t, ";")
	// Strip the leading keyword.
	for _, kw := range []string{"const", "let", "var"} {
		if strings.HasPrefix(t, kw) {
			t = strings.TrimSpace(t[len(kw):])
			break
		}
	}

	var names []string
	for _, declarator := range splitDeclarators(t) {
		target := declarator
		if idx := topLevelIndex(declarator, '='); idx >= 0 {
			target = declarator[:idx]
		}
		target = strings.TrimSpace(target)
		names = append(names, bindingNames(target)...)
	}
	return names
}

// splitDeclarators splits "a = 1, {b, c} = obj" into its top-level
// comma-separated declarators, ignoring commas nested inside brackets.
func splitDeclarators(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, c := range s {
		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// bindingNames extracts identifier names bound by a single binding target:
// a bare identifier, an object pattern "{a, b: c, ...rest}", or an array
// pattern "[a, , b]".
func bindingNames(target string) []string {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if strings.HasPrefix(target, "{") && strings.HasSuffix(target, "}") {
		inner := target[1 : len(target)-1]
		var names []string
		for _, part := range splitDeclarators(inner) {
			part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "..."))
			if part == "" {
				continue
			}
			name := part
			if idx := strings.Index(part, ":"); idx >= 0 {
				name = part[idx+1:]
			}
			name = strings.TrimSpace(strings.Split(name, "=")[0])
			if id := identifierOnly(name); id != "" {
				names = append(names, id)
			}
		}
		return names
	}
	if strings.HasPrefix(target, "[") && strings.HasSuffix(target, "]") {
		inner := target[1 : len(target)-1]
		var names []string
		for _, part := range splitDeclarators(inner) {
			part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "..."))
			if id := identifierOnly(strings.Split(part, "=")[0]); id != "" {
				names = append(names, id)
			}
		}
		return names
	}
	if id := identifierOnly(target); id != "" {
		return []string{id}
	}
	return nil
}

var reIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func identifierOnly(s string) string {
	s = strings.TrimSpace(s)
	if reIdentifier.MatchString(s) {
		return s
	}
	return ""
}

func topLevelIndex(s string, target rune) int {
	depth := 0
	for i, c := range s {
		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if c == target && depth == 0 {
				return i
			}
		}
	}
	return -1
}
