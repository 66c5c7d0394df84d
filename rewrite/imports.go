package rewrite

import (
	"regexp"
	"strings"
)

var (
	reImportFull = regexp.MustCompile(`(?s)^import\s+(.+?)\s+from\s+['"]([^'"]+)['"]\s*;?\s*$`)
	reImportBare = regexp.MustCompile(`(?s)^import\s+['"]([^'"]+)['"]\s*;?\s*$`)
	reExportFrom = regexp.MustCompile(`(?s)^export\s*\{(.*)\}\s*from\s+['"]([^'"]+)['"]\s*;?\s*$`)
	reExportBraceOnly = regexp.MustCompile(`(?s)^export\s*\{(.*)\}\s*;?\s*$`)
)

// namedSpecifier is one "a" or "a as b" entry from a brace-delimited
// import/export clause.
type namedSpecifier struct {
	Outer string // the module-side name (imported name, or exported name)
	Inner string // the local-side name (local binding)
}

// importClause is the parsed form of everything between "import" and
// "from '<module>'".
type importClause struct {
	DefaultLocal   string
	NamespaceLocal string
	Named          []namedSpecifier // Outer = imported, Inner = local
}

func parseImportStatement(text string) (clause importClause, specifier string, sideEffectOnly bool, ok bool) {
	t := strings.TrimSpace(text)
	if m := reImportBare.FindStringSubmatch(t); m != nil {
		return importClause{}, m[1], true, true
	}
	m := reImportFull.FindStringSubmatch(t)
	if m == nil {
		return importClause{}, "", false, false
	}
	clause = parseImportClause(m[1])
	return clause, m[2], false, true
}

func parseImportClause(raw string) importClause {
	var c importClause
	for _, part := range splitDeclarators(raw) {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "*"):
			rest := strings.TrimSpace(strings.TrimPrefix(part, "*"))
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "as"))
			c.NamespaceLocal = rest
		case strings.HasPrefix(part, "{"):
			inner := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			for _, spec := range splitDeclarators(inner) {
				spec = strings.TrimSpace(spec)
				if spec == "" {
					continue
				}
				if idx := strings.Index(spec, " as "); idx >= 0 {
					c.Named = append(c.Named, namedSpecifier{
						Outer: strings.TrimSpace(spec[:idx]),
						Inner: strings.TrimSpace(spec[idx+4:]),
					})
				} else {
					c.Named = append(c.Named, namedSpecifier{Outer: spec, Inner: spec})
				}
			}
		default:
			if id := identifierOnly(part); id != "" {
				c.DefaultLocal = id
			}
		}
	}
	return c
}

// exportBraceSpecifiers parses "export { a, b as c };" into local->exported
// pairs (Inner = local, Outer = exported), the inverse mapping from an
// import clause's named specifiers.
func exportBraceSpecifiers(raw string) []namedSpecifier {
	var out []namedSpecifier
	for _, spec := range splitDeclarators(raw) {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if idx := strings.Index(spec, " as "); idx >= 0 {
			out = append(out, namedSpecifier{
				Inner: strings.TrimSpace(spec[:idx]),
				Outer: strings.TrimSpace(spec[idx+4:]),
			})
		} else {
			out = append(out, namedSpecifier{Inner: spec, Outer: spec})
		}
	}
	return out
}
