package rewrite

import (
	"regexp"
	"strings"
)

// statement is one top-level statement of a fragment: the half-open byte
// range [Start, End) into the original source, already trimmed of leading
// whitespace/comments.
type statement struct {
	Start, End int
}

// splitTopLevel walks src once, tracking bracket depth and string/comment
// state, and returns the byte ranges of each top-level statement. It never
// looks inside a statement's own nested braces/parens for further splits,
// which is exactly the granularity the rewriter needs, since only top-level
// declarations, exports and imports are reified into the namespace.
//
// A statement ends at a top-level ';'. A top-level '}' that closes back to
// depth 0 also ends the statement, but only when the statement opened with
// a brace-terminated form (function/class/if/for/switch/try/block): an
// object literal in "import { greet } from './lib'" or "const x = { a: 1
// }.a" closes to depth 0 mid-statement and must not split there. The last
// statement in the source, if not terminated either way, still counts;
// this is what lets a trailing expression with no semicolon be recognized
// (the common REPL case: "1 + 2").
func splitTopLevel(src string) []statement {
	var out []statement
	depth := 0
	start := -1

	type stringMode int
	const (
		none stringMode = iota
		single
		double
		template
		lineComment
		blockComment
	)
	mode := none

	n := len(src)
	for i := 0; i < n; i++ {
		c := src[i]

		switch mode {
		case lineComment:
			if c == '\n' {
				mode = none
			}
			continue
		case blockComment:
			if c == '*' && i+1 < n && src[i+1] == '/' {
				mode = none
				i++
			}
			continue
		case single, double:
			if c == '\\' {
				i++
				continue
			}
			if (mode == single && c == '\'') || (mode == double && c == '"') {
				mode = none
			}
			continue
		case template:
			if c == '\\' {
				i++
				continue
			}
			if c == '`' {
				mode = none
			}
			continue
		}

		// mode == none from here on.
		if c == '/' && i+1 < n && src[i+1] == '/' {
			mode = lineComment
			continue
		}
		if c == '/' && i+1 < n && src[i+1] == '*' {
			mode = blockComment
			continue
		}
		if c == '\'' {
			mode = single
			markStart(&start, i)
			continue
		}
		if c == '"' {
			mode = double
			markStart(&start, i)
			continue
		}
		if c == '`' {
			mode = template
			markStart(&start, i)
			continue
		}

		if c == ' ' || c == '\t' || c == '\r' {
			continue
		}
		if c == '\n' {
			if depth == 0 && start >= 0 {
				head := src[start:i]
				if !continuesStatement(head) && !continuationAhead(src, i, head) {
					out = append(out, statement{Start: start, End: i})
					start = -1
				}
			}
			continue
		}

		markStart(&start, i)

		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
			if depth == 0 && c == '}' {
				head := src[start : i+1]
				if braceStatementHead(head) && !continuationAhead(src, i+1, head) {
					end := i + 1
					// Swallow an immediately following ';' into the same
					// statement.
					if end < n && src[end] == ';' {
						end++
					}
					out = append(out, statement{Start: start, End: end})
					start = -1
				}
			}
		case ';':
			if depth == 0 {
				out = append(out, statement{Start: start, End: i + 1})
				start = -1
			}
		}
	}

	if start >= 0 {
		end := n
		out = append(out, statement{Start: start, End: end})
	}
	return out
}

func markStart(start *int, i int) {
	if *start < 0 {
		*start = i
	}
}

var reBraceStmtHead = regexp.MustCompile(`^(?:export\s+(?:default\s+)?)?(?:async\s+)?function\b|^(?:export\s+(?:default\s+)?)?class\b|^(?:if|for|while|do|switch|try)\b|^\{`)

// braceStatementHead reports whether a statement beginning with head is a
// brace-terminated form, i.e. one whose closing top-level '}' genuinely
// ends the statement.
func braceStatementHead(head string) bool {
	return reBraceStmtHead.MatchString(head)
}

var reDoHead = regexp.MustCompile(`^do\b`)

// continuationAhead reports whether the next token after position i keeps
// the current statement going: else/catch/finally always, and while when
// the statement opened with do.
func continuationAhead(src string, i int, head string) bool {
	j := i
	for j < len(src) {
		switch src[j] {
		case ' ', '\t', '\n', '\r':
			j++
			continue
		}
		break
	}
	rest := src[j:]
	keywords := []string{"else", "catch", "finally"}
	if reDoHead.MatchString(head) {
		keywords = append(keywords, "while")
	}
	for _, kw := range keywords {
		if strings.HasPrefix(rest, kw) {
			k := j + len(kw)
			if k >= len(src) || !isIdentByte(src[k]) {
				return true
			}
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// continuesStatement reports whether text so far plausibly continues onto
// the next line rather than ending at this newline, a conservative ASI
// heuristic: only break on a bare newline when the statement looks finished
// (does not end in an operator, comma, or opener).
func continuesStatement(text string) bool {
	t := strings.TrimRight(text, " \t\r")
	if t == "" {
		return true
	}
	last := t[len(t)-1]
	switch last {
	case '+', '-', '*', '/', '%', '<', '>', '=', '&', '|', '!', '?', ':', ',', '.', '(', '[', '{':
		return true
	}
	return false
}
