package emit

import (
	"strings"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/pyparse"
)

// The scanners below only run over text between sibling nodes, which holds
// no string literals: just blanks, comments, brackets, separators and
// keywords.

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// skipBack moves back from pos over blanks, line continuations and
// comments, not going below lo.
func skipBack(text string, lo, pos int) int {
	p := pos
	for p > lo {
		c := text[p-1]
		switch {
		case isBlank(c):
			p--
		case c == '\\' && p < len(text) && (text[p] == '\n' || text[p] == '\r'):
			p--
		default:
			ls := max(strings.LastIndexByte(text[:p], '\n')+1, lo)
			if h := strings.IndexByte(text[ls:p], '#'); h >= 0 {
				p = ls + h
				continue
			}
			return p
		}
	}
	return p
}

// skipForward moves forward from pos over blanks, line continuations and
// comments, stopping at hi.
func skipForward(text string, pos, hi int) int {
	t := pos
	for t < hi {
		switch c := text[t]; {
		case isBlank(c), c == '\\':
			t++
		case c == '#':
			nl := strings.IndexByte(text[t:hi], '\n')
			if nl < 0 {
				return hi
			}
			t += nl
		default:
			return t
		}
	}
	return t
}

// callParen reports whether the '(' at text[i] opens an argument list
// rather than a group.
func callParen(text string, i int) bool {
	j := i
	for j > 0 && isBlank(text[j-1]) {
		j--
	}
	if j == 0 {
		return false
	}
	switch c := text[j-1]; {
	case c == ')' || c == ']' || c == '}' || c == '\'' || c == '"':
		return true
	case isIdentByte(c):
		k := j - 1
		for k > 0 && isIdentByte(text[k-1]) {
			k--
		}
		word := text[k:j]
		switch word {
		case "None", "True", "False":
			return true
		}
		return !pyparse.IsKeyword(word)
	default:
		return false
	}
}

// bareNewline reports whether source text s contains a line break outside
// brackets, strings and comments, which would end a statement if s were
// placed in a context without enclosing brackets.
func bareNewline(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '\\':
			i++
		case '#':
			nl := strings.IndexByte(s[i:], '\n')
			if nl < 0 {
				return false
			}
			i += nl - 1
		case '\'', '"':
			i = skipString(s, i)
		case '\n':
			if depth <= 0 {
				return true
			}
		}
	}
	return false
}

// skipString returns the index of the closing quote of the string literal
// whose opening quote is at s[i], or len(s)-1 when it is unterminated.
func skipString(s string, i int) int {
	q := s[i]
	triple := strings.HasPrefix(s[i:], strings.Repeat(string(q), 3))
	j := i + 1
	if triple {
		j = i + 3
	}
	for j < len(s) {
		switch {
		case s[j] == '\\':
			j += 2
			continue
		case s[j] != q:
		case !triple:
			return j
		case strings.HasPrefix(s[j:], strings.Repeat(string(q), 3)):
			return j + 2
		}
		j++
	}
	return len(s) - 1
}

// headerEnd returns the offset just after the colon that ends the header
// of the compound statement recorded by entry.
func (e *emitter) headerEnd(entry *index.Entry) int {
	from := entry.Span.Start
	for _, f := range entry.Children {
		if f.Role == pyast.RoleSuite {
			continue
		}
		for _, c := range f.Nodes {
			if ce, ok := e.idx.Original(c); ok && ce.HasSpan {
				from = max(from, ce.Span.End)
			}
		}
	}
	text := e.file.Text()
	for i := from; i < entry.Span.End; i++ {
		switch text[i] {
		case '#':
			nl := strings.IndexByte(text[i:entry.Span.End], '\n')
			if nl < 0 {
				i = entry.Span.End
				continue
			}
			i += nl
		case ':':
			return i + 1
		}
	}
	e.fail(&index.PositioningError{
		Node:   entry.Node,
		Pos:    entry.Pos,
		Reason: "no colon ends the statement header",
	})
	return 0
}

// clauseStart returns the offset in gap of the first character that is
// neither blank nor part of a comment, or -1.
func clauseStart(gap string) int {
	pos := 0
	for pos < len(gap) {
		end := strings.IndexByte(gap[pos:], '\n')
		if end < 0 {
			end = len(gap)
		} else {
			end += pos
		}
		line := gap[pos:end]
		trimmed := strings.TrimLeft(line, " \t\f\r")
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return pos + len(line) - len(trimmed)
		}
		pos = end + 1
	}
	return -1
}
