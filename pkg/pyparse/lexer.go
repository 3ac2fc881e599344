package pyparse

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gotat/pkg/source"
)

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokNumber
	tokString
	tokOp
)

func (k tokKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "newline"
	case tokIndent:
		return "indent"
	case tokDedent:
		return "dedent"
	case tokName:
		return "name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	default:
		return "operator"
	}
}

// token is a lexeme with its byte range in the source. Layout tokens
// (newline, indent, dedent, EOF) have an empty range.
type token struct {
	kind       tokKind
	text       string
	start, end int
}

// operators ordered longest first so that scanning picks the longest match.
var operators = []string{ //nolint:gochecknoglobals // lookup table
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "=",
}

type lexer struct {
	file    *source.File
	src     string
	pos     int
	depth   int
	indents []int
	toks    []token
	bol     bool
}

// tokenize splits the content of file into tokens. Comments, blank lines
// and line continuations produce no tokens; newlines inside brackets are
// ignored.
func tokenize(file *source.File) ([]token, error) {
	lx := &lexer{file: file, src: file.Text(), indents: []int{0}, bol: true}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) errorf(offset int, format string, args ...any) error {
	return newError(lx.file, offset, format, args...)
}

func (lx *lexer) emit(kind tokKind, start, end int) {
	lx.toks = append(lx.toks, token{kind: kind, text: lx.src[start:end], start: start, end: end})
}

func (lx *lexer) run() error {
	for {
		if lx.bol && lx.depth == 0 {
			done, err := lx.indentation()
			if err != nil {
				return err
			}
			if done {
				break
			}
			continue
		}
		if lx.pos >= len(lx.src) {
			break
		}

		ch := lx.src[lx.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f':
			lx.pos++
		case ch == '#':
			lx.skipComment()
		case ch == '\\':
			if !lx.continuation() {
				return lx.errorf(lx.pos, "unexpected character after line continuation")
			}
		case ch == '\n' || ch == '\r':
			end := lx.pos + newlineLen(lx.src[lx.pos:])
			if lx.depth == 0 {
				lx.emit(tokNewline, lx.pos, lx.pos)
				lx.bol = true
			}
			lx.pos = end
		case isNameStart(ch):
			if err := lx.name(); err != nil {
				return err
			}
		case isDigit(ch) || (ch == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			lx.number()
		case ch == '\'' || ch == '"':
			if err := lx.str(lx.pos); err != nil {
				return err
			}
		default:
			if err := lx.operator(); err != nil {
				return err
			}
		}
	}

	if n := len(lx.toks); n > 0 && lx.toks[n-1].kind != tokNewline && lx.toks[n-1].kind != tokDedent {
		lx.emit(tokNewline, len(lx.src), len(lx.src))
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(tokDedent, len(lx.src), len(lx.src))
	}
	lx.emit(tokEOF, len(lx.src), len(lx.src))
	return nil
}

// indentation measures the indentation of a logical line start and emits
// indent and dedent tokens. Blank and comment-only lines are skipped. It
// reports true at end of input.
func (lx *lexer) indentation() (bool, error) {
	col := 0
	start := lx.pos
scan:
	for ; lx.pos < len(lx.src); lx.pos++ {
		switch lx.src[lx.pos] {
		case ' ':
			col++
		case '\t':
			col += source.TabWidth - col%source.TabWidth
		case '\f':
			col = 0
		default:
			break scan
		}
	}
	if lx.pos >= len(lx.src) {
		return true, nil
	}
	switch lx.src[lx.pos] {
	case '#':
		lx.skipComment()
		fallthrough
	case '\n', '\r':
		if lx.pos < len(lx.src) {
			lx.pos += newlineLen(lx.src[lx.pos:])
		}
		return lx.pos >= len(lx.src), nil
	case '\\':
		// A continuation on an otherwise empty line joins the next line.
		if lx.continuation() {
			return false, nil
		}
	}

	lx.bol = false
	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.emit(tokIndent, lx.pos, lx.pos)
	case col < top:
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(tokDedent, lx.pos, lx.pos)
		}
		if col != lx.indents[len(lx.indents)-1] {
			return false, lx.errorf(start, "unindent does not match any outer indentation level")
		}
	}
	return false, nil
}

func (lx *lexer) skipComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.pos++
	}
}

func (lx *lexer) continuation() bool {
	n := newlineLen(lx.src[lx.pos+1:])
	if n == 0 {
		return false
	}
	lx.pos += 1 + n
	return true
}

func (lx *lexer) name() error {
	start := lx.pos
	for lx.pos < len(lx.src) {
		ch := lx.src[lx.pos]
		if ch >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			lx.pos += size
			continue
		}
		if !isNameStart(ch) && !isDigit(ch) {
			break
		}
		lx.pos++
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == '\'' || lx.src[lx.pos] == '"') && isStringPrefix(lx.src[start:lx.pos]) {
		return lx.str(start)
	}
	lx.emit(tokName, start, lx.pos)
	return nil
}

func (lx *lexer) number() {
	start := lx.pos
	src := lx.src
	if src[lx.pos] == '0' && lx.pos+1 < len(src) && strings.ContainsRune("xXoObB", rune(src[lx.pos+1])) {
		lx.pos += 2
		for lx.pos < len(src) && (isHexDigit(src[lx.pos]) || src[lx.pos] == '_') {
			lx.pos++
		}
		lx.emit(tokNumber, start, lx.pos)
		return
	}
	digits := func() {
		for lx.pos < len(src) && (isDigit(src[lx.pos]) || src[lx.pos] == '_') {
			lx.pos++
		}
	}
	digits()
	if lx.pos < len(src) && src[lx.pos] == '.' {
		lx.pos++
		digits()
	}
	if lx.pos < len(src) && (src[lx.pos] == 'e' || src[lx.pos] == 'E') {
		next := lx.pos + 1
		if next < len(src) && (src[next] == '+' || src[next] == '-') {
			next++
		}
		if next < len(src) && isDigit(src[next]) {
			lx.pos = next
			digits()
		}
	}
	if lx.pos < len(src) && (src[lx.pos] == 'j' || src[lx.pos] == 'J') {
		lx.pos++
	}
	lx.emit(tokNumber, start, lx.pos)
}

// str scans a string literal whose prefix starts at start and whose opening
// quote is at lx.pos.
func (lx *lexer) str(start int) error {
	src := lx.src
	quote := src[lx.pos]
	triple := strings.HasPrefix(src[lx.pos:], strings.Repeat(string(quote), 3))
	if triple {
		lx.pos += 3
	} else {
		lx.pos++
	}
	for lx.pos < len(src) {
		ch := src[lx.pos]
		switch {
		case ch == '\\':
			lx.pos++
			if n := newlineLen(src[lx.pos:]); n > 0 {
				lx.pos += n
			} else {
				lx.pos++
			}
			continue
		case ch == quote:
			if !triple {
				lx.pos++
				lx.emit(tokString, start, lx.pos)
				return nil
			}
			if strings.HasPrefix(src[lx.pos:], strings.Repeat(string(quote), 3)) {
				lx.pos += 3
				lx.emit(tokString, start, lx.pos)
				return nil
			}
		case (ch == '\n' || ch == '\r') && !triple:
			return lx.errorf(start, "unterminated string literal")
		}
		lx.pos++
	}
	if triple {
		return lx.errorf(start, "unterminated triple-quoted string literal")
	}
	return lx.errorf(start, "unterminated string literal")
}

func (lx *lexer) operator() error {
	rest := lx.src[lx.pos:]
	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		switch op {
		case "(", "[", "{":
			lx.depth++
		case ")", "]", "}":
			if lx.depth == 0 {
				return lx.errorf(lx.pos, "unmatched %q", op)
			}
			lx.depth--
		}
		lx.emit(tokOp, lx.pos, lx.pos+len(op))
		lx.pos += len(op)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return lx.errorf(lx.pos, "invalid character %q", r)
}

func newlineLen(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		return 2
	case strings.HasPrefix(s, "\n"), strings.HasPrefix(s, "\r"):
		return 1
	default:
		return 0
	}
}

func isNameStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch >= utf8.RuneSelf
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	default:
		return false
	}
}
