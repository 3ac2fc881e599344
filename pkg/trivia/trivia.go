// Package trivia reconciles the original text between sibling nodes when
// the sibling sequence has changed.
//
// A gap is the exact original text between two siblings: whitespace,
// comments, blank lines, separators and clause keywords. The reconciler
// never looks at nodes; it only decides which original gaps, or which
// parts of them, may stand between the items of a new sequence.
package trivia

import "strings"

// Synthetic is the item index of a node that has no original position in
// the sequence.
const Synthetic = -1

// Split breaks a block gap into the trailing text of the previous line
// (usually a comment), the middle part, and the lead of the next item: the
// comment lines directly above it plus its indentation. A gap without a
// newline is all middle. The carriage return of a CRLF line end belongs to
// the middle.
func Split(gap string) (trail, mid, lead string) {
	first := strings.IndexByte(gap, '\n')
	if first < 0 {
		return "", gap, ""
	}
	leadStart := strings.LastIndexByte(gap, '\n') + 1
	for leadStart > first+1 {
		prevEnd := leadStart - 1
		prevStart := strings.LastIndexByte(gap[:prevEnd], '\n') + 1
		if !isComment(gap[prevStart:prevEnd]) {
			break
		}
		leadStart = prevStart
	}
	cut := first
	if cut > 0 && gap[cut-1] == '\r' {
		cut--
	}
	return gap[:cut], gap[cut:leadStart], gap[leadStart:]
}

// WithoutTrail returns gap without the trailing text of the previous line.
func WithoutTrail(gap string) string {
	trail, _, _ := Split(gap)
	return gap[len(trail):]
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t\f"), "#")
}

// Block reconciles the gaps of a statement sequence. Gaps holds n+1
// entries for n original items: Gaps[0] precedes the first item, Gaps[i]
// lies between items i-1 and i, Gaps[n] follows the last one.
type Block struct {
	Gaps []string

	// Indent is the indentation of the items, used when no original
	// layout can be recovered.
	Indent string

	// AtLineStart is set when Gaps[0] starts at the beginning of a line,
	// as it does for the top level of a file.
	AtLineStart bool

	// Newline is the line terminator of new line breaks. Defaults to "\n".
	Newline string
}

func (b Block) nl() string {
	if b.Newline == "" {
		return "\n"
	}
	return b.Newline
}

func (b Block) gap(i int) string {
	if i == 0 && b.AtLineStart {
		return b.nl() + b.Gaps[0]
	}
	return b.Gaps[i]
}

func (b Block) fallback(trail string) string {
	return trail + b.nl() + b.Indent
}

func (b Block) opening(s string) string {
	if b.AtLineStart {
		return strings.TrimPrefix(s, b.nl())
	}
	return s
}

// Leading returns the text before the first item of the new sequence.
func (b Block) Leading(first int) string {
	if first == 0 {
		return b.Gaps[0]
	}
	trail, mid, _ := Split(b.gap(0))
	if first == Synthetic {
		return b.opening(b.fallback(trail))
	}
	g := b.Gaps[first]
	_, _, lead := Split(g)
	if !strings.Contains(g, "\n") {
		lead = lastLine(b.gap(0))
	}
	return b.opening(trail + mid + lead)
}

// Between returns the text between two consecutive items of the new
// sequence. Originally adjacent items keep their exact gap, and two
// originals that were separated by ";" on one line stay on that line.
func (b Block) Between(prev, next int) string {
	if prev != Synthetic && next == prev+1 {
		return b.Gaps[next]
	}
	if b.sameLine(prev, next) {
		return b.Gaps[next]
	}
	trail := ""
	if prev != Synthetic {
		trail, _, _ = Split(b.Gaps[prev+1])
	}
	if next == Synthetic {
		return b.fallback(trail)
	}
	_, mid, lead := Split(b.gap(next))
	if !strings.Contains(mid, "\n") {
		return b.fallback(trail)
	}
	return trail + mid + lead
}

// sameLine reports whether original items prev and next are both followed
// and preceded by inline separators, as in "a; b; c".
func (b Block) sameLine(prev, next int) bool {
	n := len(b.Gaps) - 1
	if prev == Synthetic || next <= 0 || next >= n || prev+1 >= n {
		return false
	}
	return !strings.Contains(b.Gaps[prev+1], "\n") && !strings.Contains(b.Gaps[next], "\n")
}

// Trailing returns the text after the last item of the new sequence.
func (b Block) Trailing(last int) string {
	n := len(b.Gaps) - 1
	if last == n-1 && n > 0 {
		return b.Gaps[n]
	}
	rest := WithoutTrail(b.Gaps[n])
	if last == Synthetic {
		return rest
	}
	trail, _, _ := Split(b.Gaps[last+1])
	return trail + rest
}

// lastLine returns the text after the last newline of gap, or "" when gap
// has none.
func lastLine(gap string) string {
	i := strings.LastIndexByte(gap, '\n')
	if i < 0 {
		return ""
	}
	return gap[i+1:]
}

// Inline reconciles the separators of an inline list. Gaps holds the n-1
// original separators between n items; Sep is the canonical separator for
// the list.
type Inline struct {
	Gaps []string
	Sep  string
}

// Between returns the separator to write between two consecutive items.
// Originally adjacent items keep their gap. In a list laid out over several
// lines, two originals keep the rest of prev's line and the line break in
// front of next. Other pairs reuse the first original gap that carries no
// comment, or Sep.
func (l Inline) Between(prev, next int) string {
	if prev != Synthetic && next == prev+1 {
		return l.Gaps[prev]
	}
	if prev != Synthetic && next > 0 && prev < len(l.Gaps) {
		after, before := l.Gaps[prev], l.Gaps[next-1]
		if strings.Contains(after, "\n") && strings.Contains(before, "\n") {
			trail, _, _ := Split(after)
			return trail + WithoutTrail(before)
		}
	}
	for _, g := range l.Gaps {
		if !strings.Contains(g, "#") {
			return g
		}
	}
	return l.Sep
}

// HasLeadingComma reports whether tail, the text following a list,
// starts with a trailing comma.
func HasLeadingComma(tail string) bool {
	return strings.HasPrefix(strings.TrimLeft(tail, " \t"), ",")
}

// TrimLeadingSeparator removes a trailing comma left at the start of tail
// together with the blanks in front of it.
func TrimLeadingSeparator(tail string) string {
	trimmed := strings.TrimLeft(tail, " \t")
	if strings.HasPrefix(trimmed, ",") {
		return trimmed[1:]
	}
	return tail
}
