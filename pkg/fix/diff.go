package fix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff is a unified diff between two versions of a file.
type Diff struct {
	Path      string
	Original  []byte
	Modified  []byte
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// DiffHunk is one hunk of a unified diff. Starts are 1-based; an empty
// side starts at the line before the hunk, as in diff -u.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is one line of a hunk.
type DiffLine struct {
	Kind DiffLineKind

	// Content is the line without its line terminator.
	Content string

	// NoNewline marks the last line of a file that does not end in a
	// newline.
	NoNewline bool
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

// ContextLines is the number of unchanged lines shown around a change.
const ContextLines = 3

// GenerateDiff returns the diff from original to modified, or nil when
// they are equal.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}
	a, b := splitLines(string(original)), splitLines(string(modified))
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(ContextLines)

	d := &Diff{Path: path, Original: original, Modified: modified}
	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		hunk := DiffHunk{
			OriginalStart: hunkStart(first.I1, last.I2),
			OriginalCount: last.I2 - first.I1,
			ModifiedStart: hunkStart(first.J1, last.J2),
			ModifiedCount: last.J2 - first.J1,
		}
		for _, op := range group {
			if op.Tag == 'e' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineContext, a[op.I1:op.I2])
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineRemove, a[op.I1:op.I2])
				d.Deletions += op.I2 - op.I1
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				hunk.Lines = appendLines(hunk.Lines, DiffLineAdd, b[op.J1:op.J2])
				d.Additions += op.J2 - op.J1
			}
		}
		d.Hunks = append(d.Hunks, hunk)
	}
	if len(d.Hunks) == 0 {
		return nil
	}
	return d
}

func hunkStart(lo, hi int) int {
	if lo == hi {
		return lo
	}
	return lo + 1
}

// splitLines splits s after every newline, keeping the terminators so a
// missing final newline shows up as a change.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func appendLines(out []DiffLine, kind DiffLineKind, lines []string) []DiffLine {
	for _, line := range lines {
		content, ok := strings.CutSuffix(line, "\n")
		out = append(out, DiffLine{Kind: kind, Content: strings.TrimSuffix(content, "\r"), NoNewline: !ok})
	}
	return out
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		b.WriteString(hunk.Header())
		b.WriteByte('\n')
		for _, line := range hunk.Lines {
			b.WriteString(line.String())
			b.WriteByte('\n')
			if line.NoNewline {
				b.WriteString("\\ No newline at end of file\n")
			}
		}
	}
	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h DiffHunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// String returns the line with its diff prefix.
func (l DiffLine) String() string {
	switch l.Kind {
	case DiffLineAdd:
		return "+" + l.Content
	case DiffLineRemove:
		return "-" + l.Content
	default:
		return " " + l.Content
	}
}

// FullString returns the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges reports whether the diff has any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}
