// Package source holds the immutable text of one input file together with
// the line table used to convert between byte offsets and line/column pairs.
package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/uniseg"
)

// LineInfo describes one physical line of a file.
type LineInfo struct {
	// StartOffset is the byte offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator ("\n" or "\r\n"),
	// or the end of the file for an unterminated last line.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// File is an immutable source text plus its line table. A File is created
// once per regeneration run and is safe for concurrent reads.
type File struct {
	path    string
	content string
	lines   []LineInfo
}

// NewFile builds a File for content. The line table is built eagerly in a
// single pass over the bytes.
func NewFile(path string, content []byte) *File {
	return &File{
		path:    path,
		content: string(content),
		lines:   buildLines(content),
	}
}

// NewFileString is like NewFile but takes a string.
func NewFileString(path, content string) *File {
	return NewFile(path, []byte(content))
}

func buildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, 1+len(content)/32)
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line always exists, even when empty, so that the offset
	// len(content) has a position.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// Newline returns the line terminator of the file: "\r\n" when its first
// line ends with one, "\n" otherwise.
func (f *File) Newline() string {
	if first := f.lines[0]; first.EndOffset-first.NewlineStart == 2 {
		return "\r\n"
	}
	return "\n"
}

// Path returns the file path the File was created with.
func (f *File) Path() string { return f.path }

// Text returns the whole content.
func (f *File) Text() string { return f.content }

// Len returns the content length in bytes.
func (f *File) Len() int { return len(f.content) }

// LineCount returns the number of lines, counting an empty last line.
func (f *File) LineCount() int { return len(f.lines) }

// Line returns the metadata of a 1-based line.
func (f *File) Line(line int) (LineInfo, bool) {
	if line < 1 || line > len(f.lines) {
		return LineInfo{}, false
	}
	return f.lines[line-1], true
}

// LineText returns the text of a 1-based line without its terminator.
func (f *File) LineText(line int) string {
	info, ok := f.Line(line)
	if !ok {
		return ""
	}
	return f.content[info.StartOffset:info.NewlineStart]
}

// Offset converts a 1-based line and a 0-based byte column into an absolute
// byte offset. The column may point at the line terminator but not past it.
func (f *File) Offset(line, col int) (int, error) {
	info, ok := f.Line(line)
	if !ok {
		return 0, fmt.Errorf("%w: line %d not in [1, %d]", ErrOutOfRange, line, len(f.lines))
	}
	if col < 0 || info.StartOffset+col > info.NewlineStart {
		return 0, fmt.Errorf("%w: column %d on line %d (length %d)",
			ErrOutOfRange, col, line, info.NewlineStart-info.StartOffset)
	}
	return info.StartOffset + col, nil
}

// LineCol converts an absolute byte offset into a 1-based line and a
// 0-based byte column. It is Location without the display column.
func (f *File) LineCol(offset int) (line, col int) {
	offset = max(0, min(offset, len(f.content)))
	idx := f.lineIndex(offset)
	return idx + 1, offset - f.lines[idx].StartOffset
}

func (f *File) lineIndex(offset int) int {
	idx := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i].EndOffset > offset
	})
	if idx >= len(f.lines) {
		idx = len(f.lines) - 1
	}
	return idx
}

// Location converts an absolute byte offset into a Location. Offsets
// outside [0, Len()] are clamped.
func (f *File) Location(offset int) Location {
	offset = max(0, min(offset, len(f.content)))

	idx := f.lineIndex(offset)
	info := f.lines[idx]

	prefix := f.content[info.StartOffset:min(offset, info.NewlineStart)]
	return Location{
		Offset:  offset,
		Line:    idx + 1,
		Column:  offset - info.StartOffset,
		Display: uniseg.StringWidth(expandTabs(prefix)),
	}
}

// Indentation returns the leading whitespace of the line containing offset.
func (f *File) Indentation(offset int) string {
	loc := f.Location(offset)
	text := f.LineText(loc.Line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

// AtLineStart reports whether only whitespace precedes offset on its line.
func (f *File) AtLineStart(offset int) bool {
	loc := f.Location(offset)
	info := f.lines[loc.Line-1]
	return strings.TrimLeft(f.content[info.StartOffset:offset], " \t") == ""
}

// Span returns the span [start, end) of f. It does not validate bounds;
// use Span.Valid before slicing.
func (f *File) Span(start, end int) Span {
	return Span{File: f, Start: start, End: end}
}

// Slice returns the text in [start, end), clamped to the content.
func (f *File) Slice(start, end int) string {
	start = max(0, min(start, len(f.content)))
	end = max(start, min(end, len(f.content)))
	return f.content[start:end]
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := TabWidth - col%TabWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// TabWidth is the tab stop used for display columns and indentation width.
const TabWidth = 8
