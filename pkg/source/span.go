package source

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a line, column, or offset does not lie
// within a File.
var ErrOutOfRange = errors.New("position out of range")

// Location is a resolved position in a File.
type Location struct {
	// Offset is the absolute byte offset.
	Offset int

	// Line is 1-based.
	Line int

	// Column is the 0-based byte column.
	Column int

	// Display is the 0-based column in terminal cells, with tabs expanded.
	Display int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column+1)
}

// Span is a half-open byte range [Start, End) into a File.
type Span struct {
	*File

	Start, End int
}

// IsZero reports whether s is the zero Span.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Valid reports whether 0 <= Start <= End <= len(File).
func (s Span) Valid() bool {
	return s.File != nil && s.Start >= 0 && s.Start <= s.End && s.End <= s.File.Len()
}

// Len returns the number of bytes in s.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text returns the source text covered by s.
func (s Span) Text() string {
	if s.File == nil {
		return ""
	}
	return s.File.Slice(s.Start, s.End)
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether s and other share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// StartLoc returns the Location of Start.
func (s Span) StartLoc() Location {
	return s.File.Location(s.Start)
}

// EndLoc returns the Location of End.
func (s Span) EndLoc() Location {
	return s.File.Location(s.End)
}

func (s Span) String() string {
	if s.File == nil {
		return "<no span>"
	}
	return fmt.Sprintf("%s:%v-%v", s.File.Path(), s.StartLoc(), s.EndLoc())
}
