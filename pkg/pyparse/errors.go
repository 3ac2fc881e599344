package pyparse

import (
	"fmt"

	"github.com/yaklabco/gotat/pkg/source"
)

// ParseError reports source text that is not valid in the supported
// Python subset.
type ParseError struct {
	Path string
	Pos  source.Location
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%v: %s", e.Path, e.Pos, e.Msg)
}

func newError(file *source.File, offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Path: file.Path(),
		Pos:  file.Location(offset),
		Msg:  fmt.Sprintf(format, args...),
	}
}
