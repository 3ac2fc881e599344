package markdown

import "errors"

// ErrNested is reported for a code block inside a list or block quote.
var ErrNested = errors.New("code block is nested in container markup")
