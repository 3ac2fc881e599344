package fix

import "bytes"

// ApplyEdits returns content with edits applied. The edits must come from
// PrepareEdits.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply prepares the builder's edits and applies them to content.
func (b *EditBuilder) Apply(content []byte) ([]byte, error) {
	edits, err := PrepareEdits(b.Edits, len(content))
	if err != nil {
		return nil, err
	}
	return ApplyEdits(content, edits), nil
}
