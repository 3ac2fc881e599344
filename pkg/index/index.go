// Package index records the position and shape of every node of an
// original syntax tree before any transformation runs.
//
// The Index is built once per file and is read-only afterwards. Lookups are
// by node pointer; an entry only matches while the node still carries the
// ID it had when it was indexed.
package index

import (
	"errors"
	"fmt"
	"iter"

	"github.com/tidwall/btree"

	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/source"
)

// Entry is the record of one original node.
type Entry struct {
	// Node is the indexed node.
	Node pyast.Node

	// ID is the node's ID at indexing time.
	ID pyast.NodeID

	// Span is the byte range of the node. It is only meaningful when
	// HasSpan is set.
	Span    source.Span
	HasSpan bool

	// Pos and Fingerprint snapshot the node's own attributes.
	Pos         pyast.Pos
	Fingerprint string
	Paren       bool

	// Parent is nil for the root. Field and Index locate the node in its
	// parent; Index is -1 in a single field.
	Parent pyast.Node
	Field  string
	Index  int
	Depth  int

	// Children snapshots every child field of the node.
	Children []pyast.Field
}

// FieldNodes returns the snapshot of the named child field.
func (e *Entry) FieldNodes(name string) []pyast.Node {
	for _, f := range e.Children {
		if f.Name == name {
			return f.Nodes
		}
	}
	return nil
}

// Index maps original nodes to their entries.
type Index struct {
	file    *source.File
	root    pyast.Node
	entries map[pyast.Node]*Entry
	byID    map[pyast.NodeID]*Entry
	spans   *btree.BTreeG[*Entry]
}

// PositioningError reports an original tree whose recorded positions do not
// describe the source text consistently.
type PositioningError struct {
	Node   pyast.Node
	Pos    pyast.Pos
	Reason string
	Err    error
}

func (e *PositioningError) Error() string {
	kind, id := "node", pyast.NodeID(0)
	if e.Node != nil {
		kind, id = e.Node.Kind().String(), e.Node.Base().ID
	}
	msg := fmt.Sprintf("%s (id %d) at %v: %s", kind, id, e.Pos, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PositioningError) Unwrap() error { return e.Err }

// Build walks the tree rooted at root once and records every node.
func Build(file *source.File, root pyast.Node) (*Index, error) {
	ix := &Index{
		file:    file,
		root:    root,
		entries: make(map[pyast.Node]*Entry),
		byID:    make(map[pyast.NodeID]*Entry),
		spans:   btree.NewBTreeG(lessSpan),
	}
	lastEnd := make(map[pyast.Node]int)

	err := pyast.Walk(root, func(n, parent pyast.Node, field string, index int) error {
		entry, err := ix.record(n, parent, field, index)
		if err != nil {
			return err
		}
		if parent == nil || !entry.HasSpan {
			return nil
		}
		parentEntry := ix.entries[parent]
		if parentEntry.HasSpan && !parentEntry.Span.Contains(entry.Span) {
			return ix.errorf(n, nil, "span %v lies outside parent %s span %v",
				entry.Span, parent.Kind(), parentEntry.Span)
		}
		if prev, ok := lastEnd[parent]; ok && entry.Span.Start < prev {
			return ix.errorf(n, nil, "span %v overlaps or precedes the previous sibling", entry.Span)
		}
		lastEnd[parent] = entry.Span.End
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}

func (ix *Index) errorf(n pyast.Node, err error, format string, args ...any) *PositioningError {
	return &PositioningError{Node: n, Pos: n.Base().Pos, Reason: fmt.Sprintf(format, args...), Err: err}
}

func (ix *Index) record(n, parent pyast.Node, field string, index int) (*Entry, error) {
	base := n.Base()
	switch {
	case base.ID == 0:
		return nil, ix.errorf(n, nil, "node has no ID")
	case ix.entries[n] != nil:
		return nil, ix.errorf(n, nil, "node appears twice in the tree")
	case ix.byID[base.ID] != nil:
		return nil, ix.errorf(n, nil, "ID %d already used by %s", base.ID, ix.byID[base.ID].Node.Kind())
	}

	entry := &Entry{
		Node:        n,
		ID:          base.ID,
		Pos:         base.Pos,
		Fingerprint: pyast.Fingerprint(n),
		Paren:       base.Paren,
		Parent:      parent,
		Field:       field,
		Index:       index,
		Children:    pyast.Fields(n),
	}
	if parent != nil {
		entry.Depth = ix.entries[parent].Depth + 1
	}

	if !base.Pos.IsZero() {
		span, err := ix.span(n, base.Pos)
		if err != nil {
			return nil, err
		}
		entry.Span = span
		entry.HasSpan = true
		ix.spans.Set(entry)
	}

	ix.entries[n] = entry
	ix.byID[base.ID] = entry
	return entry, nil
}

func (ix *Index) span(n pyast.Node, pos pyast.Pos) (source.Span, error) {
	start, err := ix.file.Offset(pos.Line, pos.Col)
	if err != nil {
		return source.Span{}, ix.errorf(n, err, "invalid start")
	}
	end, err := ix.file.Offset(pos.EndLine, pos.EndCol)
	if err != nil {
		return source.Span{}, ix.errorf(n, err, "invalid end")
	}
	if start > end {
		return source.Span{}, ix.errorf(n, nil, "start %d is after end %d", start, end)
	}
	return ix.file.Span(start, end), nil
}

// lessSpan orders entries by start, then longest first, then outermost
// first.
func lessSpan(a, b *Entry) bool {
	switch {
	case a.Span.Start != b.Span.Start:
		return a.Span.Start < b.Span.Start
	case a.Span.End != b.Span.End:
		return a.Span.End > b.Span.End
	case a.Depth != b.Depth:
		return a.Depth < b.Depth
	default:
		return a.ID < b.ID
	}
}

// File returns the indexed source file.
func (ix *Index) File() *source.File { return ix.file }

// Root returns the root of the indexed tree.
func (ix *Index) Root() pyast.Node { return ix.root }

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.entries) }

// Lookup returns the entry of n. It fails for nodes that were never
// indexed and for indexed nodes whose ID has since changed.
func (ix *Index) Lookup(n pyast.Node) (*Entry, bool) {
	if n == nil {
		return nil, false
	}
	e, ok := ix.entries[n]
	if !ok || e.ID != n.Base().ID {
		return nil, false
	}
	return e, true
}

// Original returns the entry recorded for the node pointer n, even when n
// has since lost its ID. It is how the shape of the original tree is read
// back from Entry.Children.
func (ix *Index) Original(n pyast.Node) (*Entry, bool) {
	if n == nil {
		return nil, false
	}
	e, ok := ix.entries[n]
	return e, ok
}

// ByID returns the entry recorded for id.
func (ix *Index) ByID(id pyast.NodeID) (*Entry, bool) {
	e, ok := ix.byID[id]
	return e, ok
}

// Text returns the original source of e, or "" when e has no span.
func (ix *Index) Text(e *Entry) string {
	if !e.HasSpan {
		return ""
	}
	return e.Span.Text()
}

// All iterates over entries with spans in source order, outer nodes before
// the nodes they enclose.
func (ix *Index) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		ix.spans.Scan(yield)
	}
}

// At returns the entries whose span contains offset, outermost first.
func (ix *Index) At(offset int) []*Entry {
	var out []*Entry
	ix.spans.Scan(func(e *Entry) bool {
		if e.Span.Start > offset {
			return false
		}
		if offset < e.Span.End || (offset == e.Span.End && offset == e.Span.Start) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Overlapping returns the entries whose span shares at least one byte with
// span, in source order.
func (ix *Index) Overlapping(span source.Span) []*Entry {
	var out []*Entry
	ix.spans.Scan(func(e *Entry) bool {
		if e.Span.Start >= span.End && span.Len() > 0 {
			return false
		}
		if e.Span.Overlaps(span) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// ErrNotIndexed is returned by Require for a node without an entry.
var ErrNotIndexed = errors.New("node is not indexed")

// Require is Lookup that reports a missing entry as an error.
func (ix *Index) Require(n pyast.Node) (*Entry, error) {
	e, ok := ix.Lookup(n)
	if !ok {
		return nil, fmt.Errorf("%s: %w", n.Kind(), ErrNotIndexed)
	}
	return e, nil
}
