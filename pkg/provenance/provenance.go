// Package provenance decides, for every node of a working tree, how its
// text can be produced: copied from the original source, spliced from
// original and new pieces, or generated from scratch.
package provenance

import (
	"fmt"

	"github.com/yaklabco/gotat/pkg/index"
	"github.com/yaklabco/gotat/pkg/pyast"
)

// Class is the provenance of a working node.
type Class uint8

const (
	// Synthetic nodes have no original: fresh nodes, clones, and nodes
	// whose ID was reset.
	Synthetic Class = iota

	// Unchanged nodes are originals whose whole subtree is intact; their
	// original text can be copied verbatim.
	Unchanged

	// Modified nodes are originals whose own attributes or subtree changed.
	Modified
)

func (c Class) String() string {
	switch c {
	case Synthetic:
		return "synthetic"
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// Info is the classification of one working node.
type Info struct {
	Class Class

	// Entry is the index entry of an original node; nil for synthetic
	// nodes.
	Entry *index.Entry

	// Dirty is set when a scalar attribute or the recorded position of the
	// node was changed in place.
	Dirty bool

	// Moved is set when the node now sits under a different parent or in
	// a different field.
	Moved bool

	// Reshaped is set when any child list differs from the original.
	Reshaped bool
}

// Stats counts nodes per class.
type Stats struct {
	Synthetic int
	Unchanged int
	Modified  int
}

// Result holds the classification of a working tree.
type Result struct {
	idx   *index.Index
	infos map[pyast.Node]*Info
	stats Stats
}

// TreeError reports a working tree that is not a tree.
type TreeError struct {
	Node   pyast.Node
	Reason string
}

func (e *TreeError) Error() string {
	if e.Node == nil {
		return "invalid tree: " + e.Reason
	}
	return fmt.Sprintf("invalid tree: %s (id %d): %s", e.Node.Kind(), e.Node.Base().ID, e.Reason)
}

// Classify walks the working tree rooted at root and classifies every node
// against idx.
func Classify(idx *index.Index, root pyast.Node) (*Result, error) {
	if root == nil {
		return nil, &TreeError{Reason: "nil root"}
	}
	c := &classifier{
		res: &Result{idx: idx, infos: make(map[pyast.Node]*Info)},
	}
	if _, err := c.visit(root, nil, ""); err != nil {
		return nil, err
	}
	return c.res, nil
}

type classifier struct {
	res *Result
}

func (c *classifier) visit(n, parent pyast.Node, field string) (*Info, error) {
	if _, seen := c.res.infos[n]; seen {
		return nil, &TreeError{Node: n, Reason: "node is reachable more than once"}
	}
	info := &Info{}
	c.res.infos[n] = info

	fields := pyast.Fields(n)
	intact := true
	for _, f := range fields {
		for _, child := range f.Nodes {
			ci, err := c.visit(child, n, f.Name)
			if err != nil {
				return nil, err
			}
			if ci.Class != Unchanged {
				intact = false
			}
		}
	}

	entry, ok := c.res.idx.Lookup(n)
	if !ok {
		info.Class = Synthetic
		c.res.stats.Synthetic++
		return info, nil
	}

	info.Entry = entry
	info.Dirty = pyast.Fingerprint(n) != entry.Fingerprint || n.Base().Pos != entry.Pos
	info.Reshaped = !sameChildren(fields, entry.Children)
	info.Moved = entry.Parent != parent || entry.Field != field

	if !info.Moved && parent != nil && entry.HasSpan {
		if pe, ok := c.res.idx.Lookup(parent); ok && pe.HasSpan && !pe.Span.Contains(entry.Span) {
			return nil, &index.PositioningError{
				Node:   n,
				Pos:    entry.Pos,
				Reason: fmt.Sprintf("span %v lies outside parent span %v", entry.Span, pe.Span),
			}
		}
	}

	if intact && !info.Dirty && !info.Reshaped && entry.HasSpan {
		info.Class = Unchanged
		c.res.stats.Unchanged++
	} else {
		info.Class = Modified
		c.res.stats.Modified++
	}
	return info, nil
}

func sameChildren(now, then []pyast.Field) bool {
	if len(now) != len(then) {
		return false
	}
	for i := range now {
		a, b := now[i].Nodes, then[i].Nodes
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// Info returns the classification of n. Nodes outside the classified tree
// are reported as synthetic.
func (r *Result) Info(n pyast.Node) Info {
	if info, ok := r.infos[n]; ok {
		return *info
	}
	return Info{Class: Synthetic}
}

// Class returns the class of n.
func (r *Result) Class(n pyast.Node) Class {
	return r.Info(n).Class
}

// Index returns the index the tree was classified against.
func (r *Result) Index() *index.Index { return r.idx }

// Stats returns the number of nodes per class.
func (r *Result) Stats() Stats { return r.stats }
