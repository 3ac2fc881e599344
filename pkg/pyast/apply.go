package pyast

import "fmt"

// ApplyFunc is invoked by Apply for each node n, even if n is nil, before
// and/or after the node's children. The return value controls the walk;
// see Apply.
type ApplyFunc func(*Cursor) bool

// Apply traverses a syntax tree recursively, starting with root, and
// calling pre and post for each node:
//
//   - If pre is not nil, it is called for each node before the node's
//     children are traversed (pre-order). If pre returns false, no
//     children are traversed, and post is not called for that node.
//   - If post is not nil, and a prior call of pre didn't return false,
//     post is called for each node after its children are traversed
//     (post-order). If post returns false, traversal is terminated and
//     Apply returns immediately.
//
// Only fields that hold nodes are traversed; nil single fields are
// visited with a nil Node so they can be filled via Replace.
//
// Children are traversed in source order. Replace, Delete, InsertBefore and
// InsertAfter may modify the tree during the walk; a replacement node is not
// walked. Apply returns the possibly replaced root.
func Apply(root Node, pre, post ApplyFunc) (result Node) {
	a := &applier{pre: pre, post: post, root: root}
	defer func() {
		if r := recover(); r != nil && r != errAbort {
			panic(r)
		}
		result = a.root
	}()
	a.apply(nil, nil, nil, root)
	return a.root
}

var errAbort = new(int) // sentinel for aborting the walk from post

// A Cursor describes a node encountered during Apply.
// Information about the node and its parent is available
// from the Node, Parent, Name and Index methods.
type Cursor struct {
	applier *applier
	parent  Node
	ref     *fieldRef
	iter    *iterator
	node    Node
}

// Node returns the current Node.
func (c *Cursor) Node() Node { return c.node }

// Parent returns the parent of the current Node, or nil for the root.
func (c *Cursor) Parent() Node { return c.parent }

// Name returns the name of the parent field that contains the current
// Node, or "" for the root.
func (c *Cursor) Name() string {
	if c.ref == nil {
		return ""
	}
	return c.ref.name
}

// Role returns the layout role of the field holding the current Node.
func (c *Cursor) Role() Role {
	if c.ref == nil {
		return RoleSingle
	}
	return c.ref.role
}

// Index reports the index >= 0 of the current Node in the sequence field
// that contains it, or a value < 0 if the current Node is not part of a
// sequence.
func (c *Cursor) Index() int {
	if c.iter != nil {
		return c.iter.index
	}
	return -1
}

// Replace replaces the current Node with n.
// The replacement node is not walked by Apply.
func (c *Cursor) Replace(n Node) {
	switch {
	case c.ref == nil:
		c.applier.root = n
	case c.ref.single != nil:
		if n == nil {
			*c.ref.single = nil
		} else {
			e, ok := n.(Expr)
			if !ok {
				panic(fmt.Sprintf("pyast: cannot place %s in field %s", n.Kind(), c.ref.name))
			}
			*c.ref.single = e
		}
	default:
		c.ref.seq.Set(c.iter.index, n)
	}
	c.node = n
}

// Delete deletes the current Node from its containing sequence, or clears
// the containing single field. It panics for the root.
func (c *Cursor) Delete() {
	switch {
	case c.ref == nil:
		panic("pyast: Delete of the root node")
	case c.ref.single != nil:
		*c.ref.single = nil
	default:
		c.ref.seq.Delete(c.iter.index)
		c.iter.step--
	}
	c.node = nil
}

// InsertAfter inserts n after the current Node in its containing sequence.
// The inserted node is not walked by Apply. It panics if the current Node
// is not part of a sequence.
func (c *Cursor) InsertAfter(n Node) {
	if c.iter == nil {
		panic("pyast: InsertAfter outside a sequence")
	}
	c.ref.seq.Insert(c.iter.index+1, n)
	c.iter.step++
}

// InsertBefore inserts n before the current Node in its containing
// sequence. The inserted node is not walked by Apply. It panics if the
// current Node is not part of a sequence.
func (c *Cursor) InsertBefore(n Node) {
	if c.iter == nil {
		panic("pyast: InsertBefore outside a sequence")
	}
	c.ref.seq.Insert(c.iter.index, n)
	c.iter.index++
}

type applier struct {
	pre, post ApplyFunc
	root      Node
	cursor    Cursor
	iter      iterator
}

type iterator struct {
	index, step int
}

func (a *applier) apply(parent Node, ref *fieldRef, iter *iterator, n Node) {
	saved := a.cursor
	a.cursor = Cursor{applier: a, parent: parent, ref: ref, iter: iter, node: n}

	if a.pre != nil && !a.pre(&a.cursor) {
		a.cursor = saved
		return
	}

	if n != nil {
		refs := refsOf(n)
		for i := range refs {
			r := &refs[i]
			if r.single != nil {
				a.apply(n, r, nil, *r.single)
				continue
			}
			a.applyList(n, r)
		}
	}

	if a.post != nil && !a.post(&a.cursor) {
		panic(errAbort)
	}

	a.cursor = saved
}

func (a *applier) applyList(parent Node, ref *fieldRef) {
	saved := a.iter
	a.iter.index = 0
	for a.iter.index < ref.seq.Len() {
		a.iter.step = 1
		a.apply(parent, ref, &a.iter, ref.seq.At(a.iter.index))
		a.iter.index += a.iter.step
	}
	a.iter = saved
}
