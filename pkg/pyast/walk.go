package pyast

import "errors"

// ErrSkipChildren may be returned by a WalkFunc to prune the walk below the
// current node. It is never returned by Walk.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is called for every node in pre-order. parent is nil for the
// root. Returning a non-nil error other than ErrSkipChildren stops the walk.
type WalkFunc func(n, parent Node, field string, index int) error

// Walk traverses the tree rooted at root in pre-order, source order. For
// nodes in single fields index is -1.
func Walk(root Node, fn WalkFunc) error {
	return walk(root, nil, "", -1, fn)
}

func walk(n, parent Node, field string, index int, fn WalkFunc) error {
	if err := fn(n, parent, field, index); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	for _, f := range Fields(n) {
		for i, c := range f.Nodes {
			idx := i
			if f.Role == RoleSingle {
				idx = -1
			}
			if err := walk(c, n, f.Name, idx, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inspect traverses the tree rooted at root in pre-order. If f returns
// false the children of the current node are skipped.
func Inspect(root Node, f func(Node) bool) {
	_ = Walk(root, func(n, _ Node, _ string, _ int) error {
		if !f(n) {
			return ErrSkipChildren
		}
		return nil
	})
}
