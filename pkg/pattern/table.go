package pattern

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/gotat/pkg/pyast"
)

// Stats counts the rewrites of a table.
type Stats struct {
	Replaced int
	Deleted  int

	// ByRule counts matches per rule name.
	ByRule map[string]int
}

// Total returns the number of rewrites.
func (s Stats) Total() int { return s.Replaced + s.Deleted }

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Replaced += other.Replaced
	s.Deleted += other.Deleted
	for name, n := range other.ByRule {
		s.count(name, n)
	}
}

func (s *Stats) count(rule string, n int) {
	if s.ByRule == nil {
		s.ByRule = make(map[string]int)
	}
	s.ByRule[rule] += n
}

// Table is an ordered list of rules. For every expression the first
// matching rule wins.
type Table struct {
	rules  []Rule
	byName map[string]int
}

// NewTable validates rules and returns a table holding them in order.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{byName: make(map[string]int)}
	var errs []error
	for _, r := range rules {
		if err := t.Add(r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Add appends a rule. Rule names must be unique within a table.
func (t *Table) Add(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, dup := t.byName[r.Name]; dup {
		return &RuleError{Rule: r.Name, Reason: "duplicate rule name"}
	}
	t.byName[r.Name] = len(t.rules)
	t.rules = append(t.rules, r)
	return nil
}

// Get returns the rule called name.
func (t *Table) Get(name string) (Rule, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Rule{}, false
	}
	return t.rules[i], true
}

// Rules returns the rules in match order.
func (t *Table) Rules() []Rule { return slices.Clone(t.rules) }

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Rewrite applies the table to every expression under root, in place and
// pre-order. The captures of a match are rewritten before they are
// substituted, so nested matches are handled; a replacement is not
// rewritten again. The root itself is never replaced.
func (t *Table) Rewrite(root pyast.Node) (Stats, error) {
	w := &rewriter{table: t}
	result := pyast.Apply(root, w.visit, nil)
	if w.err == nil && result != root {
		w.err = &RuleError{Rule: w.last, Reason: "cannot replace the root of the tree"}
	}
	return w.stats, w.err
}

type rewriter struct {
	table *Table
	stats Stats
	err   error

	// skip is descended into without matching it again.
	skip pyast.Node

	// last is the name of the last rule that matched.
	last string
}

func (w *rewriter) visit(c *pyast.Cursor) bool {
	if w.err != nil {
		return false
	}
	n := c.Node()
	if n == nil || n == w.skip {
		return true
	}

	if stmt, ok := n.(*pyast.ExprStmt); ok {
		repl, matched := w.apply(stmt.Value)
		switch {
		case !matched:
			w.skip = stmt.Value
			return true
		case w.err != nil:
		case repl == nil:
			c.Delete()
			w.stats.Deleted++
		default:
			stmt.Value = repl
			w.stats.Replaced++
		}
		return false
	}

	x, ok := n.(pyast.Expr)
	if !ok {
		return true
	}
	repl, matched := w.apply(x)
	switch {
	case !matched:
		return true
	case w.err != nil:
	case repl != nil:
		c.Replace(repl)
		w.stats.Replaced++
	case c.Role() == pyast.RoleList && c.Index() >= 0:
		c.Delete()
		w.stats.Deleted++
	default:
		w.err = w.undeletable(x, c.Parent(), c.Name())
	}
	return false
}

func (w *rewriter) undeletable(x pyast.Expr, parent pyast.Node, field string) error {
	where := "the root"
	if parent != nil {
		where = fmt.Sprintf("%s.%s", parent.Kind(), field)
	}
	return &RuleError{Rule: w.last, Reason: fmt.Sprintf("cannot delete %s from %s", x.Kind(), where)}
}

// apply runs the first matching rule on x. A nil replacement of a match
// means deletion.
func (w *rewriter) apply(x pyast.Expr) (pyast.Expr, bool) {
	for _, r := range w.table.rules {
		caps, ok := r.Match.Match(x)
		if !ok {
			continue
		}
		w.last = r.Name
		w.stats.count(r.Name, 1)
		w.captures(caps)
		if w.err != nil {
			return nil, true
		}
		w.last = r.Name

		var repl pyast.Expr
		var err error
		switch {
		case r.Delete:
		case r.Func != nil:
			repl, err = r.Func(caps)
		default:
			repl, err = Substitute(r.Replace, caps)
		}
		if err != nil {
			w.err = &RuleError{Rule: r.Name, Reason: "cannot build replacement", Err: err}
		}
		return repl, true
	}
	return nil, false
}

// captures rewrites the captured expressions in place of the captures.
func (w *rewriter) captures(caps Captures) {
	for _, name := range slices.Sorted(maps.Keys(caps)) {
		c := caps[name]
		switch c.Kind {
		case CaptureExpr:
			x, kept := w.sub(c.Expr)
			if w.err != nil {
				return
			}
			if !kept {
				w.err = w.undeletable(c.Expr, nil, "")
				return
			}
			c.Expr = x
		case CaptureList:
			list := make([]pyast.Expr, 0, len(c.List))
			for _, e := range c.List {
				x, kept := w.sub(e)
				if w.err != nil {
					return
				}
				if kept {
					list = append(list, x)
				}
			}
			c.List = list
		case CaptureAttr:
		}
		caps[name] = c
	}
}

// sub rewrites a detached expression. kept is false when a rule deleted it.
func (w *rewriter) sub(x pyast.Expr) (_ pyast.Expr, kept bool) {
	repl, matched := w.apply(x)
	if matched {
		if w.err != nil {
			return nil, false
		}
		if repl == nil {
			w.stats.Deleted++
			return nil, false
		}
		w.stats.Replaced++
		return repl, true
	}
	root := pyast.Apply(x, func(c *pyast.Cursor) bool {
		if c.Node() == x {
			return true
		}
		return w.visit(c)
	}, nil)
	return root.(pyast.Expr), true
}
