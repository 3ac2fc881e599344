package pyast

import (
	"strconv"
	"strings"
)

// Fingerprint returns a string that captures the kind and scalar attributes
// of n, excluding children, identity and position. Two nodes with equal
// fingerprints render identically given identical children.
func Fingerprint(n Node) string {
	var b strings.Builder
	b.WriteString(n.Kind().String())
	put := func(parts ...string) {
		for _, p := range parts {
			b.WriteByte('|')
			b.WriteString(p)
		}
	}
	switch n := n.(type) {
	case *AugAssign:
		put(n.Op)
	case *Global:
		put(strconv.FormatBool(n.Nonlocal))
		put(n.Names...)
	case *ImportFrom:
		put(n.Module, strconv.Itoa(n.Level))
	case *If:
		put(strconv.FormatBool(n.IsElif))
	case *FunctionDef:
		put(n.Name)
	case *ClassDef:
		put(n.Name)
	case *Alias:
		put(n.Name, n.AsName)
	case *Param:
		put(n.Star, n.Name)
	case *ExceptHandler:
		put(n.Name)
	case *Name:
		put(n.Ident)
	case *Constant:
		put(strconv.Itoa(int(n.Type)), n.Raw, n.Value)
	case *Attribute:
		put(n.Attr)
	case *Keyword:
		put(n.Arg)
	case *Starred:
		put(strconv.FormatBool(n.Double))
	case *BinOp:
		put(n.Op)
	case *UnaryOp:
		put(n.Op)
	case *Compare:
		put(n.Ops...)
	case *Tuple:
		put(strconv.FormatBool(n.Parens))
	case *Comp:
		put(strconv.Itoa(int(n.Form)), strconv.FormatBool(n.Parens))
	case *Yield:
		put(strconv.FormatBool(n.From))
	}
	return b.String()
}

// Equal reports whether a and b are structurally equal: same kinds, same
// scalar attributes and pairwise equal children. Identity, position and
// the Paren flag are ignored.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if Fingerprint(a) != Fingerprint(b) {
		return false
	}
	fa, fb := Fields(a), Fields(b)
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if len(fa[i].Nodes) != len(fb[i].Nodes) {
			return false
		}
		for j := range fa[i].Nodes {
			if !Equal(fa[i].Nodes[j], fb[i].Nodes[j]) {
				return false
			}
		}
	}
	return true
}
