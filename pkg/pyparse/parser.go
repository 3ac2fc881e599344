// Package pyparse parses the supported Python subset into pyast trees.
//
// Positions follow the pyast conventions: every node's Pos covers the exact
// source text that produces it. Grouping parentheses around an expression
// are excluded from its Pos and recorded in NodeBase.Paren instead; the
// brackets of tuples, lists, sets, dicts and comprehensions are part of
// their node. IDs are assigned in pre-order, starting at 1 for the module.
package pyparse

import (
	"slices"
	"strings"

	"github.com/yaklabco/gotat/pkg/pyast"
	"github.com/yaklabco/gotat/pkg/source"
)

var keywords = map[string]bool{ //nolint:gochecknoglobals // lookup table
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// IsKeyword reports whether s is a reserved word of the supported grammar.
func IsKeyword(s string) bool {
	return keywords[s]
}

var augOps = []string{ //nolint:gochecknoglobals // lookup table
	"+=", "-=", "*=", "/=", "//=", "%=", "@=", "&=", "|=", "^=", ">>=", "<<=", "**=",
}

// Parse parses the content of file as a module.
func Parse(file *source.File) (_ *pyast.Module, err error) {
	toks, err := tokenize(file)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, toks: toks}
	defer p.handleBailout(&err)

	mod := p.module()
	assignIDs(mod)
	return mod, nil
}

// ParseExpr parses the content of file as a single expression (a bare
// tuple is allowed).
func ParseExpr(file *source.File) (_ pyast.Expr, err error) {
	toks, err := tokenize(file)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, toks: toks}
	defer p.handleBailout(&err)

	for p.tok().kind == tokNewline || p.tok().kind == tokIndent {
		p.next()
	}
	var expr pyast.Expr
	if p.isKw("yield") {
		expr = p.yieldExpr()
	} else {
		expr = p.testList()
	}
	for p.tok().kind == tokNewline || p.tok().kind == tokDedent {
		p.next()
	}
	if p.tok().kind != tokEOF {
		p.errorf(p.tok(), "unexpected %s after expression", describe(p.tok()))
	}
	assignIDs(expr)
	return expr, nil
}

func assignIDs(root pyast.Node) {
	var next pyast.NodeID
	pyast.Inspect(root, func(n pyast.Node) bool {
		next++
		n.Base().ID = next
		return true
	})
}

type bailout struct{ err *ParseError }

type parser struct {
	file    *source.File
	toks    []token
	pos     int
	lastEnd int
}

func (p *parser) handleBailout(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *parser) errorf(t token, format string, args ...any) {
	panic(bailout{newError(p.file, t.start, format, args...)})
}

func describe(t token) string {
	switch t.kind {
	case tokName, tokNumber, tokString, tokOp:
		return "'" + t.text + "'"
	default:
		return t.kind.String()
	}
}

// finish sets the Pos of n to [start, end of the last consumed token).
func finish[T pyast.Node](p *parser, start int, n T) T {
	line, col := p.file.LineCol(start)
	endLine, endCol := p.file.LineCol(p.lastEnd)
	n.Base().Pos = pyast.Pos{Line: line, Col: col, EndLine: endLine, EndCol: endCol}
	return n
}

func (p *parser) tok() token { return p.toks[p.pos] }

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	switch t.kind {
	case tokName, tokNumber, tokString, tokOp:
		p.lastEnd = t.end
	}
	return t
}

func (p *parser) isOp(s string) bool {
	t := p.tok()
	return t.kind == tokOp && t.text == s
}

func (p *parser) isKw(s string) bool {
	t := p.tok()
	return t.kind == tokName && t.text == s
}

func (p *parser) gotOp(s string) bool {
	if p.isOp(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) gotKw(s string) bool {
	if p.isKw(s) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectOp(s string) token {
	if !p.isOp(s) {
		p.errorf(p.tok(), "expected '%s', found %s", s, describe(p.tok()))
	}
	return p.next()
}

func (p *parser) expectKw(s string) token {
	if !p.isKw(s) {
		p.errorf(p.tok(), "expected '%s', found %s", s, describe(p.tok()))
	}
	return p.next()
}

func (p *parser) expectNewline() {
	switch p.tok().kind {
	case tokNewline:
		p.next()
	case tokEOF:
	default:
		p.errorf(p.tok(), "expected newline, found %s", describe(p.tok()))
	}
}

func (p *parser) ident() string {
	t := p.tok()
	if t.kind != tokName || keywords[t.text] {
		p.errorf(t, "expected name, found %s", describe(t))
	}
	p.next()
	return t.text
}

func (p *parser) dottedName() string {
	parts := []string{p.ident()}
	for p.gotOp(".") {
		parts = append(parts, p.ident())
	}
	return strings.Join(parts, ".")
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) module() *pyast.Module {
	mod := &pyast.Module{}
	for p.tok().kind != tokEOF {
		if p.tok().kind == tokNewline {
			p.next()
			continue
		}
		mod.Body = append(mod.Body, p.statement()...)
	}
	endLine, endCol := p.file.LineCol(p.file.Len())
	mod.Pos = pyast.Pos{Line: 1, Col: 0, EndLine: endLine, EndCol: endCol}
	return mod
}

func (p *parser) statement() []pyast.Stmt {
	t := p.tok()
	switch t.kind {
	case tokIndent:
		p.errorf(t, "unexpected indent")
	case tokDedent:
		p.errorf(t, "unexpected dedent")
	case tokOp:
		if t.text == "@" {
			return []pyast.Stmt{p.decorated()}
		}
	case tokName:
		switch t.text {
		case "if":
			return []pyast.Stmt{p.ifStmt()}
		case "while":
			return []pyast.Stmt{p.whileStmt()}
		case "for":
			return []pyast.Stmt{p.forStmt()}
		case "try":
			return []pyast.Stmt{p.tryStmt()}
		case "with":
			return []pyast.Stmt{p.withStmt()}
		case "def":
			return []pyast.Stmt{p.funcDef(t.start, nil)}
		case "class":
			return []pyast.Stmt{p.classDef(t.start, nil)}
		case "async":
			p.errorf(t, "async statements are not supported")
		}
	}
	return p.simpleLine()
}

func (p *parser) simpleLine() []pyast.Stmt {
	var out []pyast.Stmt
	for {
		out = append(out, p.simpleStmt())
		if !p.gotOp(";") || p.tok().kind == tokNewline || p.tok().kind == tokEOF {
			break
		}
	}
	p.expectNewline()
	return out
}

func (p *parser) simpleStmt() pyast.Stmt {
	t := p.tok()
	start := t.start
	if t.kind == tokName {
		switch t.text {
		case "pass":
			p.next()
			return finish(p, start, &pyast.Pass{})
		case "break":
			p.next()
			return finish(p, start, &pyast.Break{})
		case "continue":
			p.next()
			return finish(p, start, &pyast.Continue{})
		case "return":
			p.next()
			n := &pyast.Return{}
			if p.startsExpr() {
				n.Value = p.testList()
			}
			return finish(p, start, n)
		case "raise":
			p.next()
			n := &pyast.Raise{}
			if p.startsExpr() {
				n.Exc = p.test()
				if p.gotKw("from") {
					n.Cause = p.test()
				}
			}
			return finish(p, start, n)
		case "assert":
			p.next()
			n := &pyast.Assert{Test: p.test()}
			if p.gotOp(",") {
				n.Msg = p.test()
			}
			return finish(p, start, n)
		case "del":
			p.next()
			n := &pyast.Del{}
			for {
				n.Targets = append(n.Targets, p.expr())
				if !p.gotOp(",") || !p.startsExpr() {
					break
				}
			}
			return finish(p, start, n)
		case "global", "nonlocal":
			p.next()
			n := &pyast.Global{Nonlocal: t.text == "nonlocal"}
			for {
				n.Names = append(n.Names, p.ident())
				if !p.gotOp(",") {
					break
				}
			}
			return finish(p, start, n)
		case "import":
			return p.importStmt()
		case "from":
			return p.fromStmt()
		}
	}
	return p.exprStmt()
}

func (p *parser) exprStmt() pyast.Stmt {
	start := p.tok().start
	first := p.assignValue()

	switch {
	case p.isOp("="):
		exprs := []pyast.Expr{first}
		for p.gotOp("=") {
			exprs = append(exprs, p.assignValue())
		}
		n := &pyast.Assign{Targets: exprs[:len(exprs)-1], Value: exprs[len(exprs)-1]}
		return finish(p, start, n)
	case p.tok().kind == tokOp && slices.Contains(augOps, p.tok().text):
		op := p.next().text
		n := &pyast.AugAssign{Target: first, Op: op, Value: p.assignValue()}
		return finish(p, start, n)
	case p.isOp(":"):
		p.next()
		n := &pyast.AnnAssign{Target: first, Annotation: p.test()}
		if p.gotOp("=") {
			n.Value = p.assignValue()
		}
		return finish(p, start, n)
	}
	return finish(p, start, &pyast.ExprStmt{Value: first})
}

func (p *parser) assignValue() pyast.Expr {
	if p.isKw("yield") {
		return p.yieldExpr()
	}
	return p.testList()
}

func (p *parser) importStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.Import{}
	for {
		as := p.tok().start
		alias := &pyast.Alias{Name: p.dottedName()}
		if p.gotKw("as") {
			alias.AsName = p.ident()
		}
		n.Names = append(n.Names, finish(p, as, alias))
		if !p.gotOp(",") {
			break
		}
	}
	return finish(p, start, n)
}

func (p *parser) fromStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.ImportFrom{}
	for {
		if p.gotOp(".") {
			n.Level++
		} else if p.gotOp("...") {
			n.Level += 3
		} else {
			break
		}
	}
	if !p.isKw("import") {
		n.Module = p.dottedName()
	}
	p.expectKw("import")

	if p.isOp("*") {
		t := p.next()
		n.Names = []*pyast.Alias{finish(p, t.start, &pyast.Alias{Name: "*"})}
		return finish(p, start, n)
	}

	paren := p.gotOp("(")
	for {
		as := p.tok().start
		alias := &pyast.Alias{Name: p.ident()}
		if p.gotKw("as") {
			alias.AsName = p.ident()
		}
		n.Names = append(n.Names, finish(p, as, alias))
		if !p.gotOp(",") || (paren && p.isOp(")")) {
			break
		}
	}
	if paren {
		p.expectOp(")")
	}
	return finish(p, start, n)
}

// suite parses ":" followed by an indented block or by simple statements on
// the same line.
func (p *parser) suite() []pyast.Stmt {
	p.expectOp(":")
	if p.tok().kind != tokNewline {
		return p.simpleLine()
	}
	p.next()
	if p.tok().kind != tokIndent {
		p.errorf(p.tok(), "expected an indented block")
	}
	p.next()
	var body []pyast.Stmt
	for p.tok().kind != tokDedent && p.tok().kind != tokEOF {
		body = append(body, p.statement()...)
	}
	if p.tok().kind == tokDedent {
		p.next()
	}
	return body
}

func (p *parser) ifStmt() *pyast.If {
	t := p.next()
	n := &pyast.If{IsElif: t.text == "elif", Test: p.test()}
	n.Body = p.suite()
	switch {
	case p.isKw("elif"):
		n.Orelse = []pyast.Stmt{p.ifStmt()}
	case p.gotKw("else"):
		n.Orelse = p.suite()
	}
	return finish(p, t.start, n)
}

func (p *parser) whileStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.While{Test: p.test()}
	n.Body = p.suite()
	if p.gotKw("else") {
		n.Orelse = p.suite()
	}
	return finish(p, start, n)
}

func (p *parser) forStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.For{Target: p.targetList()}
	p.expectKw("in")
	n.Iter = p.testList()
	n.Body = p.suite()
	if p.gotKw("else") {
		n.Orelse = p.suite()
	}
	return finish(p, start, n)
}

func (p *parser) tryStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.Try{Body: p.suite()}
	for p.isKw("except") {
		hs := p.next().start
		h := &pyast.ExceptHandler{}
		if !p.isOp(":") {
			h.Type = p.test()
			if p.gotKw("as") {
				h.Name = p.ident()
			}
		}
		h.Body = p.suite()
		n.Handlers = append(n.Handlers, finish(p, hs, h))
	}
	if p.isKw("else") {
		if len(n.Handlers) == 0 {
			p.errorf(p.tok(), "'else' without 'except'")
		}
		p.next()
		n.Orelse = p.suite()
	}
	if p.gotKw("finally") {
		n.Finalbody = p.suite()
	}
	if len(n.Handlers) == 0 && len(n.Finalbody) == 0 {
		p.errorf(p.tok(), "expected 'except' or 'finally' block")
	}
	return finish(p, start, n)
}

func (p *parser) withStmt() pyast.Stmt {
	start := p.next().start
	n := &pyast.With{}
	for {
		is := p.tok().start
		item := &pyast.WithItem{Context: p.test()}
		if p.gotKw("as") {
			item.Vars = p.expr()
		}
		n.Items = append(n.Items, finish(p, is, item))
		if !p.gotOp(",") {
			break
		}
	}
	n.Body = p.suite()
	return finish(p, start, n)
}

func (p *parser) decorated() pyast.Stmt {
	start := p.tok().start
	var decos []pyast.Expr
	for p.gotOp("@") {
		decos = append(decos, p.test())
		if p.tok().kind != tokNewline {
			p.errorf(p.tok(), "expected newline after decorator, found %s", describe(p.tok()))
		}
		p.next()
	}
	switch {
	case p.isKw("def"):
		return p.funcDef(start, decos)
	case p.isKw("class"):
		return p.classDef(start, decos)
	default:
		p.errorf(p.tok(), "expected 'def' or 'class' after decorator, found %s", describe(p.tok()))
		return nil
	}
}

func (p *parser) funcDef(start int, decos []pyast.Expr) pyast.Stmt {
	p.expectKw("def")
	n := &pyast.FunctionDef{Decorators: decos, Name: p.ident()}
	p.expectOp("(")
	n.Params = p.params(")", true)
	p.expectOp(")")
	if p.gotOp("->") {
		n.Returns = p.test()
	}
	n.Body = p.suite()
	return finish(p, start, n)
}

func (p *parser) classDef(start int, decos []pyast.Expr) pyast.Stmt {
	p.expectKw("class")
	n := &pyast.ClassDef{Decorators: decos, Name: p.ident()}
	if p.gotOp("(") {
		n.Bases = p.callArgs(")")
		p.expectOp(")")
	}
	n.Body = p.suite()
	return finish(p, start, n)
}

// params parses a parameter list up to, but not including, closer.
func (p *parser) params(closer string, annotated bool) []*pyast.Param {
	var out []*pyast.Param
	annotation := func(prm *pyast.Param) {
		if annotated && p.gotOp(":") {
			prm.Annotation = p.test()
		}
	}
	for !p.isOp(closer) {
		start := p.tok().start
		prm := &pyast.Param{}
		switch {
		case p.gotOp("**"):
			prm.Star = "**"
			prm.Name = p.ident()
			annotation(prm)
		case p.gotOp("*"):
			prm.Star = "*"
			if t := p.tok(); t.kind == tokName && !keywords[t.text] {
				prm.Name = p.ident()
				annotation(prm)
			}
		case p.gotOp("/"):
			prm.Star = "/"
		default:
			prm.Name = p.ident()
			annotation(prm)
			if p.gotOp("=") {
				prm.Default = p.test()
			}
		}
		out = append(out, finish(p, start, prm))
		if !p.gotOp(",") {
			break
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) startsExpr() bool {
	t := p.tok()
	switch t.kind {
	case tokName:
		if !keywords[t.text] {
			return true
		}
		switch t.text {
		case "None", "True", "False", "not", "lambda":
			return true
		}
	case tokNumber, tokString:
		return true
	case tokOp:
		switch t.text {
		case "(", "[", "{", "-", "+", "~", "*", "...":
			return true
		}
	}
	return false
}

// testList parses one or more comma-separated expressions. More than one,
// or a trailing comma, yields an unparenthesized Tuple.
func (p *parser) testList() pyast.Expr {
	start := p.tok().start
	first := p.testOrStar()
	if !p.isOp(",") {
		return first
	}
	elts := []pyast.Expr{first}
	for p.gotOp(",") {
		if !p.startsExpr() {
			break
		}
		elts = append(elts, p.testOrStar())
	}
	return finish(p, start, &pyast.Tuple{Elts: elts})
}

// targetList is testList at the precedence of a for target.
func (p *parser) targetList() pyast.Expr {
	start := p.tok().start
	item := func() pyast.Expr {
		if p.isOp("*") {
			s := p.next().start
			return finish(p, s, &pyast.Starred{Value: p.expr()})
		}
		return p.expr()
	}
	first := item()
	if !p.isOp(",") {
		return first
	}
	elts := []pyast.Expr{first}
	for p.gotOp(",") {
		if !p.startsExpr() {
			break
		}
		elts = append(elts, item())
	}
	return finish(p, start, &pyast.Tuple{Elts: elts})
}

func (p *parser) testOrStar() pyast.Expr {
	if p.isOp("*") {
		start := p.next().start
		return finish(p, start, &pyast.Starred{Value: p.expr()})
	}
	return p.test()
}

func (p *parser) yieldExpr() *pyast.Yield {
	start := p.next().start
	n := &pyast.Yield{}
	switch {
	case p.gotKw("from"):
		n.From = true
		n.Value = p.test()
	case p.startsExpr():
		n.Value = p.testList()
	}
	return finish(p, start, n)
}

func (p *parser) test() pyast.Expr {
	if p.isKw("lambda") {
		return p.lambda()
	}
	start := p.tok().start
	body := p.orTest()
	if !p.gotKw("if") {
		return body
	}
	n := &pyast.IfExp{Body: body, Test: p.orTest()}
	p.expectKw("else")
	n.Orelse = p.test()
	return finish(p, start, n)
}

func (p *parser) lambda() pyast.Expr {
	start := p.next().start
	n := &pyast.Lambda{Params: p.params(":", false)}
	p.expectOp(":")
	n.Body = p.test()
	return finish(p, start, n)
}

func (p *parser) orTest() pyast.Expr {
	return p.boolOp("or", p.andTest)
}

func (p *parser) andTest() pyast.Expr {
	return p.boolOp("and", p.notTest)
}

func (p *parser) boolOp(op string, operand func() pyast.Expr) pyast.Expr {
	start := p.tok().start
	left := operand()
	for p.gotKw(op) {
		left = finish(p, start, &pyast.BinOp{Left: left, Op: op, Right: operand()})
	}
	return left
}

func (p *parser) notTest() pyast.Expr {
	if p.isKw("not") {
		start := p.next().start
		return finish(p, start, &pyast.UnaryOp{Op: "not", Operand: p.notTest()})
	}
	return p.comparison()
}

func (p *parser) comparison() pyast.Expr {
	start := p.tok().start
	left := p.expr()
	var n *pyast.Compare
	for {
		op, ok := p.compOp()
		if !ok {
			break
		}
		if n == nil {
			n = &pyast.Compare{Left: left}
		}
		n.Ops = append(n.Ops, op)
		n.Comparators = append(n.Comparators, p.expr())
	}
	if n == nil {
		return left
	}
	return finish(p, start, n)
}

func (p *parser) compOp() (string, bool) {
	t := p.tok()
	switch {
	case t.kind == tokOp:
		switch t.text {
		case "<", ">", "==", ">=", "<=", "!=":
			p.next()
			return t.text, true
		}
	case p.isKw("in"):
		p.next()
		return "in", true
	case p.isKw("not") && p.peek(1).kind == tokName && p.peek(1).text == "in":
		p.next()
		p.next()
		return "not in", true
	case p.isKw("is"):
		p.next()
		if p.gotKw("not") {
			return "is not", true
		}
		return "is", true
	}
	return "", false
}

func (p *parser) binary(ops []string, operand func() pyast.Expr) pyast.Expr {
	start := p.tok().start
	left := operand()
	for p.tok().kind == tokOp && slices.Contains(ops, p.tok().text) {
		op := p.next().text
		left = finish(p, start, &pyast.BinOp{Left: left, Op: op, Right: operand()})
	}
	return left
}

func (p *parser) expr() pyast.Expr    { return p.binary([]string{"|"}, p.xorExpr) }
func (p *parser) xorExpr() pyast.Expr { return p.binary([]string{"^"}, p.andExpr) }
func (p *parser) andExpr() pyast.Expr { return p.binary([]string{"&"}, p.shiftExpr) }
func (p *parser) shiftExpr() pyast.Expr {
	return p.binary([]string{"<<", ">>"}, p.arithExpr)
}
func (p *parser) arithExpr() pyast.Expr { return p.binary([]string{"+", "-"}, p.term) }
func (p *parser) term() pyast.Expr {
	return p.binary([]string{"*", "/", "//", "%", "@"}, p.factor)
}

func (p *parser) factor() pyast.Expr {
	t := p.tok()
	if t.kind == tokOp && (t.text == "+" || t.text == "-" || t.text == "~") {
		p.next()
		return finish(p, t.start, &pyast.UnaryOp{Op: t.text, Operand: p.factor()})
	}
	return p.power()
}

func (p *parser) power() pyast.Expr {
	start := p.tok().start
	base := p.atomExpr()
	if !p.gotOp("**") {
		return base
	}
	return finish(p, start, &pyast.BinOp{Left: base, Op: "**", Right: p.factor()})
}

func (p *parser) atomExpr() pyast.Expr {
	start := p.tok().start
	expr := p.atom()
	for {
		switch {
		case p.gotOp("("):
			call := &pyast.Call{Func: expr, Args: p.callArgs(")")}
			p.expectOp(")")
			expr = finish(p, start, call)
		case p.gotOp("["):
			sub := &pyast.Subscript{Value: expr, Index: p.subscriptList()}
			p.expectOp("]")
			expr = finish(p, start, sub)
		case p.gotOp("."):
			expr = finish(p, start, &pyast.Attribute{Value: expr, Attr: p.ident()})
		default:
			return expr
		}
	}
}

// callArgs parses call arguments (or class bases) up to, but not
// including, closer.
func (p *parser) callArgs(closer string) []pyast.Expr {
	var args []pyast.Expr
	for !p.isOp(closer) {
		start := p.tok().start
		var arg pyast.Expr
		switch {
		case p.gotOp("*"):
			arg = finish(p, start, &pyast.Starred{Value: p.test()})
		case p.gotOp("**"):
			arg = finish(p, start, &pyast.Starred{Double: true, Value: p.test()})
		case p.tok().kind == tokName && !keywords[p.tok().text] &&
			p.peek(1).kind == tokOp && p.peek(1).text == "=":
			name := p.next().text
			p.next()
			arg = finish(p, start, &pyast.Keyword{Arg: name, Value: p.test()})
		default:
			arg = p.test()
			if p.isKw("for") {
				gen := &pyast.Comp{Form: pyast.CompGen, Elt: arg, Generators: p.compFor()}
				arg = finish(p, start, gen)
			}
		}
		args = append(args, arg)
		if !p.gotOp(",") {
			break
		}
	}
	return args
}

func (p *parser) compFor() []*pyast.Comprehension {
	var gens []*pyast.Comprehension
	for p.isKw("for") {
		start := p.next().start
		c := &pyast.Comprehension{Target: p.targetList()}
		p.expectKw("in")
		c.Iter = p.orTest()
		for p.gotKw("if") {
			c.Ifs = append(c.Ifs, p.orTest())
		}
		gens = append(gens, finish(p, start, c))
	}
	return gens
}

func (p *parser) subscriptList() pyast.Expr {
	start := p.tok().start
	first := p.subscriptItem()
	if !p.isOp(",") {
		return first
	}
	elts := []pyast.Expr{first}
	for p.gotOp(",") {
		if p.isOp("]") {
			break
		}
		elts = append(elts, p.subscriptItem())
	}
	return finish(p, start, &pyast.Tuple{Elts: elts})
}

func (p *parser) subscriptItem() pyast.Expr {
	start := p.tok().start
	var lower pyast.Expr
	if !p.isOp(":") {
		lower = p.test()
		if !p.isOp(":") {
			return lower
		}
	}
	p.expectOp(":")
	n := &pyast.Slice{Lower: lower}
	if p.startsExpr() {
		n.Upper = p.test()
	}
	if p.gotOp(":") && p.startsExpr() {
		n.Step = p.test()
	}
	return finish(p, start, n)
}

func (p *parser) atom() pyast.Expr {
	t := p.tok()
	switch t.kind {
	case tokName:
		switch t.text {
		case "None":
			return p.keywordConst(pyast.ConstNone)
		case "True":
			return p.keywordConst(pyast.ConstTrue)
		case "False":
			return p.keywordConst(pyast.ConstFalse)
		}
		if keywords[t.text] {
			p.errorf(t, "unexpected keyword '%s'", t.text)
		}
		p.next()
		return finish(p, t.start, &pyast.Name{Ident: t.text})
	case tokNumber:
		p.next()
		return finish(p, t.start, &pyast.Constant{Type: numberKind(t.text), Raw: t.text, Value: t.text})
	case tokString:
		return p.stringLit()
	case tokOp:
		switch t.text {
		case "(":
			return p.parenAtom()
		case "[":
			return p.listAtom()
		case "{":
			return p.braceAtom()
		case "...":
			p.next()
			return finish(p, t.start, &pyast.Constant{Type: pyast.ConstEllipsis, Raw: "...", Value: "..."})
		}
	}
	p.errorf(t, "unexpected %s", describe(t))
	return nil
}

func (p *parser) keywordConst(kind pyast.ConstKind) pyast.Expr {
	t := p.next()
	return finish(p, t.start, &pyast.Constant{Type: kind, Raw: t.text, Value: t.text})
}

// stringLit parses one or more adjacent string literals into one Constant.
func (p *parser) stringLit() pyast.Expr {
	start := p.tok().start
	kind := pyast.ConstString
	var value strings.Builder
	for i := 0; p.tok().kind == tokString; i++ {
		t := p.next()
		prefix, body := splitString(t.text)
		if i == 0 && strings.ContainsAny(prefix, "bB") {
			kind = pyast.ConstBytes
		}
		value.WriteString(body)
	}
	n := &pyast.Constant{Type: kind, Value: value.String()}
	n.Raw = p.file.Slice(start, p.lastEnd)
	return finish(p, start, n)
}

// splitString separates the prefix of a string token from its contents.
func splitString(text string) (prefix, body string) {
	i := strings.IndexAny(text, `'"`)
	prefix, rest := text[:i], text[i:]
	q := 1
	if len(rest) >= 6 && (strings.HasPrefix(rest, `'''`) || strings.HasPrefix(rest, `"""`)) {
		q = 3
	}
	return prefix, rest[q : len(rest)-q]
}

func numberKind(text string) pyast.ConstKind {
	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(lower, "j"):
		return pyast.ConstImag
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"), strings.HasPrefix(lower, "0b"):
		return pyast.ConstInt
	case strings.ContainsAny(lower, ".e"):
		return pyast.ConstFloat
	default:
		return pyast.ConstInt
	}
}

func (p *parser) parenAtom() pyast.Expr {
	start := p.next().start
	if p.gotOp(")") {
		return finish(p, start, &pyast.Tuple{Parens: true})
	}
	if p.isKw("yield") {
		y := p.yieldExpr()
		p.expectOp(")")
		y.Paren = true
		return y
	}
	first := p.testOrStar()
	if p.isKw("for") {
		gen := &pyast.Comp{Form: pyast.CompGen, Parens: true, Elt: first, Generators: p.compFor()}
		p.expectOp(")")
		return finish(p, start, gen)
	}
	if p.isOp(",") {
		tup := &pyast.Tuple{Parens: true, Elts: []pyast.Expr{first}}
		for p.gotOp(",") {
			if p.isOp(")") {
				break
			}
			tup.Elts = append(tup.Elts, p.testOrStar())
		}
		p.expectOp(")")
		return finish(p, start, tup)
	}
	p.expectOp(")")
	first.Base().Paren = true
	return first
}

func (p *parser) listAtom() pyast.Expr {
	start := p.next().start
	if p.gotOp("]") {
		return finish(p, start, &pyast.List{})
	}
	first := p.testOrStar()
	if p.isKw("for") {
		comp := &pyast.Comp{Form: pyast.CompList, Elt: first, Generators: p.compFor()}
		p.expectOp("]")
		return finish(p, start, comp)
	}
	list := &pyast.List{Elts: []pyast.Expr{first}}
	for p.gotOp(",") {
		if p.isOp("]") {
			break
		}
		list.Elts = append(list.Elts, p.testOrStar())
	}
	p.expectOp("]")
	return finish(p, start, list)
}

func (p *parser) braceAtom() pyast.Expr {
	start := p.next().start
	if p.gotOp("}") {
		return finish(p, start, &pyast.Dict{})
	}

	if p.isOp("**") {
		return p.dictRest(start, p.dictItem())
	}

	itemStart := p.tok().start
	key := p.testOrStar()
	if !p.gotOp(":") {
		if p.isKw("for") {
			comp := &pyast.Comp{Form: pyast.CompSet, Elt: key, Generators: p.compFor()}
			p.expectOp("}")
			return finish(p, start, comp)
		}
		set := &pyast.Set{Elts: []pyast.Expr{key}}
		for p.gotOp(",") {
			if p.isOp("}") {
				break
			}
			set.Elts = append(set.Elts, p.testOrStar())
		}
		p.expectOp("}")
		return finish(p, start, set)
	}

	value := p.test()
	if p.isKw("for") {
		comp := &pyast.Comp{Form: pyast.CompDict, Elt: key, Value: value, Generators: p.compFor()}
		p.expectOp("}")
		return finish(p, start, comp)
	}
	return p.dictRest(start, finish(p, itemStart, &pyast.DictItem{Key: key, Value: value}))
}

func (p *parser) dictRest(start int, first *pyast.DictItem) pyast.Expr {
	dict := &pyast.Dict{Items: []*pyast.DictItem{first}}
	for p.gotOp(",") {
		if p.isOp("}") {
			break
		}
		dict.Items = append(dict.Items, p.dictItem())
	}
	p.expectOp("}")
	return finish(p, start, dict)
}

func (p *parser) dictItem() *pyast.DictItem {
	start := p.tok().start
	if p.gotOp("**") {
		return finish(p, start, &pyast.DictItem{Value: p.expr()})
	}
	item := &pyast.DictItem{Key: p.test()}
	p.expectOp(":")
	item.Value = p.test()
	return finish(p, start, item)
}
