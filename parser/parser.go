// Package parser implements a hand-written recursive-descent parser for
// gel source text, with no separate lexer: every production recognizes
// its own tokens by character-level lookahead over a loc.Reader.
//
// The parser fails fast. The first syntax error it encounters is raised
// as a panic carrying a *SyntaxError and recovered at Parse; there is no
// error recovery, since the language's indentation-sensitive grammar
// makes guessing at program structure past a syntax error unreliable.
package parser

import (
	"fmt"

	"github.com/gel-lang/gelc/gelast"
	"github.com/gel-lang/gelc/loc"
	"github.com/gel-lang/gelc/types"
)

// SyntaxError is the single fatal error the parser can raise.
type SyntaxError struct {
	Loc loc.Location
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

var reserved = map[string]bool{
	"boolean":  true,
	"else":     true,
	"false":    true,
	"function": true,
	"if":       true,
	"integer":  true,
	"let":      true,
	"return":   true,
	"true":     true,
	"void":     true,
	"while":    true,
}

type parser struct {
	r *loc.Reader
}

// Parse parses a complete gel program from source, identified by name for
// use in locations and diagnostics.
func Parse(name, source string) (prog gelast.Program, err error) {
	p := &parser{r: loc.NewReader(name, source)}
	defer func() {
		switch e := recover().(type) {
		case nil:
		case *SyntaxError:
			err = e
		default:
			panic(e)
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *parser) fail(l loc.Location, format string, args ...interface{}) {
	panic(&SyntaxError{l, fmt.Sprintf(format, args...)})
}

func isAlpha(c byte) bool { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// --- lexical helpers -------------------------------------------------

// identifierRaw scans one identifier token (without checking whether it
// is a reserved word) and advances past it.
func (p *parser) identifierRaw() (string, loc.Location) {
	start := p.r.Location()
	if p.r.Empty() {
		p.fail(start, "Unexpected end of input.")
	}
	rem := p.r.Remaining()
	i := 0
	for i < len(rem) && isAlnum(rem[i]) {
		i++
	}
	name := rem[:i]
	if name == "" || !isAlpha(name[0]) {
		p.fail(start, "Illegal token.")
	}
	p.r.Advance(i)
	return name, start
}

// identifier scans an identifier token and rejects reserved words.
func (p *parser) identifier() gelast.Ident {
	name, l := p.identifierRaw()
	if reserved[name] {
		p.fail(l, "Reserved word %q used as identifier.", name)
	}
	return gelast.Ident{Meta: gelast.Meta{Loc: l}, Name: name}
}

// startsWithWord reports whether the remaining source begins with word
// followed by a byte that cannot continue an identifier (or by end of
// input), so that a keyword prefix of a longer identifier (e.g.
// "returnValue") is not mistaken for the keyword itself.
func (p *parser) startsWithWord(word string) bool {
	if !p.r.StartsWith(word) {
		return false
	}
	rest := p.r.Remaining()[len(word):]
	return rest == "" || !isAlnum(rest[0])
}

func (p *parser) expect(s, onFail string) {
	if !p.r.Consume(s) {
		p.fail(p.r.Location(), onFail)
	}
}

// --- expressions -------------------------------------------------------

func (p *parser) integer() gelast.IntLit {
	l := p.r.Location()
	rem := p.r.Remaining()
	i := 0
	negative := i < len(rem) && rem[i] == '-'
	if negative {
		i++
	}
	start := i
	for i < len(rem) && isDigit(rem[i]) {
		i++
	}
	if i == start {
		p.fail(l, "Illegal token.")
	}
	var value int64
	for _, c := range []byte(rem[start:i]) {
		// Accumulate negated so that INT64_MIN is representable, then
		// flip the sign at the end unless a '-' was present.
		value = 10*value - int64(c-'0')
	}
	if !negative {
		value = -value
	}
	p.r.Advance(i)
	return gelast.IntLit{Meta: gelast.Meta{Loc: l}, Value: value}
}

// term parses the highest-precedence grammar level: integer, boolean,
// identifier, parenthesized expression, array literal, or call.
func (p *parser) term() gelast.Expr {
	l := p.r.Location()
	if p.r.Empty() {
		p.fail(l, "Unexpected end of input.")
	}
	switch c := p.r.Remaining()[0]; {
	case c == '(':
		p.r.Advance(1)
		e := p.expression()
		p.expect(")", "Missing ')'.")
		return e
	case c == '[':
		return p.arrayLiteral(l)
	case c == '-' || isDigit(c):
		return p.integer()
	case isAlpha(c):
		return p.identifierOrCallOrBool(l)
	default:
		p.fail(l, "Illegal token.")
		panic("unreachable")
	}
}

func (p *parser) identifierOrCallOrBool(l loc.Location) gelast.Expr {
	name, nameLoc := p.identifierRaw()
	switch name {
	case "true":
		return gelast.BoolLit{Meta: gelast.Meta{Loc: l}, Value: true}
	case "false":
		return gelast.BoolLit{Meta: gelast.Meta{Loc: l}, Value: false}
	}
	if reserved[name] {
		p.fail(nameLoc, "Reserved word %q used as identifier.", name)
	}
	ident := gelast.Ident{Meta: gelast.Meta{Loc: nameLoc}, Name: name}
	if p.r.StartsWith("(") {
		return p.callArgs(ident)
	}
	return ident
}

func (p *parser) callArgs(callee gelast.Ident) gelast.Call {
	p.r.Advance(1) // '('
	var args []gelast.Expr
	if !p.r.Consume(")") {
		args = append(args, p.expression())
		for p.r.Consume(", ") {
			args = append(args, p.expression())
		}
		p.expect(")", "Missing ')'.")
	}
	return gelast.Call{Meta: gelast.Meta{Loc: callee.Loc}, Func: callee, Args: args}
}

func (p *parser) arrayLiteral(l loc.Location) gelast.ArrayLit {
	p.r.Advance(1) // '['
	var elems []gelast.Expr
	if !p.r.Consume("]") {
		elems = append(elems, p.expression())
		for p.r.Consume(", ") {
			elems = append(elems, p.expression())
		}
		p.expect("]", "Missing ']'.")
	}
	return gelast.ArrayLit{Meta: gelast.Meta{Loc: l}, Elems: elems}
}

// unary parses right-associative '!'.
func (p *parser) unary() gelast.Expr {
	l := p.r.Location()
	if p.r.Consume("!") {
		return gelast.Not{Meta: gelast.Meta{Loc: l}, Arg: p.unary()}
	}
	return p.term()
}

func (p *parser) product() gelast.Expr {
	left := p.unary()
	for {
		l := p.r.Location()
		switch {
		case p.r.Consume(" * "):
			left = gelast.Arithmetic{Meta: gelast.Meta{Loc: l}, Op: gelast.Mul, Left: left, Right: p.unary()}
		case p.r.Consume(" / "):
			left = gelast.Arithmetic{Meta: gelast.Meta{Loc: l}, Op: gelast.Div, Left: left, Right: p.unary()}
		default:
			return left
		}
	}
}

func (p *parser) sum() gelast.Expr {
	left := p.product()
	for {
		l := p.r.Location()
		switch {
		case p.r.Consume(" + "):
			left = gelast.Arithmetic{Meta: gelast.Meta{Loc: l}, Op: gelast.Add, Left: left, Right: p.product()}
		case p.r.Consume(" - "):
			left = gelast.Arithmetic{Meta: gelast.Meta{Loc: l}, Op: gelast.Sub, Left: left, Right: p.product()}
		default:
			return left
		}
	}
}

// compareOps is ordered longest-pattern-first so that, e.g., " <= " is
// tried before " < " and cannot be mistaken for it.
var compareOps = []struct {
	pattern string
	op      gelast.CompareOp
}{
	{" == ", gelast.Eq},
	{" != ", gelast.Ne},
	{" <= ", gelast.Le},
	{" >= ", gelast.Ge},
	{" < ", gelast.Lt},
	{" > ", gelast.Gt},
}

// compare parses at most one comparison: the grammar is non-associative
// at this level.
func (p *parser) compare() gelast.Expr {
	left := p.sum()
	l := p.r.Location()
	for _, c := range compareOps {
		if p.r.Consume(c.pattern) {
			return gelast.Compare{Meta: gelast.Meta{Loc: l}, Op: c.op, Left: left, Right: p.sum()}
		}
	}
	return left
}

func (p *parser) and() gelast.Expr {
	left := p.compare()
	for {
		l := p.r.Location()
		if !p.r.Consume(" && ") {
			return left
		}
		left = gelast.Logical{Meta: gelast.Meta{Loc: l}, Op: gelast.And, Left: left, Right: p.compare()}
	}
}

func (p *parser) or() gelast.Expr {
	left := p.and()
	for {
		l := p.r.Location()
		if !p.r.Consume(" || ") {
			return left
		}
		left = gelast.Logical{Meta: gelast.Meta{Loc: l}, Op: gelast.Or, Left: left, Right: p.and()}
	}
}

func (p *parser) expression() gelast.Expr {
	return p.or()
}

// --- statements ----------------------------------------------------

// skipComments consumes any run of consecutive "# ..." comment lines,
// each indented by exactly indent spaces, that precede the next
// statement or the block's closing brace.
func (p *parser) skipComments(indent int) {
	for {
		rem := p.r.Remaining()
		n := leadingSpaces(rem)
		if n != indent || n >= len(rem) || rem[n] != '#' {
			return
		}
		p.r.Advance(n)
		end := 0
		for end < len(p.r.Remaining()) && p.r.Remaining()[end] != '\n' {
			end++
		}
		p.r.Advance(end)
		p.expect("\n", "Unexpected end of input.")
	}
}

// block parses a brace-delimited, newline-separated statement list whose
// body lines are indented by exactly indent+2 spaces, or the literal
// empty block "{}".
func (p *parser) block(indent int) []gelast.Stmt {
	p.expect("{", "Expected '{'.")
	if p.r.Consume("}") {
		return nil
	}
	p.expect("\n", "Unexpected end of input.")
	bodyIndent := indent + 2
	var stmts []gelast.Stmt
	for {
		p.skipComments(bodyIndent)
		rem := p.r.Remaining()
		n := leadingSpaces(rem)
		switch {
		case n == indent && n < len(rem) && rem[n] == '}':
			p.r.Advance(indent + 1)
			return stmts
		case n == bodyIndent:
			p.r.Advance(bodyIndent)
			stmts = append(stmts, p.statement(bodyIndent))
			p.expect("\n", "Unexpected end of input.")
		default:
			p.fail(p.r.Location(), "Incorrect indentation: expected %d spaces.", bodyIndent)
		}
	}
}

func (p *parser) statement(indent int) gelast.Stmt {
	l := p.r.Location()
	switch {
	case p.r.Consume("let "):
		name := p.identifier()
		p.expect(" = ", "Expected '='.")
		return gelast.Let{StmtMeta: gelast.StmtMeta{Loc: l}, Name: name, Value: p.expression()}
	case p.r.Consume("do "):
		call := p.callStatement()
		return gelast.Do{StmtMeta: gelast.StmtMeta{Loc: l}, Call: call}
	case p.r.Consume("if ("):
		return p.ifStatement(l, indent)
	case p.r.Consume("while ("):
		cond := p.expression()
		p.expect(") ", "Missing ')'.")
		body := p.block(indent)
		return gelast.While{StmtMeta: gelast.StmtMeta{Loc: l}, Cond: cond, Body: body}
	case p.startsWithWord("return"):
		p.r.Advance(len("return"))
		if p.r.Consume(" ") {
			return gelast.Return{StmtMeta: gelast.StmtMeta{Loc: l}, Value: p.expression()}
		}
		return gelast.ReturnVoid{StmtMeta: gelast.StmtMeta{Loc: l}}
	default:
		return p.assignment(l)
	}
}

func (p *parser) callStatement() gelast.Call {
	callee := p.identifier()
	if !p.r.StartsWith("(") {
		p.fail(p.r.Location(), "Missing '('.")
	}
	return p.callArgs(callee)
}

func (p *parser) assignment(l loc.Location) gelast.Stmt {
	name := p.identifier()
	p.expect(" = ", "Expected '='.")
	return gelast.Assign{StmtMeta: gelast.StmtMeta{Loc: l}, Name: name, Value: p.expression()}
}

func (p *parser) ifStatement(l loc.Location, indent int) gelast.Stmt {
	cond := p.expression()
	p.expect(") ", "Missing ')'.")
	trueBody := p.block(indent)
	var falseBody []gelast.Stmt
	switch {
	case p.r.Consume(" else if ("):
		falseBody = []gelast.Stmt{p.ifStatement(p.r.Location(), indent)}
	case p.r.Consume(" else "):
		falseBody = p.block(indent)
	}
	return gelast.If{StmtMeta: gelast.StmtMeta{Loc: l}, Cond: cond, TrueBody: trueBody, FalseBody: falseBody}
}

// --- top level -------------------------------------------------------

func (p *parser) typ() types.Type {
	name, l := p.identifierRaw()
	switch name {
	case "void":
		return types.Void{}
	case "boolean":
		return types.Boolean{}
	case "integer":
		return types.Integer{}
	default:
		p.fail(l, "Unknown type %q.", name)
		panic("unreachable")
	}
}

func (p *parser) functionDef() *gelast.FuncDef {
	l := p.r.Location()
	p.expect("function ", "Expected 'function'.")
	name, nameLoc := p.identifierRaw()
	if reserved[name] {
		p.fail(nameLoc, "Reserved word %q used as identifier.", name)
	}
	p.expect("(", "Missing '('.")
	var params []gelast.Param
	if !p.r.Consume(")") {
		params = append(params, p.param())
		for p.r.Consume(", ") {
			params = append(params, p.param())
		}
		p.expect(")", "Missing ')'.")
	}
	p.expect(" : ", "Expected ':'.")
	ret := p.typ()
	p.expect(" ", "Expected ' '.")
	body := p.block(0)
	return &gelast.FuncDef{
		Loc: l, Name: name, NameLoc: nameLoc, Params: params, Return: ret, Body: body,
	}
}

func (p *parser) param() gelast.Param {
	name, l := p.identifierRaw()
	if reserved[name] {
		p.fail(l, "Reserved word %q used as identifier.", name)
	}
	p.expect(" : ", "Expected ':'.")
	return gelast.Param{Loc: l, Name: name, Type: p.typ()}
}

func (p *parser) parseProgram() gelast.Program {
	var funcs []*gelast.FuncDef
	funcs = append(funcs, p.functionDef())
	if !p.r.Empty() {
		p.expect("\n", "Unexpected trailing characters.")
	}
	for !p.r.Empty() {
		if !p.r.Consume("\n") {
			break
		}
		funcs = append(funcs, p.functionDef())
		if !p.r.Empty() {
			p.expect("\n", "Unexpected trailing characters.")
		}
	}
	if !p.r.Empty() {
		p.fail(p.r.Location(), "Unexpected trailing characters.")
	}
	return gelast.Program{Funcs: funcs}
}
