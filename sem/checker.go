// Package sem implements gel's semantic analysis: name resolution
// through a chain of lexical scopes, type inference and checking for
// every expression and statement, and collection of the closed set of
// types a program uses. The emitter in package cgen does not read that
// set.
//
// Checking mirrors the shape of the parser it follows: a syntax-directed
// walk that produces a copy of each node with its Type field populated,
// rather than mutating the tree in place. A node whose own expression
// failed to type keeps a nil Type, so that a single root cause doesn't
// cascade into a wall of further errors about its result.
package sem

import (
	"github.com/gel-lang/gelc/diag"
	"github.com/gel-lang/gelc/gelast"
	"github.com/gel-lang/gelc/loc"
	"github.com/gel-lang/gelc/types"
)

var builtinLoc = loc.NewReader("<builtin>", "").Location()

// Result is everything the checker produces from a parsed program.
type Result struct {
	// Program is the checked tree: the same shape as the input, with
	// every expression's Type field populated where inference
	// succeeded.
	Program gelast.Program
	// Types is the set of types used anywhere in Program, in a stable
	// order with each type's component types preceding it.
	Types []types.Type
	// Report holds every diagnostic raised while checking.
	Report diag.Report
}

type checker struct {
	report    diag.Report
	operators Operators
	types     []types.Type
}

// Check type-checks a parsed program and returns the annotated tree,
// its type set, and any diagnostics.
func Check(prog gelast.Program) Result {
	c := &checker{operators: DefaultOperators()}
	c.addType(types.Void{})
	c.addType(types.Boolean{})
	c.addType(types.Integer{})

	global := NewScope(nil)
	global.Define("print", entry{builtinLoc, types.Function{
		Return: types.Void{},
		Params: []types.Type{types.Integer{}},
	}})

	var funcs []*gelast.FuncDef
	for _, f := range prog.Funcs {
		funcs = append(funcs, c.checkFuncDef(f, global))
	}
	return Result{
		Program: gelast.Program{Funcs: funcs},
		Types:   c.types,
		Report:  c.report,
	}
}

// addType records t, and every type it is built from, in the type set,
// each exactly once, in an order where a type's components precede it.
func (c *checker) addType(t types.Type) {
	for _, seen := range c.types {
		if types.Equal(seen, t) {
			return
		}
	}
	switch t := t.(type) {
	case types.Array:
		c.addType(t.Elem)
	case types.Function:
		c.addType(t.Return)
		for _, p := range t.Params {
			c.addType(p)
		}
	}
	c.types = append(c.types, t)
}

func (c *checker) checkFuncDef(f *gelast.FuncDef, global *Scope) *gelast.FuncDef {
	copy := *f

	paramTypes := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		paramTypes[i] = p.Type
	}
	sig := &types.Function{Return: f.Return, Params: paramTypes}
	copy.Sig = sig
	c.addType(*sig)

	if !global.Define(f.Name, entry{f.Loc, *sig}) {
		prev, _ := global.Lookup(f.Name)
		c.report.Errorf(f.Loc, "Redefinition of name %s.", diag.Detail(f.Name, false))
		c.report.Notef(prev.loc, "%s previously declared here.", diag.Detail(f.Name, false))
	}

	funcScope := NewScope(global)
	for _, p := range f.Params {
		if !funcScope.Define(p.Name, entry{p.Loc, p.Type}) {
			prev, _ := funcScope.Lookup(p.Name)
			c.report.Errorf(p.Loc, "Multiple parameters called %s.", diag.Detail(p.Name, false))
			c.report.Notef(prev.loc, "Previous definition is here.")
		}
	}

	fc := &funcContext{name: f.Name, ret: f.Return}
	copy.Body = c.checkStmts(f.Body, fc, funcScope)
	return &copy
}

// funcContext is the function currently being checked, carried through
// statement checks so that Return/ReturnVoid can verify
// against the declared return type.
type funcContext struct {
	name string
	ret  types.Type
}

func (c *checker) checkStmts(stmts []gelast.Stmt, fc *funcContext, scope *Scope) []gelast.Stmt {
	out := make([]gelast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = c.checkStmt(s, fc, scope)
	}
	return out
}

func (c *checker) checkStmt(s gelast.Stmt, fc *funcContext, scope *Scope) gelast.Stmt {
	switch s := s.(type) {
	case gelast.Let:
		return c.checkLet(s, fc, scope)
	case gelast.Assign:
		return c.checkAssign(s, fc, scope)
	case gelast.Do:
		return c.checkDo(s, fc, scope)
	case gelast.If:
		return c.checkIf(s, fc, scope)
	case gelast.While:
		return c.checkWhile(s, fc, scope)
	case gelast.ReturnVoid:
		return c.checkReturnVoid(s, fc)
	case gelast.Return:
		return c.checkReturn(s, fc, scope)
	default:
		panic("sem: unknown statement type")
	}
}

func (c *checker) checkLet(s gelast.Let, fc *funcContext, scope *Scope) gelast.Stmt {
	s.Value = c.checkExpr(s.Value, scope)
	valueType := s.Value.Type()
	if valueType != nil && !types.IsValueType(valueType) {
		c.report.Errorf(s.Loc,
			"Assignment expression in definition yields type %s, which is not a suitable type for a variable.",
			diag.Detail(valueType, false))
	}
	if _, isArray := valueType.(types.Array); isArray {
		c.report.Errorf(s.Loc,
			"Variables of type %s cannot be compiled to C by this compiler.",
			diag.Detail(valueType, false))
	}

	prev, hadPrev := scope.Lookup(s.Name.Name)
	if scope.Define(s.Name.Name, entry{s.Loc, valueType}) {
		if hadPrev {
			c.report.Warningf(s.Loc, "Definition of %s shadows an existing definition.",
				diag.Detail(s.Name.Name, false))
			c.report.Notef(prev.loc, "%s was previously declared here.", diag.Detail(s.Name.Name, false))
		}
	} else {
		c.report.Errorf(s.Loc, "Redefinition of variable %s.", diag.Detail(s.Name.Name, false))
		c.report.Notef(prev.loc, "%s was previously declared here.", diag.Detail(s.Name.Name, false))
	}
	return s
}

func (c *checker) checkAssign(s gelast.Assign, fc *funcContext, scope *Scope) gelast.Stmt {
	s.Value = c.checkExpr(s.Value, scope)
	valueType := s.Value.Type()

	e, ok := scope.Lookup(s.Name.Name)
	if !ok {
		c.report.Errorf(s.Loc, "Assignment to undefined variable %s. Did you mean to write %s?",
			diag.Detail(s.Name.Name, false), diag.Detail("let", false))
		scope.Define(s.Name.Name, entry{s.Loc, valueType})
		return s
	}
	if e.typ != nil && valueType != nil && !types.Equal(e.typ, valueType) {
		c.report.Errorf(s.Loc, "Type mismatch in assignment: %s has type %s, but expression yields type %s.",
			diag.Detail(s.Name.Name, false), diag.Detail(e.typ, false), diag.Detail(valueType, false))
		c.report.Notef(e.loc, "%s is declared here.", diag.Detail(s.Name.Name, false))
	}
	return s
}

func (c *checker) checkDo(s gelast.Do, fc *funcContext, scope *Scope) gelast.Stmt {
	call := c.checkCall(s.Call, scope)
	s.Call = call
	if call.Type() != nil && !types.Equal(call.Type(), types.Void{}) {
		c.report.Warningf(s.Loc, "Discarding return value of type %s in call to %s.",
			diag.Detail(call.Type(), false), diag.Detail(call.Func.Name, false))
	}
	return s
}

func (c *checker) checkIf(s gelast.If, fc *funcContext, scope *Scope) gelast.Stmt {
	s.Cond = c.checkExpr(s.Cond, scope)
	if t := s.Cond.Type(); t != nil && !types.Equal(t, types.Boolean{}) {
		c.report.Errorf(s.Cond.Pos(), "Condition for if statement has type %s, not %s.",
			diag.Detail(t, false), diag.Detail(types.Boolean{}, false))
	}
	s.TrueBody = c.checkStmts(s.TrueBody, fc, NewScope(scope))
	s.FalseBody = c.checkStmts(s.FalseBody, fc, NewScope(scope))
	return s
}

func (c *checker) checkWhile(s gelast.While, fc *funcContext, scope *Scope) gelast.Stmt {
	s.Cond = c.checkExpr(s.Cond, scope)
	if t := s.Cond.Type(); t != nil && !types.Equal(t, types.Boolean{}) {
		c.report.Errorf(s.Cond.Pos(), "Condition for while statement has type %s, not %s.",
			diag.Detail(t, false), diag.Detail(types.Boolean{}, false))
	}
	s.Body = c.checkStmts(s.Body, fc, NewScope(scope))
	return s
}

func (c *checker) checkReturnVoid(s gelast.ReturnVoid, fc *funcContext) gelast.Stmt {
	if fc.ret != nil && !types.Equal(fc.ret, types.Void{}) {
		c.report.Errorf(s.Loc, "Cannot return without a value: %s has return type %s.",
			diag.Detail(fc.name, false), diag.Detail(fc.ret, false))
	}
	return s
}

func (c *checker) checkReturn(s gelast.Return, fc *funcContext, scope *Scope) gelast.Stmt {
	s.Value = c.checkExpr(s.Value, scope)
	if t := s.Value.Type(); t != nil && fc.ret != nil && !types.Equal(t, fc.ret) {
		c.report.Errorf(s.Loc, "Type mismatch in return statement: %s has return type %s but expression has type %s.",
			diag.Detail(fc.name, false), diag.Detail(fc.ret, false), diag.Detail(t, false))
	}
	return s
}

// --- expressions -----------------------------------------------------

func (c *checker) checkExpr(e gelast.Expr, scope *Scope) gelast.Expr {
	switch e := e.(type) {
	case gelast.Ident:
		return c.checkIdent(e, scope)
	case gelast.BoolLit:
		e.Typ = types.Boolean{}
		c.addType(types.Boolean{})
		return e
	case gelast.IntLit:
		e.Typ = types.Integer{}
		c.addType(types.Integer{})
		return e
	case gelast.ArrayLit:
		return c.checkArrayLit(e, scope)
	case gelast.Arithmetic:
		return c.checkArithmetic(e, scope)
	case gelast.Compare:
		return c.checkCompare(e, scope)
	case gelast.Logical:
		return c.checkLogical(e, scope)
	case gelast.Call:
		return c.checkCall(e, scope)
	case gelast.Not:
		return c.checkNot(e, scope)
	default:
		panic("sem: unknown expression type")
	}
}

func (c *checker) checkIdent(e gelast.Ident, scope *Scope) gelast.Expr {
	found, ok := scope.Lookup(e.Name)
	if !ok {
		c.report.Errorf(e.Loc, "Undefined identifier %s.", diag.Detail(e.Name, false))
		return e
	}
	e.Typ = found.typ
	return e
}

func (c *checker) checkArrayLit(e gelast.ArrayLit, scope *Scope) gelast.Expr {
	elems := make([]gelast.Expr, len(e.Elems))
	// exemplars collects, for each distinct element type encountered, the
	// location of the first element with that type, in order of first
	// occurrence, so an ambiguity diagnostic reports them deterministically.
	var exemplarTypes []types.Type
	var exemplarLocs []loc.Location
	for i, elem := range e.Elems {
		elems[i] = c.checkExpr(elem, scope)
		t := elems[i].Type()
		if t == nil {
			continue
		}
		known := false
		for _, et := range exemplarTypes {
			if types.Equal(et, t) {
				known = true
				break
			}
		}
		if !known {
			exemplarTypes = append(exemplarTypes, t)
			exemplarLocs = append(exemplarLocs, elems[i].Pos())
		}
	}
	e.Elems = elems
	switch len(exemplarTypes) {
	case 1:
		e.Typ = types.Array{Elem: exemplarTypes[0]}
		c.addType(e.Typ)
	default:
		if len(exemplarTypes) > 1 {
			c.report.Errorf(e.Loc, "Ambiguous type for array.")
			for i, t := range exemplarTypes {
				c.report.Notef(exemplarLocs[i], "Expression of type %s.", diag.Detail(t, false))
			}
		}
	}
	return e
}

func (c *checker) checkArithmetic(e gelast.Arithmetic, scope *Scope) gelast.Expr {
	e.Left = c.checkExpr(e.Left, scope)
	e.Right = c.checkExpr(e.Right, scope)
	leftType, rightType := e.Left.Type(), e.Right.Type()

	if leftType == nil && rightType == nil {
		return e
	}
	if leftType != nil && rightType != nil && !types.Equal(leftType, rightType) {
		c.report.Errorf(e.Loc,
			"Mismatched arguments to arithmetic operator. Left argument has type %s, but right argument has type %s.",
			diag.Detail(leftType, false), diag.Detail(rightType, false))
		return e
	}

	inferred := leftType
	if inferred == nil {
		inferred = rightType
	}
	e.Typ = inferred
	c.addType(inferred)

	if !c.operators.allowsArithmetic(e.Op, inferred.String()) {
		c.report.Errorf(e.Loc, "Cannot use this operator with %s.", diag.Detail(inferred, false))
	}
	return e
}

func (c *checker) checkCompare(e gelast.Compare, scope *Scope) gelast.Expr {
	c.addType(types.Boolean{})
	e.Typ = types.Boolean{}
	e.Left = c.checkExpr(e.Left, scope)
	e.Right = c.checkExpr(e.Right, scope)
	leftType, rightType := e.Left.Type(), e.Right.Type()

	if leftType == nil && rightType == nil {
		return e
	}
	if leftType != nil && rightType != nil && !types.Equal(leftType, rightType) {
		c.report.Errorf(e.Loc,
			"Mismatched arguments to comparison operator. Left argument has type %s, but right argument has type %s.",
			diag.Detail(leftType, false), diag.Detail(rightType, false))
		return e
	}

	inferred := leftType
	if inferred == nil {
		inferred = rightType
	}
	switch e.Op {
	case gelast.Eq, gelast.Ne:
		if !c.operators.isEqualityComparable(inferred.String()) {
			c.report.Errorf(e.Loc, "%s is not equality comparable.", diag.Detail(inferred, false))
		}
	default:
		if !c.operators.isOrdered(inferred.String()) {
			c.report.Errorf(e.Loc, "%s is not an ordered type.", diag.Detail(inferred, false))
		}
	}
	return e
}

func (c *checker) checkLogical(e gelast.Logical, scope *Scope) gelast.Expr {
	e.Left = c.checkExpr(e.Left, scope)
	e.Right = c.checkExpr(e.Right, scope)
	if t := e.Left.Type(); t != nil && !types.Equal(t, types.Boolean{}) {
		c.report.Errorf(e.Loc, "Left argument to logical operation has type %s, which is not a boolean type.",
			diag.Detail(t, false))
	}
	if t := e.Right.Type(); t != nil && !types.Equal(t, types.Boolean{}) {
		c.report.Errorf(e.Loc, "Right argument to logical operation has type %s, which is not a boolean type.",
			diag.Detail(t, false))
	}
	c.addType(types.Boolean{})
	e.Typ = types.Boolean{}
	return e
}

func (c *checker) checkNot(e gelast.Not, scope *Scope) gelast.Expr {
	c.addType(types.Boolean{})
	e.Arg = c.checkExpr(e.Arg, scope)
	if t := e.Arg.Type(); t != nil && !types.Equal(t, types.Boolean{}) {
		c.report.Errorf(e.Arg.Pos(), "Argument to logical negation is of type %s, not boolean.", diag.Detail(t, false))
	}
	e.Typ = types.Boolean{}
	return e
}

func (c *checker) checkCall(e gelast.Call, scope *Scope) gelast.Call {
	found, ok := scope.Lookup(e.Func.Name)
	if !ok {
		c.report.Errorf(e.Func.Loc, "Undefined identifier %s.", diag.Detail(e.Func.Name, false))
		e.Args = c.checkArgsForDiagnosticsOnly(e.Args, scope)
		return e
	}

	sig, isFunc := found.typ.(types.Function)
	if !isFunc {
		c.report.Errorf(e.Func.Loc, "%s is not of function type.", diag.Detail(e.Func.Name, false))
		c.report.Notef(found.loc, "%s is declared here.", diag.Detail(e.Func.Name, false))
		e.Args = c.checkArgsForDiagnosticsOnly(e.Args, scope)
		return e
	}

	if len(e.Args) != len(sig.Params) {
		c.report.Errorf(e.Func.Loc, "%s expects %s arguments but %s were provided.",
			diag.Detail(e.Func.Name, false), diag.Detail(len(sig.Params), false), diag.Detail(len(e.Args), false))
		c.report.Notef(found.loc, "%s is declared here.", diag.Detail(e.Func.Name, false))
		e.Args = c.checkArgsForDiagnosticsOnly(e.Args, scope)
		return e
	}

	e.Typ = sig.Return
	c.addType(sig.Return)
	args := make([]gelast.Expr, len(e.Args))
	for i, arg := range e.Args {
		checked := c.checkExpr(arg, scope)
		args[i] = checked
		if t := checked.Type(); t != nil && !types.Equal(t, sig.Params[i]) {
			c.report.Errorf(checked.Pos(),
				"Type mismatch for parameter %s of call to %s. Expected type is %s but the actual type is %s.",
				diag.Detail(i, false), diag.Detail(e.Func.Name, false), diag.Detail(sig.Params[i], false), diag.Detail(t, false))
		}
	}
	e.Args = args
	return e
}

// checkArgsForDiagnosticsOnly checks a call's arguments even though the
// call itself could not be resolved, so that errors inside the
// arguments are still reported.
func (c *checker) checkArgsForDiagnosticsOnly(args []gelast.Expr, scope *Scope) []gelast.Expr {
	out := make([]gelast.Expr, len(args))
	for i, a := range args {
		out[i] = c.checkExpr(a, scope)
	}
	return out
}
