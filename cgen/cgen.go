// Package cgen translates a checked gel program into C source text: a
// fixed preamble and epilogue bracket a syntax-directed translation of
// each function definition, with every user identifier mangled to avoid
// colliding with a C keyword or the preamble's own symbols.
package cgen

import (
	"fmt"
	"strings"

	"github.com/gel-lang/gelc/gelast"
	"github.com/gel-lang/gelc/types"
)

const header = `// Generated by the gel compiler.
#include <stdbool.h>
#include <stdint.h>
#include <stdio.h>

void gel_print(int_least64_t number) { printf("%lld\n", (long long)number); }

// Start of user code.
`

const footer = `
// End of user code.

int main() { return gel_main(); }
`

// Compile renders a checked program as a complete C translation unit.
// The program must already have been type-checked with zero reported
// errors: every expression's Type field is assumed non-nil, and no
// array-typed let survives a clean check (sem rejects those with a
// diagnostic before cgen ever sees them). Compile panics (a programmer
// error in the caller) if it finds a type it has no C rendering for.
func Compile(prog gelast.Program) string {
	var b strings.Builder
	b.WriteString(header)
	for i, f := range prog.Funcs {
		if i > 0 {
			b.WriteByte('\n')
		}
		emitFuncDef(&b, f)
	}
	b.WriteString(footer)
	return b.String()
}

func emitType(b *strings.Builder, t types.Type) {
	switch t.(type) {
	case types.Void:
		b.WriteString("void")
	case types.Boolean:
		b.WriteString("bool")
	case types.Integer:
		b.WriteString("int_least64_t")
	default:
		panic(fmt.Sprintf("cgen: cannot emit C type for %v", t))
	}
}

func emitFuncDef(b *strings.Builder, f *gelast.FuncDef) {
	if f.Sig == nil {
		panic("cgen: FuncDef.Sig is nil; program was not checked")
	}
	emitType(b, f.Sig.Return)
	b.WriteByte(' ')
	b.WriteString(mangle(f.Name))
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		emitType(b, p.Type)
		b.WriteByte(' ')
		b.WriteString(mangle(p.Name))
	}
	b.WriteString(") {\n")
	emitStmts(b, f.Body, 2)
	b.WriteString("}\n")
}

func indent(b *strings.Builder, n int) {
	b.WriteString(strings.Repeat(" ", n))
}

func emitStmts(b *strings.Builder, stmts []gelast.Stmt, n int) {
	for _, s := range stmts {
		emitStmt(b, s, n)
	}
}

func emitStmt(b *strings.Builder, s gelast.Stmt, n int) {
	switch s := s.(type) {
	case gelast.Let:
		indent(b, n)
		emitType(b, exprType(s.Value))
		b.WriteByte(' ')
		b.WriteString(mangle(s.Name.Name))
		b.WriteString(" = ")
		emitExpr(b, s.Value)
		b.WriteString(";\n")
	case gelast.Assign:
		indent(b, n)
		b.WriteString(mangle(s.Name.Name))
		b.WriteString(" = ")
		emitExpr(b, s.Value)
		b.WriteString(";\n")
	case gelast.Do:
		indent(b, n)
		emitExpr(b, s.Call)
		b.WriteString(";\n")
	case gelast.If:
		indent(b, n)
		b.WriteString("if (")
		emitExpr(b, s.Cond)
		b.WriteString(") {\n")
		emitStmts(b, s.TrueBody, n+2)
		indent(b, n)
		b.WriteString("} else {\n")
		emitStmts(b, s.FalseBody, n+2)
		indent(b, n)
		b.WriteString("}\n")
	case gelast.While:
		indent(b, n)
		b.WriteString("while (")
		emitExpr(b, s.Cond)
		b.WriteString(") {\n")
		emitStmts(b, s.Body, n+2)
		indent(b, n)
		b.WriteString("}\n")
	case gelast.ReturnVoid:
		indent(b, n)
		b.WriteString("return;\n")
	case gelast.Return:
		indent(b, n)
		b.WriteString("return ")
		emitExpr(b, s.Value)
		b.WriteString(";\n")
	default:
		panic(fmt.Sprintf("cgen: unknown statement type %T", s))
	}
}

func exprType(e gelast.Expr) types.Type {
	t := e.Type()
	if t == nil {
		panic(fmt.Sprintf("cgen: expression at %s has no type; program was not checked", e.Pos()))
	}
	return t
}

func emitExpr(b *strings.Builder, e gelast.Expr) {
	switch e := e.(type) {
	case gelast.Ident:
		b.WriteString(mangle(e.Name))
	case gelast.BoolLit:
		if e.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case gelast.IntLit:
		fmt.Fprintf(b, "%d", e.Value)
	case gelast.Arithmetic:
		b.WriteByte('(')
		emitExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Op)
		emitExpr(b, e.Right)
		b.WriteByte(')')
	case gelast.Compare:
		b.WriteByte('(')
		emitExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Op)
		emitExpr(b, e.Right)
		b.WriteByte(')')
	case gelast.Logical:
		b.WriteByte('(')
		emitExpr(b, e.Left)
		fmt.Fprintf(b, " %s ", e.Op)
		emitExpr(b, e.Right)
		b.WriteByte(')')
	case gelast.Call:
		b.WriteString(mangle(e.Func.Name))
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			emitExpr(b, a)
		}
		b.WriteByte(')')
	case gelast.Not:
		b.WriteByte('!')
		emitExpr(b, e.Arg)
	default:
		panic(fmt.Sprintf("cgen: unknown expression type %T", e))
	}
}
