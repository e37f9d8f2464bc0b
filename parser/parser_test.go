package parser

import (
	"testing"

	"github.com/gel-lang/gelc/gelast"
)

func mustParse(t *testing.T, src string) gelast.Program {
	t.Helper()
	prog, err := Parse("test.gel", src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return prog
}

func TestParseEmptyFunction(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : void {}")
	if len(prog.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(prog.Funcs))
	}
	f := prog.Funcs[0]
	if f.Name != "f" || len(f.Params) != 0 || len(f.Body) != 0 {
		t.Errorf("unexpected func: %+v", f)
	}
}

func TestParseParamsAndReturn(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function add(x : integer, y : integer) : integer {\n  return x + y\n}")
	f := prog.Funcs[0]
	if len(f.Params) != 2 || f.Params[0].Name != "x" || f.Params[1].Name != "y" {
		t.Fatalf("unexpected params: %+v", f.Params)
	}
	if len(f.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(f.Body))
	}
	ret, ok := f.Body[0].(gelast.Return)
	if !ok {
		t.Fatalf("statement is %T, want Return", f.Body[0])
	}
	add, ok := ret.Value.(gelast.Arithmetic)
	if !ok || add.Op != gelast.Add {
		t.Fatalf("return value is %+v, want addition", ret.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : integer {\n  return 1 + 2 * 3\n}")
	ret := prog.Funcs[0].Body[0].(gelast.Return)
	add, ok := ret.Value.(gelast.Arithmetic)
	if !ok || add.Op != gelast.Add {
		t.Fatalf("top-level op = %+v, want addition", ret.Value)
	}
	if _, ok := add.Left.(gelast.IntLit); !ok {
		t.Errorf("left operand is %T, want IntLit", add.Left)
	}
	mul, ok := add.Right.(gelast.Arithmetic)
	if !ok || mul.Op != gelast.Mul {
		t.Fatalf("right operand = %+v, want multiplication", add.Right)
	}
}

func TestParseNegativeInteger(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : integer {\n  return -9223372036854775808\n}")
	ret := prog.Funcs[0].Body[0].(gelast.Return)
	lit, ok := ret.Value.(gelast.IntLit)
	if !ok {
		t.Fatalf("return value is %T, want IntLit", ret.Value)
	}
	if lit.Value != -9223372036854775808 {
		t.Errorf("Value = %d, want INT64_MIN", lit.Value)
	}
}

func TestParseIfElseIf(t *testing.T) {
	t.Parallel()
	src := "function f() : void {\n  if (true) {\n    return\n  } else if (false) {\n    return\n  } else {\n    return\n  }\n}"
	prog := mustParse(t, src)
	ifStmt, ok := prog.Funcs[0].Body[0].(gelast.If)
	if !ok {
		t.Fatalf("statement is %T, want If", prog.Funcs[0].Body[0])
	}
	if len(ifStmt.FalseBody) != 1 {
		t.Fatalf("else-if should collapse to a single nested If, got %d stmts", len(ifStmt.FalseBody))
	}
	nested, ok := ifStmt.FalseBody[0].(gelast.If)
	if !ok {
		t.Fatalf("nested else-if is %T, want If", ifStmt.FalseBody[0])
	}
	if len(nested.FalseBody) != 1 {
		t.Errorf("innermost else should have one statement, got %d", len(nested.FalseBody))
	}
}

func TestParseWhileAndCall(t *testing.T) {
	t.Parallel()
	src := "function f() : void {\n  while (true) {\n    do print(1)\n  }\n}"
	prog := mustParse(t, src)
	w, ok := prog.Funcs[0].Body[0].(gelast.While)
	if !ok {
		t.Fatalf("statement is %T, want While", prog.Funcs[0].Body[0])
	}
	doStmt, ok := w.Body[0].(gelast.Do)
	if !ok {
		t.Fatalf("body statement is %T, want Do", w.Body[0])
	}
	if doStmt.Call.Func.Name != "print" || len(doStmt.Call.Args) != 1 {
		t.Errorf("unexpected call: %+v", doStmt.Call)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : void {\n  let a = [1, 2, 3]\n}")
	let := prog.Funcs[0].Body[0].(gelast.Let)
	arr, ok := let.Value.(gelast.ArrayLit)
	if !ok || len(arr.Elems) != 3 {
		t.Fatalf("value is %+v, want 3-element ArrayLit", let.Value)
	}
}

func TestParseMultipleFunctions(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : void {}\n\nfunction g() : void {}")
	if len(prog.Funcs) != 2 {
		t.Fatalf("got %d funcs, want 2", len(prog.Funcs))
	}
}

func TestParseReservedWordAsIdentifierFails(t *testing.T) {
	t.Parallel()
	_, err := Parse("test.gel", "function if() : void {}")
	if err == nil {
		t.Fatalf("expected error for reserved word used as function name")
	}
}

func TestParseBadIndentationFails(t *testing.T) {
	t.Parallel()
	_, err := Parse("test.gel", "function f() : void {\n   return\n}")
	if err == nil {
		t.Fatalf("expected error for incorrect indentation")
	}
}

func TestParseMissingParenFails(t *testing.T) {
	t.Parallel()
	_, err := Parse("test.gel", "function f(: void {}")
	if err == nil {
		t.Fatalf("expected error for malformed parameter list")
	}
}

func TestParseIdentifierWithReturnPrefix(t *testing.T) {
	t.Parallel()
	prog := mustParse(t, "function f() : integer {\n  let returnValue = 1\n  returnCode = 2\n  return returnValue\n}")
	body := prog.Funcs[0].Body
	if len(body) != 3 {
		t.Fatalf("got %d statements, want 3", len(body))
	}
	let, ok := body[0].(gelast.Let)
	if !ok || let.Name.Name != "returnValue" {
		t.Fatalf("statement 0 = %+v, want Let named returnValue", body[0])
	}
	assign, ok := body[1].(gelast.Assign)
	if !ok || assign.Name.Name != "returnCode" {
		t.Fatalf("statement 1 = %+v, want Assign named returnCode", body[1])
	}
	ret, ok := body[2].(gelast.Return)
	if !ok {
		t.Fatalf("statement 2 = %+v, want Return", body[2])
	}
	if ident, ok := ret.Value.(gelast.Ident); !ok || ident.Name != "returnValue" {
		t.Fatalf("return value = %+v, want identifier returnValue", ret.Value)
	}
}

func TestParseComment(t *testing.T) {
	t.Parallel()
	src := "function f() : void {\n  # a comment\n  return\n}"
	prog := mustParse(t, src)
	if len(prog.Funcs[0].Body) != 1 {
		t.Fatalf("comment line should be skipped, got %d statements", len(prog.Funcs[0].Body))
	}
}
