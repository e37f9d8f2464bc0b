package gelast

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gel-lang/gelc/loc"
	"github.com/gel-lang/gelc/types"
)

func TestMetaPromotion(t *testing.T) {
	t.Parallel()
	r := loc.NewReader("test", "42")
	n := IntLit{Meta: Meta{Loc: r.Location(), Typ: types.Integer{}}, Value: 42}
	if n.Pos() != r.Location() {
		t.Errorf("Pos() did not return the stored location")
	}
	if !types.Equal(n.Type(), types.Integer{}) {
		t.Errorf("Type() = %v, want integer", n.Type())
	}
}

func TestUnknownTypeIsNil(t *testing.T) {
	t.Parallel()
	var n Ident
	if n.Type() != nil {
		t.Errorf("zero-value node has non-nil type %v", n.Type())
	}
}

func TestArithmeticTreeEqual(t *testing.T) {
	t.Parallel()
	r := loc.NewReader("test", "1 + 2")
	build := func() Arithmetic {
		return Arithmetic{
			Meta:  Meta{Loc: r.Location(), Typ: types.Integer{}},
			Op:    Add,
			Left:  IntLit{Meta: Meta{Loc: r.Location(), Typ: types.Integer{}}, Value: 1},
			Right: IntLit{Meta: Meta{Loc: r.Location(), Typ: types.Integer{}}, Value: 2},
		}
	}
	want, got := build(), build()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("identically built trees differ:\n%s", diff)
	}
	got.Right = IntLit{Meta: got.Right.(IntLit).Meta, Value: 3}
	if diff := cmp.Diff(want, got); diff == "" {
		t.Errorf("trees with different literal values compared equal")
	}
}

func TestOperatorStrings(t *testing.T) {
	t.Parallel()
	if Add.String() != "+" || Div.String() != "/" {
		t.Errorf("ArithOp.String() mismatch")
	}
	if Eq.String() != "==" || Ge.String() != ">=" {
		t.Errorf("CompareOp.String() mismatch")
	}
	if And.String() != "&&" || Or.String() != "||" {
		t.Errorf("LogicalOp.String() mismatch")
	}
}
