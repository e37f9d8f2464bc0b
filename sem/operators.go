package sem

import "github.com/gel-lang/gelc/gelast"

// Operators records which primitive types each operator family accepts.
// It is keyed by the String() form of the operand type, which is a
// closed, finite set for gel's value types — simpler than defining a
// comparable key type for an interface that isn't itself comparable
// for every implementation (types.Array, types.Function).
type Operators struct {
	arithmetic          map[gelast.ArithOp]map[string]bool
	equalityComparable map[string]bool
	ordered            map[string]bool
}

// DefaultOperators returns the fixed operator table for gel: arithmetic
// is defined only for integer, equality for boolean and integer, and
// ordering for integer alone.
func DefaultOperators() Operators {
	intOnly := map[string]bool{"integer": true}
	return Operators{
		arithmetic: map[gelast.ArithOp]map[string]bool{
			gelast.Add: intOnly,
			gelast.Sub: intOnly,
			gelast.Mul: intOnly,
			gelast.Div: intOnly,
		},
		equalityComparable: map[string]bool{"boolean": true, "integer": true},
		ordered:            map[string]bool{"integer": true},
	}
}

func (o Operators) allowsArithmetic(op gelast.ArithOp, typeName string) bool {
	return o.arithmetic[op][typeName]
}

func (o Operators) isEqualityComparable(typeName string) bool {
	return o.equalityComparable[typeName]
}

func (o Operators) isOrdered(typeName string) bool {
	return o.ordered[typeName]
}
