package types

import "testing"

func TestIsValueType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"void", Void{}, false},
		{"boolean", Boolean{}, true},
		{"integer", Integer{}, true},
		{"array of integer", Array{Integer{}}, true},
		{"function", Function{Void{}, []Type{Integer{}}}, false},
	}
	for _, test := range tests {
		if got := IsValueType(test.typ); got != test.want {
			t.Errorf("IsValueType(%s) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"same primitive", Integer{}, Integer{}, true},
		{"different primitive", Integer{}, Boolean{}, false},
		{"same array", Array{Integer{}}, Array{Integer{}}, true},
		{"different array element", Array{Integer{}}, Array{Boolean{}}, false},
		{"array vs primitive", Array{Integer{}}, Integer{}, false},
		{
			"same function",
			Function{Void{}, []Type{Integer{}, Boolean{}}},
			Function{Void{}, []Type{Integer{}, Boolean{}}},
			true,
		},
		{
			"different arity",
			Function{Void{}, []Type{Integer{}}},
			Function{Void{}, []Type{Integer{}, Integer{}}},
			false,
		},
	}
	for _, test := range tests {
		if got := Equal(test.a, test.b); got != test.equal {
			t.Errorf("%s: Equal(%v, %v) = %v, want %v", test.name, test.a, test.b, got, test.equal)
		}
		if got := Equal(test.b, test.a); got != test.equal {
			t.Errorf("%s: Equal is not symmetric", test.name)
		}
	}
}

func TestLessIsStrictTotalOrder(t *testing.T) {
	t.Parallel()
	distinct := []Type{
		Void{},
		Boolean{},
		Integer{},
		Array{Boolean{}},
		Array{Integer{}},
		Array{Array{Integer{}}},
		Function{Void{}, nil},
		Function{Void{}, []Type{Integer{}}},
		Function{Integer{}, nil},
	}
	for i, a := range distinct {
		for j, b := range distinct {
			if i == j {
				if Less(a, b) {
					t.Errorf("Less(%v, %v) = true for identical types", a, b)
				}
				continue
			}
			if Less(a, b) == Less(b, a) {
				t.Errorf("Less(%v, %v) and Less(%v, %v) are both %v", a, b, b, a, Less(a, b))
			}
			if i < j && !Less(a, b) {
				t.Errorf("Less(%v, %v) = false, want true (fixed ordering)", a, b)
			}
		}
	}
}

func TestString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		typ  Type
		want string
	}{
		{Void{}, "void"},
		{Boolean{}, "boolean"},
		{Integer{}, "integer"},
		{Array{Integer{}}, "array(integer)"},
		{Function{Void{}, []Type{Integer{}, Integer{}}}, "function(void, integer, integer)"},
	}
	for _, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("String() = %q, want %q", got, test.want)
		}
	}
}
