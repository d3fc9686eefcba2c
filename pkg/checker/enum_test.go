package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/binder"
	"tscheck/pkg/types"
)

func enumOf(t *testing.T, result *binder.Result, name string) *types.EnumLiteralType {
	t.Helper()
	e, ok := typeOf(t, result, name).(*types.EnumLiteralType)
	require.True(t, ok, "%s is not an enum", name)
	return e
}

func memberValues(e *types.EnumLiteralType) []string {
	var values []string
	for _, name := range e.Order {
		values = append(values, name+"="+e.Members[name].Value.String())
	}
	return values
}

func TestEnumMemberValues(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		enum   string
		expect []string
		kind   types.EnumKind
	}{
		{"auto increment from zero", "enum E { A, B, C }", "E", []string{"A=0", "B=1", "C=2"}, types.EnumNumeric},
		{"auto increment from initializer", "enum F { A = 5, B, C }", "F", []string{"A=5", "B=6", "C=7"}, types.EnumNumeric},
		{"member references", "enum E { A = 1, B = A * 2, C = E.B + 1 }", "E", []string{"A=1", "B=2", "C=3"}, types.EnumNumeric},
		{"bitwise", "enum F { A = 1 << 2, B = A | 1, C = ~0 }", "F", []string{"A=4", "B=5", "C=-1"}, types.EnumNumeric},
		{"string members", `enum S { A = "a", B = "b" + "c" }`, "S", []string{`A="a"`, `B="bc"`}, types.EnumLiteral},
		{"mixed", `enum M { A = 1, B = "b" }`, "M", []string{"A=1", `B="b"`}, types.EnumLiteral},
		{"merged declarations", "enum E { A } enum E { B = 5, C }", "E", []string{"A=0", "B=5", "C=6"}, types.EnumNumeric},
		{"other enum", "enum A { X = 3 } enum B { Y = A.X + 1 }", "B", []string{"Y=4"}, types.EnumNumeric},
		{"computed numeric", "let k = 1; enum N { A = k }", "N", []string{"A=<computed>"}, types.EnumNumeric},
		{"const enum", "const enum C { A = -1, B }", "C", []string{"A=-1", "B=0"}, types.EnumNumeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := check(t, tt.input)
			require.NoError(t, err)
			e := enumOf(t, result, tt.enum)
			assert.Equal(t, tt.expect, memberValues(e))
			assert.Equal(t, tt.kind, e.EnumKind)
		})
	}
}

func TestEnumReverseMapping(t *testing.T) {
	result, err := check(t, "enum E { A, B, C = 0 } let n = E[0];")
	require.NoError(t, err)

	e := enumOf(t, result, "E")
	name, ok := e.ReverseName("0")
	require.True(t, ok)
	assert.Equal(t, "A", name, "first member with a value wins")
	assert.Equal(t, "string", typeOf(t, result, "n").String())
}

func TestEnumMemberTypes(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"const keeps member", "enum E { A, B } const x = E.A;", "x", "E.A"},
		{"let widens to enum", "enum E { A, B } let x = E.A;", "x", "E"},
		{"member arithmetic", "enum E { A, B } let n = E.B + 1;", "n", "number"},
		{"enum as annotation", "enum E { A, B } let e: E = E.B;", "e", "E"},
	})
}

func TestEnumErrors(t *testing.T) {
	runErrorCases(t, []errorCase{
		{"const enum division by zero", "const enum E { A = 1 / 0 }", "'const' enum member initializer was evaluated to a non-finite value."},
		{"const enum NaN", "const enum E { A = 0 / 0 }", "'const' enum member initializer was evaluated to disallowed value 'NaN'."},
		{"missing initializer after string", `enum E { A = "x", B }`, "Enum member must have initializer."},
		{"forward reference", "enum E { A = B, B = 1 }", "A member initializer in a enum declaration cannot reference members declared after it, including members defined in other enums."},
		{"computed in string enum", `let s = "x"; enum E { A = "a", B = s.length }`, "Computed values are not permitted in an enum with string valued members."},
		{"computed in const enum", "let k = 1; const enum E { A = k }", "const enum member initializers must be constant expressions."},
		{"computed string value", `let s = "x"; enum E { A = s }`, "Type 'string' is not assignable to type 'number' as required for computed enum member values."},
		{"second declaration without initializer", "enum E { A } enum E { B }", "In an enum with multiple declarations, only one declaration can omit an initializer for its first enum element."},
		{"assign to member", "enum E { A } E.A = 1;", "Cannot assign to 'A' because it is a read-only property."},
		{"assign to enum", "enum E { A } E = 1;", "Cannot assign to 'E' because it is an enum."},
	})
}
