package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/binder"
	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// check parses, binds and checks input. Parse and bind errors fail the test.
func check(t *testing.T, input string) (*binder.Result, error) {
	t.Helper()
	program, perrs := parser.NewParser(lexer.NewLexer(input)).ParseProgram()
	require.Empty(t, perrs, "parse errors")
	result, berrs := binder.Bind(program)
	require.Empty(t, berrs, "bind errors")
	return result, New().Check(program, result)
}

// typeOf returns the type bound to a global name.
func typeOf(t *testing.T, result *binder.Result, name string) types.Type {
	t.Helper()
	v := result.Global.FindLocal(name)
	require.NotNil(t, v, "no global %q", name)
	require.NotNil(t, v.Type, "%q has no type", name)
	return v.Type
}

type typeCase struct {
	name   string
	input  string
	global string
	expect string
}

func runTypeCases(t *testing.T, tests []typeCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := check(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, typeOf(t, result, tt.global).String())
		})
	}
}

type errorCase struct {
	name  string
	input string
	msg   string
}

func runErrorCases(t *testing.T, tests []errorCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := check(t, tt.input)
			require.Error(t, err)
			var typeErr *errors.TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tt.msg, typeErr.Msg)
		})
	}
}

func TestVariableDeclarationTypes(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"const keeps literal", "const x = 5;", "x", "5"},
		{"let widens", "let y = 5;", "y", "number"},
		{"let widens string", `let s = "a";`, "s", "string"},
		{"const string literal", `const s = "a";`, "s", `"a"`},
		{"const boolean", "const b = true;", "b", "true"},
		{"let boolean widens", "let b = false;", "b", "boolean"},
		{"bigint literal", "const n = 10n;", "n", "10n"},
		{"negative literal folds", "const n = -1;", "n", "-1"},
		{"negative bigint folds", "const n = -3n;", "n", "-3n"},
		{"sign on a reference widens", "const x = 5; const c = -x;", "c", "number"},
		{"plus on a reference widens", "const x = 5; const c = +x;", "c", "number"},
		{"negated enum member widens", "enum E { A = 1 } const c = -E.A;", "c", "number"},
		{"annotation wins", "let x: number | string = 1;", "x", "number | string"},
		{"array literal", `let a = [1, "a"];`, "a", "(number | string)[]"},
		{"homogeneous array", "let a = [1, 2, 3];", "a", "number[]"},
		{"as const tuple", `const t = [1, "a"] as const;`, "t", `readonly [1, "a"]`},
		{"object literal", "let o = { a: 1, b: \"x\" };", "o", "{ a: number; b: string; }"},
		{"const object properties widen", "const o = { a: 1 };", "o", "{ a: number; }"},
		{"as const object", "const o = { a: 1 } as const;", "o", "{ readonly a: 1; }"},
		{"later property overwrites", "const o = { a: 1, a: \"s\" };", "o", "{ a: string; }"},
		{"spread", "const a = { x: 1 }; const o = { ...a, y: true };", "o", "{ x: number; y: boolean; }"},
		{"regex", "let r = /ab+c/;", "r", "RegExp"},
		{"typeof in annotation", "let a = 1; let b: typeof a = 2;", "b", "number"},
		{"var redeclared with same type", "var x = 1; var x = 2;", "x", "number"},
	})
}

func TestVariableDeclarationErrors(t *testing.T) {
	runErrorCases(t, []errorCase{
		{"assign wrong type", "let x: string; x = 5;", "Type 'number' is not assignable to type 'string'."},
		{"initializer wrong type", `let x: number = "a";`, "Type 'string' is not assignable to type 'number'."},
		{"literal target keeps literal", "let x: 1 | 2 = 3;", "Type '3' is not assignable to type '1 | 2'."},
		{"redeclared with other type", `var x = 1; var x = "s";`, "Subsequent variable declarations must have the same type. Variable 'x' must be of type 'number', but here has type 'string'."},
		{"no initializer", "let x;", "Variable 'x' implicitly has an 'any' type."},
		{"null initializer", "let x = null;", "Variable 'x' implicitly has an 'any' type because its initializer is 'null'."},
		{"assign to const", "const x = 1; x = 2;", "Cannot assign to 'x' because it is a constant."},
		{"self reference", "let x = x + 1;", "'x' implicitly has type 'any' because it does not have a type annotation and is referenced directly or indirectly in its own initializer."},
		{"unknown name", "let x = y;", "Cannot find name 'y'."},
		{"spread overwrites property", "const a = { x: 1 }; const o = { x: 2, ...a };", "'x' is specified more than once, so this usage will be overwritten."},
		{"excess property", "let o: { a: number } = { a: 1, b: 2 };", "Object literal may only specify known properties, and 'b' does not exist in type '{ a: number; }'."},
		{"bad conversion", `let x = "a" as number;`, "Conversion of type 'string' to type 'number' may be a mistake because neither type sufficiently overlaps with the other."},
		{"type used as value", "type T = number; let x = T;", "'T' only refers to a type, but is being used as a value here."},
		{"value used as type", "let v = 1; let x: v = 1;", "'v' refers to a value, but is being used as a type here. Did you mean 'typeof v'?"},
	})
}

func TestSuggestions(t *testing.T) {
	program, perrs := parser.NewParser(lexer.NewLexer("let count = 1; let y = coutn;")).ParseProgram()
	require.Empty(t, perrs)
	result, berrs := binder.Bind(program)
	require.Empty(t, berrs)

	err := New(WithSuggestions(2)).Check(program, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot find name 'coutn'. Did you mean 'count'?")

	_, err = check(t, "let count = 1; let y = coutn;")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Did you mean")
}

func TestDestructuring(t *testing.T) {
	t.Run("array from tuple literal", func(t *testing.T) {
		result, err := check(t, `const [a, b] = [1, "s"];`)
		require.NoError(t, err)
		assert.Equal(t, "number", typeOf(t, result, "a").String())
		assert.Equal(t, "string", typeOf(t, result, "b").String())
	})

	t.Run("array rest", func(t *testing.T) {
		result, err := check(t, `let xs: number[] = [1]; let [first, ...others] = xs;`)
		require.NoError(t, err)
		assert.Equal(t, "number", typeOf(t, result, "first").String())
		assert.Equal(t, "number[]", typeOf(t, result, "others").String())
	})

	t.Run("object with default", func(t *testing.T) {
		result, err := check(t, "let o: { a?: number; b: string } = { b: \"x\" }; let { a = 5, b } = o;")
		require.NoError(t, err)
		assert.Equal(t, "number", typeOf(t, result, "a").String())
		assert.Equal(t, "string", typeOf(t, result, "b").String())
	})

	t.Run("object rest", func(t *testing.T) {
		result, err := check(t, "let o = { a: 1, b: \"x\", c: true }; let { a, ...rest } = o;")
		require.NoError(t, err)
		assert.Equal(t, "{ b: string; c: boolean; }", typeOf(t, result, "rest").String())
	})

	t.Run("nested", func(t *testing.T) {
		result, err := check(t, "let o = { p: { q: 1 } }; let { p: { q } } = o;")
		require.NoError(t, err)
		assert.Equal(t, "number", typeOf(t, result, "q").String())
	})

	t.Run("assignment", func(t *testing.T) {
		_, err := check(t, "let a = 1; let b = 2; [a, b] = [b, a];")
		require.NoError(t, err)
	})

	runErrorCases(t, []errorCase{
		{"past end of tuple", "let [p, q] = [1];", "Tuple type '[number]' of length '1' has no element at index '1'."},
		{"missing property", "let o = { a: 1 }; let { b } = o;", "Property 'b' does not exist on type '{ a: number; }'."},
		{"not an array", "let n = 1; let [x] = n;", "Type 'number' is not an array type."},
		{"assignment mismatch", `let a = 1; [a] = ["s"];`, "Type 'string' is not assignable to type 'number'."},
	})
}

func TestFunctions(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"declared return", "function f(a: number): string { return \"x\"; }", "f", "(a: number) => string"},
		{"inferred return widens", "function f() { return 1; }", "f", "() => number"},
		{"no return is void", "function f(a: string) {}", "f", "(a: string) => void"},
		{"returns union", "function f(a: boolean) { if (a) { return 1; } return \"s\"; }", "f", "(a: boolean) => number | string"},
		{"call result", "function f(a: number) { return a; } let r = f(1);", "r", "number"},
		{"optional parameter", "function f(a?: number) { return a; }", "f", "(a?: number) => number | undefined"},
		{"default parameter", "function f(a = 1) { return a; }", "f", "(a?: number) => number"},
		{"rest parameter", "function f(...xs: number[]) { return xs; } let r = f(1, 2);", "r", "number[]"},
		{"arrow expression body", "const f = (a: number) => a * 2;", "f", "(a: number) => number"},
		{"contextual parameter", "let f: (a: number) => number = (a) => a;", "f", "(a: number) => number"},
		{"recursive with annotation", "function f(n: number): number { return n > 0 ? f(n - 1) : 0; }", "f", "(n: number) => number"},
	})

	runErrorCases(t, []errorCase{
		{"wrong return", `function f(): number { return "str"; }`, "Type 'string' is not assignable to type 'number'."},
		{"missing return", "function f(): number {}", "A function whose declared type is neither 'void' nor 'any' must return a value."},
		{"implicit any parameter", "function f(a) {}", "Parameter 'a' implicitly has an 'any' type."},
		{"argument type", `function f(a: number) {} f("s");`, "Argument of type 'string' is not assignable to parameter of type 'number'."},
		{"too few arguments", "function f(a: number, b: number) {} f(1);", "Expected 2 arguments, but got 1."},
		{"optional arity", "function f(a: number, b?: number) {} f(1, 2, 3);", "Expected 1-2 arguments, but got 3."},
		{"rest arity", "function f(a: number, ...r: number[]) {} f();", "Expected at least 1 arguments, but got 0."},
		{"not callable", "let x = 1; x();", "This expression is not callable. Type 'number' has no call signatures."},
		{"recursive without annotation", "function f(n: number) { return f(n); }", "'f' implicitly has return type 'any' because it does not have a return type annotation and is referenced directly or indirectly in one of its return expressions."},
		{"return outside function", "return 1;", "A 'return' statement can only be used within a function body."},
		{"assign to function", "function f() {} f = 1;", "Cannot assign to 'f' because it is a function."},
		{"function in condition", "function f() { return true; } if (f) {}", "This condition will always return true since this function is always defined. Did you mean to call it instead?"},
	})
}

func TestInterfaces(t *testing.T) {
	t.Run("declarations merge", func(t *testing.T) {
		result, err := check(t, `
interface A { x: number }
interface A { y: string }
let a: A = { x: 1, y: "s" };
let y = a.y;
`)
		require.NoError(t, err)
		assert.Equal(t, "string", typeOf(t, result, "y").String())
	})

	t.Run("extends inherits members", func(t *testing.T) {
		result, err := check(t, `
interface Base { id: number }
interface Named extends Base { name: string }
let n: Named = { id: 1, name: "x" };
let id = n.id;
`)
		require.NoError(t, err)
		assert.Equal(t, "number", typeOf(t, result, "id").String())
	})

	t.Run("method call", func(t *testing.T) {
		result, err := check(t, `
interface Greeter { greet(name: string): string }
let g: Greeter = { greet: (name) => name };
let s = g.greet("x");
`)
		require.NoError(t, err)
		assert.Equal(t, "string", typeOf(t, result, "s").String())
	})

	runErrorCases(t, []errorCase{
		{"merged property conflict", "interface A { x: number } interface A { x: string }", "Subsequent property declarations must have the same type. Property 'x' must be of type 'number', but here has type 'string'."},
		{"missing member", "interface A { x: number; y: number } let a: A = { x: 1 };", "Type '{ x: number; }' is not assignable to type 'A'."},
		{"excess member", "interface A { x: number } let a: A = { x: 1, z: 2 };", "Object literal may only specify known properties, and 'z' does not exist in type 'A'."},
		{"unknown property", "interface A { x: number } let a: A = { x: 1 }; let b = a.y;", "Property 'y' does not exist on type 'A'."},
		{"readonly property", "interface A { readonly x: number } let a: A = { x: 1 }; a.x = 2;", "Cannot assign to 'x' because it is a read-only property."},
		{"self base", "interface A extends A { x: number } let a: A = { x: 1 };", "Type 'A' recursively references itself as a base type."},
		{"incompatible override", "interface A { x: number } interface B extends A { x: string }", "Interface 'B' incorrectly extends interface 'A'."},
		{"conflicting bases", "interface A { x: number } interface B { x: string } interface C extends A, B {}", "Interface 'C' cannot simultaneously extend types 'A' and 'B'."},
		{"circular alias", "type T = T; let x: T = 1;", "Type alias 'T' circularly references itself."},
	})
}

func TestOperators(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"string concatenation", `let s = 1 + "a";`, "s", "string"},
		{"number addition", "let n = 1 + 2;", "n", "number"},
		{"bigint addition", "let n = 1n + 2n;", "n", "bigint"},
		{"arithmetic", "let n = 6 % 4 ** 2;", "n", "number"},
		{"comparison", "let b = 1 < 2;", "b", "boolean"},
		{"negation", "const b = !0;", "b", "true"},
		{"typeof", "let t = typeof 1;", "t", "number"},
		{"logical or", `let x: string | undefined = undefined; let y = x || "d";`, "y", "string"},
		{"conditional", `let c = true ? 1 : "a";`, "c", "number | string"},
		{"increment", "let i = 0; let j = i++;", "j", "number"},
	})

	runErrorCases(t, []errorCase{
		{"bigint and number", "let n = 1n + 1;", "Operator '+' cannot be applied to types '1n' and '1'."},
		{"arithmetic on string", `let n = "a" * 2;`, "The left-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type."},
		{"null operand", "let n = 1 - null;", "The value 'null' cannot be used here."},
		{"no overlap", `let b = 1 === "a";`, "This comparison appears to be unintentional because the types '1' and '\"a\"' have no overlap."},
		{"unsigned shift on bigint", "let n = 1n >>> 2n;", "Operator '>>>' cannot be applied to types '1n' and '2n'."},
		{"increment string", `let s = "a"; s++;`, "An arithmetic operand must be of type 'any', 'number', 'bigint' or an enum type."},
	})
}

func TestMemberAccess(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"tuple element", "let t: [number, string] = [1, \"a\"]; let s = t[1];", "s", "string"},
		{"array element", "let a = [1, 2]; let n = a[0];", "n", "number"},
		{"array length", "let a = [1, 2]; let n = a.length;", "n", "number"},
		{"string length", `let s = "ab"; let n = s.length;`, "n", "number"},
		{"optional chain", "let o: { a: number } | undefined = undefined; let n = o?.a;", "n", "number | undefined"},
		{"optional property", "let o: { a?: number } = {}; let n = o.a;", "n", "number | undefined"},
		{"index signature", "let o: { [k: string]: boolean } = {}; let b = o.anything;", "b", "boolean"},
		{"non-null assertion", "let o: { a: number } | undefined = undefined; let n = o!.a;", "n", "number"},
	})

	runErrorCases(t, []errorCase{
		{"tuple out of range", "let t: [number] = [1]; let x = t[3];", "Tuple type '[number]' of length '1' has no element at index '3'."},
		{"possibly undefined", "let o: { a: number } | undefined = undefined; let n = o.a;", "'o' is possibly 'undefined'."},
		{"possibly null or undefined", "let o: { a: number } | null | undefined = null; let n = o.a;", "'o' is possibly 'null' or 'undefined'."},
		{"nested possibly undefined", "let o: { a: { b: number } | undefined } = { a: undefined }; let n = o.a.b;", "Object is possibly 'undefined'."},
		{"readonly index", "let a: readonly number[] = [1]; a[0] = 2;", "Index signature in type 'readonly number[]' only permits reading."},
	})
}

func TestSwitchCases(t *testing.T) {
	_, err := check(t, `let x = 1; switch (x) { case 1: break; case 2: break; default: }`)
	require.NoError(t, err)

	runErrorCases(t, []errorCase{
		{"incomparable case", `let x = 1; switch (x) { case "a": break; }`, "Type '\"a\"' is not comparable to type 'number'."},
	})
}

func TestConstContextNesting(t *testing.T) {
	runTypeCases(t, []typeCase{
		{"nested tuple", "const z = [[1], 2] as const;", "z", "readonly [readonly [1], 2]"},
		{"call argument leaves const context", "function f(a: number[]) { return 1; } const x = [f([1]), 2, [3]] as const;", "x", "readonly [number, 2, readonly [3]]"},
		{"restored after assertion", "const x = [1] as const; let y = [1];", "y", "number[]"},
	})
}

func TestCheckerIsReusablePerUnit(t *testing.T) {
	c := New()
	for _, src := range []string{"let a = 1;", "let b = \"x\";"} {
		program, perrs := parser.NewParser(lexer.NewLexer(src)).ParseProgram()
		require.Empty(t, perrs)
		result, berrs := binder.Bind(program)
		require.Empty(t, berrs)
		require.NoError(t, c.Check(program, result))
	}
	assert.Same(t, c.CreateNumberLiteralType(1), c.CreateNumberLiteralType(1))
}
