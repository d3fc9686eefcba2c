package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/lexer"
)

func parse(t *testing.T, input string) *Program {
	t.Helper()
	program, errs := NewParser(lexer.NewLexer(input)).ParseProgram()
	for _, err := range errs {
		t.Errorf("unexpected parse error: %s", err.Error())
	}
	require.Empty(t, errs)
	return program
}

func firstParseError(input string) string {
	_, errs := NewParser(lexer.NewLexer(input)).ParseProgram()
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message()
}

func TestProgramStringRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"annotated let", "let x: number = 5;", "let x: number = 5;"},
		{"precedence", "const a = 1 + 2 * 3;", "const a = (1 + (2 * 3));"},
		{"assignment is right associative", "a = b = c;", "(a = (b = c));"},
		{"exponent is right associative", "x ** y ** z;", "(x ** (y ** z));"},
		{"coalesce binds looser than or", "a ?? b || c;", "(a ?? (b || c));"},
		{"calls and optional chains", "f(a, ...b)?.c[0];", "f(a, ...b)?.c[0];"},
		{"as const", `let t = [1, "a"] as const;`, `let t = ([1, "a"] as const);`},
		{"unary and conditional", `typeof x === "string" ? -1 : +y;`, `(((typeof x) === "string") ? (-1) : (+y));`},
		{"arrow with annotations", "const f = (a: number, b?: string): number => a;", "const f = (a: number, b?: string): number => a;"},
		{"single parameter arrow", "x => x + 1;", "(x) => (x + 1);"},
		{"grouping", "(a + b) * c;", "((a + b) * c);"},
		{"parenthesized conditional branch", "c ? (a) : b;", "(c ? a : b);"},
		{"array destructuring assignment", "[a, b] = [b, a];", "([a, b] = [b, a]);"},
		{"object destructuring assignment", "({ a, b: c = 1, ...rest } = obj);", "({ a, b: c = 1, ...rest } = obj);"},
		{"array binding pattern", "let [x, , y = 2, ...zs] = arr;", "let [x, , y = 2, ...zs] = arr;"},
		{"object binding pattern", "const { p, q: r = 3 } = o;", "const { p, q: r = 3 } = o;"},
		{"for loop", "for (let i = 0; i < 10; i++) { continue; }", "for (let i = 0; (i < 10); (i++)) { continue; }"},
		{"switch", "switch (x) { case 1: break; default: y; }", "switch (x) { case 1: break; default: y; }"},
		{"if else", "if (a) b; else { c; }", "if (a) b; else { c; }"},
		{"do while", "do { x++; } while (x < 3);", "do { (x++); } while ((x < 3));"},
		{"new", "new Foo(1).bar;", "new Foo(1).bar;"},
		{"compound assignment", "x.y += 2;", "(x.y += 2);"},
		{"non-null assertion", "a!.b;", "a!.b;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parse(t, tt.input)
			assert.Equal(t, tt.expected, program.String())
		})
	}
}

func TestTypeAnnotations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"let u: string | number[] | readonly [a: string, b?: number, ...rest: boolean[]];",
			"let u: string | number[] | readonly [a: string, b?: number, ...rest: boolean[]];",
		},
		{"let g: (x: number) => string;", "let g: (x: number) => string;"},
		{"let h: (string | number)[];", "let h: (string | number)[];"},
		{"let c: new (x: number) => Foo;", "let c: new (x: number) => Foo;"},
		{"let l: -1 | \"a\" | true;", "let l: -1 | \"a\" | true;"},
		{"let q: typeof a.b;", "let q: typeof a.b;"},
		{"let o: { a: number, b?: string };", "let o: { a: number; b?: string; };"},
		{"type Pair = [number, string?];", "type Pair = [number, string?];"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parse(t, tt.input).String())
		})
	}
}

func TestInterfaceDeclaration(t *testing.T) {
	input := `interface P extends A, B {
		readonly x: number;
		y?: string
		m(a: number): void;
		[k: string]: any;
		(n: number): P;
		new (): P
	}`
	program := parse(t, input)
	require.Len(t, program.Statements, 1)

	decl, ok := program.Statements[0].(*InterfaceDeclaration)
	require.True(t, ok, "got %T", program.Statements[0])
	assert.Equal(t, "P", decl.Name.Value)
	require.Len(t, decl.Extends, 2)
	assert.Equal(t, "B", decl.Extends[1].Name)
	require.Len(t, decl.Body.Members, 6)

	x := decl.Body.Members[0].(*PropertySignature)
	assert.True(t, x.Readonly)
	assert.False(t, x.Optional)
	y := decl.Body.Members[1].(*PropertySignature)
	assert.True(t, y.Optional)
	assert.IsType(t, &MethodSignature{}, decl.Body.Members[2])
	idx := decl.Body.Members[3].(*IndexSignature)
	assert.Equal(t, "k", idx.ParamName)
	assert.IsType(t, &CallSignature{}, decl.Body.Members[4])
	assert.IsType(t, &ConstructSignature{}, decl.Body.Members[5])
	assert.Equal(t,
		"interface P extends A, B { readonly x: number; y?: string; m(a: number): void; [k: string]: any; (n: number): P; new (): P; }",
		decl.String())
}

func TestEnumDeclaration(t *testing.T) {
	program := parse(t, `const enum E { A, B = 1 << 2, "C" = "c", }`)
	require.Len(t, program.Statements, 1)
	decl, ok := program.Statements[0].(*EnumDeclaration)
	require.True(t, ok)
	assert.True(t, decl.IsConst)
	require.Len(t, decl.Members, 3)
	assert.Nil(t, decl.Members[0].Value)
	assert.Equal(t, "C", decl.Members[2].Name)
	assert.Equal(t, `const enum E { A, B = (1 << 2), C = "c" }`, decl.String())
}

func TestLiterals(t *testing.T) {
	program := parse(t, "0x1F; 1_000; 1e3; 10n; 0x10n; /ab+c/gi; null; true;")
	require.Len(t, program.Statements, 8)
	expr := func(i int) Expression { return program.Statements[i].(*ExpressionStatement).Expression }

	assert.Equal(t, 31.0, expr(0).(*NumberLiteral).Value)
	assert.Equal(t, 1000.0, expr(1).(*NumberLiteral).Value)
	assert.Equal(t, 1000.0, expr(2).(*NumberLiteral).Value)
	assert.Equal(t, "10", expr(3).(*BigIntLiteral).Value)
	assert.Equal(t, "16", expr(4).(*BigIntLiteral).Value)
	re := expr(5).(*RegexLiteral)
	assert.Equal(t, "ab+c", re.Pattern)
	assert.Equal(t, "gi", re.Flags)
	assert.IsType(t, &NullLiteral{}, expr(6))
	assert.True(t, expr(7).(*BooleanLiteral).Value)
}

func TestObjectLiteralMembers(t *testing.T) {
	program := parse(t, `let o = { a: 1, "b": 2, 3: x, [k]: 4, m() { return 1; }, s, ...rest };`)
	obj := program.Statements[0].(*VariableStatement).Declarations[0].Value.(*ObjectLiteral)
	require.Len(t, obj.Properties, 7)

	kinds := make([]PropertyKind, len(obj.Properties))
	for i, p := range obj.Properties {
		kinds[i] = p.Kind
	}
	assert.Equal(t, []PropertyKind{
		PropertyKeyValue, PropertyKeyValue, PropertyKeyValue, PropertyKeyValue,
		PropertyMethod, PropertyShorthand, PropertySpread,
	}, kinds)
	assert.True(t, obj.Properties[3].Computed)
	method := obj.Properties[4].Value.(*FunctionLiteral)
	assert.Equal(t, "m", method.Name.Value)
}

func TestArrayHoles(t *testing.T) {
	program := parse(t, "[1, , 2, ...xs,];")
	arr := program.Statements[0].(*ExpressionStatement).Expression.(*ArrayLiteral)
	require.Len(t, arr.Elements, 4)
	assert.Nil(t, arr.Elements[1])
	assert.IsType(t, &SpreadElement{}, arr.Elements[3])
}

func TestFunctionDeclaration(t *testing.T) {
	program := parse(t, "function add(a: number, b = 1, ...rest: number[]): number { return a + b; }")
	decl, ok := program.Statements[0].(*FunctionDeclaration)
	require.True(t, ok)
	fn := decl.Function
	assert.Equal(t, "add", fn.Name.Value)
	require.Len(t, fn.Parameters, 3)
	assert.NotNil(t, fn.Parameters[1].Default)
	assert.True(t, fn.Parameters[2].IsRest)
	assert.Equal(t, "rest", fn.Parameters[2].Name())
	assert.Equal(t, "number", fn.ReturnType.String())
}

func TestAutomaticSemicolons(t *testing.T) {
	program := parse(t, "let a = 1\nlet b = a\nb++\n++a")
	assert.Len(t, program.Statements, 4)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing binding", "let = 5;", "expected identifier or destructuring pattern, got ="},
		{"uninitialized const", "const x;", "'const' declarations must be initialized."},
		{"missing semicolon", "let x = 5 6;", "';' expected."},
		{"bad regex flags", "let r = /a/gg;", "Invalid regular expression flags"},
		{"stray shorthand initializer", "({a = 1});", "Invalid shorthand property initializer."},
		{"assignment to literal", "1 = 2;", "The left-hand side of an assignment expression must be a variable or a property access."},
		{"rest not last", "[...a, b] = c;", "A rest element must be last in a destructuring pattern."},
		{"required after optional", "let t: [a?: string, b: number];", "A required element cannot follow an optional element."},
		{"invalid character", "let a = #;", "Invalid character '#'"},
		{"duplicate default", "switch (x) { default: break; default: break; }", "A 'default' clause cannot appear more than once in a 'switch' statement."},
		{"rest parameter not last", "function f(...a, b) {}", "A rest parameter must be last in a parameter list."},
		{"for of", "for (const x of xs) {}", "for-in and for-of loops are not supported"},
		{"numeric enum member", "enum E { 1 = 2 }", "An enum member cannot have a numeric name."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, firstParseError(tt.input))
		})
	}
}

func TestInvalidRegexPattern(t *testing.T) {
	assert.Contains(t, firstParseError("let r = /a(/;"), "Invalid regular expression: /a(/")
}

func TestRegexFlags(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no flags", "let r = /ab+c/;"},
		{"ignore case and global", "let r = /ab+c/gi;"},
		{"multiline", "let r = /^a$/m;"},
		{"dot all", "let r = /a.b/s;"},
		{"unicode", "let r = /a/u;"},
		{"all flags", "let r = /a/dgimsuy;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, firstParseError(tt.input))
		})
	}
}

func TestShorthandInitializerInPattern(t *testing.T) {
	parse(t, "({a = 1} = o);")
}

func TestErrorPositions(t *testing.T) {
	_, errs := NewParser(lexer.NewLexer("let x = 5 6;")).ParseProgram()
	require.NotEmpty(t, errs)
	pos := errs[0].Pos()
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 11, pos.Column)
	assert.Equal(t, "Syntax", errs[0].Kind())
}
