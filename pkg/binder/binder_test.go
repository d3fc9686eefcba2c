package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
)

func bind(t *testing.T, input string) (*parser.Program, *Result, []errors.Diagnostic) {
	t.Helper()
	program, perrs := parser.NewParser(lexer.NewLexer(input)).ParseProgram()
	require.Empty(t, perrs, "parse errors")
	result, errs := Bind(program)
	return program, result, errs
}

func TestDeclarationsLandInTheirScopes(t *testing.T) {
	program, result, errs := bind(t, `
		var a = 1;
		let b = 2;
		function f(p: number) {
			var inner = p;
			{ let blockOnly = 1; var hoisted = 2; }
		}
		for (let i = 0; i < 3; i++) {}
	`)
	require.Empty(t, errs)

	global := result.ScopeOf(program)
	require.Same(t, result.Global, global)
	assert.NotNil(t, global.FindLocal("a"))
	assert.NotNil(t, global.FindLocal("b"))
	assert.NotNil(t, global.FindLocal("f"))
	assert.Nil(t, global.FindLocal("i"))

	fn := program.Statements[2].(*parser.FunctionDeclaration).Function
	fnScope := result.ScopeOf(fn)
	require.NotNil(t, fnScope)
	assert.Equal(t, FunctionScope, fnScope.Kind)
	assert.Same(t, fnScope, result.ScopeOf(fn.Body))
	assert.Equal(t, ParameterBinding, fnScope.FindLocal("p").Kind)
	assert.NotNil(t, fnScope.FindLocal("inner"))
	assert.NotNil(t, fnScope.FindLocal("hoisted"), "var is hoisted to the function scope")
	assert.Nil(t, fnScope.FindLocal("blockOnly"))

	block := fn.Body.Statements[1].(*parser.BlockStatement)
	blockScope := result.ScopeOf(block)
	require.NotNil(t, blockScope)
	assert.NotNil(t, blockScope.FindLocal("blockOnly"))
	assert.Same(t, global.FindLocal("a"), blockScope.Find("a"))

	loop := program.Statements[3].(*parser.ForStatement)
	assert.NotNil(t, result.ScopeOf(loop).FindLocal("i"))
}

func TestVariableOrderAndNames(t *testing.T) {
	_, result, errs := bind(t, "let z = 1; let [a, , b = 2, ...rest] = [1]; const { p, q: r, ...others } = o;")
	require.Empty(t, errs)
	var names []string
	for _, v := range result.Global.Variables() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"z", "a", "b", "rest", "p", "r", "others"}, names)

	decl := result.Global.FindLocal("a").FirstDeclaration()
	require.NotNil(t, decl)
	assert.IsType(t, &parser.VariableDeclarator{}, decl.Node)
}

func TestMerging(t *testing.T) {
	_, result, errs := bind(t, `
		var v = 1; var v = 2;
		interface I { x: number } interface I { y: string }
		enum E { A } enum E { B = 3 }
	`)
	require.Empty(t, errs)
	assert.Len(t, result.Global.FindLocal("v").Decls, 2)
	assert.Len(t, result.Global.FindLocal("I").Decls, 2)

	e := result.Global.FindLocal("E")
	require.Len(t, e.Decls, 2)
	require.NotNil(t, e.Members)
	assert.NotNil(t, e.Members.FindLocal("A"))
	assert.NotNil(t, e.Members.FindLocal("B"))
	assert.Equal(t, EnumMemberBinding, e.Members.FindLocal("B").Kind)
}

func TestRedeclarationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"let twice", "let x = 1; let x = 2;", "Cannot redeclare block-scoped variable 'x'."},
		{"var after let", "let x = 1; var x = 2;", "Cannot redeclare block-scoped variable 'x'."},
		{"var hoisted past let", "{ let y = 1; { var y = 2; } }", "Cannot redeclare block-scoped variable 'y'."},
		{"function and var", "function f() {} var f = 1;", "Duplicate identifier 'f'."},
		{"duplicate enum member", "enum E { A } enum E { A = 1 }", "Duplicate identifier 'A'."},
		{"const and non-const enum", "enum E { A } const enum E { B = 1 }", "Enum declarations must all be const or non-const."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := bind(t, tt.input)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.msg, errs[0].Message())
			assert.Equal(t, "Syntax", errs[0].Kind())
		})
	}
}

func TestShadowingInNestedScopes(t *testing.T) {
	program, result, errs := bind(t, "let x = 1; { let x = 2; }")
	require.Empty(t, errs)
	block := program.Statements[1].(*parser.BlockStatement)
	inner := result.ScopeOf(block).Find("x")
	outer := result.Global.Find("x")
	assert.NotSame(t, outer, inner)
	assert.Equal(t, []string{"x"}, result.ScopeOf(block).VisibleNames())
}

func TestFunctionExpressionsAndArrows(t *testing.T) {
	program, result, errs := bind(t, "const f = function g(a) { return g; }; const h = (x = 1, ...ys) => x;")
	require.Empty(t, errs)

	g := program.Statements[0].(*parser.VariableStatement).Declarations[0].Value.(*parser.FunctionLiteral)
	gScope := result.ScopeOf(g)
	require.NotNil(t, gScope)
	assert.NotNil(t, gScope.FindLocal("g"), "named function expressions see their own name")
	assert.Nil(t, result.Global.FindLocal("g"))

	h := program.Statements[1].(*parser.VariableStatement).Declarations[0].Value.(*parser.FunctionLiteral)
	hScope := result.ScopeOf(h)
	require.NotNil(t, hScope)
	assert.NotNil(t, hScope.FindLocal("x"))
	assert.NotNil(t, hScope.FindLocal("ys"))
}

func TestTypeOnlyAndConst(t *testing.T) {
	_, result, errs := bind(t, "interface I {} type T = number; const c = 1; let l = 2; enum E { A }")
	require.Empty(t, errs)
	g := result.Global
	assert.True(t, g.FindLocal("I").IsTypeOnly())
	assert.True(t, g.FindLocal("T").IsTypeOnly())
	assert.True(t, g.FindLocal("c").IsConst())
	assert.False(t, g.FindLocal("l").IsConst())
	assert.True(t, g.FindLocal("E").IsConst())
	assert.True(t, g.FindLocal("E").Members.FindLocal("A").IsConst())
}
