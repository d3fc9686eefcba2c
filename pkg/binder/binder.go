// Package binder builds the scope tree of a program: it declares every
// binding in the scope that owns it, merges declarations that are allowed to
// merge and reports conflicting redeclarations.
package binder

import (
	"fmt"

	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
	"tscheck/pkg/source"
)

const debugBinder = false

func debugPrintf(format string, args ...interface{}) {
	if debugBinder {
		fmt.Printf("[Binder] "+format+"\n", args...)
	}
}

// Result maps scope-owning nodes to their scopes.
type Result struct {
	Global *Scope
	scopes map[parser.Node]*Scope
}

// ScopeOf returns the scope opened by node: *parser.Program, *parser.BlockStatement,
// *parser.FunctionLiteral, *parser.ForStatement, *parser.SwitchStatement or
// *parser.EnumDeclaration. It returns nil for any other node.
func (r *Result) ScopeOf(node parser.Node) *Scope {
	return r.scopes[node]
}

// Binder walks a program once, declaring bindings as it goes.
type Binder struct {
	result *Result
	scope  *Scope
	source *source.SourceFile
	errors []errors.Diagnostic
}

// Bind declares every binding in program. Conflicting declarations are
// reported as syntax errors; binding continues past them.
func Bind(program *parser.Program) (*Result, []errors.Diagnostic) {
	global := newScope(ProgramScope, nil, program)
	b := &Binder{
		result: &Result{Global: global, scopes: map[parser.Node]*Scope{program: global}},
		scope:  global,
		source: program.Source,
	}
	for _, stmt := range program.Statements {
		b.bindStatement(stmt)
	}
	return b.result, b.errors
}

func (b *Binder) addError(tok lexer.Token, format string, args ...interface{}) {
	b.errors = append(b.errors, &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   b.source,
		},
		Msg: fmt.Sprintf(format, args...),
	})
}

// enter opens a scope for node and returns the function restoring the
// previous one.
func (b *Binder) enter(kind ScopeKind, node parser.Node) func() {
	prev := b.scope
	b.scope = newScope(kind, prev, node)
	b.result.scopes[node] = b.scope
	debugPrintf("enter %s scope at %d:%d", kind, node.NodeToken().Line, node.NodeToken().Column)
	return func() { b.scope = prev }
}

// canMerge reports whether a new declaration of kind next may join an
// existing variable of kind prev.
func canMerge(prev, next VariableKind) bool {
	switch {
	case prev == VarBinding && next == VarBinding:
		return true
	case prev == ParameterBinding && next == VarBinding:
		return true
	case prev == InterfaceBinding && next == InterfaceBinding:
		return true
	case prev == EnumBinding && next == EnumBinding:
		return true
	}
	return false
}

func isBlockScoped(k VariableKind) bool {
	return k == LetBinding || k == ConstBinding
}

func (b *Binder) declare(scope *Scope, name string, kind VariableKind, node parser.Node, tok lexer.Token) *Variable {
	// Declarations record the lexical scope they appear in, which differs
	// from scope for hoisted vars.
	decl := &Declaration{Node: node, Scope: b.scope}
	if existing := scope.FindLocal(name); existing != nil {
		if canMerge(existing.Kind, kind) {
			existing.Decls = append(existing.Decls, decl)
			return existing
		}
		if isBlockScoped(kind) || isBlockScoped(existing.Kind) {
			b.addError(tok, "Cannot redeclare block-scoped variable '%s'.", name)
		} else {
			b.addError(tok, "Duplicate identifier '%s'.", name)
		}
		return existing
	}
	v := &Variable{Name: name, Kind: kind, Decls: []*Declaration{decl}}
	scope.add(v)
	debugPrintf("declare %s %s in %s scope", kind, name, scope.Kind)
	return v
}

// declareVar hoists a var binding to the enclosing function scope. A
// block-scoped binding of the same name on the way up is a conflict.
func (b *Binder) declareVar(name string, node parser.Node, tok lexer.Token) {
	target := b.scope.FunctionScope()
	for s := b.scope; s != target; s = s.Parent {
		if v := s.FindLocal(name); v != nil && isBlockScoped(v.Kind) {
			b.addError(tok, "Cannot redeclare block-scoped variable '%s'.", name)
			return
		}
	}
	b.declare(target, name, VarBinding, node, tok)
}

func (b *Binder) bindStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.VariableStatement:
		b.bindVariableStatement(s)
	case *parser.FunctionDeclaration:
		if s.Function.Name != nil {
			b.declare(b.scope, s.Function.Name.Value, FunctionBinding, s, s.Function.Name.Token)
		}
		b.bindFunction(s.Function, false)
	case *parser.ExpressionStatement:
		b.bindExpression(s.Expression)
	case *parser.BlockStatement:
		defer b.enter(BlockScope, s)()
		for _, inner := range s.Statements {
			b.bindStatement(inner)
		}
	case *parser.IfStatement:
		b.bindExpression(s.Condition)
		b.bindStatement(s.Consequence)
		if s.Alternative != nil {
			b.bindStatement(s.Alternative)
		}
	case *parser.WhileStatement:
		b.bindExpression(s.Condition)
		b.bindStatement(s.Body)
	case *parser.DoWhileStatement:
		b.bindStatement(s.Body)
		b.bindExpression(s.Condition)
	case *parser.ForStatement:
		defer b.enter(ForScope, s)()
		if s.Init != nil {
			b.bindStatement(s.Init)
		}
		b.bindExpression(s.Condition)
		b.bindExpression(s.Update)
		b.bindStatement(s.Body)
	case *parser.ReturnStatement:
		b.bindExpression(s.ReturnValue)
	case *parser.SwitchStatement:
		b.bindExpression(s.Discriminant)
		defer b.enter(SwitchScope, s)()
		for _, c := range s.Cases {
			b.bindExpression(c.Test)
			for _, inner := range c.Body {
				b.bindStatement(inner)
			}
		}
	case *parser.EnumDeclaration:
		b.bindEnum(s)
	case *parser.InterfaceDeclaration:
		b.declare(b.scope, s.Name.Value, InterfaceBinding, s, s.Name.Token)
	case *parser.TypeAliasStatement:
		b.declare(b.scope, s.Name.Value, TypeAliasBinding, s, s.Name.Token)
	case *parser.BreakStatement, *parser.ContinueStatement, *parser.EmptyStatement:
	default:
		panic(fmt.Sprintf("binder: unhandled statement %T", stmt))
	}
}

func (b *Binder) bindVariableStatement(s *parser.VariableStatement) {
	for _, d := range s.Declarations {
		kind := VarBinding
		switch d.Kind {
		case parser.VarKindLet:
			kind = LetBinding
		case parser.VarKindConst:
			kind = ConstBinding
		}
		b.declarePattern(d.Target, kind, d)
		b.bindExpression(d.Value)
	}
}

// declarePattern declares every name bound by target.
func (b *Binder) declarePattern(target parser.Expression, kind VariableKind, node parser.Node) {
	switch t := target.(type) {
	case *parser.Identifier:
		switch kind {
		case VarBinding:
			b.declareVar(t.Value, node, t.Token)
		default:
			b.declare(b.scope, t.Value, kind, node, t.Token)
		}
	case *parser.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil {
				b.declarePattern(el, kind, node)
			}
		}
	case *parser.ObjectPattern:
		for _, p := range t.Properties {
			if p.Computed {
				b.bindExpression(p.Key)
			}
			b.declarePattern(p.Value, kind, node)
		}
		if t.Rest != nil {
			b.declarePattern(t.Rest, kind, node)
		}
	case *parser.AssignmentPattern:
		b.declarePattern(t.Left, kind, node)
		b.bindExpression(t.Right)
	case *parser.RestElement:
		b.declarePattern(t.Argument, kind, node)
	}
}

// bindFunction opens the function scope and declares its parameters. A named
// function expression can refer to itself by name from inside.
func (b *Binder) bindFunction(fn *parser.FunctionLiteral, isExpression bool) {
	defer b.enter(FunctionScope, fn)()
	if fn.Body != nil {
		b.result.scopes[fn.Body] = b.scope
	}
	if isExpression && fn.Name != nil && fn.Token.Type == lexer.FUNCTION {
		b.declare(b.scope, fn.Name.Value, ConstBinding, fn, fn.Name.Token)
	}
	for _, p := range fn.Parameters {
		b.declareParameter(p.Target, p)
		b.bindExpression(p.Default)
	}
	if fn.Body != nil {
		for _, stmt := range fn.Body.Statements {
			b.bindStatement(stmt)
		}
	}
	b.bindExpression(fn.ExprBody)
}

func (b *Binder) declareParameter(target parser.Expression, p *parser.Parameter) {
	switch t := target.(type) {
	case *parser.Identifier:
		b.declare(b.scope, t.Value, ParameterBinding, p, t.Token)
	case *parser.ArrayPattern:
		for _, el := range t.Elements {
			if el != nil {
				b.declareParameter(el, p)
			}
		}
	case *parser.ObjectPattern:
		for _, prop := range t.Properties {
			b.declareParameter(prop.Value, p)
		}
		if t.Rest != nil {
			b.declareParameter(t.Rest.Argument, p)
		}
	case *parser.AssignmentPattern:
		b.declareParameter(t.Left, p)
		b.bindExpression(t.Right)
	case *parser.RestElement:
		b.declareParameter(t.Argument, p)
	}
}

// bindEnum declares the enum and its members. Every declaration of one enum
// shares a single member scope.
func (b *Binder) bindEnum(decl *parser.EnumDeclaration) {
	v := b.declare(b.scope, decl.Name.Value, EnumBinding, decl, decl.Name.Token)
	if v.Kind != EnumBinding {
		return
	}
	if v.Members == nil {
		v.Members = newScope(EnumScope, b.scope, decl)
		v.IsConstEnum = decl.IsConst
	} else if v.IsConstEnum != decl.IsConst {
		b.addError(decl.Name.Token, "Enum declarations must all be const or non-const.")
	}
	b.result.scopes[decl] = v.Members
	for _, m := range decl.Members {
		if v.Members.FindLocal(m.Name) != nil {
			b.addError(m.Token, "Duplicate identifier '%s'.", m.Name)
			continue
		}
		v.Members.add(&Variable{
			Name:  m.Name,
			Kind:  EnumMemberBinding,
			Decls: []*Declaration{{Node: m, Scope: v.Members}},
		})
	}
}

// bindExpression finds the function literals nested in expr.
func (b *Binder) bindExpression(expr parser.Expression) {
	switch e := expr.(type) {
	case nil:
	case *parser.FunctionLiteral:
		b.bindFunction(e, true)
	case *parser.ArrayLiteral:
		for _, el := range e.Elements {
			b.bindExpression(el)
		}
	case *parser.ObjectLiteral:
		for _, p := range e.Properties {
			if p.Computed {
				b.bindExpression(p.Key)
			}
			b.bindExpression(p.Value)
		}
	case *parser.SpreadElement:
		b.bindExpression(e.Argument)
	case *parser.CallExpression:
		b.bindExpression(e.Function)
		for _, a := range e.Arguments {
			b.bindExpression(a)
		}
	case *parser.NewExpression:
		b.bindExpression(e.Constructor)
		for _, a := range e.Arguments {
			b.bindExpression(a)
		}
	case *parser.MemberExpression:
		b.bindExpression(e.Object)
		if e.Computed {
			b.bindExpression(e.Property)
		}
	case *parser.AssignmentExpression:
		b.bindExpression(e.Left)
		b.bindExpression(e.Value)
	case *parser.BinaryExpression:
		b.bindExpression(e.Left)
		b.bindExpression(e.Right)
	case *parser.UnaryExpression:
		b.bindExpression(e.Operand)
	case *parser.UpdateExpression:
		b.bindExpression(e.Argument)
	case *parser.ConditionalExpression:
		b.bindExpression(e.Condition)
		b.bindExpression(e.Consequence)
		b.bindExpression(e.Alternative)
	case *parser.AsExpression:
		b.bindExpression(e.Expression)
	case *parser.NonNullExpression:
		b.bindExpression(e.Expression)
	case *parser.ArrayPattern:
		for _, el := range e.Elements {
			b.bindExpression(el)
		}
	case *parser.ObjectPattern:
		for _, p := range e.Properties {
			if p.Computed {
				b.bindExpression(p.Key)
			}
			b.bindExpression(p.Value)
		}
		if e.Rest != nil {
			b.bindExpression(e.Rest)
		}
	case *parser.AssignmentPattern:
		b.bindExpression(e.Left)
		b.bindExpression(e.Right)
	case *parser.RestElement:
		b.bindExpression(e.Argument)
	}
}
