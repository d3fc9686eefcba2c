package parser

import (
	"bytes"
	"strings"

	"tscheck/pkg/lexer"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string // Returns the literal value of the token associated with the node
	String() string       // Returns a string representation of the node (for debugging)
	// NodeToken is the token diagnostics about this node are reported at.
	NodeToken() lexer.Token
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode()
}

// Expression represents an expression node in the AST. The checker stores
// the type it computes for the expression on the node itself.
type Expression interface {
	Node
	expressionNode()
	GetComputedType() types.Type
	SetComputedType(t types.Type)
}

// TypeNode is a type annotation as written in the source.
type TypeNode interface {
	Node
	typeNode()
}

// BaseExpression holds the type computed by the checker.
type BaseExpression struct {
	ComputedType types.Type
}

func (be *BaseExpression) GetComputedType() types.Type {
	return be.ComputedType
}

func (be *BaseExpression) SetComputedType(t types.Type) {
	be.ComputedType = t
}
func (be *BaseExpression) expressionNode() {}

// --- Program Node ---

// Program is the root node of the AST.
type Program struct {
	Statements []Statement
	Source     *source.SourceFile
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) NodeToken() lexer.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].NodeToken()
	}
	return lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statement Nodes ---

// VarKind is the declaration keyword of a variable statement.
type VarKind int

const (
	VarKindVar VarKind = iota
	VarKindLet
	VarKindConst
)

func (k VarKind) String() string {
	switch k {
	case VarKindLet:
		return "let"
	case VarKindConst:
		return "const"
	}
	return "var"
}

// VariableStatement is `var|let|const <declarator>, ...;`.
type VariableStatement struct {
	Token        lexer.Token // var, let or const
	Kind         VarKind
	Declarations []*VariableDeclarator
}

func (vs *VariableStatement) statementNode()         {}
func (vs *VariableStatement) TokenLiteral() string   { return vs.Token.Literal }
func (vs *VariableStatement) NodeToken() lexer.Token { return vs.Token }
func (vs *VariableStatement) String() string {
	parts := make([]string, len(vs.Declarations))
	for i, d := range vs.Declarations {
		parts[i] = d.String()
	}
	return vs.Kind.String() + " " + strings.Join(parts, ", ") + ";"
}

// VariableDeclarator is one `<target>: <annotation> = <value>` entry. Target
// is an *Identifier, *ArrayPattern or *ObjectPattern.
type VariableDeclarator struct {
	Token          lexer.Token // first token of the target
	Kind           VarKind
	Target         Expression
	TypeAnnotation TypeNode
	Value          Expression
}

func (d *VariableDeclarator) TokenLiteral() string   { return d.Token.Literal }
func (d *VariableDeclarator) NodeToken() lexer.Token { return d.Token }
func (d *VariableDeclarator) String() string {
	var out bytes.Buffer
	out.WriteString(d.Target.String())
	if d.TypeAnnotation != nil {
		out.WriteString(": ")
		out.WriteString(d.TypeAnnotation.String())
	}
	if d.Value != nil {
		out.WriteString(" = ")
		out.WriteString(d.Value.String())
	}
	return out.String()
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Token      lexer.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()         {}
func (es *ExpressionStatement) TokenLiteral() string   { return es.Token.Literal }
func (es *ExpressionStatement) NodeToken() lexer.Token { return es.Token }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ";"
}

// BlockStatement is a braced list of statements.
type BlockStatement struct {
	Token      lexer.Token // {
	Statements []Statement
}

func (bs *BlockStatement) statementNode()         {}
func (bs *BlockStatement) TokenLiteral() string   { return bs.Token.Literal }
func (bs *BlockStatement) NodeToken() lexer.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement is `if (cond) consequence else alternative`.
type IfStatement struct {
	Token       lexer.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (is *IfStatement) statementNode()         {}
func (is *IfStatement) TokenLiteral() string   { return is.Token.Literal }
func (is *IfStatement) NodeToken() lexer.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()         {}
func (ws *WhileStatement) TokenLiteral() string   { return ws.Token.Literal }
func (ws *WhileStatement) NodeToken() lexer.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// DoWhileStatement is `do body while (cond);`.
type DoWhileStatement struct {
	Token     lexer.Token
	Body      Statement
	Condition Expression
}

func (ds *DoWhileStatement) statementNode()         {}
func (ds *DoWhileStatement) TokenLiteral() string   { return ds.Token.Literal }
func (ds *DoWhileStatement) NodeToken() lexer.Token { return ds.Token }
func (ds *DoWhileStatement) String() string {
	return "do " + ds.Body.String() + " while (" + ds.Condition.String() + ");"
}

// ForStatement is the C-style `for (init; cond; update) body`. Any of the
// three header parts may be nil.
type ForStatement struct {
	Token     lexer.Token
	Init      Statement // *VariableStatement or *ExpressionStatement
	Condition Expression
	Update    Expression
	Body      Statement
}

func (fs *ForStatement) statementNode()         {}
func (fs *ForStatement) TokenLiteral() string   { return fs.Token.Literal }
func (fs *ForStatement) NodeToken() lexer.Token { return fs.Token }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(strings.TrimSuffix(fs.Init.String(), ";"))
	}
	out.WriteString("; ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Update != nil {
		out.WriteString(fs.Update.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// ReturnStatement is `return value;`; ReturnValue is nil for a bare return.
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()         {}
func (rs *ReturnStatement) TokenLiteral() string   { return rs.Token.Literal }
func (rs *ReturnStatement) NodeToken() lexer.Token { return rs.Token }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue != nil {
		return "return " + rs.ReturnValue.String() + ";"
	}
	return "return;"
}

// BreakStatement is `break;`.
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()         {}
func (bs *BreakStatement) TokenLiteral() string   { return bs.Token.Literal }
func (bs *BreakStatement) NodeToken() lexer.Token { return bs.Token }
func (bs *BreakStatement) String() string         { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()         {}
func (cs *ContinueStatement) TokenLiteral() string   { return cs.Token.Literal }
func (cs *ContinueStatement) NodeToken() lexer.Token { return cs.Token }
func (cs *ContinueStatement) String() string         { return "continue;" }

// SwitchStatement is `switch (discriminant) { cases }`.
type SwitchStatement struct {
	Token        lexer.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

func (ss *SwitchStatement) statementNode()         {}
func (ss *SwitchStatement) TokenLiteral() string   { return ss.Token.Literal }
func (ss *SwitchStatement) NodeToken() lexer.Token { return ss.Token }
func (ss *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(ss.Discriminant.String())
	out.WriteString(") { ")
	for _, c := range ss.Cases {
		out.WriteString(c.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// SwitchCase is one `case test:` clause; Test is nil for `default:`.
type SwitchCase struct {
	Token lexer.Token
	Test  Expression
	Body  []Statement
}

func (sc *SwitchCase) TokenLiteral() string   { return sc.Token.Literal }
func (sc *SwitchCase) NodeToken() lexer.Token { return sc.Token }
func (sc *SwitchCase) String() string {
	var out bytes.Buffer
	if sc.Test != nil {
		out.WriteString("case " + sc.Test.String() + ":")
	} else {
		out.WriteString("default:")
	}
	for _, s := range sc.Body {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	return out.String()
}

// FunctionDeclaration is a named `function f() {}` at statement level.
type FunctionDeclaration struct {
	Token    lexer.Token
	Function *FunctionLiteral
}

func (fd *FunctionDeclaration) statementNode()         {}
func (fd *FunctionDeclaration) TokenLiteral() string   { return fd.Token.Literal }
func (fd *FunctionDeclaration) NodeToken() lexer.Token { return fd.Token }
func (fd *FunctionDeclaration) String() string         { return fd.Function.String() }

// EnumDeclaration is `[const] enum Name { members }`.
type EnumDeclaration struct {
	Token   lexer.Token // enum
	Name    *Identifier
	Members []*EnumMember
	IsConst bool
}

func (ed *EnumDeclaration) statementNode()         {}
func (ed *EnumDeclaration) TokenLiteral() string   { return ed.Token.Literal }
func (ed *EnumDeclaration) NodeToken() lexer.Token { return ed.Token }
func (ed *EnumDeclaration) String() string {
	var out bytes.Buffer
	if ed.IsConst {
		out.WriteString("const ")
	}
	out.WriteString("enum ")
	out.WriteString(ed.Name.String())
	out.WriteString(" { ")
	parts := make([]string, len(ed.Members))
	for i, m := range ed.Members {
		parts[i] = m.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(" }")
	return out.String()
}

// EnumMember is `Name [= initializer]`. Name may have been written as a string.
type EnumMember struct {
	Token lexer.Token
	Name  string
	Value Expression
}

func (em *EnumMember) TokenLiteral() string   { return em.Token.Literal }
func (em *EnumMember) NodeToken() lexer.Token { return em.Token }
func (em *EnumMember) String() string {
	if em.Value != nil {
		return em.Name + " = " + em.Value.String()
	}
	return em.Name
}

// InterfaceDeclaration is `interface Name extends A, B { members }`.
type InterfaceDeclaration struct {
	Token   lexer.Token // interface
	Name    *Identifier
	Extends []*TypeReference
	Body    *ObjectTypeLiteral
}

func (id *InterfaceDeclaration) statementNode()         {}
func (id *InterfaceDeclaration) TokenLiteral() string   { return id.Token.Literal }
func (id *InterfaceDeclaration) NodeToken() lexer.Token { return id.Token }
func (id *InterfaceDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("interface ")
	out.WriteString(id.Name.String())
	if len(id.Extends) > 0 {
		parts := make([]string, len(id.Extends))
		for i, e := range id.Extends {
			parts[i] = e.String()
		}
		out.WriteString(" extends ")
		out.WriteString(strings.Join(parts, ", "))
	}
	out.WriteString(" ")
	out.WriteString(id.Body.String())
	return out.String()
}

// TypeAliasStatement is `type Name = Type;`.
type TypeAliasStatement struct {
	Token lexer.Token // the contextual `type` identifier
	Name  *Identifier
	Type  TypeNode
}

func (ta *TypeAliasStatement) statementNode()         {}
func (ta *TypeAliasStatement) TokenLiteral() string   { return ta.Token.Literal }
func (ta *TypeAliasStatement) NodeToken() lexer.Token { return ta.Token }
func (ta *TypeAliasStatement) String() string {
	return "type " + ta.Name.String() + " = " + ta.Type.String() + ";"
}

// EmptyStatement is a lone `;`.
type EmptyStatement struct {
	Token lexer.Token
}

func (es *EmptyStatement) statementNode()         {}
func (es *EmptyStatement) TokenLiteral() string   { return es.Token.Literal }
func (es *EmptyStatement) NodeToken() lexer.Token { return es.Token }
func (es *EmptyStatement) String() string         { return ";" }
