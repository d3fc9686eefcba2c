package parser

import (
	"bytes"
	"strings"

	"tscheck/pkg/lexer"
)

// --- Type Annotation Nodes ---

// TypeReference names a type: a primitive keyword, an interface, an enum or
// an alias.
type TypeReference struct {
	Token lexer.Token
	Name  string
}

func (tr *TypeReference) typeNode()              {}
func (tr *TypeReference) TokenLiteral() string   { return tr.Token.Literal }
func (tr *TypeReference) NodeToken() lexer.Token { return tr.Token }
func (tr *TypeReference) String() string         { return tr.Name }

// LiteralTypeNode is a literal used as a type, e.g. `5`, `-1`, `"a"`, `true`.
// Literal is a *NumberLiteral, *StringLiteral, *BooleanLiteral or
// *BigIntLiteral; Negative records a leading minus.
type LiteralTypeNode struct {
	Token    lexer.Token
	Literal  Expression
	Negative bool
}

func (lt *LiteralTypeNode) typeNode()              {}
func (lt *LiteralTypeNode) TokenLiteral() string   { return lt.Token.Literal }
func (lt *LiteralTypeNode) NodeToken() lexer.Token { return lt.Token }
func (lt *LiteralTypeNode) String() string {
	if lt.Negative {
		return "-" + lt.Literal.String()
	}
	return lt.Literal.String()
}

// ArrayTypeNode is `T[]`.
type ArrayTypeNode struct {
	Token       lexer.Token // [
	ElementType TypeNode
}

func (at *ArrayTypeNode) typeNode()              {}
func (at *ArrayTypeNode) TokenLiteral() string   { return at.Token.Literal }
func (at *ArrayTypeNode) NodeToken() lexer.Token { return at.Token }
func (at *ArrayTypeNode) String() string {
	switch at.ElementType.(type) {
	case *UnionTypeNode, *FunctionTypeNode:
		return "(" + at.ElementType.String() + ")[]"
	}
	return at.ElementType.String() + "[]"
}

// ReadonlyTypeNode is the `readonly` operator on an array or tuple type.
type ReadonlyTypeNode struct {
	Token lexer.Token // readonly
	Type  TypeNode
}

func (rt *ReadonlyTypeNode) typeNode()              {}
func (rt *ReadonlyTypeNode) TokenLiteral() string   { return rt.Token.Literal }
func (rt *ReadonlyTypeNode) NodeToken() lexer.Token { return rt.Token }
func (rt *ReadonlyTypeNode) String() string         { return "readonly " + rt.Type.String() }

// TupleElement is one position of a tuple type.
type TupleElement struct {
	Token    lexer.Token
	Name     string // label, may be empty
	Type     TypeNode
	Optional bool
	Rest     bool
}

func (te *TupleElement) TokenLiteral() string   { return te.Token.Literal }
func (te *TupleElement) NodeToken() lexer.Token { return te.Token }
func (te *TupleElement) String() string {
	var out bytes.Buffer
	if te.Rest {
		out.WriteString("...")
	}
	if te.Name != "" {
		out.WriteString(te.Name)
		if te.Optional {
			out.WriteString("?")
		}
		out.WriteString(": ")
		out.WriteString(te.Type.String())
		return out.String()
	}
	out.WriteString(te.Type.String())
	if te.Optional {
		out.WriteString("?")
	}
	return out.String()
}

// TupleTypeNode is `[A, B?, ...C[]]`.
type TupleTypeNode struct {
	Token    lexer.Token // [
	Elements []*TupleElement
}

func (tt *TupleTypeNode) typeNode()              {}
func (tt *TupleTypeNode) TokenLiteral() string   { return tt.Token.Literal }
func (tt *TupleTypeNode) NodeToken() lexer.Token { return tt.Token }
func (tt *TupleTypeNode) String() string {
	parts := make([]string, len(tt.Elements))
	for i, e := range tt.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UnionTypeNode is `A | B | C`.
type UnionTypeNode struct {
	Token lexer.Token // first |
	Types []TypeNode
}

func (ut *UnionTypeNode) typeNode()              {}
func (ut *UnionTypeNode) TokenLiteral() string   { return ut.Token.Literal }
func (ut *UnionTypeNode) NodeToken() lexer.Token { return ut.Token }
func (ut *UnionTypeNode) String() string {
	parts := make([]string, len(ut.Types))
	for i, t := range ut.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

// FunctionTypeNode is `(a: A) => R` or `new (a: A) => R`.
type FunctionTypeNode struct {
	Token         lexer.Token
	Parameters    []*Parameter
	ReturnType    TypeNode
	IsConstructor bool
}

func (ft *FunctionTypeNode) typeNode()              {}
func (ft *FunctionTypeNode) TokenLiteral() string   { return ft.Token.Literal }
func (ft *FunctionTypeNode) NodeToken() lexer.Token { return ft.Token }
func (ft *FunctionTypeNode) String() string {
	prefix := ""
	if ft.IsConstructor {
		prefix = "new "
	}
	return prefix + paramList(ft.Parameters) + " => " + ft.ReturnType.String()
}

// TypeQuery is `typeof x` or `typeof x.y` in a type position.
type TypeQuery struct {
	Token      lexer.Token // typeof
	Expression Expression
}

func (tq *TypeQuery) typeNode()              {}
func (tq *TypeQuery) TokenLiteral() string   { return tq.Token.Literal }
func (tq *TypeQuery) NodeToken() lexer.Token { return tq.Token }
func (tq *TypeQuery) String() string         { return "typeof " + tq.Expression.String() }

// --- Object Type Literals ---

// TypeMember is a member of an object type literal or interface body.
type TypeMember interface {
	Node
	typeMember()
}

// ObjectTypeLiteral is `{ members }` in a type position, also used for
// interface bodies.
type ObjectTypeLiteral struct {
	Token   lexer.Token // {
	Members []TypeMember
}

func (ot *ObjectTypeLiteral) typeNode()              {}
func (ot *ObjectTypeLiteral) TokenLiteral() string   { return ot.Token.Literal }
func (ot *ObjectTypeLiteral) NodeToken() lexer.Token { return ot.Token }
func (ot *ObjectTypeLiteral) String() string {
	if len(ot.Members) == 0 {
		return "{}"
	}
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, m := range ot.Members {
		out.WriteString(m.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}

// PropertySignature is `[readonly] name[?]: Type`.
type PropertySignature struct {
	Token    lexer.Token
	Name     string
	Type     TypeNode // nil means an implicit any
	Optional bool
	Readonly bool
}

func (ps *PropertySignature) typeMember()            {}
func (ps *PropertySignature) TokenLiteral() string   { return ps.Token.Literal }
func (ps *PropertySignature) NodeToken() lexer.Token { return ps.Token }
func (ps *PropertySignature) String() string {
	var out bytes.Buffer
	if ps.Readonly {
		out.WriteString("readonly ")
	}
	out.WriteString(ps.Name)
	if ps.Optional {
		out.WriteString("?")
	}
	if ps.Type != nil {
		out.WriteString(": ")
		out.WriteString(ps.Type.String())
	}
	return out.String()
}

// MethodSignature is `name[?](params): R`.
type MethodSignature struct {
	Token      lexer.Token
	Name       string
	Optional   bool
	Parameters []*Parameter
	ReturnType TypeNode
}

func (ms *MethodSignature) typeMember()            {}
func (ms *MethodSignature) TokenLiteral() string   { return ms.Token.Literal }
func (ms *MethodSignature) NodeToken() lexer.Token { return ms.Token }
func (ms *MethodSignature) String() string {
	opt := ""
	if ms.Optional {
		opt = "?"
	}
	return ms.Name + opt + paramList(ms.Parameters) + returnSuffix(ms.ReturnType)
}

// IndexSignature is `[readonly] [key: string|number]: T`.
type IndexSignature struct {
	Token     lexer.Token // [
	ParamName string
	KeyType   TypeNode
	ValueType TypeNode
	Readonly  bool
}

func (is *IndexSignature) typeMember()            {}
func (is *IndexSignature) TokenLiteral() string   { return is.Token.Literal }
func (is *IndexSignature) NodeToken() lexer.Token { return is.Token }
func (is *IndexSignature) String() string {
	prefix := ""
	if is.Readonly {
		prefix = "readonly "
	}
	return prefix + "[" + is.ParamName + ": " + is.KeyType.String() + "]: " + is.ValueType.String()
}

// CallSignature is `(params): R` inside an object type.
type CallSignature struct {
	Token      lexer.Token // (
	Parameters []*Parameter
	ReturnType TypeNode
}

func (cs *CallSignature) typeMember()            {}
func (cs *CallSignature) TokenLiteral() string   { return cs.Token.Literal }
func (cs *CallSignature) NodeToken() lexer.Token { return cs.Token }
func (cs *CallSignature) String() string         { return paramList(cs.Parameters) + returnSuffix(cs.ReturnType) }

// ConstructSignature is `new (params): R` inside an object type.
type ConstructSignature struct {
	Token      lexer.Token // new
	Parameters []*Parameter
	ReturnType TypeNode
}

func (cs *ConstructSignature) typeMember()            {}
func (cs *ConstructSignature) TokenLiteral() string   { return cs.Token.Literal }
func (cs *ConstructSignature) NodeToken() lexer.Token { return cs.Token }
func (cs *ConstructSignature) String() string {
	return "new " + paramList(cs.Parameters) + returnSuffix(cs.ReturnType)
}

func paramList(params []*Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func returnSuffix(t TypeNode) string {
	if t == nil {
		return ""
	}
	return ": " + t.String()
}
