package parser

import (
	"bytes"
	"strconv"
	"strings"

	"tscheck/pkg/lexer"
	"tscheck/pkg/types"
)

// --- Expression Nodes ---

// Identifier is a name reference.
type Identifier struct {
	BaseExpression
	Token lexer.Token
	Value string
}

func (i *Identifier) TokenLiteral() string   { return i.Token.Literal }
func (i *Identifier) NodeToken() lexer.Token { return i.Token }
func (i *Identifier) String() string         { return i.Value }

// NumberLiteral is a numeric literal; hex, octal and binary forms are
// converted when parsing.
type NumberLiteral struct {
	BaseExpression
	Token lexer.Token
	Value float64
}

func (nl *NumberLiteral) TokenLiteral() string   { return nl.Token.Literal }
func (nl *NumberLiteral) NodeToken() lexer.Token { return nl.Token }
func (nl *NumberLiteral) String() string         { return types.FormatNumber(nl.Value) }

// StringLiteral holds the unescaped string value.
type StringLiteral struct {
	BaseExpression
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) TokenLiteral() string   { return sl.Token.Literal }
func (sl *StringLiteral) NodeToken() lexer.Token { return sl.Token }
func (sl *StringLiteral) String() string         { return strconv.Quote(sl.Value) }

// BigIntLiteral holds the decimal digits of a bigint literal, without sign
// or `n` suffix.
type BigIntLiteral struct {
	BaseExpression
	Token lexer.Token
	Value string
}

func (bl *BigIntLiteral) TokenLiteral() string   { return bl.Token.Literal }
func (bl *BigIntLiteral) NodeToken() lexer.Token { return bl.Token }
func (bl *BigIntLiteral) String() string         { return bl.Value + "n" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	BaseExpression
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) TokenLiteral() string   { return bl.Token.Literal }
func (bl *BooleanLiteral) NodeToken() lexer.Token { return bl.Token }
func (bl *BooleanLiteral) String() string         { return bl.Token.Literal }

// NullLiteral is `null`.
type NullLiteral struct {
	BaseExpression
	Token lexer.Token
}

func (nl *NullLiteral) TokenLiteral() string   { return nl.Token.Literal }
func (nl *NullLiteral) NodeToken() lexer.Token { return nl.Token }
func (nl *NullLiteral) String() string         { return "null" }

// RegexLiteral is `/pattern/flags`. The pattern has already been validated.
type RegexLiteral struct {
	BaseExpression
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (rl *RegexLiteral) TokenLiteral() string   { return rl.Token.Literal }
func (rl *RegexLiteral) NodeToken() lexer.Token { return rl.Token }
func (rl *RegexLiteral) String() string         { return "/" + rl.Pattern + "/" + rl.Flags }

// ArrayLiteral is `[a, , ...b]`. Holes are nil elements; spreads are
// *SpreadElement.
type ArrayLiteral struct {
	BaseExpression
	Token    lexer.Token // [
	Elements []Expression
}

func (al *ArrayLiteral) TokenLiteral() string   { return al.Token.Literal }
func (al *ArrayLiteral) NodeToken() lexer.Token { return al.Token }
func (al *ArrayLiteral) String() string         { return "[" + joinExpressions(al.Elements) + "]" }

// PropertyKind distinguishes object literal members.
type PropertyKind int

const (
	PropertyKeyValue PropertyKind = iota // a: 1, [k]: 1, "s": 1
	PropertyShorthand                    // a
	PropertyMethod                       // m() {}
	PropertySpread                       // ...o
)

// ObjectProperty is one member of an object literal. Key is an
// *Identifier, *StringLiteral or *NumberLiteral, or any expression when
// Computed. Spreads have no key.
type ObjectProperty struct {
	Token    lexer.Token
	Kind     PropertyKind
	Key      Expression
	Computed bool
	Value    Expression
}

func (op *ObjectProperty) TokenLiteral() string   { return op.Token.Literal }
func (op *ObjectProperty) NodeToken() lexer.Token { return op.Token }
func (op *ObjectProperty) String() string {
	switch op.Kind {
	case PropertySpread:
		return "..." + op.Value.String()
	case PropertyShorthand:
		return op.Value.String()
	}
	key := op.Key.String()
	if op.Computed {
		key = "[" + key + "]"
	}
	return key + ": " + op.Value.String()
}

// ObjectLiteral is `{ a: 1, b, ...c }`.
type ObjectLiteral struct {
	BaseExpression
	Token      lexer.Token // {
	Properties []*ObjectProperty
}

func (ol *ObjectLiteral) TokenLiteral() string   { return ol.Token.Literal }
func (ol *ObjectLiteral) NodeToken() lexer.Token { return ol.Token }
func (ol *ObjectLiteral) String() string {
	if len(ol.Properties) == 0 {
		return "{}"
	}
	parts := make([]string, len(ol.Properties))
	for i, p := range ol.Properties {
		parts[i] = p.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// SpreadElement is `...expr` in an array literal or argument list.
type SpreadElement struct {
	BaseExpression
	Token    lexer.Token // ...
	Argument Expression
}

func (se *SpreadElement) TokenLiteral() string   { return se.Token.Literal }
func (se *SpreadElement) NodeToken() lexer.Token { return se.Token }
func (se *SpreadElement) String() string         { return "..." + se.Argument.String() }

// Parameter is one function parameter. Target is an *Identifier or a
// binding pattern.
type Parameter struct {
	Token          lexer.Token
	Target         Expression
	TypeAnnotation TypeNode
	Default        Expression
	Optional       bool
	IsRest         bool
}

func (p *Parameter) TokenLiteral() string   { return p.Token.Literal }
func (p *Parameter) NodeToken() lexer.Token { return p.Token }
func (p *Parameter) String() string {
	var out bytes.Buffer
	if p.IsRest {
		out.WriteString("...")
	}
	out.WriteString(p.Target.String())
	if p.Optional {
		out.WriteString("?")
	}
	if p.TypeAnnotation != nil {
		out.WriteString(": ")
		out.WriteString(p.TypeAnnotation.String())
	}
	if p.Default != nil {
		out.WriteString(" = ")
		out.WriteString(p.Default.String())
	}
	return out.String()
}

// Name returns the parameter's identifier, or "" for a pattern.
func (p *Parameter) Name() string {
	if id, ok := p.Target.(*Identifier); ok {
		return id.Value
	}
	return ""
}

// FunctionLiteral covers function expressions, declarations, methods and
// arrow functions. Exactly one of Body and ExprBody is set.
type FunctionLiteral struct {
	BaseExpression
	Token      lexer.Token // function, ( or the single arrow parameter
	Name       *Identifier
	Parameters []*Parameter
	ReturnType TypeNode
	Body       *BlockStatement
	ExprBody   Expression
	IsArrow    bool
}

func (fl *FunctionLiteral) TokenLiteral() string   { return fl.Token.Literal }
func (fl *FunctionLiteral) NodeToken() lexer.Token { return fl.Token }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	params := make([]string, len(fl.Parameters))
	for i, p := range fl.Parameters {
		params[i] = p.String()
	}
	if !fl.IsArrow {
		out.WriteString("function")
		if fl.Name != nil {
			out.WriteString(" " + fl.Name.Value)
		}
	}
	out.WriteString("(" + strings.Join(params, ", ") + ")")
	if fl.ReturnType != nil {
		out.WriteString(": " + fl.ReturnType.String())
	}
	if fl.IsArrow {
		out.WriteString(" =>")
	}
	out.WriteString(" ")
	if fl.Body != nil {
		out.WriteString(fl.Body.String())
	} else if fl.ExprBody != nil {
		out.WriteString(fl.ExprBody.String())
	}
	return out.String()
}

// CallExpression is `callee(args)` or `callee?.(args)`.
type CallExpression struct {
	BaseExpression
	Token     lexer.Token // (
	Function  Expression
	Arguments []Expression
	Optional  bool
}

func (ce *CallExpression) TokenLiteral() string   { return ce.Token.Literal }
func (ce *CallExpression) NodeToken() lexer.Token { return ce.Token }
func (ce *CallExpression) String() string {
	opt := ""
	if ce.Optional {
		opt = "?."
	}
	return ce.Function.String() + opt + "(" + joinExpressions(ce.Arguments) + ")"
}

// NewExpression is `new Ctor(args)`.
type NewExpression struct {
	BaseExpression
	Token       lexer.Token // new
	Constructor Expression
	Arguments   []Expression
}

func (ne *NewExpression) TokenLiteral() string   { return ne.Token.Literal }
func (ne *NewExpression) NodeToken() lexer.Token { return ne.Token }
func (ne *NewExpression) String() string {
	return "new " + ne.Constructor.String() + "(" + joinExpressions(ne.Arguments) + ")"
}

// MemberExpression is `obj.prop`, `obj[expr]` or their optional forms. For
// dotted access Property is an *Identifier holding the name.
type MemberExpression struct {
	BaseExpression
	Token    lexer.Token // . ?. or [
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

func (me *MemberExpression) TokenLiteral() string   { return me.Token.Literal }
func (me *MemberExpression) NodeToken() lexer.Token { return me.Token }
func (me *MemberExpression) String() string {
	var out bytes.Buffer
	out.WriteString(me.Object.String())
	if me.Optional {
		out.WriteString("?.")
	}
	if me.Computed {
		out.WriteString("[" + me.Property.String() + "]")
	} else {
		if !me.Optional {
			out.WriteString(".")
		}
		out.WriteString(me.Property.String())
	}
	return out.String()
}

// AssignmentExpression is `left op value` for = and the compound operators.
// Left is an *Identifier, *MemberExpression or a pattern.
type AssignmentExpression struct {
	BaseExpression
	Token    lexer.Token // the operator
	Operator string
	Left     Expression
	Value    Expression
}

func (ae *AssignmentExpression) TokenLiteral() string   { return ae.Token.Literal }
func (ae *AssignmentExpression) NodeToken() lexer.Token { return ae.Token }
func (ae *AssignmentExpression) String() string {
	return "(" + ae.Left.String() + " " + ae.Operator + " " + ae.Value.String() + ")"
}

// BinaryExpression is any infix operator, including the logical ones.
type BinaryExpression struct {
	BaseExpression
	Token    lexer.Token // the operator
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) TokenLiteral() string   { return be.Token.Literal }
func (be *BinaryExpression) NodeToken() lexer.Token { return be.Token }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// UnaryExpression is a prefix operator: ! - + ~ typeof void delete.
type UnaryExpression struct {
	BaseExpression
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) TokenLiteral() string   { return ue.Token.Literal }
func (ue *UnaryExpression) NodeToken() lexer.Token { return ue.Token }
func (ue *UnaryExpression) String() string {
	op := ue.Operator
	if op == "typeof" || op == "void" || op == "delete" {
		op += " "
	}
	return "(" + op + ue.Operand.String() + ")"
}

// UpdateExpression is ++x, --x, x++ or x--.
type UpdateExpression struct {
	BaseExpression
	Token    lexer.Token
	Operator string
	Prefix   bool
	Argument Expression
}

func (ue *UpdateExpression) TokenLiteral() string   { return ue.Token.Literal }
func (ue *UpdateExpression) NodeToken() lexer.Token { return ue.Token }
func (ue *UpdateExpression) String() string {
	if ue.Prefix {
		return "(" + ue.Operator + ue.Argument.String() + ")"
	}
	return "(" + ue.Argument.String() + ue.Operator + ")"
}

// ConditionalExpression is `cond ? a : b`.
type ConditionalExpression struct {
	BaseExpression
	Token       lexer.Token // ?
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ce *ConditionalExpression) TokenLiteral() string   { return ce.Token.Literal }
func (ce *ConditionalExpression) NodeToken() lexer.Token { return ce.Token }
func (ce *ConditionalExpression) String() string {
	return "(" + ce.Condition.String() + " ? " + ce.Consequence.String() + " : " + ce.Alternative.String() + ")"
}

// AsExpression is `expr as Type` or `expr as const`.
type AsExpression struct {
	BaseExpression
	Token      lexer.Token // as
	Expression Expression
	Type       TypeNode // nil when IsConst
	IsConst    bool
}

func (ae *AsExpression) TokenLiteral() string   { return ae.Token.Literal }
func (ae *AsExpression) NodeToken() lexer.Token { return ae.Token }
func (ae *AsExpression) String() string {
	if ae.IsConst {
		return "(" + ae.Expression.String() + " as const)"
	}
	return "(" + ae.Expression.String() + " as " + ae.Type.String() + ")"
}

// NonNullExpression is the postfix assertion `expr!`.
type NonNullExpression struct {
	BaseExpression
	Token      lexer.Token // !
	Expression Expression
}

func (ne *NonNullExpression) TokenLiteral() string   { return ne.Token.Literal }
func (ne *NonNullExpression) NodeToken() lexer.Token { return ne.Token }
func (ne *NonNullExpression) String() string         { return ne.Expression.String() + "!" }

// --- Binding and Assignment Patterns ---

// ArrayPattern is `[a, , b = 1, ...rest]` as a binding or assignment target.
// Holes are nil; defaults are *AssignmentPattern; the rest is *RestElement.
type ArrayPattern struct {
	BaseExpression
	Token    lexer.Token // [
	Elements []Expression
}

func (ap *ArrayPattern) TokenLiteral() string   { return ap.Token.Literal }
func (ap *ArrayPattern) NodeToken() lexer.Token { return ap.Token }
func (ap *ArrayPattern) String() string         { return "[" + joinExpressions(ap.Elements) + "]" }

// PatternProperty is `key: target` inside an object pattern. The shorthand
// `{a}` has Key and Value both set to the identifier a.
type PatternProperty struct {
	Token    lexer.Token
	Key      Expression
	Computed bool
	Value    Expression // target, possibly wrapped in *AssignmentPattern
}

func (pp *PatternProperty) TokenLiteral() string   { return pp.Token.Literal }
func (pp *PatternProperty) NodeToken() lexer.Token { return pp.Token }
func (pp *PatternProperty) String() string {
	key := pp.Key.String()
	if pp.Computed {
		key = "[" + key + "]"
	}
	if id, ok := pp.Value.(*Identifier); ok && !pp.Computed && id.Value == key {
		return key
	}
	if ap, ok := pp.Value.(*AssignmentPattern); ok {
		if id, ok := ap.Left.(*Identifier); ok && !pp.Computed && id.Value == key {
			return ap.String()
		}
	}
	return key + ": " + pp.Value.String()
}

// ObjectPattern is `{a, b: c, ...rest}` as a binding or assignment target.
type ObjectPattern struct {
	BaseExpression
	Token      lexer.Token // {
	Properties []*PatternProperty
	Rest       *RestElement
}

func (op *ObjectPattern) TokenLiteral() string   { return op.Token.Literal }
func (op *ObjectPattern) NodeToken() lexer.Token { return op.Token }
func (op *ObjectPattern) String() string {
	var parts []string
	for _, p := range op.Properties {
		parts = append(parts, p.String())
	}
	if op.Rest != nil {
		parts = append(parts, op.Rest.String())
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// AssignmentPattern is a target with a default, `target = value`.
type AssignmentPattern struct {
	BaseExpression
	Token lexer.Token // =
	Left  Expression
	Right Expression
}

func (ap *AssignmentPattern) TokenLiteral() string   { return ap.Token.Literal }
func (ap *AssignmentPattern) NodeToken() lexer.Token { return ap.Token }
func (ap *AssignmentPattern) String() string         { return ap.Left.String() + " = " + ap.Right.String() }

// RestElement is `...target` at the end of a pattern.
type RestElement struct {
	BaseExpression
	Token    lexer.Token // ...
	Argument Expression
}

func (re *RestElement) TokenLiteral() string   { return re.Token.Literal }
func (re *RestElement) NodeToken() lexer.Token { return re.Token }
func (re *RestElement) String() string         { return "..." + re.Argument.String() }

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		if e != nil {
			parts[i] = e.String()
		}
	}
	return strings.Join(parts, ", ")
}
