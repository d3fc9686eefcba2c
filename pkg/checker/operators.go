package checker

import (
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// binaryOperands is what a binary rule sees. The expressions are nil when
// the rule runs for a compound assignment.
type binaryOperands struct {
	op          string
	left, right types.Type
	leftExpr    parser.Expression
	rightExpr   parser.Expression
	at          parser.Node
}

// binaryRule computes the result type of one binary operator.
type binaryRule func(b *binaryOperands) types.Type

func (c *Checker) newBinaryRules() map[string]binaryRule {
	rules := map[string]binaryRule{
		"+":          c.checkPlusOperator,
		"<":          c.checkRelationalOperator,
		">":          c.checkRelationalOperator,
		"<=":         c.checkRelationalOperator,
		">=":         c.checkRelationalOperator,
		"==":         c.checkEqualityOperator,
		"!=":         c.checkEqualityOperator,
		"===":        c.checkEqualityOperator,
		"!==":        c.checkEqualityOperator,
		"instanceof": c.checkInstanceofOperator,
		"in":         c.checkInOperator,
		"&&":         c.checkLogicalAnd,
		"||":         c.checkLogicalOr,
		"??":         func(*binaryOperands) types.Type { return types.Any },
	}
	for _, op := range []string{"-", "*", "/", "%", "**", "<<", ">>", ">>>", "&", "|", "^"} {
		rules[op] = c.checkArithmeticOperator
	}
	return rules
}

func (c *Checker) checkBinaryExpression(node *parser.BinaryExpression) types.Type {
	rule, ok := c.binaryRules[node.Operator]
	if !ok {
		c.throwTypeError(node, "Operator '%s' is not supported.", node.Operator)
	}
	left := c.checkExpression(node.Left)
	if node.Operator == "&&" || node.Operator == "||" {
		c.checkAlwaysDefinedFunction(node.Left, left)
	}
	right := c.checkExpression(node.Right)
	return rule(&binaryOperands{
		op:        node.Operator,
		left:      left,
		right:     right,
		leftExpr:  node.Left,
		rightExpr: node.Right,
		at:        node,
	})
}

// arithmeticKind classifies an operand of an arithmetic operator.
type arithmeticKind int

const (
	arithmeticInvalid arithmeticKind = iota
	arithmeticAny
	arithmeticNumber
	arithmeticBigInt
)

func arithmeticKindOf(t types.Type) arithmeticKind {
	if t == types.Any {
		return arithmeticAny
	}
	kind := arithmeticInvalid
	for _, m := range types.Constituents(t) {
		var k arithmeticKind
		switch {
		case types.IsNumberLike(m):
			k = arithmeticNumber
		case types.IsBigIntLike(m):
			k = arithmeticBigInt
		default:
			return arithmeticInvalid
		}
		if kind != arithmeticInvalid && kind != k {
			return arithmeticInvalid
		}
		kind = k
	}
	return kind
}

// checkNullableOperand rejects null and undefined operands of arithmetic and
// relational operators.
func (c *Checker) checkNullableOperand(t types.Type, expr parser.Expression, at parser.Node) {
	if t == types.Null || t == types.Undefined {
		c.throwAtNode(operandNode(expr, at), "The value '%s' cannot be used here.", t)
	}
	hasNull := types.SomeConstituent(t, func(m types.Type) bool { return m == types.Null })
	hasUndefined := types.SomeConstituent(t, func(m types.Type) bool { return m == types.Undefined })
	switch {
	case hasNull && hasUndefined:
		c.throwAtNode(operandNode(expr, at), "Object is possibly 'null' or 'undefined'.")
	case hasNull:
		c.throwAtNode(operandNode(expr, at), "Object is possibly 'null'.")
	case hasUndefined:
		c.throwAtNode(operandNode(expr, at), "Object is possibly 'undefined'.")
	}
}

func operandNode(expr parser.Expression, at parser.Node) parser.Node {
	if expr != nil {
		return expr
	}
	return at
}

func (c *Checker) checkArithmeticOperator(b *binaryOperands) types.Type {
	c.checkNullableOperand(b.left, b.leftExpr, b.at)
	c.checkNullableOperand(b.right, b.rightExpr, b.at)
	lk, rk := arithmeticKindOf(b.left), arithmeticKindOf(b.right)
	if lk == arithmeticInvalid {
		c.throwAtNode(operandNode(b.leftExpr, b.at), "The left-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type.")
	}
	if rk == arithmeticInvalid {
		c.throwAtNode(operandNode(b.rightExpr, b.at), "The right-hand side of an arithmetic operation must be of type 'any', 'number', 'bigint' or an enum type.")
	}
	switch {
	case lk == arithmeticAny || rk == arithmeticAny:
		return types.Number
	case lk == arithmeticBigInt && rk == arithmeticBigInt:
		if b.op == ">>>" {
			c.throwAtNode(b.at, "Operator '%s' cannot be applied to types '%s' and '%s'.", b.op, b.left, b.right)
		}
		return types.BigInt
	case lk != rk:
		c.throwAtNode(b.at, "Operator '%s' cannot be applied to types '%s' and '%s'.", b.op, b.left, b.right)
	}
	return types.Number
}

// checkPlusOperator also covers string concatenation.
func (c *Checker) checkPlusOperator(b *binaryOperands) types.Type {
	if types.AllConstituents(b.left, types.IsStringLike) || types.AllConstituents(b.right, types.IsStringLike) {
		return types.String
	}
	if b.left == types.Any || b.right == types.Any {
		return types.Any
	}
	c.checkNullableOperand(b.left, b.leftExpr, b.at)
	c.checkNullableOperand(b.right, b.rightExpr, b.at)
	lk, rk := arithmeticKindOf(b.left), arithmeticKindOf(b.right)
	switch {
	case lk == arithmeticNumber && rk == arithmeticNumber:
		return types.Number
	case lk == arithmeticBigInt && rk == arithmeticBigInt:
		return types.BigInt
	}
	c.throwAtNode(b.at, "Operator '+' cannot be applied to types '%s' and '%s'.", b.left, b.right)
	return nil
}

func (c *Checker) checkRelationalOperator(b *binaryOperands) types.Type {
	if b.left == types.Any || b.right == types.Any {
		return types.Boolean
	}
	c.checkNullableOperand(b.left, b.leftExpr, b.at)
	c.checkNullableOperand(b.right, b.rightExpr, b.at)
	lk, rk := arithmeticKindOf(b.left), arithmeticKindOf(b.right)
	if lk != arithmeticInvalid && rk != arithmeticInvalid {
		return types.Boolean
	}
	l, r := c.GetBaseTypeOfLiteralType(b.left), c.GetBaseTypeOfLiteralType(b.right)
	if c.relations.IsComparable(l, r) || c.relations.IsComparable(r, l) {
		return types.Boolean
	}
	c.throwAtNode(b.at, "Operator '%s' cannot be applied to types '%s' and '%s'.", b.op, b.left, b.right)
	return nil
}

// checkEqualityOperator requires the operand types to overlap. Comparisons
// involving null, undefined or a typeof expression are always allowed.
func (c *Checker) checkEqualityOperator(b *binaryOperands) types.Type {
	if isTypeofExpression(b.leftExpr) || isTypeofExpression(b.rightExpr) {
		return types.Boolean
	}
	if types.SomeConstituent(b.left, types.IsNullable) || types.SomeConstituent(b.right, types.IsNullable) {
		return types.Boolean
	}
	if c.relations.IsComparable(b.left, b.right) || c.relations.IsComparable(b.right, b.left) {
		return types.Boolean
	}
	c.throwAtNode(b.at, "This comparison appears to be unintentional because the types '%s' and '%s' have no overlap.", b.left, b.right)
	return nil
}

func isTypeofExpression(expr parser.Expression) bool {
	u, ok := expr.(*parser.UnaryExpression)
	return ok && u.Operator == "typeof"
}

func (c *Checker) checkInstanceofOperator(b *binaryOperands) types.Type {
	if b.left != types.Any && !types.AllConstituents(b.left, types.IsObjectLike) {
		c.throwAtNode(operandNode(b.leftExpr, b.at), "The left-hand side of an 'instanceof' expression must be of type 'any', an object type or a type parameter.")
	}
	if b.right != types.Any && len(types.Signatures(b.right, true)) == 0 && len(types.Signatures(b.right, false)) == 0 {
		c.throwAtNode(operandNode(b.rightExpr, b.at), "The right-hand side of an 'instanceof' expression must be either of type 'any', a class, function, or other type assignable to the 'Function' interface type.")
	}
	return types.Boolean
}

func (c *Checker) checkInOperator(b *binaryOperands) types.Type {
	keyOK := b.left == types.Any || types.AllConstituents(b.left, func(m types.Type) bool {
		return types.IsStringLike(m) || types.IsNumberLike(m)
	})
	if !keyOK {
		c.throwAtNode(operandNode(b.leftExpr, b.at), "Type '%s' may represent a primitive value, which is not permitted as the left operand of the 'in' operator.", b.left)
	}
	if b.right != types.Any && !types.AllConstituents(b.right, types.IsObjectLike) {
		c.throwAtNode(operandNode(b.rightExpr, b.at), "Type '%s' may represent a primitive value, which is not permitted as the right operand of the 'in' operator.", b.right)
	}
	return types.Boolean
}

// l && r is the falsy part of l or r; it is l when l is never truthy.
func (c *Checker) checkLogicalAnd(b *binaryOperands) types.Type {
	if !types.CanBeTruthy(b.left) {
		return b.left
	}
	return c.CreateUnionType(c.falsyPart(b.left), b.right)
}

// l || r is the truthy part of l or r.
func (c *Checker) checkLogicalOr(b *binaryOperands) types.Type {
	if !types.CanBeFalsy(b.left) {
		return b.left
	}
	return c.CreateUnionType(c.truthyPart(b.left), b.right)
}

// --- unary ---

func (c *Checker) checkUnaryExpression(node *parser.UnaryExpression) types.Type {
	switch node.Operator {
	case "typeof":
		return c.checkExpression(node.Operand)
	case "void":
		c.checkExpression(node.Operand)
		return types.Undefined
	case "delete":
		return c.checkDeleteExpression(node)
	case "!":
		t := c.checkExpression(node.Operand)
		c.checkAlwaysDefinedFunction(node.Operand, t)
		switch facts := types.GetTypeFacts(t); facts {
		case types.Truthy:
			return types.False
		case types.Falsy:
			return types.True
		}
		return types.Boolean
	case "-", "+":
		return c.checkSignOperator(node)
	case "~":
		t := c.checkExpression(node.Operand)
		c.checkNullableOperand(t, node.Operand, node)
		switch arithmeticKindOf(t) {
		case arithmeticAny, arithmeticNumber:
			return types.Number
		case arithmeticBigInt:
			return types.BigInt
		}
		c.throwAtNode(node.Operand, "An arithmetic operand must be of type 'any', 'number', 'bigint' or an enum type.")
	}
	c.throwTypeError(node, "Operator '%s' is not supported.", node.Operator)
	return nil
}

// checkSignOperator folds + and - written directly on a numeric or bigint
// literal into literal types. Any other operand gives number or bigint.
func (c *Checker) checkSignOperator(node *parser.UnaryExpression) types.Type {
	t := c.checkExpression(node.Operand)
	switch node.Operand.(type) {
	case *parser.NumberLiteral:
		if lit, ok := t.(*types.NumberLiteralType); ok {
			if node.Operator == "-" {
				return c.CreateNumberLiteralType(-lit.Value)
			}
			return lit
		}
	case *parser.BigIntLiteral:
		if lit, ok := t.(*types.BigIntLiteralType); ok && node.Operator == "-" {
			return c.CreateBigintLiteralType(lit.Text, !lit.Negative)
		}
	}
	c.checkNullableOperand(t, node.Operand, node)
	kind := arithmeticKindOf(t)
	if node.Operator == "+" {
		if kind == arithmeticBigInt {
			c.throwTypeError(node, "Operator '+' cannot be applied to type '%s'.", t)
		}
		return types.Number
	}
	switch kind {
	case arithmeticAny, arithmeticNumber:
		return types.Number
	case arithmeticBigInt:
		return types.BigInt
	}
	c.throwAtNode(node.Operand, "An arithmetic operand must be of type 'any', 'number', 'bigint' or an enum type.")
	return nil
}

// checkDeleteExpression only allows deleting optional properties.
func (c *Checker) checkDeleteExpression(node *parser.UnaryExpression) types.Type {
	member, ok := node.Operand.(*parser.MemberExpression)
	if !ok {
		c.checkExpression(node.Operand)
		c.throwAtNode(node.Operand, "The operand of a 'delete' operator must be a property reference.")
	}
	access := c.checkMemberExpression(member)
	member.SetComputedType(access.typ)
	if access.readonly {
		c.throwAtNode(node.Operand, "The operand of a 'delete' operator cannot be a read-only property.")
	}
	if access.typ != types.Any && !access.optional {
		c.throwAtNode(node.Operand, "The operand of a 'delete' operator must be optional.")
	}
	return types.Boolean
}

// --- update ---

func (c *Checker) checkUpdateExpression(node *parser.UpdateExpression) types.Type {
	t := c.checkAssignmentTarget(node.Argument)
	c.checkNullableOperand(t, node.Argument, node)
	switch arithmeticKindOf(t) {
	case arithmeticAny, arithmeticNumber:
		return types.Number
	case arithmeticBigInt:
		return types.BigInt
	}
	c.throwAtNode(node.Argument, "An arithmetic operand must be of type 'any', 'number', 'bigint' or an enum type.")
	return nil
}
