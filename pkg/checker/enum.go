package checker

import (
	"math"

	"go.uber.org/zap"

	"tscheck/pkg/binder"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

func (c *Checker) checkEnumDeclaration(decl *parser.EnumDeclaration) {
	v := c.scope.Find(decl.Name.Value)
	if v == nil || v.Kind != binder.EnumBinding {
		return
	}
	c.ensureEnum(v)
}

// ensureEnum builds the enum type of v and evaluates the members of every
// declaration not evaluated yet. The type is created before any member is
// evaluated so initializers may refer to the enum itself.
func (c *Checker) ensureEnum(v *binder.Variable) *types.EnumLiteralType {
	e, _ := v.Type.(*types.EnumLiteralType)
	if e == nil {
		e = types.NewEnumLiteralType(v.Name, types.EnumNumeric)
		v.Type = e
	}
	for i, d := range v.Decls {
		decl, ok := d.Node.(*parser.EnumDeclaration)
		if !ok || c.enumsDone[decl] {
			continue
		}
		c.enumsDone[decl] = true
		c.evaluateEnumDeclaration(v, e, decl, i == 0)
	}
	return e
}

func (c *Checker) evaluateEnumDeclaration(v *binder.Variable, e *types.EnumLiteralType, decl *parser.EnumDeclaration, firstDecl bool) {
	defer c.enterScope(c.bindings.ScopeOf(decl))()
	defer c.pushStatus(StatusNone)()

	prev := types.EnumValue{}
	for i, m := range decl.Members {
		mv := v.Members.FindLocal(m.Name)
		if mv == nil || c.evaluatedMembers[mv] {
			continue
		}
		value := c.enumMemberValue(v, e, m, prev, i == 0, firstDecl)

		mt := e.AddMember(m.Name, value)
		mv.Type = mt
		mv.Value = value
		c.evaluatedMembers[mv] = true
		switch value.Kind {
		case types.NumericValue:
			e.AddReverseMapping(value.Key(), m.Name)
		case types.TextValue:
			c.enumKindFixed[e] = true
			e.EnumKind = types.EnumLiteral
		}
		c.logger.Debug("enum member", zap.String("enum", v.Name), zap.String("member", m.Name), zap.Stringer("value", value))
		prev = value
	}
}

// enumMemberValue computes the value of one member. A member without an
// initializer continues counting from the previous numeric member.
func (c *Checker) enumMemberValue(v *binder.Variable, e *types.EnumLiteralType, m *parser.EnumMember, prev types.EnumValue, firstMember, firstDecl bool) types.EnumValue {
	var value types.EnumValue
	switch {
	case m.Value == nil && firstMember && !firstDecl && len(e.Order) > 0:
		c.throwTypeError(m, "In an enum with multiple declarations, only one declaration can omit an initializer for its first enum element.")
	case m.Value == nil && firstMember:
		value = types.NumericEnumValue(0)
	case m.Value == nil && prev.Kind == types.NumericValue:
		value = types.NumericEnumValue(prev.Num + 1)
	case m.Value == nil:
		c.throwTypeError(m, "Enum member must have initializer.")
	default:
		value = c.evaluateEnumExpression(v, m.Value)
		if !value.IsConstant() {
			if c.enumKindFixed[e] {
				c.throwTypeError(m.Value, "Computed values are not permitted in an enum with string valued members.")
			}
			if v.IsConstEnum {
				c.throwTypeError(m.Value, "const enum member initializers must be constant expressions.")
			}
			t := c.checkExpression(m.Value)
			if t != types.Any && !types.IsNumberLike(t) {
				c.throwTypeError(m.Value, "Type '%s' is not assignable to type 'number' as required for computed enum member values.", t)
			}
		}
	}

	if v.IsConstEnum && value.Kind == types.NumericValue {
		if math.IsNaN(value.Num) {
			c.throwTypeError(m, "'const' enum member initializer was evaluated to disallowed value 'NaN'.")
		}
		if !isFiniteNumber(value.Num) {
			c.throwTypeError(m, "'const' enum member initializer was evaluated to a non-finite value.")
		}
	}
	return value
}

// evaluateEnumExpression folds a member initializer to a constant. It
// returns a NotConstant value for anything it cannot fold.
func (c *Checker) evaluateEnumExpression(v *binder.Variable, expr parser.Expression) types.EnumValue {
	switch e := expr.(type) {
	case *parser.NumberLiteral:
		return types.NumericEnumValue(e.Value)
	case *parser.StringLiteral:
		return types.TextEnumValue(e.Value)
	case *parser.Identifier:
		switch e.Value {
		case "NaN":
			return types.NumericEnumValue(math.NaN())
		case "Infinity":
			return types.NumericEnumValue(math.Inf(1))
		}
		if mv := v.Members.FindLocal(e.Value); mv != nil {
			return c.evaluatedMemberValue(mv, e)
		}
	case *parser.MemberExpression:
		if e.Computed || e.Optional {
			break
		}
		obj, ok := e.Object.(*parser.Identifier)
		if !ok {
			break
		}
		ev := c.scope.Find(obj.Value)
		if ev == nil || ev.Kind != binder.EnumBinding {
			break
		}
		if ev != v {
			c.ensureEnum(ev)
		}
		name := e.Property.(*parser.Identifier).Value
		if mv := ev.Members.FindLocal(name); mv != nil {
			return c.evaluatedMemberValue(mv, e)
		}
	case *parser.UnaryExpression:
		operand := c.evaluateEnumExpression(v, e.Operand)
		if operand.Kind != types.NumericValue {
			break
		}
		switch e.Operator {
		case "+":
			return operand
		case "-":
			return types.NumericEnumValue(-operand.Num)
		case "~":
			return types.NumericEnumValue(float64(^toInt32(operand.Num)))
		}
	case *parser.BinaryExpression:
		left := c.evaluateEnumExpression(v, e.Left)
		right := c.evaluateEnumExpression(v, e.Right)
		if left.Kind == types.NumericValue && right.Kind == types.NumericValue {
			if n, ok := evaluateNumericOperator(e.Operator, left.Num, right.Num); ok {
				return types.NumericEnumValue(n)
			}
		}
		if left.Kind == types.TextValue && right.Kind == types.TextValue && e.Operator == "+" {
			return types.TextEnumValue(left.Text + right.Text)
		}
	}
	return types.EnumValue{}
}

// evaluatedMemberValue returns the value of an enum member referenced from
// an initializer. The member must already have been evaluated.
func (c *Checker) evaluatedMemberValue(mv *binder.Variable, ref parser.Node) types.EnumValue {
	if !c.evaluatedMembers[mv] {
		c.throwAtNode(ref, "A member initializer in a enum declaration cannot reference members declared after it, including members defined in other enums.")
	}
	return mv.Value
}

func evaluateNumericOperator(op string, l, r float64) (float64, bool) {
	switch op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		return l / r, true
	case "%":
		return math.Mod(l, r), true
	case "**":
		return math.Pow(l, r), true
	case "|":
		return float64(toInt32(l) | toInt32(r)), true
	case "&":
		return float64(toInt32(l) & toInt32(r)), true
	case "^":
		return float64(toInt32(l) ^ toInt32(r)), true
	case "<<":
		return float64(toInt32(l) << (toUint32(r) & 31)), true
	case ">>":
		return float64(toInt32(l) >> (toUint32(r) & 31)), true
	case ">>>":
		return float64(toUint32(l) >> (toUint32(r) & 31)), true
	}
	return 0, false
}

// toInt32 truncates v to an int32. Values outside the int32 range, NaN
// and the infinities become 0.
func toInt32(v float64) int32 {
	if math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int32(v)
}

// toUint32 truncates v to a uint32; out of range values become 0.
func toUint32(v float64) uint32 {
	if math.IsNaN(v) || v < 0 || v > math.MaxUint32 {
		return 0
	}
	return uint32(v)
}

// isFiniteNumber reports values a const enum member may hold.
func isFiniteNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
