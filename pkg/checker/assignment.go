package checker

import (
	"strings"

	"tscheck/pkg/binder"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

func (c *Checker) checkAssignmentExpression(node *parser.AssignmentExpression) types.Type {
	switch node.Left.(type) {
	case *parser.ArrayPattern, *parser.ObjectPattern:
		if node.Operator != "=" {
			c.throwAtNode(node.Left, "Invalid left-hand side in assignment.")
		}
		return c.checkDestructuringAssignment(node)
	}

	switch node.Operator {
	case "=":
		target := c.checkAssignmentTarget(node.Left)
		t := c.checkExpressionWithContext(node.Value, target)
		c.checkAssignableTo(t, target, node.Left)
		return t
	case "??=":
		c.checkAssignmentTarget(node.Left)
		c.checkExpression(node.Value)
		return types.Any
	}

	op := strings.TrimSuffix(node.Operator, "=")
	rule, ok := c.binaryRules[op]
	if !ok {
		c.throwTypeError(node, "Operator '%s' is not supported.", node.Operator)
	}
	target := c.checkAssignmentTarget(node.Left)
	value := c.checkExpression(node.Value)
	t := rule(&binaryOperands{
		op:        op,
		left:      target,
		right:     value,
		leftExpr:  node.Left,
		rightExpr: node.Value,
		at:        node,
	})
	c.checkAssignableTo(t, target, node.Left)
	return t
}

// checkDestructuringAssignment assigns through a pattern. The expression
// has the type inferred for the whole pattern.
func (c *Checker) checkDestructuringAssignment(node *parser.AssignmentExpression) types.Type {
	defer c.addStatus(ForceTuple)()
	dc := c.newDestructuringContext(node.Left, bindAssignment, false)
	dc.prepare(nil, node.Value)
	dc.start()
	node.Left.SetComputedType(dc.InferredType())
	return dc.InferredType()
}

// checkAssignmentTarget validates that expr can be assigned to and returns
// the declared type of the location.
func (c *Checker) checkAssignmentTarget(expr parser.Expression) types.Type {
	switch target := expr.(type) {
	case *parser.Identifier:
		v := c.scope.Find(target.Value)
		if v == nil {
			c.throwUnresolvedName(target)
		}
		c.checkAssignableVariable(v, target)
		t := c.getTypeOfVariable(v, target)
		target.SetComputedType(t)
		return t
	case *parser.MemberExpression:
		if isOptionalChain(target) {
			c.throwAtNode(target, "The left-hand side of an assignment expression may not be an optional property access.")
		}
		access := c.checkMemberExpression(target)
		target.SetComputedType(access.typ)
		if access.readonly {
			if access.name != "" {
				c.throwTypeError(target.Property, "Cannot assign to '%s' because it is a read-only property.", access.name)
			}
			c.throwAtNode(target, "Index signature in type '%s' only permits reading.", target.Object.GetComputedType())
		}
		if access.optional {
			return c.removeUndefined(access.typ)
		}
		return access.typ
	case *parser.NonNullExpression:
		return c.checkAssignmentTarget(target.Expression)
	}
	c.throwAtNode(expr, "The left-hand side of an assignment expression must be a variable or a property access.")
	return nil
}

func (c *Checker) checkAssignableVariable(v *binder.Variable, id *parser.Identifier) {
	switch v.Kind {
	case binder.ConstBinding:
		c.throwTypeError(id, "Cannot assign to '%s' because it is a constant.", v.Name)
	case binder.EnumBinding:
		c.throwTypeError(id, "Cannot assign to '%s' because it is an enum.", v.Name)
	case binder.EnumMemberBinding:
		c.throwTypeError(id, "Cannot assign to '%s' because it is a read-only property.", v.Name)
	case binder.FunctionBinding:
		c.throwTypeError(id, "Cannot assign to '%s' because it is a function.", v.Name)
	case binder.InterfaceBinding, binder.TypeAliasBinding:
		c.throwTypeError(id, "'%s' only refers to a type, but is being used as a value here.", v.Name)
	}
}
