package checker

import (
	"fmt"

	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// checkStatement dispatches on the statement kind. Every statement the
// parser can produce has a case; anything else is a programming error.
func (c *Checker) checkStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.VariableStatement:
		for _, d := range s.Declarations {
			c.checkVariableDeclarator(d)
		}
	case *parser.FunctionDeclaration:
		c.checkFunctionDeclaration(s)
	case *parser.ExpressionStatement:
		c.checkExpression(s.Expression)
	case *parser.BlockStatement:
		c.checkBlock(s)
	case *parser.IfStatement:
		c.checkCondition(s.Condition)
		c.checkStatement(s.Consequence)
		if s.Alternative != nil {
			c.checkStatement(s.Alternative)
		}
	case *parser.WhileStatement:
		c.checkCondition(s.Condition)
		c.checkStatement(s.Body)
	case *parser.DoWhileStatement:
		c.checkStatement(s.Body)
		c.checkCondition(s.Condition)
	case *parser.ForStatement:
		c.checkForStatement(s)
	case *parser.ReturnStatement:
		c.checkReturnStatement(s)
	case *parser.SwitchStatement:
		c.checkSwitchStatement(s)
	case *parser.EnumDeclaration:
		c.checkEnumDeclaration(s)
	case *parser.InterfaceDeclaration:
		c.checkInterfaceDeclaration(s)
	case *parser.TypeAliasStatement:
		if v := c.scope.Find(s.Name.Value); v != nil {
			c.resolveAlias(v)
		}
	case *parser.BreakStatement, *parser.ContinueStatement, *parser.EmptyStatement:
	default:
		panic(fmt.Sprintf("checker: unhandled statement %T", stmt))
	}
}

func (c *Checker) checkBlock(block *parser.BlockStatement) {
	defer c.enterScope(c.bindings.ScopeOf(block))()
	for _, stmt := range block.Statements {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkForStatement(s *parser.ForStatement) {
	defer c.enterScope(c.bindings.ScopeOf(s))()
	if s.Init != nil {
		c.checkStatement(s.Init)
	}
	if s.Condition != nil {
		c.checkCondition(s.Condition)
	}
	if s.Update != nil {
		c.checkExpression(s.Update)
	}
	c.checkStatement(s.Body)
}

// checkCondition checks a test expression. Any type can be tested for
// truthiness, but testing a function that is never called is flagged.
func (c *Checker) checkCondition(expr parser.Expression) types.Type {
	t := c.checkExpression(expr)
	c.checkAlwaysDefinedFunction(expr, t)
	return t
}

func (c *Checker) checkAlwaysDefinedFunction(expr parser.Expression, t types.Type) {
	switch expr.(type) {
	case *parser.Identifier, *parser.MemberExpression:
	default:
		return
	}
	o, ok := t.(*types.ObjectType)
	if ok && len(o.Desc.CallSignatures) > 0 {
		c.throwAtNode(expr, "This condition will always return true since this function is always defined. Did you mean to call it instead?")
	}
}

func (c *Checker) checkReturnStatement(s *parser.ReturnStatement) {
	fn := c.fn
	if fn == nil {
		c.throwTypeError(s, "A 'return' statement can only be used within a function body.")
	}
	if s.ReturnValue == nil {
		fn.hasBareReturn = true
		if fn.declared && !returnMayBeOmitted(fn.sig.ReturnType) {
			c.checkAssignableTo(types.Undefined, fn.sig.ReturnType, s)
		}
		return
	}
	fn.hasValueReturn = true
	if fn.declared {
		t := c.checkExpressionWithContext(s.ReturnValue, fn.sig.ReturnType)
		c.checkAssignableTo(t, fn.sig.ReturnType, s.ReturnValue)
		return
	}
	t := c.checkExpression(s.ReturnValue)
	fn.returns = append(fn.returns, c.widenForBinding(t))
}

// checkSwitchStatement checks every case test against the discriminant.
func (c *Checker) checkSwitchStatement(s *parser.SwitchStatement) {
	discriminant := c.checkExpression(s.Discriminant)
	defer c.enterScope(c.bindings.ScopeOf(s))()
	for _, clause := range s.Cases {
		if clause.Test != nil {
			caseType := c.checkExpression(clause.Test)
			c.checkCaseComparable(discriminant, caseType, clause.Test)
		}
		for _, stmt := range clause.Body {
			c.checkStatement(stmt)
		}
	}
}

// checkCaseComparable compares two literal types exactly; otherwise both
// sides are widened first.
func (c *Checker) checkCaseComparable(discriminant, caseType types.Type, node parser.Node) {
	if isUnitType(discriminant) && isUnitType(caseType) {
		if c.relations.IsComparable(caseType, discriminant) || c.relations.IsComparable(discriminant, caseType) {
			return
		}
		c.throwAtNode(node, "Type '%s' is not comparable to type '%s'.", caseType, discriminant)
	}
	d := c.GetBaseTypeOfLiteralType(discriminant)
	t := c.GetBaseTypeOfLiteralType(caseType)
	if c.relations.IsComparable(t, d) || c.relations.IsComparable(d, t) {
		return
	}
	c.throwAtNode(node, "Type '%s' is not comparable to type '%s'.", caseType, discriminant)
}

// isUnitType reports literal types and enum members.
func isUnitType(t types.Type) bool {
	if types.IsLiteral(t) {
		return true
	}
	_, ok := t.(*types.EnumMemberType)
	return ok
}

// returnMayBeOmitted reports declared return types that do not need a
// valued return.
func returnMayBeOmitted(t types.Type) bool {
	return types.SomeConstituent(t, func(m types.Type) bool {
		return m == types.Void || m == types.Any || m == types.Undefined || m == types.Unknown
	})
}
