package checker

import (
	"go.uber.org/zap"

	"tscheck/pkg/binder"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// getTypeOfVariable returns the type of v, checking its first declaration
// on demand when the variable is used before it has been visited.
func (c *Checker) getTypeOfVariable(v *binder.Variable, ref parser.Node) types.Type {
	if v.Type != nil {
		return v.Type
	}
	decl := v.FirstDeclaration()
	if decl == nil {
		c.throwTypeError(ref, "Variable '%s' is used before being assigned.", v.Name)
	}

	defer c.enterScope(decl.Scope)()
	defer c.pushStatus(StatusNone)()
	switch node := decl.Node.(type) {
	case *parser.VariableDeclarator:
		if c.declStates[node] == declChecking {
			c.throwTypeError(ref, "'%s' implicitly has type 'any' because it does not have a type annotation and is referenced directly or indirectly in its own initializer.", v.Name)
		}
		c.checkVariableDeclarator(node)
	case *parser.FunctionDeclaration:
		c.checkFunctionDeclaration(node)
	case *parser.FunctionLiteral:
		c.checkFunction(node, nil)
	case *parser.EnumDeclaration:
		c.ensureEnum(v)
	case *parser.EnumMember:
		c.throwTypeError(ref, "A member initializer in a enum declaration cannot reference members declared after it, including members defined in other enums.")
	}
	if v.Type == nil {
		c.throwTypeError(ref, "Variable '%s' is used before being assigned.", v.Name)
	}
	return v.Type
}

// bindVariableType records t as the type of v. A variable declared more
// than once must get an identical type from every declaration.
func (c *Checker) bindVariableType(v *binder.Variable, t types.Type, at parser.Node) {
	if v.Type == nil {
		v.Type = t
		c.logger.Debug("bind", zap.String("name", v.Name), zap.String("kind", v.Kind.String()), zap.Stringer("type", t))
		debugPrintf("bind %s: %s", v.Name, t)
		return
	}
	if !c.relations.IsIdentical(v.Type, t) {
		c.throwTypeError(at, "Subsequent variable declarations must have the same type. Variable '%s' must be of type '%s', but here has type '%s'.", v.Name, v.Type, t)
	}
}

// checkVariableDeclarator checks a declarator once; revisits are no-ops.
func (c *Checker) checkVariableDeclarator(d *parser.VariableDeclarator) {
	if c.declStates[d] != declUnchecked {
		return
	}
	c.declStates[d] = declChecking
	defer func() { c.declStates[d] = declChecked }()

	switch target := d.Target.(type) {
	case *parser.Identifier:
		v := c.scope.Find(target.Value)
		t := c.inferDeclaratorType(d, target.Value)
		target.SetComputedType(t)
		c.bindVariableType(v, t, target)
	case *parser.ArrayPattern, *parser.ObjectPattern:
		defer c.addStatus(ForceTuple)()
		dc := c.newDestructuringContext(target, bindDeclaration, d.Kind == parser.VarKindConst)
		dc.prepare(d.TypeAnnotation, d.Value)
		dc.start()
	default:
		panic("checker: unexpected declarator target")
	}
}

// inferDeclaratorType computes the type a simple identifier declarator
// binds: the annotation when present, otherwise the initializer's type,
// widened unless the declaration is const.
func (c *Checker) inferDeclaratorType(d *parser.VariableDeclarator, name string) types.Type {
	if d.TypeAnnotation != nil {
		annotated := c.resolveTypeNode(d.TypeAnnotation)
		if d.Value != nil {
			t := c.checkExpressionWithContext(d.Value, annotated)
			c.checkAssignableTo(t, annotated, d.Value)
		}
		return annotated
	}
	if d.Value == nil {
		c.throwTypeError(d, "Variable '%s' implicitly has an 'any' type.", name)
	}
	t := c.checkExpression(d.Value)
	if t == types.Null || t == types.Undefined {
		c.throwTypeError(d, "Variable '%s' implicitly has an 'any' type because its initializer is '%s'.", name, t)
	}
	if d.Kind == parser.VarKindConst {
		return c.regularType(t)
	}
	return c.widenForBinding(t)
}

// checkAssignableTo fails unless source is assignable to target. Fresh
// object literals are also checked for excess properties.
func (c *Checker) checkAssignableTo(source, target types.Type, node parser.Node) {
	c.checkExcessProperties(source, target, node)
	if c.relations.IsAssignable(source, target) {
		return
	}
	c.throwAtNode(node, "Type '%s' is not assignable to type '%s'.", c.displaySource(source, target), target)
}

// displaySource shows the widened source type unless the target itself
// mentions literals.
func (c *Checker) displaySource(source, target types.Type) types.Type {
	if hasLiteralConstituent(target) {
		return source
	}
	return c.GetBaseTypeOfLiteralType(source)
}

// checkExcessProperties reports a property of a fresh object literal that
// no object constituent of target declares.
func (c *Checker) checkExcessProperties(source, target types.Type, node parser.Node) {
	src, ok := source.(*types.ObjectType)
	if !ok || !src.HasFlag(types.FlagCheckExcessProps) {
		return
	}
	var targets []*types.ObjectType
	for _, m := range types.Constituents(target) {
		switch t := m.(type) {
		case *types.ObjectType:
			d := t.Desc
			if d.StringIndex != nil || len(d.Properties)+len(d.CallSignatures)+len(d.ConstructSignatures) == 0 && d.NumberIndex == nil {
				return
			}
			targets = append(targets, t)
		case *types.Primitive:
			if t == types.Any || t == types.Unknown {
				return
			}
		}
	}
	if len(targets) == 0 {
		return
	}
	for _, p := range src.Desc.Properties {
		var found *types.Property
		for _, t := range targets {
			if tp := t.Desc.FindProperty(p.Name); tp != nil {
				found = tp
				break
			}
			if t.Desc.NumberIndex != nil && types.IsNumericName(p.Name) {
				found = &types.Property{Name: p.Name, Type: t.Desc.NumberIndex.ValueType}
				break
			}
		}
		if found == nil {
			c.throwAtNode(excessPropertyNode(node, p.Name), "Object literal may only specify known properties, and '%s' does not exist in type '%s'.", p.Name, target)
		}
		c.checkExcessProperties(p.Type, found.Type, node)
	}
}

// excessPropertyNode finds the property of an object literal node called
// name, so the error points at it.
func excessPropertyNode(node parser.Node, name string) parser.Node {
	lit, ok := node.(*parser.ObjectLiteral)
	if !ok {
		return node
	}
	for _, p := range lit.Properties {
		if p.Kind != parser.PropertySpread && !p.Computed && propertyKeyName(p.Key) == name {
			return p
		}
	}
	return node
}
