package checker

import (
	"fmt"

	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

func (c *Checker) checkExpression(expr parser.Expression) types.Type {
	return c.checkExpressionWithContext(expr, nil)
}

// checkExpressionWithContext computes the type of expr, stores it on the
// node and returns it. contextual is the type the expression is being
// checked against, or nil.
func (c *Checker) checkExpressionWithContext(expr parser.Expression, contextual types.Type) types.Type {
	var t types.Type
	switch node := expr.(type) {
	case *parser.NumberLiteral:
		t = c.CreateNumberLiteralType(node.Value)
	case *parser.StringLiteral:
		t = c.CreateStringLiteralType(node.Value)
	case *parser.BigIntLiteral:
		t = c.CreateBigintLiteralType(node.Value, false)
	case *parser.BooleanLiteral:
		if node.Value {
			t = types.True
		} else {
			t = types.False
		}
	case *parser.NullLiteral:
		t = types.Null
	case *parser.RegexLiteral:
		t = c.globals.GlobalRegExpType()
	case *parser.Identifier:
		t = c.checkIdentifier(node)
	case *parser.ArrayLiteral:
		t = c.checkArrayLiteral(node, contextual)
	case *parser.ObjectLiteral:
		t = c.checkObjectLiteral(node, contextual)
	case *parser.FunctionLiteral:
		t = c.checkFunction(node, contextual)
	case *parser.CallExpression:
		t = c.checkCallExpression(node)
	case *parser.NewExpression:
		t = c.checkNewExpression(node)
	case *parser.MemberExpression:
		t = c.checkMemberExpression(node).typ
	case *parser.AssignmentExpression:
		t = c.checkAssignmentExpression(node)
	case *parser.BinaryExpression:
		t = c.checkBinaryExpression(node)
	case *parser.UnaryExpression:
		t = c.checkUnaryExpression(node)
	case *parser.UpdateExpression:
		t = c.checkUpdateExpression(node)
	case *parser.ConditionalExpression:
		c.checkCondition(node.Condition)
		consequence := c.checkExpressionWithContext(node.Consequence, contextual)
		alternative := c.checkExpressionWithContext(node.Alternative, contextual)
		t = c.CreateUnionType(consequence, alternative)
	case *parser.AsExpression:
		t = c.checkAsExpression(node)
	case *parser.NonNullExpression:
		t = c.removeNullable(c.checkExpression(node.Expression))
	case *parser.SpreadElement, *parser.ArrayPattern, *parser.ObjectPattern,
		*parser.AssignmentPattern, *parser.RestElement:
		// Spreads are handled by their array literal or call, patterns by
		// the destructuring context.
		panic(fmt.Sprintf("checker: unexpected %T in expression position", expr))
	default:
		panic(fmt.Sprintf("checker: unhandled expression %T", expr))
	}
	expr.SetComputedType(t)
	return t
}

// checkIdentifier resolves a name used as a value.
func (c *Checker) checkIdentifier(id *parser.Identifier) types.Type {
	v := c.scope.Find(id.Value)
	if v == nil {
		if t, ok := c.globals.Value(id.Value); ok {
			return t
		}
		c.throwUnresolvedName(id)
	}
	if v.IsTypeOnly() {
		c.throwTypeError(id, "'%s' only refers to a type, but is being used as a value here.", id.Value)
	}
	return c.getTypeOfVariable(v, id)
}

// checkArrayLiteral types an array literal as an array of the union of its
// element types, or as a tuple in const context or when a tuple is forced
// or expected.
func (c *Checker) checkArrayLiteral(node *parser.ArrayLiteral, contextual types.Type) types.Type {
	inConst := c.hasStatus(InConstContext)
	tupleTarget := contextualTuple(contextual)
	forceTuple := inConst || tupleTarget != nil || c.hasStatus(ForceTuple)

	var elems []types.Type
	var flags []types.ElementFlags
	for i, el := range node.Elements {
		if el == nil {
			elems = append(elems, types.Undefined)
			flags = append(flags, types.ElementRequired)
			continue
		}
		if spread, ok := el.(*parser.SpreadElement); ok {
			st := c.checkExpression(spread.Argument)
			spread.SetComputedType(st)
			switch s := st.(type) {
			case *types.TupleType:
				elems = append(elems, s.ElementTypes()...)
				flags = append(flags, s.ElementFlags...)
			case *types.ArrayType:
				elems = append(elems, s.ElementType)
				flags = append(flags, types.ElementVariadic)
			default:
				spreadable := st == types.Any || types.AllConstituents(st, types.IsArrayOrTuple)
				if !spreadable {
					c.throwTypeError(spread, "Type '%s' must have a '[Symbol.iterator]()' method that returns an iterator.", st)
				}
				elem := c.elementTypeOf(st)
				elems = append(elems, elem)
				flags = append(flags, types.ElementVariadic)
			}
			continue
		}
		var elemContext types.Type
		if tupleTarget != nil {
			if ts := tupleTarget.ElementTypes(); i < len(ts) {
				elemContext = ts[i]
			}
		} else if a, ok := contextual.(*types.ArrayType); ok {
			elemContext = a.ElementType
		}
		t := c.checkExpressionWithContext(el, elemContext)
		if !inConst && !hasLiteralConstituent(elemContext) {
			t = c.GetBaseTypeOfLiteralType(t)
		}
		elems = append(elems, t)
		flags = append(flags, types.ElementRequired)
	}

	if forceTuple {
		return c.newTuple(elems, flags, inConst, nil)
	}
	elem := c.CreateUnionType(elems...)
	if elem == nil {
		elem = types.Any
	}
	return types.NewArrayType(elem)
}

// contextualTuple returns the tuple constituent of a contextual type.
func contextualTuple(t types.Type) *types.TupleType {
	if t == nil {
		return nil
	}
	for _, m := range types.Constituents(t) {
		if tuple, ok := m.(*types.TupleType); ok {
			return tuple
		}
	}
	return nil
}

// propertyKeyName returns the name of a non-computed object literal key.
func propertyKeyName(key parser.Expression) string {
	switch k := key.(type) {
	case *parser.Identifier:
		return k.Value
	case *parser.StringLiteral:
		return k.Value
	case *parser.NumberLiteral:
		return types.FormatNumber(k.Value)
	}
	panic(fmt.Sprintf("checker: unexpected property key %T", key))
}

// literalKeyName returns the property name a computed key of literal type
// stands for.
func literalKeyName(t types.Type) (string, bool) {
	switch k := t.(type) {
	case *types.StringLiteralType:
		return k.Value, true
	case *types.NumberLiteralType:
		return types.FormatNumber(k.Value), true
	case *types.EnumMemberType:
		if k.Value.IsConstant() {
			return k.Value.Key(), true
		}
	}
	return "", false
}

// checkObjectLiteral builds a fresh object literal type. A later property
// overwrites an earlier one of the same name, but a plain property that a
// following spread overwrites is an error.
func (c *Checker) checkObjectLiteral(node *parser.ObjectLiteral, contextual types.Type) types.Type {
	inConst := c.hasStatus(InConstContext)
	desc := types.NewObjectDescriptor()
	declaredAt := make(map[string]*parser.ObjectProperty)
	var computedNumberPropTypes, computedStringPropTypes []types.Type
	sawSpread := false

	for _, prop := range node.Properties {
		if prop.Kind == parser.PropertySpread {
			sawSpread = true
			c.spreadIntoObject(desc, prop, declaredAt)
			continue
		}

		var name string
		if prop.Computed {
			keyType := c.checkExpression(prop.Key)
			literalName, ok := literalKeyName(keyType)
			if !ok {
				valueType := c.objectPropertyValueType(prop, nil, inConst)
				switch {
				case types.AllConstituents(keyType, types.IsNumberLike):
					computedNumberPropTypes = append(computedNumberPropTypes, valueType)
				case keyType == types.Any || types.AllConstituents(keyType, types.IsStringLike):
					computedStringPropTypes = append(computedStringPropTypes, valueType)
				default:
					c.throwTypeError(prop.Key, "A computed property name must be of type 'string', 'number', 'symbol', or 'any'.")
				}
				continue
			}
			name = literalName
		} else {
			name = propertyKeyName(prop.Key)
		}

		var propContext types.Type
		if contextual != nil {
			propContext = c.contextualPropertyType(contextual, name)
		}
		valueType := c.objectPropertyValueType(prop, propContext, inConst)
		if _, seen := declaredAt[name]; !seen {
			declaredAt[name] = prop
		}
		desc.AddProperty(&types.Property{Name: name, Type: valueType, Readonly: inConst})
	}

	if len(computedNumberPropTypes)+len(computedStringPropTypes) > 0 && !sawSpread {
		if len(computedStringPropTypes) > 0 {
			all := append([]types.Type{}, computedStringPropTypes...)
			all = append(all, computedNumberPropTypes...)
			for _, p := range desc.Properties {
				all = append(all, p.Type)
			}
			desc.StringIndex = &types.IndexInfo{ValueType: c.CreateUnionType(all...), ParamName: "x", Readonly: inConst}
		}
		if len(computedNumberPropTypes) > 0 {
			all := append([]types.Type{}, computedNumberPropTypes...)
			for _, p := range desc.Properties {
				if types.IsNumericName(p.Name) {
					all = append(all, p.Type)
				}
			}
			desc.NumberIndex = &types.IndexInfo{ValueType: c.CreateUnionType(all...), ParamName: "x", Readonly: inConst}
		}
	}

	t := types.NewObjectType(types.ObjectLiteralKind, desc)
	t.AddFlags(types.FlagResolvedMembers | types.FlagCheckExcessProps)
	return t
}

func (c *Checker) objectPropertyValueType(prop *parser.ObjectProperty, contextual types.Type, inConst bool) types.Type {
	t := c.checkExpressionWithContext(prop.Value, contextual)
	if !inConst && !hasLiteralConstituent(contextual) {
		t = c.GetBaseTypeOfLiteralType(t)
	}
	return t
}

// spreadIntoObject copies the properties of a spread source into desc.
func (c *Checker) spreadIntoObject(desc *types.ObjectDescriptor, prop *parser.ObjectProperty, declaredAt map[string]*parser.ObjectProperty) {
	st := c.checkExpression(prop.Value)
	var props []*types.Property
	switch s := st.(type) {
	case *types.ObjectType:
		props = s.Desc.Properties
	case *types.TupleType:
		props = s.Desc.Properties
	case *types.ArrayType:
	default:
		if st == types.Any {
			return
		}
		c.throwTypeError(prop, "Spread types may only be created from object types.")
	}
	for _, p := range props {
		if earlier, ok := declaredAt[p.Name]; ok && !p.Optional {
			c.throwTypeError(earlier, "'%s' is specified more than once, so this usage will be overwritten.", p.Name)
		}
		cp := *p
		desc.AddProperty(&cp)
	}
}

// contextualPropertyType returns the type a property called name should be
// checked against when the object literal has contextual type t.
func (c *Checker) contextualPropertyType(t types.Type, name string) types.Type {
	var found []types.Type
	for _, m := range types.Constituents(t) {
		if p := types.GetPropertyOfType(m, name); p != nil {
			found = append(found, p.Type)
			continue
		}
		if info := types.GetIndexInfo(m, types.IsNumericName(name)); info != nil {
			found = append(found, info.ValueType)
		}
	}
	return c.CreateUnionType(found...)
}

// checkAsExpression handles `as const` and type assertions.
func (c *Checker) checkAsExpression(node *parser.AsExpression) types.Type {
	if node.IsConst {
		switch e := node.Expression.(type) {
		case *parser.NumberLiteral, *parser.StringLiteral, *parser.BooleanLiteral, *parser.BigIntLiteral,
			*parser.ArrayLiteral, *parser.ObjectLiteral, *parser.MemberExpression:
		case *parser.UnaryExpression:
			if e.Operator != "-" && e.Operator != "+" {
				c.throwTypeError(node, "A 'const' assertions can only be applied to references to enum members, or string, number, boolean, array, or object literals.")
			}
		default:
			c.throwTypeError(node, "A 'const' assertions can only be applied to references to enum members, or string, number, boolean, array, or object literals.")
		}
		defer c.addStatus(InConstContext)()
		return c.checkExpression(node.Expression)
	}
	target := c.resolveTypeNode(node.Type)
	source := c.checkExpressionWithContext(node.Expression, target)
	widened := c.GetBaseTypeOfLiteralType(source)
	if !c.relations.IsComparable(source, target) && !c.relations.IsComparable(target, widened) {
		c.throwAtNode(node, "Conversion of type '%s' to type '%s' may be a mistake because neither type sufficiently overlaps with the other.", widened, target)
	}
	return target
}
