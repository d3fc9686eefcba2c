package checker

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// memberAccess is the result of resolving a property access.
type memberAccess struct {
	typ      types.Type
	readonly bool
	optional bool
	// name is the property name, empty for index accesses.
	name string
}

// isOptionalChain reports whether expr is part of a chain started by ?.
func isOptionalChain(expr parser.Expression) bool {
	switch e := expr.(type) {
	case *parser.MemberExpression:
		return e.Optional || isOptionalChain(e.Object)
	case *parser.CallExpression:
		return e.Optional || isOptionalChain(e.Function)
	}
	return false
}

// checkMemberExpression resolves o.p, o[k] and their optional forms.
func (c *Checker) checkMemberExpression(node *parser.MemberExpression) memberAccess {
	objType := c.checkExpression(node.Object)
	chained := node.Optional || isOptionalChain(node.Object)

	var keyType types.Type
	if node.Computed {
		keyType = c.checkExpression(node.Property)
	}
	if objType == types.Any {
		return memberAccess{typ: types.Any}
	}

	if chained {
		stripped := c.removeNullable(objType)
		if stripped == types.Never {
			return memberAccess{typ: types.Undefined}
		}
		access := c.resolveMember(stripped, node, keyType)
		if stripped != objType {
			access.typ = c.CreateUnionType(access.typ, types.Undefined)
		}
		return access
	}
	c.checkNonNullObject(objType, node.Object)
	return c.resolveMember(objType, node, keyType)
}

// checkNonNullObject rejects member access on possibly null values. The
// message names only the nullable constituents of t.
func (c *Checker) checkNonNullObject(t types.Type, expr parser.Expression) {
	if !types.SomeConstituent(t, types.IsNullable) {
		return
	}
	var names []string
	for _, n := range []types.Type{types.Null, types.Undefined, types.Void} {
		if slices.Contains(types.Constituents(t), n) {
			names = append(names, n.String())
		}
	}
	nullable := "'" + strings.Join(names, "' or '") + "'"
	if id, ok := expr.(*parser.Identifier); ok {
		c.throwAtNode(expr, "'%s' is possibly %s.", id.Value, nullable)
	}
	c.throwAtNode(expr, "Object is possibly %s.", nullable)
}

// resolveMember resolves the member on every constituent of objType and
// unions the results.
func (c *Checker) resolveMember(objType types.Type, node *parser.MemberExpression, keyType types.Type) memberAccess {
	var result memberAccess
	var parts []types.Type
	for _, m := range types.Constituents(objType) {
		var access memberAccess
		if node.Computed {
			access = c.resolveElementAccess(m, objType, node, keyType)
		} else {
			access = c.resolvePropertyAccess(m, objType, node)
		}
		parts = append(parts, access.typ)
		result.readonly = result.readonly || access.readonly
		result.optional = result.optional || access.optional
		result.name = access.name
	}
	result.typ = c.CreateUnionType(parts...)
	return result
}

// propertyAccess turns a resolved property into an access result.
func (c *Checker) propertyAccess(p *types.Property) memberAccess {
	t := p.Type
	if p.Optional {
		t = c.CreateUnionType(t, types.Undefined)
	}
	return memberAccess{typ: t, readonly: p.Readonly, optional: p.Optional, name: p.Name}
}

// resolvePropertyAccess resolves o.name on one constituent t of whole.
func (c *Checker) resolvePropertyAccess(t, whole types.Type, node *parser.MemberExpression) memberAccess {
	name := node.Property.(*parser.Identifier).Value
	if t == types.Any {
		return memberAccess{typ: types.Any, name: name}
	}
	if p := types.GetPropertyOfType(t, name); p != nil {
		return c.propertyAccess(p)
	}
	if o, ok := t.(*types.ObjectType); ok && o.Desc.StringIndex != nil {
		info := o.Desc.StringIndex
		return memberAccess{typ: info.ValueType, readonly: info.Readonly, name: name}
	}
	if hint := c.suggest(name, propertyNames(t)); hint != "" {
		c.throwTypeError(node.Property, "Property '%s' does not exist on type '%s'. Did you mean '%s'?", name, whole, hint)
	}
	c.throwTypeError(node.Property, "Property '%s' does not exist on type '%s'.", name, whole)
	return memberAccess{}
}

// propertyNames lists the names a property access on t could have meant.
func propertyNames(t types.Type) []string {
	var names []string
	switch x := t.(type) {
	case *types.ObjectType:
		for _, p := range x.Desc.Properties {
			names = append(names, p.Name)
		}
	case *types.EnumLiteralType:
		names = append(names, x.Order...)
	case *types.ArrayType, *types.TupleType:
		names = append(names, "length")
	}
	return names
}

// resolveElementAccess resolves o[key] on one constituent t of whole.
func (c *Checker) resolveElementAccess(t, whole types.Type, node *parser.MemberExpression, keyType types.Type) memberAccess {
	if t == types.Any {
		return memberAccess{typ: types.Any}
	}
	numericKey := keyType != types.Any && types.AllConstituents(keyType, types.IsNumberLike)

	if name, ok := literalKeyName(keyType); ok {
		if tuple, isTuple := t.(*types.TupleType); isTuple && numericKey {
			if index, err := strconv.Atoi(name); err == nil && index >= len(tuple.ElementFlags) && !tuple.HasRest() {
				c.throwTypeError(node.Property, "Tuple type '%s' of length '%d' has no element at index '%d'.", tuple, len(tuple.ElementFlags), index)
			}
		}
		if p := types.GetPropertyOfType(t, name); p != nil {
			return c.propertyAccess(p)
		}
	}

	if e, ok := t.(*types.EnumLiteralType); ok && numericKey && e.EnumKind == types.EnumNumeric {
		return memberAccess{typ: types.String, readonly: true}
	}
	if numericKey && types.IsStringLike(t) {
		return memberAccess{typ: types.String, readonly: true}
	}

	var info *types.IndexInfo
	switch {
	case keyType == types.Any:
		info = types.GetIndexInfo(t, false)
		if info == nil {
			info = types.GetIndexInfo(t, true)
		}
	case numericKey:
		info = types.GetIndexInfo(t, true)
	case types.AllConstituents(keyType, types.IsStringLike):
		info = types.GetIndexInfo(t, false)
	}
	if info != nil {
		return memberAccess{typ: info.ValueType, readonly: info.Readonly}
	}

	switch key := node.Property.(type) {
	case *parser.Identifier:
		c.throwTypeError(node.Property, "Element implicitly has an 'any' type because expression of type '%s' can't be used to index type '%s'.", c.GetBaseTypeOfLiteralType(keyType), whole)
	case *parser.NumberLiteral:
		c.throwTypeError(node.Property, "Element implicitly has an 'any' type because expression of type '%s' can't be used to index type '%s'. Property '%s' does not exist on type '%s'.", keyType, whole, types.FormatNumber(key.Value), whole)
	case *parser.StringLiteral:
		c.throwTypeError(node.Property, "Element implicitly has an 'any' type because expression of type '%s' can't be used to index type '%s'. Property '%s' does not exist on type '%s'.", keyType, whole, key.Value, whole)
	}
	c.throwTypeError(node.Property, "Type '%s' cannot be used as an index type.", keyType)
	return memberAccess{}
}
