package checker

import (
	"fmt"

	"tscheck/pkg/binder"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// resolveTypeNode turns a type annotation into a type.
func (c *Checker) resolveTypeNode(node parser.TypeNode) types.Type {
	switch n := node.(type) {
	case *parser.TypeReference:
		return c.resolveTypeReference(n)
	case *parser.LiteralTypeNode:
		return c.resolveLiteralType(n)
	case *parser.ArrayTypeNode:
		return types.NewArrayType(c.resolveTypeNode(n.ElementType))
	case *parser.ReadonlyTypeNode:
		switch inner := n.Type.(type) {
		case *parser.ArrayTypeNode:
			return types.NewReadonlyArrayType(c.resolveTypeNode(inner.ElementType))
		case *parser.TupleTypeNode:
			return c.resolveTupleType(inner, true)
		}
		c.throwTypeError(n, "'readonly' type modifier is only permitted on array and tuple literal types.")
	case *parser.TupleTypeNode:
		return c.resolveTupleType(n, false)
	case *parser.UnionTypeNode:
		members := make([]types.Type, len(n.Types))
		for i, m := range n.Types {
			members[i] = c.resolveTypeNode(m)
		}
		if u := c.CreateUnionType(members...); u != nil {
			return u
		}
		return types.Never
	case *parser.FunctionTypeNode:
		sig := c.resolveSignature(n.Parameters, n.ReturnType)
		if n.IsConstructor {
			return c.CreateConstructorTypeWithSignature(sig)
		}
		return c.CreateFunctionTypeWithSignature(sig)
	case *parser.TypeQuery:
		return c.checkExpression(n.Expression)
	case *parser.ObjectTypeLiteral:
		o := types.NewObjectType(types.ObjectLiteralKind, nil)
		c.resolveMembers(newMemberSet(o.Desc), n.Members)
		o.AddFlags(types.FlagResolvedMembers)
		return o
	default:
		panic(fmt.Sprintf("checker: unhandled type node %T", node))
	}
	return nil
}

func (c *Checker) resolveTypeReference(n *parser.TypeReference) types.Type {
	if t, ok := types.PrimitiveByName(n.Name); ok {
		return t
	}
	v := c.scope.Find(n.Name)
	if v == nil {
		if t, ok := c.globals.TypeNamed(n.Name); ok {
			return t
		}
		c.throwTypeError(n, "Cannot find name '%s'.", n.Name)
	}
	switch v.Kind {
	case binder.InterfaceBinding:
		return c.resolveInterface(v)
	case binder.TypeAliasBinding:
		return c.resolveAlias(v)
	case binder.EnumBinding:
		return c.ensureEnum(v)
	}
	c.throwTypeError(n, "'%s' refers to a value, but is being used as a type here. Did you mean 'typeof %s'?", n.Name, n.Name)
	return nil
}

func (c *Checker) resolveLiteralType(n *parser.LiteralTypeNode) types.Type {
	switch lit := n.Literal.(type) {
	case *parser.NumberLiteral:
		if n.Negative {
			return c.CreateNumberLiteralType(-lit.Value)
		}
		return c.CreateNumberLiteralType(lit.Value)
	case *parser.BigIntLiteral:
		return c.CreateBigintLiteralType(lit.Value, n.Negative)
	case *parser.StringLiteral:
		return c.CreateStringLiteralType(lit.Value)
	case *parser.BooleanLiteral:
		if lit.Value {
			return types.True
		}
		return types.False
	}
	panic(fmt.Sprintf("checker: unexpected literal type %T", n.Literal))
}

func (c *Checker) resolveTupleType(n *parser.TupleTypeNode, readonly bool) *types.TupleType {
	var elems []types.Type
	var flags []types.ElementFlags
	var named []string
	hasNames, sawOptional := false, false
	for _, el := range n.Elements {
		t := c.resolveTypeNode(el.Type)
		switch {
		case el.Rest:
			switch r := t.(type) {
			case *types.ArrayType:
				elems = append(elems, r.ElementType)
				flags = append(flags, types.ElementRest)
				named = append(named, el.Name)
			case *types.TupleType:
				elems = append(elems, r.ElementTypes()...)
				flags = append(flags, r.ElementFlags...)
				named = append(named, make([]string, len(r.ElementFlags))...)
			default:
				if t != types.Any {
					c.throwTypeError(el, "A rest element type must be an array type.")
				}
				elems = append(elems, types.Any)
				flags = append(flags, types.ElementRest)
				named = append(named, el.Name)
			}
		case el.Optional:
			sawOptional = true
			elems = append(elems, t)
			flags = append(flags, types.ElementOptional)
			named = append(named, el.Name)
		default:
			if sawOptional {
				c.throwTypeError(el, "A required element cannot follow an optional element.")
			}
			elems = append(elems, t)
			flags = append(flags, types.ElementRequired)
			named = append(named, el.Name)
		}
		hasNames = hasNames || el.Name != ""
	}
	if !hasNames {
		named = nil
	}
	return c.newTuple(elems, flags, readonly, named)
}

// resolveSignature builds a signature from a parameter list written in a
// type position.
func (c *Checker) resolveSignature(params []*parser.Parameter, returnType parser.TypeNode) *types.Signature {
	sig := &types.Signature{ReturnType: types.Any}
	for i, p := range params {
		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("__%d", i)
		}
		t := types.Type(types.Any)
		if p.TypeAnnotation != nil {
			t = c.resolveTypeNode(p.TypeAnnotation)
		} else if p.IsRest {
			t = c.globals.GlobalAnyArrayType()
		} else {
			c.throwTypeError(p, "Parameter '%s' implicitly has an 'any' type.", name)
		}
		param := &types.Parameter{Name: name, Type: t, Optional: p.Optional || p.Default != nil}
		if p.IsRest {
			if t != types.Any && !types.IsArrayOrTuple(t) {
				c.throwTypeError(p, "A rest parameter must be of an array type.")
			}
			sig.Rest = param
			continue
		}
		sig.Params = append(sig.Params, param)
	}
	if returnType != nil {
		sig.ReturnType = c.resolveTypeNode(returnType)
	}
	return sig
}

// memberSet collects the members of an object type, possibly across the
// declarations of a merged interface. Methods with the same name become
// overloads of one function type.
type memberSet struct {
	desc    *types.ObjectDescriptor
	methods map[string]*types.ObjectType
}

func newMemberSet(desc *types.ObjectDescriptor) *memberSet {
	return &memberSet{desc: desc, methods: make(map[string]*types.ObjectType)}
}

func (c *Checker) resolveMembers(ms *memberSet, members []parser.TypeMember) {
	for _, m := range members {
		switch member := m.(type) {
		case *parser.PropertySignature:
			t := types.Type(types.Any)
			if member.Type != nil {
				t = c.resolveTypeNode(member.Type)
			}
			c.addMember(ms, member, &types.Property{Name: member.Name, Type: t, Optional: member.Optional, Readonly: member.Readonly})
		case *parser.MethodSignature:
			sig := c.resolveSignature(member.Parameters, member.ReturnType)
			if fn, ok := ms.methods[member.Name]; ok {
				fn.Desc.CallSignatures = append(fn.Desc.CallSignatures, sig)
				continue
			}
			fn := c.CreateFunctionTypeWithSignature(sig)
			ms.methods[member.Name] = fn
			c.addMember(ms, member, &types.Property{Name: member.Name, Type: fn, Optional: member.Optional})
		case *parser.IndexSignature:
			key := c.resolveTypeNode(member.KeyType)
			info := &types.IndexInfo{ValueType: c.resolveTypeNode(member.ValueType), ParamName: member.ParamName, Readonly: member.Readonly}
			switch key {
			case types.String:
				if ms.desc.StringIndex != nil {
					c.throwTypeError(member, "Duplicate index signature for type 'string'.")
				}
				ms.desc.StringIndex = info
			case types.Number:
				if ms.desc.NumberIndex != nil {
					c.throwTypeError(member, "Duplicate index signature for type 'number'.")
				}
				ms.desc.NumberIndex = info
			default:
				c.throwTypeError(member, "An index signature parameter type must be 'string', 'number', 'symbol', or a template literal type.")
			}
		case *parser.CallSignature:
			ms.desc.CallSignatures = append(ms.desc.CallSignatures, c.resolveSignature(member.Parameters, member.ReturnType))
		case *parser.ConstructSignature:
			ms.desc.ConstructSignatures = append(ms.desc.ConstructSignatures, c.resolveSignature(member.Parameters, member.ReturnType))
		default:
			panic(fmt.Sprintf("checker: unhandled type member %T", m))
		}
	}
}

// addMember adds p. A property declared again must keep its type.
func (c *Checker) addMember(ms *memberSet, at parser.Node, p *types.Property) {
	if prev := ms.desc.FindProperty(p.Name); prev != nil {
		if !c.relations.IsIdentical(prev.Type, p.Type) {
			c.throwTypeError(at, "Subsequent property declarations must have the same type. Property '%s' must be of type '%s', but here has type '%s'.", p.Name, prev.Type, p.Type)
		}
		return
	}
	ms.desc.AddProperty(p)
}

// resolveAlias resolves a type alias once. Object type aliases get a named
// type up front so they may refer to themselves.
func (c *Checker) resolveAlias(v *binder.Variable) types.Type {
	if v.Type != nil {
		return v.Type
	}
	d := v.FirstDeclaration()
	decl := d.Node.(*parser.TypeAliasStatement)
	if c.resolvingAliases[v] {
		c.throwTypeError(decl.Name, "Type alias '%s' circularly references itself.", v.Name)
	}
	defer c.enterScope(d.Scope)()

	if lit, ok := decl.Type.(*parser.ObjectTypeLiteral); ok {
		o := types.NewObjectType(types.ObjectLiteralKind, nil)
		o.Name = v.Name
		v.Type = o
		c.resolveMembers(newMemberSet(o.Desc), lit.Members)
		o.AddFlags(types.FlagResolvedMembers)
		return o
	}

	c.resolvingAliases[v] = true
	defer delete(c.resolvingAliases, v)
	t := c.resolveTypeNode(decl.Type)
	v.Type = t
	debugPrintf("alias %s = %s", v.Name, t)
	return t
}

// resolveInterface merges every declaration of an interface and the members
// inherited from its bases into one named object type.
func (c *Checker) resolveInterface(v *binder.Variable) *types.ObjectType {
	if o, ok := v.Type.(*types.ObjectType); ok {
		return o
	}
	o := types.NewObjectType(types.InterfaceKind, nil)
	o.Name = v.Name
	v.Type = o

	ms := newMemberSet(o.Desc)
	for _, d := range v.Decls {
		decl, ok := d.Node.(*parser.InterfaceDeclaration)
		if !ok {
			continue
		}
		restore := c.enterScope(d.Scope)
		c.resolveMembers(ms, decl.Body.Members)
		restore()
	}
	own := make(map[string]bool, len(o.Desc.Properties))
	for _, p := range o.Desc.Properties {
		own[p.Name] = true
	}

	var bases []*types.ObjectType
	var firstDecl *parser.InterfaceDeclaration
	for _, d := range v.Decls {
		decl, ok := d.Node.(*parser.InterfaceDeclaration)
		if !ok {
			continue
		}
		if firstDecl == nil {
			firstDecl = decl
		}
		restore := c.enterScope(d.Scope)
		for _, ext := range decl.Extends {
			base, ok := c.resolveTypeReference(ext).(*types.ObjectType)
			if !ok {
				c.throwTypeError(ext, "An interface can only extend an object type or intersection of object types with statically known members.")
			}
			if base == o {
				c.throwTypeError(ext, "Type '%s' recursively references itself as a base type.", o.Name)
			}
			if !containsObject(bases, base) {
				bases = append(bases, base)
			}
		}
		restore()
	}

	if len(bases) >= 2 {
		c.checkBaseConflicts(o, bases, own, firstDecl)
	}
	for _, base := range bases {
		for _, p := range base.Desc.Properties {
			if o.Desc.FindProperty(p.Name) == nil {
				cp := *p
				o.Desc.AddProperty(&cp)
			}
		}
		if o.Desc.StringIndex == nil {
			o.Desc.StringIndex = base.Desc.StringIndex
		}
		if o.Desc.NumberIndex == nil {
			o.Desc.NumberIndex = base.Desc.NumberIndex
		}
		o.Desc.CallSignatures = append(o.Desc.CallSignatures, base.Desc.CallSignatures...)
		o.Desc.ConstructSignatures = append(o.Desc.ConstructSignatures, base.Desc.ConstructSignatures...)
	}
	o.Bases = bases
	o.AddFlags(types.FlagResolvedMembers)
	return o
}

// checkBaseConflicts requires a property inherited from more than one base
// to have the same type in each, unless the interface redeclares it.
func (c *Checker) checkBaseConflicts(o *types.ObjectType, bases []*types.ObjectType, own map[string]bool, decl *parser.InterfaceDeclaration) {
	for i, a := range bases {
		for _, b := range bases[i+1:] {
			for _, p := range a.Desc.Properties {
				if own[p.Name] {
					continue
				}
				q := b.Desc.FindProperty(p.Name)
				if q != nil && !c.relations.IsIdentical(p.Type, q.Type) {
					c.throwTypeError(decl.Name, "Interface '%s' cannot simultaneously extend types '%s' and '%s'.", o.Name, a, b)
				}
			}
		}
	}
}

func containsObject(list []*types.ObjectType, o *types.ObjectType) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

// checkInterfaceDeclaration resolves the interface and validates each base
// this declaration names against the merged interface. The validation runs
// on every declaration.
func (c *Checker) checkInterfaceDeclaration(decl *parser.InterfaceDeclaration) {
	v := c.scope.Find(decl.Name.Value)
	if v == nil || v.Kind != binder.InterfaceBinding {
		return
	}
	o := c.resolveInterface(v)
	for _, ext := range decl.Extends {
		base := c.resolveTypeReference(ext)
		if !c.relations.IsAssignable(o, base) {
			c.throwTypeError(decl.Name, "Interface '%s' incorrectly extends interface '%s'.", o.Name, base)
		}
	}
}
