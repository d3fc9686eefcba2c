package checker

import (
	"math"
	"strconv"

	"tscheck/pkg/types"
)

type bigintKey struct {
	text     string
	negative bool
}

// canonicalNaN is the map key shared by every NaN payload.
var canonicalNaN = math.Float64bits(math.NaN())

// CreateNumberLiteralType returns the interned literal type for value.
// Negative zero shares the entry of zero.
func (c *Checker) CreateNumberLiteralType(value float64) *types.NumberLiteralType {
	if value == 0 {
		value = 0
	}
	key := math.Float64bits(value)
	if math.IsNaN(value) {
		key = canonicalNaN
	}
	if t, ok := c.numberLiterals[key]; ok {
		return t
	}
	t := &types.NumberLiteralType{Value: value}
	c.numberLiterals[key] = t
	return t
}

// CreateStringLiteralType returns the interned literal type for text.
func (c *Checker) CreateStringLiteralType(text string) *types.StringLiteralType {
	if t, ok := c.stringLiterals[text]; ok {
		return t
	}
	t := &types.StringLiteralType{Value: text}
	c.stringLiterals[text] = t
	return t
}

// CreateBigintLiteralType returns the interned literal type for the bigint
// with decimal digits text. Zero is never negative.
func (c *Checker) CreateBigintLiteralType(text string, negative bool) *types.BigIntLiteralType {
	if text == "0" {
		negative = false
	}
	key := bigintKey{text, negative}
	if t, ok := c.bigintLiterals[key]; ok {
		return t
	}
	t := &types.BigIntLiteralType{Text: text, Negative: negative}
	c.bigintLiterals[key] = t
	return t
}

// CreateUnionType builds the union of ts. Nested unions are flattened and
// duplicate constituents removed; literals are absorbed by their base type
// and true|false collapses to boolean. A single remaining constituent is
// returned as is and an empty input (after dropping nils) yields nil.
func (c *Checker) CreateUnionType(ts ...types.Type) types.Type {
	var flat []types.Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		flat = append(flat, types.Constituents(t)...)
	}
	if len(flat) == 0 {
		return nil
	}

	bases := make(map[types.Type]bool)
	hasTrue, hasFalse, allNever := false, false, true
	for _, t := range flat {
		switch t {
		case types.Any:
			return types.Any
		case types.True:
			hasTrue = true
		case types.False:
			hasFalse = true
		}
		if t != types.Never {
			allNever = false
		}
		if !types.IsLiteral(t) {
			if _, member := t.(*types.EnumMemberType); !member {
				bases[t] = true
			}
		}
	}
	if allNever {
		return types.Never
	}
	if hasTrue && hasFalse {
		bases[types.Boolean] = true
	}

	var out []types.Type
	for _, t := range flat {
		if t == types.Never {
			continue
		}
		if hasTrue && hasFalse && (t == types.True || t == types.False) {
			t = types.Boolean
		}
		if base := types.BaseTypeOfLiteral(t); base != t && bases[base] {
			continue
		}
		dup := false
		for _, o := range out {
			if o == t || c.relations.IsIdentical(o, t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return types.NewUnionType(out)
}

// CreateTupleType wraps desc into a tuple. Tuples also get a string index
// of type any.
func (c *Checker) CreateTupleType(desc *types.ObjectDescriptor, flags []types.ElementFlags, info types.TupleInfo, named []string) *types.TupleType {
	desc.StringIndex = &types.IndexInfo{ValueType: types.Any, ParamName: "key"}
	return types.NewTupleType(desc, flags, info, named)
}

// newTuple builds a tuple from positional element types.
func (c *Checker) newTuple(elems []types.Type, flags []types.ElementFlags, readonly bool, named []string) *types.TupleType {
	desc := types.NewObjectDescriptor()
	info := types.TupleInfo{Readonly: readonly}
	for i, e := range elems {
		f := flags[i]
		desc.AddProperty(&types.Property{
			Name:     strconv.Itoa(i),
			Type:     e,
			Optional: f&types.ElementOptional != 0,
			Readonly: readonly,
		})
		if f&types.ElementRequired != 0 {
			info.MinLength++
		}
		if f&types.ElementFixed != 0 {
			info.FixedLength++
		}
	}
	return c.CreateTupleType(desc, flags, info, named)
}

// CreateObjectTypeWithCallSignature creates an anonymous object type with
// one call signature.
func (c *Checker) CreateObjectTypeWithCallSignature(sig *types.Signature) *types.ObjectType {
	t := types.NewObjectType(types.ObjectLiteralKind, nil)
	t.Desc.CallSignatures = append(t.Desc.CallSignatures, sig)
	return t
}

// CreateObjectTypeWithConstructSignature creates an anonymous object type
// with one construct signature.
func (c *Checker) CreateObjectTypeWithConstructSignature(sig *types.Signature) *types.ObjectType {
	t := types.NewObjectType(types.ObjectLiteralKind, nil)
	t.Desc.ConstructSignatures = append(t.Desc.ConstructSignatures, sig)
	return t
}

// CreateFunctionTypeWithSignature creates a function type.
func (c *Checker) CreateFunctionTypeWithSignature(sig *types.Signature) *types.ObjectType {
	t := types.NewObjectType(types.FunctionKind, nil)
	t.Desc.CallSignatures = append(t.Desc.CallSignatures, sig)
	return t
}

// CreateConstructorTypeWithSignature creates a constructor type.
func (c *Checker) CreateConstructorTypeWithSignature(sig *types.Signature) *types.ObjectType {
	t := types.NewObjectType(types.ConstructorKind, nil)
	t.Desc.ConstructSignatures = append(t.Desc.ConstructSignatures, sig)
	return t
}

// GetBaseTypeOfLiteralType widens literal types (member-wise for unions) to
// their base primitive. Enum members widen to their enum.
func (c *Checker) GetBaseTypeOfLiteralType(t types.Type) types.Type {
	if t == nil || !types.IsWidenable(t) {
		return t
	}
	if u, ok := t.(*types.UnionType); ok {
		members := make([]types.Type, len(u.Types))
		for i, m := range u.Types {
			members[i] = types.BaseTypeOfLiteral(m)
		}
		return c.CreateUnionType(members...)
	}
	return types.BaseTypeOfLiteral(t)
}

// widenForBinding widens t and drops object literal freshness, giving the
// type a mutable binding is declared with.
func (c *Checker) widenForBinding(t types.Type) types.Type {
	return c.regularType(c.GetBaseTypeOfLiteralType(t))
}

// regularType returns t without the excess property check marker. The
// regular version of a fresh object type is cached so it keeps its identity.
func (c *Checker) regularType(t types.Type) types.Type {
	o, ok := t.(*types.ObjectType)
	if !ok || !o.HasFlag(types.FlagCheckExcessProps) {
		return t
	}
	if r, ok := c.regularTypes[o]; ok {
		return r
	}
	r := &types.ObjectType{Kind: o.Kind, Desc: o.Desc, Name: o.Name, Bases: o.Bases}
	r.AddFlags(o.Flags() &^ types.FlagCheckExcessProps)
	c.regularTypes[o] = r
	return r
}

// removeNullable drops null, undefined and void constituents.
func (c *Checker) removeNullable(t types.Type) types.Type {
	if !types.SomeConstituent(t, types.IsNullable) {
		return t
	}
	var kept []types.Type
	for _, m := range types.Constituents(t) {
		if !types.IsNullable(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return types.Never
	}
	return c.CreateUnionType(kept...)
}

func (c *Checker) removeUndefined(t types.Type) types.Type {
	if !types.SomeConstituent(t, func(m types.Type) bool { return m == types.Undefined }) {
		return t
	}
	var kept []types.Type
	for _, m := range types.Constituents(t) {
		if m != types.Undefined {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return types.Never
	}
	return c.CreateUnionType(kept...)
}

// truthyPart and falsyPart narrow t to the constituents that can be truthy
// or falsy respectively.
func (c *Checker) truthyPart(t types.Type) types.Type {
	var kept []types.Type
	for _, m := range types.Constituents(t) {
		switch {
		case !types.CanBeTruthy(m):
		case m == types.Boolean:
			kept = append(kept, types.True)
		default:
			kept = append(kept, m)
		}
	}
	if u := c.CreateUnionType(kept...); u != nil {
		return u
	}
	return types.Never
}

func (c *Checker) falsyPart(t types.Type) types.Type {
	var kept []types.Type
	for _, m := range types.Constituents(t) {
		switch {
		case !types.CanBeFalsy(m):
		case m == types.Boolean:
			kept = append(kept, types.False)
		default:
			kept = append(kept, m)
		}
	}
	if u := c.CreateUnionType(kept...); u != nil {
		return u
	}
	return types.Never
}

// hasLiteralConstituent reports whether t mentions a literal or enum member,
// in which case it keeps literal types of expressions checked against it.
func hasLiteralConstituent(t types.Type) bool {
	if t == nil {
		return false
	}
	return types.SomeConstituent(t, func(m types.Type) bool {
		if types.IsLiteral(m) {
			return true
		}
		_, ok := m.(*types.EnumMemberType)
		return ok
	})
}

// elementTypeOf returns the type produced by iterating t, or nil when t is
// not iterable.
func (c *Checker) elementTypeOf(t types.Type) types.Type {
	switch x := t.(type) {
	case *types.ArrayType:
		return x.ElementType
	case *types.TupleType:
		if u := c.CreateUnionType(x.ElementTypes()...); u != nil {
			return u
		}
		return types.Never
	case *types.UnionType:
		var elems []types.Type
		for _, m := range x.Types {
			e := c.elementTypeOf(m)
			if e == nil {
				return nil
			}
			elems = append(elems, e)
		}
		return c.CreateUnionType(elems...)
	}
	if t == types.Any {
		return types.Any
	}
	if types.IsStringLike(t) {
		return types.String
	}
	return nil
}
