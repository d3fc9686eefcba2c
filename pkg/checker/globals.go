package checker

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"tscheck/pkg/types"
)

// GlobalTypesHolder owns the canonical global types of one checker: the
// primitive singletons, a few composite convenience types and the built-in
// value and type names.
type GlobalTypesHolder struct {
	anyArray    *types.ArrayType
	emptyObject *types.ObjectType
	regExp      *types.ObjectType
	// resolving marks a return type that is still being inferred.
	resolving types.Type

	values    map[string]types.Type
	typeNames map[string]types.Type
}

// NewGlobalTypesHolder builds the global types.
func NewGlobalTypesHolder() *GlobalTypesHolder {
	g := &GlobalTypesHolder{
		anyArray:    types.NewArrayType(types.Any),
		emptyObject: types.NewObjectType(types.ObjectLiteralKind, nil),
		resolving:   &types.Primitive{Kind: types.AnyKind, Name: "any"},
	}
	g.regExp = newRegExpInterface()
	g.values = map[string]types.Type{
		"NaN":       types.Number,
		"Infinity":  types.Number,
		"undefined": types.Undefined,
	}
	g.typeNames = map[string]types.Type{
		"object": g.emptyObject,
		"RegExp": g.regExp,
	}
	return g
}

func newRegExpInterface() *types.ObjectType {
	desc := types.NewObjectDescriptor()
	method := func(param string, ret types.Type) types.Type {
		fn := types.NewObjectType(types.FunctionKind, nil)
		fn.Desc.CallSignatures = []*types.Signature{{
			Params:     []*types.Parameter{{Name: param, Type: types.String}},
			ReturnType: ret,
		}}
		return fn
	}
	desc.AddProperty(&types.Property{Name: "source", Type: types.String, Readonly: true})
	desc.AddProperty(&types.Property{Name: "flags", Type: types.String, Readonly: true})
	desc.AddProperty(&types.Property{Name: "global", Type: types.Boolean, Readonly: true})
	desc.AddProperty(&types.Property{Name: "lastIndex", Type: types.Number})
	desc.AddProperty(&types.Property{Name: "test", Type: method("string", types.Boolean)})
	desc.AddProperty(&types.Property{
		Name: "exec",
		Type: method("string", types.NewUnionType([]types.Type{types.NewArrayType(types.String), types.Null})),
	})
	re := types.NewObjectType(types.InterfaceKind, desc)
	re.Name = "RegExp"
	re.AddFlags(types.FlagResolvedMembers)
	return re
}

// GlobalAnyArrayType is any[].
func (g *GlobalTypesHolder) GlobalAnyArrayType() *types.ArrayType { return g.anyArray }

// GlobalRegExpType is the interface regex literals have.
func (g *GlobalTypesHolder) GlobalRegExpType() *types.ObjectType { return g.regExp }

// Value returns the type of a built-in value name such as NaN.
func (g *GlobalTypesHolder) Value(name string) (types.Type, bool) {
	t, ok := g.values[name]
	return t, ok
}

// TypeNamed returns a built-in type name other than the primitive keywords.
func (g *GlobalTypesHolder) TypeNamed(name string) (types.Type, bool) {
	t, ok := g.typeNames[name]
	return t, ok
}

// ValueNames lists the built-in value names in sorted order.
func (g *GlobalTypesHolder) ValueNames() []string {
	names := maps.Keys(g.values)
	slices.Sort(names)
	return names
}
