package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{42, "42"},
		{-1.5, "-1.5"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, FormatNumber(tt.input))
	}
}

func TestTypeStrings(t *testing.T) {
	union := NewUnionType([]Type{Number, String})
	assert.Equal(t, "number | string", union.String())
	assert.Equal(t, "(number | string)[]", NewArrayType(union).String())
	assert.Equal(t, "readonly number[]", NewReadonlyArrayType(Number).String())
	assert.Equal(t, `"a"`, (&StringLiteralType{Value: "a"}).String())
	assert.Equal(t, "-3n", (&BigIntLiteralType{Text: "3", Negative: true}).String())

	e := NewEnumLiteralType("Color", EnumNumeric)
	red := e.AddMember("Red", NumericEnumValue(0))
	assert.Equal(t, "Color", e.String())
	assert.Equal(t, "Color.Red", red.String())
}

func TestTypeFacts(t *testing.T) {
	tests := []struct {
		name   string
		input  Type
		truthy bool
		falsy  bool
	}{
		{"number", Number, true, true},
		{"zero", &NumberLiteralType{Value: 0}, false, true},
		{"NaN", &NumberLiteralType{Value: math.NaN()}, false, true},
		{"one", &NumberLiteralType{Value: 1}, true, false},
		{"empty string", &StringLiteralType{Value: ""}, false, true},
		{"true", True, true, false},
		{"undefined", Undefined, false, true},
		{"never", Never, false, false},
		{"bigint zero", &BigIntLiteralType{Text: "0"}, false, true},
		{"array", NewArrayType(Number), true, false},
		{"union", NewUnionType([]Type{Undefined, NewArrayType(Number)}), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.truthy, CanBeTruthy(tt.input))
			assert.Equal(t, tt.falsy, CanBeFalsy(tt.input))
		})
	}
}

func TestBaseTypeOfLiteral(t *testing.T) {
	e := NewEnumLiteralType("E", EnumNumeric)
	a := e.AddMember("A", NumericEnumValue(0))

	assert.Same(t, Number, BaseTypeOfLiteral(&NumberLiteralType{Value: 1}))
	assert.Same(t, String, BaseTypeOfLiteral(&StringLiteralType{Value: "x"}))
	assert.Same(t, BigInt, BaseTypeOfLiteral(&BigIntLiteralType{Text: "1"}))
	assert.Same(t, Boolean, BaseTypeOfLiteral(False))
	assert.Same(t, e, BaseTypeOfLiteral(a))
	assert.Same(t, Number, BaseTypeOfLiteral(Number))

	assert.True(t, IsWidenable(NewUnionType([]Type{String, True})))
	assert.False(t, IsWidenable(NewUnionType([]Type{String, Number})))
}

func TestRelations(t *testing.T) {
	one := &NumberLiteralType{Value: 1}
	two := &NumberLiteralType{Value: 2}
	e := NewEnumLiteralType("E", EnumNumeric)
	member := e.AddMember("A", NumericEnumValue(1))

	tests := []struct {
		name       string
		source     Type
		target     Type
		assignable bool
		comparable bool
	}{
		{"literal to base", one, Number, true, true},
		{"base to literal", Number, one, false, true},
		{"distinct literals", one, two, false, false},
		{"string to number", String, Number, false, false},
		{"anything to any", String, Any, true, true},
		{"never to number", Never, Number, true, true},
		{"unknown to number", Unknown, Number, false, false},
		{"undefined to void", Undefined, Void, true, true},
		{"union to wider union", NewUnionType([]Type{one, two}), Number, true, true},
		{"union member comparable", NewUnionType([]Type{one, String}), Number, false, true},
		{"boolean to true|false", Boolean, NewUnionType([]Type{True, False}), true, true},
		{"member to enum", member, e, true, true},
		{"member to number", member, Number, true, true},
		{"number to numeric enum", Number, e, true, true},
		{"array covariance", NewArrayType(one), NewArrayType(Number), true, true},
		{"readonly to mutable", NewReadonlyArrayType(Number), NewArrayType(Number), false, false},
		{"mutable to readonly", NewArrayType(Number), NewReadonlyArrayType(Number), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRelations()
			assert.Equal(t, tt.assignable, r.IsAssignable(tt.source, tt.target), "assignable")
			assert.Equal(t, tt.comparable, r.IsComparable(tt.source, tt.target), "comparable")
		})
	}
}

func TestRecursiveRelationCache(t *testing.T) {
	// s1 = { b: s2; x: number }, s2 = { a: s1 }
	// t1 = { b: t2; x: string }, t2 = { a: t1 }
	s1Desc, s2Desc := NewObjectDescriptor(), NewObjectDescriptor()
	t1Desc, t2Desc := NewObjectDescriptor(), NewObjectDescriptor()
	s1, s2 := NewObjectType(InterfaceKind, s1Desc), NewObjectType(InterfaceKind, s2Desc)
	t1, t2 := NewObjectType(InterfaceKind, t1Desc), NewObjectType(InterfaceKind, t2Desc)
	s1Desc.AddProperty(&Property{Name: "b", Type: s2})
	s1Desc.AddProperty(&Property{Name: "x", Type: Number})
	s2Desc.AddProperty(&Property{Name: "a", Type: s1})
	t1Desc.AddProperty(&Property{Name: "b", Type: t2})
	t1Desc.AddProperty(&Property{Name: "x", Type: String})
	t2Desc.AddProperty(&Property{Name: "a", Type: t1})

	r := NewRelations()
	assert.False(t, r.IsAssignable(s1, t1))
	_, cached := r.cache[relationKey{s2, t2, AssignableRelation}]
	assert.False(t, cached, "answer that assumed s1 -> t1 must not be cached")
	assert.False(t, r.IsAssignable(s2, t2))
	assert.Empty(t, r.inProgress)

	// Without a failing outer pair the recursion settles to true.
	u1Desc := NewObjectDescriptor()
	u1 := NewObjectType(InterfaceKind, u1Desc)
	u1Desc.AddProperty(&Property{Name: "b", Type: t2})
	u1Desc.AddProperty(&Property{Name: "x", Type: String})
	assert.True(t, r.IsAssignable(u1, t1))
	assert.True(t, r.cache[relationKey{u1, t1, AssignableRelation}])
}
