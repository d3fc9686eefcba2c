package checker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tscheck/pkg/types"
)

func TestLiteralInterning(t *testing.T) {
	c := New()

	assert.Same(t, c.CreateNumberLiteralType(1), c.CreateNumberLiteralType(1))
	assert.NotSame(t, c.CreateNumberLiteralType(1), c.CreateNumberLiteralType(2))
	assert.Same(t, c.CreateNumberLiteralType(0), c.CreateNumberLiteralType(math.Copysign(0, -1)), "negative zero")
	assert.Same(t, c.CreateNumberLiteralType(math.NaN()), c.CreateNumberLiteralType(math.NaN()))

	assert.Same(t, c.CreateStringLiteralType("a"), c.CreateStringLiteralType("a"))
	assert.NotSame(t, c.CreateStringLiteralType("a"), c.CreateStringLiteralType("b"))

	assert.Same(t, c.CreateBigintLiteralType("10", true), c.CreateBigintLiteralType("10", true))
	assert.NotSame(t, c.CreateBigintLiteralType("10", true), c.CreateBigintLiteralType("10", false))
	assert.Same(t, c.CreateBigintLiteralType("0", true), c.CreateBigintLiteralType("0", false), "zero has no sign")

	other := New()
	assert.NotSame(t, c.CreateStringLiteralType("a"), other.CreateStringLiteralType("a"), "interning is per checker")
}

func TestCreateUnionType(t *testing.T) {
	c := New()
	one := c.CreateNumberLiteralType(1)
	two := c.CreateNumberLiteralType(2)
	hello := c.CreateStringLiteralType("hello")

	t.Run("single constituent is returned as is", func(t *testing.T) {
		assert.Same(t, one, c.CreateUnionType(one))
		assert.Same(t, one, c.CreateUnionType(one, one))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, c.CreateUnionType())
		assert.Nil(t, c.CreateUnionType(nil, nil))
	})

	t.Run("flattens nested unions", func(t *testing.T) {
		inner := c.CreateUnionType(one, two)
		u, ok := c.CreateUnionType(inner, hello).(*types.UnionType)
		require.True(t, ok)
		assert.Len(t, u.Types, 3)
		assert.Equal(t, `1 | 2 | "hello"`, u.String())
	})

	t.Run("literal absorbed by base", func(t *testing.T) {
		assert.Same(t, types.Number, c.CreateUnionType(one, types.Number, two))
		u := c.CreateUnionType(types.String, one)
		assert.Equal(t, "string | 1", u.String())
	})

	t.Run("true and false make boolean", func(t *testing.T) {
		assert.Same(t, types.Boolean, c.CreateUnionType(types.True, types.False))
	})

	t.Run("any wins", func(t *testing.T) {
		assert.Same(t, types.Any, c.CreateUnionType(types.String, types.Any))
	})

	t.Run("never is dropped", func(t *testing.T) {
		assert.Same(t, types.String, c.CreateUnionType(types.Never, types.String))
		assert.Same(t, types.Never, c.CreateUnionType(types.Never, types.Never))
	})

	t.Run("structurally identical members collapse", func(t *testing.T) {
		a := types.NewArrayType(types.Number)
		b := types.NewArrayType(types.Number)
		assert.Same(t, a, c.CreateUnionType(a, b))
	})
}

func TestWidening(t *testing.T) {
	c := New()
	assert.Same(t, types.Number, c.GetBaseTypeOfLiteralType(c.CreateNumberLiteralType(3)))
	assert.Same(t, types.String, c.GetBaseTypeOfLiteralType(c.CreateStringLiteralType("x")))
	assert.Same(t, types.Boolean, c.GetBaseTypeOfLiteralType(types.True))
	assert.Same(t, types.BigInt, c.GetBaseTypeOfLiteralType(c.CreateBigintLiteralType("3", false)))
	assert.Same(t, types.Number, c.GetBaseTypeOfLiteralType(types.Number))

	u := c.CreateUnionType(c.CreateNumberLiteralType(1), c.CreateStringLiteralType("a"))
	assert.Equal(t, "number | string", c.GetBaseTypeOfLiteralType(u).String())
}

func TestSignatureObjectTypes(t *testing.T) {
	c := New()
	sig := &types.Signature{
		Params:     []*types.Parameter{{Name: "a", Type: types.Number}},
		ReturnType: types.String,
	}
	fn := c.CreateFunctionTypeWithSignature(sig)
	assert.Equal(t, "(a: number) => string", fn.String())
	require.Len(t, types.Signatures(fn, false), 1)
	assert.Empty(t, types.Signatures(fn, true))

	ctor := c.CreateConstructorTypeWithSignature(sig)
	require.Len(t, types.Signatures(ctor, true), 1)
}
