package types

// --- Type Widening ---

// BaseTypeOfLiteral converts a literal type to its primitive base type.
// Enum members widen to their enum. Other types are returned unchanged;
// unions are widened member-wise by the checker, which owns union creation.
func BaseTypeOfLiteral(t Type) Type {
	switch x := t.(type) {
	case *NumberLiteralType:
		return Number
	case *StringLiteralType:
		return String
	case *BigIntLiteralType:
		return BigInt
	case *BooleanLiteralType:
		return Boolean
	case *EnumMemberType:
		return x.Enum
	}
	return t
}

// IsWidenable reports whether BaseTypeOfLiteral would change t or any member
// of a union t.
func IsWidenable(t Type) bool {
	return SomeConstituent(t, func(m Type) bool { return BaseTypeOfLiteral(m) != m })
}
