package types

// IsNumberLike reports number, numeric literals and numeric enums.
func IsNumberLike(t Type) bool {
	switch x := t.(type) {
	case *Primitive:
		return x == Number
	case *NumberLiteralType:
		return true
	case *EnumLiteralType:
		return x.EnumKind == EnumNumeric
	case *EnumMemberType:
		return x.Value.Kind != TextValue
	}
	return false
}

// IsStringLike reports string, string literals and string enum members.
func IsStringLike(t Type) bool {
	switch x := t.(type) {
	case *Primitive:
		return x == String
	case *StringLiteralType:
		return true
	case *EnumLiteralType:
		return x.EnumKind == EnumLiteral
	case *EnumMemberType:
		return x.Value.Kind == TextValue
	}
	return false
}

// IsBigIntLike reports bigint and bigint literals.
func IsBigIntLike(t Type) bool {
	if t == BigInt {
		return true
	}
	_, ok := t.(*BigIntLiteralType)
	return ok
}

// IsBooleanLike reports boolean and the true/false literals.
func IsBooleanLike(t Type) bool {
	if t == Boolean {
		return true
	}
	_, ok := t.(*BooleanLiteralType)
	return ok
}

// IsNullable reports null, undefined and void.
func IsNullable(t Type) bool {
	return t == Null || t == Undefined || t == Void
}

// IsObjectLike reports the object family: objects, interfaces, functions,
// arrays, tuples and enum objects.
func IsObjectLike(t Type) bool {
	switch t.(type) {
	case *ObjectType, *ArrayType, *TupleType, *EnumLiteralType:
		return true
	}
	return false
}

// IsArrayOrTuple reports whether t is an array or tuple type.
func IsArrayOrTuple(t Type) bool {
	switch t.(type) {
	case *ArrayType, *TupleType:
		return true
	}
	return false
}

// AllConstituents reports whether pred holds for t, or for every member if t
// is a union.
func AllConstituents(t Type, pred func(Type) bool) bool {
	for _, m := range Constituents(t) {
		if !pred(m) {
			return false
		}
	}
	return true
}

// SomeConstituent reports whether pred holds for t or any member of a union.
func SomeConstituent(t Type, pred func(Type) bool) bool {
	for _, m := range Constituents(t) {
		if pred(m) {
			return true
		}
	}
	return false
}

// Signatures returns the call (or construct) signatures of an object-family type.
func Signatures(t Type, construct bool) []*Signature {
	o, ok := t.(*ObjectType)
	if !ok {
		return nil
	}
	if construct {
		return o.Desc.ConstructSignatures
	}
	return o.Desc.CallSignatures
}
