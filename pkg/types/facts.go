package types

// TypeFacts describe what a value of a type can be at runtime.
type TypeFacts uint8

const (
	Truthy TypeFacts = 1 << iota
	Falsy

	TruthyOrFalsy = Truthy | Falsy
)

// GetTypeFacts reports whether values of t can be truthy, falsy or both.
func GetTypeFacts(t Type) TypeFacts {
	switch x := t.(type) {
	case *Primitive:
		switch x.Kind {
		case NullKind, UndefinedKind, VoidKind:
			return Falsy
		case NeverKind:
			return 0
		}
		return TruthyOrFalsy
	case *BooleanLiteralType:
		if x.Value {
			return Truthy
		}
		return Falsy
	case *NumberLiteralType:
		if x.Value == 0 || x.Value != x.Value {
			return Falsy
		}
		return Truthy
	case *StringLiteralType:
		if x.Value == "" {
			return Falsy
		}
		return Truthy
	case *BigIntLiteralType:
		if x.Text == "0" {
			return Falsy
		}
		return Truthy
	case *EnumMemberType:
		switch x.Value.Kind {
		case NumericValue:
			if x.Value.Num == 0 {
				return Falsy
			}
			return Truthy
		case TextValue:
			if x.Value.Text == "" {
				return Falsy
			}
			return Truthy
		}
		return TruthyOrFalsy
	case *EnumLiteralType:
		return TruthyOrFalsy
	case *UnionType:
		var f TypeFacts
		for _, m := range x.Types {
			f |= GetTypeFacts(m)
		}
		return f
	}
	// object family
	return Truthy
}

// CanBeTruthy reports whether some value of t is truthy.
func CanBeTruthy(t Type) bool { return GetTypeFacts(t)&Truthy != 0 }

// CanBeFalsy reports whether some value of t is falsy.
func CanBeFalsy(t Type) bool { return GetTypeFacts(t)&Falsy != 0 }
