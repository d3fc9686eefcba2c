package types

var lengthProperty = &Property{Name: "length", Type: Number, Readonly: true}

// GetPropertyOfType resolves a named member on the apparent type of t.
// It returns nil when t has no such property. Union lookups are left to the
// checker, which needs to report per-member diagnostics.
func GetPropertyOfType(t Type, name string) *Property {
	switch x := t.(type) {
	case *ObjectType:
		return x.Desc.FindProperty(name)
	case *TupleType:
		if p := x.Desc.FindProperty(name); p != nil {
			if x.Readonly && !p.Readonly {
				cp := *p
				cp.Readonly = true
				return &cp
			}
			return p
		}
		if name == "length" {
			return lengthProperty
		}
	case *ArrayType:
		if name == "length" {
			if x.HasFlag(FlagReadonly) {
				return lengthProperty
			}
			return &Property{Name: "length", Type: Number}
		}
	case *EnumLiteralType:
		if m, ok := x.Members[name]; ok {
			return &Property{Name: name, Type: m, Readonly: true}
		}
	case *Primitive:
		if x == String && name == "length" {
			return lengthProperty
		}
	case *StringLiteralType:
		if name == "length" {
			return lengthProperty
		}
	}
	return nil
}

// GetIndexInfo returns the string (numeric=false) or number index signature
// that applies to t. Arrays and tuples expose their element type through the
// number index; a number access falls back to the string index.
func GetIndexInfo(t Type, numeric bool) *IndexInfo {
	switch x := t.(type) {
	case *ObjectType:
		if numeric && x.Desc.NumberIndex != nil {
			return x.Desc.NumberIndex
		}
		return x.Desc.StringIndex
	case *ArrayType:
		if numeric {
			return &IndexInfo{ValueType: x.ElementType, Readonly: x.HasFlag(FlagReadonly)}
		}
	case *TupleType:
		if numeric {
			return &IndexInfo{ValueType: unionByIdentity(x.ElementTypes()), Readonly: x.Readonly}
		}
		return x.Desc.StringIndex
	}
	return nil
}
