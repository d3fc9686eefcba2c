package types

import (
	"strconv"
	"strings"
)

// ArrayType represents T[]. FlagReadonly marks readonly T[].
type ArrayType struct {
	typeBase
	ElementType Type
}

// NewArrayType creates T[].
func NewArrayType(elem Type) *ArrayType {
	return &ArrayType{ElementType: elem}
}

// NewReadonlyArrayType creates readonly T[].
func NewReadonlyArrayType(elem Type) *ArrayType {
	a := &ArrayType{ElementType: elem}
	a.AddFlags(FlagReadonly)
	return a
}

func (a *ArrayType) String() string {
	elem := a.ElementType.String()
	switch a.ElementType.(type) {
	case *UnionType:
		elem = "(" + elem + ")"
	case *ObjectType:
		if isFunctionLike(a.ElementType) {
			elem = "(" + elem + ")"
		}
	}
	if a.HasFlag(FlagReadonly) {
		return "readonly " + elem + "[]"
	}
	return elem + "[]"
}
func (a *ArrayType) typeNode() {}

// ElementFlags mark each tuple position.
type ElementFlags uint8

const (
	ElementRequired ElementFlags = 1 << iota
	ElementOptional
	ElementRest
	ElementVariadic

	ElementFixed    = ElementRequired | ElementOptional
	ElementVariable = ElementRest | ElementVariadic
)

// TupleInfo carries the shape data of a tuple besides its members.
type TupleInfo struct {
	MinLength   int
	FixedLength int
	Readonly    bool
}

// TupleType is a descriptor-backed tuple. Desc holds one property per
// position, named "0", "1", ..., with the same count as ElementFlags.
type TupleType struct {
	typeBase
	TupleInfo
	Desc          *ObjectDescriptor
	ElementFlags  []ElementFlags
	CombinedFlags ElementFlags
	NamedMembers  []string // optional labels, parallel to ElementFlags
}

// NewTupleType wraps desc. CombinedFlags is computed from flags.
func NewTupleType(desc *ObjectDescriptor, flags []ElementFlags, info TupleInfo, named []string) *TupleType {
	t := &TupleType{TupleInfo: info, Desc: desc, ElementFlags: flags, NamedMembers: named}
	for _, f := range flags {
		t.CombinedFlags |= f
	}
	if info.Readonly {
		t.AddFlags(FlagReadonly)
	}
	return t
}

// ElementTypes returns the positional member types.
func (t *TupleType) ElementTypes() []Type {
	out := make([]Type, len(t.ElementFlags))
	for i := range t.ElementFlags {
		out[i] = t.Desc.FindProperty(strconv.Itoa(i)).Type
	}
	return out
}

// HasRest reports whether the tuple ends in an open-ended element.
func (t *TupleType) HasRest() bool {
	return t.CombinedFlags&ElementVariable != 0
}

func (t *TupleType) String() string {
	var b strings.Builder
	if t.Readonly {
		b.WriteString("readonly ")
	}
	b.WriteString("[")
	for i, elem := range t.ElementTypes() {
		if i > 0 {
			b.WriteString(", ")
		}
		f := t.ElementFlags[i]
		if f&ElementVariable != 0 {
			b.WriteString("...")
		}
		if i < len(t.NamedMembers) && t.NamedMembers[i] != "" {
			b.WriteString(t.NamedMembers[i])
			if f&ElementOptional != 0 {
				b.WriteString("?")
			}
			b.WriteString(": ")
		}
		if f&ElementVariable != 0 {
			b.WriteString(NewArrayType(elem).String())
		} else {
			b.WriteString(elem.String())
			if f&ElementOptional != 0 && (i >= len(t.NamedMembers) || t.NamedMembers[i] == "") {
				b.WriteString("?")
			}
		}
	}
	b.WriteString("]")
	return b.String()
}
func (t *TupleType) typeNode() {}

// IsNumericName reports whether name is the canonical string form of a
// number, i.e. a property name a numeric index signature applies to.
func IsNumericName(name string) bool {
	if name == "" {
		return false
	}
	v, err := strconv.ParseFloat(name, 64)
	return err == nil && FormatNumber(v) == name
}
