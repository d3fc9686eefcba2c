package types

import "fmt"

// EnumKind tells numeric enums from string ("literal") enums.
type EnumKind int

const (
	EnumNumeric EnumKind = iota
	EnumLiteral
)

// EnumValueKind is the state of a constant-evaluated enum member.
type EnumValueKind int

const (
	NotConstant EnumValueKind = iota
	NumericValue
	TextValue
)

// EnumValue is the result of evaluating an enum member initializer.
type EnumValue struct {
	Kind EnumValueKind
	Num  float64
	Text string
}

// NumericEnumValue wraps a number.
func NumericEnumValue(v float64) EnumValue { return EnumValue{Kind: NumericValue, Num: v} }

// TextEnumValue wraps a string.
func TextEnumValue(s string) EnumValue { return EnumValue{Kind: TextValue, Text: s} }

// IsConstant reports whether evaluation produced a value.
func (v EnumValue) IsConstant() bool { return v.Kind != NotConstant }

// Key is the property name a reverse mapping for this value uses.
func (v EnumValue) Key() string {
	switch v.Kind {
	case NumericValue:
		return FormatNumber(v.Num)
	case TextValue:
		return v.Text
	}
	return ""
}

func (v EnumValue) String() string {
	switch v.Kind {
	case NumericValue:
		return FormatNumber(v.Num)
	case TextValue:
		return fmt.Sprintf("%q", v.Text)
	}
	return "<computed>"
}

// EnumLiteralType represents a whole enum declaration. It is built once per
// enum and shared by all partial declarations.
type EnumLiteralType struct {
	typeBase
	Name     string
	EnumKind EnumKind
	Members  map[string]*EnumMemberType
	Order    []string
	// reverse maps the key of a numeric value to the member that first
	// declared it.
	reverse map[string]string
}

// NewEnumLiteralType creates the type for the enum called name.
func NewEnumLiteralType(name string, kind EnumKind) *EnumLiteralType {
	e := &EnumLiteralType{
		Name:     name,
		EnumKind: kind,
		Members:  make(map[string]*EnumMemberType),
		reverse:  make(map[string]string),
	}
	e.AddFlags(FlagEnumLiteral)
	return e
}

// AddMember records a member in declaration order.
func (e *EnumLiteralType) AddMember(name string, value EnumValue) *EnumMemberType {
	if m, ok := e.Members[name]; ok {
		m.Value = value
		return m
	}
	m := &EnumMemberType{Enum: e, Name: name, Value: value}
	m.AddFlags(FlagEnumLiteral)
	e.Members[name] = m
	e.Order = append(e.Order, name)
	return m
}

// AddReverseMapping records that key (the string form of a numeric value)
// maps back to member name. The first mapping for a key wins; it reports
// whether name was recorded.
func (e *EnumLiteralType) AddReverseMapping(key, name string) bool {
	if _, exists := e.reverse[key]; exists {
		return false
	}
	e.reverse[key] = name
	return true
}

// ReverseName returns the member recorded for key by AddReverseMapping.
func (e *EnumLiteralType) ReverseName(key string) (string, bool) {
	name, ok := e.reverse[key]
	return name, ok
}

func (e *EnumLiteralType) String() string { return e.Name }
func (e *EnumLiteralType) typeNode()      {}

// EnumMemberType is the type of one member, E.A.
type EnumMemberType struct {
	typeBase
	Enum  *EnumLiteralType
	Name  string
	Value EnumValue
}

func (m *EnumMemberType) String() string { return m.Enum.Name + "." + m.Name }
func (m *EnumMemberType) typeNode()      {}
