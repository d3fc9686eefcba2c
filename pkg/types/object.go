package types

import (
	"fmt"
	"strings"
)

// Property is a named member of an object descriptor.
type Property struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// IndexInfo describes a string or number index signature.
type IndexInfo struct {
	ValueType Type
	ParamName string // spelling hint for diagnostics, e.g. "key"
	Readonly  bool
}

// Parameter is one parameter of a signature.
type Parameter struct {
	Name     string
	Type     Type
	Optional bool
}

// Signature is a call or construct signature. ReturnType may be replaced
// while the checker infers it.
type Signature struct {
	Params     []*Parameter
	Rest       *Parameter // Type is the array type of the rest parameter
	ReturnType Type
}

// MinArgumentCount is the number of leading parameters that are required.
func (s *Signature) MinArgumentCount() int {
	n := 0
	for i, p := range s.Params {
		if !p.Optional {
			n = i + 1
		}
	}
	return n
}

func (s *Signature) paramString() string {
	var parts []string
	for _, p := range s.Params {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		parts = append(parts, fmt.Sprintf("%s%s: %s", p.Name, opt, p.Type))
	}
	if s.Rest != nil {
		parts = append(parts, fmt.Sprintf("...%s: %s", s.Rest.Name, s.Rest.Type))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// String renders the signature in arrow form.
func (s *Signature) String() string {
	return s.paramString() + " => " + s.ReturnType.String()
}

// ObjectDescriptor holds the members of an object-family type. Property names
// are unique; adding an existing name overwrites it in place.
type ObjectDescriptor struct {
	Properties          []*Property
	NumberIndex         *IndexInfo
	StringIndex         *IndexInfo
	CallSignatures      []*Signature
	ConstructSignatures []*Signature
	byName              map[string]int
}

// NewObjectDescriptor creates an empty descriptor.
func NewObjectDescriptor() *ObjectDescriptor {
	return &ObjectDescriptor{byName: make(map[string]int)}
}

// FindProperty returns the property called name, or nil.
func (d *ObjectDescriptor) FindProperty(name string) *Property {
	if i, ok := d.byName[name]; ok {
		return d.Properties[i]
	}
	return nil
}

// AddProperty appends p, or replaces the existing property of the same name
// keeping its position.
func (d *ObjectDescriptor) AddProperty(p *Property) {
	if d.byName == nil {
		d.byName = make(map[string]int)
	}
	if i, ok := d.byName[p.Name]; ok {
		d.Properties[i] = p
		return
	}
	d.byName[p.Name] = len(d.Properties)
	d.Properties = append(d.Properties, p)
}

// Clone returns a shallow copy whose property list can be extended
// independently. Property values are copied.
func (d *ObjectDescriptor) Clone() *ObjectDescriptor {
	c := NewObjectDescriptor()
	for _, p := range d.Properties {
		cp := *p
		c.AddProperty(&cp)
	}
	c.NumberIndex = d.NumberIndex
	c.StringIndex = d.StringIndex
	c.CallSignatures = append(c.CallSignatures, d.CallSignatures...)
	c.ConstructSignatures = append(c.ConstructSignatures, d.ConstructSignatures...)
	return c
}

// ObjectKind tells the object-family variants apart.
type ObjectKind int

const (
	ObjectLiteralKind ObjectKind = iota
	InterfaceKind
	FunctionKind
	ConstructorKind
)

// ObjectType covers object literals, interfaces, functions and constructors.
type ObjectType struct {
	typeBase
	Kind ObjectKind
	Desc *ObjectDescriptor
	Name string // interface name; empty for anonymous types
	// Bases are the resolved heritage of an interface. Their members are
	// already merged into Desc.
	Bases []*ObjectType
}

// NewObjectType creates an object-family type over desc.
func NewObjectType(kind ObjectKind, desc *ObjectDescriptor) *ObjectType {
	if desc == nil {
		desc = NewObjectDescriptor()
	}
	return &ObjectType{Kind: kind, Desc: desc}
}

func (o *ObjectType) typeNode() {}

func (o *ObjectType) String() string {
	if o.Name != "" {
		return o.Name
	}
	d := o.Desc
	if isFunctionLike(o) {
		if len(d.CallSignatures) == 1 {
			return d.CallSignatures[0].String()
		}
		return "new " + d.ConstructSignatures[0].String()
	}
	var parts []string
	for _, s := range d.CallSignatures {
		parts = append(parts, s.paramString()+": "+s.ReturnType.String())
	}
	for _, s := range d.ConstructSignatures {
		parts = append(parts, "new "+s.paramString()+": "+s.ReturnType.String())
	}
	if d.StringIndex != nil {
		parts = append(parts, indexString(d.StringIndex, "string"))
	}
	if d.NumberIndex != nil {
		parts = append(parts, indexString(d.NumberIndex, "number"))
	}
	for _, p := range d.Properties {
		var b strings.Builder
		if p.Readonly {
			b.WriteString("readonly ")
		}
		b.WriteString(propertyName(p.Name))
		if p.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(p.Type.String())
		parts = append(parts, b.String())
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, "; ") + "; }"
}

func indexString(info *IndexInfo, key string) string {
	name := info.ParamName
	if name == "" {
		name = "key"
	}
	prefix := ""
	if info.Readonly {
		prefix = "readonly "
	}
	return fmt.Sprintf("%s[%s: %s]: %s", prefix, name, key, info.ValueType)
}

func propertyName(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		ok := r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r > 127 ||
			(i > 0 && '0' <= r && r <= '9')
		if !ok {
			if IsNumericName(name) {
				return name
			}
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}

// isFunctionLike reports whether t is an anonymous object type with exactly
// one call or construct signature and nothing else; those print in arrow form.
func isFunctionLike(t Type) bool {
	o, ok := t.(*ObjectType)
	if !ok || o.Name != "" {
		return false
	}
	d := o.Desc
	sigs := len(d.CallSignatures) + len(d.ConstructSignatures)
	return sigs == 1 && len(d.Properties) == 0 && d.StringIndex == nil && d.NumberIndex == nil
}
