package types

// PrimitiveKind distinguishes the primitive singletons.
type PrimitiveKind int

const (
	AnyKind PrimitiveKind = iota
	UnknownKind
	VoidKind
	NullKind
	UndefinedKind
	NeverKind
	BooleanKind
	NumberKind
	StringKind
	BigIntKind
)

// Primitive represents a fundamental, non-composite type. Instances are
// singletons, so pointer equality is identity.
type Primitive struct {
	typeBase
	Kind PrimitiveKind
	Name string
}

func (p *Primitive) String() string { return p.Name }
func (p *Primitive) typeNode()      {}

// Pre-defined instances for primitive types
var (
	Any       = &Primitive{Kind: AnyKind, Name: "any"}
	Unknown   = &Primitive{Kind: UnknownKind, Name: "unknown"}
	Void      = &Primitive{Kind: VoidKind, Name: "void"}
	Null      = &Primitive{Kind: NullKind, Name: "null"}
	Undefined = &Primitive{Kind: UndefinedKind, Name: "undefined"}
	Never     = &Primitive{Kind: NeverKind, Name: "never"}
	Boolean   = &Primitive{Kind: BooleanKind, Name: "boolean"}
	Number    = &Primitive{Kind: NumberKind, Name: "number"}
	String    = &Primitive{Kind: StringKind, Name: "string"}
	BigInt    = &Primitive{Kind: BigIntKind, Name: "bigint"}
)

// BooleanLiteralType is the type of `true` or `false`.
type BooleanLiteralType struct {
	typeBase
	Value bool
}

func (b *BooleanLiteralType) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BooleanLiteralType) typeNode() {}

var (
	True  = &BooleanLiteralType{Value: true}
	False = &BooleanLiteralType{Value: false}
)

// PrimitiveByName maps the keyword spelling of a primitive to its singleton.
func PrimitiveByName(name string) (Type, bool) {
	switch name {
	case "any":
		return Any, true
	case "unknown":
		return Unknown, true
	case "void":
		return Void, true
	case "null":
		return Null, true
	case "undefined":
		return Undefined, true
	case "never":
		return Never, true
	case "boolean":
		return Boolean, true
	case "number":
		return Number, true
	case "string":
		return String, true
	case "bigint":
		return BigInt, true
	}
	return nil, false
}
