package types

// Type is the interface implemented by all type representations.
type Type interface {
	// String returns the TypeScript spelling of the type, used in diagnostics.
	String() string
	// Flags returns the type's flag set.
	Flags() TypeFlag
	// HasFlag reports whether every bit of f is set.
	HasFlag(f TypeFlag) bool

	// typeNode is a marker so only this package defines types.
	typeNode()
}

// TypeFlag is a bitset of per-type markers used for fast predicate checks.
type TypeFlag uint32

const (
	FlagNone     TypeFlag = 0
	FlagReadonly TypeFlag = 1 << iota
	FlagConstant
	FlagEnumLiteral
	// FlagResolvedMembers marks object types whose descriptor is complete.
	FlagResolvedMembers
	// FlagCheckExcessProps marks fresh object literals; assigning one to an
	// object type reports properties the target does not declare.
	FlagCheckExcessProps
)

// typeBase holds the flag set shared by every type.
type typeBase struct {
	flags TypeFlag
}

func (b *typeBase) Flags() TypeFlag         { return b.flags }
func (b *typeBase) HasFlag(f TypeFlag) bool { return b.flags&f == f }

// AddFlags sets bits on a freshly created type. Shared singletons and
// interned literals must never be passed here.
func (b *typeBase) AddFlags(f TypeFlag) { b.flags |= f }

// RemoveFlags clears bits on a freshly created type.
func (b *typeBase) RemoveFlags(f TypeFlag) { b.flags &^= f }
