package types

import "strings"

// UnionType represents a set of constituent types. Constituents are never
// unions themselves; the checker's factory flattens and deduplicates them.
type UnionType struct {
	typeBase
	Types []Type
}

// NewUnionType wraps already-normalized constituents. Use the checker's
// CreateUnionType to build unions from arbitrary input.
func NewUnionType(members []Type) *UnionType {
	return &UnionType{Types: members}
}

func (u *UnionType) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		s := t.String()
		if _, isFn := t.(*ObjectType); isFn && isFunctionLike(t) {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, " | ")
}
func (u *UnionType) typeNode() {}

// Contains reports whether t is one of the constituents (by identity).
func (u *UnionType) Contains(t Type) bool {
	for _, m := range u.Types {
		if m == t {
			return true
		}
	}
	return false
}

// Constituents returns the members of t if it is a union, or t itself.
func Constituents(t Type) []Type {
	if u, ok := t.(*UnionType); ok {
		return u.Types
	}
	return []Type{t}
}

// unionByIdentity builds a union of ts dropping repeated instances. Only
// used where the members are known to be normalized already.
func unionByIdentity(ts []Type) Type {
	var out []Type
	for _, t := range ts {
		for _, m := range Constituents(t) {
			dup := false
			for _, o := range out {
				if o == m {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, m)
			}
		}
	}
	switch len(out) {
	case 0:
		return Never
	case 1:
		return out[0]
	}
	return NewUnionType(out)
}
