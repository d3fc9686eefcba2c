package types

// RelationKind selects the rule set used when relating two types.
type RelationKind int

const (
	IdentityRelation RelationKind = iota
	AssignableRelation
	ComparableRelation
)

type relationKey struct {
	source, target Type
	kind           RelationKind
}

// Relations answers identity, assignability and comparability questions and
// caches structural answers. A Relations value belongs to one checker.
type Relations struct {
	cache      map[relationKey]bool
	inProgress map[relationKey]bool
}

// NewRelations creates an empty relation cache.
func NewRelations() *Relations {
	return &Relations{
		cache:      make(map[relationKey]bool),
		inProgress: make(map[relationKey]bool),
	}
}

// IsIdentical reports whether a and b denote the same type.
func (r *Relations) IsIdentical(a, b Type) bool {
	return r.isRelated(a, b, IdentityRelation)
}

// IsAssignable reports whether a value of type source can be stored in a
// location of type target.
func (r *Relations) IsAssignable(source, target Type) bool {
	return r.isRelated(source, target, AssignableRelation)
}

// IsComparable reports whether source may be compared to target, e.g. with
// === or in a switch case. Literal types are comparable to their base type
// in both directions and a union only needs one comparable member.
func (r *Relations) IsComparable(source, target Type) bool {
	return r.isRelated(source, target, ComparableRelation)
}

func (r *Relations) isRelated(source, target Type, kind RelationKind) bool {
	if source == nil || target == nil {
		return false
	}
	if source == target {
		return true
	}
	if kind == IdentityRelation {
		return r.structuredRelated(source, target, kind)
	}

	if target == Any || target == Unknown || source == Any || source == Never {
		return true
	}
	if source == Unknown {
		return false
	}

	switch s := source.(type) {
	case *UnionType:
		if kind == ComparableRelation {
			for _, m := range s.Types {
				if r.isRelated(m, target, kind) {
					return true
				}
			}
			return false
		}
		for _, m := range s.Types {
			if !r.isRelated(m, target, kind) {
				return false
			}
		}
		return true
	case *Primitive:
		if s == Boolean {
			if u, ok := target.(*UnionType); ok && u.Contains(True) && u.Contains(False) {
				return true
			}
		}
	}

	if u, ok := target.(*UnionType); ok {
		for _, m := range u.Types {
			if r.isRelated(source, m, kind) {
				return true
			}
		}
		return false
	}

	if isSimpleRelated(source, target, kind) {
		return true
	}
	return r.structuredRelated(source, target, kind)
}

// isSimpleRelated covers primitives, literals and enums.
func isSimpleRelated(source, target Type, kind RelationKind) bool {
	switch t := target.(type) {
	case *Primitive:
		switch t.Kind {
		case VoidKind:
			return source == Undefined
		case NumberKind:
			return IsNumberLike(source)
		case StringKind:
			return IsStringLike(source)
		case BigIntKind:
			_, ok := source.(*BigIntLiteralType)
			return ok
		case BooleanKind:
			_, ok := source.(*BooleanLiteralType)
			return ok
		}
	case *NumberLiteralType:
		if s, ok := source.(*NumberLiteralType); ok {
			return s.Value == t.Value
		}
		if s, ok := source.(*EnumMemberType); ok {
			return s.Value.Kind == NumericValue && s.Value.Num == t.Value
		}
		return kind == ComparableRelation && source == Number
	case *StringLiteralType:
		if s, ok := source.(*StringLiteralType); ok {
			return s.Value == t.Value
		}
		return kind == ComparableRelation && source == String
	case *BigIntLiteralType:
		if s, ok := source.(*BigIntLiteralType); ok {
			return s.Text == t.Text && s.Negative == t.Negative
		}
		return kind == ComparableRelation && source == BigInt
	case *BooleanLiteralType:
		return kind == ComparableRelation && source == Boolean
	case *EnumLiteralType:
		switch s := source.(type) {
		case *EnumMemberType:
			return s.Enum == t
		case *EnumLiteralType:
			return s == t
		}
		return t.EnumKind == EnumNumeric && IsNumberLike(source)
	case *EnumMemberType:
		if s, ok := source.(*NumberLiteralType); ok && t.Enum.EnumKind == EnumNumeric {
			return t.Value.Kind == NumericValue && s.Value == t.Value.Num
		}
		if kind == ComparableRelation {
			if s, ok := source.(*EnumLiteralType); ok {
				return s == t.Enum
			}
			return t.Enum.EnumKind == EnumNumeric && source == Number
		}
	}
	return false
}

func (r *Relations) structuredRelated(source, target Type, kind RelationKind) bool {
	key := relationKey{source, target, kind}
	if res, ok := r.cache[key]; ok {
		return res
	}
	// Recursive interfaces: assume the relation holds while it is being proven.
	if r.inProgress[key] {
		return true
	}
	r.inProgress[key] = true
	res := r.structuredRelatedWorker(source, target, kind)
	delete(r.inProgress, key)
	// A true answer may rest on an assumption that fails further out, so it
	// is only final once nothing else is being proven.
	if !res || len(r.inProgress) == 0 {
		r.cache[key] = res
	}
	return res
}

func (r *Relations) structuredRelatedWorker(source, target Type, kind RelationKind) bool {
	if kind == IdentityRelation {
		return r.identical(source, target)
	}

	switch t := target.(type) {
	case *ArrayType:
		switch s := source.(type) {
		case *ArrayType:
			if s.HasFlag(FlagReadonly) && !t.HasFlag(FlagReadonly) {
				return false
			}
			return r.isRelated(s.ElementType, t.ElementType, kind)
		case *TupleType:
			if s.Readonly && !t.HasFlag(FlagReadonly) {
				return false
			}
			for _, e := range s.ElementTypes() {
				if !r.isRelated(e, t.ElementType, kind) {
					return false
				}
			}
			return true
		}
		return false
	case *TupleType:
		s, ok := source.(*TupleType)
		if !ok {
			return false
		}
		return r.tupleRelated(s, t, kind)
	case *ObjectType:
		return r.objectRelated(source, t, kind)
	}
	return false
}

func (r *Relations) tupleRelated(s, t *TupleType, kind RelationKind) bool {
	if s.Readonly && !t.Readonly {
		return false
	}
	if s.MinLength < t.MinLength {
		return false
	}
	sElems, tElems := s.ElementTypes(), t.ElementTypes()
	if !t.HasRest() && (s.HasRest() || len(sElems) > len(tElems)) {
		return false
	}
	for i, se := range sElems {
		var te Type
		switch {
		case i < len(tElems) && t.ElementFlags[i]&ElementVariable == 0:
			te = tElems[i]
		case t.HasRest():
			te = tElems[len(tElems)-1]
		default:
			return false
		}
		if !r.isRelated(se, te, kind) {
			return false
		}
	}
	return true
}

func (r *Relations) objectRelated(source Type, t *ObjectType, kind RelationKind) bool {
	// Primitives other than null/undefined satisfy the empty object type.
	if isEmptyObject(t) {
		switch source {
		case Null, Undefined, Void, Unknown:
			return false
		}
		return true
	}

	for _, tp := range t.Desc.Properties {
		sp := GetPropertyOfType(source, tp.Name)
		if sp == nil {
			if tp.Optional {
				continue
			}
			return false
		}
		if sp.Optional && !tp.Optional {
			return false
		}
		if !r.isRelated(sp.Type, tp.Type, kind) {
			return false
		}
	}

	if t.Desc.StringIndex != nil && !r.indexRelated(source, t.Desc.StringIndex, false, kind) {
		return false
	}
	if t.Desc.NumberIndex != nil && !r.indexRelated(source, t.Desc.NumberIndex, true, kind) {
		return false
	}

	sObj, _ := source.(*ObjectType)
	if len(t.Desc.CallSignatures) > 0 {
		if sObj == nil || !r.signaturesRelated(sObj.Desc.CallSignatures, t.Desc.CallSignatures, kind) {
			return false
		}
	}
	if len(t.Desc.ConstructSignatures) > 0 {
		if sObj == nil || !r.signaturesRelated(sObj.Desc.ConstructSignatures, t.Desc.ConstructSignatures, kind) {
			return false
		}
	}
	return true
}

// indexRelated checks every applicable member of source against an index
// signature of the target.
func (r *Relations) indexRelated(source Type, info *IndexInfo, numeric bool, kind RelationKind) bool {
	switch s := source.(type) {
	case *ObjectType:
		if numeric && s.Desc.NumberIndex != nil && !r.isRelated(s.Desc.NumberIndex.ValueType, info.ValueType, kind) {
			return false
		}
		if s.Desc.StringIndex != nil {
			if !r.isRelated(s.Desc.StringIndex.ValueType, info.ValueType, kind) {
				return false
			}
		} else if !numeric && s.Kind == InterfaceKind {
			// Interfaces are not implicitly indexable.
			return false
		}
		for _, p := range s.Desc.Properties {
			if numeric && !IsNumericName(p.Name) {
				continue
			}
			if !r.isRelated(p.Type, info.ValueType, kind) {
				return false
			}
		}
		return true
	case *ArrayType:
		return numeric && r.isRelated(s.ElementType, info.ValueType, kind)
	case *TupleType:
		if !numeric {
			return false
		}
		for _, e := range s.ElementTypes() {
			if !r.isRelated(e, info.ValueType, kind) {
				return false
			}
		}
		return true
	}
	return false
}

// signaturesRelated requires every target signature to be matched by some
// source signature.
func (r *Relations) signaturesRelated(sources, targets []*Signature, kind RelationKind) bool {
	for _, ts := range targets {
		matched := false
		for _, ss := range sources {
			if r.signatureRelated(ss, ts, kind) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// signatureRelated compares parameters bivariantly and returns covariantly.
// The source may declare fewer parameters than the target.
func (r *Relations) signatureRelated(s, t *Signature, kind RelationKind) bool {
	if s.MinArgumentCount() > len(t.Params) && t.Rest == nil {
		return false
	}
	for i, sp := range s.Params {
		var tt Type
		switch {
		case i < len(t.Params):
			tt = t.Params[i].Type
		case t.Rest != nil:
			tt = restElementType(t.Rest.Type)
		default:
			continue
		}
		if !r.isRelated(tt, sp.Type, kind) && !r.isRelated(sp.Type, tt, kind) {
			return false
		}
	}
	if s.Rest != nil {
		se := restElementType(s.Rest.Type)
		for i := len(s.Params); i < len(t.Params); i++ {
			if !r.isRelated(t.Params[i].Type, se, kind) && !r.isRelated(se, t.Params[i].Type, kind) {
				return false
			}
		}
	}
	if t.ReturnType == Void {
		return true
	}
	return r.isRelated(s.ReturnType, t.ReturnType, kind)
}

func restElementType(t Type) Type {
	switch a := t.(type) {
	case *ArrayType:
		return a.ElementType
	case *TupleType:
		return unionByIdentity(a.ElementTypes())
	}
	return Any
}

func isEmptyObject(t *ObjectType) bool {
	d := t.Desc
	return len(d.Properties) == 0 && d.StringIndex == nil && d.NumberIndex == nil &&
		len(d.CallSignatures) == 0 && len(d.ConstructSignatures) == 0
}

// identical implements the identity relation for structured types.
func (r *Relations) identical(a, b Type) bool {
	switch x := a.(type) {
	case *NumberLiteralType:
		y, ok := b.(*NumberLiteralType)
		return ok && x.Value == y.Value
	case *StringLiteralType:
		y, ok := b.(*StringLiteralType)
		return ok && x.Value == y.Value
	case *BigIntLiteralType:
		y, ok := b.(*BigIntLiteralType)
		return ok && x.Text == y.Text && x.Negative == y.Negative
	case *UnionType:
		y, ok := b.(*UnionType)
		if !ok || len(x.Types) != len(y.Types) {
			return false
		}
		for _, m := range x.Types {
			found := false
			for _, n := range y.Types {
				if r.IsIdentical(m, n) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && x.HasFlag(FlagReadonly) == y.HasFlag(FlagReadonly) && r.IsIdentical(x.ElementType, y.ElementType)
	case *TupleType:
		y, ok := b.(*TupleType)
		if !ok || x.Readonly != y.Readonly || len(x.ElementFlags) != len(y.ElementFlags) {
			return false
		}
		xe, ye := x.ElementTypes(), y.ElementTypes()
		for i := range xe {
			if x.ElementFlags[i] != y.ElementFlags[i] || !r.IsIdentical(xe[i], ye[i]) {
				return false
			}
		}
		return true
	case *ObjectType:
		y, ok := b.(*ObjectType)
		if !ok {
			return false
		}
		return r.descriptorsIdentical(x.Desc, y.Desc)
	}
	return false
}

func (r *Relations) descriptorsIdentical(a, b *ObjectDescriptor) bool {
	if len(a.Properties) != len(b.Properties) ||
		len(a.CallSignatures) != len(b.CallSignatures) ||
		len(a.ConstructSignatures) != len(b.ConstructSignatures) {
		return false
	}
	for _, p := range a.Properties {
		q := b.FindProperty(p.Name)
		if q == nil || p.Optional != q.Optional || p.Readonly != q.Readonly || !r.IsIdentical(p.Type, q.Type) {
			return false
		}
	}
	if !r.indexInfosIdentical(a.StringIndex, b.StringIndex) || !r.indexInfosIdentical(a.NumberIndex, b.NumberIndex) {
		return false
	}
	for i := range a.CallSignatures {
		if !r.signaturesIdentical(a.CallSignatures[i], b.CallSignatures[i]) {
			return false
		}
	}
	for i := range a.ConstructSignatures {
		if !r.signaturesIdentical(a.ConstructSignatures[i], b.ConstructSignatures[i]) {
			return false
		}
	}
	return true
}

func (r *Relations) indexInfosIdentical(a, b *IndexInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Readonly == b.Readonly && r.IsIdentical(a.ValueType, b.ValueType)
}

func (r *Relations) signaturesIdentical(a, b *Signature) bool {
	if len(a.Params) != len(b.Params) || (a.Rest == nil) != (b.Rest == nil) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Optional != b.Params[i].Optional || !r.IsIdentical(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	if a.Rest != nil && !r.IsIdentical(a.Rest.Type, b.Rest.Type) {
		return false
	}
	return r.IsIdentical(a.ReturnType, b.ReturnType)
}
