package checker

import (
	"fmt"

	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// bindMode tells what the names in a pattern are.
type bindMode int

const (
	// bindDeclaration declares the pattern's names (let, const, var).
	bindDeclaration bindMode = iota
	// bindParameter declares parameters.
	bindParameter
	// bindAssignment assigns to existing variables and properties.
	bindAssignment
)

// destructuringContext walks one binding pattern against a source type and
// gives every name in it a type. The array and object variants share it.
type destructuringContext struct {
	c    *Checker
	mode bindMode
	// isConst keeps literal types for const declarations.
	isConst bool

	validateObjectPatternInitializer bool
	validateTypeAnnotation           bool
	convertTupleToArray              bool
	fromAnnotation                   bool

	sourceType   types.Type
	inferredType types.Type
}

// destructurer is implemented by the array and object variants.
type destructurer interface {
	prepare(annotation parser.TypeNode, init parser.Expression)
	setSourceType(t types.Type)
	start()
	InferredType() types.Type
}

type arrayDestructuringContext struct {
	destructuringContext
	pattern *parser.ArrayPattern
	index   int
}

type objectDestructuringContext struct {
	destructuringContext
	pattern *parser.ObjectPattern
}

// newDestructuringContext creates the context for pattern, which must be
// an *parser.ArrayPattern or *parser.ObjectPattern.
func (c *Checker) newDestructuringContext(pattern parser.Expression, mode bindMode, isConst bool) destructurer {
	base := destructuringContext{
		c:                                c,
		mode:                             mode,
		isConst:                          isConst,
		validateObjectPatternInitializer: !c.hasStatus(NoOpts),
		validateTypeAnnotation:           !c.hasStatus(NoOpts),
		convertTupleToArray:              !c.hasStatus(ForceTuple) && !c.hasStatus(InConstContext),
	}
	switch p := pattern.(type) {
	case *parser.ArrayPattern:
		return &arrayDestructuringContext{destructuringContext: base, pattern: p}
	case *parser.ObjectPattern:
		return &objectDestructuringContext{destructuringContext: base, pattern: p}
	}
	panic(fmt.Sprintf("checker: %T is not a destructuring pattern", pattern))
}

// prepare establishes the source type. The annotation wins over the
// initializer; the initializer is still checked against it.
func (d *destructuringContext) prepare(annotation parser.TypeNode, init parser.Expression) {
	c := d.c
	if annotation != nil {
		annotated := c.resolveTypeNode(annotation)
		if init != nil {
			t := c.checkExpressionWithContext(init, annotated)
			if d.validateTypeAnnotation {
				c.checkAssignableTo(t, annotated, init)
			}
		}
		d.sourceType = annotated
		d.fromAnnotation = true
		return
	}
	if init == nil {
		panic("checker: destructuring needs an annotation or an initializer")
	}
	d.sourceType = c.checkExpression(init)
}

func (d *destructuringContext) setSourceType(t types.Type) {
	d.sourceType = t
	d.fromAnnotation = true
}

// InferredType is the tuple or object type describing the whole pattern.
func (d *destructuringContext) InferredType() types.Type {
	return d.inferredType
}

// convertTupleTypeToArrayTypeIfNecessary degrades a tuple source to an
// array of the union of its elements when positions do not matter.
func (d *destructuringContext) convertTupleTypeToArrayTypeIfNecessary(t types.Type) types.Type {
	tuple, ok := t.(*types.TupleType)
	if !ok || !d.convertTupleToArray || d.fromAnnotation {
		return t
	}
	return types.NewArrayType(d.c.elementTypeOf(tuple))
}

// withDefault combines the source type of a position with its default.
// The default only contributes when the position may be undefined.
func (d *destructuringContext) withDefault(source types.Type, def parser.Expression) types.Type {
	c := d.c
	restore := c.pushStatus(c.status &^ ForceTuple)
	defaultType := c.checkExpressionWithContext(def, source)
	restore()
	if source == nil {
		return c.GetBaseTypeOfLiteralType(defaultType)
	}
	if source == types.Any {
		return types.Any
	}
	defined := c.removeUndefined(source)
	if d.fromAnnotation && d.validateTypeAnnotation {
		c.checkAssignableTo(defaultType, defined, def)
	}
	if defined == source {
		return source
	}
	return c.CreateUnionType(defined, c.GetBaseTypeOfLiteralType(defaultType))
}

// bindTarget gives target the type t. Nested patterns recurse with a new
// context of the same kind.
func (d *destructuringContext) bindTarget(target parser.Expression, t types.Type) {
	c := d.c
	switch tg := target.(type) {
	case *parser.Identifier:
		if d.mode == bindAssignment {
			declared := c.checkAssignmentTarget(tg)
			c.checkAssignableTo(t, declared, tg)
			return
		}
		v := c.scope.Find(tg.Value)
		bound := t
		if !d.isConst {
			bound = c.widenForBinding(t)
		} else {
			bound = c.regularType(t)
		}
		tg.SetComputedType(bound)
		c.bindVariableType(v, bound, tg)
	case *parser.ArrayPattern, *parser.ObjectPattern:
		nested := c.newDestructuringContext(tg, d.mode, d.isConst)
		nested.setSourceType(t)
		nested.start()
		target.SetComputedType(nested.InferredType())
	case *parser.MemberExpression:
		if d.mode != bindAssignment {
			panic("checker: member expression in a binding pattern")
		}
		declared := c.checkAssignmentTarget(tg)
		c.checkAssignableTo(t, declared, tg)
	default:
		panic(fmt.Sprintf("checker: unexpected destructuring target %T", target))
	}
}

// --- array patterns ---

func (d *arrayDestructuringContext) start() {
	c := d.c
	d.sourceType = d.convertTupleTypeToArrayTypeIfNecessary(d.sourceType)
	if d.sourceType != types.Any && c.elementTypeOf(d.sourceType) == nil {
		c.throwTypeError(d.pattern, "Type '%s' is not an array type.", d.sourceType)
	}

	var elems []types.Type
	var flags []types.ElementFlags
	for _, el := range d.pattern.Elements {
		switch e := el.(type) {
		case nil:
			t := d.nextInferredType()
			if t == nil {
				t = types.Undefined
			}
			elems = append(elems, t)
			flags = append(flags, types.ElementRequired)
		case *parser.RestElement:
			rest := d.restType()
			d.bindTarget(e.Argument, rest)
			e.SetComputedType(rest)
			elems = append(elems, rest.ElementType)
			flags = append(flags, types.ElementRest)
		case *parser.AssignmentPattern:
			t := d.withDefault(d.nextInferredType(), e.Right)
			d.bindTarget(e.Left, t)
			e.SetComputedType(t)
			elems = append(elems, t)
			flags = append(flags, types.ElementOptional)
		default:
			t := d.nextInferredType()
			if t == nil {
				tuple := d.sourceType.(*types.TupleType)
				if d.validateObjectPatternInitializer {
					c.throwTypeError(el, "Tuple type '%s' of length '%d' has no element at index '%d'.", tuple, len(tuple.ElementFlags), d.index-1)
				}
				t = types.Undefined
			}
			d.bindTarget(el, t)
			elems = append(elems, t)
			flags = append(flags, types.ElementRequired)
		}
	}
	d.inferredType = c.newTuple(elems, flags, false, nil)
	d.pattern.SetComputedType(d.inferredType)
}

// nextInferredType returns the type at the current position and advances.
// It returns nil past the end of a fixed-length tuple.
func (d *arrayDestructuringContext) nextInferredType() types.Type {
	t := d.typeAt(d.sourceType, d.index)
	d.index++
	return t
}

func (d *arrayDestructuringContext) typeAt(source types.Type, index int) types.Type {
	switch s := source.(type) {
	case *types.TupleType:
		elems := s.ElementTypes()
		if index < len(elems) && s.ElementFlags[index]&types.ElementVariable == 0 {
			t := elems[index]
			if s.ElementFlags[index]&types.ElementOptional != 0 {
				t = d.c.CreateUnionType(t, types.Undefined)
			}
			return t
		}
		if s.HasRest() {
			return elems[len(elems)-1]
		}
		return nil
	case *types.UnionType:
		var parts []types.Type
		for _, m := range s.Types {
			t := d.typeAt(m, index)
			if t == nil {
				t = types.Undefined
			}
			parts = append(parts, t)
		}
		return d.c.CreateUnionType(parts...)
	}
	return d.c.elementTypeOf(source)
}

// restType is the array of the source positions not consumed yet.
func (d *arrayDestructuringContext) restType() *types.ArrayType {
	c := d.c
	var remaining []types.Type
	switch s := d.sourceType.(type) {
	case *types.TupleType:
		elems := s.ElementTypes()
		for i := d.index; i < len(elems); i++ {
			remaining = append(remaining, elems[i])
		}
		if len(remaining) == 0 {
			return types.NewArrayType(types.Never)
		}
	case *types.UnionType:
		for _, m := range s.Types {
			sub := &arrayDestructuringContext{destructuringContext: d.destructuringContext, index: d.index}
			sub.sourceType = m
			remaining = append(remaining, sub.restType().ElementType)
		}
	default:
		remaining = append(remaining, c.elementTypeOf(d.sourceType))
	}
	elem := c.CreateUnionType(remaining...)
	if elem == nil {
		elem = types.Never
	}
	return types.NewArrayType(elem)
}

// --- object patterns ---

func (d *objectDestructuringContext) start() {
	c := d.c
	source := d.sourceType
	if types.IsNullable(source) {
		c.throwTypeError(d.pattern, "Cannot destructure '%s' as it is %s.", source, source)
	}

	desc := types.NewObjectDescriptor()
	consumed := make(map[string]bool)
	for _, prop := range d.pattern.Properties {
		var name string
		if prop.Computed {
			keyType := c.checkExpression(prop.Key)
			literal, ok := literalKeyName(keyType)
			if !ok {
				t := types.Type(types.Any)
				if info := types.GetIndexInfo(source, types.IsNumberLike(keyType)); info != nil {
					t = info.ValueType
				} else if source != types.Any && d.validateObjectPatternInitializer {
					c.throwTypeError(prop.Key, "Type '%s' has no matching index signature for type '%s'.", source, c.GetBaseTypeOfLiteralType(keyType))
				}
				d.bindProperty(prop.Value, t)
				continue
			}
			name = literal
		} else {
			name = propertyKeyName(prop.Key)
		}
		consumed[name] = true

		t := d.nextInferredType(name)
		optional := false
		if def, ok := prop.Value.(*parser.AssignmentPattern); ok {
			optional = true
			if t == nil && d.validateObjectPatternInitializer && !d.sourceAllowsMissing() {
				c.throwTypeError(prop, "Property '%s' does not exist on type '%s'.", name, source)
			}
			t = d.withDefault(t, def.Right)
			d.bindTarget(def.Left, t)
			def.SetComputedType(t)
		} else {
			if t == nil {
				if d.validateObjectPatternInitializer {
					c.throwTypeError(prop, "Property '%s' does not exist on type '%s'.", name, source)
				}
				t = types.Any
			}
			d.bindTarget(prop.Value, t)
		}
		desc.AddProperty(&types.Property{Name: name, Type: t, Optional: optional})
	}

	if rest := d.pattern.Rest; rest != nil {
		rt := d.restType(consumed)
		d.bindTarget(rest.Argument, rt)
		rest.SetComputedType(rt)
	}

	t := types.NewObjectType(types.ObjectLiteralKind, desc)
	t.AddFlags(types.FlagResolvedMembers)
	d.inferredType = t
	d.pattern.SetComputedType(t)
}

func (d *objectDestructuringContext) bindProperty(value parser.Expression, t types.Type) {
	if def, ok := value.(*parser.AssignmentPattern); ok {
		t = d.withDefault(t, def.Right)
		d.bindTarget(def.Left, t)
		return
	}
	d.bindTarget(value, t)
}

// sourceAllowsMissing reports sources that are not checked member by member.
func (d *objectDestructuringContext) sourceAllowsMissing() bool {
	return d.sourceType == types.Any || d.sourceType == types.Unknown
}

// nextInferredType looks name up in the source type. Optional properties
// include undefined. It returns nil when the source has no such member.
func (d *objectDestructuringContext) nextInferredType(name string) types.Type {
	c := d.c
	if d.sourceType == types.Any {
		return types.Any
	}
	var parts []types.Type
	for _, m := range types.Constituents(d.sourceType) {
		if p := types.GetPropertyOfType(m, name); p != nil {
			t := p.Type
			if p.Optional {
				t = c.CreateUnionType(t, types.Undefined)
			}
			parts = append(parts, t)
			continue
		}
		if info := types.GetIndexInfo(m, types.IsNumericName(name)); info != nil {
			parts = append(parts, info.ValueType)
			continue
		}
		return nil
	}
	return c.CreateUnionType(parts...)
}

// restType is an object of the source properties the pattern did not name.
func (d *objectDestructuringContext) restType(consumed map[string]bool) types.Type {
	if d.sourceType == types.Any {
		return types.Any
	}
	desc := types.NewObjectDescriptor()
	if o, ok := d.sourceType.(*types.ObjectType); ok {
		for _, p := range o.Desc.Properties {
			if !consumed[p.Name] {
				cp := *p
				desc.AddProperty(&cp)
			}
		}
		desc.StringIndex = o.Desc.StringIndex
		desc.NumberIndex = o.Desc.NumberIndex
	}
	t := types.NewObjectType(types.ObjectLiteralKind, desc)
	t.AddFlags(types.FlagResolvedMembers)
	return t
}
