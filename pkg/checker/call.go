package checker

import (
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// argument is one argument after spreads of tuples have been expanded.
type argument struct {
	expr parser.Expression
	// typ is set once the argument has been checked.
	typ types.Type
	// variadic marks a spread of an array; it stands for any number of
	// arguments of type typ.
	variadic bool
	// fromSpread marks positions produced by spreading a tuple.
	fromSpread bool
}

func (c *Checker) checkCallExpression(node *parser.CallExpression) types.Type {
	callee := c.checkExpression(node.Function)
	chained := node.Optional || isOptionalChain(node.Function)
	if chained {
		stripped := c.removeNullable(callee)
		if stripped == types.Never {
			return types.Undefined
		}
		t := c.resolveCallOn(stripped, node.Arguments, node, false)
		if stripped != callee {
			return c.CreateUnionType(t, types.Undefined)
		}
		return t
	}
	c.checkNonNullObject(callee, node.Function)
	return c.resolveCallOn(callee, node.Arguments, node, false)
}

func (c *Checker) checkNewExpression(node *parser.NewExpression) types.Type {
	callee := c.checkExpression(node.Constructor)
	c.checkNonNullObject(callee, node.Constructor)
	return c.resolveCallOn(callee, node.Arguments, node, true)
}

// resolveCallOn resolves a call or construct against every constituent of
// callee and unions the return types.
func (c *Checker) resolveCallOn(callee types.Type, args []parser.Expression, node parser.Node, construct bool) types.Type {
	if callee == types.Any {
		restore := c.pushStatus(c.status &^ (ForceTuple | InConstContext))
		for _, a := range args {
			if spread, ok := a.(*parser.SpreadElement); ok {
				spread.SetComputedType(c.checkExpression(spread.Argument))
				continue
			}
			c.checkExpression(a)
		}
		restore()
		return types.Any
	}

	var results []types.Type
	for _, m := range types.Constituents(callee) {
		sigs := types.Signatures(m, construct)
		if len(sigs) == 0 {
			if construct {
				c.throwAtNode(node, "This expression is not constructable. Type '%s' has no construct signatures.", callee)
			}
			c.throwAtNode(node, "This expression is not callable. Type '%s' has no call signatures.", callee)
		}
		results = append(results, c.resolveSignatures(sigs, args, node, calleeName(node)))
	}
	return c.CreateUnionType(results...)
}

// calleeName is the name used in diagnostics about the called function.
func calleeName(node parser.Node) string {
	var callee parser.Expression
	switch n := node.(type) {
	case *parser.CallExpression:
		callee = n.Function
	case *parser.NewExpression:
		callee = n.Constructor
	}
	switch e := callee.(type) {
	case *parser.Identifier:
		return e.Value
	case *parser.MemberExpression:
		if id, ok := e.Property.(*parser.Identifier); ok && !e.Computed {
			return id.Value
		}
	}
	return ""
}

// resolveSignatures picks the signature a call uses. A single signature
// checks its arguments contextually; overloads pick the first signature
// every argument is assignable to.
func (c *Checker) resolveSignatures(sigs []*types.Signature, exprs []parser.Expression, node parser.Node, name string) types.Type {
	defer c.pushStatus(c.status &^ (ForceTuple | InConstContext))()

	if len(sigs) == 1 {
		sig := sigs[0]
		args := c.expandArguments(exprs, sig)
		c.checkArity(sig, args, node)
		for i, a := range args {
			param := parameterTypeAt(sig, i)
			if a.typ == nil {
				a.typ = c.checkExpressionWithContext(a.expr, param)
			}
			if a.variadic {
				c.checkSpreadToRest(sig, i, a)
			}
			if param == nil {
				continue
			}
			if !c.relations.IsAssignable(a.typ, param) {
				c.throwAtNode(a.expr, "Argument of type '%s' is not assignable to parameter of type '%s'.", c.displaySource(a.typ, param), param)
			}
			if !a.fromSpread {
				c.checkExcessProperties(a.typ, param, a.expr)
			}
		}
		return c.signatureReturnType(sig, node, name)
	}

	args := c.expandArguments(exprs, nil)
	for _, a := range args {
		if a.typ == nil {
			a.typ = c.checkExpression(a.expr)
		}
	}
	for _, sig := range sigs {
		if c.signatureApplies(sig, args) {
			return c.signatureReturnType(sig, node, name)
		}
	}
	c.throwAtNode(node, "No overload matches this call.")
	return nil
}

// expandArguments checks spread arguments and splices tuple spreads into
// positions. Plain arguments are left unchecked so they can get context.
func (c *Checker) expandArguments(exprs []parser.Expression, sig *types.Signature) []*argument {
	var args []*argument
	for _, e := range exprs {
		spread, ok := e.(*parser.SpreadElement)
		if !ok {
			args = append(args, &argument{expr: e})
			continue
		}
		st := c.checkExpression(spread.Argument)
		spread.SetComputedType(st)
		switch s := st.(type) {
		case *types.TupleType:
			for i, et := range s.ElementTypes() {
				variadic := s.ElementFlags[i]&types.ElementVariable != 0
				args = append(args, &argument{expr: spread, typ: et, variadic: variadic, fromSpread: true})
			}
		default:
			elem := c.elementTypeOf(st)
			if st != types.Any && !types.AllConstituents(st, types.IsArrayOrTuple) || elem == nil {
				c.throwTypeError(spread, "Type '%s' must have a '[Symbol.iterator]()' method that returns an iterator.", st)
			}
			args = append(args, &argument{expr: spread, typ: elem, variadic: true, fromSpread: true})
		}
	}
	return args
}

// checkArity reports a wrong number of arguments. A variadic spread may
// stand for any count, so only its lower bound is checked.
func (c *Checker) checkArity(sig *types.Signature, args []*argument, node parser.Node) {
	fixed, variadic := 0, false
	for _, a := range args {
		if a.variadic {
			variadic = true
			continue
		}
		fixed++
	}
	min, max := sig.MinArgumentCount(), len(sig.Params)
	tooFew := fixed < min && !variadic
	tooMany := sig.Rest == nil && fixed > max
	if !tooFew && !tooMany {
		return
	}
	switch {
	case sig.Rest != nil:
		c.throwAtNode(node, "Expected at least %d arguments, but got %d.", min, fixed)
	case min == max:
		c.throwAtNode(node, "Expected %d arguments, but got %d.", min, fixed)
	default:
		c.throwAtNode(node, "Expected %d-%d arguments, but got %d.", min, max, fixed)
	}
}

// checkSpreadToRest requires an array spread to land on the rest parameter.
func (c *Checker) checkSpreadToRest(sig *types.Signature, index int, a *argument) {
	if sig.Rest == nil || index < len(sig.Params) {
		c.throwTypeError(a.expr, "A spread argument must either have a tuple type or be passed to a rest parameter.")
	}
}

// parameterTypeAt is the type the argument at index is checked against.
func parameterTypeAt(sig *types.Signature, index int) types.Type {
	if index < len(sig.Params) {
		p := sig.Params[index]
		if p.Optional {
			return types.NewUnionType([]types.Type{p.Type, types.Undefined})
		}
		return p.Type
	}
	if sig.Rest == nil {
		return nil
	}
	switch r := sig.Rest.Type.(type) {
	case *types.ArrayType:
		return r.ElementType
	case *types.TupleType:
		if elems := r.ElementTypes(); index-len(sig.Params) < len(elems) {
			return elems[index-len(sig.Params)]
		}
	}
	return types.Any
}

func (c *Checker) signatureApplies(sig *types.Signature, args []*argument) bool {
	fixed, variadic := 0, false
	for i, a := range args {
		if a.variadic {
			variadic = true
			if sig.Rest == nil || i < len(sig.Params) {
				return false
			}
		} else {
			fixed++
		}
		param := parameterTypeAt(sig, i)
		if param == nil || !c.relations.IsAssignable(a.typ, param) {
			return false
		}
	}
	if fixed < sig.MinArgumentCount() && !variadic {
		return false
	}
	return sig.Rest != nil || fixed <= len(sig.Params)
}

// signatureReturnType fails for a function whose return type is still
// being inferred.
func (c *Checker) signatureReturnType(sig *types.Signature, node parser.Node, name string) types.Type {
	if sig.ReturnType != c.globals.resolving {
		return sig.ReturnType
	}
	if name != "" {
		c.throwAtNode(node, "'%s' implicitly has return type 'any' because it does not have a return type annotation and is referenced directly or indirectly in one of its return expressions.", name)
	}
	c.throwAtNode(node, "Function implicitly has return type 'any' because it does not have a return type annotation and is referenced directly or indirectly in one of its return expressions.")
	return nil
}
