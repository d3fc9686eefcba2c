package checker

import (
	"strconv"

	"go.uber.org/zap"

	"tscheck/pkg/binder"
	"tscheck/pkg/parser"
	"tscheck/pkg/types"
)

// functionContext is the state of the innermost function being checked.
type functionContext struct {
	sig *types.Signature
	// declared is set when the return type is annotated.
	declared bool

	returns        []types.Type
	hasBareReturn  bool
	hasValueReturn bool
}

func (c *Checker) checkFunctionDeclaration(decl *parser.FunctionDeclaration) {
	var self *binder.Variable
	if fn := decl.Function; fn.Name != nil {
		if v := c.scope.Find(fn.Name.Value); v != nil && v.Kind == binder.FunctionBinding {
			self = v
		}
	}
	c.checkFunctionWith(decl.Function, nil, self)
}

// checkFunction checks a function expression, arrow function or method.
// The result is cached per node, so a function is checked once.
func (c *Checker) checkFunction(fn *parser.FunctionLiteral, contextual types.Type) types.Type {
	return c.checkFunctionWith(fn, contextual, nil)
}

// checkFunctionWith checks fn. self, when not nil, is the declared name of
// the function and gets its type before the body is checked so that
// recursive calls resolve.
func (c *Checker) checkFunctionWith(fn *parser.FunctionLiteral, contextual types.Type, self *binder.Variable) types.Type {
	if t, ok := c.functionTypes[fn]; ok {
		return t
	}
	ctxSig := contextualSignature(contextual)
	sig := &types.Signature{ReturnType: c.globals.resolving}
	t := c.CreateFunctionTypeWithSignature(sig)
	c.functionTypes[fn] = t
	fn.SetComputedType(t)

	defer c.enterScope(c.bindings.ScopeOf(fn))()
	defer c.pushStatus(StatusNone)()

	if self != nil {
		c.bindVariableType(self, t, fn.Name)
	}
	if fn.Name != nil {
		if v := c.scope.FindLocal(fn.Name.Value); v != nil && v.Kind == binder.ConstBinding {
			if d := v.FirstDeclaration(); d != nil && d.Node == parser.Node(fn) {
				v.Type = t
			}
		}
	}

	for i, p := range fn.Parameters {
		c.checkParameter(sig, p, i, ctxSig)
	}

	declared := fn.ReturnType != nil
	if declared {
		sig.ReturnType = c.resolveTypeNode(fn.ReturnType)
	}
	fc := &functionContext{sig: sig, declared: declared}
	prev := c.fn
	c.fn = fc
	defer func() { c.fn = prev }()

	if fn.ExprBody != nil {
		c.checkExpressionBody(fn, fc, ctxSig)
		return t
	}
	c.checkBlock(fn.Body)

	if declared {
		if !fc.hasValueReturn && !returnMayBeOmitted(sig.ReturnType) {
			c.throwTypeError(fn.ReturnType, "A function whose declared type is neither 'void' nor 'any' must return a value.")
		}
		return t
	}
	sig.ReturnType = c.inferredReturnType(fc)
	c.logger.Debug("inferred return type", zap.String("function", functionName(fn)), zap.Stringer("type", sig.ReturnType))
	debugPrintf("function %s returns %s", functionName(fn), sig.ReturnType)
	return t
}

// checkExpressionBody checks the body of an arrow function without braces.
func (c *Checker) checkExpressionBody(fn *parser.FunctionLiteral, fc *functionContext, ctxSig *types.Signature) {
	if fc.declared {
		t := c.checkExpressionWithContext(fn.ExprBody, fc.sig.ReturnType)
		c.checkAssignableTo(t, fc.sig.ReturnType, fn.ExprBody)
		return
	}
	var ctxReturn types.Type
	if ctxSig != nil && ctxSig.ReturnType != c.globals.resolving {
		ctxReturn = ctxSig.ReturnType
	}
	t := c.checkExpressionWithContext(fn.ExprBody, ctxReturn)
	if hasLiteralConstituent(ctxReturn) {
		fc.sig.ReturnType = c.regularType(t)
		return
	}
	fc.sig.ReturnType = c.widenForBinding(t)
}

func (c *Checker) inferredReturnType(fc *functionContext) types.Type {
	if !fc.hasValueReturn {
		return types.Void
	}
	returns := fc.returns
	if fc.hasBareReturn {
		returns = append(returns, types.Undefined)
	}
	return c.CreateUnionType(returns...)
}

func functionName(fn *parser.FunctionLiteral) string {
	if fn.Name != nil {
		return fn.Name.Value
	}
	return "<anonymous>"
}

// checkParameter types the parameter at index and adds it to sig.
func (c *Checker) checkParameter(sig *types.Signature, p *parser.Parameter, index int, ctxSig *types.Signature) {
	var t types.Type
	switch {
	case p.TypeAnnotation != nil:
		t = c.resolveTypeNode(p.TypeAnnotation)
		if p.Default != nil {
			dt := c.checkExpressionWithContext(p.Default, t)
			c.checkAssignableTo(dt, t, p.Default)
		}
	case ctxSig != nil:
		t = c.contextualParameterType(ctxSig, index, p.IsRest)
		if p.Default != nil {
			c.checkExpressionWithContext(p.Default, t)
		}
	case p.Default != nil:
		t = c.widenForBinding(c.checkExpression(p.Default))
	default:
		if name := p.Name(); name != "" {
			c.throwTypeError(p, "Parameter '%s' implicitly has an 'any' type.", name)
		}
		c.throwTypeError(p, "Binding element '%s' implicitly has an 'any' type.", firstBindingName(p.Target))
	}
	if t == nil {
		t = types.Any
	}

	if p.IsRest && t != types.Any && !types.IsArrayOrTuple(t) {
		c.throwTypeError(p, "A rest parameter must be of an array type.")
	}

	name := p.Name()
	switch target := p.Target.(type) {
	case *parser.Identifier:
		bound := t
		if p.Optional {
			bound = c.CreateUnionType(t, types.Undefined)
		}
		target.SetComputedType(bound)
		c.bindVariableType(c.scope.FindLocal(target.Value), bound, target)
	default:
		restore := c.addStatus(NoOpts)
		dc := c.newDestructuringContext(target, bindParameter, false)
		dc.setSourceType(t)
		dc.start()
		restore()
		name = "__" + strconv.Itoa(index)
	}

	param := &types.Parameter{Name: name, Type: t, Optional: p.Optional || p.Default != nil}
	if p.IsRest {
		sig.Rest = param
		return
	}
	sig.Params = append(sig.Params, param)
}

// contextualSignature is the single call signature of a contextual type.
func contextualSignature(t types.Type) *types.Signature {
	if t == nil {
		return nil
	}
	for _, m := range types.Constituents(t) {
		if sigs := types.Signatures(m, false); len(sigs) == 1 {
			return sigs[0]
		}
	}
	return nil
}

// contextualParameterType is the type a parameter at index gets from the
// contextual signature.
func (c *Checker) contextualParameterType(sig *types.Signature, index int, rest bool) types.Type {
	if rest {
		if index >= len(sig.Params) && sig.Rest != nil {
			return sig.Rest.Type
		}
		var remaining []types.Type
		for _, p := range sig.Params[min(index, len(sig.Params)):] {
			remaining = append(remaining, p.Type)
		}
		if sig.Rest != nil {
			if a, ok := sig.Rest.Type.(*types.ArrayType); ok {
				remaining = append(remaining, a.ElementType)
			}
		}
		if len(remaining) == 0 {
			return types.NewArrayType(types.Never)
		}
		return types.NewArrayType(c.CreateUnionType(remaining...))
	}
	if index < len(sig.Params) {
		return sig.Params[index].Type
	}
	if sig.Rest != nil {
		if a, ok := sig.Rest.Type.(*types.ArrayType); ok {
			return a.ElementType
		}
		return types.Any
	}
	return types.Undefined
}

// firstBindingName finds the first identifier bound by a pattern.
func firstBindingName(target parser.Expression) string {
	switch t := target.(type) {
	case *parser.Identifier:
		return t.Value
	case *parser.ArrayPattern:
		for _, el := range t.Elements {
			if name := firstBindingName(el); name != "" {
				return name
			}
		}
	case *parser.ObjectPattern:
		for _, p := range t.Properties {
			if name := firstBindingName(p.Value); name != "" {
				return name
			}
		}
		if t.Rest != nil {
			return firstBindingName(t.Rest.Argument)
		}
	case *parser.AssignmentPattern:
		return firstBindingName(t.Left)
	case *parser.RestElement:
		return firstBindingName(t.Argument)
	}
	return ""
}
