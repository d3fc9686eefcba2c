package parser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"tscheck/pkg/lexer"
	"tscheck/pkg/types"
)

func (p *Parser) parseExpression(precedence int) Expression {
	debugPrint("parseExpression(prec=%d): cur='%s' (%s)", precedence, p.curToken.Literal, p.curToken.Type)
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// --- Prefix Parse Functions ---

func (p *Parser) parseIdentifier() Expression {
	ident := &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if p.peekTokenIs(lexer.ARROW) {
		fn := &FunctionLiteral{
			Token:      ident.Token,
			IsArrow:    true,
			Parameters: []*Parameter{{Token: ident.Token, Target: ident}},
		}
		p.nextToken()
		return p.parseArrowBody(fn)
	}
	return ident
}

func (p *Parser) parseNumberLiteral() Expression {
	lit := &NumberLiteral{Token: p.curToken}
	text := p.curToken.Literal
	if len(text) > 2 && text[0] == '0' && strings.ContainsRune("xXoObB", rune(text[1])) {
		i, ok := new(big.Int).SetString(text, 0)
		if !ok {
			p.addError(p.curToken, fmt.Sprintf("could not parse %q as number", text))
			return nil
		}
		lit.Value, _ = new(big.Float).SetInt(i).Float64()
		return lit
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Out-of-range literals become ±Infinity like they do at runtime.
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			p.addError(p.curToken, fmt.Sprintf("could not parse %q as number", text))
			return nil
		}
	}
	lit.Value = v
	return lit
}

func (p *Parser) parseBigIntLiteral() Expression {
	i, ok := new(big.Int).SetString(p.curToken.Literal, 0)
	if !ok {
		p.addError(p.curToken, fmt.Sprintf("could not parse %q as bigint", p.curToken.Literal))
		return nil
	}
	return &BigIntLiteral{Token: p.curToken, Value: i.String()}
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() Expression {
	return &NullLiteral{Token: p.curToken}
}

// parseRegexLiteral splits /pattern/flags and checks both parts with an
// ECMAScript-compatible regex engine.
func (p *Parser) parseRegexLiteral() Expression {
	text := p.curToken.Literal
	end := strings.LastIndex(text, "/")
	lit := &RegexLiteral{Token: p.curToken, Pattern: text[1:end], Flags: text[end+1:]}

	var opts regexp2.RegexOptions = regexp2.ECMAScript
	seen := make(map[rune]bool)
	for _, f := range lit.Flags {
		if !strings.ContainsRune("dgimsuyv", f) || seen[f] {
			p.addError(p.curToken, "Invalid regular expression flags")
			return nil
		}
		seen[f] = true
	}
	// ECMAScript mode only combines with the case and multiline options.
	if seen['u'] || seen['v'] || seen['s'] {
		opts = regexp2.None
	}
	if seen['i'] {
		opts |= regexp2.IgnoreCase
	}
	if seen['m'] {
		opts |= regexp2.Multiline
	}
	if seen['s'] {
		opts |= regexp2.Singleline
	}
	if _, err := regexp2.Compile(lit.Pattern, opts); err != nil {
		p.addError(p.curToken, fmt.Sprintf("Invalid regular expression: /%s/: %v", lit.Pattern, err))
		return nil
	}
	return lit
}

func (p *Parser) parseArrayLiteral() Expression {
	arr := &ArrayLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		var elem Expression
		if p.curTokenIs(lexer.SPREAD) {
			elem = p.parseSpreadElement()
		} else {
			elem = p.parseExpression(LOWEST)
		}
		if elem == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !p.peekTokenIs(lexer.RBRACKET) {
			p.peekError(lexer.RBRACKET)
			return nil
		}
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseSpreadElement() Expression {
	spread := &SpreadElement{Token: p.curToken}
	p.nextToken()
	spread.Argument = p.parseExpression(LOWEST)
	if spread.Argument == nil {
		return nil
	}
	return spread
}

// parsePropertyKey parses an object literal or pattern key at curToken.
// Reserved words are plain names here.
func (p *Parser) parsePropertyKey() (Expression, bool, bool) {
	switch tok := p.curToken; {
	case tok.Type == lexer.IDENT || lexer.IsKeyword(tok.Type):
		return &Identifier{Token: tok, Value: tok.Literal}, false, true
	case tok.Type == lexer.STRING:
		return &StringLiteral{Token: tok, Value: tok.Literal}, false, true
	case tok.Type == lexer.NUMBER:
		lit := p.parseNumberLiteral()
		return lit, false, lit != nil
	case tok.Type == lexer.LBRACKET:
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil || !p.expectPeek(lexer.RBRACKET) {
			return nil, true, false
		}
		return key, true, true
	}
	p.addError(p.curToken, "Property assignment expected.")
	return nil, false, false
}

func (p *Parser) parseObjectLiteral() Expression {
	obj := &ObjectLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		prop := p.parseObjectProperty()
		if prop == nil {
			return nil
		}
		obj.Properties = append(obj.Properties, prop)
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		if !p.peekTokenIs(lexer.RBRACE) {
			p.peekError(lexer.RBRACE)
			return nil
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseObjectProperty() *ObjectProperty {
	prop := &ObjectProperty{Token: p.curToken}
	if p.curTokenIs(lexer.SPREAD) {
		prop.Kind = PropertySpread
		p.nextToken()
		if prop.Value = p.parseExpression(LOWEST); prop.Value == nil {
			return nil
		}
		return prop
	}

	var ok bool
	if prop.Key, prop.Computed, ok = p.parsePropertyKey(); !ok {
		return nil
	}

	switch {
	case p.peekTokenIs(lexer.COLON):
		prop.Kind = PropertyKeyValue
		p.nextToken()
		p.nextToken()
		prop.Value = p.parseExpression(LOWEST)
	case p.peekTokenIs(lexer.LPAREN):
		prop.Kind = PropertyMethod
		fn := &FunctionLiteral{Token: p.peekToken}
		if id, isIdent := prop.Key.(*Identifier); isIdent && !prop.Computed {
			fn.Name = id
		}
		p.nextToken()
		if !p.parseFunctionRest(fn) {
			return nil
		}
		prop.Value = fn
	default:
		id, isIdent := prop.Key.(*Identifier)
		if !isIdent || prop.Computed || id.Token.Type != lexer.IDENT {
			p.peekError(lexer.COLON)
			return nil
		}
		prop.Kind = PropertyShorthand
		value := &Identifier{Token: id.Token, Value: id.Value}
		prop.Value = value
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			init := &AssignmentExpression{Token: p.curToken, Operator: "=", Left: value}
			p.nextToken()
			if init.Value = p.parseExpression(LOWEST); init.Value == nil {
				return nil
			}
			prop.Value = init
			p.coverInits = append(p.coverInits, prop)
		}
	}
	if prop.Value == nil {
		return nil
	}
	return prop
}

// parseGroupedOrArrow handles '(' in expression position: either an arrow
// function head or a parenthesized expression.
func (p *Parser) parseGroupedOrArrow() Expression {
	if closing := p.matchingParen(p.pos); closing > 0 {
		next := p.tokenAt(closing + 1).Type
		if next == lexer.ARROW || next == lexer.COLON {
			if fn := p.tryParseArrowHead(); fn != nil {
				return p.parseArrowBody(fn)
			}
		}
	}

	p.nextToken()
	if p.curTokenIs(lexer.RPAREN) {
		p.addError(p.curToken, "Expression expected.")
		return nil
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

// tryParseArrowHead speculatively parses `(params): R =>`. On failure the
// parser is rewound and any errors it produced are discarded.
func (p *Parser) tryParseArrowHead() *FunctionLiteral {
	start, errCount := p.pos, len(p.errors)
	fn := &FunctionLiteral{Token: p.curToken, IsArrow: true}
	ok := false
	if params, paramsOK := p.parseParameterList(); paramsOK {
		fn.Parameters = params
		ok = true
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			fn.ReturnType = p.parseType()
			ok = fn.ReturnType != nil
		}
		ok = ok && p.peekTokenIs(lexer.ARROW)
	}
	if !ok || len(p.errors) != errCount {
		p.reset(start)
		p.errors = p.errors[:errCount]
		return nil
	}
	p.nextToken() // =>
	return fn
}

// parseArrowBody expects curToken to be '=>'.
func (p *Parser) parseArrowBody(fn *FunctionLiteral) Expression {
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		fn.Body = p.parseBlockStatement()
		return fn
	}
	p.nextToken()
	fn.ExprBody = p.parseExpression(LOWEST)
	if fn.ExprBody == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseFunctionLiteral() Expression {
	fn := &FunctionLiteral{Token: p.curToken}
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		fn.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if !p.parseFunctionRest(fn) {
		return nil
	}
	return fn
}

// parseFunctionRest parses parameters, return type and block body with
// curToken on '('.
func (p *Parser) parseFunctionRest(fn *FunctionLiteral) bool {
	params, ok := p.parseParameterList()
	if !ok {
		return false
	}
	fn.Parameters = params
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		if fn.ReturnType = p.parseType(); fn.ReturnType == nil {
			return false
		}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return false
	}
	fn.Body = p.parseBlockStatement()
	return true
}

// parseParameterList parses `(a, b?: T, c = 1, ...rest: T[])` with curToken
// on '(' and leaves curToken on ')'.
func (p *Parser) parseParameterList() ([]*Parameter, bool) {
	var params []*Parameter
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		param := &Parameter{Token: p.curToken}
		if p.curTokenIs(lexer.SPREAD) {
			param.IsRest = true
			p.nextToken()
		}
		if param.Target = p.parseBindingTarget(); param.Target == nil {
			return nil, false
		}
		if p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			param.Optional = true
		}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			if param.TypeAnnotation = p.parseType(); param.TypeAnnotation == nil {
				return nil, false
			}
		}
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if param.Default = p.parseExpression(LOWEST); param.Default == nil {
				return nil, false
			}
		}
		params = append(params, param)

		if param.IsRest && !p.peekTokenIs(lexer.RPAREN) {
			p.addError(param.Token, "A rest parameter must be last in a parameter list.")
			return nil, false
		}
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(lexer.RPAREN) {
			break
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseNewExpression() Expression {
	expr := &NewExpression{Token: p.curToken}
	p.nextToken()
	if expr.Constructor = p.parseExpression(CALL); expr.Constructor == nil {
		return nil
	}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args, ok := p.parseExpressionList(lexer.RPAREN)
		if !ok {
			return nil
		}
		expr.Arguments = args
	}
	return expr
}

func (p *Parser) parseUnaryExpression() Expression {
	expr := &UnaryExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	if expr.Operand = p.parseExpression(PREFIX); expr.Operand == nil {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixUpdate() Expression {
	expr := &UpdateExpression{Token: p.curToken, Operator: p.curToken.Literal, Prefix: true}
	p.nextToken()
	if expr.Argument = p.parseExpression(PREFIX); expr.Argument == nil {
		return nil
	}
	if !isSimpleTarget(expr.Argument) {
		p.addError(expr.Token, "The operand of an increment or decrement operator must be a variable or a property access.")
		return nil
	}
	return expr
}

// --- Infix Parse Functions ---

func (p *Parser) parseBinaryExpression(left Expression) Expression {
	expr := &BinaryExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	if p.curTokenIs(lexer.EXPONENT) {
		precedence-- // right-associative
	}
	p.nextToken()
	if expr.Right = p.parseExpression(precedence); expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	expr := &AssignmentExpression{Token: p.curToken, Operator: p.curToken.Literal}
	if expr.Operator == "=" {
		expr.Left = p.toAssignmentTarget(left)
	} else if isSimpleTarget(left) {
		expr.Left = left
	} else {
		p.addError(p.curToken, "The left-hand side of an assignment expression must be a variable or a property access.")
	}
	if expr.Left == nil {
		return nil
	}
	p.nextToken()
	if expr.Value = p.parseExpression(LOWEST); expr.Value == nil {
		return nil
	}
	return expr
}

func isSimpleTarget(e Expression) bool {
	switch t := e.(type) {
	case *Identifier:
		return true
	case *MemberExpression:
		return !t.Optional
	case *NonNullExpression:
		return isSimpleTarget(t.Expression)
	}
	return false
}

// toAssignmentTarget reinterprets an array or object literal on the left of
// '=' as a destructuring pattern.
func (p *Parser) toAssignmentTarget(e Expression) Expression {
	switch t := e.(type) {
	case *ArrayLiteral:
		pat := &ArrayPattern{Token: t.Token}
		for i, el := range t.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			if spread, ok := el.(*SpreadElement); ok {
				if i != len(t.Elements)-1 {
					p.addError(spread.Token, "A rest element must be last in a destructuring pattern.")
					return nil
				}
				arg := p.toAssignmentTarget(spread.Argument)
				if arg == nil {
					return nil
				}
				pat.Elements = append(pat.Elements, &RestElement{Token: spread.Token, Argument: arg})
				continue
			}
			target := p.toTargetWithDefault(el)
			if target == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, target)
		}
		return pat
	case *ObjectLiteral:
		pat := &ObjectPattern{Token: t.Token}
		for i, prop := range t.Properties {
			switch prop.Kind {
			case PropertySpread:
				if i != len(t.Properties)-1 {
					p.addError(prop.Token, "A rest element must be last in a destructuring pattern.")
					return nil
				}
				arg := p.toAssignmentTarget(prop.Value)
				if arg == nil {
					return nil
				}
				pat.Rest = &RestElement{Token: prop.Token, Argument: arg}
			case PropertyMethod:
				p.addError(prop.Token, "Invalid destructuring assignment target.")
				return nil
			default:
				p.converted[prop] = true
				value := p.toTargetWithDefault(prop.Value)
				if value == nil {
					return nil
				}
				pat.Properties = append(pat.Properties, &PatternProperty{
					Token: prop.Token, Key: prop.Key, Computed: prop.Computed, Value: value,
				})
			}
		}
		return pat
	case *ArrayPattern, *ObjectPattern:
		return e
	}
	if isSimpleTarget(e) {
		return e
	}
	p.addError(e.NodeToken(), "The left-hand side of an assignment expression must be a variable or a property access.")
	return nil
}

// toTargetWithDefault converts `target = value` to an AssignmentPattern.
func (p *Parser) toTargetWithDefault(e Expression) Expression {
	if assign, ok := e.(*AssignmentExpression); ok && assign.Operator == "=" {
		return &AssignmentPattern{Token: assign.Token, Left: assign.Left, Right: assign.Value}
	}
	return p.toAssignmentTarget(e)
}

func (p *Parser) parseConditionalExpression(condition Expression) Expression {
	expr := &ConditionalExpression{Token: p.curToken, Condition: condition}
	p.nextToken()
	if expr.Consequence = p.parseExpression(LOWEST); expr.Consequence == nil {
		return nil
	}
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	if expr.Alternative = p.parseExpression(LOWEST); expr.Alternative == nil {
		return nil
	}
	return expr
}

func (p *Parser) parsePostfixUpdate(left Expression) Expression {
	if !isSimpleTarget(left) {
		p.addError(p.curToken, "The operand of an increment or decrement operator must be a variable or a property access.")
		return nil
	}
	return &UpdateExpression{Token: p.curToken, Operator: p.curToken.Literal, Argument: left}
}

func (p *Parser) parseNonNullExpression(left Expression) Expression {
	return &NonNullExpression{Token: p.curToken, Expression: left}
}

func (p *Parser) parseCallExpression(function Expression) Expression {
	call := &CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(lexer.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

// parseExpressionList parses comma separated arguments up to end, with
// curToken on the opening delimiter.
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]Expression, bool) {
	var list []Expression
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		var arg Expression
		if p.curTokenIs(lexer.SPREAD) {
			arg = p.parseSpreadElement()
		} else {
			arg = p.parseExpression(LOWEST)
		}
		if arg == nil {
			return nil, false
		}
		list = append(list, arg)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseIndexExpression(object Expression) Expression {
	expr := &MemberExpression{Token: p.curToken, Object: object, Computed: true}
	p.nextToken()
	if expr.Property = p.parseExpression(LOWEST); expr.Property == nil {
		return nil
	}
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseMemberExpression(object Expression) Expression {
	expr := &MemberExpression{Token: p.curToken, Object: object}
	if expr.Property = p.parsePropertyName(); expr.Property == nil {
		return nil
	}
	return expr
}

// parsePropertyName consumes the name after '.' or '?.'.
func (p *Parser) parsePropertyName() Expression {
	if !p.peekTokenIs(lexer.IDENT) && !lexer.IsKeyword(p.peekToken.Type) {
		p.addError(p.peekToken, "Identifier expected.")
		return nil
	}
	p.nextToken()
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseOptionalChain(left Expression) Expression {
	tok := p.curToken
	switch {
	case p.peekTokenIs(lexer.LPAREN):
		p.nextToken()
		call := &CallExpression{Token: tok, Function: left, Optional: true}
		args, ok := p.parseExpressionList(lexer.RPAREN)
		if !ok {
			return nil
		}
		call.Arguments = args
		return call
	case p.peekTokenIs(lexer.LBRACKET):
		p.nextToken()
		expr := &MemberExpression{Token: tok, Object: left, Computed: true, Optional: true}
		p.nextToken()
		if expr.Property = p.parseExpression(LOWEST); expr.Property == nil {
			return nil
		}
		if !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		return expr
	}
	expr := &MemberExpression{Token: tok, Object: left, Optional: true}
	if expr.Property = p.parsePropertyName(); expr.Property == nil {
		return nil
	}
	return expr
}

// parseAsExpression handles `expr as Type` and `expr as const`.
func (p *Parser) parseAsExpression(left Expression) Expression {
	expr := &AsExpression{Token: p.curToken, Expression: left}
	if p.peekTokenIs(lexer.CONST) {
		p.nextToken()
		expr.IsConst = true
		if !isConstAssertable(left) {
			p.addError(expr.Token, "A 'const' assertion can only be applied to references to enum members, or string, number, boolean, array, or object literals.")
			return nil
		}
		return expr
	}
	p.nextToken()
	if expr.Type = p.parseType(); expr.Type == nil {
		return nil
	}
	return expr
}

func isConstAssertable(e Expression) bool {
	switch t := e.(type) {
	case *StringLiteral, *NumberLiteral, *BigIntLiteral, *BooleanLiteral, *ArrayLiteral, *ObjectLiteral:
		return true
	case *UnaryExpression:
		if _, isNum := t.Operand.(*NumberLiteral); isNum {
			return t.Operator == "-" || t.Operator == "+"
		}
	case *MemberExpression:
		return true
	}
	return false
}

// formatPropertyNumber renders a numeric property key the way it is stored
// on an object type.
func formatPropertyNumber(v float64) string {
	return types.FormatNumber(v)
}
