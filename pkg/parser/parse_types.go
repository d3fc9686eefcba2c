package parser

import (
	"tscheck/pkg/lexer"
)

// --- Type Annotation Parsing ---

// parseType parses a type at curToken and leaves curToken on its last token.
func (p *Parser) parseType() TypeNode {
	tok := p.curToken
	if p.curTokenIs(lexer.PIPE) {
		p.nextToken() // leading |
	}
	first := p.parsePostfixType()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(lexer.PIPE) {
		return first
	}

	union := &UnionTypeNode{Token: tok, Types: []TypeNode{first}}
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		if union.Token.Type != lexer.PIPE {
			union.Token = p.curToken
		}
		p.nextToken()
		t := p.parsePostfixType()
		if t == nil {
			return nil
		}
		union.Types = append(union.Types, t)
	}
	return union
}

// parsePostfixType parses a primary type followed by any number of `[]`.
func (p *Parser) parsePostfixType() TypeNode {
	t := p.parsePrimaryType()
	for t != nil && p.peekTokenIs(lexer.LBRACKET) && p.tokenAt(p.pos+2).Type == lexer.RBRACKET {
		p.nextToken()
		t = &ArrayTypeNode{Token: p.curToken, ElementType: t}
		p.nextToken()
	}
	return t
}

func (p *Parser) parsePrimaryType() TypeNode {
	tok := p.curToken
	switch tok.Type {
	case lexer.IDENT:
		if tok.Literal == "readonly" && (p.peekTokenIs(lexer.IDENT) || p.peekTokenIs(lexer.LBRACKET)) {
			p.nextToken()
			inner := p.parsePostfixType()
			if inner == nil {
				return nil
			}
			switch inner.(type) {
			case *ArrayTypeNode, *TupleTypeNode:
			default:
				p.addError(tok, "'readonly' type modifier is only permitted on array and tuple literal types.")
				return nil
			}
			return &ReadonlyTypeNode{Token: tok, Type: inner}
		}
		return &TypeReference{Token: tok, Name: tok.Literal}
	case lexer.VOID, lexer.NULL:
		return &TypeReference{Token: tok, Name: tok.Literal}
	case lexer.TYPEOF:
		return p.parseTypeQuery()
	case lexer.NUMBER, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.BIGINT:
		lit := p.prefixParseFns[tok.Type]()
		if lit == nil {
			return nil
		}
		return &LiteralTypeNode{Token: tok, Literal: lit}
	case lexer.MINUS:
		if p.peekTokenIs(lexer.NUMBER) || p.peekTokenIs(lexer.BIGINT) {
			p.nextToken()
			lit := p.prefixParseFns[p.curToken.Type]()
			if lit == nil {
				return nil
			}
			return &LiteralTypeNode{Token: tok, Literal: lit, Negative: true}
		}
	case lexer.LBRACKET:
		return p.parseTupleType()
	case lexer.LBRACE:
		if ot := p.parseObjectTypeLiteral(); ot != nil {
			return ot
		}
		return nil
	case lexer.LPAREN:
		if closing := p.matchingParen(p.pos); closing > 0 && p.tokenAt(closing+1).Type == lexer.ARROW {
			return p.parseFunctionType(tok, false)
		}
		p.nextToken()
		inner := p.parseType()
		if inner == nil || !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return inner
	case lexer.NEW:
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		return p.parseFunctionType(tok, true)
	}
	p.addError(tok, "Type expected.")
	return nil
}

// parseFunctionType parses `(params) => R` with curToken on '('.
func (p *Parser) parseFunctionType(tok lexer.Token, isConstructor bool) TypeNode {
	ft := &FunctionTypeNode{Token: tok, IsConstructor: isConstructor}
	params, ok := p.parseParameterList()
	if !ok || !p.expectPeek(lexer.ARROW) {
		return nil
	}
	ft.Parameters = params
	p.nextToken()
	if ft.ReturnType = p.parseType(); ft.ReturnType == nil {
		return nil
	}
	return ft
}

func (p *Parser) parseTypeQuery() TypeNode {
	tq := &TypeQuery{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	var expr Expression = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	for p.peekTokenIs(lexer.DOT) {
		p.nextToken()
		member := &MemberExpression{Token: p.curToken, Object: expr}
		if member.Property = p.parsePropertyName(); member.Property == nil {
			return nil
		}
		expr = member
	}
	tq.Expression = expr
	return tq
}

func (p *Parser) parseTupleType() TypeNode {
	tt := &TupleTypeNode{Token: p.curToken}
	sawOptional, sawRest := false, false
	for !p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		el := &TupleElement{Token: p.curToken}
		if p.curTokenIs(lexer.SPREAD) {
			el.Rest = true
			p.nextToken()
		}
		if p.curTokenIs(lexer.IDENT) && (p.peekTokenIs(lexer.COLON) ||
			(p.peekTokenIs(lexer.QUESTION) && p.tokenAt(p.pos+2).Type == lexer.COLON)) {
			el.Name = p.curToken.Literal
			if p.peekTokenIs(lexer.QUESTION) {
				p.nextToken()
				el.Optional = true
			}
			p.nextToken()
			p.nextToken()
		}
		if el.Type = p.parseType(); el.Type == nil {
			return nil
		}
		if el.Name == "" && p.peekTokenIs(lexer.QUESTION) {
			p.nextToken()
			el.Optional = true
		}

		switch {
		case el.Rest && sawRest:
			p.addError(el.Token, "A rest element cannot follow another rest element.")
			return nil
		case el.Rest && el.Optional:
			p.addError(el.Token, "A rest element cannot be optional.")
			return nil
		case !el.Rest && !el.Optional && sawOptional:
			p.addError(el.Token, "A required element cannot follow an optional element.")
			return nil
		case !el.Rest && sawRest:
			p.addError(el.Token, "An element cannot follow a rest element.")
			return nil
		}
		sawOptional = sawOptional || el.Optional
		sawRest = sawRest || el.Rest
		tt.Elements = append(tt.Elements, el)

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
	return tt
}

// parseObjectTypeLiteral parses `{ members }` with curToken on '{'. Members
// are separated by ';', ',' or line breaks.
func (p *Parser) parseObjectTypeLiteral() *ObjectTypeLiteral {
	ot := &ObjectTypeLiteral{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		if p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.COMMA) {
			continue
		}
		if p.curTokenIs(lexer.EOF) {
			p.addError(p.curToken, "'}' expected.")
			return nil
		}
		m := p.parseTypeMember()
		if m == nil {
			return nil
		}
		ot.Members = append(ot.Members, m)

		if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(lexer.RBRACE) && p.peekToken.Line == p.curToken.Line {
			p.addError(p.peekToken, "';' expected.")
			return nil
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return ot
}

func (p *Parser) parseTypeMember() TypeMember {
	readonly := false
	if p.curToken.Literal == "readonly" && p.curTokenIs(lexer.IDENT) {
		switch p.peekToken.Type {
		case lexer.COLON, lexer.QUESTION, lexer.LPAREN, lexer.SEMICOLON, lexer.COMMA, lexer.RBRACE:
		default:
			readonly = true
			p.nextToken()
		}
	}

	tok := p.curToken
	switch {
	case tok.Type == lexer.LBRACKET && p.peekTokenIs(lexer.IDENT) && p.tokenAt(p.pos+2).Type == lexer.COLON:
		sig := &IndexSignature{Token: tok, Readonly: readonly}
		p.nextToken()
		sig.ParamName = p.curToken.Literal
		p.nextToken()
		p.nextToken()
		if sig.KeyType = p.parseType(); sig.KeyType == nil {
			return nil
		}
		if !p.expectPeek(lexer.RBRACKET) || !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		if sig.ValueType = p.parseType(); sig.ValueType == nil {
			return nil
		}
		return sig
	case tok.Type == lexer.LPAREN:
		sig := &CallSignature{Token: tok}
		var ok bool
		if sig.Parameters, sig.ReturnType, ok = p.parseSignatureRest(); !ok {
			return nil
		}
		return sig
	case tok.Type == lexer.NEW && p.peekTokenIs(lexer.LPAREN):
		sig := &ConstructSignature{Token: tok}
		p.nextToken()
		var ok bool
		if sig.Parameters, sig.ReturnType, ok = p.parseSignatureRest(); !ok {
			return nil
		}
		return sig
	}

	var name string
	switch {
	case tok.Type == lexer.IDENT || lexer.IsKeyword(tok.Type) || tok.Type == lexer.STRING:
		name = tok.Literal
	case tok.Type == lexer.NUMBER:
		lit, ok := p.parseNumberLiteral().(*NumberLiteral)
		if !ok {
			return nil
		}
		name = formatPropertyNumber(lit.Value)
	default:
		p.addError(tok, "Property or signature expected.")
		return nil
	}

	optional := false
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		optional = true
	}

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		ms := &MethodSignature{Token: tok, Name: name, Optional: optional}
		var ok bool
		if ms.Parameters, ms.ReturnType, ok = p.parseSignatureRest(); !ok {
			return nil
		}
		return ms
	}

	ps := &PropertySignature{Token: tok, Name: name, Optional: optional, Readonly: readonly}
	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		if ps.Type = p.parseType(); ps.Type == nil {
			return nil
		}
	}
	return ps
}

// parseSignatureRest parses `(params)[: R]` with curToken on '('.
func (p *Parser) parseSignatureRest() ([]*Parameter, TypeNode, bool) {
	params, ok := p.parseParameterList()
	if !ok {
		return nil, nil, false
	}
	if !p.peekTokenIs(lexer.COLON) {
		return params, nil, true
	}
	p.nextToken()
	p.nextToken()
	ret := p.parseType()
	return params, ret, ret != nil
}

// parseInterfaceDeclaration parses `interface Name extends A, B { ... }`.
func (p *Parser) parseInterfaceDeclaration() Statement {
	decl := &InterfaceDeclaration{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.EXTENDS) {
		p.nextToken()
		for {
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			decl.Extends = append(decl.Extends, &TypeReference{Token: p.curToken, Name: p.curToken.Literal})
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	if decl.Body = p.parseObjectTypeLiteral(); decl.Body == nil {
		return nil
	}
	return decl
}
