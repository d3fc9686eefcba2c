package parser

import "tscheck/pkg/lexer"

// parseEnumDeclaration parses `enum E { A, B = 1 }` and `const enum E {}`.
// curToken is `const` or `enum`.
func (p *Parser) parseEnumDeclaration() Statement {
	decl := &EnumDeclaration{Token: p.curToken}
	if p.curTokenIs(lexer.CONST) {
		decl.IsConst = true
		p.nextToken()
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		member := &EnumMember{Token: p.curToken}
		switch tok := p.curToken; {
		case tok.Type == lexer.IDENT || lexer.IsKeyword(tok.Type) || tok.Type == lexer.STRING:
			member.Name = tok.Literal
		case tok.Type == lexer.NUMBER:
			p.addError(tok, "An enum member cannot have a numeric name.")
			return nil
		case tok.Type == lexer.LBRACKET:
			p.addError(tok, "Computed property names are not allowed in enums.")
			return nil
		default:
			p.addError(tok, "Enum member expected.")
			return nil
		}

		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if member.Value = p.parseExpression(LOWEST); member.Value == nil {
				return nil
			}
		}
		decl.Members = append(decl.Members, member)

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
	return decl
}
