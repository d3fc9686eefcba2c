package parser

import (
	"tscheck/pkg/lexer"
)

// --- Statement Parsing ---

// parseStatement parses the statement starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseStatement() Statement {
	debugPrint("parseStatement(): cur='%s' (%s)", p.curToken.Literal, p.curToken.Type)
	switch p.curToken.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		if p.curTokenIs(lexer.CONST) && p.peekTokenIs(lexer.ENUM) {
			return p.parseEnumDeclaration()
		}
		if stmt := p.parseVariableStatement(false); stmt != nil {
			return stmt
		}
		return nil
	case lexer.FUNCTION:
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseFunctionDeclaration()
		}
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		stmt := &BreakStatement{Token: p.curToken}
		if !p.expectStatementEnd() {
			return nil
		}
		return stmt
	case lexer.CONTINUE:
		stmt := &ContinueStatement{Token: p.curToken}
		if !p.expectStatementEnd() {
			return nil
		}
		return stmt
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return &EmptyStatement{Token: p.curToken}
	case lexer.ENUM:
		return p.parseEnumDeclaration()
	case lexer.INTERFACE:
		return p.parseInterfaceDeclaration()
	case lexer.IDENT:
		if p.curToken.Literal == "type" && p.peekTokenIs(lexer.IDENT) && p.tokenAt(p.pos+2).Type == lexer.ASSIGN {
			return p.parseTypeAliasStatement()
		}
	}
	return p.parseExpressionStatement()
}

// parseVariableStatement parses var/let/const declarations. Inside a for
// header the trailing ';' belongs to the loop and is left alone.
func (p *Parser) parseVariableStatement(inForHeader bool) *VariableStatement {
	stmt := &VariableStatement{Token: p.curToken}
	switch p.curToken.Type {
	case lexer.LET:
		stmt.Kind = VarKindLet
	case lexer.CONST:
		stmt.Kind = VarKindConst
	default:
		stmt.Kind = VarKindVar
	}

	for {
		p.nextToken()
		decl := p.parseVariableDeclarator(stmt.Kind)
		if decl == nil {
			return nil
		}
		stmt.Declarations = append(stmt.Declarations, decl)
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}

	if inForHeader {
		return stmt
	}
	if !p.expectStatementEnd() {
		return nil
	}
	return stmt
}

func (p *Parser) parseVariableDeclarator(kind VarKind) *VariableDeclarator {
	decl := &VariableDeclarator{Token: p.curToken, Kind: kind}
	decl.Target = p.parseBindingTarget()
	if decl.Target == nil {
		return nil
	}

	if p.peekTokenIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		decl.TypeAnnotation = p.parseType()
		if decl.TypeAnnotation == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Value = p.parseExpression(LOWEST)
		if decl.Value == nil {
			return nil
		}
	} else if p.peekTokenIs(lexer.IN) || p.peekIsContextual("of") {
		p.addError(p.peekToken, "for-in and for-of loops are not supported")
		return nil
	}

	if kind == VarKindConst && decl.Value == nil {
		p.addError(decl.Token, "'const' declarations must be initialized.")
		return nil
	}
	if _, isIdent := decl.Target.(*Identifier); !isIdent && decl.Value == nil {
		p.addError(decl.Token, "A destructuring declaration must have an initializer.")
		return nil
	}
	return decl
}

// parseBindingTarget parses an identifier or a destructuring pattern in a
// declaration or parameter position.
func (p *Parser) parseBindingTarget() Expression {
	switch p.curToken.Type {
	case lexer.IDENT:
		return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case lexer.LBRACKET:
		if pat := p.parseArrayBindingPattern(); pat != nil {
			return pat
		}
		return nil
	case lexer.LBRACE:
		if pat := p.parseObjectBindingPattern(); pat != nil {
			return pat
		}
		return nil
	}
	p.addError(p.curToken, "expected identifier or destructuring pattern, got "+string(p.curToken.Type))
	return nil
}

// parseBindingElement parses a target followed by an optional default.
func (p *Parser) parseBindingElement() Expression {
	target := p.parseBindingTarget()
	if target == nil {
		return nil
	}
	if !p.peekTokenIs(lexer.ASSIGN) {
		return target
	}
	p.nextToken()
	pat := &AssignmentPattern{Token: p.curToken, Left: target}
	p.nextToken()
	pat.Right = p.parseExpression(LOWEST)
	if pat.Right == nil {
		return nil
	}
	return pat
}

func (p *Parser) parseArrayBindingPattern() *ArrayPattern {
	pat := &ArrayPattern{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		if p.curTokenIs(lexer.SPREAD) {
			rest := &RestElement{Token: p.curToken}
			p.nextToken()
			rest.Argument = p.parseBindingTarget()
			if rest.Argument == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, rest)
			break
		}
		elem := p.parseBindingElement()
		if elem == nil {
			return nil
		}
		pat.Elements = append(pat.Elements, elem)
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
	return pat
}

func (p *Parser) parseObjectBindingPattern() *ObjectPattern {
	pat := &ObjectPattern{Token: p.curToken}
	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		if p.curTokenIs(lexer.SPREAD) {
			rest := &RestElement{Token: p.curToken}
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			rest.Argument = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			pat.Rest = rest
			break
		}

		prop := &PatternProperty{Token: p.curToken}
		var ok bool
		prop.Key, prop.Computed, ok = p.parsePropertyKey()
		if !ok {
			return nil
		}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			prop.Value = p.parseBindingElement()
		} else {
			id, isIdent := prop.Key.(*Identifier)
			if !isIdent || prop.Computed || id.Token.Type != lexer.IDENT {
				p.peekError(lexer.COLON)
				return nil
			}
			var value Expression = &Identifier{Token: id.Token, Value: id.Value}
			if p.peekTokenIs(lexer.ASSIGN) {
				p.nextToken()
				ap := &AssignmentPattern{Token: p.curToken, Left: value}
				p.nextToken()
				ap.Right = p.parseExpression(LOWEST)
				if ap.Right == nil {
					return nil
				}
				value = ap
			}
			prop.Value = value
		}
		if prop.Value == nil {
			return nil
		}
		pat.Properties = append(pat.Properties, prop)

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
	return pat
}

func (p *Parser) parseFunctionDeclaration() Statement {
	tok := p.curToken
	fn, ok := p.parseFunctionLiteral().(*FunctionLiteral)
	if !ok || fn == nil {
		return nil
	}
	return &FunctionDeclaration{Token: tok, Function: fn}
}

func (p *Parser) parseExpressionStatement() Statement {
	stmt := &ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	if !p.expectStatementEnd() {
		return nil
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *BlockStatement {
	block := &BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	if p.curTokenIs(lexer.EOF) {
		p.addError(p.curToken, "'}' expected.")
	}
	return block
}

// parseBody parses the statement that forms the body of a control statement.
func (p *Parser) parseBody() Statement {
	p.nextToken()
	if p.curTokenIs(lexer.EOF) {
		p.addError(p.curToken, "Statement expected.")
		return nil
	}
	return p.parseStatement()
}

// parseParenCondition parses `( expr )` after a keyword.
func (p *Parser) parseParenCondition() Expression {
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseIfStatement() Statement {
	stmt := &IfStatement{Token: p.curToken}
	if stmt.Condition = p.parseParenCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Consequence = p.parseBody(); stmt.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if stmt.Alternative = p.parseBody(); stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() Statement {
	stmt := &WhileStatement{Token: p.curToken}
	if stmt.Condition = p.parseParenCondition(); stmt.Condition == nil {
		return nil
	}
	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseDoWhileStatement() Statement {
	stmt := &DoWhileStatement{Token: p.curToken}
	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	if !p.expectPeek(lexer.WHILE) {
		return nil
	}
	if stmt.Condition = p.parseParenCondition(); stmt.Condition == nil {
		return nil
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseForStatement() Statement {
	stmt := &ForStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()

	switch p.curToken.Type {
	case lexer.SEMICOLON:
	case lexer.VAR, lexer.LET, lexer.CONST:
		init := p.parseVariableStatement(true)
		if init == nil || !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
		stmt.Init = init
	default:
		init := &ExpressionStatement{Token: p.curToken}
		if init.Expression = p.parseExpression(LOWEST); init.Expression == nil {
			return nil
		}
		if p.peekTokenIs(lexer.IN) || p.peekIsContextual("of") {
			p.addError(p.peekToken, "for-in and for-of loops are not supported")
			return nil
		}
		if !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
		stmt.Init = init
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		if stmt.Condition = p.parseExpression(LOWEST); stmt.Condition == nil {
			return nil
		}
		if !p.expectPeek(lexer.SEMICOLON) {
			return nil
		}
	}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		if stmt.Update = p.parseExpression(LOWEST); stmt.Update == nil {
			return nil
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
	}

	if stmt.Body = p.parseBody(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() Statement {
	stmt := &ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) ||
		p.peekToken.Line > p.curToken.Line {
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil || !p.expectStatementEnd() {
		return nil
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() Statement {
	stmt := &SwitchStatement{Token: p.curToken}
	if stmt.Discriminant = p.parseParenCondition(); stmt.Discriminant == nil {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken()

	sawDefault := false
	for !p.curTokenIs(lexer.RBRACE) {
		c := &SwitchCase{Token: p.curToken}
		switch p.curToken.Type {
		case lexer.CASE:
			p.nextToken()
			if c.Test = p.parseExpression(LOWEST); c.Test == nil {
				return nil
			}
		case lexer.DEFAULT:
			if sawDefault {
				p.addError(p.curToken, "A 'default' clause cannot appear more than once in a 'switch' statement.")
				return nil
			}
			sawDefault = true
		case lexer.EOF:
			p.addError(p.curToken, "'}' expected.")
			return nil
		default:
			p.addError(p.curToken, "'case' or 'default' expected.")
			return nil
		}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		for !p.curTokenIs(lexer.CASE) && !p.curTokenIs(lexer.DEFAULT) &&
			!p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
			if s := p.parseStatement(); s != nil {
				c.Body = append(c.Body, s)
			} else {
				p.synchronize()
			}
			p.nextToken()
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	return stmt
}

func (p *Parser) parseTypeAliasStatement() Statement {
	stmt := &TypeAliasStatement{Token: p.curToken}
	p.nextToken()
	stmt.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	if stmt.Type = p.parseType(); stmt.Type == nil {
		return nil
	}
	if !p.expectStatementEnd() {
		return nil
	}
	return stmt
}
