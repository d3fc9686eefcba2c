package parser

import (
	"fmt"

	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser builds an AST from the token stream of one source file. The whole
// input is tokenized up front so arrow function heads can be parsed
// speculatively and rewound.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source *source.SourceFile
	errors []errors.Diagnostic

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	// Shorthand properties written with an initializer, `{a = 1}`. They are
	// only valid once the literal turns out to be an assignment pattern.
	coverInits []*ObjectProperty
	converted  map[*ObjectProperty]bool
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression // Arg is the left side expression
)

// Precedence levels for value operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=, ... (right-associative)
	TERNARY     // ?:
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // <, >, <=, >=, in, instanceof
	ASSERTION   // value as Type
	SHIFT       // <<, >>, >>>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // ** (right-associative)
	PREFIX      // -X !X ++X typeof X
	POSTFIX     // X++ X-- X!
	CALL        // f(X)
	INDEX       // a[i]
	MEMBER      // a.b
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:             ASSIGNMENT,
	lexer.PLUS_ASSIGN:        ASSIGNMENT,
	lexer.MINUS_ASSIGN:       ASSIGNMENT,
	lexer.ASTERISK_ASSIGN:    ASSIGNMENT,
	lexer.SLASH_ASSIGN:       ASSIGNMENT,
	lexer.REMAINDER_ASSIGN:   ASSIGNMENT,
	lexer.EXPONENT_ASSIGN:    ASSIGNMENT,
	lexer.LEFT_SHIFT_ASSIGN:  ASSIGNMENT,
	lexer.RIGHT_SHIFT_ASSIGN: ASSIGNMENT,
	lexer.URSHIFT_ASSIGN:     ASSIGNMENT,
	lexer.AND_ASSIGN:         ASSIGNMENT,
	lexer.OR_ASSIGN:          ASSIGNMENT,
	lexer.XOR_ASSIGN:         ASSIGNMENT,
	lexer.LOGICAL_AND_ASSIGN: ASSIGNMENT,
	lexer.LOGICAL_OR_ASSIGN:  ASSIGNMENT,
	lexer.COALESCE_ASSIGN:    ASSIGNMENT,

	lexer.QUESTION:    TERNARY,
	lexer.COALESCE:    COALESCE,
	lexer.LOGICAL_OR:  LOGICAL_OR,
	lexer.LOGICAL_AND: LOGICAL_AND,

	lexer.PIPE:        BITWISE_OR,
	lexer.BITWISE_XOR: BITWISE_XOR,
	lexer.BITWISE_AND: BITWISE_AND,

	lexer.EQ:         EQUALS,
	lexer.NOT_EQ:     EQUALS,
	lexer.STRICT_EQ:  EQUALS,
	lexer.STRICT_NEQ: EQUALS,

	lexer.LT:         LESSGREATER,
	lexer.GT:         LESSGREATER,
	lexer.LE:         LESSGREATER,
	lexer.GE:         LESSGREATER,
	lexer.IN:         LESSGREATER,
	lexer.INSTANCEOF: LESSGREATER,

	lexer.LEFT_SHIFT:  SHIFT,
	lexer.RIGHT_SHIFT: SHIFT,
	lexer.URSHIFT:     SHIFT,

	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.ASTERISK:  PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.REMAINDER: PRODUCT,
	lexer.EXPONENT:  POWER,

	lexer.INC:  POSTFIX,
	lexer.DEC:  POSTFIX,
	lexer.BANG: POSTFIX, // non-null assertion x!

	lexer.LPAREN:            CALL,
	lexer.LBRACKET:          INDEX,
	lexer.DOT:               MEMBER,
	lexer.OPTIONAL_CHAINING: MEMBER,
}

// NewParser creates a parser over everything the lexer produces. Illegal
// tokens are reported as syntax errors and dropped from the stream.
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		source:    l.Source(),
		converted: make(map[*ObjectProperty]bool),
	}
	for _, tok := range l.Tokenize() {
		if tok.Type == lexer.ILLEGAL {
			p.addError(tok, tok.Literal)
			continue
		}
		p.tokens = append(p.tokens, tok)
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.BIGINT, p.parseBigIntLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.REGEX_LITERAL, p.parseRegexLiteral)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrArrow)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionLiteral)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	for _, t := range []lexer.TokenType{lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.BITWISE_NOT,
		lexer.TYPEOF, lexer.VOID, lexer.DELETE} {
		p.registerPrefix(t, p.parseUnaryExpression)
	}
	p.registerPrefix(lexer.INC, p.parsePrefixUpdate)
	p.registerPrefix(lexer.DEC, p.parsePrefixUpdate)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for t, prec := range precedences {
		switch prec {
		case ASSIGNMENT:
			p.registerInfix(t, p.parseAssignmentExpression)
		case POSTFIX, CALL, INDEX, MEMBER, TERNARY:
		default:
			p.registerInfix(t, p.parseBinaryExpression)
		}
	}
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.INC, p.parsePostfixUpdate)
	p.registerInfix(lexer.DEC, p.parsePostfixUpdate)
	p.registerInfix(lexer.BANG, p.parseNonNullExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.OPTIONAL_CHAINING, p.parseOptionalChain)
	p.registerInfix(lexer.IDENT, p.parseAsExpression) // only reached for `as`

	p.reset(0)
	return p
}

// ParseProgram parses the entire input and returns the root Program node and any errors.
func (p *Parser) ParseProgram() (*Program, []errors.Diagnostic) {
	program := &Program{Source: p.source}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	for _, prop := range p.coverInits {
		if !p.converted[prop] {
			p.addError(prop.Value.NodeToken(), "Invalid shorthand property initializer.")
		}
	}
	return program, p.errors
}

// Errors returns the list of parsing errors.
func (p *Parser) Errors() []errors.Diagnostic {
	return p.errors
}

// --- Token Navigation ---

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

// reset rewinds (or forwards) the parser to the token at index pos.
func (p *Parser) reset(pos int) {
	p.pos = pos
	p.curToken = p.tokens[pos]
	p.peekToken = p.tokenAt(pos + 1)
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// matchingParen returns the index of the ')' closing the '(' at index open,
// or -1.
func (p *Parser) matchingParen(open int) int {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i
			}
		case lexer.EOF:
			return -1
		}
	}
	return -1
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekIsContextual(word string) bool {
	return p.peekToken.Type == lexer.IDENT && p.peekToken.Literal == word
}

// expectPeek checks the type of the next token and advances if it matches.
// If it doesn't match, it adds an error.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectStatementEnd consumes an optional ';'. Without one, the statement
// must be followed by '}', the end of input or a line break.
func (p *Parser) expectStatementEnd() bool {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) || p.peekToken.Line > p.curToken.Line {
		return true
	}
	p.addError(p.peekToken, "';' expected.")
	return false
}

// synchronize skips the rest of a statement that failed to parse.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) && !p.curTokenIs(lexer.SEMICOLON) &&
		!p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
	}
}

// --- Error Handling ---

func (p *Parser) addError(tok lexer.Token, msg string) {
	// Cap the list so a runaway recovery loop cannot exhaust memory.
	const maxErrors = 1000
	if len(p.errors) >= maxErrors {
		if len(p.errors) == maxErrors {
			msg = fmt.Sprintf("too many parse errors (limit: %d), stopping parser", maxErrors)
		} else {
			return
		}
	}
	debugPrint("addError at %d:%d: %s", tok.Line, tok.Column, msg)
	p.errors = append(p.errors, &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   p.source,
		},
		Msg: msg,
	})
}

func (p *Parser) peekError(t lexer.TokenType) {
	got := string(p.peekToken.Type)
	if p.peekTokenIs(lexer.EOF) {
		got = "end of input"
	}
	p.addError(p.peekToken, fmt.Sprintf("expected next token to be %s, got %s instead", t, got))
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.EOF {
		p.addError(tok, "Expression expected.")
		return
	}
	p.addError(tok, fmt.Sprintf("Unexpected token '%s'", tok.Literal))
}

// --- Precedence Helpers ---

func (p *Parser) peekPrecedence() int {
	switch p.peekToken.Type {
	case lexer.IDENT:
		if p.peekToken.Literal == "as" && p.peekToken.Line == p.curToken.Line {
			return ASSERTION
		}
		return LOWEST
	case lexer.INC, lexer.DEC:
		// a line break before ++ starts a new statement
		if p.peekToken.Line > p.curToken.Line {
			return LOWEST
		}
	case lexer.BANG:
		if p.peekToken.StartPos != p.curToken.EndPos {
			return LOWEST
		}
	}
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}
