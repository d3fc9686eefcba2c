package lexer

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The text of the token; unescaped for strings, NFC-normalized for identifiers
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number (rune index) where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + Literals
	IDENT         TokenType = "IDENT"
	NUMBER        TokenType = "NUMBER"
	BIGINT        TokenType = "BIGINT" // 10n, literal without the suffix
	STRING        TokenType = "STRING"
	REGEX_LITERAL TokenType = "REGEX_LITERAL"

	// Operators
	ASSIGN     TokenType = "="
	PLUS       TokenType = "+"
	MINUS      TokenType = "-"
	BANG       TokenType = "!"
	ASTERISK   TokenType = "*"
	SLASH      TokenType = "/"
	REMAINDER  TokenType = "%"
	EXPONENT   TokenType = "**"
	LT         TokenType = "<"
	GT         TokenType = ">"
	LE         TokenType = "<="
	GE         TokenType = ">="
	EQ         TokenType = "=="
	NOT_EQ     TokenType = "!="
	STRICT_EQ  TokenType = "==="
	STRICT_NEQ TokenType = "!=="

	BITWISE_AND TokenType = "&"
	PIPE        TokenType = "|" // bitwise or, and union in type position
	BITWISE_XOR TokenType = "^"
	BITWISE_NOT TokenType = "~"
	LEFT_SHIFT  TokenType = "<<"
	RIGHT_SHIFT TokenType = ">>"
	URSHIFT     TokenType = ">>>"

	LOGICAL_AND TokenType = "&&"
	LOGICAL_OR  TokenType = "||"
	COALESCE    TokenType = "??"

	// Compound Assignment
	PLUS_ASSIGN        TokenType = "+="
	MINUS_ASSIGN       TokenType = "-="
	ASTERISK_ASSIGN    TokenType = "*="
	SLASH_ASSIGN       TokenType = "/="
	REMAINDER_ASSIGN   TokenType = "%="
	EXPONENT_ASSIGN    TokenType = "**="
	LEFT_SHIFT_ASSIGN  TokenType = "<<="
	RIGHT_SHIFT_ASSIGN TokenType = ">>="
	URSHIFT_ASSIGN     TokenType = ">>>="
	AND_ASSIGN         TokenType = "&="
	OR_ASSIGN          TokenType = "|="
	XOR_ASSIGN         TokenType = "^="
	LOGICAL_AND_ASSIGN TokenType = "&&="
	LOGICAL_OR_ASSIGN  TokenType = "||="
	COALESCE_ASSIGN    TokenType = "??="

	// Increment/Decrement
	INC TokenType = "++"
	DEC TokenType = "--"

	// Delimiters
	DOT               TokenType = "."
	SPREAD            TokenType = "..."
	QUESTION          TokenType = "?"
	OPTIONAL_CHAINING TokenType = "?."
	ARROW             TokenType = "=>"
	COMMA             TokenType = ","
	SEMICOLON         TokenType = ";"
	COLON             TokenType = ":"
	LPAREN            TokenType = "("
	RPAREN            TokenType = ")"
	LBRACE            TokenType = "{"
	RBRACE            TokenType = "}"
	LBRACKET          TokenType = "["
	RBRACKET          TokenType = "]"

	// Keywords
	FUNCTION   TokenType = "FUNCTION"
	VAR        TokenType = "VAR"
	LET        TokenType = "LET"
	CONST      TokenType = "CONST"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NULL       TokenType = "NULL"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	RETURN     TokenType = "RETURN"
	WHILE      TokenType = "WHILE"
	DO         TokenType = "DO"
	FOR        TokenType = "FOR"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	SWITCH     TokenType = "SWITCH"
	CASE       TokenType = "CASE"
	DEFAULT    TokenType = "DEFAULT"
	NEW        TokenType = "NEW"
	TYPEOF     TokenType = "TYPEOF"
	DELETE     TokenType = "DELETE"
	VOID       TokenType = "VOID"
	IN         TokenType = "IN"
	INSTANCEOF TokenType = "INSTANCEOF"
	ENUM       TokenType = "ENUM"
	INTERFACE  TokenType = "INTERFACE"
	EXTENDS    TokenType = "EXTENDS"
)

// `type`, `as` and `readonly` are contextual and stay IDENT; `undefined` is an
// ordinary identifier resolved by the checker.
var keywords = map[string]TokenType{
	"function":   FUNCTION,
	"var":        VAR,
	"let":        LET,
	"const":      CONST,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"if":         IF,
	"else":       ELSE,
	"return":     RETURN,
	"while":      WHILE,
	"do":         DO,
	"for":        FOR,
	"break":      BREAK,
	"continue":   CONTINUE,
	"switch":     SWITCH,
	"case":       CASE,
	"default":    DEFAULT,
	"new":        NEW,
	"typeof":     TYPEOF,
	"delete":     DELETE,
	"void":       VOID,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"enum":       ENUM,
	"interface":  INTERFACE,
	"extends":    EXTENDS,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether t is a reserved word. Reserved words are still
// valid property names after '.' and in object literal keys.
func IsKeyword(t TokenType) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}

// regexAllowedAfter lists tokens after which '/' cannot be a division operator.
func regexAllowedAfter(prev TokenType) bool {
	switch prev {
	case IDENT, NUMBER, BIGINT, STRING, REGEX_LITERAL, RPAREN, RBRACKET, RBRACE,
		TRUE, FALSE, NULL, INC, DEC:
		return false
	}
	return true
}
