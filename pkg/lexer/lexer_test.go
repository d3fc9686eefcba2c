package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `let five = 5;
const big = 10n;
enum E { A = 1 << 2 }
x ??= y?.z ?? 0x1F;
a >>>= 2; b **= 3;
// comment
/* block */ interface I extends J {}
[...xs] => 1_000.5e2;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{LET, "let", 1},
		{IDENT, "five", 1},
		{ASSIGN, "=", 1},
		{NUMBER, "5", 1},
		{SEMICOLON, ";", 1},
		{CONST, "const", 2},
		{IDENT, "big", 2},
		{ASSIGN, "=", 2},
		{BIGINT, "10", 2},
		{SEMICOLON, ";", 2},
		{ENUM, "enum", 3},
		{IDENT, "E", 3},
		{LBRACE, "{", 3},
		{IDENT, "A", 3},
		{ASSIGN, "=", 3},
		{NUMBER, "1", 3},
		{LEFT_SHIFT, "<<", 3},
		{NUMBER, "2", 3},
		{RBRACE, "}", 3},
		{IDENT, "x", 4},
		{COALESCE_ASSIGN, "??=", 4},
		{IDENT, "y", 4},
		{OPTIONAL_CHAINING, "?.", 4},
		{IDENT, "z", 4},
		{COALESCE, "??", 4},
		{NUMBER, "0x1F", 4},
		{SEMICOLON, ";", 4},
		{IDENT, "a", 5},
		{URSHIFT_ASSIGN, ">>>=", 5},
		{NUMBER, "2", 5},
		{SEMICOLON, ";", 5},
		{IDENT, "b", 5},
		{EXPONENT_ASSIGN, "**=", 5},
		{NUMBER, "3", 5},
		{SEMICOLON, ";", 5},
		{INTERFACE, "interface", 7},
		{IDENT, "I", 7},
		{EXTENDS, "extends", 7},
		{IDENT, "J", 7},
		{LBRACE, "{", 7},
		{RBRACE, "}", 7},
		{LBRACKET, "[", 8},
		{SPREAD, "...", 8},
		{IDENT, "xs", 8},
		{RBRACKET, "]", 8},
		{ARROW, "=>", 8},
		{NUMBER, "1000.5e2", 8},
		{SEMICOLON, ";", 8},
		{EOF, "", 8},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] literal %q", i, tok.Literal)
		assert.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d]", i)
		assert.Equal(t, tt.expectedLine, tok.Line, "tests[%d] %q", i, tok.Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"newline", `"a\nb"`, "a\nb"},
		{"single quotes", `'it\'s'`, "it's"},
		{"hex", `"\x41"`, "A"},
		{"unicode", `"é"`, "é"},
		{"code point", `"\u{1F600}"`, "\U0001F600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewLexer(tt.input).NextToken()
			require.Equal(t, STRING, tok.Type, tok.Literal)
			assert.Equal(t, tt.expect, tok.Literal)
		})
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unterminated string", `"abc`, "Unterminated string literal"},
		{"unterminated comment", "/* never closed", "Unterminated multiline comment"},
		{"template", "`x`", "template literals are not supported"},
		{"unterminated regex", "let r = /abc", "Unterminated regular expression literal"},
		{"stray character", "let a = #", "Invalid character '#'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var last Token
			for _, tok := range NewLexer(tt.input).Tokenize() {
				if tok.Type == ILLEGAL {
					last = tok
					break
				}
			}
			assert.Equal(t, ILLEGAL, last.Type)
			assert.Equal(t, tt.msg, last.Literal)
		})
	}
}

func TestRegexVersusDivision(t *testing.T) {
	toks := NewLexer("let r = /a[/]b/gi; x = a / b / c;").Tokenize()
	require.Equal(t, REGEX_LITERAL, toks[3].Type)
	assert.Equal(t, "/a[/]b/gi", toks[3].Literal)

	var slashes int
	for _, tok := range toks[5:] {
		if tok.Type == SLASH {
			slashes++
		}
	}
	assert.Equal(t, 2, slashes)
}

func TestIdentifiersAreNormalized(t *testing.T) {
	composed := NewLexer("caf\u00e9").NextToken()
	decomposed := NewLexer("cafe\u0301").NextToken()
	require.Equal(t, IDENT, composed.Type)
	require.Equal(t, IDENT, decomposed.Type)
	assert.Equal(t, composed.Literal, decomposed.Literal)
}

func TestColumnsCountRunes(t *testing.T) {
	toks := NewLexer("é = 1").Tokenize()
	assert.Equal(t, 1, toks[0].Column)
	assert.Equal(t, 3, toks[1].Column)
	assert.Equal(t, 3, toks[1].StartPos)
}
