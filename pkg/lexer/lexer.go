package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tscheck/pkg/source"
)

// punctuators is ordered longest first so the scanner takes maximal munch.
var punctuators = []struct {
	text string
	typ  TokenType
}{
	{">>>=", URSHIFT_ASSIGN},
	{"===", STRICT_EQ}, {"!==", STRICT_NEQ}, {"**=", EXPONENT_ASSIGN}, {"<<=", LEFT_SHIFT_ASSIGN},
	{">>=", RIGHT_SHIFT_ASSIGN}, {">>>", URSHIFT}, {"&&=", LOGICAL_AND_ASSIGN}, {"||=", LOGICAL_OR_ASSIGN},
	{"??=", COALESCE_ASSIGN}, {"...", SPREAD},
	{"==", EQ}, {"!=", NOT_EQ}, {"<=", LE}, {">=", GE}, {"=>", ARROW}, {"+=", PLUS_ASSIGN},
	{"-=", MINUS_ASSIGN}, {"*=", ASTERISK_ASSIGN}, {"/=", SLASH_ASSIGN}, {"%=", REMAINDER_ASSIGN},
	{"&=", AND_ASSIGN}, {"|=", OR_ASSIGN}, {"^=", XOR_ASSIGN}, {"**", EXPONENT}, {"<<", LEFT_SHIFT},
	{">>", RIGHT_SHIFT}, {"&&", LOGICAL_AND}, {"||", LOGICAL_OR}, {"??", COALESCE}, {"++", INC}, {"--", DEC},
	{"=", ASSIGN}, {"+", PLUS}, {"-", MINUS}, {"!", BANG}, {"*", ASTERISK}, {"/", SLASH}, {"%", REMAINDER},
	{"<", LT}, {">", GT}, {"&", BITWISE_AND}, {"|", PIPE}, {"^", BITWISE_XOR}, {"~", BITWISE_NOT},
	{".", DOT}, {"?", QUESTION}, {",", COMMA}, {";", SEMICOLON}, {":", COLON}, {"(", LPAREN}, {")", RPAREN},
	{"{", LBRACE}, {"}", RBRACE}, {"[", LBRACKET}, {"]", RBRACKET},
}

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	source       *source.SourceFile
	position     int  // byte offset of ch
	readPosition int  // byte offset after ch
	ch           rune // current char under examination, 0 at EOF
	line         int
	column       int
	lastType     TokenType // type of the previously returned token, for regex detection
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	return NewLexerWithSource(source.NewEvalSource(input))
}

// NewLexerWithSource creates a lexer over a source file so positions can be
// attributed to it.
func NewLexerWithSource(src *source.SourceFile) *Lexer {
	l := &Lexer{input: src.Content, source: src, line: 1, lastType: EOF}
	l.readChar()
	return l
}

// Source returns the file being scanned.
func (l *Lexer) Source() *source.SourceFile {
	return l.source
}

// readChar advances by one rune and maintains line and column.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// skipWhitespaceAndComments returns false when it ran into an unterminated
// block comment.
func (l *Lexer) skipWhitespaceAndComments() bool {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\uFEFF':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch == 0 {
				return false
			}
			l.readChar()
			l.readChar()
		default:
			return true
		}
	}
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	l.lastType = tok.Type
	return tok
}

// Tokenize scans the whole input. The slice always ends with an EOF token.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) scan() Token {
	commentLine, commentCol, commentPos := l.line, l.column, l.position
	if !l.skipWhitespaceAndComments() {
		return Token{Type: ILLEGAL, Literal: "Unterminated multiline comment", Line: commentLine, Column: commentCol, StartPos: commentPos, EndPos: l.position}
	}

	startLine, startCol, startPos := l.line, l.column, l.position
	mk := func(t TokenType, lit string) Token {
		return Token{Type: t, Literal: lit, Line: startLine, Column: startCol, StartPos: startPos, EndPos: l.position}
	}

	switch {
	case l.ch == 0:
		return mk(EOF, "")
	case l.ch == '"' || l.ch == '\'':
		lit, err := l.readString(l.ch)
		if err != nil {
			return mk(ILLEGAL, err.Error())
		}
		return mk(STRING, lit)
	case l.ch == '`':
		l.readChar()
		return mk(ILLEGAL, "template literals are not supported")
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		lit, isBigInt := l.readNumber()
		if isBigInt {
			return mk(BIGINT, lit)
		}
		return mk(NUMBER, lit)
	case isIdentStart(l.ch):
		lit := l.readIdentifier()
		return mk(LookupIdent(lit), lit)
	case l.ch == '/' && regexAllowedAfter(l.lastType):
		lit, ok := l.readRegex()
		if !ok {
			return mk(ILLEGAL, "Unterminated regular expression literal")
		}
		return mk(REGEX_LITERAL, lit)
	case l.ch == '?' && l.peekChar() == '.':
		// a?.5:1 is a conditional, not optional chaining
		if next := l.peekAt(l.readPosition + 1); !isDigit(next) {
			l.readChar()
			l.readChar()
			return mk(OPTIONAL_CHAINING, "?.")
		}
	}

	rest := l.input[l.position:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p.text) {
			for range p.text {
				l.readChar()
			}
			return mk(p.typ, p.text)
		}
	}

	illegal := l.ch
	l.readChar()
	return mk(ILLEGAL, fmt.Sprintf("Invalid character %q", illegal))
}

func (l *Lexer) peekAt(pos int) rune {
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

// readIdentifier reads an identifier and returns it in Unicode NFC form so that
// composed and decomposed spellings name the same binding.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return norm.NFC.String(l.input[start:l.position])
}

// readNumber reads decimal, hex (0x), octal (0o) and binary (0b) literals with
// '_' separators and an optional bigint 'n' suffix. The literal is returned
// with separators and suffix removed.
func (l *Lexer) readNumber() (string, bool) {
	start := l.position
	base := 10
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			l.readChar()
			l.readChar()
		}
	}
	for isDigitForBase(l.ch, base) || l.ch == '_' {
		l.readChar()
	}
	if base == 10 {
		if l.ch == '.' {
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
	}
	lit := strings.ReplaceAll(l.input[start:l.position], "_", "")
	if l.ch == 'n' {
		l.readChar()
		return lit, true
	}
	return lit, false
}

// readString reads a quoted string literal and returns its unescaped content.
func (l *Lexer) readString(quote rune) (string, error) {
	var b strings.Builder
	l.readChar() // opening quote
	for {
		switch l.ch {
		case quote:
			l.readChar()
			return b.String(), nil
		case 0, '\n':
			return "", fmt.Errorf("Unterminated string literal")
		case '\\':
			l.readChar()
			if err := l.readEscape(&b); err != nil {
				return "", err
			}
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
}

func (l *Lexer) readEscape(b *strings.Builder) error {
	switch l.ch {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		return l.readHexEscape(b, 2)
	case 'u':
		if l.peekChar() == '{' {
			l.readChar()
			l.readChar()
			start := l.position
			for isHexDigit(l.ch) {
				l.readChar()
			}
			if l.ch != '}' {
				return fmt.Errorf("Invalid Unicode escape sequence")
			}
			v, err := strconv.ParseUint(l.input[start:l.position], 16, 32)
			if err != nil || v > unicode.MaxRune {
				return fmt.Errorf("Invalid Unicode escape sequence")
			}
			b.WriteRune(rune(v))
			break
		}
		return l.readHexEscape(b, 4)
	case 0:
		return fmt.Errorf("Unterminated string literal")
	default:
		b.WriteRune(l.ch)
	}
	l.readChar()
	return nil
}

// readHexEscape is entered with ch on the escape letter ('x' or 'u').
func (l *Lexer) readHexEscape(b *strings.Builder, digits int) error {
	end := l.readPosition + digits
	if end > len(l.input) {
		return fmt.Errorf("Invalid hexadecimal escape sequence")
	}
	v, err := strconv.ParseUint(l.input[l.readPosition:end], 16, 32)
	if err != nil {
		return fmt.Errorf("Invalid hexadecimal escape sequence")
	}
	for i := 0; i <= digits; i++ {
		l.readChar()
	}
	b.WriteRune(rune(v))
	return nil
}

// readRegex reads /body/flags. The returned literal keeps both slashes and the
// flags; the parser splits and validates it.
func (l *Lexer) readRegex() (string, bool) {
	start := l.position
	l.readChar() // opening '/'
	inClass := false
	for {
		switch l.ch {
		case 0, '\n':
			return "", false
		case '\\':
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				return "", false
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				l.readChar()
				for isIdentPart(l.ch) {
					l.readChar()
				}
				return l.input[start:l.position], true
			}
		}
		l.readChar()
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch) || unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isDigitForBase(ch rune, base int) bool {
	switch base {
	case 16:
		return isHexDigit(ch)
	case 8:
		return '0' <= ch && ch <= '7'
	case 2:
		return ch == '0' || ch == '1'
	default:
		return isDigit(ch)
	}
}
