package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses the Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// GroqTokenizer is a tokenizer that returns an iterator over GROQ tokens
type GroqTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
}

// NewGroqTokenizer creates a new GroqTokenizer
func NewGroqTokenizer(input string, options ...TokenizerOptions) *GroqTokenizer {
	opts := TokenizerOptions{
		SkipWhitespace: false,
	}
	if len(options) > 0 {
		opts = options[0]
	}

	return &GroqTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. Lexing stops at the first error.
func (t *GroqTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 0,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens collects every token into a slice, stopping at EOF or the
// first lexical error.
func (t *GroqTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// Internal tokenizer implementation
type tokenizer struct {
	input    string
	position int // byte offset one past current
	line     int
	column   int
	current  rune
	width    int // byte width of current
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	switch t.current {
	case 0:
		return t.newToken(EOF, ""), nil
	case ' ', '\t', '\r', '\n':
		return t.readWhitespace(), nil
	case '[':
		return t.single(OPENED_BRACKET), nil
	case ']':
		return t.single(CLOSED_BRACKET), nil
	case '{':
		return t.single(OPENED_BRACE), nil
	case '}':
		return t.single(CLOSED_BRACE), nil
	case '(':
		return t.single(OPENED_PARENS), nil
	case ')':
		return t.single(CLOSED_PARENS), nil
	case ',':
		return t.single(COMMA), nil
	case '*':
		return t.single(STAR), nil
	case '@':
		return t.single(AT), nil
	case ':':
		if t.peekChar() == ':' {
			return t.double(DOUBLE_COLON, "::"), nil
		}

		return t.single(COLON), nil
	case '.':
		if t.peekChar() == '.' {
			start := t.pos()
			t.readChar()
			t.readChar()

			if t.current == '.' {
				t.readChar()
				return Token{Type: ELLIPSIS, Value: "...", Position: start}, nil
			}

			return Token{Type: DOT_DOT, Value: "..", Position: start}, nil
		}

		return t.single(DOT), nil
	case '-':
		if t.peekChar() == '>' {
			return t.double(ARROW, "->"), nil
		}

		return t.single(MINUS), nil
	case '|':
		if t.peekChar() == '|' {
			return t.double(OR, "||"), nil
		}

		return t.single(PIPE), nil
	case '&':
		if t.peekChar() == '&' {
			return t.double(AND, "&&"), nil
		}

		return Token{}, t.invalidCharError('&')
	case '!':
		if t.peekChar() == '=' {
			return t.double(NOT_EQUAL, "!="), nil
		}

		return t.single(NOT), nil
	case '=':
		if t.peekChar() == '=' {
			return t.double(EQUAL, "=="), nil
		}

		if t.peekChar() == '>' {
			return t.double(FAT_ARROW, "=>"), nil
		}

		return Token{}, t.invalidCharError('=')
	case '<':
		if t.peekChar() == '=' {
			return t.double(LESS_EQUAL, "<="), nil
		}

		return t.single(LESS_THAN), nil
	case '>':
		if t.peekChar() == '=' {
			return t.double(GREATER_EQUAL, ">="), nil
		}

		return t.single(GREATER_THAN), nil
	case '\'', '"':
		return t.readString(t.current)
	case '$':
		return t.readParam()
	default:
		if isIdentStart(t.current) {
			return t.readWord(), nil
		}

		if unicode.IsDigit(t.current) {
			return t.readNumber()
		}

		return Token{}, t.invalidCharError(t.current)
	}
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.position >= len(t.input) {
		t.current = 0
		t.width = 0
		t.position = len(t.input) + 1
		t.column++

		return
	}

	r, w := utf8.DecodeRuneInString(t.input[t.position:])
	t.current = r
	t.width = w
	t.position += w

	if r == '\n' {
		t.line++
		t.column = 0
	} else {
		t.column++
	}
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.position >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[t.position:])

	return r
}

// pos returns the position of the current character
func (t *tokenizer) pos() Position {
	return Position{
		Line:   t.line,
		Column: t.column,
		Offset: t.position - t.width,
	}
}

func (t *tokenizer) single(tokenType TokenType) Token {
	token := Token{Type: tokenType, Value: string(t.current), Position: t.pos()}
	t.readChar()

	return token
}

func (t *tokenizer) double(tokenType TokenType, value string) Token {
	token := Token{Type: tokenType, Value: value, Position: t.pos()}
	t.readChar()
	t.readChar()

	return token
}

func (t *tokenizer) invalidCharError(r rune) error {
	pos := t.pos()

	return fmt.Errorf("%w: %q at line %d, column %d", ErrInvalidCharacter, r, pos.Line, pos.Column)
}

// readWhitespace reads a run of whitespace characters
func (t *tokenizer) readWhitespace() Token {
	var builder strings.Builder

	start := t.pos()

	for unicode.IsSpace(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: WHITESPACE, Value: builder.String(), Position: start}
}

// readWord reads identifiers and keywords
func (t *tokenizer) readWord() Token {
	var builder strings.Builder

	start := t.pos()

	for isIdentPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	word := builder.String()

	return Token{Type: keywordTokenType(word), Value: word, Position: start}
}

// readParam reads a $name parameter reference. The value excludes the marker.
func (t *tokenizer) readParam() (Token, error) {
	start := t.pos()
	t.readChar()

	if !isIdentStart(t.current) {
		return Token{}, fmt.Errorf("%w: expected identifier after '$' at line %d, column %d", ErrInvalidCharacter, start.Line, start.Column)
	}

	var builder strings.Builder

	for isIdentPart(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	return Token{Type: PARAM, Value: builder.String(), Position: start}, nil
}

// readString reads a string literal in either quote style. The stored
// value is the unescaped content without the delimiters.
func (t *tokenizer) readString(delimiter rune) (Token, error) {
	var builder strings.Builder

	start := t.pos()
	t.readChar()

	for t.current != 0 && t.current != delimiter {
		if t.current == '\\' {
			t.readChar()

			r, err := t.readEscape()
			if err != nil {
				return Token{}, err
			}

			builder.WriteRune(r)

			continue
		}

		builder.WriteRune(t.current)
		t.readChar()
	}

	if t.current == 0 {
		return Token{}, fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, delimiter, start.Line, start.Column)
	}

	t.readChar() // closing quote

	return Token{Type: STRING, Value: builder.String(), Position: start}, nil
}

// readEscape decodes one escape sequence; the caller has consumed the backslash.
func (t *tokenizer) readEscape() (rune, error) {
	pos := t.pos()
	c := t.current
	t.readChar()

	switch c {
	case '"', '\'', '\\', '/':
		return c, nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		var value rune

		for range 4 {
			d := hexDigit(t.current)
			if d < 0 {
				return 0, fmt.Errorf("%w: \\u requires four hex digits at line %d, column %d", ErrInvalidEscape, pos.Line, pos.Column)
			}

			value = value<<4 | rune(d)

			t.readChar()
		}

		return value, nil
	case 0:
		return 0, fmt.Errorf("%w: unterminated escape at line %d, column %d", ErrInvalidEscape, pos.Line, pos.Column)
	default:
		return 0, fmt.Errorf("%w: \\%c at line %d, column %d", ErrInvalidEscape, c, pos.Line, pos.Column)
	}
}

// readNumber reads numeric literals: integer or decimal with optional exponent.
// The value keeps the source spelling so formatting never rewrites numbers.
func (t *tokenizer) readNumber() (Token, error) {
	var builder strings.Builder

	start := t.pos()

	for unicode.IsDigit(t.current) {
		builder.WriteRune(t.current)
		t.readChar()
	}

	// Decimal point, but not the start of a range operator
	if t.current == '.' && unicode.IsDigit(t.peekChar()) {
		builder.WriteRune(t.current)
		t.readChar()

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	if t.current == 'e' || t.current == 'E' {
		builder.WriteRune(t.current)
		t.readChar()

		if t.current == '+' || t.current == '-' {
			builder.WriteRune(t.current)
			t.readChar()
		}

		if !unicode.IsDigit(t.current) {
			return Token{}, fmt.Errorf("%w: invalid exponent at line %d, column %d", ErrInvalidNumber, start.Line, start.Column)
		}

		for unicode.IsDigit(t.current) {
			builder.WriteRune(t.current)
			t.readChar()
		}
	}

	return Token{Type: NUMBER, Value: builder.String(), Position: start}, nil
}

// newToken creates a token at the current position
func (t *tokenizer) newToken(tokenType TokenType, value string) Token {
	return Token{Type: tokenType, Value: value, Position: t.pos()}
}

// keywordTokenType classifies reserved words; everything else is an identifier.
// asc and desc stay identifiers because they are only meaningful by position.
func keywordTokenType(word string) TokenType {
	switch word {
	case "true", "false":
		return BOOLEAN
	case "null":
		return NULL
	case "in":
		return IN
	default:
		return IDENT
	}
}

func hexDigit(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
