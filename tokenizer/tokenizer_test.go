package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTokenIterator(t *testing.T) {
	query := `*[_type == "article"] { title }`
	tokenizer := NewGroqTokenizer(query)

	expectedTypes := []TokenType{
		STAR, OPENED_BRACKET, IDENT, WHITESPACE, EQUAL, WHITESPACE, STRING, CLOSED_BRACKET,
		WHITESPACE, OPENED_BRACE, WHITESPACE, IDENT, WHITESPACE, CLOSED_BRACE, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestTokenIteratorSkipWhitespace(t *testing.T) {
	query := `*[published == true] | order(date asc)`
	tokenizer := NewGroqTokenizer(query, TokenizerOptions{SkipWhitespace: true})

	expectedTypes := []TokenType{
		STAR, OPENED_BRACKET, IDENT, EQUAL, BOOLEAN, CLOSED_BRACKET,
		PIPE, IDENT, OPENED_PARENS, IDENT, IDENT, CLOSED_PARENS, EOF,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)

		if token.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestMultiCharacterOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "comparison operators",
			input:    `a == b != c <= d >= e < f > g`,
			expected: []TokenType{IDENT, EQUAL, IDENT, NOT_EQUAL, IDENT, LESS_EQUAL, IDENT, GREATER_EQUAL, IDENT, LESS_THAN, IDENT, GREATER_THAN, IDENT, EOF},
		},
		{
			name:     "logical operators",
			input:    `a && b || !c`,
			expected: []TokenType{IDENT, AND, IDENT, OR, NOT, IDENT, EOF},
		},
		{
			name:     "ranges and spread",
			input:    `0..5 0...5 ...`,
			expected: []TokenType{NUMBER, DOT_DOT, NUMBER, NUMBER, ELLIPSIS, NUMBER, ELLIPSIS, EOF},
		},
		{
			name:     "dereference and pipe",
			input:    `author->name | order(x)`,
			expected: []TokenType{IDENT, ARROW, IDENT, PIPE, IDENT, OPENED_PARENS, IDENT, CLOSED_PARENS, EOF},
		},
		{
			name:     "namespace and conditional",
			input:    `string::split(a, ",") x => y`,
			expected: []TokenType{IDENT, DOUBLE_COLON, IDENT, OPENED_PARENS, IDENT, COMMA, STRING, CLOSED_PARENS, IDENT, FAT_ARROW, IDENT, EOF},
		},
		{
			name:     "keywords",
			input:    `true false null in asc desc`,
			expected: []TokenType{BOOLEAN, BOOLEAN, NULL, IN, IDENT, IDENT, EOF},
		},
		{
			name:     "this and params",
			input:    `@ $since $userId`,
			expected: []TokenType{AT, PARAM, PARAM, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewGroqTokenizer(tt.input, TokenizerOptions{SkipWhitespace: true})

			tokens, err := tok.AllTokens()
			assert.NoError(t, err)

			actualTypes := make([]TokenType, len(tokens))
			for i, token := range tokens {
				actualTypes[i] = token.Type
			}

			assert.Equal(t, tt.expected, actualTypes)
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "double quoted", input: `"hello"`, expected: "hello"},
		{name: "single quoted", input: `'hello'`, expected: "hello"},
		{name: "escaped quote", input: `"say \"hi\""`, expected: `say "hi"`},
		{name: "escaped backslash", input: `"a\\b"`, expected: `a\b`},
		{name: "control escapes", input: `"a\n\t\r\b\f"`, expected: "a\n\t\r\b\f"},
		{name: "unicode escape", input: `"\u00e9"`, expected: "é"},
		{name: "uppercase unicode escape", input: `"\u00C9"`, expected: "É"},
		{name: "slash escape", input: `"\/"`, expected: "/"},
		{name: "raw unicode", input: `"café 🌍"`, expected: "café 🌍"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewGroqTokenizer(tt.input)

			tokens, err := tok.AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, STRING, tokens[0].Type)
			assert.Equal(t, tt.expected, tokens[0].Value)
		})
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "42", expected: "42"},
		{input: "3.14", expected: "3.14"},
		{input: "0.5", expected: "0.5"},
		{input: "1e10", expected: "1e10"},
		{input: "2.5e-3", expected: "2.5e-3"},
		{input: "1E+2", expected: "1E+2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewGroqTokenizer(tt.input)

			tokens, err := tok.AllTokens()
			assert.NoError(t, err)
			assert.Equal(t, NUMBER, tokens[0].Type)
			assert.Equal(t, tt.expected, tokens[0].Value)
		})
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "invalid character", input: `a # b`, expected: ErrInvalidCharacter},
		{name: "lone ampersand", input: `a & b`, expected: ErrInvalidCharacter},
		{name: "lone equal", input: `a = b`, expected: ErrInvalidCharacter},
		{name: "unterminated string", input: `"never closed`, expected: ErrUnterminatedString},
		{name: "unterminated single quoted", input: `'nope`, expected: ErrUnterminatedString},
		{name: "invalid escape", input: `"bad \x"`, expected: ErrInvalidEscape},
		{name: "short unicode escape", input: `"\u12"`, expected: ErrInvalidEscape},
		{name: "bare param marker", input: `$ name`, expected: ErrInvalidCharacter},
		{name: "invalid exponent", input: `1e+`, expected: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewGroqTokenizer(tt.input, TokenizerOptions{SkipWhitespace: true})

			_, err := tok.AllTokens()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected))
		})
	}
}

func TestTokenPositions(t *testing.T) {
	query := "*[a]\n| b"
	tok := NewGroqTokenizer(query, TokenizerOptions{SkipWhitespace: true})

	tokens, err := tok.AllTokens()
	assert.NoError(t, err)

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 1, Column: 3, Offset: 2}, tokens[2].Position)
	assert.Equal(t, Position{Line: 2, Column: 1, Offset: 5}, tokens[4].Position)
}

func TestIteratorEarlyTermination(t *testing.T) {
	tok := NewGroqTokenizer(`* [ a ]`, TokenizerOptions{SkipWhitespace: true})

	count := 0
	for _, err := range tok.Tokens() {
		assert.NoError(t, err)

		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}
