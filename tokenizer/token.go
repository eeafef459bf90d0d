package tokenizer

import "errors"

// Sentinel errors
var (
	ErrInvalidCharacter   = errors.New("invalid character")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrInvalidNumber      = errors.New("invalid number format")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	IDENT  // identifiers (including contextual keywords like asc/desc)
	STRING // string literals ('text', "text"), value stored unescaped
	NUMBER // numeric literals, value stored as written
	BOOLEAN
	NULL
	PARAM // $name, value stored without the marker

	// Punctuation
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	COMMA          // ,
	COLON          // :
	DOUBLE_COLON   // ::
	DOT            // .
	DOT_DOT        // ..
	ELLIPSIS       // ...
	ARROW          // ->
	PIPE           // |
	STAR           // *
	AT             // @

	// Operators
	AND           // &&
	OR            // ||
	NOT           // !
	EQUAL         // ==
	NOT_EQUAL     // !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	IN            // in keyword
	MINUS         // - (unary minus, negative slice bounds)
	FAT_ARROW     // =>
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case IDENT:
		return "IDENT"
	case STRING:
		return "STRING"
	case NUMBER:
		return "NUMBER"
	case BOOLEAN:
		return "BOOLEAN"
	case NULL:
		return "NULL"
	case PARAM:
		return "PARAM"
	case OPENED_BRACKET:
		return "OPENED_BRACKET"
	case CLOSED_BRACKET:
		return "CLOSED_BRACKET"
	case OPENED_BRACE:
		return "OPENED_BRACE"
	case CLOSED_BRACE:
		return "CLOSED_BRACE"
	case OPENED_PARENS:
		return "OPENED_PARENS"
	case CLOSED_PARENS:
		return "CLOSED_PARENS"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case DOUBLE_COLON:
		return "DOUBLE_COLON"
	case DOT:
		return "DOT"
	case DOT_DOT:
		return "DOT_DOT"
	case ELLIPSIS:
		return "ELLIPSIS"
	case ARROW:
		return "ARROW"
	case PIPE:
		return "PIPE"
	case STAR:
		return "STAR"
	case AT:
		return "AT"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS_THAN:
		return "LESS_THAN"
	case GREATER_THAN:
		return "GREATER_THAN"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case IN:
		return "IN"
	case MINUS:
		return "MINUS"
	case FAT_ARROW:
		return "FAT_ARROW"
	default:
		return "UNKNOWN"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
