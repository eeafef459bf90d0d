package parser

import (
	"errors"
	"fmt"

	"github.com/shibukawa/groqfmt/tokenizer"
)

// Sentinel errors
var (
	ErrUnexpectedToken        = errors.New("unexpected token")
	ErrUnclosedDelimiter      = errors.New("unclosed delimiter")
	ErrIncompleteExpression   = errors.New("incomplete expression")
	ErrRecursionLimitExceeded = errors.New("expression nesting too deep")
)

// maxDepth bounds expression nesting so pathological input fails with a
// clean error instead of exhausting the call stack.
const maxDepth = 256

// Parse consumes a token stream and produces the expression tree.
// Whitespace tokens are ignored; the stream must end with EOF.
func Parse(tokens []tokenizer.Token) (Expr, error) {
	p := newParser(tokens)

	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if p.peek().Type != tokenizer.EOF {
		return nil, p.unexpected("end of query", p.peek())
	}

	return expr, nil
}

// ParseQuery tokenizes and parses a GROQ query in one step.
func ParseQuery(query string) (Expr, error) {
	tok := tokenizer.NewGroqTokenizer(query, tokenizer.TokenizerOptions{SkipWhitespace: true})

	tokens, err := tok.AllTokens()
	if err != nil {
		return nil, err
	}

	return Parse(tokens)
}

type parser struct {
	tokens []tokenizer.Token
	pos    int
	depth  int
}

func newParser(tokens []tokenizer.Token) *parser {
	filtered := make([]tokenizer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != tokenizer.WHITESPACE {
			filtered = append(filtered, tok)
		}
	}

	return &parser{tokens: filtered}
}

func (p *parser) peek() tokenizer.Token {
	if p.pos >= len(p.tokens) {
		return tokenizer.Token{Type: tokenizer.EOF}
	}

	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) tokenizer.Token {
	if p.pos+offset >= len(p.tokens) {
		return tokenizer.Token{Type: tokenizer.EOF}
	}

	return p.tokens[p.pos+offset]
}

func (p *parser) next() tokenizer.Token {
	tok := p.peek()
	if tok.Type != tokenizer.EOF {
		p.pos++
	}

	return tok
}

func (p *parser) match(tokenType tokenizer.TokenType) bool {
	if p.peek().Type != tokenType {
		return false
	}

	p.pos++

	return true
}

func (p *parser) unexpected(expected string, found tokenizer.Token) error {
	if found.Type == tokenizer.EOF {
		return fmt.Errorf("%w: expected %s, found end of query", ErrUnexpectedToken, expected)
	}

	return fmt.Errorf("%w: expected %s, found %q at line %d, column %d",
		ErrUnexpectedToken, expected, found.Value, found.Position.Line, found.Position.Column)
}

// expectClosing consumes a closing delimiter, reporting the opener
// position when the input ends before it appears.
func (p *parser) expectClosing(tokenType tokenizer.TokenType, opener tokenizer.Token) error {
	tok := p.peek()
	if tok.Type == tokenType {
		p.pos++
		return nil
	}

	if tok.Type == tokenizer.EOF {
		return fmt.Errorf("%w: %q opened at line %d, column %d is never closed",
			ErrUnclosedDelimiter, opener.Value, opener.Position.Line, opener.Position.Column)
	}

	return p.unexpected(fmt.Sprintf("%q", closingLiteral(tokenType)), tok)
}

func closingLiteral(tokenType tokenizer.TokenType) string {
	switch tokenType {
	case tokenizer.CLOSED_BRACKET:
		return "]"
	case tokenizer.CLOSED_BRACE:
		return "}"
	case tokenizer.CLOSED_PARENS:
		return ")"
	default:
		return tokenType.String()
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrRecursionLimitExceeded, maxDepth)
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseExpression implements precedence climbing over the static
// operator table.
func (p *parser) parseExpression(minPrec int) (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryOperator(p.peek().Type)
		if !ok {
			return left, nil
		}

		info := binaryOps[op]
		if info.prec < minPrec {
			return left, nil
		}

		p.next()

		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}

		right, err := p.parseExpression(nextMin)
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right}
	}
}

func binaryOperator(tokenType tokenizer.TokenType) (Operator, bool) {
	switch tokenType {
	case tokenizer.FAT_ARROW:
		return OpFatArrow, true
	case tokenizer.OR:
		return OpOr, true
	case tokenizer.AND:
		return OpAnd, true
	case tokenizer.EQUAL:
		return OpEqual, true
	case tokenizer.NOT_EQUAL:
		return OpNotEqual, true
	case tokenizer.LESS_THAN:
		return OpLess, true
	case tokenizer.LESS_EQUAL:
		return OpLessEqual, true
	case tokenizer.GREATER_THAN:
		return OpGreater, true
	case tokenizer.GREATER_EQUAL:
		return OpGreaterEqual, true
	case tokenizer.IN:
		return OpIn, true
	case tokenizer.DOT_DOT:
		return OpRangeIncl, true
	case tokenizer.ELLIPSIS:
		return OpRangeExcl, true
	default:
		return "", false
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.peek().Type {
	case tokenizer.NOT:
		p.next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: OpNot, Operand: operand}, nil
	case tokenizer.MINUS:
		p.next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: OpNeg, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any sequence of
// suffixes, applied left to right.
func (p *parser) parsePostfix() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Type {
		case tokenizer.OPENED_BRACKET:
			base, err = p.parseBracketSuffix(base)
			if err != nil {
				return nil, err
			}
		case tokenizer.OPENED_BRACE:
			opener := p.next()

			entries, err := p.parseObjectEntries(opener)
			if err != nil {
				return nil, err
			}

			base = &Projection{Base: base, Entries: entries}
		case tokenizer.ARROW:
			p.next()

			attr := ""
			if p.peek().Type == tokenizer.IDENT {
				attr = p.next().Value
			}

			base = &Deref{Base: base, Attr: attr}
		case tokenizer.DOT:
			p.next()

			tok := p.peek()
			if tok.Type != tokenizer.IDENT {
				return nil, p.unexpected("attribute name after '.'", tok)
			}

			p.next()

			base = &Dot{Base: base, Attr: tok.Value}
		case tokenizer.PIPE:
			p.next()

			call, err := p.parsePipeFunction()
			if err != nil {
				return nil, err
			}

			base = &PipeCall{Base: base, Call: call}
		default:
			return base, nil
		}
	}
}

// parseBracketSuffix distinguishes the four bracket suffixes: `[]`
// traversal, `[a..b]` slice, literal-index subscript, and `[cond]`
// filter.
func (p *parser) parseBracketSuffix(base Expr) (Expr, error) {
	opener := p.next()

	if p.peek().Type == tokenizer.CLOSED_BRACKET {
		p.next()
		return &ArrayTraversal{Base: base}, nil
	}

	inner, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if err := p.expectClosing(tokenizer.CLOSED_BRACKET, opener); err != nil {
		return nil, err
	}

	if rng, ok := inner.(*Binary); ok && rng.Op.IsRange() {
		return &Slice{
			Base:      base,
			Start:     rng.Left,
			End:       rng.Right,
			Inclusive: rng.Op == OpRangeIncl,
		}, nil
	}

	if isLiteralIndex(inner) {
		return &Subscript{Base: base, Index: inner}, nil
	}

	return &Filter{Base: base, Cond: inner}, nil
}

func isLiteralIndex(expr Expr) bool {
	switch e := expr.(type) {
	case *NumberLit, *StringLit:
		return true
	case *Unary:
		if e.Op != OpNeg {
			return false
		}

		_, ok := e.Operand.(*NumberLit)

		return ok
	default:
		return false
	}
}

// parsePipeFunction parses the `name(args)` stage after a `|`.
func (p *parser) parsePipeFunction() (*FunctionCall, error) {
	tok := p.peek()
	if tok.Type != tokenizer.IDENT {
		return nil, p.unexpected("function name after '|'", tok)
	}

	p.next()

	return p.parseCall(tok.Value)
}

// parseCall parses the rest of a call whose name (and optional
// namespace marker) begins at the current position.
func (p *parser) parseCall(name string) (*FunctionCall, error) {
	namespace := ""

	if p.peek().Type == tokenizer.DOUBLE_COLON {
		p.next()

		tok := p.peek()
		if tok.Type != tokenizer.IDENT {
			return nil, p.unexpected("function name after '::'", tok)
		}

		p.next()

		namespace, name = name, tok.Value
	}

	opener := p.peek()
	if opener.Type != tokenizer.OPENED_PARENS {
		return nil, p.unexpected("'('", opener)
	}

	p.next()

	args, err := p.parseCallArgs(opener)
	if err != nil {
		return nil, err
	}

	return &FunctionCall{Namespace: namespace, Name: name, Args: args}, nil
}

func (p *parser) parseCallArgs(opener tokenizer.Token) ([]Expr, error) {
	var args []Expr

	if p.match(tokenizer.CLOSED_PARENS) {
		return args, nil
	}

	for {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		// Ordering direction is positional: `order(date asc)`
		if tok := p.peek(); tok.Type == tokenizer.IDENT && (tok.Value == "asc" || tok.Value == "desc") {
			p.next()

			arg = &OrderDir{Value: arg, Dir: tok.Value}
		}

		args = append(args, arg)

		if p.match(tokenizer.COMMA) {
			if p.peek().Type == tokenizer.CLOSED_PARENS {
				break
			}

			continue
		}

		break
	}

	if err := p.expectClosing(tokenizer.CLOSED_PARENS, opener); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()

	switch tok.Type {
	case tokenizer.STAR:
		p.next()
		return &Everything{}, nil
	case tokenizer.AT:
		p.next()
		return &This{}, nil
	case tokenizer.PARAM:
		p.next()
		return &Param{Name: tok.Value}, nil
	case tokenizer.STRING:
		p.next()
		return &StringLit{Value: tok.Value}, nil
	case tokenizer.NUMBER:
		p.next()
		return &NumberLit{Text: tok.Value}, nil
	case tokenizer.BOOLEAN:
		p.next()
		return &BoolLit{Value: tok.Value == "true"}, nil
	case tokenizer.NULL:
		p.next()
		return &NullLit{}, nil
	case tokenizer.IDENT:
		p.next()

		if p.peek().Type == tokenizer.DOUBLE_COLON || p.peek().Type == tokenizer.OPENED_PARENS {
			return p.parseCall(tok.Value)
		}

		return &Ident{Name: tok.Value}, nil
	case tokenizer.OPENED_PARENS:
		opener := p.next()

		inner, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		if err := p.expectClosing(tokenizer.CLOSED_PARENS, opener); err != nil {
			return nil, err
		}

		// Parentheses only steer the grammar; the printer re-derives
		// them from the precedence table where they are required.
		return inner, nil
	case tokenizer.OPENED_BRACKET:
		return p.parseArrayLiteral()
	case tokenizer.OPENED_BRACE:
		opener := p.next()

		entries, err := p.parseObjectEntries(opener)
		if err != nil {
			return nil, err
		}

		return &ObjectLit{Entries: entries}, nil
	case tokenizer.EOF:
		return nil, fmt.Errorf("%w: query ends where an expression is required", ErrIncompleteExpression)
	default:
		return nil, p.unexpected("an expression", tok)
	}
}

func (p *parser) parseArrayLiteral() (Expr, error) {
	opener := p.next()

	var elems []Expr

	if p.match(tokenizer.CLOSED_BRACKET) {
		return &ArrayLit{}, nil
	}

	for {
		elem, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		elems = append(elems, elem)

		if p.match(tokenizer.COMMA) {
			if p.peek().Type == tokenizer.CLOSED_BRACKET {
				break
			}

			continue
		}

		break
	}

	if err := p.expectClosing(tokenizer.CLOSED_BRACKET, opener); err != nil {
		return nil, err
	}

	return &ArrayLit{Elems: elems}, nil
}

// parseObjectEntries parses `{ ... }` bodies shared by object literals
// and projections; the opening brace has been consumed. Entry order is
// preserved because it is meaningful in the output.
func (p *parser) parseObjectEntries(opener tokenizer.Token) ([]ObjectEntry, error) {
	var entries []ObjectEntry

	if p.match(tokenizer.CLOSED_BRACE) {
		return entries, nil
	}

	for {
		entry, err := p.parseObjectEntry()
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)

		if p.match(tokenizer.COMMA) {
			if p.peek().Type == tokenizer.CLOSED_BRACE {
				break
			}

			continue
		}

		break
	}

	if err := p.expectClosing(tokenizer.CLOSED_BRACE, opener); err != nil {
		return nil, err
	}

	return entries, nil
}

func (p *parser) parseObjectEntry() (ObjectEntry, error) {
	tok := p.peek()

	// `...` / `...expr` spread
	if tok.Type == tokenizer.ELLIPSIS {
		p.next()

		if next := p.peek(); next.Type == tokenizer.COMMA || next.Type == tokenizer.CLOSED_BRACE {
			return ObjectEntry{Value: &Spread{}}, nil
		}

		value, err := p.parseExpression(precLowest)
		if err != nil {
			return ObjectEntry{}, err
		}

		return ObjectEntry{Value: &Spread{Value: value}}, nil
	}

	// `key: expr` and `"key": expr`
	if (tok.Type == tokenizer.IDENT || tok.Type == tokenizer.STRING) && p.peekAt(1).Type == tokenizer.COLON {
		p.next()
		p.next()

		var key Expr
		if tok.Type == tokenizer.IDENT {
			key = &Ident{Name: tok.Value}
		} else {
			key = &StringLit{Value: tok.Value}
		}

		value, err := p.parseExpression(precLowest)
		if err != nil {
			return ObjectEntry{}, err
		}

		return ObjectEntry{Key: key, Value: value}, nil
	}

	value, err := p.parseExpression(precLowest)
	if err != nil {
		return ObjectEntry{}, err
	}

	return ObjectEntry{Value: value}, nil
}
