// Package formatter renders parsed GROQ queries back to text, fitting
// each construct within a target line width where possible.
package formatter

import (
	"fmt"
	"strings"

	"github.com/shibukawa/groqfmt/doc"
	"github.com/shibukawa/groqfmt/parser"
)

const (
	// fieldIndent indents projection fields, object entries, and
	// function arguments.
	fieldIndent = 2
	// condIndent indents continuation lines of logical condition
	// chains and piped stages.
	condIndent = 4
	pipeIndent = 2
)

// GroqFormatter pretty-prints GROQ queries.
type GroqFormatter struct {
	width int
}

// NewGroqFormatter creates a formatter that targets the given line
// width, counted in runes.
func NewGroqFormatter(width int) *GroqFormatter {
	return &GroqFormatter{width: width}
}

// Format parses the query and renders it freshly laid out. Whitespace
// in the input carries no meaning; the output depends only on the
// parsed structure and the width.
func (f *GroqFormatter) Format(query string) (string, error) {
	expr, err := parser.ParseQuery(query)
	if err != nil {
		return "", err
	}

	return doc.Render(f.buildTop(expr), f.width), nil
}

// buildTop builds the document for an expression in value position.
// Postfix chains become a single group so a chain that does not fit
// breaks as one unit.
func (f *GroqFormatter) buildTop(expr parser.Expr) doc.Doc {
	switch e := expr.(type) {
	case *parser.Filter, *parser.Projection, *parser.Slice, *parser.Subscript,
		*parser.ArrayTraversal, *parser.Deref, *parser.Dot:
		return doc.Group(f.chain(expr))
	case *parser.PipeCall:
		return f.chain(expr)
	case *parser.Binary:
		if e.Op.IsLogical() {
			return doc.Group(doc.Nest(condIndent, f.logicalChain(e)))
		}

		return f.binary(e)
	default:
		return f.primary(expr)
	}
}

// chain lays out a postfix suffix chain. The base and every suffix
// contribute to one flat run of content; the caller decides the
// grouping.
func (f *GroqFormatter) chain(expr parser.Expr) doc.Doc {
	switch e := expr.(type) {
	case *parser.Filter:
		return doc.Concat(
			f.chain(e.Base),
			doc.Text("["),
			doc.Nest(condIndent, f.condition(e.Cond)),
			doc.Text("]"),
		)
	case *parser.Projection:
		if len(e.Entries) == 0 {
			return doc.Concat(f.chain(e.Base), doc.Text(" {}"))
		}

		return doc.Concat(
			f.chain(e.Base),
			doc.Text(" {"),
			doc.Nest(fieldIndent, doc.Concat(doc.Line(), f.entryList(e.Entries))),
			doc.Line(),
			doc.Text("}"),
		)
	case *parser.Slice:
		op := "..."
		if e.Inclusive {
			op = ".."
		}

		return doc.Concat(
			f.chain(e.Base),
			doc.Text("["),
			f.buildTop(e.Start),
			doc.Text(op),
			f.buildTop(e.End),
			doc.Text("]"),
		)
	case *parser.Subscript:
		return doc.Concat(f.chain(e.Base), doc.Text("["), f.buildTop(e.Index), doc.Text("]"))
	case *parser.ArrayTraversal:
		return doc.Concat(f.chain(e.Base), doc.Text("[]"))
	case *parser.Deref:
		return doc.Concat(f.chain(e.Base), doc.Text("->"+e.Attr))
	case *parser.Dot:
		return doc.Concat(f.chain(e.Base), doc.Text("."+e.Attr))
	case *parser.PipeCall:
		return f.pipeChain(e)
	default:
		return f.chainBase(expr)
	}
}

// pipeChain renders a run of piped stages as its own group so the
// stages break together while the surrounding chain stays intact.
func (f *GroqFormatter) pipeChain(expr *parser.PipeCall) doc.Doc {
	var calls []*parser.FunctionCall

	base := parser.Expr(expr)
	for {
		pipe, ok := base.(*parser.PipeCall)
		if !ok {
			break
		}

		calls = append(calls, pipe.Call)
		base = pipe.Base
	}

	parts := []doc.Doc{f.buildTop(base)}
	for i := len(calls) - 1; i >= 0; i-- {
		parts = append(parts, doc.Nest(pipeIndent, doc.Concat(
			doc.Line(),
			doc.Text("| "),
			f.call(calls[i]),
		)))
	}

	return doc.Group(doc.Concat(parts...))
}

// chainBase renders the head of a chain, parenthesizing operators that
// bind looser than any suffix.
func (f *GroqFormatter) chainBase(expr parser.Expr) doc.Doc {
	switch expr.(type) {
	case *parser.Binary, *parser.Unary:
		return doc.Concat(doc.Text("("), f.buildTop(expr), doc.Text(")"))
	default:
		return f.primary(expr)
	}
}

// condition renders a filter condition. Logical chains contribute
// their break points directly to the enclosing chain group.
func (f *GroqFormatter) condition(cond parser.Expr) doc.Doc {
	if b, ok := cond.(*parser.Binary); ok && b.Op.IsLogical() {
		return f.logicalChain(b)
	}

	return f.buildTop(cond)
}

// logicalChain flattens consecutive applications of the same logical
// operator into one run with a break before each operator.
func (f *GroqFormatter) logicalChain(b *parser.Binary) doc.Doc {
	operands := flattenLogical(b.Op, b)

	parts := []doc.Doc{f.logicalOperand(b.Op, operands[0])}
	for _, operand := range operands[1:] {
		parts = append(parts, doc.Line(), doc.Text(string(b.Op)+" "), f.logicalOperand(b.Op, operand))
	}

	return doc.Concat(parts...)
}

func flattenLogical(op parser.Operator, expr parser.Expr) []parser.Expr {
	if b, ok := expr.(*parser.Binary); ok && b.Op == op {
		return append(flattenLogical(op, b.Left), flattenLogical(op, b.Right)...)
	}

	return []parser.Expr{expr}
}

// logicalOperand renders one operand of a logical chain. A chain of
// the other logical operator binds looser or equal, so it is
// parenthesized and grouped on its own.
func (f *GroqFormatter) logicalOperand(parent parser.Operator, expr parser.Expr) doc.Doc {
	if b, ok := expr.(*parser.Binary); ok && b.Op.IsLogical() {
		inner := doc.Group(doc.Nest(condIndent, f.logicalChain(b)))
		if b.Op.Precedence() <= parent.Precedence() {
			return doc.Concat(doc.Text("("), inner, doc.Text(")"))
		}

		return inner
	}

	return f.buildTop(expr)
}

// binary renders non-logical binary operators on one line, restoring
// parentheses where a child binds looser than its parent.
func (f *GroqFormatter) binary(b *parser.Binary) doc.Doc {
	if b.Op.IsRange() {
		return doc.Concat(
			f.operand(b, b.Left, false),
			doc.Text(string(b.Op)),
			f.operand(b, b.Right, true),
		)
	}

	return doc.Concat(
		f.operand(b, b.Left, false),
		doc.Text(" "+string(b.Op)+" "),
		f.operand(b, b.Right, true),
	)
}

func (f *GroqFormatter) operand(parent *parser.Binary, child parser.Expr, right bool) doc.Doc {
	b, ok := child.(*parser.Binary)
	if !ok {
		return f.buildTop(child)
	}

	childPrec := b.Op.Precedence()
	parentPrec := parent.Op.Precedence()

	needParens := childPrec < parentPrec
	if right && childPrec == parentPrec && !parent.Op.RightAssoc() {
		needParens = true
	}

	if needParens {
		return doc.Concat(doc.Text("("), f.buildTop(child), doc.Text(")"))
	}

	return f.buildTop(child)
}

func (f *GroqFormatter) primary(expr parser.Expr) doc.Doc {
	switch e := expr.(type) {
	case *parser.Everything:
		return doc.Text("*")
	case *parser.This:
		return doc.Text("@")
	case *parser.Ident:
		return doc.Text(e.Name)
	case *parser.Param:
		return doc.Text("$" + e.Name)
	case *parser.StringLit:
		return doc.Text(quote(e.Value))
	case *parser.NumberLit:
		return doc.Text(e.Text)
	case *parser.BoolLit:
		if e.Value {
			return doc.Text("true")
		}

		return doc.Text("false")
	case *parser.NullLit:
		return doc.Text("null")
	case *parser.ArrayLit:
		return f.array(e)
	case *parser.ObjectLit:
		return f.object(e)
	case *parser.FunctionCall:
		return f.call(e)
	case *parser.OrderDir:
		return doc.Concat(f.buildTop(e.Value), doc.Text(" "+e.Dir))
	case *parser.Unary:
		return f.unary(e)
	case *parser.Spread:
		if e.Value == nil {
			return doc.Text("...")
		}

		return doc.Concat(doc.Text("..."), f.buildTop(e.Value))
	case *parser.Binary, *parser.Filter, *parser.Projection, *parser.Slice,
		*parser.Subscript, *parser.ArrayTraversal, *parser.Deref, *parser.Dot,
		*parser.PipeCall:
		return f.buildTop(expr)
	default:
		return doc.Nil()
	}
}

func (f *GroqFormatter) unary(e *parser.Unary) doc.Doc {
	switch e.Operand.(type) {
	case *parser.Binary, *parser.Unary:
		return doc.Concat(doc.Text(string(e.Op)+"("), f.buildTop(e.Operand), doc.Text(")"))
	default:
		return doc.Concat(doc.Text(string(e.Op)), f.buildTop(e.Operand))
	}
}

func (f *GroqFormatter) array(e *parser.ArrayLit) doc.Doc {
	if len(e.Elems) == 0 {
		return doc.Text("[]")
	}

	items := make([]doc.Doc, len(e.Elems))
	for i, elem := range e.Elems {
		items[i] = f.buildTop(elem)
	}

	return doc.Concat(
		doc.Text("["),
		doc.Group(doc.Nest(fieldIndent, doc.Concat(
			doc.LineOrEmpty(),
			doc.Join(doc.Concat(doc.Text(","), doc.Line()), items),
		))),
		doc.Text("]"),
	)
}

func (f *GroqFormatter) object(e *parser.ObjectLit) doc.Doc {
	if len(e.Entries) == 0 {
		return doc.Text("{}")
	}

	return doc.Group(doc.Concat(
		doc.Text("{"),
		doc.Nest(fieldIndent, doc.Concat(doc.Line(), f.entryList(e.Entries))),
		doc.Line(),
		doc.Text("}"),
	))
}

func (f *GroqFormatter) entryList(entries []parser.ObjectEntry) doc.Doc {
	items := make([]doc.Doc, len(entries))
	for i, entry := range entries {
		items[i] = f.entry(entry)
	}

	return doc.Join(doc.Concat(doc.Text(","), doc.Line()), items)
}

func (f *GroqFormatter) entry(entry parser.ObjectEntry) doc.Doc {
	if spread, ok := entry.Value.(*parser.Spread); ok {
		if spread.Value == nil {
			return doc.Text("...")
		}

		return doc.Concat(doc.Text("..."), f.buildTop(spread.Value))
	}

	if entry.Key == nil {
		return f.buildTop(entry.Value)
	}

	var key string

	switch k := entry.Key.(type) {
	case *parser.Ident:
		key = k.Name
	case *parser.StringLit:
		key = quote(k.Value)
	}

	return doc.Concat(doc.Text(key+": "), f.buildTop(entry.Value))
}

func (f *GroqFormatter) call(e *parser.FunctionCall) doc.Doc {
	name := e.Name
	if e.Namespace != "" {
		name = e.Namespace + "::" + e.Name
	}

	if len(e.Args) == 0 {
		return doc.Text(name + "()")
	}

	args := make([]doc.Doc, len(e.Args))
	for i, arg := range e.Args {
		args[i] = f.buildTop(arg)
	}

	return doc.Group(doc.Concat(
		doc.Text(name+"("),
		doc.Nest(fieldIndent, doc.Concat(
			doc.LineOrEmpty(),
			doc.Join(doc.Concat(doc.Text(","), doc.Line()), args),
		)),
		doc.LineOrEmpty(),
		doc.Text(")"),
	))
}

// quote renders a string literal in canonical double-quoted form.
// Escape sequences decoded by the tokenizer are re-encoded here, so
// both quote styles in the input come out the same way.
func quote(value string) string {
	var out strings.Builder

	out.WriteByte('"')

	for _, r := range value {
		switch r {
		case '"':
			out.WriteString(`\"`)
		case '\\':
			out.WriteString(`\\`)
		case '\b':
			out.WriteString(`\b`)
		case '\f':
			out.WriteString(`\f`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			if r < 0x20 {
				out.WriteString(fmt.Sprintf(`\u%04x`, r))
				continue
			}

			out.WriteRune(r)
		}
	}

	out.WriteByte('"')

	return out.String()
}
