// Package parser turns GROQ token streams into abstract syntax trees.
//
// The AST is a closed set of variants with exhaustive dispatch in every
// consumer, so adding a syntax form is a compile-time-checked change. Two
// queries differing only in whitespace or redundant parentheses parse to
// the same tree; that identity is what makes formatting idempotent.
package parser

// Expr is a GROQ expression node.
type Expr interface {
	expr()
}

// Everything is the dataset reference `*`.
type Everything struct{}

// This is the current-value reference `@`.
type This struct{}

// Ident is a bare attribute or identifier reference.
type Ident struct {
	Name string
}

// Param is a `$name` parameter reference.
type Param struct {
	Name string
}

// StringLit is a string literal; Value holds the unescaped content.
type StringLit struct {
	Value string
}

// NumberLit is a numeric literal; Text holds the source spelling.
type NumberLit struct {
	Text string
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
}

// NullLit is `null`.
type NullLit struct{}

// ArrayLit is `[a, b, ...]`.
type ArrayLit struct {
	Elems []Expr
}

// ObjectEntry is one entry of an object literal or projection.
// Key is nil for shorthand fields, spreads and bare expressions.
type ObjectEntry struct {
	Key   Expr // *Ident or *StringLit when present
	Value Expr
}

// ObjectLit is a standalone `{ ... }` object literal.
type ObjectLit struct {
	Entries []ObjectEntry
}

// Spread is `...` or `...expr` inside an object literal.
type Spread struct {
	Value Expr // nil for the bare form
}

// Unary is a prefix operator application (`!x`, `-x`).
type Unary struct {
	Op      Operator
	Operand Expr
}

// Binary is a binary operator application. Ranges (`..`, `...`) appear
// here when used outside a slice suffix, e.g. `x in 1..5`.
type Binary struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// Filter is the `base[cond]` suffix.
type Filter struct {
	Base Expr
	Cond Expr
}

// Subscript is the `base[idx]` element access (numeric or string index).
type Subscript struct {
	Base  Expr
	Index Expr
}

// Slice is the `base[a..b]` / `base[a...b]` suffix. Inclusive is true
// for the two-dot form.
type Slice struct {
	Base      Expr
	Start     Expr
	End       Expr
	Inclusive bool
}

// ArrayTraversal is the `base[]` suffix.
type ArrayTraversal struct {
	Base Expr
}

// Deref is the `base->` suffix, optionally fused with an attribute as in
// `author->name`.
type Deref struct {
	Base Expr
	Attr string // empty for the bare form
}

// Dot is the `base.attr` access.
type Dot struct {
	Base Expr
	Attr string
}

// Projection is a `base { ... }` field selection suffix.
type Projection struct {
	Base    Expr
	Entries []ObjectEntry
}

// FunctionCall is `name(args)` or `ns::name(args)`.
type FunctionCall struct {
	Namespace string
	Name      string
	Args      []Expr
}

// PipeCall is one `base | name(args)` pipe stage.
type PipeCall struct {
	Base Expr
	Call *FunctionCall
}

// OrderDir is an `expr asc` / `expr desc` ordering argument, valid only
// inside call arguments.
type OrderDir struct {
	Value Expr
	Dir   string
}

func (*Everything) expr()     {}
func (*This) expr()           {}
func (*Ident) expr()          {}
func (*Param) expr()          {}
func (*StringLit) expr()      {}
func (*NumberLit) expr()      {}
func (*BoolLit) expr()        {}
func (*NullLit) expr()        {}
func (*ArrayLit) expr()       {}
func (*ObjectLit) expr()      {}
func (*Spread) expr()         {}
func (*Unary) expr()          {}
func (*Binary) expr()         {}
func (*Filter) expr()         {}
func (*Subscript) expr()      {}
func (*Slice) expr()          {}
func (*ArrayTraversal) expr() {}
func (*Deref) expr()          {}
func (*Dot) expr()            {}
func (*Projection) expr()     {}
func (*FunctionCall) expr()   {}
func (*PipeCall) expr()       {}
func (*OrderDir) expr()       {}
