package parser

// Operator names a unary or binary GROQ operator by its literal form.
type Operator string

const (
	OpFatArrow     Operator = "=>"
	OpOr           Operator = "||"
	OpAnd          Operator = "&&"
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpIn           Operator = "in"
	OpRangeIncl    Operator = ".."
	OpRangeExcl    Operator = "..."
	OpNot          Operator = "!"
	OpNeg          Operator = "-"
)

// Binding power levels. Postfix suffixes (filter, projection, slice,
// dereference, dot access, call, pipe) bind tighter than every level
// listed here, so parenthesization questions only arise between these
// operators and under suffix bases.
const (
	precLowest   = 0
	precFatArrow = 1
	precOr       = 2
	precAnd      = 3
	precCompare  = 4
	precRange    = 5
	precUnary    = 6
)

// opInfo describes one binary operator in the static table.
type opInfo struct {
	prec       int
	rightAssoc bool
}

// binaryOps is the static precedence table shared by the parser and the
// doc builder. All levels are left-associative.
var binaryOps = map[Operator]opInfo{
	OpFatArrow:     {prec: precFatArrow},
	OpOr:           {prec: precOr},
	OpAnd:          {prec: precAnd},
	OpEqual:        {prec: precCompare},
	OpNotEqual:     {prec: precCompare},
	OpLess:         {prec: precCompare},
	OpLessEqual:    {prec: precCompare},
	OpGreater:      {prec: precCompare},
	OpGreaterEqual: {prec: precCompare},
	OpIn:           {prec: precCompare},
	OpRangeIncl:    {prec: precRange},
	OpRangeExcl:    {prec: precRange},
}

// Precedence returns the binding power of a binary operator, or -1 if
// the operator is not binary.
func (op Operator) Precedence() int {
	info, ok := binaryOps[op]
	if !ok {
		return -1
	}

	return info.prec
}

// RightAssoc reports whether the operator is right-associative.
func (op Operator) RightAssoc() bool {
	return binaryOps[op].rightAssoc
}

// IsLogical reports whether the operator forms breakable `&&`/`||` chains.
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// IsRange reports whether the operator is one of the range forms.
func (op Operator) IsRange() bool {
	return op == OpRangeIncl || op == OpRangeExcl
}
