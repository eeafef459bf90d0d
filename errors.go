package groqfmt

import "errors"

// Sentinel errors
var (
	ErrEmptyQuery = errors.New("query is empty")
	ErrParse      = errors.New("query could not be parsed")
)
