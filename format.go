// Package groqfmt formats GROQ queries. It parses a query into an
// expression tree and lays it out again within a target line width, so
// the output depends only on the query's structure, never on how the
// input happened to be spaced.
package groqfmt

import (
	"fmt"
	"strings"

	"github.com/shibukawa/groqfmt/formatter"
)

// DefaultWidth is the line width used when the caller does not choose
// one.
const DefaultWidth = 80

// Format pretty-prints a GROQ query within the given line width,
// counted in runes. Formatting is pure: equal input and width always
// produce equal output, and formatting the output again changes
// nothing. The result carries no trailing newline.
//
// Blank input returns ErrEmptyQuery; malformed input returns an error
// wrapping ErrParse.
func Format(query string, width int) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	if width <= 0 {
		width = DefaultWidth
	}

	formatted, err := formatter.NewGroqFormatter(width).Format(query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}

	return formatted, nil
}

// FormatMarkdown rewrites every fenced ```groq code block in a
// markdown document, leaving the surrounding prose untouched. Blocks
// that fail to parse keep their original content.
func FormatMarkdown(source string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	return formatter.NewMarkdownFormatter(width).Format(source)
}
