package formatter

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormatter rewrites fenced ```groq code blocks inside a
// markdown document, leaving everything else byte for byte intact.
// Blocks that fail to parse keep their original content.
type MarkdownFormatter struct {
	groq *GroqFormatter
}

// NewMarkdownFormatter creates a markdown formatter whose embedded
// queries target the given line width.
func NewMarkdownFormatter(width int) *MarkdownFormatter {
	return &MarkdownFormatter{groq: NewGroqFormatter(width)}
}

type codeSpan struct {
	start       int
	stop        int
	replacement string
}

// Format returns the document with every groq code block reformatted.
func (f *MarkdownFormatter) Format(source string) (string, error) {
	src := []byte(source)

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var spans []codeSpan

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if string(fenced.Language(src)) != "groq" {
			return ast.WalkContinue, nil
		}

		lines := fenced.Lines()
		if lines.Len() == 0 {
			return ast.WalkContinue, nil
		}

		start := lines.At(0).Start
		stop := lines.At(lines.Len() - 1).Stop

		formatted, err := f.groq.Format(string(src[start:stop]))
		if err != nil {
			// Malformed queries stay as written.
			return ast.WalkContinue, nil
		}

		spans = append(spans, codeSpan{start: start, stop: stop, replacement: formatted + "\n"})

		return ast.WalkContinue, nil
	})
	if err != nil {
		return source, err
	}

	if len(spans) == 0 {
		return source, nil
	}

	var out strings.Builder

	pos := 0
	for _, span := range spans {
		out.WriteString(source[pos:span.start])
		out.WriteString(span.replacement)
		pos = span.stop
	}

	out.WriteString(source[pos:])

	return out.String(), nil
}
