package formatter

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestMarkdownFormatterRewritesGroqBlocks(t *testing.T) {
	input := "# Queries\n" +
		"\n" +
		"Fetch published posts:\n" +
		"\n" +
		"```groq\n" +
		"*[_type==\"post\"&&published==true]{title,slug}\n" +
		"```\n" +
		"\n" +
		"Done.\n"

	expected := "# Queries\n" +
		"\n" +
		"Fetch published posts:\n" +
		"\n" +
		"```groq\n" +
		"*[_type == \"post\"\n" +
		"    && published == true] {\n" +
		"  title,\n" +
		"  slug\n" +
		"}\n" +
		"```\n" +
		"\n" +
		"Done.\n"

	result, err := NewMarkdownFormatter(40).Format(input)
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestMarkdownFormatterLeavesOtherBlocksAlone(t *testing.T) {
	input := "```sql\nSELECT  *  FROM  t\n```\n\n```\nplain   block\n```\n"

	result, err := NewMarkdownFormatter(80).Format(input)
	assert.NoError(t, err)
	assert.Equal(t, input, result)
}

func TestMarkdownFormatterKeepsMalformedBlocks(t *testing.T) {
	input := "```groq\n*[broken\n```\n\n```groq\n*[_type==\"ok\"]\n```\n"

	result, err := NewMarkdownFormatter(80).Format(input)
	assert.NoError(t, err)

	assert.True(t, strings.Contains(result, "*[broken"))
	assert.True(t, strings.Contains(result, "*[_type == \"ok\"]"))
}

func TestMarkdownFormatterNoGroqBlocks(t *testing.T) {
	input := "just prose, no code at all\n"

	result, err := NewMarkdownFormatter(80).Format(input)
	assert.NoError(t, err)
	assert.Equal(t, input, result)
}
