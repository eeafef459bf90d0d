package groqfmt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/groqfmt/parser"
)

func TestFormatCompactFit(t *testing.T) {
	result, err := Format(`*[_type == "article"]`, 80)
	assert.NoError(t, err)
	assert.Equal(t, `*[_type == "article"]`, result)
}

func TestFormatReadmeExample(t *testing.T) {
	input := `*[_type == "article" && published == true && category in ["tech", "science"]]{ title, "slug": slug.current, author->{ name, image } }`
	expected := `*[_type == "article"
    && published == true
    && category in ["tech", "science"]] {
  title,
  "slug": slug.current,
  author-> { name, image }
}`

	result, err := Format(input, 80)
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestFormatWideWidthCollapses(t *testing.T) {
	input := `*[_type == "article" && published == true && category in ["tech", "science"]]{ title, "slug": slug.current, author->{ name, image } }`

	result, err := Format(input, 300)
	assert.NoError(t, err)
	assert.False(t, strings.Contains(result, "\n"))
	assert.Equal(t, `*[_type == "article" && published == true && category in ["tech", "science"]] { title, "slug": slug.current, author-> { name, image } }`, result)
}

func TestFormatEmptyQuery(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		_, err := Format(input, 80)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyQuery))
	}
}

func TestFormatParseError(t *testing.T) {
	for _, input := range []string{`*[`, `*[a &&`, `*{f:}`, `"unterminated`} {
		_, err := Format(input, 80)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
	}
}

func TestFormatNoTrailingNewline(t *testing.T) {
	result, err := Format(`*[a]{b}`, 80)
	assert.NoError(t, err)
	assert.False(t, strings.HasSuffix(result, "\n"))
}

func TestFormatDeterministic(t *testing.T) {
	input := `*[_type=="post"&&published==true]{_id,title,author->{name}}`

	first, err := Format(input, 40)
	assert.NoError(t, err)

	for range 5 {
		again, err := Format(input, 40)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []string{
		`*[_type == "article" && published == true && category in ["tech", "science"]]{ title, "slug": slug.current, author->{ name, image } }`,
		`*[_type=="review"&&rating>=4] | order(_createdAt desc) [0..10] {_id,rating}`,
	}

	for _, input := range inputs {
		for _, width := range []int{20, 80, 300} {
			once, err := Format(input, width)
			assert.NoError(t, err)

			twice, err := Format(once, width)
			assert.NoError(t, err)
			assert.Equal(t, once, twice)
		}
	}
}

func TestFormatStructuralRoundTrip(t *testing.T) {
	inputs := []string{
		`*[_type == "article" && published == true && category in ["tech", "science"]]{ title, "slug": slug.current, author->{ name, image } }`,
		`*[_type=="review"&&rating>=4] | order(_createdAt desc) [0..10] {_id,customer->{name}}`,
		`*[_type in["a","b"]&&(x||y)]{f1,"k": f2.v, ..., isAdmin == true => {"level": "super"}}`,
		`*[!defined(category) || category->slug.current != "draft"]{items[-1], tags[0...5]}`,
	}

	for _, input := range inputs {
		before, err := parser.ParseQuery(input)
		assert.NoError(t, err)

		for _, width := range []int{20, 80, 300} {
			formatted, err := Format(input, width)
			assert.NoError(t, err)

			after, err := parser.ParseQuery(formatted)
			assert.NoError(t, err)
			assert.Equal(t, before, after)
		}
	}
}

func TestFormatNonPositiveWidthUsesDefault(t *testing.T) {
	input := `*[_type == "article"]`

	result, err := Format(input, 0)
	assert.NoError(t, err)
	assert.Equal(t, input, result)
}

func TestFormatMarkdownDocument(t *testing.T) {
	input := "Intro\n\n```groq\n*[_type=='post']{title}\n```\n"

	result, err := FormatMarkdown(input, 80)
	assert.NoError(t, err)
	assert.True(t, strings.Contains(result, `*[_type == "post"] { title }`))
	assert.True(t, strings.Contains(result, "Intro"))
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultWidth, config.Width)
	assert.True(t, config.Markdown)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groqfmt.yaml")

	content := "width: 100\nmarkdown: false\nexclude:\n  - vendor/*\n"
	err := os.WriteFile(path, []byte(content), 0o600)
	assert.NoError(t, err)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 100, config.Width)
	assert.False(t, config.Markdown)
	assert.Equal(t, []string{"vendor/*"}, config.Exclude)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groqfmt.yaml")

	err := os.WriteFile(path, []byte("widht: 100\n"), 0o600)
	assert.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("GROQFMT_TEST_PATTERN", "generated/*")

	dir := t.TempDir()
	path := filepath.Join(dir, "groqfmt.yaml")

	err := os.WriteFile(path, []byte("exclude:\n  - ${GROQFMT_TEST_PATTERN}\n"), 0o600)
	assert.NoError(t, err)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"generated/*"}, config.Exclude)
}
