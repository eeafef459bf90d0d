package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/groqfmt"
)

var (
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrFormattingErrors = errors.New("some files had formatting errors")
)

// FormatCmd represents the format command
type FormatCmd struct {
	Input  string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout, or overwrite input file)"`
	Write  bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check  bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff   bool   `short:"d" help:"Show diff instead of rewriting files"`
	Width  int    `short:"W" help:"Target line width (overrides config)"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	config, err := groqfmt.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	width := config.Width
	if cmd.Width > 0 {
		width = cmd.Width
	}

	if cmd.Input == "" {
		return cmd.formatFromReader(os.Stdin, os.Stdout, "<stdin>", width, config)
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if info.IsDir() {
		return cmd.formatDirectory(cmd.Input, width, config)
	}

	return cmd.formatFile(cmd.Input, width, config)
}

// formatFromReader formats a query from a reader and writes the result
func (cmd *FormatCmd) formatFromReader(reader io.Reader, writer io.Writer, filename string, width int, config *groqfmt.Config) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var formatted string

	if cmd.isMarkdownFile(filename) {
		formatted, err = groqfmt.FormatMarkdown(string(input), width)
		if err != nil {
			return fmt.Errorf("failed to format Markdown in %s: %w", filename, err)
		}
	} else {
		formatted, err = groqfmt.Format(string(input), width)
		if err != nil {
			return fmt.Errorf("failed to format query in %s: %w", filename, err)
		}

		formatted += "\n"
	}

	if cmd.Check {
		if strings.TrimSpace(string(input)) != strings.TrimSpace(formatted) {
			fmt.Fprintf(os.Stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	}

	if cmd.Diff {
		return cmd.showDiff(string(input), formatted, filename)
	}

	_, err = writer.Write([]byte(formatted))

	return err
}

// formatFile formats a single file
func (cmd *FormatCmd) formatFile(filename string, width int, config *groqfmt.Config) error {
	if !cmd.isQueryFile(filename, config) {
		if !cmd.Check {
			fmt.Fprintf(os.Stderr, "Skipping unsupported file: %s\n", filename)
		}

		return nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	// Check and diff modes never touch the file, even combined with -w.
	if cmd.Check || cmd.Diff {
		return cmd.formatFromReader(file, io.Discard, filename, width, config)
	}

	if cmd.Write || cmd.Output == filename {
		return cmd.rewriteFile(file, filename, width, config)
	}

	if cmd.Output != "" {
		outputFile, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", cmd.Output, err)
		}
		defer outputFile.Close()

		return cmd.formatFromReader(file, outputFile, filename, width, config)
	}

	return cmd.formatFromReader(file, os.Stdout, filename, width, config)
}

// rewriteFile formats into a temp file in the same directory and renames
// it over the original only after formatting and the write both
// succeed, so a failing input never disturbs the file.
func (cmd *FormatCmd) rewriteFile(file *os.File, filename string, width int, config *groqfmt.Config) error {
	tempFile, err := os.CreateTemp(filepath.Dir(filename), ".groqfmt-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	err = cmd.formatFromReader(file, tempFile, filename, width, config)

	closeErr := tempFile.Close()

	if err != nil {
		os.Remove(tempFile.Name())
		return err
	}

	if closeErr != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to write temp file: %w", closeErr)
	}

	return os.Rename(tempFile.Name(), filename)
}

// formatDirectory formats all query files in a directory recursively,
// continuing past individual failures.
func (cmd *FormatCmd) formatDirectory(dirPath string, width int, config *groqfmt.Config) error {
	var hasErrors bool

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if !cmd.isQueryFile(path, config) || cmd.isExcluded(path, config) {
			return nil
		}

		err = cmd.formatFile(path, width, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)

			hasErrors = true

			return nil
		}

		if !cmd.Check && !cmd.Diff {
			fmt.Printf("Formatted: %s\n", path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

// isQueryFile checks whether a file should be formatted
func (cmd *FormatCmd) isQueryFile(filename string, config *groqfmt.Config) bool {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".groq" {
		return true
	}

	return config.Markdown && ext == ".md"
}

// isMarkdownFile checks if a file is a Markdown file
func (cmd *FormatCmd) isMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}

// isExcluded checks a path against the configured exclude patterns
func (cmd *FormatCmd) isExcluded(path string, config *groqfmt.Config) bool {
	for _, pattern := range config.Exclude {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}

		if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}

	return false
}

// showDiff shows the difference between original and formatted content
func (cmd *FormatCmd) showDiff(original, formatted, filename string) error {
	if strings.TrimSpace(original) == strings.TrimSpace(formatted) {
		return nil
	}

	fmt.Printf("--- %s (original)\n", filename)
	fmt.Printf("+++ %s (formatted)\n", filename)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	originalLines := strings.Split(original, "\n")
	formattedLines := strings.Split(formatted, "\n")

	maxLines := len(originalLines)
	if len(formattedLines) > maxLines {
		maxLines = len(formattedLines)
	}

	for i := range maxLines {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine != formLine {
			if origLine != "" {
				removed.Printf("-%s\n", origLine)
			}

			if formLine != "" {
				added.Printf("+%s\n", formLine)
			}
		}
	}

	return nil
}

// Help returns help text for the format command
func (cmd *FormatCmd) Help() string {
	return `Format GROQ query files and Markdown files with GROQ code blocks.

The format command lays queries out within a target line width, similar
to 'go fmt'. Constructs that fit on one line stay on one line; those
that do not break with 2-space indentation for fields and 4-space
indentation for filter conditions.

For Markdown files, it formats ` + "```groq" + ` code blocks while
preserving the rest of the document.

Examples:
  # Format a single file and print to stdout
  groqfmt format query.groq

  # Format a file in place
  groqfmt format -w query.groq

  # Format all files in a directory
  groqfmt format -w ./queries/

  # Check formatting in CI
  groqfmt format -c ./queries/`
}
