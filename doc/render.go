package doc

import (
	"strings"
	"unicode/utf8"
)

type renderMode int

const (
	modeBreak renderMode = iota
	modeFlat
)

type renderItem struct {
	indent int
	mode   renderMode
	d      Doc
}

// Render lays out a document within the given width. Width is counted
// in runes. Text that cannot fit is still emitted whole; the renderer
// never truncates.
func Render(d Doc, width int) string {
	var out strings.Builder

	col := 0
	stack := []renderItem{{indent: 0, mode: modeBreak, d: d}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := item.d.(type) {
		case nilDoc:
		case textDoc:
			out.WriteString(d.value)
			col += utf8.RuneCountInString(d.value)
		case lineDoc:
			if item.mode == modeFlat && !d.hard {
				out.WriteString(d.flat)
				col += utf8.RuneCountInString(d.flat)
				continue
			}

			out.WriteByte('\n')
			for i := 0; i < item.indent; i++ {
				out.WriteByte(' ')
			}
			col = item.indent
		case concatDoc:
			for i := len(d.children) - 1; i >= 0; i-- {
				stack = append(stack, renderItem{indent: item.indent, mode: item.mode, d: d.children[i]})
			}
		case nestDoc:
			stack = append(stack, renderItem{indent: item.indent + d.indent, mode: item.mode, d: d.child})
		case groupDoc:
			// A group reached in flat mode was already measured by the
			// enclosing fits check and stays flat.
			mode := modeFlat
			if d.forced || (item.mode == modeBreak && !fits(width-col, d.child, stack)) {
				mode = modeBreak
			}

			stack = append(stack, renderItem{indent: item.indent, mode: mode, d: d.child})
		}
	}

	return out.String()
}

type fitsItem struct {
	mode renderMode
	d    Doc
}

// fits reports whether candidate, laid out flat, followed by the rest
// of the pending render work, reaches a line break within the
// remaining width. The pending stack is scanned read-only, each item
// in its recorded mode.
func fits(remaining int, candidate Doc, rest []renderItem) bool {
	stack := []fitsItem{{mode: modeFlat, d: candidate}}
	restIdx := len(rest) - 1

	for remaining >= 0 {
		var item fitsItem

		if len(stack) > 0 {
			item = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		} else if restIdx >= 0 {
			item = fitsItem{mode: rest[restIdx].mode, d: rest[restIdx].d}
			restIdx--
		} else {
			return true
		}

		switch d := item.d.(type) {
		case nilDoc:
		case textDoc:
			remaining -= utf8.RuneCountInString(d.value)
		case lineDoc:
			if d.hard || item.mode == modeBreak {
				return true
			}

			remaining -= utf8.RuneCountInString(d.flat)
		case concatDoc:
			for i := len(d.children) - 1; i >= 0; i-- {
				stack = append(stack, fitsItem{mode: item.mode, d: d.children[i]})
			}
		case nestDoc:
			stack = append(stack, fitsItem{mode: item.mode, d: d.child})
		case groupDoc:
			mode := item.mode
			if d.forced {
				mode = modeBreak
			}

			stack = append(stack, fitsItem{mode: mode, d: d.child})
		}
	}

	return false
}
