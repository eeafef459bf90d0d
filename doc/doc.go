// Package doc provides a small layout document algebra and a
// width-aware renderer. Callers build a Doc tree describing text,
// optional line breaks, indentation, and groups, then render it to a
// string that fits a target width where possible.
package doc

// Doc is a layout document. The concrete types are Nil, Text, Line,
// Concat, Nest, and Group; no other implementations exist.
type Doc interface {
	// breaksAlways reports whether the document contains a hard line
	// break, which forces every enclosing group into broken form.
	breaksAlways() bool
}

type nilDoc struct{}

func (nilDoc) breaksAlways() bool { return false }

type textDoc struct {
	value string
}

func (textDoc) breaksAlways() bool { return false }

type lineDoc struct {
	// flat is the text emitted when the line is flattened inside a
	// group that fits. Hard lines are never flattened.
	flat string
	hard bool
}

func (d lineDoc) breaksAlways() bool { return d.hard }

type concatDoc struct {
	children []Doc
	hard     bool
}

func (d concatDoc) breaksAlways() bool { return d.hard }

type nestDoc struct {
	indent int
	child  Doc
}

func (d nestDoc) breaksAlways() bool { return d.child.breaksAlways() }

type groupDoc struct {
	child Doc
	// forced is precomputed at construction so the renderer never
	// rescans the subtree.
	forced bool
}

func (d groupDoc) breaksAlways() bool { return d.forced }

// Nil is the empty document.
func Nil() Doc {
	return nilDoc{}
}

// Text produces literal output. It must not contain newlines; use Line
// or HardLine for breaks. Empty text collapses to Nil.
func Text(value string) Doc {
	if value == "" {
		return nilDoc{}
	}

	return textDoc{value: value}
}

// Line is a break that flattens to a single space.
func Line() Doc {
	return lineDoc{flat: " "}
}

// LineOrEmpty is a break that flattens to nothing.
func LineOrEmpty() Doc {
	return lineDoc{}
}

// HardLine is a break that is always taken.
func HardLine() Doc {
	return lineDoc{hard: true}
}

// Concat joins documents in order.
func Concat(children ...Doc) Doc {
	hard := false
	for _, child := range children {
		if child.breaksAlways() {
			hard = true
			break
		}
	}

	return concatDoc{children: children, hard: hard}
}

// Join places sep between consecutive items.
func Join(sep Doc, items []Doc) Doc {
	if len(items) == 0 {
		return nilDoc{}
	}

	children := make([]Doc, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			children = append(children, sep)
		}

		children = append(children, item)
	}

	return Concat(children...)
}

// Nest increases the indentation of every line break inside child.
func Nest(indent int, child Doc) Doc {
	return nestDoc{indent: indent, child: child}
}

// Group marks a region the renderer may flatten onto one line when it
// fits within the remaining width.
func Group(child Doc) Doc {
	return groupDoc{child: child, forced: child.breaksAlways()}
}
