package doc

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRenderText(t *testing.T) {
	d := Concat(Text("hello"), Text(" "), Text("world"))

	assert.Equal(t, "hello world", Render(d, 80))
}

func TestGroupFitsFlat(t *testing.T) {
	d := Group(Concat(
		Text("{"),
		Nest(2, Concat(Line(), Text("a"), Text(","), Line(), Text("b"))),
		Line(),
		Text("}"),
	))

	assert.Equal(t, "{ a, b }", Render(d, 80))
}

func TestGroupBreaks(t *testing.T) {
	d := Group(Concat(
		Text("{"),
		Nest(2, Concat(Line(), Text("aaaa"), Text(","), Line(), Text("bbbb"))),
		Line(),
		Text("}"),
	))

	expected := "{\n  aaaa,\n  bbbb\n}"

	assert.Equal(t, expected, Render(d, 8))
}

func TestLineOrEmptyFlattensToNothing(t *testing.T) {
	d := Group(Concat(
		Text("("),
		Nest(2, Concat(LineOrEmpty(), Text("x"))),
		LineOrEmpty(),
		Text(")"),
	))

	assert.Equal(t, "(x)", Render(d, 80))
	assert.Equal(t, "(\n  x\n)", Render(d, 2))
}

func TestHardLineForcesEnclosingGroups(t *testing.T) {
	d := Group(Concat(
		Text("a"),
		Line(),
		Group(Concat(Text("b"), HardLine(), Text("c"))),
	))

	// Plenty of room, but the hard line still breaks both groups.
	assert.Equal(t, "a\nb\nc", Render(d, 100))
}

func TestNestedGroupsDecideIndependently(t *testing.T) {
	inner := Group(Concat(
		Text("["),
		Nest(2, Concat(LineOrEmpty(), Text("x"), Text(","), Line(), Text("y"))),
		Text("]"),
	))
	d := Group(Concat(
		Text("{"),
		Nest(2, Concat(Line(), Text("long-field-name"), Text(","), Line(), inner)),
		Line(),
		Text("}"),
	))

	expected := "{\n  long-field-name,\n  [x, y]\n}"

	assert.Equal(t, expected, Render(d, 20))
}

func TestNestingAccumulates(t *testing.T) {
	d := Group(Concat(
		Text("a"),
		Nest(2, Concat(
			Line(),
			Text("b"),
			Nest(2, Concat(Line(), Text("c"))),
		)),
	))

	assert.Equal(t, "a\n  b\n    c", Render(d, 1))
}

func TestOverflowTextEmittedWhole(t *testing.T) {
	long := strings.Repeat("x", 40)
	d := Group(Concat(Text(long), Line(), Text("y")))

	out := Render(d, 10)

	assert.Equal(t, long+"\ny", out)
}

func TestWidthCountsRunes(t *testing.T) {
	// Five runes of multibyte text plus surroundings fit a width that
	// their byte length would exceed.
	d := Group(Concat(Text(`"héllö"`), Line(), Text("x")))

	assert.Equal(t, `"héllö" x`, Render(d, 10))
}

func TestJoin(t *testing.T) {
	d := Join(Concat(Text(","), Line()), []Doc{Text("a"), Text("b"), Text("c")})

	assert.Equal(t, "a, b, c", Render(Group(d), 80))
}

func TestEmptyTextCollapses(t *testing.T) {
	assert.Equal(t, "ab", Render(Concat(Text("a"), Text(""), Text("b")), 80))
}

func TestRenderDeterministic(t *testing.T) {
	d := Group(Concat(
		Text("{"),
		Nest(2, Concat(Line(), Join(Concat(Text(","), Line()), []Doc{
			Text("one"), Text("two"), Text("three"),
		}))),
		Line(),
		Text("}"),
	))

	first := Render(d, 12)
	for range 5 {
		assert.Equal(t, first, Render(d, 12))
	}
}
