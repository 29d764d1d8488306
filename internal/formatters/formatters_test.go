package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCommonIndent(t *testing.T) {
	in := "    query {\n      users {\n        id\n      }\n    }"
	want := "query {\n  users {\n    id\n  }\n}"
	assert.Equal(t, want, stripCommonIndent(in))
	assert.Equal(t, "flat", stripCommonIndent("flat"))
}

func TestFormatQueryBlock(t *testing.T) {
	in := "\n  query {\n    a\n    b\n    c\n  }\n"
	assert.Equal(t, "query {\n  a\n  b\n  c\n}", FormatQueryBlock(in, 0))
	assert.Equal(t, "query {\n  a\n... (3 more lines)", FormatQueryBlock(in, 2))
}

func TestFormatJSONBlock(t *testing.T) {
	text := "{\n  \"a\": 1\n}"

	t.Run("plain", func(t *testing.T) {
		assert.Equal(t, text, FormatJSONBlock(text, true, 0, false))
	})

	t.Run("colored keeps content", func(t *testing.T) {
		out := FormatJSONBlock(text, true, 0, true)
		assert.NotEqual(t, text, out)
		assert.Contains(t, out, "\x1b[")
		assert.Contains(t, out, "a")
	})

	t.Run("unstructured text is never colored", func(t *testing.T) {
		assert.Equal(t, "not json", FormatJSONBlock("not json", false, 0, true))
	})

	t.Run("truncated", func(t *testing.T) {
		assert.Equal(t, "{\n... (2 more lines)", FormatJSONBlock(text, true, 1, false))
	})
}

func TestMakeFormatters(t *testing.T) {
	assert.Equal(t, "x", MakeQueryFormatter(0)("  x", false))
	assert.Equal(t, "[]", MakeJSONFormatter(0, false)("[]", true))
}
