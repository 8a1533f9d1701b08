package docbridge_test

import (
	"testing"

	"github.com/fwojciec/docbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentMarkdown(t *testing.T) {
	t.Parallel()

	t.Run("headings set the section of following text", func(t *testing.T) {
		t.Parallel()

		markdown := "# Introduction\n\nSome content here.\n\n## Install\n\nRun it."

		elements := docbridge.SegmentMarkdown(markdown)

		require.Len(t, elements, 4)
		assert.Equal(t, docbridge.LabelSectionHeader, elements[0].Label)
		assert.Equal(t, "Introduction", elements[0].Text)
		assert.Equal(t, &docbridge.Element{Label: docbridge.LabelText, Section: "Introduction", Text: "Some content here."}, elements[1])
		assert.Equal(t, "Install", elements[2].Section)
		assert.Equal(t, &docbridge.Element{Label: docbridge.LabelText, Section: "Install", Text: "Run it."}, elements[3])
	})

	t.Run("text before any heading has unknown section", func(t *testing.T) {
		t.Parallel()

		elements := docbridge.SegmentMarkdown("Preamble line one\nline two")

		require.Len(t, elements, 1)
		assert.Equal(t, docbridge.UnknownSection, elements[0].Section)
		assert.Equal(t, "Preamble line one\nline two", elements[0].Text)
	})

	t.Run("ignores headings inside code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real\n\n```bash\n# comment\necho hi\n```\n"

		elements := docbridge.SegmentMarkdown(markdown)

		require.Len(t, elements, 2)
		assert.Equal(t, docbridge.LabelCode, elements[1].Label)
		assert.Equal(t, "Real", elements[1].Section)
		assert.Equal(t, "```bash\n# comment\necho hi\n```", elements[1].Text)
	})

	t.Run("keeps unterminated code blocks", func(t *testing.T) {
		t.Parallel()

		elements := docbridge.SegmentMarkdown("```go\nfunc main() {}")

		require.Len(t, elements, 1)
		assert.Equal(t, docbridge.LabelCode, elements[0].Label)
	})

	t.Run("inner fences shorter than the opening fence stay inside", func(t *testing.T) {
		t.Parallel()

		markdown := "````md\n```go\nx := 1\n```\n# not a heading\n````\nafter"

		elements := docbridge.SegmentMarkdown(markdown)

		require.Len(t, elements, 2)
		assert.Equal(t, docbridge.LabelCode, elements[0].Label)
		assert.Equal(t, "````md\n```go\nx := 1\n```\n# not a heading\n````", elements[0].Text)
		assert.Equal(t, docbridge.LabelText, elements[1].Label)
		assert.Equal(t, "after", elements[1].Text)
	})

	t.Run("fence with an info string does not close a block", func(t *testing.T) {
		t.Parallel()

		elements := docbridge.SegmentMarkdown("~~~\n~~~ python\n~~~")

		require.Len(t, elements, 1)
		assert.Equal(t, "~~~\n~~~ python\n~~~", elements[0].Text)
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docbridge.SegmentMarkdown(""))
	})
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"fenced block", "Example:\n```go\nx := 1\n```", true},
		{"tilde fence", "~~~\nls\n~~~", true},
		{"indented block after blank line", "Example:\n\n    x := 1", true},
		{"plain prose", "Just prose.", false},
		{"nested list item", "- item\n    - nested item", false},
		{"list continuation after blank line", "1. step\n\n    more about the step", false},
		{"lazy paragraph continuation", "Example:\n    continued", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, docbridge.HasCode(tt.text))
		})
	}
}
