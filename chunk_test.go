package docbridge_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/docbridge"
	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	t.Parallel()

	t.Run("produces ceil(L/W) chunks that concatenate to the input", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct {
			length int
			width  int
		}{
			{1, 1000}, {999, 1000}, {1000, 1000}, {1001, 1000}, {2500, 1000}, {10, 3}, {9, 3},
		} {
			text := strings.Repeat("x", tc.length)

			chunks := docbridge.ChunkText(text, tc.width)

			want := (tc.length + tc.width - 1) / tc.width
			assert.Len(t, chunks, want, "length=%d width=%d", tc.length, tc.width)
			assert.Equal(t, text, strings.Join(chunks, ""))
			for _, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), tc.width)
			}
		}
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docbridge.ChunkText("", 1000))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("é", 5)

		chunks := docbridge.ChunkText(text, 2)

		assert.Equal(t, []string{"éé", "éé", "é"}, chunks)
	})

	t.Run("non-positive width uses the default", func(t *testing.T) {
		t.Parallel()

		chunks := docbridge.ChunkText(strings.Repeat("a", 1500), 0)

		assert.Len(t, chunks, 2)
		assert.Len(t, chunks[0], docbridge.DefaultChunkWidth)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("lorem ipsum ", 300)

		assert.Equal(t, docbridge.ChunkText(text, 128), docbridge.ChunkText(text, 128))
	})
}
