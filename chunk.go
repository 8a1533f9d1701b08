package docbridge

import "unicode/utf8"

// DefaultChunkWidth is the fallback chunker window width in characters.
const DefaultChunkWidth = 1000

// ChunkText splits text into consecutive, non-overlapping windows of at most
// width characters (runes), in order. Concatenating the chunks yields text.
// Empty text yields no chunks. A non-positive width uses DefaultChunkWidth.
func ChunkText(text string, width int) []string {
	if width <= 0 {
		width = DefaultChunkWidth
	}
	if text == "" {
		return nil
	}

	n := utf8.RuneCountInString(text)
	chunks := make([]string, 0, (n+width-1)/width)

	start, count := 0, 0
	for i := range text {
		if count == width {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	chunks = append(chunks, text[start:])

	return chunks
}
