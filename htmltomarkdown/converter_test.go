package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docbridge"
	"github.com/fwojciec/docbridge/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "paragraph with link",
			html: `<p>See <a href="https://vuejs.org/guide">the guide</a>.</p>`,
			want: []string{"See [the guide](https://vuejs.org/guide)."},
		},
		{
			name: "heading",
			html: `<h2>Reactivity</h2>`,
			want: []string{"## Reactivity"},
		},
		{
			name: "unordered list",
			html: `<ul><li>ref</li><li>reactive</li></ul>`,
			want: []string{"- ref", "- reactive"},
		},
		{
			name: "fenced code block",
			html: `<pre><code class="language-js">const count = ref(0)</code></pre>`,
			want: []string{"```", "const count = ref(0)"},
		},
		{
			name: "table",
			html: `<table><thead><tr><th>API</th><th>Kind</th></tr></thead><tbody><tr><td>ref</td><td>function</td></tr></tbody></table>`,
			want: []string{"| API", "| ref"},
		},
	}

	conv := htmltomarkdown.NewConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := conv.Convert(tt.html)

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
		})
	}

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert("<p>  text  </p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "text", md)
	})

	t.Run("returns EINVALID for blank input", func(t *testing.T) {
		t.Parallel()

		_, err := conv.Convert("   ")

		assert.Equal(t, docbridge.EINVALID, docbridge.ErrorCode(err))
	})
}
