package docbridge

import "context"

// ExtractMode records how a raw unit was produced. The normalizer uses it to
// pick a default trust score.
type ExtractMode int

const (
	// ModeRemote units come from the remote extraction service.
	ModeRemote ExtractMode = iota
	// ModeConverted units come from structured conversion of a local file.
	ModeConverted
	// ModeChunked units come from fixed-size chunking of a local file.
	ModeChunked
)

// Default trust scores by extraction mode.
const (
	DefaultRemoteTrustScore    = 8
	DefaultConvertedTrustScore = 7
	DefaultChunkedTrustScore   = 5
)

// RawUnit is a unit of content as returned by a SourceAdapter, before
// normalization. TrustScore is nil when the origin did not supply one.
type RawUnit struct {
	Content    string
	Type       string
	Section    string
	HasCode    bool
	TrustScore *int
	Mode       ExtractMode
}

// Element is a semantically labeled block produced by a DocumentConverter.
type Element struct {
	Label   string
	Section string
	Text    string
}

// Element labels emitted by converters.
const (
	LabelSectionHeader = "section_header"
	LabelText          = "text"
	LabelParagraph     = "paragraph"
	LabelList          = "list"
	LabelTable         = "table"
	LabelQuote         = "quote"
	LabelCode          = "code"
)

// DocumentConverter converts a rich local document into labeled elements.
type DocumentConverter interface {
	// Convert reads the file at path and returns its elements in document order.
	// Returns EUNSUPPORTED if the format is not understood.
	Convert(ctx context.Context, path string) ([]*Element, error)
}
