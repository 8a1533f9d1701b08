// Package goquery segments HTML documentation into labeled blocks using
// goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docbridge"
)

var _ docbridge.Segmenter = (*Segmenter)(nil)

// blockLabels maps block-level tags to the label of the element they produce.
var blockLabels = map[string]string{
	"p":          docbridge.LabelParagraph,
	"ul":         docbridge.LabelList,
	"ol":         docbridge.LabelList,
	"dl":         docbridge.LabelList,
	"table":      docbridge.LabelTable,
	"blockquote": docbridge.LabelQuote,
	"pre":        docbridge.LabelCode,
}

// skipped subtrees never contain documentation content.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"nav":      true,
	"aside":    true,
	"footer":   true,
	"form":     true,
}

// Segmenter walks block elements in document order. Headings start a new
// section; every other block is rendered to Markdown by Converter.
type Segmenter struct {
	Converter docbridge.Converter
}

// NewSegmenter creates a Segmenter that renders blocks with conv.
func NewSegmenter(conv docbridge.Converter) *Segmenter {
	return &Segmenter{Converter: conv}
}

type walkState struct {
	section  string
	elements []*docbridge.Element
}

// Segment parses html and returns its blocks. Blocks before the first
// heading belong to the unknown section.
func (s *Segmenter) Segment(html string) ([]*docbridge.Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docbridge.Errorf(docbridge.EINVALID, "failed to parse HTML: %v", err)
	}

	st := &walkState{section: docbridge.UnknownSection}
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	if err := s.walk(root, st); err != nil {
		return nil, err
	}
	return st.elements, nil
}

func (s *Segmenter) walk(sel *goquery.Selection, st *walkState) error {
	var err error
	sel.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		err = s.visit(child, st)
		return err == nil
	})
	return err
}

func (s *Segmenter) visit(sel *goquery.Selection, st *walkState) error {
	tag := goquery.NodeName(sel)
	if skipped[tag] {
		return nil
	}

	if isHeading(tag) {
		text := collapseSpace(sel.Text())
		if text == "" {
			return nil
		}
		st.section = text
		st.elements = append(st.elements, &docbridge.Element{
			Label:   docbridge.LabelSectionHeader,
			Section: text,
			Text:    text,
		})
		return nil
	}

	label, ok := blockLabels[tag]
	if !ok {
		return s.walk(sel, st)
	}
	if strings.TrimSpace(sel.Text()) == "" {
		return nil
	}

	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return err
	}
	md, err := s.Converter.Convert(html)
	if err != nil {
		return err
	}
	if md == "" {
		return nil
	}

	st.elements = append(st.elements, &docbridge.Element{
		Label:   label,
		Section: st.section,
		Text:    md,
	})
	return nil
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
