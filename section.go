package docbridge

import (
	"regexp"
	"strings"
)

var (
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	openFenceRe  = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})(.*)$")
	closeFenceRe = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*$")
	listItemRe   = regexp.MustCompile(`^ {0,3}([-*+]|\d{1,9}[.)])([ \t]|$)`)
)

// openFence returns the fence that opens a code block on line. A backtick
// fence's info string may not contain backticks.
func openFence(line string) (string, bool) {
	m := openFenceRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[1][0] == '`' && strings.Contains(m[2], "`") {
		return "", false
	}
	return m[1], true
}

// closesFence reports whether line closes a block opened by fence: a bare
// run of the same character at least as long.
func closesFence(line, fence string) bool {
	m := closeFenceRe.FindStringSubmatch(line)
	return m != nil && m[1][0] == fence[0] && len(m[1]) >= len(fence)
}

// SegmentMarkdown splits markdown into labeled elements in document order.
// Headings (H1-H6) emit section_header elements and become the section of
// everything that follows until the next heading. Fenced code blocks emit
// code elements; "#" lines inside them are not headings. Remaining text is
// emitted one paragraph at a time.
func SegmentMarkdown(markdown string) []*Element {
	var (
		elements []*Element
		section  = UnknownSection
		para     []string
		code     []string
		fence    string
	)

	flushPara := func() {
		text := strings.TrimSpace(strings.Join(para, "\n"))
		para = para[:0]
		if text == "" {
			return
		}
		elements = append(elements, &Element{Label: LabelText, Section: section, Text: text})
	}

	for _, line := range strings.Split(markdown, "\n") {
		if fence != "" {
			code = append(code, line)
			if closesFence(line, fence) {
				elements = append(elements, &Element{Label: LabelCode, Section: section, Text: strings.Join(code, "\n")})
				code, fence = nil, ""
			}
			continue
		}

		if f, ok := openFence(line); ok {
			flushPara()
			fence = f
			code = []string{line}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flushPara()
			section = strings.TrimSpace(m[2])
			elements = append(elements, &Element{Label: LabelSectionHeader, Section: section, Text: section})
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushPara()
			continue
		}
		para = append(para, line)
	}

	// Unterminated fence: keep what we have as code.
	if fence != "" {
		elements = append(elements, &Element{Label: LabelCode, Section: section, Text: strings.Join(code, "\n")})
	}
	flushPara()

	return elements
}

// HasCode reports whether text contains a fenced or indented code block.
// An indented line is code only when it starts a block after a blank line
// and is not the continuation of a list item.
func HasCode(text string) bool {
	prevBlank, inList := true, false
	for _, line := range strings.Split(text, "\n") {
		if _, ok := openFence(line); ok {
			return true
		}

		blank := strings.TrimSpace(line) == ""
		switch {
		case blank:
		case strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t"):
			if prevBlank && !inList {
				return true
			}
		case listItemRe.MatchString(line):
			inList = true
		default:
			inList = false
		}
		prevBlank = blank
	}
	return false
}
