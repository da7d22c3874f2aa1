// Package markdown transforms the constrained markdown subset used by blog
// bodies into an ordered sequence of typed blocks. The block sequence, not
// markup, is the package's primary output; HTML serialization is a separate
// step so the transform stays portable and testable.
//
// The transform is total: every non-empty block resolves to exactly one block
// kind, and anything unrecognized degrades to a paragraph.
package markdown

import (
	"regexp"
	"strings"
)

// BlockKind discriminates the closed set of block variants.
type BlockKind string

// Block kinds.
const (
	KindHeading    BlockKind = "heading"
	KindList       BlockKind = "list"
	KindBlockquote BlockKind = "blockquote"
	KindParagraph  BlockKind = "paragraph"
)

// SpanStyle discriminates inline span styling.
type SpanStyle string

// Span styles.
const (
	StyleText     SpanStyle = "text"
	StyleStrong   SpanStyle = "strong"
	StyleEmphasis SpanStyle = "em"
)

// Span is a run of inline text with a single style.
type Span struct {
	Style SpanStyle `json:"style"`
	Text  string    `json:"text"`
}

// Block is one classified unit of rendered content.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Level   int       `json:"level,omitempty"`   // headings only, 1-5
	Ordered bool      `json:"ordered,omitempty"` // lists only
	Spans   []Span    `json:"spans,omitempty"`   // heading, blockquote, paragraph
	Items   [][]Span  `json:"items,omitempty"`   // list items
}

var orderedItemRe = regexp.MustCompile(`^\d+\.\s+`)

// Render splits the body on blank-line boundaries and classifies each block.
// Classification runs in priority order: heading, unordered list, ordered
// list, blockquote, paragraph.
func Render(body string) []Block {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var blocks []Block
	for _, raw := range splitBlocks(body) {
		blocks = append(blocks, classify(raw))
	}
	return blocks
}

// splitBlocks groups consecutive non-blank lines into raw blocks.
func splitBlocks(body string) [][]string {
	var out [][]string
	var current []string

	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func classify(lines []string) Block {
	first := lines[0]

	if level, text, ok := headingPrefix(first); ok {
		rest := append([]string{text}, lines[1:]...)
		return Block{
			Kind:  KindHeading,
			Level: level,
			Spans: Inline(strings.Join(rest, " ")),
		}
	}

	if containsPrefix(lines, "- ") {
		return listBlock(lines, false)
	}

	if containsOrderedItem(lines) {
		return listBlock(lines, true)
	}

	if strings.HasPrefix(first, "> ") {
		stripped := make([]string, len(lines))
		for i, line := range lines {
			stripped[i] = strings.TrimPrefix(line, "> ")
		}
		return Block{
			Kind:  KindBlockquote,
			Spans: Inline(strings.Join(stripped, " ")),
		}
	}

	return Block{
		Kind:  KindParagraph,
		Spans: Inline(strings.Join(lines, " ")),
	}
}

// headingPrefix recognizes "#" through "#####" followed by a space.
func headingPrefix(line string) (level int, text string, ok bool) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 5 || i >= len(line) || line[i] != ' ' {
		return 0, "", false
	}
	return i, strings.TrimSpace(line[i+1:]), true
}

func containsPrefix(lines []string, prefix string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func containsOrderedItem(lines []string) bool {
	for _, line := range lines {
		if orderedItemRe.MatchString(line) {
			return true
		}
	}
	return false
}

// listBlock turns each line matching the item prefix into one item. Lines
// inside a list block that do not match the prefix are dropped.
func listBlock(lines []string, ordered bool) Block {
	var items [][]Span
	for _, line := range lines {
		if ordered {
			if loc := orderedItemRe.FindStringIndex(line); loc != nil {
				items = append(items, Inline(line[loc[1]:]))
			}
			continue
		}
		if strings.HasPrefix(line, "- ") {
			items = append(items, Inline(line[2:]))
		}
	}
	return Block{Kind: KindList, Ordered: ordered, Items: items}
}

var (
	strongRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emphasisRe = regexp.MustCompile(`\*(.+?)\*`)
)

// Inline parses bold and italic runs out of a line of text. The strong
// pattern runs before the emphasis pattern; otherwise the single-star pattern
// would partially consume double-star delimiters.
func Inline(text string) []Span {
	var spans []Span
	last := 0
	for _, loc := range strongRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, emphasisSpans(text[last:loc[0]])...)
		}
		spans = append(spans, Span{Style: StyleStrong, Text: text[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, emphasisSpans(text[last:])...)
	}
	return spans
}

func emphasisSpans(text string) []Span {
	var spans []Span
	last := 0
	for _, loc := range emphasisRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Style: StyleText, Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Style: StyleEmphasis, Text: text[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Style: StyleText, Text: text[last:]})
	}
	return spans
}
