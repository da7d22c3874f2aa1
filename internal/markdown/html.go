package markdown

import (
	"fmt"
	"html"
	"strings"
)

// HTML serializes a block sequence into markup. Text content is escaped;
// structure comes only from the typed blocks, never from the source text.
func HTML(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case KindHeading:
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", block.Level, spansHTML(block.Spans), block.Level)
		case KindList:
			tag := "ul"
			if block.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(&b, "<%s>\n", tag)
			for _, item := range block.Items {
				fmt.Fprintf(&b, "<li>%s</li>\n", spansHTML(item))
			}
			fmt.Fprintf(&b, "</%s>\n", tag)
		case KindBlockquote:
			fmt.Fprintf(&b, "<blockquote><p>%s</p></blockquote>\n", spansHTML(block.Spans))
		case KindParagraph:
			fmt.Fprintf(&b, "<p>%s</p>\n", spansHTML(block.Spans))
		}
	}
	return b.String()
}

func spansHTML(spans []Span) string {
	var b strings.Builder
	for _, span := range spans {
		escaped := html.EscapeString(span.Text)
		switch span.Style {
		case StyleStrong:
			b.WriteString("<strong>" + escaped + "</strong>")
		case StyleEmphasis:
			b.WriteString("<em>" + escaped + "</em>")
		default:
			b.WriteString(escaped)
		}
	}
	return b.String()
}
