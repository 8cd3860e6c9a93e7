package coursedoc

import (
	"fmt"
	"strings"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
)

// MarkdownExporter renders a course document as Markdown.
type MarkdownExporter struct {
	serializer *Serializer
}

// NewMarkdownExporter creates an exporter that lays courses out with serializer.
func NewMarkdownExporter(serializer *Serializer) *MarkdownExporter {
	return &MarkdownExporter{serializer: serializer}
}

// Course renders a course record.
func (e *MarkdownExporter) Course(c *courses.Course) string {
	return e.Document(e.serializer.RecordToDocument(c))
}

// Document renders an editor document. Fields that start a section (the
// course description, each unit name) are preceded by a horizontal rule,
// except at the very top.
func (e *MarkdownExporter) Document(doc richtext.Node) string {
	var b strings.Builder
	for _, n := range doc.Content {
		if e.startsSection(n) && b.Len() > 0 {
			b.WriteString("---\n\n")
		}
		writeBlock(&b, n, 0)
	}
	return strings.TrimSpace(b.String())
}

func (e *MarkdownExporter) startsSection(n richtext.Node) bool {
	var raw string
	switch n.Type {
	case richtext.TypeFixedHeading:
		raw = richtext.FixedHeadingAttrsOf(n).FieldTag
	case richtext.TypeEditableHeading:
		raw = richtext.EditableHeadingAttrsOf(n).FieldTag
	default:
		return false
	}
	tag, ok := richtext.ParseFieldTag(raw)
	if !ok {
		return false
	}
	f, ok := e.serializer.schema.Lookup(tag.Scope, tag.Field)
	return ok && f.StartsSection
}

func writeBlock(b *strings.Builder, n richtext.Node, depth int) {
	switch n.Type {
	case richtext.TypeFixedHeading:
		attrs := richtext.FixedHeadingAttrsOf(n)
		writeHeadingMarker(b, attrs.Level)
		b.WriteString(strings.TrimSpace(attrs.Label))
		b.WriteString("\n\n")
	case richtext.TypeEditableHeading:
		attrs := richtext.EditableHeadingAttrsOf(n)
		writeHeadingMarker(b, attrs.Level)
		b.WriteString(attrs.Label)
		writeInline(b, n.Content)
		b.WriteString("\n\n")
	case richtext.TypeHeading:
		writeHeadingMarker(b, n.AttrInt(richtext.AttrLevel, 1))
		writeInline(b, n.Content)
		b.WriteString("\n\n")
	case richtext.TypeParagraph:
		if len(n.Content) == 0 {
			return
		}
		writeInline(b, n.Content)
		b.WriteString("\n\n")
	case richtext.TypeBulletList:
		for _, item := range n.Content {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("- ")
			writeListItem(b, item, depth)
		}
		if depth == 0 {
			b.WriteString("\n")
		}
	case richtext.TypeOrderedList:
		for i, item := range n.Content {
			b.WriteString(strings.Repeat("  ", depth))
			fmt.Fprintf(b, "%d. ", i+1)
			writeListItem(b, item, depth)
		}
		if depth == 0 {
			b.WriteString("\n")
		}
	case richtext.TypeCodeBlock:
		b.WriteString("```")
		b.WriteString(n.AttrString("language"))
		b.WriteString("\n")
		for _, child := range n.Content {
			b.WriteString(child.Text)
		}
		b.WriteString("\n```\n\n")
	case richtext.TypeBlockquote:
		var inner strings.Builder
		for _, child := range n.Content {
			writeBlock(&inner, child, 0)
		}
		for _, line := range strings.Split(strings.TrimSpace(inner.String()), "\n") {
			b.WriteString(strings.TrimRight("> "+line, " "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	case richtext.TypeHorizontalRule:
		b.WriteString("---\n\n")
	default:
		if n.IsInline() {
			writeInline(b, []richtext.Node{n})
			b.WriteString("\n\n")
			return
		}
		for _, child := range n.Content {
			writeBlock(b, child, depth)
		}
	}
}

func writeListItem(b *strings.Builder, item richtext.Node, depth int) {
	wroteLine := false
	for _, child := range item.Content {
		switch child.Type {
		case richtext.TypeParagraph:
			if wroteLine {
				b.WriteString(strings.Repeat("  ", depth+1))
			}
			writeInline(b, child.Content)
			b.WriteString("\n")
			wroteLine = true
		case richtext.TypeBulletList, richtext.TypeOrderedList:
			if !wroteLine {
				b.WriteString("\n")
				wroteLine = true
			}
			writeBlock(b, child, depth+1)
		default:
			writeBlock(b, child, depth+1)
			wroteLine = true
		}
	}
	if !wroteLine {
		b.WriteString("\n")
	}
}

func writeHeadingMarker(b *strings.Builder, level int) {
	if level < 1 || level > 6 {
		level = 1
	}
	b.WriteString(strings.Repeat("#", level))
	b.WriteString(" ")
}

func writeInline(b *strings.Builder, content []richtext.Node) {
	for _, n := range content {
		switch n.Type {
		case richtext.TypeText:
			b.WriteString(applyMarks(n.Text, n.Marks))
		case richtext.TypeHardBreak:
			b.WriteString("  \n")
		default:
			writeInline(b, n.Content)
		}
	}
}

func applyMarks(text string, marks []richtext.Mark) string {
	result := text
	href := ""
	for _, m := range marks {
		switch m.Type {
		case "bold":
			result = "**" + result + "**"
		case "italic":
			result = "*" + result + "*"
		case "code":
			result = "`" + result + "`"
		case "strike":
			result = "~~" + result + "~~"
		case "link":
			if v, ok := m.Attrs["href"].(string); ok {
				href = v
			}
		}
	}
	if href != "" {
		result = "[" + result + "](" + href + ")"
	}
	return result
}
