package richtext

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Markup attributes of the custom heading nodes.
const (
	dataType          = "data-type"
	dataLevel         = "data-level"
	dataLabel         = "data-label"
	dataFieldTag      = "data-field-tag"
	dataSectionAnchor = "data-section-anchor"
	dataLabelPrefix   = "data-label-prefix"
	dataContent       = "data-content"
	dataMark          = "data-mark"

	fixedHeadingType    = "fixed-heading"
	editableHeadingType = "editable-heading"
)

// MarkupCodec renders the document tree to the editor's HTML representation
// and parses it back. Incoming markup is sanitized before parsing.
//
// Safe for concurrent use.
type MarkupCodec struct {
	policy *bluemonday.Policy
}

// NewMarkupCodec creates a codec with a policy that keeps the elements and
// data attributes the editor produces and strips everything else.
func NewMarkupCodec() *MarkupCodec {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(
		"p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "code", "hr", "br",
		"strong", "b", "em", "i", "s", "strike", "del", "u", "span", "div", "a",
	)
	policy.AllowDataAttributes()
	policy.AllowAttrs("id").Globally()
	policy.AllowAttrs("contenteditable").OnElements("span")
	policy.AllowAttrs("class").OnElements("code")
	policy.AllowStandardURLs()
	policy.AllowAttrs("href").OnElements("a")

	return &MarkupCodec{policy: policy}
}

// RenderHTML renders a document (or any node) to markup.
func (c *MarkupCodec) RenderHTML(doc Node) string {
	var b strings.Builder
	if doc.Type == TypeDoc {
		for _, n := range doc.Content {
			renderBlock(&b, n)
		}
	} else {
		renderBlock(&b, doc)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, n Node) {
	switch n.Type {
	case TypeFixedHeading:
		a := FixedHeadingAttrsOf(n)
		fmt.Fprintf(b, `<h%d %s="%s" %s="%d" %s="%s" %s="%s">%s</h%d>`,
			a.Level,
			dataType, fixedHeadingType,
			dataLevel, a.Level,
			dataLabel, esc(a.Label),
			dataFieldTag, esc(a.FieldTag),
			esc(a.Label),
			a.Level,
		)

	case TypeEditableHeading:
		a := EditableHeadingAttrsOf(n)
		fmt.Fprintf(b, `<h%d %s="%s" %s="%d" %s="%s" %s="%s"`,
			a.Level,
			dataType, editableHeadingType,
			dataLevel, a.Level,
			dataLabel, esc(a.Label),
			dataFieldTag, esc(a.FieldTag),
		)
		if a.SectionAnchor != "" {
			fmt.Fprintf(b, ` %s="%s" id="%s"`, dataSectionAnchor, esc(a.SectionAnchor), esc(a.SectionAnchor))
		}
		fmt.Fprintf(b, `><span %s contenteditable="false">%s</span><span %s>`, dataLabelPrefix, esc(a.Label), dataContent)
		renderInline(b, n.Content)
		fmt.Fprintf(b, `</span></h%d>`, a.Level)

	case TypeParagraph:
		b.WriteString("<p")
		if tag := n.AttrString(AttrFieldTag); tag != "" {
			fmt.Fprintf(b, ` %s="%s"`, dataFieldTag, esc(tag))
		}
		b.WriteString(">")
		renderInline(b, n.Content)
		b.WriteString("</p>")

	case TypeHeading:
		level := normalizeLevel(n.AttrInt(AttrLevel, defaultHeadingLevel))
		fmt.Fprintf(b, "<h%d>", level)
		renderInline(b, n.Content)
		fmt.Fprintf(b, "</h%d>", level)

	case TypeBulletList, TypeOrderedList, TypeListItem, TypeBlockquote:
		tag := map[string]string{
			TypeBulletList:  "ul",
			TypeOrderedList: "ol",
			TypeListItem:    "li",
			TypeBlockquote:  "blockquote",
		}[n.Type]
		fmt.Fprintf(b, "<%s>", tag)
		for _, child := range n.Content {
			renderBlock(b, child)
		}
		fmt.Fprintf(b, "</%s>", tag)

	case TypeCodeBlock:
		b.WriteString("<pre><code")
		if lang := n.AttrString("language"); lang != "" {
			fmt.Fprintf(b, ` class="language-%s"`, esc(lang))
		}
		b.WriteString(">")
		b.WriteString(esc(n.PlainText()))
		b.WriteString("</code></pre>")

	case TypeHorizontalRule:
		b.WriteString("<hr>")

	case TypeText, TypeHardBreak:
		// inline node at block level
		b.WriteString("<p>")
		renderInline(b, []Node{n})
		b.WriteString("</p>")

	default:
		fmt.Fprintf(b, `<div %s="%s">`, dataType, esc(n.Type))
		for _, child := range n.Content {
			renderBlock(b, child)
		}
		b.WriteString("</div>")
	}
}

func renderInline(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n.Type {
		case TypeHardBreak:
			b.WriteString("<br>")
		case TypeText:
			open, closing := markTags(n.Marks)
			b.WriteString(open)
			b.WriteString(esc(n.Text))
			b.WriteString(closing)
		}
	}
}

func markTags(marks []Mark) (string, string) {
	var open, closing strings.Builder
	closers := make([]string, 0, len(marks))
	for _, m := range marks {
		switch m.Type {
		case "bold":
			open.WriteString("<strong>")
			closers = append(closers, "</strong>")
		case "italic":
			open.WriteString("<em>")
			closers = append(closers, "</em>")
		case "code":
			open.WriteString("<code>")
			closers = append(closers, "</code>")
		case "strike":
			open.WriteString("<s>")
			closers = append(closers, "</s>")
		case "underline":
			open.WriteString("<u>")
			closers = append(closers, "</u>")
		case "link":
			href, _ := m.Attrs["href"].(string)
			fmt.Fprintf(&open, `<a href="%s">`, esc(href))
			closers = append(closers, "</a>")
		default:
			fmt.Fprintf(&open, `<span %s="%s">`, dataMark, esc(m.Type))
			closers = append(closers, "</span>")
		}
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closing.WriteString(closers[i])
	}
	return open.String(), closing.String()
}

func esc(s string) string {
	return html.EscapeString(s)
}

// ParseHTML parses editor markup into a doc node. It never fails; markup it
// cannot interpret is dropped and custom nodes with missing attributes fall
// back to level 1 and empty label and tag.
func (c *MarkupCodec) ParseHTML(markup string) Node {
	sanitized := c.policy.Sanitize(markup)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sanitized))
	if err != nil {
		return NewDoc(nil)
	}

	return NewDoc(parseBlocks(doc.Find("body").First()))
}

func parseBlocks(parent *goquery.Selection) []Node {
	var out []Node
	var pending []Node // stray inline content between blocks

	flushInline := func() {
		if len(pending) > 0 {
			out = append(out, Node{Type: TypeParagraph, Content: pending})
			pending = nil
		}
	}

	parent.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if isInlineElement(name) {
			if name == "#text" && strings.TrimSpace(s.Text()) == "" {
				return
			}
			pending = append(pending, parseInline(s, nil)...)
			return
		}
		flushInline()
		if n, ok := parseBlock(s, name); ok {
			out = append(out, n)
		}
	})
	flushInline()

	return out
}

func parseBlock(s *goquery.Selection, name string) (Node, bool) {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return parseHeading(s, name), true

	case "p":
		n := Node{Type: TypeParagraph, Content: parseInlineChildren(s, nil)}
		if tag, ok := s.Attr(dataFieldTag); ok && tag != "" {
			n.Attrs = map[string]any{AttrFieldTag: tag}
		}
		return n, true

	case "ul", "ol":
		typ := TypeBulletList
		if name == "ol" {
			typ = TypeOrderedList
		}
		var items []Node
		s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, Node{Type: TypeListItem, Content: parseBlocks(li)})
		})
		return Node{Type: typ, Content: items}, true

	case "li":
		return Node{Type: TypeListItem, Content: parseBlocks(s)}, true

	case "blockquote":
		return Node{Type: TypeBlockquote, Content: parseBlocks(s)}, true

	case "pre":
		n := Node{Type: TypeCodeBlock}
		code := s.Find("code").First()
		text := s.Text()
		if code.Length() > 0 {
			text = code.Text()
			if class, ok := code.Attr("class"); ok && strings.HasPrefix(class, "language-") {
				n.Attrs = map[string]any{"language": strings.TrimPrefix(class, "language-")}
			}
		}
		if text != "" {
			n.Content = []Node{Text(text)}
		}
		return n, true

	case "hr":
		return Node{Type: TypeHorizontalRule}, true

	case "div":
		typ, _ := s.Attr(dataType)
		if typ == "" || typ == TypeDoc {
			return Node{}, false
		}
		return Node{Type: typ, Content: parseBlocks(s)}, true
	}

	return Node{}, false
}

func parseHeading(s *goquery.Selection, name string) Node {
	tagLevel, _ := strconv.Atoi(strings.TrimPrefix(name, "h"))

	switch typ, _ := s.Attr(dataType); typ {
	case fixedHeadingType:
		return NewFixedHeading(FixedHeadingAttrs{
			Level:    attrLevel(s),
			Label:    s.AttrOr(dataLabel, ""),
			FieldTag: s.AttrOr(dataFieldTag, ""),
		})

	case editableHeadingType:
		content := s.ChildrenFiltered("span[" + dataContent + "]").First()
		var inline []Node
		if content.Length() > 0 {
			inline = parseInlineChildren(content, nil)
		} else {
			inline = parseInlineChildren(s.Clone().Find("span["+dataLabelPrefix+"]").Remove().End(), nil)
		}
		return NewEditableHeading(EditableHeadingAttrs{
			Level:         attrLevel(s),
			Label:         s.AttrOr(dataLabel, ""),
			FieldTag:      s.AttrOr(dataFieldTag, ""),
			SectionAnchor: s.AttrOr(dataSectionAnchor, ""),
		}, inline)
	}

	return Node{
		Type:    TypeHeading,
		Attrs:   map[string]any{AttrLevel: normalizeLevel(tagLevel)},
		Content: parseInlineChildren(s, nil),
	}
}

// attrLevel reads data-level; a missing or invalid value means level 1.
func attrLevel(s *goquery.Selection) int {
	level, err := strconv.Atoi(strings.TrimSpace(s.AttrOr(dataLevel, "")))
	if err != nil {
		return defaultHeadingLevel
	}
	return normalizeLevel(level)
}

func isInlineElement(name string) bool {
	switch name {
	case "#text", "br", "strong", "b", "em", "i", "code", "s", "strike", "del", "u", "a", "span":
		return true
	}
	return false
}

func parseInlineChildren(s *goquery.Selection, marks []Mark) []Node {
	var out []Node
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		out = append(out, parseInline(child, marks)...)
	})
	return out
}

func parseInline(s *goquery.Selection, marks []Mark) []Node {
	name := goquery.NodeName(s)

	var mark *Mark
	switch name {
	case "#text":
		text := s.Text()
		if text == "" {
			return nil
		}
		return []Node{Text(text, append([]Mark(nil), marks...)...)}
	case "br":
		return []Node{{Type: TypeHardBreak}}
	case "strong", "b":
		mark = &Mark{Type: "bold"}
	case "em", "i":
		mark = &Mark{Type: "italic"}
	case "code":
		mark = &Mark{Type: "code"}
	case "s", "strike", "del":
		mark = &Mark{Type: "strike"}
	case "u":
		mark = &Mark{Type: "underline"}
	case "a":
		mark = &Mark{Type: "link", Attrs: map[string]any{"href": s.AttrOr("href", "")}}
	case "span":
		if typ, ok := s.Attr(dataMark); ok && typ != "" {
			mark = &Mark{Type: typ}
		}
	default:
		// block element inside inline content: keep its text
		return parseInlineChildren(s, marks)
	}

	next := marks
	if mark != nil {
		next = append(append([]Mark(nil), marks...), *mark)
	}
	return parseInlineChildren(s, next)
}
