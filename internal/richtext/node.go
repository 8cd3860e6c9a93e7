// Package richtext models the editor's document tree (ProseMirror/TipTap JSON)
// and the custom node kinds that mark course fields inside it.
package richtext

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Node types produced or understood by the backend.
const (
	TypeDoc             = "doc"
	TypeParagraph       = "paragraph"
	TypeText            = "text"
	TypeHeading         = "heading"
	TypeHardBreak       = "hardBreak"
	TypeBulletList      = "bulletList"
	TypeOrderedList     = "orderedList"
	TypeListItem        = "listItem"
	TypeBlockquote      = "blockquote"
	TypeCodeBlock       = "codeBlock"
	TypeHorizontalRule  = "horizontalRule"
	TypeFixedHeading    = "fixedHeading"
	TypeEditableHeading = "editableHeading"
)

// Attribute keys shared by the custom nodes.
const (
	AttrLevel         = "level"
	AttrLabel         = "label"
	AttrFieldTag      = "fieldTag"
	AttrSectionAnchor = "sectionAnchor"
)

// Node is one node of the rich-text tree.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark is an inline formatting mark on a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewDoc wraps top-level content in a doc node.
func NewDoc(content []Node) Node {
	return Node{Type: TypeDoc, Content: content}
}

// Text returns a text run.
func Text(s string, marks ...Mark) Node {
	return Node{Type: TypeText, Text: s, Marks: marks}
}

// Paragraph returns a paragraph holding a single unmarked text run.
// An empty string yields an empty paragraph.
func Paragraph(s string) Node {
	if s == "" {
		return EmptyParagraph()
	}
	return Node{Type: TypeParagraph, Content: []Node{Text(s)}}
}

// EmptyParagraph returns a paragraph with no content.
func EmptyParagraph() Node {
	return Node{Type: TypeParagraph}
}

// AttrString reads a string attribute, returning "" when absent or not a string.
func (n Node) AttrString(key string) string {
	s, _ := n.Attrs[key].(string)
	return s
}

// AttrInt reads a numeric attribute. JSON numbers arrive as float64,
// markup attributes as strings.
func (n Node) AttrInt(key string, def int) int {
	switch v := n.Attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

// FieldTag decodes the node's field tag attribute, if it has a valid one.
func (n Node) FieldTag() (FieldTag, bool) {
	raw := n.AttrString(AttrFieldTag)
	if raw == "" {
		return FieldTag{}, false
	}
	return ParseFieldTag(raw)
}

// WithFieldTag returns a copy of the node tagged with tag.
func (n Node) WithFieldTag(tag FieldTag) Node {
	attrs := make(map[string]any, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	attrs[AttrFieldTag] = tag.String()
	n.Attrs = attrs
	return n
}

// IsInline reports whether the node may appear inside a paragraph or heading.
func (n Node) IsInline() bool {
	return n.Type == TypeText || n.Type == TypeHardBreak
}

// PlainText concatenates the text runs directly inside the node.
func (n Node) PlainText() string {
	if n.Type == TypeText {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Content {
		if child.Type == TypeText {
			b.WriteString(child.Text)
		}
	}
	return b.String()
}

// Walk visits n and all of its descendants depth-first.
func Walk(n Node, visit func(Node)) {
	visit(n)
	for _, child := range n.Content {
		Walk(child, visit)
	}
}
