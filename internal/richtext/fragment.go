package richtext

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EmptySentinel is the persisted value of a rich-text field with no content.
const EmptySentinel = "[]"

// FragmentStatus describes how a persisted field value was interpreted.
type FragmentStatus int

const (
	// FragmentBlank is the sentinel, an empty string or a fragment without content.
	FragmentBlank FragmentStatus = iota
	// FragmentOK is a well-formed fragment.
	FragmentOK
	// FragmentSalvaged is readable text that was not a fragment, kept as a paragraph.
	FragmentSalvaged
	// FragmentCorrupt is valid JSON of an unrecognized shape. Nothing was kept.
	FragmentCorrupt
)

func (s FragmentStatus) String() string {
	switch s {
	case FragmentBlank:
		return "blank"
	case FragmentOK:
		return "ok"
	case FragmentSalvaged:
		return "salvaged"
	case FragmentCorrupt:
		return "corrupt"
	}
	return "unknown"
}

// ParseFragment reads a persisted rich-text value. Accepted shapes are a doc
// node, a bare content list and a single content node. It never fails:
// non-JSON text (and JSON scalars) are salvaged as one plain paragraph, which
// is a best-effort guess and may wrap non-prose content; other shapes yield
// no nodes with FragmentCorrupt.
func ParseFragment(raw string) ([]Node, FragmentStatus) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == EmptySentinel {
		return nil, FragmentBlank
	}

	if !json.Valid([]byte(trimmed)) {
		return []Node{Paragraph(trimmed)}, FragmentSalvaged
	}

	if nodes, ok := decodeFragment(trimmed); ok {
		if len(nodes) == 0 {
			return nil, FragmentBlank
		}
		return nodes, FragmentOK
	}

	var scalar any
	if err := json.Unmarshal([]byte(trimmed), &scalar); err == nil {
		switch v := scalar.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return []Node{Paragraph(s)}, FragmentSalvaged
			}
			return nil, FragmentBlank
		case float64, bool:
			return []Node{Paragraph(trimmed)}, FragmentSalvaged
		}
	}

	return nil, FragmentCorrupt
}

// decodeFragment recognizes the three fragment shapes.
func decodeFragment(trimmed string) ([]Node, bool) {
	if trimmed == "" {
		return nil, false
	}

	switch trimmed[0] {
	case '[':
		var nodes []Node
		if err := json.Unmarshal([]byte(trimmed), &nodes); err != nil {
			return nil, false
		}
		return nodes, validNodes(nodes)

	case '{':
		var n Node
		if err := json.Unmarshal([]byte(trimmed), &n); err != nil {
			return nil, false
		}
		if n.Type == TypeDoc {
			return n.Content, validNodes(n.Content)
		}
		if !validNode(n) {
			return nil, false
		}
		return []Node{n}, true
	}

	return nil, false
}

func validNodes(nodes []Node) bool {
	for _, n := range nodes {
		if !validNode(n) {
			return false
		}
	}
	return true
}

func validNode(n Node) bool {
	if n.Type == "" || n.Type == TypeDoc {
		return false
	}
	if n.Type == TypeText && len(n.Content) > 0 {
		return false
	}
	return validNodes(n.Content)
}

// Stringify serializes content as a doc fragment, or the sentinel when there
// is no content.
func Stringify(nodes []Node) string {
	if len(nodes) == 0 {
		return EmptySentinel
	}
	// match JSON.stringify output: no HTML escaping, no trailing newline
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDoc(nodes)); err != nil {
		return EmptySentinel
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// CanonicalDoc returns the Stringify form of a persisted value that is a doc
// node with content. ok is false for the sentinel, the other fragment shapes
// and anything that does not parse.
func CanonicalDoc(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return "", false
	}
	var n Node
	if err := json.Unmarshal([]byte(trimmed), &n); err != nil {
		return "", false
	}
	if n.Type != TypeDoc || len(n.Content) == 0 || !validNodes(n.Content) {
		return "", false
	}
	return Stringify(n.Content), true
}

// IsEmpty reports whether a persisted rich-text value has no meaningful
// content: it fails to parse as a fragment, is the sentinel, has no content,
// or holds exactly one paragraph that is empty or a single whitespace run.
func IsEmpty(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == EmptySentinel {
		return true
	}
	nodes, ok := decodeFragment(trimmed)
	if !ok {
		return true
	}
	return NodesEmpty(nodes)
}

// NodesEmpty applies the emptiness rule of IsEmpty to already parsed content.
func NodesEmpty(nodes []Node) bool {
	if len(nodes) == 0 {
		return true
	}
	if len(nodes) != 1 || nodes[0].Type != TypeParagraph {
		return false
	}
	content := nodes[0].Content
	switch {
	case len(content) == 0:
		return true
	case len(content) == 1 && content[0].Type == TypeText:
		return strings.TrimSpace(content[0].Text) == ""
	}
	return false
}
