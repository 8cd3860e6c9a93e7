package richtext

const defaultHeadingLevel = 1

// FixedHeadingAttrs are the attributes of a fixed heading node.
// A fixed heading is atomic: it holds no content and users cannot edit it.
type FixedHeadingAttrs struct {
	Level    int
	Label    string
	FieldTag string
}

// EditableHeadingAttrs are the attributes of an editable heading node.
// The label renders as a non-editable prefix before the inline content.
type EditableHeadingAttrs struct {
	Level         int
	Label         string
	FieldTag      string
	SectionAnchor string
}

// NewFixedHeading builds a fixed heading node.
func NewFixedHeading(a FixedHeadingAttrs) Node {
	return Node{
		Type: TypeFixedHeading,
		Attrs: map[string]any{
			AttrLevel:    normalizeLevel(a.Level),
			AttrLabel:    a.Label,
			AttrFieldTag: a.FieldTag,
		},
	}
}

// FixedHeadingAttrsOf reads the attributes of a fixed heading, applying
// defaults for anything missing.
func FixedHeadingAttrsOf(n Node) FixedHeadingAttrs {
	return FixedHeadingAttrs{
		Level:    normalizeLevel(n.AttrInt(AttrLevel, defaultHeadingLevel)),
		Label:    n.AttrString(AttrLabel),
		FieldTag: n.AttrString(AttrFieldTag),
	}
}

// NewEditableHeading builds an editable heading node. Only inline nodes are
// kept as content; block nodes (including nested headings) are dropped.
func NewEditableHeading(a EditableHeadingAttrs, content []Node) Node {
	attrs := map[string]any{
		AttrLevel:    normalizeLevel(a.Level),
		AttrLabel:    a.Label,
		AttrFieldTag: a.FieldTag,
	}
	if a.SectionAnchor != "" {
		attrs[AttrSectionAnchor] = a.SectionAnchor
	}
	return Node{
		Type:    TypeEditableHeading,
		Attrs:   attrs,
		Content: inlineOnly(content),
	}
}

// EditableHeadingAttrsOf reads the attributes of an editable heading,
// applying defaults for anything missing.
func EditableHeadingAttrsOf(n Node) EditableHeadingAttrs {
	return EditableHeadingAttrs{
		Level:         normalizeLevel(n.AttrInt(AttrLevel, defaultHeadingLevel)),
		Label:         n.AttrString(AttrLabel),
		FieldTag:      n.AttrString(AttrFieldTag),
		SectionAnchor: n.AttrString(AttrSectionAnchor),
	}
}

func normalizeLevel(level int) int {
	if level < 1 || level > 6 {
		return defaultHeadingLevel
	}
	return level
}

func inlineOnly(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n.IsInline() {
			out = append(out, n)
		}
	}
	return out
}
