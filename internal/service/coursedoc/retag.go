package coursedoc

import (
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// entityRenames maps the entity ids a document was tagged with to the ids
// they received when the record was stored.
type entityRenames struct {
	course string            // new course entity id, "" to keep
	units  map[string]string // old unit entity id -> unit id
}

// newEntityRenames compares the entity ids used in a document with the entity
// ids of the stored record. unitEntities is parallel to unitIDs.
func newEntityRenames(oldCourse, newCourse string, unitEntities, unitIDs []string) entityRenames {
	r := entityRenames{units: make(map[string]string)}
	if newCourse != "" && newCourse != oldCourse {
		r.course = newCourse
	}
	for i, entity := range unitEntities {
		if i < len(unitIDs) && unitIDs[i] != "" && unitIDs[i] != entity {
			r.units[entity] = unitIDs[i]
		}
	}
	return r
}

func (r entityRenames) empty() bool {
	return r.course == "" && len(r.units) == 0
}

// retag returns a copy of doc with field tags and section anchors rewritten
// to the new entity ids. Content is not touched.
func (r entityRenames) retag(doc richtext.Node) richtext.Node {
	if r.empty() {
		return doc
	}
	return r.retagNode(doc)
}

func (r entityRenames) retagNode(n richtext.Node) richtext.Node {
	if tag, ok := n.FieldTag(); ok {
		switch tag.Scope {
		case schema.ScopeCourse:
			if r.course != "" {
				tag.EntityID = r.course
				n = n.WithFieldTag(tag)
			}
		case schema.ScopeUnit:
			if id, ok := r.units[tag.EntityID]; ok {
				tag.EntityID = id
				n = n.WithFieldTag(tag)
			}
		}
	}

	if anchor := n.AttrString(richtext.AttrSectionAnchor); anchor != "" {
		if id, ok := r.units[anchor]; ok {
			attrs := make(map[string]any, len(n.Attrs))
			for k, v := range n.Attrs {
				attrs[k] = v
			}
			attrs[richtext.AttrSectionAnchor] = id
			n.Attrs = attrs
		}
	}

	if len(n.Content) > 0 {
		content := make([]richtext.Node, len(n.Content))
		for i, child := range n.Content {
			content[i] = r.retagNode(child)
		}
		n.Content = content
	}
	return n
}
