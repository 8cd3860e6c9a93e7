package coursedoc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// draftEntityID stands in for the id of a course that has not been saved yet.
const draftEntityID = "draft"

// Serializer converts between a course record and its editor document.
type Serializer struct {
	schema *schema.Schema
	logger *slog.Logger
	newID  func() string
}

// NewSerializer creates a serializer for the given field schema.
func NewSerializer(s *schema.Schema, logger *slog.Logger) *Serializer {
	return &Serializer{
		schema: s,
		logger: logger,
		newID:  NewUnitID,
	}
}

// NewUnitID mints a unit id. UUIDv7 ids sort in creation order.
func NewUnitID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// courseEntityID is the entity id used in course-scoped tags.
func courseEntityID(c *courses.Course) string {
	if c.ID == "" || strings.Contains(c.ID, ".") {
		return draftEntityID
	}
	return c.ID
}

// unitEntityIDs returns the entity id used in unit-scoped tags for each unit.
// A unit is tagged with its own id unless the id is empty, contains a dot or
// repeats an earlier unit's id. Those units get a "pending<i>" placeholder
// that no other unit uses. Placeholders are never numeric, so they cannot be
// mistaken for section indices.
func unitEntityIDs(units []courses.Unit) []string {
	ids := make([]string, len(units))
	used := make(map[string]bool, len(units))
	for i := range units {
		id := units[i].ID
		if id == "" || strings.Contains(id, ".") || used[id] {
			continue
		}
		ids[i] = id
		used[id] = true
	}
	for i := range ids {
		if ids[i] != "" {
			continue
		}
		placeholder := "pending" + strconv.Itoa(i)
		for n := 1; used[placeholder]; n++ {
			placeholder = fmt.Sprintf("pending%d-%d", i, n)
		}
		ids[i] = placeholder
		used[placeholder] = true
	}
	return ids
}

// RecordToDocument builds the editor document for a course. It never fails:
// malformed rich-text values are logged and replaced (see richtext.ParseFragment).
func (s *Serializer) RecordToDocument(c *courses.Course) richtext.Node {
	if c == nil {
		c = &courses.Course{}
	}

	var content []richtext.Node
	courseID := courseEntityID(c)
	for _, f := range s.schema.Course() {
		value, _ := c.Field(f.Name)
		content = append(content, s.fieldNodes(richtext.CourseTag(courseID, f.Name), f, deref(value), "")...)
	}

	for i, entityID := range unitEntityIDs(c.Units) {
		content = append(content, s.unitNodes(entityID, &c.Units[i])...)
	}

	return richtext.NewDoc(content)
}

// unitNodes lays out one unit. entityID goes into the field tags and the
// section anchor.
func (s *Serializer) unitNodes(entityID string, u *courses.Unit) []richtext.Node {
	var nodes []richtext.Node
	for _, f := range s.schema.Unit() {
		value, _ := u.Field(f.Name)
		nodes = append(nodes, s.fieldNodes(richtext.UnitTag(entityID, f.Name), f, deref(value), entityID)...)
	}
	return nodes
}

func (s *Serializer) fieldNodes(tag richtext.FieldTag, f schema.Field, value, anchor string) []richtext.Node {
	switch f.Kind {
	case schema.KindHeading:
		var inline []richtext.Node
		if value != "" {
			inline = []richtext.Node{richtext.Text(value)}
		}
		return []richtext.Node{richtext.NewEditableHeading(richtext.EditableHeadingAttrs{
			Level:         f.Level,
			Label:         f.Label,
			FieldTag:      tag.String(),
			SectionAnchor: anchor,
		}, inline)}

	case schema.KindPlainText:
		return []richtext.Node{
			s.fixedHeading(tag, f),
			richtext.Paragraph(value).WithFieldTag(tag),
		}

	default:
		return append([]richtext.Node{s.fixedHeading(tag, f)}, s.parseField(tag, value)...)
	}
}

func (s *Serializer) fixedHeading(tag richtext.FieldTag, f schema.Field) richtext.Node {
	return richtext.NewFixedHeading(richtext.FixedHeadingAttrs{
		Level:    f.Level,
		Label:    f.Label,
		FieldTag: tag.AsHeader().String(),
	})
}

// parseField returns the content nodes of a rich-text value, or a single
// empty paragraph when there is nothing usable.
func (s *Serializer) parseField(tag richtext.FieldTag, value string) []richtext.Node {
	nodes, status := richtext.ParseFragment(value)
	switch status {
	case richtext.FragmentSalvaged:
		s.logger.Warn("rich-text field is not a fragment, kept as plain text",
			"field", tag.String(),
			"length", len(value),
		)
	case richtext.FragmentCorrupt:
		s.logger.Warn("rich-text field has unrecognized shape, replaced with empty paragraph",
			"field", tag.String(),
			"length", len(value),
		)
	}
	if len(nodes) == 0 {
		return []richtext.Node{richtext.EmptyParagraph()}
	}
	return nodes
}

// DocumentToRecord reads an edited document back into a course record.
// original supplies the id, workflow metadata and the unit list; every
// original unit is kept in order, and units that only exist in the document
// (inserted sections) are appended with fresh ids. A unit that repeats an
// earlier unit's id keeps its content under a fresh id.
func (s *Serializer) DocumentToRecord(doc richtext.Node, original *courses.Course) *courses.Course {
	c, _ := s.documentToRecord(doc, original)
	return c
}

// documentToRecord also returns, for each unit of the record, the entity id
// its fields were tagged with in doc.
func (s *Serializer) documentToRecord(doc richtext.Node, original *courses.Course) (*courses.Course, []string) {
	w := newWalker(s)
	for _, n := range doc.Content {
		w.step(n)
	}
	w.finish()

	return s.assemble(w, original)
}

func (s *Serializer) assemble(w *walker, original *courses.Course) (*courses.Course, []string) {
	out := original.Clone()
	if out == nil {
		out = &courses.Course{}
	}

	for _, f := range s.schema.Course() {
		ptr, ok := out.Field(f.Name)
		if !ok {
			continue
		}
		*ptr = keepEncoding(f, *ptr, valueOrEmpty(w.course, f))
	}

	units := make([]courses.Unit, 0, len(out.Units)+len(w.unitOrder))
	entities := make([]string, 0, cap(units))
	known := make(map[string]bool, len(out.Units))
	ids := make(map[string]bool, len(out.Units))
	for i, entityID := range unitEntityIDs(out.Units) {
		known[entityID] = true

		observed, seen := w.units[entityID]
		if !seen {
			s.logger.Warn("unit missing from document, keeping it with empty fields",
				"unit_id", out.Units[i].ID,
			)
		}
		u := s.buildUnit(&out.Units[i], observed)
		if u.ID != "" && ids[u.ID] {
			s.logger.Warn("duplicate unit id, minting a new one", "unit_id", u.ID)
			u.ID = s.newID()
		}
		ids[u.ID] = true
		units = append(units, u)
		entities = append(entities, entityID)
	}

	for _, entityID := range w.unitOrder {
		if known[entityID] {
			continue
		}
		units = append(units, s.buildUnit(&courses.Unit{ID: s.newID()}, w.units[entityID]))
		entities = append(entities, entityID)
	}

	out.Units = units
	return out, entities
}

// buildUnit fills every schema field of a copy of original from observed.
func (s *Serializer) buildUnit(original *courses.Unit, observed map[string]string) courses.Unit {
	u := courses.Unit{ID: original.ID}
	for _, f := range s.schema.Unit() {
		ptr, ok := u.Field(f.Name)
		if !ok {
			continue
		}
		prev, _ := original.Field(f.Name)
		*ptr = keepEncoding(f, deref(prev), valueOrEmpty(observed, f))
	}
	return u
}

// keepEncoding returns original instead of value when both encode the same
// doc fragment, so untouched fields keep the key order and spacing they were
// stored with.
func keepEncoding(f schema.Field, original, value string) string {
	if f.Kind != schema.KindRichText || value == original {
		return value
	}
	if canonical, ok := richtext.CanonicalDoc(original); ok && canonical == value {
		return original
	}
	return value
}

// valueOrEmpty returns the observed value of a field or the empty value of its kind.
func valueOrEmpty(observed map[string]string, f schema.Field) string {
	if v, ok := observed[f.Name]; ok {
		return v
	}
	if f.Kind == schema.KindRichText {
		return courses.EmptyRichText
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
