package coursedoc

import (
	"fmt"
	"log/slog"
	"strconv"

	"curriculum/internal/domain"
	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// maxSectionIndex bounds what counts as a section index in a unit tag.
// Larger numeric entity ids are treated as ids, not indices.
const maxSectionIndex = 9999

// SectionInserter appends new unit sections to a document.
//
// Section indices are a document-local counter carried in unit tags
// ("unit.<index>.<field>"). They are unrelated to unit ids; the serializer
// mints an id for an inserted section when the document is saved.
type SectionInserter struct {
	serializer *Serializer
	logger     *slog.Logger
}

// NewSectionInserter creates a section inserter.
func NewSectionInserter(serializer *Serializer, logger *slog.Logger) *SectionInserter {
	return &SectionInserter{
		serializer: serializer,
		logger:     logger,
	}
}

// NewSection synthesizes the nodes of a fresh unit numbered one past the
// highest section index in doc. The unit is named "New Unit <n>" and every
// other field is empty. When the next index would pass maxSectionIndex the
// lowest unused index is taken instead.
func (si *SectionInserter) NewSection(doc richtext.Node) ([]richtext.Node, error) {
	fields := si.serializer.schema.Unit()
	if len(fields) == 0 {
		si.logger.Error("cannot insert section: unit field schema unavailable")
		return nil, fmt.Errorf("%w: unit field schema unavailable", domain.ErrConfiguration)
	}

	used := sectionIndices(doc)
	index := nextIndex(used)
	if index > maxSectionIndex {
		index = lowestFreeIndex(used)
	}

	entityID, number := strconv.Itoa(index), index+1
	if index > maxSectionIndex {
		// every index is taken; a non-numeric entity still reads back as a new unit
		entityID, number = "section-"+si.serializer.newID(), len(used)+1
	}

	unit := &courses.Unit{}
	named := false
	for _, f := range fields {
		ptr, ok := unit.Field(f.Name)
		if !ok {
			continue
		}
		switch {
		case f.Kind == schema.KindHeading && !named:
			*ptr = fmt.Sprintf("New Unit %d", number)
			named = true
		case f.Kind == schema.KindRichText:
			*ptr = courses.EmptyRichText
		}
	}

	return si.serializer.unitNodes(entityID, unit), nil
}

// Insert returns a copy of doc with a new section appended at the end.
// doc itself is not modified.
func (si *SectionInserter) Insert(doc richtext.Node) (richtext.Node, error) {
	suffix, err := si.NewSection(doc)
	if err != nil {
		return doc, err
	}

	content := make([]richtext.Node, 0, len(doc.Content)+len(suffix))
	content = append(content, doc.Content...)
	content = append(content, suffix...)

	out := doc
	out.Type = richtext.TypeDoc
	out.Content = content
	return out, nil
}

// NextSectionIndex returns one past the highest section index found in any
// unit tag of doc, or 0 when there is none. Gaps left by deleted sections
// are not reused.
func NextSectionIndex(doc richtext.Node) int {
	return nextIndex(sectionIndices(doc))
}

func nextIndex(used map[int]bool) int {
	highest := -1
	for index := range used {
		highest = max(highest, index)
	}
	return highest + 1
}

// sectionIndices collects the section indices used by unit tags in doc.
func sectionIndices(doc richtext.Node) map[int]bool {
	used := make(map[int]bool)
	richtext.Walk(doc, func(n richtext.Node) {
		tag, ok := n.FieldTag()
		if !ok || tag.Scope != schema.ScopeUnit {
			return
		}
		if index, ok := sectionIndex(tag.EntityID); ok {
			used[index] = true
		}
	})
	return used
}

// lowestFreeIndex returns the smallest index not in used, or
// maxSectionIndex+1 when all of them are taken.
func lowestFreeIndex(used map[int]bool) int {
	for i := 0; i <= maxSectionIndex; i++ {
		if !used[i] {
			return i
		}
	}
	return maxSectionIndex + 1
}

// sectionIndex reads a canonical small non-negative integer ("0", "12", not "+1" or "007").
func sectionIndex(entityID string) (int, bool) {
	index, err := strconv.Atoi(entityID)
	if err != nil || index < 0 || index > maxSectionIndex {
		return 0, false
	}
	if strconv.Itoa(index) != entityID {
		return 0, false
	}
	return index, true
}
