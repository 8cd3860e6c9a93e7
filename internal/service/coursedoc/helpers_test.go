package coursedoc

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSerializer returns a serializer over the default field table whose
// minted ids are "minted-1", "minted-2", ...
func newTestSerializer(t *testing.T) *Serializer {
	t.Helper()
	s, err := schema.Load()
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	ser := NewSerializer(s, discardLogger())
	n := 0
	ser.newID = func() string {
		n++
		return fmt.Sprintf("minted-%d", n)
	}
	return ser
}

func fragment(paragraphs ...string) string {
	nodes := make([]richtext.Node, 0, len(paragraphs))
	for _, p := range paragraphs {
		nodes = append(nodes, richtext.Paragraph(p))
	}
	return richtext.Stringify(nodes)
}

func bulletFragment(items ...string) string {
	list := richtext.Node{Type: richtext.TypeBulletList}
	for _, it := range items {
		list.Content = append(list.Content, richtext.Node{
			Type:    richtext.TypeListItem,
			Content: []richtext.Node{richtext.Paragraph(it)},
		})
	}
	return richtext.Stringify([]richtext.Node{list})
}

// emptyUnit has every rich-text field set to the sentinel.
func emptyUnit(id, name string) courses.Unit {
	return courses.Unit{
		ID:                                id,
		UnitName:                          name,
		LearningObjectives:                courses.EmptyRichText,
		Standards:                         courses.EmptyRichText,
		BiblicalIntegration:               courses.EmptyRichText,
		InstructionalStrategiesActivities: courses.EmptyRichText,
		Resources:                         courses.EmptyRichText,
		Assessments:                       courses.EmptyRichText,
	}
}

func sampleCourse() *courses.Course {
	objectives := bulletFragment("Name the parts of a cell", "Explain osmosis")
	return &courses.Course{
		ID:            "bio-101",
		Title:         "Biology",
		Department:    "Science",
		Description:   fragment("Living systems.", "Cells to ecosystems."),
		BiblicalBasis: courses.EmptyRichText,
		Materials:     bulletFragment("Textbook", "Microscope"),
		Pacing:        fragment("Two units per quarter."),
		Units: []courses.Unit{
			{
				ID:                                "u-cells",
				UnitName:                          "Cells",
				TimeAllotted:                      "3 Weeks",
				LearningObjectives:                objectives,
				Standards:                         fragment("LS1.A"),
				BiblicalIntegration:               courses.EmptyRichText,
				InstructionalStrategiesActivities: fragment("Lab work & discussion <groups>"),
				Resources:                         courses.EmptyRichText,
				Assessments:                       fragment("Quiz"),
			},
			emptyUnit("u-genetics", "Genetics"),
		},
		Progress: 40,
		Version:  3,
	}
}
