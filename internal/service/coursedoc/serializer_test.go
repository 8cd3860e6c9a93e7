package coursedoc

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
)

func TestRecordToDocumentLayout(t *testing.T) {
	ser := newTestSerializer(t)
	course := &courses.Course{
		ID:            "c1",
		Title:         "Biology",
		Department:    "Science",
		Description:   courses.EmptyRichText,
		BiblicalBasis: courses.EmptyRichText,
		Materials:     courses.EmptyRichText,
		Pacing:        courses.EmptyRichText,
		Units:         []courses.Unit{emptyUnit("u1", "Cells")},
	}
	course.Units[0].TimeAllotted = "2 Weeks"

	doc := ser.RecordToDocument(course)
	if doc.Type != richtext.TypeDoc {
		t.Fatalf("root type = %q, want doc", doc.Type)
	}

	type row struct {
		Type string
		Tag  string
	}
	var got []row
	for _, n := range doc.Content {
		got = append(got, row{Type: n.Type, Tag: n.AttrString(richtext.AttrFieldTag)})
	}

	want := []row{
		{richtext.TypeEditableHeading, "course.c1.title"},
		{richtext.TypeEditableHeading, "course.c1.department"},
		{richtext.TypeFixedHeading, "course.c1.description.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "course.c1.biblicalBasis.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "course.c1.materials.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "course.c1.pacing.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeEditableHeading, "unit.u1.unitName"},
		{richtext.TypeFixedHeading, "unit.u1.timeAllotted.header"},
		{richtext.TypeParagraph, "unit.u1.timeAllotted"},
		{richtext.TypeFixedHeading, "unit.u1.learningObjectives.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "unit.u1.standards.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "unit.u1.biblicalIntegration.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "unit.u1.instructionalStrategiesActivities.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "unit.u1.resources.header"},
		{richtext.TypeParagraph, ""},
		{richtext.TypeFixedHeading, "unit.u1.assessments.header"},
		{richtext.TypeParagraph, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("document layout mismatch (-want +got):\n%s", diff)
	}

	title := richtext.EditableHeadingAttrsOf(doc.Content[0])
	if title.Level != 1 || title.Label != "Course Title: " {
		t.Errorf("title heading attrs = %+v", title)
	}
	if got := doc.Content[0].PlainText(); got != "Biology" {
		t.Errorf("title text = %q, want Biology", got)
	}

	unitName := richtext.EditableHeadingAttrsOf(doc.Content[10])
	if unitName.SectionAnchor != "u1" {
		t.Errorf("unit heading section anchor = %q, want u1", unitName.SectionAnchor)
	}
	if title.SectionAnchor != "" {
		t.Errorf("course heading has section anchor %q", title.SectionAnchor)
	}
	if got := doc.Content[12].PlainText(); got != "2 Weeks" {
		t.Errorf("time allotted text = %q, want 2 Weeks", got)
	}
}

func TestRecordToDocumentDraftAndPendingIDs(t *testing.T) {
	ser := newTestSerializer(t)
	course := &courses.Course{Units: []courses.Unit{{UnitName: "A"}, {ID: "bad.id", UnitName: "B"}}}

	doc := ser.RecordToDocument(course)

	tags := map[string]bool{}
	richtext.Walk(doc, func(n richtext.Node) {
		if tag := n.AttrString(richtext.AttrFieldTag); tag != "" {
			tags[tag] = true
		}
	})
	for _, want := range []string{"course.draft.title", "unit.pending0.unitName", "unit.pending1.unitName"} {
		if !tags[want] {
			t.Errorf("missing tag %q", want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	ser := newTestSerializer(t)
	original := sampleCourse()

	got := ser.DocumentToRecord(ser.RecordToDocument(original), original)

	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripNewCourseTemplate(t *testing.T) {
	ser := newTestSerializer(t)
	original := courses.NewTemplate("u-first")

	got := ser.DocumentToRecord(ser.RecordToDocument(original), original)

	if len(got.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(got.Units))
	}
	u := got.Units[0]
	if u.UnitName != "Untitled Unit 1" {
		t.Errorf("unitName = %q, want Untitled Unit 1", u.UnitName)
	}
	if u.TimeAllotted != "1 Week" {
		t.Errorf("timeAllotted = %q, want 1 Week", u.TimeAllotted)
	}
	for _, name := range []string{"learningObjectives", "standards", "biblicalIntegration", "instructionalStrategiesActivities", "resources", "assessments"} {
		v, _ := u.Field(name)
		if *v != courses.EmptyRichText {
			t.Errorf("%s = %q, want sentinel", name, *v)
		}
	}
	if got.Title != "Untitled Course" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain text is salvaged", value: "just some notes", want: fragment("just some notes")},
		{name: "json string is salvaged", value: `"quoted notes"`, want: fragment("quoted notes")},
		{name: "unknown shape is dropped", value: `{"foo":1}`, want: courses.EmptyRichText},
		{name: "empty string", value: "", want: courses.EmptyRichText},
		{name: "single node", value: `{"type":"paragraph","content":[{"type":"text","text":"x"}]}`, want: fragment("x")},
		{name: "bare list", value: `[{"type":"paragraph","content":[{"type":"text","text":"y"}]}]`, want: fragment("y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ser := newTestSerializer(t)
			original := sampleCourse()
			original.Description = tt.value

			once := ser.DocumentToRecord(ser.RecordToDocument(original), original)
			if once.Description != tt.want {
				t.Errorf("first pass description = %q, want %q", once.Description, tt.want)
			}

			twice := ser.DocumentToRecord(ser.RecordToDocument(once), once)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("second pass changed the record (-first +second):\n%s", diff)
			}
		})
	}
}

func TestDocumentToRecordKeepsMissingUnits(t *testing.T) {
	ser := newTestSerializer(t)
	original := sampleCourse()
	doc := ser.RecordToDocument(original)

	// cut everything from the first unit's heading up to the second's
	first := indexOfTag(doc, "unit.u-cells.unitName")
	second := indexOfTag(doc, "unit.u-genetics.unitName")
	if first < 0 || second < 0 {
		t.Fatalf("unit headings not found: %d %d", first, second)
	}
	doc.Content = slices.Delete(slices.Clone(doc.Content), first, second)

	got := ser.DocumentToRecord(doc, original)

	if len(got.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(got.Units))
	}
	if got.Units[0].ID != "u-cells" || got.Units[1].ID != "u-genetics" {
		t.Errorf("unit order = [%s %s]", got.Units[0].ID, got.Units[1].ID)
	}
	if diff := cmp.Diff(emptyUnit("u-cells", ""), got.Units[0]); diff != "" {
		t.Errorf("missing unit not reset to empty fields (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(original.Units[1], got.Units[1]); diff != "" {
		t.Errorf("untouched unit changed (-want +got):\n%s", diff)
	}
}

func TestDocumentToRecordEdits(t *testing.T) {
	ser := newTestSerializer(t)
	original := sampleCourse()
	doc := ser.RecordToDocument(original)
	content := slices.Clone(doc.Content)

	titleAt := indexOfTag(doc, "course.bio-101.title")
	attrs := richtext.EditableHeadingAttrsOf(content[titleAt])
	content[titleAt] = richtext.NewEditableHeading(attrs, []richtext.Node{richtext.Text("Biology II")})

	// the description holds two paragraphs; add a third after them
	descAt := indexOfTag(doc, "course.bio-101.description.header")
	content = slices.Insert(content, descAt+3, richtext.Paragraph("Added later."))

	// content before the first field belongs to no field
	content = slices.Insert(content, 0, richtext.Paragraph("dropped"))
	doc.Content = content

	got := ser.DocumentToRecord(doc, original)

	if got.Title != "Biology II" {
		t.Errorf("title = %q, want Biology II", got.Title)
	}
	want := fragment("Living systems.", "Cells to ecosystems.", "Added later.")
	if got.Description != want {
		t.Errorf("description = %s, want %s", got.Description, want)
	}
	if got.ID != original.ID || got.Version != original.Version || got.Progress != original.Progress {
		t.Errorf("metadata not carried through: %+v", got)
	}
	if got.Pacing != original.Pacing {
		t.Errorf("pacing = %s, want %s", got.Pacing, original.Pacing)
	}
}

func TestDocumentToRecordAppendsInsertedUnits(t *testing.T) {
	ser := newTestSerializer(t)
	inserter := NewSectionInserter(ser, discardLogger())
	original := sampleCourse()

	doc, err := inserter.Insert(ser.RecordToDocument(original))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, entities := ser.documentToRecord(doc, original)

	if len(got.Units) != 3 {
		t.Fatalf("got %d units, want 3", len(got.Units))
	}
	added := got.Units[2]
	if added.ID != "minted-1" {
		t.Errorf("new unit id = %q, want minted-1", added.ID)
	}
	if added.UnitName != "New Unit 1" {
		t.Errorf("new unit name = %q, want New Unit 1", added.UnitName)
	}
	if added.Assessments != courses.EmptyRichText || added.TimeAllotted != "" {
		t.Errorf("new unit fields not empty: %+v", added)
	}
	if diff := cmp.Diff([]string{"u-cells", "u-genetics", "0"}, entities); diff != "" {
		t.Errorf("entities mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentToRecordIgnoresUnknownTags(t *testing.T) {
	ser := newTestSerializer(t)
	original := sampleCourse()
	doc := ser.RecordToDocument(original)

	bogus := richtext.NewFixedHeading(richtext.FixedHeadingAttrs{Level: 2, Label: "Notes", FieldTag: "course.bio-101.notes.header"})
	broken := richtext.NewFixedHeading(richtext.FixedHeadingAttrs{Level: 2, Label: "Broken", FieldTag: "not-a-tag"})
	doc.Content = append(doc.Content, bogus, richtext.Paragraph("lost"), broken, richtext.Paragraph("also lost"))

	got := ser.DocumentToRecord(doc, original)

	// the trailing content lands nowhere; assessments of the last unit end
	// at the unknown heading
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("record changed (-want +got):\n%s", diff)
	}
}

// indexOfTag returns the position of the top-level node carrying tag, or -1.
func indexOfTag(doc richtext.Node, tag string) int {
	for i, n := range doc.Content {
		if n.AttrString(richtext.AttrFieldTag) == tag {
			return i
		}
	}
	return -1
}

func TestUnitEntityIDs(t *testing.T) {
	tests := []struct {
		name  string
		units []courses.Unit
		want  []string
	}{
		{
			name:  "own ids",
			units: []courses.Unit{{ID: "a"}, {ID: "b"}},
			want:  []string{"a", "b"},
		},
		{
			name:  "missing and dotted ids",
			units: []courses.Unit{{}, {ID: "x.y"}},
			want:  []string{"pending0", "pending1"},
		},
		{
			name:  "repeated id",
			units: []courses.Unit{{ID: "a"}, {ID: "a"}, {ID: "a"}},
			want:  []string{"a", "pending1", "pending2"},
		},
		{
			name:  "stored id equal to a placeholder",
			units: []courses.Unit{{ID: "pending1"}, {}},
			want:  []string{"pending1", "pending1-1"},
		},
		{
			name:  "repeat of a later placeholder-like id",
			units: []courses.Unit{{}, {ID: "pending0"}, {ID: "pending0"}},
			want:  []string{"pending0-1", "pending0", "pending2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, unitEntityIDs(tt.units)); diff != "" {
				t.Errorf("unitEntityIDs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocumentToRecordDuplicateUnitIDs(t *testing.T) {
	ser := newTestSerializer(t)
	original := sampleCourse()
	original.Units[1].ID = original.Units[0].ID

	doc := ser.RecordToDocument(original)
	if indexOfTag(doc, "unit.u-cells.unitName") < 0 || indexOfTag(doc, "unit.pending1.unitName") < 0 {
		t.Fatal("repeated unit id not given its own tags")
	}

	got, entities := ser.documentToRecord(doc, original)

	if len(got.Units) != 2 {
		t.Fatalf("got %d units, want 2", len(got.Units))
	}
	if diff := cmp.Diff(original.Units[0], got.Units[0]); diff != "" {
		t.Errorf("first unit changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(emptyUnit("minted-1", "Genetics"), got.Units[1]); diff != "" {
		t.Errorf("second unit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"u-cells", "pending1"}, entities); diff != "" {
		t.Errorf("entities mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentToRecordPlaceholderLikeID(t *testing.T) {
	ser := newTestSerializer(t)
	original := &courses.Course{Units: []courses.Unit{emptyUnit("pending1", "A"), emptyUnit("", "B")}}

	got := ser.DocumentToRecord(ser.RecordToDocument(original), original)

	if diff := cmp.Diff(original.Units, got.Units); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripKeepsStoredEncoding(t *testing.T) {
	ser := newTestSerializer(t)
	// key order as the editor writes it, not as encoding/json would
	const stored = `{"type":"doc","content":[{"type":"paragraph","attrs":{"textAlign":"left","indent":0},"content":[{"type":"text","marks":[{"type":"bold"}],"text":"Hi"}]}]}`

	original := sampleCourse()
	original.Description = stored
	original.Units[0].Standards = stored

	got := ser.DocumentToRecord(ser.RecordToDocument(original), original)
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// an edited field is written in the canonical form
	doc := ser.RecordToDocument(original)
	at := indexOfTag(doc, "course.bio-101.description.header") + 1
	content := slices.Clone(doc.Content)
	content[at] = richtext.Paragraph("Hello")
	doc.Content = content

	edited := ser.DocumentToRecord(doc, original)
	if want := fragment("Hello"); edited.Description != want {
		t.Errorf("edited description = %s, want %s", edited.Description, want)
	}
	if edited.Units[0].Standards != stored {
		t.Errorf("untouched standards = %s, want stored encoding", edited.Units[0].Standards)
	}
}
