package richtext

import (
	"testing"

	"curriculum/internal/schema"
)

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		in     string
		want   FieldTag
		wantOK bool
	}{
		{
			in:     "course.c1.title",
			want:   FieldTag{Scope: schema.ScopeCourse, EntityID: "c1", Field: "title"},
			wantOK: true,
		},
		{
			in:     "unit.0.standards.header",
			want:   FieldTag{Scope: schema.ScopeUnit, EntityID: "0", Field: "standards", Header: true},
			wantOK: true,
		},
		{in: "unit.0.standards.footer"},
		{in: "lesson.1.name"},
		{in: "unit..name"},
		{in: "unit.1."},
		{in: "course.title"},
		{in: ""},
		{in: "unit.a.b.header.extra"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFieldTag(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if ok && got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestFieldTag_HeaderValuePair(t *testing.T) {
	tag := UnitTag("u1", "timeAllotted")
	if got := tag.AsHeader().String(); got != "unit.u1.timeAllotted.header" {
		t.Errorf("AsHeader() = %q", got)
	}
	if tag.AsHeader().AsValue() != tag {
		t.Error("AsValue() should undo AsHeader()")
	}
}

func TestNode_FieldTag(t *testing.T) {
	n := EmptyParagraph().WithFieldTag(CourseTag("c1", "pacing"))
	tag, ok := n.FieldTag()
	if !ok || tag.Field != "pacing" {
		t.Fatalf("FieldTag() = %+v, %v", tag, ok)
	}

	if _, ok := EmptyParagraph().FieldTag(); ok {
		t.Error("untagged node reported a tag")
	}
}
