package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/repository/memory"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
	"curriculum/internal/service/coursedoc"
)

func TestParseCourses(t *testing.T) {
	data := []byte(`
- title: Algebra
  department: Math
  description: One line of prose.
  materials:
    bullets: [Graph paper, Calculator]
  units:
    - unitName: Linear Equations
      timeAllotted: 2 Weeks
      standards:
        - A.REI.3
        - A.REI.4
`)

	got, err := parseCourses(data)
	if err != nil {
		t.Fatalf("parseCourses() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d courses, want 1", len(got))
	}
	c := got[0]

	if c.Description != richtext.Stringify([]richtext.Node{richtext.Paragraph("One line of prose.")}) {
		t.Errorf("description = %s", c.Description)
	}
	if c.Pacing != courses.EmptyRichText {
		t.Errorf("missing pacing = %s, want sentinel", c.Pacing)
	}
	nodes, status := richtext.ParseFragment(c.Materials)
	if status != richtext.FragmentOK || len(nodes) != 1 || nodes[0].Type != richtext.TypeBulletList || len(nodes[0].Content) != 2 {
		t.Errorf("materials = %s", c.Materials)
	}

	u := c.Units[0]
	if u.UnitName != "Linear Equations" || u.TimeAllotted != "2 Weeks" || u.ID != "" {
		t.Errorf("unit = %+v", u)
	}
	want := richtext.Stringify([]richtext.Node{richtext.Paragraph("A.REI.3"), richtext.Paragraph("A.REI.4")})
	if diff := cmp.Diff(want, u.Standards); diff != "" {
		t.Errorf("standards mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCoursesRejectsBadRichText(t *testing.T) {
	_, err := parseCourses([]byte("- title: X\n  pacing: {bullets: {a: b}}\n"))
	if err == nil {
		t.Fatal("parseCourses() error = nil, want an error")
	}
}

func TestSeed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := schema.Load()
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	serializer := coursedoc.NewSerializer(s, logger)
	repo := memory.NewCourseRepository()
	svc := coursedoc.NewCourseService(repo, memory.NewTransactionManager(), serializer,
		coursedoc.NewCalculator(s), coursedoc.NewMarkdownExporter(serializer), logger)

	n, err := NewCourseSeeder(svc, logger).Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	samples, err := SampleCourses()
	if err != nil {
		t.Fatalf("SampleCourses() error = %v", err)
	}
	if n != len(samples) || n == 0 {
		t.Errorf("Seed() = %d, want %d", n, len(samples))
	}

	list, err := svc.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses() error = %v", err)
	}
	if len(list) != n {
		t.Errorf("store holds %d courses, want %d", len(list), n)
	}
	for _, summary := range list {
		if summary.Progress == 0 {
			t.Errorf("seeded course %q has no progress", summary.Title)
		}
	}
}
