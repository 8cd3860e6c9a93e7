package coursedoc

import (
	"strings"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// CompletionKind selects which field set is counted.
type CompletionKind string

const (
	CompletionOverall CompletionKind = "overall"
	CompletionUnit    CompletionKind = "unit"
)

// FieldSource is a record whose fields can be read by schema name.
// *courses.Course and *courses.Unit implement it.
type FieldSource interface {
	Field(name string) (*string, bool)
}

// Calculator counts completed fields.
//
// Heading fields are plain values and count when their trimmed text is not
// empty. Rich-text fields count when richtext.IsEmpty is false. Label/value
// fields (plain_text, e.g. time allotted) are not counted.
type Calculator struct {
	schema *schema.Schema
}

// NewCalculator creates a completion calculator.
func NewCalculator(s *schema.Schema) *Calculator {
	return &Calculator{schema: s}
}

// SectionCompletion counts the completed fields of a course (overall) or a unit.
func (c *Calculator) SectionCompletion(entity FieldSource, kind CompletionKind) courses.Completion {
	scope := schema.ScopeCourse
	if kind == CompletionUnit {
		scope = schema.ScopeUnit
	}

	completed, total := 0, 0
	for _, f := range c.schema.Fields(scope) {
		var value string
		if entity != nil {
			if ptr, ok := entity.Field(f.Name); ok && ptr != nil {
				value = *ptr
			}
		}

		switch f.Kind {
		case schema.KindHeading:
			total++
			if strings.TrimSpace(value) != "" {
				completed++
			}
		case schema.KindRichText:
			total++
			if !richtext.IsEmpty(value) {
				completed++
			}
		}
	}

	return courses.NewCompletion(completed, total)
}

// CourseCompletion counts the course-level fields.
func (c *Calculator) CourseCompletion(course *courses.Course) courses.Completion {
	return c.SectionCompletion(course, CompletionOverall)
}

// UnitCompletion counts the fields of one unit.
func (c *Calculator) UnitCompletion(unit *courses.Unit) courses.Completion {
	return c.SectionCompletion(unit, CompletionUnit)
}

// Report computes course, per-unit and aggregate completion.
func (c *Calculator) Report(course *courses.Course) courses.CompletionReport {
	report := courses.CompletionReport{
		CourseID: course.ID,
		Overall:  c.CourseCompletion(course),
		Units:    make([]courses.UnitCompletion, 0, len(course.Units)),
	}

	aggregate := report.Overall
	for i := range course.Units {
		u := &course.Units[i]
		uc := c.UnitCompletion(u)
		aggregate = aggregate.Add(uc)
		report.Units = append(report.Units, courses.UnitCompletion{
			UnitID:     u.ID,
			UnitName:   u.UnitName,
			Completion: uc,
		})
	}
	report.Progress = aggregate.Percentage

	return report
}

// CourseProgress is the 0-100 progress stored on a course at save time:
// completed over total fields across the course and all of its units.
func (c *Calculator) CourseProgress(course *courses.Course) int {
	return c.Report(course).Progress
}
