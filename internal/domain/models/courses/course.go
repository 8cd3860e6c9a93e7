package courses

import (
	"time"
)

// EmptyRichText is the persisted value of a rich-text field with no content.
const EmptyRichText = "[]"

// Course is the top-level curriculum document.
// Rich-text fields hold either EmptyRichText or a stringified document fragment.
type Course struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Department    string `json:"department"`
	Description   string `json:"description"`
	BiblicalBasis string `json:"biblicalBasis"`
	Materials     string `json:"materials"`
	Pacing        string `json:"pacing"`
	Units         []Unit `json:"units"`
	Progress      int    `json:"progress"`

	// Suggestion/approval workflow metadata. Carried through edits untouched.
	IsApproved       bool       `json:"isApproved"`
	SubmittedBy      *string    `json:"submittedBy,omitempty"`
	SubmittedAt      *time.Time `json:"submittedAt,omitempty"`
	Version          int        `json:"version"`
	OriginalCourseID *string    `json:"originalCourseId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unit is a repeating section of a course.
type Unit struct {
	ID                                string `json:"id"`
	UnitName                          string `json:"unitName"`
	TimeAllotted                      string `json:"timeAllotted"`
	LearningObjectives                string `json:"learningObjectives"`
	Standards                         string `json:"standards"`
	BiblicalIntegration               string `json:"biblicalIntegration"`
	InstructionalStrategiesActivities string `json:"instructionalStrategiesActivities"`
	Resources                         string `json:"resources"`
	Assessments                       string `json:"assessments"`
}

// CourseSummary is the metadata shown in course pickers (no content).
type CourseSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Progress   int       `json:"progress"`
	IsApproved bool      `json:"isApproved"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Field returns a pointer to the named field, keyed by its schema name.
func (c *Course) Field(name string) (*string, bool) {
	switch name {
	case "title":
		return &c.Title, true
	case "department":
		return &c.Department, true
	case "description":
		return &c.Description, true
	case "biblicalBasis":
		return &c.BiblicalBasis, true
	case "materials":
		return &c.Materials, true
	case "pacing":
		return &c.Pacing, true
	}
	return nil, false
}

// Field returns a pointer to the named field, keyed by its schema name.
func (u *Unit) Field(name string) (*string, bool) {
	switch name {
	case "unitName":
		return &u.UnitName, true
	case "timeAllotted":
		return &u.TimeAllotted, true
	case "learningObjectives":
		return &u.LearningObjectives, true
	case "standards":
		return &u.Standards, true
	case "biblicalIntegration":
		return &u.BiblicalIntegration, true
	case "instructionalStrategiesActivities":
		return &u.InstructionalStrategiesActivities, true
	case "resources":
		return &u.Resources, true
	case "assessments":
		return &u.Assessments, true
	}
	return nil, false
}

// Summary returns the picker metadata for the course.
func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:         c.ID,
		Title:      c.Title,
		Department: c.Department,
		Progress:   c.Progress,
		IsApproved: c.IsApproved,
		UpdatedAt:  c.UpdatedAt,
	}
}

// Clone returns a deep copy of the course.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.Units = append([]Unit(nil), c.Units...)
	if c.SubmittedBy != nil {
		v := *c.SubmittedBy
		out.SubmittedBy = &v
	}
	if c.SubmittedAt != nil {
		v := *c.SubmittedAt
		out.SubmittedAt = &v
	}
	if c.OriginalCourseID != nil {
		v := *c.OriginalCourseID
		out.OriginalCourseID = &v
	}
	return &out
}
