package richtext

import (
	"strings"

	"curriculum/internal/schema"
)

const headerSuffix = "header"

// FieldTag identifies the record field a boundary node belongs to.
// Its string form is "<scope>.<entityId>.<field>[.header]".
type FieldTag struct {
	Scope    schema.Scope
	EntityID string
	Field    string
	Header   bool
}

// CourseTag returns the tag of a course-level field.
func CourseTag(courseID, field string) FieldTag {
	return FieldTag{Scope: schema.ScopeCourse, EntityID: courseID, Field: field}
}

// UnitTag returns the tag of a unit-level field.
func UnitTag(unitID, field string) FieldTag {
	return FieldTag{Scope: schema.ScopeUnit, EntityID: unitID, Field: field}
}

// AsHeader returns the tag used on the fixed heading that labels the field.
func (t FieldTag) AsHeader() FieldTag {
	t.Header = true
	return t
}

// AsValue returns the tag of the field's value node.
func (t FieldTag) AsValue() FieldTag {
	t.Header = false
	return t
}

func (t FieldTag) String() string {
	s := string(t.Scope) + "." + t.EntityID + "." + t.Field
	if t.Header {
		s += "." + headerSuffix
	}
	return s
}

// ParseFieldTag decodes a tag string. Entity ids and field names must not
// contain dots.
func ParseFieldTag(s string) (FieldTag, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 && len(parts) != 4 {
		return FieldTag{}, false
	}

	tag := FieldTag{
		Scope:    schema.Scope(parts[0]),
		EntityID: parts[1],
		Field:    parts[2],
	}
	if tag.Scope != schema.ScopeCourse && tag.Scope != schema.ScopeUnit {
		return FieldTag{}, false
	}
	if tag.EntityID == "" || tag.Field == "" {
		return FieldTag{}, false
	}
	if len(parts) == 4 {
		if parts[3] != headerSuffix {
			return FieldTag{}, false
		}
		tag.Header = true
	}
	return tag, true
}
