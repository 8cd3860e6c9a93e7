package config

const (
	// MaxCourseTitleLength is the maximum length for course titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxCourseTitleLength = 255

	// MaxDepartmentLength is the maximum length for department names.
	MaxDepartmentLength = 255

	// MaxUnitNameLength is the maximum length for unit names.
	MaxUnitNameLength = 255

	// MaxUnitsPerCourse caps the unit list of a single course.
	// Section indices in the editor are bounded well above this.
	MaxUnitsPerCourse = 200

	// MaxRichTextFieldBytes is the maximum encoded size of one rich-text field.
	MaxRichTextFieldBytes = 1 << 20

	// DefaultSessionLimit is the number of open edit sessions kept in memory
	// when SESSION_LIMIT is not set.
	DefaultSessionLimit = 256
)
