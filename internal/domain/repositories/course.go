package repositories

import (
	"context"

	"curriculum/internal/domain/models/courses"
)

// CourseRepository is the document store for course records.
type CourseRepository interface {
	// FetchByID returns the course with the given id, or (nil, nil) when
	// no such course exists. Errors are transport or decoding failures.
	FetchByID(ctx context.Context, id string) (*courses.Course, error)

	// Save writes a course and returns its id. An empty id mints a new one;
	// an explicit id overwrites whatever is stored under it.
	Save(ctx context.Context, id string, course *courses.Course) (string, error)

	// ListAllMetadata returns the summary of every stored course.
	ListAllMetadata(ctx context.Context) ([]courses.CourseSummary, error)
}
