package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/repositories"
)

// CourseRepository keeps courses in a map. Used when no database is
// configured, and in tests.
type CourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*courses.Course
}

// NewCourseRepository creates an empty in-memory course store
func NewCourseRepository() *CourseRepository {
	return &CourseRepository{courses: make(map[string]*courses.Course)}
}

var _ repositories.CourseRepository = (*CourseRepository)(nil)

// FetchByID returns a copy of the stored course, or (nil, nil) when absent
func (r *CourseRepository) FetchByID(ctx context.Context, id string) (*courses.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

// Save stores a copy of course under id, minting one when id is empty
func (r *CourseRepository) Save(ctx context.Context, id string, course *courses.Course) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	stored := course.Clone()
	stored.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.courses[id]; ok && !prev.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	r.courses[id] = stored
	return id, nil
}

// ListAllMetadata returns course summaries, most recently updated first
func (r *CourseRepository) ListAllMetadata(ctx context.Context) ([]courses.CourseSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	summaries := make([]courses.CourseSummary, 0, len(r.courses))
	for _, c := range r.courses {
		summaries = append(summaries, c.Summary())
	}
	r.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}
