package services

import (
	"context"
	"time"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/richtext"
)

// CourseService handles course records and their derived views
type CourseService interface {
	// ListCourses returns the summary of every course
	ListCourses(ctx context.Context) ([]courses.CourseSummary, error)

	// GetCourse retrieves a course, NotFoundError when absent
	GetCourse(ctx context.Context, id string) (*courses.Course, error)

	// NewCourse returns an unsaved course built from the template
	NewCourse() *courses.Course

	// CreateCourse stores a new course under a fresh id.
	// A nil course stores the template.
	CreateCourse(ctx context.Context, course *courses.Course) (*courses.Course, error)

	// SaveCourse validates and overwrites the course stored under id
	SaveCourse(ctx context.Context, id string, course *courses.Course) (*courses.Course, error)

	// Completion computes the completion report of a stored course
	Completion(ctx context.Context, id string) (*courses.CompletionReport, error)

	// Document returns the editor document of a stored course
	Document(ctx context.Context, id string) (richtext.Node, error)

	// Markdown renders a stored course as Markdown
	Markdown(ctx context.Context, id string) (string, error)

	// Compare loads two courses side by side
	Compare(ctx context.Context, leftID, rightID string) (*Comparison, error)
}

// Comparison is a side-by-side view of two courses
type Comparison struct {
	Left       *courses.Course          `json:"left"`
	Right      *courses.Course          `json:"right"`
	LeftStats  courses.CompletionReport `json:"left_completion"`
	RightStats courses.CompletionReport `json:"right_completion"`
	// Differences lists the paths of fields whose values differ,
	// e.g. "title" or "units[2].standards".
	Differences []string `json:"differences"`
}

// EditSessionService holds editor documents in memory between requests.
// Commands on one session run one at a time.
type EditSessionService interface {
	// Open starts a session on a stored course, or on the template when
	// courseID is empty
	Open(ctx context.Context, courseID string) (*SessionSnapshot, error)

	// Load switches a session to another course. A load overtaken by a
	// newer load of the same session fails with domain.ErrStaleRequest and
	// leaves the session as the newer load set it.
	Load(ctx context.Context, sessionID, courseID string) (*SessionSnapshot, error)

	// Snapshot returns the current state of a session
	Snapshot(ctx context.Context, sessionID string, withHTML bool) (*SessionSnapshot, error)

	// Replace swaps in the document sent by the editor
	Replace(ctx context.Context, sessionID string, doc richtext.Node) (*SessionSnapshot, error)

	// ReplaceHTML swaps in a document sent as editor markup
	ReplaceHTML(ctx context.Context, sessionID, markup string) (*SessionSnapshot, error)

	// InsertSection appends a new unit section to the document
	InsertSection(ctx context.Context, sessionID string) (*SessionSnapshot, error)

	// Save converts the document back to a course and stores it.
	// On failure the session keeps its document.
	Save(ctx context.Context, sessionID string) (*SaveResult, error)

	// Close discards a session
	Close(ctx context.Context, sessionID string) error
}

// SessionSnapshot is the state of an edit session
type SessionSnapshot struct {
	ID         string                   `json:"id"`
	CourseID   string                   `json:"course_id,omitempty"`
	Revision   int                      `json:"revision"`
	Dirty      bool                     `json:"dirty"`
	Document   richtext.Node            `json:"document"`
	HTML       string                   `json:"html,omitempty"`
	Completion courses.CompletionReport `json:"completion"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// SaveResult is the outcome of saving a session
type SaveResult struct {
	Course  *courses.Course  `json:"course"`
	Session *SessionSnapshot `json:"session"`
}
