package handler

import (
	"log/slog"
	"net/http"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/services"
	"curriculum/internal/httputil"
)

// CourseHandler handles course HTTP requests
type CourseHandler struct {
	courseService services.CourseService
	logger        *slog.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService services.CourseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		logger:        logger,
	}
}

// ListCourses returns the metadata of every course
// GET /api/courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// NewCourse returns an unsaved course built from the template
// GET /api/courses/new
func (h *CourseHandler) NewCourse(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.courseService.NewCourse())
}

// CreateCourse stores a new course. An empty body stores the template.
// POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course *courses.Course
	if r.ContentLength != 0 {
		course = &courses.Course{}
		if !parseBody(w, r, h.logger, course) {
			return
		}
	}

	created, err := h.courseService.CreateCourse(r.Context(), course)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, created)
}

// GetCourse retrieves a course by ID
// GET /api/courses/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, course)
}

// SaveCourse overwrites a course with the full record in the body
// PUT /api/courses/{id}
func (h *CourseHandler) SaveCourse(w http.ResponseWriter, r *http.Request) {
	var course courses.Course
	if !parseBody(w, r, h.logger, &course) {
		return
	}

	saved, err := h.courseService.SaveCourse(r.Context(), r.PathValue("id"), &course)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.logger.Info("course overwritten",
		"course_id", saved.ID,
		"user_id", httputil.GetUserID(r),
	)

	httputil.RespondJSON(w, http.StatusOK, saved)
}

// GetCompletion returns overall and per-unit completion
// GET /api/courses/{id}/completion
func (h *CourseHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	report, err := h.courseService.Completion(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// GetDocument returns the editor document of a course
// GET /api/courses/{id}/document
func (h *CourseHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.courseService.Document(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetMarkdown renders a course as Markdown
// GET /api/courses/{id}/markdown
func (h *CourseHandler) GetMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := h.courseService.Markdown(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondText(w, http.StatusOK, "text/markdown; charset=utf-8", md)
}

// Compare returns two courses side by side
// GET /api/compare?left={id}&right={id}
func (h *CourseHandler) Compare(w http.ResponseWriter, r *http.Request) {
	left := r.URL.Query().Get("left")
	right := r.URL.Query().Get("right")
	if left == "" || right == "" {
		httputil.RespondError(w, http.StatusBadRequest, "left and right course IDs are required")
		return
	}

	cmp, err := h.courseService.Compare(r.Context(), left, right)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, cmp)
}
