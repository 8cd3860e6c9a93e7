package handler

import (
	"net/http"

	"curriculum/internal/httputil"
)

// HealthCheck reports that the server is up
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter registers every API route (Go 1.22+ method and wildcard patterns)
func NewRouter(courses *CourseHandler, sessions *SessionHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", HealthCheck)

	// Course routes
	mux.HandleFunc("GET /api/courses", courses.ListCourses)
	mux.HandleFunc("POST /api/courses", courses.CreateCourse)
	mux.HandleFunc("GET /api/courses/new", courses.NewCourse) // more specific than {id}
	mux.HandleFunc("GET /api/courses/{id}", courses.GetCourse)
	mux.HandleFunc("PUT /api/courses/{id}", courses.SaveCourse)
	mux.HandleFunc("GET /api/courses/{id}/completion", courses.GetCompletion)
	mux.HandleFunc("GET /api/courses/{id}/document", courses.GetDocument)
	mux.HandleFunc("GET /api/courses/{id}/markdown", courses.GetMarkdown)
	mux.HandleFunc("GET /api/compare", courses.Compare)

	// Edit session routes
	mux.HandleFunc("POST /api/sessions", sessions.OpenSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessions.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessions.CloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/load", sessions.LoadCourse)
	mux.HandleFunc("PUT /api/sessions/{id}/document", sessions.ReplaceDocument)
	mux.HandleFunc("POST /api/sessions/{id}/units", sessions.InsertSection)
	mux.HandleFunc("POST /api/sessions/{id}/save", sessions.SaveSession)

	return mux
}
