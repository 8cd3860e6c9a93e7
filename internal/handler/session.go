package handler

import (
	"log/slog"
	"net/http"

	"curriculum/internal/domain/services"
	"curriculum/internal/httputil"
	"curriculum/internal/richtext"
)

// SessionHandler handles edit session HTTP requests
type SessionHandler struct {
	sessions services.EditSessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions services.EditSessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type openSessionRequest struct {
	CourseID string `json:"course_id"`
}

// OpenSession starts an edit session on a course, or on the template
// POST /api/sessions
func (h *SessionHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if r.ContentLength != 0 && !parseBody(w, r, h.logger, &req) {
		return
	}

	snap, err := h.sessions.Open(r.Context(), req.CourseID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, snap)
}

// LoadCourse switches a session to another course
// POST /api/sessions/{id}/load
func (h *SessionHandler) LoadCourse(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if !parseBody(w, r, h.logger, &req) {
		return
	}

	snap, err := h.sessions.Load(r.Context(), r.PathValue("id"), req.CourseID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snap)
}

// GetSession returns the session's document and completion.
// ?format=html also renders the document as editor markup.
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	withHTML := r.URL.Query().Get("format") == "html"

	snap, err := h.sessions.Snapshot(r.Context(), r.PathValue("id"), withHTML)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snap)
}

// ReplaceDocument replaces the session's document. The body is either the
// document JSON or, with Content-Type text/html, editor markup.
// PUT /api/sessions/{id}/document
func (h *SessionHandler) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		snap *services.SessionSnapshot
		err  error
	)
	if httputil.HasContentType(r, "text/html") {
		markup, readErr := httputil.ReadText(w, r)
		if readErr != nil {
			handleError(w, h.logger, readErr)
			return
		}
		snap, err = h.sessions.ReplaceHTML(r.Context(), id, markup)
	} else {
		var doc richtext.Node
		if !parseBody(w, r, h.logger, &doc) {
			return
		}
		snap, err = h.sessions.Replace(r.Context(), id, doc)
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snap)
}

// InsertSection appends a new unit section to the session's document
// POST /api/sessions/{id}/units
func (h *SessionHandler) InsertSection(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.InsertSection(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, snap)
}

// SaveSession stores the session's document as its course
// POST /api/sessions/{id}/save
func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.Save(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.logger.Info("session saved",
		"session_id", result.Session.ID,
		"course_id", result.Course.ID,
		"user_id", httputil.GetUserID(r),
	)

	httputil.RespondJSON(w, http.StatusOK, result)
}

// CloseSession discards a session
// DELETE /api/sessions/{id}
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
