package coursedoc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"curriculum/internal/domain"
	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/services"
	"curriculum/internal/richtext"
)

// editSession is one editor's working document.
type editSession struct {
	// mu serializes commands; one completes before the next begins.
	mu sync.Mutex

	id string
	// generation identifies the latest load; a load whose generation is no
	// longer current discards its result.
	generation atomic.Uint64

	// Read without mu by eviction.
	closed   atomic.Bool
	lastUsed atomic.Int64

	original  *courses.Course
	doc       richtext.Node
	revision  int
	dirty     bool
	updatedAt time.Time
}

// SessionManager keeps edit sessions in memory. When the limit is reached
// the least recently used session is discarded.
type SessionManager struct {
	courseSvc  services.CourseService
	serializer *Serializer
	inserter   *SectionInserter
	calculator *Calculator
	codec      *richtext.MarkupCodec
	logger     *slog.Logger
	limit      int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*editSession
}

// NewSessionManager creates a session manager holding at most limit sessions.
func NewSessionManager(
	courseSvc services.CourseService,
	serializer *Serializer,
	inserter *SectionInserter,
	calculator *Calculator,
	codec *richtext.MarkupCodec,
	limit int,
	logger *slog.Logger,
) *SessionManager {
	if limit < 1 {
		limit = 1
	}
	return &SessionManager{
		courseSvc:  courseSvc,
		serializer: serializer,
		inserter:   inserter,
		calculator: calculator,
		codec:      codec,
		logger:     logger,
		limit:      limit,
		now:        time.Now,
		sessions:   make(map[string]*editSession),
	}
}

var _ services.EditSessionService = (*SessionManager)(nil)

// Open starts a session on a stored course, or on the template
func (m *SessionManager) Open(ctx context.Context, courseID string) (*services.SessionSnapshot, error) {
	course, err := m.fetch(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sess := &editSession{
		id:        uuid.NewString(),
		original:  course,
		doc:       m.serializer.RecordToDocument(course),
		updatedAt: m.now(),
	}
	sess.lastUsed.Store(sess.updatedAt.UnixNano())

	m.mu.Lock()
	m.evictLocked()
	m.sessions[sess.id] = sess
	m.mu.Unlock()

	m.logger.Info("edit session opened",
		"session_id", sess.id,
		"course_id", course.ID,
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return m.snapshot(sess, false), nil
}

// Load switches a session to another course
func (m *SessionManager) Load(ctx context.Context, sessionID, courseID string) (*services.SessionSnapshot, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}

	gen := sess.generation.Add(1)
	course, err := m.fetch(ctx, courseID)
	if sess.generation.Load() != gen {
		m.logger.Debug("discarding superseded load",
			"session_id", sessionID,
			"course_id", courseID,
		)
		return nil, staleLoad(sessionID, courseID)
	}
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed.Load() {
		return nil, sessionNotFound(sessionID)
	}
	// A newer load may have started while waiting for the lock.
	if sess.generation.Load() != gen {
		return nil, staleLoad(sessionID, courseID)
	}

	sess.original = course
	sess.doc = m.serializer.RecordToDocument(course)
	sess.dirty = false
	m.touch(sess)

	return m.snapshot(sess, false), nil
}

// Snapshot returns the current state of a session
func (m *SessionManager) Snapshot(ctx context.Context, sessionID string, withHTML bool) (*services.SessionSnapshot, error) {
	return m.command(sessionID, func(sess *editSession) (*services.SessionSnapshot, error) {
		return m.snapshot(sess, withHTML), nil
	})
}

// Replace swaps in the document sent by the editor
func (m *SessionManager) Replace(ctx context.Context, sessionID string, doc richtext.Node) (*services.SessionSnapshot, error) {
	if doc.Type != richtext.TypeDoc {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("document root must be %q, got %q", richtext.TypeDoc, doc.Type)}
	}
	return m.command(sessionID, func(sess *editSession) (*services.SessionSnapshot, error) {
		sess.doc = doc
		sess.dirty = true
		m.touch(sess)
		return m.snapshot(sess, false), nil
	})
}

// ReplaceHTML swaps in a document sent as editor markup
func (m *SessionManager) ReplaceHTML(ctx context.Context, sessionID, markup string) (*services.SessionSnapshot, error) {
	return m.Replace(ctx, sessionID, m.codec.ParseHTML(markup))
}

// InsertSection appends a new unit section to the session's document
func (m *SessionManager) InsertSection(ctx context.Context, sessionID string) (*services.SessionSnapshot, error) {
	return m.command(sessionID, func(sess *editSession) (*services.SessionSnapshot, error) {
		doc, err := m.inserter.Insert(sess.doc)
		if err != nil {
			return nil, err
		}
		sess.doc = doc
		sess.dirty = true
		m.touch(sess)
		return m.snapshot(sess, false), nil
	})
}

// Save converts the session's document back to a course and stores it. The
// document is retagged the way the stored record would be tagged, so saving
// again updates the same units.
func (m *SessionManager) Save(ctx context.Context, sessionID string) (*services.SaveResult, error) {
	var saved *courses.Course
	snap, err := m.command(sessionID, func(sess *editSession) (*services.SessionSnapshot, error) {
		record, entities := m.serializer.documentToRecord(sess.doc, sess.original)

		var err error
		if sess.original.ID == "" {
			saved, err = m.courseSvc.CreateCourse(ctx, record)
		} else {
			saved, err = m.courseSvc.SaveCourse(ctx, sess.original.ID, record)
		}
		if err != nil {
			m.logger.Warn("session save failed, keeping document",
				"session_id", sess.id,
				"error", err,
			)
			return nil, err
		}

		renames := newEntityRenames(courseEntityID(sess.original), courseEntityID(saved), entities, unitEntityIDs(saved.Units))

		sess.doc = renames.retag(sess.doc)
		sess.original = saved.Clone()
		sess.dirty = false
		m.touch(sess)

		return m.snapshot(sess, false), nil
	})
	if err != nil {
		return nil, err
	}
	return &services.SaveResult{Course: saved, Session: snap}, nil
}

// Close discards a session
func (m *SessionManager) Close(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if !ok {
		return sessionNotFound(sessionID)
	}

	sess.closed.Store(true)

	m.logger.Info("edit session closed", "session_id", sessionID)
	return nil
}

// Len returns the number of open sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// command runs fn with the session locked.
func (m *SessionManager) command(sessionID string, fn func(*editSession) (*services.SessionSnapshot, error)) (*services.SessionSnapshot, error) {
	sess, err := m.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed.Load() {
		return nil, sessionNotFound(sessionID)
	}
	return fn(sess)
}

func (m *SessionManager) fetch(ctx context.Context, courseID string) (*courses.Course, error) {
	if courseID == "" {
		return m.courseSvc.NewCourse(), nil
	}
	return m.courseSvc.GetCourse(ctx, courseID)
}

func (m *SessionManager) get(sessionID string) (*editSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return sess, nil
}

// touch bumps the revision; callers hold sess.mu.
func (m *SessionManager) touch(sess *editSession) {
	sess.revision++
	sess.updatedAt = m.now()
	sess.lastUsed.Store(sess.updatedAt.UnixNano())
}

// evictLocked drops least recently used sessions until there is room for one
// more. Callers hold m.mu.
func (m *SessionManager) evictLocked() {
	for len(m.sessions) >= m.limit {
		var oldest *editSession
		for _, sess := range m.sessions {
			if oldest == nil || sess.lastUsed.Load() < oldest.lastUsed.Load() {
				oldest = sess
			}
		}
		delete(m.sessions, oldest.id)
		oldest.closed.Store(true)

		m.logger.Info("edit session evicted", "session_id", oldest.id)
	}
}

// snapshot builds the client view of a session; callers hold sess.mu.
func (m *SessionManager) snapshot(sess *editSession, withHTML bool) *services.SessionSnapshot {
	record, _ := m.serializer.documentToRecord(sess.doc, sess.original)
	report := m.calculator.Report(record)
	report.CourseID = sess.original.ID
	// Sections inserted since the last save have no id yet.
	for i := len(sess.original.Units); i < len(report.Units); i++ {
		report.Units[i].UnitID = ""
	}

	snap := &services.SessionSnapshot{
		ID:         sess.id,
		CourseID:   sess.original.ID,
		Revision:   sess.revision,
		Dirty:      sess.dirty,
		Document:   sess.doc,
		Completion: report,
		UpdatedAt:  sess.updatedAt,
	}
	if withHTML {
		snap.HTML = m.codec.RenderHTML(sess.doc)
	}
	return snap
}

// staleLoad reports a load that a newer load of the same session superseded.
func staleLoad(sessionID, courseID string) error {
	return fmt.Errorf("%w: %w", domain.ErrStaleRequest, &domain.ConflictError{
		Message:      fmt.Sprintf("load of course %s superseded by a newer load", courseID),
		ResourceType: "session",
		ResourceID:   sessionID,
	})
}

func sessionNotFound(id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("edit session %s not found", id)}
}
