package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/repositories"
)

// PostgresCourseRepository implements the CourseRepository interface.
// Units are stored as one JSONB array per course.
type PostgresCourseRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(config *RepositoryConfig) repositories.CourseRepository {
	return &PostgresCourseRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// EnsureSchema creates the courses table and its index if they do not exist yet
func EnsureSchema(ctx context.Context, config *RepositoryConfig) error {
	table := config.Tables.Courses
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id                 TEXT PRIMARY KEY,
				title              TEXT NOT NULL DEFAULT '',
				department         TEXT NOT NULL DEFAULT '',
				description        TEXT NOT NULL DEFAULT '[]',
				biblical_basis     TEXT NOT NULL DEFAULT '[]',
				materials          TEXT NOT NULL DEFAULT '[]',
				pacing             TEXT NOT NULL DEFAULT '[]',
				units              JSONB NOT NULL DEFAULT '[]'::jsonb,
				progress           INTEGER NOT NULL DEFAULT 0,
				is_approved        BOOLEAN NOT NULL DEFAULT FALSE,
				submitted_by       TEXT,
				submitted_at       TIMESTAMPTZ,
				version            INTEGER NOT NULL DEFAULT 1,
				original_course_id TEXT,
				created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_updated_at_idx ON %[1]s (updated_at DESC)`, table),
	}

	for _, stmt := range statements {
		if _, err := config.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s table: %w", table, err)
		}
	}
	return nil
}

// FetchByID retrieves a course by ID, returning (nil, nil) when absent
func (r *PostgresCourseRepository) FetchByID(ctx context.Context, id string) (*courses.Course, error) {
	query := fmt.Sprintf(`
		SELECT id, title, department, description, biblical_basis, materials, pacing,
		       units, progress, is_approved, submitted_by, submitted_at, version,
		       original_course_id, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Courses)

	var course courses.Course
	var units []byte
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Department,
		&course.Description,
		&course.BiblicalBasis,
		&course.Materials,
		&course.Pacing,
		&units,
		&course.Progress,
		&course.IsApproved,
		&course.SubmittedBy,
		&course.SubmittedAt,
		&course.Version,
		&course.OriginalCourseID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, courseError("get course "+id, err)
	}

	if err := json.Unmarshal(units, &course.Units); err != nil {
		return nil, fmt.Errorf("decode units of course %s: %w", id, err)
	}
	if course.Units == nil {
		course.Units = []courses.Unit{}
	}

	return &course, nil
}

// Save upserts a course. An empty id inserts under a new id.
func (r *PostgresCourseRepository) Save(ctx context.Context, id string, course *courses.Course) (string, error) {
	units := course.Units
	if units == nil {
		units = []courses.Unit{}
	}
	unitsJSON, err := json.Marshal(units)
	if err != nil {
		return "", fmt.Errorf("encode units: %w", err)
	}

	minted := id == ""
	if minted {
		id = uuid.NewString()
	}

	createdAt := course.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := course.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, title, department, description, biblical_basis, materials, pacing,
			units, progress, is_approved, submitted_by, submitted_at, version,
			original_course_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			description = EXCLUDED.description,
			biblical_basis = EXCLUDED.biblical_basis,
			materials = EXCLUDED.materials,
			pacing = EXCLUDED.pacing,
			units = EXCLUDED.units,
			progress = EXCLUDED.progress,
			is_approved = EXCLUDED.is_approved,
			submitted_by = EXCLUDED.submitted_by,
			submitted_at = EXCLUDED.submitted_at,
			version = EXCLUDED.version,
			original_course_id = EXCLUDED.original_course_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	var savedID string
	err = executor.QueryRow(ctx, query,
		id,
		course.Title,
		course.Department,
		course.Description,
		course.BiblicalBasis,
		course.Materials,
		course.Pacing,
		unitsJSON,
		course.Progress,
		course.IsApproved,
		course.SubmittedBy,
		course.SubmittedAt,
		course.Version,
		course.OriginalCourseID,
		createdAt,
		updatedAt,
	).Scan(&savedID)
	if err != nil {
		return "", courseError("save course "+id, err)
	}

	r.logger.Debug("course row written",
		"id", savedID,
		"minted", minted,
		"units", len(units),
	)

	return savedID, nil
}

// ListAllMetadata retrieves the summary of every course (no content)
func (r *PostgresCourseRepository) ListAllMetadata(ctx context.Context) ([]courses.CourseSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, title, department, progress, is_approved, updated_at
		FROM %s
		ORDER BY updated_at DESC, id
	`, r.tables.Courses)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, courseError("list courses", err)
	}
	defer rows.Close()

	summaries := []courses.CourseSummary{}
	for rows.Next() {
		var s courses.CourseSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Department,
			&s.Progress,
			&s.IsApproved,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return summaries, nil
}
