package coursedoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"

	"curriculum/internal/config"
	"curriculum/internal/domain"
	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/repositories"
	"curriculum/internal/domain/services"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
)

// Course and unit ids end up inside field tags, which are dot separated.
var idPattern = regexp.MustCompile(`^[^.\s]+$`)

// courseService implements the CourseService interface
type courseService struct {
	repo       repositories.CourseRepository
	txManager  repositories.TransactionManager
	serializer *Serializer
	calculator *Calculator
	exporter   *MarkdownExporter
	logger     *slog.Logger
	now        func() time.Time
}

// NewCourseService creates a new course service
func NewCourseService(
	repo repositories.CourseRepository,
	txManager repositories.TransactionManager,
	serializer *Serializer,
	calculator *Calculator,
	exporter *MarkdownExporter,
	logger *slog.Logger,
) services.CourseService {
	return &courseService{
		repo:       repo,
		txManager:  txManager,
		serializer: serializer,
		calculator: calculator,
		exporter:   exporter,
		logger:     logger,
		now:        time.Now,
	}
}

// ListCourses returns the summary of every course
func (s *courseService) ListCourses(ctx context.Context) ([]courses.CourseSummary, error) {
	summaries, err := s.repo.ListAllMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if summaries == nil {
		summaries = []courses.CourseSummary{}
	}
	return summaries, nil
}

// GetCourse retrieves a course by id
func (s *courseService) GetCourse(ctx context.Context, id string) (*courses.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	course, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch course %s: %w", id, err)
	}
	if course == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("course %s not found", id)}
	}
	course.ID = id
	return course, nil
}

// NewCourse returns the unsaved template course
func (s *courseService) NewCourse() *courses.Course {
	return courses.NewTemplate(s.serializer.newID())
}

// CreateCourse stores a course under a freshly minted id
func (s *courseService) CreateCourse(ctx context.Context, course *courses.Course) (*courses.Course, error) {
	if course == nil {
		course = s.NewCourse()
	}
	return s.store(ctx, "", course, nil)
}

// SaveCourse overwrites the course stored under id
func (s *courseService) SaveCourse(ctx context.Context, id string, course *courses.Course) (*courses.Course, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &domain.ValidationError{Message: "course body is required"}
	}

	var saved *courses.Course
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FetchByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("fetch course %s: %w", id, err)
		}
		saved, err = s.store(txCtx, id, course, existing)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// store normalizes, validates and writes a course. existing is the record
// being overwritten, if any.
func (s *courseService) store(ctx context.Context, id string, course, existing *courses.Course) (*courses.Course, error) {
	out := course.Clone()
	s.normalize(out)

	if err := s.validate(out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	out.Progress = s.calculator.CourseProgress(out)
	out.UpdatedAt = now
	switch {
	case existing != nil && !existing.CreatedAt.IsZero():
		out.CreatedAt = existing.CreatedAt
	case out.CreatedAt.IsZero():
		out.CreatedAt = now
	}
	if out.Version == 0 {
		out.Version = 1
	}

	savedID, err := s.repo.Save(ctx, id, out)
	if err != nil {
		return nil, fmt.Errorf("save course: %w", err)
	}
	out.ID = savedID

	s.logger.Info("course saved",
		"id", savedID,
		"units", len(out.Units),
		"progress", out.Progress,
	)

	return out, nil
}

// normalize fills empty rich-text fields with the sentinel and mints ids for
// units that have none.
func (s *courseService) normalize(c *courses.Course) {
	c.ID = ""
	for _, f := range s.serializer.schema.FieldsOfKind(schema.ScopeCourse, schema.KindRichText) {
		if ptr, ok := c.Field(f.Name); ok && strings.TrimSpace(*ptr) == "" {
			*ptr = courses.EmptyRichText
		}
	}

	if c.Units == nil {
		c.Units = []courses.Unit{}
	}
	richUnitFields := s.serializer.schema.FieldsOfKind(schema.ScopeUnit, schema.KindRichText)
	for i := range c.Units {
		u := &c.Units[i]
		if u.ID == "" {
			u.ID = s.serializer.newID()
		}
		for _, f := range richUnitFields {
			if ptr, ok := u.Field(f.Name); ok && strings.TrimSpace(*ptr) == "" {
				*ptr = courses.EmptyRichText
			}
		}
	}
}

func (s *courseService) validate(c *courses.Course) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Length(0, config.MaxCourseTitleLength)),
		validation.Field(&c.Department, validation.Length(0, config.MaxDepartmentLength)),
		validation.Field(&c.Description, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&c.BiblicalBasis, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&c.Materials, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&c.Pacing, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&c.Units,
			validation.Length(0, config.MaxUnitsPerCourse),
			validation.By(uniqueUnitIDs),
			validation.Each(validation.By(validateUnit)),
		),
	)
}

func validateUnit(value interface{}) error {
	u, ok := value.(courses.Unit)
	if !ok {
		return errors.New("must be a unit")
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID,
			validation.Required,
			validation.Match(idPattern).Error("must not contain dots or spaces"),
		),
		validation.Field(&u.UnitName, validation.Length(0, config.MaxUnitNameLength)),
		validation.Field(&u.LearningObjectives, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&u.Standards, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&u.BiblicalIntegration, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&u.InstructionalStrategiesActivities, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&u.Resources, validation.Length(0, config.MaxRichTextFieldBytes)),
		validation.Field(&u.Assessments, validation.Length(0, config.MaxRichTextFieldBytes)),
	)
}

func uniqueUnitIDs(value interface{}) error {
	units, _ := value.([]courses.Unit)
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if seen[u.ID] {
			return fmt.Errorf("duplicate unit id %q", u.ID)
		}
		seen[u.ID] = true
	}
	return nil
}

func validateID(id string) error {
	err := validation.Validate(id,
		validation.Required,
		validation.Match(idPattern).Error("must not contain dots or spaces"),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid course id: %v", err)}
	}
	return nil
}

// Completion computes the completion report of a stored course
func (s *courseService) Completion(ctx context.Context, id string) (*courses.CompletionReport, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	report := s.calculator.Report(course)
	return &report, nil
}

// Document returns the editor document of a stored course
func (s *courseService) Document(ctx context.Context, id string) (richtext.Node, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return richtext.Node{}, err
	}
	return s.serializer.RecordToDocument(course), nil
}

// Markdown renders a stored course as Markdown
func (s *courseService) Markdown(ctx context.Context, id string) (string, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return "", err
	}
	return s.exporter.Course(course), nil
}

// Compare fetches two courses concurrently and lists the fields that differ
func (s *courseService) Compare(ctx context.Context, leftID, rightID string) (*services.Comparison, error) {
	var left, right *courses.Course

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.GetCourse(gctx, leftID)
		left = c
		return err
	})
	g.Go(func() error {
		c, err := s.GetCourse(gctx, rightID)
		right = c
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &services.Comparison{
		Left:        left,
		Right:       right,
		LeftStats:   s.calculator.Report(left),
		RightStats:  s.calculator.Report(right),
		Differences: s.differences(left, right),
	}, nil
}

// differences lists the schema fields whose values differ between two
// courses. Two empty rich-text values are equal whatever their encoding.
// Units are matched by position.
func (s *courseService) differences(left, right *courses.Course) []string {
	diffs := []string{}

	for _, f := range s.serializer.schema.Course() {
		l, _ := left.Field(f.Name)
		r, _ := right.Field(f.Name)
		if !sameValue(f, deref(l), deref(r)) {
			diffs = append(diffs, f.Name)
		}
	}

	n := max(len(left.Units), len(right.Units))
	for i := 0; i < n; i++ {
		if i >= len(left.Units) || i >= len(right.Units) {
			diffs = append(diffs, fmt.Sprintf("units[%d]", i))
			continue
		}
		lu, ru := &left.Units[i], &right.Units[i]
		for _, f := range s.serializer.schema.Unit() {
			l, _ := lu.Field(f.Name)
			r, _ := ru.Field(f.Name)
			if !sameValue(f, deref(l), deref(r)) {
				diffs = append(diffs, fmt.Sprintf("units[%d].%s", i, f.Name))
			}
		}
	}

	return diffs
}

func sameValue(f schema.Field, a, b string) bool {
	if f.Kind == schema.KindRichText && richtext.IsEmpty(a) && richtext.IsEmpty(b) {
		return true
	}
	return a == b
}
