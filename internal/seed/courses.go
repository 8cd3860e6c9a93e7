package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"curriculum/internal/domain/models/courses"
	"curriculum/internal/domain/services"
	"curriculum/internal/richtext"
)

//go:embed data/courses.yaml
var sampleCourses []byte

// richText is a rich-text field in the seed file: a list of paragraphs, or
// a mapping with a "bullets" list.
type richText struct {
	Paragraphs []string
	Bullets    []string
}

func (r *richText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&r.Paragraphs)
	case yaml.MappingNode:
		var m struct {
			Bullets []string `yaml:"bullets"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		r.Bullets = m.Bullets
		return nil
	case yaml.ScalarNode:
		r.Paragraphs = []string{node.Value}
		return nil
	}
	return fmt.Errorf("line %d: rich text must be a list or a bullets mapping", node.Line)
}

// fragment encodes the field the way the editor stores it.
func (r richText) fragment() string {
	var nodes []richtext.Node
	for _, p := range r.Paragraphs {
		nodes = append(nodes, richtext.Paragraph(p))
	}
	if len(r.Bullets) > 0 {
		items := make([]richtext.Node, 0, len(r.Bullets))
		for _, b := range r.Bullets {
			items = append(items, richtext.Node{
				Type:    richtext.TypeListItem,
				Content: []richtext.Node{richtext.Paragraph(b)},
			})
		}
		nodes = append(nodes, richtext.Node{Type: richtext.TypeBulletList, Content: items})
	}
	return richtext.Stringify(nodes)
}

type seedUnit struct {
	UnitName                          string   `yaml:"unitName"`
	TimeAllotted                      string   `yaml:"timeAllotted"`
	LearningObjectives                richText `yaml:"learningObjectives"`
	Standards                         richText `yaml:"standards"`
	BiblicalIntegration               richText `yaml:"biblicalIntegration"`
	InstructionalStrategiesActivities richText `yaml:"instructionalStrategiesActivities"`
	Resources                         richText `yaml:"resources"`
	Assessments                       richText `yaml:"assessments"`
}

type seedCourse struct {
	Title         string     `yaml:"title"`
	Department    string     `yaml:"department"`
	Description   richText   `yaml:"description"`
	BiblicalBasis richText   `yaml:"biblicalBasis"`
	Materials     richText   `yaml:"materials"`
	Pacing        richText   `yaml:"pacing"`
	Units         []seedUnit `yaml:"units"`
}

func (s seedCourse) course() *courses.Course {
	c := &courses.Course{
		Title:         s.Title,
		Department:    s.Department,
		Description:   s.Description.fragment(),
		BiblicalBasis: s.BiblicalBasis.fragment(),
		Materials:     s.Materials.fragment(),
		Pacing:        s.Pacing.fragment(),
		Units:         make([]courses.Unit, 0, len(s.Units)),
	}
	for _, u := range s.Units {
		c.Units = append(c.Units, courses.Unit{
			UnitName:                          u.UnitName,
			TimeAllotted:                      u.TimeAllotted,
			LearningObjectives:                u.LearningObjectives.fragment(),
			Standards:                         u.Standards.fragment(),
			BiblicalIntegration:               u.BiblicalIntegration.fragment(),
			InstructionalStrategiesActivities: u.InstructionalStrategiesActivities.fragment(),
			Resources:                         u.Resources.fragment(),
			Assessments:                       u.Assessments.fragment(),
		})
	}
	return c
}

// SampleCourses decodes the embedded sample courses.
func SampleCourses() ([]*courses.Course, error) {
	return parseCourses(sampleCourses)
}

func parseCourses(data []byte) ([]*courses.Course, error) {
	var raw []seedCourse
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse sample courses: %w", err)
	}
	out := make([]*courses.Course, 0, len(raw))
	for _, s := range raw {
		out = append(out, s.course())
	}
	return out, nil
}

// CourseSeeder stores the sample courses through the course service, so
// seeded records get ids, progress and timestamps like any other save.
type CourseSeeder struct {
	courseService services.CourseService
	logger        *slog.Logger
}

// NewCourseSeeder creates a new course seeder
func NewCourseSeeder(courseService services.CourseService, logger *slog.Logger) *CourseSeeder {
	return &CourseSeeder{courseService: courseService, logger: logger}
}

// Seed creates every sample course and returns how many were stored.
func (s *CourseSeeder) Seed(ctx context.Context) (int, error) {
	samples, err := SampleCourses()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, c := range samples {
		saved, err := s.courseService.CreateCourse(ctx, c)
		if err != nil {
			return created, fmt.Errorf("seed course %q: %w", c.Title, err)
		}
		created++
		s.logger.Info("seeded course",
			"id", saved.ID,
			"title", saved.Title,
			"progress", saved.Progress,
		)
	}
	return created, nil
}
