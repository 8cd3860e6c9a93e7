package schema

import (
	"embed"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

const defaultFile = "config/fields.yaml"

// Scope is the entity a field belongs to.
type Scope string

const (
	ScopeCourse Scope = "course"
	ScopeUnit   Scope = "unit"
)

// Kind determines how a field is laid out in the document tree.
type Kind string

const (
	// KindHeading is a scalar rendered as an editable heading.
	KindHeading Kind = "heading"
	// KindRichText is a fixed heading followed by free rich-text content.
	KindRichText Kind = "rich_text"
	// KindPlainText is a fixed heading followed by one labeled paragraph.
	KindPlainText Kind = "plain_text"
)

// Field describes one entity field and how it renders.
type Field struct {
	Name          string `yaml:"name" json:"name"`
	Label         string `yaml:"label" json:"label"`
	Kind          Kind   `yaml:"kind" json:"kind"`
	Level         int    `yaml:"level" json:"level"`
	StartsSection bool   `yaml:"starts_section" json:"starts_section"`
}

// field names end up inside dot-separated field tags
var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Validate checks a single field definition.
func (f Field) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Match(fieldNamePattern)),
		validation.Field(&f.Label, validation.Required),
		validation.Field(&f.Kind, validation.Required, validation.In(KindHeading, KindRichText, KindPlainText)),
		validation.Field(&f.Level, validation.Required, validation.Min(1), validation.Max(6)),
	)
}

// Schema is the immutable field table for courses and units.
// Build it once with Load and share the pointer.
type Schema struct {
	fields map[Scope][]Field
	index  map[Scope]map[string]int
}

type schemaFile struct {
	Course []Field `yaml:"course"`
	Unit   []Field `yaml:"unit"`
}

// Load reads the embedded field table.
func Load() (*Schema, error) {
	data, err := configFiles.ReadFile(defaultFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", defaultFile, err)
	}
	return Parse(data)
}

// Parse builds a schema from a YAML field table.
func Parse(data []byte) (*Schema, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field schema: %w", err)
	}

	s := &Schema{
		fields: map[Scope][]Field{
			ScopeCourse: file.Course,
			ScopeUnit:   file.Unit,
		},
		index: make(map[Scope]map[string]int),
	}

	for scope, fields := range s.fields {
		if len(fields) == 0 {
			return nil, fmt.Errorf("field schema: no %s fields defined", scope)
		}
		idx := make(map[string]int, len(fields))
		for i, f := range fields {
			if err := f.Validate(); err != nil {
				return nil, fmt.Errorf("field schema: %s field %d (%q): %w", scope, i, f.Name, err)
			}
			if _, dup := idx[f.Name]; dup {
				return nil, fmt.Errorf("field schema: duplicate %s field %q", scope, f.Name)
			}
			idx[f.Name] = i
		}
		s.index[scope] = idx
	}

	return s, nil
}

// Fields returns the ordered fields of a scope. The slice is a copy.
func (s *Schema) Fields(scope Scope) []Field {
	if s == nil {
		return nil
	}
	return append([]Field(nil), s.fields[scope]...)
}

// Course returns the course fields in document order.
func (s *Schema) Course() []Field { return s.Fields(ScopeCourse) }

// Unit returns the unit fields in document order.
func (s *Schema) Unit() []Field { return s.Fields(ScopeUnit) }

// Lookup finds a field definition by scope and name.
func (s *Schema) Lookup(scope Scope, name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	i, ok := s.index[scope][name]
	if !ok {
		return Field{}, false
	}
	return s.fields[scope][i], true
}

// FieldsOfKind returns the fields of a scope with the given kind, in order.
func (s *Schema) FieldsOfKind(scope Scope, kind Kind) []Field {
	var out []Field
	for _, f := range s.Fields(scope) {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
