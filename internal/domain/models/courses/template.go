package courses

// Template values of a course that has not been edited yet.
const (
	TemplateTitle        = "Untitled Course"
	TemplateUnitName     = "Untitled Unit 1"
	TemplateTimeAllotted = "1 Week"
)

// NewTemplate returns a fresh course with one default unit identified by unitID.
func NewTemplate(unitID string) *Course {
	return &Course{
		Title:         TemplateTitle,
		Description:   EmptyRichText,
		BiblicalBasis: EmptyRichText,
		Materials:     EmptyRichText,
		Pacing:        EmptyRichText,
		Units: []Unit{{
			ID:                                unitID,
			UnitName:                          TemplateUnitName,
			TimeAllotted:                      TemplateTimeAllotted,
			LearningObjectives:                EmptyRichText,
			Standards:                         EmptyRichText,
			BiblicalIntegration:               EmptyRichText,
			InstructionalStrategiesActivities: EmptyRichText,
			Resources:                         EmptyRichText,
			Assessments:                       EmptyRichText,
		}},
		Version: 1,
	}
}
