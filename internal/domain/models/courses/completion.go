package courses

import "math"

// Completion counts filled-in fields of a course or unit.
type Completion struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewCompletion builds a completion with its rounded percentage.
// A zero total yields 0%.
func NewCompletion(completed, total int) Completion {
	c := Completion{Completed: completed, Total: total}
	if total > 0 {
		c.Percentage = int(math.Round(100 * float64(completed) / float64(total)))
	}
	return c
}

// Add combines two completions.
func (c Completion) Add(other Completion) Completion {
	return NewCompletion(c.Completed+other.Completed, c.Total+other.Total)
}

// UnitCompletion is the completion of one unit, keyed by unit id.
type UnitCompletion struct {
	UnitID     string     `json:"unitId"`
	UnitName   string     `json:"unitName"`
	Completion Completion `json:"completion"`
}

// CompletionReport drives the progress indicators of a course.
type CompletionReport struct {
	CourseID string           `json:"courseId"`
	Overall  Completion       `json:"overall"`
	Units    []UnitCompletion `json:"units"`
	Progress int              `json:"progress"`
}
