package bias

import "fmt"

// ShapeError reports parallel input sequences whose lengths disagree, or a
// required sequence that is empty. Requests failing shape validation are
// rejected whole; no partial report is produced.
type ShapeError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeError) Error() string {
	if e.Want == 0 && e.Got == 0 {
		return fmt.Sprintf("%s must not be empty", e.Field)
	}
	return fmt.Sprintf("%s has length %d, expected %d", e.Field, e.Got, e.Want)
}

// ComputationError wraps an unexpected failure inside the metric math for a
// single sensitive attribute. It never aborts the surrounding multi-attribute
// evaluation; the failed attribute is reported and the rest complete.
type ComputationError struct {
	Attribute string
	Err       error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("fairness metrics for attribute %q: %v", e.Attribute, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
