package severity

import (
	"errors"
	"fmt"
)

// ErrNotTrained is returned when a Classifier has no model and cannot build one.
var ErrNotTrained = errors.New("severity: classifier not trained")

// TrainingError reports a corpus that cannot produce a usable model.
type TrainingError struct {
	Reason string
	Err    error
}

func (e *TrainingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("severity training: %s: %v", e.Reason, e.Err)
	}
	return "severity training: " + e.Reason
}

func (e *TrainingError) Unwrap() error { return e.Err }
