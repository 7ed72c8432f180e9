package learner

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidState is the sentinel wrapped by every *InvalidStateError.
var ErrInvalidState = errors.New("invalid learner state")

// FieldError describes one out-of-range or non-finite metric.
type FieldError struct {
	Field string
	Value float64
	Want  string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s=%v (want %s)", f.Field, f.Value, f.Want)
}

// InvalidStateError reports a structurally invalid State. Missing optional
// metrics are not errors; values that are present but impossible are.
type InvalidStateError struct {
	UserID int
	Fields []FieldError
}

func (e *InvalidStateError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid learner state for user %d: %s", e.UserID, strings.Join(parts, ", "))
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// Validate checks that every reported metric is finite and within its
// documented range. Returns *InvalidStateError listing all violations.
func (s State) Validate() error {
	var fields []FieldError

	checkRange := func(name string, v, lo, hi float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
			fields = append(fields, FieldError{Field: name, Value: v, Want: fmt.Sprintf("%g..%g", lo, hi)})
		}
	}
	checkOptional := func(name string, v *float64, lo, hi float64) {
		if v != nil {
			checkRange(name, *v, lo, hi)
		}
	}
	checkNonNegative := func(name string, v float64) {
		checkRange(name, v, 0, math.MaxFloat64)
	}

	checkOptional("engagement_score", s.EngagementScore, 0, 100)
	checkOptional("dropout_risk", s.DropoutRisk, 0, 1)
	checkOptional("attendance_rate", s.AttendanceRate, 0, 1)
	checkOptional("first_sem_grade", s.FirstSemGrade, 0, 20)
	checkOptional("second_sem_grade", s.SecondSemGrade, 0, 20)
	checkRange("completion_rate", s.CompletionRate, 0, 100)
	checkNonNegative("avg_session", s.AvgSession)
	checkNonNegative("streak", float64(s.Streak))
	checkNonNegative("evaluations_attempted", float64(s.EvaluationsAttempted))
	checkNonNegative("evaluations_passed", float64(s.EvaluationsPassed))

	if len(fields) > 0 {
		return &InvalidStateError{UserID: s.ID, Fields: fields}
	}
	return nil
}
