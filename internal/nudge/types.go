package nudge

import "time"

// Category groups catalogue rules and message templates.
type Category string

const (
	CategoryReminder   Category = "reminder"
	CategoryAssessment Category = "assessment"
	CategoryChallenge  Category = "challenge"
	CategoryMentor     Category = "mentor"
)

// AllCategories returns all categories in catalogue evaluation order.
func AllCategories() []Category {
	return []Category{CategoryReminder, CategoryAssessment, CategoryChallenge, CategoryMentor}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryReminder:
		return "Reminder"
	case CategoryAssessment:
		return "Assessment"
	case CategoryChallenge:
		return "Challenge"
	case CategoryMentor:
		return "Mentor"
	default:
		return string(c)
	}
}

// UrgentKind tags a nudge produced by the urgent rule set.
type UrgentKind string

const (
	UrgentAttendance  UrgentKind = "attendance"
	UrgentEngagement  UrgentKind = "engagement"
	UrgentDropoutRisk UrgentKind = "dropout_risk"
	UrgentEvaluations UrgentKind = "evaluations"
	UrgentGrades      UrgentKind = "grades"
)

// AllUrgentKinds returns the urgent kinds in check order.
func AllUrgentKinds() []UrgentKind {
	return []UrgentKind{UrgentAttendance, UrgentEngagement, UrgentDropoutRisk, UrgentEvaluations, UrgentGrades}
}

// DisplayName returns a human-readable label for the urgent kind.
func (k UrgentKind) DisplayName() string {
	switch k {
	case UrgentAttendance:
		return "Attendance"
	case UrgentEngagement:
		return "Engagement"
	case UrgentDropoutRisk:
		return "Dropout Risk"
	case UrgentEvaluations:
		return "Evaluations"
	case UrgentGrades:
		return "Grades"
	default:
		return string(k)
	}
}

// Priority orders nudges for display.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns all priorities from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Rank returns the sort weight of the priority: high=3, medium=2, low=1.
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the three priority levels.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// Status is the lifecycle state of a generated nudge.
type Status string

const (
	StatusPending Status = "pending"
	StatusUrgent  Status = "urgent"
)

// Nudge is a single generated notification for a learner.
type Nudge struct {
	User          string
	UserID        int
	Type          string // a Category or an UrgentKind
	Message       string
	Priority      Priority
	TriggerReason string
	CreatedAt     time.Time
	Status        Status
	IsUrgent      bool
}

// Trigger records a rule whose condition held for a learner.
type Trigger struct {
	Condition Condition
	Priority  Priority
	Reason    string
}
