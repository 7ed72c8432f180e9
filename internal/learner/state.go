package learner

// ProfileType is the engagement archetype a learner was generated from.
type ProfileType string

const (
	ProfileHighEngagement     ProfileType = "high_engagement"
	ProfileModerateEngagement ProfileType = "moderate_engagement"
	ProfileAtRisk             ProfileType = "at_risk"
)

// AllProfileTypes returns the profile types from most to least engaged.
func AllProfileTypes() []ProfileType {
	return []ProfileType{ProfileHighEngagement, ProfileModerateEngagement, ProfileAtRisk}
}

// DisplayName returns a human-readable label for the profile type.
func (p ProfileType) DisplayName() string {
	switch p {
	case ProfileHighEngagement:
		return "High engagement"
	case ProfileModerateEngagement:
		return "Moderate engagement"
	case ProfileAtRisk:
		return "At risk"
	default:
		return string(p)
	}
}

// Defaults used when an optional metric is missing. Each one is chosen so a
// sparse state never trips an alert on its own.
const (
	DefaultEngagementScore = 100.0
	DefaultDropoutRisk     = 0.0
	DefaultAttendanceRate  = 1.0
	DefaultGrade           = 10.0
)

// State is a read-only snapshot of one learner's engagement and academic
// metrics. Pointer fields are optional; nil means the upstream source did
// not report the metric.
type State struct {
	ID          int
	Name        string
	ProfileType ProfileType

	EngagementScore *float64 // 0-100
	DropoutRisk     *float64 // 0.0-1.0
	Streak          int      // consecutive days
	CompletionRate  float64  // percent, 0-100
	AvgSession      float64  // hours
	LastActive      string   // "Today", "Yesterday" or "<N> days ago"

	AttendanceRate       *float64 // 0.0-1.0
	FirstSemGrade        *float64 // 0-20
	SecondSemGrade       *float64 // 0-20
	EvaluationsAttempted int
	EvaluationsPassed    int

	// Supplementary metrics consumed by analytics only.
	TotalTime        float64 // hours
	DailyTime        float64 // hours
	SessionCount     int
	InteractionScore float64 // 0.0-1.0
	LearningStyle    string
	PreferredTime    string
}

// Engagement returns the engagement score, or DefaultEngagementScore if missing.
func (s State) Engagement() float64 {
	if s.EngagementScore == nil {
		return DefaultEngagementScore
	}
	return *s.EngagementScore
}

// Risk returns the dropout risk, or DefaultDropoutRisk if missing.
func (s State) Risk() float64 {
	if s.DropoutRisk == nil {
		return DefaultDropoutRisk
	}
	return *s.DropoutRisk
}

// Attendance returns the attendance rate, or DefaultAttendanceRate if missing.
func (s State) Attendance() float64 {
	if s.AttendanceRate == nil {
		return DefaultAttendanceRate
	}
	return *s.AttendanceRate
}

// Grades returns both semester grades, substituting DefaultGrade for
// whichever is missing.
func (s State) Grades() (first, second float64) {
	first, second = DefaultGrade, DefaultGrade
	if s.FirstSemGrade != nil {
		first = *s.FirstSemGrade
	}
	if s.SecondSemGrade != nil {
		second = *s.SecondSemGrade
	}
	return first, second
}

// AverageGrade returns the mean of the two semester grades.
func (s State) AverageGrade() float64 {
	first, second := s.Grades()
	return (first + second) / 2
}

// PassRate returns passed/attempted, and false when nothing was attempted.
func (s State) PassRate() (float64, bool) {
	if s.EvaluationsAttempted <= 0 {
		return 0, false
	}
	return float64(s.EvaluationsPassed) / float64(s.EvaluationsAttempted), true
}

// PercentFromFraction converts a 0-1 completion rate to the canonical
// 0-100 percent scale.
func PercentFromFraction(f float64) float64 {
	return f * 100
}

// Float returns a pointer to v, for populating optional metrics.
func Float(v float64) *float64 { return &v }
