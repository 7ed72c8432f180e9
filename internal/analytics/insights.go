package analytics

import (
	"fmt"

	"github.com/abhisek/learnpulse/internal/learner"
)

// InsightKind classifies an insight by severity.
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightWarning InsightKind = "warning"
	InsightAlert   InsightKind = "alert"
)

// Insight thresholds.
const (
	LowEngagementBelow   = 50.0
	HighRiskPercentAbove = 30.0
	ShortSessionBelow    = 0.5 // hours
)

// Per-learner insight thresholds.
const (
	LearnerHighRiskAbove      = 0.7
	LearnerModerateRiskAbove  = 0.4
	StreakMasterAbove         = 10
	LearnerLowCompletionBelow = 60.0 // percent
	LearnerLowAttendanceBelow = 0.75
)

// Insight is an actionable observation about the cohort.
type Insight struct {
	Kind    InsightKind
	Title   string
	Message string
	Action  string
}

// Insights derives insights from m, in a fixed order: engagement, risk,
// session length.
func Insights(m *Metrics) []Insight {
	if m == nil {
		return nil
	}

	var out []Insight
	if avg := m.Engagement.Mean; avg < LowEngagementBelow {
		out = append(out, Insight{
			Kind:    InsightWarning,
			Title:   "Low Overall Engagement",
			Message: fmt.Sprintf("Average engagement is only %.1f%%. Consider implementing engagement boosters.", avg),
			Action:  "Review content difficulty and add interactive elements",
		})
	}
	if pct := m.Risk.Percentages[RiskHigh]; pct > HighRiskPercentAbove {
		out = append(out, Insight{
			Kind:    InsightAlert,
			Title:   "High Dropout Risk",
			Message: fmt.Sprintf("%.1f%% of users are at high risk of dropping out.", pct),
			Action:  "Activate intensive intervention protocols",
		})
	}
	if avg := m.Time.SessionMean; avg < ShortSessionBelow {
		out = append(out, Insight{
			Kind:    InsightInfo,
			Title:   "Short Session Duration",
			Message: fmt.Sprintf("Average session length is %.1fh. Users may benefit from bite-sized content.", avg),
			Action:  "Consider micro-learning modules",
		})
	}
	return out
}

// LearnerInsights derives personal insights for one learner: always a
// risk-band insight, then streak, completion and attendance when they
// cross their thresholds. Missing metrics use the state's defaults.
func LearnerInsights(s learner.State) []Insight {
	var out []Insight
	switch risk := s.Risk(); {
	case risk > LearnerHighRiskAbove:
		out = append(out, Insight{
			Kind:    InsightAlert,
			Title:   "High Risk Alert",
			Message: "Your engagement patterns suggest you may be at risk of dropping out.",
			Action:  "Consider reaching out to your mentor for support",
		})
	case risk > LearnerModerateRiskAbove:
		out = append(out, Insight{
			Kind:    InsightWarning,
			Title:   "Moderate Risk",
			Message: "Your performance shows some concerning patterns.",
			Action:  "Focus on improving attendance and completion rates",
		})
	default:
		out = append(out, Insight{
			Kind:    InsightInfo,
			Title:   "Low Risk",
			Message: "Great job! Your engagement levels suggest you're on track to successfully complete your courses.",
		})
	}
	if s.Streak > StreakMasterAbove {
		out = append(out, Insight{
			Kind:    InsightInfo,
			Title:   "Streak Master",
			Message: fmt.Sprintf("Amazing! You've maintained a %d-day learning streak.", s.Streak),
			Action:  "Keep up the excellent consistency",
		})
	}
	if s.CompletionRate < LearnerLowCompletionBelow {
		out = append(out, Insight{
			Kind:    InsightWarning,
			Title:   "Focus on Completion",
			Message: "Your completion rate could use improvement.",
			Action:  "Try breaking tasks into smaller, manageable chunks",
		})
	}
	if s.Attendance() < LearnerLowAttendanceBelow {
		out = append(out, Insight{
			Kind:    InsightWarning,
			Title:   "Attendance Focus",
			Message: "Regular attendance strongly correlates with success.",
			Action:  "Try to maintain consistent participation",
		})
	}
	return out
}
