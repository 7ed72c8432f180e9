package nudge

import (
	"fmt"

	"github.com/abhisek/learnpulse/internal/learner"
)

// Condition names a trigger predicate.
type Condition string

const (
	CondHoursInactive      Condition = "hours_inactive"
	CondEngagementDrop     Condition = "engagement_drop"
	CondStreakRisk         Condition = "streak_risk"
	CondCompletionRateLow  Condition = "completion_rate_low"
	CondTimeSpentHigh      Condition = "time_spent_high"
	CondNoAssessment       Condition = "no_assessment"
	CondEngagementModerate Condition = "engagement_moderate"
	CondPeerActive         Condition = "peer_active"
	CondStreakHigh         Condition = "streak_high"
	CondDropoutRiskHigh    Condition = "dropout_risk_high"
	CondStruggleDetected   Condition = "struggle_detected"
	CondMentorAvailable    Condition = "mentor_available"
)

// struggleCompletionPercent is the completion rate below which a learner
// is considered to be struggling. The rule threshold is not consulted.
const struggleCompletionPercent = 40

// Predicate decides whether a condition holds for a learner.
type Predicate func(s learner.State, threshold float64, sig SignalSource) bool

var predicates = map[Condition]Predicate{
	CondHoursInactive: func(s learner.State, threshold float64, _ SignalSource) bool {
		switch s.LastActive {
		case learner.LastActiveToday:
			return false
		case learner.LastActiveYesterday:
			return threshold <= 24
		}
		days, _ := learner.ParseLastActive(s.LastActive)
		return float64(days*24) >= threshold
	},
	CondEngagementDrop: func(s learner.State, threshold float64, _ SignalSource) bool {
		return s.Engagement() < 100-threshold
	},
	CondStreakRisk: func(s learner.State, threshold float64, _ SignalSource) bool {
		return float64(s.Streak) <= threshold
	},
	CondCompletionRateLow: func(s learner.State, threshold float64, _ SignalSource) bool {
		return s.CompletionRate/100 < threshold
	},
	CondTimeSpentHigh: func(s learner.State, threshold float64, _ SignalSource) bool {
		return s.AvgSession > threshold
	},
	CondNoAssessment: func(s learner.State, threshold float64, sig SignalSource) bool {
		return sig.AssessmentOverdue(s, threshold)
	},
	CondEngagementModerate: func(s learner.State, threshold float64, _ SignalSource) bool {
		return s.Engagement() > threshold
	},
	CondPeerActive: func(s learner.State, _ float64, sig SignalSource) bool {
		return sig.PeerActive(s)
	},
	CondStreakHigh: func(s learner.State, threshold float64, _ SignalSource) bool {
		return float64(s.Streak) >= threshold
	},
	CondDropoutRiskHigh: func(s learner.State, threshold float64, _ SignalSource) bool {
		return s.Risk() > threshold
	},
	CondStruggleDetected: func(s learner.State, _ float64, _ SignalSource) bool {
		return s.CompletionRate < struggleCompletionPercent
	},
	CondMentorAvailable: func(s learner.State, _ float64, sig SignalSource) bool {
		return sig.MentorAvailable(s)
	},
}

// Known reports whether c names a registered predicate.
func (c Condition) Known() bool {
	_, ok := predicates[c]
	return ok
}

// Evaluate runs the predicate for c. Unknown conditions never hold.
func (c Condition) Evaluate(s learner.State, threshold float64, sig SignalSource) bool {
	p, ok := predicates[c]
	if !ok {
		return false
	}
	return p(s, threshold, sig)
}

// Reason returns the human-readable explanation for a triggered condition.
func (c Condition) Reason(s learner.State) string {
	switch c {
	case CondHoursInactive:
		return fmt.Sprintf("User inactive for %s", s.LastActive)
	case CondEngagementDrop:
		return fmt.Sprintf("Engagement score dropped to %.1f%%", s.Engagement())
	case CondStreakRisk:
		return fmt.Sprintf("Learning streak at risk (%d days)", s.Streak)
	case CondCompletionRateLow:
		return fmt.Sprintf("Low completion rate (%.1f%%)", s.CompletionRate)
	case CondTimeSpentHigh:
		return fmt.Sprintf("High session time (%.1fh) may indicate difficulty", s.AvgSession)
	case CondNoAssessment:
		return "No recent assessment activity detected"
	case CondEngagementModerate:
		return "Good engagement level - opportunity for challenge"
	case CondPeerActive:
		return "Peer activity detected - social learning opportunity"
	case CondStreakHigh:
		return fmt.Sprintf("Strong learning streak (%d days) - reward opportunity", s.Streak)
	case CondDropoutRiskHigh:
		return fmt.Sprintf("High dropout risk (%.1f%%)", s.Risk()*100)
	case CondStruggleDetected:
		return "Learning difficulties detected"
	case CondMentorAvailable:
		return "Mentor support available"
	default:
		return fmt.Sprintf("Condition %s triggered", c)
	}
}
