package nudge

import (
	"testing"

	"github.com/abhisek/learnpulse/internal/learner"
)

func TestHoursInactive(t *testing.T) {
	tests := []struct {
		lastActive string
		threshold  float64
		want       bool
	}{
		{"3 days ago", 48, true},
		{"3 days ago", 72, true},
		{"3 days ago", 73, false},
		{"2 days ago", 24, true},
		{"Today", 0, false},
		{"Today", 24, false},
		{"Today", 48, false},
		{"Yesterday", 24, true},
		{"Yesterday", 48, false},
		{"", 24, true},          // unparseable defaults to one day
		{"recently", 48, false}, // one day is below 48h
	}

	for _, tt := range tests {
		s := learner.State{LastActive: tt.lastActive}
		got := CondHoursInactive.Evaluate(s, tt.threshold, FixedSignals{})
		if got != tt.want {
			t.Errorf("hours_inactive(%q, %v) = %v, want %v", tt.lastActive, tt.threshold, got, tt.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	on := FixedSignals{Assessment: true, Peer: true, Mentor: true}
	off := FixedSignals{}

	tests := []struct {
		name      string
		cond      Condition
		state     learner.State
		threshold float64
		sig       SignalSource
		want      bool
	}{
		{"engagement drop below", CondEngagementDrop, learner.State{EngagementScore: learner.Float(79.9)}, 20, off, true},
		{"engagement drop at bound", CondEngagementDrop, learner.State{EngagementScore: learner.Float(80)}, 20, off, false},
		{"engagement drop missing", CondEngagementDrop, learner.State{}, 20, off, false},
		{"streak risk at bound", CondStreakRisk, learner.State{Streak: 1}, 1, off, true},
		{"streak risk above", CondStreakRisk, learner.State{Streak: 2}, 1, off, false},
		{"completion low", CondCompletionRateLow, learner.State{CompletionRate: 49}, 0.5, off, true},
		{"completion at bound", CondCompletionRateLow, learner.State{CompletionRate: 50}, 0.5, off, false},
		{"time spent high", CondTimeSpentHigh, learner.State{AvgSession: 2.1}, 2, off, true},
		{"time spent at bound", CondTimeSpentHigh, learner.State{AvgSession: 2}, 2, off, false},
		{"no assessment on", CondNoAssessment, learner.State{}, 72, on, true},
		{"no assessment off", CondNoAssessment, learner.State{}, 72, off, false},
		{"engagement moderate", CondEngagementModerate, learner.State{EngagementScore: learner.Float(71)}, 70, off, true},
		{"engagement moderate at bound", CondEngagementModerate, learner.State{EngagementScore: learner.Float(70)}, 70, off, false},
		{"peer active", CondPeerActive, learner.State{}, 1, on, true},
		{"streak high", CondStreakHigh, learner.State{Streak: 7}, 7, off, true},
		{"streak high below", CondStreakHigh, learner.State{Streak: 6}, 7, off, false},
		{"dropout high", CondDropoutRiskHigh, learner.State{DropoutRisk: learner.Float(0.71)}, 0.7, off, true},
		{"dropout at bound", CondDropoutRiskHigh, learner.State{DropoutRisk: learner.Float(0.7)}, 0.7, off, false},
		{"struggle ignores threshold", CondStruggleDetected, learner.State{CompletionRate: 39}, 99, off, true},
		{"struggle at bound", CondStruggleDetected, learner.State{CompletionRate: 40}, 1, off, false},
		{"mentor available", CondMentorAvailable, learner.State{}, 1, on, true},
		{"mentor unavailable", CondMentorAvailable, learner.State{}, 1, off, false},
		{"unknown condition", Condition("moon_phase"), learner.State{}, 0, on, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Evaluate(tt.state, tt.threshold, tt.sig); got != tt.want {
				t.Errorf("%s.Evaluate() = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestConditionKnown(t *testing.T) {
	for _, cr := range DefaultRules() {
		for _, r := range cr.Rules {
			if !r.Condition.Known() {
				t.Errorf("default rule condition %q is not registered", r.Condition)
			}
		}
	}
	if Condition("moon_phase").Known() {
		t.Error("unregistered condition reported as known")
	}
}

func TestReason(t *testing.T) {
	s := learner.State{
		EngagementScore: learner.Float(42.2),
		DropoutRisk:     learner.Float(0.734),
		Streak:          9,
		CompletionRate:  33.33,
		AvgSession:      2.46,
		LastActive:      "5 days ago",
	}

	tests := []struct {
		cond Condition
		want string
	}{
		{CondHoursInactive, "User inactive for 5 days ago"},
		{CondEngagementDrop, "Engagement score dropped to 42.2%"},
		{CondStreakRisk, "Learning streak at risk (9 days)"},
		{CondCompletionRateLow, "Low completion rate (33.3%)"},
		{CondTimeSpentHigh, "High session time (2.5h) may indicate difficulty"},
		{CondStreakHigh, "Strong learning streak (9 days) - reward opportunity"},
		{CondDropoutRiskHigh, "High dropout risk (73.4%)"},
		{Condition("moon_phase"), "Condition moon_phase triggered"},
	}

	for _, tt := range tests {
		if got := tt.cond.Reason(s); got != tt.want {
			t.Errorf("%s.Reason() = %q, want %q", tt.cond, got, tt.want)
		}
	}
}
