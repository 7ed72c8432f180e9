package simulator

import (
	"math"

	"github.com/abhisek/learnpulse/internal/learner"
)

// AssignmentsTotal is the number of assignments in a sample course.
const AssignmentsTotal = 12

// Sample is the starter stats record created for a new account.
type Sample struct {
	ProfileType          learner.ProfileType
	EngagementScore      float64
	DailyTime            float64
	Streak               int
	DropoutRisk          float64
	CourseCompletionRate float64 // percent
	TotalStudyHours      float64
	AssignmentsCompleted int
	AssignmentsTotal     int
}

type sampleShape struct {
	engagement  span
	dailyTime   span
	streak      intSpan
	dropoutRisk span
	completion  span
	studyHours  span
	assignments intSpan
}

// Moderate and at-risk samples are skewed low so new accounts have
// something to be nudged about.
var sampleShapes = map[learner.ProfileType]sampleShape{
	learner.ProfileHighEngagement: {
		engagement:  span{75, 95},
		dailyTime:   span{3.0, 5.5},
		streak:      intSpan{10, 25},
		dropoutRisk: span{0.1, 0.3},
		completion:  span{80, 95},
		studyHours:  span{60, 120},
		assignments: intSpan{9, 12},
	},
	learner.ProfileModerateEngagement: {
		engagement:  span{25, 35},
		dailyTime:   span{2.0, 3.5},
		streak:      intSpan{5, 15},
		dropoutRisk: span{0.7, 0.9},
		completion:  span{60, 80},
		studyHours:  span{35, 65},
		assignments: intSpan{6, 9},
	},
	learner.ProfileAtRisk: {
		engagement:  span{15, 25},
		dailyTime:   span{0.5, 2.5},
		streak:      intSpan{1, 8},
		dropoutRisk: span{0.8, 0.95},
		completion:  span{20, 60},
		studyHours:  span{10, 40},
		assignments: intSpan{2, 6},
	},
}

// SampleStats draws a starter stats record. An empty profile type picks
// one at random.
func (s *Simulator) SampleStats(t learner.ProfileType) Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == "" {
		t = RandomProfileType(s.rng)
	}
	sh, ok := sampleShapes[t]
	if !ok {
		t = learner.ProfileModerateEngagement
		sh = sampleShapes[t]
	}

	return Sample{
		ProfileType:          t,
		EngagementScore:      round(sh.engagement.draw(s.rng), 2),
		DailyTime:            round(sh.dailyTime.draw(s.rng), 2),
		Streak:               sh.streak.draw(s.rng),
		DropoutRisk:          round(sh.dropoutRisk.draw(s.rng), 3),
		CourseCompletionRate: round(sh.completion.draw(s.rng), 2),
		TotalStudyHours:      round(sh.studyHours.draw(s.rng), 2),
		AssignmentsCompleted: sh.assignments.draw(s.rng),
		AssignmentsTotal:     AssignmentsTotal,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
