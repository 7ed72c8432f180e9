// Package simulator fabricates learner metrics for demos and for learners
// who have no recorded activity yet.
package simulator

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/learnpulse/internal/learner"
)

var (
	learningStyles = []string{"visual", "kinesthetic", "auditory"}
	preferredTimes = []string{"morning", "afternoon", "evening"}
)

// span is a closed numeric range.
type span struct{ lo, hi float64 }

func (s span) draw(rng *rand.Rand) float64 {
	return s.lo + rng.Float64()*(s.hi-s.lo)
}

// intSpan is a closed integer range.
type intSpan struct{ lo, hi int }

func (s intSpan) draw(rng *rand.Rand) int {
	return s.lo + rng.IntN(s.hi-s.lo+1)
}

// shape holds the generation ranges for one profile type.
type shape struct {
	baseEngagement span
	streakTendency span
	attendance     span
	age            intSpan
	courseLoad     intSpan

	totalTime       span
	completion      span // fraction
	hoursSinceLogin intSpan
	sessions        intSpan
	interaction     span
	firstSemGrade   span
	secondSemGrade  span
	evalsAttempted  intSpan
	evalsPassed     intSpan
}

var shapes = map[learner.ProfileType]shape{
	learner.ProfileHighEngagement: {
		baseEngagement:  span{75, 95},
		streakTendency:  span{0.8, 0.95},
		attendance:      span{0.85, 0.98},
		age:             intSpan{18, 25},
		courseLoad:      intSpan{4, 6},
		totalTime:       span{60, 120},
		completion:      span{0.80, 0.95},
		hoursSinceLogin: intSpan{1, 12},
		sessions:        intSpan{35, 80},
		interaction:     span{0.75, 0.95},
		firstSemGrade:   span{14, 20},
		secondSemGrade:  span{14, 20},
		evalsAttempted:  intSpan{8, 12},
		evalsPassed:     intSpan{7, 12},
	},
	learner.ProfileModerateEngagement: {
		baseEngagement:  span{55, 75},
		streakTendency:  span{0.6, 0.8},
		attendance:      span{0.70, 0.85},
		age:             intSpan{20, 28},
		courseLoad:      intSpan{3, 5},
		totalTime:       span{30, 80},
		completion:      span{0.60, 0.80},
		hoursSinceLogin: intSpan{6, 36},
		sessions:        intSpan{20, 45},
		interaction:     span{0.50, 0.75},
		firstSemGrade:   span{10, 16},
		secondSemGrade:  span{10, 16},
		evalsAttempted:  intSpan{5, 10},
		evalsPassed:     intSpan{4, 8},
	},
	learner.ProfileAtRisk: {
		baseEngagement:  span{25, 55},
		streakTendency:  span{0.3, 0.6},
		attendance:      span{0.45, 0.70},
		age:             intSpan{22, 35},
		courseLoad:      intSpan{2, 4},
		totalTime:       span{10, 40},
		completion:      span{0.20, 0.60},
		hoursSinceLogin: intSpan{24, 120},
		sessions:        intSpan{5, 25},
		interaction:     span{0.15, 0.50},
		firstSemGrade:   span{0, 12},
		secondSemGrade:  span{0, 10},
		evalsAttempted:  intSpan{2, 8},
		evalsPassed:     intSpan{0, 4},
	},
}

// Profile is the stable part of a simulated learner.
type Profile struct {
	Type            learner.ProfileType
	BaseEngagement  float64
	LearningStyle   string
	PreferredTime   string
	StreakTendency  float64
	AgeAtEnrollment int
	CourseLoad      int
	AttendanceRate  float64
}

// Activity is the part of a simulated learner that changes over time.
type Activity struct {
	TotalTime            float64 // hours
	CompletionRate       float64 // fraction, 0.0-1.0
	LastLogin            time.Time
	SessionCount         int
	InteractionScore     float64
	FirstSemGrade        float64
	SecondSemGrade       float64
	EvaluationsAttempted int
	EvaluationsPassed    int
}

// RandomProfileType picks one of the three profile types uniformly.
func RandomProfileType(rng *rand.Rand) learner.ProfileType {
	types := learner.AllProfileTypes()
	return types[rng.IntN(len(types))]
}

func newProfile(t learner.ProfileType, rng *rand.Rand) Profile {
	sh := shapes[t]
	return Profile{
		Type:            t,
		BaseEngagement:  sh.baseEngagement.draw(rng),
		LearningStyle:   learningStyles[rng.IntN(len(learningStyles))],
		PreferredTime:   preferredTimes[rng.IntN(len(preferredTimes))],
		StreakTendency:  sh.streakTendency.draw(rng),
		AgeAtEnrollment: sh.age.draw(rng),
		CourseLoad:      sh.courseLoad.draw(rng),
		AttendanceRate:  sh.attendance.draw(rng),
	}
}

func newActivity(t learner.ProfileType, now time.Time, rng *rand.Rand) Activity {
	sh := shapes[t]
	attempted := sh.evalsAttempted.draw(rng)
	return Activity{
		TotalTime:            sh.totalTime.draw(rng),
		CompletionRate:       sh.completion.draw(rng),
		LastLogin:            now.Add(-time.Duration(sh.hoursSinceLogin.draw(rng)) * time.Hour),
		SessionCount:         sh.sessions.draw(rng),
		InteractionScore:     sh.interaction.draw(rng),
		FirstSemGrade:        sh.firstSemGrade.draw(rng),
		SecondSemGrade:       sh.secondSemGrade.draw(rng),
		EvaluationsAttempted: attempted,
		EvaluationsPassed:    min(sh.evalsPassed.draw(rng), attempted),
	}
}
