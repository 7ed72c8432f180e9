package auth

import (
	"time"

	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/simulator"
	"github.com/abhisek/learnpulse/internal/store"
)

// Account defaults fill metrics that are not stored for an account. The
// attendance default sits below the urgent attendance threshold.
const (
	DefaultEngagement           = 75.0
	DefaultDailyTime            = 2.5
	DefaultStreak               = 5
	DefaultDropoutRisk          = 0.3
	DefaultCompletionPercent    = 70.0
	DefaultTotalTime            = 45.0
	DefaultAttendance           = 0.45
	DefaultSemGrade             = 14.0
	DefaultEvaluationsAttempted = 10
	DefaultEvaluationsPassed    = 8
	DefaultAvgSession           = 2.5
	DefaultLearningStyle        = "visual"
	DefaultPreferredTime        = "morning"
)

// StateFromStats builds a learner state from stored stats over the account
// defaults. stats may be nil. LastActive is derived from the last recorded
// login, "Today" when none was recorded.
func StateFromStats(userID int, name string, stats *store.StatsData, now time.Time) learner.State {
	s := learner.State{
		ID:                   userID,
		Name:                 name,
		ProfileType:          learner.ProfileModerateEngagement,
		EngagementScore:      learner.Float(DefaultEngagement),
		DropoutRisk:          learner.Float(DefaultDropoutRisk),
		Streak:               DefaultStreak,
		CompletionRate:       DefaultCompletionPercent,
		AvgSession:           DefaultAvgSession,
		LastActive:           learner.LastActiveToday,
		AttendanceRate:       learner.Float(DefaultAttendance),
		FirstSemGrade:        learner.Float(DefaultSemGrade),
		SecondSemGrade:       learner.Float(DefaultSemGrade),
		EvaluationsAttempted: DefaultEvaluationsAttempted,
		EvaluationsPassed:    DefaultEvaluationsPassed,
		TotalTime:            DefaultTotalTime,
		DailyTime:            DefaultDailyTime,
		LearningStyle:        DefaultLearningStyle,
		PreferredTime:        DefaultPreferredTime,
	}
	if stats == nil {
		return s
	}

	if stats.ProfileType != "" {
		s.ProfileType = learner.ProfileType(stats.ProfileType)
	}
	s.EngagementScore = learner.Float(stats.EngagementScore)
	s.DropoutRisk = learner.Float(stats.DropoutRisk)
	s.Streak = stats.Streak
	s.CompletionRate = stats.CourseCompletionRate
	s.TotalTime = stats.TotalStudyHours
	s.DailyTime = stats.DailyTime

	if stats.AttendanceRate != nil {
		s.AttendanceRate = learner.Float(*stats.AttendanceRate)
	}
	if stats.FirstSemGrade != nil {
		s.FirstSemGrade = learner.Float(*stats.FirstSemGrade)
	}
	if stats.SecondSemGrade != nil {
		s.SecondSemGrade = learner.Float(*stats.SecondSemGrade)
	}
	if stats.EvaluationsAttempted > 0 {
		s.EvaluationsAttempted = stats.EvaluationsAttempted
		s.EvaluationsPassed = stats.EvaluationsPassed
	}
	if stats.LastLoginAt != nil {
		s.LastActive = learner.LastActiveLabel(now.Sub(*stats.LastLoginAt).Hours())
	}
	return s
}

func statsFromSample(userID int, sample simulator.Sample, now time.Time) store.StatsData {
	return store.StatsData{
		UserID:               userID,
		ProfileType:          string(sample.ProfileType),
		EngagementScore:      sample.EngagementScore,
		DailyTime:            sample.DailyTime,
		Streak:               sample.Streak,
		DropoutRisk:          sample.DropoutRisk,
		CourseCompletionRate: sample.CourseCompletionRate,
		TotalStudyHours:      sample.TotalStudyHours,
		AssignmentsCompleted: sample.AssignmentsCompleted,
		AssignmentsTotal:     sample.AssignmentsTotal,
		LastLoginAt:          &now,
		UpdatedAt:            now,
	}
}
