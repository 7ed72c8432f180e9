package simulator

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnpulse/internal/learner"
)

var noon = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestSimulator(seed uint64) *Simulator {
	return New(rand.New(rand.NewPCG(seed, seed)), WithClock(func() time.Time { return noon }))
}

func TestStateIsValidForEveryProfile(t *testing.T) {
	for _, pt := range learner.AllProfileTypes() {
		t.Run(string(pt), func(t *testing.T) {
			sim := newTestSimulator(11)
			for id := 1; id <= 200; id++ {
				sim.Enroll(id, pt)
				s := sim.State(id, "Learner")

				require.NoError(t, s.Validate())
				assert.Equal(t, pt, s.ProfileType)
				assert.LessOrEqual(t, s.Risk(), 0.95)
				assert.GreaterOrEqual(t, s.Streak, 1)
				assert.LessOrEqual(t, s.EvaluationsPassed, s.EvaluationsAttempted)

				days, ok := learner.ParseLastActive(s.LastActive)
				assert.True(t, ok, "label %q", s.LastActive)
				assert.LessOrEqual(t, days, 5)
			}
		})
	}
}

func TestStateCompletionIsPercent(t *testing.T) {
	sim := newTestSimulator(3)
	sim.Enroll(1, learner.ProfileHighEngagement)

	a, ok := sim.Activity(1)
	require.True(t, ok)

	s := sim.State(1, "Ada")
	assert.InDelta(t, a.CompletionRate*100, s.CompletionRate, 1e-9)
	assert.GreaterOrEqual(t, s.CompletionRate, 80.0)
	assert.LessOrEqual(t, s.CompletionRate, 95.0)
	assert.Equal(t, "Today", s.LastActive) // high engagement logs in within 12h
}

func TestStateEnrollsUnknownLearner(t *testing.T) {
	sim := newTestSimulator(5)

	_, ok := sim.Profile(42)
	require.False(t, ok)

	s := sim.State(42, "New")
	p, ok := sim.Profile(42)
	require.True(t, ok)
	assert.Equal(t, p.Type, s.ProfileType)
	assert.Equal(t, p.LearningStyle, s.LearningStyle)
	assert.Equal(t, "New", s.Name)
}

func TestSameSeedSameStates(t *testing.T) {
	a := newTestSimulator(99)
	b := newTestSimulator(99)
	for id := 1; id <= 10; id++ {
		assert.Equal(t, a.State(id, "x"), b.State(id, "x"))
	}
}

func TestDropoutRisk(t *testing.T) {
	tests := []struct {
		name                                 string
		engagement, hours, completion, inter float64
		want                                 float64
	}{
		{"all healthy", 80, 2, 0.9, 0.9, 0.05 + 0.05 + 0.05 + 0.02},
		{"moderate bands", 50, 30, 0.5, 0.5, 0.2 + 0.15 + 0.15 + 0.1},
		{"capped", 10, 100, 0.1, 0.1, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dropoutRisk(tt.engagement, tt.hours, tt.completion, tt.inter)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTickKeepsInvariants(t *testing.T) {
	sim := newTestSimulator(8)
	for id := 1; id <= 20; id++ {
		sim.Enroll(id, learner.ProfileAtRisk)
	}
	before := map[int]Activity{}
	for id := 1; id <= 20; id++ {
		before[id], _ = sim.Activity(id)
	}

	for i := 0; i < 30; i++ {
		sim.Tick()
	}

	changed := 0
	for id := 1; id <= 20; id++ {
		after, _ := sim.Activity(id)
		assert.GreaterOrEqual(t, after.SessionCount, before[id].SessionCount)
		assert.GreaterOrEqual(t, after.TotalTime, before[id].TotalTime)
		assert.GreaterOrEqual(t, after.InteractionScore, 0.0)
		assert.LessOrEqual(t, after.InteractionScore, 1.0)
		if !after.LastLogin.Equal(before[id].LastLogin) {
			changed++
			assert.LessOrEqual(t, noon.Sub(after.LastLogin), time.Hour)
		}
	}
	assert.Positive(t, changed)
}

func TestHistory(t *testing.T) {
	sim := newTestSimulator(1)
	s := learner.State{EngagementScore: learner.Float(98)}

	h := sim.History(s, 30)
	require.Len(t, h, 30)
	assert.True(t, h[29].Date.Equal(noon))
	assert.True(t, h[0].Date.Equal(noon.AddDate(0, 0, -29)))
	for _, d := range h {
		assert.GreaterOrEqual(t, d.EngagementScore, 0.0)
		assert.LessOrEqual(t, d.EngagementScore, 100.0)
		assert.GreaterOrEqual(t, d.Interactions, 5)
		assert.LessOrEqual(t, d.CompletedActivities, 5)
	}

	assert.Nil(t, sim.History(s, 0))
}

func TestSampleStats(t *testing.T) {
	sim := newTestSimulator(4)

	tests := []struct {
		profile   learner.ProfileType
		minEngage float64
		maxEngage float64
		minRisk   float64
		maxRisk   float64
	}{
		{learner.ProfileHighEngagement, 75, 95, 0.1, 0.3},
		{learner.ProfileModerateEngagement, 25, 35, 0.7, 0.9},
		{learner.ProfileAtRisk, 15, 25, 0.8, 0.95},
	}
	for _, tt := range tests {
		for i := 0; i < 50; i++ {
			got := sim.SampleStats(tt.profile)
			assert.Equal(t, tt.profile, got.ProfileType)
			assert.GreaterOrEqual(t, got.EngagementScore, tt.minEngage)
			assert.LessOrEqual(t, got.EngagementScore, tt.maxEngage)
			assert.GreaterOrEqual(t, got.DropoutRisk, tt.minRisk)
			assert.LessOrEqual(t, got.DropoutRisk, tt.maxRisk)
			assert.Equal(t, AssignmentsTotal, got.AssignmentsTotal)
			assert.LessOrEqual(t, got.AssignmentsCompleted, got.AssignmentsTotal)
		}
	}

	random := sim.SampleStats("")
	assert.Contains(t, learner.AllProfileTypes(), random.ProfileType)
}
