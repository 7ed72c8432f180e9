package simulator

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/learnpulse/internal/learner"
)

// TickActivityChance is the probability that Tick records new activity
// for a learner.
const TickActivityChance = 0.3

// maxDropoutRisk caps the summed dropout risk factors.
const maxDropoutRisk = 0.95

type simLearner struct {
	profile  Profile
	activity Activity
}

// Simulator generates learner states from per-learner profiles. Learners
// are enrolled on first use. Safe for concurrent use.
type Simulator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	now      func() time.Time
	learners map[int]*simLearner
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// New creates a Simulator drawing from rng.
func New(rng *rand.Rand, opts ...Option) *Simulator {
	s := &Simulator{
		rng:      rng,
		now:      time.Now,
		learners: make(map[int]*simLearner),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enroll creates a learner of the given profile type, replacing any
// existing learner with the same id.
func (s *Simulator) Enroll(id int, t learner.ProfileType) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enroll(id, t).profile
}

func (s *Simulator) enroll(id int, t learner.ProfileType) *simLearner {
	l := &simLearner{
		profile:  newProfile(t, s.rng),
		activity: newActivity(t, s.now(), s.rng),
	}
	s.learners[id] = l
	return l
}

// Profile returns the stable profile of an enrolled learner.
func (s *Simulator) Profile(id int) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.learners[id]
	if !ok {
		return Profile{}, false
	}
	return l.profile, true
}

// Activity returns the current activity of an enrolled learner.
func (s *Simulator) Activity(id int) (Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.learners[id]
	if !ok {
		return Activity{}, false
	}
	return l.activity, true
}

// State computes a fresh snapshot for learner id. A learner that is not
// enrolled yet gets a random profile type. Engagement, streak and daily
// time carry random variation, so consecutive calls differ.
func (s *Simulator) State(id int, name string) learner.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.learners[id]
	if !ok {
		l = s.enroll(id, RandomProfileType(s.rng))
	}

	now := s.now()
	p, a := l.profile, l.activity
	hours := now.Sub(a.LastLogin).Hours()

	engagement := s.engagement(p, a, now, hours)
	risk := dropoutRisk(engagement, hours, a.CompletionRate, a.InteractionScore)
	streak := max(1, int(span{1, 30}.draw(s.rng)*p.StreakTendency))

	return learner.State{
		ID:          id,
		Name:        name,
		ProfileType: p.Type,

		EngagementScore: learner.Float(engagement),
		DropoutRisk:     learner.Float(risk),
		Streak:          streak,
		CompletionRate:  learner.PercentFromFraction(a.CompletionRate),
		AvgSession:      a.TotalTime / float64(max(1, a.SessionCount)),
		LastActive:      learner.LastActiveLabel(hours),

		AttendanceRate:       learner.Float(p.AttendanceRate),
		FirstSemGrade:        learner.Float(a.FirstSemGrade),
		SecondSemGrade:       learner.Float(a.SecondSemGrade),
		EvaluationsAttempted: a.EvaluationsAttempted,
		EvaluationsPassed:    a.EvaluationsPassed,

		TotalTime:        a.TotalTime,
		DailyTime:        span{0.5, 4.0}.draw(s.rng),
		SessionCount:     a.SessionCount,
		InteractionScore: a.InteractionScore,
		LearningStyle:    p.LearningStyle,
		PreferredTime:    p.PreferredTime,
	}
}

// engagement combines the base score with time-of-day, recency, completion
// and daily variation factors, clamped to 0-100.
func (s *Simulator) engagement(p Profile, a Activity, now time.Time, hoursSinceLogin float64) float64 {
	timeFactor := 1 + 0.1*math.Sin(float64(now.Hour())*math.Pi/12)
	recency := math.Max(0.5, 1-hoursSinceLogin/72)
	completion := 0.8 + 0.4*a.CompletionRate
	variation := span{0.9, 1.1}.draw(s.rng)

	score := p.BaseEngagement * timeFactor * recency * completion * variation
	return math.Max(0, math.Min(100, score))
}

// dropoutRisk sums four banded risk factors and caps the result.
func dropoutRisk(engagement, hoursSinceLogin, completion, interaction float64) float64 {
	var risk float64

	switch {
	case engagement < 40:
		risk += 0.4
	case engagement < 60:
		risk += 0.2
	default:
		risk += 0.05
	}

	switch {
	case hoursSinceLogin > 48:
		risk += 0.3
	case hoursSinceLogin > 24:
		risk += 0.15
	default:
		risk += 0.05
	}

	switch {
	case completion < 0.3:
		risk += 0.35
	case completion < 0.6:
		risk += 0.15
	default:
		risk += 0.05
	}

	switch {
	case interaction < 0.3:
		risk += 0.2
	case interaction < 0.6:
		risk += 0.1
	default:
		risk += 0.02
	}

	return math.Min(maxDropoutRisk, risk)
}

// Tick simulates real-time activity: each enrolled learner has a
// TickActivityChance of a fresh login with extra sessions and study time.
// Learners are visited in id order.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.learners))
	for id := range s.learners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	now := s.now()
	for _, id := range ids {
		if s.rng.Float64() >= TickActivityChance {
			continue
		}
		a := &s.learners[id].activity
		a.LastLogin = now.Add(-time.Duration(intSpan{1, 60}.draw(s.rng)) * time.Minute)
		a.SessionCount += s.rng.IntN(3)
		a.TotalTime += span{0, 2}.draw(s.rng)
		a.InteractionScore = math.Max(0, math.Min(1, a.InteractionScore+span{-0.1, 0.2}.draw(s.rng)))
	}
}

// DayPoint is one day of simulated history.
type DayPoint struct {
	Date                time.Time
	EngagementScore     float64
	TimeSpent           float64 // hours
	Interactions        int
	CompletedActivities int
}

// History fabricates a daily series ending today around the learner's
// current engagement, with a slight upward trend and noise.
func (s *Simulator) History(st learner.State, days int) []DayPoint {
	if days <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	base := st.Engagement()
	out := make([]DayPoint, days)
	for i := range out {
		trend := -0.5 + float64(i)/float64(days)
		noise := span{-5, 5}.draw(s.rng)
		out[i] = DayPoint{
			Date:                now.AddDate(0, 0, -(days - i - 1)),
			EngagementScore:     math.Max(0, math.Min(100, base+trend+noise)),
			TimeSpent:           span{0.5, 4.0}.draw(s.rng),
			Interactions:        intSpan{5, 50}.draw(s.rng),
			CompletedActivities: intSpan{0, 5}.draw(s.rng),
		}
	}
	return out
}
