package nudge

import (
	"math/rand/v2"
	"sync"

	"github.com/abhisek/learnpulse/internal/learner"
)

// SignalSource answers questions the learner state does not track:
// assessment recency, peer activity and mentor availability.
type SignalSource interface {
	// AssessmentOverdue reports whether the learner has gone without an
	// assessment for at least the given number of hours.
	AssessmentOverdue(s learner.State, hours float64) bool
	PeerActive(s learner.State) bool
	MentorAvailable(s learner.State) bool
}

// SignalForker is a SignalSource that can split off an independent
// stream. The engine forks one stream per learner, in input order, so a
// fixed seed gives the same answers at any parallelism.
type SignalForker interface {
	SignalSource
	Fork(seed uint64) SignalSource
}

// Default probabilities for RandomSignals.
const (
	DefaultAssessmentOverdueChance = 0.3
	DefaultPeerActiveChance        = 0.4
	DefaultMentorAvailableChance   = 0.6
)

// RandomSignals simulates the untracked signals with fixed probabilities.
// Safe for concurrent use.
type RandomSignals struct {
	mu  sync.Mutex
	rng *rand.Rand

	AssessmentChance float64
	PeerChance       float64
	MentorChance     float64
}

// NewRandomSignals creates a RandomSignals seeded with seed.
func NewRandomSignals(seed uint64) *RandomSignals {
	return &RandomSignals{
		rng:              rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		AssessmentChance: DefaultAssessmentOverdueChance,
		PeerChance:       DefaultPeerActiveChance,
		MentorChance:     DefaultMentorAvailableChance,
	}
}

// Fork returns a new RandomSignals with the same chances, seeded with seed.
func (r *RandomSignals) Fork(seed uint64) SignalSource {
	child := NewRandomSignals(seed)
	child.AssessmentChance = r.AssessmentChance
	child.PeerChance = r.PeerChance
	child.MentorChance = r.MentorChance
	return child
}

func (r *RandomSignals) roll(p float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < p
}

func (r *RandomSignals) AssessmentOverdue(_ learner.State, _ float64) bool {
	return r.roll(r.AssessmentChance)
}

func (r *RandomSignals) PeerActive(_ learner.State) bool {
	return r.roll(r.PeerChance)
}

func (r *RandomSignals) MentorAvailable(_ learner.State) bool {
	return r.roll(r.MentorChance)
}

// FixedSignals returns the same answers for every learner.
type FixedSignals struct {
	Assessment bool
	Peer       bool
	Mentor     bool
}

func (f FixedSignals) AssessmentOverdue(_ learner.State, _ float64) bool { return f.Assessment }
func (f FixedSignals) PeerActive(_ learner.State) bool                   { return f.Peer }
func (f FixedSignals) MentorAvailable(_ learner.State) bool              { return f.Mentor }
