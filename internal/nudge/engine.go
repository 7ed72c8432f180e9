package nudge

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/logger"
)

// DefaultActiveLimit is how many nudges per learner ActiveNudges keeps.
const DefaultActiveLimit = 2

// Engine evaluates the nudge catalogue against learner states. An Engine
// is safe for concurrent use; its catalogue is never mutated.
type Engine struct {
	catalog     *Catalog
	signals     SignalSource
	now         func() time.Time
	log         *logger.Logger
	activeLimit int
	parallelism int

	seed uint64
	mu   sync.Mutex // guards rng
	rng  *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the default catalogue.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithSignals sets the source for signals the learner state does not track.
func WithSignals(s SignalSource) Option {
	return func(e *Engine) { e.signals = s }
}

// WithSeed seeds template and placeholder selection.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithClock sets the function used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithActiveLimit sets how many nudges per learner ActiveNudges keeps.
func WithActiveLimit(n int) Option {
	return func(e *Engine) { e.activeLimit = n }
}

// WithParallelism bounds how many learners are evaluated concurrently by
// the aggregate calls. Values below 1 mean sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// NewEngine builds an Engine. The default catalogue is loaded and
// validated unless WithCatalog is given; a broken catalogue is returned
// as a *CatalogError.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		now:         time.Now,
		log:         logger.Nop(),
		activeLimit: DefaultActiveLimit,
		parallelism: 1,
		seed:        rand.Uint64(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		e.catalog = c
	}
	if e.signals == nil {
		e.signals = NewRandomSignals(e.seed + 1)
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	if e.activeLimit < 0 {
		return nil, fmt.Errorf("active limit must not be negative: %d", e.activeLimit)
	}
	e.rng = rand.New(rand.NewPCG(e.seed, e.seed>>1|1))
	return e, nil
}

// Catalog returns the engine's catalogue.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Triggers evaluates the rules of one category in table order and returns
// those whose condition holds.
func (e *Engine) Triggers(s learner.State, cat Category) []Trigger {
	return e.triggers(s, cat, e.signals)
}

func (e *Engine) triggers(s learner.State, cat Category, sig SignalSource) []Trigger {
	var out []Trigger
	for _, r := range e.catalog.Rules(cat) {
		if r.Condition.Evaluate(s, r.Threshold, sig) {
			out = append(out, Trigger{
				Condition: r.Condition,
				Priority:  r.Priority,
				Reason:    r.Condition.Reason(s),
			})
		}
	}
	return out
}

// Evaluate returns every nudge the catalogue fires for s, ranked by
// priority. Nudges of equal priority keep catalogue order.
func (e *Engine) Evaluate(s learner.State) ([]Nudge, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return e.evaluate(s, e.streams()), nil
}

// ActiveNudges keeps each learner's top-ranked nudges, concatenates them
// in input order and re-ranks the combined list.
func (e *Engine) ActiveNudges(states []learner.State) ([]Nudge, error) {
	perUser, err := e.evaluateAll(states)
	if err != nil {
		return nil, err
	}

	var out []Nudge
	for _, list := range perUser {
		out = append(out, list[:min(e.activeLimit, len(list))]...)
	}
	SortByPriority(out)
	return out, nil
}

// AllNudges concatenates every learner's ranked nudges in input order
// without re-ranking across learners.
func (e *Engine) AllNudges(states []learner.State) ([]Nudge, error) {
	perUser, err := e.evaluateAll(states)
	if err != nil {
		return nil, err
	}

	var out []Nudge
	for _, list := range perUser {
		out = append(out, list...)
	}
	return out, nil
}

// SortByPriority stably orders nudges from high to low priority.
func SortByPriority(nudges []Nudge) {
	slices.SortStableFunc(nudges, func(a, b Nudge) int {
		return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
	})
}

func (e *Engine) evaluateAll(states []learner.State) ([][]Nudge, error) {
	// Random streams are drawn in input order so results do not depend
	// on goroutine scheduling.
	streams := make([]stream, len(states))
	for i, s := range states {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("user %d: %w", s.ID, err)
		}
		streams[i] = e.streams()
	}

	results := make([][]Nudge, len(states))
	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, s := range states {
		g.Go(func() error {
			results[i] = e.evaluate(s, streams[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) evaluate(s learner.State, st stream) []Nudge {
	var out []Nudge
	for _, cat := range e.catalog.Categories() {
		for _, t := range e.triggers(s, cat, st.signals) {
			out = append(out, e.synthesize(s, cat, t, st.rng))
		}
	}
	SortByPriority(out)

	e.log.Debug("evaluated learner", "user_id", s.ID, "nudges", len(out))
	return out
}

func (e *Engine) synthesize(s learner.State, cat Category, t Trigger, rng *rand.Rand) Nudge {
	templates := e.catalog.Templates(cat)
	tmpl := templates[rng.IntN(len(templates))]
	return Nudge{
		User:          s.Name,
		UserID:        s.ID,
		Type:          string(cat),
		Message:       e.catalog.Render(tmpl, rng.IntN),
		Priority:      t.Priority,
		TriggerReason: t.Reason,
		CreatedAt:     e.now(),
		Status:        StatusPending,
	}
}

// stream is the randomness one learner's evaluation draws from.
type stream struct {
	rng     *rand.Rand
	signals SignalSource
}

// streams draws the next learner's template generator and, when the
// signal source can fork, its own signal stream.
func (e *Engine) streams() stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := stream{
		rng:     rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64())),
		signals: e.signals,
	}
	if f, ok := e.signals.(SignalForker); ok {
		st.signals = f.Fork(e.rng.Uint64())
	}
	return st
}
