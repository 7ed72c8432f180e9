// Package analytics computes cohort-level engagement metrics and the
// insights derived from them.
package analytics

import (
	"cmp"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/abhisek/learnpulse/internal/learner"
)

// ErrNoUsers is returned when metrics are requested for an empty cohort.
var ErrNoUsers = errors.New("no users to analyse")

// Risk bands for dropout risk.
const (
	LowRiskBelow    = 0.3
	MediumRiskBelow = 0.6
)

// RiskLevel is a dropout risk band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AllRiskLevels returns the risk bands from lowest to highest.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh}
}

// RiskLevelOf buckets a dropout risk value.
func RiskLevelOf(risk float64) RiskLevel {
	switch {
	case risk < LowRiskBelow:
		return RiskLow
	case risk < MediumRiskBelow:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Summary holds basic descriptive statistics.
type Summary struct {
	Mean   float64
	Median float64
	StdDev float64 // population
	Min    float64
	Max    float64
}

// Engagement is the cohort engagement overview.
type Engagement struct {
	Summary
	Trend float64 // simulated points per week
}

// RiskDistribution counts learners per risk band.
type RiskDistribution struct {
	Counts      map[RiskLevel]int
	Percentages map[RiskLevel]float64
}

// TimeBucket labels for total learning time.
const (
	Bucket0to10  = "0-10h"
	Bucket10to30 = "10-30h"
	Bucket30to60 = "30-60h"
	Bucket60Plus = "60h+"
)

// TimeBuckets returns the total-time bucket labels in ascending order.
func TimeBuckets() []string {
	return []string{Bucket0to10, Bucket10to30, Bucket30to60, Bucket60Plus}
}

// PreferenceCount is how many learners prefer a time of day.
type PreferenceCount struct {
	Time  string
	Count int
}

// TimeAnalytics summarises study time.
type TimeAnalytics struct {
	TotalTimeSum         float64
	TotalTimeMean        float64
	TotalTimeBuckets     map[string]int
	SessionMean          float64
	SessionMeanByProfile map[learner.ProfileType]float64
	DailyTimeMean        float64
	PeakTimes            []PreferenceCount // most popular first
}

// Interaction summarises interaction scores.
type Interaction struct {
	Mean                  float64
	Buckets               map[string]int // low <0.4, medium <0.7, high
	EngagementCorrelation float64
}

// Prediction is a stand-in for model accuracy metrics, scaled by how
// usable the cohort data is.
type Prediction struct {
	DataQuality float64
	Accuracy    float64
	Precision   float64
	Recall      float64
	F1          float64
}

// Metrics is the full cohort report.
type Metrics struct {
	Users       int
	Engagement  Engagement
	Risk        RiskDistribution
	Time        TimeAnalytics
	Interaction Interaction
	Prediction  Prediction
}

// baseAccuracy is the accuracy reported for perfect-quality data.
const baseAccuracy = 0.85

// Analyzer computes Metrics. The random parts (engagement trend and the
// prediction spread) draw from its generator. Safe for concurrent use.
type Analyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Analyzer drawing from rng.
func New(rng *rand.Rand) *Analyzer {
	return &Analyzer{rng: rng}
}

// Calculate computes the cohort metrics for states.
func (a *Analyzer) Calculate(states []learner.State) (*Metrics, error) {
	if len(states) == 0 {
		return nil, ErrNoUsers
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	engagement := collect(states, learner.State.Engagement)

	m := &Metrics{
		Users: len(states),
		Engagement: Engagement{
			Summary: Summarize(engagement),
			Trend:   a.trend(states),
		},
		Risk:        riskDistribution(states),
		Time:        timeAnalytics(states),
		Interaction: interaction(states, engagement),
	}
	m.Prediction = a.prediction(dataQuality(states, m.Engagement.StdDev))
	return m, nil
}

// Summarize computes descriptive statistics of xs. xs must not be empty.
func Summarize(xs []float64) Summary {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	mean := Mean(xs)
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(sq / float64(n)),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Correlation returns the Pearson correlation of xs and ys. It is 0 when
// fewer than two pairs are given or either series is constant.
func Correlation(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	mx, my := Mean(xs[:n]), Mean(ys[:n])
	var cov, vx, vy float64
	for i := range n {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

func collect(states []learner.State, f func(learner.State) float64) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i] = f(s)
	}
	return out
}

// trend simulates a per-learner engagement trend by profile type and
// averages it.
func (a *Analyzer) trend(states []learner.State) float64 {
	var sum float64
	for _, s := range states {
		lo, hi := -2.0, 0.5
		switch s.ProfileType {
		case learner.ProfileHighEngagement:
			lo, hi = 0.5, 2.0
		case learner.ProfileModerateEngagement:
			lo, hi = -0.5, 1.0
		}
		sum += lo + a.rng.Float64()*(hi-lo)
	}
	return sum / float64(len(states))
}

func riskDistribution(states []learner.State) RiskDistribution {
	d := RiskDistribution{
		Counts:      make(map[RiskLevel]int, 3),
		Percentages: make(map[RiskLevel]float64, 3),
	}
	for _, level := range AllRiskLevels() {
		d.Counts[level] = 0
	}
	for _, s := range states {
		d.Counts[RiskLevelOf(s.Risk())]++
	}
	for level, c := range d.Counts {
		d.Percentages[level] = float64(c) / float64(len(states)) * 100
	}
	return d
}

func timeBucket(hours float64) string {
	switch {
	case hours < 10:
		return Bucket0to10
	case hours < 30:
		return Bucket10to30
	case hours < 60:
		return Bucket30to60
	default:
		return Bucket60Plus
	}
}

func timeAnalytics(states []learner.State) TimeAnalytics {
	total := collect(states, func(s learner.State) float64 { return s.TotalTime })

	t := TimeAnalytics{
		TotalTimeMean:        Mean(total),
		TotalTimeBuckets:     make(map[string]int, 4),
		SessionMean:          Mean(collect(states, func(s learner.State) float64 { return s.AvgSession })),
		SessionMeanByProfile: make(map[learner.ProfileType]float64),
		DailyTimeMean:        Mean(collect(states, func(s learner.State) float64 { return s.DailyTime })),
	}
	for _, b := range TimeBuckets() {
		t.TotalTimeBuckets[b] = 0
	}

	byProfile := make(map[learner.ProfileType][]float64)
	prefs := make(map[string]int)
	for _, s := range states {
		t.TotalTimeSum += s.TotalTime
		t.TotalTimeBuckets[timeBucket(s.TotalTime)]++
		byProfile[s.ProfileType] = append(byProfile[s.ProfileType], s.AvgSession)
		if s.PreferredTime != "" {
			prefs[s.PreferredTime]++
		}
	}
	for p, xs := range byProfile {
		t.SessionMeanByProfile[p] = Mean(xs)
	}

	for pref, c := range prefs {
		t.PeakTimes = append(t.PeakTimes, PreferenceCount{Time: pref, Count: c})
	}
	slices.SortFunc(t.PeakTimes, func(a, b PreferenceCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Time, b.Time)
	})
	return t
}

func interaction(states []learner.State, engagement []float64) Interaction {
	scores := collect(states, func(s learner.State) float64 { return s.InteractionScore })
	in := Interaction{
		Mean:                  Mean(scores),
		Buckets:               map[string]int{"low": 0, "medium": 0, "high": 0},
		EngagementCorrelation: Correlation(scores, engagement),
	}
	for _, v := range scores {
		switch {
		case v < 0.4:
			in.Buckets["low"]++
		case v < 0.7:
			in.Buckets["medium"]++
		default:
			in.Buckets["high"]++
		}
	}
	return in
}

// dataQuality averages record completeness (more than five sessions),
// recency (active today or yesterday) and engagement spread (std-dev
// normalised by 30, capped at 1).
func dataQuality(states []learner.State, engagementStdDev float64) float64 {
	var complete, recent int
	for _, s := range states {
		if s.SessionCount > 5 {
			complete++
		}
		if s.LastActive == learner.LastActiveToday || s.LastActive == learner.LastActiveYesterday {
			recent++
		}
	}
	n := float64(len(states))
	spread := math.Min(1, engagementStdDev/30)
	return (float64(complete)/n + float64(recent)/n + spread) / 3
}

func (a *Analyzer) prediction(quality float64) Prediction {
	acc := baseAccuracy * quality
	between := func(lo, hi float64) float64 { return lo + a.rng.Float64()*(hi-lo) }
	return Prediction{
		DataQuality: quality,
		Accuracy:    acc,
		Precision:   acc * between(0.95, 1.05),
		Recall:      acc * between(0.9, 1.0),
		F1:          acc * between(0.92, 1.02),
	}
}
