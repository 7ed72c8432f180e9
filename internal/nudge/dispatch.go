package nudge

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/learnpulse/internal/logger"
	"github.com/abhisek/learnpulse/internal/store"
)

// Channel is the simulated delivery medium of a sent nudge.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push_notification"
	ChannelInApp Channel = "in_app"
)

// AllChannels returns every delivery channel.
func AllChannels() []Channel {
	return []Channel{ChannelEmail, ChannelPush, ChannelInApp}
}

// Response is how a learner reacted to a delivered nudge.
type Response string

const (
	ResponseEngaged    Response = "engaged"
	ResponseDismissed  Response = "dismissed"
	ResponseNoResponse Response = "no_response"
)

// Valid reports whether r is a known response.
func (r Response) Valid() bool {
	switch r {
	case ResponseEngaged, ResponseDismissed, ResponseNoResponse:
		return true
	}
	return false
}

// Delivery acknowledges a sent nudge.
type Delivery struct {
	Success bool
	Channel Channel
	SentAt  time.Time
	NudgeID string
}

// Effectiveness is the simulated outcome of a delivered nudge.
type Effectiveness struct {
	NudgeID          string
	ResponseTime     time.Duration
	Response         Response
	EngagementChange float64 // engagement score points
	RecordedAt       time.Time
}

// Dispatcher simulates nudge delivery. There is no real transport: Send
// picks a channel at random and always succeeds. When an event repo is
// set, deliveries and responses are recorded.
type Dispatcher struct {
	repo store.NudgeEventRepo
	log  *logger.Logger
	now  func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDispatcher creates a Dispatcher. repo may be nil.
func NewDispatcher(repo store.NudgeEventRepo, log *logger.Logger, seed uint64) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		repo: repo,
		log:  log,
		now:  time.Now,
		rng:  rand.New(rand.NewPCG(seed, ^seed)),
	}
}

// Send delivers n over a randomly chosen channel.
func (d *Dispatcher) Send(ctx context.Context, n Nudge) (*Delivery, error) {
	channels := AllChannels()
	d.mu.Lock()
	ch := channels[d.rng.IntN(len(channels))]
	d.mu.Unlock()

	del := &Delivery{
		Success: true,
		Channel: ch,
		SentAt:  d.now(),
		NudgeID: "nudge_" + uuid.NewString(),
	}

	if d.repo != nil {
		err := d.repo.AppendDelivery(ctx, store.DeliveryData{
			NudgeID:  del.NudgeID,
			UserID:   n.UserID,
			Type:     n.Type,
			Priority: string(n.Priority),
			Message:  n.Message,
			Channel:  string(del.Channel),
			Urgent:   n.IsUrgent,
			SentAt:   del.SentAt,
		})
		// Recording is best effort; the nudge was still sent.
		if err != nil {
			d.log.Warn("failed to record nudge delivery", "nudge_id", del.NudgeID, "error", err)
		}
	}
	return del, nil
}

// Track fabricates response metrics for a delivered nudge.
func (d *Dispatcher) Track(ctx context.Context, del *Delivery, response Response) (*Effectiveness, error) {
	if del == nil {
		return nil, fmt.Errorf("track: nil delivery")
	}
	if !response.Valid() {
		return nil, fmt.Errorf("track: unknown response %q", response)
	}

	d.mu.Lock()
	hours := 0.5 + d.rng.Float64()*23.5
	change := -5 + d.rng.Float64()*20
	d.mu.Unlock()

	eff := &Effectiveness{
		NudgeID:          del.NudgeID,
		ResponseTime:     time.Duration(hours * float64(time.Hour)),
		Response:         response,
		EngagementChange: change,
		RecordedAt:       d.now(),
	}

	if d.repo != nil {
		err := d.repo.AppendResponse(ctx, store.ResponseData{
			NudgeID:          eff.NudgeID,
			Response:         string(eff.Response),
			ResponseHours:    hours,
			EngagementChange: eff.EngagementChange,
			RecordedAt:       eff.RecordedAt,
		})
		if err != nil {
			d.log.Warn("failed to record nudge response", "nudge_id", eff.NudgeID, "error", err)
		}
	}
	return eff, nil
}
