// Package auth manages learner accounts: sign-up with starter stats,
// password login and the learner states derived from stored stats.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/learnpulse/internal/learner"
	"github.com/abhisek/learnpulse/internal/logger"
	"github.com/abhisek/learnpulse/internal/simulator"
	"github.com/abhisek/learnpulse/internal/store"
)

var (
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("user not found")
)

// NewUser contains the information needed to register an account.
type NewUser struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"omitempty,max=100"`
}

// User is a registered account without credentials.
type User struct {
	ID        int
	Email     string
	Name      string
	CreatedAt time.Time
}

// Session is the result of a successful login.
type Session struct {
	User       User
	State      learner.State
	LoggedInAt time.Time
}

// Service registers and authenticates learners.
type Service struct {
	users store.UserRepo
	stats store.StatsRepo
	sim   *simulator.Simulator
	log   *logger.Logger
	now   func() time.Time
	cost  int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// NewService creates a Service. sim supplies starter stats for new accounts.
func NewService(users store.UserRepo, stats store.StatsRepo, sim *simulator.Simulator, opts ...Option) *Service {
	s := &Service{
		users: users,
		stats: stats,
		sim:   sim,
		log:   logger.Nop(),
		now:   time.Now,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and its starter stats. The name defaults to
// the title-cased local part of the email.
func (s *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Email = normalizeEmail(nu.Email)
	nu.Name = strings.TrimSpace(nu.Name)
	if err := validateStruct(nu); err != nil {
		return User{}, err
	}
	if nu.Name == "" {
		nu.Name = defaultName(nu.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	rec, err := s.users.Create(ctx, store.UserData{
		Email:        nu.Email,
		PasswordHash: string(hash),
		Name:         nu.Name,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("register: %w", err)
	}

	sample := s.sim.SampleStats("")
	now := s.now().UTC()
	if err := s.stats.Put(ctx, statsFromSample(rec.ID, sample, now)); err != nil {
		return User{}, fmt.Errorf("create starter stats: %w", err)
	}

	s.log.Info("user registered", "user_id", rec.ID, "profile", sample.ProfileType)
	return toUser(rec), nil
}

// Authenticate checks credentials and returns a session whose state is
// built from the stored stats. The login time is recorded afterwards, so
// the session reflects inactivity up to this login.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	rec, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	stats, err := s.loadStats(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	state := StateFromStats(rec.ID, rec.Name, stats, now)

	if stats != nil {
		stats.LastLoginAt = &now
		stats.UpdatedAt = now
		if err := s.stats.Put(ctx, *stats); err != nil {
			s.log.Warn("failed to record login", "user_id", rec.ID, "error", err)
		}
	}

	return &Session{User: toUser(rec), State: state, LoggedInAt: now}, nil
}

// GetByEmail returns the account registered under email.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	rec, err := s.users.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return toUser(rec), nil
}

// State returns the learner state of one account.
func (s *Service) State(ctx context.Context, u User) (learner.State, error) {
	stats, err := s.loadStats(ctx, u.ID)
	if err != nil {
		return learner.State{}, err
	}
	return StateFromStats(u.ID, u.Name, stats, s.now().UTC()), nil
}

// States returns the learner state of every account, ordered by user id.
func (s *Service) States(ctx context.Context) ([]learner.State, error) {
	recs, err := s.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	now := s.now().UTC()
	states := make([]learner.State, 0, len(recs))
	for _, rec := range recs {
		stats, err := s.loadStats(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		states = append(states, StateFromStats(rec.ID, rec.Name, stats, now))
	}
	return states, nil
}

// loadStats returns nil stats, not an error, for accounts without a row.
func (s *Service) loadStats(ctx context.Context, userID int) (*store.StatsData, error) {
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func toUser(rec *store.UserRecord) User {
	return User{ID: rec.ID, Email: rec.Email, Name: rec.Name, CreatedAt: rec.CreatedAt}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// defaultName title-cases the local part of an email: every letter that
// follows a non-letter is upper-cased, the rest lower-cased.
func defaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	prevLetter := false
	for _, r := range local {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
