package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost/db", true},
		{"postgresql://localhost/db", true},
		{"/tmp/learnpulse.db", false},
		{"file::memory:?cache=shared", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestUserCreateAndLookup(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	u, err := repo.Create(ctx, UserData{Email: "ada@example.com", PasswordHash: "hash", Name: "Ada"})
	require.NoError(t, err)
	assert.Positive(t, u.ID)

	byEmail, err := repo.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Ada", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	_, err = repo.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Create(ctx, UserData{Email: "ada@example.com", PasswordHash: "x", Name: "Other"})
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)
}

func TestUserAllOrderedByID(t *testing.T) {
	s := openTestStore(t)
	repo := s.UserRepo()
	ctx := context.Background()

	for _, email := range []string{"c@x.io", "a@x.io", "b@x.io"} {
		_, err := repo.Create(ctx, UserData{Email: email, PasswordHash: "h", Name: email})
		require.NoError(t, err)
	}

	users, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@x.io", users[0].Email)
	assert.Less(t, users[0].ID, users[1].ID)
	assert.Less(t, users[1].ID, users[2].ID)
}

func TestStatsPutAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.UserRepo().Create(ctx, UserData{Email: "s@x.io", PasswordHash: "h", Name: "S"})
	require.NoError(t, err)

	stats := s.StatsRepo()
	_, err = stats.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	attendance := 0.45
	login := time.Now().UTC().Add(-30 * time.Hour).Truncate(time.Second)
	data := StatsData{
		UserID:               u.ID,
		ProfileType:          "at_risk",
		EngagementScore:      21.5,
		DailyTime:            1.25,
		Streak:               3,
		DropoutRisk:          0.88,
		CourseCompletionRate: 35,
		TotalStudyHours:      20,
		AssignmentsCompleted: 4,
		AssignmentsTotal:     12,
		AttendanceRate:       &attendance,
		EvaluationsAttempted: 6,
		EvaluationsPassed:    1,
		LastLoginAt:          &login,
	}
	require.NoError(t, stats.Put(ctx, data))

	got, err := stats.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "at_risk", got.ProfileType)
	assert.InDelta(t, 21.5, got.EngagementScore, 1e-9)
	assert.Equal(t, 3, got.Streak)
	require.NotNil(t, got.AttendanceRate)
	assert.InDelta(t, 0.45, *got.AttendanceRate, 1e-9)
	assert.Nil(t, got.FirstSemGrade)
	assert.Nil(t, got.SecondSemGrade)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, login.Equal(got.LastLoginAt.UTC()))

	// Put replaces the existing row.
	data.Streak = 9
	data.AttendanceRate = nil
	require.NoError(t, stats.Put(ctx, data))
	got, err = stats.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Streak)
	assert.Nil(t, got.AttendanceRate)
}

func TestStatsPutUnknownUser(t *testing.T) {
	s := openTestStore(t)
	err := s.StatsRepo().Put(context.Background(), StatsData{UserID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNudgeEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.NudgeEventRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	for i, id := range []string{"nudge_a", "nudge_b", "nudge_c"} {
		require.NoError(t, repo.AppendDelivery(ctx, DeliveryData{
			NudgeID:  id,
			UserID:   7,
			Type:     "reminder",
			Priority: "high",
			Message:  "Your learning streak is at risk! Log in to keep it going.",
			Channel:  "email",
			Urgent:   i == 0,
			SentAt:   now.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.AppendDelivery(ctx, DeliveryData{NudgeID: "nudge_other", UserID: 8, SentAt: now}))

	err := repo.AppendDelivery(ctx, DeliveryData{NudgeID: "nudge_a", UserID: 7, SentAt: now})
	assert.ErrorIs(t, err, ErrDuplicate)

	recent, err := repo.RecentDeliveries(ctx, 7, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "nudge_c", recent[0].NudgeID)
	assert.Equal(t, "nudge_b", recent[1].NudgeID)
	assert.Greater(t, recent[0].Sequence, recent[1].Sequence)

	all, err := repo.RecentDeliveries(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[2].Urgent)

	for _, resp := range []string{"engaged", "engaged", "dismissed"} {
		require.NoError(t, repo.AppendResponse(ctx, ResponseData{
			NudgeID:       "nudge_a",
			Response:      resp,
			ResponseHours: 2,
			RecordedAt:    now,
		}))
	}
	counts, err := repo.ResponseCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"engaged": 2, "dismissed": 1}, counts)
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prev := int64(0)
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestSequencePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	first, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	next, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestSequenceUniqueAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	a, err := Open(path)
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	const perStore = 20
	results := make(chan int64, 2*perStore)
	errs := make(chan error, 2*perStore)
	var wg sync.WaitGroup
	for _, s := range []*Store{a, b} {
		for range perStore {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := s.seq.Next(ctx)
				if err != nil {
					errs <- err
					return
				}
				results <- n
			}()
		}
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[int64]bool)
	for n := range results {
		assert.False(t, seen[n], "duplicate sequence %d", n)
		seen[n] = true
	}
	assert.Len(t, seen, 2*perStore)
	for n := int64(1); n <= 2*perStore; n++ {
		assert.True(t, seen[n], "missing sequence %d", n)
	}
}
