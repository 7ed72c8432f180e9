package store

import (
	"context"
	"time"
)

// UserData is the input for creating a user.
type UserData struct {
	Email        string
	PasswordHash string
	Name         string
}

// UserRecord is a stored user account.
type UserRecord struct {
	ID           int
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// UserRepo manages user accounts.
type UserRepo interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, data UserData) (*UserRecord, error)

	// ByEmail returns the user with the given email, or ErrNotFound.
	ByEmail(ctx context.Context, email string) (*UserRecord, error)

	// ByID returns the user with the given ID, or ErrNotFound.
	ByID(ctx context.Context, id int) (*UserRecord, error)

	// All returns every user ordered by ID.
	All(ctx context.Context) ([]UserRecord, error)
}

// StatsData captures the stored engagement metrics of one user.
// CourseCompletionRate is a percentage (0-100).
type StatsData struct {
	UserID               int
	ProfileType          string
	EngagementScore      float64
	DailyTime            float64
	Streak               int
	DropoutRisk          float64
	CourseCompletionRate float64
	TotalStudyHours      float64
	AssignmentsCompleted int
	AssignmentsTotal     int
	AttendanceRate       *float64
	FirstSemGrade        *float64
	SecondSemGrade       *float64
	EvaluationsAttempted int
	EvaluationsPassed    int
	LastLoginAt          *time.Time
	UpdatedAt            time.Time
}

// StatsRepo manages per-user engagement metrics.
type StatsRepo interface {
	// Put inserts or replaces the stats of data.UserID.
	Put(ctx context.Context, data StatsData) error

	// Get returns the stats for a user, or ErrNotFound.
	Get(ctx context.Context, userID int) (*StatsData, error)
}

// DeliveryData captures a sent nudge.
type DeliveryData struct {
	NudgeID  string
	UserID   int
	Type     string
	Priority string
	Message  string
	Channel  string
	Urgent   bool
	SentAt   time.Time
}

// DeliveryRecord is a stored delivery with its global sequence number.
type DeliveryRecord struct {
	DeliveryData
	Sequence int64
}

// ResponseData captures a learner's reaction to a delivered nudge.
type ResponseData struct {
	NudgeID          string
	Response         string
	ResponseHours    float64
	EngagementChange float64
	RecordedAt       time.Time
}

// NudgeEventRepo provides append and query access to nudge events.
type NudgeEventRepo interface {
	// AppendDelivery records a sent nudge.
	AppendDelivery(ctx context.Context, data DeliveryData) error

	// AppendResponse records a learner response to a sent nudge.
	AppendResponse(ctx context.Context, data ResponseData) error

	// RecentDeliveries returns a user's deliveries, newest first.
	// limit <= 0 means unlimited.
	RecentDeliveries(ctx context.Context, userID, limit int) ([]DeliveryRecord, error)

	// ResponseCounts returns the number of recorded responses per kind.
	ResponseCounts(ctx context.Context) (map[string]int, error)
}
