package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

// statsRepo implements StatsRepo with the ent SQL builder.
type statsRepo struct {
	db      *sql.DB
	dialect string
}

var statsColumns = []string{
	"user_id", "profile_type", "engagement_score", "daily_time", "streak",
	"dropout_risk", "course_completion_rate", "total_study_hours",
	"assignments_completed", "assignments_total", "attendance_rate",
	"first_sem_grade", "second_sem_grade", "evaluations_attempted",
	"evaluations_passed", "last_login_at", "updated_at",
}

func (r *statsRepo) Put(ctx context.Context, data StatsData) error {
	if data.UpdatedAt.IsZero() {
		data.UpdatedAt = time.Now().UTC()
	}

	ins := entsql.Dialect(r.dialect).
		Insert(UserStatsTable.Name).
		Columns(statsColumns...).
		Values(
			data.UserID, data.ProfileType, data.EngagementScore, data.DailyTime, data.Streak,
			data.DropoutRisk, data.CourseCompletionRate, data.TotalStudyHours,
			data.AssignmentsCompleted, data.AssignmentsTotal, nullFloat(data.AttendanceRate),
			nullFloat(data.FirstSemGrade), nullFloat(data.SecondSemGrade), data.EvaluationsAttempted,
			data.EvaluationsPassed, nullTime(data.LastLoginAt), data.UpdatedAt,
		).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		)

	query, args := ins.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsForeignKeyConstraintError(err) {
			return fmt.Errorf("put stats for user %d: %w", data.UserID, ErrNotFound)
		}
		return fmt.Errorf("put stats: %w", err)
	}
	return nil
}

func (r *statsRepo) Get(ctx context.Context, userID int) (*StatsData, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select(statsColumns...).From(b.Table(UserStatsTable.Name))
	sel.Where(entsql.EQ(sel.C("user_id"), userID))

	query, args := sel.Limit(1).Query()

	var (
		d                         StatsData
		attendance, first, second sql.NullFloat64
		lastLogin                 sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&d.UserID, &d.ProfileType, &d.EngagementScore, &d.DailyTime, &d.Streak,
		&d.DropoutRisk, &d.CourseCompletionRate, &d.TotalStudyHours,
		&d.AssignmentsCompleted, &d.AssignmentsTotal, &attendance,
		&first, &second, &d.EvaluationsAttempted,
		&d.EvaluationsPassed, &lastLogin, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}

	d.AttendanceRate = floatPtr(attendance)
	d.FirstSemGrade = floatPtr(first)
	d.SecondSemGrade = floatPtr(second)
	if lastLogin.Valid {
		t := lastLogin.Time
		d.LastLoginAt = &t
	}
	return &d, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
