package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// nudgeEventStream names the sequence shared by nudge deliveries and
// responses, giving both tables one increasing order.
const nudgeEventStream = "nudge_events"

// sequence hands out increasing numbers for one named stream, persisted in
// the sequences table. Each number comes from a single UPDATE ... RETURNING,
// so separate processes sharing the database never get the same value.
type sequence struct {
	db      *sql.DB
	dialect string
	stream  string
}

func newSequence(db *sql.DB, dialect, stream string) *sequence {
	return &sequence{db: db, dialect: dialect, stream: stream}
}

// Next returns the stream's next number, starting at 1.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	next, err := s.bump(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		return next, err
	}

	// First use of the stream: create its row, tolerating a concurrent
	// creator, then bump again.
	query, args := entsql.Dialect(s.dialect).
		Insert(SequencesTable.Name).
		Columns("name", "next_val").
		Values(s.stream, 1).
		OnConflict(entsql.ConflictColumns("name"), entsql.DoNothing()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("create %s sequence: %w", s.stream, err)
	}
	return s.bump(ctx)
}

// bump atomically increments the stream's row and returns the value it
// held before. It returns sql.ErrNoRows when the row does not exist.
func (s *sequence) bump(ctx context.Context) (int64, error) {
	query, args := entsql.Dialect(s.dialect).
		Update(SequencesTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("name", s.stream)).
		Returning("next_val").
		Query()

	var after int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&after)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, err
	case err != nil:
		return 0, fmt.Errorf("advance %s sequence: %w", s.stream, err)
	}
	return after - 1, nil
}
