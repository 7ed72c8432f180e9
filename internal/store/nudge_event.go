package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

// nudgeEventRepo implements NudgeEventRepo with the ent SQL builder.
type nudgeEventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequence
}

func (r *nudgeEventRepo) AppendDelivery(ctx context.Context, data DeliveryData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(NudgeDeliveriesTable.Name).
		Columns("sequence", "nudge_id", "user_id", "type", "priority", "message", "channel", "urgent", "sent_at").
		Values(seqNum, data.NudgeID, data.UserID, data.Type, data.Priority, data.Message, data.Channel, data.Urgent, data.SentAt).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return fmt.Errorf("save delivery %s: %w", data.NudgeID, ErrDuplicate)
		}
		return fmt.Errorf("save delivery: %w", err)
	}
	return nil
}

func (r *nudgeEventRepo) AppendResponse(ctx context.Context, data ResponseData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(NudgeResponsesTable.Name).
		Columns("sequence", "nudge_id", "response", "response_hours", "engagement_change", "recorded_at").
		Values(seqNum, data.NudgeID, data.Response, data.ResponseHours, data.EngagementChange, data.RecordedAt).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (r *nudgeEventRepo) RecentDeliveries(ctx context.Context, userID, limit int) ([]DeliveryRecord, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("sequence", "nudge_id", "user_id", "type", "priority", "message", "channel", "urgent", "sent_at").
		From(b.Table(NudgeDeliveriesTable.Name))
	sel.Where(entsql.EQ(sel.C("user_id"), userID)).
		OrderBy(entsql.Desc(sel.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var records []DeliveryRecord
	for rows.Next() {
		var d DeliveryRecord
		if err := rows.Scan(&d.Sequence, &d.NudgeID, &d.UserID, &d.Type, &d.Priority,
			&d.Message, &d.Channel, &d.Urgent, &d.SentAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		records = append(records, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	return records, nil
}

func (r *nudgeEventRepo) ResponseCounts(ctx context.Context) (map[string]int, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("response", entsql.Count("*")).
		From(b.Table(NudgeResponsesTable.Name)).
		GroupBy("response")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			response string
			n        int
		)
		if err := rows.Scan(&response, &n); err != nil {
			return nil, fmt.Errorf("scan response count: %w", err)
		}
		counts[response] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	return counts, nil
}
