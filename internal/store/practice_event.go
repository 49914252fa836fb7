package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed-width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) AppendPracticeEvent(ctx context.Context, data PracticeEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practice_events (timestamp, session_id, action, problem, topic, phase, phase_id, filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.now().UTC().Format(timeLayout), data.SessionID, data.Action,
		data.Problem, data.Topic, data.Phase, data.PhaseID, data.Filename,
	)
	if err != nil {
		return fmt.Errorf("save practice event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPracticeEvents(ctx context.Context, sessionID string) ([]PracticeEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence, timestamp, session_id, action, problem, topic, phase, phase_id, filename
		FROM practice_events WHERE session_id = ? ORDER BY sequence ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query practice events: %w", err)
	}
	defer rows.Close()

	out := make([]PracticeEventRecord, 0)
	for rows.Next() {
		var rec PracticeEventRecord
		var ts string
		if err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.Action,
			&rec.Problem, &rec.Topic, &rec.Phase, &rec.PhaseID, &rec.Filename); err != nil {
			return nil, fmt.Errorf("scan practice event: %w", err)
		}
		if rec.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	query := `
		SELECT session_id, MIN(timestamp), MAX(timestamp),
			SUM(action = 'draw'), SUM(action = 'save'), SUM(action = 'end')
		FROM practice_events
		GROUP BY session_id
		ORDER BY MIN(sequence) DESC`
	args := make([]any, 0, 1)
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	out := make([]SessionSummaryRecord, 0)
	for rows.Next() {
		var rec SessionSummaryRecord
		var first, last string
		var ends int
		if err := rows.Scan(&rec.SessionID, &first, &last, &rec.Draws, &rec.Saves, &ends); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		if rec.StartedAt, err = time.Parse(timeLayout, first); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		if rec.LastAt, err = time.Parse(timeLayout, last); err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		rec.Ended = ends > 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT session_id),
			COALESCE(SUM(action = 'draw'), 0),
			COALESCE(SUM(action = 'save'), 0)
		FROM practice_events`).Scan(&t.Sessions, &t.Draws, &t.Saves)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}
