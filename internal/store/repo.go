package store

import (
	"context"
	"time"
)

// Practice journal actions.
const (
	ActionStart = "start"
	ActionDraw  = "draw"
	ActionSave  = "save"
	ActionEnd   = "end"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// PracticeEventData is one step of a practice session.
type PracticeEventData struct {
	SessionID string
	Action    string
	Problem   string
	Topic     string
	Phase     string
	PhaseID   int
	Filename  string
}

// PracticeEventRecord is a stored practice event.
type PracticeEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	PracticeEventData
}

// SessionSummaryRecord aggregates the events of one practice session.
type SessionSummaryRecord struct {
	SessionID string
	StartedAt time.Time
	LastAt    time.Time
	Draws     int
	Saves     int
	Ended     bool
}

// Duration is the time between the first and last event.
func (r SessionSummaryRecord) Duration() time.Duration {
	return r.LastAt.Sub(r.StartedAt)
}

// Totals aggregates the whole journal.
type Totals struct {
	Sessions int
	Draws    int
	Saves    int
}

// EventRepo provides append and query access to the practice journal.
type EventRepo interface {
	// AppendPracticeEvent records a practice session event.
	AppendPracticeEvent(ctx context.Context, data PracticeEventData) error

	// QueryPracticeEvents returns the events of one session in order.
	QueryPracticeEvents(ctx context.Context, sessionID string) ([]PracticeEventRecord, error)

	// QuerySessionSummaries returns sessions, most recent first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// Totals returns journal-wide counts.
	Totals(ctx context.Context) (Totals, error)
}
