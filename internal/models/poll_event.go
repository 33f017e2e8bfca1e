package models

import "time"

// Poll lifecycle event types.
const (
	EventEngineStart = "ENGINE_START"
	EventFetchError  = "FETCH_ERROR"
	EventParseError  = "PARSE_ERROR"
	EventRecovered   = "RECOVERED"
)

// PollEvent is a single diagnostic log entry for the poll engine. Events
// record attempt outcomes only; measurement series are never persisted.
type PollEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // ENGINE_START | FETCH_ERROR | PARSE_ERROR | RECOVERED
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
