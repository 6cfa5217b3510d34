package models

import (
	"encoding/json"
	"time"
)

// SubmissionPayload is the unit sent to any sink. Results is an opaque tree
// produced by the test front end; this service never interprets its contents.
type SubmissionPayload struct {
	ParticipantID string          `json:"participantId"`
	Timestamp     string          `json:"timestamp"`
	ClientInfo    string          `json:"clientInfo,omitempty"`
	Results       json.RawMessage `json:"results"`
}

// SinkKind tags one outbound delivery channel.
type SinkKind string

const (
	SinkForm     SinkKind = "form-endpoint"
	SinkEndpoint SinkKind = "generic-endpoint"
	SinkDownload SinkKind = "local-download"
)

// Session is one complete run of the listening test. The participant id is
// assigned when the session starts and never changes afterwards.
type Session struct {
	ID            string    `json:"session_id"`
	ParticipantID string    `json:"participant_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredSubmission is a collector-side persisted submission.
type StoredSubmission struct {
	ID            string          `json:"id"`
	ParticipantID string          `json:"participant_id"`
	TestID        string          `json:"test_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	RemoteAddr    string          `json:"remote_addr,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
