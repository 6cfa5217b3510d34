package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avqlab/mushrelay/internal/logger"
	"github.com/avqlab/mushrelay/internal/models"
	"github.com/avqlab/mushrelay/internal/sinks"
)

// SubmitStatus classifies the end state of one submission attempt chain.
type SubmitStatus string

const (
	// StatusDelivered means a network sink reported success. For the form
	// sink that only means the request was dispatched without a transport
	// error; the collector's acceptance cannot be verified.
	StatusDelivered SubmitStatus = "delivered"
	// StatusSavedLocal is the degraded success: the payload was written to a
	// local file and the participant must forward it manually.
	StatusSavedLocal SubmitStatus = "saved_local"
	StatusFailed     SubmitStatus = "failed"
)

// SubmitResult reports the outcome of Submit.
type SubmitResult struct {
	Status  SubmitStatus `json:"status"`
	Sink    string       `json:"sink,omitempty"`
	SavedTo string       `json:"saved_to,omitempty"`
}

// MessageKey maps the outcome to its user-facing status message key.
func (r *SubmitResult) MessageKey() string {
	switch r.Status {
	case StatusDelivered:
		return "submit.delivered"
	case StatusSavedLocal:
		return "submit.saved"
	default:
		return "submit.failed"
	}
}

// Submitter runs the fixed fallback chain: form endpoint, then generic
// endpoint, then local file save. Each sink is attempted at most once per
// call, strictly in order, and the first success ends the chain. Disabled
// sinks are nil.
type Submitter struct {
	form       sinks.Sink
	endpoint   sinks.Sink
	download   sinks.Sink
	clientInfo string
	log        *logger.Logger
	now        func() time.Time
}

func NewSubmitter(form, endpoint, download sinks.Sink, clientInfo string, log *logger.Logger) *Submitter {
	return &Submitter{
		form:       form,
		endpoint:   endpoint,
		download:   download,
		clientInfo: clientInfo,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit builds one payload for this attempt and walks the chain. Every sink
// failure is recovered by falling through; the terminal failure is reported
// as an outcome, never as an error.
func (s *Submitter) Submit(ctx context.Context, participantID string, results json.RawMessage) *SubmitResult {
	payload := &models.SubmissionPayload{
		ParticipantID: participantID,
		Timestamp:     s.now().Format(time.RFC3339),
		ClientInfo:    s.clientInfo,
		Results:       results,
	}

	for _, sink := range []sinks.Sink{s.form, s.endpoint} {
		if sink == nil {
			continue
		}
		if _, err := sink.Deliver(ctx, payload); err != nil {
			s.warn(ctx, sink.Name(), err)
			continue
		}
		s.info(ctx, sink.Name())
		return &SubmitResult{Status: StatusDelivered, Sink: sink.Name()}
	}

	if s.download != nil {
		path, err := s.download.Deliver(ctx, payload)
		if err != nil {
			s.warn(ctx, s.download.Name(), err)
		} else {
			s.info(ctx, s.download.Name())
			return &SubmitResult{Status: StatusSavedLocal, Sink: s.download.Name(), SavedTo: path}
		}
	}

	if s.log != nil {
		s.log.Error(ctx, "all sinks failed or disabled", nil)
	}
	return &SubmitResult{Status: StatusFailed}
}

func (s *Submitter) warn(ctx context.Context, sink string, err error) {
	if s.log == nil {
		return
	}
	s.log.Warn(s.log.WithFields(ctx, map[string]any{"sink": sink, "cause": err.Error()}), "sink attempt failed")
}

func (s *Submitter) info(ctx context.Context, sink string) {
	if s.log == nil {
		return
	}
	s.log.Info(s.log.WithFields(ctx, map[string]any{"sink": sink}), "submission handled")
}
