package sinks

import (
	"context"
	"net/http"
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

// Sink delivers a completed session's payload to one configured destination.
type Sink interface {
	// Name returns the sink identifier for logging and status reporting.
	Name() string

	// Deliver sends one payload. The returned ref is sink-specific (the
	// local-file sink returns the written path; network sinks return "").
	// A nil error means this sink considers the submission handled; the
	// caller must not try further sinks.
	Deliver(ctx context.Context, p *models.SubmissionPayload) (ref string, err error)
}

const defaultTimeout = 15 * time.Second

func defaultClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
