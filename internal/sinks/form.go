package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

// FormSink posts the payload JSON as a single form-encoded field to a
// form-based collector (e.g. a hosted form service).
//
// Such collectors do not expose a readable cross-origin response, so delivery
// is fire-and-forget: the response status is intentionally ignored and success
// means only that the request was dispatched without a transport error.
type FormSink struct {
	httpClient *http.Client
	endpoint   string
	field      string
}

// FormOption configures optional FormSink behavior.
type FormOption func(*FormSink)

// WithFormHTTPClient overrides the default HTTP client.
func WithFormHTTPClient(client *http.Client) FormOption {
	return func(s *FormSink) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewFormSink builds a form-endpoint sink for the given URL and field name.
func NewFormSink(endpoint, field string, timeout time.Duration, opts ...FormOption) (*FormSink, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("form sink endpoint is required")
	}
	if strings.TrimSpace(field) == "" {
		return nil, errors.New("form sink field name is required")
	}
	s := &FormSink{
		httpClient: defaultClient(timeout),
		endpoint:   endpoint,
		field:      field,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *FormSink) Name() string { return string(models.SinkForm) }

func (s *FormSink) Deliver(ctx context.Context, p *models.SubmissionPayload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	form := url.Values{}
	form.Set(s.field, string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build form request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post form: %w", err)
	}
	// The collector's acceptance cannot be verified; drain and move on.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
	return "", nil
}
