package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

// ErrRejected marks a non-2xx response from the generic endpoint. The caller
// treats it like any other sink failure and falls through.
var ErrRejected = errors.New("endpoint rejected submission")

// EndpointSink sends the JSON-encoded payload to a generic HTTP endpoint with
// a configurable method. Unlike FormSink, the response status is authoritative:
// success is an HTTP status in [200,299].
type EndpointSink struct {
	httpClient *http.Client
	endpoint   string
	method     string
}

// EndpointOption configures optional EndpointSink behavior.
type EndpointOption func(*EndpointSink)

// WithEndpointHTTPClient overrides the default HTTP client.
func WithEndpointHTTPClient(client *http.Client) EndpointOption {
	return func(s *EndpointSink) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// NewEndpointSink builds a generic-endpoint sink. Method defaults to POST.
func NewEndpointSink(endpoint, method string, timeout time.Duration, opts ...EndpointOption) (*EndpointSink, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint sink URL is required")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPost
	}
	s := &EndpointSink{
		httpClient: defaultClient(timeout),
		endpoint:   endpoint,
		method:     method,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *EndpointSink) Name() string { return string(models.SinkEndpoint) }

func (s *EndpointSink) Deliver(ctx context.Context, p *models.SubmissionPayload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, s.method, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send submission: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return "", nil
}
