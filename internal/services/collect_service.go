package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avqlab/mushrelay/internal/models"
)

// SubmissionStore abstracts persistence for received submissions.
type SubmissionStore interface {
	AddSubmission(sub *models.StoredSubmission) error
	ListSubmissions() ([]*models.StoredSubmission, error)
	AddAudit(e models.AuditEntry)
}

// CollectService is the receiving end of the network sinks: it persists
// submissions posted by relays (or directly by the test front end). The
// payload stays opaque; only participant and test ids are probed for
// indexing, and their absence is not an error.
type CollectService struct {
	store SubmissionStore
	now   func() time.Time
	idGen func() string
}

func NewCollectService(store SubmissionStore) *CollectService {
	return &CollectService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// payloadProbe pulls the indexable fields out of a submission without
// committing to any schema beyond them.
type payloadProbe struct {
	ParticipantID string `json:"participantId"`
	Results       struct {
		TestID string `json:"testId"`
	} `json:"results"`
	TestID string `json:"testId"`
}

// Accept validates that raw is a JSON document and stores it.
func (s *CollectService) Accept(raw []byte, remoteAddr string) (*models.StoredSubmission, error) {
	if s.store == nil {
		return nil, NewInvalidError("submission store not configured")
	}
	if !json.Valid(raw) {
		return nil, NewInvalidError("submission body is not valid JSON")
	}
	var probe payloadProbe
	_ = json.Unmarshal(raw, &probe)
	testID := probe.Results.TestID
	if testID == "" {
		testID = probe.TestID
	}
	sub := &models.StoredSubmission{
		ID:            s.idGen(),
		ParticipantID: probe.ParticipantID,
		TestID:        testID,
		Payload:       json.RawMessage(raw),
		RemoteAddr:    remoteAddr,
		ReceivedAt:    s.now(),
	}
	if err := s.store.AddSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns every stored submission, newest last.
func (s *CollectService) List() ([]*models.StoredSubmission, error) {
	if s.store == nil {
		return nil, NewInvalidError("submission store not configured")
	}
	return s.store.ListSubmissions()
}
