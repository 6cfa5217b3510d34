package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

type stubSessionStore struct {
	sessions []*models.Session
	err      error
}

func (s *stubSessionStore) AddSession(sess *models.Session) error {
	if s.err != nil {
		return s.err
	}
	s.sessions = append(s.sessions, sess)
	return nil
}

func (s *stubSessionStore) GetSession(id string) (*models.Session, error) {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, nil
		}
	}
	return nil, nil
}

var participantIDPattern = regexp.MustCompile(`^P_[A-Z0-9]+_[A-Z0-9]{6}$`)

func TestGenerateParticipantIDFormat(t *testing.T) {
	id := GenerateParticipantID(time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	if !participantIDPattern.MatchString(id) {
		t.Fatalf("id %q does not match pattern", id)
	}
}

func TestGenerateParticipantIDUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 10000)
	dupes := 0
	for i := 0; i < 10000; i++ {
		id := GenerateParticipantID(now)
		if !participantIDPattern.MatchString(id) {
			t.Fatalf("id %q does not match pattern", id)
		}
		if _, ok := seen[id]; ok {
			dupes++
		}
		seen[id] = struct{}{}
	}
	// Same timestamp for every call, so uniqueness rests entirely on the
	// 6-char suffix. 36^6 values make a collision in 10k draws unlikely;
	// tolerate a single one to keep the test deterministic enough.
	if dupes > 1 {
		t.Fatalf("%d duplicate ids in 10000", dupes)
	}
}

func TestGenerateParticipantIDSortsByCreationOrder(t *testing.T) {
	early := GenerateParticipantID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := GenerateParticipantID(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if !(early < late) {
		t.Fatalf("ids not sortable by creation order: %q vs %q", early, late)
	}
}

func TestAcquireIDDisabled(t *testing.T) {
	svc := NewParticipantService(false, true, nil, &stubSessionStore{})
	id, err := svc.AcquireID(context.Background())
	if err != nil {
		t.Fatalf("AcquireID: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty identity, got %q", id)
	}
}

func TestAcquireIDPrompted(t *testing.T) {
	prompted := false
	svc := NewParticipantService(true, false, func(ctx context.Context) (string, error) {
		prompted = true
		return "listener-42", nil
	}, &stubSessionStore{})
	id, err := svc.AcquireID(context.Background())
	if err != nil {
		t.Fatalf("AcquireID: %v", err)
	}
	if !prompted || id != "listener-42" {
		t.Fatalf("prompted=%v id=%q", prompted, id)
	}
}

func TestAcquireIDPromptEmptyAcceptedAsIs(t *testing.T) {
	svc := NewParticipantService(true, false, func(ctx context.Context) (string, error) {
		return "", nil
	}, &stubSessionStore{})
	id, err := svc.AcquireID(context.Background())
	if err != nil {
		t.Fatalf("AcquireID: %v", err)
	}
	if id != "" {
		t.Fatalf("empty input must be accepted as-is, got %q", id)
	}
}

func TestAcquireIDPromptCancelled(t *testing.T) {
	cancelErr := errors.New("cancelled")
	svc := NewParticipantService(true, false, func(ctx context.Context) (string, error) {
		return "", cancelErr
	}, &stubSessionStore{})
	if _, err := svc.AcquireID(context.Background()); !errors.Is(err, cancelErr) {
		t.Fatalf("expected prompt error, got %v", err)
	}
}

func TestStartSessionAssignsIdentityOnce(t *testing.T) {
	store := &stubSessionStore{}
	svc := NewParticipantService(true, true, nil, store)
	svc.now = func() time.Time { return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC) }
	svc.idGen = func() string { return "sess00000001" }

	sess, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if sess.ID != "sess00000001" {
		t.Fatalf("session id = %q", sess.ID)
	}
	if !participantIDPattern.MatchString(sess.ParticipantID) {
		t.Fatalf("participant id %q does not match pattern", sess.ParticipantID)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("session not stored")
	}
	got, err := svc.GetSession("sess00000001")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ParticipantID != sess.ParticipantID {
		t.Fatalf("identity changed between start and lookup")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := NewParticipantService(true, true, nil, &stubSessionStore{})
	_, err := svc.GetSession("missing")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
