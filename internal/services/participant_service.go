package services

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avqlab/mushrelay/internal/models"
)

// SessionStore abstracts persistence operations required by ParticipantService.
type SessionStore interface {
	AddSession(s *models.Session) error
	GetSession(id string) (*models.Session, error)
}

// Prompter supplies an operator-entered participant id. It is the explicit
// suspension point that replaced the original blocking modal prompt: callers
// await it during session startup and may cancel via ctx.
type Prompter func(ctx context.Context) (string, error)

// ParticipantService assigns participant identities and opens sessions.
// The identity is assigned exactly once per session, before any submission
// attempt, and is immutable afterwards.
type ParticipantService struct {
	required bool
	auto     bool
	prompt   Prompter
	store    SessionStore
	now      func() time.Time
	idGen    func() string
}

func NewParticipantService(required, autoGenerate bool, prompt Prompter, store SessionStore) *ParticipantService {
	return &ParticipantService{
		required: required,
		auto:     autoGenerate,
		prompt:   prompt,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    defaultSessionID,
	}
}

func defaultSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

const idSuffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateParticipantID synthesizes a human-typeable identifier that sorts by
// creation order: an upper-cased base-36 encoding of the epoch milliseconds
// plus a 6-character random suffix.
func GenerateParticipantID(t time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// time-derived suffix so id assignment still completes.
		n := t.UnixNano()
		for i := range suffix {
			suffix[i] = idSuffixAlphabet[int(n>>uint(i*5))%len(idSuffixAlphabet)]
		}
	} else {
		for i, b := range suffix {
			suffix[i] = idSuffixAlphabet[int(b)%len(idSuffixAlphabet)]
		}
	}
	return "P_" + ts + "_" + string(suffix)
}

// AcquireID resolves the participant identity per configuration: empty when
// identity collection is disabled, generated when auto-generation is on,
// otherwise awaited from the prompter. Empty prompter input is accepted
// as-is; the original front end never validated it either.
func (s *ParticipantService) AcquireID(ctx context.Context) (string, error) {
	if !s.required {
		return "", nil
	}
	if s.auto {
		return GenerateParticipantID(s.now()), nil
	}
	if s.prompt == nil {
		return "", NewInvalidError("participant id required but no prompter configured")
	}
	id, err := s.prompt(ctx)
	if err != nil {
		return "", err
	}
	return id, nil
}

// StartSession acquires the identity and records the new session.
func (s *ParticipantService) StartSession(ctx context.Context) (*models.Session, error) {
	pid, err := s.AcquireID(ctx)
	if err != nil {
		return nil, err
	}
	sess := &models.Session{
		ID:            s.idGen(),
		ParticipantID: pid,
		CreatedAt:     s.now(),
	}
	if s.store == nil {
		return nil, NewInvalidError("session store not configured")
	}
	if err := s.store.AddSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSession looks up an open session.
func (s *ParticipantService) GetSession(id string) (*models.Session, error) {
	if s.store == nil {
		return nil, NewInvalidError("session store not configured")
	}
	sess, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	return sess, nil
}
