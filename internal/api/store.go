package api

import (
	"sync"

	"github.com/avqlab/mushrelay/internal/models"
)

// memoryStore keeps everything in process memory. Sessions and submissions
// vanish on restart, which is acceptable for relay-only deployments where
// the configured sinks are the system of record.
type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*models.Session
	submissions []*models.StoredSubmission
	audit       []models.AuditEntry
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]*models.Session{}}
}

func (m *memoryStore) AddSession(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memoryStore) GetSession(id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryStore) AddSubmission(sub *models.StoredSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.submissions = append(m.submissions, &cp)
	return nil
}

func (m *memoryStore) ListSubmissions() ([]*models.StoredSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.StoredSubmission, 0, len(m.submissions))
	for _, s := range m.submissions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryStore) AddAudit(e models.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, e)
}

func (m *memoryStore) ListAudit() []models.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.AuditEntry(nil), m.audit...)
}
