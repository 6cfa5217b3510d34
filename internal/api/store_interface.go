package api

import "github.com/avqlab/mushrelay/internal/models"

// Store is the persistence surface the handlers need. The SQLite store
// implements it for durable deployments; memoryStore covers relay-only and
// test setups.
type Store interface {
	AddSession(s *models.Session) error
	GetSession(id string) (*models.Session, error)

	AddSubmission(sub *models.StoredSubmission) error
	ListSubmissions() ([]*models.StoredSubmission, error)

	AddAudit(e models.AuditEntry)
	ListAudit() []models.AuditEntry
}

var _ Store = (*memoryStore)(nil)
