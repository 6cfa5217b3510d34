package services

import (
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

func auditNow(actor, action, target, note string) models.AuditEntry {
	return models.AuditEntry{Time: time.Now().UTC(), Actor: actor, Action: action, Target: target, Note: note}
}
