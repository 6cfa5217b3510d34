package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avqlab/mushrelay/internal/models"
)

// LocalSink saves the payload as a JSON file, the terminal fallback when no
// network sink succeeded. Participants are asked to hand the file to the
// researcher, so delivery through this sink is only a degraded success.
type LocalSink struct {
	dir string
	now func() time.Time
}

// NewLocalSink builds a local-file sink writing into dir.
func NewLocalSink(dir string) (*LocalSink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("local sink directory is required")
	}
	return &LocalSink{
		dir: dir,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *LocalSink) Name() string { return string(models.SinkDownload) }

// Filename returns the artifact name for a participant at time t.
func Filename(participantID string, t time.Time) string {
	return fmt.Sprintf("mushra_results_%s_%d.json", participantID, t.UnixMilli())
}

func (s *LocalSink) Deliver(_ context.Context, p *models.SubmissionPayload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(s.dir, Filename(p.ParticipantID, s.now()))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}
	return path, nil
}
