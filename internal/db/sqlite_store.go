package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avqlab/mushrelay/internal/api"
	"github.com/avqlab/mushrelay/internal/models"
)

// Open opens (or creates) the SQLite database at path. Use ":memory:" for an
// ephemeral database in tests.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	return sql.Open("sqlite3", path)
}

// SQLiteStore is the durable collector store.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.Store = (*SQLiteStore)(nil)

const timeLayout = time.RFC3339Nano

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddSession(sess *models.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, participant_id, created_at) VALUES (?, ?, ?)`,
		sess.ID, sess.ParticipantID, sess.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetSession(id string) (*models.Session, error) {
	var sess models.Session
	var created string
	err := s.db.QueryRow(
		`SELECT id, participant_id, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.ParticipantID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	sess.CreatedAt = parseTime(created)
	return &sess, nil
}

func (s *SQLiteStore) AddSubmission(sub *models.StoredSubmission) error {
	_, err := s.db.Exec(
		`INSERT INTO submissions (id, participant_id, test_id, payload, remote_addr, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ParticipantID, sub.TestID, string(sub.Payload), sub.RemoteAddr,
		sub.ReceivedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListSubmissions() ([]*models.StoredSubmission, error) {
	rows, err := s.db.Query(
		`SELECT id, participant_id, test_id, payload, remote_addr, received_at
		 FROM submissions ORDER BY received_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.StoredSubmission
	for rows.Next() {
		var sub models.StoredSubmission
		var payload, received string
		if err := rows.Scan(&sub.ID, &sub.ParticipantID, &sub.TestID, &payload, &sub.RemoteAddr, &received); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Payload = []byte(payload)
		sub.ReceivedAt = parseTime(received)
		out = append(out, &sub)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddAudit(e models.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (at, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time.Format(timeLayout), e.Actor, e.Action, e.Target, e.Note,
	)
	if err != nil {
		log.Printf("sqlite store: insert audit: %v", err)
	}
}

func (s *SQLiteStore) ListAudit() []models.AuditEntry {
	rows, err := s.db.Query(`SELECT at, actor, action, target, note FROM audit_log ORDER BY at, id`)
	if err != nil {
		log.Printf("sqlite store: select audit: %v", err)
		return nil
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var at string
		if err := rows.Scan(&at, &e.Actor, &e.Action, &e.Target, &e.Note); err != nil {
			log.Printf("sqlite store: scan audit: %v", err)
			return out
		}
		e.Time = parseTime(at)
		out = append(out, e)
	}
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
