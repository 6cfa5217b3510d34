package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/avqlab/mushrelay/internal/models"
)

func TestExportRatingsCSV(t *testing.T) {
	rows := []Rating{
		{SubmissionID: "s1", ParticipantID: "P_1", TestID: "a", Trial: "t1", Stimulus: "HARP", Score: 74.5, ReceivedAt: "2026-08-25T10:00:00Z"},
		{SubmissionID: "s1", ParticipantID: "P_1", TestID: "a", Trial: "t1", Stimulus: "anchor", Score: 20, ReceivedAt: "2026-08-25T10:00:00Z"},
	}
	out, err := ExportRatingsCSV(rows)
	if err != nil {
		t.Fatalf("ExportRatingsCSV: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "submission_id,participant_id,test_id,trial,stimulus,score,received_at" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][5] != "74.5" || records[2][5] != "20" {
		t.Fatalf("scores = %v / %v", records[1][5], records[2][5])
	}
}

func TestExportRatingsCSVEmpty(t *testing.T) {
	out, err := ExportRatingsCSV(nil)
	if err != nil {
		t.Fatalf("ExportRatingsCSV: %v", err)
	}
	if !strings.HasPrefix(string(out), "submission_id,") {
		t.Fatalf("expected header-only csv, got %q", out)
	}
}

func TestExportServiceRatingsCSVAudits(t *testing.T) {
	store := &stubSubmissionStore{subs: []*models.StoredSubmission{
		storedSubmission("s1", "", `{"participantId":"P_1","results":{"testId":"a","trials":[
			{"id":"t1","responses":[{"stimulus":"HARP","score":80}]}]}}`),
	}}
	svc := NewExportService(store)
	out, err := svc.RatingsCSV("admin@lab.example")
	if err != nil {
		t.Fatalf("RatingsCSV: %v", err)
	}
	if !strings.Contains(string(out), "HARP") {
		t.Fatalf("csv missing rating row: %q", out)
	}
	if len(store.audit) != 1 || store.audit[0].Action != "export_csv" {
		t.Fatalf("audit = %+v", store.audit)
	}
	if store.audit[0].Target != RatingsCSVFilename {
		t.Fatalf("audit target = %q", store.audit[0].Target)
	}
}
