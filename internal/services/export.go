package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// RatingsCSVFilename is the download name of the ratings export, also the
// audit target for export actions.
const RatingsCSVFilename = "mushra_ratings.csv"

// ExportRatingsCSV renders extracted ratings into a long-format CSV, one row
// per slider value, the shape analysis scripts expect.
func ExportRatingsCSV(rows []Rating) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"submission_id", "participant_id", "test_id", "trial", "stimulus", "score", "received_at"})
	for _, r := range rows {
		rec := []string{
			r.SubmissionID,
			r.ParticipantID,
			r.TestID,
			r.Trial,
			r.Stimulus,
			strconv.FormatFloat(r.Score, 'f', -1, 64),
			r.ReceivedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportService renders stored submissions for operator download.
type ExportService struct {
	store SubmissionStore
}

func NewExportService(store SubmissionStore) *ExportService {
	return &ExportService{store: store}
}

// RatingsCSV extracts and renders every stored rating.
func (s *ExportService) RatingsCSV(actor string) ([]byte, error) {
	if s.store == nil {
		return nil, NewInvalidError("submission store not configured")
	}
	subs, err := s.store.ListSubmissions()
	if err != nil {
		return nil, err
	}
	var rows []Rating
	for _, sub := range subs {
		rows = append(rows, ExtractRatings(sub)...)
	}
	s.audit(actor, "export_csv", RatingsCSVFilename, len(subs))
	return ExportRatingsCSV(rows)
}

func (s *ExportService) audit(actor, action, target string, n int) {
	s.store.AddAudit(auditNow(actor, action, target, strconv.Itoa(n)+" submissions"))
}
