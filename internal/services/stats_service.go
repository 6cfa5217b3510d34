package services

import (
	"encoding/json"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/avqlab/mushrelay/internal/models"
)

// Rating is one MUSHRA slider value extracted from a stored payload.
type Rating struct {
	SubmissionID  string
	ParticipantID string
	TestID        string
	Trial         string
	Stimulus      string
	Score         float64
	ReceivedAt    string
}

// ConditionStats summarizes all scores one stimulus received within a test.
type ConditionStats struct {
	TestID   string  `json:"test_id"`
	Stimulus string  `json:"stimulus"`
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// StatsService aggregates MUSHRA scores across stored submissions. Payloads
// are opaque by contract, so extraction is best-effort: documents that do not
// carry the webMUSHRA trial/response shape are skipped, never an error.
type StatsService struct {
	store SubmissionStore
}

func NewStatsService(store SubmissionStore) *StatsService {
	return &StatsService{store: store}
}

// resultsDoc mirrors the slice of the webMUSHRA result document we aggregate.
type resultsDoc struct {
	TestID string `json:"testId"`
	Trials []struct {
		ID        string `json:"id"`
		Responses []struct {
			Stimulus string   `json:"stimulus"`
			Score    *float64 `json:"score"`
		} `json:"responses"`
	} `json:"trials"`
}

// ExtractRatings pulls the individual scores out of one stored submission.
func ExtractRatings(sub *models.StoredSubmission) []Rating {
	var payload struct {
		ParticipantID string          `json:"participantId"`
		Results       json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(sub.Payload, &payload); err != nil {
		return nil
	}
	raw := payload.Results
	if len(raw) == 0 {
		// Direct front-end posts may carry the results document itself.
		raw = sub.Payload
	}
	var doc resultsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	pid := payload.ParticipantID
	if pid == "" {
		pid = sub.ParticipantID
	}
	testID := doc.TestID
	if testID == "" {
		testID = sub.TestID
	}
	var out []Rating
	for _, trial := range doc.Trials {
		for _, resp := range trial.Responses {
			if resp.Stimulus == "" || resp.Score == nil {
				continue
			}
			out = append(out, Rating{
				SubmissionID:  sub.ID,
				ParticipantID: pid,
				TestID:        testID,
				Trial:         trial.ID,
				Stimulus:      resp.Stimulus,
				Score:         *resp.Score,
				ReceivedAt:    sub.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
	}
	return out
}

// Summary computes per test/stimulus score statistics over all submissions.
func (s *StatsService) Summary() ([]ConditionStats, error) {
	if s.store == nil {
		return nil, NewInvalidError("submission store not configured")
	}
	subs, err := s.store.ListSubmissions()
	if err != nil {
		return nil, err
	}
	type key struct{ test, stimulus string }
	groups := map[key][]float64{}
	for _, sub := range subs {
		for _, r := range ExtractRatings(sub) {
			k := key{test: r.TestID, stimulus: r.Stimulus}
			groups[k] = append(groups[k], r.Score)
		}
	}
	out := make([]ConditionStats, 0, len(groups))
	for k, scores := range groups {
		cs := ConditionStats{
			TestID:   k.test,
			Stimulus: k.stimulus,
			N:        len(scores),
			Mean:     stat.Mean(scores, nil),
			Min:      scores[0],
			Max:      scores[0],
		}
		if len(scores) > 1 {
			cs.StdDev = stat.StdDev(scores, nil)
		}
		for _, v := range scores {
			if v < cs.Min {
				cs.Min = v
			}
			if v > cs.Max {
				cs.Max = v
			}
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TestID != out[j].TestID {
			return out[i].TestID < out[j].TestID
		}
		return out[i].Stimulus < out[j].Stimulus
	})
	return out, nil
}
