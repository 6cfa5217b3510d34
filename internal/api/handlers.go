package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avqlab/mushrelay/internal/middleware"
	"github.com/avqlab/mushrelay/internal/services"
	"github.com/avqlab/mushrelay/internal/utils"
)

// maxBodyBytes caps request bodies. MUSHRA result documents are a few KB;
// anything near this limit is not a listening test.
const maxBodyBytes = 1 << 20

type handlers struct {
	p RouterParams
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto HTTP statuses and a uniform body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"
	if se, ok := services.AsServiceError(err); ok {
		msg = se.Message
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		}
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     utils.T(locale, "health.ok"),
		"service":    "mushrelay",
		"commit":     h.p.Commit,
		"build_time": h.p.BuildTime,
	})
}

// startSession opens a session, assigning the participant id exactly once.
// When identity is operator-entered, the body carries it as participant_id.
func (h *handlers) startSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantID string `json:"participant_id"`
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, services.NewInvalidError("reading request body"))
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, services.NewInvalidError("invalid request body"))
			return
		}
	}

	sess, err := h.p.Participants.StartSession(withSuppliedID(r.Context(), req.ParticipantID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// submitResults runs the fallback chain for the session's result document and
// reports the outcome with a participant-facing message in the request locale.
func (h *handlers) submitResults(w http.ResponseWriter, r *http.Request) {
	sess, err := h.p.Participants.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, services.NewInvalidError("reading request body"))
		return
	}
	if !json.Valid(body) {
		writeError(w, services.NewInvalidError("results must be a JSON document"))
		return
	}

	result := h.p.Submitter.Submit(r.Context(), sess.ParticipantID, body)

	status := http.StatusOK
	if result.Status == services.StatusFailed {
		status = http.StatusBadGateway
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, status, map[string]any{
		"status":   result.Status,
		"sink":     result.Sink,
		"saved_to": result.SavedTo,
		"message":  utils.T(locale, result.MessageKey()),
	})
}

// collectForm receives what the form sink sends: the payload JSON carried in
// a single form field.
func (h *handlers) collectForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, services.NewInvalidError("parsing form body"))
		return
	}
	field := "results"
	if h.p.Config != nil && h.p.Config.Form.Field != "" {
		field = h.p.Config.Form.Field
	}
	raw := r.PostFormValue(field)
	if raw == "" {
		writeError(w, services.NewInvalidError("missing form field "+field))
		return
	}
	if _, err := h.p.Collector.Accept([]byte(raw), r.RemoteAddr); err != nil {
		writeError(w, err)
		return
	}
	// Form posts come from relays that ignore the response body anyway.
	w.WriteHeader(http.StatusNoContent)
}

// collectJSON receives what the generic endpoint sink sends: the payload as
// the request body.
func (h *handlers) collectJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, services.NewInvalidError("reading request body"))
		return
	}
	sub, err := h.p.Collector.Accept(body, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sub.ID})
}

func (h *handlers) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, services.NewInvalidError("invalid request body"))
		return
	}
	res, err := h.p.Auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": res.Token, "email": res.Email})
}

func (h *handlers) adminSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.p.Collector.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs, "count": len(subs)})
}

// adminExport streams stored results, as raw submissions (json) or extracted
// ratings in long format (csv).
func (h *handlers) adminExport(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if c := middleware.ClaimsFromContext(r.Context()); c != nil {
		actor = c.Email
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		data, err := h.p.Exports.RatingsCSV(actor)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+services.RatingsCSVFilename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case "json":
		subs, err := h.p.Collector.List()
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="mushra_submissions.json"`)
		writeJSON(w, http.StatusOK, subs)
	default:
		writeError(w, services.NewInvalidError("unknown export format "+format))
	}
}

func (h *handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.p.Stats.Summary()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conditions": stats})
}
