// HTTP handlers for the pipeline service.
//
// Routes:
//
//	GET  /candidates                      → list candidates (filters: status, q, role, city)
//	POST /candidates                      → create candidate
//	GET  /candidates/board                → candidates grouped by stage, in board order
//	GET  /candidates/export               → CSV export
//	POST /candidates/import               → CSV import, returns imported count
//	GET  /candidates/{id}                 → fetch one candidate
//	POST /candidates/{id}/move            → request a stage transition
//	POST /candidates/{id}/confirm         → confirm a pending move with collected values
//	POST /candidates/{id}/cancel          → cancel a pending move
//	POST /candidates/{id}/analyze         → run AI scoring
//	POST /candidates/{id}/questions       → suggest interview questions
//	GET  /jobs                            → list openings (?active=true)
package funnel

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"youngtalents/pipeline-service/internal/csvio"
	"youngtalents/pipeline-service/internal/enrich"
	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/store"
)

// Handler holds shared dependencies for the candidate routes.
type Handler struct {
	candidates *store.CandidateStore
	jobs       *store.JobCatalog
	coord      *Coordinator
	enricher   *enrich.Enricher
	snapshot   func(r *http.Request) // best-effort persistence after mutations
}

// NewHandler returns a configured Handler. snapshot may be nil.
func NewHandler(candidates *store.CandidateStore, jobs *store.JobCatalog, coord *Coordinator, enricher *enrich.Enricher, snapshot func(r *http.Request)) *Handler {
	if snapshot == nil {
		snapshot = func(*http.Request) {}
	}
	return &Handler{candidates: candidates, jobs: jobs, coord: coord, enricher: enricher, snapshot: snapshot}
}

// RegisterRoutes mounts the candidate and job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/candidates", h.handleCandidates)
	mux.HandleFunc("/candidates/board", h.board)
	mux.HandleFunc("/candidates/export", h.exportCSV)
	mux.HandleFunc("/candidates/import", h.importCSV)
	mux.HandleFunc("/candidates/", h.handleCandidateAction)
	mux.HandleFunc("/jobs", h.listJobs)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleCandidates handles GET/POST /candidates
func (h *Handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCandidates(w, r)
	case http.MethodPost:
		h.createCandidate(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCandidateAction handles /candidates/{id} and /candidates/{id}/{action}
func (h *Handler) handleCandidateAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	if len(parts) == 2 {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getCandidate(w, parts[1])
		return
	}
	if len(parts) != 3 {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := parts[1]
	switch action := parts[2]; action {
	case "move":
		h.move(w, r, id)
	case "confirm":
		h.confirm(w, r, id)
	case "cancel":
		h.cancel(w, r, id)
	case "analyze":
		h.analyze(w, r, id)
	case "questions":
		h.questions(w, r, id)
	default:
		jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
	}
}

// ─── Candidate CRUD ───────────────────────────────────────────────────────────

func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jsonOK(w, h.candidates.Filter(store.Query{
		Stage: q.Get("status"),
		Text:  q.Get("q"),
		Role:  q.Get("role"),
		City:  q.Get("city"),
	}))
}

func (h *Handler) createCandidate(w http.ResponseWriter, r *http.Request) {
	var cand model.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(cand.Name) == "" || strings.TrimSpace(cand.Email) == "" {
		jsonError(w, "name and email are required", http.StatusBadRequest)
		return
	}
	if cand.Status == "" {
		cand.Status = string(StageInscrito)
	} else if _, err := ParseStage(cand.Status); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if cand.AppliedDate == "" {
		cand.AppliedDate = time.Now().UTC().Format("2006-01-02")
	}

	stored := h.candidates.Add(cand)
	h.snapshot(r)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(stored)
}

func (h *Handler) getCandidate(w http.ResponseWriter, id string) {
	cand, ok := h.candidates.Get(id)
	if !ok {
		jsonError(w, "candidate not found", http.StatusNotFound)
		return
	}
	jsonOK(w, cand)
}

// board groups candidates into columns following the stage registry order.
func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type column struct {
		Stage      Stage             `json:"stage"`
		Ordinal    int               `json:"ordinal"`
		Candidates []model.Candidate `json:"candidates"`
	}
	columns := make([]column, 0, len(Stages()))
	for _, stage := range Stages() {
		cands := h.candidates.Filter(store.Query{Stage: string(stage)})
		columns = append(columns, column{Stage: stage, Ordinal: Ordinal(stage), Candidates: cands})
	}
	jsonOK(w, columns)
}

// ─── Transitions ──────────────────────────────────────────────────────────────

func (h *Handler) move(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		TargetStatus string `json:"targetStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TargetStatus == "" {
		jsonError(w, "body must contain targetStatus", http.StatusBadRequest)
		return
	}
	target, err := ParseStage(body.TargetStatus)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := h.coord.RequestMove(r.Context(), id, target)
	switch res.Outcome {
	case OutcomeRejected:
		jsonError(w, res.Reason, http.StatusConflict)
	case OutcomeApplied:
		h.snapshot(r)
		jsonOK(w, moveResponse(res))
	default:
		// noop, pending and not_found are all non-errors: the board just
		// re-renders from the response.
		jsonOK(w, moveResponse(res))
	}
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Values map[string]any `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sub, err := decodeSubmission(body.Values)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cand, err := h.coord.Confirm(r.Context(), id, sub)
	if err != nil {
		switch {
		case err == ErrNoPendingMove:
			jsonError(w, err.Error(), http.StatusConflict)
		case err == ErrNotFound:
			jsonError(w, err.Error(), http.StatusNotFound)
		default:
			// Validation failure: the interaction stays open client-side.
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	h.snapshot(r)
	jsonOK(w, map[string]any{"outcome": OutcomeApplied, "candidate": cand})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, id string) {
	cleared := h.coord.Cancel(id)
	jsonOK(w, map[string]bool{"cancelled": cleared})
}

// ─── Enrichment ───────────────────────────────────────────────────────────────

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request, id string) {
	analysis, ok := h.enricher.Analyze(r.Context(), id)
	if !ok {
		jsonError(w, "candidate not found", http.StatusNotFound)
		return
	}
	h.snapshot(r)
	jsonOK(w, analysis)
}

func (h *Handler) questions(w http.ResponseWriter, r *http.Request, id string) {
	questions, ok := h.enricher.Questions(r.Context(), id)
	if !ok {
		jsonError(w, "candidate not found", http.StatusNotFound)
		return
	}
	jsonOK(w, map[string][]string{"questions": questions})
}

// ─── CSV ──────────────────────────────────────────────────────────────────────

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "read body failed", http.StatusBadRequest)
		return
	}

	imported := csvio.Import(string(data), string(StageInscrito), time.Now().UTC())
	for _, cand := range imported {
		h.candidates.Add(cand)
	}
	if len(imported) > 0 {
		h.snapshot(r)
	}
	log.Printf("[pipeline] CSV import: %d candidate(s) created", len(imported))
	jsonOK(w, map[string]int{"imported": len(imported)})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="candidates.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, csvio.Export(h.candidates.All()))
}

// ─── Jobs ─────────────────────────────────────────────────────────────────────

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Query().Get("active") == "true" {
		jsonOK(w, h.jobs.Active())
		return
	}
	jsonOK(w, h.jobs.All())
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func moveResponse(res MoveResult) map[string]any {
	out := map[string]any{"outcome": res.Outcome}
	switch res.Outcome {
	case OutcomeApplied, OutcomeNoop:
		out["candidate"] = res.Candidate
	case OutcomePending:
		out["missingFields"] = res.Missing
	}
	return out
}

// decodeSubmission converts the JSON value map into a typed Submission:
// booleans become boolean-choice answers, strings become text.
func decodeSubmission(values map[string]any) (Submission, error) {
	sub := make(Submission, len(values))
	for field, raw := range values {
		switch v := raw.(type) {
		case bool:
			flag := v
			sub[Field(field)] = FieldValue{Flag: &flag}
		case string:
			sub[Field(field)] = FieldValue{Text: v}
		default:
			return nil, fmt.Errorf("field %q has unsupported value type", field)
		}
	}
	return sub, nil
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
