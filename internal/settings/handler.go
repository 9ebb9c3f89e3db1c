// Package settings serves the operator configuration surface: the
// stage-triggered email templates and the theme/avatar preferences kept in
// the external key-value store.
//
// Routes:
//
//	GET    /templates                 → list templates
//	POST   /templates                 → create or update a template
//	DELETE /templates/{id}            → remove a template
//	GET    /templates/{id}/preview    → render placeholders for a candidate (?candidateId=)
//	GET    /settings/{key}            → read theme or avatar
//	PUT    /settings/{key}            → write theme or avatar
package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"youngtalents/pipeline-service/internal/funnel"
	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/persist"
	"youngtalents/pipeline-service/internal/store"
)

// CandidateReader resolves candidates for template previews.
type CandidateReader interface {
	Get(id string) (model.Candidate, bool)
}

// Handler holds the configuration dependencies.
type Handler struct {
	templates  *store.TemplateStore
	candidates CandidateReader
	kv         persist.KV
}

// NewHandler returns a configured Handler.
func NewHandler(templates *store.TemplateStore, candidates CandidateReader, kv persist.KV) *Handler {
	return &Handler{templates: templates, candidates: candidates, kv: kv}
}

// RegisterRoutes mounts the configuration routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/templates", h.handleTemplates)
	mux.HandleFunc("/templates/", h.handleTemplateAction)
	mux.HandleFunc("/settings/", h.handlePreference)
}

// ─── Templates ────────────────────────────────────────────────────────────────

func (h *Handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if stage := r.URL.Query().Get("stage"); stage != "" {
			jsonOK(w, h.templates.ForStage(stage))
			return
		}
		jsonOK(w, h.templates.All())
	case http.MethodPost:
		h.saveTemplate(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var tmpl model.EmailTemplate
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if _, err := funnel.ParseStage(tmpl.TriggerStatus); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(tmpl.Subject) == "" {
		jsonError(w, "subject is required", http.StatusBadRequest)
		return
	}
	jsonOK(w, h.templates.Save(tmpl))
}

func (h *Handler) handleTemplateAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && r.Method == http.MethodDelete:
		h.templates.Delete(parts[1])
		jsonOK(w, map[string]string{"status": "deleted"})
	case len(parts) == 3 && parts[2] == "preview" && r.Method == http.MethodGet:
		h.previewTemplate(w, r, parts[1])
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) previewTemplate(w http.ResponseWriter, r *http.Request, id string) {
	tmpl, ok := h.templates.Get(id)
	if !ok {
		jsonError(w, "template not found", http.StatusNotFound)
		return
	}
	cand, ok := h.candidates.Get(r.URL.Query().Get("candidateId"))
	if !ok {
		jsonError(w, "candidate not found", http.StatusNotFound)
		return
	}
	subject, body := store.RenderPreview(tmpl, cand)
	jsonOK(w, map[string]string{"subject": subject, "body": body})
}

// ─── Preferences ──────────────────────────────────────────────────────────────

var preferenceKeys = map[string]string{
	"theme":  persist.KeyTheme,
	"avatar": persist.KeyAvatar,
}

// handlePreference reads or writes a preference value through the KV
// contract. Values are opaque bytes: the theme is a short string, the
// avatar a data URL.
func (h *Handler) handlePreference(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/settings/")
	key, ok := preferenceKeys[name]
	if !ok {
		jsonError(w, fmt.Sprintf("unknown setting %q", name), http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		value, err := h.kv.Get(r.Context(), key)
		if err == persist.ErrKeyNotFound {
			jsonError(w, "not set", http.StatusNotFound)
			return
		}
		if err != nil {
			jsonError(w, "storage error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(value)
	case http.MethodPut:
		value, err := io.ReadAll(r.Body)
		if err != nil {
			jsonError(w, "read body failed", http.StatusBadRequest)
			return
		}
		if err := h.kv.Set(r.Context(), key, value); err != nil {
			jsonError(w, "storage error", http.StatusInternalServerError)
			return
		}
		jsonOK(w, map[string]string{"status": "ok"})
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

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
