package funnel_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"youngtalents/pipeline-service/internal/enrich"
	"youngtalents/pipeline-service/internal/funnel"
	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/persist"
	"youngtalents/pipeline-service/internal/store"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(context.Context, model.Candidate, model.Job) (enrich.Analysis, error) {
	return enrich.Analysis{Score: 70, Summary: "Perfil adequado."}, nil
}

func (stubAnalyzer) SuggestQuestions(context.Context, model.Candidate, model.Job) ([]string, error) {
	return []string{"Pergunta?"}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *store.CandidateStore) {
	t.Helper()
	candidates := store.NewCandidateStore()
	jobs := store.NewJobCatalog(store.SeedJobs())
	coord := funnel.NewCoordinator(candidates, persist.NewMemory(), nil, funnel.Policy{}, nil)
	enricher := enrich.NewEnricher(stubAnalyzer{}, candidates, jobs, nil)

	mux := http.NewServeMux()
	funnel.NewHandler(candidates, jobs, coord, enricher, nil).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, candidates
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ── Candidate CRUD ─────────────────────────────────────────────────────────

func TestHTTP_CreateAndGetCandidate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/candidates", `{"name":"Ana Souza","email":"ana@example.com"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created model.Candidate
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Status != "Inscrito" {
		t.Errorf("created = %+v, want id and default Inscrito stage", created)
	}

	getResp, err := http.Get(srv.URL + "/candidates/" + created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want 200", getResp.StatusCode)
	}
	var fetched model.Candidate
	decodeBody(t, getResp, &fetched)
	if fetched.Name != "Ana Souza" {
		t.Errorf("fetched = %+v", fetched)
	}
}

func TestHTTP_CreateCandidate_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Ana"}`},
		{"missing name", `{"email":"ana@example.com"}`},
		{"unknown stage", `{"name":"Ana","email":"a@b.com","status":"Contratado"}`},
		{"broken json", `{`},
	}
	for _, c := range cases {
		resp := postJSON(t, srv.URL+"/candidates", c.body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, resp.StatusCode)
		}
	}
}

func TestHTTP_GetCandidate_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/candidates/missing-id")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHTTP_ListWithFilters(t *testing.T) {
	srv, candidates := newTestServer(t)
	candidates.Add(model.Candidate{Name: "Ana", Email: "ana@example.com", Status: "Inscrito"})
	candidates.Add(model.Candidate{Name: "Bruno", Email: "bruno@example.com", Status: "Considerado"})

	resp, err := http.Get(srv.URL + "/candidates?status=Considerado")
	if err != nil {
		t.Fatal(err)
	}
	var listed []model.Candidate
	decodeBody(t, resp, &listed)
	if len(listed) != 1 || listed[0].Name != "Bruno" {
		t.Errorf("filtered list = %+v", listed)
	}
}

func TestHTTP_Board(t *testing.T) {
	srv, candidates := newTestServer(t)
	candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Inscrito"})

	resp, err := http.Get(srv.URL + "/candidates/board")
	if err != nil {
		t.Fatal(err)
	}
	var columns []struct {
		Stage      string            `json:"stage"`
		Ordinal    int               `json:"ordinal"`
		Candidates []model.Candidate `json:"candidates"`
	}
	decodeBody(t, resp, &columns)
	if len(columns) != 7 {
		t.Fatalf("board has %d columns, want 7", len(columns))
	}
	if columns[0].Stage != "Inscrito" || len(columns[0].Candidates) != 1 {
		t.Errorf("first column = %+v", columns[0])
	}
	if columns[6].Stage != "Reprovado" {
		t.Errorf("last column = %q, want Reprovado", columns[6].Stage)
	}
}

// ── Move / confirm / cancel over HTTP ──────────────────────────────────────

func TestHTTP_MoveAppliedDirectly(t *testing.T) {
	srv, candidates := newTestServer(t)
	lic := true
	cand := candidates.Add(model.Candidate{
		Name: "Ana", Email: "a@b.com", Status: "Inscrito",
		City: "Recife", HasDriverLicense: &lic,
	})

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/move", `{"targetStatus":"Considerado"}`)
	var body struct {
		Outcome   string          `json:"outcome"`
		Candidate model.Candidate `json:"candidate"`
	}
	decodeBody(t, resp, &body)
	if body.Outcome != "applied" || body.Candidate.Status != "Considerado" {
		t.Errorf("move response = %+v", body)
	}
}

func TestHTTP_MovePendingThenConfirm(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Inscrito"})

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/move", `{"targetStatus":"Considerado"}`)
	var pending struct {
		Outcome       string             `json:"outcome"`
		MissingFields []funnel.FieldSpec `json:"missingFields"`
	}
	decodeBody(t, resp, &pending)
	if pending.Outcome != "pending" || len(pending.MissingFields) != 2 {
		t.Fatalf("move response = %+v", pending)
	}

	confirmResp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/confirm",
		`{"values":{"city":"Recife","hasDriverLicense":false}}`)
	if confirmResp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", confirmResp.StatusCode)
	}
	var confirmed struct {
		Outcome   string          `json:"outcome"`
		Candidate model.Candidate `json:"candidate"`
	}
	decodeBody(t, confirmResp, &confirmed)
	if confirmed.Candidate.Status != "Considerado" || confirmed.Candidate.City != "Recife" {
		t.Errorf("confirmed candidate = %+v", confirmed.Candidate)
	}
	if confirmed.Candidate.HasDriverLicense == nil || *confirmed.Candidate.HasDriverLicense {
		t.Error("explicit false answer was not stored")
	}
}

func TestHTTP_ConfirmWithoutPending(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Inscrito"})

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/confirm", `{"values":{}}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestHTTP_ConfirmValidationFailure(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Entrevista II"})

	postJSON(t, srv.URL+"/candidates/"+cand.ID+"/move", `{"targetStatus":"Reprovado"}`).Body.Close()

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/confirm", `{"values":{"feedback":"  "}}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	// The interaction stayed open: a corrected confirm succeeds.
	retry := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/confirm", `{"values":{"feedback":"Fora do perfil"}}`)
	retry.Body.Close()
	if retry.StatusCode != http.StatusOK {
		t.Errorf("retry status = %d, want 200", retry.StatusCode)
	}
}

func TestHTTP_Cancel(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Inscrito"})

	postJSON(t, srv.URL+"/candidates/"+cand.ID+"/move", `{"targetStatus":"Considerado"}`).Body.Close()

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/cancel", `{}`)
	var body map[string]bool
	decodeBody(t, resp, &body)
	if !body["cancelled"] {
		t.Error("cancel did not clear the pending move")
	}

	stored, _ := candidates.Get(cand.ID)
	if stored.Status != "Inscrito" {
		t.Errorf("status = %q after cancel, want Inscrito", stored.Status)
	}
}

func TestHTTP_MoveUnknownStage(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Inscrito"})

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/move", `{"targetStatus":"Contratado"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// ── Enrichment routes ──────────────────────────────────────────────────────

func TestHTTP_AnalyzeAndQuestions(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana", Email: "a@b.com", Status: "Considerado"})

	resp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/analyze", `{}`)
	var analysis enrich.Analysis
	decodeBody(t, resp, &analysis)
	if analysis.Score != 70 {
		t.Errorf("analysis = %+v", analysis)
	}

	qResp := postJSON(t, srv.URL+"/candidates/"+cand.ID+"/questions", `{}`)
	var qBody map[string][]string
	decodeBody(t, qResp, &qBody)
	if len(qBody["questions"]) != 1 {
		t.Errorf("questions = %v", qBody)
	}
}

// ── CSV routes ─────────────────────────────────────────────────────────────

func TestHTTP_ImportExport(t *testing.T) {
	srv, candidates := newTestServer(t)

	csv := "header\n2024-06-01,sim,Ana Souza,24,1,2,ana@example.com,8199,Recife,Product Designer"
	resp := postJSON(t, srv.URL+"/candidates/import", csv)
	var imported map[string]int
	decodeBody(t, resp, &imported)
	if imported["imported"] != 1 {
		t.Fatalf("imported = %v, want 1", imported)
	}
	if candidates.Count() != 1 {
		t.Errorf("store has %d candidates after import", candidates.Count())
	}
	if all := candidates.All(); len(all) == 1 && all[0].Status != string(funnel.StageInscrito) {
		t.Errorf("imported status = %q, want the funnel entry stage", all[0].Status)
	}

	expResp, err := http.Get(srv.URL + "/candidates/export")
	if err != nil {
		t.Fatal(err)
	}
	defer expResp.Body.Close()
	if ct := expResp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("export Content-Type = %q", ct)
	}
}

// ── Jobs ───────────────────────────────────────────────────────────────────

func TestHTTP_ListJobs(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/jobs")
	if err != nil {
		t.Fatal(err)
	}
	var jobs []model.Job
	decodeBody(t, resp, &jobs)
	if len(jobs) != 2 {
		t.Errorf("jobs = %d, want the 2 seeded openings", len(jobs))
	}
}
