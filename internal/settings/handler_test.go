package settings_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"youngtalents/pipeline-service/internal/model"
	"youngtalents/pipeline-service/internal/persist"
	"youngtalents/pipeline-service/internal/settings"
	"youngtalents/pipeline-service/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.CandidateStore) {
	t.Helper()
	templates := store.NewTemplateStore(store.SeedTemplates())
	candidates := store.NewCandidateStore()

	mux := http.NewServeMux()
	settings.NewHandler(templates, candidates, persist.NewMemory()).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, candidates
}

// ── Templates ──────────────────────────────────────────────────────────────

func TestHTTP_ListTemplates(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/templates")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var templates []model.EmailTemplate
	if err := json.NewDecoder(resp.Body).Decode(&templates); err != nil {
		t.Fatal(err)
	}
	if len(templates) != 2 {
		t.Errorf("templates = %d, want the 2 seeded ones", len(templates))
	}
}

func TestHTTP_ListTemplatesByStage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/templates?stage=Reprovado")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var templates []model.EmailTemplate
	json.NewDecoder(resp.Body).Decode(&templates)
	if len(templates) != 1 || templates[0].TriggerStatus != "Reprovado" {
		t.Errorf("filtered templates = %+v", templates)
	}
}

func TestHTTP_SaveTemplate_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"unknown trigger stage", `{"triggerStatus":"Contratado","subject":"x"}`},
		{"blank subject", `{"triggerStatus":"Considerado","subject":"  "}`},
	}
	for _, c := range cases {
		resp, err := http.Post(srv.URL+"/templates", "application/json", strings.NewReader(c.body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, resp.StatusCode)
		}
	}
}

func TestHTTP_DeleteTemplate(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/templates/1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d, want 200", resp.StatusCode)
	}
}

func TestHTTP_PreviewTemplate(t *testing.T) {
	srv, candidates := newTestServer(t)
	cand := candidates.Add(model.Candidate{Name: "Ana Souza", Role: "Product Designer"})

	resp, err := http.Get(srv.URL + "/templates/1/preview?candidateId=" + cand.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var preview map[string]string
	json.NewDecoder(resp.Body).Decode(&preview)
	if !strings.Contains(preview["body"], "Ana Souza") {
		t.Errorf("preview body = %q, want {nome} substituted", preview["body"])
	}
}

func TestHTTP_PreviewTemplate_UnknownCandidate(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/templates/1/preview?candidateId=missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// ── Preferences ────────────────────────────────────────────────────────────

func TestHTTP_ThemeRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	// Unset preference reads as 404.
	resp, err := http.Get(srv.URL + "/settings/theme")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unset theme status = %d, want 404", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/settings/theme", strings.NewReader("dark"))
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("put theme status = %d, want 200", putResp.StatusCode)
	}

	getResp, err := http.Get(srv.URL + "/settings/theme")
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	value, _ := io.ReadAll(getResp.Body)
	if string(value) != "dark" {
		t.Errorf("theme = %q, want dark", value)
	}
}

func TestHTTP_UnknownSetting(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/settings/wallpaper")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
