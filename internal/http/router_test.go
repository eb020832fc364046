package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/http/handlers"
	"imageforge/internal/infra"
	"imageforge/internal/jobstore"
	"imageforge/internal/metrics"
	"imageforge/internal/providers"
	"imageforge/internal/registry"
)

type testEnv struct {
	server *httptest.Server
	store  *jobstore.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &infra.Config{AppEnv: "development"}
	store := jobstore.New(time.Hour)
	m := metrics.New()
	reg := registry.New(cfg, store, zerolog.Nop(), m, providers.Options{Pace: time.Millisecond})
	app := &handlers.App{Config: cfg, Logger: zerolog.Nop(), Store: store, Registry: reg}

	server := httptest.NewServer(NewRouter(app, m.Handler()))
	t.Cleanup(server.Close)
	return &testEnv{server: server, store: store}
}

func (e *testEnv) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeJob(t *testing.T, resp *http.Response) domain.Job {
	t.Helper()
	defer resp.Body.Close()
	var job domain.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	return job
}

func TestGenerateReturnsPendingJob(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/generate", map[string]string{"prompt": "a fox", "mode": "studio-portrait"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	job := decodeJob(t, resp)

	if job.JobID == "" {
		t.Error("empty jobId")
	}
	if job.Status != domain.JobStatusPending {
		t.Errorf("status = %s, want pending", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("progress = %d, want 0", job.Progress)
	}
	if job.ModelID != providers.ModelLocal {
		t.Errorf("modelId = %s, want local fallback", job.ModelID)
	}
	if _, err := env.store.Get(job.JobID); err != nil {
		t.Errorf("job not stored: %v", err)
	}
}

func TestGenerateRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing prompt", map[string]string{"mode": "studio-portrait"}},
		{"missing mode", map[string]string{"prompt": "a fox"}},
		{"empty body", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.post(t, "/generate", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}

	if env.store.Len() != 0 {
		t.Errorf("store holds %d jobs after rejected requests, want 0", env.store.Len())
	}
}

func TestEditRequiresSourceAndMask(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/edit", map[string]string{"prompt": "add a hat", "mode": "inpaint"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp = env.post(t, "/edit", map[string]string{
		"prompt":   "add a hat",
		"mode":     "inpaint",
		"imageUrl": "/uploads/source.png",
		"maskUrl":  "/uploads/mask.png",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGenerateSanitizesPrompt(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/generate", map[string]string{
		"prompt": "portrait of jane@example.com",
		"mode":   "studio-portrait",
	})
	job := decodeJob(t, resp)

	// The sanitized prompt never reaches the stored job, but dispatch must
	// succeed and the request must not be rejected for containing PII.
	if job.Status != domain.JobStatusPending {
		t.Errorf("status = %s, want pending", job.Status)
	}
}

func TestJobStatusRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	created := decodeJob(t, env.post(t, "/generate", map[string]string{"prompt": "a fox", "mode": "studio-portrait"}))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("%s/job/%s", env.server.URL, created.JobID))
		if err != nil {
			t.Fatalf("GET job: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		job := decodeJob(t, resp)
		if job.Status == domain.JobStatusCompleted {
			if job.FinalURL == "" {
				t.Error("completed without finalUrl")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job never completed over the API")
}

func TestJobStatusUnknownID(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/job/job_nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCancelJobRemovesIt(t *testing.T) {
	env := newTestEnv(t)

	// Slow pipeline so the cancel lands mid-flight.
	cfg := &infra.Config{AppEnv: "development"}
	store := jobstore.New(time.Hour)
	reg := registry.New(cfg, store, zerolog.Nop(), nil, providers.Options{Pace: 100 * time.Millisecond})
	app := &handlers.App{Config: cfg, Logger: zerolog.Nop(), Store: store, Registry: reg}
	server := httptest.NewServer(NewRouter(app, nil))
	defer server.Close()
	env = &testEnv{server: server, store: store}

	created := decodeJob(t, env.post(t, "/generate", map[string]string{"prompt": "a fox", "mode": "studio-portrait"}))

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/job/%s", env.server.URL, created.JobID), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Message   string `json:"message"`
		Cancelled bool   `json:"cancelled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Cancelled {
		t.Error("cancelled = false for in-flight job")
	}
	if _, err := store.Get(created.JobID); err == nil {
		t.Error("job still in store after DELETE")
	}
}

func TestCancelUnknownJob(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/job/job_nope", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestModelsListing(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/models")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Models []registry.Entry `json:"models"`
		Count  int              `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || len(body.Models) != 1 {
		t.Fatalf("count = %d, models = %d, want 1 each without credentials", body.Count, len(body.Models))
	}
	if body.Models[0].ID != providers.ModelLocal {
		t.Errorf("model = %s, want %s", body.Models[0].ID, providers.ModelLocal)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}
