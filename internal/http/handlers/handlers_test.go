package handlers_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"charforge-server/internal/adapter/repo"
	"charforge-server/internal/catalog"
	"charforge-server/internal/engine"
	"charforge-server/internal/http/handlers"
	"charforge-server/internal/http/httpapi"
	"charforge-server/internal/orchestrator"
	"charforge-server/internal/promptcache"
	"charforge-server/internal/providers/render"
	"charforge-server/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.Default()
	validator := engine.NewValidator(cat)
	cache, err := promptcache.NewMemory(32)
	if err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFileStore(t.TempDir(), "http://test.local/static")
	if err != nil {
		t.Fatal(err)
	}
	orch := orchestrator.New(orchestrator.Options{
		Repo:          repo.NewJobRepositoryMemory(),
		Validator:     validator,
		Engine:        engine.NewEngine(cat),
		Cache:         cache,
		Renderer:      render.NewLocal(),
		ProviderName:  "local",
		Store:         store,
		Logger:        zerolog.Nop(),
		RenderTimeout: 5 * time.Second,
	})
	app := handlers.NewApp(cat, validator, orch, cache, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewRouter(app, httpapi.Options{}))
	t.Cleanup(srv.Close)
	t.Cleanup(orch.Wait)
	return srv
}

func doJSON(t *testing.T, method, url, owner string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if owner != "" {
		req.Header.Set("X-User-ID", owner)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s response: %v", method, url, err)
	}
	return resp, decoded
}

func validPayload() map[string]any {
	return map[string]any{
		"pose":     "arms-crossed",
		"outfit":   "hoodie-sweatpants",
		"footwear": "air-jordan-1-chicago",
	}
}

func pollJob(t *testing.T, srv *httptest.Server, jobID, wantStatus string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/jobs/"+jobID, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status lookup returned %d", resp.StatusCode)
		}
		if body["status"] == wantStatus {
			return body
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %s", jobID, wantStatus)
	return nil
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestOptionsListsAllCategories(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/options", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, category := range []string{"poses", "outfits", "footwear", "props", "frames"} {
		items, ok := body[category].([]any)
		if !ok || len(items) == 0 {
			t.Errorf("category %q missing or empty: %v", category, body[category])
		}
	}
}

func TestValidateEndpointAlways200(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/validate", "", validPayload())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["is_valid"] != true {
		t.Fatalf("body = %v", body)
	}

	bad := validPayload()
	bad["outfit"] = "tshirt-shorts"
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/validate", "", bad)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, invalid selections still answer 200", resp.StatusCode)
	}
	if body["is_valid"] != false {
		t.Fatalf("body = %v", body)
	}
	if suggestions, ok := body["suggestions"].([]any); !ok || len(suggestions) == 0 {
		t.Fatalf("suggestions missing: %v", body)
	}
}

func TestGenerateRequiresOwner(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "", validPayload())
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestGenerateInvalidSelectionIs422(t *testing.T) {
	srv := newTestServer(t)
	bad := validPayload()
	bad["outfit"] = "tshirt-shorts"
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", bad)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body["is_valid"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestGenerateLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	jobID, _ := body["job_id"].(string)
	if jobID == "" {
		t.Fatalf("body = %v", body)
	}
	if body["status"] != "PENDING" {
		t.Fatalf("fresh job status = %v", body["status"])
	}

	done := pollJob(t, srv, jobID, "COMPLETE")
	url, _ := done["public_url"].(string)
	if url == "" {
		t.Fatalf("COMPLETE job without public_url: %v", done)
	}
	if done["service_used"] != "local" {
		t.Fatalf("service_used = %v", done["service_used"])
	}

	// The same owner and selection resolve to a fresh job after completion,
	// but while PENDING a duplicate returns the same id.
	resp2, body2 := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	if resp2.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp2.StatusCode)
	}
	if body2["job_id"] == jobID {
		t.Fatal("terminal job id was reissued")
	}
}

func TestJobStatusUnknownIs404(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/jobs/no-such-job", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if body["error"] != "not_found" {
		t.Fatalf("body = %v", body)
	}
}

func TestListJobsScopedToOwner(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	jobID, _ := created["job_id"].(string)
	pollJob(t, srv, jobID, "COMPLETE")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/jobs?limit=10", "user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	jobs, _ := body["jobs"].([]any)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %v", body["jobs"])
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/jobs", "user-2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if jobs, _ := body["jobs"].([]any); len(jobs) != 0 {
		t.Fatalf("foreign owner sees jobs: %v", body["jobs"])
	}
}

func TestRetryCompleteJobIsConflict(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	jobID, _ := created["job_id"].(string)
	pollJob(t, srv, jobID, "COMPLETE")

	resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/jobs/%s/retry", srv.URL, jobID), "user-1", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if body["error"] != "not_retryable" {
		t.Fatalf("body = %v", body)
	}
}

func TestAdminCleanupRejectsPending(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/admin/cleanup", "", map[string]any{
		"older_than_days": 0,
		"status":          "PENDING",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAdminCleanupAndStats(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	jobID, _ := created["job_id"].(string)
	pollJob(t, srv, jobID, "COMPLETE")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/admin/stats", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	jobStats, _ := body["jobs"].(map[string]any)
	if jobStats == nil || jobStats["total"] != float64(1) {
		t.Fatalf("jobs stats = %v", body["jobs"])
	}
	if _, ok := body["prompt_cache"].(map[string]any); !ok {
		t.Fatalf("prompt_cache missing: %v", body)
	}

	resp, cleanup := doJSON(t, http.MethodPost, srv.URL+"/v1/admin/cleanup", "", map[string]any{
		"older_than_days": 0,
		"status":          "COMPLETE",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cleanup["deleted"] != float64(1) {
		t.Fatalf("cleanup = %v", cleanup)
	}
}

func TestExportJobsBundlesArtifacts(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/jobs/export")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without owner", resp.StatusCode)
	}

	_, created := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	jobID, _ := created["job_id"].(string)
	pollJob(t, srv, jobID, "COMPLETE")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/jobs/export", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-User-ID", "user-1")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="user-1-jobs.zip"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != jobID+".png" {
		t.Fatalf("archive contents = %v", zr.File)
	}

	// An owner with no completed jobs has nothing to export.
	req2, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/jobs/export", nil)
	if err != nil {
		t.Fatal(err)
	}
	req2.Header.Set("X-User-ID", "user-2")
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for empty export", resp2.StatusCode)
	}
}

func TestAdminDeleteJob(t *testing.T) {
	srv := newTestServer(t)

	_, created := doJSON(t, http.MethodPost, srv.URL+"/v1/generate", "user-1", validPayload())
	jobID, _ := created["job_id"].(string)
	pollJob(t, srv, jobID, "COMPLETE")

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/v1/admin/jobs/"+jobID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/jobs/"+jobID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 after delete", resp.StatusCode)
	}
}
