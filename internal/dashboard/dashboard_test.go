package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/linnemanlabs/deskpilot/internal/triage"
	"github.com/linnemanlabs/deskpilot/internal/triage/memstore"
)

func testServer(t *testing.T, apiToken string) (*httptest.Server, string) {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "triage_report.html"), []byte("<html>report</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := memstore.New()
	if err := store.Put(context.Background(), &triage.Result{
		TicketID:         "TCK-001",
		CustomerName:     "Acme Corp",
		AssignedPriority: triage.P2,
		AssignedAgent:    "Integrations & API Team",
	}); err != nil {
		t.Fatal(err)
	}

	s := New(dir, store, nil)
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	ts := httptest.NewServer(s.Handler(metricsHandler, apiToken))
	t.Cleanup(ts.Close)
	return ts, dir
}

func TestHandler_ServesBundle(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/triage_report.html")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandler_RootRedirectsToReport(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/triage_report.html" {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandler_ListResults(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/api/v1/results")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var results []*triage.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].TicketID != "TCK-001" {
		t.Errorf("results = %+v", results)
	}
}

func TestHandler_GetResult(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/api/v1/results/TCK-001")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var r triage.Result
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.AssignedAgent != "Integrations & API Team" {
		t.Errorf("AssignedAgent = %q", r.AssignedAgent)
	}
}

func TestHandler_GetResultNotFound(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/api/v1/results/TCK-999")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_APITokenRequired(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "secret-token")

	resp, err := http.Get(ts.URL + "/api/v1/results")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/results", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer secret-token")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", resp.StatusCode)
	}

	// Static bundle stays open.
	resp, err = http.Get(ts.URL + "/triage_report.html")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("bundle status = %d, want 200", resp.StatusCode)
	}
}

func TestHandler_Metrics(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestHandler_Healthy(t *testing.T) {
	t.Parallel()

	ts, _ := testServer(t, "")

	resp, err := http.Get(ts.URL + "/-/healthy")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
