package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VoxDroid/taxis/internal/taxi"
)

func seedScenario(t *testing.T) string {
	t.Helper()
	url, repo := newTestService(t)
	seed(t, repo,
		taxi.Taxi{Registration: "CAT0001", Seat: "7"},
		taxi.Taxi{Registration: "ABC1234", Seat: "4"},
		taxi.Taxi{Registration: "abz9999", Seat: "4"},
	)
	return url
}

func TestListGroupsByInitial(t *testing.T) {
	url := seedScenario(t)
	out, _, err := runCLI(t, "", "list", "--base-url", url)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	iA, iB, iC := strings.Index(out, "ABC1234"), strings.Index(out, "abz9999"), strings.Index(out, "CAT0001")
	if iA < 0 || iB < 0 || iC < 0 || !(iA < iB && iB < iC) {
		t.Fatalf("unexpected order:\n%s", out)
	}
	if !strings.Contains(out, "3 taxis") {
		t.Fatalf("missing count:\n%s", out)
	}
}

func TestListSearch(t *testing.T) {
	url := seedScenario(t)
	out, _, err := runCLI(t, "", "list", "--base-url", url, "--search", "cat")
	if err != nil {
		t.Fatalf("list --search: %v", err)
	}
	if !strings.Contains(out, "CAT0001") || strings.Contains(out, "ABC1234") || !strings.Contains(out, "1 taxi\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestListFuzzy(t *testing.T) {
	url := seedScenario(t)
	out, _, err := runCLI(t, "", "list", "--base-url", url, "--search", "ct1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "0 taxis") {
		t.Fatalf("substring search should match nothing:\n%s", out)
	}
	out, _, err = runCLI(t, "", "list", "--base-url", url, "--search", "ct1", "--fuzzy")
	if err != nil {
		t.Fatalf("list --fuzzy: %v", err)
	}
	if !strings.Contains(out, "CAT0001") {
		t.Fatalf("fuzzy search should match CAT0001:\n%s", out)
	}
}

func TestListJSON(t *testing.T) {
	url := seedScenario(t)
	out, _, err := runCLI(t, "", "list", "--base-url", url, "--json")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var got map[string][]map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got["A"]) != 2 || len(got["C"]) != 1 || got["C"][0]["registration"] != "CAT0001" {
		t.Fatalf("unexpected grouping %v", got)
	}
}

func TestListReportsDangerMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"db":"database offline","cache":"cache cold"}`))
	}))
	defer srv.Close()

	out, errOut, err := runCLI(t, "", "list", "--base-url", srv.URL, "--log-level", "error")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported failure, got %v", err)
	}
	if errOut != "danger: database offline\ndanger: cache cold\n" {
		t.Fatalf("unexpected stderr %q", errOut)
	}
	if out != "" {
		t.Fatalf("nothing should be listed on failure, got %q", out)
	}
}
