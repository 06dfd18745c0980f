package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fcurrie/serpentine-led-golang/internal/metrics"
	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

type fixedStatus types.Status

func (f fixedStatus) Status() types.Status { return types.Status(f) }

func TestRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Frames.Add(3)

	want := types.Status{
		State:      types.StateConnected,
		Remote:     "10.0.0.7:51000",
		Configured: true,
		Rows:       8,
		Cols:       32,
		Elements:   256,
	}
	srv := httptest.NewServer(NewRouter(fixedStatus(want), reg))
	defer srv.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, "OK"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "ledmatrix_frames_rendered_total 3"},
		{"status", http.MethodGet, "/status", http.StatusOK, `"rows":8`},
		{"post health", http.MethodPost, "/health", http.StatusMethodNotAllowed, ""},
		{"not found", http.MethodGet, "/frame", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("%s %s error = %v", tt.method, tt.path, err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("%s %s body = %q, want it to contain %q", tt.method, tt.path, body, tt.wantBody)
			}
		})
	}

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status error = %v", err)
	}
	defer resp.Body.Close()
	var got types.Status
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	got.ConnectedAt = want.ConnectedAt
	if got != want {
		t.Errorf("GET /status = %+v, want %+v", got, want)
	}
}
