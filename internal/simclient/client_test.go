package simclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStatusDecodesPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != statusPath {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Status{
			Running:       true,
			ActiveRuns:    2,
			QueuedRuns:    5,
			EngineVersion: "1.4.2",
			UpdatedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		})
	}))
	defer srv.Close()

	client, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if !status.Running || status.ActiveRuns != 2 || status.EngineVersion != "1.4.2" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestSubmitRunSendsScenario(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != runsPath {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Scenario != "orbital-decay" {
			t.Errorf("scenario = %q", req.Scenario)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(RunAccepted{RunID: "r-1", Position: 3})
	}))
	defer srv.Close()

	client, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	accepted, err := client.SubmitRun(context.Background(), RunRequest{
		Scenario:   "orbital-decay",
		Parameters: map[string]string{"dt": "0.01"},
	})
	if err != nil {
		t.Fatalf("SubmitRun() error: %v", err)
	}
	if accepted.RunID != "r-1" || accepted.Position != 3 {
		t.Fatalf("unexpected acknowledgement: %+v", accepted)
	}
}

func TestSubmitRunRejectsEmptyScenario(t *testing.T) {
	t.Parallel()

	client, err := New("http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.SubmitRun(context.Background(), RunRequest{Scenario: "  "})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "EMPTY_SCENARIO" {
		t.Fatalf("expected EMPTY_SCENARIO, got %v", err)
	}
}

func TestBackendRejectionMapsToAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode string
	}{
		{
			name: "structured error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"code":"RUN_LIMIT","message":"too many active runs"}`))
			},
			wantCode: "RUN_LIMIT",
		},
		{
			name: "opaque error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream exploded"))
			},
			wantCode: "HTTP_502",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client, err := New(srv.URL, srv.Client())
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			_, err = client.Status(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestTransportFailureMapsToUnavailable(t *testing.T) {
	t.Parallel()

	// Reserved port with nothing listening.
	client, err := New("http://127.0.0.1:1", &http.Client{Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.Status(context.Background())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := New("ftp://example.com", nil); err == nil {
		t.Fatal("expected scheme rejection")
	}
}
