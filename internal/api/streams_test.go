package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestMonitorStreamEncodesThresholds(t *testing.T) {
	var gotForm url.Values
	var gotPath string
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"monitoring_id": "m1"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Streams().Monitor(context.Background(), "s1", "d2", MonitorStreamOptions{
		Thresholds:           map[string]float64{"cat": 0.5},
		TaskName:             "cat-watch",
		MinDetectionInterval: 30,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/streams/s1/monitor/d2" {
		t.Errorf("Expected both uri params substituted, got %s", gotPath)
	}
	if gotForm.Get("thresholds") != `{"cat":0.5}` {
		t.Errorf("Expected JSON-encoded thresholds, got %q", gotForm.Get("thresholds"))
	}
	if gotForm.Get("taskName") != "cat-watch" {
		t.Errorf("Unexpected taskName: %q", gotForm.Get("taskName"))
	}
	if gotForm.Get("minDetectionInterval") != "30" {
		t.Errorf("Unexpected minDetectionInterval: %q", gotForm.Get("minDetectionInterval"))
	}
}

func TestGetMonitoringResultFormats(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		body    string
		wantRaw bool
	}{
		{
			name:   "default json parses",
			format: "",
			body:   `{"detections": []}`,
		},
		{
			name:   "explicit json parses",
			format: "JSON",
			body:   `{"detections": []}`,
		},
		{
			name:    "csv bypasses parsing",
			format:  "csv",
			body:    "time,label,score\n0,cat,0.9\n",
			wantRaw: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery url.Values
			server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			result, err := client.Streams().GetMonitoringResult(context.Background(), "m1", MonitoringResultOptions{
				Format:    tt.format,
				StartTime: "2024-01-01T00:00:00Z",
			})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if gotQuery.Get("start_time") != "2024-01-01T00:00:00Z" {
				t.Errorf("Expected snake_cased start_time, got %v", gotQuery)
			}

			if tt.wantRaw {
				if !bytes.Equal(result.Raw, []byte(tt.body)) {
					t.Errorf("Expected raw passthrough, got %q", result.Raw)
				}
			} else if result.Value == nil {
				t.Error("Expected parsed JSON result")
			}
		})
	}
}

func TestSearchMonitoringsSnakeCasesKeys(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Streams().SearchMonitorings(context.Background(), SearchMonitoringsOptions{
		StreamID:   "s1",
		DetectorID: "d1",
		State:      "ready",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotQuery.Get("stream_id") != "s1" || gotQuery.Get("detector_id") != "d1" {
		t.Errorf("Expected snake_cased ids, got %v", gotQuery)
	}
	if gotQuery.Get("state") != "ready" {
		t.Errorf("Expected state filter, got %v", gotQuery)
	}
}

func TestCreateStreamRequiredParams(t *testing.T) {
	client := newTestClient("http://localhost")
	_, err := client.Streams().Create(context.Background(), "", "cam", CreateStreamOptions{})
	if err == nil {
		t.Fatal("Expected missing url error")
	}
}
