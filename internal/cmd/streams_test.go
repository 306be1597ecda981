package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestStreamsCreateCommand(t *testing.T) {
	var gotBody string
	handler := newRouteHandler().
		On("POST", "/streams", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			gotBody = r.PostForm.Encode()
			jsonResponse(200, `{"streamId": "5ff0b05e6b01810013ab2ef5", "name": "dock-cam"}`)(w, r)
		})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"streams", "create", "rtsp://cam.local/feed", "dock-cam",
			"--detection-fps", "2", "--recording",
		}); err != nil {
			t.Errorf("streams create failed: %v", err)
		}
	})

	if !strings.Contains(gotBody, "name=dock-cam") {
		t.Errorf("request body missing name: %s", gotBody)
	}
	if !strings.Contains(gotBody, "recordingEnabled=true") {
		t.Errorf("request body missing recordingEnabled: %s", gotBody)
	}
	if !strings.Contains(output, "5ff0b05e6b01810013ab2ef5") {
		t.Errorf("output missing stream id: %s", output)
	}
}

func TestStreamsListCommand(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/streams", jsonResponse(200, `[
			{"streamId": "5ff0b05e6b01810013ab2ef5", "name": "dock-cam", "url": "rtsp://cam.local/feed"}
		]`))

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"streams", "list"}); err != nil {
			t.Errorf("streams list failed: %v", err)
		}
	})

	if !strings.Contains(output, "dock-cam") || !strings.Contains(output, "rtsp://cam.local/feed") {
		t.Errorf("output missing stream row: %s", output)
	}
}

func TestStreamsMonitorCommand(t *testing.T) {
	var gotBody string
	handler := newRouteHandler().
		On("POST", "/streams/5ff0b05e6b01810013ab2ef5/monitor/5ab0b05e6b01810013ab2ef5",
			func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				gotBody = r.PostForm.Encode()
				jsonResponse(200, `{"monitoringId": "6aa0b05e6b01810013ab2ef5"}`)(w, r)
			})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"streams", "monitor", "5ff0b05e6b01810013ab2ef5", "5ab0b05e6b01810013ab2ef5",
			"--threshold", "forklift=0.7",
			"--endpoint", "https://hooks.example.com/matroid",
			"--email",
		}); err != nil {
			t.Errorf("streams monitor failed: %v", err)
		}
	})

	for _, want := range []string{"thresholds=", "forklift", "endpoint=", "sendEmailNotifications=true"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %q: %s", want, gotBody)
		}
	}
	if !strings.Contains(output, "6aa0b05e6b01810013ab2ef5") {
		t.Errorf("output missing monitoring id: %s", output)
	}
}

func TestStreamsMonitorCommand_BadThreshold(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{
		"streams", "monitor", "5ff0b05e6b01810013ab2ef5", "5ab0b05e6b01810013ab2ef5",
		"--threshold", "forklift",
	})
	if err == nil {
		t.Fatal("expected error for malformed threshold")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}

func TestMonitoringsListCommand(t *testing.T) {
	var gotQuery string
	handler := newRouteHandler().
		On("GET", "/monitorings", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonResponse(200, `[{"monitoringId": "6aa0b05e6b01810013ab2ef5", "state": "running"}]`)(w, r)
		})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"monitorings", "list", "--state", "running",
		}); err != nil {
			t.Errorf("monitorings list failed: %v", err)
		}
	})

	if !strings.Contains(gotQuery, "state=running") {
		t.Errorf("query missing state filter: %s", gotQuery)
	}
	if !strings.Contains(output, "6aa0b05e6b01810013ab2ef5") {
		t.Errorf("output missing monitoring: %s", output)
	}
}

func TestMonitoringsResultCommand_CSV(t *testing.T) {
	const csvBody = "timestamp,label,score\n2026-08-31T00:00:00Z,forklift,0.91\n"
	handler := newRouteHandler().
		On("GET", "/monitorings/6aa0b05e6b01810013ab2ef5", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(csvBody))
		})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"monitorings", "result", "6aa0b05e6b01810013ab2ef5", "--format", "csv",
		}); err != nil {
			t.Errorf("monitorings result failed: %v", err)
		}
	})

	if output != csvBody {
		t.Errorf("expected raw CSV passthrough, got: %q", output)
	}
}

func TestMonitoringsKillCommand(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/monitorings/6aa0b05e6b01810013ab2ef5/kill", jsonResponse(200, `{"message": "killed"}`))

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"monitorings", "kill", "6aa0b05e6b01810013ab2ef5",
		}); err != nil {
			t.Errorf("monitorings kill failed: %v", err)
		}
	})

	if !strings.Contains(output, "Killed monitoring") {
		t.Errorf("expected kill message, got: %s", output)
	}
}
