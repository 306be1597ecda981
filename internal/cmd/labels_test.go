package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestLabelsCreateCommand(t *testing.T) {
	imagePath := writeTempImage(t, "forklift1.jpg")

	var contentType string
	handler := newRouteHandler().
		On("POST", "/detectors/5ab0b05e6b01810013ab2ef5/labels",
			func(w http.ResponseWriter, r *http.Request) {
				contentType = r.Header.Get("Content-Type")
				_, _ = w.Write([]byte(`{"label_id": "5cc0b05e6b01810013ab2ef5"}`))
			})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"labels", "create", "5ab0b05e6b01810013ab2ef5", "forklift",
			"--image", imagePath,
		}); err != nil {
			t.Errorf("labels create failed: %v", err)
		}
	})

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		t.Errorf("expected multipart upload, got content type %q", contentType)
	}
	if !strings.Contains(output, "5cc0b05e6b01810013ab2ef5") {
		t.Errorf("output missing label id: %s", output)
	}
}

func TestLabelsCreateCommand_BadBboxes(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{
		"labels", "create", "5ab0b05e6b01810013ab2ef5", "forklift",
		"--image", "f1.jpg",
		"--bboxes", "{not json",
	})
	if err == nil {
		t.Fatal("expected error for malformed bboxes")
	}
}

func TestAnnotationsGetCommand(t *testing.T) {
	var gotQuery string
	handler := newRouteHandler().
		On("GET", "/images/annotations", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			jsonResponse(200, `{"images": []}`)(w, r)
		})

	setupTestEnvWithHandler(t, handler)

	if err := Execute(context.Background(), []string{
		"labels", "annotations", "get", "--detector-id", "5ab0b05e6b01810013ab2ef5",
	}); err != nil {
		t.Fatalf("annotations get failed: %v", err)
	}

	if !strings.Contains(gotQuery, "detectorId=5ab0b05e6b01810013ab2ef5") {
		t.Errorf("query missing detectorId: %s", gotQuery)
	}
}

func TestAnnotationsGetCommand_NoSelector(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{"labels", "annotations", "get"})
	if err == nil {
		t.Fatal("expected error for missing selector")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}

func TestAnnotationsUpdateCommand(t *testing.T) {
	var gotBody string
	handler := newRouteHandler().
		On("PATCH", "/detectors/5ab0b05e6b01810013ab2ef5/labels/5cc0b05e6b01810013ab2ef5",
			func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				gotBody = r.PostForm.Encode()
				jsonResponse(200, `{"message": "successfully updated 1 images"}`)(w, r)
			})

	setupTestEnvWithHandler(t, handler)

	if err := Execute(context.Background(), []string{
		"labels", "annotations", "update",
		"5ab0b05e6b01810013ab2ef5", "5cc0b05e6b01810013ab2ef5",
		"--images", `[{"id":"5dd0b05e6b01810013ab2ef5","bboxes":[{"top":0.1,"left":0.2,"width":0.3,"height":0.4}]}]`,
	}); err != nil {
		t.Fatalf("annotations update failed: %v", err)
	}

	if !strings.Contains(gotBody, "images=") || !strings.Contains(gotBody, "5dd0b05e6b01810013ab2ef5") {
		t.Errorf("request body missing images payload: %s", gotBody)
	}
}

func TestAnnotationsUpdateCommand_BadJSON(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{
		"labels", "annotations", "update",
		"5ab0b05e6b01810013ab2ef5", "5cc0b05e6b01810013ab2ef5",
		"--images", "{not json",
	})
	if err == nil {
		t.Fatal("expected error for malformed images JSON")
	}
}

func TestLabelsDeleteCommand(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/detectors/5ab0b05e6b01810013ab2ef5/labels/5cc0b05e6b01810013ab2ef5",
			jsonResponse(200, `{"message": "deleted"}`))

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"labels", "delete", "5ab0b05e6b01810013ab2ef5", "5cc0b05e6b01810013ab2ef5",
		}); err != nil {
			t.Errorf("labels delete failed: %v", err)
		}
	})

	if !strings.Contains(output, "Deleted label") {
		t.Errorf("expected delete message, got: %s", output)
	}
}
