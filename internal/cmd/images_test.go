package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatalf("failed to write temp image: %v", err)
	}
	return path
}

func TestImagesClassifyCommand_URL(t *testing.T) {
	var gotBody string
	handler := newRouteHandler().
		On("POST", "/detectors/5ab0b05e6b01810013ab2ef5/classify_image", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			gotBody = r.PostForm.Encode()
			jsonResponse(200, `{"results": [{"predictions": [{"labels": {"cat": 0.94}}]}]}`)(w, r)
		})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"images", "classify", "5ab0b05e6b01810013ab2ef5",
			"--url", "https://example.com/cat.jpg",
			"--num-results", "3",
		}); err != nil {
			t.Errorf("images classify failed: %v", err)
		}
	})

	if !strings.Contains(gotBody, "url=") {
		t.Errorf("request body missing url: %s", gotBody)
	}
	if !strings.Contains(gotBody, "num_results=3") {
		t.Errorf("request body missing num_results: %s", gotBody)
	}
	if !strings.Contains(output, "cat") {
		t.Errorf("output missing predictions: %s", output)
	}
}

func TestImagesClassifyCommand_File(t *testing.T) {
	imagePath := writeTempImage(t, "cat.jpg")

	var contentType string
	handler := newRouteHandler().
		On("POST", "/detectors/5ab0b05e6b01810013ab2ef5/classify_image", func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			_, _ = w.Write([]byte(`{"results": []}`))
		})

	setupTestEnvWithHandler(t, handler)

	if err := Execute(context.Background(), []string{
		"images", "classify", "5ab0b05e6b01810013ab2ef5",
		"--file", imagePath,
	}); err != nil {
		t.Fatalf("images classify failed: %v", err)
	}

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		t.Errorf("expected multipart upload, got content type %q", contentType)
	}
}

func TestImagesClassifyCommand_Each(t *testing.T) {
	first := writeTempImage(t, "a.jpg")
	second := writeTempImage(t, "b.jpg")

	requests := 0
	handler := newRouteHandler().
		On("POST", "/detectors/5ab0b05e6b01810013ab2ef5/classify_image", func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(`{"results": []}`))
		})

	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{
			"images", "classify", "5ab0b05e6b01810013ab2ef5",
			"--file", first, "--file", second,
			"--each", "--concurrency", "1",
		}); err != nil {
			t.Errorf("images classify --each failed: %v", err)
		}
	})

	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v, output: %s", err, output)
	}
	if _, ok := doc[first]; !ok {
		t.Errorf("output missing entry for %s: %s", first, output)
	}
	if _, ok := doc[second]; !ok {
		t.Errorf("output missing entry for %s: %s", second, output)
	}
}

func TestImagesClassifyCommand_EachWithoutFiles(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{
		"images", "classify", "5ab0b05e6b01810013ab2ef5", "--each",
	})
	if err == nil {
		t.Fatal("expected error for --each without files")
	}
}

func TestImagesLocalizeCommand_UpdateMode(t *testing.T) {
	var gotBody string
	handler := newRouteHandler().
		On("POST", "/localize", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			gotBody = r.PostForm.Encode()
			jsonResponse(200, `{"results": []}`)(w, r)
		})

	setupTestEnvWithHandler(t, handler)

	if err := Execute(context.Background(), []string{
		"images", "localize", "5ab0b05e6b01810013ab2ef5", "car",
		"--update", "--label-id", "label-1", "--image-id", "image-1",
	}); err != nil {
		t.Fatalf("images localize failed: %v", err)
	}

	for _, want := range []string{"update=true", "labelId=label-1", "imageId=image-1", "localizer=", "localizerLabel=car"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %q: %s", want, gotBody)
		}
	}
}

func TestImagesLocalizeCommand_UpdateMissingLabel(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	err := Execute(context.Background(), []string{
		"images", "localize", "DEFAULT_FACE", "face", "--update",
	})
	if err == nil {
		t.Fatal("expected error for update mode without label id")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}
