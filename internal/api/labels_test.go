package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateLabelWithImagesUploadsKeyedField(t *testing.T) {
	first := writeTempFile(t, "cat1.jpg", "img1")
	second := writeTempFile(t, "cat2.jpg", "img2")

	var gotName string
	var gotFiles []string
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detectors/d1/labels" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		gotName = r.FormValue("name")
		for _, header := range r.MultipartForm.File["imageFiles"] {
			f, err := header.Open()
			if err != nil {
				t.Fatalf("open part: %v", err)
			}
			content, _ := io.ReadAll(f)
			_ = f.Close()
			gotFiles = append(gotFiles, string(content))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"label_id": "l1"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Labels().CreateWithImages(context.Background(), "d1", "cat",
		[]string{first, second}, CreateLabelOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotName != "cat" {
		t.Errorf("Expected name field, got %q", gotName)
	}
	if len(gotFiles) != 2 || gotFiles[0] != "img1" || gotFiles[1] != "img2" {
		t.Errorf("Expected both images under imageFiles, got %v", gotFiles)
	}
}

func TestGetAnnotationsRequiresSelector(t *testing.T) {
	client := newTestClient("http://localhost")
	_, err := client.Labels().GetAnnotations(context.Background(), AnnotationsQuery{})
	var missing *MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingParamsError, got %v", err)
	}
}

func TestUpdateAnnotationsEncodesImages(t *testing.T) {
	var gotImages string
	var gotMethod string
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotImages = r.PostForm.Get("images")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Labels().UpdateAnnotations(context.Background(), "d1", "l1", []ImageAnnotation{
		{ID: "img1", Bboxes: []BoundingBox{{Top: 0.1, Left: 0.1, Width: 0.5, Height: 0.5}}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("Expected PATCH, got %s", gotMethod)
	}
	if gotImages != `[{"id":"img1","bboxes":[{"top":0.1,"left":0.1,"width":0.5,"height":0.5}]}]` {
		t.Errorf("Unexpected images encoding: %s", gotImages)
	}
}
