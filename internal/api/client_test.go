package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

const testTokenJSON = `{"token_type": "Bearer", "access_token": "test-token"}`

// newTokenHandler wraps next with the oauth/token endpoint so clients can
// authenticate against the test server. tokenCalls counts grant requests.
func newTokenHandler(tokenCalls *int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/oauth/token") {
			if tokenCalls != nil {
				*tokenCalls++
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testTokenJSON))
			return
		}
		next(w, r)
	}
}

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL:      baseURL,
		ClientID:     "test-id",
		ClientSecret: "test-secret",
	})
}

func TestGenericRequestUnknownAction(t *testing.T) {
	client := newTestClient("http://localhost")

	_, err := client.genericRequest(context.Background(), request{action: actionCount})
	if err == nil {
		t.Fatal("Expected error for unregistered action")
	}
	if !strings.Contains(err.Error(), "unknown API action") {
		t.Errorf("Expected unknown action error, got %v", err)
	}
}

func TestGenericRequestGetWithQuery(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detector": {"id": "abc123"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data := url.Values{}
	data.Set("full", "true")

	result, err := client.genericRequest(context.Background(), request{
		action:    ActionGetDetectorInfo,
		uriParams: map[string]string{":key": "abc123"},
		data:      data,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Method != http.MethodGet {
		t.Errorf("Expected GET, got %s", got.Method)
	}
	if got.URL.Path != "/detectors/abc123" {
		t.Errorf("Expected path /detectors/abc123, got %s", got.URL.Path)
	}
	if got.URL.Query().Get("full") != "true" {
		t.Errorf("Expected full=true query, got %s", got.URL.RawQuery)
	}
	if got.Header.Get("Authorization") != "Bearer test-token" {
		t.Errorf("Expected cached auth header, got %q", got.Header.Get("Authorization"))
	}
	if got.ContentLength > 0 {
		t.Errorf("Expected no request body on GET, got length %d", got.ContentLength)
	}

	doc, ok := result.Value.(map[string]any)
	if !ok {
		t.Fatalf("Expected parsed JSON document, got %T", result.Value)
	}
	if _, ok := doc["detector"]; !ok {
		t.Error("Expected detector key in parsed response")
	}
}

func TestGenericRequestFormBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotBody = r.PostForm.Encode()
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data := url.Values{}
	data.Set("name", "traffic-cam")
	data.Set("url", "rtsp://example.com/cam")

	_, err := client.genericRequest(context.Background(), request{
		action: ActionCreateStream,
		data:   data,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Expected form content type, got %q", gotContentType)
	}
	if !strings.Contains(gotBody, "name=traffic-cam") {
		t.Errorf("Expected name field in body, got %q", gotBody)
	}
}

func TestGenericRequestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	client := newTestClient(server.URL)
	_, err := client.genericRequest(context.Background(), request{
		action: ActionListDetectors,
		noAuth: true,
	})
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("Expected wrapped transport error, got %v", err)
	}
}

func TestGenericRequestAuthFailureReleasesUpload(t *testing.T) {
	uploads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/oauth/token") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
			return
		}
		uploads++
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("not really a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := newTestClient(server.URL)
	before := runtime.NumGoroutine()

	for i := 0; i < 10; i++ {
		_, err := client.Images().Classify(context.Background(), "det1", Image{Files: []string{path}}, ClassifyImageOptions{})
		if err == nil {
			t.Fatal("Expected auth failure")
		}
		var extractErr *TokenExtractionError
		if !errors.As(err, &extractErr) {
			t.Fatalf("Expected token extraction error, got %v", err)
		}
	}

	if uploads != 0 {
		t.Errorf("Expected no classify request after auth failures, got %d", uploads)
	}

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if after := runtime.NumGoroutine(); after > before+4 {
		t.Errorf("Goroutine count grew from %d to %d across failed uploads", before, after)
	}
}

func TestGenericRequestServiceErrorEnvelopePassesThrough(t *testing.T) {
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "not_found", "message": "invalid detector id"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Detectors().GetInfo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Status codes must not become errors, got %v", err)
	}

	code, message, ok := result.ErrorEnvelope()
	if !ok {
		t.Fatal("Expected service error envelope")
	}
	if code != "not_found" || message != "invalid detector id" {
		t.Errorf("Unexpected envelope: %s / %s", code, message)
	}
}

func TestDoDispatchesByAction(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(newTokenHandler(nil, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"collection": {}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	action, ok := ActionByName("getCollection")
	if !ok {
		t.Fatal("Expected getCollection to resolve")
	}

	_, err := client.Do(context.Background(), action, nil, map[string]string{":key": "col1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotPath != "/collections/col1" {
		t.Errorf("Expected /collections/col1, got %s", gotPath)
	}
}

func TestActionByNameUnknown(t *testing.T) {
	if _, ok := ActionByName("definitelyNotAnAction"); ok {
		t.Error("Expected unknown name to fail resolution")
	}
}

func TestResultDecode(t *testing.T) {
	body := []byte(`{"token_type": "Bearer", "access_token": "abc"}`)
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		t.Fatal(err)
	}
	result := Result{Value: value, body: body}

	var token Token
	if err := result.Decode(&token); err != nil {
		t.Fatalf("Unexpected decode error: %v", err)
	}
	if token.TokenType != "Bearer" || token.AccessToken != "abc" {
		t.Errorf("Unexpected token: %+v", token)
	}
}
