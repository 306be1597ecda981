// Test utilities for the matroid CLI commands.
//
// The pieces here mirror how the commands talk to the API in production:
//
//   - routeHandler: a chainable HTTP handler routing "METHOD /path" to mocks
//   - setupTestEnvWithHandler: starts a test server and points the CLI at it
//     through MATROID_* environment variables
//   - captureStdout / captureStderr: output capture
//   - jsonResponse: shorthand for fixed JSON responses
//
// Every test server answers POST /oauth/token automatically so commands can
// authenticate without each test registering the route.
package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

const testTokenJSON = `{"token_type": "Bearer", "access_token": "test-token"}`

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// withTokenEndpoint wraps next so POST /oauth/token always succeeds.
func withTokenEndpoint(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/oauth/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(testTokenJSON))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// setupTestEnvWithHandler starts a mock API server and points the CLI at it.
// The token route is answered automatically; tests that need to see the grant
// requests themselves use setupTestEnvRaw instead.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	return setupTestEnvRaw(t, withTokenEndpoint(handler))
}

// setupTestEnvRaw starts a mock API server without the automatic token route
// and points the CLI at it. Credentials come from the environment, so no
// keyring access happens during tests. Caching is disabled to keep lookups
// hitting the mock server.
func setupTestEnvRaw(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("MATROID_BASE_URL", server.URL)
	t.Setenv("MATROID_CLIENT_ID", "test-client-id")
	t.Setenv("MATROID_CLIENT_SECRET", "test-client-secret")
	t.Setenv("MATROID_OUTPUT", "text")
	t.Setenv("MATROID_NO_CACHE", "1")
	t.Setenv("MATROID_PROFILE", "")

	return server
}

// jsonResponse creates an http.HandlerFunc returning a fixed JSON body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests by exact "METHOD PATH" match; unmatched
// requests get 404.
type routeHandler struct {
	routes map[string]http.HandlerFunc
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the given HTTP method and path, returning the
// routeHandler for chaining.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	if handler, ok := rh.routes[key]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}
