package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matroid/matroid-cli/internal/debug"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://app.matroid.com/api/v1"

	// DefaultTimeout bounds every HTTP round-trip unless the caller
	// supplies their own http.Client.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "matroid-go"

	envClientID     = "MATROID_CLIENT_ID"
	envClientSecret = "MATROID_CLIENT_SECRET"
)

// Config holds the construction-time client parameters. All fields are
// read-only after New.
type Config struct {
	// BaseURL overrides the production API root.
	BaseURL string

	// ClientID and ClientSecret are the OAuth client-credentials pair.
	// Empty values fall back to MATROID_CLIENT_ID / MATROID_CLIENT_SECRET.
	ClientID     string
	ClientSecret string

	// UserAgent overrides the default request user agent.
	UserAgent string

	// FileSizeLimits sets per-media-type upload ceilings enforced before
	// dispatch. Zero-valued fields take the defaults.
	FileSizeLimits FileSizeLimits

	// HTTP replaces the default HTTP client (30s timeout).
	HTTP *http.Client
}

// Client is the Matroid API client. The only mutable shared state is the
// cached authorization header, owned by the embedded token manager; every
// other field is fixed at construction.
type Client struct {
	baseURL   string
	userAgent string
	endpoints map[Action]Endpoint
	limits    FileSizeLimits
	http      *http.Client

	creds credentials

	authMu     sync.Mutex
	authHeader string
	authGroup  singleflight.Group
}

type credentials struct {
	id     string
	secret string
}

// New creates a Matroid API client. The endpoint registry is built once here
// from the configured base URL.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = os.Getenv(envClientID)
	}
	clientSecret := cfg.ClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv(envClientSecret)
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		endpoints: endpointTable(baseURL),
		limits:    cfg.FileSizeLimits.withDefaults(),
		http:      httpClient,
		creds:     credentials{id: clientID, secret: clientSecret},
	}
}

// BaseURL reports the API root the client was built against.
func (c *Client) BaseURL() string { return c.baseURL }

// FileSizeLimits reports the effective upload ceilings.
func (c *Client) FileSizeLimits() FileSizeLimits { return c.limits }

// request describes one dispatch through the generic pipeline. Domain
// methods build a request and hand it to genericRequest; nothing else
// touches the wire.
type request struct {
	action         Action
	data           url.Values
	filePaths      FileSpec
	uriParams      map[string]string
	noAuth         bool
	shouldNotParse bool
}

// genericRequest is the single funnel every API method passes through:
// resolve the endpoint, attach headers, substitute URI parameters, shape the
// payload, issue the call, and normalize the response. Transport errors
// propagate to the caller unretried.
func (c *Client) genericRequest(ctx context.Context, req request) (Result, error) {
	endpoint, ok := c.endpoints[req.action]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.action)
	}

	// Headers resolve before the payload is shaped: an auth failure must not
	// leave opened file streams or a multipart pipe behind.
	var authHeader string
	if !req.noAuth {
		header, err := c.ensureAuthHeader(ctx)
		if err != nil {
			return Result{}, err
		}
		authHeader = header
	}

	uri := replaceParamsInURI(endpoint.URI, req.uriParams)

	pl, err := buildPayload(endpoint.Method, req.data, req.filePaths)
	if err != nil {
		return Result{}, err
	}
	if pl.query != "" {
		uri = uri + "?" + pl.query
	}

	httpReq, err := http.NewRequestWithContext(ctx, endpoint.Method, uri, pl.body)
	if err != nil {
		pl.close()
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	if pl.contentType != "" {
		httpReq.Header.Set("Content-Type", pl.contentType)
	}
	if authHeader != "" {
		httpReq.Header.Set("Authorization", authHeader)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("request complete",
			"action", req.action.String(),
			"method", endpoint.Method,
			"url", uri,
			"status", resp.StatusCode,
			"duration", time.Since(start))
	}

	return normalizeResponse(ctx, body, req.shouldNotParse), nil
}

// Do dispatches an arbitrary registered action. It exists for the raw CLI
// command; typed domain methods are preferred everywhere else.
func (c *Client) Do(ctx context.Context, action Action, data map[string]string, uriParams map[string]string) (Result, error) {
	vals := url.Values{}
	for k, v := range data {
		vals.Set(k, v)
	}
	return c.genericRequest(ctx, request{
		action:    action,
		data:      vals,
		uriParams: uriParams,
	})
}

// ActionByName resolves an action from its wire name, for the raw command.
func ActionByName(name string) (Action, bool) {
	for action, n := range actionNames {
		if n == name {
			return action, true
		}
	}
	return 0, false
}
