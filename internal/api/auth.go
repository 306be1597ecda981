package api

import (
	"context"
	"net/url"
)

// Token is the OAuth client-credentials grant response.
type Token struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// TokenOptions controls RetrieveToken. The contract has exactly two modes:
// with Refresh unset a cached header is returned without touching the
// network; with Refresh set a new grant is requested (and refresh=true is
// sent so the service reissues rather than reuses).
type TokenOptions struct {
	Refresh bool
}

// RetrieveToken returns the authorization header, issuing a
// client-credentials grant when no header is cached or a refresh is forced.
// Concurrent first calls are collapsed into a single grant request.
func (c *Client) RetrieveToken(ctx context.Context, opts TokenOptions) (string, error) {
	if !opts.Refresh {
		if header := c.cachedAuthHeader(); header != "" {
			return header, nil
		}
	}
	return c.fetchToken(ctx, opts.Refresh)
}

// ensureAuthHeader returns the cached header, fetching a first token on
// demand. The dispatcher calls this for every request not marked noAuth.
func (c *Client) ensureAuthHeader(ctx context.Context) (string, error) {
	if header := c.cachedAuthHeader(); header != "" {
		return header, nil
	}
	return c.fetchToken(ctx, false)
}

func (c *Client) cachedAuthHeader() string {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	return c.authHeader
}

func (c *Client) setAuthHeader(header string) {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	c.authHeader = header
}

// fetchToken performs the grant request. Callers racing for the very first
// token share one in-flight request through the singleflight group; a forced
// refresh uses its own key so it is never satisfied by a plain fetch already
// in flight.
func (c *Client) fetchToken(ctx context.Context, refresh bool) (string, error) {
	key := "token"
	if refresh {
		key = "token-refresh"
	}

	header, err, _ := c.authGroup.Do(key, func() (any, error) {
		data := url.Values{}
		data.Set("client_id", c.creds.id)
		data.Set("client_secret", c.creds.secret)
		data.Set("grant_type", "client_credentials")
		if refresh {
			data.Set("refresh", "true")
		}

		result, err := c.genericRequest(ctx, request{
			action: ActionToken,
			data:   data,
			noAuth: true,
		})
		if err != nil {
			return "", err
		}

		var token Token
		if err := result.Decode(&token); err != nil || token.TokenType == "" || token.AccessToken == "" {
			return "", &TokenExtractionError{Body: string(result.body)}
		}

		h := token.TokenType + " " + token.AccessToken
		c.setAuthHeader(h)
		return h, nil
	})
	if err != nil {
		return "", err
	}
	return header.(string), nil
}
