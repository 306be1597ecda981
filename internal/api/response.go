package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/matroid/matroid-cli/internal/debug"
)

// Result is a normalized API response. Value holds the parsed JSON document
// for ordinary actions; Raw holds the untouched body for actions that bypass
// parsing (CSV and MP4 exports). Exactly one of the two is populated.
type Result struct {
	Value any
	Raw   []byte

	body []byte
}

// Decode unmarshals the response body into dst for callers that want typed
// access instead of the generic Value document.
func (r Result) Decode(dst any) error {
	return json.Unmarshal(r.body, dst)
}

// ErrorEnvelope reports the service-level error fields when the response
// carries a {code, message} document. The dispatcher itself never interprets
// these; this is a convenience for callers.
func (r Result) ErrorEnvelope() (code, message string, ok bool) {
	doc, isMap := r.Value.(map[string]any)
	if !isMap {
		return "", "", false
	}
	code, _ = doc["code"].(string)
	message, _ = doc["message"].(string)
	return code, message, code != ""
}

// normalizeResponse implements the parse-unless-raw policy. A body that was
// expected to be JSON but is not (an HTML error page, say) degrades to a
// {code: "server_err"} document instead of failing the call; the raw body is
// logged for diagnostics.
func normalizeResponse(ctx context.Context, body []byte, shouldNotParse bool) Result {
	if shouldNotParse {
		return Result{Raw: body, body: body}
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("unparseable server response", "body", string(body))
		}
		fallback := map[string]any{
			"code":    "server_err",
			"message": "Unable to parse server response",
		}
		raw, _ := json.Marshal(fallback)
		return Result{Value: fallback, body: raw}
	}

	return Result{Value: value, body: body}
}
