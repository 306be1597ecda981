package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction indicates a dispatch for an action missing from the
// endpoint registry. This is a programmer error, never retried.
var ErrUnknownAction = errors.New("unknown API action")

// ErrConflictingMedia is returned when both a URL and a local file are
// supplied for a single classification request.
var ErrConflictingMedia = errors.New("can only handle either url or local file classification in a single request")

// TokenExtractionError indicates a token response that was missing the
// token_type or access_token fields. The client stays unauthenticated so a
// later call can retry the grant.
type TokenExtractionError struct {
	Body string
}

func (e *TokenExtractionError) Error() string {
	return fmt.Sprintf("unable to extract token from %s", e.Body)
}

// MissingParamsError lists required parameters a caller left empty.
type MissingParamsError struct {
	Params []string
}

func (e *MissingParamsError) Error() string {
	return "please provide data: " + strings.Join(e.Params, ", ")
}

// FileSizeError is returned when an upload exceeds the configured
// per-media-type ceiling.
type FileSizeError struct {
	SingleLimit int64
	BatchLimit  int64
}

func (e *FileSizeError) Error() string {
	const mb = 1024 * 1024
	if e.BatchLimit > 0 {
		return fmt.Sprintf("individual file size must be under %dMB; batch size under %dMB",
			e.SingleLimit/mb, e.BatchLimit/mb)
	}
	return fmt.Sprintf("individual file size must be under %dMB", e.SingleLimit/mb)
}
