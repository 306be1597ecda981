// Package resolve provides fuzzy name-to-ID matching for detectors and
// streams so CLI users can address resources by name.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Named is any resource with an ID and a display name.
type Named struct {
	ID   string
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	ID    string
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
	ErrNoMatch    = errors.New("no matching item")
)

// maxCandidates caps the candidates listed in an AmbiguousError.
const maxCandidates = 5

// AmbiguousError indicates multiple candidates matched equally well.
// Matches are sorted best-first and capped at maxCandidates.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.ID, m.Name)
		}
	}
	return b.String()
}

type namedSourceLower []Named

func (s namedSourceLower) String(i int) string { return strings.ToLower(s[i].Name) }
func (s namedSourceLower) Len() int            { return len(s) }

// FuzzyMatch finds the best matching item by name and returns its ID.
//
// Behavior:
// - Empty query or empty items are errors.
// - An exact case-insensitive match wins outright.
// - Otherwise case-insensitive fuzzy matching picks the best score.
// - If the top two fuzzy results tie on score, returns *AmbiguousError.
func FuzzyMatch(query string, items []Named) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	lowered := strings.ToLower(query)
	for _, item := range items {
		if strings.ToLower(item.Name) == lowered {
			return item.ID, nil
		}
	}

	matches := fuzzy.FindFrom(lowered, namedSourceLower(items))
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, query)
	}

	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		capped := matches
		if len(capped) > maxCandidates {
			capped = capped[:maxCandidates]
		}
		ambiguous := &AmbiguousError{Query: query}
		for _, m := range capped {
			item := items[m.Index]
			ambiguous.Matches = append(ambiguous.Matches, Match{ID: item.ID, Name: item.Name, Score: m.Score})
		}
		return "", ambiguous
	}

	return items[matches[0].Index].ID, nil
}
