package api

import (
	"fmt"
	"strings"
)

// checkRequiredParams rejects empty required values with one error naming
// every missing parameter. Pairs alternate name, value.
func checkRequiredParams(pairs ...string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("checkRequiredParams called with odd pair count")
	}
	var missing []string
	for i := 0; i < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return &MissingParamsError{Params: missing}
	}
	return nil
}

// Image identifies classification input: a remote URL (or several) or local
// file path(s). Remote and local input are mutually exclusive.
type Image struct {
	URL   string
	URLs  []string
	Files []string
}

func (i Image) hasURL() bool  { return i.URL != "" || len(i.URLs) > 0 }
func (i Image) hasFile() bool { return len(i.Files) > 0 }

// fileSpec maps the path list onto the upload variant: one path uploads as
// a single "file" part, several as repeated parts under the same field.
func (i Image) fileSpec() FileSpec {
	if len(i.Files) == 1 {
		return SingleFile(i.Files[0])
	}
	return FileList(i.Files...)
}

func (i Image) validate() error {
	if !i.hasURL() && !i.hasFile() {
		return &MissingParamsError{Params: []string{"image"}}
	}
	if i.hasURL() && i.hasFile() {
		return ErrConflictingMedia
	}
	return nil
}

// Video identifies video input: a remote URL or exactly one local file.
type Video struct {
	URL  string
	File string
}

func (v Video) validate() error {
	if v.URL == "" && v.File == "" {
		return &MissingParamsError{Params: []string{"video"}}
	}
	if v.URL != "" && v.File != "" {
		return ErrConflictingMedia
	}
	return nil
}

// toSnakeCase converts camelCase query keys to the snake_case the search
// endpoints expect.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
