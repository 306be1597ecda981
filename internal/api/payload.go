package api

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultFileField is the multipart field name for unkeyed uploads.
const defaultFileField = "file"

type fileSpecKind int

const (
	fileSpecNone fileSpecKind = iota
	fileSpecSingle
	fileSpecMany
	fileSpecKeyed
)

// FileSpec describes which local files a request uploads: a single path, a
// list of paths sharing one multipart field, or named fields each carrying a
// single path or a list. The zero value uploads nothing.
type FileSpec struct {
	kind  fileSpecKind
	path  string
	paths []string
	keyed map[string]FileSpec
}

// SingleFile uploads one file under the default "file" field.
func SingleFile(path string) FileSpec {
	return FileSpec{kind: fileSpecSingle, path: path}
}

// FileList uploads several files under the default "file" field.
func FileList(paths ...string) FileSpec {
	return FileSpec{kind: fileSpecMany, paths: paths}
}

// KeyedFiles uploads files under explicit field names. Values must be
// SingleFile or FileList specs; nesting KeyedFiles is rejected at resolve
// time.
func KeyedFiles(fields map[string]FileSpec) FileSpec {
	return FileSpec{kind: fileSpecKeyed, keyed: fields}
}

func (s FileSpec) isZero() bool { return s.kind == fileSpecNone }

// filePart is one resolved multipart file field: an open stream plus the
// filename and content type derived from the path.
type filePart struct {
	field       string
	filename    string
	contentType string
	reader      io.ReadCloser
}

// resolve opens every referenced file and returns the multipart parts in a
// deterministic order. A missing or unreadable path fails the whole resolve;
// already-opened streams are closed before returning the error.
func (s FileSpec) resolve() ([]filePart, error) {
	switch s.kind {
	case fileSpecNone:
		return nil, nil
	case fileSpecSingle:
		part, err := openFilePart(defaultFileField, s.path)
		if err != nil {
			return nil, err
		}
		return []filePart{part}, nil
	case fileSpecMany:
		return openFileParts(defaultFileField, s.paths)
	case fileSpecKeyed:
		var parts []filePart
		for _, field := range sortedKeys(s.keyed) {
			sub := s.keyed[field]
			var (
				subParts []filePart
				err      error
			)
			switch sub.kind {
			case fileSpecSingle:
				var part filePart
				part, err = openFilePart(field, sub.path)
				subParts = []filePart{part}
			case fileSpecMany:
				subParts, err = openFileParts(field, sub.paths)
			default:
				err = fmt.Errorf("file spec for field %q must be a single path or a path list", field)
			}
			if err != nil {
				closeParts(parts)
				return nil, err
			}
			parts = append(parts, subParts...)
		}
		return parts, nil
	default:
		return nil, fmt.Errorf("unsupported file spec kind %d", s.kind)
	}
}

func openFilePart(field, path string) (filePart, error) {
	f, err := os.Open(path)
	if err != nil {
		return filePart{}, err
	}
	return filePart{
		field:       field,
		filename:    filepath.Base(path),
		contentType: mime.TypeByExtension(filepath.Ext(path)),
		reader:      f,
	}, nil
}

func openFileParts(field string, paths []string) ([]filePart, error) {
	parts := make([]filePart, 0, len(paths))
	for _, path := range paths {
		part, err := openFilePart(field, path)
		if err != nil {
			closeParts(parts)
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func closeParts(parts []filePart) {
	for _, p := range parts {
		_ = p.reader.Close()
	}
}

func sortedKeys(m map[string]FileSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// payload is the transport-level request representation chosen by
// buildPayload: query string for reads, multipart for uploads, URL-encoded
// form otherwise. At most one of query and body is populated.
type payload struct {
	query       string
	body        io.Reader
	contentType string
}

// close releases a streaming body that was never handed to the transport.
// Closing the pipe reader unblocks the multipart writer goroutine, which
// then closes its file streams.
func (p payload) close() {
	if c, ok := p.body.(io.Closer); ok {
		_ = c.Close()
	}
}

// buildPayload shapes data and files for the given verb. Order matters:
// reads always use the query string (files are not valid for GET), uploads
// take precedence over plain forms, and an empty request attaches nothing.
func buildPayload(method string, data url.Values, files FileSpec) (payload, error) {
	if len(data) == 0 && files.isZero() {
		return payload{}, nil
	}

	if method == "GET" {
		return payload{query: data.Encode()}, nil
	}

	if !files.isZero() {
		parts, err := files.resolve()
		if err != nil {
			return payload{}, err
		}
		body, contentType := multipartBody(data, parts)
		return payload{body: body, contentType: contentType}, nil
	}

	return payload{
		body:        strings.NewReader(data.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, nil
}

// multipartBody streams form fields and file parts through a pipe so large
// uploads never buffer fully in memory. The writer side closes every file
// stream once it is consumed; errors surface to the HTTP transport through
// CloseWithError.
func multipartBody(data url.Values, parts []filePart) (io.Reader, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		defer closeParts(parts)

		for key, values := range data {
			for _, value := range values {
				if err := writer.WriteField(key, value); err != nil {
					pw.CloseWithError(fmt.Errorf("failed to write field %s: %w", key, err))
					return
				}
			}
		}

		for _, part := range parts {
			w, err := createFormPart(writer, part)
			if err != nil {
				pw.CloseWithError(fmt.Errorf("failed to create form file %s: %w", part.filename, err))
				return
			}
			if _, err := io.Copy(w, part.reader); err != nil {
				pw.CloseWithError(fmt.Errorf("failed to write file content %s: %w", part.filename, err))
				return
			}
		}

		if err := writer.Close(); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to close multipart writer: %w", err))
			return
		}
		_ = pw.Close()
	}()

	return pr, writer.FormDataContentType()
}

func createFormPart(writer *multipart.Writer, part filePart) (io.Writer, error) {
	if part.contentType == "" {
		return writer.CreateFormFile(part.field, part.filename)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.field, part.filename))
	header.Set("Content-Type", part.contentType)
	return writer.CreatePart(header)
}
