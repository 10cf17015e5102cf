// Package netx builds request bodies for the CLI's HTTP client.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"
)

// File is one file part of a multipart form.
type File struct {
	Field string
	Name  string
	Body  []byte
}

// ContentType guesses the media type of f from its extension, falling back
// to content sniffing.
func (f File) ContentType() string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); ct != "" {
		return ct
	}
	return http.DetectContentType(f.Body)
}

// MultipartBody encodes fields and an optional file as multipart/form-data.
// Unlike multipart.Writer.CreateFormFile, the file part carries its real
// content type. Fields are written in key order.
func MultipartBody(fields map[string]string, file *File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, filepath.Base(file.Name)))
		h.Set("Content-Type", file.ContentType())

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Body); err != nil {
			return nil, "", fmt.Errorf("write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
