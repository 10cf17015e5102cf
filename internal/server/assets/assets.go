// Package assets stores memory images and resolves their public URLs.
package assets

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"
)

// Store uploads an image and returns the URL it can be fetched from.
// Objects are never removed: a failed create leaves the upload behind.
type Store interface {
	Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
}

// Prefix is the folder every memory image is written to.
const Prefix = "memories"

var whitespace = regexp.MustCompile(`\s+`)

// ObjectKey derives the storage path for an uploaded file:
// memories/<unix millis>-<name with whitespace runs replaced by "-">.
func ObjectKey(name string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return fmt.Sprintf("%s/%d-%s", Prefix, now.UnixMilli(), whitespace.ReplaceAllString(base, "-"))
}
