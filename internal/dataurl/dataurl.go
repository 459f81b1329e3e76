// Package dataurl encodes and decodes files as data URLs
// (`data:<media-type>;base64,<payload>`), the wire format used to carry
// binary files inside JSON upload requests.
package dataurl

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
)

// pattern matches a single-line data URL. The media-type token allows
// letters, digits, `/`, `-`, `+` and `.`; it can never contain `;`.
var pattern = regexp.MustCompile(`^data:([\w/\-+.]+);base64,(.*)$`)

// Encode renders raw bytes as a data URL with the given media type.
func Encode(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeFile reads a local file and encodes it as a data URL, deriving the
// media type from the file extension. Unknown extensions fall back to
// application/octet-stream.
func EncodeFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		mt = "application/octet-stream"
	}
	// strip parameters such as "; charset=utf-8" so the token stays `;`-free
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	return Encode(mt, b), nil
}

// Decode splits a data URL into its media type and base64 payload.
// Input that is not a recognizable data URL is returned unchanged with an
// empty media type; that is a defined pass-through, not an error, and the
// payload must not be treated as base64 in that case.
func Decode(input string) (mediaType, payload string) {
	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return "", input
	}
	return m[1], m[2]
}
