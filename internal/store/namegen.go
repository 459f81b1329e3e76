package store

import (
	"crypto/rand"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// suffixLen gives a 36^6 collision space for names generated within the
// same millisecond.
const suffixLen = 6

// NameGenerator produces collision-resistant storage names of the form
// <millisecond-epoch>-<6 base36 chars><extension>. Clock and random source
// are injected so tests can make names deterministic.
type NameGenerator struct {
	now func() time.Time
	rnd io.Reader
}

// NewNameGenerator constructs a generator; nil arguments select the real
// clock and crypto/rand.
func NewNameGenerator(now func() time.Time, rnd io.Reader) *NameGenerator {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.Reader
	}
	return &NameGenerator{now: now, rnd: rnd}
}

// Generate returns a fresh storage name. The extension comes from the
// original file name when present (case preserved); otherwise it is derived
// from the declared media type's subtype; otherwise it is empty.
func (g *NameGenerator) Generate(originalName, mediaType string) (string, error) {
	buf := make([]byte, suffixLen)
	if _, err := io.ReadFull(g.rnd, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}

	return strconv.FormatInt(g.now().UnixMilli(), 10) + "-" + string(buf) + extensionFor(originalName, mediaType), nil
}

// extensionFor prefers the original file's extension, then falls back to the
// media-type subtype (the text after the last '/').
func extensionFor(originalName, mediaType string) string {
	if ext := filepath.Ext(originalName); ext != "" {
		return ext
	}
	if mediaType != "" {
		if idx := strings.LastIndexByte(mediaType, '/'); idx >= 0 && idx+1 < len(mediaType) {
			return "." + mediaType[idx+1:]
		}
	}
	return ""
}
