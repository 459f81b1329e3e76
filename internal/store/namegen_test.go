package store

import (
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestGenerate_Format(t *testing.T) {
	g := NewNameGenerator(fixedClock(1700000000000), strings.NewReader("\x00\x01\x02\x03\x04\x05"))
	name, err := g.Generate("cover.png", "image/png")
	require.NoError(t, err)
	require.Equal(t, "1700000000000-012345.png", name)
}

func TestGenerate_OriginalExtensionWins(t *testing.T) {
	g := NewNameGenerator(fixedClock(1), rand.Reader)
	name, err := g.Generate("report.PDF", "application/pdf")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".PDF"), name)
}

func TestGenerate_MediaTypeSubtypeFallback(t *testing.T) {
	g := NewNameGenerator(fixedClock(1), rand.Reader)

	name, err := g.Generate("report", "application/pdf")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(name, ".pdf"), name)

	// neither extension nor media type: bare name
	name, err = g.Generate("report", "")
	require.NoError(t, err)
	require.Regexp(t, `^1-[0-9a-z]{6}$`, name)
}

func TestGenerate_UniqueWithinSameMillisecond(t *testing.T) {
	g := NewNameGenerator(fixedClock(42), rand.Reader)
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		name, err := g.Generate("a.bin", "")
		require.NoError(t, err)
		_, dup := seen[name]
		require.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}

func TestGenerate_RandReadFailure(t *testing.T) {
	g := NewNameGenerator(fixedClock(1), strings.NewReader("ab")) // too short
	_, err := g.Generate("a.bin", "")
	require.Error(t, err)
}
