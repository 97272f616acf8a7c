package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src Source) []string {
	t.Helper()
	var deltas []string
	for {
		delta, err := src.Next()
		if delta != "" {
			deltas = append(deltas, delta)
		}
		if errors.Is(err, io.EOF) {
			return deltas
		}
		require.NoError(t, err)
	}
}

const events = `: keep-alive

id: 1
data: {"choices":[{"delta":{"role":"assistant","content":""}}]}

id: 2
data: {"choices":[{"delta":{"content":"Hello <ask>"}}]}

id: 2
data: {"choices":[{"delta":{"content":"Hello <ask>"}}]}

event: message
data: {"choices":[{"delta":{"content":"q</ask>"}}]}

data: {"choices":[]}

data: [DONE]
`

func TestSSE(t *testing.T) {
	deltas := collect(t, SSE(strings.NewReader(events)))
	assert.Equal(t, []string{"Hello <ask>", "q</ask>"}, deltas)
}

func TestSSEInvalidChunk(t *testing.T) {
	src := SSE(strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\ndata: {oops\n\n"))
	delta, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", delta)
	_, err = src.Next()
	assert.ErrorContains(t, err, "error unmarshalling chunk")
}

func TestReaderKeepsCharactersWhole(t *testing.T) {
	deltas := collect(t, Reader(strings.NewReader("日本語"), 4))
	assert.Equal(t, []string{"日", "本", "語"}, deltas)
	for _, delta := range deltas {
		assert.True(t, utf8.ValidString(delta))
	}
}

func TestReaderTruncatedCharacter(t *testing.T) {
	// A cut off character at the very end is still returned, once the reader
	// has nothing more.
	deltas := collect(t, Reader(strings.NewReader("ab\xe6\x97"), 16))
	assert.Equal(t, []string{"ab", "\xe6\x97"}, deltas)
}

func TestCumulative(t *testing.T) {
	deltas := collect(t, Cumulative(Strings("a", "ab", "ab", "a", "", "abc")))
	assert.Equal(t, []string{"a", "b", "c"}, deltas)
}

func TestCumulativeDiverged(t *testing.T) {
	src := Cumulative(Strings("ab", "x"))
	delta, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "ab", delta)
	_, err = src.Next()
	assert.ErrorContains(t, err, "doesn't extend")
}
