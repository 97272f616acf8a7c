package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blixt/tagstream/tagstream"
)

func updateTypes(updates []Update) []UpdateType {
	types := make([]UpdateType, len(updates))
	for i, u := range updates {
		types[i] = u.Type()
	}
	return types
}

func run(s *Stream) []Update {
	var updates []Update
	s.Iter()(func(u Update) bool {
		updates = append(updates, u)
		return true
	})
	return updates
}

func TestStream(t *testing.T) {
	s := New(Strings("Hi <no", `tify message="x">bo`, "dy</notify> bye"), nil)
	updates := run(s)
	require.NoError(t, s.Err())

	require.Equal(t, []UpdateType{
		UpdateTypeText,
		UpdateTypeToolStart,
		UpdateTypeToolData,
		UpdateTypeToolData,
		UpdateTypeToolDone,
		UpdateTypeText,
	}, updateTypes(updates))

	assert.Equal(t, TextUpdate{Index: 0, Text: "Hi ", Delta: "Hi "}, updates[0])
	assert.Equal(t, "notify-3", updates[1].(ToolStartUpdate).Tag.ID)
	assert.Equal(t, "bo", updates[2].(ToolDataUpdate).Delta)
	assert.Equal(t, "dy", updates[3].(ToolDataUpdate).Delta)
	done := updates[4].(ToolDoneUpdate).Tag
	assert.Equal(t, "body", done.Content)
	assert.Equal(t, map[string]string{"message": "x"}, done.Attributes)
	assert.Equal(t, TextUpdate{Index: 2, Text: " bye", Delta: " bye"}, updates[5])

	assert.Equal(t, tagstream.Parse(`Hi <notify message="x">body</notify> bye`), s.Parts())
	assert.Equal(t, `Hi <notify message="x">body</notify> bye`, s.Text())
}

func TestStreamFinishReleasesHeldBackText(t *testing.T) {
	s := New(Strings("a <ex"), nil)
	updates := run(s)
	assert.Equal(t, []Update{
		TextUpdate{Index: 0, Text: "a ", Delta: "a "},
		TextUpdate{Index: 0, Text: "a <ex", Delta: "<ex"},
	}, updates)
}

func TestStreamSSE(t *testing.T) {
	s := New(SSE(strings.NewReader(events)), tagstream.New())
	updates := run(s)
	require.NoError(t, s.Err())
	assert.Equal(t, []UpdateType{
		UpdateTypeText,
		UpdateTypeToolStart,
		UpdateTypeToolData,
		UpdateTypeToolDone,
	}, updateTypes(updates))
	assert.Equal(t, tagstream.Parse("Hello <ask>q</ask>"), s.Parts())
}

type failingSource struct {
	chunks []string
	err    error
	calls  int
}

func (s *failingSource) Next() (string, error) {
	s.calls++
	if len(s.chunks) == 0 {
		return "", s.err
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func TestStreamError(t *testing.T) {
	errBroken := errors.New("connection reset")
	s := New(&failingSource{chunks: []string{"abc<ask>q"}, err: errBroken}, nil)
	updates := run(s)

	require.ErrorIs(t, s.Err(), errBroken)
	require.Equal(t, []UpdateType{
		UpdateTypeText,
		UpdateTypeToolStart,
		UpdateTypeToolData,
		UpdateTypeError,
	}, updateTypes(updates))
	assert.ErrorIs(t, updates[3].(ErrorUpdate).Error, errBroken)

	tags := tagstream.Tags(s.Parts())
	require.Len(t, tags, 1)
	assert.False(t, tags[0].IsComplete)
	assert.Equal(t, "q", tags[0].Content)
}

func TestStreamStopsEarly(t *testing.T) {
	src := &failingSource{chunks: []string{"one", " two", " three"}, err: io.EOF}
	s := New(src, nil)
	var updates []Update
	s.Iter()(func(u Update) bool {
		updates = append(updates, u)
		return false
	})
	assert.Len(t, updates, 1)
	assert.Equal(t, 1, src.calls)
}
