package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blixt/tagstream/tagstream"
)

func TestTrackerDropped(t *testing.T) {
	p := tagstream.New()
	var tracker Tracker

	updates := tracker.Diff(p.Parse("x<notify a"))
	require.Equal(t, []UpdateType{UpdateTypeText, UpdateTypeToolStart, UpdateTypeToolData}, updateTypes(updates))
	assert.Equal(t, map[string]string{"a": ""}, updates[2].(ToolDataUpdate).Tag.Attributes)

	// The stray "<" turns the opening tag back into text.
	updates = tracker.Diff(p.Parse("x<notify a<ask>q</ask>"))
	require.Equal(t, []UpdateType{
		UpdateTypeToolDropped,
		UpdateTypeText,
		UpdateTypeToolStart,
		UpdateTypeToolData,
		UpdateTypeToolDone,
	}, updateTypes(updates))
	assert.Equal(t, ToolDroppedUpdate{ID: "notify-1"}, updates[0])
	assert.Equal(t, TextUpdate{Index: 1, Text: "<notify a", Delta: "<notify a"}, updates[1])
}

func TestTrackerReplacedText(t *testing.T) {
	var tracker Tracker
	tracker.Diff([]tagstream.Part{&tagstream.Text{Text: "hello"}})
	updates := tracker.Diff([]tagstream.Part{&tagstream.Text{Text: "help"}})
	assert.Equal(t, []Update{TextUpdate{Index: 0, Text: "help", Delta: "help", Replaced: true}}, updates)
}

func TestTrackerDoneOnce(t *testing.T) {
	var tracker Tracker
	parts := tagstream.Parse("<browser-go-back/>")
	updates := tracker.Diff(parts)
	assert.Equal(t, []UpdateType{UpdateTypeToolStart, UpdateTypeToolDone}, updateTypes(updates))

	// A fresh parse gives new pointers, but nothing changed.
	assert.Empty(t, tracker.Diff(tagstream.Parse("<browser-go-back/>")))
}

func TestTrackerNothingNew(t *testing.T) {
	var tracker Tracker
	p := tagstream.New()
	tracker.Diff(p.Parse("a <ask>b</ask> c"))
	assert.Empty(t, tracker.Diff(p.Parse("a <ask>b</ask> c")))
}
