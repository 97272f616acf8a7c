package stream

import (
	"maps"
	"strings"

	"github.com/blixt/tagstream/tagstream"
)

type trackedTag struct {
	content string
	attrs   map[string]string
	done    bool
}

// Tracker turns successive part lists of one stream into updates. The zero
// value is ready to use.
type Tracker struct {
	prev []tagstream.Part
	tags map[string]*trackedTag
}

// Diff returns what changed since the previous call.
func (t *Tracker) Diff(parts []tagstream.Part) []Update {
	if t.tags == nil {
		t.tags = make(map[string]*trackedTag)
	}
	var updates []Update

	present := make(map[string]bool)
	for _, part := range parts {
		if tag, ok := part.(*tagstream.Tag); ok {
			present[tag.ID] = true
		}
	}
	for _, part := range t.prev {
		tag, ok := part.(*tagstream.Tag)
		if !ok || present[tag.ID] {
			continue
		}
		if tracked := t.tags[tag.ID]; tracked != nil && !tracked.done {
			updates = append(updates, ToolDroppedUpdate{ID: tag.ID})
			delete(t.tags, tag.ID)
		}
	}

	for i, part := range parts {
		if i < len(t.prev) && t.prev[i] == part {
			// The parser hands back the same pointers for parts that can no
			// longer change.
			continue
		}
		switch part := part.(type) {
		case *tagstream.Text:
			var old string
			if i < len(t.prev) {
				if prev, ok := t.prev[i].(*tagstream.Text); ok {
					old = prev.Text
				}
			}
			if part.Text == old {
				continue
			}
			u := TextUpdate{Index: i, Text: part.Text, Delta: part.Text}
			if strings.HasPrefix(part.Text, old) {
				u.Delta = part.Text[len(old):]
			} else {
				u.Replaced = true
			}
			updates = append(updates, u)
		case *tagstream.Tag:
			updates = t.diffTag(updates, part)
		}
	}
	t.prev = parts
	return updates
}

func (t *Tracker) diffTag(updates []Update, tag *tagstream.Tag) []Update {
	tracked := t.tags[tag.ID]
	if tracked == nil {
		tracked = &trackedTag{}
		t.tags[tag.ID] = tracked
		updates = append(updates, ToolStartUpdate{Tag: tag})
	}
	if tracked.done {
		return updates
	}
	if tag.Content != tracked.content || !maps.Equal(tag.Attributes, tracked.attrs) {
		u := ToolDataUpdate{Tag: tag, Delta: tag.Content}
		if strings.HasPrefix(tag.Content, tracked.content) {
			u.Delta = tag.Content[len(tracked.content):]
		} else {
			u.Replaced = true
		}
		tracked.content, tracked.attrs = tag.Content, tag.Attributes
		updates = append(updates, u)
	}
	if tag.IsComplete {
		tracked.done = true
		updates = append(updates, ToolDoneUpdate{Tag: tag})
	}
	return updates
}
