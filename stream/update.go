package stream

import (
	"github.com/blixt/tagstream/tagstream"
)

type UpdateType string

const (
	UpdateTypeText        UpdateType = "text"
	UpdateTypeToolStart   UpdateType = "tool_start"
	UpdateTypeToolData    UpdateType = "tool_data"
	UpdateTypeToolDone    UpdateType = "tool_done"
	UpdateTypeToolDropped UpdateType = "tool_dropped"
	UpdateTypeError       UpdateType = "error"
)

type Update interface {
	Type() UpdateType
}

// TextUpdate reports new text in the part at Index. Delta is what was added to
// the previous text of that part, unless Replaced is set, in which case the
// part's text changed in some other way and Delta is all of Text.
type TextUpdate struct {
	Index    int
	Text     string
	Delta    string
	Replaced bool
}

func (u TextUpdate) Type() UpdateType {
	return UpdateTypeText
}

// ToolStartUpdate is sent the first time a tag shows up in the stream.
type ToolStartUpdate struct {
	Tag *tagstream.Tag
}

func (u ToolStartUpdate) Type() UpdateType {
	return UpdateTypeToolStart
}

// ToolDataUpdate is sent when a tag's content or attributes change.
type ToolDataUpdate struct {
	Tag      *tagstream.Tag
	Delta    string
	Replaced bool
}

func (u ToolDataUpdate) Type() UpdateType {
	return UpdateTypeToolData
}

type ToolDoneUpdate struct {
	Tag *tagstream.Tag
}

func (u ToolDoneUpdate) Type() UpdateType {
	return UpdateTypeToolDone
}

// ToolDroppedUpdate is sent when a tag that was reported as started turned out
// not to be a tag after all.
type ToolDroppedUpdate struct {
	ID string
}

func (u ToolDroppedUpdate) Type() UpdateType {
	return UpdateTypeToolDropped
}

type ErrorUpdate struct {
	Error error
}

func (u ErrorUpdate) Type() UpdateType {
	return UpdateTypeError
}
