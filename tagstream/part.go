package tagstream

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PartType string

const (
	TypeText PartType = "text"
	TypeTag  PartType = "tag"
)

// Part is one element of a parsed stream: either a *Text or a *Tag.
type Part interface {
	Type() PartType
}

// Text is a run of literal text that isn't part of any tool tag.
type Text struct {
	Text string `json:"text"`
}

func (t *Text) Type() PartType {
	return TypeText
}

func (t *Text) MarshalJSON() ([]byte, error) {
	type text Text
	return json.Marshal(struct {
		Type PartType `json:"type"`
		text
	}{TypeText, text(*t)})
}

// State is the progress of a single tag through the stream. A tag that hasn't
// been seen yet has no Tag value at all.
type State int

const (
	// StateOpening means "<name" was recognized but the opening tag hasn't
	// been terminated by ">" yet.
	StateOpening State = iota + 1
	// StateStreaming means the opening tag is done and content is arriving.
	StateStreaming
	// StateClosed means the closing tag was seen (or the tag closed itself).
	// This state is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Tag is a tool call found in the stream.
type Tag struct {
	// ID stays the same for the same tag across calls on a growing buffer.
	ID string `json:"id"`
	// Name is the canonical (lower case) tool name.
	Name string `json:"name"`
	// Attributes holds the attributes of the opening tag. While the opening tag
	// is still streaming, the last value may be partial.
	Attributes map[string]string `json:"attributes"`
	// Content is everything between the opening and closing tag, or up to the
	// end of the buffer if the closing tag hasn't arrived.
	Content    string `json:"content"`
	IsComplete bool   `json:"isComplete"`
	State      State  `json:"state"`
	// Offset is the byte offset of the tag's "<" in the raw buffer, and End is
	// the byte offset just past what the tag has consumed so far.
	Offset int `json:"offset"`
	End    int `json:"end"`
	// File is set for file tools once they carry a path attribute.
	File *File `json:"file,omitempty"`
}

// File is a convenience view over a file tool's path attribute and content.
type File struct {
	Path string `json:"path"`
	Body string `json:"body"`
}

func (t *Tag) Type() PartType {
	return TypeTag
}

// Attr returns the value of an attribute, or an empty string.
func (t *Tag) Attr(key string) string {
	return t.Attributes[key]
}

func (t *Tag) MarshalJSON() ([]byte, error) {
	type tag Tag
	return json.Marshal(struct {
		Type PartType `json:"type"`
		tag
	}{TypeTag, tag(*t)})
}

// PlainText returns all the literal text in parts, skipping tags.
func PlainText(parts []Part) string {
	var b strings.Builder
	for _, part := range parts {
		if t, ok := part.(*Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Tags returns the tags in parts, in stream order.
func Tags(parts []Part) []*Tag {
	var tags []*Tag
	for _, part := range parts {
		if t, ok := part.(*Tag); ok {
			tags = append(tags, t)
		}
	}
	return tags
}
