package server

import (
	"github.com/blixt/tagstream/stream"
	"github.com/blixt/tagstream/tagstream"
)

const (
	clientDelta = "delta"
	clientEnd   = "end"

	messageDone  = "done"
	messageError = "error"
)

// clientMessage is what a client sends: a piece of the stream, or the end of
// it.
type clientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// message is what the server sends back, one per update. The last message of
// a stream has type "done" and carries the final parts.
type message struct {
	Type     string           `json:"type"`
	Index    *int             `json:"index,omitempty"`
	Text     string           `json:"text,omitempty"`
	Delta    string           `json:"delta,omitempty"`
	Replaced bool             `json:"replaced,omitempty"`
	Tag      *tagstream.Tag   `json:"tag,omitempty"`
	ID       string           `json:"id,omitempty"`
	Error    string           `json:"error,omitempty"`
	Parts    []tagstream.Part `json:"parts,omitempty"`
}

func messageFromUpdate(u stream.Update) message {
	m := message{Type: string(u.Type())}
	switch u := u.(type) {
	case stream.TextUpdate:
		m.Index = &u.Index
		m.Text, m.Delta, m.Replaced = u.Text, u.Delta, u.Replaced
	case stream.ToolStartUpdate:
		m.Tag, m.ID = u.Tag, u.Tag.ID
	case stream.ToolDataUpdate:
		m.Tag, m.ID = u.Tag, u.Tag.ID
		m.Delta, m.Replaced = u.Delta, u.Replaced
	case stream.ToolDoneUpdate:
		m.Tag, m.ID = u.Tag, u.Tag.ID
	case stream.ToolDroppedUpdate:
		m.ID = u.ID
	case stream.ErrorUpdate:
		m.Error = u.Error.Error()
	}
	return m
}
