package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/blixt/tagstream/stream"
	"github.com/blixt/tagstream/syncbuffer"
	"github.com/blixt/tagstream/tagstream"
)

const (
	readSize     = 4096
	writeTimeout = 10 * time.Second
)

// session is one WebSocket connection carrying one stream.
type session struct {
	conn *websocket.Conn
	buf  *syncbuffer.SyncBuffer
	log  zerolog.Logger
	mu   sync.Mutex // serializes writes to conn
}

// handleMessages reads the stream from the client into the buffer until the
// client ends the stream or goes away.
func (s *session) handleMessages() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.buf.CloseWithError(fmt.Errorf("connection closed before the stream ended: %w", err))
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn().Err(err).Msg("invalid client message")
			s.send(message{Type: messageError, Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case clientDelta:
			if _, err := s.buf.WriteString(msg.Text); err != nil {
				// The stream already ended.
				s.log.Debug().Err(err).Msg("dropping delta")
			}
		case clientEnd:
			s.buf.Close()
			return
		default:
			s.send(message{Type: messageError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

// run parses the buffered stream and sends updates until the stream ends. It
// returns the final parts.
func (s *session) run(p *tagstream.Parser) ([]tagstream.Part, error) {
	st := stream.New(stream.Reader(s.buf, readSize), p)
	var sendErr error
	st.Iter()(func(u stream.Update) bool {
		sendErr = s.send(messageFromUpdate(u))
		return sendErr == nil
	})
	if sendErr != nil {
		return nil, sendErr
	}
	if err := s.send(message{Type: messageDone, Parts: st.Parts()}); err != nil {
		return nil, err
	}
	return st.Parts(), st.Err()
}

func (s *session) send(m message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("error encoding message: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func (s *session) close() {
	s.mu.Lock()
	s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	s.mu.Unlock()
	s.conn.Close()
	s.buf.CloseWithError(websocket.ErrCloseSent)
}
