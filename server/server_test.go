package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blixt/tagstream/config"
	"github.com/blixt/tagstream/tool"
)

type received struct {
	Type  string            `json:"type"`
	Index *int              `json:"index"`
	Delta string            `json:"delta"`
	ID    string            `json:"id"`
	Error string            `json:"error"`
	Parts []json.RawMessage `json:"parts"`
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

// readUntilDone reads messages until the server sends the final parts.
func readUntilDone(t *testing.T, conn *websocket.Conn) []received {
	t.Helper()
	var msgs []received
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg received
		require.NoError(t, conn.ReadJSON(&msg))
		msgs = append(msgs, msg)
		if msg.Type == messageDone {
			return msgs
		}
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	s := New(func() *config.Config { return cfg }, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestStream(t *testing.T) {
	ts := newTestServer(t, config.Default())
	conn := dial(t, ts.URL)

	sendJSON(t, conn, clientMessage{Type: clientDelta, Text: "Hi <no"})
	sendJSON(t, conn, clientMessage{Type: clientDelta, Text: `tify message="x">bo`})
	sendJSON(t, conn, clientMessage{Type: clientDelta, Text: "dy</notify> bye"})
	sendJSON(t, conn, clientMessage{Type: clientEnd})

	msgs := readUntilDone(t, conn)
	var types []string
	var text strings.Builder
	for _, msg := range msgs {
		types = append(types, msg.Type)
		if msg.Type == "text" && *msg.Index == 0 {
			text.WriteString(msg.Delta)
		}
	}
	assert.Contains(t, types, "tool_start")
	assert.Contains(t, types, "tool_done")
	assert.NotContains(t, types, "error")
	assert.Equal(t, "Hi ", text.String())

	done := msgs[len(msgs)-1]
	require.Len(t, done.Parts, 3)
	assert.JSONEq(t, `{"type":"text","text":"Hi "}`, string(done.Parts[0]))
	assert.JSONEq(t, `{
		"type": "tag",
		"id": "notify-3",
		"name": "notify",
		"attributes": {"message": "x"},
		"content": "body",
		"isComplete": true,
		"state": "closed",
		"offset": 3,
		"end": 36
	}`, string(done.Parts[1]))
	assert.JSONEq(t, `{"type":"text","text":" bye"}`, string(done.Parts[2]))
}

func TestStreamUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DisableDefaults = true
	cfg.Tools = []tool.Def{{Name: "deploy"}}
	ts := newTestServer(t, cfg)
	conn := dial(t, ts.URL)

	sendJSON(t, conn, clientMessage{Type: clientDelta, Text: "<notify>x</notify><deploy>now</deploy>"})
	sendJSON(t, conn, clientMessage{Type: clientEnd})

	msgs := readUntilDone(t, conn)
	done := msgs[len(msgs)-1]
	require.Len(t, done.Parts, 2)
	assert.JSONEq(t, `{"type":"text","text":"<notify>x</notify>"}`, string(done.Parts[0]))
	assert.Contains(t, string(done.Parts[1]), `"name":"deploy"`)
}

func TestUnknownMessage(t *testing.T) {
	ts := newTestServer(t, config.Default())
	conn := dial(t, ts.URL)

	sendJSON(t, conn, map[string]string{"type": "bogus"})
	sendJSON(t, conn, clientMessage{Type: clientEnd})

	msgs := readUntilDone(t, conn)
	require.Len(t, msgs, 2)
	assert.Equal(t, messageError, msgs[0].Type)
	assert.Contains(t, msgs[0].Error, `unknown message type "bogus"`)
	assert.Empty(t, msgs[1].Parts)
}

func TestStartAndClose(t *testing.T) {
	s := New(config.Default, zerolog.Nop())
	require.NoError(t, s.Start("127.0.0.1:0"))
	addr := s.Addr()
	require.NotEmpty(t, addr)

	conn := dial(t, "http://"+addr)
	sendJSON(t, conn, clientMessage{Type: clientDelta, Text: "<ask>still going"})

	var msg received
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "tool_start", msg.Type)

	require.NoError(t, s.Close())
	// The server ends open streams when it closes.
	for {
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
	}
}
