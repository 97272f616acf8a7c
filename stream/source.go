package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Source delivers the text of a response one delta at a time. Next returns
// io.EOF once the response is over. A delta may be returned together with an
// error.
type Source interface {
	Next() (string, error)
}

type chatCompletionDelta struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChoice struct {
	Index        int                 `json:"index"`
	Delta        chatCompletionDelta `json:"delta"`
	FinishReason string              `json:"finish_reason"`
}

type chatCompletionChunk struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

type sseSource struct {
	scanner *bufio.Scanner
	// eventID is the id of the event currently being read, and seen holds
	// every id that has already produced data.
	eventID string
	seen    map[string]bool
}

// SSE reads server-sent events carrying chat completion chunks and returns the
// text content of each one. Events that repeat an id that was already seen are
// skipped, which happens when a proxy retries a delivery.
func SSE(r io.Reader) Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &sseSource{scanner: scanner, seen: make(map[string]bool)}
}

func (s *sseSource) Next() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			// A blank line ends the event.
			s.eventID = ""
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			s.eventID = value
			continue
		case "data":
		default:
			// Comments, event names and retry hints.
			continue
		}
		if value == "[DONE]" {
			continue
		}
		if s.eventID != "" {
			if s.seen[s.eventID] {
				continue
			}
			s.seen[s.eventID] = true
		}
		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(value), &chunk); err != nil {
			return "", fmt.Errorf("error unmarshalling chunk: %w", err)
		}
		if len(chunk.Choices) < 1 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		return chunk.Choices[0].Delta.Content, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading events: %w", err)
	}
	return "", io.EOF
}

type readerSource struct {
	r   io.Reader
	buf []byte
	// pending holds the start of a UTF-8 sequence cut off by the last read.
	pending []byte
}

// Reader returns the raw text read from r, at most size bytes at a time.
// Multi-byte characters split between reads are held until they are whole.
func Reader(r io.Reader, size int) Source {
	if size < utf8.UTFMax {
		size = utf8.UTFMax
	}
	return &readerSource{r: r, buf: make([]byte, size)}
}

func (s *readerSource) Next() (string, error) {
	n, err := s.r.Read(s.buf)
	data := append(s.pending, s.buf[:n]...)
	s.pending = nil
	if err == nil {
		if cut := incompleteSuffix(data); cut > 0 {
			s.pending = append([]byte(nil), data[len(data)-cut:]...)
			data = data[:len(data)-cut]
		}
	}
	return string(data), err
}

// incompleteSuffix returns the length of a UTF-8 sequence at the end of b that
// is missing bytes.
func incompleteSuffix(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}

type stringsSource struct {
	chunks []string
}

// Strings returns the given chunks in order.
func Strings(chunks ...string) Source {
	return &stringsSource{chunks: chunks}
}

func (s *stringsSource) Next() (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

type cumulativeSource struct {
	src  Source
	text string
}

// Cumulative adapts a source that returns the whole response so far on every
// call, rather than deltas. Snapshots that don't add anything (duplicates, or
// stale snapshots that arrive late) are skipped.
func Cumulative(src Source) Source {
	return &cumulativeSource{src: src}
}

func (s *cumulativeSource) Next() (string, error) {
	for {
		snapshot, err := s.src.Next()
		var delta string
		switch {
		case strings.HasPrefix(snapshot, s.text):
			delta = snapshot[len(s.text):]
			s.text = snapshot
		case strings.HasPrefix(s.text, snapshot):
			// Nothing new.
		default:
			return "", fmt.Errorf("snapshot of %d bytes doesn't extend the %d bytes received so far", len(snapshot), len(s.text))
		}
		if delta != "" || err != nil {
			return delta, err
		}
	}
}
