package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/blixt/tagstream/tagstream"
)

// Stream feeds the deltas of a Source through a parser and reports what
// changed after each one.
type Stream struct {
	src     Source
	parser  *tagstream.Parser
	tracker Tracker
	parts   []tagstream.Part
	err     error
}

// New returns a stream that reads from src. If p is nil, a parser with the
// default options is used.
func New(src Source, p *tagstream.Parser) *Stream {
	if p == nil {
		p = tagstream.New()
	}
	return &Stream{src: src, parser: p}
}

// Err returns the error that occurred while reading the source, if any.
func (s *Stream) Err() error {
	return s.err
}

// Parts returns the parts parsed so far. Once iteration has finished, these
// are the final parts of the response.
func (s *Stream) Parts() []tagstream.Part {
	return s.parts
}

// Text returns everything received from the source so far.
func (s *Stream) Text() string {
	return s.parser.Buffer()
}

// Iter returns a function that can be used to iterate over the updates of the
// stream. If yield returns false, the iteration is stopped and the source is
// not read any further.
//
// When the source ends, or fails, the parser is finished so that text held
// back while waiting for more data is reported too. A failure is reported as
// an ErrorUpdate before that.
func (s *Stream) Iter() func(yield func(Update) bool) {
	return func(yield func(Update) bool) {
		for {
			delta, err := s.src.Next()
			if delta != "" {
				if !s.emit(yield, s.parser.Feed(delta)) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				s.err = fmt.Errorf("error reading stream: %w", err)
				if !yield(ErrorUpdate{Error: s.err}) {
					return
				}
				break
			}
		}
		s.emit(yield, s.parser.Finish())
	}
}

func (s *Stream) emit(yield func(Update) bool, parts []tagstream.Part) bool {
	s.parts = parts
	for _, u := range s.tracker.Diff(parts) {
		if !yield(u) {
			return false
		}
	}
	return true
}
