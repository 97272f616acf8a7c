package tagstream

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blixt/tagstream/tool"
)

type Option func(*Parser)

// WithToolbox sets the allow-list of tool tags. Defaults to tool.Default().
func WithToolbox(toolbox *tool.Toolbox) Option {
	return func(p *Parser) {
		p.tools = toolbox
	}
}

// WithLogger sets the logger used to report input that had to be treated as
// text. Nothing is logged above debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithIDFunc sets the function that assigns an ID to a tag the first time it's
// seen. It is called once per tag per stream.
func WithIDFunc(fn func(name string, offset int) string) Option {
	return func(p *Parser) {
		p.newID = fn
	}
}

// WithRandomIDs assigns random UUIDs to tags instead of IDs derived from the
// tag's name and offset, which are only unique within one stream.
func WithRandomIDs() Option {
	return WithIDFunc(func(string, int) string {
		return uuid.NewString()
	})
}

// WithoutUnescape keeps backslash escapes in text, attributes and content as
// they arrived.
func WithoutUnescape() Option {
	return func(p *Parser) {
		p.unescape = false
	}
}

// Parser turns the text of one streaming response into parts. It's meant to be
// called every time more of the stream arrives, and it only rescans what came
// after the last closed tag.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	tools    *tool.Toolbox
	unescape bool
	newID    func(name string, offset int) string
	log      zerolog.Logger

	buf string
	// stable holds the parts before stableEnd, which can't change as the
	// buffer grows.
	stable    []Part
	stableEnd int
	ids       map[tagKey]string
}

type tagKey struct {
	name   string
	offset int
}

// New returns a parser for a single stream.
func New(opts ...Option) *Parser {
	p := &Parser{
		tools:    tool.Default(),
		unescape: true,
		newID:    offsetID,
		log:      zerolog.Nop(),
		ids:      make(map[tagKey]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the parts of a complete buffer. Since IDs are derived from the
// tags' names and offsets, calling Parse on a growing buffer reports the same
// ID for the same tag every time.
func Parse(buffer string, opts ...Option) []Part {
	return New(opts...).parse(buffer, true)
}

// Parse parses everything received so far on the stream. If buffer doesn't
// start with the previous buffer, it's treated as the start of a new stream.
//
// A "<" followed by the start of a tool name at the very end of the buffer, a
// partial closing tag at the end of a tag's content, or a dangling backslash
// are left out until more data arrives or Finish is called.
//
// The returned parts must not be modified.
func (p *Parser) Parse(buffer string) []Part {
	return p.parse(buffer, false)
}

// Feed appends delta to the buffer and parses it.
func (p *Parser) Feed(delta string) []Part {
	return p.parse(p.buf+delta, false)
}

// Finish parses the buffer for the last time, including the text that Parse
// leaves out while waiting for more data. Tags that never closed are reported
// as incomplete.
func (p *Parser) Finish() []Part {
	return p.parse(p.buf, true)
}

// Buffer returns everything received so far.
func (p *Parser) Buffer() string {
	return p.buf
}

// Reset forgets the current stream, including the IDs assigned to its tags.
func (p *Parser) Reset() {
	p.buf = ""
	p.stable = nil
	p.stableEnd = 0
	p.ids = make(map[tagKey]string)
}

func (p *Parser) parse(buffer string, final bool) []Part {
	if !strings.HasPrefix(buffer, p.buf) {
		p.log.Debug().Int("previous", len(p.buf)).Int("length", len(buffer)).Msg("buffer doesn't extend the stream, starting over")
		p.Reset()
	}
	p.buf = buffer

	s := &scanner{p: p, src: buffer, final: final, stableEnd: p.stableEnd}
	s.run(p.stableEnd)

	parts := make([]Part, 0, len(p.stable)+len(s.parts))
	parts = append(parts, p.stable...)
	parts = append(parts, s.parts...)

	if s.stable > 0 {
		p.stable = append(p.stable, s.parts[:s.stable]...)
		p.stableEnd = s.stableEnd
	}
	return parts
}

func (p *Parser) id(name string, offset int) string {
	key := tagKey{name, offset}
	if id, ok := p.ids[key]; ok {
		return id
	}
	id := p.newID(name, offset)
	p.ids[key] = id
	return id
}

func offsetID(name string, offset int) string {
	return name + "-" + strconv.Itoa(offset)
}
