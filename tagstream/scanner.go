package tagstream

import (
	"strings"

	"github.com/blixt/tagstream/tool"
)

type nameMatch int

const (
	nameNone nameMatch = iota
	nameFound
	// namePending means the buffer ends in what could still become a known
	// tag name.
	namePending
)

// scanner does a single left to right pass over the unstable tail of a
// parser's buffer.
type scanner struct {
	p     *Parser
	src   string
	final bool

	parts []Part
	// stable is the number of leading parts that can't change anymore, and
	// stableEnd is the offset right after them.
	stable    int
	stableEnd int
}

func (s *scanner) run(start int) {
	src := s.src
	textStart, i := start, start
	for {
		j := strings.IndexByte(src[i:], '<')
		if j < 0 {
			break
		}
		j += i
		name, nameEnd, match := s.matchName(j)
		if match == nameNone {
			if s.startsWithName(j) {
				// A shorter buffer ending right after the known name reported
				// a tag here, so the text before it has to stay its own part.
				s.text(textStart, j)
				textStart = j
			}
			i = j + 1
			continue
		}
		if match == namePending {
			s.text(textStart, j)
			return
		}

		h := s.scanHead(nameEnd)
		if h.status == headMalformed {
			s.p.log.Debug().Str("tag", name).Int("offset", j).Msg("stray < in opening tag, treating it as text")
			// The would-be tag starts a new text part, so the text before it
			// stays the same as when the tag was still streaming.
			s.text(textStart, j)
			textStart, i = j, h.end
			continue
		}
		if h.skipped > 0 {
			s.p.log.Debug().Str("tag", name).Int("offset", j).Int("skipped", h.skipped).Msg("skipped malformed attribute syntax")
		}

		s.text(textStart, j)
		tag := &Tag{
			ID:         s.p.id(name, j),
			Name:       name,
			Attributes: h.attrs,
			Offset:     j,
		}
		switch h.status {
		case headOpen:
			tag.State = StateOpening
			tag.End = len(src)
			s.tag(tag)
			return
		case headSelfClosed:
			tag.State, tag.IsComplete, tag.End = StateClosed, true, h.end
		case headClosed:
			closeStart, closeEnd := indexClose(src, h.end, name)
			if closeStart < 0 {
				body := src[h.end:]
				if !s.final {
					body = trimPartialClose(body, name)
					if s.p.unescape {
						body = trimPartialEscape(body)
					}
				}
				tag.State = StateStreaming
				tag.Content = s.decode(body)
				tag.End = len(src)
				s.tag(tag)
				return
			}
			tag.State, tag.IsComplete, tag.End = StateClosed, true, closeEnd
			tag.Content = s.decode(src[h.end:closeStart])
		}
		s.tag(tag)
		s.stable, s.stableEnd = len(s.parts), tag.End
		textStart, i = tag.End, tag.End
	}
	end := len(src)
	if !s.final && s.p.unescape {
		end = textStart + len(trimPartialEscape(src[textStart:]))
	}
	s.text(textStart, end)
}

// matchName checks whether the "<" at offset j starts a known tag. It returns
// the canonical name and the offset right after the name.
func (s *scanner) matchName(j int) (string, int, nameMatch) {
	src := s.src
	k := j + 1
	for k < len(src) && tool.IsNameByte(src[k]) {
		k++
	}
	name := src[j+1 : k]
	if k == len(src) {
		if !s.final {
			if s.p.tools.HasPrefix(name) {
				return "", 0, namePending
			}
			return "", 0, nameNone
		}
	} else if c := src[k]; !isSpace(c) && c != '>' && c != '/' {
		return "", 0, nameNone
	}
	def, ok := s.p.tools.Get(name)
	if !ok {
		return "", 0, nameNone
	}
	return def.Name, k, nameFound
}

// startsWithName reports whether the name after the "<" at j begins with a
// known tag name, as in "<notifyx" or "<notify<".
func (s *scanner) startsWithName(j int) bool {
	src := s.src
	k := j + 1
	for k < len(src) && tool.IsNameByte(src[k]) {
		k++
	}
	for end := k; end > j+1; end-- {
		if _, ok := s.p.tools.Get(src[j+1 : end]); ok {
			return true
		}
	}
	return false
}

// text appends the literal text between from and to as a new part.
func (s *scanner) text(from, to int) {
	if from >= to {
		return
	}
	s.parts = append(s.parts, &Text{Text: s.decode(s.src[from:to])})
}

func (s *scanner) tag(tag *Tag) {
	if def, ok := s.p.tools.Get(tag.Name); ok {
		for _, attr := range def.PathAttributes {
			if path := tag.Attributes[attr]; path != "" {
				tag.File = &File{Path: path, Body: tag.Content}
				break
			}
		}
	}
	s.parts = append(s.parts, tag)
}

func (s *scanner) decode(raw string) string {
	if !s.p.unescape {
		return raw
	}
	return Unescape(raw)
}

// indexClose finds the first closing tag for name at or after from, ignoring
// case and allowing whitespace before the ">". It returns the offsets of its
// "<" and of the byte after its ">", or -1 for both.
func indexClose(src string, from int, name string) (int, int) {
	for i := from; ; {
		k := strings.Index(src[i:], "</")
		if k < 0 {
			return -1, -1
		}
		k += i
		n := k + 2
		if n+len(name) <= len(src) && strings.EqualFold(src[n:n+len(name)], name) {
			if e := skipSpace(src, n+len(name)); e < len(src) && src[e] == '>' {
				return k, e + 1
			}
		}
		i = n
	}
}

// trimPartialClose drops a trailing prefix of the closing tag for name from
// body, so content doesn't briefly show "</na" before the tag closes.
func trimPartialClose(body, name string) string {
	lt := strings.LastIndexByte(body, '<')
	if lt < 0 {
		return body
	}
	rest := body[lt+1:]
	if rest == "" {
		return body[:lt]
	}
	if rest[0] != '/' {
		return body
	}
	rest = rest[1:]
	if len(rest) <= len(name) {
		if strings.EqualFold(rest, name[:len(rest)]) {
			return body[:lt]
		}
		return body
	}
	if strings.EqualFold(rest[:len(name)], name) && skipSpace(rest, len(name)) == len(rest) {
		return body[:lt]
	}
	return body
}
