package tagstream

import "strings"

type headStatus int

const (
	// headOpen means the buffer ended before the opening tag did.
	headOpen headStatus = iota
	headClosed
	headSelfClosed
	// headMalformed means an unquoted "<" showed up inside the opening tag,
	// which usually means the model started writing something else.
	headMalformed
)

// head is the result of scanning the attributes of an opening tag.
type head struct {
	attrs  map[string]string
	status headStatus
	// end is the offset just past the opening tag. For headOpen it is the
	// length of the buffer, and for headMalformed it is the offset of the stray
	// "<".
	end int
	// skipped counts the bytes that couldn't be understood as attribute syntax.
	skipped int
}

// scanHead tokenizes the attributes of an opening tag, starting right after
// the tag name. Attribute values may be double quoted, single quoted, quoted
// with transport-escaped quotes (\"...\") or bare.
func (s *scanner) scanHead(i int) head {
	src := s.src
	h := head{attrs: make(map[string]string)}
	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			h.end = len(src)
			return h
		}
		switch src[i] {
		case '>':
			h.status, h.end = headClosed, i+1
			return h
		case '/':
			if i+1 == len(src) {
				h.end = len(src)
				return h
			}
			if src[i+1] == '>' {
				h.status, h.end = headSelfClosed, i+2
				return h
			}
			h.skipped++
			i++
			continue
		case '<':
			h.status, h.end = headMalformed, i
			return h
		}
		if !isKeyByte(src[i]) {
			h.skipped++
			i++
			continue
		}
		start := i
		for i < len(src) && isKeyByte(src[i]) {
			i++
		}
		key := src[start:i]
		j := skipSpace(src, i)
		if j >= len(src) || src[j] != '=' {
			// An attribute without a value.
			h.attrs[key] = ""
			i = j
			continue
		}
		value, next, ok := s.scanValue(skipSpace(src, j+1))
		h.attrs[key] = value
		if !ok {
			h.end = len(src)
			return h
		}
		i = next
	}
}

// scanValue reads one attribute value starting at i. It returns the decoded
// value, the offset after it, and false if the buffer ended inside the value.
func (s *scanner) scanValue(i int) (string, int, bool) {
	src := s.src
	if i >= len(src) {
		return "", i, false
	}
	switch c := src[i]; {
	case c == '"' || c == '\'':
		for j := i + 1; j < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if src[j] == c {
				return s.decode(src[i+1 : j]), j + 1, true
			}
		}
		return s.decode(trimPartialEscape(src[i+1:])), len(src), false
	case c == '\\' && i+1 < len(src) && (src[i+1] == '"' || src[i+1] == '\''):
		delim := src[i : i+2]
		rest := src[i+2:]
		if k := strings.Index(rest, delim); k >= 0 {
			return s.decode(rest[:k]), i + 2 + k + len(delim), true
		}
		return s.decode(trimPartialEscape(rest)), len(src), false
	default:
		j := i
		for ; j < len(src); j++ {
			c := src[j]
			if isSpace(c) || c == '>' || c == '<' {
				break
			}
			if c == '/' && j+1 < len(src) && src[j+1] == '>' {
				break
			}
		}
		if j == len(src) {
			return s.decode(src[i:]), j, false
		}
		return s.decode(src[i:j]), j, true
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isKeyByte(c byte) bool {
	if isSpace(c) {
		return false
	}
	switch c {
	case '=', '<', '>', '/', '"', '\'', '\\', '`':
		return false
	}
	return true
}
