package tagstream

import "strings"

// Unescape decodes the backslash escapes that the upstream transport leaves in
// payload strings: \n, \", \' and \\. Any other backslash is kept as is.
func Unescape(s string) string {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch next := s[i+1]; next {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '"', '\'', '\\':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// trimPartialEscape drops a trailing backslash that starts an escape sequence
// whose second character hasn't arrived yet.
func trimPartialEscape(s string) string {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	if n%2 == 1 {
		return s[:len(s)-1]
	}
	return s
}
