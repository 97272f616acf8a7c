package writer

import (
	"fmt"
	"io"
	"unicode"
)

// wrapper breaks lines at the line width, moving a short word that doesn't fit
// to the next line.
type wrapper struct {
	out   io.Writer
	width int
	// live means every character is printed as soon as it's put, so moving a
	// word means erasing it with escape codes. Otherwise a word is held until
	// it's complete.
	live bool

	lineLength int
	word       []rune
}

func (l *wrapper) put(r rune) {
	if r == '\n' {
		l.flush()
		l.newline()
		return
	}
	if unicode.IsSpace(r) {
		l.flush()
		if l.lineLength >= l.width {
			// If whitespace is what causes the line to break, don't print it.
			l.newline()
			return
		}
		fmt.Fprint(l.out, string(r))
		l.lineLength++
		return
	}
	if l.lineLength >= l.width {
		if n := len(l.word); n > 0 && n < l.width/2 {
			// Move the current word to the next line.
			if l.live {
				fmt.Fprintf(l.out, "\033[%dD\033[K\n%s", n, string(l.word))
			} else {
				fmt.Fprintln(l.out)
			}
			l.lineLength = n
		} else {
			l.flush()
			l.newline()
		}
	}
	l.word = append(l.word, r)
	if l.live {
		fmt.Fprint(l.out, string(r))
	}
	l.lineLength++
}

// flush ends the current word.
func (l *wrapper) flush() {
	if !l.live && len(l.word) > 0 {
		fmt.Fprint(l.out, string(l.word))
	}
	l.word = l.word[:0]
}

func (l *wrapper) newline() {
	fmt.Fprintln(l.out)
	l.lineLength = 0
}
