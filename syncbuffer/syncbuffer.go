package syncbuffer

import (
	"io"
	"sync"
	"unicode/utf8"
)

// SyncBuffer is a thread-safe circular buffer that carries the text of a
// stream from the goroutine receiving it to the goroutine parsing it. Writes
// block while the buffer is full, and reads return whatever is pending.
type SyncBuffer struct {
	buf  []byte
	size int
	rpos int // read position
	wpos int // write position
	mu   sync.Mutex
	cond *sync.Cond
	// err is returned by Read once the buffer is closed and drained.
	err    error
	closed bool
}

// New creates a new SyncBuffer that holds up to limit bytes.
func New(limit int) *SyncBuffer {
	if limit < utf8.UTFMax {
		limit = utf8.UTFMax
	}
	// Create the buffer with one extra byte since rpos and wpos can never be
	// the same while reading and writing, meaning in reality that byte position
	// cannot be used.
	size := limit + 1
	sb := &SyncBuffer{
		buf:  make([]byte, size),
		size: size,
	}
	sb.cond = sync.NewCond(&sb.mu)
	return sb
}

// Size returns the number of bytes the buffer can hold.
func (sb *SyncBuffer) Size() int {
	return sb.size - 1
}

// Len returns the number of bytes waiting to be read.
func (sb *SyncBuffer) Len() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.used()
}

func (sb *SyncBuffer) used() int {
	return (sb.wpos - sb.rpos + sb.size) % sb.size
}

// Write writes data to the buffer, blocking until all of it fits.
func (sb *SyncBuffer) Write(p []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	totalWritten := 0
	for totalWritten < len(p) {
		if sb.closed {
			return totalWritten, io.ErrClosedPipe
		}

		spaceLeft := sb.size - sb.used() - 1
		if spaceLeft == 0 {
			sb.cond.Wait()
			continue
		}

		toWrite := min(len(p)-totalWritten, spaceLeft)
		end := sb.wpos + toWrite
		if end <= sb.size {
			copy(sb.buf[sb.wpos:end], p[totalWritten:totalWritten+toWrite])
		} else {
			part1 := sb.size - sb.wpos
			copy(sb.buf[sb.wpos:], p[totalWritten:totalWritten+part1])
			copy(sb.buf[0:toWrite-part1], p[totalWritten+part1:totalWritten+toWrite])
		}

		sb.wpos = (sb.wpos + toWrite) % sb.size
		totalWritten += toWrite
		sb.cond.Broadcast()
	}
	if sb.closed {
		return totalWritten, io.ErrClosedPipe
	}
	return totalWritten, nil
}

// WriteString is like Write but takes a string.
func (sb *SyncBuffer) WriteString(s string) (int, error) {
	return sb.Write([]byte(s))
}

// Read waits for data and then reads as much of it as fits in p. It avoids
// ending on half of a multi-byte character when the rest of the character
// can be returned by a later Read. If p is too short to hold a whole
// character, the character is split across reads.
func (sb *SyncBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	for {
		available := sb.used()
		if available == 0 && sb.closed {
			if sb.err != nil {
				return 0, sb.err
			}
			return 0, io.EOF
		}
		// Wait for the rest of a character unless the buffer is closed.
		if available > 0 && (sb.closed || !sb.partialRune()) {
			break
		}
		sb.cond.Wait()
	}

	available := sb.used()
	n := sb.peek(p[:min(len(p), available)])
	if n < available || !sb.closed {
		if cut := incompleteSuffix(p[:n]); cut < n {
			n -= cut
		}
	}

	sb.rpos = (sb.rpos + n) % sb.size
	sb.cond.Broadcast()
	return n, nil
}

// peek copies len(p) buffered bytes into p without consuming them.
func (sb *SyncBuffer) peek(p []byte) int {
	n := len(p)
	end := sb.rpos + n
	if end <= sb.size {
		copy(p, sb.buf[sb.rpos:end])
	} else {
		part1 := sb.size - sb.rpos
		copy(p[:part1], sb.buf[sb.rpos:])
		copy(p[part1:], sb.buf[0:n-part1])
	}
	return n
}

// partialRune reports whether everything buffered is the start of a single
// multi-byte character.
func (sb *SyncBuffer) partialRune() bool {
	available := sb.used()
	if available >= utf8.UTFMax {
		return false
	}
	var tmp [utf8.UTFMax]byte
	sb.peek(tmp[:available])
	return incompleteSuffix(tmp[:available]) == available
}

// Close closes the buffer from being written to, and makes Read return io.EOF
// once the remaining data has been read.
func (sb *SyncBuffer) Close() error {
	return sb.CloseWithError(nil)
}

// CloseWithError is like Close, but Read returns err instead of io.EOF. Only
// the first close takes effect.
func (sb *SyncBuffer) CloseWithError(err error) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.closed {
		sb.closed = true
		sb.err = err
	}
	sb.cond.Broadcast()
	return nil
}

// incompleteSuffix returns the length of a UTF-8 sequence at the end of b that
// is missing bytes.
func incompleteSuffix(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}
