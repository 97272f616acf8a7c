package spinner

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Animation []rune

var (
	Breathe = Animation("▉▊▋▌▍▎▏▎▍▌▋▊▉")
	Dots1   = Animation("⣾⣽⣻⢿⡿⣟⣯⣷")
	Dots2   = Animation("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
)

// Interval is the time between two frames.
const Interval = 100 * time.Millisecond

func (a Animation) New(out io.Writer) *Spinner {
	return New(a, out)
}

// Spinner animates a single terminal line, optionally followed by a label
// such as the tool call currently streaming.
type Spinner struct {
	out     io.Writer
	frames  []rune
	current int
	label   string
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

func New(frames []rune, out io.Writer) *Spinner {
	return &Spinner{
		out:    out,
		frames: frames,
		done:   make(chan struct{}),
	}
}

// SetLabel sets a label to show after the spinner. Set to an empty string to
// hide the label again.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
	s.draw()
}

// Label returns the current label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// draw must be called with s.mu held.
func (s *Spinner) draw() {
	if s.stopped {
		return
	}
	frame := string(s.frames[s.current])
	if s.label != "" {
		fmt.Fprintf(s.out, "\r\033[K%s %s", frame, s.label)
	} else {
		fmt.Fprintf(s.out, "\r\033[K%s", frame)
	}
}

// Start starts animating the spinner until Stop is called.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.draw()
	s.mu.Unlock()
	ticker := time.NewTicker(Interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				s.current = (s.current + 1) % len(s.frames)
				s.draw()
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and clears its line. Calling Stop more than once is
// a no-op.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()
	fmt.Fprint(s.out, "\r\033[K")
}
