package writer

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/blixt/tagstream/spinner"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	greenColor = "\033[32m"
	resetColor = "\033[0m"

	maxLineWidth = 100
)

// Writer prints text like a typewriter, wrapping words at the line width and
// showing a spinner while a task is running. On a terminal, text shows up one
// character at a time. Otherwise it's written a word at a time without any
// escape codes.
type Writer struct {
	out   io.Writer
	width int
	live  bool
	delay bool

	index  int
	stream []rune
	done   bool
	mu     sync.Mutex
	wg     sync.WaitGroup
	cond   *sync.Cond

	taskLabel string
	taskIndex int
}

type Option func(*Writer)

// WithWidth sets the line width instead of using the terminal's.
func WithWidth(width int) Option {
	return func(w *Writer) {
		w.width = width
	}
}

// WithoutDelay prints text as soon as it's available.
func WithoutDelay() Option {
	return func(w *Writer) {
		w.delay = false
	}
}

func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out, delay: true}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w.live = true
		w.width = maxLineWidth
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width < w.width {
			w.width = width
		}
	} else {
		w.width = maxLineWidth
		w.delay = false
	}
	for _, opt := range opts {
		opt(w)
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Print writes a whole message and waits for it to be printed.
func Print(out io.Writer, message string, opts ...Option) {
	w := New(out, opts...)
	fmt.Fprint(w, message)
	w.Done()
	w.StartAndWait()
}

// StartAndWait takes over the output, hiding the cursor, showing a spinner
// until there's text, and then printing text until Done is called and all of
// it has been printed.
func (w *Writer) StartAndWait() {
	var sp *spinner.Spinner
	startSpinner := func(label string) {
		if !w.live {
			return
		}
		if sp == nil {
			sp = spinner.Dots1.New(w.out)
			sp.Start()
		}
		sp.SetLabel(label)
	}
	stopSpinner := func() {
		if sp != nil {
			sp.Stop()
			sp = nil
		}
	}

	if w.live {
		fmt.Fprint(w.out, hideCursor, greenColor)
	}
	startSpinner("")
	wrap := &wrapper{out: w.out, width: w.width, live: w.live}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		var lastSeenTask string
		for {
			w.mu.Lock()
			// Keep rechecking the values until we have at least one character
			// to output, a task to update, or we are done.
			for w.index == len(w.stream) && !w.done && w.taskLabel == lastSeenTask {
				w.cond.Wait()
			}

			if w.index == len(w.stream) && w.done {
				w.mu.Unlock()
				stopSpinner()
				break
			}

			// If we have a task and we're at the task index, show a spinner for it.
			if w.taskLabel != lastSeenTask && w.index == w.taskIndex {
				lastSeenTask = w.taskLabel
				w.mu.Unlock()
				if lastSeenTask != "" {
					startSpinner(lastSeenTask)
				}
				continue
			}

			next := w.stream[w.index]
			w.index++
			remaining := len(w.stream) - w.index
			w.mu.Unlock()

			stopSpinner()
			wrap.put(next)

			if w.delay {
				// Sleep between each character, speeding up output if there's a lot remaining.
				ms := 5 + 35*math.Exp(-0.005*float64(remaining))
				time.Sleep(time.Duration(math.Max(ms, 5)) * time.Millisecond)
			}
		}
	}()
	w.wg.Wait()
	wrap.flush()
	if w.live {
		fmt.Fprint(w.out, resetColor, showCursor)
	}
	fmt.Fprintln(w.out)
}

func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return 0, io.EOF
	}
	w.stream = append(w.stream, []rune(string(p))...)
	w.cond.Broadcast()
	return len(p), nil
}

// Done marks the end of the text. StartAndWait returns once everything has
// been printed.
func (w *Writer) Done() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done = true
	w.cond.Broadcast()
}

// SetTask shows label next to the spinner once all text written so far has
// been printed. An empty label ends the task.
func (w *Writer) SetTask(label string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		panic("Cannot set task after the writer is done")
	}
	w.taskLabel = label
	w.taskIndex = len(w.stream)
	w.cond.Broadcast()
}
