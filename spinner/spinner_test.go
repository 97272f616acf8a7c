package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	var out lockedBuffer
	s := Dots2.New(&out)
	s.Start()
	s.SetLabel("Creating file main.go")
	assert.Equal(t, "Creating file main.go", s.Label())
	time.Sleep(Interval * 2)
	s.Stop()
	s.Stop()

	output := out.String()
	assert.True(t, strings.HasPrefix(output, "\r\033[K⠋"))
	assert.Contains(t, output, " Creating file main.go")
	assert.True(t, strings.HasSuffix(output, "\r\033[K"))

	// Nothing is drawn after the spinner stopped.
	s.SetLabel("late")
	assert.NotContains(t, out.String(), "late")
}
