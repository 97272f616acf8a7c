package writer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	Print(&out, "hello\nworld")
	assert.Equal(t, "hello\nworld\n", out.String())
}

func TestWrap(t *testing.T) {
	var out bytes.Buffer
	Print(&out, "aaaaaa bbbb", WithWidth(10))
	assert.Equal(t, "aaaaaa \nbbbb\n", out.String())

	out.Reset()
	Print(&out, "hello world this is a long line of text", WithWidth(20))
	assert.Equal(t, "hello world this is \na long line of text\n", out.String())

	// Words too long to move are broken where the line ends.
	out.Reset()
	Print(&out, "abcdefghijklmnop", WithWidth(10))
	assert.Equal(t, "abcdefghij\nklmnop\n", out.String())
}

func TestTasks(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, WithoutDelay())
	go func() {
		defer w.Done()
		fmt.Fprint(w, "Writing it down.\n")
		w.SetTask("Creating file notes.txt")
		fmt.Fprint(w, "✅ Creating file notes.txt")
		w.SetTask("")
	}()
	w.StartAndWait()
	assert.Equal(t, "Writing it down.\n✅ Creating file notes.txt\n", out.String())
	assert.False(t, strings.Contains(out.String(), "\033["))
}
