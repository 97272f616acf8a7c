package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/blixt/tagstream/stream"
	"github.com/blixt/tagstream/tagstream"
	"github.com/blixt/tagstream/tool"
	"github.com/blixt/tagstream/writer"
)

// renderer prints stream updates with a typewriter effect, showing a spinner
// labelled with the tool call while one is streaming.
type renderer struct {
	w     *writer.Writer
	tools *tool.Toolbox
	log   zerolog.Logger

	hasAddedText bool
	hasAddedTool bool
	// labels holds the task label of every tag that started but isn't done,
	// and open holds their IDs in start order.
	labels map[string]string
	open   []string
}

// render prints the updates of st to out and returns once the stream is over
// and everything has been printed.
func render(out io.Writer, st *stream.Stream, tools *tool.Toolbox, log zerolog.Logger, opts ...writer.Option) error {
	r := &renderer{
		w:      writer.New(out, opts...),
		tools:  tools,
		log:    log,
		labels: make(map[string]string),
	}
	go func() {
		defer r.w.Done()
		st.Iter()(func(u stream.Update) bool {
			r.update(u)
			return true
		})
		r.finish()
	}()
	r.w.StartAndWait()
	return st.Err()
}

func (r *renderer) update(u stream.Update) {
	switch u := u.(type) {
	case stream.TextUpdate:
		if u.Replaced {
			// Printed text can't be taken back.
			r.log.Debug().Int("index", u.Index).Msg("text was replaced")
			return
		}
		text := u.Delta
		if r.hasAddedTool {
			text = strings.TrimLeft(text, " \t\r\n")
			if text == "" {
				return
			}
			fmt.Fprint(r.w, "\n\n")
			r.hasAddedTool = false
		}
		fmt.Fprint(r.w, text)
		r.hasAddedText = true
	case stream.ToolStartUpdate:
		if r.hasAddedTool {
			fmt.Fprint(r.w, "\n")
		} else if r.hasAddedText {
			fmt.Fprint(r.w, "\n\n")
		}
		r.hasAddedTool = true
		r.hasAddedText = false
		r.setTask(u.Tag)
	case stream.ToolDataUpdate:
		r.setTask(u.Tag)
	case stream.ToolDoneUpdate:
		r.w.SetTask("")
		fmt.Fprintf(r.w, "✅ %s", taskLabel(r.tools, u.Tag))
		r.forget(u.Tag.ID)
	case stream.ToolDroppedUpdate:
		r.w.SetTask("")
		r.forget(u.ID)
	case stream.ErrorUpdate:
		r.w.SetTask("")
		fmt.Fprintf(r.w, "\n❌ %s", u.Error)
	default:
		panic(fmt.Sprintf("unhandled update type: %q", u.Type()))
	}
}

func (r *renderer) setTask(tag *tagstream.Tag) {
	label := taskLabel(r.tools, tag)
	prev, ok := r.labels[tag.ID]
	if ok && prev == label {
		return
	}
	if !ok {
		r.open = append(r.open, tag.ID)
	}
	r.labels[tag.ID] = label
	r.w.SetTask(label)
}

func (r *renderer) forget(id string) {
	if _, ok := r.labels[id]; !ok {
		return
	}
	delete(r.labels, id)
	r.open = slices.DeleteFunc(r.open, func(open string) bool { return open == id })
}

// finish reports the tool calls that never closed.
func (r *renderer) finish() {
	if len(r.labels) == 0 {
		return
	}
	r.w.SetTask("")
	for _, id := range r.open {
		fmt.Fprintf(r.w, "\n⚠️ %s (incomplete)", r.labels[id])
	}
}

// taskLabel describes what a tool call is doing, e.g. "Creating file main.go".
func taskLabel(tools *tool.Toolbox, tag *tagstream.Tag) string {
	def, ok := tools.Get(tag.Name)
	if !ok {
		return tag.Name
	}
	label := def.DisplayLabel()
	if tag.File != nil {
		return label + " " + tag.File.Path
	}
	switch def.Kind {
	case tool.KindCommand, tool.KindSearch:
		line, _, _ := strings.Cut(strings.TrimSpace(tag.Content), "\n")
		if line == "" {
			return label
		}
		if len([]rune(line)) > 40 {
			line = string([]rune(line)[:39]) + "…"
		}
		return label + ": " + line
	}
	return label
}
